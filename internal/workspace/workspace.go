// Package workspace detects the yarn/npm workspace an app lives in, so
// sibling packages can be compiled as first-party source.
package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"tools.zach/dev/scriptpaths/internal/manifest"
	"tools.zach/dev/scriptpaths/internal/paths"
)

// Detector implements [paths.MonorepoDetector] on the host filesystem.
type Detector struct {
	// Ignore lists doublestar patterns, relative to the workspace root, of
	// package directories to leave out.
	Ignore []string
}

var _ paths.MonorepoDetector = Detector{}

// Detect walks up from the parent of appDir to the nearest package.json that
// declares workspaces, expands its globs and reports whether appDir is one of
// the matched packages. appDir must be absolute and symlink-resolved. No
// enclosing workspace yields a zero [paths.Monorepo].
func (d Detector) Detect(appDir string) (paths.Monorepo, error) {
	root, m, err := FindRoot(filepath.Dir(appDir))
	if err != nil {
		return paths.Monorepo{}, err
	}
	if m == nil {
		return paths.Monorepo{}, nil
	}

	pkgs, err := d.Packages(root, m.Workspaces.Packages)
	if err != nil {
		return paths.Monorepo{}, err
	}

	mono := paths.Monorepo{UsesYarnWorkspace: true}
	for _, dir := range pkgs {
		if dir == appDir {
			mono.Included = true
			continue
		}
		mono.PackageDirs = append(mono.PackageDirs, dir)
	}
	slog.Debug("workspace found", "root", root, "packages", len(pkgs), "app_included", mono.Included)
	return mono, nil
}

// FindRoot returns the directory and manifest of the nearest package.json at
// or above start that declares workspaces. It returns "", nil, nil when there
// is none.
func FindRoot(start string) (string, *manifest.Manifest, error) {
	dir := start
	for {
		m, err := manifest.Load(filepath.Join(dir, paths.PackageJSONFile))
		switch {
		case err == nil && m.Workspaces != nil:
			return dir, m, nil
		case err != nil && !errors.Is(err, fs.ErrNotExist):
			return "", nil, fmt.Errorf("find workspace root: %w", err)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil, nil
		}
		dir = parent
	}
}

// Packages expands workspace patterns under root into absolute,
// symlink-resolved package directories, in pattern order. A match counts only
// when it contains a package.json and lies outside node_modules. Patterns
// starting with "!" exclude matches, as do the Detector's Ignore patterns.
func (d Detector) Packages(root string, patterns []string) ([]string, error) {
	var include, exclude []string
	for _, p := range patterns {
		if neg, ok := strings.CutPrefix(p, "!"); ok {
			exclude = append(exclude, cleanPattern(neg))
			continue
		}
		include = append(include, cleanPattern(p))
	}
	for _, p := range d.Ignore {
		exclude = append(exclude, cleanPattern(p))
	}

	rootFS := os.DirFS(root)
	var out []string
	for _, pattern := range include {
		matches, err := doublestar.Glob(rootFS, pattern)
		if err != nil {
			return nil, fmt.Errorf("expand workspace pattern %q: %w", pattern, err)
		}
		sort.Strings(matches)

		for _, match := range matches {
			if inNodeModules(match) || excluded(match, exclude) {
				continue
			}
			if _, err := fs.Stat(rootFS, path.Join(match, paths.PackageJSONFile)); err != nil {
				continue
			}
			dir, err := filepath.EvalSymlinks(filepath.Join(root, filepath.FromSlash(match)))
			if err != nil {
				slog.Debug("skipping unresolvable workspace package", "path", match, "error", err)
				continue
			}
			if !slices.Contains(out, dir) {
				out = append(out, dir)
			}
		}
	}
	return out, nil
}

// cleanPattern converts a package.json workspace glob to the slash-separated,
// root-relative form fs.FS expects.
func cleanPattern(p string) string {
	p = strings.TrimPrefix(filepath.ToSlash(p), "./")
	return strings.TrimSuffix(path.Clean(p), "/")
}

func inNodeModules(rel string) bool {
	return slices.Contains(strings.Split(rel, "/"), paths.NodeModulesDir)
}

func excluded(rel string, patterns []string) bool {
	for _, p := range patterns {
		matched, err := doublestar.Match(p, rel)
		if err != nil {
			slog.Warn("invalid workspace ignore pattern", "pattern", p, "error", err)
			continue
		}
		if matched {
			return true
		}
	}
	return false
}
