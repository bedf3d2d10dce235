package paths

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"tools.zach/dev/scriptpaths/internal/manifest"
)

// ///////////////////////////////////////////////
// Monorepo Collaborator
// ///////////////////////////////////////////////

// Monorepo describes the workspace an app belongs to.
type Monorepo struct {
	// Included reports whether the workspace globs cover the app directory.
	Included bool
	// PackageDirs are the sibling package directories, excluding the app.
	PackageDirs []string
	// UsesYarnWorkspace reports whether the workspace manifest declares
	// yarn workspaces.
	UsesYarnWorkspace bool
}

// MonorepoDetector finds the workspace enclosing an app directory.
type MonorepoDetector interface {
	Detect(appDir string) (Monorepo, error)
}

// ///////////////////////////////////////////////
// Inputs
// ///////////////////////////////////////////////

// Inputs carries everything [Resolve] reads. Process-global state (cwd,
// environment) is captured by the caller and passed in here.
type Inputs struct {
	// WorkingDir is the directory the build was invoked from.
	WorkingDir string
	// OwnRoot is the toolchain's installation root.
	OwnRoot string
	// OwnPackage is the toolchain's package name; defaults to DefaultOwnPackage.
	OwnPackage string
	// TemplateDir is the template location relative to OwnRoot; defaults to
	// DefaultTemplateDir.
	TemplateDir string
	// Env holds the environment overrides.
	Env Env
	// FS is the filesystem to probe; defaults to OSFS.
	FS FS
	// Monorepo detects workspace siblings; nil disables detection.
	Monorepo MonorepoDetector
}

// ///////////////////////////////////////////////
// ResolvedPaths
// ///////////////////////////////////////////////

// ResolvedPaths is the immutable path configuration for one process run.
// Every path is absolute.
type ResolvedPaths struct {
	Layout Layout

	WorkingDir  string
	AppPath     string
	Dotenv      string
	BuildDir    string
	PublicDir   string
	HTMLEntry   string
	EntryModule string
	PackageJSON string
	SourceDir   string
	TSConfig    string
	JSConfig    string
	YarnLock    string
	TestsSetup  string
	ProxySetup  string
	NodeModules string
	ExportIndex string

	AppTypeDeclarations string
	OwnPath             string
	OwnNodeModules      string
	OwnTypeDeclarations string

	// PublicURL is the raw PUBLIC_URL or homepage value; may be empty.
	PublicURL string
	// ServedPath is the URL path assets are served under; ends with "/".
	ServedPath string
	// LibName is the global identifier a library build is exported as,
	// derived from the working directory's manifest.
	LibName string
	// Name and Version are copied from the PackageJSON manifest.
	Name    string
	Version string

	// SourcePaths lists the directories compiled as first-party source.
	SourcePaths []string
	// UsesYarn reports whether yarn manages the project's dependencies.
	UsesYarn bool

	env            Env
	exportManifest *manifest.Manifest
}

// ExportServedPath returns the CDN URL a library build for the given
// environment is published under. It always ends with "/".
func (r *ResolvedPaths) ExportServedPath(isProduction bool) string {
	return ExportServedPath(r.env.CDNPrefix(isProduction), r.exportManifest, isProduction)
}

// ExportBuildDir returns the output directory of a library build for the
// given environment.
func (r *ResolvedPaths) ExportBuildDir(isProduction bool) string {
	if isProduction {
		return r.Layout.Work(ExportProductionDir)
	}
	return r.Layout.Work(ExportStagingDir)
}

// ///////////////////////////////////////////////
// Resolve
// ///////////////////////////////////////////////

// ErrNoWorkingDir is returned by [Resolve] when Inputs.WorkingDir is empty.
var ErrNoWorkingDir = errors.New("working directory not set")

// Resolve computes the [ResolvedPaths] for in. A missing package manifest is
// an error wrapping [fs.ErrNotExist]; every other absent file is simply
// reported by path.
func Resolve(in Inputs) (*ResolvedPaths, error) {
	fsys := in.FS
	if fsys == nil {
		fsys = OSFS{}
	}
	if in.WorkingDir == "" {
		return nil, ErrNoWorkingDir
	}

	wd, err := fsys.RealPath(in.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	ownRoot := ""
	if in.OwnRoot != "" {
		ownRoot, err = fsys.RealPath(in.OwnRoot)
		if err != nil {
			slog.Debug("toolchain root not resolvable, using it as given", "own_root", in.OwnRoot, "error", err)
			ownRoot = resolveFrom(wd, in.OwnRoot)
		}
	}

	ownPackage := in.OwnPackage
	if ownPackage == "" {
		ownPackage = DefaultOwnPackage
	}

	layout := DetectLayout(fsys, wd, ownRoot, ownPackage, in.TemplateDir)
	slog.Debug("detected layout", "mode", layout.Mode, "app_base", layout.AppBase, "own_root", layout.OwnRoot)

	template := layout.Mode == ModePrePublishTemplate

	pkgPath := layout.App(PackageJSONFile)
	if template {
		pkgPath = layout.Own(PackageJSONFile)
	}
	m, err := loadManifest(fsys, pkgPath)
	if err != nil {
		return nil, err
	}

	// Library exports always describe the project in the working directory,
	// even when the app files come from the toolchain's template.
	exportManifest := m
	exportIndex := layout.App(ExportIndexFile)
	if template {
		exportManifest, err = loadManifest(fsys, layout.Work(PackageJSONFile))
		if err != nil {
			return nil, err
		}
		exportIndex = layout.Work(ExportIndexFile)
	}

	r := &ResolvedPaths{
		Layout:              layout,
		WorkingDir:          wd,
		AppPath:             wd,
		Dotenv:              layout.App(DotenvFile),
		BuildDir:            buildDir(layout, in.Env.BuildPath),
		PublicDir:           layout.App(PublicDir),
		HTMLEntry:           layout.App(HTMLFile),
		EntryModule:         ResolveModule(fsys, layout.App, entryModule(in.Env.Module)),
		PackageJSON:         pkgPath,
		SourceDir:           layout.App(SourceDir),
		TSConfig:            layout.App(TSConfigFile),
		JSConfig:            layout.App(JSConfigFile),
		YarnLock:            layout.App(YarnLockFile),
		TestsSetup:          ResolveModule(fsys, layout.App, TestsSetupModule),
		ProxySetup:          layout.App(ProxySetupFile),
		NodeModules:         layout.App(NodeModulesDir),
		ExportIndex:         exportIndex,
		AppTypeDeclarations: layout.App(AppTypeDeclarations),
		OwnPath:             layout.Own("."),
		OwnNodeModules:      layout.Own(NodeModulesDir),
		OwnTypeDeclarations: layout.Own(OwnTypeDeclarations),
		PublicURL:           PublicURL(in.Env, m),
		ServedPath:          ServedPath(in.Env, m),
		LibName:             ToIdentifier(NormalizePackageName(exportManifest.Name)),
		Name:                m.Name,
		Version:             m.Version,
		env:                 in.Env,
		exportManifest:      exportManifest,
	}
	if template {
		r.NodeModules = layout.Own(NodeModulesDir)
	}

	r.SourcePaths = []string{r.SourceDir}
	r.UsesYarn = fsys.Exists(r.YarnLock)

	if template || in.Monorepo == nil {
		return r, nil
	}

	mono, err := in.Monorepo.Detect(wd)
	if err != nil {
		return nil, fmt.Errorf("detect monorepo: %w", err)
	}
	slog.Debug("monorepo detection", "included", mono.Included, "packages", len(mono.PackageDirs), "yarn_workspace", mono.UsesYarnWorkspace)
	if mono.Included {
		r.SourcePaths = append(r.SourcePaths, mono.PackageDirs...)
	}
	r.UsesYarn = r.UsesYarn || mono.UsesYarnWorkspace

	return r, nil
}

// loadManifest reads and decodes the package manifest at path.
func loadManifest(fsys FS, path string) (*manifest.Manifest, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read package manifest: %w", err)
	}
	m, err := manifest.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse package manifest %s: %w", path, err)
	}
	return m, nil
}

// buildDir resolves the build output directory. In template mode the build
// lands at the root of the toolchain's repository.
func buildDir(l Layout, override string) string {
	rel := BuildDir
	if override != "" {
		rel = override
	}
	if l.Mode == ModePrePublishTemplate {
		return resolveFrom(l.Own(filepath.Join("..", "..")), rel)
	}
	return l.App(rel)
}

// entryModule returns the extensionless entry module path.
func entryModule(module string) string {
	if module == "" {
		return IndexModule
	}
	return fmt.Sprintf(DevModuleEntryFormat, module)
}
