package paths

import (
	"fmt"
	"path/filepath"
)

// ///////////////////////////////////////////////
// Mode
// ///////////////////////////////////////////////

// Mode is the operating mode selected from the directory layout at startup.
type Mode int

const (
	// ModeNormal: the toolchain is installed in the app's node_modules.
	ModeNormal Mode = iota
	// ModePreInstallLinked: node_modules/<toolchain> is a symlink, e.g. a
	// linked local checkout.
	ModePreInstallLinked
	// ModePrePublishTemplate: running from the toolchain's own repository,
	// building its bundled template.
	ModePrePublishTemplate
)

// String returns the CLI name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModePreInstallLinked:
		return "pre-install-linked"
	case ModePrePublishTemplate:
		return "pre-publish-template"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// MarshalText implements [encoding.TextMarshaler].
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// ///////////////////////////////////////////////
// Layout
// ///////////////////////////////////////////////

// Layout is the selected mode together with the directories paths resolve
// against.
type Layout struct {
	// Mode is the detected operating mode.
	Mode Mode
	// AppBase is the directory app files (src, public, ...) live in: the
	// working directory, or the template directory in ModePrePublishTemplate.
	AppBase string
	// WorkingDir is the symlink-resolved working directory.
	WorkingDir string
	// OwnRoot is the toolchain's installation root.
	OwnRoot string
}

// App resolves rel against the app base.
func (l Layout) App(rel string) string { return resolveFrom(l.AppBase, rel) }

// Work resolves rel against the working directory.
func (l Layout) Work(rel string) string { return resolveFrom(l.WorkingDir, rel) }

// Own resolves rel against the toolchain root.
func (l Layout) Own(rel string) string { return resolveFrom(l.OwnRoot, rel) }

// resolveFrom joins rel onto base. An absolute rel wins, as with a shell cd.
func resolveFrom(base, rel string) string {
	if filepath.IsAbs(rel) {
		return filepath.Clean(rel)
	}
	return filepath.Join(base, filepath.FromSlash(rel))
}

// DetectLayout picks exactly one mode for the given working directory and
// toolchain root. Both must already be absolute and symlink-resolved.
//
//   - node_modules/<ownPackage> under wd is a symlink: ModePreInstallLinked,
//     with OwnRoot moved to the link target.
//   - ownRoot is <repo>/packages/<name> and wd is <repo>:
//     ModePrePublishTemplate, with AppBase at ownRoot/templateDir.
//   - otherwise ModeNormal.
func DetectLayout(fsys FS, wd, ownRoot, ownPackage, templateDir string) Layout {
	l := Layout{Mode: ModeNormal, AppBase: wd, WorkingDir: wd, OwnRoot: ownRoot}

	link := filepath.Join(wd, NodeModulesDir, filepath.FromSlash(ownPackage))
	if fsys.IsSymlink(link) {
		l.Mode = ModePreInstallLinked
		if target, err := fsys.RealPath(link); err == nil {
			l.OwnRoot = target
		}
		return l
	}

	if isOwnCheckout(wd, ownRoot) {
		if templateDir == "" {
			templateDir = DefaultTemplateDir
		}
		l.Mode = ModePrePublishTemplate
		l.AppBase = resolveFrom(ownRoot, templateDir)
	}
	return l
}

// isOwnCheckout reports whether ownRoot sits at <wd>/packages/<name>.
func isOwnCheckout(wd, ownRoot string) bool {
	if ownRoot == "" {
		return false
	}
	pkgs := filepath.Dir(ownRoot)
	return filepath.Base(pkgs) == "packages" && filepath.Dir(pkgs) == wd
}
