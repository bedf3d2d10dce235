package paths

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

// fakeDetector records calls and returns a canned result.
type fakeDetector struct {
	result Monorepo
	err    error
	calls  []string
}

func (f *fakeDetector) Detect(appDir string) (Monorepo, error) {
	f.calls = append(f.calls, appDir)
	return f.result, f.err
}

const appManifest = `{"name": "@ehrocks/widget", "version": "2.0.0", "homepage": "https://x.com/sub"}`

func appFS() *memFS {
	return newMemFS().
		add("/work/app/package.json", appManifest).
		add("/work/app/src/index.tsx", "").
		add("/work/app/src/setupTests.ts", "")
}

func TestResolveNormal(t *testing.T) {
	r, err := Resolve(Inputs{
		WorkingDir: "/work/app",
		OwnRoot:    "/work/app/node_modules/react-scripts",
		FS:         appFS(),
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	tests := []struct {
		field, got, want string
	}{
		{"AppPath", r.AppPath, "/work/app"},
		{"Dotenv", r.Dotenv, "/work/app/.env"},
		{"BuildDir", r.BuildDir, "/work/app/build"},
		{"PublicDir", r.PublicDir, "/work/app/public"},
		{"HTMLEntry", r.HTMLEntry, "/work/app/public/index.html"},
		{"EntryModule", r.EntryModule, "/work/app/src/index.tsx"},
		{"PackageJSON", r.PackageJSON, "/work/app/package.json"},
		{"SourceDir", r.SourceDir, "/work/app/src"},
		{"TSConfig", r.TSConfig, "/work/app/tsconfig.json"},
		{"JSConfig", r.JSConfig, "/work/app/jsconfig.json"},
		{"YarnLock", r.YarnLock, "/work/app/yarn.lock"},
		{"TestsSetup", r.TestsSetup, "/work/app/src/setupTests.ts"},
		{"ProxySetup", r.ProxySetup, "/work/app/src/setupProxy.js"},
		{"NodeModules", r.NodeModules, "/work/app/node_modules"},
		{"ExportIndex", r.ExportIndex, "/work/app/src/index.js"},
		{"AppTypeDeclarations", r.AppTypeDeclarations, "/work/app/src/react-app-env.d.ts"},
		{"OwnPath", r.OwnPath, "/work/app/node_modules/react-scripts"},
		{"OwnNodeModules", r.OwnNodeModules, "/work/app/node_modules/react-scripts/node_modules"},
		{"OwnTypeDeclarations", r.OwnTypeDeclarations, "/work/app/node_modules/react-scripts/lib/react-app.d.ts"},
		{"PublicURL", r.PublicURL, "https://x.com/sub"},
		{"ServedPath", r.ServedPath, "/sub/"},
		{"LibName", r.LibName, "widget"},
		{"Name", r.Name, "@ehrocks/widget"},
		{"Version", r.Version, "2.0.0"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %q, want %q", tt.field, tt.got, tt.want)
		}
	}

	if r.Layout.Mode != ModeNormal {
		t.Errorf("Mode = %v, want normal", r.Layout.Mode)
	}
	if !slices.Equal(r.SourcePaths, []string{"/work/app/src"}) {
		t.Errorf("SourcePaths = %v", r.SourcePaths)
	}
	if r.UsesYarn {
		t.Error("UsesYarn = true without yarn.lock")
	}
}

func TestResolveEnvOverrides(t *testing.T) {
	fsys := appFS().add("/work/app/src/modules/billing/dev/index.ts", "")

	r, err := Resolve(Inputs{
		WorkingDir: "/work/app",
		FS:         fsys,
		Env: Env{
			PublicURL:     "/app",
			BuildPath:     "out/web",
			Module:        "billing",
			CDNProduction: "https://cdn.example.com",
			CDNStaging:    "https://stg.example.com",
		},
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if r.BuildDir != "/work/app/out/web" {
		t.Errorf("BuildDir = %q", r.BuildDir)
	}
	if r.EntryModule != "/work/app/src/modules/billing/dev/index.ts" {
		t.Errorf("EntryModule = %q", r.EntryModule)
	}
	if r.PublicURL != "/app" || r.ServedPath != "/app/" {
		t.Errorf("PublicURL = %q, ServedPath = %q", r.PublicURL, r.ServedPath)
	}
	if got := r.ExportServedPath(true); got != "https://cdn.example.com/widget/production/2.0.0/" {
		t.Errorf("ExportServedPath(true) = %q", got)
	}
	if got := r.ExportServedPath(false); got != "https://stg.example.com/widget/staging/2.0.0/" {
		t.Errorf("ExportServedPath(false) = %q", got)
	}
	if got := r.ExportBuildDir(true); got != "/work/app/distProduction" {
		t.Errorf("ExportBuildDir(true) = %q", got)
	}
	if got := r.ExportBuildDir(false); got != "/work/app/distStaging" {
		t.Errorf("ExportBuildDir(false) = %q", got)
	}
}

func TestResolveAbsoluteBuildPath(t *testing.T) {
	r, err := Resolve(Inputs{WorkingDir: "/work/app", FS: appFS(), Env: Env{BuildPath: "/tmp/out"}})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if r.BuildDir != "/tmp/out" {
		t.Errorf("BuildDir = %q, want /tmp/out", r.BuildDir)
	}
}

func TestResolveMissingModuleFallsBack(t *testing.T) {
	r, err := Resolve(Inputs{WorkingDir: "/work/app", FS: appFS(), Env: Env{Module: "ghost"}})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if want := "/work/app/src/modules/ghost/dev/index.js"; r.EntryModule != want {
		t.Errorf("EntryModule = %q, want %q", r.EntryModule, want)
	}
}

func TestResolveMissingManifest(t *testing.T) {
	_, err := Resolve(Inputs{WorkingDir: "/work/app", FS: newMemFS()})
	if err == nil {
		t.Fatal("expected error for missing package.json")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("error %v does not wrap fs.ErrNotExist", err)
	}
}

func TestResolveBadManifest(t *testing.T) {
	fsys := newMemFS().add("/work/app/package.json", "{not json")
	if _, err := Resolve(Inputs{WorkingDir: "/work/app", FS: fsys}); err == nil {
		t.Fatal("expected error for malformed package.json")
	}
}

func TestResolveNoWorkingDir(t *testing.T) {
	if _, err := Resolve(Inputs{FS: appFS()}); !errors.Is(err, ErrNoWorkingDir) {
		t.Errorf("err = %v, want ErrNoWorkingDir", err)
	}
}

func TestResolveYarnLock(t *testing.T) {
	r, err := Resolve(Inputs{WorkingDir: "/work/app", FS: appFS().add("/work/app/yarn.lock", "")})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !r.UsesYarn {
		t.Error("UsesYarn = false with yarn.lock present")
	}
}

// ///////////////////////////////////////////////
// Monorepo
// ///////////////////////////////////////////////

func TestResolveMonorepo(t *testing.T) {
	tests := []struct {
		name        string
		result      Monorepo
		wantSources []string
		wantYarn    bool
	}{
		{
			name:        "not in a workspace",
			wantSources: []string{"/work/app/src"},
		},
		{
			name:        "included app gets sibling sources",
			result:      Monorepo{Included: true, PackageDirs: []string{"/work/ui", "/work/utils"}, UsesYarnWorkspace: true},
			wantSources: []string{"/work/app/src", "/work/ui", "/work/utils"},
			wantYarn:    true,
		},
		{
			name:        "excluded app keeps own sources",
			result:      Monorepo{PackageDirs: []string{"/work/ui"}, UsesYarnWorkspace: true},
			wantSources: []string{"/work/app/src"},
			wantYarn:    true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			det := &fakeDetector{result: tt.result}
			r, err := Resolve(Inputs{WorkingDir: "/work/app", FS: appFS(), Monorepo: det})
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if !slices.Equal(det.calls, []string{"/work/app"}) {
				t.Errorf("detector calls = %v", det.calls)
			}
			if !slices.Equal(r.SourcePaths, tt.wantSources) {
				t.Errorf("SourcePaths = %v, want %v", r.SourcePaths, tt.wantSources)
			}
			if r.UsesYarn != tt.wantYarn {
				t.Errorf("UsesYarn = %v, want %v", r.UsesYarn, tt.wantYarn)
			}
		})
	}
}

func TestResolveMonorepoError(t *testing.T) {
	det := &fakeDetector{err: errors.New("boom")}
	if _, err := Resolve(Inputs{WorkingDir: "/work/app", FS: appFS(), Monorepo: det}); err == nil {
		t.Fatal("expected detector error to propagate")
	}
}

// ///////////////////////////////////////////////
// Template Mode
// ///////////////////////////////////////////////

// templateFS lays out a toolchain checkout: the repo root manifest describes
// the library being exported, the toolchain's own manifest the served app.
func templateFS() *memFS {
	return newMemFS().
		add("/repo/package.json", `{"name": "@ehrocks/ui-kit", "version": "9.9.9"}`).
		add("/repo/packages/react-scripts/package.json", `{"name": "react-scripts", "version": "5.0.1", "homepage": "https://x.com/scripts"}`).
		add("/repo/packages/cra-template/template/src/index.js", "")
}

func TestResolveTemplate(t *testing.T) {
	fsys := templateFS()
	det := &fakeDetector{result: Monorepo{Included: true, PackageDirs: []string{"/repo/packages/x"}}}

	r, err := Resolve(Inputs{
		WorkingDir: "/repo",
		OwnRoot:    "/repo/packages/react-scripts",
		FS:         fsys,
		Monorepo:   det,
		Env:        Env{CDNProduction: "https://cdn"},
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if r.Layout.Mode != ModePrePublishTemplate {
		t.Fatalf("Mode = %v, want template", r.Layout.Mode)
	}
	if len(det.calls) != 0 {
		t.Errorf("detector called in template mode: %v", det.calls)
	}

	tests := []struct {
		field, got, want string
	}{
		{"AppPath", r.AppPath, "/repo"},
		{"SourceDir", r.SourceDir, "/repo/packages/cra-template/template/src"},
		{"EntryModule", r.EntryModule, "/repo/packages/cra-template/template/src/index.js"},
		{"HTMLEntry", r.HTMLEntry, "/repo/packages/cra-template/template/public/index.html"},
		{"BuildDir", r.BuildDir, "/repo/build"},
		{"PackageJSON", r.PackageJSON, "/repo/packages/react-scripts/package.json"},
		{"NodeModules", r.NodeModules, "/repo/packages/react-scripts/node_modules"},
		{"ExportBuildDir", r.ExportBuildDir(true), "/repo/distProduction"},
		{"ServedPath", r.ServedPath, "/scripts/"},
		{"Name", r.Name, "react-scripts"},
		{"LibName", r.LibName, "uiKit"},
		{"ExportIndex", r.ExportIndex, "/repo/src/index.js"},
		{"ExportServedPath", r.ExportServedPath(true), "https://cdn/ui-kit/production/9.9.9/"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %q, want %q", tt.field, tt.got, tt.want)
		}
	}
	if !slices.Equal(r.SourcePaths, []string{r.SourceDir}) {
		t.Errorf("SourcePaths = %v", r.SourcePaths)
	}
}

func TestResolveTemplateMissingRootManifest(t *testing.T) {
	fsys := templateFS()
	delete(fsys.files, "/repo/package.json")

	_, err := Resolve(Inputs{WorkingDir: "/repo", OwnRoot: "/repo/packages/react-scripts", FS: fsys})
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("err = %v, want fs.ErrNotExist", err)
	}
}

// ///////////////////////////////////////////////
// Host Filesystem
// ///////////////////////////////////////////////

func TestResolveOSFSSymlinkedWorkingDir(t *testing.T) {
	root := tempDir(t)
	app := filepath.Join(root, "app")
	if err := os.MkdirAll(filepath.Join(app, "src"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(app, "package.json"), []byte(appManifest), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(app, "src", "index.web.js"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(root, "current")
	if err := os.Symlink(app, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	r, err := Resolve(Inputs{WorkingDir: link})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if r.AppPath != app {
		t.Errorf("AppPath = %q, want %q", r.AppPath, app)
	}
	if want := filepath.Join(app, "src", "index.web.js"); r.EntryModule != want {
		t.Errorf("EntryModule = %q, want %q", r.EntryModule, want)
	}
	for _, p := range []string{r.Dotenv, r.BuildDir, r.SourceDir, r.YarnLock, r.NodeModules} {
		if !filepath.IsAbs(p) {
			t.Errorf("path %q is not absolute", p)
		}
	}
}
