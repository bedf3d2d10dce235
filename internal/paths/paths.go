// Package paths resolves the filesystem paths and URL fragments a front-end
// build needs: sources, config files, output directories and the public URL
// the built assets are served under.
//
// All file and directory names relative to an app or toolchain root are
// defined here as the single source of truth. [Resolve] combines them with
// the working directory, environment and package manifest into a
// [ResolvedPaths] record.
package paths

// ///////////////////////////////////////////////
// Constants
// ///////////////////////////////////////////////

// App-relative file and directory names.
const (
	DotenvFile           = ".env"
	BuildDir             = "build"
	PublicDir            = "public"
	HTMLFile             = "public/index.html"
	PackageJSONFile      = "package.json"
	SourceDir            = "src"
	IndexModule          = "src/index"
	ExportIndexFile      = "src/index.js"
	TSConfigFile         = "tsconfig.json"
	JSConfigFile         = "jsconfig.json"
	YarnLockFile         = "yarn.lock"
	TestsSetupModule     = "src/setupTests"
	ProxySetupFile       = "src/setupProxy.js"
	NodeModulesDir       = "node_modules"
	AppTypeDeclarations  = "src/react-app-env.d.ts"
	ExportProductionDir  = "distProduction"
	ExportStagingDir     = "distStaging"
	OwnTypeDeclarations  = "lib/react-app.d.ts"
	DevModuleEntryFormat = "src/modules/%s/dev/index"
)

// Toolchain defaults.
const (
	// DefaultOwnPackage is the package name the toolchain is installed under.
	DefaultOwnPackage = "react-scripts"
	// DefaultTemplateDir is the template location relative to the toolchain
	// root when building from the toolchain's own checkout.
	DefaultTemplateDir = "../cra-template/template"
	// OrgScope is the organization scope stripped from published names.
	OrgScope = "@ehrocks/"
)

// Environment variable names read by [EnvFrom].
const (
	EnvPublicURL     = "PUBLIC_URL"
	EnvBuildPath     = "REACT_APP_APP_BUILD_PATH"
	EnvModule        = "MODULE"
	EnvCDNProduction = "CDN_PATH_PRODUCTION"
	EnvCDNStaging    = "CDN_PATH_STAGING"
)

// ModuleFileExtensions lists module extensions in the order the bundler
// resolves them. [ResolveModule] must probe in exactly this order so path
// resolution and bundling pick the same file.
var ModuleFileExtensions = []string{
	"web.mjs",
	"mjs",
	"web.js",
	"js",
	"web.ts",
	"ts",
	"web.tsx",
	"tsx",
	"json",
	"web.jsx",
	"jsx",
}

// ///////////////////////////////////////////////
// Env
// ///////////////////////////////////////////////

// Env holds the environment overrides consumed by [Resolve]. An empty field
// means the variable is unset.
type Env struct {
	// PublicURL overrides the public URL base (PUBLIC_URL).
	PublicURL string
	// BuildPath overrides the build output directory (REACT_APP_APP_BUILD_PATH).
	BuildPath string
	// Module selects src/modules/<Module>/dev/index as the entry (MODULE).
	Module string
	// CDNProduction is the CDN prefix for production exports (CDN_PATH_PRODUCTION).
	CDNProduction string
	// CDNStaging is the CDN prefix for staging exports (CDN_PATH_STAGING).
	CDNStaging string
}

// EnvFrom builds an [Env] using lookup, typically [os.LookupEnv].
func EnvFrom(lookup func(string) (string, bool)) Env {
	get := func(key string) string {
		v, _ := lookup(key)
		return v
	}
	return Env{
		PublicURL:     get(EnvPublicURL),
		BuildPath:     get(EnvBuildPath),
		Module:        get(EnvModule),
		CDNProduction: get(EnvCDNProduction),
		CDNStaging:    get(EnvCDNStaging),
	}
}

// CDNPrefix returns the CDN prefix for the given export environment.
func (e Env) CDNPrefix(isProduction bool) string {
	if isProduction {
		return e.CDNProduction
	}
	return e.CDNStaging
}
