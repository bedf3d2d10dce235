package config

// ///////////////////////////////////////////////
// Documentation Types
// ///////////////////////////////////////////////

// FieldDoc holds documentation and alternative examples for a single config field.
// The genconfig tool uses [FieldDoc] values to annotate the generated config.default.toml.
type FieldDoc struct {
	// Comment is shown as a header comment above the field in the example config.
	Comment string

	// Alternatives are shown as commented-out lines below the active value.
	Alternatives []string
}

// ///////////////////////////////////////////////
// Field Documentation Map
// ///////////////////////////////////////////////

// ConfigDocs maps TOML field paths (dot-separated, e.g. "cdn.production")
// to their [FieldDoc] entries.
var ConfigDocs = map[string]FieldDoc{
	"version": {
		Comment: "Config schema version. Do not edit.",
	},

	"toolchain": {
		Comment: "The build toolchain package these paths are resolved for.",
	},
	"toolchain.package": {
		Comment: "npm package name of the toolchain. When node_modules/<package> is a\nsymlink the toolchain is treated as linked from a local checkout.",
	},
	"toolchain.template_dir": {
		Comment: "Template used when running from the toolchain's own repository,\nrelative to the toolchain root.",
	},

	"cdn": {
		Comment: "CDN prefixes for library exports. CDN_PATH_PRODUCTION and\nCDN_PATH_STAGING take precedence when set.",
	},
	"cdn.production": {
		Alternatives: []string{`production = "https://cdn.example.com"`},
	},
	"cdn.staging": {
		Alternatives: []string{`staging = "https://cdn-staging.example.com"`},
	},

	"monorepo": {
		Comment: "Workspace detection. Sibling workspace packages are compiled as\nfirst-party source when the app is part of the workspace.",
	},
	"monorepo.enabled": {},
	"monorepo.ignore": {
		Comment: "Glob patterns (relative to the workspace root) of packages to leave out.",
		Alternatives: []string{
			`ignore = ["packages/legacy-*", "tools/**"]`,
		},
	},

	"log": {},
	"log.level": {
		Comment:      "Minimum log level.",
		Alternatives: []string{`level = "debug"`, `level = "trace"`},
	},
	"log.file": {
		Comment: "Log file path. Empty logs to stderr. Relative paths are resolved\nagainst the config directory.",
		Alternatives: []string{
			`file = "node_modules/.cache/scriptpaths/scriptpaths.log"`,
		},
	},
	"log.max_size_mb": {
		Comment: "Rotate the log file after this many megabytes.",
	},
}
