// Package scriptpaths provides embedded assets for the scriptpaths CLI.
//
// The root package exists solely to embed [config.default.toml] via
// [DefaultConfigTOML], which `scriptpaths config init` writes into a
// project.
package scriptpaths

import _ "embed"

// DefaultConfigTOML holds the raw bytes of config.default.toml, embedded at
// build time.
//
//go:embed config.default.toml
var DefaultConfigTOML []byte
