// Package manifest decodes the package.json fields the path resolver and
// workspace detector consume.
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// Manifest is the subset of package.json this module reads. Unknown fields
// are ignored; missing fields stay empty.
type Manifest struct {
	// Name is the package name, possibly scoped ("@scope/name").
	Name string `json:"name"`
	// Version is the package version.
	Version string `json:"version"`
	// Homepage is the URL the app is served from.
	Homepage string `json:"homepage"`
	// Private marks the package as unpublishable; workspace roots set it.
	Private bool `json:"private"`
	// Workspaces holds the yarn/npm workspace globs, nil when absent.
	Workspaces *Workspaces `json:"workspaces,omitempty"`
}

// Workspaces accepts both workspace forms:
//
//	"workspaces": ["packages/*"]
//	"workspaces": {"packages": ["packages/*"], "nohoist": ["**/react"]}
type Workspaces struct {
	Packages []string `json:"packages"`
	Nohoist  []string `json:"nohoist,omitempty"`
}

// UnmarshalJSON decodes either the array or the object form.
func (w *Workspaces) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(trimmed, &w.Packages)
	}
	type object Workspaces
	var o object
	if err := json.Unmarshal(trimmed, &o); err != nil {
		return err
	}
	*w = Workspaces(o)
	return nil
}

// Parse decodes package.json content.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode package.json: %w", err)
	}
	return &m, nil
}

// Load reads and decodes the package.json at path. A missing file yields an
// error wrapping [os.ErrNotExist].
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
