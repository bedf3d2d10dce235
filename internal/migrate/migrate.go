// Package migrate upgrades versioned on-disk documents, such as
// scriptpaths.toml, one schema version at a time.
package migrate

import (
	"fmt"
	"log/slog"
	"sort"
)

// ///////////////////////////////////////////////
// Types
// ///////////////////////////////////////////////

// Migration upgrades a document from the previous schema version to Version.
type Migration struct {
	// Version is the schema version this migration produces.
	Version int
	// Description is a short human-readable label for log output.
	Description string
	// Upgrade transforms data from the prior version to [Migration.Version].
	Upgrade func(data []byte) ([]byte, error)
}

// Registry holds the current version and migrations of one document kind.
type Registry struct {
	// Name identifies the document in log output.
	Name string
	// CurrentVersion is the schema version the code reads and writes.
	CurrentVersion int
	// Migrations is the list of versioned upgrades. Exported so tests can
	// swap it out.
	Migrations []Migration
}

// Config is the registry for scriptpaths.toml.
var Config = &Registry{Name: "config", CurrentVersion: 1}

// ///////////////////////////////////////////////
// Registry
// ///////////////////////////////////////////////

// Register adds m. It panics when a migration for the same version exists.
func (r *Registry) Register(m Migration) {
	for _, existing := range r.Migrations {
		if existing.Version == m.Version {
			panic(fmt.Sprintf("migrate: duplicate %s migration version %d (description: %q)", r.Name, m.Version, m.Description))
		}
	}
	r.Migrations = append(r.Migrations, m)
}

// NeedsMigration reports whether a document at fileVersion must be upgraded.
func (r *Registry) NeedsMigration(fileVersion int) bool {
	if fileVersion != r.CurrentVersion {
		return true
	}
	for _, m := range r.Migrations {
		if fileVersion < m.Version {
			return true
		}
	}
	return false
}

// Run applies, in version order, every migration newer than fromVersion.
// It returns the transformed data and the version reached. On failure the
// version is the last one successfully applied.
func (r *Registry) Run(data []byte, fromVersion int) ([]byte, int, error) {
	sorted := make([]Migration, len(r.Migrations))
	copy(sorted, r.Migrations)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Version < sorted[j].Version
	})

	version := fromVersion
	for _, m := range sorted {
		if version >= m.Version {
			continue
		}
		slog.Info("applying migration", "document", r.Name, "version", m.Version, "description", m.Description)
		out, err := m.Upgrade(data)
		if err != nil {
			return nil, version, fmt.Errorf("%s migration to v%d failed: %w", r.Name, m.Version, err)
		}
		data = out
		version = m.Version
	}
	return data, version, nil
}
