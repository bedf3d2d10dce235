package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"tools.zach/dev/scriptpaths/internal/atomicfile"
	"tools.zach/dev/scriptpaths/internal/paths"
)

// ///////////////////////////////////////////////
// Report
// ///////////////////////////////////////////////

// report is the serialized form of [paths.ResolvedPaths] with both export
// variants expanded.
type report struct {
	Mode       string `json:"mode" yaml:"mode" toml:"mode"`
	Name       string `json:"name" yaml:"name" toml:"name"`
	Version    string `json:"version" yaml:"version" toml:"version"`
	LibName    string `json:"lib_name" yaml:"lib_name" toml:"lib_name"`
	PublicURL  string `json:"public_url" yaml:"public_url" toml:"public_url"`
	ServedPath string `json:"served_path" yaml:"served_path" toml:"served_path"`
	UsesYarn   bool   `json:"uses_yarn" yaml:"uses_yarn" toml:"uses_yarn"`

	Paths       reportPaths `json:"paths" yaml:"paths" toml:"paths"`
	SourcePaths []string    `json:"source_paths" yaml:"source_paths" toml:"source_paths"`
	Export      struct {
		Production reportExport `json:"production" yaml:"production" toml:"production"`
		Staging    reportExport `json:"staging" yaml:"staging" toml:"staging"`
	} `json:"export" yaml:"export" toml:"export"`
}

type reportPaths struct {
	WorkingDir          string `json:"working_dir" yaml:"working_dir" toml:"working_dir"`
	App                 string `json:"app" yaml:"app" toml:"app"`
	Dotenv              string `json:"dotenv" yaml:"dotenv" toml:"dotenv"`
	Build               string `json:"build" yaml:"build" toml:"build"`
	Public              string `json:"public" yaml:"public" toml:"public"`
	HTML                string `json:"html" yaml:"html" toml:"html"`
	Entry               string `json:"entry" yaml:"entry" toml:"entry"`
	PackageJSON         string `json:"package_json" yaml:"package_json" toml:"package_json"`
	Source              string `json:"source" yaml:"source" toml:"source"`
	TSConfig            string `json:"tsconfig" yaml:"tsconfig" toml:"tsconfig"`
	JSConfig            string `json:"jsconfig" yaml:"jsconfig" toml:"jsconfig"`
	YarnLock            string `json:"yarn_lock" yaml:"yarn_lock" toml:"yarn_lock"`
	TestsSetup          string `json:"tests_setup" yaml:"tests_setup" toml:"tests_setup"`
	ProxySetup          string `json:"proxy_setup" yaml:"proxy_setup" toml:"proxy_setup"`
	NodeModules         string `json:"node_modules" yaml:"node_modules" toml:"node_modules"`
	ExportIndex         string `json:"export_index" yaml:"export_index" toml:"export_index"`
	AppTypeDeclarations string `json:"app_type_declarations" yaml:"app_type_declarations" toml:"app_type_declarations"`
	Own                 string `json:"own" yaml:"own" toml:"own"`
	OwnNodeModules      string `json:"own_node_modules" yaml:"own_node_modules" toml:"own_node_modules"`
	OwnTypeDeclarations string `json:"own_type_declarations" yaml:"own_type_declarations" toml:"own_type_declarations"`
}

type reportExport struct {
	URL      string `json:"url" yaml:"url" toml:"url"`
	BuildDir string `json:"build_dir" yaml:"build_dir" toml:"build_dir"`
}

func newReport(r *paths.ResolvedPaths) report {
	rep := report{
		Mode:        r.Layout.Mode.String(),
		Name:        r.Name,
		Version:     r.Version,
		LibName:     r.LibName,
		PublicURL:   r.PublicURL,
		ServedPath:  r.ServedPath,
		UsesYarn:    r.UsesYarn,
		SourcePaths: r.SourcePaths,
		Paths: reportPaths{
			WorkingDir:          r.WorkingDir,
			App:                 r.AppPath,
			Dotenv:              r.Dotenv,
			Build:               r.BuildDir,
			Public:              r.PublicDir,
			HTML:                r.HTMLEntry,
			Entry:               r.EntryModule,
			PackageJSON:         r.PackageJSON,
			Source:              r.SourceDir,
			TSConfig:            r.TSConfig,
			JSConfig:            r.JSConfig,
			YarnLock:            r.YarnLock,
			TestsSetup:          r.TestsSetup,
			ProxySetup:          r.ProxySetup,
			NodeModules:         r.NodeModules,
			ExportIndex:         r.ExportIndex,
			AppTypeDeclarations: r.AppTypeDeclarations,
			Own:                 r.OwnPath,
			OwnNodeModules:      r.OwnNodeModules,
			OwnTypeDeclarations: r.OwnTypeDeclarations,
		},
	}
	rep.Export.Production = reportExport{URL: r.ExportServedPath(true), BuildDir: r.ExportBuildDir(true)}
	rep.Export.Staging = reportExport{URL: r.ExportServedPath(false), BuildDir: r.ExportBuildDir(false)}
	return rep
}

// ///////////////////////////////////////////////
// Encoding
// ///////////////////////////////////////////////

// formats lists the accepted --format values.
var formats = []string{"json", "yaml", "toml"}

// encode serializes v in the named format.
func encode(v any, format string) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case "json":
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(v); err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
	case "yaml":
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
	case "toml":
		if err := toml.NewEncoder(&buf).Encode(v); err != nil {
			return nil, fmt.Errorf("encode toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown format %q: must be one of %v", format, formats)
	}
	return buf.Bytes(), nil
}

// ///////////////////////////////////////////////
// resolve Command
// ///////////////////////////////////////////////

func newResolveCmd(a *app) *cobra.Command {
	var format, out string

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Print every resolved path and URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := a.resolve()
			if err != nil {
				return err
			}
			data, err := encode(newReport(r), format)
			if err != nil {
				return err
			}
			if out == "" {
				_, err = a.stdout.Write(data)
				return err
			}
			if err := atomicfile.Write(out, data, 0o644); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			slog.Info("wrote report", "path", out, "format", format)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json, yaml or toml")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the report to this file instead of stdout")
	return cmd
}
