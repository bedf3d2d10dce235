package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"tools.zach/dev/scriptpaths/internal/paths"
)

func newModeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mode",
		Short: "Print the detected operating mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := a.resolve()
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, r.Layout.Mode)
			return nil
		},
	}
}

func newExportURLCmd(a *app) *cobra.Command {
	var production bool

	cmd := &cobra.Command{
		Use:   "export-url",
		Short: "Print the CDN URL a library build is published under",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := a.resolve()
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, r.ExportServedPath(production))
			return nil
		},
	}
	cmd.Flags().BoolVar(&production, "production", false, "use the production CDN instead of staging")
	return cmd
}

func newLibNameCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lib-name",
		Short: "Print the global identifier a library build is exported as",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := a.resolve()
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, r.LibName)
			return nil
		},
	}
}

func newExtensionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "extensions",
		Short:       "Print module file extensions in resolution order",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfig: ""},
		Run: func(cmd *cobra.Command, _ []string) {
			for _, ext := range paths.ModuleFileExtensions {
				fmt.Fprintln(a.stdout, ext)
			}
		},
	}
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print version information",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfig: ""},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(a.stdout, "scriptpaths %s\n", resolveVersion())
		},
	}
}
