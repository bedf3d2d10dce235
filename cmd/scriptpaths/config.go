package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	rootpkg "tools.zach/dev/scriptpaths"
	"tools.zach/dev/scriptpaths/internal/atomicfile"
	"tools.zach/dev/scriptpaths/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage " + config.FileName,
	}
	cmd.AddCommand(newConfigInitCmd(a))
	return cmd
}

func newConfigInitCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a documented default " + config.FileName,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfig: ""},
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := a.configDirectory()
			if err != nil {
				return err
			}
			path := config.Path(dir)

			write := atomicfile.WriteNew
			if force {
				write = atomicfile.Write
			}
			if err := write(path, rootpkg.DefaultConfigTOML, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", config.FileName, err)
			}
			slog.Debug("wrote default config", "path", path)
			fmt.Fprintln(a.stdout, path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
