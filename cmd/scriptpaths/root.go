package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"tools.zach/dev/scriptpaths/internal/config"
	"tools.zach/dev/scriptpaths/internal/logger"
	"tools.zach/dev/scriptpaths/internal/paths"
	"tools.zach/dev/scriptpaths/internal/workspace"
)

// EnvOwnRoot overrides the toolchain root derived from the executable path.
const EnvOwnRoot = "SCRIPTPATHS_OWN_ROOT"

// skipConfig marks commands that run without reading scriptpaths.toml.
const skipConfig = "skip-config"

// ///////////////////////////////////////////////
// App State
// ///////////////////////////////////////////////

// app holds the process inputs and the state shared by all commands.
type app struct {
	stdout    io.Writer
	stderr    io.Writer
	lookupEnv func(string) (string, bool)

	// Persistent flags.
	cwd        string
	ownRoot    string
	ownPackage string
	configDir  string
	logLevel   string

	cfg       *config.Config
	logFile   string
	logCloser io.Closer
}

// close releases the log file, if one was opened.
func (a *app) close() {
	if a.logCloser != nil {
		a.logCloser.Close()
	}
}

// workingDir returns --cwd or the process working directory.
func (a *app) workingDir() (string, error) {
	if a.cwd != "" {
		return a.cwd, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	return wd, nil
}

// configDirectory returns --config-dir or the project directory.
func (a *app) configDirectory() (string, error) {
	if a.configDir != "" {
		return a.configDir, nil
	}
	return a.workingDir()
}

// setup loads the config (unless the command opts out) and installs the
// default logger.
func (a *app) setup(cmd *cobra.Command) error {
	a.cfg = config.DefaultConfig()

	dir, err := a.configDirectory()
	if err != nil {
		return err
	}

	if _, ok := cmd.Annotations[skipConfig]; !ok {
		cfg, err := config.Load(dir)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		a.cfg = cfg
	}

	level := a.cfg.Log.Level
	if a.logLevel != "" {
		level = a.logLevel
	}
	a.logFile = a.cfg.LogFile(dir)
	log, closer := logger.Open(a.stderr, a.logFile, logger.ParseLevel(level), a.cfg.Log.MaxSizeMB)
	a.logCloser = closer
	slog.SetDefault(log)
	return nil
}

// resolve composes the resolver inputs from flags, environment and config
// and runs it.
func (a *app) resolve() (*paths.ResolvedPaths, error) {
	wd, err := a.workingDir()
	if err != nil {
		return nil, err
	}

	in := paths.Inputs{
		WorkingDir:  wd,
		OwnRoot:     a.toolchainRoot(),
		OwnPackage:  a.cfg.Toolchain.Package,
		TemplateDir: a.cfg.Toolchain.TemplateDir,
		Env:         a.cfg.ApplyCDN(paths.EnvFrom(a.lookupEnv)),
		FS:          paths.OSFS{},
	}
	if a.ownPackage != "" {
		in.OwnPackage = a.ownPackage
	}
	if a.cfg.Monorepo.Enabled {
		in.Monorepo = workspace.Detector{Ignore: a.cfg.Monorepo.Ignore}
	}

	r, err := paths.Resolve(in)
	if err != nil {
		return nil, err
	}
	slog.Debug("resolved paths", "app", r.AppPath, "mode", r.Layout.Mode, "sources", len(r.SourcePaths))
	return r, nil
}

// toolchainRoot returns --own-root, then $SCRIPTPATHS_OWN_ROOT, then the
// directory above the one holding the executable (<root>/bin/scriptpaths).
func (a *app) toolchainRoot() string {
	if a.ownRoot != "" {
		return a.ownRoot
	}
	if v, ok := a.lookupEnv(EnvOwnRoot); ok && v != "" {
		return v
	}
	exe, err := os.Executable()
	if err != nil {
		slog.Debug("executable path unavailable", "error", err)
		return ""
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(filepath.Dir(exe))
}

// ///////////////////////////////////////////////
// Root Command
// ///////////////////////////////////////////////

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "scriptpaths",
		Short: "Resolve front-end build paths",
		Long: `scriptpaths resolves the filesystem paths and URLs a front-end build
needs (sources, entry module, output directories, public URL, CDN export
URLs) for the project in the working directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cwd, "cwd", "", "project directory (default is the current directory)")
	flags.StringVar(&a.ownRoot, "own-root", "", "toolchain root (default is $"+EnvOwnRoot+" or the executable's parent directory)")
	flags.StringVar(&a.ownPackage, "own-package", "", "toolchain package name (default from config, "+paths.DefaultOwnPackage+")")
	flags.StringVar(&a.configDir, "config-dir", "", "directory holding "+config.FileName+" (default is the project directory)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")

	root.AddCommand(
		newResolveCmd(a),
		newModeCmd(a),
		newExportURLCmd(a),
		newLibNameCmd(a),
		newExtensionsCmd(a),
		newConfigCmd(a),
		newVersionCmd(a),
	)
	return root
}
