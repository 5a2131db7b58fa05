package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"oxrsession/internal/config"
)

// globalFlags are the persistent flags shared by every command. Non-empty
// values override the config file and environment.
type globalFlags struct {
	configPath string
	envFile    string
	runtime    string
	logLevel   string
	logFormat  string
}

// Execute runs the command line and returns the first error.
func Execute(args []string, stdout, stderr io.Writer) error {
	root := buildRootCmd(stdout, stderr)
	root.SetArgs(args)
	return root.Execute()
}

// buildRootCmd constructs the Cobra command tree.
func buildRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var (
		g   globalFlags
		cfg config.Config
		log zerolog.Logger
	)
	root := &cobra.Command{
		Use:           "oxrsession",
		Short:         "Bring up and drive an OpenXR session on OpenGL ES",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "Config file (.yaml, .yml, .json or .toml)")
	pf.StringVar(&g.envFile, "env-file", ".env", "Optional .env file loaded before OXR_* variables are read")
	pf.StringVar(&g.runtime, "runtime", "", "Runtime backend: sim|native (defaults OXR_RUNTIME or sim)")
	pf.StringVar(&g.logLevel, "log-level", "", "Log level: debug|info|warn|error (defaults OXR_LOG_LEVEL or info)")
	pf.StringVar(&g.logFormat, "log-format", "", "Log format: console|json")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = resolveConfig(g)
		if err != nil {
			return err
		}
		log, err = newLogger(stderr, cfg.LogLevel, cfg.LogFormat)
		return err
	}

	var ro runOptions
	var handTracking, passthrough bool
	var diagAddr, frameMode string
	runCmd := &cobra.Command{
		Use:     "run",
		Short:   "Bring up a session and run the frame loop",
		Example: "  oxrsession run --frames 600\n  oxrsession run --diag-addr :9090 --frame-mode empty",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			if f.Changed("diag-addr") {
				cfg.DiagAddr = diagAddr
			}
			if f.Changed("frame-mode") {
				cfg.FrameMode = frameMode
			}
			if f.Changed("hand-tracking") {
				cfg.HandTracking = handTracking
			}
			if f.Changed("passthrough") {
				cfg.Passthrough = passthrough
			}
			if !f.Changed("max-restarts") {
				ro.maxRestarts = cfg.MaxRestarts
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runSessions(ctx, cfg, ro, log)
		},
	}
	rf := runCmd.Flags()
	rf.IntVar(&ro.frames, "frames", 0, "Stop after this many ticks (0 runs until the session exits)")
	rf.IntVar(&ro.maxRestarts, "max-restarts", 0, "Bring-up attempts after instance loss")
	rf.StringVar(&diagAddr, "diag-addr", "", "Serve diagnostics on this address, e.g. :9090")
	rf.StringVar(&frameMode, "frame-mode", "", "Frame calls while not running: skip|empty")
	rf.BoolVar(&handTracking, "hand-tracking", false, "Enable hand tracking when the runtime offers it")
	rf.BoolVar(&passthrough, "passthrough", false, "Enable passthrough when the runtime offers it")

	infoCmd := &cobra.Command{
		Use:   "info",
		Short: "Print runtime, system and view configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cfg, log, cmd.OutOrStdout())
		},
	}

	var asJSON bool
	profilesCmd := &cobra.Command{
		Use:   "profiles",
		Short: "List interaction profile binding tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfiles(cfg, asJSON, cmd.OutOrStdout())
		},
	}
	profilesCmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")

	root.AddCommand(runCmd, infoCmd, profilesCmd)
	root.SetContext(context.Background())
	return root
}

// resolveConfig layers defaults < config file < .env and OXR_* variables <
// explicit flags.
func resolveConfig(g globalFlags) (config.Config, error) {
	if err := config.LoadDotEnv(g.envFile); err != nil {
		return config.Config{}, err
	}
	var cfg config.Config
	if g.configPath != "" {
		c, err := config.Load(g.configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = c
	}
	cfg = config.FromEnv(cfg)
	if g.runtime != "" {
		cfg.Runtime = g.runtime
	}
	if g.logLevel != "" {
		cfg.LogLevel = g.logLevel
	}
	if g.logFormat != "" {
		cfg.LogFormat = g.logFormat
	}
	return cfg.Defaults(), nil
}
