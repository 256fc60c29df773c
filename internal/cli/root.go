// Package cli implements the llamapack command tree.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"llamapack/internal/buildkit"
	"llamapack/internal/config"
	"llamapack/internal/httpapi"
)

// Options carries the resolved global settings shared by all subcommands.
type Options struct {
	Config   config.Config
	LogLevel string
	Logger   zerolog.Logger
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error", "err":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// NewRootCmd constructs the command tree.
func NewRootCmd() *cobra.Command {
	opts := &Options{LogLevel: envStr("LLAMAPACK_LOG_LEVEL", "info")}
	var configPath string

	root := &cobra.Command{
		Use:           "llamapack",
		Short:         "Build, package and serve prebuilt llama.cpp binaries",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "Config file (.yaml/.json/.toml)")
	root.PersistentFlags().StringVar(&opts.LogLevel, "log-level", opts.LogLevel, "Log level: debug|info|warn|error (defaults LLAMAPACK_LOG_LEVEL or info)")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if configPath != "" {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			opts.Config = cfg
		}
		zl := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(parseLevel(opts.LogLevel)).
			With().Timestamp().Logger()
		opts.Logger = zl
		httpapi.SetLogger(zl)
		buildkit.SetLogger(zl)
		return nil
	}

	root.AddCommand(
		newBuildCmd(opts),
		newCollectCmd(opts),
		newManifestCmd(opts),
		newVerifyCmd(opts),
		newServeCmd(opts),
		newSmokeCmd(opts),
		newListCmd(),
	)
	return root
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}
	return 0
}

// Env helpers
func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
