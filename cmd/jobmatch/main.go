// Command jobmatch runs the job portal service and its maintenance tools.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/okian/jobmatch/internal/config"
	"github.com/okian/jobmatch/pkg/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string
	root := &cobra.Command{
		Use:           "jobmatch",
		Short:         "Job portal with skill-based job recommendations",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return loadEnvFile(envFile)
		},
		RunE: runServe,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before configuration; missing files are ignored")
	root.AddCommand(newServeCmd(), newExtractCmd())
	return root
}

// loadEnvFile exports the variables of a dotenv file. Variables already set
// in the environment win.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// initLogging configures the global logger from cfg. An unknown level falls
// back to info with a warning.
func initLogging(ctx context.Context, cfg *config.Config) logger.Logger {
	_ = logger.Init(logger.WithFormat(logger.Format(cfg.LogFormat)))
	l := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		_ = logger.SetLevelString("info")
		l.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
	}
	return l
}
