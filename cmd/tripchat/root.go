package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dharmasatrya/tripassistant/internal/app"
	"github.com/dharmasatrya/tripassistant/internal/config"
	"github.com/dharmasatrya/tripassistant/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "tripchat",
	Short: "Plan flights and hotel stays from the terminal",
	Long:  `tripchat runs the trip assistant pipeline locally: describe your trip and get flight and hotel packages.`,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a config file")
	rootCmd.PersistentFlags().String("log-level", "", "Override log.level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("plain", false, "Print markdown without terminal styling")
}

// buildApp loads configuration the same way the server does.
func buildApp(cmd *cobra.Command) (*app.App, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	level := cfg.LogLevel
	if override, _ := cmd.Flags().GetString("log-level"); override != "" {
		level = override
	} else if level == "info" {
		level = "warn"
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return app.Build(ctx, cfg, logging.New(logging.ParseLevel(level)))
}
