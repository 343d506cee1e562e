// Package cli wires the faultline pipeline into a command line tool for
// ad-hoc triage and a small serve mode.
package cli

import (
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/vietddude/stylelog"

	"github.com/vietddude/faultline"
	"github.com/vietddude/faultline/internal/core/config"
)

var (
	cfgPath string
	isDebug bool
)

var rootCmd = &cobra.Command{
	Use:   "faultline",
	Short: "Error classification and resilient retry toolkit",
	Long:  `Faultline classifies runtime failures into an actionable taxonomy and drives retry policies, stats and reporting on top of it.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "config file (default is config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&isDebug, "debug", false, "enable debug logging")
}

// setup loads env + config, initializes logging and builds the handler.
func setup() (*faultline.Handler, *config.Config) {
	_ = godotenv.Load()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		// Missing config is fine for ad-hoc use; fall back to defaults.
		if !errors.Is(err, os.ErrNotExist) {
			stylelog.InitDefault()
			slog.Error("Failed to load config", "error", err)
			os.Exit(1)
		}
		def := config.Default()
		cfg = &def
	}

	slogLevel := slog.LevelInfo
	if isDebug {
		slogLevel = slog.LevelDebug
	}

	stylelog.InitDefault(&tint.Options{
		Level:      slogLevel,
		TimeFormat: time.RFC3339,
	})

	h, err := faultline.New(cfg, slog.Default())
	if err != nil {
		slog.Error("Failed to initialize handler", "error", err)
		os.Exit(1)
	}
	return h, cfg
}
