package main

import (
	"fmt"
	"os"

	"github.com/de-tools/sales-atlas/pkg/config"
	"github.com/de-tools/sales-atlas/pkg/runtime/backend"
	"github.com/de-tools/sales-atlas/pkg/server"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for Sales Atlas",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to the config file (SALES_ATLAS_* environment variables apply either way)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return err
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Log.Level, err)
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	b, err := backend.Open(ctx, cfg.Store, cfg.Analytics)
	if err != nil {
		return err
	}
	defer func() {
		if err := b.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close store")
		}
	}()

	logger.Info().
		Str("driver", cfg.Store.Driver).
		Msg("ledger store ready")

	api := server.NewWebAPI(server.Config{
		Addr:            cfg.Server.Addr(),
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Dependencies: server.Dependencies{
			Reports: b.Reports,
			Ledger:  b.Ledger,
			Logger:  logger,
		},
	})

	return api.Start()
}
