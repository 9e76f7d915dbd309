package main

import (
	"context"
	"fmt"
	"os"

	"github.com/de-tools/sales-atlas/pkg/runtime/terminal"
	"github.com/rs/zerolog"
)

func main() {
	level := zerolog.WarnLevel
	if lvl, err := zerolog.ParseLevel(os.Getenv("SALES_ATLAS_LOG_LEVEL")); err == nil && lvl != zerolog.NoLevel {
		level = lvl
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
	ctx := logger.WithContext(context.Background())

	cli := terminal.NewCLI(terminal.Options{
		Output: os.Stdout,
	})

	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
