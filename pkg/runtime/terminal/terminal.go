package terminal

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/de-tools/sales-atlas/pkg/config"
	exportfile "github.com/de-tools/sales-atlas/pkg/export"
	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/runtime/backend"
	"github.com/de-tools/sales-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/sales-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/sales-atlas/pkg/services/profile"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const (
	FormatTable = "table"
	FormatText  = "text"
)

// CLI represents the command-line interface
type CLI struct {
	open    backend.OpenFunc
	output  io.Writer
	rootCmd *cobra.Command
	now     func() time.Time

	configPath   string
	profilesPath string
	profileName  string
	business     string
	format       string
}

// Options contain configuration for the CLI
type Options struct {
	Open   backend.OpenFunc
	Output io.Writer
	Now    func() time.Time
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Open == nil {
		opts.Open = backend.Open
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	cli := &CLI{
		open:   opts.Open,
		output: opts.Output,
		now:    opts.Now,
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}

func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "sales-atlas",
		Short:         "Sales, expense and inventory analytics for small businesses",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(cli.output)

	flags := cmd.PersistentFlags()
	flags.StringVarP(&cli.configPath, "config", "c", "", "Path to the config file")
	flags.StringVar(&cli.profilesPath, "profiles", defaultProfilesPath(), "Path to the profiles file")
	flags.StringVarP(&cli.profileName, "profile", "p", "", "Profile to read the business and store from")
	flags.StringVarP(&cli.business, "business", "b", "", "Business ID (overrides the profile)")
	flags.StringVar(&cli.format, "format", FormatTable, "Output format: table or text")

	reporter := &formatReporter{cli: cli}
	cmd.AddCommand(commands.NewSummaryCmd(cli.environment, reporter))
	cmd.AddCommand(commands.NewForecastCmd(cli.environment, reporter))
	cmd.AddCommand(commands.NewSalesCmd(cli.environment, reporter))
	cmd.AddCommand(commands.NewTopItemsCmd(cli.environment, reporter))
	cmd.AddCommand(commands.NewProductCmd(cli.environment, reporter))
	cmd.AddCommand(commands.NewInventoryCmd(cli.environment, reporter))
	cmd.AddCommand(commands.NewExportCmd(cli.environment))

	return cmd
}

func defaultProfilesPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".sales-atlas.ini"
	}
	return filepath.Join(home, ".sales-atlas.ini")
}

// environment resolves config, profile and business ID, then opens the store.
func (cli *CLI) environment(cmd *cobra.Command) (*commands.Environment, func(), error) {
	ctx := cmd.Context()
	logger := zerolog.Ctx(ctx)

	cfg, err := config.LoadConfig(cli.configPath)
	if err != nil {
		return nil, nil, err
	}
	storeCfg := cfg.Store

	var businessID uuid.UUID
	if cli.profileName != "" {
		registry, err := profile.NewRegistry(cli.profilesPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load profiles from %s: %w", cli.profilesPath, err)
		}
		p, err := registry.GetProfile(ctx, cli.profileName)
		if err != nil {
			return nil, nil, err
		}
		businessID = p.BusinessID
		applyProfile(&storeCfg, p)
		logger.Debug().Str("profile", p.Name).Msg("profile loaded")
	}

	if cli.business != "" {
		businessID, err = uuid.Parse(cli.business)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid business id %q", cli.business)
		}
	}
	if businessID == uuid.Nil {
		return nil, nil, fmt.Errorf("a business is required: use --business or --profile")
	}

	b, err := cli.open(ctx, storeCfg, cfg.Analytics)
	if err != nil {
		return nil, nil, err
	}

	release := func() {
		if err := b.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close store")
		}
	}

	exportCfg := cfg.Export
	return &commands.Environment{
		BusinessID:      businessID,
		Reports:         b.Reports,
		Ledger:          b.Ledger,
		StockWindowDays: cfg.Analytics.StockWindowDays,
		Archive: func(ctx context.Context) (commands.Uploader, error) {
			return exportfile.NewS3Archive(ctx, exportCfg.S3Bucket, exportCfg.S3Prefix)
		},
		Now: cli.now,
	}, release, nil
}

func applyProfile(storeCfg *config.StoreConfig, p *profile.Profile) {
	if p.StoreDriver != "" {
		storeCfg.Driver = p.StoreDriver
	}
	if p.DuckDBPath != "" {
		storeCfg.DuckDBPath = p.DuckDBPath
	}
	if p.PostgresDSN != "" {
		storeCfg.PostgresDSN = p.PostgresDSN
	}
}

// formatReporter picks the table or text reporter from the --format flag.
type formatReporter struct {
	cli *CLI
}

func (r *formatReporter) Handle(report *domain.Report) error {
	switch r.cli.format {
	case FormatText:
		return NewReporter(r.cli.output).Handle(report)
	case FormatTable, "":
		return export.NewReporter(r.cli.output).Handle(report)
	default:
		return fmt.Errorf("unsupported output format %q", r.cli.format)
	}
}
