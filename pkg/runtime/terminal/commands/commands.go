package commands

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/de-tools/sales-atlas/pkg/analytics"
	"github.com/de-tools/sales-atlas/pkg/export"
	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/de-tools/sales-atlas/pkg/services/ledger"
	"github.com/de-tools/sales-atlas/pkg/services/reporting"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type Reporter interface {
	Handle(report *domain.Report) error
}

type Uploader interface {
	Put(ctx context.Context, name string, body []byte) (string, error)
}

// Environment is what a command needs once flags, config and profile have
// been resolved.
type Environment struct {
	BusinessID      uuid.UUID
	Reports         reporting.Service
	Ledger          ledger.Service
	StockWindowDays int
	Archive         func(ctx context.Context) (Uploader, error)
	Now             func() time.Time
}

// Provider resolves the Environment of a command. The returned function
// releases the store.
type Provider func(cmd *cobra.Command) (*Environment, func(), error)

func NewSummaryCmd(provide Provider, reporter Reporter) *cobra.Command {
	var periodName string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Sales, expenses, COGS and profit for a period",
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, release, err := provide(cmd)
			if err != nil {
				return err
			}
			defer release()

			report, err := env.Reports.PeriodSummary(cmd.Context(), env.BusinessID, periodName)
			if err != nil {
				return fmt.Errorf("failed to summarise period: %w", err)
			}
			return reporter.Handle(SummaryReport(env.BusinessID, report, env.Now()))
		},
	}
	cmd.Flags().StringVar(&periodName, "period", reporting.PeriodMonthly, "Period to summarise: daily, weekly or monthly")
	return cmd
}

func NewForecastCmd(provide Provider, reporter Reporter) *cobra.Command {
	return &cobra.Command{
		Use:   "forecast",
		Short: "Project daily sales for the coming week",
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, release, err := provide(cmd)
			if err != nil {
				return err
			}
			defer release()

			forecast, err := env.Reports.Forecast(cmd.Context(), env.BusinessID)
			if err != nil {
				return fmt.Errorf("failed to forecast sales: %w", err)
			}
			return reporter.Handle(ForecastReport(env.BusinessID, forecast))
		},
	}
}

func NewSalesCmd(provide Provider, reporter Reporter) *cobra.Command {
	var rangeName string
	cmd := &cobra.Command{
		Use:   "sales",
		Short: "Net sales grouped by period",
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, release, err := provide(cmd)
			if err != nil {
				return err
			}
			defer release()

			series, err := env.Reports.NetSales(cmd.Context(), env.BusinessID, rangeName)
			if err != nil {
				return fmt.Errorf("failed to aggregate net sales: %w", err)
			}
			now := env.Now()
			window := analytics.ResolveRange(rangeName, now)
			return reporter.Handle(SalesReport(env.BusinessID, window, series, now))
		},
	}
	cmd.Flags().StringVar(&rangeName, "range", analytics.DefaultRange,
		"Range: week, month, year, 3years, 5years or 10years")
	return cmd
}

func NewTopItemsCmd(provide Provider, reporter Reporter) *cobra.Command {
	return &cobra.Command{
		Use:   "top-items",
		Short: "Best selling products by quantity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, release, err := provide(cmd)
			if err != nil {
				return err
			}
			defer release()

			items, err := env.Reports.TopItems(cmd.Context(), env.BusinessID)
			if err != nil {
				return fmt.Errorf("failed to rank top items: %w", err)
			}
			return reporter.Handle(TopItemsReport(env.BusinessID, items))
		},
	}
}

func NewProductCmd(provide Provider, reporter Reporter) *cobra.Command {
	var product string
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Sales history and stock health of one product",
		RunE: func(cmd *cobra.Command, _ []string) error {
			productID, err := uuid.Parse(product)
			if err != nil {
				return fmt.Errorf("invalid product id %q", product)
			}

			env, release, err := provide(cmd)
			if err != nil {
				return err
			}
			defer release()

			pa, err := env.Reports.ProductAnalytics(cmd.Context(), env.BusinessID, productID)
			if err != nil {
				return fmt.Errorf("failed to analyse product %s: %w", productID, err)
			}
			return reporter.Handle(ProductReport(env.BusinessID, pa, env.StockWindowDays, env.Now()))
		},
	}
	cmd.Flags().StringVar(&product, "product", "", "Product ID")
	_ = cmd.MarkFlagRequired("product")
	return cmd
}

func NewInventoryCmd(provide Provider, reporter Reporter) *cobra.Command {
	return &cobra.Command{
		Use:   "inventory",
		Short: "Lowest stock items and low stock alerts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, release, err := provide(cmd)
			if err != nil {
				return err
			}
			defer release()

			overview, err := env.Reports.InventoryOverview(cmd.Context(), env.BusinessID)
			if err != nil {
				return fmt.Errorf("failed to analyse inventory: %w", err)
			}
			return reporter.Handle(InventoryReport(env.BusinessID, overview))
		},
	}
}

type ExportCmd struct {
	provide Provider
	out     string
	toS3    bool
}

func NewExportCmd(provide Provider) *cobra.Command {
	ec := &ExportCmd{provide: provide}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all transactions to an xlsx workbook",
		RunE:  ec.run,
	}

	cmd.Flags().StringVarP(&ec.out, "out", "o", "", "Output file or directory (default: current directory)")
	cmd.Flags().BoolVar(&ec.toS3, "s3", false, "Also upload the workbook to the configured S3 bucket")
	return cmd
}

func (ec *ExportCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	env, release, err := ec.provide(cmd)
	if err != nil {
		return err
	}
	defer release()

	txns, err := env.Ledger.ListTransactions(ctx, env.BusinessID, nil, nil)
	if err != nil {
		return fmt.Errorf("failed to load transactions: %w", err)
	}

	var buf bytes.Buffer
	if err := export.WriteTransactions(&buf, txns); err != nil {
		return err
	}

	name := export.FileName(env.BusinessID, env.Now())
	path := ec.out
	if path == "" {
		path = name
	} else if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, name)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d transactions to %s\n", len(txns), path)

	if !ec.toS3 {
		return nil
	}
	if env.Archive == nil {
		return fmt.Errorf("no export archive configured")
	}
	archive, err := env.Archive(ctx)
	if err != nil {
		return fmt.Errorf("failed to open export archive: %w", err)
	}
	uri, err := archive.Put(ctx, name, buf.Bytes())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Uploaded to %s\n", uri)
	return nil
}
