// Package backend opens the configured ledger store and builds the services
// on top of it.
package backend

import (
	"context"

	"github.com/de-tools/sales-atlas/pkg/config"
	"github.com/de-tools/sales-atlas/pkg/services/ledger"
	"github.com/de-tools/sales-atlas/pkg/services/reporting"
	"github.com/de-tools/sales-atlas/pkg/store"
	"github.com/rs/zerolog"
)

type Backend struct {
	Reports reporting.Service
	Ledger  ledger.Service
	close   func() error
}

// OpenFunc is the signature of Open, swapped out in tests.
type OpenFunc func(ctx context.Context, storeCfg config.StoreConfig, analyticsCfg config.AnalyticsConfig) (*Backend, error)

var drivers = DefaultRegistry()

func New(source store.Ledger, analyticsCfg config.AnalyticsConfig, closeFn func() error) *Backend {
	if closeFn == nil {
		closeFn = func() error { return nil }
	}
	return &Backend{
		Reports: reporting.NewService(source, ReportingOptions(analyticsCfg)),
		Ledger:  ledger.NewService(source),
		close:   closeFn,
	}
}

// Open connects to the store named by storeCfg.Driver through the default
// driver registry.
func Open(ctx context.Context, storeCfg config.StoreConfig, analyticsCfg config.AnalyticsConfig) (*Backend, error) {
	source, closeFn, err := drivers.Open(ctx, storeCfg)
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Debug().
		Str("driver", storeCfg.Driver).
		Msg("ledger store opened")
	return New(source, analyticsCfg, closeFn), nil
}

func (b *Backend) Close() error {
	return b.close()
}

func ReportingOptions(cfg config.AnalyticsConfig) reporting.Options {
	return reporting.Options{
		ForecastWindowDays:  cfg.ForecastWindowDays,
		ForecastHorizonDays: cfg.ForecastHorizonDays,
		MinForecastPoints:   cfg.MinForecastPoints,
		StockWindowDays:     cfg.StockWindowDays,
		LowStockThreshold:   cfg.LowStockThreshold,
		TopItemsLimit:       cfg.TopItemsLimit,
	}
}
