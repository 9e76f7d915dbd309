package analytics

import (
	"math"
	"time"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"gonum.org/v1/gonum/stat"
)

const InsufficientDataMessage = "insufficient data"

type ForecastOptions struct {
	MinPoints int // shorter series are not fitted
	Horizon   int // days to project
}

func DefaultForecastOptions() ForecastOptions {
	return ForecastOptions{MinPoints: 5, Horizon: 7}
}

// Forecast fits an ordinary least squares line through the daily sales
// series (index i -> series[i]) and projects the next Horizon days after
// today. Projected amounts are clamped at zero.
func Forecast(series []float64, today time.Time, opts ForecastOptions) domain.Forecast {
	defaults := DefaultForecastOptions()
	if opts.MinPoints <= 0 {
		opts.MinPoints = defaults.MinPoints
	}
	if opts.Horizon <= 0 {
		opts.Horizon = defaults.Horizon
	}

	if len(series) < opts.MinPoints || len(series) < 2 {
		return domain.Forecast{
			Sufficient: false,
			Message:    InsufficientDataMessage,
			Points:     []domain.ForecastPoint{},
		}
	}

	fit := FitLine(series)

	trend := domain.TrendDown
	if fit.Slope > 0 {
		trend = domain.TrendUp
	}

	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	n := len(series)
	points := make([]domain.ForecastPoint, 0, opts.Horizon)
	for step := 0; step < opts.Horizon; step++ {
		predicted := fit.Slope*float64(n+step) + fit.Intercept
		points = append(points, domain.ForecastPoint{
			Date:            day.AddDate(0, 0, step+1),
			PredictedAmount: math.Max(0, predicted),
			Confidence:      fit.RSquared,
		})
	}

	return domain.Forecast{
		Sufficient: true,
		Trend:      trend,
		Slope:      fit.Slope,
		Intercept:  fit.Intercept,
		RSquared:   fit.RSquared,
		Points:     points,
	}
}

type LineFit struct {
	Slope     float64
	Intercept float64
	RSquared  float64
}

// FitLine regresses ys on their indices. RSquared is 0 for a constant
// series and otherwise kept within [0, 1].
func FitLine(ys []float64) LineFit {
	if len(ys) < 2 {
		return LineFit{}
	}

	xs := make([]float64, len(ys))
	for i := range xs {
		xs[i] = float64(i)
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)

	fit := LineFit{Slope: slope, Intercept: intercept}
	if constant(ys) {
		return fit
	}

	r2 := stat.RSquared(xs, ys, nil, intercept, slope)
	switch {
	case math.IsNaN(r2) || r2 < 0:
		r2 = 0
	case r2 > 1:
		r2 = 1
	}
	fit.RSquared = r2
	return fit
}

func constant(ys []float64) bool {
	for _, y := range ys[1:] {
		if y != ys[0] {
			return false
		}
	}
	return true
}
