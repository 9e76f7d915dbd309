package analytics

import (
	"math/rand"
	"testing"
	"time"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2025, time.June, 28, 15, 4, 5, 0, time.UTC)

func TestForecast_Gating(t *testing.T) {
	for n := 0; n <= 4; n++ {
		series := make([]float64, n)
		for i := range series {
			series[i] = float64(10 + i)
		}

		f := Forecast(series, today, DefaultForecastOptions())
		assert.False(t, f.Sufficient, "n=%d", n)
		assert.Equal(t, InsufficientDataMessage, f.Message)
		assert.NotNil(t, f.Points)
		assert.Empty(t, f.Points)
	}

	for _, n := range []int{5, 6, 30} {
		series := make([]float64, n)
		for i := range series {
			series[i] = float64(100 - i)
		}

		f := Forecast(series, today, DefaultForecastOptions())
		assert.True(t, f.Sufficient, "n=%d", n)
		assert.Len(t, f.Points, 7)
	}
}

func TestForecast_PerfectLine(t *testing.T) {
	series := []float64{10, 12, 14, 16, 18, 20}

	f := Forecast(series, today, DefaultForecastOptions())
	require.True(t, f.Sufficient)
	assert.Equal(t, domain.TrendUp, f.Trend)
	assert.InDelta(t, 2.0, f.Slope, 1e-9)
	assert.InDelta(t, 10.0, f.Intercept, 1e-9)
	assert.InDelta(t, 1.0, f.RSquared, 1e-9)

	require.Len(t, f.Points, 7)
	for step, p := range f.Points {
		assert.InDelta(t, 10+2*float64(len(series)+step), p.PredictedAmount, 1e-9)
		assert.InDelta(t, f.RSquared, p.Confidence, 0)
		assert.Equal(t, today.AddDate(0, 0, step+1).Format("2006-01-02"), p.Date.Format("2006-01-02"))
	}
}

func TestForecast_ClampsNegativeProjections(t *testing.T) {
	series := []float64{100, 80, 60, 40, 20}

	f := Forecast(series, today, DefaultForecastOptions())
	require.True(t, f.Sufficient)
	assert.Equal(t, domain.TrendDown, f.Trend)
	for _, p := range f.Points {
		assert.GreaterOrEqual(t, p.PredictedAmount, 0.0)
	}
	assert.InDelta(t, 0.0, f.Points[0].PredictedAmount, 1e-9)
}

func TestForecast_ConstantSeries(t *testing.T) {
	f := Forecast([]float64{5, 5, 5, 5, 5}, today, DefaultForecastOptions())
	require.True(t, f.Sufficient)
	// zero slope is reported as DOWN
	assert.Equal(t, domain.TrendDown, f.Trend)
	assert.Equal(t, 0.0, f.RSquared)
	for _, p := range f.Points {
		assert.InDelta(t, 5.0, p.PredictedAmount, 1e-9)
	}
}

func TestForecast_RandomSeriesStayInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 100; round++ {
		series := make([]float64, 5+rng.Intn(26))
		for i := range series {
			series[i] = rng.Float64() * 500
		}

		f := Forecast(series, today, DefaultForecastOptions())
		require.True(t, f.Sufficient)
		assert.GreaterOrEqual(t, f.RSquared, 0.0)
		assert.LessOrEqual(t, f.RSquared, 1.0)
		for _, p := range f.Points {
			assert.GreaterOrEqual(t, p.PredictedAmount, 0.0)
		}
	}
}

func TestForecast_CustomOptions(t *testing.T) {
	f := Forecast([]float64{1, 2, 3}, today, ForecastOptions{MinPoints: 3, Horizon: 14})
	require.True(t, f.Sufficient)
	assert.Len(t, f.Points, 14)
}

func TestFitLine_ShortSeries(t *testing.T) {
	assert.Equal(t, LineFit{}, FitLine(nil))
	assert.Equal(t, LineFit{}, FitLine([]float64{3}))
}
