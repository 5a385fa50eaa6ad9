package insights

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/andresuchdata/smartgestion/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemandRevenueForecaster_ForecastDemand(t *testing.T) {
	t.Run("confidence decays and stays bounded", func(t *testing.T) {
		f := NewDemandRevenueForecaster(DefaultThresholds(), rand.New(rand.NewSource(42)))

		points := f.ForecastDemand(nil, testNow)

		require.Len(t, points, 30)
		assert.Equal(t, 0.95, points[0].Confidence)
		for i, p := range points {
			assert.GreaterOrEqual(t, p.Confidence, 0.6)
			assert.LessOrEqual(t, p.Confidence, 0.95)
			assert.GreaterOrEqual(t, p.Value, 1.0)
			if i > 0 {
				assert.LessOrEqual(t, p.Confidence, points[i-1].Confidence)
			}
		}
		assert.Equal(t, 0.66, points[29].Confidence)
	})

	t.Run("neutral noise gives exact values", func(t *testing.T) {
		f := NewDemandRevenueForecaster(DefaultThresholds(), fixedSource{v: 0.5})

		points := f.ForecastDemand(nil, testNow)

		assert.Equal(t, "2026-10-16", points[0].Date)
		assert.Equal(t, 11.0, points[0].Value) // Friday
		assert.Equal(t, 7.0, points[1].Value)  // Saturday
		assert.Equal(t, 7.0, points[2].Value)  // Sunday
		assert.Equal(t, 11.0, points[3].Value) // Monday
	})

	t.Run("noise stays within bounds", func(t *testing.T) {
		low := NewDemandRevenueForecaster(DefaultThresholds(), fixedSource{v: 0})
		high := NewDemandRevenueForecaster(DefaultThresholds(), fixedSource{v: 0.999999})
		sales := []domain.Sale{sale(1, 0, "A", 1000)}

		lowPoints := low.ForecastDemand(sales, testNow)
		highPoints := high.ForecastDemand(sales, testNow)

		// Friday, first day: 1000 * 1.1 * [0.925, 1.075]
		assert.InDelta(t, 1017.5, lowPoints[0].Value, 0.5)
		assert.Equal(t, 1182.0, highPoints[0].Value)
	})

	t.Run("same seed reproduces the series", func(t *testing.T) {
		sales := []domain.Sale{sale(1, 0, "A", 12), sale(2, 0, "B", 8)}
		a := NewDemandRevenueForecaster(DefaultThresholds(), rand.New(rand.NewSource(7)))
		b := NewDemandRevenueForecaster(DefaultThresholds(), rand.New(rand.NewSource(7)))

		assert.Equal(t, a.ForecastDemand(sales, testNow), b.ForecastDemand(sales, testNow))
	})

	t.Run("values are floored at one", func(t *testing.T) {
		f := NewDemandRevenueForecaster(DefaultThresholds(), fixedSource{v: 0.5})
		sales := []domain.Sale{{Date: daysAgo(1), Total: 10}}

		for _, p := range f.ForecastDemand(sales, testNow) {
			assert.Equal(t, 1.0, p.Value)
		}
	})
}

func TestDemandRevenueForecaster_AverageDailyDemand(t *testing.T) {
	f := NewDemandRevenueForecaster(DefaultThresholds(), fixedSource{v: 0.5})

	assert.Equal(t, 10.0, f.AverageDailyDemand(nil, testNow))

	sameDay := daysAgo(3)
	sales := []domain.Sale{
		{Date: sameDay, Items: []domain.SaleItem{{Product: "A", Quantity: 4}}},
		{Date: sameDay.Add(time.Hour), Items: []domain.SaleItem{{Product: "B", Quantity: 6}}},
		sale(5, 0, "A", 20),
		sale(40, 0, "A", 500),
	}
	assert.Equal(t, 15.0, f.AverageDailyDemand(sales, testNow))
}

func TestDemandRevenueForecaster_ForecastRevenue(t *testing.T) {
	f := NewDemandRevenueForecaster(DefaultThresholds(), nil)

	t.Run("defaults without history", func(t *testing.T) {
		points := f.ForecastRevenue(nil, testNow)

		require.Len(t, points, 12)
		assert.Equal(t, "2026-11", points[0].Month)
		assert.Equal(t, 550000.0, points[0].Value)
		assert.Equal(t, 0.0, points[0].Growth)
		assert.Equal(t, "2026-12", points[1].Month)
		assert.Equal(t, math.Round(500000*1.2*math.Pow(1.05, 1.0/3)), points[1].Value)
		assert.Equal(t, "2027-10", points[11].Month)
	})

	t.Run("history drives the average", func(t *testing.T) {
		sales := []domain.Sale{
			{Date: time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC), Total: 100000},
			{Date: time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC), Total: 60000},
			{Date: time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC), Total: 50000},
		}

		points := f.ForecastRevenue(sales, testNow)

		// average 105000, growth +10%, November factor 1.10
		assert.Equal(t, math.Round(105000*1.10), points[0].Value)
		assert.Equal(t, math.Round(105000*1.20*math.Pow(1.10, 1.0/3)), points[1].Value)
	})
}

func TestDemandRevenueForecaster_GrowthRate(t *testing.T) {
	f := NewDemandRevenueForecaster(DefaultThresholds(), nil)

	tests := []struct {
		name    string
		monthly []float64
		want    float64
	}{
		{name: "no history", monthly: nil, want: 0.05},
		{name: "single month", monthly: []float64{1000}, want: 0.05},
		{name: "zero previous month", monthly: []float64{0, 1000}, want: 0.05},
		{name: "within range", monthly: []float64{1000, 1100}, want: 0.1},
		{name: "clamped up", monthly: []float64{100, 200}, want: 0.2},
		{name: "clamped down", monthly: []float64{200, 100}, want: -0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, f.GrowthRate(tt.monthly), 1e-9)
		})
	}
}

func TestMonthlyRevenue(t *testing.T) {
	sales := []domain.Sale{
		{Date: time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC), Total: 10},
		{Date: time.Date(2026, 7, 3, 0, 0, 0, 0, time.UTC), Total: 5},
		{Date: time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC), Total: 15},
	}

	assert.Equal(t, []float64{5, 25}, MonthlyRevenue(sales))
	assert.Empty(t, MonthlyRevenue(nil))
}
