package insights

import (
	"testing"

	"github.com/andresuchdata/smartgestion/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStockForecaster_Forecast(t *testing.T) {
	f := NewStockForecaster(DefaultThresholds())

	t.Run("out of stock product without history", func(t *testing.T) {
		products := []domain.Product{{Name: "A", Stock: 0, AlertThreshold: 5}}

		result := f.Forecast(products, nil, testNow)

		require.Len(t, result, 1)
		assert.Equal(t, "stock-A", result[0].ID)
		assert.Equal(t, domain.InsightPrediction, result[0].Type)
		assert.Equal(t, domain.ImpactHigh, result[0].Impact)
		assert.Equal(t, 10, result[0].Data["recommendedOrder"])
		assert.Nil(t, result[0].Data["daysUntilStockout"])
		assert.InDelta(t, 0.6, result[0].Confidence, 1e-9)
	})

	t.Run("stockout within safety horizon", func(t *testing.T) {
		products := []domain.Product{{Name: "B", Stock: 10, AlertThreshold: 5}}
		sales := []domain.Sale{
			sale(1, 100, "B", 10),
			sale(5, 100, "B", 10),
			sale(20, 100, "B", 10),
			sale(45, 100, "B", 50), // outside the window
		}

		result := f.Forecast(products, sales, testNow)

		require.Len(t, result, 1)
		assert.Equal(t, domain.ImpactMedium, result[0].Impact)
		assert.Equal(t, 10, result[0].Data["daysUntilStockout"])
		assert.Equal(t, 14, result[0].Data["safetyStock"])
		assert.Equal(t, 4, result[0].Data["recommendedOrder"])
		assert.InDelta(t, 1.0, result[0].Data["velocity"], 1e-9)
		assert.InDelta(t, 0.75, result[0].Confidence, 1e-9)
	})

	t.Run("no velocity and stock above threshold", func(t *testing.T) {
		products := []domain.Product{{Name: "C", Stock: 50, AlertThreshold: 5}}
		sales := []domain.Sale{sale(2, 40, "other", 3)}

		assert.Empty(t, f.Forecast(products, sales, testNow))
	})

	t.Run("below threshold without sales", func(t *testing.T) {
		products := []domain.Product{{Name: "D", Stock: 3, AlertThreshold: 5}}

		result := f.Forecast(products, nil, testNow)

		require.Len(t, result, 1)
		assert.Equal(t, domain.ImpactMedium, result[0].Impact)
		assert.Equal(t, 0, result[0].Data["recommendedOrder"])
		assert.Nil(t, result[0].Data["daysUntilStockout"])
	})

	t.Run("comfortable cover is not reported", func(t *testing.T) {
		products := []domain.Product{{Name: "E", Stock: 100, AlertThreshold: 5}}
		sales := []domain.Sale{sale(3, 10, "E", 30)}

		assert.Empty(t, f.Forecast(products, sales, testNow))
	})

	t.Run("empty inputs", func(t *testing.T) {
		result := f.Forecast(nil, nil, testNow)
		assert.NotNil(t, result)
		assert.Empty(t, result)
	})
}

func TestStockForecaster_Project(t *testing.T) {
	f := NewStockForecaster(DefaultThresholds())

	t.Run("out of stock keeps the larger computed order", func(t *testing.T) {
		p := domain.Product{Name: "A", Stock: 0}
		sales := []domain.Sale{sale(1, 0, "A", 30), sale(2, 0, "A", 30)}

		proj := f.Project(p, sales, testNow)

		assert.Equal(t, 60, proj.TotalSold)
		assert.Equal(t, 2, proj.MatchedSales)
		assert.InDelta(t, 2.0, proj.Velocity, 1e-9)
		assert.True(t, proj.Bounded)
		assert.Equal(t, 0, proj.DaysUntilStockout)
		assert.Equal(t, 28, proj.RecommendedOrder)
	})

	t.Run("confidence is capped", func(t *testing.T) {
		p := domain.Product{Name: "A", Stock: 5}
		var sales []domain.Sale
		for i := 0; i < 12; i++ {
			sales = append(sales, sale(i, 10, "A", 1))
		}

		proj := f.Project(p, sales, testNow)

		assert.Equal(t, 12, proj.MatchedSales)
		assert.InDelta(t, 0.95, proj.Confidence, 1e-9)
	})

	t.Run("counts every matching line of a sale once", func(t *testing.T) {
		p := domain.Product{Name: "A", Stock: 5}
		s := domain.Sale{Date: daysAgo(1), Items: []domain.SaleItem{
			{Product: "A", Quantity: 2},
			{Product: "B", Quantity: 7},
			{Product: "A", Quantity: 1},
		}}

		proj := f.Project(p, []domain.Sale{s}, testNow)

		assert.Equal(t, 3, proj.TotalSold)
		assert.Equal(t, 1, proj.MatchedSales)
	})
}
