package insights

import (
	"fmt"
	"math"
	"time"

	"github.com/andresuchdata/smartgestion/backend-go/internal/domain"
)

// StockProjection holds the stock metrics computed for a single product
type StockProjection struct {
	TotalSold         int     // Units sold in the trailing window
	MatchedSales      int     // Sales in the window naming the product
	Velocity          float64 // Units per day over the window
	DaysUntilStockout int     // Only meaningful when Bounded is true
	Bounded           bool    // False when velocity is zero
	SafetyStock       int
	RecommendedOrder  int
	Confidence        float64
}

// StockForecaster projects stockouts and reorder quantities from sales velocity
type StockForecaster struct {
	t Thresholds
}

// NewStockForecaster creates a new stock forecaster
func NewStockForecaster(t Thresholds) *StockForecaster {
	return &StockForecaster{t: t}
}

// Project computes the stock metrics of one product against the sales history
func (f *StockForecaster) Project(p domain.Product, sales []domain.Sale, now time.Time) StockProjection {
	window := f.t.VelocityWindowDays
	if window <= 0 {
		window = 30
	}
	start := now.Add(-time.Duration(window) * dayDuration)

	proj := StockProjection{}

	// 1. Units sold in [now-W, now] for this product name
	for _, s := range sales {
		if s.Date.Before(start) || s.Date.After(now) {
			continue
		}
		matched := false
		for _, item := range s.Items {
			if item.Product == p.Name {
				proj.TotalSold += item.Quantity
				matched = true
			}
		}
		if matched {
			proj.MatchedSales++
		}
	}

	// 2. Velocity counts days without sales as zero
	proj.Velocity = float64(proj.TotalSold) / float64(window)

	// 3. Days until stockout, unbounded when nothing sells
	if proj.Velocity > 0 {
		proj.DaysUntilStockout = int(math.Floor(float64(p.Stock) / proj.Velocity))
		proj.Bounded = true
	}

	// 4. Safety stock and reorder quantity
	proj.SafetyStock = int(math.Ceil(proj.Velocity * float64(f.t.SafetyStockDays)))
	proj.RecommendedOrder = int(math.Max(0, float64(proj.SafetyStock-p.Stock)))
	if p.Stock == 0 && proj.RecommendedOrder < f.t.MinReorderQty {
		proj.RecommendedOrder = f.t.MinReorderQty
	}

	// 5. More corroborating sales raise confidence
	proj.Confidence = math.Min(0.95, 0.6+float64(proj.MatchedSales)*0.05)

	return proj
}

// Forecast emits one prediction insight per product at risk of stockout
func (f *StockForecaster) Forecast(products []domain.Product, sales []domain.Sale, now time.Time) []domain.Insight {
	result := make([]domain.Insight, 0)

	for _, p := range products {
		proj := f.Project(p, sales, now)

		stockoutSoon := proj.Bounded && proj.DaysUntilStockout < f.t.SafetyStockDays
		if !stockoutSoon && p.Stock > p.AlertThreshold {
			continue
		}

		var daysUntilStockout interface{}
		if proj.Bounded {
			daysUntilStockout = proj.DaysUntilStockout
		}

		insight := domain.Insight{
			ID:         "stock-" + p.Name,
			Type:       domain.InsightPrediction,
			Confidence: roundFloat(proj.Confidence, 2),
			Actionable: true,
			Data: map[string]interface{}{
				"product":           p.Name,
				"stock":             p.Stock,
				"recommendedOrder":  proj.RecommendedOrder,
				"velocity":          roundFloat(proj.Velocity, 2),
				"daysUntilStockout": daysUntilStockout,
				"safetyStock":       proj.SafetyStock,
			},
		}

		if p.Stock == 0 {
			insight.Impact = domain.ImpactHigh
			insight.Title = fmt.Sprintf("Rupture de stock: %s", p.Name)
			insight.Description = fmt.Sprintf("%s est en rupture. Commander au moins %d unités.",
				p.Name, proj.RecommendedOrder)
		} else {
			insight.Impact = domain.ImpactMedium
			insight.Title = fmt.Sprintf("Stock faible: %s", p.Name)
			if proj.Bounded {
				insight.Description = fmt.Sprintf("%d unités restantes, rupture estimée dans %d jours. Commande recommandée: %d unités.",
					p.Stock, proj.DaysUntilStockout, proj.RecommendedOrder)
			} else {
				insight.Description = fmt.Sprintf("%d unités restantes, sous le seuil d'alerte de %d.",
					p.Stock, p.AlertThreshold)
			}
		}

		result = append(result, insight)
	}

	return result
}
