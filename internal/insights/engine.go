package insights

import (
	"sort"
	"time"

	"github.com/andresuchdata/smartgestion/backend-go/internal/domain"
)

// Engine runs every analytics component over one snapshot.
// It is safe for concurrent use; each run only reads its inputs.
type Engine struct {
	stock         *StockForecaster
	profitability *ProfitabilityAnalyzer
	clients       *ClientSegmenter
	trend         *SalesTrendAnalyzer
	forecaster    *DemandRevenueForecaster
	alerts        *SmartAlertGenerator
}

// NewEngine creates an engine from the given thresholds and random source
func NewEngine(t Thresholds, rng RandomSource) *Engine {
	return &Engine{
		stock:         NewStockForecaster(t),
		profitability: NewProfitabilityAnalyzer(t),
		clients:       NewClientSegmenter(t),
		trend:         NewSalesTrendAnalyzer(t),
		forecaster:    NewDemandRevenueForecaster(t, rng),
		alerts:        NewSmartAlertGenerator(t),
	}
}

// StockForecaster returns the stock-out forecaster
func (e *Engine) StockForecaster() *StockForecaster { return e.stock }

// ProfitabilityAnalyzer returns the margin analyzer
func (e *Engine) ProfitabilityAnalyzer() *ProfitabilityAnalyzer { return e.profitability }

// ClientSegmenter returns the client segmenter
func (e *Engine) ClientSegmenter() *ClientSegmenter { return e.clients }

// SalesTrendAnalyzer returns the sales trend analyzer
func (e *Engine) SalesTrendAnalyzer() *SalesTrendAnalyzer { return e.trend }

// Forecaster returns the demand and revenue forecaster
func (e *Engine) Forecaster() *DemandRevenueForecaster { return e.forecaster }

// AlertGenerator returns the smart alert generator
func (e *Engine) AlertGenerator() *SmartAlertGenerator { return e.alerts }

// Insights merges the insight lists of every component, highest impact first
func (e *Engine) Insights(snapshot domain.Snapshot, now time.Time) []domain.Insight {
	merged := make([]domain.Insight, 0)
	merged = append(merged, e.stock.Forecast(snapshot.Products, snapshot.Sales, now)...)
	merged = append(merged, e.profitability.Analyze(snapshot.Products)...)
	merged = append(merged, e.clients.Analyze(snapshot.Clients, now)...)
	merged = append(merged, e.trend.Analyze(snapshot.Sales)...)

	SortInsights(merged)
	return merged
}

// Run computes the full report of a snapshot
func (e *Engine) Run(snapshot domain.Snapshot, now time.Time) domain.Report {
	return domain.Report{
		GeneratedAt: now,
		Insights:    e.Insights(snapshot, now),
		Alerts:      e.alerts.Generate(snapshot, now),
		Demand:      e.forecaster.ForecastDemand(snapshot.Sales, now),
		Revenue:     e.forecaster.ForecastRevenue(snapshot.Sales, now),
	}
}

// SortInsights orders by impact (high first) then confidence (descending).
// Equal insights keep their relative order.
func SortInsights(list []domain.Insight) {
	sort.SliceStable(list, func(i, j int) bool {
		ri, rj := list[i].Impact.Rank(), list[j].Impact.Rank()
		if ri != rj {
			return ri < rj
		}
		return list[i].Confidence > list[j].Confidence
	})
}
