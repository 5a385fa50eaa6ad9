package insights

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/andresuchdata/smartgestion/backend-go/internal/domain"
)

// SalesTrend compares the average ticket of the latest sales with the previous window
type SalesTrend struct {
	RecentAvg float64
	OlderAvg  float64
	Growth    float64 // Percent
}

// SalesTrendAnalyzer derives growth and the best-selling weekday from sale totals
type SalesTrendAnalyzer struct {
	t Thresholds
}

// NewSalesTrendAnalyzer creates a new sales trend analyzer
func NewSalesTrendAnalyzer(t Thresholds) *SalesTrendAnalyzer {
	return &SalesTrendAnalyzer{t: t}
}

// Trend computes the rolling window comparison over sales sorted ascending by date
func (a *SalesTrendAnalyzer) Trend(sorted []domain.Sale) SalesTrend {
	n := len(sorted)
	w := a.t.TrendWindow

	recent := sorted[max(0, n-w):]
	older := sorted[max(0, n-2*w):max(0, n-w)]

	trend := SalesTrend{RecentAvg: averageTotal(recent)}
	if len(older) == 0 {
		trend.OlderAvg = trend.RecentAvg
	} else {
		trend.OlderAvg = averageTotal(older)
	}

	if trend.OlderAvg > 0 {
		trend.Growth = (trend.RecentAvg - trend.OlderAvg) / trend.OlderAvg * 100
	}

	return trend
}

// BestWeekday returns the weekday with the highest summed totals.
// Ties keep the earliest weekday, Sunday first.
func (a *SalesTrendAnalyzer) BestWeekday(sales []domain.Sale) (time.Weekday, float64, bool) {
	if len(sales) == 0 {
		return time.Sunday, 0, false
	}

	var totals [7]float64
	for _, s := range sales {
		totals[s.Date.Weekday()] += s.Total
	}

	best := time.Sunday
	for d := time.Monday; d <= time.Saturday; d++ {
		if totals[d] > totals[best] {
			best = d
		}
	}

	return best, totals[best], true
}

// Analyze emits the growth insight and the best weekday recommendation
func (a *SalesTrendAnalyzer) Analyze(sales []domain.Sale) []domain.Insight {
	result := make([]domain.Insight, 0, 2)
	if len(sales) < a.t.TrendMinSales {
		return result
	}

	sorted := SortedByDate(sales)
	trend := a.Trend(sorted)
	absGrowth := math.Abs(trend.Growth)
	if absGrowth > a.t.TrendAlertPct {
		impact := domain.ImpactMedium
		if absGrowth > a.t.TrendHighImpactPct {
			impact = domain.ImpactHigh
		}

		insight := domain.Insight{
			ID:         "sales-trend",
			Confidence: 0.82,
			Impact:     impact,
			Actionable: trend.Growth < 0,
			Data: map[string]interface{}{
				"growth":    roundFloat(trend.Growth, 1),
				"recentAvg": roundFloat(trend.RecentAvg, 2),
				"olderAvg":  roundFloat(trend.OlderAvg, 2),
			},
		}
		if trend.Growth > 0 {
			insight.Type = domain.InsightPrediction
			insight.Title = "Ventes en hausse"
			insight.Description = fmt.Sprintf("Le panier moyen des dernières ventes progresse de %s (%s contre %s).",
				formatPct(trend.Growth), formatAmount(trend.RecentAvg), formatAmount(trend.OlderAvg))
		} else {
			insight.Type = domain.InsightAlert
			insight.Title = "Ventes en baisse"
			insight.Description = fmt.Sprintf("Le panier moyen des dernières ventes recule de %s (%s contre %s).",
				formatPct(absGrowth), formatAmount(trend.RecentAvg), formatAmount(trend.OlderAvg))
		}
		result = append(result, insight)
	}

	if day, total, ok := a.BestWeekday(sorted); ok {
		result = append(result, domain.Insight{
			ID:          "sales-best-day",
			Type:        domain.InsightRecommendation,
			Title:       fmt.Sprintf("Meilleur jour: %s", frenchWeekdays[day]),
			Description: fmt.Sprintf("Le %s génère le plus de chiffre d'affaires (%s). Planifier promotions et réassort en conséquence.", frenchWeekdays[day], formatAmount(total)),
			Confidence:  0.75,
			Impact:      domain.ImpactLow,
			Actionable:  true,
			Data: map[string]interface{}{
				"weekday": frenchWeekdays[day],
				"total":   roundFloat(total, 2),
			},
		})
	}

	return result
}

// SortedByDate returns a copy of sales in ascending date order
func SortedByDate(sales []domain.Sale) []domain.Sale {
	sorted := append([]domain.Sale(nil), sales...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })
	return sorted
}

func averageTotal(sales []domain.Sale) float64 {
	if len(sales) == 0 {
		return 0
	}
	var sum float64
	for _, s := range sales {
		sum += s.Total
	}
	return sum / float64(len(sales))
}
