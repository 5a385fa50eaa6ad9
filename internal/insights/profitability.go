package insights

import (
	"fmt"
	"sort"
	"strings"

	"github.com/andresuchdata/smartgestion/backend-go/internal/domain"
)

// ProductMargin is the margin of a priced product
type ProductMargin struct {
	Product string  `json:"product"`
	Margin  float64 `json:"margin"` // Percent of sell price
	Profit  float64 `json:"profit"` // Per unit
}

// ProfitabilityAnalyzer buckets products by margin percentage
type ProfitabilityAnalyzer struct {
	t Thresholds
}

// NewProfitabilityAnalyzer creates a new profitability analyzer
func NewProfitabilityAnalyzer(t Thresholds) *ProfitabilityAnalyzer {
	return &ProfitabilityAnalyzer{t: t}
}

// Margins returns the margins of every product with both prices set, ascending by margin.
// Products with a zero price have no defined margin and are skipped.
func (a *ProfitabilityAnalyzer) Margins(products []domain.Product) []ProductMargin {
	margins := make([]ProductMargin, 0, len(products))
	for _, p := range products {
		if p.SellPrice <= 0 || p.BuyPrice <= 0 {
			continue
		}
		margins = append(margins, ProductMargin{
			Product: p.Name,
			Margin:  (p.SellPrice - p.BuyPrice) / p.SellPrice * 100,
			Profit:  p.SellPrice - p.BuyPrice,
		})
	}

	sort.SliceStable(margins, func(i, j int) bool { return margins[i].Margin < margins[j].Margin })
	return margins
}

// Analyze emits at most one low-margin and one high-margin insight
func (a *ProfitabilityAnalyzer) Analyze(products []domain.Product) []domain.Insight {
	result := make([]domain.Insight, 0, 2)
	margins := a.Margins(products)

	var low, high []ProductMargin
	for _, m := range margins {
		switch {
		case m.Margin < a.t.LowMarginPct:
			low = append(low, m)
		case m.Margin > a.t.HighMarginPct:
			high = append(high, m)
		}
	}

	if len(low) > 0 {
		examples := low[:min(len(low), a.t.MaxExamples)]
		gain := float64(len(low)) * a.t.LowMarginGainUnit
		result = append(result, domain.Insight{
			ID:    "margin-low",
			Type:  domain.InsightOptimization,
			Title: fmt.Sprintf("%d produit(s) à faible marge", len(low)),
			Description: fmt.Sprintf("Marge inférieure à %s sur %s. Revoir les prix pourrait rapporter environ %s par mois.",
				formatPct(a.t.LowMarginPct), joinMarginNames(examples), formatAmount(gain)),
			Confidence: 0.92,
			Impact:     domain.ImpactHigh,
			Actionable: true,
			Data: map[string]interface{}{
				"count":                len(low),
				"products":             roundMargins(examples),
				"estimatedMonthlyGain": gain,
			},
		})
	}

	if len(high) > 0 {
		// Margins are ascending, the best performers sit at the end
		top := make([]ProductMargin, 0, a.t.MaxExamples)
		for i := len(high) - 1; i >= 0 && len(top) < a.t.MaxExamples; i-- {
			top = append(top, high[i])
		}

		parts := make([]string, len(top))
		for i, m := range top {
			parts[i] = fmt.Sprintf("%s (%s)", m.Product, formatPct(m.Margin))
		}

		result = append(result, domain.Insight{
			ID:          "margin-high",
			Type:        domain.InsightRecommendation,
			Title:       fmt.Sprintf("%d produit(s) très rentables", len(high)),
			Description: fmt.Sprintf("Mettre en avant les produits à forte marge: %s.", strings.Join(parts, ", ")),
			Confidence:  0.88,
			Impact:      domain.ImpactMedium,
			Actionable:  true,
			Data: map[string]interface{}{
				"count":    len(high),
				"products": roundMargins(top),
			},
		})
	}

	return result
}

func joinMarginNames(margins []ProductMargin) string {
	names := make([]string, len(margins))
	for i, m := range margins {
		names[i] = m.Product
	}
	return strings.Join(names, ", ")
}

func roundMargins(margins []ProductMargin) []ProductMargin {
	out := make([]ProductMargin, len(margins))
	for i, m := range margins {
		out[i] = ProductMargin{Product: m.Product, Margin: roundFloat(m.Margin, 1), Profit: roundFloat(m.Profit, 2)}
	}
	return out
}
