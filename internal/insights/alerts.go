package insights

import (
	"fmt"
	"time"

	"github.com/andresuchdata/smartgestion/backend-go/internal/domain"
)

// Fixed alert identifiers, stable across runs
const (
	AlertStockOut         = "stock-out"
	AlertStockLow         = "stock-low"
	AlertStockOverstock   = "stock-overstock"
	AlertSalesGrowth      = "sales-growth"
	AlertSalesDrop        = "sales-drop"
	AlertClientsInactive  = "clients-inactive"
	AlertVIPConcentration = "clients-vip-concentration"
	AlertMarginLow        = "margin-low"
)

// WeeklySales holds the totals of the last two 7-day windows
type WeeklySales struct {
	ThisWeek float64
	LastWeek float64
	Delta    float64 // Percent, zero when LastWeek is zero
}

// SmartAlertGenerator labels the conditions that currently hold on a snapshot.
// It keeps no state between runs; suppression is the caller's concern.
type SmartAlertGenerator struct {
	t             Thresholds
	segmenter     *ClientSegmenter
	profitability *ProfitabilityAnalyzer
}

// NewSmartAlertGenerator creates a new alert generator
func NewSmartAlertGenerator(t Thresholds) *SmartAlertGenerator {
	return &SmartAlertGenerator{
		t:             t,
		segmenter:     NewClientSegmenter(t),
		profitability: NewProfitabilityAnalyzer(t),
	}
}

// WeekOverWeek compares sales of [now-7d, now] with [now-14d, now-7d)
func (g *SmartAlertGenerator) WeekOverWeek(sales []domain.Sale, now time.Time) WeeklySales {
	weekAgo := now.Add(-7 * dayDuration)
	twoWeeksAgo := now.Add(-14 * dayDuration)

	var w WeeklySales
	for _, s := range sales {
		switch {
		case s.Date.After(now):
			// future-dated
		case !s.Date.Before(weekAgo):
			w.ThisWeek += s.Total
		case !s.Date.Before(twoWeeksAgo):
			w.LastWeek += s.Total
		}
	}

	if w.LastWeek > 0 {
		w.Delta = (w.ThisWeek - w.LastWeek) / w.LastWeek * 100
	}
	return w
}

// Generate returns one alert per condition that holds, in a fixed order
func (g *SmartAlertGenerator) Generate(snapshot domain.Snapshot, now time.Time) []domain.Alert {
	alerts := make([]domain.Alert, 0)

	alerts = append(alerts, g.stockAlerts(snapshot.Products)...)
	alerts = append(alerts, g.salesAlerts(snapshot.Sales, now)...)
	alerts = append(alerts, g.clientAlerts(snapshot.Clients, now)...)
	alerts = append(alerts, g.marginAlerts(snapshot.Products)...)

	return alerts
}

func (g *SmartAlertGenerator) stockAlerts(products []domain.Product) []domain.Alert {
	var out, low, over []string
	for _, p := range products {
		switch {
		case p.Stock == 0:
			out = append(out, p.Name)
		case p.Stock <= p.AlertThreshold:
			low = append(low, p.Name)
		case p.AlertThreshold > 0 && float64(p.Stock) > g.t.OverstockMultiplier*float64(p.AlertThreshold):
			over = append(over, p.Name)
		}
	}

	var alerts []domain.Alert
	if len(out) > 0 {
		alerts = append(alerts, domain.Alert{
			ID:          AlertStockOut,
			Type:        domain.AlertCritical,
			Category:    domain.CategoryStock,
			Title:       fmt.Sprintf("%d produit(s) en rupture de stock", len(out)),
			Description: "Réapprovisionner immédiatement pour éviter des ventes perdues.",
			Data:        map[string]interface{}{"count": len(out), "products": out},
		})
	}
	if len(low) > 0 {
		alerts = append(alerts, domain.Alert{
			ID:          AlertStockLow,
			Type:        domain.AlertWarning,
			Category:    domain.CategoryStock,
			Title:       fmt.Sprintf("%d produit(s) sous le seuil d'alerte", len(low)),
			Description: "Planifier une commande fournisseur.",
			Data:        map[string]interface{}{"count": len(low), "products": low},
		})
	}
	if len(over) > 0 {
		alerts = append(alerts, domain.Alert{
			ID:       AlertStockOverstock,
			Type:     domain.AlertInfo,
			Category: domain.CategoryStock,
			Title:    fmt.Sprintf("%d produit(s) en surstock", len(over)),
			Description: fmt.Sprintf("Stock supérieur à %g fois le seuil d'alerte. Envisager une promotion.",
				g.t.OverstockMultiplier),
			Data: map[string]interface{}{"count": len(over), "products": over},
		})
	}
	return alerts
}

func (g *SmartAlertGenerator) salesAlerts(sales []domain.Sale, now time.Time) []domain.Alert {
	w := g.WeekOverWeek(sales, now)
	data := map[string]interface{}{
		"thisWeek": roundFloat(w.ThisWeek, 2),
		"lastWeek": roundFloat(w.LastWeek, 2),
		"delta":    roundFloat(w.Delta, 1),
	}

	switch {
	case w.Delta > g.t.WeeklyDeltaPct:
		return []domain.Alert{{
			ID:          AlertSalesGrowth,
			Type:        domain.AlertOpportunity,
			Category:    domain.CategorySales,
			Title:       fmt.Sprintf("Ventes en hausse de %s cette semaine", formatPct(w.Delta)),
			Description: "Vérifier les stocks des meilleures ventes pour suivre la demande.",
			Data:        data,
		}}
	case w.Delta < -g.t.WeeklyDeltaPct:
		return []domain.Alert{{
			ID:          AlertSalesDrop,
			Type:        domain.AlertWarning,
			Category:    domain.CategorySales,
			Title:       fmt.Sprintf("Ventes en baisse de %s cette semaine", formatPct(-w.Delta)),
			Description: "Analyser la baisse et relancer les clients réguliers.",
			Data:        data,
		}}
	}
	return nil
}

func (g *SmartAlertGenerator) clientAlerts(clients []domain.Client, now time.Time) []domain.Alert {
	seg := g.segmenter.Segment(clients, now)

	var inactive []string
	var total, vipRevenue float64
	for _, c := range clients {
		if !c.IsActive() || g.segmenter.IsDormant(c, now) {
			inactive = append(inactive, c.Name)
		}
		total += c.TotalAmount
	}
	for _, c := range seg.VIP {
		vipRevenue += c.TotalAmount
	}

	var alerts []domain.Alert
	if len(inactive) > 0 {
		alerts = append(alerts, domain.Alert{
			ID:          AlertClientsInactive,
			Type:        domain.AlertWarning,
			Category:    domain.CategoryClients,
			Title:       fmt.Sprintf("%d client(s) inactif(s)", len(inactive)),
			Description: fmt.Sprintf("Aucune commande depuis plus de %d jours ou compte inactif.", g.t.DormantDays),
			Data:        map[string]interface{}{"count": len(inactive), "clients": inactive},
		})
	}

	if total > 0 {
		share := vipRevenue / total * 100
		if share > g.t.VIPShareAlertPct {
			alerts = append(alerts, domain.Alert{
				ID:          AlertVIPConcentration,
				Type:        domain.AlertInfo,
				Category:    domain.CategoryClients,
				Title:       fmt.Sprintf("Les clients VIP représentent %s du chiffre d'affaires", formatPct(share)),
				Description: "Forte dépendance à quelques clients. Diversifier la clientèle.",
				Data:        map[string]interface{}{"share": roundFloat(share, 1), "vipCount": len(seg.VIP)},
			})
		}
	}

	return alerts
}

func (g *SmartAlertGenerator) marginAlerts(products []domain.Product) []domain.Alert {
	var low []string
	for _, m := range g.profitability.Margins(products) {
		if m.Margin < g.t.LowMarginPct {
			low = append(low, m.Product)
		}
	}
	if len(low) == 0 {
		return nil
	}

	return []domain.Alert{{
		ID:          AlertMarginLow,
		Type:        domain.AlertWarning,
		Category:    domain.CategoryMargin,
		Title:       fmt.Sprintf("%d produit(s) avec une marge inférieure à %s", len(low), formatPct(g.t.LowMarginPct)),
		Description: "Revoir les prix de vente ou négocier les prix d'achat.",
		Data:        map[string]interface{}{"count": len(low), "products": low},
	}}
}
