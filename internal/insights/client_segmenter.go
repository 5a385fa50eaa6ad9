package insights

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/andresuchdata/smartgestion/backend-go/internal/domain"
)

// Segments holds the client buckets. A client may appear in several of them.
type Segments struct {
	VIP     []domain.Client `json:"vip"`
	Active  []domain.Client `json:"active"`
	Dormant []domain.Client `json:"dormant"`
	AtRisk  []domain.Client `json:"at_risk"`
}

// ClientSegmenter classifies clients by recency and lifetime value
type ClientSegmenter struct {
	t Thresholds
}

// NewClientSegmenter creates a new client segmenter
func NewClientSegmenter(t Thresholds) *ClientSegmenter {
	return &ClientSegmenter{t: t}
}

// Segment evaluates every segment rule independently for each client
func (s *ClientSegmenter) Segment(clients []domain.Client, now time.Time) Segments {
	var seg Segments

	for _, c := range clients {
		if c.TotalAmount > s.t.VIPAmount {
			seg.VIP = append(seg.VIP, c)
		}

		if c.LastOrder == nil {
			seg.Dormant = append(seg.Dormant, c)
			continue
		}

		days := daysBetween(*c.LastOrder, now)
		activeDays := float64(s.t.ActiveDays)
		dormantDays := float64(s.t.DormantDays)

		switch {
		case days <= activeDays:
			seg.Active = append(seg.Active, c)
		case days > dormantDays:
			seg.Dormant = append(seg.Dormant, c)
		case days < dormantDays && c.TotalOrders > s.t.AtRiskMinOrders:
			seg.AtRisk = append(seg.AtRisk, c)
		}
	}

	return seg
}

// IsDormant reports whether the client never ordered or last ordered before the dormant cutoff
func (s *ClientSegmenter) IsDormant(c domain.Client, now time.Time) bool {
	return c.LastOrder == nil || daysBetween(*c.LastOrder, now) > float64(s.t.DormantDays)
}

// Analyze emits the at-risk, VIP and dormant insights
func (s *ClientSegmenter) Analyze(clients []domain.Client, now time.Time) []domain.Insight {
	result := make([]domain.Insight, 0, 3)
	seg := s.Segment(clients, now)

	if len(seg.AtRisk) > 0 {
		var potentialLoss float64
		for _, c := range seg.AtRisk {
			if c.TotalOrders > 0 {
				potentialLoss += c.TotalAmount / float64(c.TotalOrders)
			}
		}
		result = append(result, domain.Insight{
			ID:    "clients-at-risk",
			Type:  domain.InsightAlert,
			Title: fmt.Sprintf("%d client(s) à risque", len(seg.AtRisk)),
			Description: fmt.Sprintf("Clients réguliers sans commande depuis plus de %d jours. Perte potentielle: %s.",
				s.t.ActiveDays, formatAmount(potentialLoss)),
			Confidence: 0.85,
			Impact:     domain.ImpactHigh,
			Actionable: true,
			Data: map[string]interface{}{
				"count":         len(seg.AtRisk),
				"clients":       clientNames(seg.AtRisk),
				"potentialLoss": roundFloat(potentialLoss, 2),
			},
		})
	}

	if len(seg.VIP) > 0 {
		top := append([]domain.Client(nil), seg.VIP...)
		sort.SliceStable(top, func(i, j int) bool { return top[i].TotalAmount > top[j].TotalAmount })
		top = top[:min(len(top), s.t.MaxExamples)]

		var vipRevenue float64
		for _, c := range seg.VIP {
			vipRevenue += c.TotalAmount
		}

		result = append(result, domain.Insight{
			ID:    "clients-vip",
			Type:  domain.InsightRecommendation,
			Title: fmt.Sprintf("%d client(s) VIP", len(seg.VIP)),
			Description: fmt.Sprintf("Fidéliser les meilleurs clients: %s.",
				strings.Join(clientNames(top), ", ")),
			Confidence: 0.95,
			Impact:     domain.ImpactMedium,
			Actionable: true,
			Data: map[string]interface{}{
				"count":      len(seg.VIP),
				"topClients": clientNames(top),
				"vipRevenue": roundFloat(vipRevenue, 2),
			},
		})
	}

	if len(seg.Dormant) > s.t.DormantInsightMinCount {
		potential := float64(len(seg.Dormant)) * s.t.ReactivationValuePerClt
		result = append(result, domain.Insight{
			ID:    "clients-dormant",
			Type:  domain.InsightOptimization,
			Title: fmt.Sprintf("%d client(s) dormants", len(seg.Dormant)),
			Description: fmt.Sprintf("Une campagne de relance pourrait générer environ %s.",
				formatAmount(potential)),
			Confidence: 0.78,
			Impact:     domain.ImpactMedium,
			Actionable: true,
			Data: map[string]interface{}{
				"count":                 len(seg.Dormant),
				"reactivationPotential": potential,
			},
		})
	}

	return result
}

func clientNames(clients []domain.Client) []string {
	names := make([]string, len(clients))
	for i, c := range clients {
		names[i] = c.Name
	}
	return names
}
