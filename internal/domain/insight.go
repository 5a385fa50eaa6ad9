package domain

import "time"

// InsightType classifies an advisory insight
type InsightType string

const (
	InsightPrediction     InsightType = "prediction"
	InsightRecommendation InsightType = "recommendation"
	InsightAlert          InsightType = "alert"
	InsightOptimization   InsightType = "optimization"
)

// Impact is the expected business impact of an insight
type Impact string

const (
	ImpactHigh   Impact = "high"
	ImpactMedium Impact = "medium"
	ImpactLow    Impact = "low"
)

// Rank orders impacts from high (0) to low (2). Unknown values sort last.
func (i Impact) Rank() int {
	switch i {
	case ImpactHigh:
		return 0
	case ImpactMedium:
		return 1
	case ImpactLow:
		return 2
	default:
		return 3
	}
}

// Insight is a derived advisory record. It is recomputed on every run and never persisted.
type Insight struct {
	ID          string                 `json:"id"`
	Type        InsightType            `json:"type"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Confidence  float64                `json:"confidence"`
	Impact      Impact                 `json:"impact"`
	Actionable  bool                   `json:"actionable"`
	Data        map[string]interface{} `json:"data,omitempty"`
}

// AlertType is the severity label of a smart alert
type AlertType string

const (
	AlertCritical    AlertType = "critical"
	AlertWarning     AlertType = "warning"
	AlertOpportunity AlertType = "opportunity"
	AlertInfo        AlertType = "info"
)

// Notifiable reports whether alerts of this type are persisted as notifications
func (t AlertType) Notifiable() bool {
	return t == AlertCritical || t == AlertWarning
}

// AlertCategory groups alerts by business area
type AlertCategory string

const (
	CategoryStock   AlertCategory = "stock"
	CategorySales   AlertCategory = "sales"
	CategoryClients AlertCategory = "clients"
	CategoryMargin  AlertCategory = "margin"
)

// Alert is a labelled condition derived from a snapshot. ID is fixed per condition
// so callers can de-duplicate across runs.
type Alert struct {
	ID          string                 `json:"id"`
	Type        AlertType              `json:"type"`
	Category    AlertCategory          `json:"category"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Data        map[string]interface{} `json:"data,omitempty"`
}

// DemandPoint is one day of the synthetic demand forecast
type DemandPoint struct {
	Date       string  `json:"date"`
	Value      float64 `json:"value"`
	Confidence float64 `json:"confidence"`
}

// RevenuePoint is one month of the synthetic revenue forecast.
// Growth is the compounded growth (percent) applied to that month.
type RevenuePoint struct {
	Month  string  `json:"month"`
	Value  float64 `json:"value"`
	Growth float64 `json:"growth"`
}

// Report aggregates every analytics output computed from one snapshot
type Report struct {
	GeneratedAt time.Time      `json:"generated_at"`
	Insights    []Insight      `json:"insights"`
	Alerts      []Alert        `json:"alerts"`
	Demand      []DemandPoint  `json:"demand"`
	Revenue     []RevenuePoint `json:"revenue"`
}

// Notification is the persisted form of a critical or warning alert
type Notification struct {
	ID          string                 `json:"id" db:"id"`
	AlertID     string                 `json:"alert_id" db:"alert_id"`
	Title       string                 `json:"title" db:"title"`
	Description string                 `json:"description" db:"description"`
	Type        AlertType              `json:"type" db:"type"`
	Category    AlertCategory          `json:"category" db:"category"`
	Data        map[string]interface{} `json:"data,omitempty" db:"-"`
	Read        bool                   `json:"read" db:"read"`
	CreatedAt   time.Time              `json:"created_at" db:"created_at"`
}

// NotificationFromAlert builds the notification payload of an alert
func NotificationFromAlert(a Alert, now time.Time) Notification {
	return Notification{
		AlertID:     a.ID,
		Title:       a.Title,
		Description: a.Description,
		Type:        a.Type,
		Category:    a.Category,
		Data:        a.Data,
		CreatedAt:   now,
	}
}
