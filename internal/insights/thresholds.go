package insights

// Thresholds holds every heuristic constant used by the analytics components.
// DefaultThresholds reproduces the values the dashboards were tuned with; the
// config layer may override any of them.
type Thresholds struct {
	// Stock forecasting
	VelocityWindowDays int
	SafetyStockDays    int
	MinReorderQty      int

	// Profitability bands, in percent
	LowMarginPct      float64
	HighMarginPct     float64
	LowMarginGainUnit float64
	MaxExamples       int

	// Client segmentation
	VIPAmount               float64
	ActiveDays              int
	DormantDays             int
	AtRiskMinOrders         int
	DormantInsightMinCount  int
	ReactivationValuePerClt float64

	// Sales trend
	TrendMinSales      int
	TrendWindow        int
	TrendAlertPct      float64
	TrendHighImpactPct float64

	// Forecasting
	DemandHorizonDays     int
	DemandLookbackDays    int
	DefaultDailyDemand    float64
	WeekendFactor         float64
	WeekdayFactor         float64
	DemandTrendStep       float64
	DemandNoise           float64
	ConfidenceStart       float64
	ConfidenceDecay       float64
	ConfidenceFloor       float64
	RevenueHorizonMonths  int
	DefaultMonthlyRevenue float64
	DefaultGrowthRate     float64
	MinGrowthRate         float64
	MaxGrowthRate         float64
	SeasonalFactors       [12]float64

	// Smart alerts
	OverstockMultiplier float64
	WeeklyDeltaPct      float64
	VIPShareAlertPct    float64
}

// DefaultSeasonalFactors is indexed by calendar month (January first)
var DefaultSeasonalFactors = [12]float64{
	0.85, 0.90, 1.00, 1.05, 1.00, 0.95,
	0.90, 0.85, 1.00, 1.05, 1.10, 1.20,
}

// DefaultThresholds returns the stock heuristic constants
func DefaultThresholds() Thresholds {
	return Thresholds{
		VelocityWindowDays: 30,
		SafetyStockDays:    14,
		MinReorderQty:      10,

		LowMarginPct:      15,
		HighMarginPct:     40,
		LowMarginGainUnit: 5000,
		MaxExamples:       3,

		VIPAmount:               500000,
		ActiveDays:              30,
		DormantDays:             90,
		AtRiskMinOrders:         2,
		DormantInsightMinCount:  5,
		ReactivationValuePerClt: 25000,

		TrendMinSales:      5,
		TrendWindow:        10,
		TrendAlertPct:      10,
		TrendHighImpactPct: 20,

		DemandHorizonDays:     30,
		DemandLookbackDays:    30,
		DefaultDailyDemand:    10,
		WeekendFactor:         0.7,
		WeekdayFactor:         1.1,
		DemandTrendStep:       0.005,
		DemandNoise:           0.075,
		ConfidenceStart:       0.95,
		ConfidenceDecay:       0.01,
		ConfidenceFloor:       0.6,
		RevenueHorizonMonths:  12,
		DefaultMonthlyRevenue: 500000,
		DefaultGrowthRate:     0.05,
		MinGrowthRate:         -0.10,
		MaxGrowthRate:         0.20,
		SeasonalFactors:       DefaultSeasonalFactors,

		OverstockMultiplier: 3,
		WeeklyDeltaPct:      20,
		VIPShareAlertPct:    50,
	}
}
