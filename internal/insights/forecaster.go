package insights

import (
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/andresuchdata/smartgestion/backend-go/internal/domain"
)

// RandomSource yields uniform values in [0, 1). *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

// NewTimeSeededSource returns a non-reproducible source for production use
func NewTimeSeededSource() RandomSource {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// DemandRevenueForecaster generates the synthetic demand and revenue series shown
// on the predictive dashboard: historical averages shaped by weekday and seasonal
// multipliers, a mild trend and bounded noise on demand.
type DemandRevenueForecaster struct {
	t   Thresholds
	mu  sync.Mutex
	rng RandomSource
}

// NewDemandRevenueForecaster creates a forecaster. A nil source falls back to a time-seeded one.
func NewDemandRevenueForecaster(t Thresholds, rng RandomSource) *DemandRevenueForecaster {
	if rng == nil {
		rng = NewTimeSeededSource()
	}
	return &DemandRevenueForecaster{t: t, rng: rng}
}

// AverageDailyDemand averages the item quantities per calendar day over the lookback window.
// Days without sales are not counted.
func (f *DemandRevenueForecaster) AverageDailyDemand(sales []domain.Sale, now time.Time) float64 {
	start := now.Add(-time.Duration(f.t.DemandLookbackDays) * dayDuration)

	perDay := make(map[string]int)
	for _, s := range sales {
		if s.Date.Before(start) || s.Date.After(now) {
			continue
		}
		key := s.Date.Format(time.DateOnly)
		qty := perDay[key]
		for _, item := range s.Items {
			qty += item.Quantity
		}
		perDay[key] = qty
	}

	if len(perDay) == 0 {
		return f.t.DefaultDailyDemand
	}

	total := 0
	for _, qty := range perDay {
		total += qty
	}
	return float64(total) / float64(len(perDay))
}

// ForecastDemand returns one point per day for the demand horizon, starting tomorrow
func (f *DemandRevenueForecaster) ForecastDemand(sales []domain.Sale, now time.Time) []domain.DemandPoint {
	avg := f.AverageDailyDemand(sales, now)
	points := make([]domain.DemandPoint, 0, f.t.DemandHorizonDays)

	f.mu.Lock()
	defer f.mu.Unlock()

	for i := 0; i < f.t.DemandHorizonDays; i++ {
		date := now.AddDate(0, 0, i+1)

		weekendFactor := f.t.WeekdayFactor
		if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			weekendFactor = f.t.WeekendFactor
		}
		trendFactor := 1 + float64(i)*f.t.DemandTrendStep
		noise := 1 + (f.rng.Float64()*2-1)*f.t.DemandNoise

		value := math.Max(1, math.Round(avg*weekendFactor*trendFactor*noise))
		confidence := math.Max(f.t.ConfidenceFloor, f.t.ConfidenceStart-float64(i)*f.t.ConfidenceDecay)

		points = append(points, domain.DemandPoint{
			Date:       date.Format(time.DateOnly),
			Value:      value,
			Confidence: roundFloat(confidence, 2),
		})
	}

	return points
}

// MonthlyRevenue sums sale totals per calendar month, ascending by month
func MonthlyRevenue(sales []domain.Sale) []float64 {
	perMonth := make(map[string]float64)
	for _, s := range sales {
		perMonth[s.Date.Format("2006-01")] += s.Total
	}

	months := make([]string, 0, len(perMonth))
	for m := range perMonth {
		months = append(months, m)
	}
	sort.Strings(months)

	sums := make([]float64, len(months))
	for i, m := range months {
		sums[i] = perMonth[m]
	}
	return sums
}

// GrowthRate derives the month-over-month growth from the last two months, clamped
func (f *DemandRevenueForecaster) GrowthRate(monthly []float64) float64 {
	n := len(monthly)
	if n < 2 || monthly[n-2] <= 0 {
		return f.t.DefaultGrowthRate
	}

	rate := (monthly[n-1] - monthly[n-2]) / monthly[n-2]
	return math.Min(f.t.MaxGrowthRate, math.Max(f.t.MinGrowthRate, rate))
}

// ForecastRevenue returns one point per month for the revenue horizon, starting next month
func (f *DemandRevenueForecaster) ForecastRevenue(sales []domain.Sale, now time.Time) []domain.RevenuePoint {
	monthly := MonthlyRevenue(sales)

	avg := f.t.DefaultMonthlyRevenue
	if len(monthly) > 0 {
		var sum float64
		for _, v := range monthly {
			sum += v
		}
		avg = sum / float64(len(monthly))
	}
	growthRate := f.GrowthRate(monthly)

	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	points := make([]domain.RevenuePoint, 0, f.t.RevenueHorizonMonths)
	for i := 0; i < f.t.RevenueHorizonMonths; i++ {
		month := firstOfMonth.AddDate(0, i+1, 0)
		seasonal := f.t.SeasonalFactors[month.Month()-1]
		compound := math.Pow(1+growthRate, float64(i)/3)

		points = append(points, domain.RevenuePoint{
			Month:  month.Format("2006-01"),
			Value:  math.Round(avg * seasonal * compound),
			Growth: roundFloat((compound-1)*100, 2),
		})
	}

	return points
}
