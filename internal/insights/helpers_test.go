package insights

import (
	"time"

	"github.com/andresuchdata/smartgestion/backend-go/internal/domain"
)

var testNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC) // Thursday

func daysAgo(n int) time.Time {
	return testNow.AddDate(0, 0, -n)
}

func timePtr(t time.Time) *time.Time {
	return &t
}

// sale builds a sale n days before testNow with a single product line
func sale(n int, total float64, product string, qty int) domain.Sale {
	s := domain.Sale{Date: daysAgo(n), Total: total}
	if product != "" {
		s.Items = []domain.SaleItem{{Product: product, Quantity: qty}}
	}
	return s
}

// salesSeries builds one sale per day starting at start, one per total
func salesSeries(start time.Time, totals ...float64) []domain.Sale {
	sales := make([]domain.Sale, len(totals))
	for i, total := range totals {
		sales[i] = domain.Sale{Date: start.AddDate(0, 0, i), Total: total}
	}
	return sales
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

type fixedSource struct {
	v float64
}

func (f fixedSource) Float64() float64 { return f.v }
