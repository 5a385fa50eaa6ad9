package insights

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const dayDuration = 24 * time.Hour

// frenchWeekdays is indexed by time.Weekday
var frenchWeekdays = [7]string{"dimanche", "lundi", "mardi", "mercredi", "jeudi", "vendredi", "samedi"}

// roundFloat rounds v to the given number of decimal places.
func roundFloat(v float64, decimals int) float64 {
	if decimals <= 0 {
		return math.Round(v)
	}

	factor := math.Pow(10, float64(decimals))
	return math.Round(v*factor) / factor
}

// formatAmount formats an amount using French conventions: space as thousands
// separator and comma as decimal separator. A zero fractional part is omitted.
// Example: 1234.5 => "1 234,50"; 1000.0 => "1 000".
func formatAmount(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}

	scaled := int64(math.Round(v * 100))
	intPart := scaled / 100
	fracPart := scaled % 100

	s := strconv.FormatInt(intPart, 10)
	if len(s) > 3 {
		var b strings.Builder
		lead := len(s) % 3
		if lead > 0 {
			b.WriteString(s[:lead])
		}
		for i := lead; i < len(s); i += 3 {
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(s[i : i+3])
		}
		s = b.String()
	}

	if neg {
		s = "-" + s
	}
	if fracPart == 0 {
		return s
	}

	return fmt.Sprintf("%s,%02d", s, fracPart)
}

// formatPct renders a percentage with one decimal, French style.
func formatPct(v float64) string {
	return strings.Replace(strconv.FormatFloat(roundFloat(v, 1), 'f', 1, 64), ".", ",", 1) + "%"
}

// daysBetween returns the elapsed time from t to now in (fractional) days.
func daysBetween(t, now time.Time) float64 {
	return now.Sub(t).Hours() / 24
}
