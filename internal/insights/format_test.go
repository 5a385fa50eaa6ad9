package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1 000"},
		{1234.5, "1 234,50"},
		{1234567, "1 234 567"},
		{-2500.75, "-2 500,75"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatAmount(tt.in))
		})
	}
}

func TestFormatPct(t *testing.T) {
	assert.Equal(t, "12,3%", formatPct(12.34))
	assert.Equal(t, "15,0%", formatPct(15))
	assert.Equal(t, "-5,5%", formatPct(-5.46))
}

func TestRoundFloat(t *testing.T) {
	assert.Equal(t, 1.23, roundFloat(1.234, 2))
	assert.Equal(t, 3.0, roundFloat(2.6, 0))
}
