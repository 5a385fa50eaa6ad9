package config

import (
	"math/rand"
	"os"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/smartgestion/backend-go/internal/domain"
	"github.com/andresuchdata/smartgestion/backend-go/internal/insights"
)

func newViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()
	return v
}

func TestLoadFrom_Defaults(t *testing.T) {
	cfg := LoadFrom(newViper())

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, int64(4), cfg.Database.MaxConcurrency)
	assert.False(t, cfg.Cache.Enabled)
	assert.False(t, cfg.Storage.Enabled)
	assert.Equal(t, "*/15 * * * *", cfg.Scheduler.AlertCron)
	assert.Equal(t, insights.DefaultThresholds(), cfg.Analytics.Thresholds())
}

func TestLoadFrom_EnvironmentOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("ANALYTICS_LOW_MARGIN_PCT", "20")
	t.Setenv("ANALYTICS_VIP_AMOUNT", "1000000")
	t.Setenv("ANALYTICS_SEASONAL_FACTORS", "1,1,1,1,1,1,1,1,1,1,1,2")

	cfg := LoadFrom(newViper())
	th := cfg.Analytics.Thresholds()

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 20.0, th.LowMarginPct)
	assert.Equal(t, 1000000.0, th.VIPAmount)
	assert.Equal(t, 2.0, th.SeasonalFactors[11])
	assert.Equal(t, 1.0, th.SeasonalFactors[0])
}

func TestAnalyticsConfig_IgnoresIncompleteSeasonalTable(t *testing.T) {
	t.Setenv("ANALYTICS_SEASONAL_FACTORS", "1.5 1.5")

	cfg := LoadFrom(newViper())
	require.Len(t, cfg.Analytics.SeasonalFactors, 2)

	assert.Equal(t, insights.DefaultSeasonalFactors, cfg.Analytics.Thresholds().SeasonalFactors)
}

func TestAnalyticsConfig_OutOfRangeValuesKeepDefaults(t *testing.T) {
	t.Setenv("ANALYTICS_MAX_EXAMPLES", "-1")
	t.Setenv("ANALYTICS_TREND_WINDOW", "-5")
	t.Setenv("ANALYTICS_DEMAND_HORIZON_DAYS", "0")
	t.Setenv("ANALYTICS_WEEKEND_FACTOR", "-0.7")
	t.Setenv("ANALYTICS_DEFAULT_GROWTH_RATE", "0.5")
	t.Setenv("ANALYTICS_LOW_MARGIN_PCT", "0")

	th := LoadFrom(newViper()).Analytics.Thresholds()
	d := insights.DefaultThresholds()

	assert.Equal(t, d.MaxExamples, th.MaxExamples)
	assert.Equal(t, d.TrendWindow, th.TrendWindow)
	assert.Equal(t, d.DemandHorizonDays, th.DemandHorizonDays)
	assert.Equal(t, d.WeekendFactor, th.WeekendFactor)
	assert.Equal(t, d.DefaultGrowthRate, th.DefaultGrowthRate)
	assert.Equal(t, 0.0, th.LowMarginPct)

	now := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	snapshot := domain.Snapshot{
		Products: []domain.Product{
			{Name: "Riz", Stock: 4, AlertThreshold: 5, BuyPrice: 99, SellPrice: 100},
			{Name: "Sel", Stock: 40, AlertThreshold: 5, BuyPrice: 10, SellPrice: 100},
		},
	}
	for i := 0; i < 8; i++ {
		snapshot.Sales = append(snapshot.Sales, domain.Sale{Date: now.AddDate(0, 0, -i), Total: float64(100 * (i + 1))})
	}

	engine := insights.NewEngine(th, rand.New(rand.NewSource(1)))
	assert.NotPanics(t, func() {
		report := engine.Run(snapshot, now)
		assert.Len(t, report.Demand, d.DemandHorizonDays)
	})
}

func TestLoad_LeavesWorkingDirectoryUntouched(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	require.NotNil(t, Load())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "shop", SSLMode: "disable"}

	assert.Equal(t, "host=db port=5432 user=u password=p dbname=shop sslmode=disable", d.DSN())
}
