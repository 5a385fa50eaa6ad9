// backend-go/internal/config/config.go
package config

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/andresuchdata/smartgestion/backend-go/internal/insights"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Cache     CacheConfig
	Storage   StorageConfig
	Scheduler SchedulerConfig
	Analytics AnalyticsConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
	LogLevel       string
	LogFormat      string
}

type DatabaseConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	DBName         string
	SSLMode        string
	MaxConcurrency int64
}

type CacheConfig struct {
	Enabled          bool
	RedisURL         string
	RedisHost        string
	RedisPort        string
	RedisPassword    string
	RedisDB          int
	AlertStateKey    string
	ReportTTLSeconds int
}

// StorageConfig points at an S3 compatible bucket holding snapshot CSV files
type StorageConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	Prefix    string
}

type SchedulerConfig struct {
	Enabled   bool
	AlertCron string
}

// AnalyticsConfig externalizes the heuristic constants of the insights engine
type AnalyticsConfig struct {
	VelocityWindowDays      int
	SafetyStockDays         int
	MinReorderQty           int
	LowMarginPct            float64
	HighMarginPct           float64
	LowMarginGainUnit       float64
	MaxExamples             int
	VIPAmount               float64
	ActiveDays              int
	DormantDays             int
	AtRiskMinOrders         int
	DormantInsightMinCount  int
	ReactivationValuePerClt float64
	TrendMinSales           int
	TrendWindow             int
	TrendAlertPct           float64
	TrendHighImpactPct      float64
	DemandHorizonDays       int
	DemandLookbackDays      int
	DefaultDailyDemand      float64
	WeekendFactor           float64
	WeekdayFactor           float64
	DemandNoise             float64
	RevenueHorizonMonths    int
	DefaultMonthlyRevenue   float64
	DefaultGrowthRate       float64
	SeasonalFactors         []float64
	OverstockMultiplier     float64
	WeeklyDeltaPct          float64
	VIPShareAlertPct        float64
	RandomSeed              int64
}

var (
	once     sync.Once
	instance *Config
)

// Load reads the process configuration once (.env, defaults, environment)
func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		v := viper.GetViper()
		SetDefaults(v)

		// Read from environment variables
		v.AutomaticEnv()

		instance = LoadFrom(v)
	})

	return instance
}

// SetDefaults registers the default value of every key
func SetDefaults(v *viper.Viper) {
	d := insights.DefaultThresholds()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_MODE", "debug")
	v.SetDefault("SERVER_READ_TIMEOUT", 15)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 30)
	v.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "smartgestion")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONCURRENCY", 4)


	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_HOST", "127.0.0.1")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_ALERT_STATE_KEY", "smartgestion:alerts:signature")
	v.SetDefault("CACHE_REPORT_TTL_SECONDS", 60)

	v.SetDefault("STORAGE_ENABLED", false)
	v.SetDefault("STORAGE_ENDPOINT", "localhost:9000")
	v.SetDefault("STORAGE_ACCESS_KEY", "")
	v.SetDefault("STORAGE_SECRET_KEY", "")
	v.SetDefault("STORAGE_USE_SSL", false)
	v.SetDefault("STORAGE_BUCKET", "smartgestion")
	v.SetDefault("STORAGE_PREFIX", "snapshots/latest")

	v.SetDefault("SCHEDULER_ENABLED", true)
	v.SetDefault("SCHEDULER_ALERT_CRON", "*/15 * * * *")

	v.SetDefault("ANALYTICS_VELOCITY_WINDOW_DAYS", d.VelocityWindowDays)
	v.SetDefault("ANALYTICS_SAFETY_STOCK_DAYS", d.SafetyStockDays)
	v.SetDefault("ANALYTICS_MIN_REORDER_QTY", d.MinReorderQty)
	v.SetDefault("ANALYTICS_LOW_MARGIN_PCT", d.LowMarginPct)
	v.SetDefault("ANALYTICS_HIGH_MARGIN_PCT", d.HighMarginPct)
	v.SetDefault("ANALYTICS_LOW_MARGIN_GAIN_UNIT", d.LowMarginGainUnit)
	v.SetDefault("ANALYTICS_MAX_EXAMPLES", d.MaxExamples)
	v.SetDefault("ANALYTICS_VIP_AMOUNT", d.VIPAmount)
	v.SetDefault("ANALYTICS_ACTIVE_DAYS", d.ActiveDays)
	v.SetDefault("ANALYTICS_DORMANT_DAYS", d.DormantDays)
	v.SetDefault("ANALYTICS_AT_RISK_MIN_ORDERS", d.AtRiskMinOrders)
	v.SetDefault("ANALYTICS_DORMANT_INSIGHT_MIN_COUNT", d.DormantInsightMinCount)
	v.SetDefault("ANALYTICS_REACTIVATION_VALUE", d.ReactivationValuePerClt)
	v.SetDefault("ANALYTICS_TREND_MIN_SALES", d.TrendMinSales)
	v.SetDefault("ANALYTICS_TREND_WINDOW", d.TrendWindow)
	v.SetDefault("ANALYTICS_TREND_ALERT_PCT", d.TrendAlertPct)
	v.SetDefault("ANALYTICS_TREND_HIGH_IMPACT_PCT", d.TrendHighImpactPct)
	v.SetDefault("ANALYTICS_DEMAND_HORIZON_DAYS", d.DemandHorizonDays)
	v.SetDefault("ANALYTICS_DEMAND_LOOKBACK_DAYS", d.DemandLookbackDays)
	v.SetDefault("ANALYTICS_DEFAULT_DAILY_DEMAND", d.DefaultDailyDemand)
	v.SetDefault("ANALYTICS_WEEKEND_FACTOR", d.WeekendFactor)
	v.SetDefault("ANALYTICS_WEEKDAY_FACTOR", d.WeekdayFactor)
	v.SetDefault("ANALYTICS_DEMAND_NOISE", d.DemandNoise)
	v.SetDefault("ANALYTICS_REVENUE_HORIZON_MONTHS", d.RevenueHorizonMonths)
	v.SetDefault("ANALYTICS_DEFAULT_MONTHLY_REVENUE", d.DefaultMonthlyRevenue)
	v.SetDefault("ANALYTICS_DEFAULT_GROWTH_RATE", d.DefaultGrowthRate)
	v.SetDefault("ANALYTICS_SEASONAL_FACTORS", d.SeasonalFactors[:])
	v.SetDefault("ANALYTICS_OVERSTOCK_MULTIPLIER", d.OverstockMultiplier)
	v.SetDefault("ANALYTICS_WEEKLY_DELTA_PCT", d.WeeklyDeltaPct)
	v.SetDefault("ANALYTICS_VIP_SHARE_ALERT_PCT", d.VIPShareAlertPct)
	v.SetDefault("ANALYTICS_RANDOM_SEED", 0)
}

// LoadFrom builds a Config from an already populated viper instance
func LoadFrom(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			Mode:           v.GetString("SERVER_MODE"),
			ReadTimeout:    v.GetInt("SERVER_READ_TIMEOUT"),
			WriteTimeout:   v.GetInt("SERVER_WRITE_TIMEOUT"),
			AllowedOrigins: v.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			LogLevel:       v.GetString("LOG_LEVEL"),
			LogFormat:      v.GetString("LOG_FORMAT"),
		},
		Database: DatabaseConfig{
			Host:           v.GetString("DB_HOST"),
			Port:           v.GetString("DB_PORT"),
			User:           v.GetString("DB_USER"),
			Password:       v.GetString("DB_PASSWORD"),
			DBName:         v.GetString("DB_NAME"),
			SSLMode:        v.GetString("DB_SSLMODE"),
			MaxConcurrency: v.GetInt64("DB_MAX_CONCURRENCY"),
		},
		Cache: CacheConfig{
			Enabled:          v.GetBool("CACHE_ENABLED"),
			RedisURL:         v.GetString("REDIS_URL"),
			RedisHost:        v.GetString("REDIS_HOST"),
			RedisPort:        v.GetString("REDIS_PORT"),
			RedisPassword:    v.GetString("REDIS_PASSWORD"),
			RedisDB:          v.GetInt("REDIS_DB"),
			AlertStateKey:    v.GetString("CACHE_ALERT_STATE_KEY"),
			ReportTTLSeconds: v.GetInt("CACHE_REPORT_TTL_SECONDS"),
		},
		Storage: StorageConfig{
			Enabled:   v.GetBool("STORAGE_ENABLED"),
			Endpoint:  v.GetString("STORAGE_ENDPOINT"),
			AccessKey: v.GetString("STORAGE_ACCESS_KEY"),
			SecretKey: v.GetString("STORAGE_SECRET_KEY"),
			UseSSL:    v.GetBool("STORAGE_USE_SSL"),
			Bucket:    v.GetString("STORAGE_BUCKET"),
			Prefix:    v.GetString("STORAGE_PREFIX"),
		},
		Scheduler: SchedulerConfig{
			Enabled:   v.GetBool("SCHEDULER_ENABLED"),
			AlertCron: v.GetString("SCHEDULER_ALERT_CRON"),
		},
		Analytics: AnalyticsConfig{
			VelocityWindowDays:      v.GetInt("ANALYTICS_VELOCITY_WINDOW_DAYS"),
			SafetyStockDays:         v.GetInt("ANALYTICS_SAFETY_STOCK_DAYS"),
			MinReorderQty:           v.GetInt("ANALYTICS_MIN_REORDER_QTY"),
			LowMarginPct:            v.GetFloat64("ANALYTICS_LOW_MARGIN_PCT"),
			HighMarginPct:           v.GetFloat64("ANALYTICS_HIGH_MARGIN_PCT"),
			LowMarginGainUnit:       v.GetFloat64("ANALYTICS_LOW_MARGIN_GAIN_UNIT"),
			MaxExamples:             v.GetInt("ANALYTICS_MAX_EXAMPLES"),
			VIPAmount:               v.GetFloat64("ANALYTICS_VIP_AMOUNT"),
			ActiveDays:              v.GetInt("ANALYTICS_ACTIVE_DAYS"),
			DormantDays:             v.GetInt("ANALYTICS_DORMANT_DAYS"),
			AtRiskMinOrders:         v.GetInt("ANALYTICS_AT_RISK_MIN_ORDERS"),
			DormantInsightMinCount:  v.GetInt("ANALYTICS_DORMANT_INSIGHT_MIN_COUNT"),
			ReactivationValuePerClt: v.GetFloat64("ANALYTICS_REACTIVATION_VALUE"),
			TrendMinSales:           v.GetInt("ANALYTICS_TREND_MIN_SALES"),
			TrendWindow:             v.GetInt("ANALYTICS_TREND_WINDOW"),
			TrendAlertPct:           v.GetFloat64("ANALYTICS_TREND_ALERT_PCT"),
			TrendHighImpactPct:      v.GetFloat64("ANALYTICS_TREND_HIGH_IMPACT_PCT"),
			DemandHorizonDays:       v.GetInt("ANALYTICS_DEMAND_HORIZON_DAYS"),
			DemandLookbackDays:      v.GetInt("ANALYTICS_DEMAND_LOOKBACK_DAYS"),
			DefaultDailyDemand:      v.GetFloat64("ANALYTICS_DEFAULT_DAILY_DEMAND"),
			WeekendFactor:           v.GetFloat64("ANALYTICS_WEEKEND_FACTOR"),
			WeekdayFactor:           v.GetFloat64("ANALYTICS_WEEKDAY_FACTOR"),
			DemandNoise:             v.GetFloat64("ANALYTICS_DEMAND_NOISE"),
			RevenueHorizonMonths:    v.GetInt("ANALYTICS_REVENUE_HORIZON_MONTHS"),
			DefaultMonthlyRevenue:   v.GetFloat64("ANALYTICS_DEFAULT_MONTHLY_REVENUE"),
			DefaultGrowthRate:       v.GetFloat64("ANALYTICS_DEFAULT_GROWTH_RATE"),
			SeasonalFactors:         floatSlice(v.Get("ANALYTICS_SEASONAL_FACTORS")),
			OverstockMultiplier:     v.GetFloat64("ANALYTICS_OVERSTOCK_MULTIPLIER"),
			WeeklyDeltaPct:          v.GetFloat64("ANALYTICS_WEEKLY_DELTA_PCT"),
			VIPShareAlertPct:        v.GetFloat64("ANALYTICS_VIP_SHARE_ALERT_PCT"),
			RandomSeed:              v.GetInt64("ANALYTICS_RANDOM_SEED"),
		},
	}
}

// Thresholds converts the analytics section to engine thresholds. Values not
// externalized keep their defaults, as do out-of-range values (non-positive
// windows, counts and factors, negative percentages, a default growth rate
// outside the clamp range) and a seasonal table without exactly 12 entries.
func (a AnalyticsConfig) Thresholds() insights.Thresholds {
	t := insights.DefaultThresholds()

	t.VelocityWindowDays = positiveInt(a.VelocityWindowDays, t.VelocityWindowDays)
	t.SafetyStockDays = positiveInt(a.SafetyStockDays, t.SafetyStockDays)
	t.MinReorderQty = nonNegativeInt(a.MinReorderQty, t.MinReorderQty)
	t.LowMarginPct = nonNegativeFloat(a.LowMarginPct, t.LowMarginPct)
	t.HighMarginPct = nonNegativeFloat(a.HighMarginPct, t.HighMarginPct)
	t.LowMarginGainUnit = nonNegativeFloat(a.LowMarginGainUnit, t.LowMarginGainUnit)
	t.MaxExamples = positiveInt(a.MaxExamples, t.MaxExamples)
	t.VIPAmount = positiveFloat(a.VIPAmount, t.VIPAmount)
	t.ActiveDays = positiveInt(a.ActiveDays, t.ActiveDays)
	t.DormantDays = positiveInt(a.DormantDays, t.DormantDays)
	t.AtRiskMinOrders = nonNegativeInt(a.AtRiskMinOrders, t.AtRiskMinOrders)
	t.DormantInsightMinCount = nonNegativeInt(a.DormantInsightMinCount, t.DormantInsightMinCount)
	t.ReactivationValuePerClt = nonNegativeFloat(a.ReactivationValuePerClt, t.ReactivationValuePerClt)
	t.TrendMinSales = positiveInt(a.TrendMinSales, t.TrendMinSales)
	t.TrendWindow = positiveInt(a.TrendWindow, t.TrendWindow)
	t.TrendAlertPct = nonNegativeFloat(a.TrendAlertPct, t.TrendAlertPct)
	t.TrendHighImpactPct = nonNegativeFloat(a.TrendHighImpactPct, t.TrendHighImpactPct)
	t.DemandHorizonDays = positiveInt(a.DemandHorizonDays, t.DemandHorizonDays)
	t.DemandLookbackDays = positiveInt(a.DemandLookbackDays, t.DemandLookbackDays)
	t.DefaultDailyDemand = positiveFloat(a.DefaultDailyDemand, t.DefaultDailyDemand)
	t.WeekendFactor = positiveFloat(a.WeekendFactor, t.WeekendFactor)
	t.WeekdayFactor = positiveFloat(a.WeekdayFactor, t.WeekdayFactor)
	t.DemandNoise = nonNegativeFloat(a.DemandNoise, t.DemandNoise)
	t.RevenueHorizonMonths = positiveInt(a.RevenueHorizonMonths, t.RevenueHorizonMonths)
	t.DefaultMonthlyRevenue = positiveFloat(a.DefaultMonthlyRevenue, t.DefaultMonthlyRevenue)
	if a.DefaultGrowthRate >= t.MinGrowthRate && a.DefaultGrowthRate <= t.MaxGrowthRate {
		t.DefaultGrowthRate = a.DefaultGrowthRate
	}
	t.OverstockMultiplier = positiveFloat(a.OverstockMultiplier, t.OverstockMultiplier)
	t.WeeklyDeltaPct = nonNegativeFloat(a.WeeklyDeltaPct, t.WeeklyDeltaPct)
	t.VIPShareAlertPct = nonNegativeFloat(a.VIPShareAlertPct, t.VIPShareAlertPct)

	if len(a.SeasonalFactors) == len(t.SeasonalFactors) {
		copy(t.SeasonalFactors[:], a.SeasonalFactors)
	}

	return t
}

func positiveInt(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func nonNegativeInt(v, def int) int {
	if v >= 0 {
		return v
	}
	return def
}

func positiveFloat(v, def float64) float64 {
	if v > 0 {
		return v
	}
	return def
}

func nonNegativeFloat(v, def float64) float64 {
	if v >= 0 {
		return v
	}
	return def
}

// DSN returns the lib/pq connection string
func (d DatabaseConfig) DSN() string {
	return "host=" + d.Host + " port=" + d.Port + " user=" + d.User +
		" password=" + d.Password + " dbname=" + d.DBName + " sslmode=" + d.SSLMode
}

// floatSlice accepts both a []float64 default and a comma or space separated env value
func floatSlice(raw interface{}) []float64 {
	switch v := raw.(type) {
	case []float64:
		return v
	case []interface{}:
		out := make([]float64, 0, len(v))
		for _, item := range v {
			f, err := cast(item)
			if err != nil {
				return nil
			}
			out = append(out, f)
		}
		return out
	case string:
		fields := strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == ' ' })
		out := make([]float64, 0, len(fields))
		for _, field := range fields {
			f, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil
			}
			out = append(out, f)
		}
		return out
	}
	return nil
}

func cast(item interface{}) (float64, error) {
	switch n := item.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case string:
		return strconv.ParseFloat(n, 64)
	}
	return 0, fmt.Errorf("unsupported value %v", item)
}
