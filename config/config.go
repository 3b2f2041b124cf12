package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type AppConfig struct {
	Port     string
	Timezone string

	DBDriver    string // sqlite|postgres
	DBPath      string
	DatabaseURL string

	DataGovURL        string
	DataGovAPIKey     string
	CacheHours        int
	DataGovRatePerSec float64

	RefreshCron        string
	RefreshCommodities []string

	CoordsCSV   string
	SeasonalCSV string
	RefXLSX     string

	LLMEndpoint string
	LLMAPIKey   string
	LLMModel    string
}

const (
	DefaultDataGovURL = "https://api.data.gov.in/resource"
)

func Load() AppConfig {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("[cfg] No .env file found or error loading: %v", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "8080")
	v.SetDefault("TZ", "Asia/Kolkata")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_PATH", "farmhelp.db")
	v.SetDefault("DATA_GOV_IN_API_URL", DefaultDataGovURL)
	v.SetDefault("APMC_CACHE_HOURS", 24)
	v.SetDefault("DATA_GOV_RATE_PER_SEC", 2.0)
	v.SetDefault("REFRESH_COMMODITIES", "Wheat,Rice,Onion,Tomato,Potato")
	v.SetDefault("LLM_MODEL", "gpt-4o-mini")

	cfg := AppConfig{
		Port:               v.GetString("PORT"),
		Timezone:           v.GetString("TZ"),
		DBDriver:           strings.ToLower(v.GetString("DB_DRIVER")),
		DBPath:             v.GetString("DB_PATH"),
		DatabaseURL:        v.GetString("DATABASE_URL"),
		DataGovURL:         strings.TrimRight(v.GetString("DATA_GOV_IN_API_URL"), "/"),
		DataGovAPIKey:      v.GetString("DATA_GOV_IN_API_KEY"),
		CacheHours:         v.GetInt("APMC_CACHE_HOURS"),
		DataGovRatePerSec:  v.GetFloat64("DATA_GOV_RATE_PER_SEC"),
		RefreshCron:        v.GetString("REFRESH_CRON"),
		RefreshCommodities: splitList(v.GetString("REFRESH_COMMODITIES")),
		CoordsCSV:          v.GetString("REFERENCE_COORDS_CSV"),
		SeasonalCSV:        v.GetString("REFERENCE_SEASONAL_CSV"),
		RefXLSX:            v.GetString("REFERENCE_XLSX"),
		LLMEndpoint:        v.GetString("LLM_ENDPOINT"),
		LLMAPIKey:          v.GetString("LLM_API_KEY"),
		LLMModel:           v.GetString("LLM_MODEL"),
	}
	if cfg.CacheHours <= 0 {
		cfg.CacheHours = 24
	}
	log.Printf("[cfg] %+v", cfg.redacted())
	return cfg
}

func (c AppConfig) redacted() AppConfig {
	if c.DataGovAPIKey != "" {
		c.DataGovAPIKey = "***"
	}
	if c.LLMAPIKey != "" {
		c.LLMAPIKey = "***"
	}
	if c.DatabaseURL != "" {
		c.DatabaseURL = "***"
	}
	return c
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
