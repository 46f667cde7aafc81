package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

var validate = validator.New()

// Config is the process-wide configuration: read once at startup from the
// environment with fallback defaults, immutable for the run's duration.
type Config struct {
	// Collection point and display label.
	Latitude     float64 `validate:"gte=-90,lte=90"`
	Longitude    float64 `validate:"gte=-180,lte=180"`
	LocationName string  `validate:"required"`

	// Fixed zone for collection timestamps.
	Timezone string         `validate:"required"`
	TZ       *time.Location `validate:"-"`

	// QWeather settings. An empty APIKey disables the provider without
	// failing the run.
	QWeatherAPIKey   string
	QWeatherHost     string `validate:"required"`
	QWeatherLocation string `validate:"required"`
	QWeatherLang     string
	QWeatherUnit     string

	// Destinations.
	CSVPath       string `validate:"required"`
	SQLiteEnabled bool
	SQLitePath    string `validate:"required_if=SQLiteEnabled true"`

	// Outbound HTTP behaviour.
	HTTPTimeout   time.Duration `validate:"gt=0"`
	RetryAttempts int           `validate:"gte=1"`
	RetryDelay    time.Duration `validate:"gte=0"`
}

// Load reads configuration from environment with sensible defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &Config{
		Latitude:     getenvFloat("WEATHER_LAT", 22.543096),
		Longitude:    getenvFloat("WEATHER_LON", 114.057865),
		LocationName: getenvDefault("WEATHER_LOCATION_NAME", "Shenzhen"),
		Timezone:     getenvDefault("WEATHER_TIMEZONE", "Asia/Shanghai"),

		QWeatherAPIKey:   os.Getenv("QWEATHER_API_KEY"),
		QWeatherHost:     getenvDefault("QWEATHER_API_HOST", "devapi.qweather.com"),
		QWeatherLocation: getenvDefault("QWEATHER_LOCATION", "440300"),
		QWeatherLang:     getenvDefault("QWEATHER_LANG", "zh"),
		QWeatherUnit:     getenvDefault("QWEATHER_UNIT", "m"),

		CSVPath:       getenvDefault("WEATHER_CSV_PATH", "weather_log.csv"),
		SQLiteEnabled: getenvBool("WEATHER_SQLITE", false),
		SQLitePath:    getenvDefault("WEATHER_SQLITE_PATH", "weather_log.sqlite3"),

		HTTPTimeout:   getenvDuration("WEATHER_HTTP_TIMEOUT", 12*time.Second),
		RetryAttempts: getenvInt("WEATHER_RETRY_ATTEMPTS", 3),
		RetryDelay:    getenvDuration("WEATHER_RETRY_DELAY", 2*time.Second),
	}

	tz, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid WEATHER_TIMEZONE %q: %w", cfg.Timezone, err)
	}
	cfg.TZ = tz

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}
