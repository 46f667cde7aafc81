package weather

import (
	"context"
	"time"
)

// Provider name constants used in the provider column of persisted rows.
const (
	ProviderOpenMeteo = "open-meteo"
	ProviderQWeather  = "qweather"
)

// Columns is the fixed column order shared by every sink. Appends across
// runs must keep this order so the log stays a single well-formed table.
var Columns = []string{
	"ts_iso",
	"ts_obs_iso",
	"location",
	"provider",
	"temp_c",
	"precip_mm_1h",
	"humidity_pct",
	"wind_speed_mps",
	"wind_dir_deg",
	"pressure_hpa",
	"weather_code_or_text",
	"weather_desc",
}

// Observation is the normalized row produced by a single provider fetch.
// Numeric fields are pointers: nil means the upstream value was missing or
// malformed, and sinks persist it as an explicit absent marker.
type Observation struct {
	// CollectedAt is the local civil time of the fetch in the configured
	// fixed zone, truncated to second precision. Never zero on a
	// persisted row.
	CollectedAt time.Time

	// ObservedAt is the upstream observation time. Open-Meteo does not
	// report one, so it stays nil there.
	ObservedAt *time.Time

	Location string
	Provider string

	TempC        *float64
	PrecipMM1h   *float64 // raw pass-through; accumulation window is provider-defined
	HumidityPct  *float64
	WindSpeedMPS *float64
	WindDirDeg   *float64
	PressureHPA  *float64

	// CodeOrText preserves the provider's original condition indicator:
	// a numeric WMO code for Open-Meteo, icon/text for QWeather.
	CodeOrText string

	// Description is the decoded human-readable condition.
	Description string
}

// Provider abstracts a weather data source (Open-Meteo, QWeather).
type Provider interface {
	Name() string
	Fetch(ctx context.Context) (Observation, error)
}
