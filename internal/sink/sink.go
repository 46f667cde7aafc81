package sink

import (
	"time"

	"github.com/i474232898/weather-collector/internal/weather"
)

// Sink is the contract every row destination must satisfy. Destinations are
// append-only: prior rows are never rewritten, and the column order is fixed
// across all appends (weather.Columns).
type Sink interface {
	Name() string

	// EnsureSchema creates the destination with the fixed column set if it
	// does not exist. Idempotent.
	EnsureSchema() error

	// Append writes one observation in the fixed column order, substituting
	// the sink's absent marker for nil fields.
	Append(obs weather.Observation) error

	Close() error
}

// rowValues flattens an observation into the fixed column order, with the
// empty string as the absent marker. Shared by sinks that persist strings.
func rowValues(obs weather.Observation) []string {
	obsTime := ""
	if obs.ObservedAt != nil {
		obsTime = obs.ObservedAt.Format(time.RFC3339)
	}
	return []string{
		obs.CollectedAt.Format(time.RFC3339),
		obsTime,
		obs.Location,
		obs.Provider,
		weather.FormatFloat(obs.TempC),
		weather.FormatFloat(obs.PrecipMM1h),
		weather.FormatFloat(obs.HumidityPct),
		weather.FormatFloat(obs.WindSpeedMPS),
		weather.FormatFloat(obs.WindDirDeg),
		weather.FormatFloat(obs.PressureHPA),
		obs.CodeOrText,
		obs.Description,
	}
}
