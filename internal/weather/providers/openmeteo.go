package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-collector/internal/weather"
)

// currentFields is the set of current-condition fields requested from
// Open-Meteo, in the provider's documented naming.
const currentFields = "temperature_2m,precipitation,relative_humidity_2m," +
	"wind_speed_10m,wind_direction_10m,pressure_msl,weather_code"

// OpenMeteoConfig carries the fixed collection point and labels for the
// Open-Meteo client.
type OpenMeteoConfig struct {
	Latitude     float64
	Longitude    float64
	LocationName string
	Timezone     string
	TZ           *time.Location
}

// OpenMeteoProvider implements the weather.Provider interface for
// Open-Meteo's forecast endpoint. No API key is required.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	cfg     OpenMeteoConfig
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
	now     func() time.Time
}

func NewOpenMeteoProvider(client *http.Client, cfg OpenMeteoConfig, retry RetryConfig) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		name:    weather.ProviderOpenMeteo,
		baseURL: "https://api.open-meteo.com/v1/forecast",
		cfg:     cfg,
		httpCfg: HTTPClientConfig{
			Client: client,
			Retry:  retry,
		},
		circuit: newBreaker("openmeteo"),
		now:     time.Now,
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

// Fetch issues one GET per attempt against the forecast endpoint and maps
// the `current` object into a normalized Observation. Any transport error
// or non-2xx status is transient; after the retry budget is exhausted the
// error is propagated to the caller.
func (p *OpenMeteoProvider) Fetch(ctx context.Context) (weather.Observation, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%f", p.cfg.Latitude))
		values.Set("longitude", fmt.Sprintf("%f", p.cfg.Longitude))
		values.Set("current", currentFields)
		values.Set("timezone", p.cfg.Timezone)

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		req, err := http.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		return req, nil
	}

	resp, err := doRequestWithRetry(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.Observation{}, err
	}
	defer resp.Body.Close()

	// Decode the current object loosely: a malformed field degrades to an
	// absent value for that field only, it never aborts the row.
	var payload struct {
		Current map[string]any `json:"current"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Observation{}, fmt.Errorf("parse response: %w", err)
	}
	cur := payload.Current

	obs := weather.Observation{
		CollectedAt:  p.now().In(p.cfg.TZ).Truncate(time.Second),
		Location:     p.cfg.LocationName,
		Provider:     p.name,
		TempC:        weather.ParseFloat(cur["temperature_2m"]),
		PrecipMM1h:   weather.ParseFloat(cur["precipitation"]),
		HumidityPct:  weather.ParseFloat(cur["relative_humidity_2m"]),
		WindSpeedMPS: weather.ParseFloat(cur["wind_speed_10m"]),
		WindDirDeg:   weather.ParseFloat(cur["wind_direction_10m"]),
		PressureHPA:  weather.ParseFloat(cur["pressure_msl"]),
		CodeOrText:   rawIndicator(cur["weather_code"]),
		Description:  weather.DescribeCode(cur["weather_code"]),
	}
	// Open-Meteo does not report an observation timestamp; ObservedAt
	// stays nil, distinct from CollectedAt.
	return obs, nil
}

// rawIndicator preserves the provider's condition indicator verbatim:
// numeric codes render without a fractional part, anything else keeps its
// string form, absent input yields the empty string.
func rawIndicator(v any) string {
	if v == nil {
		return ""
	}
	if f := weather.ParseFloat(v); f != nil {
		return weather.FormatFloat(f)
	}
	return fmt.Sprint(v)
}
