package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-collector/internal/weather"
)

// qweatherSuccessCode is the application-level success code carried in the
// JSON body, distinct from the HTTP status.
const qweatherSuccessCode = "200"

// obsTimeLayout matches QWeather's observation timestamps, which carry a
// numeric zone offset but no seconds ("2024-07-01T15:40+08:00").
const obsTimeLayout = "2006-01-02T15:04-07:00"

// QWeatherConfig carries the credential, host, and location settings for
// the QWeather client. An empty APIKey disables the provider.
type QWeatherConfig struct {
	APIKey       string
	Host         string
	Location     string
	Lang         string
	Unit         string
	LocationName string
	TZ           *time.Location
}

// QWeatherProvider implements the weather.Provider interface for QWeather's
// real-time conditions endpoint. The key is carried in a request header;
// the host is configurable for the paid-tier host switch.
type QWeatherProvider struct {
	name    string
	cfg     QWeatherConfig
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
	now     func() time.Time
}

func NewQWeatherProvider(client *http.Client, cfg QWeatherConfig, retry RetryConfig) *QWeatherProvider {
	return &QWeatherProvider{
		name: weather.ProviderQWeather,
		cfg:  cfg,
		httpCfg: HTTPClientConfig{
			Client: client,
			Retry:  retry,
		},
		circuit: newBreaker("qweather"),
		now:     time.Now,
	}
}

func (p *QWeatherProvider) Name() string {
	return p.name
}

// Fetch issues one GET per attempt against the "now" endpoint. A non-200
// HTTP status is transient and rides out the retry budget (rate limiting on
// this provider is common); an application-level error code in a successful
// response is permanent and short-circuits with ErrUpstreamCode.
func (p *QWeatherProvider) Fetch(ctx context.Context) (weather.Observation, error) {
	if p.cfg.APIKey == "" {
		return weather.Observation{}, ErrNotConfigured
	}

	location := normalizeLocation(p.cfg.Location)

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("location", location)
		if p.cfg.Lang != "" {
			values.Set("lang", p.cfg.Lang)
		}
		if p.cfg.Unit != "" {
			values.Set("unit", p.cfg.Unit)
		}

		u := fmt.Sprintf("%s/v7/weather/now?%s", baseURL(p.cfg.Host), values.Encode())
		req, err := http.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("X-QW-Api-Key", p.cfg.APIKey)
		return req, nil
	}

	resp, err := doRequestWithRetry(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.Observation{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Code string         `json:"code"`
		Now  map[string]any `json:"now"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Observation{}, fmt.Errorf("parse response: %w", err)
	}
	if payload.Code != qweatherSuccessCode {
		return weather.Observation{}, fmt.Errorf("%w: %s", ErrUpstreamCode, payload.Code)
	}
	now := payload.Now

	text, _ := now["text"].(string)
	icon, _ := now["icon"].(string)
	codeOrText := text
	if codeOrText == "" {
		codeOrText = icon
	}

	obs := weather.Observation{
		CollectedAt: p.now().In(p.cfg.TZ).Truncate(time.Second),
		ObservedAt:  parseObsTime(now["obsTime"], p.cfg.TZ),
		Location:    p.cfg.LocationName,
		Provider:    p.name,
		TempC:       weather.ParseFloat(now["temp"]),
		PrecipMM1h:  weather.ParseFloat(now["precip"]),
		HumidityPct: weather.ParseFloat(now["humidity"]),
		// QWeather reports wind speed in km/h.
		WindSpeedMPS: weather.KmhToMS(weather.ParseFloat(now["windSpeed"])),
		WindDirDeg:   weather.ParseFloat(now["wind360"]),
		PressureHPA:  weather.ParseFloat(now["pressure"]),
		CodeOrText:   codeOrText,
		Description:  weather.DescribeCode(text),
	}
	return obs, nil
}

// normalizeLocation rounds a "longitude,latitude" coordinate pair to the two
// decimal places QWeather documents. Strings that do not parse as two
// comma-separated numbers (adcodes, location IDs) pass through unchanged.
func normalizeLocation(location string) string {
	parts := strings.Split(location, ",")
	if len(parts) != 2 {
		return location
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return location
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return location
	}
	return fmt.Sprintf("%.2f,%.2f", lon, lat)
}

// baseURL accepts either a bare host ("devapi.qweather.com") or a full URL
// with scheme, for pointing tests at a local server.
func baseURL(host string) string {
	if strings.Contains(host, "://") {
		return strings.TrimSuffix(host, "/")
	}
	return "https://" + host
}

func parseObsTime(v any, loc *time.Location) *time.Time {
	s, ok := v.(string)
	if !ok || s == "" {
		return nil
	}
	ts, err := time.Parse(obsTimeLayout, s)
	if err != nil {
		ts, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return nil
		}
	}
	ts = ts.In(loc)
	return &ts
}
