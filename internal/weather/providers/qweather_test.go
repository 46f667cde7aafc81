package providers

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newQWeatherForTest(t *testing.T, host, apiKey, location string) *QWeatherProvider {
	t.Helper()
	return NewQWeatherProvider(&http.Client{Timeout: time.Second}, QWeatherConfig{
		APIKey:       apiKey,
		Host:         host,
		Location:     location,
		Lang:         "zh",
		Unit:         "m",
		LocationName: "Shenzhen",
		TZ:           time.FixedZone("CST", 8*3600),
	}, testRetry())
}

func TestNormalizeLocation(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"114.0576,22.5431", "114.06,22.54"},
		{"114.0576, 22.5431", "114.06,22.54"},
		{"440300", "440300"},
		{"abc,def", "abc,def"},
		{"1,2,3", "1,2,3"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := normalizeLocation(tt.input); got != tt.want {
			t.Fatalf("normalizeLocation(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestQWeatherFetchMapsNowObject(t *testing.T) {
	var gotLocation, gotKey atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLocation.Store(r.URL.Query().Get("location"))
		gotKey.Store(r.Header.Get("X-QW-Api-Key"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"code": "200",
			"now": {
				"obsTime": "2024-07-01T15:40+08:00",
				"temp": "29",
				"precip": "0.0",
				"humidity": "78",
				"windSpeed": "18",
				"wind360": "161",
				"pressure": "1003",
				"icon": "104",
				"text": "阴"
			}
		}`))
	}))
	defer server.Close()

	p := newQWeatherForTest(t, server.URL, "test-key", "114.0576,22.5431")
	obs, err := p.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if loc, _ := gotLocation.Load().(string); loc != "114.06,22.54" {
		t.Fatalf("location query = %q, want %q", loc, "114.06,22.54")
	}
	if key, _ := gotKey.Load().(string); key != "test-key" {
		t.Fatalf("api key header = %q, want %q", key, "test-key")
	}

	if obs.Provider != "qweather" {
		t.Fatalf("provider = %q, want %q", obs.Provider, "qweather")
	}
	if obs.WindSpeedMPS == nil || math.Abs(*obs.WindSpeedMPS-5.0) > 1e-9 {
		t.Fatalf("WindSpeedMPS = %v, want 5.0", obs.WindSpeedMPS)
	}
	if obs.TempC == nil || *obs.TempC != 29 {
		t.Fatalf("TempC = %v, want 29", obs.TempC)
	}
	if obs.WindDirDeg == nil || *obs.WindDirDeg != 161 {
		t.Fatalf("WindDirDeg = %v, want 161", obs.WindDirDeg)
	}
	if obs.CodeOrText != "阴" {
		t.Fatalf("CodeOrText = %q, want %q", obs.CodeOrText, "阴")
	}
	if obs.Description != "阴" {
		t.Fatalf("Description = %q, want %q", obs.Description, "阴")
	}
	if obs.ObservedAt == nil {
		t.Fatal("ObservedAt must be set from obsTime")
	}
	want := time.Date(2024, 7, 1, 15, 40, 0, 0, time.FixedZone("CST", 8*3600))
	if !obs.ObservedAt.Equal(want) {
		t.Fatalf("ObservedAt = %v, want %v", obs.ObservedAt, want)
	}
}

func TestQWeatherFetchWithoutKeyIsNotConfigured(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
	}))
	defer server.Close()

	p := newQWeatherForTest(t, server.URL, "", "440300")
	_, err := p.Fetch(context.Background())
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if attempts.Load() != 0 {
		t.Fatal("no HTTP attempt should be made without a key")
	}
}

func TestQWeatherFetchUpstreamCodeIsNotRetried(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.Write([]byte(`{"code": "401"}`))
	}))
	defer server.Close()

	p := newQWeatherForTest(t, server.URL, "test-key", "440300")
	_, err := p.Fetch(context.Background())
	if !errors.Is(err, ErrUpstreamCode) {
		t.Fatalf("expected ErrUpstreamCode, got %v", err)
	}
	if got := attempts.Load(); got != 1 {
		t.Fatalf("attempts = %d, want 1 (application-level errors are permanent)", got)
	}
}

func TestQWeatherFetchRidesOutTransientStatuses(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"code": "200", "now": {"temp": "25"}}`))
	}))
	defer server.Close()

	p := newQWeatherForTest(t, server.URL, "test-key", "440300")
	obs, err := p.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := attempts.Load(); got != 3 {
		t.Fatalf("attempts = %d, want 3", got)
	}
	if obs.TempC == nil || *obs.TempC != 25 {
		t.Fatalf("TempC = %v, want 25", obs.TempC)
	}
}
