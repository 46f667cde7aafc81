package main

import (
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/i474232898/weather-collector/internal/collector"
	"github.com/i474232898/weather-collector/internal/config"
	"github.com/i474232898/weather-collector/internal/observability"
	"github.com/i474232898/weather-collector/internal/sink"
	"github.com/i474232898/weather-collector/internal/weather/providers"
)

var rootCmd = &cobra.Command{
	Use:   "weather-collector",
	Short: "Collect current weather conditions into a local append-only log",
	Long: "weather-collector fetches current conditions for a fixed point from " +
		"Open-Meteo and, when a key is configured, QWeather, normalizes them " +
		"into a common row shape, and appends the rows to a CSV file and an " +
		"optional SQLite table. One invocation performs one collection run; " +
		"scheduling is left to an external timer.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := observability.NewLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()
	logger = logger.With(zap.String("run_id", uuid.NewString()))

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}
	retry := providers.RetryConfig{
		MaxAttempts: cfg.RetryAttempts,
		Delay:       cfg.RetryDelay,
	}

	openMeteo := providers.NewOpenMeteoProvider(httpClient, providers.OpenMeteoConfig{
		Latitude:     cfg.Latitude,
		Longitude:    cfg.Longitude,
		LocationName: cfg.LocationName,
		Timezone:     cfg.Timezone,
		TZ:           cfg.TZ,
	}, retry)

	qweather := providers.NewQWeatherProvider(httpClient, providers.QWeatherConfig{
		APIKey:       cfg.QWeatherAPIKey,
		Host:         cfg.QWeatherHost,
		Location:     cfg.QWeatherLocation,
		Lang:         cfg.QWeatherLang,
		Unit:         cfg.QWeatherUnit,
		LocationName: cfg.LocationName,
		TZ:           cfg.TZ,
	}, retry)

	sinks := []sink.Sink{sink.NewCSVSink(cfg.CSVPath)}
	if cfg.SQLiteEnabled {
		sq, err := sink.NewSQLiteSink(cfg.SQLitePath)
		if err != nil {
			return err
		}
		defer sq.Close()
		sinks = append(sinks, sq)
	}

	c := collector.New(logger, sinks, []collector.Registration{
		{Provider: openMeteo, Policy: collector.PolicyRequired},
		{Provider: qweather, Policy: collector.PolicyBestEffort},
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return c.Run(ctx)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("weather-collector: %v", err)
	}
}
