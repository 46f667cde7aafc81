package sink

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/i474232898/weather-collector/internal/weather"
)

const createWeatherLog = `
CREATE TABLE IF NOT EXISTS weather_log(
	ts_iso TEXT NOT NULL,
	ts_obs_iso TEXT,
	location TEXT,
	provider TEXT NOT NULL,
	temp_c REAL,
	precip_mm_1h REAL,
	humidity_pct REAL,
	wind_speed_mps REAL,
	wind_dir_deg REAL,
	pressure_hpa REAL,
	weather_code_or_text TEXT,
	weather_desc TEXT
)`

const insertWeatherLog = `
INSERT INTO weather_log
	(ts_iso, ts_obs_iso, location, provider, temp_c, precip_mm_1h,
	 humidity_pct, wind_speed_mps, wind_dir_deg, pressure_hpa,
	 weather_code_or_text, weather_desc)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// SQLiteSink appends observations to an embedded SQLite table with the same
// column set as the CSV log. Absent numeric fields are stored as NULL.
type SQLiteSink struct {
	db *sql.DB
}

func NewSQLiteSink(path string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	return &SQLiteSink{db: db}, nil
}

func (s *SQLiteSink) Name() string {
	return "sqlite"
}

func (s *SQLiteSink) EnsureSchema() error {
	if _, err := s.db.Exec(createWeatherLog); err != nil {
		return fmt.Errorf("create weather_log: %w", err)
	}
	return nil
}

func (s *SQLiteSink) Append(obs weather.Observation) error {
	var obsTime sql.NullString
	if obs.ObservedAt != nil {
		obsTime = sql.NullString{String: obs.ObservedAt.Format(time.RFC3339), Valid: true}
	}

	_, err := s.db.Exec(insertWeatherLog,
		obs.CollectedAt.Format(time.RFC3339),
		obsTime,
		obs.Location,
		obs.Provider,
		obs.TempC,
		obs.PrecipMM1h,
		obs.HumidityPct,
		obs.WindSpeedMPS,
		obs.WindDirDeg,
		obs.PressureHPA,
		obs.CodeOrText,
		obs.Description,
	)
	if err != nil {
		return fmt.Errorf("insert weather_log: %w", err)
	}
	return nil
}

func (s *SQLiteSink) Close() error {
	return s.db.Close()
}
