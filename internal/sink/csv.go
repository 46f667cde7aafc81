package sink

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/i474232898/weather-collector/internal/weather"
)

// CSVSink appends observations to a flat CSV file, creating the file and
// header row on first use. Concurrent process invocations are not
// synchronized against each other; the scheduler is assumed not to overlap
// runs.
type CSVSink struct {
	path string
}

func NewCSVSink(path string) *CSVSink {
	return &CSVSink{path: path}
}

func (s *CSVSink) Name() string {
	return "csv"
}

// EnsureSchema writes the header row iff the file does not exist yet.
func (s *CSVSink) EnsureSchema() error {
	_, err := os.Stat(s.path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat %s: %w", s.path, err)
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			// Lost the race to another invocation; header already there.
			return nil
		}
		return fmt.Errorf("create %s: %w", s.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(weather.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	w.Flush()
	return w.Error()
}

// Append writes one record in the fixed column order. The header is ensured
// first so a fresh destination stays a single well-formed table.
func (s *CSVSink) Append(obs weather.Observation) error {
	if err := s.EnsureSchema(); err != nil {
		return err
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(rowValues(obs)); err != nil {
		return fmt.Errorf("write row: %w", err)
	}
	w.Flush()
	return w.Error()
}

func (s *CSVSink) Close() error {
	return nil
}
