package report

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/angeloszaimis/game-loadsim/internal/metrics"
)

const timestampLayout = "2006-01-02 15:04:05.000000"

// CSVExporter writes drained dispatch records to a CSV file, one row per
// record.
type CSVExporter struct {
	path   string
	logger *slog.Logger
}

func NewCSVExporter(path string, logger *slog.Logger) *CSVExporter {
	return &CSVExporter{
		path:   path,
		logger: logger,
	}
}

// Flush writes all records to the exporter's path, creating parent
// directories as needed. The file is replaced on every flush.
func (e *CSVExporter) Flush(records []metrics.Record) error {
	if dir := filepath.Dir(e.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create metrics directory: %w", err)
		}
	}

	f, err := os.Create(e.path)
	if err != nil {
		return fmt.Errorf("failed to create metrics file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	if err := w.Write([]string{"player_id", "server_id", "start_time", "end_time", "processing_time"}); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, r := range records {
		row := []string{
			r.PlayerID,
			strconv.Itoa(r.ServerID),
			r.StartTime.Format(timestampLayout),
			r.Timestamp.Format(timestampLayout),
			fmt.Sprintf("%.3f", r.ResponseTime.Seconds()),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}

	e.logger.Info("metrics exported",
		slog.String("file", e.path),
		slog.Int("records", len(records)))

	return nil
}
