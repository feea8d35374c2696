package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gomercuriale/pkg/logger"
)

// Filename gives commande_<YYYY-MM-DD>.<ext>.
func Filename(ext string, date time.Time) string {
	return fmt.Sprintf("commande_%s.%s", date.Format(time.DateOnly), ext)
}

// Exporter writes both export forms into a directory.
type Exporter struct {
	dir   string
	sheet string
	now   func() time.Time
	log   logger.Logger
}

func NewExporter(dir, sheet string, log logger.Logger) *Exporter {
	return &Exporter{dir: dir, sheet: sheet, now: time.Now, log: log}
}

// WriteCSV returns the written file path.
func (e *Exporter) WriteCSV(t *Table) (string, error) {
	content, err := t.DelimitedText()
	if err != nil {
		return "", fmt.Errorf("encode csv: %w", err)
	}
	return e.write(Filename("csv", e.now()), []byte(content))
}

func (e *Exporter) WriteXLSX(t *Table) (string, error) {
	var buf bytes.Buffer
	if err := WriteXLSX(t.Tabular(), e.sheet, &buf); err != nil {
		return "", err
	}
	return e.write(Filename("xlsx", e.now()), buf.Bytes())
}

func (e *Exporter) write(name string, data []byte) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(e.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	e.log.Log("Export written to %s (%d bytes)", path, len(data))
	return path, nil
}
