package telemetry

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// New builds the application logger. The TUI owns the terminal, so logs go
// to a file; an empty path discards them. The returned closer releases
// the file.
func New(path, level string) (*log.Logger, io.Closer, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("telemetry: %w", err)
	}

	var w io.WriteCloser = nopCloser{Writer: io.Discard}
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("telemetry: open log: %w", err)
		}
		w = f
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "splitflap",
		Level:           lvl,
		Formatter:       log.LogfmtFormatter,
	})
	return logger, w, nil
}

// Discard is a logger for tests and commands that do not log.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
