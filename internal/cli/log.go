// Package cli implements the gemstar command-line interface.
//
// The CLI is built using cobra. Commands share one charmbracelet/log
// logger; --verbose (-v) switches it to debug level, which also prints
// every changelog candidate URL that is tried.
//
// # Commands
//
//   - diff: Resolve changelogs of changed gems and write the HTML report
//   - list: Show the changed gems without fetching anything
//   - cache: Clear the response cache or print its location
//   - completion: Generate shell completion scripts
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, e.g. "Read snapshots (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
