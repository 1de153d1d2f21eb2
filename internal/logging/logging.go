// Package logging configures the run log: timestamped human-readable lines
// written to stdout and mirrored to an append-only log file so operators can
// audit what each scheduled run did.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// New returns a logger writing to stdout and, if logFile is non-empty, to the
// file as well (created along with its directory on first use). A file that
// cannot be opened degrades to console-only logging rather than failing the
// run.
func New(level, logFile string) *logrus.Logger {
	log := logrus.New()

	if lvl, err := logrus.ParseLevel(strings.ToLower(level)); err == nil {
		log.SetLevel(lvl)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}

	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		DisableColors:   true,
	})

	out := io.Writer(os.Stdout)
	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err == nil {
			f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err == nil {
				out = io.MultiWriter(os.Stdout, f)
			} else {
				fmt.Fprintf(os.Stderr, "logging: cannot open %s: %v (console only)\n", logFile, err)
			}
		}
	}
	log.SetOutput(out)

	return log
}

// Banner logs a phase separator the way the run log has always looked.
func Banner(log *logrus.Logger, title string) {
	log.Info(strings.Repeat("=", 60))
	log.Info(title)
	log.Info(strings.Repeat("=", 60))
}
