// Package logging configures the process-wide logrus logger.
package logging

import (
	"io"

	log "github.com/sirupsen/logrus"
)

// Setup sends log output to w at level, or at debug when verbose is set.
// Reports go to stdout; logs never do.
func Setup(w io.Writer, level log.Level, verbose bool) {
	log.SetOutput(w)
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:          true,
		TimestampFormat:        "2006-01-02 15:04:05",
		DisableLevelTruncation: true,
	})
	if verbose {
		level = log.DebugLevel
	}
	log.SetLevel(level)
}
