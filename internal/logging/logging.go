// Package logging sets up the process-wide logrus logger.
package logging

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Configure switches logrus to JSON output at the named level
func Configure(level string) error {
	log.SetFormatter(&log.JSONFormatter{})

	if level == "" {
		level = "info"
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		log.SetLevel(log.InfoLevel)
		return fmt.Errorf("log level %q: %w", level, err)
	}
	log.SetLevel(lvl)
	return nil
}
