// Package logging builds the process logger.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/parisxmas/materai/internal/gelf"
)

const Service = "materai"

// New returns a logger writing text to stderr, or JSON when json is set.
// When gelfAddr is not empty entries are also shipped over GELF UDP; a
// failure to reach it is logged and otherwise ignored.
func New(level logrus.Level, gelfAddr string, json bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(level)
	if json {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	if gelfAddr != "" {
		hook, err := gelf.New(gelfAddr, Service)
		if err != nil {
			log.WithError(err).Warn("GELF init failed")
		} else {
			log.AddHook(hook)
			log.WithField("addr", gelfAddr).Info("GELF logging enabled")
		}
	}
	return log
}
