package logging

import (
	"github.com/sirupsen/logrus"
)

// New builds the shared logger. Production gets JSON output for log
// aggregation; everything else gets the readable text formatter.
func New(environment, level string) *logrus.Logger {
	log := logrus.New()

	if environment == "production" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	return log
}
