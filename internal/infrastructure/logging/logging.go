package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New builds the process-wide structured logger. LOG_LEVEL and
// LOG_FORMAT=json are honoured; defaults suit local development.
func New() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	if lvl, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(lvl)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}
	if os.Getenv("LOG_FORMAT") == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}
