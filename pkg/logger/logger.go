package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Log is usable without InitLogger so library consumers that never call it
// still get sane output.
var Log = logrus.New()

func InitLogger() {
	// Output to stdout instead of the default stderr
	Log.Out = os.Stdout

	// Set JSON formatter for structured logging
	Log.SetFormatter(&logrus.JSONFormatter{})

	// Log level can be changed depending on environment
	Log.SetLevel(logrus.InfoLevel)
}

// SetLevel adjusts the global level, e.g. from config.
func SetLevel(level string) {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		Log.WithField("level", level).Warn("Unknown log level, keeping current")
		return
	}
	Log.SetLevel(parsed)
}
