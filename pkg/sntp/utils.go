package sntp

import (
	"os"

	"github.com/sirupsen/logrus"
)

var logger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	switch {
	case isDebug():
		l.SetLevel(logrus.DebugLevel)
	case isInfo():
		l.SetLevel(logrus.InfoLevel)
	default:
		l.SetLevel(logrus.WarnLevel)
	}
	return l
}

func info(args ...any) {
	logger.Infoln(args...)
}

func debug(args ...any) {
	logger.Debugln(args...)
}

func isInfo() bool {
	return os.Getenv("INFO") == "1"
}

func isDebug() bool {
	return os.Getenv("DEBUG") == "1"
}
