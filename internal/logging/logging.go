package logging

import (
	"io"
	"log"
	"os"
	"strings"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	current Level = LevelInfo
	logger        = log.New(os.Stderr, "", log.LstdFlags)
)

// InitFromEnv sets the log level based on LOG_LEVEL (debug|info|warn|error).
func InitFromEnv() {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "error":
		current = LevelError
	case "warn":
		current = LevelWarn
	case "debug":
		current = LevelDebug
	default:
		current = LevelInfo
	}
}

// SetOutput redirects log output. Tests use this to capture logs.
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

func Debugf(format string, args ...interface{}) {
	if current <= LevelDebug {
		logger.Printf(format, args...)
	}
}

func Infof(format string, args ...interface{}) {
	if current <= LevelInfo {
		logger.Printf(format, args...)
	}
}

func Warnf(format string, args ...interface{}) {
	if current <= LevelWarn {
		logger.Printf(format, args...)
	}
}

func Errorf(format string, args ...interface{}) {
	logger.Printf(format, args...)
}

func Fatalf(format string, args ...interface{}) {
	logger.Fatalf(format, args...)
}
