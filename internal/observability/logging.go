package observability

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LoggerParams configures NewLogger.
type LoggerParams struct {
	Level       string
	JSON        bool
	File        string
	LogToStdout bool
	Component   string
}

// NewLogger builds a logrus logger. When File is set, output rotates through
// lumberjack and is optionally mirrored to stdout.
func NewLogger(params LoggerParams) *logrus.Entry {
	logger := logrus.New()
	logger.SetLevel(ParseLevel(params.Level))
	if params.JSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	logger.SetOutput(output(params))

	entry := logrus.NewEntry(logger)
	if params.Component != "" {
		entry = entry.WithField("component", params.Component)
	}
	return entry
}

func output(params LoggerParams) io.Writer {
	if params.File == "" {
		return os.Stdout
	}
	if !strings.HasSuffix(params.File, ".log") {
		params.File += ".log"
	}
	rotating := &lumberjack.Logger{
		Filename: params.File,
		MaxSize:  50, // megabytes
		Compress: true,
	}
	if params.LogToStdout {
		return io.MultiWriter(os.Stdout, rotating)
	}
	return rotating
}

// ParseLevel maps a level name onto logrus, defaulting to info.
func ParseLevel(level string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return logrus.TraceLevel
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	default:
		return logrus.InfoLevel
	}
}
