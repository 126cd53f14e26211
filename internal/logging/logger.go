package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/2beens/workouts/pkg"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const defaultLogFileMaxSizeMB = 50

type LoggerSetupParams struct {
	LogFileName      string
	LogFileMaxSizeMB int
	LogToStdout      bool
	LogLevel         string
	LogFormatJSON    bool
	Environment      string
	SentryEnabled    bool
	SentryDSN        string
	SentryServerName string
}

// Setup configures the global logrus logger. A sentry init failure is
// returned, the logger itself is usable either way.
func Setup(params LoggerSetupParams) error {
	logrus.SetLevel(GetLevel(params.LogLevel))
	if params.LogFormatJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	logrus.SetOutput(newOutput(params))

	if !params.SentryEnabled {
		return nil
	}
	if err := sentry.Init(sentryOptions(params)); err != nil {
		return fmt.Errorf("sentry init: %w", err)
	}
	logrus.AddHook(NewSentryHook([]logrus.Level{
		logrus.PanicLevel,
		logrus.FatalLevel,
		logrus.ErrorLevel,
	}))
	logrus.Infof("sentry enabled for [%s]", params.SentryServerName)

	return nil
}

func newOutput(params LoggerSetupParams) io.Writer {
	if params.LogFileName == "" {
		return os.Stdout
	}

	fileName := params.LogFileName
	if filepath.Ext(fileName) != ".log" {
		fileName += ".log"
	}
	maxSize := params.LogFileMaxSizeMB
	if maxSize <= 0 {
		maxSize = defaultLogFileMaxSizeMB
	}
	// rotated files are kept, no MaxBackups / MaxAge
	fileWriter := &lumberjack.Logger{
		Filename: fileName,
		MaxSize:  maxSize,
		Compress: true,
	}

	if !params.LogToStdout {
		return fileWriter
	}
	return pkg.NewCombinedWriter(os.Stdout, fileWriter)
}

func sentryOptions(params LoggerSetupParams) sentry.ClientOptions {
	return sentry.ClientOptions{
		Dsn:              params.SentryDSN,
		Environment:      params.Environment,
		ServerName:       params.SentryServerName,
		TracesSampleRate: 1.0,
	}
}

// GetLevel falls back to trace for unknown levels.
func GetLevel(level string) logrus.Level {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return logrus.TraceLevel
	}
	return parsed
}
