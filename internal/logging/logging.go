// Package logging sets up the zerolog pipeline: colored console output, a
// plain-text session log file, and an optional GELF stream to Graylog.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
	"github.com/rs/zerolog"
)

// Options configure the log pipeline, normally filled from config keys.
type Options struct {
	Level          string
	LogsDir        string
	GraylogEnabled bool
	GraylogAddress string
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToUpper(level) {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// LogFilePath returns the session log file path for a start time.
func LogFilePath(logsDir string, start time.Time) string {
	return filepath.Join(logsDir, fmt.Sprintf("ffbtrace_%s.log", start.Format("20060102_150405")))
}

// Setup builds the logger. Console gets colors, the session file does not,
// and Graylog receives GELF when enabled. A Graylog connection failure is
// reported on the logger but does not fail setup.
func Setup(opts Options) (zerolog.Logger, error) {
	zerolog.SetGlobalLevel(parseLevel(opts.Level))
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}

	if err := os.MkdirAll(opts.LogsDir, 0o755); err != nil {
		return zerolog.Nop(), fmt.Errorf("creating logs directory: %w", err)
	}
	logPath := LogFilePath(opts.LogsDir, time.Now().UTC())
	logFile, err := os.Create(logPath)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("creating log file: %w", err)
	}

	writers := []io.Writer{
		// console format with colors to console
		zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		},
		// console format without colors to file
		zerolog.ConsoleWriter{
			Out:        logFile,
			TimeFormat: time.RFC3339,
			NoColor:    true,
		},
	}

	var graylogErr error
	if opts.GraylogEnabled {
		gelfWriter, err := gelf.NewWriter(opts.GraylogAddress)
		if err != nil {
			graylogErr = err
		} else {
			writers = append(writers, gelfWriter)
		}
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().Timestamp().Logger()

	logger.Info().Str("path", logPath).Str("level", logger.GetLevel().String()).Msg("logging set up")
	if graylogErr != nil {
		logger.Warn().Err(graylogErr).Str("address", opts.GraylogAddress).
			Msg("Graylog unreachable, continuing without GELF")
	}
	return logger, nil
}
