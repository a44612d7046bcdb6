package logger

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// Logger wraps charm/log for structured logging
type Logger struct {
	*log.Logger
}

// New creates a new logger with the given output
func New(w io.Writer) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
	return &Logger{Logger: l}
}

// NewWithLevel creates a logger with a specific level
func NewWithLevel(w io.Writer, level log.Level) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	})
	return &Logger{Logger: l}
}

// NewFileLogger creates a logger that writes to a file
func NewFileLogger(path string) (*Logger, func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}

	l := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})

	cleanup := func() {
		f.Close()
	}

	return &Logger{Logger: l}, cleanup, nil
}

// Discard returns a logger that discards all output
func Discard() *Logger {
	return New(io.Discard)
}

// PushStarted logs the start of a push
func (l *Logger) PushStarted(orgPath, gdocID string) {
	l.Info("push started",
		"org_path", orgPath,
		"gdoc_id", gdocID)
}

// PushCompleted logs a finished push
func (l *Logger) PushCompleted(orgPath string, requests, comments int, duration time.Duration) {
	l.Info("push completed",
		"org_path", orgPath,
		"requests_sent", requests,
		"comments_posted", comments,
		"duration", duration.Round(time.Millisecond))
}

// PullCompleted logs a finished pull
func (l *Logger) PullCompleted(orgPath string, comments, suggestions int) {
	l.Info("pull completed",
		"org_path", orgPath,
		"comments_added", comments,
		"suggestions_added", suggestions)
}

// BackupCreated logs a pre-pull backup
func (l *Logger) BackupCreated(orgPath, backupPath string) {
	l.Info("backup created",
		"org_path", orgPath,
		"backup", backupPath)
}

// BabelReplaced logs source blocks swapped for rendered images
func (l *Logger) BabelReplaced(orgPath string, blocks int) {
	l.Debug("babel blocks replaced",
		"org_path", orgPath,
		"blocks", blocks)
}

// ConversionError logs a conversion failure
func (l *Logger) ConversionError(orgPath string, err error) {
	l.Error("conversion failed",
		"org_path", orgPath,
		"error", err)
}

// ClientError logs a failed remote call
func (l *Logger) ClientError(operation, gdocID string, err error) {
	l.Error("client error",
		"operation", operation,
		"gdoc_id", gdocID,
		"error", err)
}

// StateError logs a state-tracking error
func (l *Logger) StateError(operation string, err error) {
	l.Error("state error",
		"operation", operation,
		"error", err)
}

// ConfigLoaded logs successful config loading
func (l *Logger) ConfigLoaded(path, format string) {
	l.Debug("config loaded",
		"path", path,
		"format", format)
}

// Skipped logs when a document is skipped
func (l *Logger) Skipped(orgPath, reason string) {
	l.Debug("document skipped",
		"org_path", orgPath,
		"reason", reason)
}
