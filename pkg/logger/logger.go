// Package logger emits structured JSON log lines.
package logger

import (
	"encoding/json"
	"log"
	"os"
	"time"
)

// Fields carries structured context attached to a log entry.
type Fields = map[string]interface{}

type Logger interface {
	Info(message string, fields Fields)
	Warn(message string, fields Fields)
	Error(message string, fields Fields)
	Debug(message string, fields Fields)
	Fatal(message string, fields Fields)
}

type jsonLogger struct {
	serviceName string
	out         *log.Logger
}

// New returns a Logger that writes one JSON object per line to stdout.
func New(serviceName string) Logger {
	return &jsonLogger{
		serviceName: serviceName,
		out:         log.New(os.Stdout, "", 0),
	}
}

func (l *jsonLogger) log(level, message string, fields Fields) {
	entry := Fields{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"level":     level,
		"service":   l.serviceName,
		"message":   message,
	}
	for k, v := range fields {
		entry[k] = v
	}

	data, _ := json.Marshal(entry)
	l.out.Println(string(data))
}

func (l *jsonLogger) Info(message string, fields Fields)  { l.log("info", message, fields) }
func (l *jsonLogger) Warn(message string, fields Fields)  { l.log("warn", message, fields) }
func (l *jsonLogger) Error(message string, fields Fields) { l.log("error", message, fields) }
func (l *jsonLogger) Debug(message string, fields Fields) { l.log("debug", message, fields) }

func (l *jsonLogger) Fatal(message string, fields Fields) {
	l.log("fatal", message, fields)
	os.Exit(1)
}

// NewNop returns a Logger that discards everything. Intended for tests.
func NewNop() Logger { return &nopLogger{} }

type nopLogger struct{}

func (l *nopLogger) Info(message string, fields Fields)  {}
func (l *nopLogger) Warn(message string, fields Fields)  {}
func (l *nopLogger) Error(message string, fields Fields) {}
func (l *nopLogger) Debug(message string, fields Fields) {}
func (l *nopLogger) Fatal(message string, fields Fields) {}
