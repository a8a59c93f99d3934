package logger

import (
	"encoding/json"
	"log"
	"os"
	"time"
)

// LogLevel represents the severity of a log entry
type LogLevel string

const (
	DEBUG LogLevel = "DEBUG"
	INFO  LogLevel = "INFO"
	WARN  LogLevel = "WARN"
	ERROR LogLevel = "ERROR"
)

// Logger provides structured logging scoped to one component
type Logger struct {
	Component string
	Host      string
}

// LogEntry represents a structured log entry
type LogEntry struct {
	Timestamp string                 `json:"timestamp"`
	Level     LogLevel               `json:"level"`
	Component string                 `json:"component"`
	Host      string                 `json:"host"`
	VaultID   uint64                 `json:"vault_id,omitempty"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// New creates a new Logger for the specified component
func New(component string) *Logger {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	return &Logger{Component: component, Host: host}
}

// Log creates a structured log entry and writes it to stdout
func (l *Logger) Log(level LogLevel, vaultID uint64, message string, fields map[string]interface{}) {
	entry := LogEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Level:     level,
		Component: l.Component,
		Host:      l.Host,
		VaultID:   vaultID,
		Message:   message,
		Fields:    fields,
	}

	jsonBytes, err := json.Marshal(entry)
	if err != nil {
		// Fallback to plain text if JSON marshaling fails
		log.Printf("ERROR: failed to marshal log entry: %v", err)
		return
	}

	log.Println(string(jsonBytes))
}

// Info logs an informational message
func (l *Logger) Info(vaultID uint64, message string, fields map[string]interface{}) {
	l.Log(INFO, vaultID, message, fields)
}

// Warn logs a warning message
func (l *Logger) Warn(vaultID uint64, message string, fields map[string]interface{}) {
	l.Log(WARN, vaultID, message, fields)
}

// Error logs an error message
func (l *Logger) Error(vaultID uint64, message string, fields map[string]interface{}) {
	l.Log(ERROR, vaultID, message, fields)
}

// Debug logs a debug message
func (l *Logger) Debug(vaultID uint64, message string, fields map[string]interface{}) {
	l.Log(DEBUG, vaultID, message, fields)
}

// ErrorWithErr logs an error message carrying the error string as a field
func (l *Logger) ErrorWithErr(vaultID uint64, message string, err error, fields map[string]interface{}) {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	l.Error(vaultID, message, fields)
}
