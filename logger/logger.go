package logger

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	log "github.com/sirupsen/logrus"
)

// Logger type is interface for available logging methods.
type Logger interface {
	Trace(...interface{})
	Debug(...interface{})
	Info(...interface{})
	Warn(...interface{})
	Error(...interface{})
	Panic(...interface{})
	Fatal(...interface{})
}

// LoggerImpl is a struct that extends sirupsen/logrus.
type LoggerImpl struct {
	Logger         *log.Entry
	Service        string
	LogLevelStr    string
	PrintStackDump bool
}

// NewWebLogger creates a logger that writes JSON lines, for use by the HTTP server.
func NewWebLogger(serviceName string, level string, stackDumpOnPanic bool) (*LoggerImpl, error) {
	log.SetFormatter(&log.JSONFormatter{})
	return newLogger(serviceName, level, stackDumpOnPanic)
}

// NewLogger will create a new text logger for CLI use.
// An unknown level causes exit(1) since there is nothing sensible to log with.
func NewLogger(serviceName string, level string, stackDumpOnPanic bool) *LoggerImpl {
	l, err := newLogger(serviceName, level, stackDumpOnPanic)
	if err != nil {
		fmt.Println("Error setting up logging: ", err)
		os.Exit(1)
	}
	return l
}

func newLogger(serviceName string, level string, stackDumpOnPanic bool) (*LoggerImpl, error) {
	log.SetOutput(os.Stderr)
	logLevel, err := log.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	log.SetLevel(logLevel)
	logger := log.WithFields(log.Fields{
		"service": serviceName,
	})
	return &LoggerImpl{Logger: logger, Service: serviceName, LogLevelStr: level, PrintStackDump: stackDumpOnPanic}, nil
}

// WithTransferId returns a copy of the logger that tags every entry with the transfer id.
func (l *LoggerImpl) WithTransferId(id string) *LoggerImpl {
	return &LoggerImpl{
		Logger:         l.Logger.WithField("transferId", id),
		Service:        l.Service,
		LogLevelStr:    l.LogLevelStr,
		PrintStackDump: l.PrintStackDump,
	}
}

// Trace log.
func (l *LoggerImpl) Trace(message ...interface{}) {
	l.Logger.Trace(message...)
}

// Debug log.
func (l *LoggerImpl) Debug(message ...interface{}) {
	l.Logger.Debug(message...)
}

// Info log.
func (l *LoggerImpl) Info(message ...interface{}) {
	l.Logger.Info(message...)
}

// Warn log.
func (l *LoggerImpl) Warn(message ...interface{}) {
	l.Logger.Warn(message...)
}

// Error (with stack trace in trace mode or when PrintStackDump is set).
func (l *LoggerImpl) Error(message ...interface{}) {
	if l.LogLevelStr == "trace" || l.PrintStackDump {
		l.Logger.WithField("stackTrace", fmt.Sprintf("%s", debug.Stack())).Error(message...)
		return
	}
	l.Logger.Error(message...)
}

// Panic (with stack trace in debug mode, or if user explicitly sets PrintStackDump).
func (l *LoggerImpl) Panic(message ...interface{}) {
	if l.PrintStackDump {
		l.Logger.WithField("stackTrace", fmt.Sprintf("%s", debug.Stack())).Panic(message...)
	}
	l.Logger.Panic(message...)
}

// Fatal (with stack trace in debug mode).
// This causes exit(1) without a stack dump by default.
func (l *LoggerImpl) Fatal(message ...interface{}) {
	if l.LogLevelStr == "debug" || l.LogLevelStr == "trace" {
		l.Logger.WithField("stackTrace", fmt.Sprintf("%s", debug.Stack())).Fatal(message...)
	} else {
		l.Logger.Fatal(message...)
	}
}

// SetOutput will set the log output to the Writer supplied.
func (l *LoggerImpl) SetOutput(writer io.Writer) {
	log.SetOutput(writer)
}

// NewDiscardLogger returns a logger whose output is thrown away; handy in tests.
func NewDiscardLogger() *LoggerImpl {
	l := log.New()
	l.SetOutput(io.Discard)
	return &LoggerImpl{Logger: log.NewEntry(l), Service: "discard", LogLevelStr: "panic"}
}
