package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var base = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}).
	With().
	Timestamp().
	Logger()

// Init configures the shared logger. Development gets coloured console
// output, everything else gets JSON lines.
func Init(env string, level LogLevel) {
	zerolog.TimeFieldFormat = time.RFC3339

	var out io.Writer = os.Stdout
	if env == "development" {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	}

	base = zerolog.New(out).With().Timestamp().Logger()
	SetGlobalLevel(level)
}

// SetGlobalLevel changes the minimum level for every Log.
func SetGlobalLevel(level LogLevel) {
	lvl, err := zerolog.ParseLevel(string(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

type Log struct {
	zl  zerolog.Logger
	err error
}

func New() *Log {
	return &Log{zl: base}
}

// NewWithWriter is used by tests to capture output.
func NewWithWriter(w io.Writer) *Log {
	return &Log{zl: zerolog.New(w)}
}

func (l *Log) WithError(err error) *Log {
	return &Log{zl: l.zl, err: err}
}

func (l *Log) WithField(key string, value interface{}) *Log {
	return &Log{zl: l.zl.With().Interface(key, value).Logger(), err: l.err}
}

func (l *Log) emit(e *zerolog.Event, msg string) {
	if l.err != nil {
		e = e.Err(l.err)
	}
	e.Msg(msg)
}

func (l *Log) Debug(msg string) {
	l.emit(l.zl.Debug(), msg)
}

func (l *Log) Info(msg string) {
	l.emit(l.zl.Info(), msg)
}

func (l *Log) Warn(msg string) {
	l.emit(l.zl.Warn(), msg)
}

func (l *Log) Error(msg string) {
	l.emit(l.zl.Error(), msg)
}
