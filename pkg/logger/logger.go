package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type Logger struct {
	zl zerolog.Logger
}

func New() *Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	zl := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Logger()

	return &Logger{zl: zl}
}

// NewFromConfig builds a logger at the given level name ("debug", "info", ...).
// Unknown names fall back to info.
func NewFromConfig(level string) *Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	l := New()
	l.zl = l.zl.Level(lvl)
	return l
}

func (l *Logger) WithOutput(w io.Writer) *Logger {
	return &Logger{zl: l.zl.Output(w)}
}

func (l *Logger) WithField(key, value string) *Logger {
	return &Logger{zl: l.zl.With().Str(key, value).Logger()}
}

func (l *Logger) Zerolog() zerolog.Logger {
	return l.zl
}

func (l *Logger) Debug(msg string) {
	l.zl.Debug().Msg(msg)
}

func (l *Logger) Debugf(format string, v ...interface{}) {
	l.zl.Debug().Msgf(format, v...)
}

func (l *Logger) Info(msg string) {
	l.zl.Info().Msg(msg)
}

func (l *Logger) Infof(format string, v ...interface{}) {
	l.zl.Info().Msgf(format, v...)
}

func (l *Logger) Warn(msg string) {
	l.zl.Warn().Msg(msg)
}

func (l *Logger) Warnf(format string, v ...interface{}) {
	l.zl.Warn().Msgf(format, v...)
}

func (l *Logger) Error(err error, msg string) {
	l.zl.Error().Err(err).Msg(msg)
}

func (l *Logger) Errorf(err error, format string, v ...interface{}) {
	l.zl.Error().Err(err).Msgf(format, v...)
}

func (l *Logger) Fatal(err error, msg string) {
	l.zl.Fatal().Err(err).Msg(msg)
}

func (l *Logger) Fatalf(err error, format string, v ...interface{}) {
	l.zl.Fatal().Err(err).Msgf(format, v...)
}

type LoggerArg struct {
	Key   string
	Value string
}

type GlobalLoggerConfig struct {
	Level string
	Args  []LoggerArg
}

var (
	defaultLogger *Logger
	defaultMu     sync.RWMutex
)

// InitDefaultLogger replaces the process logger.
func InitDefaultLogger(config GlobalLoggerConfig) {
	l := NewFromConfig(config.Level)
	for _, arg := range config.Args {
		l = l.WithField(arg.Key, arg.Value)
	}
	defaultMu.Lock()
	defaultLogger = l
	defaultMu.Unlock()
}

// Default returns the process logger. Packages used before InitDefaultLogger
// (config loading, tests) get a plain info-level logger.
func Default() *Logger {
	defaultMu.RLock()
	l := defaultLogger
	defaultMu.RUnlock()
	if l != nil {
		return l
	}
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLogger == nil {
		defaultLogger = NewFromConfig("")
	}
	return defaultLogger
}
