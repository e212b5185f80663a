// Package log is tnap's logging facade over logrus.
//
// The slideshow owns the terminal while it runs, so the process-wide logger
// is normally pointed at a file with Configure(WithFile(...)) before the TUI
// starts. Package-level helpers log through that logger; NewLogger builds
// independent instances for tests and components that want their own sink.
package log

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/shuheykoyama/tnap/internal/errors"
)

var (
	isDebug atomic.Bool
	logger  = NewLogger()
)

// Field is a single structured key/value pair attached to a log entry.
type Field struct {
	Key   string
	Value interface{}
}

// F builds a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Logger writes leveled, structured entries.
type Logger struct {
	entry *logrus.Entry
	file  *os.File
}

type options struct {
	outputs []io.Writer
	file    string
	json    bool
	level   logrus.Level
}

// Option customizes a Logger.
type Option func(*options)

// WithOutput adds w as a destination.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.outputs = append(o.outputs, w)
	}
}

// WithFile appends entries to path, creating parent directories.
func WithFile(path string) Option {
	return func(o *options) {
		o.file = path
	}
}

// WithJSON switches to one JSON object per entry.
func WithJSON() Option {
	return func(o *options) {
		o.json = true
	}
}

// WithLevel sets the minimum level ("debug", "info", "warn", "error").
// Unknown names leave the default in place.
func WithLevel(level string) Option {
	return func(o *options) {
		if parsed, err := logrus.ParseLevel(strings.TrimSpace(level)); err == nil {
			o.level = parsed
		}
	}
}

// NewLogger creates a logger. Without WithOutput or WithFile it writes to stdout.
// A file that cannot be opened is ignored; use Configure to see the error.
func NewLogger(opts ...Option) *Logger {
	l, _ := build(opts...)
	return l
}

func build(opts ...Option) (*Logger, error) {
	o := options{level: logrus.DebugLevel}
	for _, opt := range opts {
		opt(&o)
	}

	var file *os.File
	var openErr error
	if o.file != "" {
		file, openErr = openLogFile(o.file)
		if openErr == nil {
			o.outputs = append(o.outputs, file)
		}
	}

	var out io.Writer
	switch len(o.outputs) {
	case 0:
		out = os.Stdout
	case 1:
		out = o.outputs[0]
	default:
		out = io.MultiWriter(o.outputs...)
	}

	base := logrus.New()
	base.SetOutput(out)
	base.SetLevel(o.level)
	if o.json {
		base.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "timestamp",
				logrus.FieldKeyMsg:  "message",
			},
		})
	} else {
		base.SetFormatter(&logrus.TextFormatter{
			DisableColors:   true,
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	return &Logger{entry: logrus.NewEntry(base), file: file}, openErr
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrapf(err, "create log directory for %s", path)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, errors.Wrapf(err, "open log file %s", path)
	}
	return f, nil
}

// Configure replaces the process-wide logger. The previous logger's file, if
// any, is closed.
func Configure(opts ...Option) error {
	next, err := build(opts...)
	previous := logger
	logger = next
	if previous != nil && previous.file != nil {
		previous.file.Close()
	}
	return err
}

// Close releases the process-wide logger's file.
func Close() error {
	if logger.file == nil {
		return nil
	}
	err := logger.file.Close()
	logger.file = nil
	return err
}

// SetDebug toggles debug output for every logger.
func SetDebug(debug bool) {
	isDebug.Store(debug)
}

// Default returns the process-wide logger.
func Default() *Logger {
	return logger
}

func toFields(fields []Field) logrus.Fields {
	out := make(logrus.Fields, len(fields))
	for _, f := range fields {
		out[f.Key] = f.Value
	}
	return out
}

// With returns a child logger carrying fields.
func (l *Logger) With(fields ...Field) *Logger {
	return &Logger{entry: l.entry.WithFields(toFields(fields)), file: l.file}
}

// WithContext attaches ctx to subsequent entries.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}
	return &Logger{entry: l.entry.WithContext(ctx), file: l.file}
}

// WithError attaches err and whatever classification it carries.
func (l *Logger) WithError(err error) *Logger {
	return l.With(errorFields(err)...)
}

func errorFields(err error) []Field {
	if err == nil {
		return []Field{F("error", "<nil>")}
	}
	fields := []Field{
		F("error", err.Error()),
		F("error_kind", errors.KindOf(err).String()),
	}

	var acqErr *errors.AcquisitionError
	if errors.As(err, &acqErr) {
		fields = append(fields, F("index", acqErr.Index()), F("stage", acqErr.Stage()))
	}
	var renderErr *errors.RenderError
	if errors.As(err, &renderErr) {
		fields = append(fields, F("path", renderErr.Path()))
	}
	var configErr *errors.ConfigError
	if errors.As(err, &configErr) {
		fields = append(fields, F("param", configErr.Param()))
	}
	return fields
}

func (l *Logger) Info(args ...interface{}) {
	l.entry.Info(args...)
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.entry.Infof(format, args...)
}

func (l *Logger) Warn(args ...interface{}) {
	l.entry.Warn(args...)
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.entry.Warnf(format, args...)
}

func (l *Logger) Error(args ...interface{}) {
	l.entry.Error(args...)
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.entry.Errorf(format, args...)
}

// Debug logs only when SetDebug(true) is in effect.
func (l *Logger) Debug(args ...interface{}) {
	if isDebug.Load() {
		l.entry.Debug(args...)
	}
}

// Debugf logs only when SetDebug(true) is in effect.
func (l *Logger) Debugf(format string, args ...interface{}) {
	if isDebug.Load() {
		l.entry.Debugf(format, args...)
	}
}

// LogWithFields returns the process-wide logger with fields attached.
func LogWithFields(fields ...Field) *Logger {
	return logger.With(fields...)
}

// LogWithError returns the process-wide logger with err attached.
func LogWithError(err error) *Logger {
	return logger.WithError(err)
}

// LogError logs err at error level with msg.
func LogError(err error, msg string) {
	logger.WithError(err).Error(msg)
}

func Info(format string, args ...interface{}) {
	logger.Infof(format, args...)
}

// Debug logs a message with arguments
func Debug(msg string, args ...interface{}) {
	if len(args) == 0 {
		logger.Debug(msg)
		return
	}
	logger.Debugf(msg+": %v", args...)
}

// Debugf logs a formatted message
func Debugf(format string, args ...interface{}) {
	logger.Debugf(format, args...)
}

// Error logs an error message with arguments
func Error(msg string, args ...interface{}) {
	if len(args) == 0 {
		logger.Error(msg)
		return
	}
	logger.Errorf(msg+": %v", args...)
}

// Errorf logs a formatted error message
func Errorf(format string, args ...interface{}) {
	logger.Errorf(format, args...)
}

// Warn logs a warning message with arguments
func Warn(msg string, args ...interface{}) {
	if len(args) == 0 {
		logger.Warn(msg)
		return
	}
	logger.Warnf(msg+": %v", args...)
}

// Warnf logs a formatted warning message
func Warnf(format string, args ...interface{}) {
	logger.Warnf(format, args...)
}
