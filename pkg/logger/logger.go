package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
	FATAL
)

var (
	zapLevels = map[LogLevel]zapcore.Level{
		DEBUG: zapcore.DebugLevel,
		INFO:  zapcore.InfoLevel,
		WARN:  zapcore.WarnLevel,
		ERROR: zapcore.ErrorLevel,
		FATAL: zapcore.FatalLevel,
	}

	level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

	mu       sync.RWMutex
	base     *zap.Logger
	fileSink *lumberjack.Logger
)

func init() {
	rebuild()
}

func SetLevel(l LogLevel) {
	zl, ok := zapLevels[l]
	if !ok {
		zl = zapcore.InfoLevel
	}
	level.SetLevel(zl)
}

func GetLevel() LogLevel {
	current := level.Level()
	for l, zl := range zapLevels {
		if zl == current {
			return l
		}
	}
	return INFO
}

// ParseLevel maps a level name ("debug", "info", ...) to a LogLevel.
func ParseLevel(name string) (LogLevel, error) {
	var zl zapcore.Level
	if err := zl.UnmarshalText([]byte(name)); err != nil {
		return INFO, fmt.Errorf("unknown log level %q", name)
	}
	for l, candidate := range zapLevels {
		if candidate == zl {
			return l, nil
		}
	}
	return INFO, fmt.Errorf("unsupported log level %q", name)
}

func EnableFileLogging(filePath string) error {
	return EnableFileLoggingWithRotation(filePath, 20, 3)
}

// EnableFileLoggingWithRotation adds a JSON sink at filePath, rotated by
// size and pruned by age.
func EnableFileLoggingWithRotation(filePath string, maxSizeMB, maxAgeDays int) error {
	if maxSizeMB <= 0 {
		maxSizeMB = 20
	}
	if maxAgeDays <= 0 {
		maxAgeDays = 3
	}

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()

	if fileSink != nil {
		_ = fileSink.Close()
	}
	fileSink = &lumberjack.Logger{
		Filename: filePath,
		MaxSize:  maxSizeMB,
		MaxAge:   maxAgeDays,
	}
	rebuildLocked()
	return nil
}

func DisableFileLogging() {
	mu.Lock()
	defer mu.Unlock()

	if fileSink == nil {
		return
	}
	_ = base.Sync()
	_ = fileSink.Close()
	fileSink = nil
	rebuildLocked()
}

// Sync flushes buffered entries.
func Sync() error {
	mu.RLock()
	defer mu.RUnlock()
	return base.Sync()
}

func rebuild() {
	mu.Lock()
	defer mu.Unlock()
	rebuildLocked()
}

func rebuildLocked() {
	encCfg := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.RFC3339TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stderr), level),
	}
	if fileSink != nil {
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(fileSink), level))
	}

	base = zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(2))
}

func logMessage(l LogLevel, component string, message string, fields map[string]interface{}) {
	mu.RLock()
	zl := base
	mu.RUnlock()

	zapFields := make([]zap.Field, 0, len(fields)+1)
	if component != "" {
		zapFields = append(zapFields, zap.String(FieldComponent, component))
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		zapFields = append(zapFields, zap.Any(k, fields[k]))
	}

	switch l {
	case DEBUG:
		zl.Debug(message, zapFields...)
	case INFO:
		zl.Info(message, zapFields...)
	case WARN:
		zl.Warn(message, zapFields...)
	case ERROR:
		zl.Error(message, zapFields...)
	case FATAL:
		zl.Fatal(message, zapFields...)
	}
}

func Debug(message string) {
	logMessage(DEBUG, "", message, nil)
}

func DebugC(component string, message string) {
	logMessage(DEBUG, component, message, nil)
}

func DebugF(message string, fields map[string]interface{}) {
	logMessage(DEBUG, "", message, fields)
}

func DebugCF(component string, message string, fields map[string]interface{}) {
	logMessage(DEBUG, component, message, fields)
}

func Info(message string) {
	logMessage(INFO, "", message, nil)
}

func InfoC(component string, message string) {
	logMessage(INFO, component, message, nil)
}

func InfoF(message string, fields map[string]interface{}) {
	logMessage(INFO, "", message, fields)
}

func InfoCF(component string, message string, fields map[string]interface{}) {
	logMessage(INFO, component, message, fields)
}

func Warn(message string) {
	logMessage(WARN, "", message, nil)
}

func WarnC(component string, message string) {
	logMessage(WARN, component, message, nil)
}

func WarnF(message string, fields map[string]interface{}) {
	logMessage(WARN, "", message, fields)
}

func WarnCF(component string, message string, fields map[string]interface{}) {
	logMessage(WARN, component, message, fields)
}

func Error(message string) {
	logMessage(ERROR, "", message, nil)
}

func ErrorC(component string, message string) {
	logMessage(ERROR, component, message, nil)
}

func ErrorF(message string, fields map[string]interface{}) {
	logMessage(ERROR, "", message, fields)
}

func ErrorCF(component string, message string, fields map[string]interface{}) {
	logMessage(ERROR, component, message, fields)
}

func Fatal(message string) {
	logMessage(FATAL, "", message, nil)
}

func FatalC(component string, message string) {
	logMessage(FATAL, component, message, nil)
}

func FatalCF(component string, message string, fields map[string]interface{}) {
	logMessage(FATAL, component, message, fields)
}
