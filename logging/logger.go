package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// LogLevel 日志级别
type LogLevel int

const (
	LogLevelTrace LogLevel = iota
	LogLevelDebug
	LogLevelInfo
	LogLevelWarn
	LogLevelError
	LogLevelFatal
)

var levelNames = [...]string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR", "FATAL"}

func (l LogLevel) String() string {
	if l < LogLevelTrace || l > LogLevelFatal {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// ParseLevel 解析配置文件中的日志级别（不区分大小写）
func ParseLevel(s string) (LogLevel, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	switch name {
	case "":
		return LogLevelInfo, nil
	case "WARNING":
		return LogLevelWarn, nil
	}
	for i, n := range levelNames {
		if n == name {
			return LogLevel(i), nil
		}
	}
	return LogLevelInfo, fmt.Errorf("logging: unknown level %q", s)
}

// Field 日志字段
type Field struct {
	Key   string
	Value any
}

// Logger 日志接口
type Logger interface {
	Trace(msg string, fields ...Field)
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Fatal(msg string, fields ...Field)
	Log(level LogLevel, msg string, fields ...Field)
	WithFields(fields ...Field) Logger
	WithCategory(category string) Logger
}

// LoggerFactory 日志工厂接口
type LoggerFactory interface {
	CreateLogger(category string) Logger
	AddProvider(provider LoggerProvider)
	SetMinimumLevel(level LogLevel)
}

// LoggerProvider 日志提供者接口
type LoggerProvider interface {
	CreateLogger(category string) Logger
	SetMinimumLevel(level LogLevel)
}

// levels 由 Log 派生出各级别方法，嵌入到具体实现中
type levels struct {
	log func(level LogLevel, msg string, fields ...Field)
}

func (l levels) Trace(msg string, fields ...Field) { l.log(LogLevelTrace, msg, fields...) }
func (l levels) Debug(msg string, fields ...Field) { l.log(LogLevelDebug, msg, fields...) }
func (l levels) Info(msg string, fields ...Field)  { l.log(LogLevelInfo, msg, fields...) }
func (l levels) Warn(msg string, fields ...Field)  { l.log(LogLevelWarn, msg, fields...) }
func (l levels) Error(msg string, fields ...Field) { l.log(LogLevelError, msg, fields...) }

// Fatal 记录后退出进程
func (l levels) Fatal(msg string, fields ...Field) {
	l.log(LogLevelFatal, msg, fields...)
	os.Exit(1)
}

// loggerFactory 日志工厂实现
type loggerFactory struct {
	providers    []LoggerProvider
	minimumLevel LogLevel
	mu           sync.RWMutex
}

func (f *loggerFactory) CreateLogger(category string) Logger {
	f.mu.RLock()
	defer f.mu.RUnlock()

	loggers := make([]Logger, len(f.providers))
	for i, provider := range f.providers {
		loggers[i] = provider.CreateLogger(category)
	}
	return NewCompositeLogger(loggers, f.minimumLevel, category)
}

func (f *loggerFactory) AddProvider(provider LoggerProvider) {
	f.mu.Lock()
	defer f.mu.Unlock()
	provider.SetMinimumLevel(f.minimumLevel)
	f.providers = append(f.providers, provider)
}

func (f *loggerFactory) SetMinimumLevel(level LogLevel) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.minimumLevel = level
	for _, provider := range f.providers {
		provider.SetMinimumLevel(level)
	}
}

// compositeLogger 把每条日志分发给所有提供者的 Logger
type compositeLogger struct {
	levels
	loggers      []Logger
	minimumLevel LogLevel
	category     string
	fields       []Field
}

// NewCompositeLogger 创建组合日志记录器
func NewCompositeLogger(loggers []Logger, minimumLevel LogLevel, category string) Logger {
	return newComposite(loggers, minimumLevel, category, nil)
}

func newComposite(loggers []Logger, minimumLevel LogLevel, category string, fields []Field) *compositeLogger {
	l := &compositeLogger{
		loggers:      loggers,
		minimumLevel: minimumLevel,
		category:     category,
		fields:       fields,
	}
	l.levels = levels{log: l.Log}
	return l
}

func (l *compositeLogger) Log(level LogLevel, msg string, fields ...Field) {
	if level < l.minimumLevel || len(l.loggers) == 0 {
		return
	}

	all := mergeFields(l.fields, fields)
	for _, logger := range l.loggers {
		logger.Log(level, msg, all...)
	}
}

func (l *compositeLogger) WithFields(fields ...Field) Logger {
	return newComposite(l.loggers, l.minimumLevel, l.category, mergeFields(l.fields, fields))
}

func (l *compositeLogger) WithCategory(category string) Logger {
	loggers := make([]Logger, len(l.loggers))
	for i, logger := range l.loggers {
		loggers[i] = logger.WithCategory(category)
	}
	return newComposite(loggers, l.minimumLevel, category, l.fields)
}

// mergeFields 总是返回新切片，避免共享底层数组
func mergeFields(base, extra []Field) []Field {
	if len(extra) == 0 {
		return base
	}
	out := make([]Field, 0, len(base)+len(extra))
	out = append(out, base...)
	return append(out, extra...)
}

// writerLogger 通过 Formatter 写入 io.Writer，控制台和文件共用
type writerLogger struct {
	levels
	category     string
	formatter    Formatter
	out          io.Writer
	mu           *sync.Mutex
	minimumLevel LogLevel
	fields       []Field
}

func (l *writerLogger) bind() *writerLogger {
	l.levels = levels{log: l.Log}
	return l
}

func (l *writerLogger) Log(level LogLevel, msg string, fields ...Field) {
	if level < l.minimumLevel {
		return
	}

	data, err := l.formatter.Format(&LogEntry{
		Time:     time.Now(),
		Level:    level,
		Category: l.category,
		Message:  msg,
		Fields:   mergeFields(l.fields, fields),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: failed to format entry: %v\n", err)
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.out.Write(data)
}

func (l *writerLogger) WithFields(fields ...Field) Logger {
	clone := *l
	clone.fields = mergeFields(l.fields, fields)
	return clone.bind()
}

func (l *writerLogger) WithCategory(category string) Logger {
	clone := *l
	clone.category = category
	return clone.bind()
}

var levelColors = [...]string{
	LogLevelTrace: "\033[90m",
	LogLevelDebug: "\033[36m",
	LogLevelInfo:  "\033[32m",
	LogLevelWarn:  "\033[33m",
	LogLevelError: "\033[31m",
	LogLevelFatal: "\033[35m",
}

func colorize(level LogLevel, text string) string {
	if level < LogLevelTrace || level > LogLevelFatal {
		return text
	}
	return levelColors[level] + text + "\033[0m"
}

// nopLogger 丢弃所有日志
type nopLogger struct{}

// NewNopLogger 创建丢弃所有输出的 Logger，容器默认使用它
func NewNopLogger() Logger { return nopLogger{} }

func (nopLogger) Trace(string, ...Field)         {}
func (nopLogger) Debug(string, ...Field)         {}
func (nopLogger) Info(string, ...Field)          {}
func (nopLogger) Warn(string, ...Field)          {}
func (nopLogger) Error(string, ...Field)         {}
func (nopLogger) Fatal(string, ...Field)         { os.Exit(1) }
func (nopLogger) Log(LogLevel, string, ...Field) {}
func (n nopLogger) WithFields(...Field) Logger   { return n }
func (n nopLogger) WithCategory(string) Logger   { return n }
