package logging

import (
	"errors"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
)

// Options 对应配置节 logging
//
//	logging:
//	  level: debug
//	  format: json    # text | json
//	  file: app.log   # 可选，额外写入文件
type Options struct {
	Level  string `json:"level"`
	Format string `json:"format"`
	File   string `json:"file"`
}

// LoggingBuilder 日志构建器
type LoggingBuilder struct {
	providers    []LoggerProvider
	minimumLevel LogLevel
	mu           sync.RWMutex
}

// NewLoggingBuilder 创建日志构建器
func NewLoggingBuilder() *LoggingBuilder {
	return &LoggingBuilder{minimumLevel: LogLevelInfo}
}

// SetMinimumLevel 设置最小日志级别
func (b *LoggingBuilder) SetMinimumLevel(level LogLevel) *LoggingBuilder {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.minimumLevel = level
	return b
}

// AddProvider 添加日志提供者
func (b *LoggingBuilder) AddProvider(provider LoggerProvider) *LoggingBuilder {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.providers = append(b.providers, provider)
	return b
}

// ClearProviders 移除已添加的提供者
func (b *LoggingBuilder) ClearProviders() *LoggingBuilder {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.providers = nil
	return b
}

// HasProviders 是否已添加提供者
func (b *LoggingBuilder) HasProviders() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.providers) > 0
}

// AddConsole 添加控制台日志
func (b *LoggingBuilder) AddConsole(options ...ConsoleLoggerOptions) *LoggingBuilder {
	opts := ConsoleLoggerOptions{
		IncludeTimestamp: true,
		TimestampFormat:  "2006-01-02 15:04:05",
		ColorOutput:      true,
		Output:           os.Stdout,
	}
	if len(options) > 0 {
		opts = options[0]
	}
	return b.AddProvider(NewConsoleLoggerProvider(opts))
}

// AddFile 添加文件日志
func (b *LoggingBuilder) AddFile(path string, options ...FileLoggerOptions) *LoggingBuilder {
	var opts FileLoggerOptions
	if len(options) > 0 {
		opts = options[0]
	}
	opts.Path = path
	return b.AddProvider(NewFileLoggerProvider(opts))
}

// Apply 按 Options 设置级别；没有任何提供者时按 Format 添加控制台输出，File 非空时追加文件输出
func (b *LoggingBuilder) Apply(opts Options) error {
	if opts.Level != "" {
		level, err := ParseLevel(opts.Level)
		if err != nil {
			return err
		}
		b.SetMinimumLevel(level)
	}

	json := strings.EqualFold(opts.Format, "json")
	if !json && opts.Format != "" && !strings.EqualFold(opts.Format, "text") {
		return errors.New("logging: format must be text or json")
	}

	if !b.HasProviders() {
		b.AddConsole(ConsoleLoggerOptions{
			IncludeTimestamp: true,
			ColorOutput:      !json && isatty.IsTerminal(os.Stdout.Fd()),
			JSON:             json,
		})
	}
	if opts.File != "" {
		b.AddFile(opts.File, FileLoggerOptions{JSON: json})
	}
	return nil
}

// Build 构建日志工厂
func (b *LoggingBuilder) Build() LoggerFactory {
	b.mu.RLock()
	defer b.mu.RUnlock()

	factory := &loggerFactory{minimumLevel: b.minimumLevel}
	for _, provider := range b.providers {
		factory.AddProvider(provider)
	}
	return factory
}

// Close 关闭实现了 io.Closer 的提供者（例如文件日志）
func (f *loggerFactory) Close() error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	var errs []error
	for _, provider := range f.providers {
		if closer, ok := provider.(io.Closer); ok {
			errs = append(errs, closer.Close())
		}
	}
	return errors.Join(errs...)
}
