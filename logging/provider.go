package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// ConsoleLoggerOptions 控制台日志选项
type ConsoleLoggerOptions struct {
	IncludeTimestamp bool
	TimestampFormat  string
	ColorOutput      bool
	// JSON 为 true 时按行输出 JSON
	JSON   bool
	Output io.Writer
}

// ConsoleLoggerProvider 控制台日志提供者
type ConsoleLoggerProvider struct {
	options      ConsoleLoggerOptions
	formatter    Formatter
	minimumLevel LogLevel
	writeMu      sync.Mutex
	mu           sync.RWMutex
}

func NewConsoleLoggerProvider(options ConsoleLoggerOptions) *ConsoleLoggerProvider {
	if options.Output == nil {
		options.Output = os.Stdout
	}

	var formatter Formatter
	if options.JSON {
		formatter = NewJsonFormatter()
	} else {
		text := NewTextFormatter()
		text.IncludeTimestamp = options.IncludeTimestamp
		if options.TimestampFormat != "" {
			text.TimestampFormat = options.TimestampFormat
		}
		text.ColorOutput = options.ColorOutput
		formatter = text
	}

	return &ConsoleLoggerProvider{
		options:      options,
		formatter:    formatter,
		minimumLevel: LogLevelInfo,
	}
}

func (p *ConsoleLoggerProvider) CreateLogger(category string) Logger {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return (&writerLogger{
		category:     category,
		formatter:    p.formatter,
		out:          p.options.Output,
		mu:           &p.writeMu,
		minimumLevel: p.minimumLevel,
	}).bind()
}

func (p *ConsoleLoggerProvider) SetMinimumLevel(level LogLevel) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.minimumLevel = level
}

// FileLoggerOptions 文件日志选项
type FileLoggerOptions struct {
	Path string
	// JSON 为 true 时写入 JSON 行，否则写入文本
	JSON bool
}

// FileLoggerProvider 文件日志提供者
type FileLoggerProvider struct {
	options      FileLoggerOptions
	minimumLevel LogLevel
	file         *os.File
	writeMu      sync.Mutex
	mu           sync.RWMutex
}

func NewFileLoggerProvider(options FileLoggerOptions) *FileLoggerProvider {
	return &FileLoggerProvider{
		options:      options,
		minimumLevel: LogLevelInfo,
	}
}

func (p *FileLoggerProvider) CreateLogger(category string) Logger {
	p.mu.Lock()
	defer p.mu.Unlock()

	// 打开或创建文件
	if p.file == nil {
		file, err := os.OpenFile(p.options.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			return NewConsoleLoggerProvider(ConsoleLoggerOptions{Output: os.Stderr}).CreateLogger(category)
		}
		p.file = file
	}

	var formatter Formatter = NewTextFormatter()
	if p.options.JSON {
		formatter = NewJsonFormatter()
	}

	return (&writerLogger{
		category:     category,
		formatter:    formatter,
		out:          p.file,
		mu:           &p.writeMu,
		minimumLevel: p.minimumLevel,
	}).bind()
}

func (p *FileLoggerProvider) SetMinimumLevel(level LogLevel) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.minimumLevel = level
}

// Close 关闭日志文件
func (p *FileLoggerProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.file == nil {
		return nil
	}
	err := p.file.Close()
	p.file = nil
	return err
}
