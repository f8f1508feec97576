package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/gocrud/autowire/di"
	"github.com/gocrud/autowire/logging"
	"github.com/robfig/cron/v3"
)

// Builder Cron 配置构建器
type Builder struct {
	enableSeconds    bool
	enableCronLogger bool
	location         string
	jobs             []jobDefinition
}

// jobDefinition 任务定义：fn 与 id/ctor 三选一
type jobDefinition struct {
	spec string
	name string
	fn   func(ctx context.Context) error
	id   string
	ctor any
}

// NewBuilder 创建 Cron 构建器
func NewBuilder() *Builder {
	return &Builder{
		location: "UTC",
		jobs:     make([]jobDefinition, 0),
	}
}

// WithSeconds 启用秒级精度
func (b *Builder) WithSeconds() *Builder {
	b.enableSeconds = true
	return b
}

// WithLocation 设置时区，如 "Asia/Shanghai"
func (b *Builder) WithLocation(location string) *Builder {
	b.location = location
	return b
}

// EnableCronLogger 启用 cron 库的内部调度日志
func (b *Builder) EnableCronLogger() *Builder {
	b.enableCronLogger = true
	return b
}

// AddFunc 添加简单任务（不经过容器）
func (b *Builder) AddFunc(spec, name string, fn func(ctx context.Context) error) *Builder {
	b.jobs = append(b.jobs, jobDefinition{spec: spec, name: name, fn: fn})
	return b
}

// AddJob 添加由构造函数声明的任务，每次触发时从容器自动装配
//
// 示例：
//
//	b.AddJob("0 2 * * *", "invoice-report", NewInvoiceReportJob)
func (b *Builder) AddJob(spec, name string, ctor any) *Builder {
	b.jobs = append(b.jobs, jobDefinition{spec: spec, name: name, ctor: ctor})
	return b
}

// AddJobID 添加按容器标识符解析的任务
func (b *Builder) AddJobID(spec, name, id string) *Builder {
	b.jobs = append(b.jobs, jobDefinition{spec: spec, name: name, id: id})
	return b
}

func (b *Builder) build(container *di.Container, logger logging.Logger) (*service, error) {
	loc, err := time.LoadLocation(b.location)
	if err != nil {
		return nil, fmt.Errorf("cron: invalid location %q: %w", b.location, err)
	}

	adapter := &cronLogger{logger: logger}
	opts := []cron.Option{
		cron.WithLocation(loc),
		cron.WithChain(cron.Recover(adapter)),
	}
	if b.enableCronLogger {
		opts = append(opts, cron.WithLogger(adapter))
	}
	if b.enableSeconds {
		opts = append(opts, cron.WithSeconds())
	}

	svc := newService(container, logger, opts)
	for _, job := range b.jobs {
		if job.ctor != nil {
			id, err := di.Provide(container, job.ctor)
			if err != nil {
				return nil, fmt.Errorf("cron: failed to declare job '%s': %w", job.name, err)
			}
			job.id = id
		}
		if job.fn == nil && job.id == "" {
			return nil, fmt.Errorf("cron: job '%s' has no handler", job.name)
		}
		if err := svc.addJob(job); err != nil {
			return nil, fmt.Errorf("cron: %w", err)
		}
	}
	return svc, nil
}
