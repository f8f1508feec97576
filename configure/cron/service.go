package cron

import (
	"context"
	"fmt"
	"sync"

	"github.com/gocrud/autowire/di"
	"github.com/gocrud/autowire/logging"
	"github.com/robfig/cron/v3"
)

// Job 由容器解析的定时任务，每次触发都会重新构造
type Job interface {
	Run(ctx context.Context) error
}

// service Cron 定时任务托管服务，实现 hosting.HostedService
type service struct {
	cron      *cron.Cron
	container *di.Container
	logger    logging.Logger
	mu        sync.RWMutex
	jobs      map[string]cron.EntryID
	runCtx    context.Context
}

func newService(container *di.Container, logger logging.Logger, opts []cron.Option) *service {
	return &service{
		cron:      cron.New(opts...),
		container: container,
		logger:    logger,
		jobs:      make(map[string]cron.EntryID),
		runCtx:    context.Background(),
	}
}

// Name 实现 hosting.Named
func (s *service) Name() string {
	return "cron"
}

// addJob 添加定时任务
// spec: cron 表达式，如 "*/5 * * * *" (每5分钟) 或 "@every 1h"
func (s *service) addJob(def jobDefinition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[def.name]; exists {
		return fmt.Errorf("cron job '%s' already registered", def.name)
	}

	entryID, err := s.cron.AddFunc(def.spec, func() { s.run(def) })
	if err != nil {
		return fmt.Errorf("failed to add cron job '%s': %w", def.name, err)
	}

	s.jobs[def.name] = entryID
	s.logger.Debug("Cron job registered",
		logging.Field{Key: "job", Value: def.name},
		logging.Field{Key: "spec", Value: def.spec})
	return nil
}

// run 执行一次任务。按标识符注册的任务在这里从容器解析。
func (s *service) run(def jobDefinition) {
	s.mu.RLock()
	ctx := s.runCtx
	s.mu.RUnlock()

	fn := def.fn
	if fn == nil {
		instance, err := s.container.Resolve(def.id)
		if err != nil {
			s.logger.Error("Failed to resolve cron job",
				logging.Field{Key: "job", Value: def.name},
				logging.Field{Key: "error", Value: err.Error()})
			return
		}
		job, ok := instance.(Job)
		if !ok {
			s.logger.Error("Cron job does not implement cron.Job",
				logging.Field{Key: "job", Value: def.name},
				logging.Field{Key: "type", Value: fmt.Sprintf("%T", instance)})
			return
		}
		fn = job.Run
	}

	if err := fn(ctx); err != nil {
		s.logger.Error("Cron job failed",
			logging.Field{Key: "job", Value: def.name},
			logging.Field{Key: "error", Value: err.Error()})
		return
	}
	s.logger.Debug("Cron job completed", logging.Field{Key: "job", Value: def.name})
}

// Start 启动调度器并阻塞直到 ctx 取消
func (s *service) Start(ctx context.Context) error {
	s.mu.Lock()
	s.runCtx = ctx
	count := len(s.jobs)
	s.mu.Unlock()

	s.logger.Info("Cron service starting", logging.Field{Key: "jobs", Value: count})
	s.cron.Start()

	<-ctx.Done()
	return nil
}

// Stop 停止调度器，等待正在运行的任务完成或 ctx 超时
func (s *service) Stop(ctx context.Context) error {
	stopCtx := s.cron.Stop()

	select {
	case <-stopCtx.Done():
		s.logger.Info("Cron service stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Cron service stop timeout")
		return ctx.Err()
	}
}

// cronLogger 将框架日志接口适配到 cron 的日志接口
type cronLogger struct {
	logger logging.Logger
}

func (l *cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, convertToFields(keysAndValues)...)
}

func (l *cronLogger) Error(err error, msg string, keysAndValues ...any) {
	fields := convertToFields(keysAndValues)
	fields = append(fields, logging.Field{Key: "error", Value: err.Error()})
	l.logger.Error(msg, fields...)
}

func convertToFields(keysAndValues []any) []logging.Field {
	fields := make([]logging.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields = append(fields, logging.Field{Key: fmt.Sprintf("%v", keysAndValues[i]), Value: keysAndValues[i+1]})
	}
	return fields
}
