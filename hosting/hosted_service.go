package hosting

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gocrud/autowire/logging"
)

// HostedService 托管服务接口（类似于 .NET Core IHostedService）
// 框架会自动在 goroutine 中调用 Start，用户无需自己启动 goroutine
type HostedService interface {
	// Start 启动服务。该方法应阻塞执行，直到 context 被取消或发生错误。
	Start(ctx context.Context) error

	// Stop 执行优雅关闭逻辑，必须遵守 ctx 的超时。
	Stop(ctx context.Context) error
}

// Named 可选接口，托管服务实现后日志中使用该名称
type Named interface {
	Name() string
}

// ServiceName 返回托管服务在日志中的名称
func ServiceName(service HostedService) string {
	if n, ok := service.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", service)
}

// HostedServiceManager 托管服务管理器
type HostedServiceManager struct {
	services []HostedService
	logger   logging.Logger
	mu       sync.RWMutex
	wg       sync.WaitGroup
}

// NewHostedServiceManager 创建托管服务管理器
func NewHostedServiceManager(logger logging.Logger) *HostedServiceManager {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &HostedServiceManager{
		services: make([]HostedService, 0),
		logger:   logger,
	}
}

// Add 添加托管服务
func (m *HostedServiceManager) Add(service HostedService) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.services = append(m.services, service)
}

// Len 返回托管服务数量
func (m *HostedServiceManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.services)
}

// StartAll 并发启动所有托管服务。
// 返回的通道接收 Start 返回的非取消类错误，容量等于服务数量。
func (m *HostedServiceManager) StartAll(ctx context.Context) <-chan error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	errCh := make(chan error, len(m.services))

	m.logger.Info("Starting hosted services", logging.Field{Key: "count", Value: len(m.services)})

	for _, service := range m.services {
		m.wg.Add(1)
		go func(svc HostedService) {
			defer m.wg.Done()

			name := ServiceName(svc)
			m.logger.Debug("Starting hosted service", logging.Field{Key: "service", Value: name})

			if err := svc.Start(ctx); err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					m.logger.Debug("Hosted service stopped (context done)", logging.Field{Key: "service", Value: name})
					return
				}
				m.logger.Error("Hosted service error",
					logging.Field{Key: "service", Value: name},
					logging.Field{Key: "error", Value: err.Error()})
				errCh <- fmt.Errorf("hosted service %s: %w", name, err)
				return
			}

			m.logger.Debug("Hosted service completed", logging.Field{Key: "service", Value: name})
		}(service)
	}

	return errCh
}

// StopAll 按注册的逆序并发停止所有托管服务，返回合并后的错误
func (m *HostedServiceManager) StopAll(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	m.logger.Info("Stopping hosted services", logging.Field{Key: "count", Value: len(m.services)})

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	for i := len(m.services) - 1; i >= 0; i-- {
		wg.Add(1)
		go func(svc HostedService) {
			defer wg.Done()

			name := ServiceName(svc)
			if err := svc.Stop(ctx); err != nil {
				m.logger.Error("Failed to stop hosted service",
					logging.Field{Key: "service", Value: name},
					logging.Field{Key: "error", Value: err.Error()})
				mu.Lock()
				errs = append(errs, fmt.Errorf("hosted service %s: %w", name, err))
				mu.Unlock()
				return
			}
			m.logger.Debug("Hosted service stopped", logging.Field{Key: "service", Value: name})
		}(m.services[i])
	}

	wg.Wait()
	return errors.Join(errs...)
}

// Wait 等待所有 Start 返回
func (m *HostedServiceManager) Wait() {
	m.wg.Wait()
}
