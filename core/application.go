package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gocrud/autowire/config"
	"github.com/gocrud/autowire/di"
	"github.com/gocrud/autowire/hosting"
	"github.com/gocrud/autowire/logging"
)

// Application 应用程序接口
type Application interface {
	Run() error
	RunAsync(ctx context.Context) error
	Stop(ctx context.Context) error
	Container() *di.Container
	Configuration() config.Configuration
	Logger() logging.Logger
	Environment() Environment
	GetService(ptr any)
}

// application 应用程序实现
type application struct {
	container       *di.Container
	configuration   *config.ReloadableConfiguration
	logger          logging.Logger
	environment     Environment
	lifecycle       *LifecycleEvents
	hostedServices  []hosting.HostedService
	shutdownTimeout time.Duration
	stopCh          chan struct{}
	stopOnce        sync.Once
	running         bool
	mu              sync.Mutex
}

// Run 运行应用程序（阻塞），直到收到信号、Stop 被调用或托管服务失败
func (a *application) Run() error {
	return a.RunAsync(context.Background())
}

// RunAsync 运行应用程序，ctx 取消时开始优雅关闭
func (a *application) RunAsync(ctx context.Context) error {
	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		return errors.New("core: application is already running")
	}
	a.running = true
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.running = false
		a.mu.Unlock()
	}()

	a.logger.Info("Starting application",
		logging.Field{Key: "environment", Value: a.environment.Name()})

	runCtx, runCancel := context.WithCancel(ctx)
	defer runCancel()

	if err := a.lifecycle.Start(runCtx); err != nil {
		stopCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()
		if stopErr := a.lifecycle.Stop(stopCtx); stopErr != nil {
			a.logger.Error("Stop hooks failed", logging.Field{Key: "error", Value: stopErr.Error()})
		}
		return fmt.Errorf("core: start hook failed: %w", err)
	}

	manager := hosting.NewHostedServiceManager(a.logger)
	for _, service := range a.hostedServices {
		manager.Add(service)
	}
	errCh := manager.StartAll(runCtx)

	a.logger.Info("Application started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var runErr error
	select {
	case sig := <-sigCh:
		a.logger.Info("Received shutdown signal", logging.Field{Key: "signal", Value: sig.String()})
	case <-a.stopCh:
		a.logger.Info("Application stop requested")
	case <-ctx.Done():
		a.logger.Info("Context cancelled")
	case err := <-errCh:
		a.logger.Error("Hosted service failed, stopping application",
			logging.Field{Key: "error", Value: err.Error()})
		runErr = err
	}

	a.logger.Info("Shutting down application",
		logging.Field{Key: "timeout", Value: a.shutdownTimeout.String()})

	runCancel()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()

	if err := manager.StopAll(shutdownCtx); err != nil {
		a.logger.Error("Failed to stop hosted services", logging.Field{Key: "error", Value: err.Error()})
	}
	manager.Wait()

	if err := a.lifecycle.Stop(shutdownCtx); err != nil {
		a.logger.Error("Stop hooks failed", logging.Field{Key: "error", Value: err.Error()})
	}

	a.logger.Info("Application stopped")
	return runErr
}

// Stop 请求停止应用程序，可以重复调用
func (a *application) Stop(ctx context.Context) error {
	a.stopOnce.Do(func() { close(a.stopCh) })
	return nil
}

func (a *application) Container() *di.Container {
	return a.container
}

func (a *application) Configuration() config.Configuration {
	return a.configuration
}

func (a *application) Logger() logging.Logger {
	return a.logger
}

func (a *application) Environment() Environment {
	return a.environment
}

// GetService 获取服务实例（通过指针参数），失败时 panic
//
// 使用示例：
//
//	var invoices *InvoiceService
//	app.GetService(&invoices)
func (a *application) GetService(ptr any) {
	if err := a.container.Inject(ptr); err != nil {
		panic(fmt.Sprintf("core: GetService %T: %v", ptr, err))
	}
}
