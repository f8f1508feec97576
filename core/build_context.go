package core

import (
	"context"
	"sync"

	"github.com/gocrud/autowire/config"
	"github.com/gocrud/autowire/di"
	"github.com/gocrud/autowire/hosting"
	"github.com/gocrud/autowire/logging"
)

// Configurator 配置器函数类型
// 配置器用于扩展应用程序，可以注册服务、添加托管服务等
type Configurator func(*BuildContext)

// ConfigurationContext 提供配置期间所需的只读能力
type ConfigurationContext interface {
	GetConfiguration() config.Configuration
	GetEnvironment() Environment
	GetLogger() logging.Logger
}

// BuildContext 构建上下文
// 提供给配置器的上下文环境，包含容器、配置、日志等核心组件
type BuildContext struct {
	container      *di.Container
	configuration  config.Configuration
	logger         logging.Logger
	loggerFactory  logging.LoggerFactory
	environment    Environment
	lifecycle      *LifecycleEvents
	hostedServices []hosting.HostedService
	errs           []error
	mu             sync.Mutex
}

// AddHostedService 添加托管服务实例
func (c *BuildContext) AddHostedService(service hosting.HostedService) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hostedServices = append(c.hostedServices, service)
}

// SetCleanup 注册资源清理函数，应用停止时在托管服务之后执行
func (c *BuildContext) SetCleanup(key string, cleanup func()) {
	c.lifecycle.OnStop(func(context.Context) error {
		c.logger.Debug("Running cleanup", logging.Field{Key: "key", Value: key})
		cleanup()
		return nil
	})
}

// Fail 记录配置错误，ApplicationBuilder.Build 会返回它
func (c *BuildContext) Fail(err error) {
	if err == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errs = append(c.errs, err)
}

// Container 返回底层的 DI 容器
func (c *BuildContext) Container() *di.Container {
	return c.container
}

// Lifecycle 返回应用生命周期钩子
func (c *BuildContext) Lifecycle() *LifecycleEvents {
	return c.lifecycle
}

// GetLogger 获取日志记录器
func (c *BuildContext) GetLogger() logging.Logger {
	return c.logger
}

// CreateLogger 按类别创建日志记录器
func (c *BuildContext) CreateLogger(category string) logging.Logger {
	return c.loggerFactory.CreateLogger(category)
}

// GetConfiguration 获取配置对象
func (c *BuildContext) GetConfiguration() config.Configuration {
	return c.configuration
}

// GetEnvironment 获取环境信息
func (c *BuildContext) GetEnvironment() Environment {
	return c.environment
}

// BaseBuilder 提供基础的构建上下文能力
// 模块的 Builder 嵌入此结构体，只暴露只读的 ConfigContext 和清理注册
type BaseBuilder struct {
	ctx *BuildContext
}

// NewBaseBuilder 创建基础构建器
func NewBaseBuilder(ctx *BuildContext) BaseBuilder {
	return BaseBuilder{ctx: ctx}
}

// ConfigContext 获取构建上下文（受限接口）
func (b *BaseBuilder) ConfigContext() ConfigurationContext {
	return b.ctx
}

// RegisterCleanup 注册清理函数
func (b *BaseBuilder) RegisterCleanup(key string, cleanup func()) {
	b.ctx.SetCleanup(key, cleanup)
}
