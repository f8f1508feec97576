package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gocrud/autowire/config"
	"github.com/gocrud/autowire/di"
	"github.com/gocrud/autowire/hosting"
	"github.com/gocrud/autowire/logging"
)

// ApplicationBuilder 应用程序构建器
type ApplicationBuilder struct {
	environment          string
	configBuilder        *config.ConfigurationBuilder
	loggingBuilder       *logging.LoggingBuilder
	serviceConfigurators []func(*ServiceCollection)
	configurators        []Configurator
	bindingsSection      string
	validate             bool
	shutdownTimeout      time.Duration
	mu                   sync.RWMutex
}

// NewApplicationBuilder 创建应用程序构建器
func NewApplicationBuilder() *ApplicationBuilder {
	return &ApplicationBuilder{
		environment:          Development,
		configBuilder:        config.NewConfigurationBuilder(),
		loggingBuilder:       logging.NewLoggingBuilder(),
		serviceConfigurators: make([]func(*ServiceCollection), 0),
		configurators:        make([]Configurator, 0),
		bindingsSection:      config.DefaultBindingsSection,
		validate:             true,
		shutdownTimeout:      30 * time.Second,
	}
}

// UseEnvironment 设置环境
func (b *ApplicationBuilder) UseEnvironment(env string) *ApplicationBuilder {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.environment = env
	return b
}

// ConfigureConfiguration 配置配置系统
func (b *ApplicationBuilder) ConfigureConfiguration(configure func(*config.ConfigurationBuilder)) *ApplicationBuilder {
	b.mu.Lock()
	defer b.mu.Unlock()
	if configure != nil {
		configure(b.configBuilder)
	}
	return b
}

// ConfigureLogging 配置日志系统
func (b *ApplicationBuilder) ConfigureLogging(configure func(*logging.LoggingBuilder)) *ApplicationBuilder {
	b.mu.Lock()
	defer b.mu.Unlock()
	if configure != nil {
		configure(b.loggingBuilder)
	}
	return b
}

// ConfigureServices 配置服务
func (b *ApplicationBuilder) ConfigureServices(configure func(*ServiceCollection)) *ApplicationBuilder {
	b.mu.Lock()
	defer b.mu.Unlock()
	if configure != nil {
		b.serviceConfigurators = append(b.serviceConfigurators, configure)
	}
	return b
}

// Configure 添加配置器
func (b *ApplicationBuilder) Configure(configurators ...Configurator) *ApplicationBuilder {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, c := range configurators {
		if c != nil {
			b.configurators = append(b.configurators, c)
		}
	}
	return b
}

// AddExtension 添加应用程序扩展
func (b *ApplicationBuilder) AddExtension(ext Extension) *ApplicationBuilder {
	validateExtension(ext)

	b.mu.Lock()
	defer b.mu.Unlock()

	if sc, ok := ext.(ServiceConfigurator); ok {
		b.serviceConfigurators = append(b.serviceConfigurators, sc.ConfigureServices)
	}
	if ac, ok := ext.(AppConfigurator); ok {
		b.configurators = append(b.configurators, ac.ConfigureBuilder)
	}
	return b
}

// AddOptions 注册配置选项（语法糖）
// 使用示例: core.AddOptions[InvoiceOptions](builder, "invoice")
func AddOptions[T any](b *ApplicationBuilder, section string) *ApplicationBuilder {
	return b.Configure(func(ctx *BuildContext) {
		ConfigureOptions[T](ctx, section)
	})
}

// AddHostedService 添加托管服务实例
func (b *ApplicationBuilder) AddHostedService(service hosting.HostedService) *ApplicationBuilder {
	return b.Configure(func(ctx *BuildContext) {
		ctx.AddHostedService(service)
	})
}

// AddTask 添加一个简单的后台任务
func (b *ApplicationBuilder) AddTask(task func(ctx context.Context) error) *ApplicationBuilder {
	return b.AddHostedService(&functionalService{task: task})
}

// functionalService 函数式托管服务
type functionalService struct {
	task func(ctx context.Context) error
}

func (f *functionalService) Start(ctx context.Context) error { return f.task(ctx) }
func (f *functionalService) Stop(ctx context.Context) error  { return nil }

// UseBindingsSection 设置从配置读取容器绑定的节，默认为 "container"
func (b *ApplicationBuilder) UseBindingsSection(section string) *ApplicationBuilder {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.bindingsSection = section
	return b
}

// UseValidation 设置 Build 时是否校验依赖图，默认开启
func (b *ApplicationBuilder) UseValidation(enabled bool) *ApplicationBuilder {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.validate = enabled
	return b
}

// UseShutdownTimeout 设置关闭超时
func (b *ApplicationBuilder) UseShutdownTimeout(timeout time.Duration) *ApplicationBuilder {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.shutdownTimeout = timeout
	return b
}

// Build 构建应用程序
//
// 顺序：配置 -> 日志 -> 容器及核心服务 -> 配置文件中的绑定 -> Configure -> ConfigureServices -> 校验 -> 托管服务
func (b *ApplicationBuilder) Build() (Application, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	cfg, err := b.configBuilder.Build()
	if err != nil {
		return nil, fmt.Errorf("core: failed to build configuration: %w", err)
	}

	var logOptions logging.Options
	if len(cfg.GetSection("logging").GetAll()) > 0 {
		if logOptions, err = config.Load[logging.Options](cfg, "logging"); err != nil {
			return nil, fmt.Errorf("core: %w", err)
		}
	}
	if err := b.loggingBuilder.Apply(logOptions); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	loggerFactory := b.loggingBuilder.Build()
	logger := loggerFactory.CreateLogger("Application")
	env := NewEnvironment(b.environment)
	if name := cfg.Get("environment"); name != "" {
		env = NewEnvironment(name)
	}

	logger.Info("Building application", logging.Field{Key: "environment", Value: env.Name()})

	container := di.NewContainer(di.WithLogger(loggerFactory.CreateLogger("di")))

	// 核心服务
	container.Set(di.KeyOf[config.Configuration](), di.Value(cfg))
	container.Set(di.KeyOf[*config.ReloadableConfiguration](), di.Value(cfg))
	container.Set(di.KeyOf[logging.LoggerFactory](), di.Value(loggerFactory))
	container.Set(di.KeyOf[logging.Logger](), di.Value(logger))
	container.Set(di.KeyOf[Environment](), di.Value(env))
	container.Set(di.KeyOf[*di.Container](), di.Value(container))

	ctx := &BuildContext{
		container:     container,
		configuration: cfg,
		logger:        logger,
		loggerFactory: loggerFactory,
		environment:   env,
		lifecycle:     NewLifecycle(),
	}
	if closer, ok := loggerFactory.(io.Closer); ok {
		ctx.lifecycle.OnStop(func(context.Context) error { return closer.Close() })
	}

	// 构建失败时执行已注册的停止钩子，释放配置器打开的资源
	built := false
	defer func() {
		if built {
			return
		}
		if err := ctx.lifecycle.Stop(context.Background()); err != nil {
			logger.Error("Cleanup after failed build", logging.Field{Key: "error", Value: err.Error()})
		}
	}()

	if err := config.ApplyBindings(cfg, b.bindingsSection, container); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}

	for _, configurator := range b.configurators {
		configurator(ctx)
	}
	if len(ctx.errs) > 0 {
		return nil, fmt.Errorf("core: configuration failed: %w", errors.Join(ctx.errs...))
	}

	services := newServiceCollection(container, logger)
	for _, configurator := range b.serviceConfigurators {
		configurator(services)
	}
	if len(services.declarations) > 0 {
		return nil, errors.Join(services.declarations...)
	}

	if b.validate {
		if err := container.Validate(); err != nil {
			return nil, fmt.Errorf("core: invalid dependency graph: %w", err)
		}
		logger.Debug("Dependency graph validated",
			logging.Field{Key: "bindings", Value: len(container.Identifiers())})
	}

	hosted := append([]hosting.HostedService(nil), ctx.hostedServices...)
	for _, id := range services.hostedIDs {
		instance, err := container.Resolve(id)
		if err != nil {
			return nil, fmt.Errorf("core: failed to resolve hosted service %q: %w", id, err)
		}
		hs, ok := instance.(hosting.HostedService)
		if !ok {
			return nil, fmt.Errorf("core: %q resolved to %T, which does not implement hosting.HostedService", id, instance)
		}
		hosted = append(hosted, hs)
	}

	logger.Info("Application built", logging.Field{Key: "hostedServices", Value: len(hosted)})
	built = true

	return &application{
		container:       container,
		configuration:   cfg,
		logger:          logger,
		environment:     env,
		lifecycle:       ctx.lifecycle,
		hostedServices:  hosted,
		shutdownTimeout: b.shutdownTimeout,
		stopCh:          make(chan struct{}),
	}, nil
}
