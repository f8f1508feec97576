package core_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gocrud/autowire/config"
	"github.com/gocrud/autowire/core"
	"github.com/gocrud/autowire/di"
	"github.com/gocrud/autowire/hosting"
	"github.com/gocrud/autowire/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Notifier interface {
	Notify(msg string) string
}

type ConsoleNotifier struct {
	logger logging.Logger
}

func NewConsoleNotifier(logger logging.Logger) *ConsoleNotifier {
	return &ConsoleNotifier{logger: logger}
}

func (n *ConsoleNotifier) Notify(msg string) string {
	n.logger.Info(msg)
	return "sent:" + msg
}

type Greeter struct {
	notifier Notifier
	options  *GreeterOptions
}

type GreeterOptions struct {
	Prefix string `json:"prefix"`
}

func NewGreeter(notifier Notifier, options *GreeterOptions) *Greeter {
	return &Greeter{notifier: notifier, options: options}
}

func (g *Greeter) Greet(name string) string {
	return g.notifier.Notify(g.options.Prefix + name)
}

type Ticker struct {
	*hosting.BackgroundService
	started atomic.Bool
}

func NewTicker() *Ticker {
	return &Ticker{BackgroundService: hosting.NewBackgroundService("ticker", nil)}
}

func (t *Ticker) Start(ctx context.Context) error {
	t.started.Store(true)
	return t.BackgroundService.Start(ctx)
}

func newBuilder() *core.ApplicationBuilder {
	return core.NewApplicationBuilder().
		ConfigureConfiguration(func(cb *config.ConfigurationBuilder) {
			cb.AddInMemory(map[string]any{
				"greeter": map[string]any{"prefix": "Hello, "},
			})
		}).
		ConfigureLogging(func(lb *logging.LoggingBuilder) {
			lb.AddProvider(logging.NewConsoleLoggerProvider(logging.ConsoleLoggerOptions{Output: &discard{}}))
		})
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func TestBuildRegistersCoreServices(t *testing.T) {
	app, err := core.NewApplicationBuilder().UseEnvironment("staging").Build()
	require.NoError(t, err)

	c := app.Container()
	assert.True(t, c.Has(di.KeyOf[config.Configuration]()))
	assert.True(t, c.Has(di.KeyOf[logging.Logger]()))
	assert.True(t, c.Has(di.KeyOf[*di.Container]()))

	self, err := di.ResolveType[*di.Container](c)
	require.NoError(t, err)
	assert.Same(t, c, self)

	env, err := di.ResolveType[core.Environment](c)
	require.NoError(t, err)
	assert.True(t, env.IsStaging())
	assert.Equal(t, "staging", app.Environment().Name())
}

func TestEnvironmentFromConfiguration(t *testing.T) {
	app, err := core.NewApplicationBuilder().
		UseEnvironment(core.Staging).
		ConfigureConfiguration(func(b *config.ConfigurationBuilder) {
			b.AddInMemory(map[string]any{"environment": " Production "})
		}).
		Build()
	require.NoError(t, err)
	assert.True(t, app.Environment().IsProduction())
}

func TestBuildAutowiresServices(t *testing.T) {
	app, err := newBuilder().
		Configure(func(ctx *core.BuildContext) {
			core.ConfigureOptions[GreeterOptions](ctx, "greeter")
		}).
		ConfigureServices(func(s *core.ServiceCollection) {
			s.AddClass(NewConsoleNotifier, NewGreeter)
			core.AddAlias[Notifier, *ConsoleNotifier](s)
		}).
		Build()
	require.NoError(t, err)

	var greeter *Greeter
	app.GetService(&greeter)
	assert.Equal(t, "sent:Hello, Ada", greeter.Greet("Ada"))
}

func TestBuildAppliesConfiguredBindings(t *testing.T) {
	app, err := core.NewApplicationBuilder().
		ConfigureConfiguration(func(cb *config.ConfigurationBuilder) {
			cb.AddInMemory(map[string]any{
				"container": map[string]any{
					"aliases": map[string]any{di.KeyOf[Notifier](): di.KeyOf[*ConsoleNotifier]()},
					"values":  map[string]any{"greeting": "hi"},
				},
			})
		}).
		ConfigureServices(func(s *core.ServiceCollection) {
			s.AddClass(NewConsoleNotifier)
		}).
		Build()
	require.NoError(t, err)

	notifier, err := di.ResolveType[Notifier](app.Container())
	require.NoError(t, err)
	assert.IsType(t, &ConsoleNotifier{}, notifier)

	v, err := app.Container().Get("greeting")
	require.NoError(t, err)
	assert.Equal(t, "hi", v)
}

func TestBuildFailsOnInvalidGraph(t *testing.T) {
	_, err := newBuilder().
		ConfigureServices(func(s *core.ServiceCollection) {
			s.AddClass(NewGreeter)
		}).
		Build()
	require.Error(t, err)
	assert.True(t, di.IsNotFound(err))

	_, err = newBuilder().
		UseValidation(false).
		ConfigureServices(func(s *core.ServiceCollection) {
			s.AddClass(NewGreeter)
		}).
		Build()
	assert.NoError(t, err)
}

func TestBuildFailsOnBadDeclaration(t *testing.T) {
	_, err := newBuilder().
		ConfigureServices(func(s *core.ServiceCollection) {
			s.AddClass(42)
		}).
		Build()
	assert.ErrorContains(t, err, "core: declare int")
}

func TestBuildFailsOnConfiguratorError(t *testing.T) {
	_, err := newBuilder().
		Configure(func(ctx *core.BuildContext) {
			ctx.Fail(errors.New("database unreachable"))
		}).
		Build()
	assert.ErrorContains(t, err, "database unreachable")
}

func TestBuildRejectsNonHostedService(t *testing.T) {
	_, err := newBuilder().
		ConfigureServices(func(s *core.ServiceCollection) {
			s.AddClass(NewConsoleNotifier)
			s.AddHostedService(di.KeyOf[*ConsoleNotifier]())
		}).
		Build()
	assert.ErrorContains(t, err, "does not implement hosting.HostedService")
}

func TestBuildRejectsUnknownLogLevel(t *testing.T) {
	_, err := core.NewApplicationBuilder().
		ConfigureConfiguration(func(cb *config.ConfigurationBuilder) {
			cb.AddInMemory(map[string]any{"logging": map[string]any{"level": "loud"}})
		}).
		Build()
	assert.ErrorContains(t, err, "unknown level")
}

func TestRunStartsAndStopsHostedServices(t *testing.T) {
	var cleaned atomic.Bool
	var started atomic.Bool

	app, err := newBuilder().
		UseShutdownTimeout(time.Second).
		ConfigureServices(func(s *core.ServiceCollection) {
			core.AddHosted[*Ticker](s, NewTicker)
		}).
		Configure(func(ctx *core.BuildContext) {
			ctx.SetCleanup("flag", func() { cleaned.Store(true) })
			ctx.Lifecycle().OnStart(func(context.Context) error {
				started.Store(true)
				return nil
			})
		}).
		Build()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.RunAsync(ctx) }()

	assert.Eventually(t, started.Load, time.Second, 5*time.Millisecond)
	require.NoError(t, app.Stop(context.Background()))
	require.NoError(t, app.Stop(context.Background()))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("application did not stop")
	}
	cancel()
	assert.True(t, cleaned.Load())
}

func TestRunReturnsHostedServiceError(t *testing.T) {
	app, err := newBuilder().
		AddTask(func(context.Context) error { return errors.New("crashed") }).
		Build()
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- app.RunAsync(context.Background()) }()

	select {
	case err := <-done:
		assert.ErrorContains(t, err, "crashed")
	case <-time.After(2 * time.Second):
		t.Fatal("application did not stop")
	}
}

func TestRunAsyncStopsOnContextCancel(t *testing.T) {
	app, err := newBuilder().Build()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.RunAsync(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("application did not stop")
	}
}

func TestFailuresRunStopHooks(t *testing.T) {
	var stopped atomic.Int32
	trackStop := func(ctx *core.BuildContext) {
		ctx.Lifecycle().OnStop(func(context.Context) error {
			stopped.Add(1)
			return nil
		})
	}

	_, err := newBuilder().
		Configure(trackStop, func(ctx *core.BuildContext) { ctx.Fail(errors.New("broken")) }).
		Build()
	require.Error(t, err)
	assert.Equal(t, int32(1), stopped.Load())

	app, err := newBuilder().
		Configure(trackStop, func(ctx *core.BuildContext) {
			ctx.Lifecycle().OnStart(func(context.Context) error { return errors.New("refused") })
		}).
		Build()
	require.NoError(t, err)
	assert.Equal(t, int32(1), stopped.Load())

	err = app.RunAsync(context.Background())
	assert.ErrorContains(t, err, "start hook failed")
	assert.Equal(t, int32(2), stopped.Load())
}
