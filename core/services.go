package core

import (
	"fmt"

	"github.com/gocrud/autowire/di"
	"github.com/gocrud/autowire/logging"
)

// ServiceCollection 服务集合，ConfigureServices 阶段注册绑定和类声明
type ServiceCollection struct {
	container    *di.Container
	logger       logging.Logger
	hostedIDs    []string
	declarations []error
}

func newServiceCollection(container *di.Container, logger logging.Logger) *ServiceCollection {
	return &ServiceCollection{
		container: container,
		logger:    logger,
	}
}

// Set 注册绑定
func (s *ServiceCollection) Set(id string, binding di.Binding) *ServiceCollection {
	s.container.Set(id, binding)
	return s
}

// Alias 注册别名绑定 id -> target
func (s *ServiceCollection) Alias(id, target string) *ServiceCollection {
	s.container.Set(id, di.Alias(target))
	return s
}

// Factory 注册工厂绑定，每次解析都会调用 fn
func (s *ServiceCollection) Factory(id string, fn func() (any, error)) *ServiceCollection {
	s.container.Set(id, di.FactoryE(fn))
	return s
}

// Value 注册固定值
func (s *ServiceCollection) Value(id string, v any) *ServiceCollection {
	s.container.Set(id, di.Value(v))
	return s
}

// AddClass 声明可自动装配的类。
// 参数可以是构造函数或 reflect.Type，错误在 Build 时统一返回。
func (s *ServiceCollection) AddClass(targets ...any) *ServiceCollection {
	for _, target := range targets {
		if _, err := di.Provide(s.container, target); err != nil {
			s.declarations = append(s.declarations, fmt.Errorf("core: declare %T: %w", target, err))
		}
	}
	return s
}

// AddHostedService 把标识符登记为托管服务，Build 时从容器解析。
// 解析结果必须实现 hosting.HostedService。
func (s *ServiceCollection) AddHostedService(id string) *ServiceCollection {
	s.hostedIDs = append(s.hostedIDs, id)
	return s
}

// Catalog 返回容器的类目录
func (s *ServiceCollection) Catalog() *di.Catalog {
	return s.container.Catalog()
}

// Container 返回底层容器
func (s *ServiceCollection) Container() *di.Container {
	return s.container
}

// Logger 返回应用日志记录器
func (s *ServiceCollection) Logger() logging.Logger {
	return s.logger
}

// AddAlias 将接口 I 绑定到实现 Impl
//
// 示例:
//
//	core.AddAlias[PaymentGateway, *StripePayment](services)
func AddAlias[I, Impl any](s *ServiceCollection) *ServiceCollection {
	di.Bind[I, Impl](s.container)
	return s
}

// AddHosted 声明 T 的构造函数并登记为托管服务
//
// 示例:
//
//	core.AddHosted[*TicketReporter](services, NewTicketReporter)
func AddHosted[T any](s *ServiceCollection, ctor any) *ServiceCollection {
	s.AddClass(ctor)
	return s.AddHostedService(di.KeyOf[T]())
}
