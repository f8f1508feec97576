package di

import (
	"fmt"

	"github.com/gocrud/autowire/logging"
)

// Container 依赖注入容器。
//
// 绑定（工厂或别名）优先于自动装配；没有绑定时，标识符被当作类名，
// 由 TypeIntrospector 提供构造函数信息并递归解析参数。
// 容器不缓存任何实例：每次 Resolve 都会重新调用工厂或构造函数。
type Container struct {
	registry     *registry
	catalog      *Catalog
	introspector TypeIntrospector
	logger       logging.Logger
	resolver     *resolver
}

// NewContainer 创建一个新的空容器。
func NewContainer(opts ...Option) *Container {
	catalog := NewCatalog()
	c := &Container{
		registry:     newRegistry(),
		catalog:      catalog,
		introspector: catalog,
		logger:       logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.resolver = newResolver(c.registry, c.introspector, c.logger)
	return c
}

// Set 注册绑定，覆盖同一标识符之前的绑定。
// 指向自身的别名在解析时报告为循环依赖。
//
//	c.Set("config.dsn", di.Value("file::memory:"))
//	c.Set(di.KeyOf[PaymentGateway](), di.Alias(di.KeyOf[*StripePayment]()))
func (c *Container) Set(id string, binding Binding) {
	if id == "" {
		panic("di: identifier must not be empty")
	}
	if binding.IsZero() {
		panic(fmt.Sprintf("di: empty binding for %q, use di.Factory, di.Value or di.Alias", id))
	}

	c.registry.set(id, binding)
	c.logger.Debug("binding registered",
		logging.Field{Key: "id", Value: id},
		logging.Field{Key: "binding", Value: binding.String()})
}

// Has 判断标识符是否存在绑定。不查询类目录。
func (c *Container) Has(id string) bool {
	return c.registry.has(id)
}

// Get 只通过绑定获取值，不做自动装配。
// 别名会解析其目标。
func (c *Container) Get(id string) (any, error) {
	return c.resolver.lookup(id)
}

// Resolve 解析标识符：先查绑定，再按类名自动装配。
func (c *Container) Resolve(id string) (any, error) {
	return c.resolver.resolve(id, nil)
}

// Identifiers 返回所有已绑定的标识符（已排序）
func (c *Container) Identifiers() []string {
	return c.registry.identifiers()
}

// Catalog 返回容器使用的类目录，使用自定义 TypeIntrospector 时为 nil。
func (c *Container) Catalog() *Catalog {
	return c.catalog
}

// Introspector 返回容器使用的类型内省实现
func (c *Container) Introspector() TypeIntrospector {
	return c.introspector
}
