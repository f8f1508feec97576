package di

import "github.com/gocrud/autowire/logging"

// Option 配置容器。
type Option func(*Container)

// WithLogger 设置容器日志记录器，解析过程以 Debug 级别输出。
func WithLogger(logger logging.Logger) Option {
	return func(c *Container) {
		if logger != nil {
			c.logger = logger.WithCategory("di")
		}
	}
}

// WithCatalog 使用已有的类目录，可在多个容器之间共享类声明。
func WithCatalog(catalog *Catalog) Option {
	return func(c *Container) {
		if catalog != nil {
			c.catalog = catalog
			c.introspector = catalog
		}
	}
}

// WithIntrospector 替换类型内省实现。
// 使用自定义实现后 Container.Catalog() 返回 nil。
func WithIntrospector(introspector TypeIntrospector) Option {
	return func(c *Container) {
		if introspector == nil {
			return
		}
		c.introspector = introspector
		if catalog, ok := introspector.(*Catalog); ok {
			c.catalog = catalog
		} else {
			c.catalog = nil
		}
	}
}
