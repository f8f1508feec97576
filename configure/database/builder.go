package database

import (
	"errors"
	"fmt"
	"sort"

	"github.com/gocrud/autowire/config"
	"github.com/gocrud/autowire/core"
	"github.com/gocrud/autowire/logging"
	"gorm.io/gorm"
)

// Builder 数据库配置构建器
type Builder struct {
	core.BaseBuilder
	configs map[string]DatabaseOptions
	errors  []error
}

// NewBuilder 创建构建器
func NewBuilder(ctx *core.BuildContext) *Builder {
	return &Builder{
		BaseBuilder: core.NewBaseBuilder(ctx),
		configs:     make(map[string]DatabaseOptions),
		errors:      make([]error, 0),
	}
}

// Add 添加数据库配置
// name: 实例名称，"default" 同时注册为 *gorm.DB 的默认绑定
// dialector: GORM 驱动 (e.g. sqlite.Open(dsn))
// configure: 可选的配置函数
func (b *Builder) Add(name string, dialector gorm.Dialector, configure func(*DatabaseOptions)) *Builder {
	if _, exists := b.configs[name]; exists {
		b.errors = append(b.errors, fmt.Errorf("database '%s' already configured", name))
		return b
	}

	opts := NewDefaultOptions(name, dialector)
	if configure != nil {
		configure(opts)
	}

	if err := opts.Validate(); err != nil {
		b.errors = append(b.errors, fmt.Errorf("invalid configuration for '%s': %w", name, err))
		return b
	}

	b.configs[name] = *opts
	return b
}

// AddFromConfig 从配置节读取 ConnectionConfig，dialect 把 DSN 转换为驱动
//
//	b.AddFromConfig("default", "database:default", sqlite.Open)
func (b *Builder) AddFromConfig(name, section string, dialect func(dsn string) gorm.Dialector, configure ...func(*DatabaseOptions)) *Builder {
	conn, err := config.Load[ConnectionConfig](b.ConfigContext().GetConfiguration(), section)
	if err != nil {
		b.errors = append(b.errors, fmt.Errorf("database '%s': %w", name, err))
		return b
	}
	if conn.DSN == "" {
		b.errors = append(b.errors, fmt.Errorf("database '%s': %s.dsn is empty", name, section))
		return b
	}

	return b.Add(name, dialect(conn.DSN), func(o *DatabaseOptions) {
		conn.apply(o)
		for _, fn := range configure {
			fn(o)
		}
	})
}

// Build 按名称顺序打开所有数据库，返回工厂。没有任何配置时返回 nil。
func (b *Builder) Build(logger logging.Logger) (*DatabaseFactory, error) {
	if len(b.errors) > 0 {
		return nil, fmt.Errorf("database configuration errors: %w", errors.Join(b.errors...))
	}

	if len(b.configs) == 0 {
		return nil, nil
	}

	names := make([]string, 0, len(b.configs))
	for name := range b.configs {
		names = append(names, name)
	}
	sort.Strings(names)

	factory := NewDatabaseFactory()
	for _, name := range names {
		opts := b.configs[name]
		if err := factory.Register(opts); err != nil {
			factory.Close()
			return nil, err
		}

		if logger != nil {
			logger.Info("Database registered",
				logging.Field{Key: "name", Value: opts.Name},
				logging.Field{Key: "dialector", Value: opts.Dialector.Name()})
		}
	}

	return factory, nil
}
