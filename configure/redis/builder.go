package redis

import (
	"errors"
	"fmt"

	"github.com/gocrud/autowire/config"
	"github.com/gocrud/autowire/core"
	"github.com/gocrud/autowire/logging"
)

// Builder Redis 客户端配置构建器
type Builder struct {
	core.BaseBuilder
	configs []RedisClientOptions
	errors  []error
}

// NewBuilder 创建 Redis 构建器
func NewBuilder(ctx *core.BuildContext) *Builder {
	return &Builder{
		BaseBuilder: core.NewBaseBuilder(ctx),
		configs:     make([]RedisClientOptions, 0),
	}
}

// AddClient 添加一个 Redis 客户端配置
func (b *Builder) AddClient(name string, configure func(*RedisClientOptions)) *Builder {
	opts := NewDefaultOptions(name)
	if configure != nil {
		configure(opts)
	}

	if err := opts.Validate(); err != nil {
		b.errors = append(b.errors, fmt.Errorf("invalid redis configuration for '%s': %w", name, err))
		return b
	}

	b.configs = append(b.configs, *opts)
	return b
}

// AddFromConfig 从配置节读取 ClientConfig
//
//	b.AddFromConfig("cache", "redis:cache")
func (b *Builder) AddFromConfig(name, section string, configure ...func(*RedisClientOptions)) *Builder {
	cc, err := config.Load[ClientConfig](b.ConfigContext().GetConfiguration(), section)
	if err != nil {
		b.errors = append(b.errors, fmt.Errorf("redis client '%s': %w", name, err))
		return b
	}

	return b.AddClient(name, func(o *RedisClientOptions) {
		cc.apply(o)
		for _, fn := range configure {
			fn(o)
		}
	})
}

// Build 构建 Redis 客户端工厂。没有任何配置时返回 nil。
func (b *Builder) Build(logger logging.Logger) (*RedisClientFactory, error) {
	if len(b.errors) > 0 {
		return nil, fmt.Errorf("redis configuration errors: %w", errors.Join(b.errors...))
	}
	if len(b.configs) == 0 {
		return nil, nil
	}

	factory := NewRedisClientFactory()
	for _, opts := range b.configs {
		if err := factory.Register(opts); err != nil {
			factory.Close()
			return nil, fmt.Errorf("failed to register redis client '%s': %w", opts.Name, err)
		}

		logger.Info("redis client registered",
			logging.Field{Key: "name", Value: opts.Name},
			logging.Field{Key: "addr", Value: opts.Addr},
			logging.Field{Key: "db", Value: opts.DB})
	}

	return factory, nil
}
