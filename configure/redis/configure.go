package redis

import (
	"fmt"

	"github.com/gocrud/autowire/core"
	"github.com/gocrud/autowire/di"
	"github.com/gocrud/autowire/logging"
	"github.com/redis/go-redis/v9"
)

// DefaultName 默认客户端名称，同时绑定到 di.KeyOf[*redis.Client]()
const DefaultName = "default"

// Key 返回命名客户端在容器中的标识符
func Key(name string) string {
	return "redis." + name
}

// Configure 返回 Redis 配置器
// 使用示例: builder.Configure(redis.Configure(func(b *redis.Builder) { ... }))
func Configure(options func(*Builder)) core.Configurator {
	return func(ctx *core.BuildContext) {
		builder := NewBuilder(ctx)
		if options != nil {
			options(builder)
		}

		logger := ctx.CreateLogger("redis")
		factory, err := builder.Build(logger)
		if err != nil {
			ctx.Fail(fmt.Errorf("redis: %w", err))
			return
		}
		if factory == nil {
			return
		}

		c := ctx.Container()
		c.Set(di.KeyOf[*RedisClientFactory](), di.Value(factory))
		for _, name := range factory.Names() {
			client, _ := factory.Get(name)
			c.Set(Key(name), di.Value(client))
			if name == DefaultName {
				c.Set(di.KeyOf[*redis.Client](), di.Alias(Key(name)))
				logger.Info("Default redis client registered to DI container")
			}
		}

		ctx.Lifecycle().OnStart(factory.Ping)
		builder.RegisterCleanup("redis", func() {
			logger.Info("Closing redis clients")
			if err := factory.Close(); err != nil {
				logger.Error("Failed to close redis clients",
					logging.Field{Key: "error", Value: err.Error()})
			}
		})
	}
}
