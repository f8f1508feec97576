package database

import (
	"fmt"

	"github.com/gocrud/autowire/core"
	"github.com/gocrud/autowire/di"
	"github.com/gocrud/autowire/logging"
	"gorm.io/gorm"
)

// DefaultName 默认实例名称，同时绑定到 di.KeyOf[*gorm.DB]()
const DefaultName = "default"

// Key 返回命名实例在容器中的标识符
func Key(name string) string {
	return "database." + name
}

// Configure 返回数据库配置器
// 每个实例以 Key(name) 注册为固定值绑定，default 实例同时绑定到 *gorm.DB，
// 依赖 *gorm.DB 的构造函数因此可以直接自动装配。
func Configure(options func(*Builder)) core.Configurator {
	return func(ctx *core.BuildContext) {
		builder := NewBuilder(ctx)
		if options != nil {
			options(builder)
		}

		logger := ctx.CreateLogger("database")
		factory, err := builder.Build(logger)
		if err != nil {
			ctx.Fail(fmt.Errorf("database: %w", err))
			return
		}
		if factory == nil {
			return
		}

		c := ctx.Container()
		c.Set(di.KeyOf[*DatabaseFactory](), di.Value(factory))

		for _, name := range factory.Names() {
			db, _ := factory.Get(name)
			c.Set(Key(name), di.Value(db))
			if name == DefaultName {
				c.Set(di.KeyOf[*gorm.DB](), di.Alias(Key(name)))
			}
			logger.Debug("Database bound", logging.Field{Key: "id", Value: Key(name)})
		}

		builder.RegisterCleanup("database", func() {
			logger.Info("Closing database connections")
			if err := factory.Close(); err != nil {
				logger.Error("Failed to close databases", logging.Field{Key: "error", Value: err.Error()})
			}
		})
	}
}
