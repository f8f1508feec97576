package configure

import (
	"github.com/gocrud/autowire/configure/cron"
	"github.com/gocrud/autowire/configure/database"
	"github.com/gocrud/autowire/configure/redis"
	"github.com/gocrud/autowire/configure/web"
	"github.com/gocrud/autowire/core"
)

// Web 便捷导出 web 配置器
// 使用示例: builder.Configure(configure.Web(func(b *web.Builder) { ... }))
func Web(options func(*web.Builder)) core.Configurator {
	return web.Configure(options)
}

// Database 便捷导出 database 配置器
// 使用示例: builder.Configure(configure.Database(func(b *database.Builder) { ... }))
func Database(options func(*database.Builder)) core.Configurator {
	return database.Configure(options)
}

// Redis 便捷导出 redis 配置器
func Redis(options func(*redis.Builder)) core.Configurator {
	return redis.Configure(options)
}

// Cron 便捷导出 cron 配置器
func Cron(options func(*cron.Builder)) core.Configurator {
	return cron.Configure(options)
}
