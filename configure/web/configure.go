package web

import (
	"github.com/gocrud/autowire/core"
	"github.com/gocrud/autowire/di"
	"github.com/gocrud/autowire/logging"
)

// Configure 返回 Web 配置器
// 端口默认读取配置项 web:port，options 中的 UsePort 优先
// 使用示例: builder.Configure(web.Configure(func(b *web.Builder) { ... }))
func Configure(options func(*Builder)) core.Configurator {
	return func(ctx *core.BuildContext) {
		builder := NewBuilder(ctx.CreateLogger("web"))
		if port, err := ctx.GetConfiguration().GetInt("web:port"); err == nil {
			builder.UsePort(port)
		}
		if options != nil {
			options(builder)
		}

		host, err := builder.Build(ctx.Container())
		if err != nil {
			ctx.Fail(err)
			return
		}

		ctx.Container().Set(di.KeyOf[*Host](), di.Value(host))
		ctx.AddHostedService(host)

		ctx.GetLogger().Info("Web host configured",
			logging.Field{Key: "port", Value: host.port},
			logging.Field{Key: "controllers", Value: len(host.controllerIDs)})
	}
}
