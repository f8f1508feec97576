package cron

import (
	"github.com/gocrud/autowire/core"
	"github.com/gocrud/autowire/logging"
)

// Configure 返回 Cron 配置器
// 使用示例: builder.Configure(cron.Configure(func(b *cron.Builder) { ... }))
func Configure(options func(*Builder)) core.Configurator {
	return func(ctx *core.BuildContext) {
		builder := NewBuilder()
		if options != nil {
			options(builder)
		}

		logger := ctx.CreateLogger("cron")
		svc, err := builder.build(ctx.Container(), logger)
		if err != nil {
			ctx.Fail(err)
			return
		}

		ctx.AddHostedService(svc)
		ctx.GetLogger().Info("Cron service configured", logging.Field{Key: "jobs", Value: len(builder.jobs)})
	}
}
