package core

import (
	"reflect"

	"github.com/gocrud/autowire/config"
	"github.com/gocrud/autowire/di"
	"github.com/gocrud/autowire/logging"
)

// ConfigureOptions 把配置节 section 绑定为类型 T 的工厂。
// 每次解析都会重新读取配置，因此 Reload 之后拿到的是最新值。
// 使用示例: core.ConfigureOptions[InvoiceOptions](ctx, "invoice")
func ConfigureOptions[T any](ctx *BuildContext, section string) {
	cfg := ctx.configuration
	isPointer := di.TypeOf[T]().Kind() == reflect.Ptr
	ctx.container.Set(di.KeyOf[T](), di.FactoryE(func() (any, error) {
		v, err := config.Load[T](cfg, section)
		if err != nil {
			return nil, err
		}
		if isPointer {
			return v, nil
		}
		// 返回指针，构造函数参数为 T 或 *T 都可以注入
		return &v, nil
	}))

	ctx.logger.Debug("Configured options",
		logging.Field{Key: "type", Value: di.TypeOf[T]().String()},
		logging.Field{Key: "section", Value: section})
}
