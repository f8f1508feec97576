package app

import "github.com/gocrud/autowire/core"

// NewApplicationBuilder 创建应用程序构建器
// 这是创建应用程序的入口点
func NewApplicationBuilder() *core.ApplicationBuilder {
	return core.NewApplicationBuilder()
}

// Run 构建并运行应用程序，阻塞直到应用停止
func Run(builder *core.ApplicationBuilder) error {
	application, err := builder.Build()
	if err != nil {
		return err
	}
	return application.Run()
}
