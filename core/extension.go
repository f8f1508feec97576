package core

import "fmt"

// Extension 定义应用程序扩展的基础接口
// 扩展模块应该实现 ServiceConfigurator 或 AppConfigurator 接口（或两者都实现）
type Extension interface {
	// Name 返回扩展的名称，用于日志记录和调试
	Name() string
}

// ServiceConfigurator 负责注册绑定和类声明（ConfigureServices 阶段）
type ServiceConfigurator interface {
	ConfigureServices(services *ServiceCollection)
}

// AppConfigurator 负责配置构建上下文（Configure 阶段），用于添加托管服务、清理函数等
type AppConfigurator interface {
	ConfigureBuilder(ctx *BuildContext)
}

// validateExtension 扩展必须至少实现一个受支持的接口
func validateExtension(ext Extension) {
	_, isServiceConfigurator := ext.(ServiceConfigurator)
	_, isAppConfigurator := ext.(AppConfigurator)

	if !isServiceConfigurator && !isAppConfigurator {
		panic(fmt.Sprintf("core: Extension '%s' does not implement any supported interfaces (ServiceConfigurator, AppConfigurator)", ext.Name()))
	}
}
