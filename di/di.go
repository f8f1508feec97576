package di

import "fmt"

// Provide 把构造函数声明到容器的类目录，返回类标识符。
// 支持的 target：
// 1. func(...) T / func(...) (T, error) -> 构造函数，参数自动装配
// 2. reflect.Type                      -> 没有构造函数的类
func Provide(c *Container, target any) (string, error) {
	if c.catalog == nil {
		return "", fmt.Errorf("di: container does not use a *Catalog introspector")
	}
	return c.catalog.provide(target)
}

// MustProvide 同 Provide，失败时 panic
func MustProvide(c *Container, targets ...any) {
	for _, target := range targets {
		if _, err := Provide(c, target); err != nil {
			panic(fmt.Sprintf("di: failed to provide %T: %v", target, err))
		}
	}
}

// Bind 把接口 I 绑定到实现 Impl（别名）。
// 使用示例: di.Bind[PaymentGateway, *StripePayment](c)
func Bind[I, Impl any](c *Container) {
	c.Set(KeyOf[I](), Alias(KeyOf[Impl]()))
}

// ResolveAs 解析标识符并断言为 T。
func ResolveAs[T any](c *Container, id string) (T, error) {
	var zero T

	val, err := c.Resolve(id)
	if err != nil {
		return zero, err
	}
	if val == nil {
		return zero, nil
	}

	if v, ok := val.(T); ok {
		return v, nil
	}
	return zero, fmt.Errorf("di: resolved value for %q is %T, expected %v", id, val, TypeOf[T]())
}

// ResolveType 按类型 T 的标识符解析。
func ResolveType[T any](c *Container) (T, error) {
	return ResolveAs[T](c, KeyOf[T]())
}

// MustResolve 解析失败时 panic
func MustResolve[T any](c *Container) T {
	v, err := ResolveType[T](c)
	if err != nil {
		panic(err)
	}
	return v
}
