package di

import "reflect"

// TypeOf 获取类型 T 的 reflect.Type（泛型辅助函数）
//
// 对接口类型同样有效：
//
//	gatewayType := di.TypeOf[PaymentGateway]()
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// KeyOf 返回类型 T 作为类标识符时使用的字符串。
//
//	c.Set(di.KeyOf[PaymentGateway](), di.Alias(di.KeyOf[*StripePayment]()))
//	svc, err := c.Resolve(di.KeyOf[*InvoiceService]())
func KeyOf[T any]() string {
	return TypeKey(TypeOf[T]())
}

// TypeKey 返回类型的包限定名，指针会被剥离，
// 因此 *InvoiceService 与 InvoiceService 对应同一个标识符。
func TypeKey(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Name() == "" {
		return t.String()
	}
	if t.PkgPath() == "" {
		return t.Name()
	}
	return t.PkgPath() + "." + t.Name()
}
