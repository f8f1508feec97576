package di

import (
	"fmt"
	"reflect"
)

// Inject 通过指针注入实例到目标变量
// 用法示例：
//
//	var svc *InvoiceService
//	err := c.Inject(&svc)
//
// 标识符为目标元素类型的 KeyOf，可以再传入显式标识符：
//
//	var dsn string
//	err := c.Inject(&dsn, "config.dsn")
func (c *Container) Inject(target any, id ...string) error {
	targetVal := reflect.ValueOf(target)
	if targetVal.Kind() != reflect.Pointer {
		return fmt.Errorf("di: Inject target must be a pointer, got %T", target)
	}
	if targetVal.IsNil() {
		return fmt.Errorf("di: Inject target pointer is nil")
	}

	elem := targetVal.Elem()
	key := TypeKey(elem.Type())
	if len(id) > 0 && id[0] != "" {
		key = id[0]
	}

	instance, err := c.Resolve(key)
	if err != nil {
		return err
	}

	val, err := argumentValue(instance, elem.Type())
	if err != nil {
		return fmt.Errorf("di: Inject %q: %w", key, err)
	}
	elem.Set(val)
	return nil
}

// MustInject 通过指针注入实例，失败时 panic
func (c *Container) MustInject(target any, id ...string) {
	if err := c.Inject(target, id...); err != nil {
		panic(err)
	}
}
