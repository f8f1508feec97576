package di

import (
	"fmt"
	"reflect"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// invoker 实例化调用器
// 封装了反射调用的细节，统一处理 error 返回值、nil 实例和 panic
type invoker func(args []reflect.Value) (any, error)

// validateConstructor 检查构造函数签名：
// func(...) T 或 func(...) (T, error)
func validateConstructor(fnType reflect.Type) error {
	if fnType.Kind() != reflect.Func {
		return fmt.Errorf("di: constructor must be a function, got %v", fnType)
	}
	switch fnType.NumOut() {
	case 1:
	case 2:
		if fnType.Out(1) != errorType {
			return fmt.Errorf("di: second result of constructor %v must be error", fnType)
		}
	default:
		return fmt.Errorf("di: constructor %v must return (T) or (T, error)", fnType)
	}
	if fnType.Out(0) == errorType {
		return fmt.Errorf("di: constructor %v must not return only an error", fnType)
	}
	return nil
}

// createConstructorInvoker 创建构造函数调用器
func createConstructorInvoker(fn reflect.Value) invoker {
	return func(args []reflect.Value) (instance any, err error) {
		defer func() {
			if r := recover(); r != nil {
				instance = nil
				if e, ok := r.(error); ok {
					err = fmt.Errorf("constructor panicked: %w", e)
					return
				}
				err = fmt.Errorf("constructor panicked: %v", r)
			}
		}()

		results := fn.Call(args)

		// 检查 error
		if len(results) > 1 {
			if last := results[len(results)-1]; !last.IsNil() {
				return nil, fmt.Errorf("constructor failed: %w", last.Interface().(error))
			}
		}

		// 检查 nil
		first := results[0]
		switch first.Kind() {
		case reflect.Ptr, reflect.Interface:
			if first.IsNil() {
				return nil, fmt.Errorf("constructor returned nil instance")
			}
		}

		return first.Interface(), nil
	}
}

// argumentValue 把已解析的依赖转换为可传给参数类型 t 的值。
// T 与 *T 共用同一标识符：解析结果为 *T 而参数要求 T 时解引用，
// 反之复制到新分配的 *T。
func argumentValue(v any, t reflect.Type) (reflect.Value, error) {
	if v == nil {
		switch t.Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, fmt.Errorf("nil is not assignable to %v", t)
	}

	val := reflect.ValueOf(v)
	if val.Type().AssignableTo(t) {
		return val, nil
	}
	if val.Kind() == reflect.Ptr && !val.IsNil() && val.Elem().Type().AssignableTo(t) {
		return val.Elem(), nil
	}
	if t.Kind() == reflect.Ptr && val.Type().AssignableTo(t.Elem()) {
		ptr := reflect.New(t.Elem())
		ptr.Elem().Set(val)
		return ptr, nil
	}
	return reflect.Value{}, fmt.Errorf("%T is not assignable to %v", v, t)
}
