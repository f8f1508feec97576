package di

import "fmt"

// BindingKind 绑定类型
type BindingKind int

const (
	// BindingFactory 零参数工厂
	BindingFactory BindingKind = iota + 1
	// BindingAlias 指向另一个标识符的别名
	BindingAlias
)

func (k BindingKind) String() string {
	switch k {
	case BindingFactory:
		return "factory"
	case BindingAlias:
		return "alias"
	default:
		return fmt.Sprintf("BindingKind(%d)", int(k))
	}
}

// FactoryFunc 零参数的实例生产函数。
type FactoryFunc func() (any, error)

// Binding 注册表中的一条记录：要么是工厂，要么是别名。
// 只能通过 Factory / FactoryE / Value / Alias 构造。
type Binding struct {
	kind    BindingKind
	factory FactoryFunc
	target  string
}

// Factory 创建工厂绑定。每次 Resolve 都会重新调用 fn，不做缓存。
func Factory(fn func() any) Binding {
	if fn == nil {
		panic("di: Factory called with nil function")
	}
	return Binding{kind: BindingFactory, factory: func() (any, error) { return fn(), nil }}
}

// FactoryE 创建可以返回错误的工厂绑定。
func FactoryE(fn func() (any, error)) Binding {
	if fn == nil {
		panic("di: FactoryE called with nil function")
	}
	return Binding{kind: BindingFactory, factory: fn}
}

// call 调用工厂，panic 转换为错误
func (b Binding) call() (instance any, err error) {
	defer func() {
		if r := recover(); r != nil {
			instance = nil
			if e, ok := r.(error); ok {
				err = fmt.Errorf("factory panicked: %w", e)
				return
			}
			err = fmt.Errorf("factory panicked: %v", r)
		}
	}()
	return b.factory()
}

// Value 创建始终返回 v 的工厂绑定。
func Value(v any) Binding {
	return Binding{kind: BindingFactory, factory: func() (any, error) { return v, nil }}
}

// Alias 创建别名绑定，通常用于 接口 -> 实现 的映射。
//
//	c.Set(di.KeyOf[PaymentGateway](), di.Alias(di.KeyOf[*StripePayment]()))
func Alias(target string) Binding {
	return Binding{kind: BindingAlias, target: target}
}

// Kind 返回绑定类型
func (b Binding) Kind() BindingKind {
	return b.kind
}

// Target 返回别名目标，工厂绑定返回空字符串
func (b Binding) Target() string {
	return b.target
}

// IsZero 判断是否为未初始化的绑定
func (b Binding) IsZero() bool {
	return b.kind == 0
}

func (b Binding) String() string {
	if b.kind == BindingAlias {
		return "alias(" + b.target + ")"
	}
	return b.kind.String()
}
