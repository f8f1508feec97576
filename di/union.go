package di

import "reflect"

// union 由联合类型实现的标记接口。
type union interface {
	unionMembers() []reflect.Type
}

// OneOf 表示 "A 或 B" 的参数类型。
// 容器从不猜测联合类型该取哪一个分支，构造函数若以 OneOf 为参数，
// 自动装配会以 KindContainer 错误失败，这类依赖需要通过工厂绑定提供。
type OneOf[A, B any] struct {
	value any
}

// First 用 A 构造 OneOf
func First[A, B any](a A) OneOf[A, B] {
	return OneOf[A, B]{value: a}
}

// Second 用 B 构造 OneOf
func Second[A, B any](b B) OneOf[A, B] {
	return OneOf[A, B]{value: b}
}

// Value 返回实际持有的值
func (o OneOf[A, B]) Value() any {
	return o.value
}

func (OneOf[A, B]) unionMembers() []reflect.Type {
	return []reflect.Type{TypeOf[A](), TypeOf[B]()}
}
