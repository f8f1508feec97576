package di

import (
	"fmt"
	"reflect"
)

// ParamKind 构造函数参数的类型分类。
type ParamKind int

const (
	// ParamNoType 参数没有可用的类型信息（Go 中为 any）
	ParamNoType ParamKind = iota
	// ParamPrimitive 基础/内建类型：bool、数字、string、slice、map、func 等
	ParamPrimitive
	// ParamUnion 联合类型，见 OneOf
	ParamUnion
	// ParamClass 具名的类类型，可递归解析
	ParamClass
)

func (k ParamKind) String() string {
	switch k {
	case ParamNoType:
		return "no type"
	case ParamPrimitive:
		return "primitive type"
	case ParamUnion:
		return "union type"
	case ParamClass:
		return "class type"
	default:
		return fmt.Sprintf("ParamKind(%d)", int(k))
	}
}

// Parameter 描述构造函数的一个参数。
type Parameter struct {
	Name string
	Kind ParamKind
	// Class 仅在 Kind == ParamClass 时有效，是需要递归解析的标识符
	Class string
	// Type 参数的反射类型，自定义 TypeIntrospector 可以留空
	Type reflect.Type
}

func (p Parameter) String() string {
	if p.Kind == ParamClass {
		return fmt.Sprintf("%s %s", p.Name, p.Class)
	}
	if p.Type != nil {
		return fmt.Sprintf("%s %s (%s)", p.Name, p.Type, p.Kind)
	}
	return fmt.Sprintf("%s (%s)", p.Name, p.Kind)
}

// Class 是 TypeIntrospector 对一个类的描述。
type Class struct {
	Name string
	// Abstract 类存在但不可实例化
	Abstract bool
	// Constructor 是否声明了构造函数。为 false 时 Params 必须为空
	Constructor bool
	Params      []Parameter
	// New 按声明顺序接收已解析的参数并创建实例
	New func(args []any) (any, error)
}

// TypeIntrospector 按标识符查询类的元数据。
// Inspect 的第二个返回值为 false 表示该类不存在。
type TypeIntrospector interface {
	Inspect(id string) (*Class, bool)
}

var unionMarker = reflect.TypeOf((*union)(nil)).Elem()

// classifyParam 根据反射类型对参数分类。
func classifyParam(i int, t reflect.Type) Parameter {
	p := Parameter{
		Name: fmt.Sprintf("arg%d", i),
		Type: t,
	}

	switch {
	case t.Implements(unionMarker):
		p.Kind = ParamUnion
		return p
	case t.Kind() == reflect.Interface && t.NumMethod() == 0:
		p.Kind = ParamNoType
		return p
	}

	base := t
	if base.Kind() == reflect.Ptr {
		base = base.Elem()
	}

	switch base.Kind() {
	case reflect.Struct, reflect.Interface:
		p.Kind = ParamClass
		p.Class = TypeKey(t)
	default:
		p.Kind = ParamPrimitive
	}
	return p
}
