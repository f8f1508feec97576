package di

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// Catalog 基于反射的 TypeIntrospector 实现。
//
// Go 无法在运行时按名字查找类型，因此一个"类"只有在声明到 Catalog 后才存在：
//   - Add(NewInvoiceService)          通过构造函数声明，标识符为返回类型的 KeyOf
//   - AddType(TypeOf[*Mailer]())      声明没有构造函数的类，实例化为零值
//   - AddAbstract(TypeOf[Gateway]())  声明存在但不可实例化的类（接口）
type Catalog struct {
	mu      sync.RWMutex
	classes map[string]*Class
}

// NewCatalog 创建空的类目录
func NewCatalog() *Catalog {
	return &Catalog{
		classes: make(map[string]*Class),
	}
}

// Inspect 实现 TypeIntrospector
func (c *Catalog) Inspect(id string) (*Class, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	class, ok := c.classes[id]
	return class, ok
}

// Names 返回所有已声明的类标识符（已排序）
func (c *Catalog) Names() []string {
	c.mu.RLock()
	out := make([]string, 0, len(c.classes))
	for id := range c.classes {
		out = append(out, id)
	}
	c.mu.RUnlock()

	sort.Strings(out)
	return out
}

// Add 通过构造函数声明类，返回类标识符。
// 构造函数签名为 func(deps...) T 或 func(deps...) (T, error)。
func (c *Catalog) Add(ctor any) (string, error) {
	if ctor == nil {
		return "", fmt.Errorf("di: constructor is nil")
	}
	fnType := reflect.TypeOf(ctor)
	if err := validateConstructor(fnType); err != nil {
		return "", err
	}
	id := TypeKey(fnType.Out(0))
	return id, c.AddNamed(id, ctor)
}

// AddNamed 以显式标识符声明类
func (c *Catalog) AddNamed(id string, ctor any) error {
	if id == "" {
		return fmt.Errorf("di: class identifier must not be empty")
	}
	if ctor == nil {
		return fmt.Errorf("di: constructor for %q is nil", id)
	}

	fn := reflect.ValueOf(ctor)
	fnType := fn.Type()
	if err := validateConstructor(fnType); err != nil {
		return err
	}

	params := make([]Parameter, fnType.NumIn())
	for i := range params {
		params[i] = classifyParam(i, fnType.In(i))
	}

	call := createConstructorInvoker(fn)
	class := &Class{
		Name:        id,
		Constructor: true,
		Params:      params,
		New: func(args []any) (any, error) {
			if len(args) != len(params) {
				return nil, fmt.Errorf("constructor expects %d arguments, got %d", len(params), len(args))
			}
			in := make([]reflect.Value, len(args))
			for i, arg := range args {
				v, err := argumentValue(arg, params[i].Type)
				if err != nil {
					return nil, fmt.Errorf("argument %s: %w", params[i].Name, err)
				}
				in[i] = v
			}
			return call(in)
		},
	}

	c.store(class)
	return nil
}

// AddType 声明没有构造函数的类。
// t 为指针类型时返回 *T，否则返回 T 的零值。
func (c *Catalog) AddType(t reflect.Type) (string, error) {
	if t == nil {
		return "", fmt.Errorf("di: type is nil")
	}
	if t.Kind() == reflect.Interface {
		return "", fmt.Errorf("di: %v is an interface, use AddAbstract", t)
	}

	id := TypeKey(t)
	class := &Class{
		Name: id,
		New: func(args []any) (any, error) {
			if t.Kind() == reflect.Ptr {
				return reflect.New(t.Elem()).Interface(), nil
			}
			return reflect.New(t).Elem().Interface(), nil
		},
	}

	c.store(class)
	return id, nil
}

// AddAbstract 声明存在但不可实例化的类。
// 直接解析它会失败，需要通过别名或工厂绑定到具体实现。
func (c *Catalog) AddAbstract(t reflect.Type) (string, error) {
	if t == nil {
		return "", fmt.Errorf("di: type is nil")
	}

	id := TypeKey(t)
	c.store(&Class{
		Name:     id,
		Abstract: true,
		New: func([]any) (any, error) {
			return nil, ErrNotInstantiable
		},
	})
	return id, nil
}

func (c *Catalog) provide(target any) (string, error) {
	if t, ok := target.(reflect.Type); ok {
		return c.AddType(t)
	}
	if target != nil && reflect.TypeOf(target).Kind() == reflect.Func {
		return c.Add(target)
	}
	return "", fmt.Errorf("di: unsupported class declaration %T", target)
}

func (c *Catalog) store(class *Class) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.classes[class.Name] = class
}

// Declare 声明没有构造函数的类型 T，返回其标识符
func Declare[T any](c *Catalog) string {
	id, err := c.AddType(TypeOf[T]())
	if err != nil {
		panic(err)
	}
	return id
}

// DeclareAbstract 声明不可实例化的类型 T（通常是接口），返回其标识符
func DeclareAbstract[T any](c *Catalog) string {
	id, err := c.AddAbstract(TypeOf[T]())
	if err != nil {
		panic(err)
	}
	return id
}
