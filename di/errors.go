package di

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind 区分解析失败的类别。
type ErrorKind int

const (
	// KindNotFound 标识符既没有绑定，也不是已知的类。
	KindNotFound ErrorKind = iota + 1
	// KindContainer 类存在，但在当前绑定下无法构造。
	KindContainer
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindContainer:
		return "container"
	default:
		return "unknown"
	}
}

var (
	// ErrNotFound 与所有 KindNotFound 错误匹配（errors.Is）。
	ErrNotFound = errors.New("di: entry not found")
	// ErrContainer 与所有 KindContainer 错误匹配（errors.Is）。
	ErrContainer = errors.New("di: cannot construct entry")
	// ErrCircularDependency 检测到循环依赖。同时属于 KindContainer。
	ErrCircularDependency = errors.New("di: circular dependency")
	// ErrUnresolvableParameter 构造函数参数没有可用的类型信息。
	ErrUnresolvableParameter = errors.New("di: unresolvable parameter")
	// ErrNotInstantiable 类存在但无法实例化（例如接口）。
	ErrNotInstantiable = errors.New("di: class is not instantiable")
)

// Error 是容器返回的唯一错误类型。
type Error struct {
	Kind ErrorKind
	// ID 是出错的标识符
	ID string
	// Path 是从顶层 Resolve 到出错标识符的解析链
	Path []string
	// Err 是底层原因，可能为 nil
	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	switch e.Kind {
	case KindNotFound:
		fmt.Fprintf(&b, "di: no entry or class found for identifier %q", e.ID)
	default:
		fmt.Fprintf(&b, "di: cannot resolve %q", e.ID)
	}
	if len(e.Path) > 1 {
		b.WriteString(" (")
		b.WriteString(strings.Join(e.Path, " -> "))
		b.WriteString(")")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is 让 errors.Is(err, ErrNotFound) / errors.Is(err, ErrContainer) 按类别匹配。
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrContainer:
		return e.Kind == KindContainer
	}
	return false
}

// IsNotFound 判断 err 是否为 KindNotFound。
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsContainerError 判断 err 是否为 KindContainer。
func IsContainerError(err error) bool {
	return errors.Is(err, ErrContainer)
}

func notFound(id string, path []string) *Error {
	return &Error{Kind: KindNotFound, ID: id, Path: clonePath(path)}
}

func containerError(id string, path []string, cause error) *Error {
	return &Error{Kind: KindContainer, ID: id, Path: clonePath(path), Err: cause}
}

func clonePath(path []string) []string {
	if len(path) == 0 {
		return nil
	}
	out := make([]string, len(path))
	copy(out, path)
	return out
}
