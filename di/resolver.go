package di

import (
	"fmt"
	"strings"

	"github.com/gocrud/autowire/logging"
)

type resolver struct {
	registry     *registry
	introspector TypeIntrospector
	logger       logging.Logger
}

func newResolver(reg *registry, introspector TypeIntrospector, logger logging.Logger) *resolver {
	return &resolver{
		registry:     reg,
		introspector: introspector,
		logger:       logger,
	}
}

// resolve 把标识符解析为实例。
// chain 是当前正在解析的标识符链，用于循环依赖检测和错误信息。
func (r *resolver) resolve(id string, chain []string) (any, error) {
	if id == "" {
		return nil, notFound(id, chain)
	}

	for _, seen := range chain {
		if seen == id {
			cycle := append(clonePath(chain), id)
			return nil, containerError(id, cycle,
				fmt.Errorf("%w: %s", ErrCircularDependency, strings.Join(cycle, " -> ")))
		}
	}
	chain = append(chain, id)

	// 1. 绑定优先
	if b, ok := r.registry.lookup(id); ok {
		switch b.kind {
		case BindingFactory:
			instance, err := b.call()
			if err != nil {
				return nil, containerError(id, chain, fmt.Errorf("factory failed: %w", err))
			}
			r.logger.Debug("resolved", logging.Field{Key: "id", Value: id}, logging.Field{Key: "via", Value: "factory"})
			return instance, nil
		case BindingAlias:
			r.logger.Debug("following alias", logging.Field{Key: "id", Value: id}, logging.Field{Key: "target", Value: b.target})
			return r.resolve(b.target, chain)
		}
	}

	// 2. 自动装配
	return r.autowire(id, chain)
}

// autowire 通过 TypeIntrospector 构造类，递归解析构造函数参数。
func (r *resolver) autowire(id string, chain []string) (any, error) {
	class, ok := r.introspector.Inspect(id)
	if !ok {
		return nil, notFound(id, chain)
	}
	if class.Abstract {
		return nil, containerError(id, chain, ErrNotInstantiable)
	}

	var args []any
	if class.Constructor && len(class.Params) > 0 {
		args = make([]any, len(class.Params))
		for i, param := range class.Params {
			if param.Kind != ParamClass {
				return nil, containerError(id, chain,
					fmt.Errorf("%w: %s has %s", ErrUnresolvableParameter, param.Name, param.Kind))
			}

			dep, err := r.resolve(param.Class, chain)
			if err != nil {
				return nil, err
			}
			args[i] = dep
		}
	}

	instance, err := class.New(args)
	if err != nil {
		return nil, containerError(id, chain, err)
	}

	r.logger.Debug("resolved",
		logging.Field{Key: "id", Value: id},
		logging.Field{Key: "via", Value: "autowire"},
		logging.Field{Key: "params", Value: len(args)})
	return instance, nil
}

// lookup 只查询绑定，不做自动装配（Container.Get）。
func (r *resolver) lookup(id string) (any, error) {
	b, ok := r.registry.lookup(id)
	if !ok {
		return nil, notFound(id, nil)
	}
	if b.kind == BindingAlias {
		return r.resolve(b.target, []string{id})
	}

	instance, err := b.call()
	if err != nil {
		return nil, containerError(id, nil, fmt.Errorf("factory failed: %w", err))
	}
	return instance, nil
}
