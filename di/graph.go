package di

import (
	"errors"
	"fmt"
	"strings"
)

// graphWalker 静态遍历依赖图，不创建任何实例。
// 工厂绑定是不透明的叶子节点。
type graphWalker struct {
	registry     *registry
	introspector TypeIntrospector
	verified     map[string]bool
}

// Validate 检查给定标识符的依赖图：未知类、不可用的参数类型和循环依赖。
// 不传参数时检查所有绑定以及类目录中所有可实例化的类。
// 多个问题会通过 errors.Join 一起返回。
func (c *Container) Validate(ids ...string) error {
	if len(ids) == 0 {
		ids = c.Identifiers()
		if c.catalog != nil {
			for _, name := range c.catalog.Names() {
				if class, _ := c.catalog.Inspect(name); class.Abstract {
					// 抽象类只有被依赖时才需要绑定
					continue
				}
				ids = append(ids, name)
			}
		}
	}

	w := &graphWalker{
		registry:     c.registry,
		introspector: c.introspector,
		verified:     make(map[string]bool),
	}

	var errs []error
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if err := w.visit(id, nil); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (w *graphWalker) visit(id string, chain []string) error {
	if w.verified[id] {
		return nil
	}

	for _, seen := range chain {
		if seen == id {
			cycle := append(clonePath(chain), id)
			return containerError(id, cycle,
				fmt.Errorf("%w: %s", ErrCircularDependency, strings.Join(cycle, " -> ")))
		}
	}
	chain = append(chain, id)

	if b, ok := w.registry.lookup(id); ok {
		if b.kind == BindingAlias {
			if err := w.visit(b.target, chain); err != nil {
				return err
			}
		}
		w.verified[id] = true
		return nil
	}

	class, ok := w.introspector.Inspect(id)
	if !ok {
		return notFound(id, chain)
	}
	if class.Abstract {
		return containerError(id, chain, ErrNotInstantiable)
	}

	for _, param := range class.Params {
		if param.Kind != ParamClass {
			return containerError(id, chain,
				fmt.Errorf("%w: %s has %s", ErrUnresolvableParameter, param.Name, param.Kind))
		}
		if err := w.visit(param.Class, chain); err != nil {
			return err
		}
	}

	w.verified[id] = true
	return nil
}
