package config

import (
	"fmt"
	"sort"

	"github.com/gocrud/autowire/di"
)

// DefaultBindingsSection 容器绑定的默认配置节
const DefaultBindingsSection = "container"

// BindingsOptions 容器绑定配置
//
//	container:
//	  aliases:
//	    example.PaymentGateway: example.StripePayment
//	  values:
//	    mail.from: billing@example.com
type BindingsOptions struct {
	// Aliases 标识符 -> 目标标识符
	Aliases map[string]string `json:"aliases"`
	// Values 标识符 -> 固定值（数字按 JSON 规则解码为 float64）
	Values map[string]any `json:"values"`
}

// ApplyBindings 读取配置节并注册到容器。
// 配置节不存在时什么也不做。
func ApplyBindings(cfg Configuration, section string, c *di.Container) error {
	if section == "" {
		section = DefaultBindingsSection
	}
	if len(cfg.GetSection(section).GetAll()) == 0 {
		return nil
	}

	opts, err := Load[BindingsOptions](cfg, section)
	if err != nil {
		return fmt.Errorf("config: failed to bind section '%s': %w", section, err)
	}

	for _, id := range sortedKeys(opts.Aliases) {
		target := opts.Aliases[id]
		if id == "" || target == "" {
			return fmt.Errorf("config: alias %q -> %q must name both identifiers", id, target)
		}
		if id == target {
			return fmt.Errorf("config: alias %q points to itself", id)
		}
		c.Set(id, di.Alias(target))
	}

	for _, id := range sortedKeys(opts.Values) {
		if id == "" {
			return fmt.Errorf("config: value identifier must not be empty")
		}
		c.Set(id, di.Value(opts.Values[id]))
	}

	return nil
}

// Entry 返回读取配置键的工厂绑定。
// 工厂每次解析都会重新读取，配置重载后得到新值。
func Entry(cfg Configuration, key string) di.Binding {
	return di.FactoryE(func() (any, error) {
		value := cfg.Get(key)
		if value == "" {
			return nil, fmt.Errorf("config: key %s not found", key)
		}
		return value, nil
	})
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
