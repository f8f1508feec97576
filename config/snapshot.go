package config

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

// snapshotStore 保存当前配置快照，读取无锁，Reload 时整体替换
type snapshotStore struct {
	current atomic.Pointer[configuration]
}

func newSnapshotStore() *snapshotStore {
	s := &snapshotStore{}
	s.current.Store(&configuration{data: make(map[string]any)})
	return s
}

func (s *snapshotStore) load() *configuration {
	return s.current.Load()
}

func (s *snapshotStore) replace(data map[string]any) {
	s.current.Store(&configuration{data: data})
}

// configuration 不可变的配置快照
type configuration struct {
	data map[string]any
}

func (c *configuration) Get(key string) string {
	switch v := c.getByPath(key).(type) {
	case nil:
		return ""
	case string:
		return v
	case map[string]any, []any:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func (c *configuration) GetWithDefault(key, defaultValue string) string {
	if value := c.Get(key); value != "" {
		return value
	}
	return defaultValue
}

// GetInt 接受 YAML 整数、JSON 数字（必须是整数值）和数字字符串
func (c *configuration) GetInt(key string) (int, error) {
	switch v := c.getByPath(key).(type) {
	case nil:
		return 0, fmt.Errorf("key %s not found", key)
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case uint64:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("key %s: %v is not an integer", key, v)
		}
		return int(v), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("key %s: %w", key, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("key %s: cannot convert %T to int", key, v)
	}
}

func (c *configuration) GetBool(key string) (bool, error) {
	switch v := c.getByPath(key).(type) {
	case nil:
		return false, fmt.Errorf("key %s not found", key)
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, fmt.Errorf("key %s: %w", key, err)
		}
		return b, nil
	default:
		return false, fmt.Errorf("key %s: cannot convert %T to bool", key, v)
	}
}

// GetSection 不存在或不是对象时返回空配置
func (c *configuration) GetSection(key string) Configuration {
	m, _ := c.getByPath(key).(map[string]any)
	if m == nil {
		m = make(map[string]any)
	}
	return &configuration{data: m}
}

// Bind 经 JSON 往返绑定，目标结构体使用 json 标签
func (c *configuration) Bind(key string, target any) error {
	data := c.getByPath(key)
	if data == nil {
		return fmt.Errorf("key %s not found", key)
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("key %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("key %s: cannot bind to %T: %w", key, target, err)
	}
	return nil
}

// GetAll 返回深拷贝
func (c *configuration) GetAll() map[string]any {
	result := make(map[string]any, len(c.data))
	mergeMaps(result, c.data)
	return result
}

func (c *configuration) getByPath(path string) any {
	if path == "" {
		return c.data
	}

	var current any = c.data
	for _, part := range splitPath(path) {
		m, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current = m[part]
	}
	return current
}

// mergeMaps 合并两个 map，嵌套 map 会被复制，避免配置源之间共享状态
func mergeMaps(dst, src map[string]any) {
	for k, v := range src {
		srcMap, srcIsMap := v.(map[string]any)
		if !srcIsMap {
			dst[k] = v
			continue
		}
		dstMap, ok := dst[k].(map[string]any)
		if !ok {
			dstMap = make(map[string]any, len(srcMap))
			dst[k] = dstMap
		}
		mergeMaps(dstMap, srcMap)
	}
}

// pathSegments 缓存 "a:b:c" / "a.b.c" 形式路径的拆分结果
var pathSegments sync.Map

func splitPath(path string) []string {
	if v, ok := pathSegments.Load(path); ok {
		return v.([]string)
	}
	parts := strings.FieldsFunc(path, func(r rune) bool { return r == ':' || r == '.' })
	pathSegments.Store(path, parts)
	return parts
}
