package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigurationSource 配置源接口
type ConfigurationSource interface {
	Load() (map[string]any, error)
	Name() string
}

// fileSource 读取文件并用 decode 解析，Optional 时文件不存在视为空配置
type fileSource struct {
	Path     string
	Optional bool
	format   string
	decode   func([]byte, any) error
}

func (s *fileSource) Name() string {
	return fmt.Sprintf("%sFile(%s)", s.format, s.Path)
}

func (s *fileSource) Load() (map[string]any, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if s.Optional && os.IsNotExist(err) {
			return make(map[string]any), nil
		}
		return nil, err
	}

	result := make(map[string]any)
	if err := s.decode(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.format, err)
	}
	return result, nil
}

// NewJsonFileSource JSON 文件配置源
func NewJsonFileSource(path string, optional bool) ConfigurationSource {
	return &fileSource{Path: path, Optional: optional, format: "Json", decode: json.Unmarshal}
}

// NewYamlFileSource YAML 文件配置源
func NewYamlFileSource(path string, optional bool) ConfigurationSource {
	return &fileSource{Path: path, Optional: optional, format: "Yaml", decode: yaml.Unmarshal}
}

// EnvironmentVariableSource 环境变量配置源
//
// 前缀去掉后键名转为小写。包含 "__" 时只按 "__" 分节，保留单个下划线：
//
//	APP_WEB_PORT=8080                          -> web:port
//	APP_DATABASE__DEFAULT__MAX_OPEN_CONNS=10   -> database:default:max_open_conns
type EnvironmentVariableSource struct {
	Prefix string
}

func (s *EnvironmentVariableSource) Name() string {
	return fmt.Sprintf("EnvironmentVariables(%s)", s.Prefix)
}

func (s *EnvironmentVariableSource) Load() (map[string]any, error) {
	result := make(map[string]any)

	for _, env := range os.Environ() {
		key, value, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}
		if s.Prefix != "" {
			if key, ok = strings.CutPrefix(key, s.Prefix); !ok {
				continue
			}
		}
		if key == "" {
			continue
		}

		key = strings.ToLower(key)
		sep := "_"
		if strings.Contains(key, "__") {
			sep = "__"
		}
		setNestedValue(result, strings.Split(key, sep), parseScalar(value))
	}

	return result, nil
}

// InMemorySource 内存配置源
type InMemorySource struct {
	Data map[string]any
}

func (s *InMemorySource) Name() string {
	return "InMemory"
}

func (s *InMemorySource) Load() (map[string]any, error) {
	result := make(map[string]any, len(s.Data))
	mergeMaps(result, s.Data)
	return result, nil
}

func setNestedValue(data map[string]any, parts []string, value any) {
	current := data
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			if _, exists := current[part]; exists {
				// 标量与节冲突时保留先出现的值
				return
			}
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}

// parseScalar 把环境变量字符串转换为整数、浮点数或布尔值
func parseScalar(s string) any {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return s
}
