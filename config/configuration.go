package config

import (
	"fmt"
	"sync"
)

// Configuration 配置接口（类似于 .NET Core IConfiguration）
type Configuration interface {
	// Get 获取配置值
	Get(key string) string
	// GetWithDefault 获取配置值，如果不存在则返回默认值
	GetWithDefault(key, defaultValue string) string
	// GetInt 获取整数配置值
	GetInt(key string) (int, error)
	// GetBool 获取布尔配置值
	GetBool(key string) (bool, error)
	// GetSection 获取配置节
	GetSection(key string) Configuration
	// Bind 绑定配置到结构体
	Bind(key string, target any) error
	// GetAll 获取所有配置
	GetAll() map[string]any
}

// ConfigurationBuilder 配置构建器
type ConfigurationBuilder struct {
	sources []ConfigurationSource
	mu      sync.RWMutex
}

// NewConfigurationBuilder 创建配置构建器
func NewConfigurationBuilder() *ConfigurationBuilder {
	return &ConfigurationBuilder{
		sources: make([]ConfigurationSource, 0),
	}
}

// Add 添加配置源
func (b *ConfigurationBuilder) Add(source ConfigurationSource) *ConfigurationBuilder {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sources = append(b.sources, source)
	return b
}

// AddJsonFile 添加 JSON 文件配置源
func (b *ConfigurationBuilder) AddJsonFile(path string, optional ...bool) *ConfigurationBuilder {
	isOptional := len(optional) > 0 && optional[0]
	return b.Add(NewJsonFileSource(path, isOptional))
}

// AddYamlFile 添加 YAML 文件配置源
func (b *ConfigurationBuilder) AddYamlFile(path string, optional ...bool) *ConfigurationBuilder {
	isOptional := len(optional) > 0 && optional[0]
	return b.Add(NewYamlFileSource(path, isOptional))
}

// AddEnvironmentVariables 添加环境变量配置源
func (b *ConfigurationBuilder) AddEnvironmentVariables(prefix string) *ConfigurationBuilder {
	return b.Add(&EnvironmentVariableSource{Prefix: prefix})
}

// AddInMemory 添加内存配置源
func (b *ConfigurationBuilder) AddInMemory(data map[string]any) *ConfigurationBuilder {
	return b.Add(&InMemorySource{Data: data})
}

// Build 构建配置
func (b *ConfigurationBuilder) Build() (*ReloadableConfiguration, error) {
	b.mu.RLock()
	sources := make([]ConfigurationSource, len(b.sources))
	copy(sources, b.sources)
	b.mu.RUnlock()

	config := &ReloadableConfiguration{
		sources: sources,
		store:   newSnapshotStore(),
	}
	if err := config.Reload(); err != nil {
		return nil, err
	}
	return config, nil
}

// ReloadableConfiguration 可重载的配置实现
type ReloadableConfiguration struct {
	sources   []ConfigurationSource
	store     *snapshotStore
	mu        sync.Mutex
	callbacks []func()
}

// Reload 按顺序重新加载所有配置源（后面的会覆盖前面的）
func (c *ReloadableConfiguration) Reload() error {
	c.mu.Lock()
	data := make(map[string]any)
	for _, source := range c.sources {
		loaded, err := source.Load()
		if err != nil {
			c.mu.Unlock()
			return fmt.Errorf("failed to load config source %s: %w", source.Name(), err)
		}
		mergeMaps(data, loaded)
	}
	c.store.replace(data)
	callbacks := append([]func(){}, c.callbacks...)
	c.mu.Unlock()

	for _, cb := range callbacks {
		cb()
	}
	return nil
}

// OnReload 注册重载回调
func (c *ReloadableConfiguration) OnReload(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.callbacks = append(c.callbacks, fn)
}

func (c *ReloadableConfiguration) snapshot() *configuration {
	return c.store.load()
}

func (c *ReloadableConfiguration) Get(key string) string { return c.snapshot().Get(key) }

func (c *ReloadableConfiguration) GetWithDefault(key, defaultValue string) string {
	return c.snapshot().GetWithDefault(key, defaultValue)
}

func (c *ReloadableConfiguration) GetInt(key string) (int, error) { return c.snapshot().GetInt(key) }

func (c *ReloadableConfiguration) GetBool(key string) (bool, error) { return c.snapshot().GetBool(key) }

func (c *ReloadableConfiguration) GetSection(key string) Configuration {
	return c.snapshot().GetSection(key)
}

func (c *ReloadableConfiguration) Bind(key string, target any) error {
	return c.snapshot().Bind(key, target)
}

func (c *ReloadableConfiguration) GetAll() map[string]any { return c.snapshot().GetAll() }

// Load 把 section 绑定为 T，section 为空时绑定整个配置
func Load[T any](cfg Configuration, section string) (T, error) {
	var v T
	if err := cfg.Bind(section, &v); err != nil {
		return v, err
	}
	return v, nil
}
