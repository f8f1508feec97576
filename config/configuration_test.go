package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotStore(t *testing.T) {
	store := newSnapshotStore()
	assert.Empty(t, store.load().GetAll())

	store.replace(map[string]any{"key": "value"})
	assert.Equal(t, "value", store.load().Get("key"))

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.load().Get("key")
		}()
	}
	store.replace(map[string]any{"key": "next"})
	wg.Wait()
	assert.Equal(t, "next", store.load().Get("key"))
}

func TestSplitPath(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitPath("a:b.c"))
	assert.Equal(t, []string{"a", "b", "c"}, splitPath("a:b.c"))
	assert.Equal(t, []string{"a", "b"}, splitPath("a::b"))
}

func BenchmarkConfigGet(b *testing.B) {
	// Setup config
	builder := NewConfigurationBuilder()
	builder.AddInMemory(map[string]any{
		"server": map[string]any{
			"host": "localhost",
			"port": 8080,
		},
	})
	config, _ := builder.Build()
	
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		config.Get("server:host")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestBuilderMergesSourcesInOrder(t *testing.T) {
	path := writeFile(t, "app.yaml", `
server:
  host: localhost
  port: 8080
logging:
  level: debug
`)

	cfg, err := NewConfigurationBuilder().
		AddYamlFile(path).
		AddInMemory(map[string]any{"server": map[string]any{"port": 9090}}).
		Build()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Get("server:host"))
	assert.Equal(t, "debug", cfg.Get("logging.level"))

	port, err := cfg.GetInt("server:port")
	require.NoError(t, err)
	assert.Equal(t, 9090, port)
}

func TestOptionalFileSource(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.json")

	_, err := NewConfigurationBuilder().AddJsonFile(missing, true).Build()
	assert.NoError(t, err)

	_, err = NewConfigurationBuilder().AddJsonFile(missing).Build()
	assert.Error(t, err)
}

func TestInMemorySourceIsNotMutatedByMerge(t *testing.T) {
	base := map[string]any{"db": map[string]any{"dsn": "a"}}

	_, err := NewConfigurationBuilder().
		AddInMemory(base).
		AddInMemory(map[string]any{"db": map[string]any{"dsn": "b"}}).
		Build()
	require.NoError(t, err)

	assert.Equal(t, "a", base["db"].(map[string]any)["dsn"])
}

func TestReload(t *testing.T) {
	path := writeFile(t, "app.yaml", "mail:\n  from: a@example.com\n")

	cfg, err := NewConfigurationBuilder().AddYamlFile(path).Build()
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", cfg.Get("mail:from"))

	reloaded := 0
	cfg.OnReload(func() { reloaded++ })

	require.NoError(t, os.WriteFile(path, []byte("mail:\n  from: b@example.com\n"), 0o644))
	require.NoError(t, cfg.Reload())

	assert.Equal(t, "b@example.com", cfg.Get("mail:from"))
	assert.Equal(t, 1, reloaded)
}

func TestLoadSection(t *testing.T) {
	type Server struct {
		Host string `json:"host"`
		Port int    `json:"port"`
	}

	cfg, err := NewConfigurationBuilder().
		AddInMemory(map[string]any{"server": map[string]any{"host": "0.0.0.0", "port": 80}}).
		Build()
	require.NoError(t, err)

	server, err := Load[Server](cfg, "server")
	require.NoError(t, err)
	assert.Equal(t, Server{Host: "0.0.0.0", Port: 80}, server)

	_, err = Load[Server](cfg, "missing")
	assert.Error(t, err)
}

func TestEnvironmentVariableSource(t *testing.T) {
	t.Setenv("AUTOWIRE_TEST_SERVER_PORT", "7070")

	cfg, err := NewConfigurationBuilder().AddEnvironmentVariables("AUTOWIRE_TEST_").Build()
	require.NoError(t, err)

	port, err := cfg.GetInt("server:port")
	require.NoError(t, err)
	assert.Equal(t, 7070, port)
}

func TestEnvironmentVariableDoubleUnderscore(t *testing.T) {
	t.Setenv("AUTOWIRE_ENV_DATABASE__DEFAULT__MAX_OPEN_CONNS", "10")
	t.Setenv("AUTOWIRE_ENV_FEATURE__ENABLED", "true")

	cfg, err := NewConfigurationBuilder().AddEnvironmentVariables("AUTOWIRE_ENV_").Build()
	require.NoError(t, err)

	n, err := cfg.GetInt("database:default:max_open_conns")
	require.NoError(t, err)
	assert.Equal(t, 10, n)

	enabled, err := cfg.GetBool("feature.enabled")
	require.NoError(t, err)
	assert.True(t, enabled)
}

func TestTypedGetters(t *testing.T) {
	cfg, err := NewConfigurationBuilder().
		AddInMemory(map[string]any{
			"n":       map[string]any{"int": 3, "float": 2.5, "text": " 42 ", "bad": "x"},
			"section": map[string]any{"k": "v"},
		}).
		Build()
	require.NoError(t, err)

	n, err := cfg.GetInt("n:text")
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	_, err = cfg.GetInt("n:float")
	assert.ErrorContains(t, err, "not an integer")

	_, err = cfg.GetInt("n:bad")
	assert.Error(t, err)

	_, err = cfg.GetBool("n:missing")
	assert.ErrorContains(t, err, "not found")

	assert.Equal(t, "", cfg.Get("section"))
	assert.Equal(t, "fallback", cfg.GetWithDefault("n:none", "fallback"))
	assert.Equal(t, "v", cfg.GetSection("section").Get("k"))
	assert.Empty(t, cfg.GetSection("n:int").GetAll())
}
