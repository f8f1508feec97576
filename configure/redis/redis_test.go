package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/gocrud/autowire/config"
	"github.com/gocrud/autowire/configure/redis"
	"github.com/gocrud/autowire/core"
	"github.com/gocrud/autowire/di"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SessionStore 依赖默认 Redis 客户端
type SessionStore struct {
	client *goredis.Client
}

func NewSessionStore(client *goredis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// unreachable 指向一个不会有 Redis 监听的地址
func unreachable(o *redis.RedisClientOptions) {
	o.Addr = "127.0.0.1:1"
	o.DialTimeout = 200 * time.Millisecond
	o.MaxRetries = -1
	o.MinIdleConns = 0
}

func TestRedisConfiguration(t *testing.T) {
	app, err := core.NewApplicationBuilder().
		ConfigureConfiguration(func(cb *config.ConfigurationBuilder) {
			cb.AddInMemory(map[string]any{
				"redis": map[string]any{
					"cache": map[string]any{"addr": "127.0.0.1:1", "db": 2, "ping": false},
				},
			})
		}).
		Configure(redis.Configure(func(b *redis.Builder) {
			b.AddClient(redis.DefaultName, func(o *redis.RedisClientOptions) {
				unreachable(o)
				o.PingOnStart = false
			})
			b.AddFromConfig("cache", "redis:cache", func(o *redis.RedisClientOptions) {
				o.MinIdleConns = 0
			})
		})).
		ConfigureServices(func(s *core.ServiceCollection) {
			s.AddClass(NewSessionStore)
		}).
		Build()
	require.NoError(t, err)

	c := app.Container()
	assert.True(t, c.Has(redis.Key("cache")))

	store, err := di.ResolveType[*SessionStore](c)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:1", store.client.Options().Addr)

	cache, err := di.ResolveAs[*goredis.Client](c, redis.Key("cache"))
	require.NoError(t, err)
	assert.Equal(t, 2, cache.Options().DB)

	factory, err := di.ResolveType[*redis.RedisClientFactory](c)
	require.NoError(t, err)
	assert.Equal(t, []string{"cache", "default"}, factory.Names())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, app.RunAsync(ctx))
	assert.Empty(t, factory.Names())
}

func TestPingOnStartFailsRun(t *testing.T) {
	app, err := core.NewApplicationBuilder().
		Configure(redis.Configure(func(b *redis.Builder) {
			b.AddClient("queue", unreachable)
		})).
		Build()
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	factory, err := di.ResolveType[*redis.RedisClientFactory](app.Container())
	require.NoError(t, err)

	err = app.RunAsync(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to redis 'queue'")
	assert.Empty(t, factory.Names())
}

func TestRedisBuilderErrors(t *testing.T) {
	_, err := core.NewApplicationBuilder().
		Configure(redis.Configure(func(b *redis.Builder) {
			b.AddClient("invalid", func(o *redis.RedisClientOptions) { o.Addr = "" })
			b.AddClient("duplicate", nil)
			b.AddClient("duplicate", nil)
		})).
		Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis address is required")

	_, err = core.NewApplicationBuilder().
		Configure(redis.Configure(func(b *redis.Builder) {
			b.AddClient("duplicate", nil)
			b.AddClient("duplicate", nil)
		})).
		Build()
	assert.ErrorContains(t, err, "already registered")

	_, err = core.NewApplicationBuilder().
		Configure(redis.Configure(func(b *redis.Builder) {
			b.AddFromConfig("missing", "redis:missing")
		})).
		Build()
	assert.ErrorContains(t, err, "redis client 'missing'")
}

func TestEmptyBuilderRegistersNothing(t *testing.T) {
	app, err := core.NewApplicationBuilder().
		Configure(redis.Configure(nil)).
		Build()
	require.NoError(t, err)
	assert.False(t, app.Container().Has(di.KeyOf[*goredis.Client]()))
}
