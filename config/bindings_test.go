package config_test

import (
	"testing"

	"github.com/gocrud/autowire/config"
	"github.com/gocrud/autowire/di"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Gateway interface {
	Charge(amount float64) bool
}

type StubGateway struct{}

func (*StubGateway) Charge(float64) bool { return true }

func TestApplyBindings(t *testing.T) {
	cfg, err := config.NewConfigurationBuilder().
		AddInMemory(map[string]any{
			"container": map[string]any{
				"aliases": map[string]any{
					di.KeyOf[Gateway](): di.KeyOf[*StubGateway](),
				},
				"values": map[string]any{
					"mail.from": "billing@example.com",
					"tax.rate":  0.2,
				},
			},
		}).
		Build()
	require.NoError(t, err)

	c := di.NewContainer()
	di.Declare[*StubGateway](c.Catalog())

	require.NoError(t, config.ApplyBindings(cfg, "", c))

	assert.True(t, c.Has(di.KeyOf[Gateway]()))
	assert.True(t, c.Has("mail.from"))

	from, err := c.Get("mail.from")
	require.NoError(t, err)
	assert.Equal(t, "billing@example.com", from)

	rate, err := c.Get("tax.rate")
	require.NoError(t, err)
	assert.Equal(t, 0.2, rate)

	gw, err := di.ResolveType[Gateway](c)
	require.NoError(t, err)
	assert.IsType(t, &StubGateway{}, gw)
}

func TestApplyBindingsMissingSection(t *testing.T) {
	cfg, err := config.NewConfigurationBuilder().Build()
	require.NoError(t, err)

	c := di.NewContainer()
	require.NoError(t, config.ApplyBindings(cfg, "container", c))
	assert.Empty(t, c.Identifiers())
}

func TestApplyBindingsRejectsSelfAlias(t *testing.T) {
	cfg, err := config.NewConfigurationBuilder().
		AddInMemory(map[string]any{
			"container": map[string]any{
				"aliases": map[string]any{"a": "a"},
			},
		}).
		Build()
	require.NoError(t, err)

	err = config.ApplyBindings(cfg, "container", di.NewContainer())
	assert.ErrorContains(t, err, "points to itself")
}

func TestEntryReadsLatestValue(t *testing.T) {
	source := &config.InMemorySource{Data: map[string]any{"db": map[string]any{"dsn": "first"}}}
	cfg, err := config.NewConfigurationBuilder().Add(source).Build()
	require.NoError(t, err)

	c := di.NewContainer()
	c.Set("db.dsn", config.Entry(cfg, "db:dsn"))

	v, err := c.Resolve("db.dsn")
	require.NoError(t, err)
	assert.Equal(t, "first", v)

	source.Data = map[string]any{"db": map[string]any{"dsn": "second"}}
	require.NoError(t, cfg.Reload())

	v, err = c.Resolve("db.dsn")
	require.NoError(t, err)
	assert.Equal(t, "second", v)

	c.Set("missing", config.Entry(cfg, "nope"))
	_, err = c.Resolve("missing")
	assert.True(t, di.IsContainerError(err))
}
