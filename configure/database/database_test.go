package database_test

import (
	"context"
	"testing"

	"github.com/gocrud/autowire/config"
	"github.com/gocrud/autowire/configure/database"
	"github.com/gocrud/autowire/core"
	"github.com/gocrud/autowire/di"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Name string
}

type AuditLog struct{}

func NewAuditLog(retention int) *AuditLog {
	return &AuditLog{}
}

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(name string) error {
	return r.db.Create(&User{Name: name}).Error
}

func (r *UserRepository) Count() (int64, error) {
	var n int64
	err := r.db.Model(&User{}).Count(&n).Error
	return n, err
}

func TestDatabaseConfiguration(t *testing.T) {
	app, err := core.NewApplicationBuilder().
		ConfigureConfiguration(func(cb *config.ConfigurationBuilder) {
			cb.AddInMemory(map[string]any{
				"database": map[string]any{
					"default": map[string]any{
						"dsn":            "file:configure_default?mode=memory&cache=shared",
						"max_open_conns": 5,
					},
				},
			})
		}).
		Configure(database.Configure(func(b *database.Builder) {
			b.AddFromConfig(database.DefaultName, "database:default", sqlite.Open, func(o *database.DatabaseOptions) {
				o.AutoMigrate = []any{&User{}}
			})
			b.Add("reporting", sqlite.Open("file:configure_reporting?mode=memory&cache=shared"), nil)
		})).
		ConfigureServices(func(s *core.ServiceCollection) {
			s.AddClass(NewUserRepository)
		}).
		Build()
	require.NoError(t, err)

	c := app.Container()
	assert.True(t, c.Has(database.Key("default")))
	assert.True(t, c.Has(database.Key("reporting")))

	db, err := di.ResolveType[*gorm.DB](c)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 5, sqlDB.Stats().MaxOpenConnections)

	repo, err := di.ResolveType[*UserRepository](c)
	require.NoError(t, err)
	require.NoError(t, repo.Create("test"))
	n, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, app.RunAsync(ctx))
	assert.Error(t, sqlDB.Ping())
}

func TestDatabaseBuilderErrors(t *testing.T) {
	builder := database.NewBuilder(nil)

	// Missing dialector
	builder.Add("invalid", nil, nil)

	// Duplicate
	builder.Add("dup", sqlite.Open("file::memory:"), nil)
	builder.Add("dup", sqlite.Open("file::memory:"), nil)

	_, err := builder.Build(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dialector is required")
	assert.Contains(t, err.Error(), "already configured")

	var joined interface{ Unwrap() []error }
	require.ErrorAs(t, err, &joined)
	assert.Len(t, joined.Unwrap(), 2)
}

func TestFailedBuildClosesDatabases(t *testing.T) {
	var db *gorm.DB
	_, err := core.NewApplicationBuilder().
		Configure(
			database.Configure(func(b *database.Builder) {
				b.Add(database.DefaultName, sqlite.Open("file:configure_failed?mode=memory&cache=shared"), nil)
			}),
			func(ctx *core.BuildContext) {
				db, _ = di.ResolveType[*gorm.DB](ctx.Container())
			},
		).
		ConfigureServices(func(s *core.ServiceCollection) {
			s.AddClass(NewAuditLog)
		}).
		Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid dependency graph")

	require.NotNil(t, db)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Error(t, sqlDB.Ping())
}

func TestConfigureFailsBuild(t *testing.T) {
	_, err := core.NewApplicationBuilder().
		Configure(database.Configure(func(b *database.Builder) {
			b.AddFromConfig(database.DefaultName, "database:default", sqlite.Open)
		})).
		Build()
	assert.ErrorContains(t, err, "database 'default'")
}

func TestEmptyBuilderRegistersNothing(t *testing.T) {
	app, err := core.NewApplicationBuilder().
		Configure(database.Configure(nil)).
		Build()
	require.NoError(t, err)
	assert.False(t, app.Container().Has(di.KeyOf[*gorm.DB]()))
}
