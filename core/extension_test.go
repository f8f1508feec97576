package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// EmptyExtension 未实现任何接口
type EmptyExtension struct{}

func (e *EmptyExtension) Name() string { return "Empty" }

// ServiceOnlyExtension 仅实现 ServiceConfigurator
type ServiceOnlyExtension struct{}

func (e *ServiceOnlyExtension) Name() string                           { return "ServiceOnly" }
func (e *ServiceOnlyExtension) ConfigureServices(s *ServiceCollection) {}

// AppOnlyExtension 仅实现 AppConfigurator
type AppOnlyExtension struct{}

func (e *AppOnlyExtension) Name() string                       { return "AppOnly" }
func (e *AppOnlyExtension) ConfigureBuilder(ctx *BuildContext) {}

// FullExtension 同时实现 ServiceConfigurator 和 AppConfigurator
type FullExtension struct{}

func (e *FullExtension) Name() string                           { return "Full" }
func (e *FullExtension) ConfigureServices(s *ServiceCollection) {}
func (e *FullExtension) ConfigureBuilder(ctx *BuildContext)     {}

func TestAddExtension_Panic_WhenNoInterfaceImplemented(t *testing.T) {
	builder := NewApplicationBuilder()

	assert.PanicsWithValue(t,
		"core: Extension 'Empty' does not implement any supported interfaces (ServiceConfigurator, AppConfigurator)",
		func() { builder.AddExtension(&EmptyExtension{}) })
}

func TestAddExtension_Registration(t *testing.T) {
	cases := []struct {
		name     string
		exts     []Extension
		services int
		apps     int
	}{
		{"service only", []Extension{&ServiceOnlyExtension{}}, 1, 0},
		{"app only", []Extension{&AppOnlyExtension{}}, 0, 1},
		{"full", []Extension{&FullExtension{}}, 1, 1},
		{"multiple", []Extension{&ServiceOnlyExtension{}, &AppOnlyExtension{}, &FullExtension{}}, 2, 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			builder := NewApplicationBuilder()
			for _, ext := range tc.exts {
				builder.AddExtension(ext)
			}

			assert.Len(t, builder.serviceConfigurators, tc.services)
			assert.Len(t, builder.configurators, tc.apps)
		})
	}
}
