package plugins

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"forgebuild.dev/cli/internal/core/domain"
)

func TestAPI_IdentityAndVersion(t *testing.T) {
	reg := NewRegistry(false)
	api := NewAPI("@forge/plugin-babel", "1.4.2", reg, NewResolver(reg, nil, false), nil)

	assert.Equal(t, "@forge/plugin-babel", api.ID())
	assert.Equal(t, "1.4.2", api.Version())
}

func TestAPI_RequirePlugin(t *testing.T) {
	reg := NewRegistry(false)
	reg.RegisterPlugin(domain.PluginDescriptor{Name: "@forge/plugin-build"})
	api := NewAPI("@forge/plugin-serve", "1.4.2", reg, NewResolver(reg, nil, false), nil)

	assert.NoError(t, api.RequirePlugin("build"))

	err := api.RequirePlugin("pwa")
	var missing *domain.MissingPluginError
	assert.True(t, errors.As(err, &missing))
	assert.Equal(t, "pwa", missing.ID)
}
