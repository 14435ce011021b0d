package bootstrap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/hrportal-go/config"
	domainauth "github.com/target/hrportal-go/internal/domain/auth"
	"github.com/target/hrportal-go/internal/guard"
	mocksauth "github.com/target/hrportal-go/internal/mocks/auth"
)

func testConfig() config.AppConfig {
	cfg := config.AppConfig{}
	cfg.API.BaseURL = "http://localhost:3000/api/v1"
	cfg.Sanitize()
	return cfg
}

func TestNewPortal_MemoryBackend(t *testing.T) {
	p, err := NewPortal(testConfig(), nil, PortalOptions{})
	require.NoError(t, err)
	defer func() { assert.NoError(t, p.Close()) }()

	require.NotNil(t, p.HTTP)
	require.NotNil(t, p.HTTP.Jar)
	require.NotNil(t, p.Sessions)
	require.NotNil(t, p.Guard)
	require.NotNil(t, p.Auth)
	require.NotNil(t, p.Prefs)

	assert.Equal(t, domainauth.StatusUnknown, p.Sessions.Status())
	assert.Equal(t, guard.DecisionWait, p.Guard.Current())
}

func TestNewPortal_InvalidBaseURL(t *testing.T) {
	cfg := testConfig()
	cfg.API.BaseURL = "://not-a-url"

	_, err := NewPortal(cfg, nil, PortalOptions{})
	assert.Error(t, err)
}

func TestNewPortal_RedirectorReceivesInvalidation(t *testing.T) {
	redirector := &mocksauth.RecordingRedirector{}
	p, err := NewPortal(testConfig(), nil, PortalOptions{Redirector: redirector})
	require.NoError(t, err)
	defer func() { assert.NoError(t, p.Close()) }()

	ctx := context.Background()
	require.NoError(t, p.Sessions.Establish(ctx, domainauth.Identity{ID: "u1", Role: domainauth.RoleHR}))

	assert.True(t, p.Sessions.Invalidate(ctx, "backend rejected session"))
	require.Len(t, redirector.LoginRedirects(), 1)
	assert.Equal(t, "backend rejected session", redirector.LoginRedirects()[0])

	// Already torn down: no second signal.
	assert.False(t, p.Sessions.Invalidate(ctx, "again"))
	assert.Len(t, redirector.LoginRedirects(), 1)
}
