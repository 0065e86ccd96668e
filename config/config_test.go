package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 8443, cfg.Server.Port)
	require.False(t, cfg.Server.TrustProxy)
	require.Equal(t, 60, cfg.JWT.TokenExpiryMinutes)
	require.Equal(t, 5, cfg.Lockout.MaxAttempts)
	require.Equal(t, 15, cfg.Lockout.WindowMinutes)
	require.Equal(t, "0.0.0.0:8443", cfg.Server.Addr())
	require.NotEmpty(t, cfg.CORS.Origins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("TRUSTED_PROXY", "true")
	t.Setenv("LOCKOUT_MAX_ATTEMPTS", "3")
	t.Setenv("CORS_ORIGINS", "https://portal.example.com, https://staff.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.Server.Port)
	require.True(t, cfg.Server.TrustProxy)
	require.Equal(t, 3, cfg.Lockout.MaxAttempts)
	require.Equal(t, []string{"https://portal.example.com", "https://staff.example.com"}, cfg.CORS.Origins)
}
