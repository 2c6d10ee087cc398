package config_test

import (
	"testing"

	"booking-system/internal/auth/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
}

func TestLoadConfig_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := config.LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "booking-system", cfg.DatabaseName)
	assert.Equal(t, config.BackendMongo, cfg.SessionBackend)
	assert.Equal(t, "booking_session", cfg.CookieName)
	assert.Equal(t, "None", cfg.CookieSameSite)
	assert.False(t, cfg.CookieSecure())
}

func TestLoadConfig_SameSiteNormalization(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"lax", "Lax"},
		{"LAX", "Lax"},
		{"strict", "Strict"},
		{"Strict", "Strict"},
		{"NONE", "None"},
		{"none", "None"},
	}

	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv("COOKIE_SAME_SITE", tc.raw)

			cfg, err := config.LoadConfig()

			require.NoError(t, err)
			assert.Equal(t, tc.want, cfg.CookieSameSite)
		})
	}
}

func TestLoadConfig_SameSiteRejectsUnknownValue(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("COOKIE_SAME_SITE", "sideways")

	_, err := config.LoadConfig()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "cookie_same_site")
}

func TestLoadConfig_BackendValidation(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SESSION_BACKEND", "Redis")

	cfg, err := config.LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, config.BackendRedis, cfg.SessionBackend)

	t.Setenv("SESSION_BACKEND", "memcached")
	_, err = config.LoadConfig()
	require.Error(t, err)
}
