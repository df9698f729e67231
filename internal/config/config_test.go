package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"RATES_FILE":           "testdata/rates.csv",
		"APP_ENV":              "",
		"PORT":                 "",
		"CORS_ALLOWED_ORIGINS": "",
		"OBS_LOG_FORMAT":       "",
		"OBS_LOG_LEVEL":        "",
		"RATE_LIMIT_MAX":       "",
		"RATE_LIMIT_WINDOW":    "",
	})
	require.NoError(t, err)

	require.Equal(t, "development", cfg.AppEnv)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "testdata/rates.csv", cfg.RatesFile)
	require.Empty(t, cfg.CORSAllowedOrigins)
	require.Equal(t, "json", cfg.LogFormat)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, 120, cfg.RateLimitMax)
	require.Equal(t, time.Minute, cfg.RateLimitWindow)
}

func TestLoadRequiresRatesFile(t *testing.T) {
	_, err := LoadForTests(map[string]string{"RATES_FILE": ""})
	require.Error(t, err)
	require.Contains(t, err.Error(), "RATES_FILE")
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"RATES_FILE":           "/data/rates.csv",
		"APP_ENV":              "production",
		"PORT":                 "9090",
		"CORS_ALLOWED_ORIGINS": "https://a.example.com, https://b.example.com",
		"RATE_LIMIT_MAX":       "30",
		"RATE_LIMIT_WINDOW":    "30s",
	})
	require.NoError(t, err)

	require.Equal(t, "production", cfg.AppEnv)
	require.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSAllowedOrigins)
	require.Equal(t, 30, cfg.RateLimitMax)
	require.Equal(t, 30*time.Second, cfg.RateLimitWindow)
}

func TestHTTPAddr(t *testing.T) {
	require.Equal(t, ":8080", (&Config{}).HTTPAddr())
	require.Equal(t, ":9090", (&Config{Port: "9090"}).HTTPAddr())
	require.Equal(t, ":7070", (&Config{Port: ":7070"}).HTTPAddr())
}
