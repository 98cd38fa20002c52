package config

import (
	"bytes"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func newDefaultConfig(t *testing.T) *Configuration {
	v := viper.New()
	SetupViper(v, "")
	cfg, err := New(v)
	assert.NoError(t, err, "Setting up config should work but it doesn't")
	return cfg
}

func TestDefaults(t *testing.T) {
	cfg := newDefaultConfig(t)

	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, 6060, cfg.AdminPort)
	assert.Equal(t, int64(32<<20), cfg.MaxUploadSize)
	assert.Equal(t, "https://api.pubmatic.com", cfg.DealAPI.BaseURL)
	assert.Equal(t, "/v3/pmp/deals/%DEAL_ID%", cfg.DealAPI.Path)
}

var fullConfig = []byte(`
host: dealqa.internal
port: 1234
admin_port: 5678
enable_gzip: true
max_upload_size_bytes: 1048576
deal_api:
  base_url: https://api.example.com
  path: /v3/pmp/deals/%DEAL_ID%
  timeout_ms: 250
macro_rules:
  file: /etc/config/macro_rules.yaml
`)

func TestFullConfig(t *testing.T) {
	v := viper.New()
	SetupViper(v, "")
	v.SetConfigType("yaml")
	v.ReadConfig(bytes.NewBuffer(fullConfig))
	cfg, err := New(v)
	assert.NoError(t, err, "Setting up config should work but it doesn't")

	assert.Equal(t, "dealqa.internal", cfg.Host)
	assert.Equal(t, 1234, cfg.Port)
	assert.Equal(t, 5678, cfg.AdminPort)
	assert.True(t, cfg.EnableGzip)
	assert.Equal(t, int64(1048576), cfg.MaxUploadSize)
	assert.Equal(t, "https://api.example.com", cfg.DealAPI.BaseURL)
	assert.Equal(t, uint64(250), cfg.DealAPI.TimeoutMS)
	assert.Equal(t, "/etc/config/macro_rules.yaml", cfg.MacroRules.File)
}

func TestEndpointURL(t *testing.T) {
	cfg := newDefaultConfig(t)
	assert.Equal(t, "https://api.pubmatic.com/v3/pmp/deals/138752", cfg.DealAPI.EndpointURL(138752))
}

func TestInvalidConfigs(t *testing.T) {
	testCases := []struct {
		description string
		adjust      func(cfg *Configuration)
	}{
		{
			description: "port collision with admin port",
			adjust:      func(cfg *Configuration) { cfg.AdminPort = cfg.Port },
		},
		{
			description: "non-positive upload limit",
			adjust:      func(cfg *Configuration) { cfg.MaxUploadSize = 0 },
		},
		{
			description: "deal api path without deal id placeholder",
			adjust:      func(cfg *Configuration) { cfg.DealAPI.Path = "/v3/pmp/deals" },
		},
	}

	for _, test := range testCases {
		cfg := newDefaultConfig(t)
		test.adjust(cfg)
		assert.Error(t, cfg.validate(), test.description)
	}
}
