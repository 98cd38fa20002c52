package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/spf13/viper"
)

// Configuration
type Configuration struct {
	ExternalURL   string  `mapstructure:"external_url"`
	Host          string  `mapstructure:"host"`
	Port          int     `mapstructure:"port"`
	AdminPort     int     `mapstructure:"admin_port"`
	EnableGzip    bool    `mapstructure:"enable_gzip"`
	MaxUploadSize int64   `mapstructure:"max_upload_size_bytes"`
	DealAPI       DealAPI `mapstructure:"deal_api"`
	MacroRules    Rules   `mapstructure:"macro_rules"`
}

// DealAPI configures the remote deal-detail lookup.
type DealAPI struct {
	BaseURL string `mapstructure:"base_url"`
	// Path holds the endpoint template. %DEAL_ID% is replaced with the numeric deal id.
	Path      string `mapstructure:"path"`
	TimeoutMS uint64 `mapstructure:"timeout_ms"`
}

func (d *DealAPI) Timeout() time.Duration {
	return time.Duration(d.TimeoutMS) * time.Millisecond
}

// EndpointURL resolves the deal-detail URL for one deal id.
func (d *DealAPI) EndpointURL(dealID int64) string {
	return d.BaseURL + strings.Replace(d.Path, "%DEAL_ID%", fmt.Sprintf("%d", dealID), 1)
}

// Rules configures the publisher macro requirement table.
type Rules struct {
	// File points at a YAML rules file. Empty means the compiled-in defaults.
	File string `mapstructure:"file"`
}

func (cfg *Configuration) validate() error {
	if cfg.Port == cfg.AdminPort {
		return fmt.Errorf("port (%d) and admin_port must differ", cfg.Port)
	}
	if cfg.MaxUploadSize <= 0 {
		return fmt.Errorf("max_upload_size_bytes must be positive: %d", cfg.MaxUploadSize)
	}
	if !strings.Contains(cfg.DealAPI.Path, "%DEAL_ID%") {
		return fmt.Errorf("deal_api.path must contain the %%DEAL_ID%% placeholder: %s", cfg.DealAPI.Path)
	}
	return nil
}

// New uses viper to get our server configurations.
func New(v *viper.Viper) (*Configuration, error) {
	var c Configuration
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("viper failed to unmarshal app config: %v", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	glog.Infof("config: serving on %s:%d (admin %d), deal API %s", c.Host, c.Port, c.AdminPort, c.DealAPI.BaseURL)
	return &c, nil
}

// SetupViper sets the viper defaults, config file lookup and environment bindings.
// If filename is empty, no config file will be read.
func SetupViper(v *viper.Viper, filename string) {
	if filename != "" {
		v.SetConfigName(filename)
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/config")
	}

	v.SetDefault("external_url", "http://localhost:8000")
	v.SetDefault("host", "")
	v.SetDefault("port", 8000)
	v.SetDefault("admin_port", 6060)
	v.SetDefault("enable_gzip", false)
	v.SetDefault("max_upload_size_bytes", 32<<20)
	v.SetDefault("deal_api.base_url", "https://api.pubmatic.com")
	v.SetDefault("deal_api.path", "/v3/pmp/deals/%DEAL_ID%")
	v.SetDefault("deal_api.timeout_ms", 10000)
	v.SetDefault("macro_rules.file", "")

	v.SetEnvPrefix("DEALQA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.ReadInConfig()
}
