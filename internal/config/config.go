package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"planhat-usage-sync/pkg/utils"
)

// Config captures the runtime configuration for the sync service.
type Config struct {
	APIToken   string `mapstructure:"api_token"`
	TenantID   string `mapstructure:"tenant_id"`
	BucketName string `mapstructure:"bucket_name"`

	Planhat PlanhatConfig `mapstructure:"planhat"`
	Storage StorageConfig `mapstructure:"storage"`

	RosterLimit  int    `mapstructure:"roster_limit"`
	CompanyPause string `mapstructure:"company_pause"`
	DBPath       string `mapstructure:"db_path"`
	ListenAddr   string `mapstructure:"listen_addr"`

	// AliasSets groups org ids that belong to one logical billing entity
	// (multi-tenant customers with split billing ids). Loaded here and
	// passed explicitly into the calculator, never a hidden constant.
	AliasSets [][]string `mapstructure:"alias_sets"`
}

type PlanhatConfig struct {
	BaseURL      string `mapstructure:"base_url"`
	AnalyticsURL string `mapstructure:"analytics_url"`
}

type StorageConfig struct {
	Backend string         `mapstructure:"backend"` // "s3" or "local"
	S3      S3Config       `mapstructure:"s3"`
	Local   LocalDirConfig `mapstructure:"local"`
}

type S3Config struct {
	Region   string `mapstructure:"region"`
	Endpoint string `mapstructure:"endpoint"` // optional S3-compatible override
}

type LocalDirConfig struct {
	Dir string `mapstructure:"dir"`
}

// defaultAliasSets are the known multi-tenant customers whose usage rows
// arrive under more than one org id and must be billed as one entity.
var defaultAliasSets = [][]string{
	{"7ba2041d-b88f-4b67-a63a-64e78962b014", "a29883b2-997e-4b44-8bf5-a0a95bbdf639"},
	{"551cf481-0042-4076-a5a1-a78e23193c84", "c116cabe-9d57-46c3-b37b-a93e8f52967e"},
}

// Load reads an optional config.yaml plus environment overrides and
// validates the result. Credentials and the tenant id are always
// externally supplied; there is no baked-in default for them.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetDefault("planhat.base_url", "https://api.planhat.com")
	v.SetDefault("planhat.analytics_url", "https://analytics.planhat.com")
	v.SetDefault("storage.backend", "s3")
	v.SetDefault("roster_limit", 500)
	v.SetDefault("company_pause", "1s")
	v.SetDefault("db_path", "sync.db")
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("alias_sets", defaultAliasSets)

	// Env names kept from the original deployment.
	bindings := map[string]string{
		"api_token":             "PLANHAT_API_TOKEN",
		"tenant_id":             "PLANHAT_TENANT_ID",
		"bucket_name":           "BILLING_BUCKET_NAME",
		"planhat.base_url":      "PLANHAT_BASE_URL",
		"planhat.analytics_url": "PLANHAT_ANALYTICS_URL",
		"storage.backend":       "STORAGE_BACKEND",
		"storage.s3.region":     "STORAGE_S3_REGION",
		"storage.s3.endpoint":   "STORAGE_S3_ENDPOINT",
		"storage.local.dir":     "STORAGE_LOCAL_DIR",
		"roster_limit":          "ROSTER_LIMIT",
		"company_pause":         "COMPANY_PAUSE",
		"db_path":               "SYNC_DB_PATH",
		"listen_addr":           "LISTEN_ADDR",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the required values. Absence of any is a fatal
// configuration error for the whole run.
func (c *Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.APIToken) == "" {
		missing = append(missing, "PLANHAT_API_TOKEN")
	}
	if strings.TrimSpace(c.TenantID) == "" {
		missing = append(missing, "PLANHAT_TENANT_ID")
	}
	if strings.TrimSpace(c.BucketName) == "" {
		missing = append(missing, "BILLING_BUCKET_NAME")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	if c.RosterLimit <= 0 {
		return fmt.Errorf("roster_limit must be positive, got %d", c.RosterLimit)
	}
	return nil
}

// Pause returns the delay between company iterations.
func (c *Config) Pause() time.Duration {
	return utils.ParseDuration(c.CompanyPause, time.Second)
}
