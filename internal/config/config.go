package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Lenin1999/app-proyecto-pulmones/internal/common"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. PULMONES_API_TIMEOUT.
const EnvPrefix = "PULMONES"

// Direct environment variables for the base URLs, used when viper has none.
const (
	EnvBaseAdd        = "API_BASE_ADD"
	EnvBaseResultados = "API_BASE_RESULTADOS"
	EnvBaseReporte    = "API_BASE_REPORTE"
)

// Config is the validated application configuration.
type Config struct {
	Logging LoggingConfig
	Gallery GalleryConfig
	Camera  CameraConfig
	Storage StorageConfig
	API     APIConfig
	UI      UIConfig
	Report  ReportConfig
}

// APIConfig configures the remote endpoints.
type APIConfig struct {
	BaseAdd         string
	BaseResultados  string
	BaseReporte     string
	Timeout         time.Duration
	BreakerCooldown time.Duration
	BreakerFailures uint32
	BreakerEnabled  bool
}

// ReportConfig configures report dispatch.
type ReportConfig struct {
	MaxResults int
	PerMinute  int
}

// GalleryConfig configures the gallery picker.
type GalleryConfig struct {
	Dir string
}

// CameraConfig configures the capture hand-off.
type CameraConfig struct {
	Command    string
	CaptureDir string
}

// StorageConfig configures the local activity log.
type StorageConfig struct {
	Path string
}

// UIConfig configures the interactive screens.
type UIConfig struct {
	Theme string
}

// LoggingConfig configures slog.
type LoggingConfig struct {
	Level  string
	Format string
	File   string
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("api.breaker.enabled", true)
	v.SetDefault("api.breaker.failures", 5)
	v.SetDefault("api.breaker.cooldown", 30*time.Second)
	v.SetDefault("report.max_results", 0)
	v.SetDefault("report.per_minute", 10)
	v.SetDefault("gallery.dir", "~/Pictures")
	v.SetDefault("camera.command", "")
	v.SetDefault("camera.capture_dir", "")
	v.SetDefault("storage.path", "~/.local/share/pulmones/activity.db")
	v.SetDefault("ui.theme", "default")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file", "~/.local/share/pulmones/pulmones.log")
}

// ConfigureEnv makes every key overridable from PULMONES_* variables.
func ConfigureEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load reads the configuration from the global viper instance.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadLocal reads the configuration for commands that only use local
// state, such as the activity history. The API endpoints are not required.
func LoadLocal() (*Config, error) {
	return LoadLocalFrom(viper.GetViper())
}

// LoadFrom reads the configuration from v. Precedence for the base URLs:
//  1. viper (config file or PULMONES_API_* variables)
//  2. the API_BASE_* environment variables
func LoadFrom(v *viper.Viper) (*Config, error) {
	cfg, err := read(v)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadLocalFrom reads the configuration from v and validates only the
// local settings.
func LoadLocalFrom(v *viper.Viper) (*Config, error) {
	cfg, err := read(v)
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidateLocal(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func read(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		API: APIConfig{
			BaseAdd:         firstNonEmpty(v.GetString("api.base_add"), os.Getenv(EnvBaseAdd)),
			BaseResultados:  firstNonEmpty(v.GetString("api.base_resultados"), os.Getenv(EnvBaseResultados)),
			BaseReporte:     firstNonEmpty(v.GetString("api.base_reporte"), os.Getenv(EnvBaseReporte)),
			Timeout:         v.GetDuration("api.timeout"),
			BreakerEnabled:  v.GetBool("api.breaker.enabled"),
			BreakerCooldown: v.GetDuration("api.breaker.cooldown"),
		},
		Report: ReportConfig{
			MaxResults: v.GetInt("report.max_results"),
			PerMinute:  v.GetInt("report.per_minute"),
		},
		Gallery: GalleryConfig{
			Dir: ExpandPath(v.GetString("gallery.dir")),
		},
		Camera: CameraConfig{
			Command:    strings.TrimSpace(v.GetString("camera.command")),
			CaptureDir: ExpandPath(v.GetString("camera.capture_dir")),
		},
		Storage: StorageConfig{
			Path: ExpandPath(v.GetString("storage.path")),
		},
		UI: UIConfig{
			Theme: v.GetString("ui.theme"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
			File:   ExpandPath(v.GetString("logging.file")),
		},
	}

	failures := v.GetInt("api.breaker.failures")
	if failures < 0 {
		return nil, fmt.Errorf("%w: api.breaker.failures must not be negative", common.ErrInvalidConfig)
	}
	cfg.API.BreakerFailures = uint32(failures)
	return cfg, nil
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	missing := []string{}
	if c.API.BaseAdd == "" {
		missing = append(missing, "api.base_add ("+EnvBaseAdd+")")
	}
	if c.API.BaseResultados == "" {
		missing = append(missing, "api.base_resultados ("+EnvBaseResultados+")")
	}
	if c.API.BaseReporte == "" {
		missing = append(missing, "api.base_reporte ("+EnvBaseReporte+")")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", common.ErrMissingConfig, strings.Join(missing, ", "))
	}

	if c.API.Timeout <= 0 {
		return fmt.Errorf("%w: api.timeout must be positive", common.ErrInvalidConfig)
	}
	if c.API.BreakerEnabled && c.API.BreakerCooldown <= 0 {
		return fmt.Errorf("%w: api.breaker.cooldown must be positive", common.ErrInvalidConfig)
	}
	if c.Report.MaxResults < 0 {
		return fmt.Errorf("%w: report.max_results must not be negative", common.ErrInvalidConfig)
	}
	if c.Report.PerMinute < 0 {
		return fmt.Errorf("%w: report.per_minute must not be negative", common.ErrInvalidConfig)
	}
	return c.ValidateLocal()
}

// ValidateLocal checks the settings needed without the remote services.
func (c *Config) ValidateLocal() error {
	if c.Storage.Path == "" {
		return fmt.Errorf("%w: storage.path", common.ErrMissingConfig)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
