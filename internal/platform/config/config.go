package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Preferences PreferencesConfig `mapstructure:"preferences"`
	QR          QRConfig          `mapstructure:"qr"`
	Form        FormConfig        `mapstructure:"form"`
	Session     SessionConfig     `mapstructure:"session"`
	RateLimit   RateLimitConfig   `mapstructure:"rate_limit"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Worker      WorkerConfig      `mapstructure:"worker"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// PreferencesConfig selects the backend that remembers identifier and amount.
// Driver "none" disables persistence entirely.
type PreferencesConfig struct {
	Driver    string        `mapstructure:"driver"` // memory, sqlite, redis, none
	Path      string        `mapstructure:"path"`
	Redis     RedisConfig   `mapstructure:"redis"`
	KeyPrefix string        `mapstructure:"key_prefix"`
	Retention time.Duration `mapstructure:"retention"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type QRConfig struct {
	Size   int    `mapstructure:"size"`
	Level  string `mapstructure:"level"` // low, medium, high, highest
	Border bool   `mapstructure:"border"`
}

type FormConfig struct {
	SuccessTTL    time.Duration `mapstructure:"success_ttl"`
	DefaultLocale string        `mapstructure:"default_locale"`
}

type SessionConfig struct {
	CookieName    string        `mapstructure:"cookie_name"`
	IdleTTL       time.Duration `mapstructure:"idle_ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

type RateLimitConfig struct {
	GeneratePerMinute int `mapstructure:"generate_per_minute"`
	ExportPerMinute   int `mapstructure:"export_per_minute"`
}

type LoggingConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	FilePath string `mapstructure:"file_path"`
}

type WorkerConfig struct {
	PruneInterval time.Duration `mapstructure:"prune_interval"`
}

// setDefaults registers built-in defaults without replacing ones a caller
// already registered on v.
func setDefaults(v *viper.Viper) {
	setDefault(v, "server.host", "0.0.0.0")
	setDefault(v, "server.port", 8080)
	setDefault(v, "server.read_timeout", 15*time.Second)
	setDefault(v, "server.write_timeout", 15*time.Second)
	setDefault(v, "server.idle_timeout", 60*time.Second)
	setDefault(v, "server.shutdown_timeout", 10*time.Second)

	setDefault(v, "preferences.driver", "memory")
	setDefault(v, "preferences.path", "data/preferences.db")
	setDefault(v, "preferences.redis.addr", "localhost:6379")
	setDefault(v, "preferences.key_prefix", "promptqr")
	setDefault(v, "preferences.retention", 90*24*time.Hour)

	setDefault(v, "qr.size", 260)
	setDefault(v, "qr.level", "highest")
	setDefault(v, "qr.border", false)

	setDefault(v, "form.success_ttl", 3*time.Second)
	setDefault(v, "form.default_locale", "th")

	setDefault(v, "session.cookie_name", "promptqr_session")
	setDefault(v, "session.idle_ttl", 30*time.Minute)
	setDefault(v, "session.sweep_interval", 5*time.Minute)

	setDefault(v, "rate_limit.generate_per_minute", 120)
	setDefault(v, "rate_limit.export_per_minute", 60)

	setDefault(v, "logging.level", "info")
	setDefault(v, "logging.format", "json")
	setDefault(v, "logging.output", "stdout")

	setDefault(v, "worker.prune_interval", time.Hour)
}

func setDefault(v *viper.Viper, key string, value interface{}) {
	if !v.IsSet(key) {
		v.SetDefault(key, value)
	}
}

// Load reads the YAML file at path (when non-empty) on top of the built-in
// defaults. Environment variables override both, e.g. SERVER_PORT.
func Load(path string) (*Config, error) {
	return LoadWith(viper.New(), path)
}

// LoadWith is Load against a caller-owned viper instance, so flags bound with
// BindPFlags take part in resolution.
func LoadWith(v *viper.Viper, path string) (*Config, error) {
	setDefaults(v)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
