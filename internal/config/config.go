package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

type AppConfig struct {
	API          *APIConfig
	Gin          *GinConfig
	Database     *DatabaseConfig
	Session      *SessionConfig
	Redis        *RedisConfig
	Blob         *BlobConfig
	Gamification *GamificationConfig
	Log          *LogConfig
}

type APIConfig struct {
	Environment        string
	Port               string
	BaseURL            string   `mapstructure:"base_url"`
	AllowedCORSDomains []string `mapstructure:"allowed_cors_domains"`
	MaxUploadBytes     int64    `mapstructure:"max_upload_bytes"`
	SecureCookies      bool     `mapstructure:"secure_cookies"`
}

type GinConfig struct {
	Mode string
}

type DatabaseConfig struct {
	Driver     string
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	SSLMode    string `mapstructure:"sslmode"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

type SessionConfig struct {
	Backend string
	TTL     time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type BlobConfig struct {
	Backend         string
	Dir             string
	Bucket          string
	CredentialsFile string `mapstructure:"credentials_file"`
}

type GamificationConfig struct {
	DeliveryBonus     int  `mapstructure:"delivery_bonus"`
	LeaderboardLimit  int  `mapstructure:"leaderboard_limit"`
	HighscoreLimit    int  `mapstructure:"highscore_limit"`
	ReconcileRegrades bool `mapstructure:"reconcile_regrades"`
}

type LogConfig struct {
	Level string
}

const envPrefix = "EDUGAMIFY"

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.environment", "development")
	v.SetDefault("api.port", "8080")
	v.SetDefault("api.base_url", "localhost:8080")
	v.SetDefault("api.allowed_cors_domains", []string{"http://localhost:3000"})
	v.SetDefault("api.max_upload_bytes", 16<<20)
	v.SetDefault("api.secure_cookies", false)
	v.SetDefault("gin.mode", "debug")
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "edugamify")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.sqlite_path", "edugamify.db")
	v.SetDefault("session.backend", "db")
	v.SetDefault("session.ttl", 7*24*time.Hour)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("blob.backend", "local")
	v.SetDefault("blob.dir", "uploads")
	v.SetDefault("blob.bucket", "")
	v.SetDefault("blob.credentials_file", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("database.password", "")
	v.SetDefault("gamification.delivery_bonus", 10)
	v.SetDefault("gamification.leaderboard_limit", 50)
	v.SetDefault("gamification.highscore_limit", 10)
	v.SetDefault("gamification.reconcile_regrades", false)
	v.SetDefault("log.level", "info")
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the YAML file at path. A missing file is not an error: defaults
// and EDUGAMIFY_* environment variables still apply.
func Load(path string) (*AppConfig, error) {
	v := newViper(path)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("v.ReadInConfig -> %w", err)
		}
	}

	return decode(v)
}

// Watch reloads the file on every change and hands the fresh config to
// onChange. Invalid edits are reported through onError and otherwise
// ignored.
func Watch(path string, onChange func(*AppConfig), onError func(error)) {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		onError(fmt.Errorf("v.ReadInConfig -> %w", err))
		return
	}

	v.OnConfigChange(func(_ fsnotify.Event) {
		conf, err := decode(v)
		if err != nil {
			onError(err)
			return
		}
		onChange(conf)
	})
	v.WatchConfig()
}

func decode(v *viper.Viper) (*AppConfig, error) {
	var conf AppConfig
	if err := v.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("v.Unmarshal -> %w", err)
	}
	if err := conf.validate(); err != nil {
		return nil, err
	}

	return &conf, nil
}

func (c *AppConfig) validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database.driver %q", c.Database.Driver)
	}
	switch c.Session.Backend {
	case "db", "redis":
	default:
		return fmt.Errorf("unsupported session.backend %q", c.Session.Backend)
	}
	switch c.Blob.Backend {
	case "local", "gcs":
	default:
		return fmt.Errorf("unsupported blob.backend %q", c.Blob.Backend)
	}
	if c.Blob.Backend == "gcs" && c.Blob.Bucket == "" {
		return errors.New("blob.bucket is required for the gcs backend")
	}
	if c.Gamification.DeliveryBonus < 0 {
		return errors.New("gamification.delivery_bonus must not be negative")
	}

	return nil
}
