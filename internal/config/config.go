package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DatasetSourceEmbedded = "embedded"
	DatasetSourceFile     = "file"
	DatasetSourcePostgres = "postgres"
)

type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Dataset    DatasetConfig    `mapstructure:"dataset"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Migrations MigrationsConfig `mapstructure:"migrations"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	HTTPPort    string `mapstructure:"http_port"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"`
	// BodyLimit caps request bodies, transcripts included, in bytes.
	BodyLimit int `mapstructure:"body_limit"`
}

type DatasetConfig struct {
	Source string `mapstructure:"source"`
	Path   string `mapstructure:"path"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"ssl_mode"`

	ConnectTimeout      time.Duration `mapstructure:"connect_timeout"`
	PoolMaxConns        int32         `mapstructure:"pool_max_conns"`
	PoolMinConns        int32         `mapstructure:"pool_min_conns"`
	PoolMaxConnLifetime time.Duration `mapstructure:"pool_max_conn_lifetime"`
	PoolMaxConnIdleTime time.Duration `mapstructure:"pool_max_conn_idle_time"`
}

type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type MigrationsConfig struct {
	// Dir overrides the migrations compiled into the binary when set.
	Dir string `mapstructure:"dir"`
}

var ErrInvalidConfig = errors.New("invalid configuration")

// Load reads config.yaml (and config.<APP_ENVIRONMENT>.yaml) from searchPaths,
// then applies environment overrides such as APP_HTTP_PORT or DATASET_SOURCE.
// A .env file in the working directory is loaded first if present.
func Load(searchPaths ...string) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(searchPaths) == 0 {
		searchPaths = []string{"./configs", "."}
	}
	for _, p := range searchPaths {
		v.AddConfigPath(p)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	env := strings.TrimSpace(os.Getenv("APP_ENVIRONMENT"))
	if env != "" {
		v.SetConfigName("config." + env)
		if err := v.MergeInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read %s config: %w", env, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "majormatch")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.http_port", "8080")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "console")
	v.SetDefault("app.body_limit", 4*1024*1024)

	v.SetDefault("dataset.source", DatasetSourceEmbedded)
	v.SetDefault("dataset.path", "")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.name", "majormatch")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.connect_timeout", 5*time.Second)
	v.SetDefault("database.pool_max_conns", 4)
	v.SetDefault("database.pool_min_conns", 0)
	v.SetDefault("database.pool_max_conn_lifetime", time.Hour)
	v.SetDefault("database.pool_max_conn_idle_time", 10*time.Minute)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 10*time.Minute)

	v.SetDefault("migrations.dir", "")
}

func (c Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.App.HTTPPort) == "" {
		problems = append(problems, "app.http_port is required")
	}

	switch c.Dataset.Source {
	case DatasetSourceEmbedded:
	case DatasetSourceFile:
		if strings.TrimSpace(c.Dataset.Path) == "" {
			problems = append(problems, "dataset.path is required when dataset.source=file")
		}
	case DatasetSourcePostgres:
		if strings.TrimSpace(c.Database.Host) == "" || strings.TrimSpace(c.Database.Name) == "" || strings.TrimSpace(c.Database.User) == "" {
			problems = append(problems, "database.host, database.name and database.user are required when dataset.source=postgres")
		}
	default:
		problems = append(problems, fmt.Sprintf("dataset.source must be one of %s, %s, %s", DatasetSourceEmbedded, DatasetSourceFile, DatasetSourcePostgres))
	}

	if c.Redis.Enabled && strings.TrimSpace(c.Redis.Addr) == "" {
		problems = append(problems, "redis.addr is required when redis.enabled=true")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

func (c Config) UsesDatabase() bool {
	return c.Dataset.Source == DatasetSourcePostgres
}
