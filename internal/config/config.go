package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultAppName        = "contactbook"
	defaultAppEnv         = "development"
	defaultPort           = "3000"
	defaultLogLevel       = "info"
	defaultLogFormat      = "json"
	defaultMongoDatabase  = "contactbook"
	defaultCORSOrigins    = "*"
	defaultDevJWTSecret   = "development-only-secret"
	defaultTokenTTL       = 24 * time.Hour
	defaultShutdownDelay  = 10 * time.Second
	defaultIdempotencyTTL = 24 * time.Hour

	configFileEnvVar       = "CONFIG_FILE"
	shutdownSecondsEnvVar  = "SHUTDOWN_TIMEOUT_SECONDS"
	shutdownDurationEnvVar = "SHUTDOWN_TIMEOUT"
)

// Store drivers selectable with STORE_DRIVER.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
)

// Config captures application runtime configuration.
type Config struct {
	AppName          string
	AppEnv           string
	Port             string
	LogLevel         string
	LogFormat        string
	JWTSecret        string
	TokenTTL         time.Duration
	StoreDriver      string
	DatabaseURL      string
	MongoURI         string
	MongoDatabase    string
	RedisURL         string
	IdempotencyTTL   time.Duration
	ShutdownPeriod   time.Duration
	CORSAllowOrigins string
	MetricsEnabled   bool
}

// fileConfig is the optional YAML overlay named by CONFIG_FILE. Environment
// variables win over file values, which win over defaults.
type fileConfig struct {
	App struct {
		Name string `yaml:"name"`
		Env  string `yaml:"env"`
		Port string `yaml:"port"`
	} `yaml:"app"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`
	Auth struct {
		JWTSecret string `yaml:"jwt_secret"`
		TokenTTL  string `yaml:"token_ttl"`
	} `yaml:"auth"`
	Store struct {
		Driver        string `yaml:"driver"`
		DatabaseURL   string `yaml:"database_url"`
		MongoURI      string `yaml:"mongo_uri"`
		MongoDatabase string `yaml:"mongo_database"`
	} `yaml:"store"`
	Redis struct {
		URL            string `yaml:"url"`
		IdempotencyTTL string `yaml:"idempotency_ttl"`
	} `yaml:"redis"`
	HTTP struct {
		CORSAllowOrigins string `yaml:"cors_allow_origins"`
		ShutdownTimeout  string `yaml:"shutdown_timeout"`
	} `yaml:"http"`
	Metrics struct {
		Enabled *bool `yaml:"enabled"`
	} `yaml:"metrics"`
}

// Load reads configuration from an optional YAML file and the environment.
func Load() (Config, error) {
	var file fileConfig
	if path := os.Getenv(configFileEnvVar); path != "" {
		if err := readFile(path, &file); err != nil {
			return Config{}, err
		}
	}

	cfg := Config{
		AppName:          getEnv("APP_NAME", or(file.App.Name, defaultAppName)),
		AppEnv:           getEnv("APP_ENV", or(file.App.Env, defaultAppEnv)),
		Port:             getEnv("PORT", or(file.App.Port, defaultPort)),
		LogLevel:         strings.ToLower(getEnv("LOG_LEVEL", or(file.Logging.Level, defaultLogLevel))),
		LogFormat:        strings.ToLower(getEnv("LOG_FORMAT", or(file.Logging.Format, defaultLogFormat))),
		JWTSecret:        getEnv("JWT_SECRET", file.Auth.JWTSecret),
		StoreDriver:      strings.ToLower(getEnv("STORE_DRIVER", file.Store.Driver)),
		DatabaseURL:      getEnv("DATABASE_URL", file.Store.DatabaseURL),
		MongoURI:         getEnv("MONGO_URI", file.Store.MongoURI),
		MongoDatabase:    getEnv("MONGO_DATABASE", or(file.Store.MongoDatabase, defaultMongoDatabase)),
		RedisURL:         getEnv("REDIS_URL", file.Redis.URL),
		CORSAllowOrigins: getEnv("CORS_ALLOW_ORIGINS", or(file.HTTP.CORSAllowOrigins, defaultCORSOrigins)),
		MetricsEnabled:   true,
	}

	if file.Metrics.Enabled != nil {
		cfg.MetricsEnabled = *file.Metrics.Enabled
	}
	if v := os.Getenv("METRICS_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid METRICS_ENABLED: %w", err)
		}
		cfg.MetricsEnabled = enabled
	}

	var err error
	if cfg.TokenTTL, err = duration("TOKEN_TTL", file.Auth.TokenTTL, defaultTokenTTL); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = duration("IDEMPOTENCY_TTL", file.Redis.IdempotencyTTL, defaultIdempotencyTTL); err != nil {
		return Config{}, err
	}

	cfg.ShutdownPeriod = defaultShutdownDelay
	if v := os.Getenv(shutdownSecondsEnvVar); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", shutdownSecondsEnvVar, err)
		}
		cfg.ShutdownPeriod = time.Duration(seconds) * time.Second
	} else if cfg.ShutdownPeriod, err = duration(shutdownDurationEnvVar, file.HTTP.ShutdownTimeout, defaultShutdownDelay); err != nil {
		return Config{}, err
	}

	if err := cfg.finish(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// finish fills derived defaults and validates cross-field requirements.
func (c *Config) finish() error {
	if c.StoreDriver == "" {
		switch {
		case c.MongoURI != "":
			c.StoreDriver = StoreMongo
		case c.DatabaseURL != "":
			c.StoreDriver = StorePostgres
		default:
			c.StoreDriver = StoreMemory
		}
	}

	switch c.StoreDriver {
	case StoreMemory:
		if !c.IsDevelopment() {
			return fmt.Errorf("STORE_DRIVER=memory is only allowed in development, APP_ENV=%s", c.AppEnv)
		}
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL must be set for STORE_DRIVER=postgres")
		}
	case StoreMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI must be set for STORE_DRIVER=mongo")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	if c.JWTSecret == "" {
		if !c.IsDevelopment() {
			return fmt.Errorf("JWT_SECRET must be set when APP_ENV=%s", c.AppEnv)
		}
		c.JWTSecret = defaultDevJWTSecret
	}

	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	if c.IdempotencyTTL <= 0 {
		return fmt.Errorf("IDEMPOTENCY_TTL must be positive")
	}
	if c.ShutdownPeriod <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}
	return nil
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

// IsDevelopment reports whether the app runs in a local/dev environment.
func (c Config) IsDevelopment() bool {
	switch strings.ToLower(c.AppEnv) {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}

func readFile(path string, into *fileConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), into); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func duration(key, fileValue string, fallback time.Duration) (time.Duration, error) {
	raw := getEnv(key, fileValue)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func or(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
