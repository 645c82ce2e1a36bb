package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// DBConfig holds document store configuration
type DBConfig struct {
	URI            string
	User           string
	Password       string
	Cluster        string
	AppName        string
	Name           string
	ConnectTimeout time.Duration
	MaxPoolSize    int
}

// GetURI returns the MongoDB connection string. An explicit URI wins over
// the user/password/cluster triple.
func (c *DBConfig) GetURI() string {
	if c.URI != "" {
		return c.URI
	}
	return fmt.Sprintf("mongodb+srv://%s:%s@%s/?retryWrites=true&w=majority&appName=%s",
		url.QueryEscape(c.User), url.QueryEscape(c.Password), c.Cluster, url.QueryEscape(c.AppName))
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port             string
	Env              string
	CORSAllowOrigins []string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Prefix string
}

// Config holds all configuration
type Config struct {
	ServiceName string
	DB          DBConfig
	Server      ServerConfig
	Log         LogConfig
	Metrics     MetricsConfig
}

// Load loads configuration from an optional .env file and the environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env is optional, the process environment is used as is
		fmt.Printf("Warning: .env file not found, using environment variables\n")
	}

	cfg := &Config{
		ServiceName: getEnv("SERVICE_NAME", "hs-crm-server"),
		DB: DBConfig{
			URI:            getEnv("MONGODB_URI", ""),
			User:           getEnv("DB_USER", ""),
			Password:       getEnv("DB_PASS", ""),
			Cluster:        getEnv("DB_CLUSTER", "cluster0.byauspy.mongodb.net"),
			AppName:        getEnv("DB_APP_NAME", "Cluster0"),
			Name:           getEnv("DB_NAME", "crmDb"),
			ConnectTimeout: getEnvAsDuration("DB_CONNECT_TIMEOUT", 10*time.Second),
			MaxPoolSize:    getEnvAsInt("DB_MAX_POOL_SIZE", 100),
		},
		Server: ServerConfig{
			Port:             getEnv("PORT", "5000"),
			Env:              getEnv("APP_ENV", "development"),
			CORSAllowOrigins: getEnvAsList("CORS_ALLOW_ORIGINS", []string{"*"}),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Metrics: MetricsConfig{
			Prefix: getEnv("METRICS_PREFIX", "crm"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the server can start with this configuration
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(&c.Server,
		validation.Field(&c.Server.Port, validation.Required, is.Port),
	); err != nil {
		return fmt.Errorf("server: %w", err)
	}

	credentialsRequired := validation.When(c.DB.URI == "", validation.Required.Error("is required when MONGODB_URI is not set"))
	if err := validation.ValidateStruct(&c.DB,
		validation.Field(&c.DB.Name, validation.Required),
		validation.Field(&c.DB.User, credentialsRequired),
		validation.Field(&c.DB.Password, credentialsRequired),
		validation.Field(&c.DB.Cluster, validation.When(c.DB.URI == "", validation.Required)),
		validation.Field(&c.DB.MaxPoolSize, validation.Min(1)),
	); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	return nil
}

// LogConfig returns the configuration as zap fields. Credentials are never included.
func (c *Config) LogConfig() []zap.Field {
	return []zap.Field{
		zap.String("service", c.ServiceName),
		zap.String("environment", c.Server.Env),
		zap.String("db_name", c.DB.Name),
		zap.String("db_cluster", c.DB.Cluster),
		zap.Bool("db_uri_override", c.DB.URI != ""),
		zap.String("server_port", c.Server.Port),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var values []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}
