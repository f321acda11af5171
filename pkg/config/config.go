package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents application configuration for schemaforge-api and
// schemaforge-cli.
type Config struct {
	App      AppConfig     `yaml:"app" mapstructure:"app"`
	Server   ServerConfig  `yaml:"server" mapstructure:"server"`
	Storage  StorageConfig `yaml:"storage" mapstructure:"storage"`
	Redis    RedisConfig   `yaml:"redis" mapstructure:"redis"`
	Features FeatureConfig `yaml:"features" mapstructure:"features"`
	Logger   LoggerConfig  `yaml:"logger" mapstructure:"logger"`
	Metrics  MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

// Load loads configuration from environment variables and files using Viper.
func Load() *Config {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/schemaforge")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)
	bindEnvVars(v)
	loadDotEnvFile(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Printf("Warning: Error reading config file: %v\n", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		panic(fmt.Sprintf("Unable to decode config: %v", err))
	}

	if err := config.Validate(); err != nil {
		panic(fmt.Sprintf("Invalid configuration: %v", err))
	}

	return &config
}

// LoadWithViper loads configuration and returns both the config and the
// underlying viper instance, for callers that need to watch for changes.
func LoadWithViper() (*Config, *viper.Viper) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("$HOME/.config/schemaforge")
	v.AddConfigPath("/etc/schemaforge")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)
	bindEnvVars(v)
	loadDotEnvFile(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Printf("Warning: Error reading config file: %v\n", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		panic(fmt.Sprintf("Unable to decode config: %v", err))
	}

	if err := config.Validate(); err != nil {
		panic(fmt.Sprintf("Invalid configuration: %v", err))
	}

	return &config, v
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "schemaforge")
	v.SetDefault("app.version", "0.1.0")
	v.SetDefault("app.stage", string(DevelopmentStage))
	v.SetDefault("app.debug", false)
	v.SetDefault("app.environment", "local")
	v.SetDefault("app.namespace", "default")

	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.grpc_port", "9090")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)

	// Storage defaults
	v.SetDefault("storage.backend", string(StorageBackendMemory))
	v.SetDefault("storage.file_path", "./schemaforge-data")
	v.SetDefault("storage.s3_key_prefix", "schemaforge/")
	v.SetDefault("storage.s3_region", "us-east-1")

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Feature defaults
	v.SetDefault("features.enable_formula_cache", true)
	v.SetDefault("features.enable_tracing", false)
	v.SetDefault("features.enable_governance_cache", false)
	v.SetDefault("features.enable_export_sealing", false)

	// Logger defaults
	v.SetDefault("logger.type", "zerolog")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.development", false)
	v.SetDefault("logger.service_name", "schemaforge")
	v.SetDefault("logger.version", "0.1.0")
	v.SetDefault("logger.output", "stdout")

	// Metrics defaults
	v.SetDefault("metrics.provider", "prometheus")
	v.SetDefault("metrics.namespace", "schemaforge")
	v.SetDefault("metrics.subsystem", "kernel")
	v.SetDefault("metrics.enabled", true)
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "APP_NAME")
	v.BindEnv("app.version", "APP_VERSION")
	v.BindEnv("app.stage", "APP_STAGE")
	v.BindEnv("app.debug", "DEBUG", "APP_DEBUG")
	v.BindEnv("app.environment", "ENVIRONMENT", "APP_ENV")
	v.BindEnv("app.namespace", "NAMESPACE", "APP_NAMESPACE")

	// Server
	v.BindEnv("server.port", "SERVER_PORT")
	v.BindEnv("server.grpc_port", "GRPC_PORT")
	v.BindEnv("server.read_timeout", "SERVER_READ_TIMEOUT")
	v.BindEnv("server.write_timeout", "SERVER_WRITE_TIMEOUT")

	// Storage
	v.BindEnv("storage.backend", "STORAGE_BACKEND")
	v.BindEnv("storage.file_path", "STORAGE_FILE_PATH")
	v.BindEnv("storage.s3_bucket", "STORAGE_S3_BUCKET")
	v.BindEnv("storage.s3_key_prefix", "STORAGE_S3_KEY_PREFIX")
	v.BindEnv("storage.s3_region", "STORAGE_S3_REGION")
	v.BindEnv("storage.s3_endpoint", "STORAGE_S3_ENDPOINT")

	// Redis
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("redis.db", "REDIS_DB")

	// Features
	v.BindEnv("features.enable_formula_cache", "ENABLE_FORMULA_CACHE")
	v.BindEnv("features.enable_tracing", "ENABLE_TRACING")
	v.BindEnv("features.enable_governance_cache", "ENABLE_GOVERNANCE_CACHE")
	v.BindEnv("features.enable_export_sealing", "ENABLE_EXPORT_SEALING")
	v.BindEnv("storage.sealing_master_key", "SEALING_MASTER_KEY")

	// Logger
	v.BindEnv("logger.type", "LOG_TYPE")
	v.BindEnv("logger.level", "LOG_LEVEL")
	v.BindEnv("logger.format", "LOG_FORMAT")
	v.BindEnv("logger.development", "LOG_DEV")
	v.BindEnv("logger.service_name", "SERVICE_NAME")
	v.BindEnv("logger.version", "SERVICE_VERSION")
	v.BindEnv("logger.output", "LOG_OUTPUT")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return fmt.Errorf("app config validation failed: %w", err)
	}

	if err := c.Storage.Validate(); err != nil {
		return fmt.Errorf("storage config validation failed: %w", err)
	}

	if c.Redis.Port <= 0 || c.Redis.Port > 65535 {
		return fmt.Errorf("redis port must be between 1 and 65535")
	}

	if err := c.Logger.Validate(); err != nil {
		return fmt.Errorf("logger config validation failed: %w", err)
	}

	if c.Features.EnableExportSealing && len(c.Storage.SealingMasterKey) < 32 {
		return fmt.Errorf("storage.sealing_master_key must be at least 32 bytes when features.enable_export_sealing is on")
	}

	return nil
}

// loadDotEnvFile loads a .env file if one exists in the working directory.
func loadDotEnvFile(_ *viper.Viper) {
	envFile := ".env"
	if _, err := os.Stat(envFile); err == nil {
		file, err := os.Open(envFile)
		if err != nil {
			fmt.Printf("Warning: Could not open .env file: %v\n", err)
			return
		}
		defer file.Close()

		content := make([]byte, 0)
		buf := make([]byte, 1024)
		for {
			n, err := file.Read(buf)
			if n > 0 {
				content = append(content, buf[:n]...)
			}
			if err != nil {
				break
			}
		}
		lines := bytes.Split(content, []byte("\n"))
		for _, line := range lines {
			lineStr := strings.TrimSpace(string(line))
			if lineStr == "" || strings.HasPrefix(lineStr, "#") {
				continue
			}

			parts := strings.SplitN(lineStr, "=", 2)
			if len(parts) == 2 {
				key := strings.TrimSpace(parts[0])
				value := strings.TrimSpace(parts[1])
				if len(value) >= 2 && ((value[0] == '"' && value[len(value)-1] == '"') || (value[0] == '\'' && value[len(value)-1] == '\'')) {
					value = value[1 : len(value)-1]
				}
				if os.Getenv(key) == "" {
					os.Setenv(key, value)
				}
			}
		}
	}
}
