package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	App      AppConfig
	Storage  StorageConfig
	Log      LogConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver     string // postgres or sqlite
	Host       string
	Port       string
	User       string
	Password   string
	DBName     string
	SSLMode    string
	SQLitePath string
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port           string
	Mode           string
	PublicURL      string
	AllowedOrigins []string
}

// AppConfig holds token and credential settings
type AppConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	AdminTTL      time.Duration
	BcryptCost    int
}

// StorageConfig holds blob storage settings
type StorageConfig struct {
	Root          string
	BaseURL       string
	UploadWorkers int
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string
	Output string // stdout or file
	File   string
}

// Load loads configuration from the environment, an optional .env file and
// an optional config.yaml.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/crowdfund")

	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	config := &Config{
		Database: DatabaseConfig{
			Driver:     v.GetString("db_driver"),
			Host:       v.GetString("db_host"),
			Port:       v.GetString("db_port"),
			User:       v.GetString("db_user"),
			Password:   v.GetString("db_password"),
			DBName:     v.GetString("db_name"),
			SSLMode:    v.GetString("db_sslmode"),
			SQLitePath: v.GetString("db_sqlite_path"),
		},
		Server: ServerConfig{
			Port:           v.GetString("server_port"),
			Mode:           v.GetString("gin_mode"),
			PublicURL:      strings.TrimRight(v.GetString("public_url"), "/"),
			AllowedOrigins: splitList(v.GetString("allowed_origins")),
		},
		App: AppConfig{
			AccessSecret:  v.GetString("access_secret_key"),
			RefreshSecret: v.GetString("refresh_secret_key"),
			AccessTTL:     v.GetDuration("access_token_ttl"),
			RefreshTTL:    v.GetDuration("refresh_token_ttl"),
			AdminTTL:      v.GetDuration("admin_token_ttl"),
			BcryptCost:    v.GetInt("bcrypt_cost"),
		},
		Storage: StorageConfig{
			Root:          v.GetString("storage_root"),
			BaseURL:       strings.TrimRight(v.GetString("storage_base_url"), "/"),
			UploadWorkers: v.GetInt("upload_workers"),
		},
		Log: LogConfig{
			Level:  v.GetString("log_level"),
			Output: v.GetString("log_output"),
			File:   v.GetString("log_file"),
		},
	}

	// Validate required fields
	if config.App.AccessSecret == "" {
		return nil, fmt.Errorf("ACCESS_SECRET_KEY is required")
	}
	if config.App.RefreshSecret == "" {
		return nil, fmt.Errorf("REFRESH_SECRET_KEY is required")
	}

	if config.Database.Driver != "postgres" && config.Database.Driver != "sqlite" {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", config.Database.Driver)
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db_driver", "postgres")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_password", "")
	v.SetDefault("db_name", "crowdfund")
	v.SetDefault("db_sslmode", "disable")
	v.SetDefault("db_sqlite_path", "crowdfund.db")

	v.SetDefault("server_port", "8080")
	v.SetDefault("gin_mode", "debug")
	v.SetDefault("public_url", "http://localhost:8080")
	v.SetDefault("allowed_origins", "http://localhost:3000,http://localhost:5173")

	v.SetDefault("access_token_ttl", 3*time.Hour)
	v.SetDefault("refresh_token_ttl", 7*24*time.Hour)
	v.SetDefault("admin_token_ttl", 24*time.Hour)
	v.SetDefault("bcrypt_cost", 10)

	v.SetDefault("storage_root", "uploads")
	v.SetDefault("storage_base_url", "http://localhost:8080/uploads")
	v.SetDefault("upload_workers", 4)

	v.SetDefault("log_level", "info")
	v.SetDefault("log_output", "stdout")
	v.SetDefault("log_file", "logs/app.log")
}

// GetDSN returns the PostgreSQL connection string
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
