package config

import (
	"fmt"
	"time"

	"github.com/aridharma/sheetdrop/internal/db"
	"github.com/spf13/viper"
)

// Config aggregates everything the server needs at startup.
type Config struct {
	Server    ServerConfig
	Database  db.Config
	Auth      AuthConfig
	Ingestion IngestionConfig
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
	UploadsDir     string
	MigrationsDir  string
}

// AuthConfig controls token issuance.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// IngestionConfig controls the background processing pool.
type IngestionConfig struct {
	Workers   int
	QueueSize int
}

// Default returns the configuration used when no config file or environment
// overrides are present.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"http://localhost:3000"},
			UploadsDir:     "uploads",
			MigrationsDir:  "migrations",
		},
		Database: db.DefaultConfig(),
		Auth: AuthConfig{
			JWTSecret: "",
			TokenTTL:  24 * time.Hour,
		},
		Ingestion: IngestionConfig{
			Workers:   2,
			QueueSize: 64,
		},
	}
}

// Load reads config.yaml from configPath with environment overrides mapped
// through the APP prefix (APP_DATABASE_HOST, APP_AUTH_JWT_SECRET, ...).
func Load(configPath string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AutomaticEnv() // allow environment overrides
	v.SetEnvPrefix("APP")

	// Map nested keys to flat env vars
	v.BindEnv("server.addr")
	v.BindEnv("server.uploads_dir")
	v.BindEnv("database.host")
	v.BindEnv("database.port")
	v.BindEnv("database.user")
	v.BindEnv("database.password")
	v.BindEnv("database.dbname")
	v.BindEnv("database.sslmode")
	v.BindEnv("auth.jwt_secret")
	v.BindEnv("ingestion.workers")
	v.BindEnv("ingestion.queue_size")

	if err := v.ReadInConfig(); err != nil {
		// Config file not found? Just log it, use defaults + env
		fmt.Println("No config.yaml found, using defaults and env vars")
	} else {
		fmt.Println("Loaded config.yaml")
	}

	if v.IsSet("server.addr") {
		cfg.Server.Addr = v.GetString("server.addr")
	}
	if v.IsSet("server.allowed_origins") {
		cfg.Server.AllowedOrigins = v.GetStringSlice("server.allowed_origins")
	}
	if v.IsSet("server.uploads_dir") {
		cfg.Server.UploadsDir = v.GetString("server.uploads_dir")
	}
	if v.IsSet("server.migrations_dir") {
		cfg.Server.MigrationsDir = v.GetString("server.migrations_dir")
	}
	if v.IsSet("database.host") {
		cfg.Database.Host = v.GetString("database.host")
	}
	if v.IsSet("database.port") {
		cfg.Database.Port = v.GetInt("database.port")
	}
	if v.IsSet("database.user") {
		cfg.Database.User = v.GetString("database.user")
	}
	if v.IsSet("database.password") {
		cfg.Database.Password = v.GetString("database.password")
	}
	if v.IsSet("database.dbname") {
		cfg.Database.DBName = v.GetString("database.dbname")
	}
	if v.IsSet("database.sslmode") {
		cfg.Database.SSLMode = v.GetString("database.sslmode")
	}
	if v.IsSet("auth.jwt_secret") {
		cfg.Auth.JWTSecret = v.GetString("auth.jwt_secret")
	}
	if v.IsSet("auth.token_ttl") {
		cfg.Auth.TokenTTL = v.GetDuration("auth.token_ttl")
	}
	if v.IsSet("ingestion.workers") {
		cfg.Ingestion.Workers = v.GetInt("ingestion.workers")
	}
	if v.IsSet("ingestion.queue_size") {
		cfg.Ingestion.QueueSize = v.GetInt("ingestion.queue_size")
	}

	if cfg.Auth.JWTSecret == "" {
		return cfg, fmt.Errorf("auth.jwt_secret is required (set APP_AUTH_JWT_SECRET or config.yaml)")
	}

	return cfg, nil
}
