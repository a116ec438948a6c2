package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/weldworks/workshop-api/internal/db"
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr           string
	UploadDir      string
	AllowedOrigins []string
}

// SchedulerConfig holds background scheduler settings.
type SchedulerConfig struct {
	TickInterval time.Duration
}

// Config aggregates process configuration.
type Config struct {
	DB        db.Config
	Server    ServerConfig
	Scheduler SchedulerConfig
}

// DefaultConfig returns the built-in defaults used when no config file or
// environment overrides are present.
func DefaultConfig() Config {
	return Config{
		DB: db.DefaultConfig(),
		Server: ServerConfig{
			Addr:           ":8080",
			UploadDir:      "./uploads",
			AllowedOrigins: []string{"http://localhost:5000"},
		},
		Scheduler: SchedulerConfig{
			TickInterval: 20 * time.Second,
		},
	}
}

// Load reads config.yaml from configPath, layered under WS_* environment
// overrides (WS_DATABASE_HOST, WS_SERVER_ADDR, ...).
func Load(configPath string) (Config, error) {
	// Start with default
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AutomaticEnv()     // allow environment overrides
	v.SetEnvPrefix("WS") // map env vars like WS_DATABASE_HOST

	// Optional: Map nested keys to flat env vars
	v.BindEnv("database.host")
	v.BindEnv("database.port")
	v.BindEnv("database.user")
	v.BindEnv("database.password")
	v.BindEnv("database.dbname")
	v.BindEnv("database.sslmode")
	v.BindEnv("server.addr")
	v.BindEnv("server.upload_dir")
	v.BindEnv("scheduler.tick_interval")

	if err := v.ReadInConfig(); err != nil {
		// Config file not found? Just log it, use defaults + env
		fmt.Println("No config.yaml found, using defaults and env vars")
	} else {
		fmt.Println("Loaded config.yaml")
	}

	// Override defaults if values exist
	if v.IsSet("database.host") {
		cfg.DB.Host = v.GetString("database.host")
	}
	if v.IsSet("database.port") {
		cfg.DB.Port = v.GetInt("database.port")
	}
	if v.IsSet("database.user") {
		cfg.DB.User = v.GetString("database.user")
	}
	if v.IsSet("database.password") {
		cfg.DB.Password = v.GetString("database.password")
	}
	if v.IsSet("database.dbname") {
		cfg.DB.DBName = v.GetString("database.dbname")
	}
	if v.IsSet("database.sslmode") {
		cfg.DB.SSLMode = v.GetString("database.sslmode")
	}
	if v.IsSet("server.addr") {
		cfg.Server.Addr = v.GetString("server.addr")
	}
	if v.IsSet("server.upload_dir") {
		cfg.Server.UploadDir = v.GetString("server.upload_dir")
	}
	if v.IsSet("server.allowed_origins") {
		cfg.Server.AllowedOrigins = v.GetStringSlice("server.allowed_origins")
	}
	if v.IsSet("scheduler.tick_interval") {
		cfg.Scheduler.TickInterval = v.GetDuration("scheduler.tick_interval")
	}

	return cfg, nil
}
