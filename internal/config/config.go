package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	DatabasePath      string        `mapstructure:"database_path" yaml:"database_path"`
	AdminPassword     string        `mapstructure:"admin_password" yaml:"admin_password"`
	AllowedOrigins    []string      `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	PublicURL         string        `mapstructure:"public_url" yaml:"public_url"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	MessagePageSize   int           `mapstructure:"message_page_size" yaml:"message_page_size"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:         ":3001",
		DatabasePath: "localchat.db",
		AllowedOrigins: []string{
			"http://localhost:5173",
			"http://127.0.0.1:5173",
		},
		LogLevel:          "info",
		MessagePageSize:   50,
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
	}
}
