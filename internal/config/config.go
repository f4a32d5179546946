package config

import "time"

// Config is the root application configuration.
type Config struct {
	Environment string        `mapstructure:"environment"`
	BasePath    string        `mapstructure:"base_path"`
	Server      ServerConfig  `mapstructure:"server"`
	Mongo       MongoConfig   `mapstructure:"mongo"`
	Redis       RedisConfig   `mapstructure:"redis"`
	Kafka       KafkaConfig   `mapstructure:"kafka"`
	JWT         JWTConfig     `mapstructure:"jwt"`
	Logging     LoggingConfig `mapstructure:"logging"`
	Metrics     MetricsConfig `mapstructure:"metrics"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

type MongoConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// JWTConfig holds the symmetric signing material and lifetimes for the
// three token families: access, refresh and activation.
type JWTConfig struct {
	AccessSecret       string        `mapstructure:"access_secret"`
	RefreshSecret      string        `mapstructure:"refresh_secret"`
	ActivationSecret   string        `mapstructure:"activation_secret"`
	Audience           string        `mapstructure:"audience"`
	AccessTokenTTL     time.Duration `mapstructure:"access_token_ttl"`
	RefreshTokenTTL    time.Duration `mapstructure:"refresh_token_ttl"`
	ActivationTokenTTL time.Duration `mapstructure:"activation_token_ttl"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// IsProduction reports whether the service runs in production shape
// (secure cookies, strict same-site, generic fault messages).
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
