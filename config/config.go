package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const EnvPrefix = "SLOTBOOK"

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	GRPC     GRPCConfig     `yaml:"grpc"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Payment  PaymentConfig  `yaml:"payment"`
	Auth     AuthConfig     `yaml:"auth"`
	Storage  StorageConfig  `yaml:"storage"`
	Cache    CacheConfig    `yaml:"cache"`
	Worker   WorkerConfig   `yaml:"worker"`
	Log      LogConfig      `yaml:"log"`
}

type HTTPConfig struct {
	Address         string `yaml:"address"`
	Mode            string `yaml:"mode"`
	RequestTimeout  int    `yaml:"request_timeout_seconds" envconfig:"request_timeout_seconds"`
	ShutdownTimeout int    `yaml:"shutdown_timeout_seconds" envconfig:"shutdown_timeout_seconds"`
}

type GRPCConfig struct {
	Address string `yaml:"address"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode" envconfig:"ssl_mode"`
	Migrate  bool   `yaml:"migrate"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers             []string `yaml:"brokers"`
	ReservationTopic    string   `yaml:"reservation_topic" envconfig:"reservation_topic"`
	NotificationsTopic  string   `yaml:"notifications_topic" envconfig:"notifications_topic"`
	ReconciliationTopic string   `yaml:"reconciliation_topic" envconfig:"reconciliation_topic"`
	GroupID             string   `yaml:"group_id" envconfig:"group_id"`
}

type PaymentConfig struct {
	KeyID           string `yaml:"key_id" envconfig:"key_id"`
	KeySecret       string `yaml:"key_secret" envconfig:"key_secret"`
	Currency        string `yaml:"currency"`
	ClaimTTLSeconds int    `yaml:"claim_ttl_seconds" envconfig:"claim_ttl_seconds"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" envconfig:"jwt_secret"`
	Issuer    string `yaml:"issuer"`
}

// StorageConfig selects the ledger backend: "postgres" or "memory".
type StorageConfig struct {
	Driver string `yaml:"driver"`
}

type CacheConfig struct {
	SlotsTTLSeconds int `yaml:"slots_ttl_seconds" envconfig:"slots_ttl_seconds"`
}

type WorkerConfig struct {
	AuditIntervalMinutes int    `yaml:"audit_interval_minutes" envconfig:"audit_interval_minutes"`
	EmailFrom            string `yaml:"email_from" envconfig:"email_from"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func (c PaymentConfig) ClaimTTL() time.Duration {
	return time.Duration(c.ClaimTTLSeconds) * time.Second
}

func (c CacheConfig) SlotsTTL() time.Duration {
	return time.Duration(c.SlotsTTLSeconds) * time.Second
}

func (c WorkerConfig) AuditInterval() time.Duration {
	return time.Duration(c.AuditIntervalMinutes) * time.Minute
}

// LoadConfig reads the YAML file at path, applies SLOTBOOK_* environment
// overrides and fills defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment: %w", err)
	}

	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.HTTP.RequestTimeout == 0 {
		c.HTTP.RequestTimeout = 15
	}
	if c.HTTP.ShutdownTimeout == 0 {
		c.HTTP.ShutdownTimeout = 5
	}
	if c.GRPC.Address == "" {
		c.GRPC.Address = ":9090"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "postgres"
	}
	if c.Payment.Currency == "" {
		c.Payment.Currency = "INR"
	}
	if c.Payment.ClaimTTLSeconds == 0 {
		c.Payment.ClaimTTLSeconds = 30
	}
	if c.Cache.SlotsTTLSeconds == 0 {
		c.Cache.SlotsTTLSeconds = 60
	}
	if c.Worker.AuditIntervalMinutes == 0 {
		c.Worker.AuditIntervalMinutes = 10
	}
	if c.Worker.EmailFrom == "" {
		c.Worker.EmailFrom = "noreply@slotbooking.local"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

func (c *Config) Validate() error {
	var errs []error
	if c.Payment.KeySecret == "" {
		errs = append(errs, errors.New("payment.key_secret is required"))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwt_secret is required"))
	}
	switch c.Storage.Driver {
	case "postgres", "memory":
	default:
		errs = append(errs, fmt.Errorf("storage.driver %q is not supported", c.Storage.Driver))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
