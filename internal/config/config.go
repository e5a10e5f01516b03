package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultConfigPath = "config/local.yaml"

type Config struct {
	App          AppConfig          `mapstructure:"app"`
	HTTP         HTTPConfig         `mapstructure:"http"`
	GRPC         GRPCConfig         `mapstructure:"grpc"`
	Postgres     PostgresConfig     `mapstructure:"postgres"`
	Storage      StorageConfig      `mapstructure:"storage"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Kafka        KafkaConfig        `mapstructure:"kafka"`
	Outbox       OutboxConfig       `mapstructure:"outbox"`
	Auth         AuthConfig         `mapstructure:"auth"`
	Payment      PaymentConfig      `mapstructure:"payment"`
	Lifecycle    LifecycleConfig    `mapstructure:"lifecycle"`
	Notification NotificationConfig `mapstructure:"notifications"`
	Audit        AuditConfig        `mapstructure:"audit"`
}

type AppConfig struct {
	Name     string `mapstructure:"name"`
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
}

func (a AppConfig) IsLocal() bool {
	return a.Env == "" || a.Env == "local"
}

type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	RatePerSecond   float64       `mapstructure:"rate_per_second"`
	Burst           int           `mapstructure:"burst"`
}

type GRPCConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

type PostgresConfig struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	User          string `mapstructure:"user"`
	Password      string `mapstructure:"password"`
	DB            string `mapstructure:"db"`
	SSLMode       string `mapstructure:"sslmode"`
	MaxConns      int32  `mapstructure:"max_conns"`
	MigrateOnBoot bool   `mapstructure:"migrate_on_boot"`
}

func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DB, p.SSLMode)
}

// URL is the form golang-migrate expects.
func (p PostgresConfig) URL() string {
	return fmt.Sprintf("pgx://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.DB, p.SSLMode)
}

type StorageConfig struct {
	// Driver is "postgres" or "memory".
	Driver string `mapstructure:"driver"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Channel  string `mapstructure:"channel"`
}

type KafkaConfig struct {
	Enabled            bool     `mapstructure:"enabled"`
	Brokers            []string `mapstructure:"brokers"`
	NotificationsTopic string   `mapstructure:"notifications_topic"`
	AuditTopic         string   `mapstructure:"audit_topic"`
	ConsumerGroup      string   `mapstructure:"consumer_group"`
}

type OutboxConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
	BatchSize    int           `mapstructure:"batch_size"`
}

type AuthConfig struct {
	JWTSecret     string `mapstructure:"jwt_secret"`
	WebhookSecret string `mapstructure:"webhook_secret"`
	AdminUsername string `mapstructure:"admin_username"`
	AdminPassword string `mapstructure:"admin_password"`
}

type PaymentConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type LifecycleConfig struct {
	OperationTimeout       time.Duration `mapstructure:"operation_timeout"`
	PaymentPollInterval    time.Duration `mapstructure:"payment_poll_interval"`
	PaymentPollMaxAttempts int           `mapstructure:"payment_poll_max_attempts"`
	ClaimableLimit         int           `mapstructure:"claimable_limit"`
	AdminIDs               []string      `mapstructure:"admin_ids"`
}

type NotificationConfig struct {
	RatePerSecond float64 `mapstructure:"rate_per_second"`
	Burst         int     `mapstructure:"burst"`
}

type AuditConfig struct {
	Workers       int           `mapstructure:"workers"`
	BatchSize     int           `mapstructure:"batch_size"`
	FlushInterval time.Duration `mapstructure:"flush_interval"`
}

// Load reads .env (if any), then the yaml file at path, then environment
// overrides such as POSTGRES_HOST or AUTH_JWT_SECRET.
func Load(path string) (*Config, error) {
	loadEnv()

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = defaultConfigPath
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		log.Printf("config file %s not found, using defaults and environment", path)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "validele")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("http.addr", ":9000")
	v.SetDefault("http.read_timeout", 10*time.Second)
	v.SetDefault("http.write_timeout", 40*time.Second)
	v.SetDefault("http.shutdown_timeout", 15*time.Second)
	v.SetDefault("http.rate_per_second", 100.0)
	v.SetDefault("http.burst", 50)

	v.SetDefault("grpc.enabled", true)
	v.SetDefault("grpc.addr", ":9001")

	// Keys without a yaml value must be known to viper for env overrides to reach Unmarshal.
	for _, key := range []string{
		"postgres.user", "postgres.password", "postgres.db", "redis.password",
		"auth.jwt_secret", "auth.webhook_secret", "auth.admin_username", "auth.admin_password",
		"payment.base_url", "payment.api_key", "lifecycle.admin_ids",
	} {
		v.SetDefault(key, "")
	}
	v.SetDefault("redis.enabled", false)
	v.SetDefault("kafka.enabled", false)

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_conns", 10)
	v.SetDefault("postgres.migrate_on_boot", true)

	v.SetDefault("storage.driver", "postgres")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.channel", "order_changes")

	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.notifications_topic", "notifications")
	v.SetDefault("kafka.audit_topic", "audit_logs")
	v.SetDefault("kafka.consumer_group", "notification-consumer")

	v.SetDefault("outbox.poll_interval", 2*time.Second)
	v.SetDefault("outbox.batch_size", 50)

	v.SetDefault("payment.timeout", 15*time.Second)

	v.SetDefault("lifecycle.operation_timeout", 30*time.Second)
	v.SetDefault("lifecycle.payment_poll_interval", 3*time.Second)
	v.SetDefault("lifecycle.payment_poll_max_attempts", 10)
	v.SetDefault("lifecycle.claimable_limit", 50)

	v.SetDefault("notifications.rate_per_second", 20.0)
	v.SetDefault("notifications.burst", 5)

	v.SetDefault("audit.workers", 2)
	v.SetDefault("audit.batch_size", 5)
	v.SetDefault("audit.flush_interval", 500*time.Millisecond)
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}
	switch c.Storage.Driver {
	case "postgres":
		if c.Postgres.User == "" || c.Postgres.DB == "" {
			return fmt.Errorf("postgres.user and postgres.db are required for the postgres driver")
		}
	case "memory":
	default:
		return fmt.Errorf("storage.driver must be postgres or memory, got %q", c.Storage.Driver)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if c.Auth.WebhookSecret == "" {
		return fmt.Errorf("auth.webhook_secret is required")
	}
	if c.Lifecycle.OperationTimeout <= 0 {
		return fmt.Errorf("lifecycle.operation_timeout must be positive")
	}
	if c.Lifecycle.PaymentPollMaxAttempts <= 0 || c.Lifecycle.PaymentPollInterval <= 0 {
		return fmt.Errorf("lifecycle payment polling must be bounded and positive")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers is required when kafka is enabled")
	}
	if c.HTTP.WriteTimeout > 0 &&
		time.Duration(c.Lifecycle.PaymentPollMaxAttempts)*c.Lifecycle.PaymentPollInterval >= c.HTTP.WriteTimeout {
		return fmt.Errorf("lifecycle payment polling must finish within http.write_timeout")
	}
	if c.Notification.RatePerSecond <= 0 {
		return fmt.Errorf("notifications.rate_per_second must be positive")
	}
	return nil
}

func loadEnv() {
	wd, err := os.Getwd()
	if err != nil {
		return
	}

	for _, dir := range []string{wd, filepath.Join(wd, ".."), filepath.Join(wd, "..", "..")} {
		for _, name := range []string{".env", ".example.env"} {
			envPath := filepath.Join(dir, name)
			if err := godotenv.Load(envPath); err == nil {
				log.Printf("Loaded environment variables from %s", envPath)
				return
			}
		}
	}
}
