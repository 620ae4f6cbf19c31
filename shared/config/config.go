package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Base holds the sections every service reads.
type Base struct {
	ServiceName string    `mapstructure:"service_name"`
	Env         string    `mapstructure:"env"`
	Port        string    `mapstructure:"port"`
	Log         Log       `mapstructure:"log"`
	Database    Database  `mapstructure:"database"`
	AWS         AWS       `mapstructure:"aws"`
	Redis       Redis     `mapstructure:"redis"`
	Telemetry   Telemetry `mapstructure:"telemetry"`
	Outbox      Outbox    `mapstructure:"outbox"`
}

type Log struct {
	Level     string `mapstructure:"level"`
	Format    string `mapstructure:"format"`
	WarnStack bool   `mapstructure:"warn_stack"`
}

type Database struct {
	URL             string        `mapstructure:"url"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

type AWS struct {
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"`
	SNSTopicArn     string `mapstructure:"sns_topic_arn"`
	SQSQueueURL     string `mapstructure:"sqs_queue_url"`
	SQSDLQURL       string `mapstructure:"sqs_dlq_url"`
	SQSWorkers      int32  `mapstructure:"sqs_workers"`
	SQSMaxReceives  int32  `mapstructure:"sqs_max_receives"`
}

type Redis struct {
	URL            string        `mapstructure:"url"`
	Address        string        `mapstructure:"address"`
	Password       string        `mapstructure:"password"`
	DB             int           `mapstructure:"db"`
	PoolSize       int           `mapstructure:"pool_size"`
	IdempotencyTTL time.Duration `mapstructure:"idempotency_ttl"`
	ClaimTTL       time.Duration `mapstructure:"claim_ttl"`
}

// Enabled reports whether a Redis endpoint is configured.
func (r Redis) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type Telemetry struct {
	Enabled      bool   `mapstructure:"enabled"`
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
}

type Outbox struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
	BatchSize    int           `mapstructure:"batch_size"`
	// Retention is how long published events are kept; zero keeps them forever.
	Retention    time.Duration `mapstructure:"retention"`
}

// Options describes where a service keeps its configuration files.
type Options struct {
	ServiceName string
	// EnvPrefix namespaces environment overrides, e.g. ORDERING_DATABASE_HOST.
	EnvPrefix string
	// Dir is the directory holding <environment>.json.
	Dir         string
	DefaultPort string
	// Defaults are applied after the shared defaults.
	Defaults map[string]interface{}
}

// Read loads <ENVIRONMENT>.json from opts.Dir into out, with environment
// variables taking precedence over the file and defaults filling the gaps.
func Read(opts Options, out interface{}) error {
	v := viper.New()
	v.SetConfigName(configName())
	v.SetConfigType("json")
	v.AddConfigPath(opts.Dir)

	v.SetEnvPrefix(opts.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, opts)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := v.Unmarshal(out); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}

	return nil
}

func configName() string {
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		return "local"
	}
	return env
}

func setDefaults(v *viper.Viper, opts Options) {
	v.SetDefault("service_name", opts.ServiceName)
	v.SetDefault("env", getEnv("ENV", "local"))
	v.SetDefault("port", getEnv("PORT", opts.DefaultPort))

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", getEnv("LOG_FORMAT", "json"))
	v.SetDefault("log.warn_stack", false)

	v.SetDefault("database.url", os.Getenv("DATABASE_URL"))
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.database", "orders")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.auto_migrate", false)

	v.SetDefault("aws.access_key_id", getEnv("AWS_ACCESS_KEY_ID", "test"))
	v.SetDefault("aws.secret_access_key", getEnv("AWS_SECRET_ACCESS_KEY", "test"))
	v.SetDefault("aws.region", getEnv("AWS_DEFAULT_REGION", "us-east-1"))
	v.SetDefault("aws.endpoint", getEnv("AWS_ENDPOINT_URL", ""))
	v.SetDefault("aws.sns_topic_arn", "arn:aws:sns:us-east-1:000000000000:order-events")
	v.SetDefault("aws.sqs_queue_url", "")
	v.SetDefault("aws.sqs_dlq_url", "")
	v.SetDefault("aws.sqs_workers", 16)
	v.SetDefault("aws.sqs_max_receives", 5)

	v.SetDefault("redis.url", os.Getenv("REDIS_URL"))
	v.SetDefault("redis.address", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.idempotency_ttl", "24h")
	v.SetDefault("redis.claim_ttl", "5m")

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.otlp_endpoint", "localhost:4318")

	v.SetDefault("outbox.poll_interval", "500ms")
	v.SetDefault("outbox.batch_size", 50)
	v.SetDefault("outbox.retention", "168h")

	for key, value := range opts.Defaults {
		v.SetDefault(key, value)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// DatabaseURL returns the configured URL or builds one from the individual fields.
func (d Database) DatabaseURL() string {
	if d.URL != "" {
		return d.URL
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
		d.SSLMode,
	)
}
