package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Server       ServerConfig
	Logger       LoggerConfig
	Store        StoreConfig
	Postgres     PostgresConfig
	JWT          JWTConfig
	Redis        RedisConfig
	Kafka        KafkaConfig
	Elastic      ElasticsearchConfig
	Ledger       LedgerConfig
	Notification NotificationConfig
	Settings     SettingsConfig
	RateLimit    RateLimitConfig
	I18n         I18nConfig
}

type ServerConfig struct {
	AppEnv          string
	HTTPPort        string
	GRPCPort        string
	ShutdownTimeout int
}

type StoreConfig struct {
	Driver string // postgres, memory
}

type LoggerConfig struct {
	Level             string
	Encoding          string
	DisableCaller     bool
	DisableStacktrace bool
}

type PostgresConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	ConnMaxIdleTime int
}

type JWTConfig struct {
	SecretKey  string
	TTLMinutes int
}

type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Enabled     bool
	Brokers     []string
	AuthTopic   string
	OrdersTopic string
	GroupID     string
}

type ElasticsearchConfig struct {
	Enabled   bool
	Addresses []string
	Username  string
	Password  string
}

type LedgerConfig struct {
	CancellationRestocks bool
}

type NotificationConfig struct {
	QueueSize      int
	Workers        int
	WebhookTimeout int
}

type SettingsConfig struct {
	Path     string
	CacheTTL int
}

type RateLimitConfig struct {
	Notifications string
}

type I18nConfig struct {
	MessageFiles []string // extra go-i18n files layered over the embedded locales
}

func LoadEnv() *Config {
	// Basic config loading
	// In a real scenario, use structured config loader like viper or koanf
	return &Config{
		Server: ServerConfig{
			AppEnv:          getEnv("APP_ENV", "dev"),
			HTTPPort:        getEnv("HTTP_PORT", ":8080"),
			GRPCPort:        getEnv("GRPC_PORT", ":8082"),
			ShutdownTimeout: getEnvInt("SHUTDOWN_TIMEOUT", 10),
		},
		Logger: LoggerConfig{
			Level:             getEnv("LOGGER_LEVEL", "debug"),
			Encoding:          getEnv("LOGGER_ENCODING", "console"),
			DisableCaller:     getEnvBool("LOGGER_DISABLE_CALLER", false),
			DisableStacktrace: getEnvBool("LOGGER_DISABLE_STACKTRACE", true),
		},
		Store: StoreConfig{
			Driver: getEnv("STORE_DRIVER", "postgres"),
		},
		Postgres: PostgresConfig{
			Host:            getEnv("POSTGRES_HOST", "localhost"),
			Port:            getEnv("POSTGRES_PORT", "5432"),
			User:            getEnv("POSTGRES_USER", "wms"),
			Password:        getEnv("POSTGRES_PASSWORD", "wms"),
			DBName:          getEnv("POSTGRES_DB", "wms"),
			SSLMode:         getEnv("POSTGRES_SSLMODE", "disable"),
			MaxOpenConns:    getEnvInt("POSTGRES_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("POSTGRES_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvInt("POSTGRES_CONN_MAX_LIFETIME", 300),
			ConnMaxIdleTime: getEnvInt("POSTGRES_CONN_MAX_IDLE_TIME", 60),
		},
		JWT: JWTConfig{
			SecretKey:  getEnv("JWT_SECRET_KEY", "your-secret-key-change-this-in-prod"),
			TTLMinutes: getEnvInt("JWT_TTL_MINUTES", 60),
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", true),
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Enabled:     getEnvBool("KAFKA_ENABLED", true),
			Brokers:     getEnvSlice("KAFKA_BROKERS", []string{"localhost:9092"}),
			AuthTopic:   getEnv("KAFKA_TOPIC_AUTH", "auth.events"),
			OrdersTopic: getEnv("KAFKA_TOPIC_ORDERS", "wms.orders"),
			GroupID:     getEnv("KAFKA_GROUP_NOTIFICATION", "wms-notification"),
		},
		Elastic: ElasticsearchConfig{
			Enabled:   getEnvBool("ELASTICSEARCH_ENABLED", true),
			Addresses: getEnvSlice("ELASTICSEARCH_ADDRESSES", []string{"http://localhost:9200"}),
			Username:  getEnv("ELASTICSEARCH_USERNAME", ""),
			Password:  getEnv("ELASTICSEARCH_PASSWORD", ""),
		},
		Ledger: LedgerConfig{
			CancellationRestocks: getEnvBool("LEDGER_CANCELLATION_RESTOCKS", false),
		},
		Notification: NotificationConfig{
			QueueSize:      getEnvInt("NOTIFICATION_QUEUE_SIZE", 256),
			Workers:        getEnvInt("NOTIFICATION_WORKERS", 1),
			WebhookTimeout: getEnvInt("WEBHOOK_TIMEOUT", 5),
		},
		Settings: SettingsConfig{
			Path:     getEnv("SETTINGS_PATH", "data/settings.json"),
			CacheTTL: getEnvInt("SETTINGS_CACHE_TTL", 300),
		},
		RateLimit: RateLimitConfig{
			Notifications: getEnv("RATE_LIMIT_NOTIFICATIONS", "10-M"),
		},
		I18n: I18nConfig{
			MessageFiles: getEnvSlice("I18N_MESSAGE_FILES", nil),
		},
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	if value, ok := os.LookupEnv(key); ok {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return fallback
}
