package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DriverAppwrite = "appwrite"
	DriverPostgres = "postgres"
)

type Config struct {
	Server       ServerConfig
	Logger       LoggerConfig
	DocStore     DocStoreConfig
	Collections  CollectionsConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Kafka        KafkaConfig
	Elastic      ElasticsearchConfig
	Catalog      CatalogConfig
	Notification NotificationConfig
}

type ServerConfig struct {
	AppEnv          string
	HTTPPort        string
	GRPCPort        string
	ShutdownTimeout time.Duration
}

type LoggerConfig struct {
	Level             string
	Encoding          string
	DisableCaller     bool
	DisableStacktrace bool
}

// DocStoreConfig selects and configures the document store driver.
type DocStoreConfig struct {
	Driver     string
	Endpoint   string
	ProjectID  string
	APIKey     string
	DatabaseID string
	RPS        float64
	Burst      int
	Timeout    time.Duration
	// FileBaseURL is where the postgres driver serves stored files from.
	FileBaseURL string
}

type CollectionsConfig struct {
	Categories    string
	Products      string
	Notifications string
	ImageBucket   string
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

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// KafkaConfig is optional: no brokers means no stock listener and no status events.
type KafkaConfig struct {
	Brokers           []string
	StockTopic        string
	NotificationTopic string
	GroupID           string
}

type ElasticsearchConfig struct {
	Addresses    []string
	Username     string
	Password     string
	ProductIndex string
}

type CatalogConfig struct {
	CategoryCacheTTL    time.Duration
	BestSellerBatchSize int
}

type NotificationConfig struct {
	PollInterval time.Duration
	LockTTL      time.Duration
	BatchSize    int
}

func LoadEnv() *Config {
	return &Config{
		Server: ServerConfig{
			AppEnv:          getEnv("APP_ENV", "dev"),
			HTTPPort:        getEnv("HTTP_PORT", ":8080"),
			GRPCPort:        getEnv("GRPC_PORT", ":8082"),
			ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
		},
		Logger: LoggerConfig{
			Level:             getEnv("LOGGER_LEVEL", "debug"),
			Encoding:          getEnv("LOGGER_ENCODING", "console"),
			DisableCaller:     getEnvBool("LOGGER_DISABLE_CALLER", false),
			DisableStacktrace: getEnvBool("LOGGER_DISABLE_STACKTRACE", true),
		},
		DocStore: DocStoreConfig{
			Driver:      getEnv("DOCSTORE_DRIVER", DriverAppwrite),
			Endpoint:    getEnv("APPWRITE_ENDPOINT", "https://cloud.appwrite.io/v1"),
			ProjectID:   getEnv("APPWRITE_PROJECT_ID", ""),
			APIKey:      getEnv("APPWRITE_API_KEY", ""),
			DatabaseID:  getEnv("APPWRITE_DATABASE_ID", ""),
			RPS:         getEnvFloat("APPWRITE_RPS", 20),
			Burst:       getEnvInt("APPWRITE_BURST", 10),
			Timeout:     getEnvDuration("APPWRITE_TIMEOUT", 15*time.Second),
			FileBaseURL: getEnv("DOCSTORE_FILE_BASE_URL", "http://localhost:8080/files"),
		},
		Collections: CollectionsConfig{
			Categories:    getEnv("COLLECTION_CATEGORIES", "categories"),
			Products:      getEnv("COLLECTION_PRODUCTS", "products"),
			Notifications: getEnv("COLLECTION_NOTIFICATIONS", "product_notifications"),
			ImageBucket:   getEnv("BUCKET_CATEGORY_IMAGES", "category-images"),
		},
		Postgres: PostgresConfig{
			Host:            getEnv("POSTGRES_HOST", "localhost"),
			Port:            getEnv("POSTGRES_PORT", "5433"),
			User:            getEnv("POSTGRES_USER", "omnipos"),
			Password:        getEnv("POSTGRES_PASSWORD", "omnipos"),
			DBName:          getEnv("POSTGRES_DB", "omnipos_storefront"),
			SSLMode:         getEnv("POSTGRES_SSLMODE", "disable"),
			MaxOpenConns:    getEnvInt("POSTGRES_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("POSTGRES_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvInt("POSTGRES_CONN_MAX_LIFETIME", 300),
			ConnMaxIdleTime: getEnvInt("POSTGRES_CONN_MAX_IDLE_TIME", 60),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Brokers:           getEnvSlice("KAFKA_BROKERS", nil),
			StockTopic:        getEnv("KAFKA_TOPIC_STOCK", "inventory.events"),
			NotificationTopic: getEnv("KAFKA_TOPIC_NOTIFICATIONS", "storefront.notifications"),
			GroupID:           getEnv("KAFKA_GROUP_STOREFRONT", "storefront"),
		},
		Elastic: ElasticsearchConfig{
			Addresses:    getEnvSlice("ELASTICSEARCH_ADDRESSES", nil),
			Username:     getEnv("ELASTICSEARCH_USERNAME", ""),
			Password:     getEnv("ELASTICSEARCH_PASSWORD", ""),
			ProductIndex: getEnv("ELASTICSEARCH_PRODUCT_INDEX", "storefront_products"),
		},
		Catalog: CatalogConfig{
			CategoryCacheTTL:    getEnvDuration("CATEGORY_CACHE_TTL", 5*time.Minute),
			BestSellerBatchSize: getEnvInt("BEST_SELLER_BATCH_SIZE", 100),
		},
		Notification: NotificationConfig{
			PollInterval: getEnvDuration("NOTIFICATION_POLL_INTERVAL", 60*time.Second),
			LockTTL:      getEnvDuration("NOTIFICATION_LOCK_TTL", 30*time.Second),
			BatchSize:    getEnvInt("NOTIFICATION_SWEEP_BATCH_SIZE", 100),
		},
	}
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

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
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

// getEnvDuration accepts Go duration strings ("90s") or a bare number of seconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		if s, err := strconv.Atoi(value); err == nil {
			return time.Duration(s) * time.Second
		}
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	if value, ok := os.LookupEnv(key); ok {
		var out []string
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	}
	return fallback
}
