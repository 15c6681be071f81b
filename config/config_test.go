package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadEnv_Defaults(t *testing.T) {
	cfg := LoadEnv()

	assert.Equal(t, DriverAppwrite, cfg.DocStore.Driver)
	assert.Equal(t, 5*time.Minute, cfg.Catalog.CategoryCacheTTL)
	assert.Equal(t, 100, cfg.Catalog.BestSellerBatchSize)
	assert.Equal(t, 60*time.Second, cfg.Notification.PollInterval)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Empty(t, cfg.Elastic.Addresses)
}

func TestLoadEnv_Overrides(t *testing.T) {
	t.Setenv("DOCSTORE_DRIVER", DriverPostgres)
	t.Setenv("NOTIFICATION_POLL_INTERVAL", "90")
	t.Setenv("CATEGORY_CACHE_TTL", "30s")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("APPWRITE_RPS", "2.5")
	t.Setenv("BEST_SELLER_BATCH_SIZE", "not-a-number")

	cfg := LoadEnv()

	assert.Equal(t, DriverPostgres, cfg.DocStore.Driver)
	assert.Equal(t, 90*time.Second, cfg.Notification.PollInterval)
	assert.Equal(t, 30*time.Second, cfg.Catalog.CategoryCacheTTL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 2.5, cfg.DocStore.RPS)
	assert.Equal(t, 100, cfg.Catalog.BestSellerBatchSize)
}
