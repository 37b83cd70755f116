package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServicePort   string
	MetricsPort   string
	Environment   string
	MongoDBConfig MongoDBConfig
	KafkaConfig   KafkaConfig
	TracingConfig TracingConfig
	HealthCheck   time.Duration
}

type MongoDBConfig struct {
	URI            string
	DBHost         string
	DBPort         string
	DBName         string
	CollectionName string
	// conditional replace on _etag
	OptimisticConcurrency bool
}

type KafkaConfig struct {
	BrokerAddress string
	BrokerTopic   string
}

type TracingConfig struct {
	CollectorHost string
}

func CreateNewConfig() *Config {
	godotenv.Load(".env")

	conf := Config{
		ServicePort: getEnv("SERVICE_PORT", "8080"),
		MetricsPort: getEnv("METRICS_PORT", "9090"),
		Environment: getEnv("ENVIRONMENT", "development"),
		MongoDBConfig: MongoDBConfig{
			URI:            os.Getenv("DB_URI"),
			DBHost:         getEnv("DB_HOST", "localhost"),
			DBPort:         getEnv("DB_PORT", "27017"),
			DBName:         getEnv("DB_NAME", "ProductDB"),
			CollectionName: getEnv("COLLECTION_NAME", "Products"),
		},
		KafkaConfig: KafkaConfig{
			BrokerAddress: os.Getenv("BROKER_ADDRESS"),
			BrokerTopic:   getEnv("BROKER_TOPIC", "product-quantity-events"),
		},
		TracingConfig: TracingConfig{
			CollectorHost: os.Getenv("COLLECTOR_HOST"),
		},
		HealthCheck: 30 * time.Second,
	}

	if v, err := strconv.ParseBool(os.Getenv("OPTIMISTIC_CONCURRENCY")); err == nil {
		conf.MongoDBConfig.OptimisticConcurrency = v
	}

	if v, err := strconv.Atoi(os.Getenv("HEALTH_CHECK_INTERVAL_SECONDS")); err == nil && v > 0 {
		conf.HealthCheck = time.Duration(v) * time.Second
	}

	return &conf
}

// ConnectionURI prefers DB_URI and falls back to DB_HOST/DB_PORT.
func (c MongoDBConfig) ConnectionURI() string {
	if c.URI != "" {
		return c.URI
	}
	return fmt.Sprintf("mongodb://%s:%s", c.DBHost, c.DBPort)
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
