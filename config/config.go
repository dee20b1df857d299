package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

// Config holds the runtime settings read from the environment. Tunables that
// rarely change live in constants.go instead.
type Config struct {
	Port string

	PostgresDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	KafkaBrokers    []string
	KafkaAlertTopic string

	CronSpec    string
	SourcesFile string

	DeduplicationEnabled bool
	SimilarityThreshold  float64
	MaxFailureCount      int
}

// Load reads the environment and applies defaults. Call godotenv.Load first
// in mains so a local .env is picked up.
func Load() *Config {
	cfg := &Config{
		Port:                 GetEnvOrDefault("PORT", "8080"),
		PostgresDSN:          os.Getenv("POSTGRES_DSN"),
		RedisAddr:            os.Getenv("REDIS_ADDR"),
		RedisPassword:        os.Getenv("REDIS_PASS"),
		RedisDB:              getEnvInt("REDIS_DB", 0),
		KafkaAlertTopic:      GetEnvOrDefault("KAFKA_ALERT_TOPIC", "source-alerts"),
		CronSpec:             GetEnvOrDefault("CRON_SPEC", "0 */2 * * *"),
		SourcesFile:          os.Getenv("SOURCES_FILE"),
		DeduplicationEnabled: GetEnvOrDefault("DEDUPLICATION_ENABLED", "true") != "false",
		SimilarityThreshold:  getEnvFloat("DEDUPLICATION_SIMILARITY_THRESHOLD", SimilarityThreshold),
		MaxFailureCount:      getEnvInt("MONITORING_MAX_FAILURE_COUNT", MaxFailureCount),
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	log.Printf("config loaded: port=%s cron=%q dedup=%t", cfg.Port, cfg.CronSpec, cfg.DeduplicationEnabled)
	return cfg
}

// GetEnvOrDefault returns the environment variable value or a default.
func GetEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("Warning: invalid %s=%q, using %d", key, v, def)
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("Warning: invalid %s=%q, using %g", key, v, def)
	}
	return def
}
