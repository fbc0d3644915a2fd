package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App     AppConfig
	GPA     GPAConfig
	Crawler CrawlerConfig
	Cache   CacheConfig
	Redis   RedisConfig
	Kafka   KafkaConfig
	Observ  ObservabilityConfig
	Server  ServerConfig
}

type AppConfig struct {
	Env   string
	Debug bool
}

type GPAConfig struct {
	BaseURL string
	Timeout time.Duration
}

type CrawlerConfig struct {
	SourceFile string
	StoreState string
	RunID      string
}

type CacheConfig struct {
	Type string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	RunTTL   time.Duration
}

type KafkaConfig struct {
	Enabled        bool
	Brokers        []string
	TopicBestPrice string
}

type ObservabilityConfig struct {
	TracingEnabled bool
	JaegerEndpoint string
}

type ServerConfig struct {
	Port string
}

func Load() *Config {
	_ = godotenv.Load()

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	cfg := &Config{
		App: AppConfig{
			Env:   getEnv("APP_ENV", "development"),
			Debug: getBool("APP_DEBUG", getBool("DEBUG", false)),
		},
		GPA: GPAConfig{
			BaseURL: strings.TrimRight(getEnv("GPA_BASE_URL", "https://api.gpa.digital"), "/"),
			Timeout: getDuration("GPA_TIMEOUT", 30*time.Second),
		},
		Crawler: CrawlerConfig{
			SourceFile: getEnv("CRAWLER_SOURCE_FILE", "README.md"),
			StoreState: getEnv("CRAWLER_STORE_STATE", "DF"),
			RunID:      getEnv("CRAWLER_RUN_ID", ""),
		},
		Cache: CacheConfig{
			Type: getEnv("CACHE_TYPE", "memory"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
			RunTTL:   getDuration("REDIS_RUN_TTL", time.Hour),
		},
		Kafka: KafkaConfig{
			Enabled:        getBool("KAFKA_ENABLED", false),
			Brokers:        strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			TopicBestPrice: getEnv("KAFKA_TOPIC_BEST_PRICE", "best-price-events"),
		},
		Observ: ObservabilityConfig{
			TracingEnabled: getBool("TRACING_ENABLED", false),
			JaegerEndpoint: getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
	}

	if cfg.App.Debug {
		log.Printf("Config loaded: env=%s, gpa=%s, cache=%s", cfg.App.Env, cfg.GPA.BaseURL, cfg.Cache.Type)
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// getBool falls back to defaultValue on anything strconv.ParseBool rejects.
func getBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
