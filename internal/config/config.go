package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	HTTPAddr string
	BaseURL  string
	LogLevel string

	MongoURI      string
	MongoDatabase string

	RedisAddr string
	CacheTTL  time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	RateLimit float64
	RateBurst int
}

// Load reads configuration from an optional config.yaml in the working
// directory, overridden by SHOP_* environment variables
// (e.g. SHOP_MONGO_URI, SHOP_HTTP_ADDR).
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.base_url", "http://localhost:8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("mongo.uri", "mongodb://127.0.0.1:27017")
	v.SetDefault("mongo.database", "ecommerce")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("cache.ttl", time.Minute)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic", "catalog-events")
	v.SetDefault("rate.limit", 20.0)
	v.SetDefault("rate.burst", 40)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	v.SetEnvPrefix("shop")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Config{
		HTTPAddr:      v.GetString("http.addr"),
		BaseURL:       v.GetString("http.base_url"),
		LogLevel:      v.GetString("log.level"),
		MongoURI:      v.GetString("mongo.uri"),
		MongoDatabase: v.GetString("mongo.database"),
		RedisAddr:     v.GetString("redis.addr"),
		CacheTTL:      v.GetDuration("cache.ttl"),
		KafkaBrokers:  v.GetStringSlice("kafka.brokers"),
		KafkaTopic:    v.GetString("kafka.topic"),
		RateLimit:     v.GetFloat64("rate.limit"),
		RateBurst:     v.GetInt("rate.burst"),
	}, nil
}
