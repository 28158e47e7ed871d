package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultDatabaseURL = "shop.db"
	DefaultProductsURL = "http://dimensweb.uqac.ca/~jgnault/shops/products/"
	DefaultPaymentURL  = "http://dimensweb.uqac.ca/~jgnault/shops/pay/"
	DefaultOrderTopic  = "order_events"
	DefaultSearchIndex = "products"
	DefaultPayTimeout  = 10 * time.Second
	DefaultServerPort  = 8080
	DefaultServiceName = "shop"
)

type Config struct {
	ServiceName string
	LogLevel    string

	ServerPort int

	DatabaseURL string

	ProductsURL    string
	PaymentURL     string
	PaymentTimeout time.Duration

	KafkaBrokers []string
	OrderTopic   string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string
}

func Load() Config {
	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", DefaultServiceName),
		LogLevel:    os.Getenv("LOG_LEVEL"),

		ServerPort: EnvIntDefault("SERVER_PORT", DefaultServerPort),

		DatabaseURL: EnvDefault("DATABASE_URL", DefaultDatabaseURL),

		ProductsURL:    EnvDefault("PRODUCTS_URL", DefaultProductsURL),
		PaymentURL:     EnvDefault("PAYMENT_URL", DefaultPaymentURL),
		PaymentTimeout: EnvDurationDefault("PAYMENT_TIMEOUT", DefaultPayTimeout),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),
		OrderTopic:   EnvDefault("ORDER_EVENTS_TOPIC", DefaultOrderTopic),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", DefaultSearchIndex),
	}
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// EnvDurationDefault accepts Go durations ("10s") or a bare number of seconds.
func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return def
}
