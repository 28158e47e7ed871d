package config

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/Skotchmaster/order_shop/pkg/config"
)

type ServiceConfig struct {
	config.Config
}

// Load reads envFile when it exists, then the process environment. Variables
// already set in the environment win over the file.
func Load(envFile string) ServiceConfig {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			log.Printf("notice: %s not loaded (%v), using process environment", envFile, err)
		}
	}

	cfg := config.Load()

	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmpty(cfg.ProductsURL, "PRODUCTS_URL")
	config.MustNonEmpty(cfg.PaymentURL, "PAYMENT_URL")
	config.MustPositive(cfg.PaymentTimeout, "PAYMENT_TIMEOUT")

	return ServiceConfig{Config: cfg}
}

// SearchEnabled reports whether products are searched through Elasticsearch.
func (c ServiceConfig) SearchEnabled() bool {
	return c.ESURL != ""
}

// EventsEnabled reports whether order events go to Kafka.
func (c ServiceConfig) EventsEnabled() bool {
	return len(c.KafkaBrokers) > 0
}
