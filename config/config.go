package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port      int    `env:"PORT" envDefault:"3000"`
	PgURL     string `env:"PG_URL,required"`
	PgPoolMax int    `env:"PG_POOL_MAX" envDefault:"10"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	GatewayBaseURL        string        `env:"GATEWAY_BASE_URL,required"`
	GatewaySecretKey      string        `env:"GATEWAY_SECRET_KEY,required"`
	GatewayWebhookSecret  string        `env:"GATEWAY_WEBHOOK_SECRET,required"`
	GatewayLiveMode       bool          `env:"GATEWAY_LIVE_MODE" envDefault:"false"`
	GatewayTimeout        time.Duration `env:"GATEWAY_TIMEOUT" envDefault:"20s"`
	GatewayRetryAttempts  int           `env:"GATEWAY_RETRY_ATTEMPTS" envDefault:"3"`
	GatewayRetryBaseDelay time.Duration `env:"GATEWAY_RETRY_BASE_DELAY" envDefault:"200ms"`
	GatewayRetryMaxDelay  time.Duration `env:"GATEWAY_RETRY_MAX_DELAY" envDefault:"5s"`
	GatewayRateLimit      float64       `env:"GATEWAY_RATE_LIMIT" envDefault:"20"`
	GatewayRateBurst      int           `env:"GATEWAY_RATE_BURST" envDefault:"10"`
	GatewayFeeRate        string        `env:"GATEWAY_FEE_RATE" envDefault:"0.035"`
	Currency              string        `env:"CURRENCY" envDefault:"PHP"`

	// Webhook processing mode: "sync" (direct) or "kafka" (async via Kafka)
	WebhookMode      string        `env:"WEBHOOK_MODE" envDefault:"sync"`
	WebhookTolerance time.Duration `env:"WEBHOOK_TOLERANCE" envDefault:"5m"`

	KafkaBrokers                    []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaPaymentEventsTopic         string   `env:"KAFKA_PAYMENT_EVENTS_TOPIC" envDefault:"webhooks.payments"`
	KafkaPaymentEventsDLQTopic      string   `env:"KAFKA_PAYMENT_EVENTS_DLQ_TOPIC" envDefault:"webhooks.payments.dlq"`
	KafkaPaymentEventsConsumerGroup string   `env:"KAFKA_PAYMENT_EVENTS_CONSUMER_GROUP" envDefault:"marketplace-payments"`

	// Empty disables tag based cache invalidation.
	RedisURL string `env:"REDIS_URL"`

	// Empty disables the escrow search index.
	OpensearchUrls        []string `env:"OPENSEARCH_URLS" envSeparator:","`
	OpensearchIndexEscrow string   `env:"OPENSEARCH_INDEX_ESCROW" envDefault:"escrow-events"`

	CommissionRate       string        `env:"COMMISSION_RATE" envDefault:"0.05"`
	StaleLockWindow      time.Duration `env:"STALE_LOCK_WINDOW" envDefault:"10m"`
	QRPaymentExpiry      time.Duration `env:"QR_PAYMENT_EXPIRY" envDefault:"5m"`
	PaymentExpiry        time.Duration `env:"PAYMENT_EXPIRY" envDefault:"24h"`
	SweepInterval        time.Duration `env:"SWEEP_INTERVAL" envDefault:"1m"`
	InventoryMaxAttempts int           `env:"INVENTORY_MAX_ATTEMPTS" envDefault:"5"`
	SnowflakeNode        int64         `env:"SNOWFLAKE_NODE" envDefault:"1"`
}

func New() (Config, error) {
	c, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, err
	}

	return c, nil
}
