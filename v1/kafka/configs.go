package kafka

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	// DefaultMinBytes is the minimum batch size the broker should return.
	DefaultMinBytes = 1

	// DefaultMaxBytes is the maximum batch size the broker returns (10MB).
	DefaultMaxBytes = 10e6

	// DefaultMaxWait bounds how long a fetch waits for MinBytes to fill.
	DefaultMaxWait = 500 * time.Millisecond

	// DefaultStartOffset makes a fresh consumer group read the topic from the beginning.
	DefaultStartOffset = kafka.FirstOffset
)

// Config defines how the reader connects to Kafka.
//
// Without a GroupID the reader consumes a single partition and commits are
// no-ops. With a GroupID offsets are committed explicitly after each
// successful import batch.
type Config struct {
	// Brokers is a list of Kafka broker addresses.
	Brokers []string

	// Topic carries NDJSON vector records.
	Topic string

	// GroupID is the consumer group. Optional.
	GroupID string

	// Partition is used only when GroupID is empty.
	Partition int

	MinBytes int
	MaxBytes int
	MaxWait  time.Duration

	// StartOffset is kafka.FirstOffset or kafka.LastOffset.
	StartOffset int64

	TLS  TLSConfig
	SASL SASLConfig
}

// TLSConfig configures TLS for broker connections.
type TLSConfig struct {
	Enabled            bool
	CACertPath         string
	ClientCertPath     string
	ClientKeyPath      string
	InsecureSkipVerify bool
}

// SASLConfig configures SASL authentication.
type SASLConfig struct {
	Enabled bool

	// Mechanism is "PLAIN", "SCRAM-SHA-256" or "SCRAM-SHA-512".
	Mechanism string
	Username  string
	Password  string
}

// NewConfigFromEnv reads KAFKA_* variables. KAFKA_BROKERS is a comma
// separated list.
func NewConfigFromEnv() Config {
	cfg := Config{
		Topic:   os.Getenv("KAFKA_TOPIC"),
		GroupID: os.Getenv("KAFKA_GROUP_ID"),
	}
	for _, b := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		if b = strings.TrimSpace(b); b != "" {
			cfg.Brokers = append(cfg.Brokers, b)
		}
	}
	if mech := os.Getenv("KAFKA_SASL_MECHANISM"); mech != "" {
		cfg.SASL = SASLConfig{
			Enabled:   true,
			Mechanism: mech,
			Username:  os.Getenv("KAFKA_SASL_USERNAME"),
			Password:  os.Getenv("KAFKA_SASL_PASSWORD"),
		}
	}
	if ca := os.Getenv("KAFKA_TLS_CA_CERT"); ca != "" {
		cfg.TLS = TLSConfig{Enabled: true, CACertPath: ca}
	}
	return cfg
}

// Validate reports missing brokers or topic.
func (c Config) Validate() error {
	if len(c.Brokers) == 0 {
		return fmt.Errorf("kafka: at least one broker is required")
	}
	if c.Topic == "" {
		return fmt.Errorf("kafka: topic is required")
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.MinBytes == 0 {
		c.MinBytes = DefaultMinBytes
	}
	if c.MaxBytes == 0 {
		c.MaxBytes = DefaultMaxBytes
	}
	if c.MaxWait == 0 {
		c.MaxWait = DefaultMaxWait
	}
	if c.StartOffset == 0 {
		c.StartOffset = DefaultStartOffset
	}
	return c
}
