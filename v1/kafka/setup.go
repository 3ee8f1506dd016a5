package kafka

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"sync"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"

	"github.com/Aleph-Alpha/cfvectorize/v1/observability"
)

// Logger is the logging interface used by the Kafka reader.
type Logger interface {
	Error(msg string, err error, fields ...map[string]interface{})
	WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}

// fetcher is the subset of *kafka.Reader the client uses.
type fetcher interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaClient consumes NDJSON vector records from a topic.
//
// KafkaClient implements the MessageReader interface.
type KafkaClient struct {
	cfg      Config
	reader   fetcher
	observer observability.Observer
	logger   Logger

	closeOnce sync.Once
	closeErr  error
}

var _ MessageReader = (*KafkaClient)(nil)

// NewClient creates a reader for cfg.Topic. No connection is made until
// the first Fetch.
//
// Example:
//
//	client, err := kafka.NewClient(kafka.Config{
//		Brokers: []string{"localhost:9092"},
//		Topic:   "vectors",
//		GroupID: "vectorize-import",
//	})
//	if err != nil {
//		return err
//	}
//	defer client.Close()
func NewClient(cfg Config) (*KafkaClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	dialer := &kafka.Dialer{DualStack: true}
	if cfg.TLS.Enabled {
		tlsConfig, err := createTLSConfig(cfg.TLS)
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS config: %w", err)
		}
		dialer.TLS = tlsConfig
	}
	if cfg.SASL.Enabled {
		mechanism, err := createSASLMechanism(cfg.SASL)
		if err != nil {
			return nil, fmt.Errorf("failed to create SASL mechanism: %w", err)
		}
		dialer.SASLMechanism = mechanism
	}

	k := &KafkaClient{cfg: cfg}
	k.reader = kafka.NewReader(k.readerConfig(dialer))
	return k, nil
}

func newClientWithFetcher(cfg Config, f fetcher) *KafkaClient {
	return &KafkaClient{cfg: cfg.withDefaults(), reader: f}
}

// WithObserver attaches an observer notified of every fetch and commit.
func (k *KafkaClient) WithObserver(observer observability.Observer) *KafkaClient {
	k.observer = observer
	return k
}

// WithLogger attaches a logger. It also receives the internal errors of
// the kafka-go reader.
func (k *KafkaClient) WithLogger(logger Logger) *KafkaClient {
	k.logger = logger
	return k
}

// Topic returns the consumed topic.
func (k *KafkaClient) Topic() string {
	return k.cfg.Topic
}

func (k *KafkaClient) readerConfig(dialer *kafka.Dialer) kafka.ReaderConfig {
	rc := kafka.ReaderConfig{
		Brokers:     k.cfg.Brokers,
		Topic:       k.cfg.Topic,
		GroupID:     k.cfg.GroupID,
		MinBytes:    k.cfg.MinBytes,
		MaxBytes:    k.cfg.MaxBytes,
		MaxWait:     k.cfg.MaxWait,
		StartOffset: k.cfg.StartOffset,
		Dialer:      dialer,
		// commits are explicit, after the batch reached Vectorize
		CommitInterval: 0,
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			if k.logger != nil {
				k.logger.Error("Kafka internal error", nil, map[string]interface{}{
					"error": fmt.Sprintf(msg, args...),
				})
			}
		}),
	}
	if k.cfg.GroupID == "" {
		rc.Partition = k.cfg.Partition
	}
	return rc
}

// Close closes the underlying reader. It is safe to call more than once.
func (k *KafkaClient) Close() error {
	k.closeOnce.Do(func() {
		k.closeErr = k.reader.Close()
	})
	return k.closeErr
}

func createTLSConfig(cfg TLSConfig) (*tls.Config, error) {
	tlsConfig := &tls.Config{
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	}

	if cfg.CACertPath != "" {
		caCert, err := os.ReadFile(cfg.CACertPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA cert: %w", err)
		}
		caCertPool := x509.NewCertPool()
		if !caCertPool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("failed to parse CA cert")
		}
		tlsConfig.RootCAs = caCertPool
	}

	if cfg.ClientCertPath != "" && cfg.ClientKeyPath != "" {
		cert, err := tls.LoadX509KeyPair(cfg.ClientCertPath, cfg.ClientKeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load client cert: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	return tlsConfig, nil
}

func createSASLMechanism(cfg SASLConfig) (sasl.Mechanism, error) {
	switch cfg.Mechanism {
	case "PLAIN":
		return plain.Mechanism{
			Username: cfg.Username,
			Password: cfg.Password,
		}, nil
	case "SCRAM-SHA-256":
		return scram.Mechanism(scram.SHA256, cfg.Username, cfg.Password)
	case "SCRAM-SHA-512":
		return scram.Mechanism(scram.SHA512, cfg.Username, cfg.Password)
	default:
		return nil, fmt.Errorf("unsupported SASL mechanism: %s", cfg.Mechanism)
	}
}
