// Package kafka provides a consumer for NDJSON vector records published to
// an Apache Kafka topic.
//
// Each message value holds one or more NDJSON lines. The ingest package
// decodes them and commits offsets only after the vectors were accepted by
// Vectorize, so a failed import is replayed on the next run.
//
// Basic Usage:
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
//
//	msg, err := client.Fetch(ctx)
//	if err != nil {
//		return err
//	}
//	// decode msg.Value and write it
//	_ = client.Commit(ctx, msg)
//
// FX Module Integration:
//
//	app := fx.New(
//		fx.Provide(kafka.NewConfigFromEnv),
//		kafka.FXModule,
//		fx.Invoke(func(r kafka.MessageReader) {
//			// use r
//		}),
//	)
//
// Authentication:
//
// SASL PLAIN and SCRAM-SHA-256/512 are supported through SASLConfig, TLS
// with custom CA and client certificates through TLSConfig.
//
// Thread Safety:
//
// Fetch and Commit may be called from different goroutines. Close is
// idempotent.
package kafka
