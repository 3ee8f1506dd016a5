package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/cfvectorize/v1/ingest"
	"github.com/Aleph-Alpha/cfvectorize/v1/kafka"
	"github.com/Aleph-Alpha/cfvectorize/v1/logger"
	"github.com/Aleph-Alpha/cfvectorize/v1/minio"
	"github.com/Aleph-Alpha/cfvectorize/v1/observability"
	"github.com/Aleph-Alpha/cfvectorize/v1/qdrant"
	"github.com/Aleph-Alpha/cfvectorize/v1/vectorize"
)

type importOptions struct {
	index       string
	namespace   string
	upsert      bool
	batchSize   int
	concurrency int

	file             string
	minioBucket      string
	minioPrefix      string
	qdrantCollection string
	kafkaTopic       string
	kafkaGroup       string
	kafkaMaxMessages int

	create     bool
	dimensions int
	metric     string
}

type sourceKind string

const (
	sourceFile   sourceKind = "file"
	sourceMinio  sourceKind = "minio"
	sourceQdrant sourceKind = "qdrant"
	sourceKafka  sourceKind = "kafka"
)

// kind returns the single selected source.
func (o importOptions) kind() (sourceKind, error) {
	var kinds []sourceKind
	if o.file != "" {
		kinds = append(kinds, sourceFile)
	}
	if o.minioBucket != "" || o.minioPrefix != "" {
		kinds = append(kinds, sourceMinio)
	}
	if o.qdrantCollection != "" {
		kinds = append(kinds, sourceQdrant)
	}
	if o.kafkaTopic != "" {
		kinds = append(kinds, sourceKafka)
	}
	switch len(kinds) {
	case 0:
		return "", errors.New("one of --file, --minio-bucket/--minio-prefix, --qdrant-collection or --kafka-topic is required")
	case 1:
		return kinds[0], nil
	default:
		names := make([]string, len(kinds))
		for i, k := range kinds {
			names[i] = string(k)
		}
		return "", fmt.Errorf("only one source may be given, got %s", strings.Join(names, ", "))
	}
}

func (o importOptions) validate() error {
	if o.index == "" {
		return errors.New("--index is required")
	}
	if o.namespace != "" {
		if err := vectorize.ValidateNamespace(o.namespace); err != nil {
			return err
		}
	}
	if o.create {
		if err := vectorize.ValidateMetric(vectorize.Metric(o.metric)); err != nil {
			return err
		}
	}
	_, err := o.kind()
	return err
}

// sourceModules adds the client module the selected source needs.
func (o importOptions) sourceModules(kind sourceKind) fx.Option {
	switch kind {
	case sourceMinio:
		return fx.Options(
			fx.Provide(func() minio.Config {
				cfg := minio.NewConfigFromEnv()
				if o.minioBucket != "" {
					cfg.Connection.BucketName = o.minioBucket
				}
				return cfg
			}),
			minio.FXModule,
		)
	case sourceQdrant:
		return fx.Options(fx.Provide(qdrant.NewConfigFromEnv), qdrant.FXModule)
	case sourceKafka:
		return fx.Options(
			fx.Provide(func() kafka.Config {
				cfg := kafka.NewConfigFromEnv()
				cfg.Topic = o.kafkaTopic
				if o.kafkaGroup != "" {
					cfg.GroupID = o.kafkaGroup
				}
				return cfg
			}),
			kafka.FXModule,
		)
	}
	return fx.Options()
}

type importDeps struct {
	fx.In

	Client   *vectorize.Client
	Logger   logger.Logger
	Observer observability.Observer

	Objects  minio.ObjectReader  `optional:"true"`
	Scroller qdrant.Scroller     `optional:"true"`
	Messages kafka.MessageReader `optional:"true"`
}

func newImportCmd() *cobra.Command {
	var o importOptions

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Bulk-import vectors from a file, MinIO, Qdrant or Kafka",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.validate(); err != nil {
				return err
			}
			kind, _ := o.kind()

			var deps importDeps
			app := fx.New(
				fx.NopLogger,
				coreModules(false),
				o.sourceModules(kind),
				fx.Invoke(func(d importDeps) { deps = d }),
			)
			if err := app.Err(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := app.Start(ctx); err != nil {
				return err
			}
			defer func() { _ = app.Stop(context.Background()) }()

			report, err := o.run(ctx, kind, deps)
			if report != nil {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				_ = enc.Encode(report)
			}
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.index, "index", "", "Target Vectorize index")
	f.StringVar(&o.namespace, "namespace", "", "Namespace applied to records without one")
	f.BoolVar(&o.upsert, "upsert", false, "Upsert instead of insert")
	f.IntVar(&o.batchSize, "batch-size", vectorize.MaxBatchSize, "Vectors per request (max 1000)")
	f.IntVar(&o.concurrency, "concurrency", ingest.DefaultConcurrency, "Requests in flight")
	f.StringVar(&o.file, "file", "", "NDJSON file to import, - for stdin")
	f.StringVar(&o.minioBucket, "minio-bucket", "", "Bucket holding NDJSON objects (overrides MINIO_BUCKET)")
	f.StringVar(&o.minioPrefix, "minio-prefix", "", "Object key prefix")
	f.StringVar(&o.qdrantCollection, "qdrant-collection", "", "Qdrant collection to migrate")
	f.StringVar(&o.kafkaTopic, "kafka-topic", "", "Kafka topic carrying NDJSON records")
	f.StringVar(&o.kafkaGroup, "kafka-group", "", "Kafka consumer group (overrides KAFKA_GROUP_ID)")
	f.IntVar(&o.kafkaMaxMessages, "kafka-max-messages", 0, "Stop after this many messages, 0 to stop when idle")
	f.BoolVar(&o.create, "create", false, "Create the index when it does not exist")
	f.IntVar(&o.dimensions, "dimensions", 0, "Dimensions for --create; taken from the Qdrant collection when omitted")
	f.StringVar(&o.metric, "metric", string(vectorize.MetricCosine), "Metric for --create")
	return cmd
}

func (o importOptions) run(ctx context.Context, kind sourceKind, deps importDeps) (*ingest.Report, error) {
	src, err := o.openSource(kind, deps)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	if o.create {
		if err := o.ensureIndex(ctx, kind, deps); err != nil {
			return nil, err
		}
	}

	imp := &ingest.Importer{
		Client:      deps.Client,
		Index:       o.index,
		Namespace:   o.namespace,
		Upsert:      o.upsert,
		BatchSize:   o.batchSize,
		Concurrency: o.concurrency,
		Logger:      deps.Logger,
		Observer:    deps.Observer,
	}
	return imp.Run(ctx, src)
}

func (o importOptions) openSource(kind sourceKind, deps importDeps) (ingest.Source, error) {
	switch kind {
	case sourceFile:
		if o.file == "-" {
			return ingest.NewNDJSONSource(io.NopCloser(os.Stdin), o.batchSize), nil
		}
		f, err := os.Open(o.file)
		if err != nil {
			return nil, err
		}
		return ingest.NewNDJSONSource(f, o.batchSize), nil
	case sourceMinio:
		return ingest.NewMinioSource(deps.Objects, o.minioPrefix, o.batchSize), nil
	case sourceQdrant:
		return ingest.NewQdrantSource(deps.Scroller, o.qdrantCollection, o.batchSize), nil
	case sourceKafka:
		return ingest.NewKafkaSource(deps.Messages, o.kafkaMaxMessages), nil
	}
	return nil, fmt.Errorf("unknown source %q", kind)
}

func (o importOptions) ensureIndex(ctx context.Context, kind sourceKind, deps importDeps) error {
	dims := o.dimensions
	if dims == 0 && kind == sourceQdrant {
		col, err := deps.Scroller.GetCollection(ctx, o.qdrantCollection)
		if err != nil {
			return err
		}
		dims = col.VectorSize
	}
	if dims == 0 {
		return errors.New("--dimensions is required with --create")
	}
	adapter := vectorize.NewVectorDBAdapter(deps.Client, o.namespace).WithMetric(vectorize.Metric(o.metric))
	return adapter.EnsureCollection(ctx, o.index, uint64(dims))
}
