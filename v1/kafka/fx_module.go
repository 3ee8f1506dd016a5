package kafka

import (
	"context"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/cfvectorize/v1/observability"
)

// FXModule provides a *KafkaClient and its MessageReader interface and
// closes the reader on stop.
var FXModule = fx.Module("kafka",
	fx.Provide(
		NewClientWithDI,
		fx.Annotate(
			func(k *KafkaClient) MessageReader { return k },
			fx.As(new(MessageReader)),
		),
	),
	fx.Invoke(RegisterKafkaLifecycle),
)

// KafkaParams groups the dependencies needed to create a Kafka reader.
type KafkaParams struct {
	fx.In

	Config   Config
	Logger   Logger                 `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

func NewClientWithDI(p KafkaParams) (*KafkaClient, error) {
	client, err := NewClient(p.Config)
	if err != nil {
		return nil, err
	}
	if p.Logger != nil {
		client.WithLogger(p.Logger)
	}
	if p.Observer != nil {
		client.WithObserver(p.Observer)
	}
	return client, nil
}

// RegisterKafkaLifecycle closes the reader when the application stops.
func RegisterKafkaLifecycle(lc fx.Lifecycle, client *KafkaClient) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
}
