package qdrant

import (
	"context"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/cfvectorize/v1/observability"
)

// FXModule provides a *QdrantClient and its Scroller interface and closes
// the connection on stop.
var FXModule = fx.Module("qdrant",
	fx.Provide(
		NewClientWithDI,
		fx.Annotate(
			func(c *QdrantClient) Scroller { return c },
			fx.As(new(Scroller)),
		),
	),
	fx.Invoke(RegisterLifecycle),
)

// QdrantParams groups the dependencies needed to create a Qdrant client.
type QdrantParams struct {
	fx.In

	Config   *Config
	Logger   Logger                 `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

func NewClientWithDI(p QdrantParams) (*QdrantClient, error) {
	client, err := NewQdrantClient(p.Config)
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

// RegisterLifecycle closes the client when the application stops.
func RegisterLifecycle(lc fx.Lifecycle, client *QdrantClient) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if client.logger != nil {
				client.logger.InfoWithContext(ctx, "qdrant client connected", nil, map[string]interface{}{
					"endpoint": client.cfg.Endpoint,
				})
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
}
