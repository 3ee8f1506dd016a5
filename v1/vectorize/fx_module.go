package vectorize

import (
	"context"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/cfvectorize/v1/observability"
)

// FXModule provides a *Client built from an injected *Config.
//
// Usage:
//
//	app := fx.New(
//	    logger.FXModule,
//	    metrics.FXModule,
//	    vectorize.FXModule,
//	    fx.Provide(vectorize.NewConfigFromEnv),
//	)
var FXModule = fx.Module("vectorize",
	fx.Provide(NewClientWithDI),
	fx.Invoke(RegisterVectorizeLifecycle),
)

// VectorizeParams groups the dependencies needed to create a client.
// Logger and Observer are optional.
type VectorizeParams struct {
	fx.In

	Config   *Config
	Logger   Logger                 `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

// NewClientWithDI creates a client from injected dependencies and attaches
// the logger and observer when present.
func NewClientWithDI(params VectorizeParams) (*Client, error) {
	client, err := NewClient(params.Config)
	if err != nil {
		return nil, err
	}
	if params.Logger != nil {
		client.WithLogger(params.Logger)
	}
	if params.Observer != nil {
		client.WithObserver(params.Observer)
	}
	return client, nil
}

type VectorizeLifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Client    *Client
	Logger    Logger `optional:"true"`
}

// RegisterVectorizeLifecycle logs client start and stop. The HTTP client
// holds no resources that need closing beyond idle connections.
func RegisterVectorizeLifecycle(params VectorizeLifecycleParams) {
	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if params.Logger != nil {
				params.Logger.DebugWithContext(ctx, "vectorize client ready", nil, map[string]interface{}{
					"account_id": params.Client.AccountID(),
				})
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			params.Client.httpClient.CloseIdleConnections()
			return nil
		},
	})
}
