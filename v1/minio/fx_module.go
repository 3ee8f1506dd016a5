package minio

import (
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/cfvectorize/v1/observability"
)

// FXModule provides a *MinioClient and its ObjectReader interface from an
// injected Config.
var FXModule = fx.Module("minio",
	fx.Provide(
		NewClientWithDI,
		fx.Annotate(
			func(m *MinioClient) ObjectReader { return m },
			fx.As(new(ObjectReader)),
		),
	),
)

// MinioParams groups the dependencies needed to create a MinIO client.
type MinioParams struct {
	fx.In

	Config   Config
	Logger   Logger                 `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

// NewClientWithDI creates a MinIO client and attaches the optional logger
// and observer.
func NewClientWithDI(params MinioParams) (*MinioClient, error) {
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
