package qdrant

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/go-connections/nat"
	qdrant "github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

type QdrantContainer struct {
	testcontainers.Container
	Host string
	Port int
}

func setupQdrantContainer(ctx context.Context) (*QdrantContainer, error) {
	port, err := getFreePort()
	if err != nil {
		return nil, fmt.Errorf("could not get free port: %w", err)
	}
	portStr := strconv.Itoa(port)

	req := testcontainers.ContainerRequest{
		Image:        "qdrant/qdrant:v1.11.0",
		Env:          map[string]string{"QDRANT__SERVICE__GRPC_PORT": "6334"},
		ExposedPorts: []string{"6334/tcp"},
		HostConfigModifier: func(cfg *container.HostConfig) {
			cfg.PortBindings = nat.PortMap{"6334/tcp": []nat.PortBinding{{HostPort: portStr}}}
		},
		WaitingFor: wait.ForListeningPort("6334/tcp").WithStartupTimeout(60 * time.Second),
	}

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start qdrant container: %w", err)
	}
	host, err := c.Host(ctx)
	if err != nil {
		_ = c.Terminate(ctx)
		return nil, fmt.Errorf("failed to get host: %w", err)
	}
	// the gRPC listener accepts connections slightly before it serves
	time.Sleep(2 * time.Second)
	return &QdrantContainer{Container: c, Host: host, Port: port}, nil
}

func getFreePort() (int, error) {
	l, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}

func TestScrollIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	ctx := context.Background()

	qc, err := setupQdrantContainer(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = qc.Terminate(ctx) })

	var client *QdrantClient
	app := fxtest.New(t,
		fx.Provide(func() *Config {
			return FromEndpoint(qc.Host).WithPort(qc.Port).WithCompatibilityCheck(false).WithTimeout(10 * time.Second)
		}),
		FXModule,
		fx.Populate(&client),
	)
	app.RequireStart()
	defer app.RequireStop()

	const collection = "migrate_me"
	require.NoError(t, client.Client().CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     4,
			Distance: qdrant.Distance_Cosine,
		}),
	}))

	points := make([]*qdrant.PointStruct, 0, 7)
	for i := 1; i <= 7; i++ {
		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewIDNum(uint64(i)),
			Vectors: qdrant.NewVectors(float32(i), 0.1, 0.2, 0.3),
			Payload: qdrant.NewValueMap(map[string]any{"n": i, "lang": "en"}),
		})
	}
	_, err = client.Client().Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Wait:           qdrant.PtrOf(true),
		Points:         points,
	})
	require.NoError(t, err)

	col, err := client.GetCollection(ctx, collection)
	require.NoError(t, err)
	assert.Equal(t, 4, col.VectorSize)
	assert.Equal(t, "Cosine", col.Distance)
	assert.Equal(t, uint64(7), col.Points)

	var seen []string
	offset := ""
	pages := 0
	for {
		page, err := client.Scroll(ctx, collection, offset, 3)
		require.NoError(t, err)
		pages++
		for _, p := range page.Points {
			seen = append(seen, p.ID)
			assert.Len(t, p.Vector, 4)
			assert.Equal(t, "en", p.Payload["lang"])
		}
		if page.NextOffset == "" {
			break
		}
		offset = page.NextOffset
	}
	assert.Equal(t, 3, pages)
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6", "7"}, seen)
}
