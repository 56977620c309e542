package health

import (
	"context"
	"fmt"
	"time"

	"github.com/hellofresh/health-go/v5"
	healthMongo "github.com/hellofresh/health-go/v5/checks/mongo"
	healthRedis "github.com/hellofresh/health-go/v5/checks/redis"
	"github.com/shopsphere/marketplace-api/internal/config"
	"github.com/shopsphere/marketplace-api/pkg/s3"
)

type Endpoints struct {
	BlobStore s3.BlobStore
}

func NewHealthHandler(cfg *config.Config, endpoints *Endpoints) (*health.Health, error) {

	h, err := health.New(
		health.WithComponent(health.Component{
			Name:    "marketplace-api",
			Version: "1.0.0",
		}),
		health.WithSystemInfo(),
		health.WithChecks(
			health.Config{
				Name:      "mongodb",
				Timeout:   3 * time.Second,
				SkipOnErr: false,
				Check: healthMongo.New(healthMongo.Config{
					DSN: cfg.Mongo.URI,
				}),
			},
			health.Config{
				Name:      "redis",
				Timeout:   2 * time.Second,
				SkipOnErr: false,
				Check: healthRedis.New(healthRedis.Config{
					DSN: cfg.RedisConnect.GetDSN(),
				}),
			},
			health.Config{
				Name:      "blob-store",
				Timeout:   5 * time.Second,
				SkipOnErr: false,
				Check: func(ctx context.Context) error {
					if endpoints.BlobStore == nil {
						return fmt.Errorf("blob store is not initialized")
					}

					if err := endpoints.BlobStore.HealthCheck(ctx); err != nil {
						return fmt.Errorf("failed to reach blob store: %w", err)
					}

					return nil
				},
			},
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create health instance: %w", err)
	}

	return h, nil
}
