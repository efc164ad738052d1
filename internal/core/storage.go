package core

import (
	"context"
	"fmt"
	"time"

	"tailorbook/internal/blob"
	"tailorbook/internal/config"
	"tailorbook/internal/infra/persistence/memory"
	"tailorbook/internal/infra/persistence/postgres"
	"tailorbook/internal/infra/persistence/sqlite"
	"tailorbook/pkg/domain"
)

// OpenPersistentStore builds the store selected by cfg.Storage. The
// configured company profile seeds fresh stores; opts are applied after it.
func OpenPersistentStore(ctx context.Context, cfg config.Config, engine *domain.RulesEngine, opts ...memory.Option) (domain.PersistentStore, error) {
	all := append([]memory.Option{memory.WithCompanyInfo(domain.CompanyInfo{Name: cfg.CompanyName, Logo: cfg.CompanyLogo})}, opts...)
	switch cfg.Storage {
	case "", config.StorageMemory:
		return memory.NewStore(engine, all...), nil
	case config.StorageSQLite:
		return sqlite.NewStore(cfg.SQLitePath, engine, all...)
	case config.StoragePostgres:
		return postgres.NewStore(ctx, cfg.PostgresDSN, engine, all...)
	default:
		return nil, fmt.Errorf("unknown storage driver %s", cfg.Storage)
	}
}

// OpenImageStore builds the gallery image store selected by cfg.Blob. It
// returns a nil store when image storage is disabled.
func OpenImageStore(ctx context.Context, cfg config.Config) (blob.Store, error) {
	return blob.Open(ctx, blob.Config{
		Driver: blob.Driver(cfg.Blob.Driver),
		FSRoot: cfg.Blob.FSRoot,
		S3: blob.S3Config{
			Bucket:    cfg.Blob.S3Bucket,
			Region:    cfg.Blob.S3Region,
			Endpoint:  cfg.Blob.S3Endpoint,
			PathStyle: cfg.Blob.S3PathStyle,
		},
	})
}

// imageURLTTL bounds presigned image links when the config leaves it unset.
const imageURLTTL = 15 * time.Minute
