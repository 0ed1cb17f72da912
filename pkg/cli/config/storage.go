package config

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mopc-lab/expropia/pkg/service/storage"
	"github.com/mopc-lab/expropia/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Storage holds CLI flags for document storage configuration
type Storage struct {
	backend string
	bucket  string
}

func (x *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "storage-backend",
			Usage:       "Document storage backend type (gcs or memory)",
			Category:    "Storage",
			Value:       "gcs",
			Sources:     cli.EnvVars("EXPROPIA_STORAGE_BACKEND"),
			Destination: &x.backend,
		},
		&cli.StringFlag{
			Name:        "storage-bucket",
			Usage:       "GCS bucket for document bodies (required when using gcs backend)",
			Category:    "Storage",
			Sources:     cli.EnvVars("EXPROPIA_STORAGE_BUCKET"),
			Destination: &x.bucket,
		},
	}
}

// Configure initializes and returns a storage service based on the
// configured backend. The caller is responsible for calling Close() on the
// returned service.
func (x *Storage) Configure(ctx context.Context) (storage.Service, error) {
	switch x.backend {
	case "gcs":
		if x.bucket == "" {
			return nil, goerr.New("storage-bucket is required when using gcs backend")
		}
		svc, err := storage.NewGCS(ctx, x.bucket)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize GCS storage")
		}
		logging.Default().Info("Using GCS document storage", "bucket", x.bucket)
		return svc, nil

	case "memory":
		logging.Default().Info("Using in-memory document storage (development mode)")
		return storage.NewMemory(), nil

	default:
		return nil, goerr.New("invalid storage backend", goerr.V("backend", x.backend))
	}
}
