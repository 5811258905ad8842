// Package artifact archives generated files in a gocloud blob bucket (file://, gs://, mem://).
package artifact

import (
	"context"
	"log/slog"

	"frutas/config"
	"frutas/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
	"gocloud.dev/gcerrors"
)

// ErrArtifactNotFound is returned by Get for missing keys.
var ErrArtifactNotFound = errors.New("artifact not found")

type blobStore struct {
	bucket *blob.Bucket
}

// Open opens the bucket URL and scopes every key under prefix.
func Open(ctx context.Context, bucketURL, prefix string) (service.ArtifactStore, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open bucket %s", bucketURL)
	}

	if prefix != "" {
		bucket = blob.PrefixedBucket(bucket, prefix)
	}

	return &blobStore{bucket: bucket}, nil
}

func (s *blobStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	err := s.bucket.WriteAll(ctx, key, data, &blob.WriterOptions{ContentType: contentType})

	return errors.Wrapf(err, "failed to write artifact %s", key)
}

func (s *blobStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.bucket.ReadAll(ctx, key)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, ErrArtifactNotFound
		}

		return nil, errors.Wrapf(err, "failed to read artifact %s", key)
	}

	return data, nil
}

func (s *blobStore) Close() error {
	return errors.WithStack(s.bucket.Close())
}

// noopStore is used when no bucket is configured.
type noopStore struct{}

func (noopStore) Put(context.Context, string, []byte, string) error { return nil }

func (noopStore) Get(context.Context, string) ([]byte, error) { return nil, ErrArtifactNotFound }

func (noopStore) Close() error { return nil }

// StoreParams holds dependencies for ArtifactStore, injected by Fx
type StoreParams struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// NewArtifactStore opens the configured bucket or falls back to a store that keeps nothing.
func NewArtifactStore(params StoreParams) (service.ArtifactStore, error) {
	cfg := params.Config.Artifacts
	if cfg == nil || cfg.BucketURL == "" {
		params.Logger.Info("Artifact bucket not configured, receipt QR images are not archived")

		return noopStore{}, nil
	}

	store, err := Open(params.Ctx, cfg.BucketURL, cfg.Prefix)
	if err != nil {
		return nil, err
	}

	params.Logger.Info("Artifact bucket opened",
		slog.String("bucket_url", cfg.BucketURL),
		slog.String("prefix", cfg.Prefix),
	)

	params.Lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return store.Close()
		},
	})

	return store, nil
}
