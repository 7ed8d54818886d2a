// Package blobstore persists the marketplace snapshot as one JSON document in a
// gocloud bucket (local directory, in-memory or GCS).
package blobstore

import (
	"context"
	"encoding/json"
	"log/slog"

	"market/config"
	"market/internal/domain/constants"
	"market/internal/domain/entity"
	"market/internal/domain/repository"
	"market/internal/errors"

	"go.uber.org/fx"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob" // file:// buckets
	_ "gocloud.dev/blob/gcsblob"  // gs:// buckets
	_ "gocloud.dev/blob/memblob"  // mem:// buckets
	"gocloud.dev/gcerrors"
)

const contentType = "application/json"

type snapshotStore struct {
	bucket *blob.Bucket
	key    string
}

// NewSnapshotStore stores the snapshot under key in bucket.
func NewSnapshotStore(bucket *blob.Bucket, key string) repository.SnapshotStore {
	return &snapshotStore{bucket: bucket, key: key}
}

func (s *snapshotStore) Load(ctx context.Context) (*entity.Snapshot, error) {
	data, err := s.bucket.ReadAll(ctx, s.key)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return entity.NewSnapshot(), nil
		}

		return nil, errors.Wrapf(err, "failed to read snapshot %q", s.key)
	}

	var snapshot entity.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, errors.Wrapf(err, "failed to decode snapshot %q", s.key)
	}

	return snapshot.Normalize(), nil
}

func (s *snapshotStore) Save(ctx context.Context, snapshot *entity.Snapshot) error {
	stored := *snapshot
	stored.Version = snapshot.Version + 1

	data, err := json.Marshal(&stored)
	if err != nil {
		return errors.Wrap(err, "failed to encode snapshot")
	}

	// WriteAll only replaces the object once the whole document is written.
	if err := s.bucket.WriteAll(ctx, s.key, data, &blob.WriterOptions{ContentType: contentType}); err != nil {
		return errors.Wrapf(err, "failed to write snapshot %q", s.key)
	}

	return nil
}

// BucketParams defines the dependencies of OpenBucket
type BucketParams struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// OpenBucket opens the configured bucket and closes it when the application stops.
func OpenBucket(params BucketParams) (*blob.Bucket, error) {
	ctx, cancel := context.WithTimeout(context.Background(), constants.LifecycleTimeout)
	defer cancel()

	bucket, err := blob.OpenBucket(ctx, params.Config.Storage.BlobURL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open bucket %q", params.Config.Storage.BlobURL)
	}

	params.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			params.Logger.Info("Closing snapshot bucket")

			return bucket.Close()
		},
	})

	return bucket, nil
}
