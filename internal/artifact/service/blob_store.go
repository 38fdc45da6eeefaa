// Package service provides blob storage access for report artifacts using
// gocloud.dev/blob, so the bucket backend is selected by URL at deploy time.
package service

import (
	"context"
	"fmt"
	"io"

	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	artifactDomain "github.com/allisson/reportgate/internal/artifact/domain"

	// Register blob drivers so ARTIFACT_BUCKET_URL can select any of them.
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"
)

// BlobStore abstracts artifact blob storage.
type BlobStore interface {
	// Read opens the artifact for streaming. The caller must close the
	// reader. Returns ErrArtifactNotFound when the key does not exist.
	Read(ctx context.Context, key string) (io.ReadCloser, *artifactDomain.Artifact, error)

	// Write stores the artifact, replacing any existing blob under the key.
	Write(ctx context.Context, key, contentType string, data io.Reader) error

	// Delete removes the artifact. Returns ErrArtifactNotFound when the key
	// does not exist.
	Delete(ctx context.Context, key string) error

	// DeleteByPrefix removes every artifact under the prefix and returns the
	// number removed.
	DeleteByPrefix(ctx context.Context, prefix string) (int64, error)

	// Close releases the underlying bucket.
	Close() error
}

type blobStore struct {
	bucket *blob.Bucket
}

// NewBlobStore opens the bucket identified by bucketURL (e.g. "mem://",
// "file:///var/artifacts").
func NewBlobStore(ctx context.Context, bucketURL string) (BlobStore, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open artifact bucket: %w", err)
	}
	return &blobStore{bucket: bucket}, nil
}

func (b *blobStore) Read(ctx context.Context, key string) (io.ReadCloser, *artifactDomain.Artifact, error) {
	reader, err := b.bucket.NewReader(ctx, key, nil)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, nil, artifactDomain.ErrArtifactNotFound
		}
		return nil, nil, fmt.Errorf("failed to open artifact %q: %w", key, err)
	}

	artifact := &artifactDomain.Artifact{
		Size:        reader.Size(),
		ContentType: reader.ContentType(),
		UpdatedAt:   reader.ModTime(),
	}
	return reader, artifact, nil
}

func (b *blobStore) Write(ctx context.Context, key, contentType string, data io.Reader) error {
	writer, err := b.bucket.NewWriter(ctx, key, &blob.WriterOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("failed to open artifact writer for %q: %w", key, err)
	}

	if _, err := io.Copy(writer, data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write artifact %q: %w", key, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finish artifact %q: %w", key, err)
	}
	return nil
}

func (b *blobStore) Delete(ctx context.Context, key string) error {
	err := b.bucket.Delete(ctx, key)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return artifactDomain.ErrArtifactNotFound
		}
		return fmt.Errorf("failed to delete artifact %q: %w", key, err)
	}
	return nil
}

func (b *blobStore) DeleteByPrefix(ctx context.Context, prefix string) (int64, error) {
	iter := b.bucket.List(&blob.ListOptions{Prefix: prefix})

	var deleted int64
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return deleted, fmt.Errorf("failed to list artifacts under %q: %w", prefix, err)
		}
		if err := b.bucket.Delete(ctx, obj.Key); err != nil {
			return deleted, fmt.Errorf("failed to delete artifact %q: %w", obj.Key, err)
		}
		deleted++
	}
	return deleted, nil
}

func (b *blobStore) Close() error {
	return b.bucket.Close()
}
