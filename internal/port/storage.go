package port

import "context"

// ObjectStorage abstracts read access to the bucket holding original uploads.
type ObjectStorage interface {
	Download(ctx context.Context, bucket, key string) ([]byte, error)
}
