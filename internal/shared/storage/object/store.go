package object

import "context"

// ObjectStore persists binary artifacts under a caller-chosen key and returns
// a URL the stored bytes can later be resolved from.
type ObjectStore interface {
	Put(ctx context.Context, key string, contentType string, data []byte) (url string, err error)
}
