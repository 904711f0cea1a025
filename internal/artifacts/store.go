package artifacts

import (
	"context"
	"errors"
	"fmt"

	"cv-backend/internal/shared/storage/object"
	"cv-backend/internal/shared/telemetry"
)

// ErrPersistFailed means the artifact could not be written anywhere, remote
// or local. It is fatal to the submission.
var ErrPersistFailed = errors.New("artifact persist failed")

// Connection status values reported by CheckConnection.
const (
	StatusNotConfigured = "not_configured"
	StatusConnected     = "connected"
	StatusError         = "error"
)

// RemoteStore is the durable remote tier. It may be absent entirely when the
// deployment has no object store credentials.
type RemoteStore interface {
	object.ObjectStore
	ListBuckets(ctx context.Context) ([]string, error)
	Bucket() string
}

// Store persists original uploads, preferring the remote tier and silently
// degrading to local disk. A remote failure never fails the submission; only
// a local write failure does.
type Store struct {
	remote RemoteStore
	local  object.ObjectStore
}

// New creates a Store. remote may be nil when no remote tier is configured.
func New(remote RemoteStore, local object.ObjectStore) *Store {
	return &Store{remote: remote, local: local}
}

// Save stores the artifact bytes under fileName and returns a resolvable URL.
// The caller guarantees fileName is unique per submission.
func (s *Store) Save(ctx context.Context, data []byte, fileName string, contentType string) (string, error) {
	if s.remote != nil {
		url, err := s.remote.Put(ctx, fileName, contentType, data)
		if err == nil {
			return url, nil
		}
		telemetry.Warn("artifacts.remote_failed", map[string]any{
			"file_name": fileName,
			"bucket":    s.remote.Bucket(),
			"err":       err.Error(),
		})
	} else {
		telemetry.Info("artifacts.remote_not_configured", map[string]any{
			"file_name": fileName,
		})
	}

	url, err := s.local.Put(ctx, fileName, contentType, data)
	if err != nil {
		return "", fmt.Errorf("%w: local fallback: %v", ErrPersistFailed, err)
	}
	telemetry.Info("artifacts.saved_locally", map[string]any{"file_name": fileName})
	return url, nil
}

// ConnectionStatus describes remote store reachability for health checks.
type ConnectionStatus struct {
	Status           string   `json:"status"`
	Message          string   `json:"message"`
	BucketsCount     int      `json:"bucketsCount,omitempty"`
	Buckets          []string `json:"buckets,omitempty"`
	ConfiguredBucket string   `json:"configuredBucket,omitempty"`
	BucketExists     bool     `json:"bucketExists"`
	Error            string   `json:"error,omitempty"`
}

// CheckConnection probes the remote tier by listing buckets. It never returns
// an error; failures are reported in the status payload.
func (s *Store) CheckConnection(ctx context.Context) ConnectionStatus {
	if s.remote == nil {
		return ConnectionStatus{
			Status:  StatusNotConfigured,
			Message: "remote object store not configured",
		}
	}

	buckets, err := s.remote.ListBuckets(ctx)
	if err != nil {
		return ConnectionStatus{
			Status:           StatusError,
			Message:          "object store connection test failed",
			ConfiguredBucket: s.remote.Bucket(),
			Error:            err.Error(),
		}
	}

	configured := s.remote.Bucket()
	exists := false
	for _, b := range buckets {
		if b == configured {
			exists = true
			break
		}
	}

	return ConnectionStatus{
		Status:           StatusConnected,
		Message:          "object store is accessible",
		BucketsCount:     len(buckets),
		Buckets:          buckets,
		ConfiguredBucket: configured,
		BucketExists:     exists,
	}
}
