package artifacts

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cv-backend/internal/shared/storage/object/local"
)

type fakeRemote struct {
	putErr  error
	putURL  string
	puts    int
	buckets []string
	listErr error
}

func (f *fakeRemote) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	f.puts++
	if f.putErr != nil {
		return "", f.putErr
	}
	return f.putURL + "/" + key, nil
}

func (f *fakeRemote) ListBuckets(ctx context.Context) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.buckets, nil
}

func (f *fakeRemote) Bucket() string { return "cv-uploads" }

func TestSaveUnconfiguredFallsBackToLocal(t *testing.T) {
	localStore := local.New(t.TempDir(), "http://localhost:8080")
	store := New(nil, localStore)

	payload := []byte("%PDF-1.4 fake body")
	url, err := store.Save(context.Background(), payload, "123-resume.pdf", "application/pdf")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if url != "http://localhost:8080/uploads/123-resume.pdf" {
		t.Fatalf("unexpected url: %s", url)
	}

	// The key named by the returned URL must resolve to the same bytes that
	// were passed in.
	rc, err := localStore.Open(context.Background(), "123-resume.pdf")
	if err != nil {
		t.Fatalf("open fallback file: %v", err)
	}
	defer rc.Close()
	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read fallback file: %v", err)
	}
	if string(got) != string(payload) {
		t.Fatalf("fallback bytes differ: got %q", got)
	}
}

func TestSaveRemoteFailureFallsBackSilently(t *testing.T) {
	dir := t.TempDir()
	remote := &fakeRemote{putErr: errors.New("connection refused")}
	store := New(remote, local.New(dir, "http://localhost:8080"))

	url, err := store.Save(context.Background(), []byte("body"), "x.docx", "application/octet-stream")
	if err != nil {
		t.Fatalf("expected silent fallback, got error: %v", err)
	}
	if remote.puts != 1 {
		t.Fatalf("expected one remote attempt, got %d", remote.puts)
	}
	if !strings.Contains(url, "/uploads/x.docx") {
		t.Fatalf("expected local url, got %s", url)
	}
}

func TestSaveRemoteSuccessSkipsLocal(t *testing.T) {
	dir := t.TempDir()
	remote := &fakeRemote{putURL: "https://store.example/cv-uploads"}
	store := New(remote, local.New(dir, "http://localhost:8080"))

	url, err := store.Save(context.Background(), []byte("body"), "y.pdf", "application/pdf")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if url != "https://store.example/cv-uploads/y.pdf" {
		t.Fatalf("unexpected url: %s", url)
	}
	if _, err := os.Stat(filepath.Join(dir, "y.pdf")); !os.IsNotExist(err) {
		t.Fatalf("expected no local copy, stat err=%v", err)
	}
}

func TestSaveLocalFailureIsFatal(t *testing.T) {
	store := New(nil, failingLocal{})

	_, err := store.Save(context.Background(), []byte("body"), "z.pdf", "application/pdf")
	if !errors.Is(err, ErrPersistFailed) {
		t.Fatalf("expected ErrPersistFailed, got %v", err)
	}
}

type failingLocal struct{}

func (failingLocal) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	return "", errors.New("disk full")
}

func TestCheckConnection(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		store := New(nil, failingLocal{})
		status := store.CheckConnection(context.Background())
		if status.Status != StatusNotConfigured {
			t.Fatalf("expected %s, got %s", StatusNotConfigured, status.Status)
		}
	})

	t.Run("connected with bucket", func(t *testing.T) {
		remote := &fakeRemote{buckets: []string{"other", "cv-uploads"}}
		store := New(remote, failingLocal{})
		status := store.CheckConnection(context.Background())
		if status.Status != StatusConnected {
			t.Fatalf("expected %s, got %s", StatusConnected, status.Status)
		}
		if !status.BucketExists {
			t.Fatal("expected configured bucket to be reported as existing")
		}
		if status.BucketsCount != 2 {
			t.Fatalf("expected 2 buckets, got %d", status.BucketsCount)
		}
	})

	t.Run("list failure", func(t *testing.T) {
		remote := &fakeRemote{listErr: errors.New("403 forbidden")}
		store := New(remote, failingLocal{})
		status := store.CheckConnection(context.Background())
		if status.Status != StatusError {
			t.Fatalf("expected %s, got %s", StatusError, status.Status)
		}
		if status.Error == "" {
			t.Fatal("expected error detail")
		}
	})
}
