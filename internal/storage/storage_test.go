package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sleeplog/apiserver/config"
)

func TestOpen(t *testing.T) {
	backend, err := Open(context.Background(), config.StorageConfig{})
	require.NoError(t, err)
	assert.Nil(t, backend)

	_, err = Open(context.Background(), config.StorageConfig{Backend: "ftp"})
	assert.Error(t, err)

	_, err = Open(context.Background(), config.StorageConfig{Backend: "minio"})
	assert.Error(t, err)

	_, err = Open(context.Background(), config.StorageConfig{Backend: "s3"})
	assert.Error(t, err)
}

// fakeS3 serves path-style object requests for a single bucket.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string]string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := strings.TrimPrefix(r.URL.Path, "/exports/")
	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[key] = string(body)
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		body, ok := f.objects[key]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestS3(t *testing.T) *S3Client {
	t.Helper()
	srv := httptest.NewServer(&fakeS3{objects: map[string]string{"present.json": `{"ok":true}`}})
	t.Cleanup(srv.Close)

	client, err := NewS3Client(context.Background(), config.S3Config{
		Endpoint:  srv.URL,
		Region:    "us-east-1",
		AccessKey: "key",
		SecretKey: "secret",
		Bucket:    "exports",
	})
	require.NoError(t, err)
	return client
}

func TestS3Client_Get(t *testing.T) {
	client := newTestS3(t)

	body, err := client.Get(context.Background(), "present.json")
	require.NoError(t, err)
	defer body.Close()
	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(data))

	_, err = client.Get(context.Background(), "missing.json")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestStorage_PutBytes(t *testing.T) {
	client := newTestS3(t)
	store := NewStorage(client)
	ctx := context.Background()

	require.NoError(t, store.PutBytes(ctx, "new.json", []byte(`{"n":1}`), "application/json"))

	body, err := store.Get(ctx, "new.json")
	require.NoError(t, err)
	defer body.Close()
	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":1}`, string(data))
}

type closingBackend struct {
	ObjectStorage
	closed int
}

func (b *closingBackend) Close() error {
	b.closed++
	return nil
}

func TestStorage_Close(t *testing.T) {
	backend := &closingBackend{}
	require.NoError(t, NewStorage(backend).Close())
	assert.Equal(t, 1, backend.closed)

	assert.NoError(t, NewStorage(newTestS3(t)).Close())
}
