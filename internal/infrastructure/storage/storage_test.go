package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/van-william/carbon-sub017/internal/infrastructure/config"
	"go.uber.org/zap/zaptest"
)

func testConfig(endpoint string) *config.StorageConfig {
	return &config.StorageConfig{
		Enabled:         true,
		Endpoint:        endpoint,
		Region:          "us-east-1",
		Bucket:          "carbon-documents",
		AccessKeyID:     "test-key",
		SecretAccessKey: "test-secret",
		UsePathStyle:    true,
	}
}

func TestNewS3Storage_Validation(t *testing.T) {
	ctx := context.Background()

	t.Run("nil config", func(t *testing.T) {
		_, err := NewS3Storage(ctx, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration is required")
	})

	t.Run("missing bucket", func(t *testing.T) {
		cfg := testConfig("http://localhost:9000")
		cfg.Bucket = ""
		_, err := NewS3Storage(ctx, cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket is required")
	})

	t.Run("missing credentials", func(t *testing.T) {
		cfg := testConfig("http://localhost:9000")
		cfg.SecretAccessKey = ""
		_, err := NewS3Storage(ctx, cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "credentials")
	})

	t.Run("valid config", func(t *testing.T) {
		s, err := NewS3Storage(ctx, testConfig("localhost:9000"), WithLogger(zaptest.NewLogger(t)))
		require.NoError(t, err)
		assert.Equal(t, "carbon-documents", s.Bucket())
		assert.Equal(t, 15*time.Minute, s.presignExpiration)
	})
}

func TestS3Storage_DownloadURL(t *testing.T) {
	s, err := NewS3Storage(context.Background(), testConfig("http://localhost:9000"), WithPresignExpiration(time.Hour))
	require.NoError(t, err)

	t.Run("requires key", func(t *testing.T) {
		_, _, err := s.DownloadURL(context.Background(), "", 0)
		require.Error(t, err)
	})

	t.Run("presigns a path style url", func(t *testing.T) {
		url, expiresAt, err := s.DownloadURL(context.Background(), "documents/c/quote/Q-1.pdf", 0)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(url, "http://localhost:9000/carbon-documents/documents/c/quote/Q-1.pdf?"))
		assert.Contains(t, url, "X-Amz-Signature=")
		assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)
	})
}

func TestS3Storage_Put(t *testing.T) {
	var (
		mu        sync.Mutex
		gotMethod string
		gotPath   string
		gotType   string
		gotBody   []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("ETag", `"abc"`)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s, err := NewS3Storage(context.Background(), testConfig(srv.URL))
	require.NoError(t, err)

	require.Error(t, s.Put(context.Background(), "", nil, "application/pdf"))

	err = s.Put(context.Background(), "documents/c/job/J-000001.pdf", []byte("%PDF-1.7"), "application/pdf")
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/carbon-documents/documents/c/job/J-000001.pdf", gotPath)
	assert.Equal(t, "application/pdf", gotType)
	assert.Contains(t, string(gotBody), "%PDF-1.7")
}

func TestMemoryStorage(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStorage()

	data := []byte("%PDF")
	require.NoError(t, m.Put(ctx, "a.pdf", data, "application/pdf"))
	data[0] = 'X'

	obj, ok := m.Get("a.pdf")
	require.True(t, ok)
	assert.Equal(t, "%PDF", string(obj.Data), "stored bytes are copied")
	assert.Equal(t, []string{"a.pdf"}, m.Keys())

	url, _, err := m.DownloadURL(ctx, "a.pdf", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "memory://a.pdf", url)

	_, _, err = m.DownloadURL(ctx, "missing.pdf", time.Minute)
	assert.Error(t, err)
	assert.Error(t, m.Put(ctx, "", data, ""))
}
