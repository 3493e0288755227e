package s3store

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/materialhub-backend/internal/platform/logger"
)

func newTestStore(t *testing.T, cfg Config) *Store {
	t.Helper()
	t.Setenv("AWS_CONFIG_FILE", "/dev/null")
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", "/dev/null")
	s, err := New(context.Background(), logger.Nop(), cfg)
	require.NoError(t, err)
	return s
}

func TestPresignUploadAgainstCompatibleEndpoint(t *testing.T) {
	s := newTestStore(t, Config{
		Bucket:          "files",
		Region:          "us-east-1",
		Endpoint:        "http://minio:9000/",
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
	})

	raw, err := s.PresignUpload(context.Background(), "files/u1/a1/notes.pdf", "application/pdf", 10*time.Minute)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "minio:9000", u.Host)
	assert.Equal(t, "/files/files/u1/a1/notes.pdf", u.Path)
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
	assert.Equal(t, "600", u.Query().Get("X-Amz-Expires"))
}

func TestPublicURL(t *testing.T) {
	s := newTestStore(t, Config{Bucket: "files", Region: "eu-west-1", AccessKeyID: "a", SecretAccessKey: "b"})
	assert.Equal(t, "https://files.s3.eu-west-1.amazonaws.com/files/u1/a%20b.png", s.PublicURL("/files/u1/a b.png"))

	s = newTestStore(t, Config{Bucket: "files", Region: "eu-west-1", Endpoint: "http://minio:9000", AccessKeyID: "a", SecretAccessKey: "b"})
	assert.Equal(t, "http://minio:9000/files/x.png", s.PublicURL("x.png"))

	s = newTestStore(t, Config{Bucket: "files", Region: "eu-west-1", PublicBase: "https://cdn.example.com/", AccessKeyID: "a", SecretAccessKey: "b"})
	assert.Equal(t, "https://cdn.example.com/x.png", s.PublicURL("x.png"))
}

func TestNewRequiresBucket(t *testing.T) {
	_, err := New(context.Background(), logger.Nop(), Config{Region: "us-east-1"})
	assert.Error(t, err)
}
