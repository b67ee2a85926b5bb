package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBucket is a minimal path-style S3 endpoint holding objects in memory.
type fakeBucket struct {
	mu      sync.Mutex
	objects map[string]string
	putErr  bool
}

func (b *fakeBucket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	key := strings.TrimPrefix(r.URL.Path, "/drops/")
	switch r.Method {
	case http.MethodHead:
		if _, ok := b.objects[key]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case http.MethodPut:
		if b.putErr {
			w.WriteHeader(http.StatusForbidden)
			_, _ = io.WriteString(w, `<Error><Code>AccessDenied</Code><Message>denied</Message></Error>`)
			return
		}
		body, _ := io.ReadAll(r.Body)
		b.objects[key] = string(body)
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestS3Store(t *testing.T, bucket *fakeBucket) (*S3Store, string) {
	t.Helper()
	srv := httptest.NewServer(bucket)
	t.Cleanup(srv.Close)

	base := t.TempDir()
	s, err := NewS3Store(context.Background(), S3Config{
		Region:       "us-east-1",
		AccessKey:    "minio",
		SecretKey:    "minio-secret",
		Bucket:       "drops",
		BaseEndpoint: srv.URL,
		BasePath:     base,
	})
	require.NoError(t, err)
	s.tempDir = t.TempDir()
	return s, base
}

func TestS3Store_SaveAndExists(t *testing.T) {
	bucket := &fakeBucket{objects: map[string]string{}}
	s, base := newTestS3Store(t, bucket)
	ctx := context.Background()
	folder := filepath.Join(base, "team", "inbox")

	ok, err := s.Exists(ctx, folder, "report.pdf")
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := s.Save(ctx, folder, "report.pdf", strings.NewReader("pdf-bytes"))
	require.NoError(t, err)
	assert.Equal(t, int64(9), n)
	assert.Contains(t, bucket.objects["team/inbox/report.pdf"], "pdf-bytes")

	ok, err = s.Exists(ctx, folder, "report.pdf")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = s.Save(ctx, folder, "report.pdf", strings.NewReader("again"))
	assert.ErrorIs(t, err, ErrExists)

	_, err = s.Save(ctx, base, "root.txt", strings.NewReader("r"))
	require.NoError(t, err)
	assert.Contains(t, bucket.objects, "root.txt")

	assert.NoError(t, s.CheckSpace(ctx, folder, 1<<40))
}

func TestS3Store_PutError(t *testing.T) {
	bucket := &fakeBucket{objects: map[string]string{}, putErr: true}
	s, base := newTestS3Store(t, bucket)

	_, err := s.Save(context.Background(), base, "a.txt", strings.NewReader("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "put a.txt")
}

func TestS3Store_KeyOutsideBase(t *testing.T) {
	s := &S3Store{basePath: "/srv/uploads"}

	_, err := s.key("/srv/other", "a")
	assert.Error(t, err)

	k, err := s.key("/srv/uploads/x/y", "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "x/y/a.txt", k)
}

func TestNewS3Store_ConfigError(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "eu-central-1", lo.Region)
		assert.NotNil(t, lo.Credentials)
		return aws.Config{}, errors.New("no config")
	}

	_, err := NewS3Store(context.Background(), S3Config{Region: "eu-central-1", AccessKey: "a", SecretKey: "b"})
	assert.EqualError(t, err, "aws config: no config")
}
