package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/linkdrop/internal/logging"
	"github.com/dmitrijs2005/linkdrop/internal/server/config"
	"github.com/dmitrijs2005/linkdrop/internal/server/models"
	"github.com/dmitrijs2005/linkdrop/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/linkdrop/internal/server/services"
	"github.com/dmitrijs2005/linkdrop/internal/server/storage"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	srv     *httptest.Server
	links   *services.LinkService
	metrics *Metrics
	base    string
}

func newTestEnv(t *testing.T, store storage.Store, opts Options) *testEnv {
	t.Helper()
	ctx := context.Background()

	db, m, err := repomanager.Open(ctx, filepath.Join(t.TempDir(), "linkdrop.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, m.RunMigrations(ctx, db))

	base, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	log := logging.Discard()
	links := services.NewLinkService(db, m, base, log)
	users := services.NewUserService(db, m, &config.Config{SecretKey: "test-secret", TokenValidity: time.Hour}, log)
	_, err = users.Seed(ctx, map[string]string{"admin": "admin-pw"})
	require.NoError(t, err)

	if store == nil {
		store = storage.NewDiskStore()
	}
	metrics := NewMetrics()
	srv := httptest.NewServer(NewServer(links, users, store, metrics, log, opts).Router())
	t.Cleanup(srv.Close)

	return &testEnv{srv: srv, links: links, metrics: metrics, base: base}
}

// folder creates a directory under the base path and a link for it.
func (e *testEnv) folder(t *testing.T, name, password, expiry string) *models.Link {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(e.base, name), 0o755))
	link, err := e.links.Create(context.Background(), services.CreateLinkRequest{FolderPath: name, Password: password, Expiry: expiry})
	require.NoError(t, err)
	return link
}

type part struct {
	field, filename, content string
}

func multipartBody(t *testing.T, parts ...part) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, p := range parts {
		if p.filename == "" && p.field != "file" {
			require.NoError(t, mw.WriteField(p.field, p.content))
			continue
		}
		w, err := mw.CreateFormFile(p.field, p.filename)
		require.NoError(t, err)
		_, err = io.WriteString(w, p.content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func (e *testEnv) post(t *testing.T, token, accept string, parts ...part) *http.Response {
	t.Helper()
	body, ct := multipartBody(t, parts...)
	req, err := http.NewRequest(http.MethodPost, e.srv.URL+"/upload/"+token, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", ct)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

type decodedUpload struct {
	Success  bool         `json:"success"`
	Results  []fileResult `json:"results"`
	Messages [][2]string  `json:"messages"`
}

func decodeUpload(t *testing.T, resp *http.Response) decodedUpload {
	t.Helper()
	var d decodedUpload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&d))
	return d
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}
