package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) admin(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, r)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (e *testEnv) login(t *testing.T) string {
	t.Helper()
	resp := e.admin(t, http.MethodPost, "/admin/login", "", loginRequest{UserName: "admin", Password: "admin-pw"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var lr loginResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&lr))
	require.NotEmpty(t, lr.Token)
	return lr.Token
}

func TestAdmin_Login(t *testing.T) {
	env := newTestEnv(t, nil, Options{})
	env.login(t)

	resp := env.admin(t, http.MethodPost, "/admin/login", "", loginRequest{UserName: "admin", Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = env.admin(t, http.MethodPost, "/admin/login", "", map[string]string{"user": "admin"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "unknown fields rejected")
}

func TestAdmin_RequiresToken(t *testing.T) {
	env := newTestEnv(t, nil, Options{})

	resp := env.admin(t, http.MethodGet, "/admin/links", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = env.admin(t, http.MethodGet, "/admin/links", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdmin_LinkLifecycle(t *testing.T) {
	env := newTestEnv(t, nil, Options{PublicURL: "https://drop.example.com/"})
	token := env.login(t)
	require.NoError(t, os.MkdirAll(filepath.Join(env.base, "inbox"), 0o755))

	resp := env.admin(t, http.MethodPost, "/admin/links", token, createLinkRequest{FolderPath: "inbox", Password: "pw", Expiry: "2099-01-01T10:00"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created linkView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, "https://drop.example.com/upload/"+created.Token, created.URL)
	assert.Equal(t, filepath.Join(env.base, "inbox"), created.FolderPath)
	assert.True(t, created.HasPassword)
	assert.False(t, created.Expired)
	require.NotNil(t, created.ExpiresAt)

	resp = env.admin(t, http.MethodPost, "/admin/links", token, createLinkRequest{FolderPath: "inbox"})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	var dup errorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&dup))
	assert.Equal(t, created.URL, dup.URL)

	resp = env.admin(t, http.MethodPost, "/admin/links", token, createLinkRequest{FolderPath: "../etc"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.admin(t, http.MethodPost, "/admin/links", token, createLinkRequest{FolderPath: "inbox", Expiry: "tomorrow"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var bad errorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&bad))
	assert.Equal(t, "Invalid expiry format. Use YYYY-MM-DDTHH:MM", bad.Message)

	resp = env.admin(t, http.MethodGet, "/admin/links", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list linksResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list.Links, 1)
	assert.Equal(t, created.ID, list.Links[0].ID)

	resp = env.admin(t, http.MethodDelete, "/admin/links/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = env.admin(t, http.MethodDelete, "/admin/links/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAdmin_Cleanup(t *testing.T) {
	env := newTestEnv(t, nil, Options{})
	token := env.login(t)

	keep := env.folder(t, "keep", "", "")
	expired := env.folder(t, "old", "", "2001-01-01T00:00")
	gone := env.folder(t, "gone", "", "")
	require.NoError(t, os.Remove(filepath.Join(env.base, "gone")))

	resp := env.admin(t, http.MethodGet, "/admin/cleanup", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var preview linksResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&preview))
	ids := make([]string, 0, len(preview.Links))
	for _, l := range preview.Links {
		ids = append(ids, l.ID)
	}
	assert.ElementsMatch(t, []string{expired.ID, gone.ID}, ids)

	resp = env.admin(t, http.MethodPost, "/admin/cleanup", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var res cleanupResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.Equal(t, cleanupResponse{Deleted: 2, Message: "2 links cleaned up."}, res)

	resp = env.admin(t, http.MethodGet, "/admin/links", token, nil)
	var list linksResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list.Links, 1)
	assert.Equal(t, keep.ID, list.Links[0].ID)
	assert.True(t, strings.HasSuffix(list.Links[0].URL, "/upload/"+keep.Token))
}
