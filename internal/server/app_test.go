package server

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/linkdrop/internal/filex"
	"github.com/dmitrijs2005/linkdrop/internal/logging"
	"github.com/dmitrijs2005/linkdrop/internal/server/config"
	"github.com/dmitrijs2005/linkdrop/internal/server/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	c := &config.Config{}
	c.LoadDefaults()
	c.HTTPAddr = "127.0.0.1:0"
	c.DatabaseDSN = filepath.Join(dir, "db", "linkdrop.db")
	c.BasePath = filepath.Join(dir, "uploads")
	c.Users = map[string]string{"admin": "pw"}
	return c
}

func TestNewApp_BootstrapsStorageAndDatabase(t *testing.T) {
	c := testConfig(t)

	app, err := NewApp(context.Background(), c, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.db.Close() })

	assert.True(t, filex.IsDir(c.BasePath))
	assert.True(t, filex.IsDir(filepath.Dir(c.DatabaseDSN)))
	assert.Nil(t, app.health, "health server is off without an address")

	var n int
	require.NoError(t, app.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestNewApp_HealthServerWhenConfigured(t *testing.T) {
	c := testConfig(t)
	c.HealthAddr = "127.0.0.1:0"

	app, err := NewApp(context.Background(), c, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.db.Close() })

	assert.NotNil(t, app.health)
}

func TestNewApp_BadDatabase(t *testing.T) {
	c := testConfig(t)
	c.DatabaseDSN = "postgres://nobody@127.0.0.1:1/none?connect_timeout=1"

	_, err := NewApp(context.Background(), c, logging.Discard())
	require.Error(t, err)
}

func TestNewStore(t *testing.T) {
	c := testConfig(t)

	s, err := newStore(context.Background(), c, c.BasePath)
	require.NoError(t, err)
	assert.IsType(t, &storage.DiskStore{}, s)

	c.Storage = config.StorageS3
	s, err = newStore(context.Background(), c, c.BasePath)
	require.NoError(t, err)
	assert.IsType(t, &storage.S3Store{}, s)
}

func TestResolveBasePath_Relative(t *testing.T) {
	t.Chdir(t.TempDir())

	p, err := resolveBasePath("drops")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(p))
	assert.True(t, filex.IsDir(p))
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	c := testConfig(t)
	c.HealthAddr = "127.0.0.1:0"

	app, err := NewApp(context.Background(), c, logging.Discard())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop after cancel")
	}
	assert.Error(t, app.db.Ping(), "database closed on exit")
}
