package server

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophsnap/internal/common"
	"github.com/dmitrijs2005/gophsnap/internal/server/config"
	"github.com/dmitrijs2005/gophsnap/internal/server/services"
	"github.com/dmitrijs2005/gophsnap/internal/server/snapshot"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	c := &config.Config{}
	c.LoadDefaults()
	c.DatabasePath = filepath.Join(t.TempDir(), "data", "database.db")
	c.EndpointAddrGRPC = "127.0.0.1:0"
	return c
}

func TestNewApp_OpensStore(t *testing.T) {
	var out bytes.Buffer
	c := testConfig(t)

	app, err := NewApp(context.Background(), c, &out)
	require.NoError(t, err)
	defer app.store.Close()

	assert.FileExists(t, c.DatabasePath)
	assert.Nil(t, app.backupService)
	assert.Contains(t, out.String(), `"msg":"snapshot store initialized"`)
	assert.Equal(t, "gophsnap", app.store.Data().Webserver.Name)
}

func TestNewApp_UnwritablePath(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	c := testConfig(t)
	c.DatabasePath = filepath.Join(blocker, "database.db")

	_, err := NewApp(context.Background(), c, &bytes.Buffer{})
	require.ErrorIs(t, err, common.ErrPathUnwritable)
}

func TestNewApp_BadLogLevel(t *testing.T) {
	c := testConfig(t)
	c.Settings.LogLevel = "loud"

	_, err := NewApp(context.Background(), c, &bytes.Buffer{})
	require.Error(t, err)
}

func TestNewApp_RestoreFailureClosesStore(t *testing.T) {
	c := testConfig(t)
	c.RestoreKey = "snapshots/missing.bin"
	c.S3BaseEndpoint = "http://127.0.0.1:1"

	_, err := NewApp(context.Background(), c, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "restore error")

	st, err := snapshot.Open(context.Background(), snapshot.Options{Path: c.DatabasePath}, nil)
	require.NoError(t, err)
	require.NoError(t, st.Close())
}

func TestRun_StopsAndPersists(t *testing.T) {
	var out bytes.Buffer
	c := testConfig(t)

	app, err := NewApp(context.Background(), c, &out)
	require.NoError(t, err)

	_, err = app.userService.Register(context.Background(), services.RegisterRequest{
		Email: "alice@example.com", Username: "alice", RealName: "Alice", Password: "wonderland",
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
	assert.True(t, strings.Contains(out.String(), "App stopped"))

	// the store was closed; a fresh open sees the user
	st, err := snapshot.Open(context.Background(), snapshot.Options{Path: c.DatabasePath}, nil)
	require.NoError(t, err)
	defer st.Close()
	require.Len(t, st.Data().Users, 1)
	assert.Equal(t, "alice", st.Data().Users[0].Username)
}

func TestInitSignalHandler_StopReturnsAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	stop := (&App{}).initSignalHandler(ctx, cancel)
	cancel()

	done := make(chan struct{})
	go func() {
		stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("signal watcher did not exit after context cancel")
	}
}

func TestInitSignalHandler_StopWithLiveContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stop := (&App{}).initSignalHandler(ctx, cancel)

	done := make(chan struct{})
	go func() {
		stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("stop did not return")
	}
	assert.NoError(t, ctx.Err())
}

func TestInitSignalHandler_SignalCancels(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stop := (&App{}).initSignalHandler(ctx, cancel)
	defer stop()

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGINT))
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context not cancelled by SIGINT")
	}
}
