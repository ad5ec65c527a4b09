package tasks

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoTask struct {
	Value string `json:"value"`
}

func (t echoTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "echo",
		MaxAttempts: 1,
		Backoff:     time.Second,
		Timeout:     5 * time.Second,
	}
}

func newTestClient(t *testing.T, cfg Config) (*Client, string) {
	t.Helper()
	dir := t.TempDir()
	client, err := NewClient(filepath.Join(dir, "booknet.db"), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client, dir
}

func TestNewClient(t *testing.T) {
	client, dir := newTestClient(t, Config{})

	_, err := os.Stat(filepath.Join(dir, "booknet-tasks.db"))
	assert.NoError(t, err, "tasks database should be created")
	assert.Equal(t, DefaultConfig(), client.config, "zero config takes defaults")
	assert.NoError(t, client.Ping(context.Background()))
}

func TestClient_StartStop(t *testing.T) {
	client, _ := newTestClient(t, Config{Workers: 1})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	client.Start(ctx)
	client.Start(ctx)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()
	assert.True(t, client.Stop(stopCtx))
	assert.True(t, client.Stop(stopCtx), "second stop is a no-op")

	_, err := client.Enqueue(context.Background(), echoTask{Value: "tarde"})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestClient_StopBeforeStart(t *testing.T) {
	client, _ := newTestClient(t, Config{Workers: 1})
	assert.True(t, client.Stop(context.Background()))
}

func TestClient_ProcessesTask(t *testing.T) {
	client, _ := newTestClient(t, Config{Workers: 1})

	executed := make(chan string, 1)
	client.Register(backlite.NewQueue(func(ctx context.Context, task echoTask) error {
		executed <- task.Value
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	client.Start(ctx)

	ids, err := client.Enqueue(ctx, echoTask{Value: "Niebla"})
	require.NoError(t, err)
	assert.Len(t, ids, 1)

	select {
	case val := <-executed:
		assert.Equal(t, "Niebla", val)
	case <-time.After(5 * time.Second):
		t.Fatal("task was not executed within timeout")
	}
}

func TestClient_EnqueueAndStatus(t *testing.T) {
	client, _ := newTestClient(t, Config{Workers: 1})
	client.Register(backlite.NewQueue(func(ctx context.Context, task echoTask) error {
		return nil
	}))

	ids, err := client.Enqueue(context.Background(), echoTask{Value: "pendiente"})
	require.NoError(t, err)
	require.Len(t, ids, 1)

	status, err := client.Status(context.Background(), ids[0])
	require.NoError(t, err)
	assert.Equal(t, backlite.TaskStatusPending, status)
}

func TestTasksDBPath(t *testing.T) {
	assert.Equal(t, filepath.Join("data", "booknet-tasks.db"), TasksDBPath(filepath.Join("data", "booknet.db")))
	assert.Equal(t, "booknet-tasks", TasksDBPath("booknet"))
	assert.Equal(t, "booknet-tasks.db", TasksDBPath("booknet.db?_busy_timeout=1000"))
}

func TestConfig_WithDefaults(t *testing.T) {
	cfg := Config{Workers: 4}.withDefaults()

	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 15*time.Minute, cfg.ReleaseAfter)
	assert.Equal(t, time.Hour, cfg.CleanupInterval)
}
