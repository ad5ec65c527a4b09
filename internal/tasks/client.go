package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/booknet/internal/database"
)

// ErrClosed is returned when tasks are enqueued after Stop or Close.
var ErrClosed = errors.New("task queue is closed")

type lifecycle int

const (
	idle lifecycle = iota
	running
	stopped
)

// Client runs book imports and audit maintenance off the request path. The
// queue lives in its own SQLite file next to the main database so that a
// busy queue never holds locks on sessions or audit events.
type Client struct {
	queue  *backlite.Client
	db     *sql.DB
	config Config

	mu    sync.Mutex
	state lifecycle
}

// NewClient opens the queue database derived from mainDBPath and installs
// the backlite schema. Zero fields of cfg take DefaultConfig values.
func NewClient(mainDBPath string, cfg Config) (*Client, error) {
	cfg = cfg.withDefaults()

	db, err := sql.Open("sqlite3", database.DSN(TasksDBPath(mainDBPath)))
	if err != nil {
		return nil, fmt.Errorf("failed to open tasks database: %w", err)
	}

	// workers plus a few connections for enqueues and status lookups
	db.SetMaxOpenConns(cfg.Workers + 5)
	db.SetMaxIdleConns(cfg.Workers + 2)
	db.SetConnMaxLifetime(time.Hour)

	queue, err := backlite.NewClient(backlite.ClientConfig{
		DB:              db,
		NumWorkers:      cfg.Workers,
		ReleaseAfter:    cfg.ReleaseAfter,
		CleanupInterval: cfg.CleanupInterval,
		Logger:          queueLogger{},
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create task queue: %w", err)
	}
	if err := queue.Install(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to install task queue schema: %w", err)
	}

	return &Client{queue: queue, db: db, config: cfg}, nil
}

// Register adds processors. Call it before Start.
func (c *Client) Register(queues ...backlite.Queue) {
	for _, q := range queues {
		c.queue.Register(q)
	}
}

// Start runs the workers until ctx is cancelled or Stop is called. It
// returns immediately; a second call, or a call after Stop, does nothing.
func (c *Client) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != idle {
		return
	}
	c.state = running

	log.Printf("[TASK] Queue started with %d workers", c.config.Workers)
	c.queue.Start(ctx)
}

// Stop waits for running tasks. It reports false when ctx expired first.
func (c *Client) Stop(ctx context.Context) bool {
	c.mu.Lock()
	prev := c.state
	c.state = stopped
	c.mu.Unlock()

	if prev != running {
		return true
	}

	log.Println("[TASK] Stopping queue...")
	if !c.queue.Stop(ctx) {
		log.Println("[TASK] Queue stopped with timeout, some tasks may not have completed")
		return false
	}
	return true
}

// Close releases the queue database. Call Stop first.
func (c *Client) Close() error {
	c.mu.Lock()
	c.state = stopped
	c.mu.Unlock()
	return c.db.Close()
}

// Enqueue stores tasks and returns their IDs in order.
func (c *Client) Enqueue(ctx context.Context, tasks ...backlite.Task) ([]string, error) {
	c.mu.Lock()
	closed := c.state == stopped
	c.mu.Unlock()
	if closed {
		return nil, ErrClosed
	}

	ids, err := c.queue.Add(tasks...).Ctx(ctx).Save()
	if err != nil {
		return nil, fmt.Errorf("failed to enqueue tasks: %w", err)
	}
	return ids, nil
}

// Status looks a task up by ID.
func (c *Client) Status(ctx context.Context, taskID string) (backlite.TaskStatus, error) {
	return c.queue.Status(ctx, taskID)
}

// Ping checks the queue database.
func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// TasksDBPath returns the path of the queue database kept next to the main
// database: "data/booknet.db" becomes "data/booknet-tasks.db". A query
// string on the main path is dropped.
func TasksDBPath(mainDBPath string) string {
	path, _, _ := strings.Cut(mainDBPath, "?")
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "-tasks" + ext
}

type queueLogger struct{}

func (queueLogger) Info(message string, params ...any) {
	log.Printf("[TASK] "+message, params...)
}

func (queueLogger) Error(message string, params ...any) {
	log.Printf("[TASK ERROR] "+message, params...)
}
