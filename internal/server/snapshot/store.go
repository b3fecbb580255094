package snapshot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/gophsnap/internal/common"
	"github.com/dmitrijs2005/gophsnap/internal/dbx"
	"github.com/dmitrijs2005/gophsnap/internal/logging"
	"github.com/dmitrijs2005/gophsnap/internal/server/codec"
	"github.com/dmitrijs2005/gophsnap/internal/server/models"
	"github.com/dmitrijs2005/gophsnap/internal/server/pagestore"
)

// Options configure a Store.
type Options struct {
	// Path of the SQLite file. Its directory is created if missing.
	Path string
	// Profiling logs the elapsed time of every read and write.
	Profiling bool

	// Webserver and Settings seed the graph used until something has been
	// persisted.
	Webserver models.Webserver
	Settings  models.Settings

	BusyTimeout time.Duration
	Retry       dbx.RetryPolicy
}

// Pages is the durable storage a Store writes its encoded graph to.
// *pagestore.Store implements it.
type Pages interface {
	Get(ctx context.Context, id int64) ([]byte, error)
	Put(ctx context.Context, id int64, data []byte) error
	Close() error
}

// Store is the shared snapshot store. It is safe for concurrent use; one
// instance should serve the whole process.
type Store struct {
	mu        sync.RWMutex
	graph     atomic.Pointer[models.Graph]
	pages     Pages
	logger    logging.Logger
	profiling bool
	path      string
	now       func() time.Time
}

// Open opens the database at opts.Path and loads the persisted graph, if any.
// Only a path that cannot be created or written fails Open; a corrupt or
// unreadable snapshot is logged and the default graph is kept.
func Open(ctx context.Context, opts Options, logger logging.Logger) (*Store, error) {
	pages, err := pagestore.Open(ctx, opts.Path, pagestore.Options{
		BusyTimeout: opts.BusyTimeout,
		Retry:       opts.Retry,
	})
	if err != nil {
		return nil, fmt.Errorf("open snapshot store: %w", err)
	}

	s := New(pages, opts, logger)
	// the result is already logged and only failures of Open itself are fatal
	_, _ = s.Read(ctx)
	s.logger.Info(ctx, "snapshot store initialized", "path", opts.Path)
	return s, nil
}

// New builds a Store over pages holding the default graph from opts.
// Nothing is read; call Read to load the persisted graph.
func New(pages Pages, opts Options, logger logging.Logger) *Store {
	if logger == nil {
		logger = logging.Nop()
	}
	s := &Store{
		pages:     pages,
		logger:    logger.With("module", "snapshot", "path", opts.Path),
		profiling: opts.Profiling,
		path:      opts.Path,
		now:       time.Now,
	}
	s.graph.Store(models.NewGraph(opts.Webserver, opts.Settings))
	return s
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Read replaces the in-memory graph with the persisted one, discarding it.
//
// It reports whether a persisted graph was loaded. When nothing has been
// persisted yet it returns false and a nil error and the graph is left as
// is. On failure the graph is also left as is and the error matches one of
// common.ErrCorruptPayload, common.ErrStorageIO or common.ErrBusy.
func (s *Store) Read(ctx context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var found bool
	err := s.profile(ctx, "read", func() error {
		var err error
		found, err = s.read(ctx)
		return err
	})
	return found, err
}

func (s *Store) read(ctx context.Context) (bool, error) {
	s.logger.Debug(ctx, "trying to decode snapshot")

	b, err := s.pages.Get(ctx, common.SnapshotKey)
	if err != nil {
		s.logger.Error(ctx, "snapshot read failed", "error", err)
		return false, err
	}
	if b == nil {
		s.logger.Info(ctx, "no snapshot persisted yet, keeping defaults")
		return false, nil
	}

	g, err := codec.Decode(b)
	if err != nil {
		s.logger.Error(ctx, "snapshot decode failed, keeping current graph", "bytes", len(b), "error", err)
		return false, err
	}

	s.graph.Store(g)
	s.logger.Info(ctx, "snapshot read", "bytes", len(b), "users", len(g.Users))
	return true, nil
}

// Write persists the current graph in one transaction. On failure the
// previously persisted snapshot is left untouched.
func (s *Store) Write(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.profile(ctx, "write", func() error {
		return s.write(ctx, s.graph.Load())
	})
}

func (s *Store) write(ctx context.Context, g *models.Graph) error {
	b, err := codec.Encode(g)
	if err != nil {
		s.logger.Error(ctx, "snapshot encode failed", "error", err)
		return err
	}
	if err := s.pages.Put(ctx, common.SnapshotKey, b); err != nil {
		s.logger.Error(ctx, "snapshot write failed", "bytes", len(b), "error", err)
		return err
	}
	s.logger.Info(ctx, "snapshot written", "bytes", len(b))
	return nil
}

// View calls fn with the current graph under a shared lock. fn must not
// modify the graph or keep references to it after returning.
func (s *Store) View(ctx context.Context, fn func(g *models.Graph) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	return fn(s.graph.Load())
}

// Update runs one read-modify-write cycle under the exclusive lock.
//
// fn receives a private copy of the graph. The copy is persisted and then
// becomes the current graph. If fn returns an error, ctx is done before the
// write, or the write fails, both the in-memory and the persisted graph stay
// as they were and the error is returned.
func (s *Store) Update(ctx context.Context, fn func(g *models.Graph) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	next := s.graph.Load().Clone()
	if err := fn(next); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		s.logger.Warn(ctx, "update cancelled before write, mutation dropped", "error", err)
		return err
	}

	err := s.profile(ctx, "write", func() error {
		return s.write(ctx, next)
	})
	if err != nil {
		return err
	}

	s.graph.Store(next)
	return nil
}

// Data returns a deep copy of the current graph.
func (s *Store) Data() *models.Graph {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.graph.Load().Clone()
}

// Close closes the underlying page store.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.pages.Close(); err != nil {
		s.logger.Error(context.Background(), "snapshot store close failed", "error", err)
		return err
	}
	return nil
}

// IsStorageError reports whether err is one of the non-fatal storage
// failures Read, Write and Update return.
func IsStorageError(err error) bool {
	return errors.Is(err, common.ErrCorruptPayload) ||
		errors.Is(err, common.ErrStorageIO) ||
		errors.Is(err, common.ErrBusy)
}
