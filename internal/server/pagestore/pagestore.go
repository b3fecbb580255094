// Package pagestore keeps opaque byte pages in a single SQLite table,
// storage(id INTEGER PRIMARY KEY, data BLOB), one row per page.
//
// Every pooled connection is opened with the same pragmas (WAL journal,
// synchronous NORMAL, in-memory temp store, 256MiB mmap, 64MB page cache)
// and write transactions start with BEGIN IMMEDIATE, so lock contention
// surfaces at the start of a transaction where it can be retried.
package pagestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"github.com/dmitrijs2005/gophsnap/internal/common"
	"github.com/dmitrijs2005/gophsnap/internal/dbx"
	"github.com/dmitrijs2005/gophsnap/internal/filex"
	"github.com/dmitrijs2005/gophsnap/internal/server/migrations"
)

// Pragmas applied to every connection, in addition to busy_timeout.
var Pragmas = []string{
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
	"temp_store(MEMORY)",
	"mmap_size(268435456)",
	"cache_size(-64000)",
}

const defaultBusyTimeout = 5 * time.Second

// Options tune lock handling. Zero values select the defaults.
type Options struct {
	// BusyTimeout is how long SQLite itself waits on a locked database
	// before reporting SQLITE_BUSY.
	BusyTimeout time.Duration
	// Retry bounds the retries of a write that still came back busy.
	Retry dbx.RetryPolicy
}

func (o Options) withDefaults() Options {
	if o.BusyTimeout <= 0 {
		o.BusyTimeout = defaultBusyTimeout
	}
	if o.Retry.MaxAttempts <= 0 {
		o.Retry = dbx.DefaultRetryPolicy()
	}
	return o
}

// Store is a page store on top of one SQLite database file.
type Store struct {
	db    *sql.DB
	path  string
	retry dbx.RetryPolicy
}

// DSN builds the modernc.org/sqlite data source name for path.
func DSN(path string, busyTimeout time.Duration) string {
	q := url.Values{}
	q.Add("_pragma", "busy_timeout("+strconv.FormatInt(busyTimeout.Milliseconds(), 10)+")")
	for _, p := range Pragmas {
		q.Add("_pragma", p)
	}
	q.Set("_txlock", "immediate")
	return path + "?" + q.Encode()
}

// runMigrations is a seam for tests.
var runMigrations = func(ctx context.Context, db *sql.DB) error {
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations.Migrations)
	if err != nil {
		return err
	}
	_, err = provider.Up(ctx)
	return err
}

// Open creates the parent directory of path if needed, opens the database
// and brings its schema up to date. A directory that cannot be created or
// written to is reported as common.ErrPathUnwritable.
func Open(ctx context.Context, path string, opts Options) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty database path", common.ErrPathUnwritable)
	}
	opts = opts.withDefaults()

	dir, err := filex.EnsureParentDir(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrPathUnwritable, err)
	}
	if err := filex.CheckWritable(dir); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrPathUnwritable, err)
	}

	db, err := sql.Open("sqlite", DSN(path, opts.BusyTimeout))
	if err != nil {
		return nil, fmt.Errorf("%w: db open error: %w", common.ErrStorageIO, err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, classify(fmt.Errorf("db ping error: %w", err))
	}

	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, classify(fmt.Errorf("migration error: %w", err))
	}

	return &Store{db: db, path: path, retry: opts.Retry}, nil
}

// New wraps an already opened database. The schema is assumed to exist.
func New(db *sql.DB, retry dbx.RetryPolicy) *Store {
	if retry.MaxAttempts <= 0 {
		retry = dbx.DefaultRetryPolicy()
	}
	return &Store{db: db, retry: retry}
}

// Path returns the database file the store was opened on.
func (s *Store) Path() string {
	return s.path
}

// Conn exposes the underlying pool.
func (s *Store) Conn() *sql.DB {
	return s.db
}

// Get returns the page stored under id, or nil without error if there is none.
func (s *Store) Get(ctx context.Context, id int64) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM storage WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, classify(fmt.Errorf("failed to get page[%d]: %w", id, err))
	}
	if data == nil {
		// a row holding NULL reads back as an empty page
		data = []byte{}
	}
	return data, nil
}

// Put replaces the page stored under id in a single transaction. Lock
// contention is retried according to the store's retry policy; if it
// persists the error matches common.ErrBusy. Either the whole page is
// written or the previous one is left untouched.
func (s *Store) Put(ctx context.Context, id int64, data []byte) error {
	if data == nil {
		data = []byte{}
	}
	err := dbx.WithTxRetry(ctx, s.db, nil, s.retry, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO storage (id, data) VALUES (?, ?)
			ON CONFLICT(id) DO UPDATE SET data = excluded.data
		`, id, data)
		return err
	})
	if err != nil {
		return classify(fmt.Errorf("failed to put page[%d]: %w", id, err))
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("%w: close: %w", common.ErrStorageIO, err)
	}
	return nil
}

// classify tags a database error with the matching storage error kind.
// Context errors are passed through untagged.
func classify(err error) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case dbx.IsBusy(err):
		return fmt.Errorf("%w: %w", common.ErrBusy, err)
	default:
		return fmt.Errorf("%w: %w", common.ErrStorageIO, err)
	}
}
