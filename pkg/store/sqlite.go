package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const pollInterval = 250 * time.Millisecond

// SQLiteStore keeps the records in a single-table SQLite database. It is an
// alternative to the diskv layout for users who prefer one file.
type SQLiteStore struct {
	db         *sql.DB
	selectStmt *sql.Stmt
	upsertStmt *sql.Stmt
}

func OpenSQLite(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("store: create db path: %w", err)
	}

	// DSN notes:
	// - _pragma=busy_timeout sets a lock wait
	// - _pragma=journal_mode(WAL) enables the write-ahead log
	// - _pragma=synchronous(NORMAL) is the recommended pairing with WAL
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)", filepath.Clean(dbPath))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// One pooled connection: PRAGMA data_version is per connection and only
	// moves for commits made by other connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS records (
			key        TEXT PRIMARY KEY,
			value      BLOB NOT NULL,
			updated_at INTEGER NOT NULL
		)
	`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: init schema: %w", err)
	}

	sel, err := db.Prepare(`SELECT value FROM records WHERE key = ?`)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	ups, err := db.Prepare(`
		INSERT INTO records (key, value, updated_at) VALUES (?,?,?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`)
	if err != nil {
		_ = sel.Close()
		_ = db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db, selectStmt: sel, upsertStmt: ups}, nil
}

func (s *SQLiteStore) read(ctx context.Context, stmt *sql.Stmt, key string) ([]byte, error) {
	var val []byte
	err := stmt.QueryRowContext(ctx, key).Scan(&val)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &StorageError{Op: "read", Record: key, Err: err}
	}
	if val == nil {
		val = []byte{}
	}
	return val, nil
}

// Load reads both records inside one transaction so they come from the same
// commit.
func (s *SQLiteStore) Load(ctx context.Context) (State, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return State{}, &StorageError{Op: "read", Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	stmt := tx.StmtContext(ctx, s.selectStmt)
	profiles, err := s.read(ctx, stmt, RecordProfiles)
	if err != nil {
		return State{}, err
	}
	index, err := s.read(ctx, stmt, RecordActiveIndex)
	if err != nil {
		return State{}, err
	}
	return decodeState(records{profiles: profiles, activeIndex: index})
}

// Save writes both records in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, st State) error {
	r, err := encodeState(st)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &StorageError{Op: "write", Err: err}
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().Unix()
	stmt := tx.StmtContext(ctx, s.upsertStmt)
	if _, err := stmt.ExecContext(ctx, RecordProfiles, r.profiles, now); err != nil {
		return &StorageError{Op: "write", Record: RecordProfiles, Err: err}
	}
	if _, err := stmt.ExecContext(ctx, RecordActiveIndex, r.activeIndex, now); err != nil {
		return &StorageError{Op: "write", Record: RecordActiveIndex, Err: err}
	}
	if err := tx.Commit(); err != nil {
		return &StorageError{Op: "commit", Err: err}
	}
	return nil
}

func (s *SQLiteStore) dataVersion(ctx context.Context) (int64, error) {
	var v int64
	err := s.db.QueryRowContext(ctx, `PRAGMA data_version`).Scan(&v)
	return v, err
}

// Watch polls PRAGMA data_version, which changes when another connection
// commits. The channel closes when ctx is done or the database goes away.
func (s *SQLiteStore) Watch(ctx context.Context) (<-chan Event, error) {
	last, err := s.dataVersion(ctx)
	if err != nil {
		return nil, fmt.Errorf("store: read data_version: %w", err)
	}

	events := make(chan Event, 8)
	go func() {
		defer close(events)
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				v, err := s.dataVersion(ctx)
				if err != nil {
					if ctx.Err() == nil {
						fmt.Fprintf(os.Stderr, "store: watch: %v\n", err)
					}
					return
				}
				if v == last {
					continue
				}
				last = v
				select {
				case events <- Event{Type: EventStateInvalidated}:
				default:
				}
			}
		}
	}()
	return events, nil
}

func (s *SQLiteStore) Close() error {
	_ = s.selectStmt.Close()
	_ = s.upsertStmt.Close()
	return s.db.Close()
}
