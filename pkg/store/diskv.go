package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/peterbourgon/diskv/v3"
)

// Persistence defines the persistence contract for profile state.
type Persistence interface {
	// Load returns the stored state. A store that has never been written
	// returns an empty State and no error.
	Load(ctx context.Context) (State, error)
	// Save replaces the stored state.
	Save(ctx context.Context, s State) error
	// Watch streams change notifications caused by other writers.
	Watch(ctx context.Context) (<-chan Event, error)
	Close() error
}

// Load creates the Persistence selected by cfg.
func Load(cfg Config) (Persistence, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	switch cfg.Backend() {
	case BackendSQLite:
		return OpenSQLite(filepath.Join(cfg.BasePath(), "critterdex.db"))
	default:
		return OpenDiskv(cfg.BasePath())
	}
}

const stagingDir = ".staging"

// OpenDiskv stores each record as a flat file under basePath. Writes are
// staged and renamed into place so readers never see a partial record.
func OpenDiskv(basePath string) (Persistence, error) {
	if basePath == "" {
		return nil, errors.New("store: base path unknown")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}
	return &persistence{d: diskv.New(diskv.Options{
		BasePath: basePath,
		TempDir:  filepath.Join(basePath, stagingDir),
		// Other processes write the same files, so nothing is cached.
		CacheSizeMax: 0,
	}), basePath: basePath}, nil
}

type persistence struct {
	d        *diskv.Diskv
	basePath string
}

func (p *persistence) read(key string) ([]byte, error) {
	if !p.d.Has(key) {
		return nil, nil
	}
	val, err := p.d.Read(key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, &StorageError{Op: "read", Record: key, Err: err}
	}
	return val, nil
}

func (p *persistence) Load(ctx context.Context) (State, error) {
	if err := ctx.Err(); err != nil {
		return State{}, err
	}
	profiles, err := p.read(RecordProfiles)
	if err != nil {
		return State{}, err
	}
	index, err := p.read(RecordActiveIndex)
	if err != nil {
		return State{}, err
	}
	return decodeState(records{profiles: profiles, activeIndex: index})
}

func (p *persistence) Save(ctx context.Context, s State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r, err := encodeState(s)
	if err != nil {
		return err
	}
	if err := p.d.Write(RecordProfiles, r.profiles); err != nil {
		return &StorageError{Op: "write", Record: RecordProfiles, Err: err}
	}
	if err := p.d.Write(RecordActiveIndex, r.activeIndex); err != nil {
		return &StorageError{Op: "write", Record: RecordActiveIndex, Err: err}
	}
	return nil
}

func (p *persistence) Close() error {
	return nil
}
