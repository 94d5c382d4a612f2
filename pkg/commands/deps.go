package commands

import (
	"context"
	"fmt"
	"os"

	"tableflip.dev/critterdex/pkg/catalog"
	"tableflip.dev/critterdex/pkg/log"
	"tableflip.dev/critterdex/pkg/profiles"
	"tableflip.dev/critterdex/pkg/store"
)

// session is what a command needs from the environment.
type session struct {
	Config  store.Config
	Store   *profiles.Store
	Catalog *catalog.Cached

	persistence store.Persistence
}

func (s *session) Close() {
	if s.persistence != nil {
		if err := s.persistence.Close(); err != nil {
			log.Warn("closing state store", "err", err)
		}
	}
}

func openSession(ctx context.Context) (*session, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.BasePath(), 0o755); err != nil {
		return nil, fmt.Errorf("store: create %s: %w", cfg.BasePath(), err)
	}
	p, err := store.Load(cfg)
	if err != nil {
		return nil, err
	}
	s, err := profiles.Open(ctx, p)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	log.Debug("session opened", "path", cfg.BasePath(), "backend", cfg.Backend(), "profiles", len(s.Profiles()))
	return &session{
		Config:      cfg,
		Store:       s,
		Catalog:     catalog.NewCached(catalog.NewHTTPSource(cfg.CatalogURL(), cfg.CatalogKey()), cfg.CatalogCache()),
		persistence: p,
	}, nil
}
