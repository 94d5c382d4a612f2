package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	BackendDiskv  = "diskv"
	BackendSQLite = "sqlite"

	// DefaultCatalogURL is the Nookipedia-compatible catalog API.
	DefaultCatalogURL = "https://api.nookipedia.com"
)

type Config interface {
	BasePath() string
	Backend() string
	CatalogURL() string
	CatalogKey() string
	CatalogCache() string
}

func LoadConfig() (Config, error) {
	// A missing .env is the normal case.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("store: load .env: %w", err)
	}

	viper.SetDefault("path", "~/.critterdex")
	viper.SetDefault("backend", BackendDiskv)
	viper.SetDefault("catalog.url", DefaultCatalogURL)
	viper.SetDefault("catalog.key", "")
	viper.SetDefault("catalog.cache", "")
	viper.SetConfigName(".critterdex") // .yaml is implicit
	viper.SetEnvPrefix("CRITTERDEX")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if override := os.Getenv("CRITTERDEX_CONFIG_PATH"); override != "" {
		viper.AddConfigPath(override)
	}
	viper.AddConfigPath("./")
	if home, err := homedir.Dir(); err == nil {
		viper.AddConfigPath(home)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("store: reading config file: %w", err)
		}
	}

	cfg := &fileConfig{
		Path:  viper.GetString("path"),
		Kind:  strings.ToLower(strings.TrimSpace(viper.GetString("backend"))),
		URL:   strings.TrimRight(viper.GetString("catalog.url"), "/"),
		Key:   viper.GetString("catalog.key"),
		Cache: viper.GetString("catalog.cache"),
	}
	if err := cfg.expand(); err != nil {
		return nil, err
	}
	return cfg, nil
}

type fileConfig struct {
	Path  string `json:"path"`
	Kind  string `json:"backend"`
	URL   string `json:"catalogURL"`
	Key   string `json:"-"`
	Cache string `json:"catalogCache"`
}

func (f *fileConfig) expand() error {
	var err error
	if f.Path, err = homedir.Expand(f.Path); err != nil {
		return fmt.Errorf("store: expand path: %w", err)
	}
	if f.Cache == "" {
		f.Cache = filepath.Join(f.Path, "catalog")
	} else if f.Cache, err = homedir.Expand(f.Cache); err != nil {
		return fmt.Errorf("store: expand catalog cache: %w", err)
	}
	switch f.Kind {
	case "", BackendDiskv:
		f.Kind = BackendDiskv
	case BackendSQLite:
	default:
		return fmt.Errorf("store: unknown backend %q", f.Kind)
	}
	if f.URL == "" {
		f.URL = DefaultCatalogURL
	}
	return nil
}

func (f *fileConfig) BasePath() string {
	return f.Path
}

func (f *fileConfig) Backend() string {
	return f.Kind
}

func (f *fileConfig) CatalogURL() string {
	return f.URL
}

func (f *fileConfig) CatalogKey() string {
	return f.Key
}

// CatalogCache is the diskv directory for downloaded catalogs. It defaults to
// a catalog directory under BasePath.
func (f *fileConfig) CatalogCache() string {
	return f.Cache
}
