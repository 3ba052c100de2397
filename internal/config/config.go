package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Store backends.
const (
	BackendFile  = "file"
	BackendMySQL = "mysql"
)

// DefaultStorageKey names the snapshot file or row when BLIP_STORAGE_KEY is unset.
const DefaultStorageKey = "blip-storage"

// Config holds environment-driven configuration.
type Config struct {
	Store struct {
		Backend string // file (default) or mysql
		Dir     string // snapshot directory for the file backend, default ~/.blip
		Key     string
	}
	MySQL struct {
		DSN string // e.g., user:pass@tcp(host:3306)/dbname?parseTime=true&multiStatements=true
	}
	Locator struct {
		URL     string // device location service; empty means no location source
		Token   string
		Timeout time.Duration
	}
	HTTP struct {
		Addr string
	}
	Employee struct {
		ID string // default employee for CLI commands
	}
}

// Load reads configuration from environment variables.
func Load() (Config, error) {
	var cfg Config

	cfg.Store.Backend = os.Getenv("BLIP_STORE")
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = BackendFile
	}
	cfg.Store.Key = os.Getenv("BLIP_STORAGE_KEY")
	if cfg.Store.Key == "" {
		cfg.Store.Key = DefaultStorageKey
	}
	cfg.MySQL.DSN = os.Getenv("MYSQL_DSN")

	switch cfg.Store.Backend {
	case BackendFile:
		cfg.Store.Dir = os.Getenv("BLIP_HOME")
		if cfg.Store.Dir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return cfg, fmt.Errorf("BLIP_HOME is unset and no home directory: %w", err)
			}
			cfg.Store.Dir = filepath.Join(home, ".blip")
		}
	case BackendMySQL:
		if cfg.MySQL.DSN == "" {
			return cfg, errors.New("MYSQL_DSN is required when BLIP_STORE=mysql")
		}
	default:
		return cfg, fmt.Errorf("BLIP_STORE must be %q or %q, got %q", BackendFile, BackendMySQL, cfg.Store.Backend)
	}

	cfg.Locator.URL = os.Getenv("BLIP_LOCATOR_URL")
	cfg.Locator.Token = os.Getenv("BLIP_LOCATOR_TOKEN")
	cfg.Locator.Timeout = 10 * time.Second
	if v := os.Getenv("BLIP_LOCATOR_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return cfg, errors.New("BLIP_LOCATOR_TIMEOUT must be a positive duration, e.g. 10s")
		}
		cfg.Locator.Timeout = d
	}

	cfg.HTTP.Addr = os.Getenv("BLIP_HTTP_ADDR")
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}

	cfg.Employee.ID = os.Getenv("BLIP_EMPLOYEE_ID")

	return cfg, nil
}
