package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// DefaultDedupTTL is the window within which identical save requests are
// treated as duplicates.
const DefaultDedupTTL = 90 * time.Second

// Profile is the configuration to start the main server.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where naldo stores its own data
	DSN string
	// Driver is the database driver (sqlite or postgres)
	Driver string
	// Version is the current version of server
	Version string
	// DedupTTL is the duplicate-suppression window for save requests
	DedupTTL time.Duration
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads configuration from NALDO_* environment variables.
// Values already set on the profile (e.g. from flags) are kept.
func (p *Profile) FromEnv() {
	if p.Mode == "" {
		p.Mode = getEnvOrDefault("NALDO_MODE", "demo")
	}
	if p.Addr == "" {
		p.Addr = os.Getenv("NALDO_ADDR")
	}
	if p.Port == 0 {
		if v, err := strconv.Atoi(getEnvOrDefault("NALDO_PORT", "8230")); err == nil {
			p.Port = v
		}
	}
	if p.Data == "" {
		p.Data = os.Getenv("NALDO_DATA")
	}
	if p.Driver == "" {
		p.Driver = getEnvOrDefault("NALDO_DRIVER", "sqlite")
	}
	if p.DSN == "" {
		p.DSN = os.Getenv("NALDO_DSN")
	}
	if p.DedupTTL == 0 {
		if v, err := strconv.Atoi(getEnvOrDefault("NALDO_DEDUP_TTL_SEC", "90")); err == nil && v > 0 {
			p.DedupTTL = time.Duration(v) * time.Second
		} else {
			p.DedupTTL = DefaultDedupTTL
		}
	}
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Mode == "prod" && p.Data == "" {
		if runtime.GOOS == "windows" {
			p.Data = filepath.Join(os.Getenv("ProgramData"), "naldo")
			if _, err := os.Stat(p.Data); os.IsNotExist(err) {
				if err := os.MkdirAll(p.Data, 0770); err != nil {
					slog.Error("failed to create data directory", slog.String("data", p.Data), slog.String("error", err.Error()))
					return err
				}
			}
		} else {
			p.Data = "/var/opt/naldo"
		}
	}
	if p.Data == "" {
		p.Data = "."
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		slog.Error("failed to check data dir", slog.String("data", p.Data), slog.String("error", err.Error()))
		return err
	}

	p.Data = dataDir
	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("naldo_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}
	if p.Driver == "postgres" && p.DSN == "" {
		return errors.New("dsn is required for postgres driver")
	}
	if p.DedupTTL <= 0 {
		p.DedupTTL = DefaultDedupTTL
	}

	return nil
}
