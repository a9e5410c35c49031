package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/shelfgraph/shelfgraph/internal/version"
)

// Profile is the configuration to start main server.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where shelfgraph stores its own data
	DSN string
	// Driver is the database driver (sqlite or postgres)
	Driver string
	// Version is the current version of server
	Version string
	// InstanceURL is the url of your shelfgraph instance.
	InstanceURL string
	// Secret signs access tokens. SHELFGRAPH_SECRET.
	Secret string

	// AI Configuration
	AIEnabled    bool   // SHELFGRAPH_AI_ENABLED
	AIAPIKey     string // SHELFGRAPH_AI_API_KEY
	AIBaseURL    string // SHELFGRAPH_AI_BASE_URL (default: https://api.openai.com/v1)
	AIModel      string // SHELFGRAPH_AI_MODEL (default: gpt-4o-mini)
	AIMaxWorkers int    // SHELFGRAPH_AI_MAX_WORKERS (default: 3) concurrent library analysis calls

	// OpenLibraryURL is the base URL for external book metadata lookup.
	OpenLibraryURL string // SHELFGRAPH_OPENLIBRARY_URL (default: https://openlibrary.org)

	// RateLimitRPS is the sustained per-user request rate. SHELFGRAPH_RATE_LIMIT_RPS (default: 10)
	RateLimitRPS int
	// RateLimitBurst is the per-user burst allowance. SHELFGRAPH_RATE_LIMIT_BURST (default: 20)
	RateLimitBurst int
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsAIEnabled returns true if AI is enabled and an API key is configured.
func (p *Profile) IsAIEnabled() bool {
	return p.AIEnabled && p.AIAPIKey != ""
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads configuration from SHELFGRAPH_* environment variables.
func (p *Profile) FromEnv() {
	p.Secret = os.Getenv("SHELFGRAPH_SECRET")
	p.AIEnabled = os.Getenv("SHELFGRAPH_AI_ENABLED") == "true"
	p.AIAPIKey = os.Getenv("SHELFGRAPH_AI_API_KEY")
	p.AIBaseURL = getEnvOrDefault("SHELFGRAPH_AI_BASE_URL", "https://api.openai.com/v1")
	p.AIModel = getEnvOrDefault("SHELFGRAPH_AI_MODEL", "gpt-4o-mini")
	if p.AIMaxWorkers == 0 {
		p.AIMaxWorkers = 3
	}
	p.OpenLibraryURL = getEnvOrDefault("SHELFGRAPH_OPENLIBRARY_URL", "https://openlibrary.org")
	p.RateLimitRPS = getEnvIntOrDefault("SHELFGRAPH_RATE_LIMIT_RPS", 10)
	p.RateLimitBurst = getEnvIntOrDefault("SHELFGRAPH_RATE_LIMIT_BURST", 20)
}

// getEnvIntOrDefault returns the environment variable parsed as an integer,
// or the default value when unset or malformed.
func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		slog.Warn("ignoring malformed integer setting", slog.String("key", key), slog.String("value", value))
		return defaultValue
	}
	return parsed
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

	if p.Version == "" {
		p.Version = version.GetCurrentVersion(p.Mode)
	}

	if p.Mode == "prod" && p.Data == "" {
		if runtime.GOOS == "windows" {
			p.Data = filepath.Join(os.Getenv("ProgramData"), "shelfgraph")
			if _, err := os.Stat(p.Data); os.IsNotExist(err) {
				if err := os.MkdirAll(p.Data, 0770); err != nil {
					slog.Error("failed to create data directory", slog.String("data", p.Data), slog.String("error", err.Error()))
					return err
				}
			}
		} else {
			p.Data = "/var/opt/shelfgraph"
		}
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		slog.Error("failed to check data dir", slog.String("data", dataDir), slog.String("error", err.Error()))
		return err
	}

	if p.Secret == "" {
		// Tokens signed with an ephemeral secret do not survive restarts.
		p.Secret = uuid.NewString()
		slog.Warn("SHELFGRAPH_SECRET is not set, using an ephemeral secret")
	}

	p.Data = dataDir
	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("shelfgraph_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}

	return nil
}
