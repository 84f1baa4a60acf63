// Package config resolves client configuration from the environment.
// Values are read once at process start and not re-read afterwards.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Env variable names consumed by the client binaries.
const (
	EnvAPIBaseURL = "INDIRIIM_API_URL"
	EnvBasePath   = "INDIRIIM_BASE_PATH"
	EnvDataDir    = "INDIRIIM_DATA_DIR"
	EnvSessionDB  = "INDIRIIM_SESSION_DB"
)

const defaultAPIBaseURL = "http://localhost:8092"

// Config holds everything the client needs to reach the platform API and
// to persist its session between runs.
type Config struct {
	APIBaseURL string // base URL of the platform API
	BasePath   string // path prefix when the deployment is mounted under a subpath
	DataDir    string // directory holding the persisted session entries
	SessionDB  string // optional SQLite path; overrides the file-based store
}

// ResolvedAPIURL joins the base URL with the deployment's path prefix.
// With the default "/" prefix it is just the base URL.
func (c Config) ResolvedAPIURL() string {
	prefix := strings.Trim(c.BasePath, "/")
	if prefix == "" {
		return c.APIBaseURL
	}
	return c.APIBaseURL + "/" + prefix
}

// Load reads configuration from the environment, with a best-effort .env
// load first for development convenience. Missing values fall back to
// defaults; Load never fails on absent optional settings.
func Load() (Config, error) {
	_ = godotenv.Load()

	c := Config{
		APIBaseURL: strings.TrimSpace(os.Getenv(EnvAPIBaseURL)),
		BasePath:   strings.TrimSpace(os.Getenv(EnvBasePath)),
		DataDir:    strings.TrimSpace(os.Getenv(EnvDataDir)),
		SessionDB:  strings.TrimSpace(os.Getenv(EnvSessionDB)),
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = defaultAPIBaseURL
	}
	c.APIBaseURL = strings.TrimRight(c.APIBaseURL, "/")
	if c.BasePath == "" {
		c.BasePath = "/"
	}
	if c.DataDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return Config{}, err
		}
		c.DataDir = filepath.Join(base, "indiriim-notify")
	}
	return c, nil
}
