package config

import (
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/nao1215/sitepulse/internal/kvstore"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "sitepulse"

	// DefaultEndpoint is the PageSpeed Insights v5 endpoint.
	DefaultEndpoint = "https://www.googleapis.com/pagespeedonline/v5/runPagespeed"

	// DefaultTimeout bounds one live audit request.
	DefaultTimeout = 60 * time.Second

	// DefaultConcurrency is the number of analyses run at once in a batch.
	DefaultConcurrency = 4

	// DefaultListenAddr is the HTTP API listen address.
	DefaultListenAddr = "127.0.0.1:8080"

	// DefaultStoreDriver is the key-value backend.
	DefaultStoreDriver = kvstore.DriverSQLite
)

// Environment variables read by ApplyEnv.
const (
	EnvAPIKey      = "SITEPULSE_API_KEY"
	EnvDatabaseURL = "SITEPULSE_DATABASE_URL"
	EnvS3AccessKey = "SITEPULSE_S3_ACCESS_KEY"
	EnvS3SecretKey = "SITEPULSE_S3_SECRET_KEY"
)

// ExportConfig configures the S3-compatible export sink.
type ExportConfig struct {
	// Endpoint is the S3 host, e.g. "s3.amazonaws.com" or "localhost:9000".
	Endpoint string

	// Bucket is the destination bucket. Export to S3 is enabled when set.
	Bucket string

	// Region is optional for most S3-compatible services.
	Region string

	AccessKey string
	SecretKey string

	// UseSSL selects https for the endpoint.
	UseSSL bool
}

// Enabled reports whether an S3 sink is configured.
func (e ExportConfig) Enabled() bool {
	return e.Bucket != ""
}

// Config holds all configuration options for SitePulse.
// It is built once at startup and passed explicitly to the components
// that need it.
type Config struct {
	// APIKey is the PageSpeed Insights credential. Empty means every
	// analysis is simulated unless the stored settings provide one.
	APIKey string

	// Endpoint is the audit API endpoint.
	Endpoint string

	// Timeout bounds each live audit request.
	Timeout time.Duration

	// ProxyAddress is an optional SOCKS5 proxy ("host:port") for the
	// live audit request and the site probe.
	ProxyAddress string

	// StoreDriver selects the key-value backend: sqlite, postgres or memory.
	StoreDriver string

	// DBDir is the SQLite data directory.
	// Defaults to the XDG data directory (~/.local/share/sitepulse on Linux).
	DBDir string

	// DatabaseURL is the PostgreSQL connection string for the postgres driver.
	DatabaseURL string

	// ListenAddr is the HTTP API listen address.
	ListenAddr string

	// AllowedOrigins lists the browser origins allowed by CORS.
	// Empty allows any origin.
	AllowedOrigins []string

	// Concurrency limits concurrent analyses in a batch.
	Concurrency int

	// Export configures the S3 export sink.
	Export ExportConfig

	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is the configuration file to load. When empty the
	// file is searched in the current directory and then the home directory.
	ConfigFilePath string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Endpoint:    DefaultEndpoint,
		Timeout:     DefaultTimeout,
		StoreDriver: DefaultStoreDriver,
		DBDir:       XDGDataDir(),
		ListenAddr:  DefaultListenAddr,
		Concurrency: DefaultConcurrency,
	}
}

// XDGDataDir returns the XDG data directory for SitePulse.
// On Linux: ~/.local/share/sitepulse
// On macOS: ~/Library/Application Support/sitepulse
// On Windows: %LOCALAPPDATA%\sitepulse
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for SitePulse.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// StoreTarget returns the kvstore target described by the configuration.
func (c *Config) StoreTarget() kvstore.Target {
	return kvstore.Target{
		Driver:      c.StoreDriver,
		DBDir:       c.DBDir,
		DatabaseURL: c.DatabaseURL,
	}
}

// ApplyEnv overrides fields from environment variables. getenv is usually
// os.Getenv; tests pass a map lookup.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := strings.TrimSpace(getenv(EnvAPIKey)); v != "" {
		c.APIKey = v
	}
	if v := getenv(EnvDatabaseURL); v != "" {
		c.DatabaseURL = v
	}
	if v := getenv(EnvS3AccessKey); v != "" {
		c.Export.AccessKey = v
	}
	if v := getenv(EnvS3SecretKey); v != "" {
		c.Export.SecretKey = v
	}
}

// Validate checks if the configuration is valid and returns the first
// problem found.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	u, err := url.Parse(c.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidEndpoint
	}

	switch c.StoreDriver {
	case kvstore.DriverSQLite, kvstore.DriverMemory:
	case kvstore.DriverPostgres:
		if c.DatabaseURL == "" {
			return ErrMissingDatabaseURL
		}
	default:
		return ErrUnknownStoreDriver
	}

	if c.Export.Enabled() && c.Export.Endpoint == "" {
		return ErrIncompleteExport
	}

	return nil
}

// String renders the configuration for debug output with secrets masked.
func (c *Config) String() string {
	var sb strings.Builder
	sb.WriteString("endpoint=" + c.Endpoint)
	sb.WriteString(" api_key=" + mask(c.APIKey))
	sb.WriteString(" timeout=" + c.Timeout.String())
	sb.WriteString(" store=" + c.StoreDriver)
	sb.WriteString(" concurrency=" + strconv.Itoa(c.Concurrency))
	if c.ProxyAddress != "" {
		sb.WriteString(" proxy=" + c.ProxyAddress)
	}
	return sb.String()
}

func mask(s string) string {
	if s == "" {
		return "(unset)"
	}
	return "[REDACTED]"
}
