package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config gathers every setting of the registry. Relative paths resolve
// against the working directory, so the first run creates the database,
// attachment and log locations there.
type Config struct {
	DBDriver          string
	DBDSN             string
	AttachDir         string
	AttachmentBackend string
	GCSBucket         string
	GCSCredentials    string
	LogDir            string
	LogLevel          slog.Level
	ExportPath        string
	Port              string
	SessionCacheSize  int
	SessionTTL        time.Duration
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	BackendLocal = "local"
	BackendGCS   = "gcs"
)

// Load reads .env (if any) and the environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using system environment variables")
	}

	cfg := Config{
		DBDriver:          strings.ToLower(getenv("DB_DRIVER", DriverSQLite)),
		DBDSN:             getenv("DB_DSN", "nc_ac_faben.db"),
		AttachDir:         getenv("ATTACH_DIR", "attachments"),
		AttachmentBackend: strings.ToLower(getenv("ATTACHMENT_BACKEND", BackendLocal)),
		GCSBucket:         os.Getenv("GCS_BUCKET"),
		GCSCredentials:    os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		LogDir:            getenv("LOG_DIR", "log"),
		LogLevel:          parseLevel(os.Getenv("LOG_LEVEL")),
		ExportPath:        getenv("EXPORT_PATH", "export_nc.xlsx"),
		Port:              getenv("PORT", "8080"),
		SessionCacheSize:  64,
		SessionTTL:        8 * time.Hour,
	}

	if v := os.Getenv("SESSION_CACHE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SessionCacheSize = n
		} else {
			slog.Warn("ignoring invalid SESSION_CACHE_SIZE", "value", v)
		}
	}

	if v := os.Getenv("SESSION_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.SessionTTL = d
		} else {
			slog.Warn("ignoring invalid SESSION_TTL", "value", v)
		}
	}

	// Same switch as the upload handler: a configured bucket on Cloud Run
	// means GCS even without an explicit backend.
	if cfg.GCSBucket != "" && os.Getenv("K_SERVICE") != "" {
		cfg.AttachmentBackend = BackendGCS
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseLevel(s string) slog.Level {
	var l slog.Level
	if s == "" {
		return slog.LevelInfo
	}
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}
