package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Catalog
	CatalogBaseURL   string
	CatalogSearchURL string
	UniversityToken  string

	// Crawl
	UnitWorkers    int
	CourseWorkers  int
	PageLimit      int
	RPS            float64
	Burst          int
	MaxAttempts    int
	ConnectTimeout time.Duration
	TotalTimeout   time.Duration
	UserAgent      string

	LogLevel string

	// SQL
	SQLDriver string
	SQLDSN    string
	SQLTable  string

	// BigQuery
	BigQueryProject         string
	BigQueryDataset         string
	BigQueryTable           string
	BigQueryCredentialsFile string

	// SFTP
	SFTPHost                  string
	SFTPPort                  int
	SFTPUser                  string
	SFTPPass                  string
	SFTPDir                   string
	SFTPKnownHosts            string
	SFTPInsecureIgnoreHostKey bool
}

// Load reads the environment, after applying an optional .env file from the
// working directory (or ENV_FILE when set). Variables already in the environment win.
func Load() (Config, error) {
	if err := loadEnvFile(); err != nil {
		return Config{}, err
	}

	return Config{
		// Catalog
		CatalogBaseURL:   strings.TrimRight(getenv("CATALOG_BASE_URL", "https://www.bu.edu"), "/"),
		CatalogSearchURL: getenv("CATALOG_SEARCH_URL", "https://www.bu.edu/phpbin/course-search/search.php"),
		UniversityToken:  getenv("CATALOG_UNIVERSITY_TOKEN", "BU"),

		// Crawl
		UnitWorkers:    getenvInt("CRAWL_UNIT_WORKERS", 8),
		CourseWorkers:  getenvInt("CRAWL_COURSE_WORKERS", 16),
		PageLimit:      getenvInt("CRAWL_PAGE_LIMIT", 200),
		RPS:            getenvFloat("CRAWL_RPS", 8),
		Burst:          getenvInt("CRAWL_BURST", 4),
		MaxAttempts:    getenvInt("CRAWL_MAX_ATTEMPTS", 4),
		ConnectTimeout: getenvDuration("CRAWL_CONNECT_TIMEOUT", 9050*time.Millisecond),
		TotalTimeout:   getenvDuration("CRAWL_TOTAL_TIMEOUT", 27*time.Second),
		UserAgent:      os.Getenv("CRAWL_USER_AGENT"),

		LogLevel: getenv("LOG_LEVEL", "info"),

		// SQL
		SQLDriver: getenv("SQL_DRIVER", "sqlite"),
		SQLDSN:    getenv("SQL_DSN", "catalog.db"),
		SQLTable:  getenv("SQL_TABLE", "courses"),

		// BigQuery
		BigQueryProject:         os.Getenv("BIGQUERY_PROJECT"),
		BigQueryDataset:         os.Getenv("BIGQUERY_DATASET"),
		BigQueryTable:           getenv("BIGQUERY_TABLE", "courses"),
		BigQueryCredentialsFile: os.Getenv("BIGQUERY_CREDENTIALS_FILE"),

		// SFTP
		SFTPHost:                  os.Getenv("SFTP_HOST"),
		SFTPPort:                  getenvInt("SFTP_PORT", 22),
		SFTPUser:                  os.Getenv("SFTP_USER"),
		SFTPPass:                  os.Getenv("SFTP_PASS"),
		SFTPDir:                   getenv("SFTP_DIR", "/inbound"),
		SFTPKnownHosts:            os.Getenv("SFTP_KNOWN_HOSTS"),
		SFTPInsecureIgnoreHostKey: getenvBool("SFTP_INSECURE_IGNORE_HOSTKEY", true),
	}, nil
}

// HasSFTP reports whether enough is configured to attempt an upload.
func (c Config) HasSFTP() bool {
	return c.SFTPHost != "" && c.SFTPUser != ""
}

func loadEnvFile() error {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

func getenv(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(k string, def int) int {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getenvFloat(k string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getenvBool(k string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// getenvDuration accepts Go durations ("27s") or a bare number of seconds.
func getenvDuration(k string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.ParseFloat(v, 64); err == nil {
		return time.Duration(secs * float64(time.Second))
	}
	return def
}
