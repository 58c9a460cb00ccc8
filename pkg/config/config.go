package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

const (
	SessionStoreMemory   = "memory"
	SessionStorePostgres = "postgres"
	SessionStoreRedis    = "redis"
)

type Config struct {
	Port        string
	Environment string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string

	SpreadsheetID  string
	SheetName      string
	AppFolderName  string
	TimeZone       string
	PaymentMethods []string

	SessionSecret string
	SessionStore  string
	SessionMaxAge time.Duration

	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	OCREnabled          bool
	RemoteCallTimeout   time.Duration
	MaxUploadBytes      int64
	UploadRatePerMinute int

	StaticDir      string
	AllowedOrigins []string

	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	environment := getEnv("APP_ENV", getEnv("NODE_ENV", "development"))

	sessionStore := SessionStoreMemory
	if environment == "production" {
		sessionStore = SessionStorePostgres
	}

	return &Config{
		Port:        getEnv("PORT", "3000"),
		Environment: environment,

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURI:  getEnv("GOOGLE_REDIRECT_URI", ""),

		SpreadsheetID:  getEnv("GOOGLE_SPREADSHEET_ID", ""),
		SheetName:      getEnv("GOOGLE_SHEET_NAME", "Sheet1"),
		AppFolderName:  getEnv("GOOGLE_DRIVE_APP_FOLDER_NAME", "ReceiptManagerUploads"),
		TimeZone:       getEnv("TIME_ZONE", "Asia/Kuala_Lumpur"),
		PaymentMethods: splitList(getEnv("PAYMENT_METHODS", "Cash,Bank Transfer")),

		SessionSecret: getEnv("SESSION_SECRET", ""),
		SessionStore:  strings.ToLower(getEnv("SESSION_STORE", sessionStore)),
		SessionMaxAge: getDuration("SESSION_MAX_AGE", 30*24*time.Hour),

		DatabaseURL:   getEnv("DATABASE_URL", ""),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getInt("REDIS_DB", 0),

		OCREnabled:          getBool("OCR_ENABLED", false),
		RemoteCallTimeout:   getDuration("REMOTE_CALL_TIMEOUT", 30*time.Second),
		MaxUploadBytes:      int64(getInt("MAX_UPLOAD_BYTES", 10<<20)),
		UploadRatePerMinute: getInt("UPLOAD_RATE_PER_MINUTE", 30),

		StaticDir:      getEnv("STATIC_DIR", "public"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "")),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogPath:       getEnv("LOG_PATH", ""),
		LogMaxSizeMB:  getInt("LOG_MAX_SIZE_MB", 100),
		LogMaxBackups: getInt("LOG_MAX_BACKUPS", 3),
		LogMaxAgeDays: getInt("LOG_MAX_AGE_DAYS", 7),
		LogCompress:   getBool("LOG_COMPRESS", false),
	}
}

// IsProduction reports whether cookies must be marked secure.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// LedgerConfigured reports whether upload rows can be appended to a spreadsheet.
func (c *Config) LedgerConfigured() bool {
	return c.SpreadsheetID != ""
}

// Location resolves the configured time zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIME_ZONE %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

// Validate checks the settings required at startup. Fatal problems are
// returned as an error, recoverable ones as warnings.
func (c *Config) Validate() ([]string, error) {
	var errs []error
	var warnings []string

	if c.GoogleClientID == "" || c.GoogleClientSecret == "" || c.GoogleRedirectURI == "" {
		errs = append(errs, errors.New("google OAuth credentials (GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET, GOOGLE_REDIRECT_URI) are not configured"))
	}
	if len(c.PaymentMethods) == 0 {
		errs = append(errs, errors.New("PAYMENT_METHODS must list at least one payment method"))
	}
	if c.AppFolderName == "" {
		errs = append(errs, errors.New("GOOGLE_DRIVE_APP_FOLDER_NAME must not be empty"))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}

	switch c.SessionStore {
	case SessionStoreMemory:
		if c.IsProduction() {
			warnings = append(warnings, "using the in-memory session store in production; sessions are lost on restart")
		}
	case SessionStorePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres session store"))
		}
	case SessionStoreRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required for the redis session store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown SESSION_STORE %q", c.SessionStore))
	}

	if c.SpreadsheetID == "" {
		warnings = append(warnings, "GOOGLE_SPREADSHEET_ID is not configured; uploads will skip the sheet update")
	}
	if len(c.SessionSecret) < 32 {
		warnings = append(warnings, "SESSION_SECRET is missing or shorter than 32 characters")
	}

	return warnings, errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// splitList splits a comma separated value, trimming items and dropping empties.
func splitList(value string) []string {
	items := make([]string, 0)
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}
