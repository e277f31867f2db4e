package config

import (
	"fmt"
	"strings"
	"time"

	"gamebus_backend/pkg/utils"

	"github.com/joho/godotenv"
)

// Store drivers.
const (
	DriverXLSX     = "xlsx"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config is the process configuration, read once at startup.
type Config struct {
	Port               string
	StoreDriver        string
	DBPath             string // workbook path for the xlsx driver
	DatabaseURL        string // DSN for the postgres and sqlite drivers
	CORSAllowedOrigins []string

	JWTSecret            string
	JWTTTL               time.Duration
	OperatorUsername     string
	OperatorPassword     string
	OperatorPasswordHash string

	PhoneRegion        string
	FixedCostFromMonth int

	GeocoderURL       string
	GeocoderUserAgent string
	GeocoderTimeout   time.Duration

	BackupDir      string
	BackupSchedule string
	BackupKeep     int

	LogLevel  string
	LogFormat string
}

// AuthEnabled is false when no operator password is configured.
func (c Config) AuthEnabled() bool {
	return c.OperatorPassword != "" || c.OperatorPasswordHash != ""
}

// Load reads an optional .env file, then the environment.
func Load() (Config, error) {
	// A missing .env file is normal outside development.
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the configuration from environment variables only.
func FromEnv() (Config, error) {
	cfg := Config{
		Port:               utils.Getenv("PORT", "8080"),
		StoreDriver:        strings.ToLower(utils.Getenv("STORE_DRIVER", DriverXLSX)),
		DBPath:             utils.Getenv("DB_PATH", "GameBus_DB.xlsx"),
		DatabaseURL:        utils.Getenv("DATABASE_URL", ""),
		CORSAllowedOrigins: utils.GetenvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),

		JWTSecret:            utils.Getenv("JWT_SECRET", ""),
		JWTTTL:               utils.GetenvDuration("JWT_TTL", 12*time.Hour),
		OperatorUsername:     utils.Getenv("OPERATOR_USERNAME", "admin"),
		OperatorPassword:     utils.Getenv("OPERATOR_PASSWORD", ""),
		OperatorPasswordHash: utils.Getenv("OPERATOR_PASSWORD_HASH", ""),

		PhoneRegion:        strings.ToUpper(utils.Getenv("PHONE_REGION", "MX")),
		FixedCostFromMonth: utils.GetenvInt("FIXED_COST_FROM_MONTH", 10),

		GeocoderURL:       utils.Getenv("GEOCODER_URL", "https://nominatim.openstreetmap.org"),
		GeocoderUserAgent: utils.Getenv("GEOCODER_USER_AGENT", "GAMEBUS-MTY/1.0 (backend)"),
		GeocoderTimeout:   utils.GetenvDuration("GEOCODER_TIMEOUT", 8*time.Second),

		BackupDir:      utils.Getenv("BACKUP_DIR", ""),
		BackupSchedule: utils.Getenv("BACKUP_SCHEDULE", "0 3 * * *"),
		BackupKeep:     utils.GetenvInt("BACKUP_KEEP", 14),

		LogLevel:  utils.Getenv("LOG_LEVEL", "info"),
		LogFormat: utils.Getenv("LOG_FORMAT", "console"),
	}
	return cfg, cfg.Validate()
}

// Validate rejects combinations the server cannot start with.
func (c Config) Validate() error {
	switch c.StoreDriver {
	case DriverXLSX:
		if c.DBPath == "" {
			return fmt.Errorf("DB_PATH is required for the %s store", DriverXLSX)
		}
	case DriverPostgres, DriverSQLite:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the %s store", c.StoreDriver)
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.FixedCostFromMonth < 1 || c.FixedCostFromMonth > 13 {
		return fmt.Errorf("FIXED_COST_FROM_MONTH must be between 1 and 13, got %d", c.FixedCostFromMonth)
	}
	if c.AuthEnabled() && len(c.JWTSecret) < 16 {
		return fmt.Errorf("JWT_SECRET of at least 16 bytes is required when OPERATOR_PASSWORD is set")
	}
	return nil
}
