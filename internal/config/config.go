package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the whole-app configuration.
type Config struct {
	Port string

	// DATABASE_URL wins over the POSTGRES_* parts
	DatabaseURL      string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     int

	JWTSecret      string
	AccessTokenTTL time.Duration

	GoEnv string // dev/prod
	FEURL string // CORS origin

	// mess-local clock used for meal windows
	MessLocation *time.Location
	MenuSeedPath string
	MenuVegOnly  bool

	AdminEnrollment string
	AdminPassword   string

	// empty = no catalog cache
	RedisAddr       string
	CatalogCacheTTL time.Duration
}

const (
	defaultMessTimezone    = "Asia/Kolkata"
	defaultAccessTokenTTL  = 24 * time.Hour
	defaultCatalogCacheTTL = 5 * time.Minute
)

// Load reads the environment.
func Load() (Config, error) {
	cfg := Config{
		Port: os.Getenv("PORT"),

		DatabaseURL:      os.Getenv("DATABASE_URL"),
		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresHost:     os.Getenv("POSTGRES_HOST"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		GoEnv: os.Getenv("GO_ENV"),
		FEURL: os.Getenv("FE_URL"),

		MenuSeedPath: os.Getenv("MENU_SEED_PATH"),

		AdminEnrollment: strings.TrimSpace(os.Getenv("ADMIN_ENROLLMENT")),
		AdminPassword:   os.Getenv("ADMIN_PASSWORD"),

		RedisAddr: os.Getenv("REDIS_ADDR"),
	}

	// required
	if cfg.Port == "" {
		return Config{}, fmt.Errorf("PORT is required")
	}
	if cfg.DatabaseURL == "" {
		pgPort, err := mustAtoi("POSTGRES_PORT")
		if err != nil {
			return Config{}, err
		}
		cfg.PostgresPort = pgPort

		if cfg.PostgresUser == "" {
			return Config{}, fmt.Errorf("POSTGRES_USER is required")
		}
		if cfg.PostgresPassword == "" {
			return Config{}, fmt.Errorf("POSTGRES_PASSWORD is required")
		}
		if cfg.PostgresDB == "" {
			return Config{}, fmt.Errorf("POSTGRES_DB is required")
		}
		if cfg.PostgresHost == "" {
			return Config{}, fmt.Errorf("POSTGRES_HOST is required")
		}
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.GoEnv == "" {
		return Config{}, fmt.Errorf("GO_ENV is required")
	}
	if cfg.FEURL == "" {
		return Config{}, fmt.Errorf("FE_URL is required")
	}
	// admin seed is all-or-nothing
	if (cfg.AdminEnrollment == "") != (cfg.AdminPassword == "") {
		return Config{}, fmt.Errorf("ADMIN_ENROLLMENT and ADMIN_PASSWORD must be set together")
	}

	tz := os.Getenv("MESS_TIMEZONE")
	if tz == "" {
		tz = defaultMessTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return Config{}, fmt.Errorf("MESS_TIMEZONE: %w", err)
	}
	cfg.MessLocation = loc

	if cfg.MenuVegOnly, err = optBool("MENU_VEG_ONLY", false); err != nil {
		return Config{}, err
	}
	if cfg.AccessTokenTTL, err = optDuration("ACCESS_TOKEN_TTL", defaultAccessTokenTTL); err != nil {
		return Config{}, err
	}
	if cfg.CatalogCacheTTL, err = optDuration("CATALOG_CACHE_TTL", defaultCatalogCacheTTL); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) IsProd() bool {
	return c.GoEnv == "prod"
}

func mustAtoi(key string) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func optBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be bool: %w", key, err)
	}
	return b, nil
}

func optDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be duration: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}
