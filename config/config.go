package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// SMTP holds the credentials for the transactional mail provider.
type SMTP struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// GoogleOAuth holds the client credentials for Google sign-in.
type GoogleOAuth struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// BankAccount is returned to clients that pick the qr_code payment method.
type BankAccount struct {
	BankName      string
	AccountName   string
	AccountNumber string
}

// Config is read from the environment exactly once at startup and passed
// around by reference. Handlers never touch os.Getenv directly.
type Config struct {
	Env  string
	Port string

	MongoURI     string
	DatabaseName string

	JWTSecret        string
	JWTRefreshSecret string
	AccessTTL        time.Duration
	RefreshTTL       time.Duration

	AllowedOrigins []string

	GCSBucket       string
	CredentialsFile string
	MaxProdImages   int

	AdminEmail    string
	AdminPassword string

	SMTP        SMTP
	GoogleOAuth GoogleOAuth
	BankAccount BankAccount
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:  getEnv("APP_ENV", "development"),
		Port: getEnv("PORT", "8080"),

		MongoURI:     os.Getenv("MONGODB_URI"),
		DatabaseName: getEnv("DATABASE_NAME", "storefront"),

		JWTSecret:        os.Getenv("JWT_SECRET"),
		JWTRefreshSecret: os.Getenv("JWT_REFRESH_SECRET"),
		AccessTTL:        time.Duration(getEnvInt("ACCESS_TOKEN_TTL_MINUTES", 15)) * time.Minute,
		RefreshTTL:       time.Duration(getEnvInt("REFRESH_TOKEN_TTL_DAYS", 14)) * 24 * time.Hour,

		GCSBucket:       os.Getenv("GCS_BUCKET"),
		CredentialsFile: os.Getenv("CREDENTIALS_FILE_LOCATION"),
		MaxProdImages:   getEnvInt("MAX_PROD_IMAGES", 4),

		AdminEmail:    strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL"))),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		SMTP: SMTP{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnv("SMTP_PORT", "587"),
			Username: os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASS"),
			From:     os.Getenv("SMTP_FROM"),
		},
		GoogleOAuth: GoogleOAuth{
			ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			RedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
		},
		BankAccount: BankAccount{
			BankName:      os.Getenv("BANK_NAME"),
			AccountName:   os.Getenv("BANK_ACCOUNT_NAME"),
			AccountNumber: os.Getenv("BANK_ACCOUNT_NUMBER"),
		},
	}

	for _, origin := range strings.Split(os.Getenv("ALLOWED_ORIGINS"), ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
		}
	}

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("missing MONGODB_URI env var")
	}
	if cfg.JWTSecret == "" || cfg.JWTRefreshSecret == "" {
		return nil, fmt.Errorf("missing JWT_SECRET or JWT_REFRESH_SECRET env vars")
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
