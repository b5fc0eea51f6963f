package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. The values are read once at startup and treated
// as immutable afterwards; services receive the parts they need through
// their constructors.
type Config struct {
	Env        string        // application environment (e.g. "dev", "prod")
	Port       string        // HTTP port to listen on
	DBUser     string        // database username
	DBPass     string        // database password (optional)
	DBHost     string        // database host address
	DBPort     string        // database port number
	DBName     string        // database name
	JWTSecret  string        // secret used to sign JWTs
	AccessTTL  time.Duration // access token time-to-live
	RefreshTTL time.Duration // refresh token time-to-live
	VerifyTTL  time.Duration // email verification token time-to-live
	BcryptCost int           // bcrypt cost for password hashing
	AppBaseURL string        // public base URL used in verification links

	// Avatar object storage (MinIO / S3 compatible). Uploads are disabled
	// when the endpoint is left empty.
	AvatarEndpoint  string
	AvatarAccessKey string
	AvatarSecretKey string
	AvatarBucket    string
	AvatarUseSSL    bool
	AvatarBaseURL   string // public base URL for stored objects
}

// Load reads configuration values from environment variables and returns a
// Config. Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	port := must("APP_PORT")
	return Config{
		Env:        must("APP_ENV"),
		Port:       port,
		DBUser:     must("DB_USER"),
		DBPass:     os.Getenv("DB_PASS"), // empty allowed
		DBHost:     must("DB_HOST"),
		DBPort:     must("DB_PORT"),
		DBName:     must("DB_NAME"),
		JWTSecret:  must("JWT_SECRET"),
		AccessTTL:  time.Duration(mustInt("ACCESS_TOKEN_TTL_MIN")) * time.Minute,
		RefreshTTL: time.Duration(mustInt("REFRESH_TOKEN_TTL_DAYS")) * 24 * time.Hour,
		VerifyTTL:  time.Duration(envInt("VERIFY_TOKEN_TTL_HOURS", 24)) * time.Hour,
		BcryptCost: mustInt("BCRYPT_COST"),
		AppBaseURL: envStr("APP_BASE_URL", "http://localhost:"+port),

		AvatarEndpoint:  os.Getenv("AVATAR_S3_ENDPOINT"),
		AvatarAccessKey: os.Getenv("AVATAR_S3_ACCESS_KEY"),
		AvatarSecretKey: os.Getenv("AVATAR_S3_SECRET_KEY"),
		AvatarBucket:    envStr("AVATAR_S3_BUCKET", "avatars"),
		AvatarUseSSL:    envBool("AVATAR_S3_USE_SSL", false),
		AvatarBaseURL:   os.Getenv("AVATAR_PUBLIC_BASE_URL"),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
