package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"    // time is used for cookie and marker lifetimes
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints and durations
// for lifetimes and costs.
type Config struct {
	Env           string        // application environment (e.g. "dev", "prod")
	Port          string        // HTTP port to listen on
	DBUser        string        // database username
	DBPass        string        // database password (optional)
	DBHost        string        // database host address
	DBPort        string        // database port number
	DBName        string        // database name
	JWTSecret     string        // secret used to sign admin tokens
	TokenTTL      time.Duration // admin token (and cookie) time-to-live
	BcryptCost    int           // bcrypt cost for admin secret hashing
	MarkerTTL     time.Duration // lifetime of the post-claim session marker cookie
	SeedAdminUser string        // username of the bootstrap admin
	SeedAdminPass string        // plaintext secret of the bootstrap admin (hashed before storage)
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Tunables fall back
// to the reference defaults: 24h admin tokens, a 60s claim marker and
// bcrypt cost 10.
func Load() Config {
	return Config{
		Env:           envStr("APP_ENV", "dev"),
		Port:          envStr("APP_PORT", "3000"),
		DBUser:        must("DB_USER"),
		DBPass:        os.Getenv("DB_PASS"), // empty allowed
		DBHost:        must("DB_HOST"),
		DBPort:        must("DB_PORT"),
		DBName:        must("DB_NAME"),
		JWTSecret:     must("JWT_SECRET"),
		TokenTTL:      time.Duration(envInt("ADMIN_TOKEN_TTL_HOURS", 24)) * time.Hour,
		BcryptCost:    envInt("BCRYPT_COST", 10),
		MarkerTTL:     envDur("CLAIM_MARKER_TTL", time.Minute),
		SeedAdminUser: envStr("SEED_ADMIN_USER", "admin"),
		SeedAdminPass: envStr("SEED_ADMIN_PASS", "admin123"),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
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
