package config // package config loads application configuration from environment variables

import (
    "log"     // log is used to report configuration errors and halt execution
    "os"      // os provides access to environment variables
    "strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable.  The operating window is configuration, not
// a constant, so deployments (and tests) can run venues on non-default
// hours.
type Config struct {
    Env       string // application environment (e.g. "dev", "prod")
    Port      string // HTTP port to listen on
    DBUser    string // database username
    DBPass    string // database password (optional)
    DBHost    string // database host address
    DBPort    string // database port number
    DBName    string // database name
    OpenHour  int    // first bookable hour of the day, inclusive
    CloseHour int    // closing hour of the day, exclusive
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  The booking window
// defaults to the global 08:00-22:00 policy when unset.
func Load() Config {
    cfg := Config{
        Env:       must("APP_ENV"),                  // environment (dev/test/prod)
        Port:      must("APP_PORT"),                 // port to bind the HTTP server
        DBUser:    must("DB_USER"),                  // database user
        DBPass:    os.Getenv("DB_PASS"),             // database password (empty allowed)
        DBHost:    must("DB_HOST"),                  // database host
        DBPort:    must("DB_PORT"),                  // database port
        DBName:    must("DB_NAME"),                  // database name
        OpenHour:  intOr("BOOKING_OPEN_HOUR", 8),    // first bookable hour
        CloseHour: intOr("BOOKING_CLOSE_HOUR", 22),  // closing hour (exclusive)
    }
    if cfg.OpenHour < 0 || cfg.CloseHour > 24 || cfg.CloseHour <= cfg.OpenHour {
        log.Fatalf("invalid booking window: open=%d close=%d", cfg.OpenHour, cfg.CloseHour)
    }
    return cfg
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

// intOr retrieves an optional integer environment variable, falling back
// to the default when unset.  A value that is set but malformed is a
// configuration error and exits.
func intOr(key string, def int) int {
    s := os.Getenv(key)
    if s == "" {
        return def
    }
    n, err := strconv.Atoi(s)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}
