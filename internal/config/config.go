package config // package config loads application configuration from environment variables

import (
    "log"     // log is used to report configuration errors and halt execution
    "os"      // os provides access to environment variables
    "strconv" // strconv converts strings to other types
)

// Config holds the runtime configuration for the auth and roster services.
// Each field corresponds to an environment variable.  The types reflect how
// the values are used: strings for identifiers and secrets, ints for
// durations and costs.
type Config struct {
    Env            string // application environment (e.g. "dev", "prod")
    Port           string // HTTP port to listen on
    DBUser         string // database username
    DBPass         string // database password (optional)
    DBHost         string // database host address
    DBPort         string // database port number
    DBName         string // database name
    JWTSecret      string // secret used to sign access tokens
    AccessTTLMin   int    // access token time‑to‑live in minutes
    RefreshTTLDays int    // refresh token time‑to‑live in days
    BcryptCost     int    // bcrypt cost for password hashing
    AMQPURL        string // RabbitMQ connection URL (optional; events disabled when empty)
}

// GatewayConfig holds the runtime configuration for the edge gateway.  The
// gateway never touches the database; it only needs the shared signing
// secret to verify tokens and the upstream addresses of the two services.
type GatewayConfig struct {
    Env       string // application environment
    Port      string // HTTP port to listen on
    JWTSecret string // secret used to verify access tokens
    AuthURL   string // base URL of the auth service (e.g. http://localhost:8081)
    RosterURL string // base URL of the roster service
}

// Load reads service configuration from environment variables.  Required
// variables are enforced by must() and missing values cause the process to
// exit with a fatal log message.
func Load() Config {
    return Config{
        Env:            must("APP_ENV"),
        Port:           must("APP_PORT"),
        DBUser:         must("DB_USER"),
        DBPass:         os.Getenv("DB_PASS"), // empty password allowed
        DBHost:         must("DB_HOST"),
        DBPort:         must("DB_PORT"),
        DBName:         must("DB_NAME"),
        JWTSecret:      must("JWT_SECRET"),
        AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
        RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
        BcryptCost:     mustInt("BCRYPT_COST"),
        AMQPURL:        os.Getenv("RABBITMQ_URL"),
    }
}

// LoadGateway reads gateway configuration from environment variables.
func LoadGateway() GatewayConfig {
    return GatewayConfig{
        Env:       must("APP_ENV"),
        Port:      must("APP_PORT"),
        JWTSecret: must("JWT_SECRET"),
        AuthURL:   must("AUTH_SERVICE_URL"),
        RosterURL: must("ROSTER_SERVICE_URL"),
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
