package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations.
type Config struct {
	Env             string // application environment (e.g. "dev", "prod")
	Port            string // HTTP port to listen on
	DBUser          string // database username
	DBPass          string // database password (optional)
	DBHost          string // database host address
	DBPort          string // database port number
	DBName          string // database name
	DBMaxOpenConns  int    // connection pool: max open connections
	DBMaxIdleConns  int    // connection pool: max idle connections
	JWTSecret       string // secret used to sign JWTs
	TokenTTLDays    int    // bearer token time-to-live in days
	StripeSecretKey string // secret API key for the payment gateway
	PaymentCurrency string // ISO currency code for payment intents
	AmqpURL         string // RabbitMQ connection URL (optional)
}

// Load reads configuration values from environment variables and returns a
// Config. Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:             must("APP_ENV"),
		Port:            must("APP_PORT"),
		DBUser:          must("DB_USER"),
		DBPass:          os.Getenv("DB_PASS"), // empty allowed
		DBHost:          must("DB_HOST"),
		DBPort:          must("DB_PORT"),
		DBName:          must("DB_NAME"),
		DBMaxOpenConns:  envInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:  envInt("DB_MAX_IDLE_CONNS", 25),
		JWTSecret:       must("JWT_SECRET"),
		TokenTTLDays:    mustInt("TOKEN_TTL_DAYS"),
		StripeSecretKey: must("STRIPE_SECRET_KEY"),
		PaymentCurrency: getenv("PAYMENT_CURRENCY", "usd"),
		AmqpURL:         os.Getenv("RABBITMQ_URL"), // empty disables event publishing
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

// getenv returns the value of key or def when unset/empty.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
