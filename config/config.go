package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/term"
)

type Config struct {
	Port   string
	DBPath string

	// Calendly API
	CalendlyToken   string
	CalendlyBaseURL string
	SyncDaysBack    int

	// Dashboard auth
	JWTSecret         string
	JWTAccessTTLHours int
	AdminEmail        string
	AdminPasswordHash string

	// Optional Redis response cache
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CORSOrigins []string
}

// Load reads environment variables and returns a Config object
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file, using environment variables")
	}

	accessTTL, _ := strconv.Atoi(getEnv("JWT_ACCESS_TTL_HOURS", "12"))
	daysBack, _ := strconv.Atoi(getEnv("SYNC_DAYS_BACK", "30"))
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))

	return &Config{
		Port:   getEnv("PORT", "8080"),
		DBPath: getEnv("DB_PATH", "calendly.db"),

		CalendlyToken:   os.Getenv("CALENDLY_API_TOKEN"),
		CalendlyBaseURL: getEnv("CALENDLY_BASE_URL", "https://api.calendly.com"),
		SyncDaysBack:    daysBack,

		JWTSecret:         os.Getenv("JWT_SECRET"),
		JWTAccessTTLHours: accessTTL,
		AdminEmail:        os.Getenv("ADMIN_EMAIL"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,

		CORSOrigins: splitOrigins(getEnv("CORS_ORIGINS", "http://localhost:5173")),
	}
}

// RequireCalendlyToken returns the configured API token, prompting on the
// terminal when the environment does not provide one. Tokens are never read
// from anywhere else.
func (c *Config) RequireCalendlyToken() (string, error) {
	if c.CalendlyToken != "" {
		return c.CalendlyToken, nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", fmt.Errorf("CALENDLY_API_TOKEN is not set")
	}
	fmt.Fprint(os.Stderr, "Calendly API token: ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	token := strings.TrimSpace(string(raw))
	if token == "" {
		return "", fmt.Errorf("empty Calendly API token")
	}
	c.CalendlyToken = token
	return token, nil
}

func splitOrigins(csv string) []string {
	var origins []string
	for _, o := range strings.Split(csv, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
