package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds every externally supplied setting. It is built once in main
// and handed to the components that need it instead of being read from
// package globals.
type Config struct {
	Port      string
	MongoURI  string
	MongoDB   string
	RedisAddr string

	JWTSecret []byte

	RazorpayKeyID     string
	RazorpayKeySecret string
	RazorpayBaseURL   string

	SMTPServer   string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	cfg := &Config{
		Port:              getEnv("PORT", ":8080"),
		MongoURI:          getEnv("MONGODB_URL", "mongodb://localhost:27017"),
		MongoDB:           getEnv("DATABASE_NAME", "glonix_electronics"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		JWTSecret:         []byte(os.Getenv("JWT_SECRET")),
		RazorpayKeyID:     os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret: os.Getenv("RAZORPAY_KEY_SECRET"),
		RazorpayBaseURL:   getEnv("RAZORPAY_BASE_URL", "https://api.razorpay.com"),
		SMTPServer:        getEnv("SMTP_SERVER", "smtp.gmail.com"),
		SMTPPort:          getEnvInt("SMTP_PORT", 587),
		SMTPUsername:      os.Getenv("SMTP_USERNAME"),
		SMTPPassword:      os.Getenv("SMTP_PASSWORD"),
		FromEmail:         getEnv("FROM_EMAIL", "noreply@glonix.in"),
	}

	if len(cfg.JWTSecret) == 0 {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.RazorpayKeySecret == "" {
		return nil, fmt.Errorf("RAZORPAY_KEY_SECRET is required")
	}
	if cfg.Port[0] != ':' {
		cfg.Port = ":" + cfg.Port
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
