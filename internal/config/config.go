package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	Env      string
	AppName  string
	LogLevel string

	Store           string
	MongoURI        string
	MongoDB         string
	UseTransactions bool

	JWTSecret  string
	TokenTTL   time.Duration
	OTPTTL     time.Duration
	BcryptCost int

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	RedisAddr       string
	ProductCacheTTL time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	CORSOrigins   []string
	AuthRateLimit float64
	AuthRateBurst int
}

func (c *Config) IsDevelopment() bool { return c.Env == "development" }

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var p parser
	cfg := &Config{
		Port:     p.str("PORT", "8080"),
		Env:      p.str("APP_ENV", "development"),
		AppName:  p.str("APP_NAME", "Bharath Bhent"),
		LogLevel: p.str("LOG_LEVEL", "info"),

		Store:           p.str("STORE", "mongo"),
		MongoURI:        p.str("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:         p.str("MONGO_DB", "bharathbhent"),
		UseTransactions: p.boolean("MONGO_TRANSACTIONS", true),

		JWTSecret:  p.str("JWT_SECRET", ""),
		TokenTTL:   p.duration("JWT_TTL", 30*24*time.Hour),
		OTPTTL:     p.duration("OTP_TTL", 5*time.Minute),
		BcryptCost: p.integer("BCRYPT_COST", 12),

		SMTPHost:     p.str("SMTP_HOST", ""),
		SMTPPort:     p.integer("SMTP_PORT", 587),
		SMTPUsername: p.str("SMTP_USERNAME", ""),
		SMTPPassword: p.str("SMTP_PASSWORD", ""),
		SMTPFrom:     p.str("SMTP_FROM", ""),

		RedisAddr:       p.str("REDIS_ADDR", ""),
		ProductCacheTTL: p.duration("PRODUCT_CACHE_TTL", 10*time.Minute),

		KafkaBrokers: p.list("KAFKA_BROKERS"),
		KafkaTopic:   p.str("KAFKA_TOPIC", "order-events"),

		CORSOrigins:   p.list("CORS_ORIGINS"),
		AuthRateLimit: p.float("AUTH_RATE_LIMIT", 1),
		AuthRateBurst: p.integer("AUTH_RATE_BURST", 5),
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}
	if cfg.SMTPFrom == "" {
		cfg.SMTPFrom = cfg.SMTPUsername
	}

	if cfg.Store != "mongo" && cfg.Store != "memory" {
		p.errs = append(p.errs, fmt.Errorf("STORE: unknown store %q", cfg.Store))
	}
	if cfg.JWTSecret == "" {
		if !cfg.IsDevelopment() {
			p.errs = append(p.errs, errors.New("JWT_SECRET is required"))
		}
		cfg.JWTSecret = "dev-secret"
	}

	if err := errors.Join(p.errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

type parser struct {
	errs []error
}

func (p *parser) str(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func (p *parser) list(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (p *parser) integer(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return n
}

func (p *parser) float(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return f
}

func (p *parser) boolean(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return b
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return def
	}
	return d
}
