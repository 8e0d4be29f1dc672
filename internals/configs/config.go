package configs

import (
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") != "" {
		log.Println("running on Railway, using system ENV")
		return
	}
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using system ENV")
		return
	}
	log.Println(".env loaded")
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func getInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// =======================
// TYPED CONFIG
// =======================

type HTTPConfig struct {
	Port         string
	AllowOrigins []string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DBConfig struct {
	DSN      string
	User     string
	Password string
	Host     string
	Port     string
	Name     string
	SSLMode  string
	MaxOpen  int
	MaxIdle  int
	Migrate  bool
}

type JWTConfig struct {
	Secret        string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	CookieSecure  bool
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
}

func (s StripeConfig) Enabled() bool { return s.SecretKey != "" }

type MidtransConfig struct {
	ServerKey  string
	Production bool
}

func (m MidtransConfig) Enabled() bool { return m.ServerKey != "" }

type ResendConfig struct {
	APIKey string
	From   string
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
	TLS      bool
}

type StorageConfig struct {
	Driver string // oss | s3 | ""

	OSSEndpoint  string
	OSSAccessKey string
	OSSSecretKey string
	OSSBucket    string
	OSSPublicURL string

	S3Bucket    string
	S3Region    string
	S3PublicURL string
}

type CronConfig struct {
	ReminderSpec string
	CleanupSpec  string
}

type PointsConfig struct {
	PerCurrencyUnit int
	Referral        int
}

type Config struct {
	Env            string
	SiteURL        string
	GoogleClientID string
	AccessTable    string

	HTTP     HTTPConfig
	DB       DBConfig
	JWT      JWTConfig
	Stripe   StripeConfig
	Midtrans MidtransConfig
	Resend   ResendConfig
	Redis    RedisConfig
	Storage  StorageConfig
	Cron     CronConfig
	Points   PointsConfig
}

// Load reads the process environment into a Config and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		Env:            GetEnv("APP_ENV", "production"),
		SiteURL:        strings.TrimRight(GetEnv("SITE_URL", "http://localhost:3000"), "/"),
		GoogleClientID: GetEnv("GOOGLE_CLIENT_ID"),
		AccessTable:    GetEnv("ACCESS_TABLE_PATH"),
		HTTP: HTTPConfig{
			Port:         GetEnv("PORT", "3000"),
			AllowOrigins: splitList(GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000,http://localhost:5173")),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  90 * time.Second,
		},
		DB: DBConfig{
			DSN:      GetEnv("DB_DSN"),
			User:     GetEnv("DB_USER"),
			Password: GetEnv("DB_PASSWORD"),
			Host:     GetEnv("DB_HOST"),
			Port:     GetEnv("DB_PORT", "5432"),
			Name:     GetEnv("DB_NAME"),
			SSLMode:  GetEnv("DB_SSLMODE", "require"),
			MaxOpen:  getInt("DB_MAX_OPEN_CONNS", 20),
			MaxIdle:  getInt("DB_MAX_IDLE_CONNS", 10),
			Migrate:  getBool("DB_MIGRATE", true),
		},
		JWT: JWTConfig{
			Secret:        GetEnv("JWT_SECRET"),
			RefreshSecret: GetEnv("JWT_REFRESH_SECRET"),
			AccessTTL:     time.Duration(getInt("JWT_ACCESS_TTL_MINUTES", 15)) * time.Minute,
			RefreshTTL:    time.Duration(getInt("JWT_REFRESH_TTL_DAYS", 7)) * 24 * time.Hour,
			CookieSecure:  getBool("COOKIE_SECURE", true),
		},
		Stripe: StripeConfig{
			SecretKey:     GetEnv("STRIPE_SECRET_KEY"),
			WebhookSecret: GetEnv("STRIPE_WEBHOOK_SECRET"),
		},
		Midtrans: MidtransConfig{
			ServerKey:  GetEnv("MIDTRANS_SERVER_KEY"),
			Production: getBool("MIDTRANS_PRODUCTION", false),
		},
		Resend: ResendConfig{
			APIKey: GetEnv("RESEND_API_KEY"),
			From:   GetEnv("EMAIL_FROM", "Studio <no-reply@studiofit.app>"),
		},
		Redis: RedisConfig{
			Host:     GetEnv("REDIS_HOST"),
			Password: GetEnv("REDIS_PASSWORD"),
			DB:       getInt("REDIS_DB", 0),
			TLS:      getBool("REDIS_TLS", false),
		},
		Storage: StorageConfig{
			Driver:       strings.ToLower(GetEnv("STORAGE_DRIVER")),
			OSSEndpoint:  GetEnv("OSS_ENDPOINT"),
			OSSAccessKey: GetEnv("OSS_ACCESS_KEY_ID"),
			OSSSecretKey: GetEnv("OSS_ACCESS_KEY_SECRET"),
			OSSBucket:    GetEnv("OSS_BUCKET_NAME"),
			OSSPublicURL: GetEnv("OSS_PUBLIC_URL"),
			S3Bucket:     GetEnv("S3_BUCKET"),
			S3Region:     GetEnv("AWS_REGION", "us-east-1"),
			S3PublicURL:  GetEnv("S3_PUBLIC_URL"),
		},
		Cron: CronConfig{
			ReminderSpec: GetEnv("REMINDER_CRON", "0 18 * * *"),
			CleanupSpec:  GetEnv("CLEANUP_CRON", "@hourly"),
		},
		Points: PointsConfig{
			PerCurrencyUnit: getInt("POINTS_PER_CURRENCY_UNIT", 1),
			Referral:        getInt("REFERRAL_POINTS", 100),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate collects every missing required key into a single error.
func (c *Config) Validate() error {
	var missing []string
	if c.DB.DSN == "" {
		for k, v := range map[string]string{
			"DB_USER": c.DB.User,
			"DB_HOST": c.DB.Host,
			"DB_NAME": c.DB.Name,
		} {
			if v == "" {
				missing = append(missing, k)
			}
		}
	}
	if c.JWT.Secret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.JWT.RefreshSecret == "" {
		missing = append(missing, "JWT_REFRESH_SECRET")
	}
	if c.Stripe.Enabled() && c.Stripe.WebhookSecret == "" {
		missing = append(missing, "STRIPE_WEBHOOK_SECRET")
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("missing required env: %s", strings.Join(missing, ", "))
	}
	return nil
}

// DatabaseDSN prefers DB_DSN and falls back to the DB_* parts.
func (c *Config) DatabaseDSN() string {
	if c.DB.DSN != "" {
		return c.DB.DSN
	}
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name, c.DB.SSLMode)
}

func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
