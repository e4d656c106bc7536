package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	CORSOrigins string
	TablePrefix string
	// Comma separated IPs/CIDRs whose X-Forwarded-For is honored
	TrustedProxies string
	// Admin authentication
	AdminPassword     string
	AdminPasswordHash string // bcrypt; takes precedence over AdminPassword
	AdminTokenSecret  string
	AdminSessionTTL   time.Duration
	AuthJWKSURL       string // Optional external identity provider
	AuthJWKSIssuer    string // Required iss of external tokens
	AuthJWKSAudience  string // Required aud of external tokens, if set
	AuthJWKSSubjects  string // Comma separated sub claims allowed in
	// Rate limits (requests per minute per client IP)
	LoginRatePerMinute   int
	ContactRatePerMinute int
	// Blob storage
	BlobBackend      string // "s3" or "local"
	S3Bucket         string
	S3Region         string
	S3PublicBaseURL  string
	UploadDir        string
	PublicBaseURL    string
	ImageMaxWidth    int
	ImageJPEGQuality int
	// Contact notifications
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFrom     string
	MailTo       string
	// Operations
	MetricsAddr      string
	PublicCacheTTL   time.Duration
	RenumberSchedule string
	SiteConfigPath   string
	LogDir           string
	LogMaxFiles      int
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	port := getEnv("PORT", "8080")

	return &Config{
		Port:        port,
		Environment: env,
		DatabaseURL: getEnv("DATABASE_URL", ""),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix: getTablePrefix(env),
		// Empty means forwarded headers are never trusted
		TrustedProxies: getEnv("TRUSTED_PROXIES", ""),
		// Admin authentication
		AdminPassword:     getEnv("ADMIN_PASSWORD", ""),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		AdminTokenSecret:  getEnv("ADMIN_TOKEN_SECRET", ""),
		AdminSessionTTL:   getDuration("ADMIN_SESSION_TTL", 12*time.Hour),
		AuthJWKSURL:       getEnv("AUTH_JWKS_URL", ""),
		AuthJWKSIssuer:    getEnv("AUTH_JWKS_ISSUER", ""),
		AuthJWKSAudience:  getEnv("AUTH_JWKS_AUDIENCE", ""),
		AuthJWKSSubjects:  getEnv("AUTH_JWKS_SUBJECTS", ""),
		// Rate limits
		LoginRatePerMinute:   getInt("LOGIN_RATE_PER_MINUTE", 5),
		ContactRatePerMinute: getInt("CONTACT_RATE_PER_MINUTE", 3),
		// Blob storage - local disk in dev, S3 otherwise
		BlobBackend:      getEnv("BLOB_BACKEND", getDefaultBlobBackend(env)),
		S3Bucket:         getEnv("S3_BUCKET", ""),
		S3Region:         getEnv("S3_REGION", "us-east-1"),
		S3PublicBaseURL:  getEnv("S3_PUBLIC_BASE_URL", ""),
		UploadDir:        getEnv("UPLOAD_DIR", "uploads"),
		PublicBaseURL:    getEnv("PUBLIC_BASE_URL", "http://localhost:"+port),
		ImageMaxWidth:    getInt("IMAGE_MAX_WIDTH", DefaultImageMaxWidth),
		ImageJPEGQuality: getInt("IMAGE_JPEG_QUALITY", DefaultJPEGQuality),
		// Contact notifications - disabled when SMTP_HOST is empty
		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getInt("SMTP_PORT", 587),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		MailFrom:     getEnv("MAIL_FROM", ""),
		MailTo:       getEnv("MAIL_TO", ""),
		// Operations
		MetricsAddr:      getEnv("METRICS_ADDR", ""),
		PublicCacheTTL:   getDuration("PUBLIC_CACHE_TTL", time.Minute),
		RenumberSchedule: os.Getenv("RENUMBER_SCHEDULE"),
		SiteConfigPath:   getEnv("SITE_CONFIG_PATH", ""),
		LogDir:           getEnv("LOG_DIR", ""),
		LogMaxFiles:      getInt("LOG_MAX_FILES", 10),
	}
}

// RenumberSpec returns the cron spec for the renumber job.
// RENUMBER_SCHEDULE unset means "@daily"; set to "off" to disable.
func (c *Config) RenumberSpec() string {
	switch c.RenumberSchedule {
	case "":
		return "@daily"
	case "off":
		return ""
	}
	return c.RenumberSchedule
}

// JWKSSubjects returns the allowed external token subjects
func (c *Config) JWKSSubjects() []string {
	var subjects []string
	for _, s := range strings.Split(c.AuthJWKSSubjects, ",") {
		if s = strings.TrimSpace(s); s != "" {
			subjects = append(subjects, s)
		}
	}
	return subjects
}

// SMTPEnabled reports whether contact notifications can be sent.
func (c *Config) SMTPEnabled() bool {
	return c.SMTPHost != "" && c.MailTo != ""
}

// getDefaultBlobBackend returns the default blob backend based on environment
func getDefaultBlobBackend(env string) string {
	if env == "prod" {
		return "s3"
	}
	return "local"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		slog.Warn("invalid integer in environment, using default", "key", key, "value", value, "default", defaultValue)
		return defaultValue
	}
	return n
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		slog.Warn("invalid duration in environment, using default", "key", key, "value", value, "default", defaultValue)
		return defaultValue
	}
	return d
}
