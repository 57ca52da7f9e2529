package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Cookie   CookieConfig
	CORS     CORSConfig
	Redis    RedisConfig
	Storage  StorageConfig
	SMTP     SMTPConfig
	Upload   UploadConfig
	Auth     AuthConfig
}

type AppConfig struct {
	AppName        string
	Environment    string
	HTTPPort       string
	MigrationsAuto bool
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration
}

type JWTConfig struct {
	Secret    string
	ExpiresIn time.Duration
}

type CookieConfig struct {
	Secure bool
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	TTL      time.Duration
}

type StorageConfig struct {
	SupabaseURL string
	SupabaseKey string
	Bucket      string
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	Timeout  time.Duration
}

type UploadConfig struct {
	TempDir  string
	MaxBytes int64
	Timeout  time.Duration
}

type AuthConfig struct {
	OTPTTL                      time.Duration
	ApplicationStatusOwnerCheck bool
}

var (
	errMissingRequiredEnv = errors.New("missing required environment variables")
	errInvalidEnv         = errors.New("invalid environment variables")
)

func Load() (Config, error) {
	cfg := Config{}

	var missing []string
	var invalid []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key string) string {
		return strings.TrimSpace(os.Getenv(key))
	}
	dur := func(key string, def time.Duration) time.Duration {
		raw := opt(key)
		if raw == "" {
			return def
		}
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			invalid = append(invalid, key)
			return def
		}
		return d
	}
	num := func(key string, def int64) int64 {
		raw := opt(key)
		if raw == "" {
			return def
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v < 0 {
			invalid = append(invalid, key)
			return def
		}
		return v
	}
	flag := func(key string) bool {
		v, _ := strconv.ParseBool(opt(key))
		return v
	}

	cfg.App = AppConfig{
		AppName:        req("APP_NAME"),
		Environment:    req("APP_ENV"),
		HTTPPort:       req("HTTP_PORT"),
		MigrationsAuto: flag("MIGRATIONS_AUTO"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:                opt("DB_HOST"),
		DBPort:                opt("DB_PORT"),
		DBName:                opt("DB_NAME"),
		DBUser:                opt("DB_USER"),
		DBPassword:            os.Getenv("DB_PASSWORD"),
		DBSSLMode:             opt("DB_SSL_MODE"),
		ConnectTimeout:        dur("DB_CONNECT_TIMEOUT", 5*time.Second),
		PoolMaxConns:          int32(num("DB_POOL_MAX_CONNS", 0)),
		PoolMinConns:          int32(num("DB_POOL_MIN_CONNS", 0)),
		PoolMaxConnLifetime:   dur("DB_POOL_MAX_CONN_LIFETIME", time.Hour),
		PoolMaxConnIdleTime:   dur("DB_POOL_MAX_CONN_IDLE_TIME", 30*time.Minute),
		PoolHealthCheckPeriod: dur("DB_POOL_HEALTH_CHECK_PERIOD", time.Minute),
	}
	if cfg.Database.DBSSLMode == "" {
		cfg.Database.DBSSLMode = "disable"
	}

	cfg.JWT = JWTConfig{
		Secret:    req("JWT_SECRET"),
		ExpiresIn: dur("JWT_EXPIRES_IN", 24*time.Hour),
	}

	cfg.Cookie = CookieConfig{Secure: flag("COOKIE_SECURE")}

	cfg.CORS = CORSConfig{AllowedOrigins: splitList(opt("CORS_ALLOWED_ORIGINS"))}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST"),
		Port:     opt("REDIS_PORT"),
		Password: opt("REDIS_PASSWORD"),
		TTL:      dur("REDIS_TTL", 10*time.Minute),
	}

	cfg.Storage = StorageConfig{
		SupabaseURL: opt("SUPABASE_URL"),
		SupabaseKey: opt("SUPABASE_KEY"),
		Bucket:      opt("SUPABASE_BUCKET"),
	}
	if cfg.Storage.Bucket == "" {
		cfg.Storage.Bucket = "job-portal"
	}

	cfg.SMTP = SMTPConfig{
		Host:     opt("SMTP_HOST"),
		Port:     int(num("SMTP_PORT", 587)),
		User:     opt("SMTP_USER"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     opt("SMTP_FROM"),
		Timeout:  dur("SMTP_TIMEOUT", 15*time.Second),
	}
	if cfg.SMTP.From == "" {
		cfg.SMTP.From = cfg.SMTP.User
	}

	cfg.Upload = UploadConfig{
		TempDir:  opt("UPLOAD_TEMP_DIR"),
		MaxBytes: num("UPLOAD_MAX_BYTES", 5<<20),
		Timeout:  dur("UPLOAD_TIMEOUT", 30*time.Second),
	}
	if cfg.Upload.TempDir == "" {
		cfg.Upload.TempDir = os.TempDir()
	}

	cfg.Auth = AuthConfig{
		OTPTTL:                      dur("OTP_TTL", 10*time.Minute),
		ApplicationStatusOwnerCheck: flag("APPLICATION_STATUS_OWNER_CHECK"),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errInvalidEnv, strings.Join(invalid, ", "))
	}

	return cfg, nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
