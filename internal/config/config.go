package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	DatabaseURL      string // あれば最優先
	PostgresUser     string // DBユーザー
	PostgresPassword string // DBパスワード
	PostgresDB       string // DB名
	PostgresHost     string // DBホスト（localhost）
	PostgresPort     int    // DBポート（5432）
	PostgresSSLMode  string

	JWTSecret      string        // JWT署名シークレット
	AccessTokenTTL time.Duration // アクセストークンの有効期限
	RequireAuth    bool          // trueなら/api配下はBearer必須

	AdminUsername string // 初期管理者
	AdminPassword string
	BcryptCost    int

	TaxRatePercent decimal.Decimal // 見積もりの既定税率（%）

	GoEnv           string // dev/prod
	ShutdownTimeout time.Duration
}

const devJWTSecret = "dev_secret_change_me"

// Loadは環境変数
func Load() (Config, error) {
	pgPort, err := intEnv("POSTGRES_PORT", 5432)
	if err != nil {
		return Config{}, err
	}
	ttl, err := durationEnv("ACCESS_TOKEN_TTL", 15*time.Minute)
	if err != nil {
		return Config{}, err
	}
	shutdown, err := durationEnv("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return Config{}, err
	}
	requireAuth, err := boolEnv("REQUIRE_AUTH", false)
	if err != nil {
		return Config{}, err
	}
	cost, err := intEnv("BCRYPT_COST", 12)
	if err != nil {
		return Config{}, err
	}
	taxRate, err := decimal.NewFromString(getenv("TAX_RATE_PERCENT", "10"))
	if err != nil {
		return Config{}, fmt.Errorf("TAX_RATE_PERCENT must be number: %w", err)
	}

	cfg := Config{
		Port: getenv("PORT", "8080"),

		DatabaseURL:      os.Getenv("DATABASE_URL"),
		PostgresUser:     getenv("POSTGRES_USER", "postgres"),
		PostgresPassword: getenv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:       getenv("POSTGRES_DB", "pos"),
		PostgresHost:     getenv("POSTGRES_HOST", "localhost"),
		PostgresPort:     pgPort,
		PostgresSSLMode:  getenv("POSTGRES_SSLMODE", "disable"),

		JWTSecret:      os.Getenv("JWT_SECRET"),
		AccessTokenTTL: ttl,
		RequireAuth:    requireAuth,

		AdminUsername: getenv("ADMIN_USERNAME", "admin"),
		AdminPassword: getenv("ADMIN_PASSWORD", "admin123"),
		BcryptCost:    cost,

		TaxRatePercent: taxRate,

		GoEnv:           getenv("GO_ENV", "dev"),
		ShutdownTimeout: shutdown,
	}

	//必須チェック
	if cfg.JWTSecret == "" {
		if cfg.IsProd() {
			return Config{}, fmt.Errorf("JWT_SECRET is required")
		}
		cfg.JWTSecret = devJWTSecret
	}
	if cfg.AccessTokenTTL <= 0 {
		return Config{}, fmt.Errorf("ACCESS_TOKEN_TTL must be positive")
	}
	if cfg.TaxRatePercent.IsNegative() {
		return Config{}, fmt.Errorf("TAX_RATE_PERCENT must be >= 0")
	}
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return Config{}, fmt.Errorf("ADMIN_USERNAME and ADMIN_PASSWORD are required")
	}

	return cfg, nil
}

func (c Config) IsProd() bool {
	return c.GoEnv == "prod"
}

// DSNを組み立てる
func (c Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresSSLMode,
	)
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be duration: %w", key, err)
	}
	return d, nil
}

func boolEnv(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be bool: %w", key, err)
	}
	return b, nil
}
