package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Configはアプリ全体の設定
type Config struct {
	Port     string // サーバーポート（8080）
	GoEnv    string // dev/prod
	LogLevel string // debug/info/warn/error

	JWTSecret string // セッショントークンの署名シークレット

	CatalogAPIURL    string        // REST APIのベースURL（http://localhost:3000）
	HTTPTimeout      time.Duration // API呼び出し1回のタイムアウト
	RetryMaxAttempts int           // 読み取りの最大試行回数
	RetryDelay       time.Duration // リトライ間隔（固定）

	CartStore string // memory/postgres

	DatabaseURL      string // あれば最優先
	PostgresUser     string // DBユーザー
	PostgresPassword string // DBパスワード
	PostgresDB       string // DB名
	PostgresHost     string // DBホスト（localhost）
	PostgresPort     int    // DBポート（5432）
	PostgresSSLMode  string // disable/require

	MissingProductPolicy string // zero-price/reject
}

const (
	CartStoreMemory   = "memory"
	CartStorePostgres = "postgres"
)

// Loadは環境変数
func Load() (Config, error) {
	timeoutSec, err := atoiDefault("HTTP_TIMEOUT_SEC", 10)
	if err != nil {
		return Config{}, err
	}
	attempts, err := atoiDefault("RETRY_MAX_ATTEMPTS", 3)
	if err != nil {
		return Config{}, err
	}
	delayMS, err := atoiDefault("RETRY_DELAY_MS", 1000)
	if err != nil {
		return Config{}, err
	}
	pgPort, err := atoiDefault("POSTGRES_PORT", 5432)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:     getenv("PORT", "8080"),
		GoEnv:    getenv("GO_ENV", "dev"),
		LogLevel: getenv("LOG_LEVEL", "info"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		CatalogAPIURL:    os.Getenv("CATALOG_API_URL"),
		HTTPTimeout:      time.Duration(timeoutSec) * time.Second,
		RetryMaxAttempts: attempts,
		RetryDelay:       time.Duration(delayMS) * time.Millisecond,

		CartStore: strings.ToLower(getenv("CART_STORE", CartStoreMemory)),

		DatabaseURL:      os.Getenv("DATABASE_URL"),
		PostgresUser:     getenv("POSTGRES_USER", "postgres"),
		PostgresPassword: getenv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:       getenv("POSTGRES_DB", "storefront"),
		PostgresHost:     getenv("POSTGRES_HOST", "localhost"),
		PostgresPort:     pgPort,
		PostgresSSLMode:  getenv("POSTGRES_SSLMODE", "disable"),

		MissingProductPolicy: getenv("CHECKOUT_MISSING_PRODUCT_POLICY", "zero-price"),
	}

	//必須チェック
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.CatalogAPIURL == "" {
		return Config{}, fmt.Errorf("CATALOG_API_URL is required")
	}
	if cfg.RetryMaxAttempts < 1 {
		return Config{}, fmt.Errorf("RETRY_MAX_ATTEMPTS must be >= 1")
	}
	switch cfg.CartStore {
	case CartStoreMemory, CartStorePostgres:
	default:
		return Config{}, fmt.Errorf("CART_STORE must be %q or %q", CartStoreMemory, CartStorePostgres)
	}

	return cfg, nil
}

// ":8080" 形式
func (c Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func atoiDefault(key string, def int) (int, error) {
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
