package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	Cart         CartConfig
	Catalog      CatalogConfig
	Pricing      PricingConfig
	Gateway      GatewayConfig
	Shipping     ShippingConfig
	Checkout     CheckoutConfig
	Security     SecurityConfig
	Sweeper      SweeperConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SHOPKART_APP_ENV" required:"true"`
	Port         string `envconfig:"SHOPKART_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SHOPKART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SHOPKART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"SHOPKART_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"SHOPKART_DB_DSN"`
	Driver string `envconfig:"SHOPKART_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SHOPKART_DB_HOST"`
	LegacyPort     int    `envconfig:"SHOPKART_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SHOPKART_DB_USER"`
	LegacyPassword string `envconfig:"SHOPKART_DB_PASSWORD"`
	LegacyName     string `envconfig:"SHOPKART_DB_NAME"`
	LegacySSLMode  string `envconfig:"SHOPKART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SHOPKART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SHOPKART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SHOPKART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SHOPKART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SHOPKART_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SHOPKART_REDIS_ADDR"`
	Password     string        `envconfig:"SHOPKART_REDIS_PASSWORD"`
	DB           int           `envconfig:"SHOPKART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SHOPKART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SHOPKART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SHOPKART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHOPKART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SHOPKART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// CartConfig points at the cart service consumed during checkout.
type CartConfig struct {
	BaseURL string        `envconfig:"SHOPKART_CART_BASE_URL" required:"true"`
	Timeout time.Duration `envconfig:"SHOPKART_CART_TIMEOUT" default:"5s"`
}

type CatalogConfig struct {
	BaseURL string        `envconfig:"SHOPKART_CATALOG_BASE_URL" required:"true"`
	Timeout time.Duration `envconfig:"SHOPKART_CATALOG_TIMEOUT" default:"5s"`
}

type PricingConfig struct {
	BaseURL string        `envconfig:"SHOPKART_PRICING_BASE_URL" required:"true"`
	Timeout time.Duration `envconfig:"SHOPKART_PRICING_TIMEOUT" default:"5s"`
}

// GatewayConfig configures the PayPal-style payment gateway adapter.
type GatewayConfig struct {
	BaseURL      string        `envconfig:"SHOPKART_GATEWAY_BASE_URL" required:"true"`
	ClientID     string        `envconfig:"SHOPKART_GATEWAY_CLIENT_ID" required:"true"`
	ClientSecret string        `envconfig:"SHOPKART_GATEWAY_CLIENT_SECRET" required:"true"`
	Currency     string        `envconfig:"SHOPKART_GATEWAY_CURRENCY" default:"USD"`
	FXRateINRUSD string        `envconfig:"SHOPKART_GATEWAY_FX_RATE_INR_USD" default:"0.012"`
	Timeout      time.Duration `envconfig:"SHOPKART_GATEWAY_TIMEOUT" default:"10s"`
}

type ShippingConfig struct {
	DefaultUnitWeightKg string `envconfig:"SHOPKART_SHIPPING_UNIT_WEIGHT_KG" default:"0.5"`
}

type CheckoutConfig struct {
	// How long a gateway checkout may hold reservations before the sweeper
	// releases them.
	AttemptTTL time.Duration `envconfig:"SHOPKART_CHECKOUT_ATTEMPT_TTL" default:"30m"`
}

type SecurityConfig struct {
	// 32-byte hex key for encrypting gateway order ids at rest.
	GatewayIDKey string `envconfig:"SHOPKART_GATEWAY_ID_KEY" required:"true"`
}

type SweeperConfig struct {
	Interval  time.Duration `envconfig:"SHOPKART_SWEEPER_INTERVAL" default:"1m"`
	BatchSize int           `envconfig:"SHOPKART_SWEEPER_BATCH_SIZE" default:"50"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SHOPKART_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
