package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
	Blockchain   BlockchainConfig
	Carbon       CarbonConfig
	Exchange     ExchangeConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Carbon.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Exchange.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"GPTX_APP_ENV" required:"true"`
	Port         string `envconfig:"GPTX_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"GPTX_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GPTX_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"GPTX_DB_DSN"`
	Driver string `envconfig:"GPTX_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"GPTX_DB_HOST"`
	LegacyPort     int    `envconfig:"GPTX_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"GPTX_DB_USER"`
	LegacyPassword string `envconfig:"GPTX_DB_PASSWORD"`
	LegacyName     string `envconfig:"GPTX_DB_NAME"`
	LegacySSLMode  string `envconfig:"GPTX_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GPTX_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GPTX_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GPTX_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GPTX_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"GPTX_REDIS_URL" required:"true"`
	Address      string        `envconfig:"GPTX_REDIS_ADDR"`
	Password     string        `envconfig:"GPTX_REDIS_PASSWORD"`
	DB           int           `envconfig:"GPTX_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GPTX_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GPTX_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GPTX_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GPTX_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GPTX_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"GPTX_AUTO_MIGRATE" default:"false"`
}

// BlockchainConfig carries the (mocked) chain metadata stamped onto
// synthesized transaction receipts.
type BlockchainConfig struct {
	ChainID         int    `envconfig:"GPTX_CHAIN_ID" default:"1337"`
	ProviderURL     string `envconfig:"GPTX_WEB3_PROVIDER_URL" default:"http://127.0.0.1:8545"`
	ContractAddress string `envconfig:"GPTX_CONTRACT_ADDRESS"`
}

type CarbonConfig struct {
	// OffsetRate is tons of CO2 offset per retired token.
	OffsetRate     string `envconfig:"GPTX_CARBON_OFFSET_RATE" default:"0.001"`
	OffsetProvider string `envconfig:"GPTX_CARBON_OFFSET_PROVIDER" default:"GreenCarbon Solutions"`
	RegistryURL    string `envconfig:"GPTX_CARBON_REGISTRY_URL" default:"https://registry.goldstandard.org/projects"`
}

func (c CarbonConfig) Validate() error {
	rate, err := decimal.NewFromString(c.OffsetRate)
	if err != nil {
		return fmt.Errorf("invalid carbon offset rate %q: %w", c.OffsetRate, err)
	}
	if !rate.IsPositive() {
		return fmt.Errorf("carbon offset rate must be positive, got %s", rate)
	}
	return nil
}

// OffsetRateDecimal returns the configured rate. Validate runs at load
// time, so the parse cannot fail here.
func (c CarbonConfig) OffsetRateDecimal() decimal.Decimal {
	rate, _ := decimal.NewFromString(c.OffsetRate)
	return rate
}

// ExchangeConfig holds the fixed counterparty used by the mock order book.
type ExchangeConfig struct {
	MockSellerAddress string `envconfig:"GPTX_EXCHANGE_MOCK_SELLER" default:"0x1234567890123456789012345678901234567890"`
	MockPricePerToken string `envconfig:"GPTX_EXCHANGE_MOCK_PRICE" default:"0.95"`
}

func (e ExchangeConfig) Validate() error {
	price, err := decimal.NewFromString(e.MockPricePerToken)
	if err != nil {
		return fmt.Errorf("invalid mock price %q: %w", e.MockPricePerToken, err)
	}
	if !price.IsPositive() {
		return fmt.Errorf("mock price must be positive, got %s", price)
	}
	return nil
}

func (e ExchangeConfig) MockPriceDecimal() decimal.Decimal {
	price, _ := decimal.NewFromString(e.MockPricePerToken)
	return price
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
