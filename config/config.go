package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	AES       AESConfig       `mapstructure:"aes"`
	Ledger    LedgerConfig    `mapstructure:"ledger"`
	Reserve   ClientConfig    `mapstructure:"reserve"`
	Assets    ClientConfig    `mapstructure:"assets"`
	Authority ClientConfig    `mapstructure:"authority"`
	Events    EventSinkConfig `mapstructure:"events"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

type AESConfig struct {
	Key string `mapstructure:"key"` // 32-byte hex-encoded key for AES-256
}

// LedgerConfig holds the ledger's accrual and custody parameters.
type LedgerConfig struct {
	// FeeAnnualPPM is the fixed annual servicing fee in parts-per-million.
	FeeAnnualPPM int64 `mapstructure:"fee_annual_ppm"`
	// SettlementToken is the address of the settlement currency contract.
	SettlementToken string `mapstructure:"settlement_token"`
	// CustodyAddress is the ledger's own custody account. Funds sourced from
	// this address are already held and are not pulled again.
	CustodyAddress string `mapstructure:"custody_address"`
	// LockTTL bounds how long one mutating operation may hold the mutation lock.
	LockTTL time.Duration `mapstructure:"lock_ttl"`
	// LockWait bounds how long a mutating operation waits for the lock.
	LockWait time.Duration `mapstructure:"lock_wait"`
}

// ClientConfig holds connection settings for an external collaborator.
type ClientConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// EventSinkConfig holds the optional event push destination.
type EventSinkConfig struct {
	SinkURL string        `mapstructure:"sink_url"` // empty disables pushes
	Secret  string        `mapstructure:"secret"`   // HMAC key for event payloads
	Timeout time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: BSL_ (Batched Savings Ledger).
// Nested keys use underscore: BSL_DATABASE_HOST, BSL_RESERVE_BASE_URL, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "savings_ledger")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiry", "24h")
	v.SetDefault("jwt.issuer", "batched-savings-ledger")
	v.SetDefault("aes.key", "")
	v.SetDefault("ledger.fee_annual_ppm", 12500)
	v.SetDefault("ledger.settlement_token", "")
	v.SetDefault("ledger.custody_address", "")
	v.SetDefault("ledger.lock_ttl", "30s")
	v.SetDefault("ledger.lock_wait", "10s")
	v.SetDefault("reserve.base_url", "http://localhost:9081")
	v.SetDefault("reserve.timeout", "10s")
	v.SetDefault("assets.base_url", "http://localhost:9082")
	v.SetDefault("assets.timeout", "10s")
	v.SetDefault("authority.base_url", "http://localhost:9083")
	v.SetDefault("authority.timeout", "5s")
	v.SetDefault("events.sink_url", "")
	v.SetDefault("events.secret", "")
	v.SetDefault("events.timeout", "10s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: BSL_DATABASE_HOST -> database.host
	v.SetEnvPrefix("BSL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required — env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
