// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/viper"

	"github.com/rovshanmuradov/bonding-curve/internal/types"
	"github.com/rovshanmuradov/bonding-curve/internal/utils/logger"
)

// EnvPrefix prefixes every environment override, e.g. CURVE_AMM_SERVER_ADDR.
const EnvPrefix = "CURVE_AMM"

type Config struct {
	ProgramID string        `mapstructure:"program_id"`
	Curve     CurveConfig   `mapstructure:"curve"`
	Server    ServerConfig  `mapstructure:"server"`
	Log       logger.Config `mapstructure:"log"`
	Storage   StorageConfig `mapstructure:"storage"`
	NATS      NATSConfig    `mapstructure:"nats"`
	Events    EventsConfig  `mapstructure:"events"`
	Ledger    LedgerConfig  `mapstructure:"ledger"`
}

// CurveConfig задает параметры развертывания; при Bootstrap конфигурация
// создается при старте, если ее еще нет в хранилище.
type CurveConfig struct {
	Bootstrap           bool    `mapstructure:"bootstrap"`
	Admin               string  `mapstructure:"admin"`
	FeePercentage       uint64  `mapstructure:"fee_percentage"`
	CreationFees        uint64  `mapstructure:"creation_fees"`
	Proportion          float64 `mapstructure:"proportion"`
	FeeCollector        string  `mapstructure:"fee_collector"`
	FeeSolCollector     string  `mapstructure:"fee_sol_collector"`
	ExchangeTokenMint   string  `mapstructure:"exchange_token_mint"`
	InitialTokenForPool uint64  `mapstructure:"initial_token_for_pool"`
	IsSolFee            bool    `mapstructure:"is_sol_fee"`
	IsLockdown          bool    `mapstructure:"is_lockdown"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type StorageConfig struct {
	Driver       string      `mapstructure:"driver"` // memory, postgres, redis
	PostgresDSN  string      `mapstructure:"postgres_dsn"`
	Redis        RedisConfig `mapstructure:"redis"`
	ConnectTries uint        `mapstructure:"connect_tries"`
}

type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

type NATSConfig struct {
	URL         string `mapstructure:"url"`
	SubjectRoot string `mapstructure:"subject_root"`
}

// LedgerConfig зачисляет стартовые балансы SOL во встроенный ledger.
type LedgerConfig struct {
	Genesis []GenesisAccount `mapstructure:"genesis"`
}

type GenesisAccount struct {
	Owner  string `mapstructure:"owner"`
	Amount uint64 `mapstructure:"amount"` // lamports
}

type EventsConfig struct {
	BufferSize int `mapstructure:"buffer_size"`
}

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"

	DefaultServerAddr   = ":8080"
	DefaultFee          = 100
	DefaultProportion   = 1280.0
	DefaultInitialToken = 1_000_000_000
	DefaultBufferSize   = 1024
	DefaultConnectTries = 5
	DefaultSubjectRoot  = "curve"
	// DefaultProgramID is the program the pool and mint addresses are derived under.
	DefaultProgramID = "CurvEYxCjuBmBUGdHSzNUbMHhSgEaDbXaChGMYySGDas"
)

func defaults() map[string]interface{} {
	logDefaults := logger.DefaultConfig()
	return map[string]interface{}{
		"program_id": DefaultProgramID,

		"curve.bootstrap":              false,
		"curve.admin":                  "",
		"curve.fee_percentage":         DefaultFee,
		"curve.creation_fees":          0,
		"curve.proportion":             DefaultProportion,
		"curve.fee_collector":          "",
		"curve.fee_sol_collector":      "",
		"curve.exchange_token_mint":    solana.SolMint.String(),
		"curve.initial_token_for_pool": DefaultInitialToken,
		"curve.is_sol_fee":             true,
		"curve.is_lockdown":            false,

		"server.addr":             DefaultServerAddr,
		"server.read_timeout":     "10s",
		"server.write_timeout":    "10s",
		"server.shutdown_timeout": "15s",

		"log.file":            logDefaults.LogFile,
		"log.level":           logDefaults.Level,
		"log.max_size":        logDefaults.MaxSize,
		"log.max_age":         logDefaults.MaxAge,
		"log.max_backups":     logDefaults.MaxBackups,
		"log.compress":        logDefaults.Compress,
		"log.development":     logDefaults.Development,
		"log.disable_console": logDefaults.DisableConsole,

		"storage.driver":           DriverMemory,
		"storage.postgres_dsn":     "",
		"storage.redis.addr":       "",
		"storage.redis.password":   "",
		"storage.redis.db":         0,
		"storage.redis.key_prefix": "curve",
		"storage.connect_tries":    DefaultConnectTries,

		"nats.url":          "",
		"nats.subject_root": DefaultSubjectRoot,

		"events.buffer_size": DefaultBufferSize,
	}
}

// LoadConfig читает файл (json/yaml по расширению), применяет значения по
// умолчанию и переменные окружения. Пустой path означает только defaults + env.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults() {
		v.SetDefault(key, value)
	}

	loadEnvironmentVariables(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	return &cfg, validateConfig(&cfg)
}

func loadEnvironmentVariables(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

func validateConfig(cfg *Config) error {
	if _, err := solana.PublicKeyFromBase58(cfg.ProgramID); err != nil {
		return fmt.Errorf("invalid program_id: %w", err)
	}
	if cfg.Server.Addr == "" {
		return errors.New("server.addr is empty")
	}
	if err := validateStorage(&cfg.Storage); err != nil {
		return err
	}
	if cfg.NATS.URL != "" {
		if err := validateURLWithCache(cfg.NATS.URL, "nats"); err != nil {
			return errors.New("invalid NATS URL protocol")
		}
	}
	if cfg.Events.BufferSize <= 0 {
		return errors.New("invalid events.buffer_size")
	}
	for i, acc := range cfg.Ledger.Genesis {
		if _, err := solana.PublicKeyFromBase58(acc.Owner); err != nil {
			return fmt.Errorf("invalid ledger.genesis[%d].owner: %w", i, err)
		}
		if acc.Amount == 0 {
			return fmt.Errorf("ledger.genesis[%d].amount is zero", i)
		}
	}
	if cfg.Curve.Bootstrap {
		if _, _, err := cfg.Curve.Params(); err != nil {
			return err
		}
	}
	return nil
}

func validateStorage(s *StorageConfig) error {
	switch s.Driver {
	case DriverMemory:
	case DriverPostgres:
		if s.PostgresDSN == "" {
			return errors.New("storage.postgres_dsn is required for postgres driver")
		}
	case DriverRedis:
		if s.Redis.Addr == "" {
			return errors.New("storage.redis.addr is required for redis driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", s.Driver)
	}
	return nil
}

// Params converts the curve section into engine parameters and the admin key.
func (c CurveConfig) Params() (types.ConfigParams, solana.PublicKey, error) {
	var p types.ConfigParams

	if c.FeePercentage < 1 || c.FeePercentage > 10_000 {
		return p, solana.PublicKey{}, fmt.Errorf("invalid curve.fee_percentage %d", c.FeePercentage)
	}
	if c.Proportion <= 0 || math.IsInf(c.Proportion, 0) || math.IsNaN(c.Proportion) {
		return p, solana.PublicKey{}, fmt.Errorf("invalid curve.proportion %v", c.Proportion)
	}

	fields := []struct {
		name string
		raw  string
		dst  *solana.PublicKey
	}{
		{"fee_collector", c.FeeCollector, &p.FeeCollector},
		{"fee_sol_collector", c.FeeSolCollector, &p.FeeSolCollector},
		{"exchange_token_mint", c.ExchangeTokenMint, &p.ExchangeTokenMint},
	}
	for _, f := range fields {
		key, err := solana.PublicKeyFromBase58(f.raw)
		if err != nil {
			return p, solana.PublicKey{}, fmt.Errorf("invalid curve.%s: %w", f.name, err)
		}
		*f.dst = key
	}

	admin, err := solana.PublicKeyFromBase58(c.Admin)
	if err != nil {
		return p, solana.PublicKey{}, fmt.Errorf("invalid curve.admin: %w", err)
	}

	p.FeePercentage = c.FeePercentage
	p.CreationFees = c.CreationFees
	p.Proportion = c.Proportion
	p.InitialTokenForPool = c.InitialTokenForPool
	p.IsSolFee = c.IsSolFee
	p.IsLockdown = c.IsLockdown
	return p, admin, nil
}

var urlCache sync.Map

func validateURLWithCache(rawURL string, protocol string) error {
	if _, ok := urlCache.Load(rawURL); ok {
		return nil
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.New("invalid URL format")
	}
	if !strings.HasPrefix(parsed.Scheme, protocol) {
		return errors.New("invalid URL protocol")
	}
	urlCache.Store(rawURL, parsed)
	return nil
}
