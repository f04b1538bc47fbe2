package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"fiado-ledger/internal/core"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port           string `mapstructure:"port"`
	AllowedOrigins string `mapstructure:"allowed_origins"`
}

type StoreConfig struct {
	Driver  string `mapstructure:"driver"`
	Path    string `mapstructure:"path"`
	DSN     string `mapstructure:"dsn"`
	LogMode bool   `mapstructure:"log_mode"`
}

type AIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type LedgerConfig struct {
	TopDebtors         int      `mapstructure:"top_debtors"`
	RecentTransactions int      `mapstructure:"recent_transactions"`
	PaymentMethods     []string `mapstructure:"payment_methods"`
}

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Store  StoreConfig  `mapstructure:"store"`
	AI     AIConfig     `mapstructure:"ai"`
	Ledger LedgerConfig `mapstructure:"ledger"`
}

const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// legacy env names accepted alongside the FIADO_ prefixed ones.
var aliases = map[string]string{
	"server.port":            "SERVER_PORT",
	"server.allowed_origins": "ALLOWED_ORIGINS",
	"store.dsn":              "DATABASE_URL",
	"ai.api_key":             "OPENAI_API_KEY",
}

// Load reads .env (if any), then an optional YAML file, then environment
// variables prefixed with FIADO_. path overrides FIADO_CONFIG; when both are
// empty, ./config.yaml is used if it exists.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("FIADO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, legacy := range aliases {
		prefixed := "FIADO_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, prefixed, legacy); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if path == "" {
		path = os.Getenv("FIADO_CONFIG")
	}
	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	c.normalize()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.allowed_origins", "")
	v.SetDefault("store.driver", DriverFile)
	v.SetDefault("store.path", "")
	v.SetDefault("store.dsn", "")
	v.SetDefault("store.log_mode", false)
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.model", "gpt-4o-mini")
	v.SetDefault("ledger.top_debtors", 5)
	v.SetDefault("ledger.recent_transactions", 5)
	v.SetDefault("ledger.payment_methods", core.DefaultPaymentMethods)
}

func (c *Config) normalize() {
	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))
	if c.Store.Path == "" {
		switch c.Store.Driver {
		case DriverFile:
			c.Store.Path = "data"
		case DriverSQLite:
			c.Store.Path = "fiado.db"
		}
	}

	methods := make([]string, 0, len(c.Ledger.PaymentMethods))
	for _, m := range c.Ledger.PaymentMethods {
		if m = strings.TrimSpace(m); m != "" {
			methods = append(methods, m)
		}
	}
	c.Ledger.PaymentMethods = methods
}

// Validate rejects settings no component can run with.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverFile, DriverSQLite, DriverMemory:
	case DriverPostgres:
		if c.Store.DSN == "" {
			return fmt.Errorf("config: store.dsn (or DATABASE_URL) is required for the postgres driver")
		}
	default:
		return fmt.Errorf("config: unknown store driver %q", c.Store.Driver)
	}
	if c.Ledger.TopDebtors <= 0 {
		return fmt.Errorf("config: ledger.top_debtors must be positive, got %d", c.Ledger.TopDebtors)
	}
	if c.Ledger.RecentTransactions <= 0 {
		return fmt.Errorf("config: ledger.recent_transactions must be positive, got %d", c.Ledger.RecentTransactions)
	}
	if len(c.Ledger.PaymentMethods) == 0 {
		return fmt.Errorf("config: ledger.payment_methods must not be empty")
	}
	return nil
}

// Origins splits the comma-separated CORS allow list.
func (s ServerConfig) Origins() []string {
	var out []string
	for _, o := range strings.Split(s.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
