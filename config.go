package authclient

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hrkit/authclient/password"
)

// Config defines the session store's construction parameters.
//
// Config instances are intended to be configured during initialization and
// then treated as immutable.
type Config struct {
	API      APIConfig      `yaml:"api"`
	Password PasswordConfig `yaml:"password"`
	Vault    VaultConfig    `yaml:"vault"`
	Routes   RoutesConfig   `yaml:"routes"`
	Hydrate  HydrateConfig  `yaml:"hydrate"`
	Audit    AuditConfig    `yaml:"audit"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// APIConfig holds backend adapter parameters.
type APIConfig struct {
	BaseURL   string        `yaml:"base_url"`
	UserAgent string        `yaml:"user_agent"`
	Timeout   time.Duration `yaml:"-"`

	// TimeoutRaw is the YAML-facing duration string ("15s").
	TimeoutRaw string `yaml:"timeout"`
}

// PasswordConfig is the strength policy applied to new secrets before a
// change-password request leaves the process.
type PasswordConfig struct {
	MinLength     int  `yaml:"min_length"`
	RequireUpper  bool `yaml:"require_upper"`
	RequireLower  bool `yaml:"require_lower"`
	RequireDigit  bool `yaml:"require_digit"`
	RequireSymbol bool `yaml:"require_symbol"`
}

// Policy converts the config into the package password representation.
func (c PasswordConfig) Policy() password.Policy {
	return password.Policy{
		MinLength:     c.MinLength,
		RequireUpper:  c.RequireUpper,
		RequireLower:  c.RequireLower,
		RequireDigit:  c.RequireDigit,
		RequireSymbol: c.RequireSymbol,
	}
}

// VaultConfig selects and parameterizes the persisted credential slot.
type VaultConfig struct {
	// Backend is "memory", "file", or "redis".
	Backend string `yaml:"backend"`

	// File backend.
	Path       string `yaml:"path,omitempty"`
	Passphrase string `yaml:"passphrase,omitempty"`

	// Redis backend.
	RedisAddr   string        `yaml:"redis_addr,omitempty"`
	RedisKey    string        `yaml:"redis_key,omitempty"`
	RedisTTL    time.Duration `yaml:"-"`
	RedisTTLRaw string        `yaml:"redis_ttl,omitempty"`
}

// RouteRule is the YAML-facing shape of one route table entry; package
// guard converts it into its own Rule type.
type RouteRule struct {
	Path   string   `yaml:"path"`
	Public bool     `yaml:"public,omitempty"`
	Roles  []string `yaml:"roles,omitempty"`
}

// RoutesConfig is the data-driven route table plus the two well-known
// destinations.
type RoutesConfig struct {
	Login   string      `yaml:"login"`
	Default string      `yaml:"default"`
	Table   []RouteRule `yaml:"table"`
}

// HydrateConfig tunes startup credential hydration.
type HydrateConfig struct {
	// ClockSkew is the leeway applied to the local expiry peek so a token
	// expiring within the skew is still handed to the backend for judgment.
	ClockSkew    time.Duration `yaml:"-"`
	ClockSkewRaw string        `yaml:"clock_skew,omitempty"`

	// RetainCredentialOnNetworkError keeps the persisted slot when hydrate
	// failed at the transport level. Default false: the original front-end
	// clears the slot on any hydrate failure.
	RetainCredentialOnNetworkError bool `yaml:"retain_credential_on_network_error"`
}

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool `yaml:"enabled"`
	BufferSize int  `yaml:"buffer_size"`
	DropIfFull bool `yaml:"drop_if_full"`
}

// MetricsConfig controls in-process counters.
type MetricsConfig struct {
	Enabled                 bool `yaml:"enabled"`
	EnableLatencyHistograms bool `yaml:"enable_latency_histograms"`
}

// DefaultConfig returns the configuration the demo and tests start from:
// memory vault, six-character password minimum, the HR front-end route
// table, audit and metrics off.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			Timeout: 15 * time.Second,
		},
		Password: PasswordConfig{
			MinLength: 6,
		},
		Vault: VaultConfig{
			Backend: "memory",
		},
		Routes: RoutesConfig{
			Login:   "/login",
			Default: "/dashboard",
			Table: []RouteRule{
				{Path: "/login", Public: true},
				{Path: "/dashboard"},
				{Path: "/time-tracking"},
				{Path: "/calendar"},
				{Path: "/absences"},
				{Path: "/documents"},
				{Path: "/profile"},
				{Path: "/users", Roles: []string{string(RoleAdmin), string(RoleHRManager)}},
				{Path: "/settings", Roles: []string{string(RoleAdmin)}},
				{Path: "/reports", Roles: []string{string(RoleAdmin), string(RoleHRManager)}},
			},
		},
		Audit: AuditConfig{
			BufferSize: 64,
			DropIfFull: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Routes.Table = make([]RouteRule, len(cfg.Routes.Table))
	for i, rule := range cfg.Routes.Table {
		out.Routes.Table[i] = rule
		out.Routes.Table[i].Roles = append([]string(nil), rule.Roles...)
	}
	return out
}

// LoadConfig reads a YAML configuration file, expands ${ENV} references,
// and normalizes duration strings. Zero-value fields fall back to
// DefaultConfig values.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.normalizeDurations(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalizeDurations() error {
	parse := func(raw string, target *time.Duration, field string) error {
		if raw == "" {
			return nil
		}
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("parse config: %s: %w", field, err)
		}
		*target = d
		return nil
	}
	if err := parse(c.API.TimeoutRaw, &c.API.Timeout, "api.timeout"); err != nil {
		return err
	}
	if err := parse(c.Vault.RedisTTLRaw, &c.Vault.RedisTTL, "vault.redis_ttl"); err != nil {
		return err
	}
	return parse(c.Hydrate.ClockSkewRaw, &c.Hydrate.ClockSkew, "hydrate.clock_skew")
}

// Validate rejects configurations the builder cannot act on.
func (c Config) Validate() error {
	if c.API.Timeout < 0 {
		return errors.New("API Timeout must be >= 0")
	}

	if err := password.ValidateConfig(c.Password.Policy()); err != nil {
		return err
	}

	switch c.Vault.Backend {
	case "memory":
		// no parameters
	case "file":
		if c.Vault.Path == "" {
			return errors.New("Vault Path is required for the file backend")
		}
	case "redis":
		if c.Vault.RedisAddr == "" {
			return errors.New("Vault RedisAddr is required for the redis backend")
		}
		if c.Vault.RedisKey == "" {
			return errors.New("Vault RedisKey is required for the redis backend")
		}
		if c.Vault.RedisTTL < 0 {
			return errors.New("Vault RedisTTL must be >= 0")
		}
	default:
		return errors.New("Vault Backend must be 'memory', 'file', or 'redis'")
	}

	if c.Routes.Login == "" || c.Routes.Login[0] != '/' {
		return errors.New("Routes Login must start with /")
	}
	if c.Routes.Default == "" || c.Routes.Default[0] != '/' {
		return errors.New("Routes Default must start with /")
	}
	if len(c.Routes.Table) == 0 {
		return errors.New("Routes Table must not be empty")
	}
	for _, rule := range c.Routes.Table {
		if rule.Path == "" || rule.Path[0] != '/' {
			return errors.New("Routes Table paths must start with /")
		}
		if rule.Public && len(rule.Roles) > 0 {
			return errors.New("Routes Table public rules cannot carry roles")
		}
	}

	if c.Hydrate.ClockSkew < 0 {
		return errors.New("Hydrate ClockSkew must be >= 0")
	}

	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when audit is enabled")
	}

	return nil
}
