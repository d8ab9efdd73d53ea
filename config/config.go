package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"golang.org/x/crypto/bcrypt"
)

const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// EnvPrefix namespaces the generic SECTION__KEY overrides
	EnvPrefix = "LINGOSCENE_"
)

// wellKnownEnv maps the conventional variable names onto config paths
var wellKnownEnv = map[string]string{
	"PORT":         "server.port",
	"JWT_SECRET":   "auth.signing_key",
	"FRONTEND_URL": "cors.frontend_url",
	"DATABASE_URL": "database.dsn",
	"APP_ENV":      "app.env",
	"LOG_LEVEL":    "log.level",
}

type Config struct {
	App        App        `koanf:"app" json:"app"`
	Server     Server     `koanf:"server" json:"server"`
	Auth       Auth       `koanf:"auth" json:"auth"`
	CORS       CORS       `koanf:"cors" json:"cors"`
	Database   Database   `koanf:"database" json:"database"`
	Dictionary Dictionary `koanf:"dictionary" json:"dictionary"`
	Log        Log        `koanf:"log" json:"log"`
}

type App struct {
	Name string `koanf:"name" json:"name"`
	Env  string `koanf:"env" json:"env"`
}

type Server struct {
	Port            int           `koanf:"port" json:"port"`
	Prefix          string        `koanf:"prefix" json:"prefix"`
	ReadTimeout     time.Duration `koanf:"read_timeout" json:"read_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" json:"shutdown_timeout"`
}

type Auth struct {
	SigningKey      string   `koanf:"signing_key" json:"signing_key"`
	TokenExpiration int      `koanf:"token_expiration" json:"token_expiration"`
	Issuer          string   `koanf:"issuer" json:"issuer"`
	Audience        []string `koanf:"audience" json:"audience"`
	TokenLookup     string   `koanf:"token_lookup" json:"token_lookup"`
	AuthScheme      string   `koanf:"auth_scheme" json:"auth_scheme"`
	ContextKey      string   `koanf:"context_key" json:"context_key"`
	PasswordCost    int      `koanf:"password_cost" json:"password_cost"`
}

type CORS struct {
	FrontendURL string `koanf:"frontend_url" json:"frontend_url"`
}

type Database struct {
	DSN         string `koanf:"dsn" json:"dsn"`
	Debug       bool   `koanf:"debug" json:"debug"`
	AutoMigrate bool   `koanf:"auto_migrate" json:"auto_migrate"`
}

type Dictionary struct {
	Enabled bool          `koanf:"enabled" json:"enabled"`
	BaseURL string        `koanf:"base_url" json:"base_url"`
	Timeout time.Duration `koanf:"timeout" json:"timeout"`
	Retries int           `koanf:"retries" json:"retries"`
}

type Log struct {
	Level string `koanf:"level" json:"level"`
	JSON  bool   `koanf:"json" json:"json"`
}

// Default returns the configuration used when nothing overrides it
func Default() *Config {
	return &Config{
		App: App{
			Name: "lingoscene",
			Env:  EnvDevelopment,
		},
		Server: Server{
			Port:            8000,
			Prefix:          "/api/v1",
			ReadTimeout:     10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Auth: Auth{
			SigningKey:      "change-me",
			TokenExpiration: 720,
			Issuer:          "lingoscene",
			Audience:        []string{"lingoscene-web"},
			TokenLookup:     "header:Authorization,cookie:access_token",
			AuthScheme:      "Bearer",
			ContextKey:      "user",
			PasswordCost:    bcrypt.DefaultCost,
		},
		CORS: CORS{
			FrontendURL: "http://localhost:3000",
		},
		Database: Database{
			DSN:         "file:lingoscene.db?cache=shared",
			AutoMigrate: true,
		},
		Dictionary: Dictionary{
			Enabled: true,
			BaseURL: "https://api.dictionaryapi.dev/api/v2/entries/en",
			Timeout: 5 * time.Second,
			Retries: 1,
		},
		Log: Log{
			Level: "info",
		},
	}
}

// Load resolves defaults, the optional env file and the process
// environment, in that order, and validates the result.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	return LoadFrom(os.Environ())
}

// LoadFrom is Load without touching the process environment. environ uses
// the KEY=value form of os.Environ.
func LoadFrom(environ []string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if err := k.Load(env.Provider(".", env.Opt{
		EnvironFunc:   func() []string { return environ },
		TransformFunc: transformEnv,
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           cfg,
			TagName:          "koanf",
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// transformEnv maps PORT style names and LINGOSCENE_SECTION__KEY names onto
// config paths. Anything else is dropped.
func transformEnv(key, value string) (string, any) {
	if path, ok := wellKnownEnv[key]; ok {
		return path, value
	}

	if !strings.HasPrefix(key, EnvPrefix) {
		return "", nil
	}

	name := strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	section, field, ok := strings.Cut(name, "__")
	if !ok || section == "" || field == "" {
		return "", nil
	}

	return section + "." + field, value
}

// Validate checks the resolved configuration
func (c Config) Validate() error {
	return validation.Errors{
		"app": validation.ValidateStruct(&c.App,
			validation.Field(&c.App.Env, validation.Required, validation.In(EnvDevelopment, EnvTest, EnvProduction)),
		),
		"server": validation.ValidateStruct(&c.Server,
			validation.Field(&c.Server.Port, validation.Required, validation.Min(1), validation.Max(65535)),
			validation.Field(&c.Server.Prefix, validation.Required),
		),
		"auth": validation.ValidateStruct(&c.Auth,
			validation.Field(&c.Auth.SigningKey, validation.Required),
			validation.Field(&c.Auth.TokenExpiration, validation.Required, validation.Min(1)),
			validation.Field(&c.Auth.PasswordCost, validation.Min(bcrypt.MinCost), validation.Max(bcrypt.MaxCost)),
			validation.Field(&c.Auth.TokenLookup, validation.Required),
		),
		"cors": validation.ValidateStruct(&c.CORS,
			validation.Field(&c.CORS.FrontendURL, validation.Required),
		),
		"database": validation.ValidateStruct(&c.Database,
			validation.Field(&c.Database.DSN, validation.Required),
		),
	}.Filter()
}

// IsProduction reports whether the service runs with production settings
func (c Config) IsProduction() bool {
	return c.App.Env == EnvProduction
}

// Redacted returns a copy safe to print
func (c Config) Redacted() Config {
	out := c
	if out.Auth.SigningKey != "" {
		out.Auth.SigningKey = "********"
	}
	if i := strings.Index(out.Database.DSN, "@"); i > 0 {
		if j := strings.Index(out.Database.DSN, "://"); j > 0 && j < i {
			out.Database.DSN = out.Database.DSN[:j+3] + "********" + out.Database.DSN[i:]
		}
	}
	out.Auth.Audience = append([]string(nil), c.Auth.Audience...)
	return out
}
