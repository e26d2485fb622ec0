package conf

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config is the config structure.
type Config struct {
	Server   Server   `yaml:"server"`
	Identity Identity `yaml:"identity"`
	Google   Google   `yaml:"google"`
	Store    Store    `yaml:"store"`
}

// Server is the host shell config.
type Server struct {
	Addr        string `yaml:"addr"         env:"AUTHGATE_ADDR"`
	BaseURL     string `yaml:"base_url"     env:"AUTHGATE_BASE_URL"`
	FrontendURL string `yaml:"frontend_url" env:"AUTHGATE_FRONTEND_URL"`
}

// Identity is the identity backend config.
type Identity struct {
	BaseURL     string `yaml:"base_url"     env:"AUTHGATE_IDENTITY_URL"`
	LoginRoute  string `yaml:"login_route"  env:"AUTHGATE_LOGIN_ROUTE"`
	SignupRoute string `yaml:"signup_route" env:"AUTHGATE_SIGNUP_ROUTE"`
	GoogleRoute string `yaml:"google_route" env:"AUTHGATE_GOOGLE_ROUTE"`
}

// Google is the Google sign-in config.
type Google struct {
	Enabled      bool     `yaml:"enabled"       env:"AUTHGATE_GOOGLE_ENABLED"`
	Issuer       string   `yaml:"issuer"        env:"AUTHGATE_GOOGLE_ISSUER"`
	ClientID     string   `yaml:"client_id"     env:"AUTHGATE_GOOGLE_CLIENT_ID"`
	ClientSecret string   `yaml:"client_secret" env:"AUTHGATE_GOOGLE_CLIENT_SECRET"`
	RedirectURL  string   `yaml:"redirect_url"  env:"AUTHGATE_GOOGLE_REDIRECT_URL"` // Optional: if not set, auto-constructed from server.base_url
	Scopes       []string `yaml:"scopes"        env:"AUTHGATE_GOOGLE_SCOPES" envSeparator:","`
}

// Store selects where the committed session lives.
type Store struct {
	Driver string `yaml:"driver" env:"AUTHGATE_STORE_DRIVER"` // memory | sqlite
	Path   string `yaml:"path"   env:"AUTHGATE_STORE_PATH"`
}

// GetRedirectURL returns the Google callback URL
// If RedirectURL is explicitly configured, use it
// Otherwise, construct from server base_url + hardcoded callback path
func (g *Google) GetRedirectURL(serverBaseURL string) string {
	if g.RedirectURL != "" {
		return g.RedirectURL
	}
	return serverBaseURL + "/auth/google/callback"
}

// Load loads config from file. An empty path skips the file and uses defaults.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	setDefaults(&cfg)

	// Override from env vars if present
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = "127.0.0.1:52539"
	}
	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = "http://" + cfg.Server.Addr
	}
	if cfg.Server.FrontendURL == "" {
		cfg.Server.FrontendURL = "http://localhost:5173"
	}
	if cfg.Identity.BaseURL == "" {
		cfg.Identity.BaseURL = "http://localhost:8747"
	}
	if cfg.Identity.LoginRoute == "" {
		cfg.Identity.LoginRoute = "/api/auth/login"
	}
	if cfg.Identity.SignupRoute == "" {
		cfg.Identity.SignupRoute = "/api/auth/signup"
	}
	if cfg.Identity.GoogleRoute == "" {
		cfg.Identity.GoogleRoute = "/auth/google"
	}
	if cfg.Google.Issuer == "" {
		cfg.Google.Issuer = "https://accounts.google.com"
	}
	if len(cfg.Google.Scopes) == 0 {
		cfg.Google.Scopes = []string{"openid", "email", "profile"}
	}
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = "memory"
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = "data/session.db"
	}
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.Google.Enabled && c.Google.ClientID == "" {
		return fmt.Errorf("google sign-in enabled without client_id")
	}
	return nil
}
