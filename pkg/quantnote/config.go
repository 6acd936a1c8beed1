package quantnote

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/QuantNodeAI/quantnote-go/pkg/confkit"
)

// Config describes a client as loaded from YAML configuration. String
// fields expand ${VAR} references against the environment, so secrets like
// the auth token can stay out of the file.
type Config struct {
	BaseURL   string `yaml:"base_url"`
	AuthToken string `yaml:"auth_token"`

	TimeoutRaw string        `yaml:"timeout"`
	Timeout    time.Duration `yaml:"-"`
	MaxRetries int           `yaml:"max_retries"`

	// SplitRequests toggles transparent range splitting; unset means on.
	SplitRequests *bool `yaml:"split_requests"`
}

// LoadConfig reads client configuration from disk.
func LoadConfig(path string) (*Config, error) {
	confkit.LoadDotenvOnce()
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open quantnote config: %w", err)
	}
	defer file.Close()
	return LoadConfigFromReader(file)
}

// MustLoad reads client configuration from the default project location and
// panics on error.
func MustLoad() *Config {
	path := confkit.MustProjectPath("etc/quantnote.yaml")
	cfg, err := LoadConfig(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadConfigFromReader constructs a Config from an io.Reader.
func LoadConfigFromReader(r io.Reader) (*Config, error) {
	confkit.LoadDotenvOnce()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read quantnote config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal quantnote config: %w", err)
	}
	if err := cfg.normalise(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalise() error {
	c.BaseURL = strings.TrimSpace(os.ExpandEnv(c.BaseURL))
	c.AuthToken = strings.TrimSpace(os.ExpandEnv(c.AuthToken))
	c.TimeoutRaw = strings.TrimSpace(os.ExpandEnv(c.TimeoutRaw))
	if c.TimeoutRaw != "" {
		d, err := time.ParseDuration(c.TimeoutRaw)
		if err != nil {
			return fmt.Errorf("quantnote config: invalid timeout %q: %w", c.TimeoutRaw, err)
		}
		if d <= 0 {
			return fmt.Errorf("quantnote config: timeout must be positive, got %s", d)
		}
		c.Timeout = d
	}
	return nil
}

// Validate ensures the configuration is structurally sound.
func (c *Config) Validate() error {
	if c.MaxRetries < 0 {
		return fmt.Errorf("quantnote config: max_retries cannot be negative, got %d", c.MaxRetries)
	}
	if c.BaseURL != "" && !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("quantnote config: base_url %q must start with http:// or https://", c.BaseURL)
	}
	return nil
}

// BuildClient constructs a Client from the configuration. Options given
// here are applied after the configuration and win on conflict.
func (c *Config) BuildClient(opts ...Option) *Client {
	base := make([]Option, 0, len(opts)+4)
	if c.BaseURL != "" {
		base = append(base, WithBaseURL(c.BaseURL))
	}
	if c.Timeout > 0 {
		base = append(base, WithTimeout(c.Timeout))
	}
	if c.MaxRetries > 0 {
		base = append(base, WithMaxRetries(c.MaxRetries))
	}
	if c.SplitRequests != nil && !*c.SplitRequests {
		base = append(base, WithoutSplitting())
	}
	return NewClient(c.AuthToken, append(base, opts...)...)
}
