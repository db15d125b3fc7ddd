package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	rs "github.com/renderscreenshot/client-go"
)

// Environment variables read by the CLI.
const (
	EnvAPIKey        = "RENDERSCREENSHOT_API_KEY"
	EnvBaseURL       = "RENDERSCREENSHOT_BASE_URL"
	EnvWebhookSecret = "RENDERSCREENSHOT_WEBHOOK_SECRET"
	EnvTimeout       = "RENDERSCREENSHOT_TIMEOUT"
)

// Config is the resolved CLI configuration.
type Config struct {
	APIKey        string        `yaml:"api_key"`
	BaseURL       string        `yaml:"base_url"`
	WebhookSecret string        `yaml:"webhook_secret"`
	Timeout       time.Duration `yaml:"timeout"`
}

// DefaultConfigPath returns ~/.config/renderscreenshot/config.yaml or the
// platform equivalent.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "renderscreenshot", "config.yaml")
}

type loadOptions struct {
	// path is an explicit config file. Empty means the default path, which
	// may be absent.
	path       string
	dotenvPath string
	lookupEnv  func(string) (string, bool)
	keyring    *keyStore
}

// loadConfig resolves configuration from, in increasing precedence: built-in
// defaults, the YAML file, the .env file, the environment and, for the API
// key only, the OS keyring when nothing else supplied one. Flags are applied
// by the caller.
func loadConfig(o loadOptions) (*Config, error) {
	cfg := &Config{
		BaseURL: rs.DefaultBaseURL,
		Timeout: rs.DefaultTimeout,
	}

	if err := cfg.mergeFile(o.path); err != nil {
		return nil, err
	}

	env := map[string]string{}
	if o.dotenvPath != "" {
		values, err := godotenv.Read(o.dotenvPath)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read %s: %w", o.dotenvPath, err)
		}
		for k, v := range values {
			env[k] = v
		}
	}
	if o.lookupEnv != nil {
		for _, k := range []string{EnvAPIKey, EnvBaseURL, EnvWebhookSecret, EnvTimeout} {
			if v, ok := o.lookupEnv(k); ok {
				env[k] = v
			}
		}
	}
	if err := cfg.mergeEnv(env); err != nil {
		return nil, err
	}

	if cfg.APIKey == "" && o.keyring != nil {
		key, err := o.keyring.get()
		if err == nil {
			cfg.APIKey = key
		}
	}

	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
		if path == "" {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if file.APIKey != "" {
		c.APIKey = file.APIKey
	}
	if file.BaseURL != "" {
		c.BaseURL = file.BaseURL
	}
	if file.WebhookSecret != "" {
		c.WebhookSecret = file.WebhookSecret
	}
	if file.Timeout > 0 {
		c.Timeout = file.Timeout
	}
	return nil
}

func (c *Config) mergeEnv(env map[string]string) error {
	if v := strings.TrimSpace(env[EnvAPIKey]); v != "" {
		c.APIKey = v
	}
	if v := strings.TrimSpace(env[EnvBaseURL]); v != "" {
		c.BaseURL = v
	}
	if v := strings.TrimSpace(env[EnvWebhookSecret]); v != "" {
		c.WebhookSecret = v
	}
	if v := strings.TrimSpace(env[EnvTimeout]); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvTimeout, v, err)
		}
		c.Timeout = d
	}
	return nil
}
