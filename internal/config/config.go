package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Provider string        `yaml:"provider"`
	APIKey   string        `yaml:"api_key,omitempty"`
	Model    string        `yaml:"model"`
	BaseURL  string        `yaml:"base_url,omitempty"`
	Timeout  time.Duration `yaml:"timeout"`
	Template string        `yaml:"template"`
	// PromptsDir holds extra *.tmpl prompt templates selectable by Template.
	PromptsDir string `yaml:"prompts_dir,omitempty"`
	DBPath     string `yaml:"db_path"`

	HTTP   HTTPConfig   `yaml:"http"`
	Reveal RevealConfig `yaml:"reveal"`
	Log    LogConfig    `yaml:"log"`
}

type HTTPConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins,omitempty"`
	// StrictUpstream turns a failed generation into a 502 instead of a
	// 200 carrying the fallback message.
	StrictUpstream bool `yaml:"strict_upstream"`
}

type RevealConfig struct {
	Interval     time.Duration `yaml:"interval"`
	FilterTopics bool          `yaml:"filter_topics"`
}

type LogConfig struct {
	Mode string `yaml:"mode"`
	Path string `yaml:"path,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Provider:   "gemini",
		Model:      "gemini-2.5-flash",
		Timeout:    60 * time.Second,
		Template:   "v1",
		PromptsDir: defaultPromptsDir(),
		DBPath:     defaultDBPath(),
		HTTP: HTTPConfig{
			Addr: ":5000",
			AllowedOrigins: []string{
				"http://localhost:5173",
				"http://127.0.0.1:5173",
			},
		},
		Reveal: RevealConfig{
			Interval:     20 * time.Millisecond,
			FilterTopics: true,
		},
		Log: LogConfig{
			Mode: "dev",
		},
	}
}

func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "healthiq"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func defaultDBPath() string {
	dir, err := ConfigDir()
	if err != nil {
		return "healthiq.db"
	}
	return filepath.Join(dir, "healthiq.db")
}

func defaultPromptsDir() string {
	dir, err := ConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "prompts")
}

// Exists reports whether a config file is present at ConfigPath.
func Exists() bool {
	path, err := ConfigPath()
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Load reads the config file. A missing file yields (nil, nil).
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	// Unset keys keep their defaults.
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// Resolve loads .env, the config file (or defaults) and environment
// overrides, then validates the result.
func Resolve(path string) (*Config, error) {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	var (
		cfg *Config
		err error
	)
	if path != "" {
		cfg, err = LoadFile(path)
	} else {
		cfg, err = Load()
	}
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := strings.TrimSpace(os.Getenv("HEALTHIQ_PROVIDER")); v != "" && v != c.Provider {
		// a model still at the old provider's default follows the switch
		prev := GetProvider(c.Provider)
		if p := GetProvider(v); p != nil && (c.Model == "" || prev != nil && c.Model == prev.DefaultModel) {
			c.Model = p.DefaultModel
		}
		c.Provider = v
	}
	if v := strings.TrimSpace(os.Getenv("HEALTHIQ_MODEL")); v != "" {
		c.Model = v
	}

	if c.APIKey == "" {
		switch c.Provider {
		case "gemini":
			c.APIKey = strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
		case "openai":
			c.APIKey = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
		case "anthropic":
			c.APIKey = strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY"))
		case "groq":
			c.APIKey = strings.TrimSpace(os.Getenv("GROQ_API_KEY"))
		case "openrouter":
			c.APIKey = strings.TrimSpace(os.Getenv("OPENROUTER_API_KEY"))
		}
	}

	if v := strings.TrimSpace(os.Getenv("HEALTHIQ_DB")); v != "" {
		c.DBPath = v
	}
	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		c.HTTP.Addr = ":" + strings.TrimPrefix(v, ":")
	}
	if v := strings.TrimSpace(os.Getenv("LOG_MODE")); v != "" {
		c.Log.Mode = v
	}
}

func (c *Config) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	if c.Provider != "custom" && GetProvider(c.Provider) == nil {
		return fmt.Errorf("unknown provider: %s", c.Provider)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.Reveal.Interval <= 0 {
		return fmt.Errorf("reveal interval must be positive, got %s", c.Reveal.Interval)
	}
	if c.DBPath == "" {
		return fmt.Errorf("db_path is required")
	}
	return nil
}

// Save writes the config to ConfigPath.
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

// SaveFile writes the config to path, creating its directory. The file
// may hold an API key, so it is only readable by the owner.
func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}
