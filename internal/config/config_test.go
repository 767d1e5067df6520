package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "gemini", cfg.Provider)
	assert.Equal(t, 20*time.Millisecond, cfg.Reveal.Interval)
	assert.True(t, cfg.Reveal.FilterTopics)
}

func TestLoadFileMissing(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestLoadFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("provider: openai\nmodel: gpt-4o\ntimeout: 5s\nreveal:\n  interval: 10ms\n  filter_topics: false\n")
	require.NoError(t, os.WriteFile(path, data, 0600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 10*time.Millisecond, cfg.Reveal.Interval)
	assert.False(t, cfg.Reveal.FilterTopics)
	// untouched keys
	assert.Equal(t, "v1", cfg.Template)
	assert.Equal(t, ":5000", cfg.HTTP.Addr)
}

func TestLoadFileBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("provider: [unterminated"), 0600))

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Run("GEMINI_API_KEY fills empty key", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "gem-key")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "gem-key", cfg.APIKey)
	})

	t.Run("configured key wins over env", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "gem-key")

		cfg := DefaultConfig()
		cfg.APIKey = "from-file"
		cfg.applyEnvOverrides()

		assert.Equal(t, "from-file", cfg.APIKey)
	})

	t.Run("provider and port", func(t *testing.T) {
		t.Setenv("HEALTHIQ_PROVIDER", "openai")
		t.Setenv("OPENAI_API_KEY", "oa-key")
		t.Setenv("PORT", "8080")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "openai", cfg.Provider)
		assert.Equal(t, "oa-key", cfg.APIKey)
		assert.Equal(t, ":8080", cfg.HTTP.Addr)
	})

	t.Run("provider switch replaces default model", func(t *testing.T) {
		t.Setenv("HEALTHIQ_PROVIDER", "openai")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, GetProvider("openai").DefaultModel, cfg.Model)
	})

	t.Run("provider switch keeps a chosen model", func(t *testing.T) {
		t.Setenv("HEALTHIQ_PROVIDER", "openai")

		cfg := DefaultConfig()
		cfg.Model = "gpt-4o"
		cfg.applyEnvOverrides()

		assert.Equal(t, "gpt-4o", cfg.Model)
	})

	t.Run("HEALTHIQ_MODEL wins over provider default", func(t *testing.T) {
		t.Setenv("HEALTHIQ_PROVIDER", "groq")
		t.Setenv("HEALTHIQ_MODEL", "llama-3.1-8b-instant")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "groq", cfg.Provider)
		assert.Equal(t, "llama-3.1-8b-instant", cfg.Model)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty provider", func(c *Config) { c.Provider = "" }},
		{"unknown provider", func(c *Config) { c.Provider = "skynet" }},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }},
		{"negative interval", func(c *Config) { c.Reveal.Interval = -time.Millisecond }},
		{"no db path", func(c *Config) { c.DBPath = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	require.False(t, Exists())

	cfg := DefaultConfig()
	cfg.Provider = "ollama"
	cfg.Model = "llama3.2"
	require.NoError(t, cfg.Save())
	assert.True(t, Exists())

	path, err := ConfigPath()
	require.NoError(t, err)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "ollama", loaded.Provider)
	assert.Equal(t, "llama3.2", loaded.Model)
	assert.Equal(t, cfg.Reveal, loaded.Reveal)
}
