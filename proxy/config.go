package proxy

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/capchatco/capchat/pkg/gemini"
)

// Config is the proxy server configuration.
type Config struct {
	// Address to listen on (e.g., ":8080")
	ListenAddr string `toml:"listen_addr"`

	// Upstream Gemini API base URL. Empty means the production endpoint;
	// tests point this at a fake.
	UpstreamURL string `toml:"upstream_url"`

	// Model used for caption generation (default: gemini-1.5-pro).
	Model string `toml:"model"`

	// Generation overrides the default sampling parameters when set.
	Generation *GenerationConfig `toml:"generation"`

	// APIKey is the Gemini credential. Never read from the config file;
	// comes from the GEMINI_API_KEY environment variable.
	APIKey string `toml:"-"`
}

// GenerationConfig mirrors the sampling parameters exposed in the config file.
type GenerationConfig struct {
	Temperature     *float64 `toml:"temperature"`
	TopK            *int     `toml:"top_k"`
	TopP            *float64 `toml:"top_p"`
	MaxOutputTokens *int     `toml:"max_output_tokens"`
}

// DefaultConfig returns a config with the standard listen address and the
// credential pulled from the environment.
func DefaultConfig() Config {
	return Config{
		ListenAddr: ":8080",
		Model:      gemini.DefaultModel,
		APIKey:     os.Getenv("GEMINI_API_KEY"),
	}
}

// LoadConfig reads a TOML config file over the defaults. An empty path
// returns the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}

	if _, err := toml.DecodeFile(path, &config); err != nil {
		return Config{}, fmt.Errorf("decode config file %s: %w", path, err)
	}

	return config, nil
}

// generationConfig merges file overrides onto the package defaults.
func (c Config) generationConfig() *gemini.GenerationConfig {
	gen := gemini.DefaultGenerationConfig()
	if c.Generation == nil {
		return gen
	}

	if c.Generation.Temperature != nil {
		gen.Temperature = c.Generation.Temperature
	}
	if c.Generation.TopK != nil {
		gen.TopK = c.Generation.TopK
	}
	if c.Generation.TopP != nil {
		gen.TopP = c.Generation.TopP
	}
	if c.Generation.MaxOutputTokens != nil {
		gen.MaxOutputTokens = c.Generation.MaxOutputTokens
	}

	return gen
}
