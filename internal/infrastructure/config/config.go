package config

import (
	"fmt"
	"os"
	"time"

	"github.com/poly-workshop/go-webmods/app"
	"github.com/spf13/viper"
)

type AppConfig struct {
	HTTP struct {
		Listen string `mapstructure:"listen"`
	} `mapstructure:"http"`

	Health struct {
		Listen string `mapstructure:"listen"`
	} `mapstructure:"health"`

	LLM struct {
		Providers struct {
			Cohere struct {
				BaseURL string        `mapstructure:"base_url"`
				APIKey  string        `mapstructure:"api_key"`
				Model   string        `mapstructure:"model"`
				Timeout time.Duration `mapstructure:"timeout"`
			} `mapstructure:"cohere"`
		} `mapstructure:"providers"`
	} `mapstructure:"llm"`

	UsageCallback struct {
		URL     string        `mapstructure:"url"`
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"usage_callback"`
}

func Load() (AppConfig, error) {
	cfg := AppConfig{}

	v := app.Config()
	if v == nil {
		return cfg, fmt.Errorf("app.Config() is nil: did you call app.Init(...) first?")
	}

	if err := unmarshalViper(v, &cfg); err != nil {
		return cfg, err
	}

	if cfg.HTTP.Listen == "" {
		return cfg, fmt.Errorf("missing config: http.listen")
	}
	if cfg.Health.Listen == "" {
		return cfg, fmt.Errorf("missing config: health.listen")
	}
	if cfg.LLM.Providers.Cohere.BaseURL == "" {
		cfg.LLM.Providers.Cohere.BaseURL = "https://api.cohere.com"
	}

	// The original deployment configured Cohere purely through env vars;
	// keep those names working as fallbacks.
	if cfg.LLM.Providers.Cohere.APIKey == "" {
		cfg.LLM.Providers.Cohere.APIKey = os.Getenv("COHERE_API_KEY")
	}
	if cfg.LLM.Providers.Cohere.Model == "" {
		cfg.LLM.Providers.Cohere.Model = os.Getenv("COHERE_DEFAULT_MODEL")
	}
	if cfg.LLM.Providers.Cohere.Model == "" {
		return cfg, fmt.Errorf("missing config: llm.providers.cohere.model (or COHERE_DEFAULT_MODEL)")
	}

	return cfg, nil
}

func unmarshalViper(v *viper.Viper, out any) error {
	if err := v.Unmarshal(out); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	return nil
}
