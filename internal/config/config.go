package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port     string
	LogLevel string

	CacheEnabled  bool
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisTTL      time.Duration

	LLMProvider    string
	LLMModel       string
	LLMTemperature float32
	OpenAIAPIKey   string
	OpenAIBaseURL  string
	OllamaURL      string

	AmadeusBaseURL      string
	AmadeusClientID     string
	AmadeusClientSecret string
	ProviderTimeout     time.Duration
	ProviderRPS         float64
	ProviderBurst       int
	TokenRPS            float64

	Currency string

	ConversationTTL   time.Duration
	ConversationSweep string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("cache.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 5*time.Minute)
	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.temperature", 0.1)
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.base_url", "")
	v.SetDefault("ollama.url", "http://localhost:11434")
	v.SetDefault("amadeus.base_url", "https://test.api.amadeus.com")
	v.SetDefault("amadeus.client_id", "")
	v.SetDefault("amadeus.client_secret", "")
	v.SetDefault("amadeus.timeout", 60*time.Second)
	v.SetDefault("amadeus.rps", 10.0)
	v.SetDefault("amadeus.burst", 10)
	v.SetDefault("amadeus.token_rps", 1.0)
	v.SetDefault("search.currency", "EGP")
	v.SetDefault("conversation.ttl", 2*time.Hour)
	v.SetDefault("conversation.sweep", "@every 5m")
}

// Load reads defaults, then the optional config file, then the environment.
// An empty path looks for tripassistant.yaml in the working directory.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("tripassistant")
		v.SetConfigType("yaml")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		Port:     v.GetString("port"),
		LogLevel: v.GetString("log.level"),

		CacheEnabled:  v.GetBool("cache.enabled"),
		RedisHost:     v.GetString("redis.host"),
		RedisPort:     v.GetString("redis.port"),
		RedisPassword: v.GetString("redis.password"),
		RedisDB:       v.GetInt("redis.db"),
		RedisTTL:      v.GetDuration("redis.ttl"),

		LLMProvider:    strings.ToLower(v.GetString("llm.provider")),
		LLMModel:       v.GetString("llm.model"),
		LLMTemperature: float32(v.GetFloat64("llm.temperature")),
		OpenAIAPIKey:   v.GetString("openai.api_key"),
		OpenAIBaseURL:  v.GetString("openai.base_url"),
		OllamaURL:      v.GetString("ollama.url"),

		AmadeusBaseURL:      strings.TrimRight(v.GetString("amadeus.base_url"), "/"),
		AmadeusClientID:     v.GetString("amadeus.client_id"),
		AmadeusClientSecret: v.GetString("amadeus.client_secret"),
		ProviderTimeout:     v.GetDuration("amadeus.timeout"),
		ProviderRPS:         v.GetFloat64("amadeus.rps"),
		ProviderBurst:       v.GetInt("amadeus.burst"),
		TokenRPS:            v.GetFloat64("amadeus.token_rps"),

		Currency: strings.ToUpper(v.GetString("search.currency")),

		ConversationTTL:   v.GetDuration("conversation.ttl"),
		ConversationSweep: v.GetString("conversation.sweep"),
	}

	if cfg.LLMProvider != "openai" && cfg.LLMProvider != "ollama" {
		return Config{}, fmt.Errorf("unsupported llm.provider %q", cfg.LLMProvider)
	}

	return cfg, nil
}

// MissingKeys lists the credential environment variables that are unset.
func (c Config) MissingKeys() []string {
	var missing []string
	if c.LLMProvider == "openai" && c.OpenAIAPIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	if c.AmadeusClientID == "" {
		missing = append(missing, "AMADEUS_CLIENT_ID")
	}
	if c.AmadeusClientSecret == "" {
		missing = append(missing, "AMADEUS_CLIENT_SECRET")
	}
	return missing
}
