// Package app assembles the trip assistant from configuration.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dharmasatrya/tripassistant/internal/cache"
	"github.com/dharmasatrya/tripassistant/internal/config"
	"github.com/dharmasatrya/tripassistant/internal/conversation"
	"github.com/dharmasatrya/tripassistant/internal/llm"
	"github.com/dharmasatrya/tripassistant/internal/metrics"
	"github.com/dharmasatrya/tripassistant/internal/pipeline"
	"github.com/dharmasatrya/tripassistant/internal/providers"
	"github.com/dharmasatrya/tripassistant/internal/ratelimit"
)

// App holds the long-lived collaborators shared by the server and the CLI.
type App struct {
	Config  config.Config
	Store   *conversation.MemoryStore
	Graph   *pipeline.Graph
	Metrics *metrics.Metrics

	cache       cache.Cache
	stopJanitor func()
	logger      *slog.Logger
}

func Build(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	completer, err := newCompleter(ctx, cfg)
	if err != nil {
		return nil, err
	}

	limiter := ratelimit.NewOperationLimiter(limiterConfig(cfg))
	amadeus := providers.NewAmadeusClient(providers.AmadeusConfig{
		BaseURL: cfg.AmadeusBaseURL,
		Timeout: cfg.ProviderTimeout,
		Limiter: limiter,
	})

	var responseCache cache.Cache
	if cfg.CacheEnabled {
		redisCfg := redisConfig(cfg)
		redisCache, err := cache.NewRedisCache(redisCfg)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		responseCache = redisCache
		logger.Info("redis cache enabled", "addr", redisCfg.Host+":"+redisCfg.Port, "db", redisCfg.DB, "ttl", redisCfg.TTL)
	} else {
		responseCache = cache.NewNoOpCache()
		logger.Info("cache disabled")
	}

	store := conversation.NewMemoryStore(
		conversation.WithTTL(cfg.ConversationTTL),
		conversation.WithLogger(logger),
	)
	stop := func() {}
	if cfg.ConversationTTL > 0 && cfg.ConversationSweep != "" {
		stop, err = store.StartJanitor(cfg.ConversationSweep)
		if err != nil {
			_ = responseCache.Close()
			return nil, fmt.Errorf("schedule conversation sweep: %w", err)
		}
	}

	m := metrics.New()
	p := pipeline.New(pipeline.Config{
		Completer: completer,
		Provider:  providers.NewCachedProvider(amadeus, responseCache, logger),
		Credentials: providers.Credentials{
			ClientID:     cfg.AmadeusClientID,
			ClientSecret: cfg.AmadeusClientSecret,
		},
		Currency:    cfg.Currency,
		TaskTimeout: cfg.ProviderTimeout,
		Logger:      logger,
		Metrics:     m,
	})

	if missing := cfg.MissingKeys(); len(missing) > 0 {
		logger.Warn("credentials missing", "keys", missing)
	}

	return &App{
		Config:      cfg,
		Store:       store,
		Graph:       pipeline.NewTravelGraph(p),
		Metrics:     m,
		cache:       responseCache,
		stopJanitor: stop,
		logger:      logger,
	}, nil
}

// limiterConfig overlays the configured provider rate on the package defaults.
func limiterConfig(cfg config.Config) ratelimit.Config {
	lc := ratelimit.DefaultConfig()
	if cfg.ProviderRPS > 0 {
		lc.Default.RequestsPerSecond = cfg.ProviderRPS
	}
	if cfg.ProviderBurst > 0 {
		lc.Default.BurstSize = cfg.ProviderBurst
	}
	if cfg.TokenRPS > 0 {
		lc.Overrides = map[string]ratelimit.Limit{
			providers.OpToken: {RequestsPerSecond: cfg.TokenRPS, BurstSize: lc.Default.BurstSize},
		}
	}
	return lc
}

func redisConfig(cfg config.Config) cache.RedisConfig {
	rc := cache.DefaultRedisConfig()
	if cfg.RedisHost != "" {
		rc.Host = cfg.RedisHost
	}
	if cfg.RedisPort != "" {
		rc.Port = cfg.RedisPort
	}
	if cfg.RedisTTL > 0 {
		rc.TTL = cfg.RedisTTL
	}
	rc.Password = cfg.RedisPassword
	rc.DB = cfg.RedisDB
	return rc
}

func newCompleter(ctx context.Context, cfg config.Config) (llm.Completer, error) {
	switch cfg.LLMProvider {
	case "ollama":
		return llm.NewOllamaCompleter(ctx, cfg.OllamaURL, cfg.LLMModel)
	default:
		return llm.NewOpenAICompleter(ctx, llm.OpenAIConfig{
			APIKey:      cfg.OpenAIAPIKey,
			BaseURL:     cfg.OpenAIBaseURL,
			Model:       cfg.LLMModel,
			Temperature: cfg.LLMTemperature,
			Timeout:     cfg.ProviderTimeout,
		})
	}
}

// Close stops background work and releases the cache connection.
func (a *App) Close() error {
	a.stopJanitor()
	return a.cache.Close()
}
