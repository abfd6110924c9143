package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/jobboard-ai/internal/ai"
	"github.com/spigell/jobboard-ai/internal/ai/assistant"
	"github.com/spigell/jobboard-ai/internal/ai/gemini"
	"github.com/spigell/jobboard-ai/internal/ai/prompt"
	"github.com/spigell/jobboard-ai/internal/logger"
	"github.com/spigell/jobboard-ai/internal/matching"
	"github.com/spigell/jobboard-ai/internal/secrets"
	"github.com/spigell/jobboard-ai/internal/store"
)

// deps holds the wired components shared by the commands.
type deps struct {
	config    *Config
	logger    *zap.Logger
	store     *store.Store
	assistant *assistant.Assistant
	matcher   *matching.Orchestrator
}

func (d *deps) Close() {
	if d.store != nil {
		d.store.Close()
	}
	_ = d.logger.Sync()
}

// setup loads the config and wires the pipeline. The database is opened only
// when needDB is set, so the AI-only commands work without one.
func setup(ctx context.Context, needDB bool) *deps {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the "+app, zap.String("version", version))
	logger.Debug("starting with config", zap.String("config", redactedConfig(config)))

	d := &deps{config: config, logger: logger}

	if needDB {
		d.store, err = openStore(ctx, config.Database, logger)
		if err != nil {
			logger.Fatal("opening the database", zap.Error(err),
				zap.String("hint", "set DATABASE_URL or database.dsn in the configuration file"),
			)
		}
	}

	gateway := ai.NewGateway(newGenerator(ctx, config.AI.Gemini, logger), ai.GatewayConfig{
		Timeout:      config.AI.Timeout,
		MaxLogLength: config.AI.MaxLogLength,
	}, logger)

	builder := prompt.NewBuilder(prompt.Options{
		Language:      config.AI.Language,
		MaxInputRunes: config.AI.MaxInputRunes,
	})

	d.assistant = assistant.New(gateway, builder, logger)

	if d.store != nil {
		d.matcher = matching.New(d.store, d.assistant, matching.Config{
			Concurrency:      config.Matching.Concurrency,
			BatchSize:        config.Matching.BatchSize,
			HideApplied:      config.Matching.HideApplied,
			ExcludeCompanies: config.Matching.ExcludeCompanies,
			Limit:            config.Matching.Limit,
		}, logger)
	}

	return d
}

func openStore(ctx context.Context, cfg *DatabaseConfig, logger *zap.Logger) (*store.Store, error) {
	dsn, err := secrets.Load(secrets.Source{
		Name:  "database dsn",
		Env:   "DATABASE_URL",
		File:  cfg.DSNFile,
		Value: cfg.DSN,
	})
	if err != nil {
		return nil, err
	}

	pool, err := store.Connect(ctx, dsn, cfg.MaxConns)
	if err != nil {
		return nil, err
	}

	st, err := store.New(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("database is ready", zap.Int32("max_conns", cfg.MaxConns))
	return st, nil
}

// newGenerator returns nil when no API key is configured. The gateway then
// answers every call with the unavailable diagnostic.
func newGenerator(ctx context.Context, cfg *GeminiConfig, zlog *zap.Logger) ai.Generator {
	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Env:   "GEMINI_API_KEY",
		File:  cfg.APIKeyFile,
		Value: cfg.APIKey,
	})
	if err != nil {
		zlog.Warn("ai provider is not configured", zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY or ai.gemini.api-key in the configuration file"),
		)
		return nil
	}

	generator, err := gemini.NewGenerator(ctx, gemini.Config{
		APIKey:          apiKey,
		Model:           cfg.Model,
		Temperature:     cfg.Temperature,
		TopP:            cfg.TopP,
		MaxOutputTokens: cfg.MaxOutputTokens,
	}, zlog)
	if err != nil {
		zlog.Warn("creating the gemini client failed", zap.Error(err))
		return nil
	}

	logger.WithCommonFields(zlog, "gemini", generator.Model()).Info("ai provider is ready")
	return generator
}

func redactedConfig(config *Config) string {
	clone := *config
	if config.Database != nil {
		db := *config.Database
		if db.DSN != "" {
			db.DSN = "***"
		}
		clone.Database = &db
	}
	if config.AI != nil && config.AI.Gemini != nil {
		aiCfg := *config.AI
		g := *config.AI.Gemini
		if g.APIKey != "" {
			g.APIKey = "***"
		}
		aiCfg.Gemini = &g
		clone.AI = &aiCfg
	}

	// do not bother error since the config was unmarshalled already
	pretty, _ := json.MarshalIndent(clone, "", "  ")
	return fmt.Sprintf("\n%s", pretty)
}
