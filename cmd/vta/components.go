package main

import (
	"fmt"

	"github.com/hyperjump/vta/internal/assistant"
	"github.com/hyperjump/vta/internal/config"
	"github.com/hyperjump/vta/internal/indexer"
	"github.com/hyperjump/vta/internal/keyword"
	"github.com/hyperjump/vta/internal/knowledge"
	"github.com/hyperjump/vta/internal/ranking"
	"github.com/hyperjump/vta/internal/resolver"
	"github.com/hyperjump/vta/internal/search"
	"github.com/hyperjump/vta/internal/storage"
	"github.com/hyperjump/vta/pkg/utils"
	"go.uber.org/zap"
)

const builtinCorpus = "built-in"

// Components holds initialized services. The archive fields are nil when the
// archive is disabled.
type Components struct {
	Assistant    *assistant.Service
	CorpusSource string
	Storage      storage.Storage
	KeywordIndex *keyword.BleveIndex
	Engine       *search.Engine
	Indexer      *indexer.Indexer
}

// ArchiveEnabled reports whether the post archive was opened.
func (c *Components) ArchiveEnabled() bool {
	return c.Storage != nil
}

func (c *Components) Close() {
	if c.Storage != nil {
		_ = c.Storage.Close()
	}
	if c.KeywordIndex != nil {
		_ = c.KeywordIndex.Close()
	}
}

// newAssistant loads the configured corpus, or the built-in one, and wraps it
// in an assistant service.
func newAssistant(cfg *config.Config, logger *zap.Logger) (*assistant.Service, string, error) {
	var (
		corpus     knowledge.Corpus = knowledge.Default()
		categories                  = knowledge.DefaultCategories()
		source                      = builtinCorpus
	)
	if path := cfg.Assistant.CorpusPath; path != "" {
		loaded, cats, err := knowledge.LoadFile(path)
		if err != nil {
			return nil, "", err
		}
		corpus, categories, source = loaded, cats, path
	}
	logger.Info("corpus loaded",
		zap.String("source", source),
		zap.Int("entries", corpus.Len()),
		zap.Int("categories", len(categories)),
	)
	svc := assistant.NewService(
		resolver.New(corpus, categories),
		&cfg.Assistant,
		assistant.WithLogger(logger),
	)
	return svc, source, nil
}

// initializeComponents builds the assistant and, when withArchive is set, opens
// the SQLite archive and the bleve index.
func initializeComponents(cfg *config.Config, logger *zap.Logger, withArchive bool) (*Components, error) {
	svc, source, err := newAssistant(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize assistant: %w", err)
	}
	c := &Components{Assistant: svc, CorpusSource: source}
	if !withArchive {
		return c, nil
	}

	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	c.Storage = store

	keywordIndex, err := keyword.NewBleveIndex(cfg.Storage.BleveIndexPath)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to initialize keyword index: %w", err)
	}
	c.KeywordIndex = keywordIndex

	suggester := keyword.NewSuggester(keywordIndex, 0)
	if err := suggester.Refresh(); err != nil {
		logger.Warn("suggestions unavailable", zap.Error(err))
	}
	c.Engine = search.NewEngine(store, keywordIndex, suggester)
	if cfg.Search.RankingEnabled {
		c.Engine.WithRanker(ranking.NewRanker(&ranking.RankingConfig{
			TitlePhraseMultiplier: cfg.Search.TitlePhraseMultiplier,
			EngagementWeight:      cfg.Search.EngagementWeight,
			RecencyHalfLife:       cfg.Search.RecencyHalfLife,
		}))
	}
	c.Indexer = indexer.NewIndexer(store, keywordIndex, indexer.WithLogger(logger))

	logger.Info("archive opened",
		zap.String("database_path", cfg.Storage.DatabasePath),
		zap.String("bleve_index_path", cfg.Storage.BleveIndexPath),
		zap.Bool("ranking_enabled", cfg.Search.RankingEnabled),
	)
	return c, nil
}

// setup loads config and builds a quiet logger for one-shot commands.
func setup(opts *rootOptions) (*config.Config, *zap.Logger, error) {
	cfg, path, err := loadConfig(opts.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := utils.NewCLILogger(cfg.Debug || opts.debug)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	logger.Debug("config loaded", zap.String("config_path", path))
	return cfg, logger, nil
}
