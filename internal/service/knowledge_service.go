package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/kb"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// KnowledgeService manages the article store and the in-memory retrieval
// index built over it. The index is rebuilt explicitly; adding an article
// leaves it stale until the next rebuild.
type KnowledgeService struct {
	articles repository.KnowledgeRepository
	engine   *kb.Engine
	seedFile string
	logger   *zap.Logger
}

// NewKnowledgeService constructs the service.
func NewKnowledgeService(articles repository.KnowledgeRepository, engine *kb.Engine, seedFile string, logger *zap.Logger) *KnowledgeService {
	return &KnowledgeService{
		articles: articles,
		engine:   engine,
		seedFile: seedFile,
		logger:   logger,
	}
}

// SeedIfEmpty inserts the starter articles when the store holds none. The
// seed file is optional; without one the built-in set is used.
func (s *KnowledgeService) SeedIfEmpty(ctx context.Context) error {
	count, err := s.articles.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	seed := kb.DefaultSeed()
	if s.seedFile != "" {
		loaded, err := kb.LoadSeedFile(s.seedFile)
		if err != nil {
			s.logger.Warn("seed file unreadable; using built-in articles",
				zap.String("file", s.seedFile), zap.Error(err))
		} else {
			seed = loaded
		}
	}

	for i := range seed {
		if err := s.articles.Create(ctx, &seed[i]); err != nil {
			return err
		}
	}
	s.logger.Info("knowledge base seeded", zap.Int("articles", len(seed)))
	return nil
}

// Rebuild replaces the retrieval index with a fresh build over the current
// article set.
func (s *KnowledgeService) Rebuild(ctx context.Context) (int, error) {
	articles, err := s.articles.List(ctx)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	s.engine.Build(articles)
	s.logger.Info("knowledge index rebuilt", zap.Int("articles", len(articles)))
	return len(articles), nil
}

// Suggest returns ranked articles for the query, building the index on first
// use.
func (s *KnowledgeService) Suggest(ctx context.Context, query string, topK int) ([]kb.Suggestion, error) {
	if !s.engine.Built() {
		if _, err := s.Rebuild(ctx); err != nil {
			return nil, err
		}
	}
	return s.engine.Suggest(query, topK), nil
}

// AddArticle validates and stores a new article. The retrieval index keeps
// serving the previous snapshot until the next rebuild.
func (s *KnowledgeService) AddArticle(ctx context.Context, title, content string, tags []string) (*domain.KnowledgeArticle, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" || content == "" {
		return nil, apperrors.NewValidationError("title and content required", nil)
	}

	article := &domain.KnowledgeArticle{Title: title, Content: content, Tags: tags}
	if err := s.articles.Create(ctx, article); err != nil {
		return nil, apperrors.MapError(err)
	}
	return article, nil
}
