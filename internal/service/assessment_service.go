package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"psyscore/internal/domain"
	"psyscore/internal/repository"
	"psyscore/internal/scoring"
)

// AssessmentService orquesta el motor de scoring, la persistencia y el cache.
type AssessmentService struct {
	logger        *zap.Logger
	engine        *scoring.Engine
	repo          repository.AssessmentRepository
	cache         ResultCache
	limiter       SubmissionLimiter
	pseudonymizer *Pseudonymizer
	opts          AssessmentOptions
	now           func() time.Time
}

type AssessmentOptions struct {
	CacheTTL         time.Duration
	BatchConcurrency int
	BatchMaxSize     int
	SimilarMax       int
}

var (
	ErrAssessmentNotConfigured = errors.New("assessment service not configured")
	ErrAssessmentInvalidInput  = errors.New("assessment invalid input")
	ErrAssessmentRateLimited   = errors.New("assessment rate limited")
	ErrAssessmentNotFound      = errors.New("assessment not found")
	ErrPersistenceDisabled     = errors.New("assessment persistence disabled")
	ErrBatchTooLarge           = errors.New("assessment batch too large")
)

func NewAssessmentService(
	logger *zap.Logger,
	engine *scoring.Engine,
	repo repository.AssessmentRepository,
	cache ResultCache,
	limiter SubmissionLimiter,
	pseudonymizer *Pseudonymizer,
	opts AssessmentOptions,
) *AssessmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cache == nil {
		cache = NewMemoryResultCache()
	}
	if limiter == nil {
		limiter = NewMemorySubmissionLimiter(time.Hour, 10)
	}
	if pseudonymizer == nil {
		pseudonymizer = NewPseudonymizer("")
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = defaultCacheTTL
	}
	if opts.BatchConcurrency <= 0 {
		opts.BatchConcurrency = 4
	}
	if opts.BatchMaxSize <= 0 {
		opts.BatchMaxSize = 100
	}
	if opts.SimilarMax <= 0 {
		opts.SimilarMax = 50
	}
	return &AssessmentService{
		logger:        logger,
		engine:        engine,
		repo:          repo,
		cache:         cache,
		limiter:       limiter,
		pseudonymizer: pseudonymizer,
		opts:          opts,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Preview puntua sin persistir ni consumir rate limit.
func (s *AssessmentService) Preview(ctx context.Context, req domain.ScoreRequest) (domain.ScoringResult, error) {
	if s == nil || s.engine == nil {
		return domain.ScoringResult{}, ErrAssessmentNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return domain.ScoringResult{}, err
	}
	return s.engine.Score(req.Responses, req.Meta), nil
}

// Submit puntua, seudonimiza al respondente y guarda el resultado.
func (s *AssessmentService) Submit(ctx context.Context, req domain.ScoreRequest) (domain.Assessment, error) {
	if s == nil || s.engine == nil {
		return domain.Assessment{}, ErrAssessmentNotConfigured
	}
	respondentHash := s.pseudonymizer.Hash(req.RespondentID)
	if respondentHash == "" {
		return domain.Assessment{}, ErrAssessmentInvalidInput
	}
	if s.repo == nil {
		return domain.Assessment{}, ErrPersistenceDisabled
	}
	if !s.limiter.Allow(ctx, respondentHash) {
		return domain.Assessment{}, ErrAssessmentRateLimited
	}

	result := s.engine.Score(req.Responses, req.Meta)
	assessment := domain.Assessment{
		ID:             uuid.NewString(),
		RespondentHash: respondentHash,
		Tier:           result.Tier,
		Result:         result,
		CreatedAt:      s.now(),
	}
	if err := s.repo.Create(ctx, assessment); err != nil {
		return domain.Assessment{}, fmt.Errorf("persist assessment: %w", err)
	}
	s.cacheAssessment(ctx, assessment)

	s.logger.Info("assessment stored",
		zap.String("assessment_id", assessment.ID),
		zap.String("archetype", result.Archetype.Name),
		zap.Int("responses", result.ResponseCount),
	)
	return assessment, nil
}

// Get busca primero en cache y luego en la base.
func (s *AssessmentService) Get(ctx context.Context, id string) (domain.Assessment, error) {
	if s == nil {
		return domain.Assessment{}, ErrAssessmentNotConfigured
	}
	id = strings.TrimSpace(id)
	if _, err := uuid.Parse(id); err != nil {
		return domain.Assessment{}, ErrAssessmentInvalidInput
	}

	cached, ok, err := s.cache.Get(ctx, id)
	if err != nil {
		s.logger.Warn("result cache read failed", zap.String("assessment_id", id), zap.Error(err))
		if errors.Is(err, ErrCacheCorrupt) {
			if delErr := s.cache.Delete(ctx, id); delErr != nil {
				s.logger.Warn("result cache evict failed", zap.String("assessment_id", id), zap.Error(delErr))
			}
		}
	}
	if ok {
		return cached, nil
	}

	if s.repo == nil {
		return domain.Assessment{}, ErrPersistenceDisabled
	}
	assessment, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Assessment{}, ErrAssessmentNotFound
	}
	if err != nil {
		return domain.Assessment{}, fmt.Errorf("load assessment: %w", err)
	}
	s.cacheAssessment(ctx, assessment)
	return assessment, nil
}

// ScoreBatch puntua varias sesiones en paralelo; el orden de salida es el de entrada.
func (s *AssessmentService) ScoreBatch(ctx context.Context, reqs []domain.ScoreRequest) ([]domain.ScoringResult, error) {
	if s == nil || s.engine == nil {
		return nil, ErrAssessmentNotConfigured
	}
	if len(reqs) > s.opts.BatchMaxSize {
		return nil, ErrBatchTooLarge
	}
	results := make([]domain.ScoringResult, len(reqs))
	if len(reqs) == 0 {
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.BatchConcurrency)
	for i := range reqs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = s.engine.Score(reqs[i].Responses, reqs[i].Meta)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Similar devuelve las evaluaciones con el vector de rasgos mas cercano.
func (s *AssessmentService) Similar(ctx context.Context, id string, limit int) ([]domain.SimilarAssessment, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if s.repo == nil {
		return nil, ErrPersistenceDisabled
	}
	if limit <= 0 {
		limit = 5
	}
	if limit > s.opts.SimilarMax {
		limit = s.opts.SimilarMax
	}
	similar, err := s.repo.FindSimilar(ctx, strings.TrimSpace(id), limit)
	if err != nil {
		return nil, fmt.Errorf("find similar: %w", err)
	}
	return similar, nil
}

func (s *AssessmentService) cacheAssessment(ctx context.Context, assessment domain.Assessment) {
	if err := s.cache.Set(ctx, assessment, s.opts.CacheTTL); err != nil {
		s.logger.Warn("result cache write failed", zap.String("assessment_id", assessment.ID), zap.Error(err))
	}
}
