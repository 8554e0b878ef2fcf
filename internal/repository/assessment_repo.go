package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"psyscore/internal/domain"
)

type AssessmentRepository interface {
	Create(ctx context.Context, assessment domain.Assessment) error
	GetByID(ctx context.Context, id string) (domain.Assessment, error)
	FindSimilar(ctx context.Context, id string, k int) ([]domain.SimilarAssessment, error)
}

type PgAssessmentRepository struct {
	pool *pgxpool.Pool
}

func NewPgAssessmentRepository(pool *pgxpool.Pool) *PgAssessmentRepository {
	return &PgAssessmentRepository{pool: pool}
}

func (r *PgAssessmentRepository) Create(ctx context.Context, assessment domain.Assessment) error {
	payload, err := json.Marshal(assessment.Result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	const query = `
		INSERT INTO assessments (id, respondent_hash, tier, archetype, traits, result, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = r.pool.Exec(ctx, query,
		assessment.ID,
		assessment.RespondentHash,
		string(assessment.Tier),
		assessment.Result.Archetype.Name,
		pgvector.NewVector(assessment.Result.Traits.Profile().Vector()),
		payload,
		assessment.CreatedAt,
	)
	return err
}

func (r *PgAssessmentRepository) GetByID(ctx context.Context, id string) (domain.Assessment, error) {
	const query = `
		SELECT id, respondent_hash, tier, result, created_at
		FROM assessments
		WHERE id = $1
	`
	var (
		a       domain.Assessment
		tier    string
		payload []byte
	)
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&a.ID,
		&a.RespondentHash,
		&tier,
		&payload,
		&a.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Assessment{}, err
	}
	if err != nil {
		return domain.Assessment{}, err
	}
	a.Tier = domain.ParseTier(tier)
	if err := json.Unmarshal(payload, &a.Result); err != nil {
		return domain.Assessment{}, fmt.Errorf("decode result: %w", err)
	}
	return a, nil
}

// FindSimilar devuelve las k evaluaciones mas cercanas por distancia L2 del vector de rasgos, sin incluir la propia.
func (r *PgAssessmentRepository) FindSimilar(ctx context.Context, id string, k int) ([]domain.SimilarAssessment, error) {
	if k <= 0 {
		k = 5
	}
	const query = `
		SELECT a.id, a.archetype, a.traits, a.traits <-> ref.traits AS distance, a.created_at
		FROM assessments a, (SELECT traits FROM assessments WHERE id = $1) ref
		WHERE a.id <> $1
		ORDER BY distance
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, id, k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSimilar(rows)
}

func scanSimilar(rows pgxRows) ([]domain.SimilarAssessment, error) {
	out := []domain.SimilarAssessment{}
	for rows.Next() {
		var (
			s      domain.SimilarAssessment
			traits pgvector.Vector
		)
		if err := rows.Scan(&s.ID, &s.Archetype, &traits, &s.Distance, &s.CreatedAt); err != nil {
			return nil, err
		}
		s.Profile = profileFromVector(traits.Slice())
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func profileFromVector(v []float32) domain.Big5Profile {
	var p domain.Big5Profile
	get := func(i int) int {
		if i < len(v) {
			return int(v[i])
		}
		return 0
	}
	p.Openness = get(0)
	p.Conscientiousness = get(1)
	p.Extraversion = get(2)
	p.Agreeableness = get(3)
	p.Neuroticism = get(4)
	return p
}

// pgxRows is a minimal interface to allow scanning from pgx rows and simplify testing.
type pgxRows interface {
	Next() bool
	Scan(...interface{}) error
	Err() error
	Close()
}
