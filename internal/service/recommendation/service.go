package recommendation

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/healthecon360/analytics-api/internal/model"
	"github.com/healthecon360/analytics-api/internal/repository"
)

type RecommendationServicer interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Recommendation, error)
	List(ctx context.Context, orgID *uuid.UUID) ([]*model.Recommendation, error)
	TopByImpact(ctx context.Context, limit int) ([]*model.Recommendation, error)
	Update(ctx context.Context, rec *model.Recommendation) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListTypes(ctx context.Context) ([]*model.RecommendationType, error)
	GetInsight(ctx context.Context, id uuid.UUID) (*model.OptimizationInsight, error)
	ListInsights(ctx context.Context, limit int) ([]*model.OptimizationInsight, error)
	DeleteInsight(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo     repository.RecommendationRepository
	topLimit int
}

func NewService(repo repository.RecommendationRepository, topLimit int) *Service {
	if topLimit <= 0 {
		topLimit = 5
	}
	return &Service{repo: repo, topLimit: topLimit}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Recommendation, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	actions, err := s.repo.ListActions(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list actions: %w", err)
	}
	rec.Actions = actions
	return rec, nil
}

func (s *Service) List(ctx context.Context, orgID *uuid.UUID) ([]*model.Recommendation, error) {
	return s.repo.List(ctx, orgID)
}

func (s *Service) TopByImpact(ctx context.Context, limit int) ([]*model.Recommendation, error) {
	if limit <= 0 {
		limit = s.topLimit
	}
	return s.repo.TopByImpact(ctx, limit)
}

func (s *Service) Update(ctx context.Context, rec *model.Recommendation) error {
	if rec.Title == "" {
		return fmt.Errorf("title is required")
	}
	return s.repo.Update(ctx, rec)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListTypes(ctx context.Context) ([]*model.RecommendationType, error) {
	return s.repo.ListTypes(ctx)
}

func (s *Service) GetInsight(ctx context.Context, id uuid.UUID) (*model.OptimizationInsight, error) {
	return s.repo.GetInsight(ctx, id)
}

func (s *Service) ListInsights(ctx context.Context, limit int) ([]*model.OptimizationInsight, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.repo.ListInsights(ctx, limit)
}

func (s *Service) DeleteInsight(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteInsight(ctx, id)
}
