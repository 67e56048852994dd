package dashboard

import (
	"context"

	"github.com/google/uuid"

	"github.com/healthecon360/analytics-api/internal/model"
	"github.com/healthecon360/analytics-api/internal/repository"
	apperrors "github.com/healthecon360/analytics-api/pkg/errors"
)

type DashboardServicer interface {
	Create(ctx context.Context, d *model.Dashboard) error
	Get(ctx context.Context, id, userID uuid.UUID) (*model.Dashboard, error)
	Update(ctx context.Context, d *model.Dashboard, userID uuid.UUID) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.Dashboard, error)
}

type Service struct {
	repo repository.DashboardRepository
}

func NewService(repo repository.DashboardRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, d *model.Dashboard) error {
	if d.Title == "" {
		return apperrors.BadRequest("dashboard title is required", nil)
	}
	if d.UserID == uuid.Nil {
		return apperrors.BadRequest("user ID is required", nil)
	}
	return s.repo.Create(ctx, d)
}

func (s *Service) Get(ctx context.Context, id, userID uuid.UUID) (*model.Dashboard, error) {
	dashboard, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !dashboard.IsPublic && dashboard.UserID != userID {
		return nil, apperrors.NotFound("dashboard", nil)
	}
	return dashboard, nil
}

func (s *Service) Update(ctx context.Context, d *model.Dashboard, userID uuid.UUID) error {
	existing, err := s.repo.Get(ctx, d.ID)
	if err != nil {
		return err
	}
	if existing.UserID != userID {
		return apperrors.NotFound("dashboard", nil)
	}
	d.UserID = existing.UserID
	return s.repo.Update(ctx, d)
}

func (s *Service) Delete(ctx context.Context, id, userID uuid.UUID) error {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if existing.UserID != userID {
		return apperrors.NotFound("dashboard", nil)
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.Dashboard, error) {
	return s.repo.ListForUser(ctx, userID)
}
