package outcome

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/healthecon360/analytics-api/internal/model"
	"github.com/healthecon360/analytics-api/internal/repository"
)

type OutcomeServicer interface {
	CreateOutcomeCategory(ctx context.Context, c *model.OutcomeCategory) error
	ListOutcomeCategories(ctx context.Context) ([]*model.OutcomeCategory, error)
	DeleteOutcomeCategory(ctx context.Context, id uuid.UUID) error

	CreateOutcome(ctx context.Context, o *model.Outcome) error
	GetOutcome(ctx context.Context, id uuid.UUID) (*model.Outcome, error)
	UpdateOutcome(ctx context.Context, o *model.Outcome) error
	DeleteOutcome(ctx context.Context, id uuid.UUID) error
	ListOutcomes(ctx context.Context) ([]*model.Outcome, error)

	CreateTreatment(ctx context.Context, t *model.Treatment) error
	GetTreatment(ctx context.Context, id uuid.UUID) (*model.Treatment, error)
	UpdateTreatment(ctx context.Context, t *model.Treatment) error
	DeleteTreatment(ctx context.Context, id uuid.UUID) error
	ListTreatments(ctx context.Context) ([]*model.Treatment, error)

	CreateMeasurement(ctx context.Context, m *model.OutcomeMeasurement) error
	GetMeasurement(ctx context.Context, id uuid.UUID) (*model.OutcomeMeasurement, error)
	UpdateMeasurement(ctx context.Context, m *model.OutcomeMeasurement) error
	DeleteMeasurement(ctx context.Context, id uuid.UUID) error
	ListMeasurements(ctx context.Context, filters *model.MeasurementFilters) ([]*model.OutcomeMeasurement, error)
}

type Service struct {
	repo repository.OutcomeRepository
}

func NewService(repo repository.OutcomeRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateOutcomeCategory(ctx context.Context, c *model.OutcomeCategory) error {
	if c.Name == "" {
		return fmt.Errorf("category name is required")
	}
	return s.repo.CreateOutcomeCategory(ctx, c)
}

func (s *Service) ListOutcomeCategories(ctx context.Context) ([]*model.OutcomeCategory, error) {
	return s.repo.ListOutcomeCategories(ctx)
}

func (s *Service) DeleteOutcomeCategory(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteOutcomeCategory(ctx, id)
}

func (s *Service) CreateOutcome(ctx context.Context, o *model.Outcome) error {
	if o.Name == "" {
		return fmt.Errorf("outcome name is required")
	}
	return s.repo.CreateOutcome(ctx, o)
}

func (s *Service) GetOutcome(ctx context.Context, id uuid.UUID) (*model.Outcome, error) {
	return s.repo.GetOutcome(ctx, id)
}

func (s *Service) UpdateOutcome(ctx context.Context, o *model.Outcome) error {
	if o.Name == "" {
		return fmt.Errorf("outcome name is required")
	}
	return s.repo.UpdateOutcome(ctx, o)
}

func (s *Service) DeleteOutcome(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteOutcome(ctx, id)
}

func (s *Service) ListOutcomes(ctx context.Context) ([]*model.Outcome, error) {
	return s.repo.ListOutcomes(ctx)
}

func (s *Service) CreateTreatment(ctx context.Context, t *model.Treatment) error {
	if t.Name == "" {
		return fmt.Errorf("treatment name is required")
	}
	if t.AverageCost < 0 {
		return fmt.Errorf("average cost must not be negative")
	}
	return s.repo.CreateTreatment(ctx, t)
}

func (s *Service) GetTreatment(ctx context.Context, id uuid.UUID) (*model.Treatment, error) {
	return s.repo.GetTreatment(ctx, id)
}

func (s *Service) UpdateTreatment(ctx context.Context, t *model.Treatment) error {
	if t.Name == "" {
		return fmt.Errorf("treatment name is required")
	}
	return s.repo.UpdateTreatment(ctx, t)
}

func (s *Service) DeleteTreatment(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteTreatment(ctx, id)
}

func (s *Service) ListTreatments(ctx context.Context) ([]*model.Treatment, error) {
	return s.repo.ListTreatments(ctx)
}

func (s *Service) CreateMeasurement(ctx context.Context, m *model.OutcomeMeasurement) error {
	if m.OutcomeID == uuid.Nil {
		return fmt.Errorf("outcome ID is required")
	}
	return s.repo.CreateMeasurement(ctx, m)
}

func (s *Service) GetMeasurement(ctx context.Context, id uuid.UUID) (*model.OutcomeMeasurement, error) {
	return s.repo.GetMeasurement(ctx, id)
}

func (s *Service) UpdateMeasurement(ctx context.Context, m *model.OutcomeMeasurement) error {
	if m.OutcomeID == uuid.Nil {
		return fmt.Errorf("outcome ID is required")
	}
	return s.repo.UpdateMeasurement(ctx, m)
}

func (s *Service) DeleteMeasurement(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteMeasurement(ctx, id)
}

func (s *Service) ListMeasurements(ctx context.Context, filters *model.MeasurementFilters) ([]*model.OutcomeMeasurement, error) {
	return s.repo.ListMeasurements(ctx, filters)
}
