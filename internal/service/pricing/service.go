package pricing

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/healthecon360/analytics-api/internal/model"
	"github.com/healthecon360/analytics-api/internal/repository"
)

type PricingServicer interface {
	CreateCategory(ctx context.Context, c *model.DrugCategory) error
	ListCategories(ctx context.Context) ([]*model.DrugCategory, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	CreateDrug(ctx context.Context, d *model.Drug) error
	GetDrug(ctx context.Context, id uuid.UUID) (*model.Drug, error)
	UpdateDrug(ctx context.Context, d *model.Drug) error
	DeleteDrug(ctx context.Context, id uuid.UUID) error
	ListDrugs(ctx context.Context) ([]*model.Drug, error)

	CreateRegion(ctx context.Context, r *model.Region) error
	GetRegion(ctx context.Context, id uuid.UUID) (*model.Region, error)
	UpdateRegion(ctx context.Context, r *model.Region) error
	DeleteRegion(ctx context.Context, id uuid.UUID) error
	ListRegions(ctx context.Context) ([]*model.Region, error)

	CreatePrice(ctx context.Context, p *model.DrugPrice) error
	GetPrice(ctx context.Context, id uuid.UUID) (*model.DrugPrice, error)
	UpdatePrice(ctx context.Context, p *model.DrugPrice) error
	DeletePrice(ctx context.Context, id uuid.UUID) error
	ListPrices(ctx context.Context, filters *model.PriceFilters) ([]*model.DrugPrice, error)

	GetAnalysis(ctx context.Context, id uuid.UUID) (*model.PriceAnalysis, error)
	ListAnalyses(ctx context.Context, limit int) ([]*model.PriceAnalysis, error)
}

type Service struct {
	repo repository.PricingRepository
}

func NewService(repo repository.PricingRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateCategory(ctx context.Context, c *model.DrugCategory) error {
	if c.Name == "" {
		return fmt.Errorf("category name is required")
	}
	return s.repo.CreateCategory(ctx, c)
}

func (s *Service) ListCategories(ctx context.Context) ([]*model.DrugCategory, error) {
	return s.repo.ListCategories(ctx)
}

func (s *Service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteCategory(ctx, id)
}

func (s *Service) CreateDrug(ctx context.Context, d *model.Drug) error {
	if d.Name == "" {
		return fmt.Errorf("drug name is required")
	}
	return s.repo.CreateDrug(ctx, d)
}

func (s *Service) GetDrug(ctx context.Context, id uuid.UUID) (*model.Drug, error) {
	return s.repo.GetDrug(ctx, id)
}

func (s *Service) UpdateDrug(ctx context.Context, d *model.Drug) error {
	if d.Name == "" {
		return fmt.Errorf("drug name is required")
	}
	return s.repo.UpdateDrug(ctx, d)
}

func (s *Service) DeleteDrug(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteDrug(ctx, id)
}

func (s *Service) ListDrugs(ctx context.Context) ([]*model.Drug, error) {
	return s.repo.ListDrugs(ctx)
}

func (s *Service) CreateRegion(ctx context.Context, r *model.Region) error {
	if r.Name == "" {
		return fmt.Errorf("region name is required")
	}
	return s.repo.CreateRegion(ctx, r)
}

func (s *Service) GetRegion(ctx context.Context, id uuid.UUID) (*model.Region, error) {
	return s.repo.GetRegion(ctx, id)
}

func (s *Service) UpdateRegion(ctx context.Context, r *model.Region) error {
	if r.Name == "" {
		return fmt.Errorf("region name is required")
	}
	return s.repo.UpdateRegion(ctx, r)
}

func (s *Service) DeleteRegion(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteRegion(ctx, id)
}

func (s *Service) ListRegions(ctx context.Context) ([]*model.Region, error) {
	return s.repo.ListRegions(ctx)
}

func (s *Service) CreatePrice(ctx context.Context, p *model.DrugPrice) error {
	if err := s.validatePrice(p); err != nil {
		return err
	}
	return s.repo.CreatePrice(ctx, p)
}

func (s *Service) GetPrice(ctx context.Context, id uuid.UUID) (*model.DrugPrice, error) {
	return s.repo.GetPrice(ctx, id)
}

func (s *Service) UpdatePrice(ctx context.Context, p *model.DrugPrice) error {
	if err := s.validatePrice(p); err != nil {
		return err
	}
	return s.repo.UpdatePrice(ctx, p)
}

func (s *Service) DeletePrice(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeletePrice(ctx, id)
}

func (s *Service) ListPrices(ctx context.Context, filters *model.PriceFilters) ([]*model.DrugPrice, error) {
	return s.repo.ListPrices(ctx, filters)
}

func (s *Service) GetAnalysis(ctx context.Context, id uuid.UUID) (*model.PriceAnalysis, error) {
	return s.repo.GetAnalysis(ctx, id)
}

func (s *Service) ListAnalyses(ctx context.Context, limit int) ([]*model.PriceAnalysis, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.repo.ListAnalyses(ctx, limit)
}

func (s *Service) validatePrice(p *model.DrugPrice) error {
	if p.DrugID == uuid.Nil {
		return fmt.Errorf("drug ID is required")
	}
	if p.RegionID == uuid.Nil {
		return fmt.Errorf("region ID is required")
	}
	if p.Price < 0 {
		return fmt.Errorf("price must not be negative")
	}
	return nil
}
