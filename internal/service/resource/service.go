package resource

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/healthecon360/analytics-api/internal/model"
	"github.com/healthecon360/analytics-api/internal/repository"
)

type ResourceServicer interface {
	CreateOrganization(ctx context.Context, o *model.Organization) error
	GetOrganization(ctx context.Context, id uuid.UUID) (*model.Organization, error)
	UpdateOrganization(ctx context.Context, o *model.Organization) error
	DeleteOrganization(ctx context.Context, id uuid.UUID) error
	ListOrganizations(ctx context.Context) ([]*model.Organization, error)

	CreateDepartment(ctx context.Context, d *model.Department) error
	GetDepartment(ctx context.Context, id uuid.UUID) (*model.Department, error)
	UpdateDepartment(ctx context.Context, d *model.Department) error
	DeleteDepartment(ctx context.Context, id uuid.UUID) error
	ListDepartments(ctx context.Context, orgID uuid.UUID) ([]*model.Department, error)

	CreateResourceCategory(ctx context.Context, c *model.ResourceCategory) error
	ListResourceCategories(ctx context.Context) ([]*model.ResourceCategory, error)
	DeleteResourceCategory(ctx context.Context, id uuid.UUID) error

	CreateResource(ctx context.Context, r *model.Resource) error
	GetResource(ctx context.Context, id uuid.UUID) (*model.Resource, error)
	UpdateResource(ctx context.Context, r *model.Resource) error
	DeleteResource(ctx context.Context, id uuid.UUID) error
	ListResources(ctx context.Context) ([]*model.Resource, error)

	CreateAllocation(ctx context.Context, a *model.ResourceAllocation) error
	GetAllocation(ctx context.Context, id uuid.UUID) (*model.ResourceAllocation, error)
	UpdateAllocation(ctx context.Context, a *model.ResourceAllocation) error
	DeleteAllocation(ctx context.Context, id uuid.UUID) error
	ListAllocations(ctx context.Context, filters *model.AllocationFilters) ([]*model.ResourceAllocation, error)
}

type Service struct {
	repo repository.ResourceRepository
}

func NewService(repo repository.ResourceRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateOrganization(ctx context.Context, o *model.Organization) error {
	if o.Name == "" {
		return fmt.Errorf("organization name is required")
	}
	return s.repo.CreateOrganization(ctx, o)
}

func (s *Service) GetOrganization(ctx context.Context, id uuid.UUID) (*model.Organization, error) {
	return s.repo.GetOrganization(ctx, id)
}

func (s *Service) UpdateOrganization(ctx context.Context, o *model.Organization) error {
	if o.Name == "" {
		return fmt.Errorf("organization name is required")
	}
	return s.repo.UpdateOrganization(ctx, o)
}

func (s *Service) DeleteOrganization(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteOrganization(ctx, id)
}

func (s *Service) ListOrganizations(ctx context.Context) ([]*model.Organization, error) {
	return s.repo.ListOrganizations(ctx)
}

func (s *Service) CreateDepartment(ctx context.Context, d *model.Department) error {
	if d.OrganizationID == uuid.Nil {
		return fmt.Errorf("organization ID is required")
	}
	if d.Name == "" {
		return fmt.Errorf("department name is required")
	}
	return s.repo.CreateDepartment(ctx, d)
}

func (s *Service) GetDepartment(ctx context.Context, id uuid.UUID) (*model.Department, error) {
	return s.repo.GetDepartment(ctx, id)
}

func (s *Service) UpdateDepartment(ctx context.Context, d *model.Department) error {
	if d.Name == "" {
		return fmt.Errorf("department name is required")
	}
	return s.repo.UpdateDepartment(ctx, d)
}

func (s *Service) DeleteDepartment(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteDepartment(ctx, id)
}

func (s *Service) ListDepartments(ctx context.Context, orgID uuid.UUID) ([]*model.Department, error) {
	return s.repo.ListDepartments(ctx, orgID)
}

func (s *Service) CreateResourceCategory(ctx context.Context, c *model.ResourceCategory) error {
	if c.Name == "" {
		return fmt.Errorf("category name is required")
	}
	return s.repo.CreateResourceCategory(ctx, c)
}

func (s *Service) ListResourceCategories(ctx context.Context) ([]*model.ResourceCategory, error) {
	return s.repo.ListResourceCategories(ctx)
}

func (s *Service) DeleteResourceCategory(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteResourceCategory(ctx, id)
}

func (s *Service) CreateResource(ctx context.Context, r *model.Resource) error {
	if r.Name == "" {
		return fmt.Errorf("resource name is required")
	}
	if r.UnitCost < 0 {
		return fmt.Errorf("unit cost must not be negative")
	}
	return s.repo.CreateResource(ctx, r)
}

func (s *Service) GetResource(ctx context.Context, id uuid.UUID) (*model.Resource, error) {
	return s.repo.GetResource(ctx, id)
}

func (s *Service) UpdateResource(ctx context.Context, r *model.Resource) error {
	if r.Name == "" {
		return fmt.Errorf("resource name is required")
	}
	return s.repo.UpdateResource(ctx, r)
}

func (s *Service) DeleteResource(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteResource(ctx, id)
}

func (s *Service) ListResources(ctx context.Context) ([]*model.Resource, error) {
	return s.repo.ListResources(ctx)
}

func (s *Service) CreateAllocation(ctx context.Context, a *model.ResourceAllocation) error {
	if err := s.validateAllocation(a); err != nil {
		return err
	}
	return s.repo.CreateAllocation(ctx, a)
}

func (s *Service) GetAllocation(ctx context.Context, id uuid.UUID) (*model.ResourceAllocation, error) {
	return s.repo.GetAllocation(ctx, id)
}

func (s *Service) UpdateAllocation(ctx context.Context, a *model.ResourceAllocation) error {
	if err := s.validateAllocation(a); err != nil {
		return err
	}
	return s.repo.UpdateAllocation(ctx, a)
}

func (s *Service) DeleteAllocation(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteAllocation(ctx, id)
}

func (s *Service) ListAllocations(ctx context.Context, filters *model.AllocationFilters) ([]*model.ResourceAllocation, error) {
	return s.repo.ListAllocations(ctx, filters)
}

func (s *Service) validateAllocation(a *model.ResourceAllocation) error {
	if a.ResourceID == uuid.Nil {
		return fmt.Errorf("resource ID is required")
	}
	if a.OrganizationID == nil && a.DepartmentID == nil {
		return fmt.Errorf("an organization or department is required")
	}
	if a.Quantity <= 0 {
		return fmt.Errorf("quantity must be positive")
	}
	if a.TotalCost < 0 {
		return fmt.Errorf("total cost must not be negative")
	}
	return nil
}
