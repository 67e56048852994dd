package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/healthecon360/analytics-api/internal/model"
	"github.com/healthecon360/analytics-api/internal/repository"
)

type resourceRepository struct {
	BaseRepository
}

func NewResourceRepository(base BaseRepository) repository.ResourceRepository {
	return &resourceRepository{base}
}

func (r *resourceRepository) CreateOrganization(ctx context.Context, o *model.Organization) error {
	o.ID = uuid.New()
	o.CreatedAt = time.Now()
	o.UpdatedAt = time.Now()

	query := `
		INSERT INTO organizations (
			id, name, type, description, address, city, state, country, postal_code,
			region_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.ExecContext(ctx, query,
		o.ID,
		o.Name,
		o.Type,
		o.Description,
		o.Address,
		o.City,
		o.State,
		o.Country,
		o.PostalCode,
		o.RegionID,
		o.CreatedAt,
		o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create organization: %w", err)
	}
	return nil
}

func (r *resourceRepository) GetOrganization(ctx context.Context, id uuid.UUID) (*model.Organization, error) {
	query := `
		SELECT id, name, type, description, address, city, state, country, postal_code,
			region_id, created_at, updated_at
		FROM organizations
		WHERE id = $1
	`
	var org model.Organization
	if err := r.GetContext(ctx, &org, query, id); err != nil {
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}
	return &org, nil
}

func (r *resourceRepository) GetOrganizationByName(ctx context.Context, name string) (*model.Organization, error) {
	query := `
		SELECT id, name, type, description, address, city, state, country, postal_code,
			region_id, created_at, updated_at
		FROM organizations
		WHERE name = $1
	`
	var org model.Organization
	if err := r.GetContext(ctx, &org, query, name); err != nil {
		return nil, fmt.Errorf("failed to get organization by name: %w", err)
	}
	return &org, nil
}

func (r *resourceRepository) UpdateOrganization(ctx context.Context, o *model.Organization) error {
	o.UpdatedAt = time.Now()

	query := `
		UPDATE organizations
		SET name = $1, type = $2, description = $3, address = $4, city = $5, state = $6,
			country = $7, postal_code = $8, region_id = $9, updated_at = $10
		WHERE id = $11
	`
	result, err := r.ExecContext(ctx, query,
		o.Name, o.Type, o.Description, o.Address, o.City, o.State,
		o.Country, o.PostalCode, o.RegionID, o.UpdatedAt, o.ID)
	if err != nil {
		return fmt.Errorf("failed to update organization: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("organization not found")
	}
	return nil
}

func (r *resourceRepository) DeleteOrganization(ctx context.Context, id uuid.UUID) error {
	result, err := r.ExecContext(ctx, `DELETE FROM organizations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete organization: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("organization not found")
	}
	return nil
}

func (r *resourceRepository) ListOrganizations(ctx context.Context) ([]*model.Organization, error) {
	query := `
		SELECT id, name, type, description, address, city, state, country, postal_code,
			region_id, created_at, updated_at
		FROM organizations
		ORDER BY name
	`
	var orgs []*model.Organization
	if err := r.SelectContext(ctx, &orgs, query); err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	return orgs, nil
}

func (r *resourceRepository) CountOrganizations(ctx context.Context) (int, error) {
	var count int
	if err := r.GetContext(ctx, &count, `SELECT COUNT(*) FROM organizations`); err != nil {
		return 0, fmt.Errorf("failed to count organizations: %w", err)
	}
	return count, nil
}

func (r *resourceRepository) CreateDepartment(ctx context.Context, d *model.Department) error {
	d.ID = uuid.New()
	d.CreatedAt = time.Now()
	d.UpdatedAt = time.Now()

	query := `
		INSERT INTO departments (
			id, name, description, organization_id, budget, staff_count, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.ExecContext(ctx, query,
		d.ID, d.Name, d.Description, d.OrganizationID, d.Budget, d.StaffCount,
		d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create department: %w", err)
	}
	return nil
}

func (r *resourceRepository) GetDepartment(ctx context.Context, id uuid.UUID) (*model.Department, error) {
	query := `
		SELECT id, name, description, organization_id, budget, staff_count, created_at, updated_at
		FROM departments
		WHERE id = $1
	`
	var dept model.Department
	if err := r.GetContext(ctx, &dept, query, id); err != nil {
		return nil, fmt.Errorf("failed to get department: %w", err)
	}
	return &dept, nil
}

func (r *resourceRepository) GetDepartmentByName(ctx context.Context, orgID uuid.UUID, name string) (*model.Department, error) {
	query := `
		SELECT id, name, description, organization_id, budget, staff_count, created_at, updated_at
		FROM departments
		WHERE organization_id = $1 AND name = $2
	`
	var dept model.Department
	if err := r.GetContext(ctx, &dept, query, orgID, name); err != nil {
		return nil, fmt.Errorf("failed to get department by name: %w", err)
	}
	return &dept, nil
}

func (r *resourceRepository) UpdateDepartment(ctx context.Context, d *model.Department) error {
	d.UpdatedAt = time.Now()

	query := `
		UPDATE departments
		SET name = $1, description = $2, budget = $3, staff_count = $4, updated_at = $5
		WHERE id = $6
	`
	result, err := r.ExecContext(ctx, query,
		d.Name, d.Description, d.Budget, d.StaffCount, d.UpdatedAt, d.ID)
	if err != nil {
		return fmt.Errorf("failed to update department: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("department not found")
	}
	return nil
}

func (r *resourceRepository) DeleteDepartment(ctx context.Context, id uuid.UUID) error {
	result, err := r.ExecContext(ctx, `DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete department: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("department not found")
	}
	return nil
}

func (r *resourceRepository) ListDepartments(ctx context.Context, orgID uuid.UUID) ([]*model.Department, error) {
	query := `
		SELECT id, name, description, organization_id, budget, staff_count, created_at, updated_at
		FROM departments
		WHERE ($1::uuid IS NULL OR organization_id = $1)
		ORDER BY name
	`
	var depts []*model.Department
	var arg interface{}
	if orgID != uuid.Nil {
		arg = orgID
	}
	if err := r.SelectContext(ctx, &depts, query, arg); err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	return depts, nil
}

func (r *resourceRepository) CreateResourceCategory(ctx context.Context, c *model.ResourceCategory) error {
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	c.UpdatedAt = time.Now()

	query := `
		INSERT INTO resource_categories (id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.ExecContext(ctx, query, c.ID, c.Name, c.Description, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create resource category: %w", err)
	}
	return nil
}

func (r *resourceRepository) ListResourceCategories(ctx context.Context) ([]*model.ResourceCategory, error) {
	query := `
		SELECT id, name, description, created_at, updated_at
		FROM resource_categories
		ORDER BY name
	`
	var categories []*model.ResourceCategory
	if err := r.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("failed to list resource categories: %w", err)
	}
	return categories, nil
}

func (r *resourceRepository) DeleteResourceCategory(ctx context.Context, id uuid.UUID) error {
	result, err := r.ExecContext(ctx, `DELETE FROM resource_categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete resource category: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("resource category not found")
	}
	return nil
}

func (r *resourceRepository) CreateResource(ctx context.Context, res *model.Resource) error {
	res.ID = uuid.New()
	res.CreatedAt = time.Now()
	res.UpdatedAt = time.Now()

	query := `
		INSERT INTO resources (id, name, description, category_id, unit_cost, unit_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.ExecContext(ctx, query,
		res.ID, res.Name, res.Description, res.CategoryID, res.UnitCost, res.UnitType,
		res.CreatedAt, res.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}
	return nil
}

func (r *resourceRepository) GetResource(ctx context.Context, id uuid.UUID) (*model.Resource, error) {
	query := `
		SELECT
			res.id, res.name, res.description, res.category_id, res.unit_cost, res.unit_type,
			res.created_at, res.updated_at, c.name AS category_name
		FROM resources res
		LEFT JOIN resource_categories c ON c.id = res.category_id
		WHERE res.id = $1
	`
	var resource model.Resource
	if err := r.GetContext(ctx, &resource, query, id); err != nil {
		return nil, fmt.Errorf("failed to get resource: %w", err)
	}
	return &resource, nil
}

func (r *resourceRepository) UpdateResource(ctx context.Context, res *model.Resource) error {
	res.UpdatedAt = time.Now()

	query := `
		UPDATE resources
		SET name = $1, description = $2, category_id = $3, unit_cost = $4, unit_type = $5, updated_at = $6
		WHERE id = $7
	`
	result, err := r.ExecContext(ctx, query,
		res.Name, res.Description, res.CategoryID, res.UnitCost, res.UnitType, res.UpdatedAt, res.ID)
	if err != nil {
		return fmt.Errorf("failed to update resource: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("resource not found")
	}
	return nil
}

func (r *resourceRepository) DeleteResource(ctx context.Context, id uuid.UUID) error {
	result, err := r.ExecContext(ctx, `DELETE FROM resources WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete resource: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("resource not found")
	}
	return nil
}

func (r *resourceRepository) ListResources(ctx context.Context) ([]*model.Resource, error) {
	query := `
		SELECT
			res.id, res.name, res.description, res.category_id, res.unit_cost, res.unit_type,
			res.created_at, res.updated_at, c.name AS category_name
		FROM resources res
		LEFT JOIN resource_categories c ON c.id = res.category_id
		ORDER BY res.name
	`
	var resources []*model.Resource
	if err := r.SelectContext(ctx, &resources, query); err != nil {
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}
	return resources, nil
}

func (r *resourceRepository) CreateAllocation(ctx context.Context, a *model.ResourceAllocation) error {
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	a.UpdatedAt = time.Now()

	query := `
		INSERT INTO resource_allocations (
			id, organization_id, department_id, resource_id, quantity, total_cost,
			allocation_date, fiscal_year, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.ExecContext(ctx, query,
		a.ID,
		a.OrganizationID,
		a.DepartmentID,
		a.ResourceID,
		a.Quantity,
		a.TotalCost,
		a.AllocationDate,
		a.FiscalYear,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create resource allocation: %w", err)
	}
	return nil
}

func (r *resourceRepository) GetAllocation(ctx context.Context, id uuid.UUID) (*model.ResourceAllocation, error) {
	query := `
		SELECT
			a.id, a.organization_id, a.department_id, a.resource_id, a.quantity, a.total_cost,
			a.allocation_date, a.fiscal_year, a.created_at, a.updated_at,
			o.name AS organization_name, d.name AS department_name, res.name AS resource_name
		FROM resource_allocations a
		LEFT JOIN organizations o ON o.id = a.organization_id
		LEFT JOIN departments d ON d.id = a.department_id
		JOIN resources res ON res.id = a.resource_id
		WHERE a.id = $1
	`
	var alloc model.ResourceAllocation
	if err := r.GetContext(ctx, &alloc, query, id); err != nil {
		return nil, fmt.Errorf("failed to get resource allocation: %w", err)
	}
	return &alloc, nil
}

func (r *resourceRepository) UpdateAllocation(ctx context.Context, a *model.ResourceAllocation) error {
	a.UpdatedAt = time.Now()

	query := `
		UPDATE resource_allocations
		SET organization_id = $1, department_id = $2, resource_id = $3, quantity = $4,
			total_cost = $5, allocation_date = $6, fiscal_year = $7, updated_at = $8
		WHERE id = $9
	`
	result, err := r.ExecContext(ctx, query,
		a.OrganizationID, a.DepartmentID, a.ResourceID, a.Quantity,
		a.TotalCost, a.AllocationDate, a.FiscalYear, a.UpdatedAt, a.ID)
	if err != nil {
		return fmt.Errorf("failed to update resource allocation: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("resource allocation not found")
	}
	return nil
}

func (r *resourceRepository) DeleteAllocation(ctx context.Context, id uuid.UUID) error {
	result, err := r.ExecContext(ctx, `DELETE FROM resource_allocations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete resource allocation: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("resource allocation not found")
	}
	return nil
}

func (r *resourceRepository) ListAllocations(ctx context.Context, filters *model.AllocationFilters) ([]*model.ResourceAllocation, error) {
	if filters == nil {
		filters = &model.AllocationFilters{}
	}
	query := `
		SELECT
			a.id, a.organization_id, a.department_id, a.resource_id, a.quantity, a.total_cost,
			a.allocation_date, a.fiscal_year, a.created_at, a.updated_at,
			o.name AS organization_name, d.name AS department_name, res.name AS resource_name
		FROM resource_allocations a
		LEFT JOIN organizations o ON o.id = a.organization_id
		LEFT JOIN departments d ON d.id = a.department_id
		JOIN resources res ON res.id = a.resource_id
		WHERE ($1::uuid IS NULL OR a.organization_id = $1)
		AND ($2 = '' OR a.fiscal_year = $2)
		ORDER BY a.allocation_date DESC
	`
	var allocations []*model.ResourceAllocation
	err := r.SelectContext(ctx, &allocations, query, filters.OrganizationID, filters.FiscalYear)
	if err != nil {
		return nil, fmt.Errorf("failed to list resource allocations: %w", err)
	}
	return allocations, nil
}

func (r *resourceRepository) TotalAllocation(ctx context.Context) (float64, error) {
	var total float64
	query := `SELECT COALESCE(SUM(total_cost), 0) FROM resource_allocations`
	if err := r.GetContext(ctx, &total, query); err != nil {
		return 0, fmt.Errorf("failed to total resource allocations: %w", err)
	}
	return total, nil
}
