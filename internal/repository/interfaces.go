package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/healthecon360/analytics-api/internal/model"
)

// All repository interfaces in one file
type (
	// UserRepository handles user accounts and roles
	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		GetByUsername(ctx context.Context, username string) (*model.User, error)
		Update(ctx context.Context, user *model.User) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context) ([]*model.User, error)

		GetRoleByName(ctx context.Context, name string) (*model.Role, error)
		CreateRole(ctx context.Context, role *model.Role) error
		ListRoles(ctx context.Context) ([]*model.Role, error)
	}

	// TokenRepository stores verification and password reset tokens
	TokenRepository interface {
		StoreVerificationToken(ctx context.Context, userID uuid.UUID, token string, expiry time.Time) error
		ValidateVerificationToken(ctx context.Context, token string) (uuid.UUID, error)
		StoreResetToken(ctx context.Context, userID uuid.UUID, token string, expiry time.Time) error
		ValidateResetToken(ctx context.Context, token string) (uuid.UUID, error)
		InvalidateToken(ctx context.Context, token string) error
	}

	// DashboardRepository handles user-saved dashboard layouts
	DashboardRepository interface {
		Create(ctx context.Context, d *model.Dashboard) error
		Get(ctx context.Context, id uuid.UUID) (*model.Dashboard, error)
		Update(ctx context.Context, d *model.Dashboard) error
		Delete(ctx context.Context, id uuid.UUID) error
		ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.Dashboard, error)
	}

	// PricingRepository handles the drug catalog and price observations
	PricingRepository interface {
		CreateCategory(ctx context.Context, c *model.DrugCategory) error
		ListCategories(ctx context.Context) ([]*model.DrugCategory, error)
		DeleteCategory(ctx context.Context, id uuid.UUID) error

		CreateDrug(ctx context.Context, d *model.Drug) error
		GetDrug(ctx context.Context, id uuid.UUID) (*model.Drug, error)
		GetDrugByName(ctx context.Context, name string) (*model.Drug, error)
		UpdateDrug(ctx context.Context, d *model.Drug) error
		DeleteDrug(ctx context.Context, id uuid.UUID) error
		ListDrugs(ctx context.Context) ([]*model.Drug, error)
		CountDrugs(ctx context.Context) (int, error)

		CreateRegion(ctx context.Context, r *model.Region) error
		GetRegion(ctx context.Context, id uuid.UUID) (*model.Region, error)
		GetRegionByName(ctx context.Context, name string) (*model.Region, error)
		UpdateRegion(ctx context.Context, r *model.Region) error
		DeleteRegion(ctx context.Context, id uuid.UUID) error
		ListRegions(ctx context.Context) ([]*model.Region, error)

		CreatePrice(ctx context.Context, p *model.DrugPrice) error
		GetPrice(ctx context.Context, id uuid.UUID) (*model.DrugPrice, error)
		UpdatePrice(ctx context.Context, p *model.DrugPrice) error
		DeletePrice(ctx context.Context, id uuid.UUID) error
		ListPrices(ctx context.Context, filters *model.PriceFilters) ([]*model.DrugPrice, error)

		CreateAnalysis(ctx context.Context, a *model.PriceAnalysis) error
		GetAnalysis(ctx context.Context, id uuid.UUID) (*model.PriceAnalysis, error)
		ListAnalyses(ctx context.Context, limit int) ([]*model.PriceAnalysis, error)

		PriceStats(ctx context.Context, minPriceCount int) ([]*model.PriceDisparity, error)
		RegionAverages(ctx context.Context) ([]model.RegionAverage, error)
	}

	// ResourceRepository handles organizations, departments, and allocations
	ResourceRepository interface {
		CreateOrganization(ctx context.Context, o *model.Organization) error
		GetOrganization(ctx context.Context, id uuid.UUID) (*model.Organization, error)
		GetOrganizationByName(ctx context.Context, name string) (*model.Organization, error)
		UpdateOrganization(ctx context.Context, o *model.Organization) error
		DeleteOrganization(ctx context.Context, id uuid.UUID) error
		ListOrganizations(ctx context.Context) ([]*model.Organization, error)
		CountOrganizations(ctx context.Context) (int, error)

		CreateDepartment(ctx context.Context, d *model.Department) error
		GetDepartment(ctx context.Context, id uuid.UUID) (*model.Department, error)
		GetDepartmentByName(ctx context.Context, orgID uuid.UUID, name string) (*model.Department, error)
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
		TotalAllocation(ctx context.Context) (float64, error)
	}

	// OutcomeRepository handles outcome metrics, treatments, and measurements
	OutcomeRepository interface {
		CreateOutcomeCategory(ctx context.Context, c *model.OutcomeCategory) error
		ListOutcomeCategories(ctx context.Context) ([]*model.OutcomeCategory, error)
		DeleteOutcomeCategory(ctx context.Context, id uuid.UUID) error

		CreateOutcome(ctx context.Context, o *model.Outcome) error
		GetOutcome(ctx context.Context, id uuid.UUID) (*model.Outcome, error)
		GetOutcomeByName(ctx context.Context, name string) (*model.Outcome, error)
		UpdateOutcome(ctx context.Context, o *model.Outcome) error
		DeleteOutcome(ctx context.Context, id uuid.UUID) error
		ListOutcomes(ctx context.Context) ([]*model.Outcome, error)

		CreateTreatment(ctx context.Context, t *model.Treatment) error
		GetTreatment(ctx context.Context, id uuid.UUID) (*model.Treatment, error)
		GetTreatmentByName(ctx context.Context, name string) (*model.Treatment, error)
		UpdateTreatment(ctx context.Context, t *model.Treatment) error
		DeleteTreatment(ctx context.Context, id uuid.UUID) error
		ListTreatments(ctx context.Context) ([]*model.Treatment, error)

		CreateMeasurement(ctx context.Context, m *model.OutcomeMeasurement) error
		GetMeasurement(ctx context.Context, id uuid.UUID) (*model.OutcomeMeasurement, error)
		UpdateMeasurement(ctx context.Context, m *model.OutcomeMeasurement) error
		DeleteMeasurement(ctx context.Context, id uuid.UUID) error
		ListMeasurements(ctx context.Context, filters *model.MeasurementFilters) ([]*model.OutcomeMeasurement, error)
		ListCostEffectiveness(ctx context.Context, filters *model.MeasurementFilters) ([]*model.CostEffectivenessRow, error)
	}

	// RecommendationRepository handles recommendations, actions, and insights
	RecommendationRepository interface {
		GetTypeByName(ctx context.Context, name string) (*model.RecommendationType, error)
		CreateType(ctx context.Context, t *model.RecommendationType) error
		ListTypes(ctx context.Context) ([]*model.RecommendationType, error)

		Create(ctx context.Context, r *model.Recommendation) error
		Get(ctx context.Context, id uuid.UUID) (*model.Recommendation, error)
		Update(ctx context.Context, r *model.Recommendation) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, orgID *uuid.UUID) ([]*model.Recommendation, error)
		TopByImpact(ctx context.Context, limit int) ([]*model.Recommendation, error)
		Count(ctx context.Context) (int, error)
		Purge(ctx context.Context) error

		CreateAction(ctx context.Context, a *model.RecommendedAction) error
		ListActions(ctx context.Context, recommendationID uuid.UUID) ([]*model.RecommendedAction, error)

		CreateInsight(ctx context.Context, i *model.OptimizationInsight) error
		GetInsight(ctx context.Context, id uuid.UUID) (*model.OptimizationInsight, error)
		ListInsights(ctx context.Context, limit int) ([]*model.OptimizationInsight, error)
		DeleteInsight(ctx context.Context, id uuid.UUID) error
	}
)
