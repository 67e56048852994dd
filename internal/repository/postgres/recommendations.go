package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/healthecon360/analytics-api/internal/model"
	"github.com/healthecon360/analytics-api/internal/repository"
)

type recommendationRepository struct {
	BaseRepository
}

func NewRecommendationRepository(base BaseRepository) repository.RecommendationRepository {
	return &recommendationRepository{base}
}

func (r *recommendationRepository) GetTypeByName(ctx context.Context, name string) (*model.RecommendationType, error) {
	query := `
		SELECT id, name, description, impact_area, created_at, updated_at
		FROM recommendation_types
		WHERE name = $1
	`
	var recType model.RecommendationType
	if err := r.GetContext(ctx, &recType, query, name); err != nil {
		return nil, err
	}
	return &recType, nil
}

func (r *recommendationRepository) CreateType(ctx context.Context, t *model.RecommendationType) error {
	t.ID = uuid.New()
	t.CreatedAt = time.Now()
	t.UpdatedAt = time.Now()

	query := `
		INSERT INTO recommendation_types (id, name, description, impact_area, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.ExecContext(ctx, query,
		t.ID, t.Name, t.Description, t.ImpactArea, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create recommendation type: %w", err)
	}
	return nil
}

func (r *recommendationRepository) ListTypes(ctx context.Context) ([]*model.RecommendationType, error) {
	query := `
		SELECT id, name, description, impact_area, created_at, updated_at
		FROM recommendation_types
		ORDER BY name
	`
	var types []*model.RecommendationType
	if err := r.SelectContext(ctx, &types, query); err != nil {
		return nil, fmt.Errorf("failed to list recommendation types: %w", err)
	}
	return types, nil
}

func (r *recommendationRepository) Create(ctx context.Context, rec *model.Recommendation) error {
	rec.ID = uuid.New()
	rec.CreatedAt = time.Now()
	rec.UpdatedAt = time.Now()

	query := `
		INSERT INTO recommendations (
			id, title, description, type_id, organization_id, department_id,
			estimated_impact, impact_unit, confidence_level,
			implementation_difficulty, implementation_time, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.ExecContext(ctx, query,
		rec.ID,
		rec.Title,
		rec.Description,
		rec.TypeID,
		rec.OrganizationID,
		rec.DepartmentID,
		rec.EstimatedImpact,
		rec.ImpactUnit,
		rec.ConfidenceLevel,
		rec.ImplementationDifficulty,
		rec.ImplementationTime,
		rec.CreatedAt,
		rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create recommendation: %w", err)
	}
	return nil
}

const recommendationColumns = `
	r.id, r.title, r.description, r.type_id, r.organization_id, r.department_id,
	r.estimated_impact, r.impact_unit, r.confidence_level,
	r.implementation_difficulty, r.implementation_time, r.created_at, r.updated_at,
	t.name AS type_name, o.name AS organization_name, d.name AS department_name
`

func (r *recommendationRepository) Get(ctx context.Context, id uuid.UUID) (*model.Recommendation, error) {
	query := `
		SELECT ` + recommendationColumns + `
		FROM recommendations r
		LEFT JOIN recommendation_types t ON t.id = r.type_id
		LEFT JOIN organizations o ON o.id = r.organization_id
		LEFT JOIN departments d ON d.id = r.department_id
		WHERE r.id = $1
	`
	var rec model.Recommendation
	if err := r.GetContext(ctx, &rec, query, id); err != nil {
		return nil, fmt.Errorf("failed to get recommendation: %w", err)
	}
	return &rec, nil
}

func (r *recommendationRepository) Update(ctx context.Context, rec *model.Recommendation) error {
	rec.UpdatedAt = time.Now()

	query := `
		UPDATE recommendations
		SET title = $1, description = $2, type_id = $3, organization_id = $4,
			department_id = $5, estimated_impact = $6, impact_unit = $7,
			confidence_level = $8, implementation_difficulty = $9,
			implementation_time = $10, updated_at = $11
		WHERE id = $12
	`
	result, err := r.ExecContext(ctx, query,
		rec.Title, rec.Description, rec.TypeID, rec.OrganizationID,
		rec.DepartmentID, rec.EstimatedImpact, rec.ImpactUnit,
		rec.ConfidenceLevel, rec.ImplementationDifficulty,
		rec.ImplementationTime, rec.UpdatedAt, rec.ID)
	if err != nil {
		return fmt.Errorf("failed to update recommendation: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("recommendation not found")
	}
	return nil
}

func (r *recommendationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.ExecContext(ctx, `DELETE FROM recommendations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete recommendation: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("recommendation not found")
	}
	return nil
}

func (r *recommendationRepository) List(ctx context.Context, orgID *uuid.UUID) ([]*model.Recommendation, error) {
	query := `
		SELECT ` + recommendationColumns + `
		FROM recommendations r
		LEFT JOIN recommendation_types t ON t.id = r.type_id
		LEFT JOIN organizations o ON o.id = r.organization_id
		LEFT JOIN departments d ON d.id = r.department_id
		WHERE ($1::uuid IS NULL OR r.organization_id = $1)
		ORDER BY r.estimated_impact DESC
	`
	var recs []*model.Recommendation
	if err := r.SelectContext(ctx, &recs, query, orgID); err != nil {
		return nil, fmt.Errorf("failed to list recommendations: %w", err)
	}
	return recs, nil
}

func (r *recommendationRepository) TopByImpact(ctx context.Context, limit int) ([]*model.Recommendation, error) {
	query := `
		SELECT ` + recommendationColumns + `
		FROM recommendations r
		LEFT JOIN recommendation_types t ON t.id = r.type_id
		LEFT JOIN organizations o ON o.id = r.organization_id
		LEFT JOIN departments d ON d.id = r.department_id
		ORDER BY r.estimated_impact DESC
		LIMIT $1
	`
	var recs []*model.Recommendation
	if err := r.SelectContext(ctx, &recs, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list top recommendations: %w", err)
	}
	return recs, nil
}

func (r *recommendationRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.GetContext(ctx, &count, `SELECT COUNT(*) FROM recommendations`); err != nil {
		return 0, fmt.Errorf("failed to count recommendations: %w", err)
	}
	return count, nil
}

// Purge removes all recommendations ahead of a fresh analysis run.
// Actions cascade.
func (r *recommendationRepository) Purge(ctx context.Context) error {
	if _, err := r.ExecContext(ctx, `DELETE FROM recommendations`); err != nil {
		return fmt.Errorf("failed to purge recommendations: %w", err)
	}
	return nil
}

func (r *recommendationRepository) CreateAction(ctx context.Context, a *model.RecommendedAction) error {
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	a.UpdatedAt = time.Now()

	query := `
		INSERT INTO recommended_actions (
			id, recommendation_id, action, position, responsible_role, timeframe,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.ExecContext(ctx, query,
		a.ID, a.RecommendationID, a.Action, a.Position, a.ResponsibleRole,
		a.Timeframe, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create recommended action: %w", err)
	}
	return nil
}

func (r *recommendationRepository) ListActions(ctx context.Context, recommendationID uuid.UUID) ([]*model.RecommendedAction, error) {
	query := `
		SELECT id, recommendation_id, action, position, responsible_role, timeframe,
			created_at, updated_at
		FROM recommended_actions
		WHERE recommendation_id = $1
		ORDER BY position
	`
	var actions []*model.RecommendedAction
	if err := r.SelectContext(ctx, &actions, query, recommendationID); err != nil {
		return nil, fmt.Errorf("failed to list recommended actions: %w", err)
	}
	return actions, nil
}

func (r *recommendationRepository) CreateInsight(ctx context.Context, i *model.OptimizationInsight) error {
	i.ID = uuid.New()
	i.CreatedAt = time.Now()
	i.UpdatedAt = time.Now()

	query := `
		INSERT INTO optimization_insights (
			id, title, description, insight_type, data, organization_id,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.ExecContext(ctx, query,
		i.ID, i.Title, i.Description, i.InsightType, i.Data, i.OrganizationID,
		i.CreatedAt, i.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create optimization insight: %w", err)
	}
	return nil
}

func (r *recommendationRepository) GetInsight(ctx context.Context, id uuid.UUID) (*model.OptimizationInsight, error) {
	query := `
		SELECT id, title, description, insight_type, data, organization_id,
			created_at, updated_at
		FROM optimization_insights
		WHERE id = $1
	`
	var insight model.OptimizationInsight
	if err := r.GetContext(ctx, &insight, query, id); err != nil {
		return nil, fmt.Errorf("failed to get optimization insight: %w", err)
	}
	return &insight, nil
}

func (r *recommendationRepository) ListInsights(ctx context.Context, limit int) ([]*model.OptimizationInsight, error) {
	query := `
		SELECT id, title, description, insight_type, data, organization_id,
			created_at, updated_at
		FROM optimization_insights
		ORDER BY created_at DESC
		LIMIT $1
	`
	var insights []*model.OptimizationInsight
	if err := r.SelectContext(ctx, &insights, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list optimization insights: %w", err)
	}
	return insights, nil
}

func (r *recommendationRepository) DeleteInsight(ctx context.Context, id uuid.UUID) error {
	result, err := r.ExecContext(ctx, `DELETE FROM optimization_insights WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete optimization insight: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("optimization insight not found")
	}
	return nil
}
