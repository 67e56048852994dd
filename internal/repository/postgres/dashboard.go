package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/healthecon360/analytics-api/internal/model"
	"github.com/healthecon360/analytics-api/internal/repository"
)

type dashboardRepository struct {
	BaseRepository
}

func NewDashboardRepository(base BaseRepository) repository.DashboardRepository {
	return &dashboardRepository{base}
}

func (r *dashboardRepository) Create(ctx context.Context, d *model.Dashboard) error {
	d.ID = uuid.New()
	d.CreatedAt = time.Now()
	d.UpdatedAt = time.Now()

	query := `
		INSERT INTO dashboards (id, title, description, layout, is_public, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.ExecContext(ctx, query,
		d.ID, d.Title, d.Description, d.Layout, d.IsPublic, d.UserID,
		d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create dashboard: %w", err)
	}
	return nil
}

func (r *dashboardRepository) Get(ctx context.Context, id uuid.UUID) (*model.Dashboard, error) {
	query := `
		SELECT id, title, description, layout, is_public, user_id, created_at, updated_at
		FROM dashboards
		WHERE id = $1
	`
	var dashboard model.Dashboard
	if err := r.GetContext(ctx, &dashboard, query, id); err != nil {
		return nil, fmt.Errorf("failed to get dashboard: %w", err)
	}
	return &dashboard, nil
}

func (r *dashboardRepository) Update(ctx context.Context, d *model.Dashboard) error {
	d.UpdatedAt = time.Now()

	query := `
		UPDATE dashboards
		SET title = $1, description = $2, layout = $3, is_public = $4, updated_at = $5
		WHERE id = $6
	`
	result, err := r.ExecContext(ctx, query,
		d.Title, d.Description, d.Layout, d.IsPublic, d.UpdatedAt, d.ID)
	if err != nil {
		return fmt.Errorf("failed to update dashboard: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("dashboard not found")
	}
	return nil
}

func (r *dashboardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.ExecContext(ctx, `DELETE FROM dashboards WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete dashboard: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("dashboard not found")
	}
	return nil
}

func (r *dashboardRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.Dashboard, error) {
	query := `
		SELECT id, title, description, layout, is_public, user_id, created_at, updated_at
		FROM dashboards
		WHERE user_id = $1 OR is_public = TRUE
		ORDER BY updated_at DESC
	`
	var dashboards []*model.Dashboard
	if err := r.SelectContext(ctx, &dashboards, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list dashboards: %w", err)
	}
	return dashboards, nil
}
