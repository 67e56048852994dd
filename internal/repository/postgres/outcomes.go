package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/healthecon360/analytics-api/internal/model"
	"github.com/healthecon360/analytics-api/internal/repository"
)

type outcomeRepository struct {
	BaseRepository
}

func NewOutcomeRepository(base BaseRepository) repository.OutcomeRepository {
	return &outcomeRepository{base}
}

func (r *outcomeRepository) CreateOutcomeCategory(ctx context.Context, c *model.OutcomeCategory) error {
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	c.UpdatedAt = time.Now()

	query := `
		INSERT INTO outcome_categories (id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.ExecContext(ctx, query, c.ID, c.Name, c.Description, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create outcome category: %w", err)
	}
	return nil
}

func (r *outcomeRepository) ListOutcomeCategories(ctx context.Context) ([]*model.OutcomeCategory, error) {
	query := `
		SELECT id, name, description, created_at, updated_at
		FROM outcome_categories
		ORDER BY name
	`
	var categories []*model.OutcomeCategory
	if err := r.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("failed to list outcome categories: %w", err)
	}
	return categories, nil
}

func (r *outcomeRepository) DeleteOutcomeCategory(ctx context.Context, id uuid.UUID) error {
	result, err := r.ExecContext(ctx, `DELETE FROM outcome_categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete outcome category: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("outcome category not found")
	}
	return nil
}

func (r *outcomeRepository) CreateOutcome(ctx context.Context, o *model.Outcome) error {
	o.ID = uuid.New()
	o.CreatedAt = time.Now()
	o.UpdatedAt = time.Now()

	query := `
		INSERT INTO outcomes (
			id, name, description, category_id, measurement_unit, higher_is_better,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.ExecContext(ctx, query,
		o.ID, o.Name, o.Description, o.CategoryID, o.MeasurementUnit, o.HigherIsBetter,
		o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create outcome: %w", err)
	}
	return nil
}

func (r *outcomeRepository) GetOutcome(ctx context.Context, id uuid.UUID) (*model.Outcome, error) {
	query := `
		SELECT id, name, description, category_id, measurement_unit, higher_is_better,
			created_at, updated_at
		FROM outcomes
		WHERE id = $1
	`
	var outcome model.Outcome
	if err := r.GetContext(ctx, &outcome, query, id); err != nil {
		return nil, fmt.Errorf("failed to get outcome: %w", err)
	}
	return &outcome, nil
}

func (r *outcomeRepository) GetOutcomeByName(ctx context.Context, name string) (*model.Outcome, error) {
	query := `
		SELECT id, name, description, category_id, measurement_unit, higher_is_better,
			created_at, updated_at
		FROM outcomes
		WHERE name = $1
	`
	var outcome model.Outcome
	err := r.GetContext(ctx, &outcome, query, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get outcome by name: %w", err)
	}
	return &outcome, nil
}

func (r *outcomeRepository) UpdateOutcome(ctx context.Context, o *model.Outcome) error {
	o.UpdatedAt = time.Now()

	query := `
		UPDATE outcomes
		SET name = $1, description = $2, category_id = $3, measurement_unit = $4,
			higher_is_better = $5, updated_at = $6
		WHERE id = $7
	`
	result, err := r.ExecContext(ctx, query,
		o.Name, o.Description, o.CategoryID, o.MeasurementUnit, o.HigherIsBetter,
		o.UpdatedAt, o.ID)
	if err != nil {
		return fmt.Errorf("failed to update outcome: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("outcome not found")
	}
	return nil
}

func (r *outcomeRepository) DeleteOutcome(ctx context.Context, id uuid.UUID) error {
	result, err := r.ExecContext(ctx, `DELETE FROM outcomes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete outcome: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("outcome not found")
	}
	return nil
}

func (r *outcomeRepository) ListOutcomes(ctx context.Context) ([]*model.Outcome, error) {
	query := `
		SELECT id, name, description, category_id, measurement_unit, higher_is_better,
			created_at, updated_at
		FROM outcomes
		ORDER BY name
	`
	var outcomes []*model.Outcome
	if err := r.SelectContext(ctx, &outcomes, query); err != nil {
		return nil, fmt.Errorf("failed to list outcomes: %w", err)
	}
	return outcomes, nil
}

func (r *outcomeRepository) CreateTreatment(ctx context.Context, t *model.Treatment) error {
	t.ID = uuid.New()
	t.CreatedAt = time.Now()
	t.UpdatedAt = time.Now()

	query := `
		INSERT INTO treatments (id, name, description, drug_id, average_cost, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.ExecContext(ctx, query,
		t.ID, t.Name, t.Description, t.DrugID, t.AverageCost, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create treatment: %w", err)
	}
	return nil
}

func (r *outcomeRepository) GetTreatment(ctx context.Context, id uuid.UUID) (*model.Treatment, error) {
	query := `
		SELECT id, name, description, drug_id, average_cost, created_at, updated_at
		FROM treatments
		WHERE id = $1
	`
	var treatment model.Treatment
	if err := r.GetContext(ctx, &treatment, query, id); err != nil {
		return nil, fmt.Errorf("failed to get treatment: %w", err)
	}
	return &treatment, nil
}

func (r *outcomeRepository) GetTreatmentByName(ctx context.Context, name string) (*model.Treatment, error) {
	query := `
		SELECT id, name, description, drug_id, average_cost, created_at, updated_at
		FROM treatments
		WHERE name = $1
	`
	var treatment model.Treatment
	err := r.GetContext(ctx, &treatment, query, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get treatment by name: %w", err)
	}
	return &treatment, nil
}

func (r *outcomeRepository) UpdateTreatment(ctx context.Context, t *model.Treatment) error {
	t.UpdatedAt = time.Now()

	query := `
		UPDATE treatments
		SET name = $1, description = $2, drug_id = $3, average_cost = $4, updated_at = $5
		WHERE id = $6
	`
	result, err := r.ExecContext(ctx, query,
		t.Name, t.Description, t.DrugID, t.AverageCost, t.UpdatedAt, t.ID)
	if err != nil {
		return fmt.Errorf("failed to update treatment: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("treatment not found")
	}
	return nil
}

func (r *outcomeRepository) DeleteTreatment(ctx context.Context, id uuid.UUID) error {
	result, err := r.ExecContext(ctx, `DELETE FROM treatments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete treatment: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("treatment not found")
	}
	return nil
}

func (r *outcomeRepository) ListTreatments(ctx context.Context) ([]*model.Treatment, error) {
	query := `
		SELECT id, name, description, drug_id, average_cost, created_at, updated_at
		FROM treatments
		ORDER BY name
	`
	var treatments []*model.Treatment
	if err := r.SelectContext(ctx, &treatments, query); err != nil {
		return nil, fmt.Errorf("failed to list treatments: %w", err)
	}
	return treatments, nil
}

func (r *outcomeRepository) CreateMeasurement(ctx context.Context, m *model.OutcomeMeasurement) error {
	m.ID = uuid.New()
	m.CreatedAt = time.Now()
	m.UpdatedAt = time.Now()

	query := `
		INSERT INTO outcome_measurements (
			id, outcome_id, treatment_id, organization_id, value, confidence_interval,
			sample_size, measurement_date, source, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.ExecContext(ctx, query,
		m.ID,
		m.OutcomeID,
		m.TreatmentID,
		m.OrganizationID,
		m.Value,
		m.ConfidenceInterval,
		m.SampleSize,
		m.MeasurementDate,
		m.Source,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create outcome measurement: %w", err)
	}
	return nil
}

func (r *outcomeRepository) GetMeasurement(ctx context.Context, id uuid.UUID) (*model.OutcomeMeasurement, error) {
	query := `
		SELECT
			m.id, m.outcome_id, m.treatment_id, m.organization_id, m.value,
			m.confidence_interval, m.sample_size, m.measurement_date, m.source,
			m.created_at, m.updated_at,
			o.name AS outcome_name, t.name AS treatment_name, org.name AS organization_name
		FROM outcome_measurements m
		JOIN outcomes o ON o.id = m.outcome_id
		LEFT JOIN treatments t ON t.id = m.treatment_id
		LEFT JOIN organizations org ON org.id = m.organization_id
		WHERE m.id = $1
	`
	var measurement model.OutcomeMeasurement
	if err := r.GetContext(ctx, &measurement, query, id); err != nil {
		return nil, fmt.Errorf("failed to get outcome measurement: %w", err)
	}
	return &measurement, nil
}

func (r *outcomeRepository) UpdateMeasurement(ctx context.Context, m *model.OutcomeMeasurement) error {
	m.UpdatedAt = time.Now()

	query := `
		UPDATE outcome_measurements
		SET outcome_id = $1, treatment_id = $2, organization_id = $3, value = $4,
			confidence_interval = $5, sample_size = $6, measurement_date = $7,
			source = $8, updated_at = $9
		WHERE id = $10
	`
	result, err := r.ExecContext(ctx, query,
		m.OutcomeID, m.TreatmentID, m.OrganizationID, m.Value,
		m.ConfidenceInterval, m.SampleSize, m.MeasurementDate, m.Source,
		m.UpdatedAt, m.ID)
	if err != nil {
		return fmt.Errorf("failed to update outcome measurement: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("outcome measurement not found")
	}
	return nil
}

func (r *outcomeRepository) DeleteMeasurement(ctx context.Context, id uuid.UUID) error {
	result, err := r.ExecContext(ctx, `DELETE FROM outcome_measurements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete outcome measurement: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("outcome measurement not found")
	}
	return nil
}

func (r *outcomeRepository) ListMeasurements(ctx context.Context, filters *model.MeasurementFilters) ([]*model.OutcomeMeasurement, error) {
	if filters == nil {
		filters = &model.MeasurementFilters{}
	}
	query := `
		SELECT
			m.id, m.outcome_id, m.treatment_id, m.organization_id, m.value,
			m.confidence_interval, m.sample_size, m.measurement_date, m.source,
			m.created_at, m.updated_at,
			o.name AS outcome_name, t.name AS treatment_name, org.name AS organization_name
		FROM outcome_measurements m
		JOIN outcomes o ON o.id = m.outcome_id
		LEFT JOIN treatments t ON t.id = m.treatment_id
		LEFT JOIN organizations org ON org.id = m.organization_id
		WHERE ($1::uuid IS NULL OR m.outcome_id = $1)
		AND ($2::uuid IS NULL OR m.treatment_id = $2)
		AND ($3::uuid IS NULL OR m.organization_id = $3)
		ORDER BY m.measurement_date DESC NULLS LAST
	`
	var measurements []*model.OutcomeMeasurement
	err := r.SelectContext(ctx, &measurements, query,
		filters.OutcomeID, filters.TreatmentID, filters.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list outcome measurements: %w", err)
	}
	return measurements, nil
}

// ListCostEffectiveness returns measurement rows joined with treatment cost
// and outcome orientation. Measurements without a treatment or with a zero
// cost carry no ratio signal and are excluded.
func (r *outcomeRepository) ListCostEffectiveness(ctx context.Context, filters *model.MeasurementFilters) ([]*model.CostEffectivenessRow, error) {
	if filters == nil {
		filters = &model.MeasurementFilters{}
	}
	query := `
		SELECT
			t.name AS treatment_name,
			t.average_cost,
			o.name AS outcome_name,
			o.higher_is_better,
			m.value,
			org.name AS organization_name
		FROM outcome_measurements m
		JOIN outcomes o ON o.id = m.outcome_id
		JOIN treatments t ON t.id = m.treatment_id
		LEFT JOIN organizations org ON org.id = m.organization_id
		WHERE t.average_cost > 0
		AND m.value <> 0
		AND ($1::uuid IS NULL OR m.outcome_id = $1)
		AND ($2::uuid IS NULL OR m.treatment_id = $2)
		AND ($3::uuid IS NULL OR m.organization_id = $3)
	`
	var rows []*model.CostEffectivenessRow
	err := r.SelectContext(ctx, &rows, query,
		filters.OutcomeID, filters.TreatmentID, filters.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cost effectiveness rows: %w", err)
	}
	return rows, nil
}
