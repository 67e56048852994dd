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

type pricingRepository struct {
	BaseRepository
}

func NewPricingRepository(base BaseRepository) repository.PricingRepository {
	return &pricingRepository{base}
}

func (r *pricingRepository) CreateCategory(ctx context.Context, c *model.DrugCategory) error {
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	c.UpdatedAt = time.Now()

	query := `
		INSERT INTO drug_categories (id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.ExecContext(ctx, query, c.ID, c.Name, c.Description, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create drug category: %w", err)
	}
	return nil
}

func (r *pricingRepository) ListCategories(ctx context.Context) ([]*model.DrugCategory, error) {
	query := `
		SELECT id, name, description, created_at, updated_at
		FROM drug_categories
		ORDER BY name
	`
	var categories []*model.DrugCategory
	if err := r.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("failed to list drug categories: %w", err)
	}
	return categories, nil
}

func (r *pricingRepository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	result, err := r.ExecContext(ctx, `DELETE FROM drug_categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete drug category: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("drug category not found")
	}
	return nil
}

func (r *pricingRepository) CreateDrug(ctx context.Context, d *model.Drug) error {
	d.ID = uuid.New()
	d.CreatedAt = time.Now()
	d.UpdatedAt = time.Now()

	query := `
		INSERT INTO drugs (
			id, name, generic_name, description, manufacturer, category_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.ExecContext(ctx, query,
		d.ID,
		d.Name,
		d.GenericName,
		d.Description,
		d.Manufacturer,
		d.CategoryID,
		d.CreatedAt,
		d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create drug: %w", err)
	}
	return nil
}

func (r *pricingRepository) GetDrug(ctx context.Context, id uuid.UUID) (*model.Drug, error) {
	query := `
		SELECT
			d.id, d.name, d.generic_name, d.description, d.manufacturer, d.category_id,
			d.created_at, d.updated_at, c.name AS category_name
		FROM drugs d
		LEFT JOIN drug_categories c ON c.id = d.category_id
		WHERE d.id = $1
	`
	var drug model.Drug
	if err := r.GetContext(ctx, &drug, query, id); err != nil {
		return nil, fmt.Errorf("failed to get drug: %w", err)
	}
	return &drug, nil
}

func (r *pricingRepository) GetDrugByName(ctx context.Context, name string) (*model.Drug, error) {
	query := `
		SELECT id, name, generic_name, description, manufacturer, category_id, created_at, updated_at
		FROM drugs
		WHERE name = $1
	`
	var drug model.Drug
	err := r.GetContext(ctx, &drug, query, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get drug by name: %w", err)
	}
	return &drug, nil
}

func (r *pricingRepository) UpdateDrug(ctx context.Context, d *model.Drug) error {
	d.UpdatedAt = time.Now()

	query := `
		UPDATE drugs
		SET name = $1, generic_name = $2, description = $3, manufacturer = $4,
			category_id = $5, updated_at = $6
		WHERE id = $7
	`
	result, err := r.ExecContext(ctx, query,
		d.Name,
		d.GenericName,
		d.Description,
		d.Manufacturer,
		d.CategoryID,
		d.UpdatedAt,
		d.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update drug: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("drug not found")
	}
	return nil
}

func (r *pricingRepository) DeleteDrug(ctx context.Context, id uuid.UUID) error {
	result, err := r.ExecContext(ctx, `DELETE FROM drugs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete drug: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("drug not found")
	}
	return nil
}

func (r *pricingRepository) ListDrugs(ctx context.Context) ([]*model.Drug, error) {
	query := `
		SELECT
			d.id, d.name, d.generic_name, d.description, d.manufacturer, d.category_id,
			d.created_at, d.updated_at, c.name AS category_name
		FROM drugs d
		LEFT JOIN drug_categories c ON c.id = d.category_id
		ORDER BY d.name
	`
	var drugs []*model.Drug
	if err := r.SelectContext(ctx, &drugs, query); err != nil {
		return nil, fmt.Errorf("failed to list drugs: %w", err)
	}
	return drugs, nil
}

func (r *pricingRepository) CountDrugs(ctx context.Context) (int, error) {
	var count int
	if err := r.GetContext(ctx, &count, `SELECT COUNT(*) FROM drugs`); err != nil {
		return 0, fmt.Errorf("failed to count drugs: %w", err)
	}
	return count, nil
}

func (r *pricingRepository) CreateRegion(ctx context.Context, region *model.Region) error {
	region.ID = uuid.New()
	region.CreatedAt = time.Now()
	region.UpdatedAt = time.Now()

	query := `
		INSERT INTO regions (id, name, country, code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.ExecContext(ctx, query,
		region.ID, region.Name, region.Country, region.Code, region.CreatedAt, region.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create region: %w", err)
	}
	return nil
}

func (r *pricingRepository) GetRegion(ctx context.Context, id uuid.UUID) (*model.Region, error) {
	query := `SELECT id, name, country, code, created_at, updated_at FROM regions WHERE id = $1`
	var region model.Region
	if err := r.GetContext(ctx, &region, query, id); err != nil {
		return nil, fmt.Errorf("failed to get region: %w", err)
	}
	return &region, nil
}

func (r *pricingRepository) GetRegionByName(ctx context.Context, name string) (*model.Region, error) {
	query := `SELECT id, name, country, code, created_at, updated_at FROM regions WHERE name = $1`
	var region model.Region
	err := r.GetContext(ctx, &region, query, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get region by name: %w", err)
	}
	return &region, nil
}

func (r *pricingRepository) UpdateRegion(ctx context.Context, region *model.Region) error {
	region.UpdatedAt = time.Now()

	query := `
		UPDATE regions
		SET name = $1, country = $2, code = $3, updated_at = $4
		WHERE id = $5
	`
	result, err := r.ExecContext(ctx, query,
		region.Name, region.Country, region.Code, region.UpdatedAt, region.ID)
	if err != nil {
		return fmt.Errorf("failed to update region: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("region not found")
	}
	return nil
}

func (r *pricingRepository) DeleteRegion(ctx context.Context, id uuid.UUID) error {
	result, err := r.ExecContext(ctx, `DELETE FROM regions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete region: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("region not found")
	}
	return nil
}

func (r *pricingRepository) ListRegions(ctx context.Context) ([]*model.Region, error) {
	query := `SELECT id, name, country, code, created_at, updated_at FROM regions ORDER BY name`
	var regions []*model.Region
	if err := r.SelectContext(ctx, &regions, query); err != nil {
		return nil, fmt.Errorf("failed to list regions: %w", err)
	}
	return regions, nil
}

func (r *pricingRepository) CreatePrice(ctx context.Context, p *model.DrugPrice) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()

	query := `
		INSERT INTO drug_prices (
			id, drug_id, region_id, price, currency, price_date, price_type, source,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.ExecContext(ctx, query,
		p.ID,
		p.DrugID,
		p.RegionID,
		p.Price,
		p.Currency,
		p.PriceDate,
		p.PriceType,
		p.Source,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create drug price: %w", err)
	}
	return nil
}

func (r *pricingRepository) GetPrice(ctx context.Context, id uuid.UUID) (*model.DrugPrice, error) {
	query := `
		SELECT
			p.id, p.drug_id, p.region_id, p.price, p.currency, p.price_date,
			p.price_type, p.source, p.created_at, p.updated_at,
			d.name AS drug_name, r.name AS region_name
		FROM drug_prices p
		JOIN drugs d ON d.id = p.drug_id
		JOIN regions r ON r.id = p.region_id
		WHERE p.id = $1
	`
	var price model.DrugPrice
	if err := r.GetContext(ctx, &price, query, id); err != nil {
		return nil, fmt.Errorf("failed to get drug price: %w", err)
	}
	return &price, nil
}

func (r *pricingRepository) UpdatePrice(ctx context.Context, p *model.DrugPrice) error {
	p.UpdatedAt = time.Now()

	query := `
		UPDATE drug_prices
		SET price = $1, currency = $2, price_date = $3, price_type = $4, source = $5, updated_at = $6
		WHERE id = $7
	`
	result, err := r.ExecContext(ctx, query,
		p.Price, p.Currency, p.PriceDate, p.PriceType, p.Source, p.UpdatedAt, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update drug price: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("drug price not found")
	}
	return nil
}

func (r *pricingRepository) DeletePrice(ctx context.Context, id uuid.UUID) error {
	result, err := r.ExecContext(ctx, `DELETE FROM drug_prices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete drug price: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("drug price not found")
	}
	return nil
}

func (r *pricingRepository) ListPrices(ctx context.Context, filters *model.PriceFilters) ([]*model.DrugPrice, error) {
	if filters == nil {
		filters = &model.PriceFilters{}
	}
	query := `
		SELECT
			p.id, p.drug_id, p.region_id, p.price, p.currency, p.price_date,
			p.price_type, p.source, p.created_at, p.updated_at,
			d.name AS drug_name, r.name AS region_name
		FROM drug_prices p
		JOIN drugs d ON d.id = p.drug_id
		JOIN regions r ON r.id = p.region_id
		WHERE ($1::uuid IS NULL OR p.drug_id = $1)
		AND ($2::uuid IS NULL OR p.region_id = $2)
		AND ($3::date IS NULL OR p.price_date >= $3)
		AND ($4::date IS NULL OR p.price_date <= $4)
		ORDER BY p.price_date
		LIMIT NULLIF($5::int, 0) OFFSET $6
	`
	var prices []*model.DrugPrice
	err := r.SelectContext(ctx, &prices, query,
		filters.DrugID, filters.RegionID, filters.StartDate, filters.EndDate,
		filters.Limit, filters.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list drug prices: %w", err)
	}
	return prices, nil
}

func (r *pricingRepository) CreateAnalysis(ctx context.Context, a *model.PriceAnalysis) error {
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	a.UpdatedAt = time.Now()

	query := `
		INSERT INTO price_analyses (id, drug_id, analysis_type, analysis_data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.ExecContext(ctx, query,
		a.ID, a.DrugID, a.AnalysisType, a.AnalysisData, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create price analysis: %w", err)
	}
	return nil
}

func (r *pricingRepository) GetAnalysis(ctx context.Context, id uuid.UUID) (*model.PriceAnalysis, error) {
	query := `
		SELECT id, drug_id, analysis_type, analysis_data, created_at, updated_at
		FROM price_analyses
		WHERE id = $1
	`
	var analysis model.PriceAnalysis
	if err := r.GetContext(ctx, &analysis, query, id); err != nil {
		return nil, fmt.Errorf("failed to get price analysis: %w", err)
	}
	return &analysis, nil
}

func (r *pricingRepository) ListAnalyses(ctx context.Context, limit int) ([]*model.PriceAnalysis, error) {
	query := `
		SELECT id, drug_id, analysis_type, analysis_data, created_at, updated_at
		FROM price_analyses
		ORDER BY created_at DESC
		LIMIT $1
	`
	var analyses []*model.PriceAnalysis
	if err := r.SelectContext(ctx, &analyses, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list price analyses: %w", err)
	}
	return analyses, nil
}

// PriceStats aggregates min/max/avg price per drug over all regions.
// Drugs with fewer than minPriceCount observations are excluded.
func (r *pricingRepository) PriceStats(ctx context.Context, minPriceCount int) ([]*model.PriceDisparity, error) {
	query := `
		SELECT
			d.id AS drug_id,
			d.name AS drug_name,
			COUNT(p.id) AS price_count,
			MIN(p.price) AS min_price,
			MAX(p.price) AS max_price,
			AVG(p.price) AS avg_price
		FROM drugs d
		JOIN drug_prices p ON p.drug_id = d.id
		GROUP BY d.id, d.name
		HAVING COUNT(p.id) >= $1
		ORDER BY d.name
	`
	var stats []*model.PriceDisparity
	if err := r.SelectContext(ctx, &stats, query, minPriceCount); err != nil {
		return nil, fmt.Errorf("failed to aggregate price stats: %w", err)
	}
	for _, s := range stats {
		s.Spread = s.MaxPrice - s.MinPrice
		if s.AvgPrice > 0 {
			s.SpreadPct = s.Spread / s.AvgPrice
		}
	}
	return stats, nil
}

func (r *pricingRepository) RegionAverages(ctx context.Context) ([]model.RegionAverage, error) {
	query := `
		SELECT r.name AS region, AVG(p.price) AS avg_price
		FROM regions r
		JOIN drug_prices p ON p.region_id = r.id
		GROUP BY r.name
		ORDER BY r.name
	`
	var averages []model.RegionAverage
	if err := r.SelectContext(ctx, &averages, query); err != nil {
		return nil, fmt.Errorf("failed to aggregate region averages: %w", err)
	}
	return averages, nil
}
