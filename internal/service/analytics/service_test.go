package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthecon360/analytics-api/internal/model"
	"github.com/healthecon360/analytics-api/internal/repository"
)

type fakeResourceRepo struct {
	repository.ResourceRepository
	allocations []*model.ResourceAllocation
}

func (f *fakeResourceRepo) ListAllocations(_ context.Context, _ *model.AllocationFilters) ([]*model.ResourceAllocation, error) {
	return f.allocations, nil
}

type fakeOutcomeRepo struct {
	repository.OutcomeRepository
	rows []*model.CostEffectivenessRow
}

func (f *fakeOutcomeRepo) ListCostEffectiveness(_ context.Context, _ *model.MeasurementFilters) ([]*model.CostEffectivenessRow, error) {
	return f.rows, nil
}

type fakePricingRepo struct {
	repository.PricingRepository
	stats []*model.PriceDisparity
}

func (f *fakePricingRepo) PriceStats(_ context.Context, _ int) ([]*model.PriceDisparity, error) {
	return f.stats, nil
}

func strPtr(s string) *string { return &s }

func allocation(resourceID uuid.UUID, dept string, quantity, totalCost float64) *model.ResourceAllocation {
	return &model.ResourceAllocation{
		ResourceID:     resourceID,
		Quantity:       quantity,
		TotalCost:      totalCost,
		AllocationDate: time.Now(),
		FiscalYear:     "2026",
		DepartmentName: strPtr(dept),
		ResourceName:   "MRI Scanner",
	}
}

func TestWasteFlagsOutliers(t *testing.T) {
	resourceID := uuid.New()
	repo := &fakeResourceRepo{allocations: []*model.ResourceAllocation{
		// unit costs: 100, 100, 100, 100, 300; only the last is an outlier
		allocation(resourceID, "Radiology", 10, 1000),
		allocation(resourceID, "Radiology", 10, 1000),
		allocation(resourceID, "Oncology", 10, 1000),
		allocation(resourceID, "Oncology", 10, 1000),
		allocation(resourceID, "Cardiology", 10, 3000),
	}}

	svc := NewService(nil, repo, nil, nil, time.Minute, time.Minute)
	items, err := svc.Waste(context.Background(), &model.AllocationFilters{})
	require.NoError(t, err)
	require.Len(t, items, 1)

	item := items[0]
	assert.Equal(t, "Cardiology", *item.Department)
	assert.Equal(t, 300.0, item.ActualUnitCost)
	assert.Equal(t, 140.0, item.AverageUnitCost)
	assert.Equal(t, 1600.0, item.ExcessCost)
}

func TestWasteSkipsThinAndUniformData(t *testing.T) {
	lone := uuid.New()
	uniform := uuid.New()
	repo := &fakeResourceRepo{allocations: []*model.ResourceAllocation{
		// a single observation can never be an outlier
		allocation(lone, "Radiology", 10, 5000),
		// identical unit costs have zero deviation
		allocation(uniform, "Oncology", 10, 1000),
		allocation(uniform, "Oncology", 20, 2000),
		// zero quantity rows are unpriceable
		allocation(uniform, "Oncology", 0, 9999),
	}}

	svc := NewService(nil, repo, nil, nil, time.Minute, time.Minute)
	items, err := svc.Waste(context.Background(), &model.AllocationFilters{})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCostEffectivenessRanking(t *testing.T) {
	repo := &fakeOutcomeRepo{rows: []*model.CostEffectivenessRow{
		{Treatment: "Drug A", Outcome: "Survival Rate", HigherIsBetter: true, AverageCost: 1000, Value: 0.9},
		{Treatment: "Drug B", Outcome: "Survival Rate", HigherIsBetter: true, AverageCost: 500, Value: 0.8},
		{Treatment: "Drug C", Outcome: "Readmission Rate", HigherIsBetter: false, AverageCost: 100, Value: 0.1},
	}}

	svc := NewService(nil, nil, repo, nil, time.Minute, time.Minute)
	ratios, err := svc.CostEffectiveness(context.Background(), &model.MeasurementFilters{})
	require.NoError(t, err)
	require.Len(t, ratios, 3)

	// lower-is-better outcomes invert: 1 / (100 / 0.1) = 0.001
	assert.Equal(t, "Drug C", ratios[0].Treatment)
	assert.InDelta(t, 0.001, ratios[0].Ratio, 1e-9)

	// 500 / 0.8 = 625 beats 1000 / 0.9 ≈ 1111
	assert.Equal(t, "Drug B", ratios[1].Treatment)
	assert.Equal(t, "Drug A", ratios[2].Treatment)
}

func TestCostEffectivenessInversionRanksCheapestPerBenefit(t *testing.T) {
	repo := &fakeOutcomeRepo{rows: []*model.CostEffectivenessRow{
		{Treatment: "T1", Outcome: "Readmission Rate", HigherIsBetter: false, AverageCost: 10, Value: 0.1},
		{Treatment: "T2", Outcome: "Readmission Rate", HigherIsBetter: false, AverageCost: 1000, Value: 0.1},
	}}

	svc := NewService(nil, nil, repo, nil, time.Minute, time.Minute)
	ratios, err := svc.CostEffectiveness(context.Background(), &model.MeasurementFilters{})
	require.NoError(t, err)
	require.Len(t, ratios, 2)

	// inverted ratio is value/cost: 0.1/1000 sorts ahead of 0.1/10
	assert.Equal(t, "T2", ratios[0].Treatment)
	assert.InDelta(t, 0.0001, ratios[0].Ratio, 1e-12)
	assert.Equal(t, "T1", ratios[1].Treatment)
	assert.InDelta(t, 0.01, ratios[1].Ratio, 1e-12)
}

func TestInvalidateCacheSurfacesNewData(t *testing.T) {
	repo := &fakePricingRepo{stats: []*model.PriceDisparity{
		{DrugID: uuid.New(), Drug: "Atorvastatin", MinPrice: 50, MaxPrice: 100, AvgPrice: 80, SpreadPct: 0.625},
	}}
	svc := NewService(repo, nil, nil, nil, time.Minute, time.Minute)

	first, err := svc.PriceDisparities(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, first, 1)

	repo.stats = append(repo.stats, &model.PriceDisparity{
		DrugID: uuid.New(), Drug: "ImportedDrug", MinPrice: 10, MaxPrice: 30, AvgPrice: 20, SpreadPct: 1,
	})

	// still inside the TTL, the cached report is served
	cached, err := svc.PriceDisparities(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, cached, 1)

	// an invalidation makes the imported row visible immediately
	svc.InvalidateCache()
	fresh, err := svc.PriceDisparities(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, fresh, 2)
}

func TestBreakdownLabelsAndTotals(t *testing.T) {
	resourceID := uuid.New()
	unassigned := allocation(resourceID, "", 1, 50)
	unassigned.DepartmentName = nil

	repo := &fakeResourceRepo{allocations: []*model.ResourceAllocation{
		allocation(resourceID, "Radiology", 1, 100),
		allocation(resourceID, "Radiology", 1, 200),
		unassigned,
	}}

	svc := NewService(nil, repo, nil, nil, time.Minute, time.Minute)
	breakdown, err := svc.Breakdown(context.Background(), &model.AllocationFilters{})
	require.NoError(t, err)

	assert.Equal(t, 350.0, breakdown.TotalAllocation)
	require.Len(t, breakdown.Departments, 2)
	assert.Equal(t, "Radiology", breakdown.Departments[0].Label)
	assert.Equal(t, 300.0, breakdown.Departments[0].Value)
	assert.Equal(t, "Unassigned", breakdown.Departments[1].Label)
}
