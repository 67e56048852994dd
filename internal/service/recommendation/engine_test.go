package recommendation

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthecon360/analytics-api/internal/model"
	"github.com/healthecon360/analytics-api/internal/repository"
	"github.com/healthecon360/analytics-api/internal/service/analytics"
	"github.com/healthecon360/analytics-api/pkg/logger"
	"github.com/healthecon360/analytics-api/pkg/metrics"
)

// promauto registers against the default registry, so the test metrics
// are created once for the package.
var testMetrics = metrics.NewMetrics("analytics", "engine_test")

type fakeAnalytics struct {
	disparities []*model.PriceDisparity
	waste       []*model.WasteItem
	ratios      []*model.PriceOutcomeRatio
	invalidated int
}

func (f *fakeAnalytics) Summary(context.Context) (*model.SummaryReport, error) { return nil, nil }

func (f *fakeAnalytics) PriceDisparities(context.Context, int) ([]*model.PriceDisparity, error) {
	return f.disparities, nil
}

func (f *fakeAnalytics) PriceTrends(context.Context, uuid.UUID, int) (*model.PriceTrendReport, error) {
	return nil, nil
}

func (f *fakeAnalytics) PriceDistribution(context.Context, uuid.UUID, int) (*model.PriceDistributionReport, error) {
	return nil, nil
}

func (f *fakeAnalytics) CostEffectiveness(context.Context, *model.MeasurementFilters) ([]*model.PriceOutcomeRatio, error) {
	return f.ratios, nil
}

func (f *fakeAnalytics) Waste(context.Context, *model.AllocationFilters) ([]*model.WasteItem, error) {
	return f.waste, nil
}

func (f *fakeAnalytics) Breakdown(context.Context, *model.AllocationFilters) (*model.AllocationBreakdown, error) {
	return nil, nil
}

func (f *fakeAnalytics) InvalidateCache() { f.invalidated++ }

var _ analytics.AnalyticsServicer = (*fakeAnalytics)(nil)

type fakeRecRepo struct {
	repository.RecommendationRepository
	purged          bool
	typeErr         error
	types           map[string]*model.RecommendationType
	recommendations []*model.Recommendation
	actions         []*model.RecommendedAction
	insights        []*model.OptimizationInsight
}

func newFakeRecRepo() *fakeRecRepo {
	return &fakeRecRepo{types: make(map[string]*model.RecommendationType)}
}

func (f *fakeRecRepo) Purge(context.Context) error {
	f.purged = true
	f.recommendations = nil
	f.actions = nil
	return nil
}

func (f *fakeRecRepo) GetTypeByName(_ context.Context, name string) (*model.RecommendationType, error) {
	if t, ok := f.types[name]; ok {
		return t, nil
	}
	if f.typeErr != nil {
		return nil, f.typeErr
	}
	return nil, sql.ErrNoRows
}

func (f *fakeRecRepo) CreateType(_ context.Context, t *model.RecommendationType) error {
	t.ID = uuid.New()
	f.types[t.Name] = t
	return nil
}

func (f *fakeRecRepo) Create(_ context.Context, r *model.Recommendation) error {
	r.ID = uuid.New()
	f.recommendations = append(f.recommendations, r)
	return nil
}

func (f *fakeRecRepo) CreateAction(_ context.Context, a *model.RecommendedAction) error {
	f.actions = append(f.actions, a)
	return nil
}

func (f *fakeRecRepo) CreateInsight(_ context.Context, i *model.OptimizationInsight) error {
	i.ID = uuid.New()
	f.insights = append(f.insights, i)
	return nil
}

type fakePricingRepo struct {
	repository.PricingRepository
	analyses []*model.PriceAnalysis
}

func (f *fakePricingRepo) CreateAnalysis(_ context.Context, a *model.PriceAnalysis) error {
	f.analyses = append(f.analyses, a)
	return nil
}

type fakeBroker struct {
	published []string
}

func (f *fakeBroker) Publish(_ context.Context, channel string, _ interface{}) error {
	f.published = append(f.published, channel)
	return nil
}

func (f *fakeBroker) Subscribe(context.Context, string) (<-chan []byte, error) { return nil, nil }
func (f *fakeBroker) Close() error                                            { return nil }

func newTestEngine(a *fakeAnalytics, recRepo *fakeRecRepo, pricingRepo *fakePricingRepo, broker *fakeBroker) *Engine {
	return NewEngine(a, recRepo, pricingRepo, broker,
		EngineConfig{MinPriceCount: 2, InsightChannel: "insights"},
		logger.NewLogger(nil), testMetrics)
}

func disparity(drug string, min, max, avg float64) *model.PriceDisparity {
	return &model.PriceDisparity{
		DrugID:    uuid.New(),
		Drug:      drug,
		MinPrice:  min,
		MaxPrice:  max,
		AvgPrice:  avg,
		Spread:    max - min,
		SpreadPct: (max - min) / avg,
	}
}

func TestRunPurgesBeforeGenerating(t *testing.T) {
	recRepo := newFakeRecRepo()
	a := &fakeAnalytics{}
	engine := newTestEngine(a, recRepo, &fakePricingRepo{}, &fakeBroker{})

	require.NoError(t, engine.Run(context.Background()))
	assert.True(t, recRepo.purged)
	assert.Empty(t, recRepo.recommendations)
	assert.Empty(t, recRepo.insights)

	// every run drops cached reports so it analyses current data
	assert.Equal(t, 1, a.invalidated)
}

func TestRunSurfacesTypeLookupErrors(t *testing.T) {
	recRepo := newFakeRecRepo()
	recRepo.typeErr = assert.AnError
	a := &fakeAnalytics{disparities: []*model.PriceDisparity{
		disparity("Atorvastatin", 50, 100, 80),
	}}
	engine := newTestEngine(a, recRepo, &fakePricingRepo{}, &fakeBroker{})

	// a failing lookup must not be mistaken for a missing type
	err := engine.Run(context.Background())
	require.ErrorIs(t, err, assert.AnError)
	assert.Empty(t, recRepo.types)
}

func TestPricingRecommendationsFromDisparities(t *testing.T) {
	recRepo := newFakeRecRepo()
	pricingRepo := &fakePricingRepo{}
	broker := &fakeBroker{}
	a := &fakeAnalytics{disparities: []*model.PriceDisparity{
		disparity("Atorvastatin", 50, 100, 80), // spread 62.5%, high confidence
		disparity("Metformin", 90, 110, 100),   // spread 20%, below threshold
	}}
	engine := newTestEngine(a, recRepo, pricingRepo, broker)

	require.NoError(t, engine.Run(context.Background()))

	require.Len(t, recRepo.recommendations, 1)
	rec := recRepo.recommendations[0]
	assert.Contains(t, rec.Title, "Atorvastatin")
	assert.Equal(t, model.ConfidenceHigh, rec.ConfidenceLevel)
	assert.Equal(t, 5000.0, rec.EstimatedImpact) // spread 50 * 100 units

	// two ordered actions per pricing recommendation
	require.Len(t, recRepo.actions, 2)
	assert.Equal(t, rec.ID, recRepo.actions[0].RecommendationID)
	assert.Equal(t, 1, recRepo.actions[0].Position)
	assert.Equal(t, 2, recRepo.actions[1].Position)

	// a persisted analysis record accompanies the recommendation
	require.Len(t, pricingRepo.analyses, 1)
	assert.Equal(t, model.AnalysisTypeDisparity, pricingRepo.analyses[0].AnalysisType)

	// one pricing insight persisted and published
	require.Len(t, recRepo.insights, 1)
	assert.Equal(t, model.InsightTypePricing, recRepo.insights[0].InsightType)
	assert.Equal(t, []string{"insights"}, broker.published)
}

func TestModerateSpreadIsMediumConfidence(t *testing.T) {
	recRepo := newFakeRecRepo()
	a := &fakeAnalytics{disparities: []*model.PriceDisparity{
		disparity("Lisinopril", 70, 100, 85), // spread ~35%
	}}
	engine := newTestEngine(a, recRepo, &fakePricingRepo{}, &fakeBroker{})

	require.NoError(t, engine.Run(context.Background()))
	require.Len(t, recRepo.recommendations, 1)
	assert.Equal(t, model.ConfidenceMedium, recRepo.recommendations[0].ConfidenceLevel)
}

func TestWasteRecommendationsRespectFloor(t *testing.T) {
	dept := func(s string) *string { return &s }
	recRepo := newFakeRecRepo()
	a := &fakeAnalytics{waste: []*model.WasteItem{
		{Department: dept("Radiology"), Resource: "Contrast Dye", ActualUnitCost: 300, AverageUnitCost: 100, ExcessCost: 2000},
		{Department: dept("Radiology"), Resource: "Film", ActualUnitCost: 50, AverageUnitCost: 40, ExcessCost: 500},
		{Department: dept("Pediatrics"), Resource: "Gloves", ActualUnitCost: 12, AverageUnitCost: 10, ExcessCost: 200},
	}}
	engine := newTestEngine(a, recRepo, &fakePricingRepo{}, &fakeBroker{})

	require.NoError(t, engine.Run(context.Background()))

	// Radiology totals 2500 (> floor); Pediatrics totals 200 (ignored)
	require.Len(t, recRepo.recommendations, 1)
	rec := recRepo.recommendations[0]
	assert.Contains(t, rec.Title, "Radiology")
	assert.Equal(t, 2500.0, rec.EstimatedImpact)
	assert.Len(t, recRepo.actions, 2)

	require.Len(t, recRepo.insights, 1)
	assert.Equal(t, model.InsightTypeResource, recRepo.insights[0].InsightType)
}

func TestWasteGroupsSameDepartmentPerOrganization(t *testing.T) {
	s := func(v string) *string { return &v }
	recRepo := newFakeRecRepo()
	a := &fakeAnalytics{waste: []*model.WasteItem{
		// Radiology at both hospitals; only St. Mary clears the floor
		{Organization: s("St. Mary"), Department: s("Radiology"), Resource: "Contrast Dye", ActualUnitCost: 300, AverageUnitCost: 100, ExcessCost: 1500},
		{Organization: s("County General"), Department: s("Radiology"), Resource: "Contrast Dye", ActualUnitCost: 120, AverageUnitCost: 100, ExcessCost: 600},
	}}
	engine := newTestEngine(a, recRepo, &fakePricingRepo{}, &fakeBroker{})

	require.NoError(t, engine.Run(context.Background()))

	// summed together the excess would be 2100; split per organization
	// only St. Mary's 1500 clears the floor
	require.Len(t, recRepo.recommendations, 1)
	rec := recRepo.recommendations[0]
	assert.Contains(t, rec.Title, "Radiology at St. Mary")
	assert.Equal(t, 1500.0, rec.EstimatedImpact)
}

func TestOutcomeRecommendationsNeedMeaningfulGap(t *testing.T) {
	recRepo := newFakeRecRepo()
	a := &fakeAnalytics{ratios: []*model.PriceOutcomeRatio{
		// survival rate: worst ratio 4x the best, flagged
		{Outcome: "Survival Rate", Treatment: "Drug A", Cost: 500, Ratio: 1.0},
		{Outcome: "Survival Rate", Treatment: "Drug B", Cost: 2000, Ratio: 4.0},
		// readmission: gap below the 1.5x factor, ignored
		{Outcome: "Readmission Rate", Treatment: "Drug C", Cost: 100, Ratio: 2.0},
		{Outcome: "Readmission Rate", Treatment: "Drug D", Cost: 120, Ratio: 2.5},
	}}
	engine := newTestEngine(a, recRepo, &fakePricingRepo{}, &fakeBroker{})

	require.NoError(t, engine.Run(context.Background()))

	require.Len(t, recRepo.recommendations, 1)
	rec := recRepo.recommendations[0]
	assert.Contains(t, rec.Title, "Drug A")
	assert.Equal(t, 150000.0, rec.EstimatedImpact) // (2000-500) * 100 patients

	require.Len(t, recRepo.insights, 1)
	assert.Equal(t, model.InsightTypeOutcome, recRepo.insights[0].InsightType)
}

func TestNilBrokerStillPersistsInsights(t *testing.T) {
	recRepo := newFakeRecRepo()
	a := &fakeAnalytics{disparities: []*model.PriceDisparity{
		disparity("Atorvastatin", 50, 100, 80),
	}}
	engine := NewEngine(a, recRepo, &fakePricingRepo{}, nil,
		EngineConfig{}, logger.NewLogger(nil), testMetrics)

	require.NoError(t, engine.Run(context.Background()))
	assert.Len(t, recRepo.insights, 1)
}

func TestTypesCreatedOnceAndReused(t *testing.T) {
	recRepo := newFakeRecRepo()
	a := &fakeAnalytics{disparities: []*model.PriceDisparity{
		disparity("Atorvastatin", 50, 100, 80),
		disparity("Metformin", 40, 100, 60),
	}}
	engine := newTestEngine(a, recRepo, &fakePricingRepo{}, &fakeBroker{})

	require.NoError(t, engine.Run(context.Background()))

	require.Len(t, recRepo.recommendations, 2)
	assert.Equal(t, *recRepo.recommendations[0].TypeID, *recRepo.recommendations[1].TypeID)
	assert.Len(t, recRepo.types, 3) // pricing, resource, outcome
}
