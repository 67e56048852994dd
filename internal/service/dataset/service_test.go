package dataset

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthecon360/analytics-api/internal/model"
	"github.com/healthecon360/analytics-api/internal/repository"
	"github.com/healthecon360/analytics-api/pkg/logger"
)

type fakePricingRepo struct {
	repository.PricingRepository
	prices  []*model.DrugPrice
	drugs   map[string]*model.Drug
	regions map[string]*model.Region
	created []*model.DrugPrice
}

func newFakePricingRepo() *fakePricingRepo {
	return &fakePricingRepo{
		drugs:   make(map[string]*model.Drug),
		regions: make(map[string]*model.Region),
	}
}

func (f *fakePricingRepo) ListPrices(_ context.Context, _ *model.PriceFilters) ([]*model.DrugPrice, error) {
	return f.prices, nil
}

func (f *fakePricingRepo) GetDrugByName(_ context.Context, name string) (*model.Drug, error) {
	if d, ok := f.drugs[name]; ok {
		return d, nil
	}
	return nil, assert.AnError
}

func (f *fakePricingRepo) CreateDrug(_ context.Context, d *model.Drug) error {
	d.ID = uuid.New()
	f.drugs[d.Name] = d
	return nil
}

func (f *fakePricingRepo) GetRegionByName(_ context.Context, name string) (*model.Region, error) {
	if r, ok := f.regions[name]; ok {
		return r, nil
	}
	return nil, assert.AnError
}

func (f *fakePricingRepo) CreateRegion(_ context.Context, r *model.Region) error {
	r.ID = uuid.New()
	f.regions[r.Name] = r
	return nil
}

func (f *fakePricingRepo) CreatePrice(_ context.Context, p *model.DrugPrice) error {
	f.created = append(f.created, p)
	return nil
}

type fakeOutcomeRepo struct {
	repository.OutcomeRepository
	outcomes     map[string]*model.Outcome
	treatments   map[string]*model.Treatment
	measurements []*model.OutcomeMeasurement
}

func newFakeOutcomeRepo() *fakeOutcomeRepo {
	return &fakeOutcomeRepo{
		outcomes:   make(map[string]*model.Outcome),
		treatments: make(map[string]*model.Treatment),
	}
}

func (f *fakeOutcomeRepo) GetOutcomeByName(_ context.Context, name string) (*model.Outcome, error) {
	if o, ok := f.outcomes[name]; ok {
		return o, nil
	}
	return nil, assert.AnError
}

func (f *fakeOutcomeRepo) CreateOutcome(_ context.Context, o *model.Outcome) error {
	o.ID = uuid.New()
	f.outcomes[o.Name] = o
	return nil
}

func (f *fakeOutcomeRepo) GetTreatmentByName(_ context.Context, name string) (*model.Treatment, error) {
	if tr, ok := f.treatments[name]; ok {
		return tr, nil
	}
	return nil, assert.AnError
}

func (f *fakeOutcomeRepo) CreateTreatment(_ context.Context, tr *model.Treatment) error {
	tr.ID = uuid.New()
	f.treatments[tr.Name] = tr
	return nil
}

func (f *fakeOutcomeRepo) CreateMeasurement(_ context.Context, m *model.OutcomeMeasurement) error {
	f.measurements = append(f.measurements, m)
	return nil
}

type fakeResourceRepo struct {
	repository.ResourceRepository
	organizations map[string]*model.Organization
}

func (f *fakeResourceRepo) GetOrganizationByName(_ context.Context, name string) (*model.Organization, error) {
	if o, ok := f.organizations[name]; ok {
		return o, nil
	}
	return nil, assert.AnError
}

func TestExportPricingWritesCSV(t *testing.T) {
	repo := newFakePricingRepo()
	repo.prices = []*model.DrugPrice{
		{
			DrugName:   "Atorvastatin",
			RegionName: "US-East",
			Price:      12.5,
			Currency:   "USD",
			PriceDate:  time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			PriceType:  "retail",
			Source:     "survey",
		},
	}
	svc := NewService(repo, nil, nil, logger.NewLogger(nil))

	var buf bytes.Buffer
	require.NoError(t, svc.ExportPricing(context.Background(), &buf, &model.PriceFilters{}))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"drug", "region", "price", "currency", "price_date", "price_type", "source"}, records[0])
	assert.Equal(t, []string{"Atorvastatin", "US-East", "12.50", "USD", "2026-03-01", "retail", "survey"}, records[1])
}

func TestImportPricingCreatesEntitiesByName(t *testing.T) {
	repo := newFakePricingRepo()
	svc := NewService(repo, nil, nil, logger.NewLogger(nil))

	input := strings.Join([]string{
		"drug,region,price,currency,price_date",
		"Atorvastatin,US-East,12.50,USD,2026-03-01",
		"Atorvastatin,EU-West,9.75,EUR,2026-03-01",
	}, "\n")

	result, err := svc.ImportPricing(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 0, result.Failed)

	// one drug shared across both rows, two distinct regions
	assert.Len(t, repo.drugs, 1)
	assert.Len(t, repo.regions, 2)
	require.Len(t, repo.created, 2)
	assert.Equal(t, repo.created[0].DrugID, repo.created[1].DrugID)
	assert.NotEqual(t, repo.created[0].RegionID, repo.created[1].RegionID)
}

func TestImportPricingCountsBadRows(t *testing.T) {
	repo := newFakePricingRepo()
	svc := NewService(repo, nil, nil, logger.NewLogger(nil))

	input := strings.Join([]string{
		"drug,region,price",
		"Atorvastatin,US-East,not-a-number",
		"Atorvastatin,US-East,-5",
		",US-East,10",
		"Atorvastatin,US-East,10",
	}, "\n")

	result, err := svc.ImportPricing(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 3, result.Failed)

	require.Len(t, repo.created, 1)
	assert.Equal(t, "USD", repo.created[0].Currency)
}

func TestImportPricingRejectsMissingColumns(t *testing.T) {
	svc := NewService(newFakePricingRepo(), nil, nil, logger.NewLogger(nil))

	_, err := svc.ImportPricing(context.Background(), strings.NewReader("drug,price\nAtorvastatin,10"))
	assert.Error(t, err)
}

func TestImportOutcomesCreatesObservedEntities(t *testing.T) {
	outcomes := newFakeOutcomeRepo()
	resources := &fakeResourceRepo{organizations: map[string]*model.Organization{
		"St. Mary Hospital": {Base: model.Base{ID: uuid.New()}, Name: "St. Mary Hospital"},
	}}
	svc := NewService(nil, outcomes, resources, logger.NewLogger(nil))

	input := strings.Join([]string{
		"outcome,treatment,organization,value,sample_size,measurement_date",
		"30-day readmission,Statin therapy,St. Mary Hospital,0.12,240,2026-01-15",
		"30-day readmission,Statin therapy,,0.09,180,2026-02-15",
	}, "\n")

	result, err := svc.ImportOutcomes(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 0, result.Failed)

	// one outcome and one treatment shared across both rows
	assert.Len(t, outcomes.outcomes, 1)
	assert.Len(t, outcomes.treatments, 1)
	require.Len(t, outcomes.measurements, 2)

	first := outcomes.measurements[0]
	assert.Equal(t, outcomes.outcomes["30-day readmission"].ID, first.OutcomeID)
	require.NotNil(t, first.TreatmentID)
	require.NotNil(t, first.OrganizationID)
	assert.Equal(t, resources.organizations["St. Mary Hospital"].ID, *first.OrganizationID)
	require.NotNil(t, first.SampleSize)
	assert.Equal(t, 240, *first.SampleSize)
	require.NotNil(t, first.MeasurementDate)

	assert.Nil(t, outcomes.measurements[1].OrganizationID)
}

func TestImportOutcomesCountsBadRows(t *testing.T) {
	outcomes := newFakeOutcomeRepo()
	resources := &fakeResourceRepo{organizations: map[string]*model.Organization{}}
	svc := NewService(nil, outcomes, resources, logger.NewLogger(nil))

	input := strings.Join([]string{
		"outcome,organization,value,measurement_date",
		"Mortality,,not-a-number,2026-01-01",
		",,0.5,2026-01-01",
		"Mortality,Unknown Clinic,0.5,2026-01-01",
		"Mortality,,0.5,January 1st",
		"Mortality,,0.5,2026-01-01",
	}, "\n")

	result, err := svc.ImportOutcomes(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 4, result.Failed)
	require.Len(t, outcomes.measurements, 1)
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

func TestImportRequestsRefreshOnlyWhenRowsLanded(t *testing.T) {
	broker := &fakeBroker{}
	repo := newFakePricingRepo()
	svc := NewService(repo, nil, nil, logger.NewLogger(nil)).
		WithRefresh(broker, "analysis-refresh")

	_, err := svc.ImportPricing(context.Background(), strings.NewReader(
		"drug,region,price\nAtorvastatin,US-East,10"))
	require.NoError(t, err)
	assert.Equal(t, []string{"analysis-refresh"}, broker.published)

	// nothing imported, nothing published
	_, err = svc.ImportPricing(context.Background(), strings.NewReader(
		"drug,region,price\n,US-East,10"))
	require.NoError(t, err)
	assert.Len(t, broker.published, 1)
}

func TestImportOutcomesRejectsMissingColumns(t *testing.T) {
	svc := NewService(nil, newFakeOutcomeRepo(), nil, logger.NewLogger(nil))

	_, err := svc.ImportOutcomes(context.Background(), strings.NewReader("outcome,sample_size\nMortality,100"))
	assert.Error(t, err)
}
