package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/healthecon360/analytics-api/internal/model"
	"github.com/healthecon360/analytics-api/internal/repository"
)

const (
	// flagged as wasteful when unit cost exceeds mean + wasteSigma*stddev
	wasteSigma = 1.5

	DefaultTrendWindow    = 3
	DefaultHistogramBins  = 10
	DefaultMinPriceCount  = 2
	DefaultBreakdownLimit = 10
)

type AnalyticsServicer interface {
	Summary(ctx context.Context) (*model.SummaryReport, error)
	PriceDisparities(ctx context.Context, minPriceCount int) ([]*model.PriceDisparity, error)
	PriceTrends(ctx context.Context, drugID uuid.UUID, window int) (*model.PriceTrendReport, error)
	PriceDistribution(ctx context.Context, drugID uuid.UUID, bins int) (*model.PriceDistributionReport, error)
	CostEffectiveness(ctx context.Context, filters *model.MeasurementFilters) ([]*model.PriceOutcomeRatio, error)
	Waste(ctx context.Context, filters *model.AllocationFilters) ([]*model.WasteItem, error)
	Breakdown(ctx context.Context, filters *model.AllocationFilters) (*model.AllocationBreakdown, error)
	InvalidateCache()
}

type Service struct {
	pricingRepo  repository.PricingRepository
	resourceRepo repository.ResourceRepository
	outcomeRepo  repository.OutcomeRepository
	recRepo      repository.RecommendationRepository
	cache        *gocache.Cache
}

func NewService(
	pricingRepo repository.PricingRepository,
	resourceRepo repository.ResourceRepository,
	outcomeRepo repository.OutcomeRepository,
	recRepo repository.RecommendationRepository,
	ttl, cleanup time.Duration,
) *Service {
	return &Service{
		pricingRepo:  pricingRepo,
		resourceRepo: resourceRepo,
		outcomeRepo:  outcomeRepo,
		recRepo:      recRepo,
		cache:        gocache.New(ttl, cleanup),
	}
}

// InvalidateCache drops every cached report so the next read reflects
// freshly written data, e.g. after a bulk import.
func (s *Service) InvalidateCache() {
	s.cache.Flush()
}

func (s *Service) Summary(ctx context.Context) (*model.SummaryReport, error) {
	if cached, ok := s.cache.Get("summary"); ok {
		return cached.(*model.SummaryReport), nil
	}

	drugs, err := s.pricingRepo.CountDrugs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count drugs: %w", err)
	}
	orgs, err := s.resourceRepo.CountOrganizations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count organizations: %w", err)
	}
	recs, err := s.recRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count recommendations: %w", err)
	}
	averages, err := s.pricingRepo.RegionAverages(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get region averages: %w", err)
	}
	total, err := s.resourceRepo.TotalAllocation(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get total allocation: %w", err)
	}

	report := &model.SummaryReport{
		Counts: model.SummaryCounts{
			Drugs:           drugs,
			Organizations:   orgs,
			Recommendations: recs,
		},
		PriceComparisons: averages,
		TotalAllocation:  total,
		GeneratedAt:      time.Now(),
	}
	s.cache.SetDefault("summary", report)
	return report, nil
}

func (s *Service) PriceDisparities(ctx context.Context, minPriceCount int) ([]*model.PriceDisparity, error) {
	if minPriceCount <= 0 {
		minPriceCount = DefaultMinPriceCount
	}
	key := fmt.Sprintf("disparities:%d", minPriceCount)
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]*model.PriceDisparity), nil
	}

	disparities, err := s.pricingRepo.PriceStats(ctx, minPriceCount)
	if err != nil {
		return nil, fmt.Errorf("failed to compute price disparities: %w", err)
	}

	sort.Slice(disparities, func(i, j int) bool {
		return disparities[i].SpreadPct > disparities[j].SpreadPct
	})

	s.cache.SetDefault(key, disparities)
	return disparities, nil
}

func (s *Service) PriceTrends(ctx context.Context, drugID uuid.UUID, window int) (*model.PriceTrendReport, error) {
	if window <= 0 {
		window = DefaultTrendWindow
	}

	drug, err := s.pricingRepo.GetDrug(ctx, drugID)
	if err != nil {
		return nil, fmt.Errorf("failed to get drug: %w", err)
	}

	prices, err := s.pricingRepo.ListPrices(ctx, &model.PriceFilters{DrugID: &drugID})
	if err != nil {
		return nil, fmt.Errorf("failed to list prices: %w", err)
	}

	byRegion := make(map[string][]model.PricePoint)
	for _, p := range prices {
		byRegion[p.RegionName] = append(byRegion[p.RegionName], model.PricePoint{
			Date:  p.PriceDate,
			Price: p.Price,
		})
	}

	regions := make([]string, 0, len(byRegion))
	for region := range byRegion {
		regions = append(regions, region)
	}
	sort.Strings(regions)

	series := make([]model.TrendSeries, 0, len(regions))
	for _, region := range regions {
		points := byRegion[region]
		sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })

		values := make([]float64, len(points))
		for i, p := range points {
			values[i] = p.Price
		}

		series = append(series, model.TrendSeries{
			Region:   region,
			Points:   points,
			Smoothed: movingAverage(values, window),
		})
	}

	return &model.PriceTrendReport{
		DrugID: drugID,
		Drug:   drug.Name,
		Window: window,
		Series: series,
	}, nil
}

func (s *Service) PriceDistribution(ctx context.Context, drugID uuid.UUID, bins int) (*model.PriceDistributionReport, error) {
	if bins <= 0 {
		bins = DefaultHistogramBins
	}

	drug, err := s.pricingRepo.GetDrug(ctx, drugID)
	if err != nil {
		return nil, fmt.Errorf("failed to get drug: %w", err)
	}

	prices, err := s.pricingRepo.ListPrices(ctx, &model.PriceFilters{DrugID: &drugID})
	if err != nil {
		return nil, fmt.Errorf("failed to list prices: %w", err)
	}

	values := make([]float64, len(prices))
	for i, p := range prices {
		values[i] = p.Price
	}

	return &model.PriceDistributionReport{
		DrugID: drugID,
		Drug:   drug.Name,
		Bins:   histogram(values, bins),
		Total:  len(values),
	}, nil
}

// CostEffectiveness computes cost-per-outcome ratios, lowest first. For
// outcomes where lower raw values are better the ratio is inverted, so a
// low ratio always means better value.
func (s *Service) CostEffectiveness(ctx context.Context, filters *model.MeasurementFilters) ([]*model.PriceOutcomeRatio, error) {
	rows, err := s.outcomeRepo.ListCostEffectiveness(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list cost effectiveness rows: %w", err)
	}

	ratios := make([]*model.PriceOutcomeRatio, 0, len(rows))
	for _, row := range rows {
		ratio := row.AverageCost / row.Value
		if !row.HigherIsBetter {
			if ratio != 0 {
				ratio = 1 / ratio
			} else {
				ratio = math.Inf(1)
			}
		}
		ratios = append(ratios, &model.PriceOutcomeRatio{
			Treatment:    row.Treatment,
			Outcome:      row.Outcome,
			Measurement:  row.Value,
			Cost:         row.AverageCost,
			Ratio:        ratio,
			Organization: row.Organization,
		})
	}

	sort.Slice(ratios, func(i, j int) bool { return ratios[i].Ratio < ratios[j].Ratio })
	return ratios, nil
}

// Waste flags allocations whose effective unit cost sits more than
// 1.5 standard deviations above the mean unit cost for that resource.
func (s *Service) Waste(ctx context.Context, filters *model.AllocationFilters) ([]*model.WasteItem, error) {
	allocations, err := s.resourceRepo.ListAllocations(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list allocations: %w", err)
	}

	type unitObservation struct {
		alloc    *model.ResourceAllocation
		unitCost float64
	}

	byResource := make(map[uuid.UUID][]unitObservation)
	for _, a := range allocations {
		if a.Quantity <= 0 {
			continue
		}
		byResource[a.ResourceID] = append(byResource[a.ResourceID], unitObservation{
			alloc:    a,
			unitCost: a.TotalCost / a.Quantity,
		})
	}

	var items []*model.WasteItem
	for _, observations := range byResource {
		if len(observations) < 2 {
			continue
		}
		costs := make([]float64, len(observations))
		for i, o := range observations {
			costs[i] = o.unitCost
		}
		m := mean(costs)
		sd := stddev(costs)
		if sd == 0 {
			continue
		}
		threshold := m + wasteSigma*sd

		for _, o := range observations {
			if o.unitCost <= threshold {
				continue
			}
			items = append(items, &model.WasteItem{
				Organization:    o.alloc.OrganizationName,
				Department:      o.alloc.DepartmentName,
				Resource:        o.alloc.ResourceName,
				ActualUnitCost:  o.unitCost,
				AverageUnitCost: m,
				Quantity:        o.alloc.Quantity,
				ExcessCost:      (o.unitCost - m) * o.alloc.Quantity,
				FiscalYear:      o.alloc.FiscalYear,
			})
		}
	}

	sort.Slice(items, func(i, j int) bool { return items[i].ExcessCost > items[j].ExcessCost })
	return items, nil
}

func (s *Service) Breakdown(ctx context.Context, filters *model.AllocationFilters) (*model.AllocationBreakdown, error) {
	allocations, err := s.resourceRepo.ListAllocations(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list allocations: %w", err)
	}

	byDepartment := make(map[string]float64)
	byResource := make(map[string]float64)
	var total float64

	for _, a := range allocations {
		total += a.TotalCost
		byResource[a.ResourceName] += a.TotalCost

		label := "Unassigned"
		if a.DepartmentName != nil {
			label = *a.DepartmentName
		} else if a.OrganizationName != nil {
			label = *a.OrganizationName
		}
		byDepartment[label] += a.TotalCost
	}

	return &model.AllocationBreakdown{
		Departments:     topSlices(byDepartment, DefaultBreakdownLimit),
		Resources:       topSlices(byResource, DefaultBreakdownLimit),
		TotalAllocation: total,
	}, nil
}
