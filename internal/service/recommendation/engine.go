package recommendation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/healthecon360/analytics-api/internal/model"
	"github.com/healthecon360/analytics-api/internal/repository"
	"github.com/healthecon360/analytics-api/internal/service/analytics"
	"github.com/healthecon360/analytics-api/pkg/logger"
	"github.com/healthecon360/analytics-api/pkg/messaging"
	"github.com/healthecon360/analytics-api/pkg/metrics"
)

const (
	// price spread across regions must exceed 25% of the mean to matter
	disparityThreshold = 0.25
	// spreads above 50% of the mean are called with high confidence
	highConfidenceSpread = 0.5
	// assumed purchase volume for estimating pricing impact
	assumedUnits = 100
	// assumed patient volume for estimating outcome impact
	assumedPatients = 100
	// department waste below this total is not worth a recommendation
	wasteFloor = 1000.0
	// worst treatment ratio must exceed best by this factor
	outcomeRatioFactor = 1.5

	maxWasteActions = 3
)

// Engine type names, created on first run.
const (
	typePricing  = "Price Optimization"
	typeResource = "Resource Efficiency"
	typeOutcome  = "Outcome Improvement"
)

type EngineConfig struct {
	MinPriceCount  int
	InsightChannel string
}

// Engine derives recommendations and insights from the collected pricing,
// allocation, and outcome data. Each run replaces all previously generated
// recommendations.
type Engine struct {
	analytics analytics.AnalyticsServicer
	recRepo   repository.RecommendationRepository
	pricing   repository.PricingRepository
	broker    messaging.Broker
	config    EngineConfig
	logger    *logger.Logger
	metrics   *metrics.Metrics
}

func NewEngine(
	analyticsSvc analytics.AnalyticsServicer,
	recRepo repository.RecommendationRepository,
	pricingRepo repository.PricingRepository,
	broker messaging.Broker,
	config EngineConfig,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *Engine {
	if config.MinPriceCount <= 0 {
		config.MinPriceCount = analytics.DefaultMinPriceCount
	}
	if config.InsightChannel == "" {
		config.InsightChannel = "insights"
	}
	return &Engine{
		analytics: analyticsSvc,
		recRepo:   recRepo,
		pricing:   pricingRepo,
		broker:    broker,
		config:    config,
		logger:    logger,
		metrics:   metrics,
	}
}

// Run executes a full analysis pass: purge generated recommendations,
// then regenerate from pricing disparities, allocation waste, and
// cost-effectiveness spreads.
func (e *Engine) Run(ctx context.Context) error {
	timer := prometheus.NewTimer(e.metrics.AnalysisLatency)
	defer timer.ObserveDuration()

	// the run must see data written since the last read, not cached reports
	e.analytics.InvalidateCache()

	if err := e.recRepo.Purge(ctx); err != nil {
		e.metrics.AnalysisRuns.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to purge recommendations: %w", err)
	}

	if err := e.generatePricing(ctx); err != nil {
		e.metrics.AnalysisRuns.WithLabelValues("error").Inc()
		return fmt.Errorf("pricing analysis failed: %w", err)
	}
	if err := e.generateWaste(ctx); err != nil {
		e.metrics.AnalysisRuns.WithLabelValues("error").Inc()
		return fmt.Errorf("waste analysis failed: %w", err)
	}
	if err := e.generateOutcome(ctx); err != nil {
		e.metrics.AnalysisRuns.WithLabelValues("error").Inc()
		return fmt.Errorf("outcome analysis failed: %w", err)
	}

	e.metrics.AnalysisRuns.WithLabelValues("success").Inc()
	return nil
}

func (e *Engine) generatePricing(ctx context.Context) error {
	disparities, err := e.analytics.PriceDisparities(ctx, e.config.MinPriceCount)
	if err != nil {
		return err
	}

	recType, err := e.typeFor(ctx, typePricing, model.ImpactAreaCost)
	if err != nil {
		return err
	}

	var flagged []*model.PriceDisparity
	for _, d := range disparities {
		if d.SpreadPct <= disparityThreshold {
			continue
		}
		flagged = append(flagged, d)

		confidence := model.ConfidenceMedium
		if d.SpreadPct > highConfidenceSpread {
			confidence = model.ConfidenceHigh
		}

		rec := &model.Recommendation{
			Title: fmt.Sprintf("Standardize procurement pricing for %s", d.Drug),
			Description: fmt.Sprintf(
				"Prices for %s vary from %.2f to %.2f across regions (%.0f%% of the average). Sourcing at the lower observed price would cut spend.",
				d.Drug, d.MinPrice, d.MaxPrice, d.SpreadPct*100),
			TypeID:                   &recType.ID,
			EstimatedImpact:          d.Spread * assumedUnits,
			ImpactUnit:               "$",
			ConfidenceLevel:          confidence,
			ImplementationDifficulty: model.DifficultyLow,
			ImplementationTime:       "1-3 months",
		}
		if err := e.recRepo.Create(ctx, rec); err != nil {
			return err
		}
		e.metrics.RecommendationsGenerated.WithLabelValues("pricing").Inc()

		actions := []string{
			fmt.Sprintf("Benchmark %s contracts against the lowest-price region", d.Drug),
			"Renegotiate supplier agreements using the observed price floor",
		}
		for i, action := range actions {
			if err := e.recRepo.CreateAction(ctx, &model.RecommendedAction{
				RecommendationID: rec.ID,
				Action:           action,
				Position:         i + 1,
				ResponsibleRole:  "Procurement",
				Timeframe:        "Quarterly review",
			}); err != nil {
				return err
			}
		}

		analysis := &model.PriceAnalysis{
			DrugID:       &d.DrugID,
			AnalysisType: model.AnalysisTypeDisparity,
			AnalysisData: model.JSONMap{
				"min_price":  d.MinPrice,
				"max_price":  d.MaxPrice,
				"avg_price":  d.AvgPrice,
				"spread":     d.Spread,
				"spread_pct": d.SpreadPct,
			},
		}
		if err := e.pricing.CreateAnalysis(ctx, analysis); err != nil {
			return err
		}
	}

	if len(flagged) == 0 {
		return nil
	}

	data := model.JSONMap{"disparities": flagged}
	return e.publishInsight(ctx, &model.OptimizationInsight{
		Title:       "Regional price disparities detected",
		Description: fmt.Sprintf("%d drugs show price spreads above %.0f%% of their average price.", len(flagged), disparityThreshold*100),
		InsightType: model.InsightTypePricing,
		Data:        data,
	})
}

func (e *Engine) generateWaste(ctx context.Context) error {
	items, err := e.analytics.Waste(ctx, nil)
	if err != nil {
		return err
	}

	recType, err := e.typeFor(ctx, typeResource, model.ImpactAreaEfficiency)
	if err != nil {
		return err
	}

	// same-named departments at different organizations stay separate
	type group struct {
		label string
		items []*model.WasteItem
		total float64
	}
	groups := make(map[string]*group)
	for _, item := range items {
		org := "Unassigned"
		if item.Organization != nil {
			org = *item.Organization
		}
		dept := "General"
		if item.Department != nil {
			dept = *item.Department
		}
		key := org + ":" + dept
		g, ok := groups[key]
		if !ok {
			label := org
			if dept != "General" {
				label = dept
				if org != "Unassigned" {
					label = fmt.Sprintf("%s at %s", dept, org)
				}
			}
			g = &group{label: label}
			groups[key] = g
		}
		g.items = append(g.items, item)
		g.total += item.ExcessCost
	}

	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var flaggedTotal float64
	var flagged int
	for _, key := range keys {
		g := groups[key]
		if g.total <= wasteFloor {
			continue
		}
		flagged++
		flaggedTotal += g.total

		rec := &model.Recommendation{
			Title: fmt.Sprintf("Reduce overspending in %s", g.label),
			Description: fmt.Sprintf(
				"%s paid well above the average unit cost on %d allocations, an estimated %.2f in excess spend.",
				g.label, len(g.items), g.total),
			TypeID:                   &recType.ID,
			EstimatedImpact:          g.total,
			ImpactUnit:               "$",
			ConfidenceLevel:          model.ConfidenceMedium,
			ImplementationDifficulty: model.DifficultyMedium,
			ImplementationTime:       "3-6 months",
		}
		if err := e.recRepo.Create(ctx, rec); err != nil {
			return err
		}
		e.metrics.RecommendationsGenerated.WithLabelValues("resource").Inc()

		// top offenders first; Waste returns items sorted by excess cost
		limit := maxWasteActions
		if len(g.items) < limit {
			limit = len(g.items)
		}
		for i := 0; i < limit; i++ {
			item := g.items[i]
			if err := e.recRepo.CreateAction(ctx, &model.RecommendedAction{
				RecommendationID: rec.ID,
				Action: fmt.Sprintf("Renegotiate %s: unit cost %.2f vs %.2f average (%.2f excess)",
					item.Resource, item.ActualUnitCost, item.AverageUnitCost, item.ExcessCost),
				Position:        i + 1,
				ResponsibleRole: "Operations",
				Timeframe:       "Next procurement cycle",
			}); err != nil {
				return err
			}
		}
	}

	if flagged == 0 {
		return nil
	}

	return e.publishInsight(ctx, &model.OptimizationInsight{
		Title:       "Resource allocation waste detected",
		Description: fmt.Sprintf("%d departments show a combined %.2f in excess unit costs.", flagged, flaggedTotal),
		InsightType: model.InsightTypeResource,
		Data:        model.JSONMap{"departments": flagged, "total_excess": flaggedTotal},
	})
}

func (e *Engine) generateOutcome(ctx context.Context) error {
	ratios, err := e.analytics.CostEffectiveness(ctx, nil)
	if err != nil {
		return err
	}

	recType, err := e.typeFor(ctx, typeOutcome, model.ImpactAreaOutcome)
	if err != nil {
		return err
	}

	byOutcome := make(map[string][]*model.PriceOutcomeRatio)
	for _, r := range ratios {
		byOutcome[r.Outcome] = append(byOutcome[r.Outcome], r)
	}

	outcomes := make([]string, 0, len(byOutcome))
	for name := range byOutcome {
		outcomes = append(outcomes, name)
	}
	sort.Strings(outcomes)

	var flagged int
	for _, name := range outcomes {
		group := byOutcome[name]
		if len(group) < 2 {
			continue
		}
		// CostEffectiveness returns ratios sorted ascending
		best, worst := group[0], group[len(group)-1]
		if best.Ratio <= 0 || worst.Ratio <= best.Ratio*outcomeRatioFactor {
			continue
		}
		flagged++

		impact := (worst.Cost - best.Cost) * assumedPatients
		if impact < 0 {
			impact = 0
		}

		rec := &model.Recommendation{
			Title: fmt.Sprintf("Shift %s patients toward %s", name, best.Treatment),
			Description: fmt.Sprintf(
				"%s delivers %s at a cost-effectiveness ratio of %.2f, versus %.2f for %s. Preferring the better option improves value per patient.",
				best.Treatment, name, best.Ratio, worst.Ratio, worst.Treatment),
			TypeID:                   &recType.ID,
			EstimatedImpact:          impact,
			ImpactUnit:               "$",
			ConfidenceLevel:          model.ConfidenceMedium,
			ImplementationDifficulty: model.DifficultyMedium,
			ImplementationTime:       "6-12 months",
		}
		if err := e.recRepo.Create(ctx, rec); err != nil {
			return err
		}
		e.metrics.RecommendationsGenerated.WithLabelValues("outcome").Inc()

		actions := []string{
			fmt.Sprintf("Review clinical guidelines to prefer %s where appropriate", best.Treatment),
			fmt.Sprintf("Audit utilization of %s for avoidable cases", worst.Treatment),
		}
		for i, action := range actions {
			if err := e.recRepo.CreateAction(ctx, &model.RecommendedAction{
				RecommendationID: rec.ID,
				Action:           action,
				Position:         i + 1,
				ResponsibleRole:  "Clinical leadership",
				Timeframe:        "Next guideline revision",
			}); err != nil {
				return err
			}
		}
	}

	if flagged == 0 {
		return nil
	}

	return e.publishInsight(ctx, &model.OptimizationInsight{
		Title:       "Cost-effectiveness gaps between treatments",
		Description: fmt.Sprintf("%d outcomes show a treatment at least %.1fx more cost-effective than an alternative.", flagged, outcomeRatioFactor),
		InsightType: model.InsightTypeOutcome,
		Data:        model.JSONMap{"outcomes": flagged},
	})
}

func (e *Engine) typeFor(ctx context.Context, name, impactArea string) (*model.RecommendationType, error) {
	recType, err := e.recRepo.GetTypeByName(ctx, name)
	if err == nil {
		return recType, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to look up recommendation type %q: %w", name, err)
	}

	recType = &model.RecommendationType{Name: name, ImpactArea: impactArea}
	if createErr := e.recRepo.CreateType(ctx, recType); createErr != nil {
		return nil, fmt.Errorf("failed to create recommendation type %q: %w", name, createErr)
	}
	return recType, nil
}

func (e *Engine) publishInsight(ctx context.Context, insight *model.OptimizationInsight) error {
	if err := e.recRepo.CreateInsight(ctx, insight); err != nil {
		return err
	}

	if e.broker == nil {
		return nil
	}
	msg := messaging.Message{Type: "insight.created", Payload: insight}
	if err := e.broker.Publish(ctx, e.config.InsightChannel, msg); err != nil {
		// the insight is persisted; a broker outage should not fail the run
		e.logger.Error(err, "failed to publish insight", "insight_id", insight.ID.String())
		return nil
	}
	e.metrics.InsightsPublished.Inc()
	return nil
}

// RunPeriodically re-runs the engine on a fixed interval until the
// context is cancelled. An immediate first run primes the data.
func (e *Engine) RunPeriodically(ctx context.Context, interval time.Duration) {
	if err := e.Run(ctx); err != nil {
		e.logger.Error(err, "analysis run failed")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("shutting down analysis engine")
			return
		case <-ticker.C:
			if err := e.Run(ctx); err != nil {
				e.logger.Error(err, "analysis run failed")
			}
		}
	}
}
