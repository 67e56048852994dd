package model

import (
	"time"

	"github.com/google/uuid"
)

// SummaryReport is the dashboard headline view: entity counts, average
// price per region, and total allocated spend.
type SummaryReport struct {
	Counts           SummaryCounts   `json:"counts"`
	PriceComparisons []RegionAverage `json:"price_comparisons"`
	TotalAllocation  float64         `json:"total_allocation"`
	GeneratedAt      time.Time       `json:"generated_at"`
}

type SummaryCounts struct {
	Drugs           int `json:"drugs"`
	Organizations   int `json:"organizations"`
	Recommendations int `json:"recommendations"`
}

// RegionAverage is the mean observed price in one region.
type RegionAverage struct {
	Region   string  `json:"region" db:"region"`
	AvgPrice float64 `json:"avg_price" db:"avg_price"`
}

// PricePoint is one dated observation in a trend series.
type PricePoint struct {
	Date  time.Time `json:"date" db:"price_date"`
	Price float64   `json:"price" db:"price"`
}

// TrendSeries is a per-region price series with a smoothed companion line.
// Smoothed is empty when the series is shorter than the smoothing window.
type TrendSeries struct {
	Region   string       `json:"region"`
	Points   []PricePoint `json:"points"`
	Smoothed []float64    `json:"smoothed,omitempty"`
}

// PriceTrendReport is the chart-ready per-drug trend payload.
type PriceTrendReport struct {
	DrugID   uuid.UUID     `json:"drug_id"`
	Drug     string        `json:"drug"`
	Window   int           `json:"window"`
	Series   []TrendSeries `json:"series"`
	Currency string        `json:"currency,omitempty"`
}

// HistogramBin is one equal-width bucket of a price distribution.
type HistogramBin struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}

// PriceDistributionReport is a histogram of current prices for a drug.
type PriceDistributionReport struct {
	DrugID uuid.UUID      `json:"drug_id"`
	Drug   string         `json:"drug"`
	Bins   []HistogramBin `json:"bins"`
	Total  int            `json:"total"`
}

// PriceDisparity summarizes the spread of one drug's prices across regions.
type PriceDisparity struct {
	DrugID     uuid.UUID `json:"drug_id" db:"drug_id"`
	Drug       string    `json:"drug" db:"drug_name"`
	PriceCount int       `json:"price_count" db:"price_count"`
	MinPrice   float64   `json:"min_price" db:"min_price"`
	MaxPrice   float64   `json:"max_price" db:"max_price"`
	AvgPrice   float64   `json:"avg_price" db:"avg_price"`
	Spread     float64   `json:"spread"`
	SpreadPct  float64   `json:"spread_pct"`
}

// PriceOutcomeRatio relates a treatment's cost to an observed outcome value.
// Lower is better; the ratio is inverted for outcomes where lower raw
// values are better.
type PriceOutcomeRatio struct {
	Treatment    string  `json:"treatment"`
	Outcome      string  `json:"outcome"`
	Measurement  float64 `json:"measurement"`
	Cost         float64 `json:"cost"`
	Ratio        float64 `json:"ratio"`
	Organization *string `json:"organization,omitempty"`
}

// CostEffectivenessRow joins a measurement with its treatment cost and the
// outcome's orientation, the raw input for ratio computation.
type CostEffectivenessRow struct {
	Treatment      string  `json:"treatment" db:"treatment_name"`
	AverageCost    float64 `json:"average_cost" db:"average_cost"`
	Outcome        string  `json:"outcome" db:"outcome_name"`
	HigherIsBetter bool    `json:"higher_is_better" db:"higher_is_better"`
	Value          float64 `json:"value" db:"value"`
	Organization   *string `json:"organization,omitempty" db:"organization_name"`
}

// WasteItem is one allocation priced significantly above the average unit
// cost for its resource.
type WasteItem struct {
	Organization    *string `json:"organization"`
	Department      *string `json:"department"`
	Resource        string  `json:"resource"`
	ActualUnitCost  float64 `json:"actual_unit_cost"`
	AverageUnitCost float64 `json:"average_unit_cost"`
	Quantity        float64 `json:"quantity"`
	ExcessCost      float64 `json:"excess_cost"`
	FiscalYear      string  `json:"fiscal_year"`
}

// BreakdownSlice is one labeled share of total spend.
type BreakdownSlice struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// AllocationBreakdown is spend aggregated by department and by resource,
// capped at the top ten slices plus an "Other" bucket.
type AllocationBreakdown struct {
	Departments     []BreakdownSlice `json:"departments"`
	Resources       []BreakdownSlice `json:"resources"`
	TotalAllocation float64          `json:"total_allocation"`
}

// ImportResult reports how a bulk dataset upload went.
type ImportResult struct {
	Imported int `json:"imported"`
	Failed   int `json:"failed"`
}
