package model

import (
	"time"

	"github.com/google/uuid"
)

// DrugCategory groups drugs for catalog browsing and reporting.
type DrugCategory struct {
	Base
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
}

// Drug is a catalog record for a pharmaceutical product.
type Drug struct {
	Base
	Name         string     `json:"name" db:"name"`
	GenericName  string     `json:"generic_name" db:"generic_name"`
	Description  string     `json:"description" db:"description"`
	Manufacturer string     `json:"manufacturer" db:"manufacturer"`
	CategoryID   *uuid.UUID `json:"category_id,omitempty" db:"category_id"`
	CategoryName *string    `json:"category,omitempty" db:"category_name"`
}

// Region is a geographic market for price comparison.
type Region struct {
	Base
	Name    string `json:"name" db:"name"`
	Country string `json:"country" db:"country"`
	Code    string `json:"code" db:"code"`
}

// DrugPrice is a single (drug, region, date, price) observation.
type DrugPrice struct {
	Base
	DrugID     uuid.UUID `json:"drug_id" db:"drug_id"`
	RegionID   uuid.UUID `json:"region_id" db:"region_id"`
	Price      float64   `json:"price" db:"price"`
	Currency   string    `json:"currency" db:"currency"`
	PriceDate  time.Time `json:"price_date" db:"price_date"`
	PriceType  string    `json:"price_type" db:"price_type"`
	Source     string    `json:"source" db:"source"`
	DrugName   string    `json:"drug,omitempty" db:"drug_name"`
	RegionName string    `json:"region,omitempty" db:"region_name"`
}

// PriceAnalysis is a persisted analysis result (disparity, trend, markup)
// with a free-form JSON payload.
type PriceAnalysis struct {
	Base
	DrugID       *uuid.UUID `json:"drug_id,omitempty" db:"drug_id"`
	AnalysisType string     `json:"analysis_type" db:"analysis_type"`
	AnalysisData JSONMap    `json:"analysis_data" db:"analysis_data"`
}

// PriceFilters narrows price listings.
type PriceFilters struct {
	DrugID    *uuid.UUID
	RegionID  *uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time

	// zero means no limit
	Limit  int
	Offset int
}

// Price analysis types
const (
	AnalysisTypeDisparity = "disparity"
	AnalysisTypeTrend     = "trend"
	AnalysisTypeMarkup    = "markup"
)
