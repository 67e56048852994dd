package model

import (
	"github.com/google/uuid"
)

// Recommendation classification values
const (
	ConfidenceHigh   = "High"
	ConfidenceMedium = "Medium"
	ConfidenceLow    = "Low"

	DifficultyHigh   = "High"
	DifficultyMedium = "Medium"
	DifficultyLow    = "Low"

	ImpactAreaCost       = "cost"
	ImpactAreaOutcome    = "outcome"
	ImpactAreaEfficiency = "efficiency"
)

// RecommendationType classifies recommendations by impact area.
type RecommendationType struct {
	Base
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
	ImpactArea  string `json:"impact_area" db:"impact_area"`
}

// Recommendation is a generated cost or outcome optimization suggestion
// with an estimated monetary impact.
type Recommendation struct {
	Base
	Title                    string     `json:"title" db:"title"`
	Description              string     `json:"description" db:"description"`
	TypeID                   *uuid.UUID `json:"type_id,omitempty" db:"type_id"`
	OrganizationID           *uuid.UUID `json:"organization_id,omitempty" db:"organization_id"`
	DepartmentID             *uuid.UUID `json:"department_id,omitempty" db:"department_id"`
	EstimatedImpact          float64    `json:"estimated_impact" db:"estimated_impact"`
	ImpactUnit               string     `json:"impact_unit" db:"impact_unit"`
	ConfidenceLevel          string     `json:"confidence_level" db:"confidence_level"`
	ImplementationDifficulty string     `json:"implementation_difficulty" db:"implementation_difficulty"`
	ImplementationTime       string     `json:"implementation_time" db:"implementation_time"`
	TypeName                 *string    `json:"type,omitempty" db:"type_name"`
	OrganizationName         *string    `json:"organization,omitempty" db:"organization_name"`
	DepartmentName           *string    `json:"department,omitempty" db:"department_name"`

	Actions []*RecommendedAction `json:"actions,omitempty" db:"-"`
}

// RecommendedAction is one ordered step toward implementing a recommendation.
type RecommendedAction struct {
	Base
	RecommendationID uuid.UUID `json:"recommendation_id" db:"recommendation_id"`
	Action           string    `json:"action" db:"action"`
	Position         int       `json:"position" db:"position"`
	ResponsibleRole  string    `json:"responsible_role" db:"responsible_role"`
	Timeframe        string    `json:"timeframe" db:"timeframe"`
}

// OptimizationInsight is an analysis finding backing one or more
// recommendations, with a typed JSON payload for charting.
type OptimizationInsight struct {
	Base
	Title          string     `json:"title" db:"title"`
	Description    string     `json:"description" db:"description"`
	InsightType    string     `json:"insight_type" db:"insight_type"`
	Data           JSONMap    `json:"data" db:"data"`
	OrganizationID *uuid.UUID `json:"organization_id,omitempty" db:"organization_id"`
}

// Insight types
const (
	InsightTypePricing  = "pricing"
	InsightTypeResource = "resource"
	InsightTypeOutcome  = "outcome"
)
