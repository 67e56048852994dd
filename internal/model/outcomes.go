package model

import (
	"time"

	"github.com/google/uuid"
)

// OutcomeCategory groups outcome metrics.
type OutcomeCategory struct {
	Base
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
}

// Outcome is a healthcare effectiveness metric. HigherIsBetter drives
// how cost-effectiveness ratios are oriented.
type Outcome struct {
	Base
	Name            string     `json:"name" db:"name"`
	Description     string     `json:"description" db:"description"`
	CategoryID      *uuid.UUID `json:"category_id,omitempty" db:"category_id"`
	MeasurementUnit string     `json:"measurement_unit" db:"measurement_unit"`
	HigherIsBetter  bool       `json:"higher_is_better" db:"higher_is_better"`
}

// Treatment is a medical procedure or drug regimen with an average cost.
type Treatment struct {
	Base
	Name        string     `json:"name" db:"name"`
	Description string     `json:"description" db:"description"`
	DrugID      *uuid.UUID `json:"drug_id,omitempty" db:"drug_id"`
	AverageCost float64    `json:"average_cost" db:"average_cost"`
}

// OutcomeMeasurement is an observed outcome value for a treatment,
// optionally attributed to an organization.
type OutcomeMeasurement struct {
	Base
	OutcomeID          uuid.UUID  `json:"outcome_id" db:"outcome_id"`
	TreatmentID        *uuid.UUID `json:"treatment_id,omitempty" db:"treatment_id"`
	OrganizationID     *uuid.UUID `json:"organization_id,omitempty" db:"organization_id"`
	Value              float64    `json:"value" db:"value"`
	ConfidenceInterval string     `json:"confidence_interval" db:"confidence_interval"`
	SampleSize         *int       `json:"sample_size,omitempty" db:"sample_size"`
	MeasurementDate    *time.Time `json:"measurement_date,omitempty" db:"measurement_date"`
	Source             string     `json:"source" db:"source"`
	OutcomeName        string     `json:"outcome,omitempty" db:"outcome_name"`
	TreatmentName      *string    `json:"treatment,omitempty" db:"treatment_name"`
	OrganizationName   *string    `json:"organization,omitempty" db:"organization_name"`
}

// MeasurementFilters narrows measurement listings.
type MeasurementFilters struct {
	OutcomeID      *uuid.UUID
	TreatmentID    *uuid.UUID
	OrganizationID *uuid.UUID
}
