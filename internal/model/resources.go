package model

import (
	"time"

	"github.com/google/uuid"
)

// Organization is a healthcare provider entity (hospital, clinic, pharmacy).
type Organization struct {
	Base
	Name        string     `json:"name" db:"name"`
	Type        string     `json:"type" db:"type"`
	Description string     `json:"description" db:"description"`
	Address     string     `json:"address" db:"address"`
	City        string     `json:"city" db:"city"`
	State       string     `json:"state" db:"state"`
	Country     string     `json:"country" db:"country"`
	PostalCode  string     `json:"postal_code" db:"postal_code"`
	RegionID    *uuid.UUID `json:"region_id,omitempty" db:"region_id"`
}

// Department is a unit within an organization carrying its own budget.
type Department struct {
	Base
	Name           string    `json:"name" db:"name"`
	Description    string    `json:"description" db:"description"`
	OrganizationID uuid.UUID `json:"organization_id" db:"organization_id"`
	Budget         float64   `json:"budget" db:"budget"`
	StaffCount     int       `json:"staff_count" db:"staff_count"`
}

// ResourceCategory groups resources (staffing, equipment, supplies).
type ResourceCategory struct {
	Base
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
}

// Resource is a purchasable or allocatable unit of spend.
type Resource struct {
	Base
	Name         string     `json:"name" db:"name"`
	Description  string     `json:"description" db:"description"`
	CategoryID   *uuid.UUID `json:"category_id,omitempty" db:"category_id"`
	UnitCost     float64    `json:"unit_cost" db:"unit_cost"`
	UnitType     string     `json:"unit_type" db:"unit_type"`
	CategoryName *string    `json:"category,omitempty" db:"category_name"`
}

// ResourceAllocation records spend of a resource by an organization or department.
type ResourceAllocation struct {
	Base
	OrganizationID   *uuid.UUID `json:"organization_id,omitempty" db:"organization_id"`
	DepartmentID     *uuid.UUID `json:"department_id,omitempty" db:"department_id"`
	ResourceID       uuid.UUID  `json:"resource_id" db:"resource_id"`
	Quantity         float64    `json:"quantity" db:"quantity"`
	TotalCost        float64    `json:"total_cost" db:"total_cost"`
	AllocationDate   time.Time  `json:"allocation_date" db:"allocation_date"`
	FiscalYear       string     `json:"fiscal_year" db:"fiscal_year"`
	OrganizationName *string    `json:"organization,omitempty" db:"organization_name"`
	DepartmentName   *string    `json:"department,omitempty" db:"department_name"`
	ResourceName     string     `json:"resource,omitempty" db:"resource_name"`
}

// AllocationFilters narrows allocation listings.
type AllocationFilters struct {
	OrganizationID *uuid.UUID
	FiscalYear     string
}
