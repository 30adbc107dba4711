package models

import (
	"time"

	"github.com/google/uuid"
)

// Cost factor types mirror the admin cost-breakdown screens.
const (
	FactorTypeMaterials = "materials"
	FactorTypeLabor     = "labor"
	FactorTypeEnergy    = "energy"
	FactorTypeEquipment = "equipment"
)

// Price factor annotation types. Rows of these types describe pricing
// analysis and never contribute to the retail price roll-up.
const (
	FactorTypeAnalysis = "analysis"
	FactorTypeMeta     = "meta"
)

// CostFactor is one itemized line contributing to an item's computed cost.
type CostFactor struct {
	ID         uuid.UUID `json:"id" db:"id"`
	SKU        string    `json:"sku" db:"sku"`
	FactorType string    `json:"factor_type" db:"factor_type"`
	Label      string    `json:"label" db:"label"`
	Amount     float64   `json:"amount" db:"amount"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// PriceFactor is one itemized line contributing to an item's retail price,
// or an annotation row (analysis/meta) excluded from the roll-up.
type PriceFactor struct {
	ID         uuid.UUID `json:"id" db:"id"`
	SKU        string    `json:"sku" db:"sku"`
	FactorType string    `json:"factor_type" db:"factor_type"`
	Label      string    `json:"label" db:"label"`
	Amount     float64   `json:"amount" db:"amount"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// CostBreakdown groups an item's cost factors by type with per-type totals.
type CostBreakdown struct {
	Materials []*CostFactor `json:"materials"`
	Labor     []*CostFactor `json:"labor"`
	Energy    []*CostFactor `json:"energy"`
	Equipment []*CostFactor `json:"equipment"`
	Totals    CostTotals    `json:"totals"`
}

type CostTotals struct {
	MaterialTotal  float64 `json:"materialTotal"`
	LaborTotal     float64 `json:"laborTotal"`
	EnergyTotal    float64 `json:"energyTotal"`
	EquipmentTotal float64 `json:"equipmentTotal"`
	SuggestedCost  float64 `json:"suggestedCost"`
}

// ValidCostFactorType reports whether t names a cost component table section.
func ValidCostFactorType(t string) bool {
	switch t {
	case FactorTypeMaterials, FactorTypeLabor, FactorTypeEnergy, FactorTypeEquipment:
		return true
	}
	return false
}

// AnnotationFactorType reports whether t is excluded from price roll-ups.
func AnnotationFactorType(t string) bool {
	return t == FactorTypeAnalysis || t == FactorTypeMeta
}
