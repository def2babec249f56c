package entity

import "time"

// PartCategory identifies the kind of replaceable component
type PartCategory string

const (
	CategoryMaskCushion      PartCategory = "MASK_CUSHION"
	CategoryMaskFrame        PartCategory = "MASK_FRAME"
	CategoryHeadgear         PartCategory = "HEADGEAR"
	CategoryAirFilter        PartCategory = "AIR_FILTER"
	CategoryWaterChamber     PartCategory = "WATER_CHAMBER"
	CategoryTubing           PartCategory = "TUBING"
	CategoryElbowConnector   PartCategory = "ELBOW_CONNECTOR"
	CategoryChinstrap        PartCategory = "CHINSTRAP"
	CategoryHumidifierFilter PartCategory = "HUMIDIFIER_FILTER"
)

// PartCategories lists every supported category
var PartCategories = []PartCategory{
	CategoryMaskCushion,
	CategoryMaskFrame,
	CategoryHeadgear,
	CategoryAirFilter,
	CategoryWaterChamber,
	CategoryTubing,
	CategoryElbowConnector,
	CategoryChinstrap,
	CategoryHumidifierFilter,
}

// Valid reports whether c is one of the known categories
func (c PartCategory) Valid() bool {
	for _, known := range PartCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Manufacturer recommended replacement intervals, in days
const (
	MaskCushionDays    = 30
	MaskFrameDays      = 180
	HeadgearDays       = 180
	AirFilterDays      = 30
	WaterChamberDays   = 180
	TubingDays         = 90
	ElbowConnectorDays = 180
)

// Part represents a replaceable component of CPAP/BiPAP equipment
type Part struct {
	ID                      uint         `json:"id"`
	Name                    string       `json:"name"`
	Category                PartCategory `json:"category"`
	Manufacturer            string       `json:"manufacturer"`
	CompatibleModel         string       `json:"compatibleModel"`
	RecommendedIntervalDays int          `json:"recommendedIntervalDays"`
	Description             string       `json:"description"`
	CreatedAt               time.Time    `json:"createdAt"`
	UpdatedAt               time.Time    `json:"updatedAt"`
}
