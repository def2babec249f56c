package entity

import "time"

// EquipmentType defines the kind of equipment
type EquipmentType string

const (
	EquipmentBiPAPMachine EquipmentType = "BIPAP_MACHINE"
	EquipmentCPAPMachine  EquipmentType = "CPAP_MACHINE"
	EquipmentMask         EquipmentType = "MASK"
	EquipmentHumidifier   EquipmentType = "HUMIDIFIER"
)

// Equipment represents a machine or mask owned by the user.
// Parts are associated by matching Part.CompatibleModel against Model.
type Equipment struct {
	ID           uint          `json:"id"`
	Type         EquipmentType `json:"type"`
	Manufacturer string        `json:"manufacturer"`
	Model        string        `json:"model"`
	SerialNumber string        `json:"serialNumber"`
	PurchaseDate time.Time     `json:"purchaseDate"`
	Notes        string        `json:"notes"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}
