package repository

import (
	"time"

	"cpaptracker-service/internal/domain/entity"

	"gorm.io/gorm"
)

// Parts GORM model for database mapping
type Parts struct {
	ID                      uint   `gorm:"primaryKey"`
	Name                    string `gorm:"column:name;not null"`
	Category                string `gorm:"column:category;not null"`
	Manufacturer            string `gorm:"column:manufacturer"`
	CompatibleModel         string `gorm:"column:compatible_model;index"`
	RecommendedIntervalDays int    `gorm:"column:recommended_interval_days;not null"`
	Description             string `gorm:"column:description"`
	CreatedAt               time.Time
	UpdatedAt               time.Time

	Replacements []PartReplacements `gorm:"foreignKey:PartID;constraint:OnDelete:CASCADE"`
}

// TableName overrides the default table name
func (Parts) TableName() string {
	return "parts"
}

// PartReplacements GORM model for database mapping
type PartReplacements struct {
	ID                  uint       `gorm:"primaryKey"`
	PartID              uint       `gorm:"column:part_id;not null;index"`
	LastReplacedDate    time.Time  `gorm:"column:last_replaced_date;type:date;not null"`
	NextReplacementDate time.Time  `gorm:"column:next_replacement_date;type:date;not null"`
	IsOrdered           bool       `gorm:"column:is_ordered;not null"`
	OrderDate           *time.Time `gorm:"column:order_date;type:date"`
	OrderNotes          string     `gorm:"column:order_notes"`
	ReplacementNotes    string     `gorm:"column:replacement_notes"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// TableName overrides the default table name
func (PartReplacements) TableName() string {
	return "part_replacements"
}

// Equipments GORM model for database mapping
type Equipments struct {
	ID           uint      `gorm:"primaryKey"`
	Type         string    `gorm:"column:type;not null"`
	Manufacturer string    `gorm:"column:manufacturer"`
	Model        string    `gorm:"column:model;index"`
	SerialNumber string    `gorm:"column:serial_number"`
	PurchaseDate time.Time `gorm:"column:purchase_date;type:date"`
	Notes        string    `gorm:"column:notes"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName overrides the default table name
func (Equipments) TableName() string {
	return "equipment"
}

// AutoMigrate creates or updates the catalog and ledger tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&Equipments{}, &Parts{}, &PartReplacements{})
}

func partToEntity(m *Parts) *entity.Part {
	return &entity.Part{
		ID:                      m.ID,
		Name:                    m.Name,
		Category:                entity.PartCategory(m.Category),
		Manufacturer:            m.Manufacturer,
		CompatibleModel:         m.CompatibleModel,
		RecommendedIntervalDays: m.RecommendedIntervalDays,
		Description:             m.Description,
		CreatedAt:               m.CreatedAt,
		UpdatedAt:               m.UpdatedAt,
	}
}

func partFromEntity(p *entity.Part) Parts {
	return Parts{
		ID:                      p.ID,
		Name:                    p.Name,
		Category:                string(p.Category),
		Manufacturer:            p.Manufacturer,
		CompatibleModel:         p.CompatibleModel,
		RecommendedIntervalDays: p.RecommendedIntervalDays,
		Description:             p.Description,
	}
}

func replacementToEntity(m *PartReplacements) *entity.ReplacementEvent {
	return &entity.ReplacementEvent{
		ID:                  m.ID,
		PartID:              m.PartID,
		LastReplacedDate:    m.LastReplacedDate,
		NextReplacementDate: m.NextReplacementDate,
		IsOrdered:           m.IsOrdered,
		OrderDate:           m.OrderDate,
		OrderNotes:          m.OrderNotes,
		ReplacementNotes:    m.ReplacementNotes,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

func replacementFromEntity(e *entity.ReplacementEvent) PartReplacements {
	return PartReplacements{
		ID:                  e.ID,
		PartID:              e.PartID,
		LastReplacedDate:    e.LastReplacedDate,
		NextReplacementDate: e.NextReplacementDate,
		IsOrdered:           e.IsOrdered,
		OrderDate:           e.OrderDate,
		OrderNotes:          e.OrderNotes,
		ReplacementNotes:    e.ReplacementNotes,
	}
}

func equipmentToEntity(m *Equipments) *entity.Equipment {
	return &entity.Equipment{
		ID:           m.ID,
		Type:         entity.EquipmentType(m.Type),
		Manufacturer: m.Manufacturer,
		Model:        m.Model,
		SerialNumber: m.SerialNumber,
		PurchaseDate: m.PurchaseDate,
		Notes:        m.Notes,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
