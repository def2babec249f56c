package repository

import (
	"context"
	"errors"
	"fmt"

	"cpaptracker-service/internal/domain/entity"
	"cpaptracker-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormEquipmentRepository implements the EquipmentRepository interface
type GormEquipmentRepository struct {
	db *gorm.DB
}

// NewGormEquipmentRepository creates a new GORM equipment repository
func NewGormEquipmentRepository(db *gorm.DB) repository.EquipmentRepository {
	return &GormEquipmentRepository{
		db: db,
	}
}

// ListEquipment returns all equipment, most recently purchased first
func (r *GormEquipmentRepository) ListEquipment(ctx context.Context) ([]*entity.Equipment, error) {
	var equipment []Equipments
	result := r.db.WithContext(ctx).Order("purchase_date DESC").Find(&equipment)
	if result.Error != nil {
		return nil, result.Error
	}

	entities := make([]*entity.Equipment, 0, len(equipment))
	for i := range equipment {
		entities = append(entities, equipmentToEntity(&equipment[i]))
	}
	return entities, nil
}

// GetEquipment finds equipment by ID
func (r *GormEquipmentRepository) GetEquipment(ctx context.Context, id uint) (*entity.Equipment, error) {
	var equipment Equipments
	result := r.db.WithContext(ctx).First(&equipment, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("equipment %d: %w", id, entity.ErrUnknownEquipment)
		}
		return nil, result.Error
	}
	return equipmentToEntity(&equipment), nil
}

// CreateEquipment inserts new equipment
func (r *GormEquipmentRepository) CreateEquipment(ctx context.Context, equipment *entity.Equipment) error {
	model := Equipments{
		Type:         string(equipment.Type),
		Manufacturer: equipment.Manufacturer,
		Model:        equipment.Model,
		SerialNumber: equipment.SerialNumber,
		PurchaseDate: equipment.PurchaseDate,
		Notes:        equipment.Notes,
	}

	result := r.db.WithContext(ctx).Create(&model)
	if result.Error != nil {
		return result.Error
	}

	equipment.ID = model.ID
	equipment.CreatedAt = model.CreatedAt
	equipment.UpdatedAt = model.UpdatedAt
	return nil
}
