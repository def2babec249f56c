package repository

import (
	"context"

	"cpaptracker-service/internal/domain/entity"
)

// EquipmentRepository defines the catalog operations for equipment
type EquipmentRepository interface {
	ListEquipment(ctx context.Context) ([]*entity.Equipment, error)
	GetEquipment(ctx context.Context, id uint) (*entity.Equipment, error)
	CreateEquipment(ctx context.Context, equipment *entity.Equipment) error
}
