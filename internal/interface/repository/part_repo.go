package repository

import (
	"context"
	"errors"
	"fmt"

	"cpaptracker-service/internal/domain/entity"
	"cpaptracker-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormPartRepository implements the PartRepository interface
type GormPartRepository struct {
	db *gorm.DB
}

// NewGormPartRepository creates a new GORM part repository
func NewGormPartRepository(db *gorm.DB) repository.PartRepository {
	return &GormPartRepository{
		db: db,
	}
}

// ListParts returns every part ordered by name
func (r *GormPartRepository) ListParts(ctx context.Context) ([]*entity.Part, error) {
	var parts []Parts
	result := r.db.WithContext(ctx).Order("name ASC").Find(&parts)
	if result.Error != nil {
		return nil, result.Error
	}

	// Convert to domain entities
	entities := make([]*entity.Part, 0, len(parts))
	for i := range parts {
		entities = append(entities, partToEntity(&parts[i]))
	}
	return entities, nil
}

// GetPart finds a part by ID
func (r *GormPartRepository) GetPart(ctx context.Context, id uint) (*entity.Part, error) {
	var part Parts
	result := r.db.WithContext(ctx).First(&part, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("part %d: %w", id, entity.ErrUnknownPart)
		}
		return nil, result.Error
	}
	return partToEntity(&part), nil
}

// ListPartsByModel finds the parts compatible with an equipment model
func (r *GormPartRepository) ListPartsByModel(ctx context.Context, model string) ([]*entity.Part, error) {
	var parts []Parts
	result := r.db.WithContext(ctx).
		Where("compatible_model = ?", model).
		Order("name ASC").
		Find(&parts)
	if result.Error != nil {
		return nil, result.Error
	}

	entities := make([]*entity.Part, 0, len(parts))
	for i := range parts {
		entities = append(entities, partToEntity(&parts[i]))
	}
	return entities, nil
}

// CreatePart inserts a new part
func (r *GormPartRepository) CreatePart(ctx context.Context, part *entity.Part) error {
	model := partFromEntity(part)
	result := r.db.WithContext(ctx).Create(&model)
	if result.Error != nil {
		return result.Error
	}

	// Update the entity with the generated ID
	part.ID = model.ID
	part.CreatedAt = model.CreatedAt
	part.UpdatedAt = model.UpdatedAt
	return nil
}

// CreateParts inserts a batch of parts
func (r *GormPartRepository) CreateParts(ctx context.Context, parts []*entity.Part) error {
	if len(parts) == 0 {
		return nil
	}
	models := make([]Parts, 0, len(parts))
	for _, p := range parts {
		models = append(models, partFromEntity(p))
	}
	result := r.db.WithContext(ctx).Create(&models)
	if result.Error != nil {
		return result.Error
	}
	for i := range models {
		parts[i].ID = models[i].ID
		parts[i].CreatedAt = models[i].CreatedAt
		parts[i].UpdatedAt = models[i].UpdatedAt
	}
	return nil
}

// UpdatePart overwrites the editable fields of a part
func (r *GormPartRepository) UpdatePart(ctx context.Context, part *entity.Part) error {
	result := r.db.WithContext(ctx).Model(&Parts{}).
		Where("id = ?", part.ID).
		Updates(map[string]interface{}{
			"name":                      part.Name,
			"category":                  string(part.Category),
			"manufacturer":              part.Manufacturer,
			"compatible_model":          part.CompatibleModel,
			"recommended_interval_days": part.RecommendedIntervalDays,
			"description":               part.Description,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("part %d: %w", part.ID, entity.ErrUnknownPart)
	}
	return nil
}

// DeletePart removes a part together with its replacement history
func (r *GormPartRepository) DeletePart(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("part_id = ?", id).Delete(&PartReplacements{}).Error; err != nil {
			return fmt.Errorf("failed to delete replacement history: %w", err)
		}
		result := tx.Where("id = ?", id).Delete(&Parts{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("part %d: %w", id, entity.ErrUnknownPart)
		}
		return nil
	})
}
