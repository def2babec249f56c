package repository

import (
	"context"
	"database/sql"
	"fmt"

	"cpaptracker-service/internal/domain/entity"
	"cpaptracker-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormReplacementRepository implements the ReplacementRepository interface
type GormReplacementRepository struct {
	db *gorm.DB
}

// NewGormReplacementRepository creates a new GORM replacement ledger
func NewGormReplacementRepository(db *gorm.DB) repository.ReplacementRepository {
	return &GormReplacementRepository{
		db: db,
	}
}

// ListEvents returns the whole ledger in insertion order
func (r *GormReplacementRepository) ListEvents(ctx context.Context) ([]*entity.ReplacementEvent, error) {
	var events []PartReplacements
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&events).Error; err != nil {
		return nil, err
	}
	return replacementsToEntities(events), nil
}

// ListEventsForPart returns the history of one part, newest first
func (r *GormReplacementRepository) ListEventsForPart(ctx context.Context, partID uint) ([]*entity.ReplacementEvent, error) {
	var events []PartReplacements
	result := r.db.WithContext(ctx).
		Where("part_id = ?", partID).
		Order("last_replaced_date DESC, id DESC").
		Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}
	return replacementsToEntities(events), nil
}

// Append inserts a new replacement event and returns its ID
func (r *GormReplacementRepository) Append(ctx context.Context, event *entity.ReplacementEvent) (uint, error) {
	model := replacementFromEntity(event)
	model.ID = 0

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return 0, err
	}

	event.ID = model.ID
	event.CreatedAt = model.CreatedAt
	event.UpdatedAt = model.UpdatedAt
	return model.ID, nil
}

// Update persists the order state of an existing event
func (r *GormReplacementRepository) Update(ctx context.Context, event *entity.ReplacementEvent) error {
	result := r.db.WithContext(ctx).Model(&PartReplacements{}).
		Where("id = ?", event.ID).
		Updates(map[string]interface{}{
			"is_ordered":  event.IsOrdered,
			"order_date":  event.OrderDate,
			"order_notes": event.OrderNotes,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("replacement event %d not found", event.ID)
	}
	return nil
}

// DeleteEventsForPart removes the history of a part
func (r *GormReplacementRepository) DeleteEventsForPart(ctx context.Context, partID uint) error {
	return r.db.WithContext(ctx).Where("part_id = ?", partID).Delete(&PartReplacements{}).Error
}

// GormSnapshotRepository reads the catalog and ledger inside one read-only transaction
type GormSnapshotRepository struct {
	db *gorm.DB
}

// NewGormSnapshotRepository creates a new GORM snapshot reader
func NewGormSnapshotRepository(db *gorm.DB) repository.SnapshotRepository {
	return &GormSnapshotRepository{
		db: db,
	}
}

// LoadSnapshot reads all parts and events as of the same instant
func (r *GormSnapshotRepository) LoadSnapshot(ctx context.Context) (*entity.Snapshot, error) {
	var parts []Parts
	var events []PartReplacements

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Order("name ASC").Find(&parts).Error; err != nil {
			return fmt.Errorf("failed to read parts: %w", err)
		}
		if err := tx.Order("id ASC").Find(&events).Error; err != nil {
			return fmt.Errorf("failed to read replacement events: %w", err)
		}
		return nil
	}, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, err
	}

	snapshot := &entity.Snapshot{
		Parts:  make([]*entity.Part, 0, len(parts)),
		Events: replacementsToEntities(events),
	}
	for i := range parts {
		snapshot.Parts = append(snapshot.Parts, partToEntity(&parts[i]))
	}
	return snapshot, nil
}

func replacementsToEntities(events []PartReplacements) []*entity.ReplacementEvent {
	entities := make([]*entity.ReplacementEvent, 0, len(events))
	for i := range events {
		entities = append(entities, replacementToEntity(&events[i]))
	}
	return entities
}
