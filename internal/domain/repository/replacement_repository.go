package repository

import (
	"context"

	"cpaptracker-service/internal/domain/entity"
)

// ReplacementRepository is the append-only ledger of replacement events
type ReplacementRepository interface {
	ListEvents(ctx context.Context) ([]*entity.ReplacementEvent, error)
	ListEventsForPart(ctx context.Context, partID uint) ([]*entity.ReplacementEvent, error)
	Append(ctx context.Context, event *entity.ReplacementEvent) (uint, error)
	// Update persists the ordered flag and order fields of an existing event
	Update(ctx context.Context, event *entity.ReplacementEvent) error
	DeleteEventsForPart(ctx context.Context, partID uint) error
}

// SnapshotRepository reads parts and events as one consistent view
type SnapshotRepository interface {
	LoadSnapshot(ctx context.Context) (*entity.Snapshot, error)
}
