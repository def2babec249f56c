package repository

import (
	"context"

	"cpaptracker-service/internal/domain/entity"
)

// PartRepository defines the catalog operations for parts
type PartRepository interface {
	ListParts(ctx context.Context) ([]*entity.Part, error)
	// GetPart returns entity.ErrUnknownPart when id is not in the catalog
	GetPart(ctx context.Context, id uint) (*entity.Part, error)
	ListPartsByModel(ctx context.Context, model string) ([]*entity.Part, error)
	CreatePart(ctx context.Context, part *entity.Part) error
	CreateParts(ctx context.Context, parts []*entity.Part) error
	UpdatePart(ctx context.Context, part *entity.Part) error
	// DeletePart removes the part and cascades to its replacement events
	DeletePart(ctx context.Context, id uint) error
}
