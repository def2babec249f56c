package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"cpaptracker-service/internal/domain/entity"
	"cpaptracker-service/internal/domain/repository"
	"cpaptracker-service/internal/domain/schedule"
	"cpaptracker-service/pkg/logger"
)

// PartTracker records replacements and orders and answers status queries
type PartTracker struct {
	parts     repository.PartRepository
	equipment repository.EquipmentRepository
	ledger    repository.ReplacementRepository
	snapshots repository.SnapshotRepository
	logger    logger.Logger
}

// NewPartTracker creates a new part tracker
func NewPartTracker(
	parts repository.PartRepository,
	equipment repository.EquipmentRepository,
	ledger repository.ReplacementRepository,
	snapshots repository.SnapshotRepository,
	logger logger.Logger,
) *PartTracker {
	return &PartTracker{
		parts:     parts,
		equipment: equipment,
		ledger:    ledger,
		snapshots: snapshots,
		logger:    logger,
	}
}

// InitResult summarizes an InitializeAllParts run
type InitResult struct {
	Initialized int `json:"initialized"`
	Skipped     int `json:"skipped"`
	Failed      int `json:"failed"`
}

// MarkPartReplaced appends a replacement event for the part.
// An unknown part id returns entity.ErrUnknownPart and writes nothing.
func (t *PartTracker) MarkPartReplaced(ctx context.Context, partID uint, replacedOn time.Time, notes string) (*entity.ReplacementEvent, error) {
	part, err := t.parts.GetPart(ctx, partID)
	if err != nil {
		return nil, err
	}

	event, err := schedule.MarkReplaced(part, replacedOn, notes)
	if err != nil {
		return nil, err
	}

	if _, err := t.ledger.Append(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to record replacement of part %d: %w", partID, err)
	}

	t.logger.Info("Part replaced",
		"partID", partID,
		"part", part.Name,
		"eventID", event.ID,
		"nextReplacementDate", event.NextReplacementDate.Format("2006-01-02"))

	return event, nil
}

// MarkPartOrdered flags the latest event of the part as ordered
func (t *PartTracker) MarkPartOrdered(ctx context.Context, partID uint, orderedOn time.Time, notes string) (*entity.ReplacementEvent, error) {
	part, err := t.parts.GetPart(ctx, partID)
	if err != nil {
		return nil, err
	}

	events, err := t.ledger.ListEventsForPart(ctx, partID)
	if err != nil {
		return nil, fmt.Errorf("failed to load history of part %d: %w", partID, err)
	}

	ordered, err := schedule.MarkOrdered(schedule.LatestEvent(events, partID), orderedOn, notes)
	if err != nil {
		return nil, fmt.Errorf("part %d (%s): %w", partID, part.Name, err)
	}

	if err := t.ledger.Update(ctx, ordered); err != nil {
		return nil, fmt.Errorf("failed to record order of part %d: %w", partID, err)
	}

	t.logger.Info("Part ordered",
		"partID", partID,
		"part", part.Name,
		"eventID", ordered.ID)

	return ordered, nil
}

// InitializePartSchedule seeds a baseline schedule for an untracked part.
// Returns nil when the part already has history.
func (t *PartTracker) InitializePartSchedule(ctx context.Context, partID uint, startDate time.Time) (*entity.ReplacementEvent, error) {
	part, err := t.parts.GetPart(ctx, partID)
	if err != nil {
		return nil, err
	}
	return t.initialize(ctx, part, startDate)
}

func (t *PartTracker) initialize(ctx context.Context, part *entity.Part, startDate time.Time) (*entity.ReplacementEvent, error) {
	events, err := t.ledger.ListEventsForPart(ctx, part.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load history of part %d: %w", part.ID, err)
	}

	event, err := schedule.InitializeSchedule(part, schedule.LatestEvent(events, part.ID), startDate)
	if err != nil || event == nil {
		return nil, err
	}

	if _, err := t.ledger.Append(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to initialize part %d: %w", part.ID, err)
	}
	return event, nil
}

// InitializeAllParts seeds a baseline schedule for every untracked part.
// A part that fails is logged and counted, the rest continue.
func (t *PartTracker) InitializeAllParts(ctx context.Context, startDate time.Time) (*InitResult, error) {
	parts, err := t.parts.ListParts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list parts: %w", err)
	}

	result := &InitResult{}
	for _, part := range parts {
		event, err := t.initialize(ctx, part, startDate)
		switch {
		case err != nil:
			result.Failed++
			t.logger.Error("Failed to initialize part schedule",
				"partID", part.ID,
				"part", part.Name,
				"error", err)
		case event == nil:
			result.Skipped++
		default:
			result.Initialized++
		}
	}

	t.logger.Info("Part schedules initialized",
		"initialized", result.Initialized,
		"skipped", result.Skipped,
		"failed", result.Failed)

	return result, nil
}

// AllWithStatus returns every part with its derived status at today
func (t *PartTracker) AllWithStatus(ctx context.Context, today time.Time) ([]entity.PartStatusView, error) {
	snapshot, err := t.snapshots.LoadSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return schedule.AllWithStatus(snapshot.Parts, snapshot.Events, today), nil
}

// Upcoming returns tracked parts due within horizonDays of today
func (t *PartTracker) Upcoming(ctx context.Context, today time.Time, horizonDays int) ([]entity.PartStatusView, error) {
	snapshot, err := t.snapshots.LoadSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return schedule.Upcoming(snapshot.Parts, snapshot.Events, today, horizonDays), nil
}

// PartStatus returns the status view of one part
func (t *PartTracker) PartStatus(ctx context.Context, partID uint, today time.Time) (*entity.PartStatusView, error) {
	part, err := t.parts.GetPart(ctx, partID)
	if err != nil {
		return nil, err
	}
	events, err := t.ledger.ListEventsForPart(ctx, partID)
	if err != nil {
		return nil, fmt.Errorf("failed to load history of part %d: %w", partID, err)
	}
	view := schedule.NewStatusView(part, schedule.LatestEvent(events, partID), today)
	return &view, nil
}

// History returns the replacement events of a part, newest first
func (t *PartTracker) History(ctx context.Context, partID uint) ([]*entity.ReplacementEvent, error) {
	if _, err := t.parts.GetPart(ctx, partID); err != nil {
		return nil, err
	}
	return t.ledger.ListEventsForPart(ctx, partID)
}

// ListParts returns the part catalog
func (t *PartTracker) ListParts(ctx context.Context) ([]*entity.Part, error) {
	return t.parts.ListParts(ctx)
}

// GetPart returns one part
func (t *PartTracker) GetPart(ctx context.Context, partID uint) (*entity.Part, error) {
	return t.parts.GetPart(ctx, partID)
}

// CreatePart validates and stores a new part
func (t *PartTracker) CreatePart(ctx context.Context, part *entity.Part) error {
	if err := validatePart(part); err != nil {
		return err
	}
	if err := t.parts.CreatePart(ctx, part); err != nil {
		return fmt.Errorf("failed to create part: %w", err)
	}
	t.logger.Info("Part created", "partID", part.ID, "part", part.Name)
	return nil
}

// UpdatePart validates and overwrites a part. Existing events keep their stored due dates.
func (t *PartTracker) UpdatePart(ctx context.Context, part *entity.Part) error {
	if err := validatePart(part); err != nil {
		return err
	}
	if err := t.parts.UpdatePart(ctx, part); err != nil {
		return err
	}
	t.logger.Info("Part updated", "partID", part.ID, "part", part.Name)
	return nil
}

// DeletePart removes a part and its replacement history
func (t *PartTracker) DeletePart(ctx context.Context, partID uint) error {
	if err := t.parts.DeletePart(ctx, partID); err != nil {
		return err
	}
	t.logger.Info("Part deleted", "partID", partID)
	return nil
}

// ListEquipment returns the user's equipment
func (t *PartTracker) ListEquipment(ctx context.Context) ([]*entity.Equipment, error) {
	return t.equipment.ListEquipment(ctx)
}

// PartsForEquipment returns the parts whose compatible model matches the equipment
func (t *PartTracker) PartsForEquipment(ctx context.Context, equipmentID uint) ([]*entity.Part, error) {
	equipment, err := t.equipment.GetEquipment(ctx, equipmentID)
	if err != nil {
		return nil, err
	}
	return t.parts.ListPartsByModel(ctx, equipment.Model)
}

// ErrInvalidPart is returned for a part with missing or malformed fields
var ErrInvalidPart = errors.New("invalid part")

func validatePart(part *entity.Part) error {
	if part == nil || part.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidPart)
	}
	if strings.IndexFunc(part.Name, unicode.IsControl) >= 0 {
		return fmt.Errorf("%w: name contains control characters", ErrInvalidPart)
	}
	if !part.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidPart, part.Category)
	}
	if part.RecommendedIntervalDays <= 0 {
		return fmt.Errorf("%w: got %d", entity.ErrInvalidInterval, part.RecommendedIntervalDays)
	}
	return nil
}
