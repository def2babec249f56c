package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"cpaptracker-service/internal/domain/entity"
	"cpaptracker-service/internal/domain/repository"
)

// Store is an in-memory catalog, ledger and notification history.
// A single lock guards all collections so LoadSnapshot is consistent.
type Store struct {
	mu sync.RWMutex

	parts         map[uint]*entity.Part
	equipment     map[uint]*entity.Equipment
	events        []*entity.ReplacementEvent
	notifications []*entity.NotificationRecord

	nextPartID      uint
	nextEquipmentID uint
	nextEventID     uint

	now func() time.Time
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{
		parts:     make(map[uint]*entity.Part),
		equipment: make(map[uint]*entity.Equipment),
		now:       time.Now,
	}
}

// Verify interface compliance
var (
	_ repository.PartRepository         = (*Store)(nil)
	_ repository.EquipmentRepository    = (*Store)(nil)
	_ repository.ReplacementRepository  = (*Store)(nil)
	_ repository.SnapshotRepository     = (*Store)(nil)
	_ repository.NotificationRepository = (*Store)(nil)
)

func clonePart(p *entity.Part) *entity.Part {
	c := *p
	return &c
}

// ListParts returns every part ordered by name
func (s *Store) ListParts(ctx context.Context) ([]*entity.Part, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedPartsLocked(), nil
}

func (s *Store) sortedPartsLocked() []*entity.Part {
	parts := make([]*entity.Part, 0, len(s.parts))
	for _, p := range s.parts {
		parts = append(parts, clonePart(p))
	}
	sort.Slice(parts, func(i, j int) bool {
		if parts[i].Name == parts[j].Name {
			return parts[i].ID < parts[j].ID
		}
		return parts[i].Name < parts[j].Name
	})
	return parts
}

// GetPart finds a part by ID
func (s *Store) GetPart(ctx context.Context, id uint) (*entity.Part, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.parts[id]
	if !ok {
		return nil, fmt.Errorf("part %d: %w", id, entity.ErrUnknownPart)
	}
	return clonePart(p), nil
}

// ListPartsByModel finds the parts compatible with an equipment model
func (s *Store) ListPartsByModel(ctx context.Context, model string) ([]*entity.Part, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var parts []*entity.Part
	for _, p := range s.sortedPartsLocked() {
		if p.CompatibleModel == model {
			parts = append(parts, p)
		}
	}
	return parts, nil
}

// CreatePart inserts a new part
func (s *Store) CreatePart(ctx context.Context, part *entity.Part) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createPartLocked(part)
	return nil
}

// CreateParts inserts a batch of parts
func (s *Store) CreateParts(ctx context.Context, parts []*entity.Part) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range parts {
		s.createPartLocked(p)
	}
	return nil
}

func (s *Store) createPartLocked(part *entity.Part) {
	s.nextPartID++
	part.ID = s.nextPartID
	part.CreatedAt = s.now()
	part.UpdatedAt = part.CreatedAt
	s.parts[part.ID] = clonePart(part)
}

// UpdatePart overwrites the editable fields of a part
func (s *Store) UpdatePart(ctx context.Context, part *entity.Part) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.parts[part.ID]
	if !ok {
		return fmt.Errorf("part %d: %w", part.ID, entity.ErrUnknownPart)
	}
	updated := clonePart(part)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = s.now()
	s.parts[part.ID] = updated
	return nil
}

// DeletePart removes a part together with its replacement history
func (s *Store) DeletePart(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.parts[id]; !ok {
		return fmt.Errorf("part %d: %w", id, entity.ErrUnknownPart)
	}
	s.deleteEventsLocked(id)
	delete(s.parts, id)
	return nil
}

// ListEquipment returns all equipment, most recently purchased first
func (s *Store) ListEquipment(ctx context.Context) ([]*entity.Equipment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	equipment := make([]*entity.Equipment, 0, len(s.equipment))
	for _, e := range s.equipment {
		c := *e
		equipment = append(equipment, &c)
	}
	sort.Slice(equipment, func(i, j int) bool {
		if equipment[i].PurchaseDate.Equal(equipment[j].PurchaseDate) {
			return equipment[i].ID < equipment[j].ID
		}
		return equipment[i].PurchaseDate.After(equipment[j].PurchaseDate)
	})
	return equipment, nil
}

// GetEquipment finds equipment by ID
func (s *Store) GetEquipment(ctx context.Context, id uint) (*entity.Equipment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.equipment[id]
	if !ok {
		return nil, fmt.Errorf("equipment %d: %w", id, entity.ErrUnknownEquipment)
	}
	c := *e
	return &c, nil
}

// CreateEquipment inserts new equipment
func (s *Store) CreateEquipment(ctx context.Context, equipment *entity.Equipment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextEquipmentID++
	equipment.ID = s.nextEquipmentID
	equipment.CreatedAt = s.now()
	equipment.UpdatedAt = equipment.CreatedAt
	c := *equipment
	s.equipment[c.ID] = &c
	return nil
}

// ListEvents returns the whole ledger in insertion order
func (s *Store) ListEvents(ctx context.Context) ([]*entity.ReplacementEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.eventsLocked(), nil
}

func (s *Store) eventsLocked() []*entity.ReplacementEvent {
	events := make([]*entity.ReplacementEvent, 0, len(s.events))
	for _, e := range s.events {
		events = append(events, e.Clone())
	}
	return events
}

// ListEventsForPart returns the history of one part, newest first
func (s *Store) ListEventsForPart(ctx context.Context, partID uint) ([]*entity.ReplacementEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var events []*entity.ReplacementEvent
	for _, e := range s.events {
		if e.PartID == partID {
			events = append(events, e.Clone())
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].LastReplacedDate.Equal(events[j].LastReplacedDate) {
			return events[i].ID > events[j].ID
		}
		return events[i].LastReplacedDate.After(events[j].LastReplacedDate)
	})
	return events, nil
}

// Append inserts a new replacement event and returns its ID
func (s *Store) Append(ctx context.Context, event *entity.ReplacementEvent) (uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.parts[event.PartID]; !ok {
		return 0, fmt.Errorf("part %d: %w", event.PartID, entity.ErrUnknownPart)
	}

	s.nextEventID++
	event.ID = s.nextEventID
	event.CreatedAt = s.now()
	event.UpdatedAt = event.CreatedAt
	s.events = append(s.events, event.Clone())
	return event.ID, nil
}

// Update persists the order state of an existing event
func (s *Store) Update(ctx context.Context, event *entity.ReplacementEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.events {
		if e.ID != event.ID {
			continue
		}
		updated := e.Clone()
		ordered := event.Clone()
		updated.IsOrdered = ordered.IsOrdered
		updated.OrderDate = ordered.OrderDate
		updated.OrderNotes = ordered.OrderNotes
		updated.UpdatedAt = s.now()
		s.events[i] = updated
		return nil
	}
	return fmt.Errorf("replacement event %d not found", event.ID)
}

// DeleteEventsForPart removes the history of a part
func (s *Store) DeleteEventsForPart(ctx context.Context, partID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteEventsLocked(partID)
	return nil
}

func (s *Store) deleteEventsLocked(partID uint) {
	kept := s.events[:0]
	for _, e := range s.events {
		if e.PartID != partID {
			kept = append(kept, e)
		}
	}
	s.events = kept
}

// LoadSnapshot reads all parts and events under one lock
func (s *Store) LoadSnapshot(ctx context.Context) (*entity.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return &entity.Snapshot{
		Parts:  s.sortedPartsLocked(),
		Events: s.eventsLocked(),
	}, nil
}

// Save stores a delivery attempt
func (s *Store) Save(ctx context.Context, record *entity.NotificationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if record.CreatedAt.IsZero() {
		record.CreatedAt = s.now().UTC()
	}
	c := *record
	s.notifications = append(s.notifications, &c)
	return nil
}

// FindByRunID returns the deliveries of one sweep in notification order
func (s *Store) FindByRunID(ctx context.Context, runID string) ([]*entity.NotificationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []*entity.NotificationRecord
	for _, r := range s.notifications {
		if r.RunID == runID {
			c := *r
			records = append(records, &c)
		}
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].NotificationID < records[j].NotificationID
	})
	return records, nil
}

// FindRecent returns the latest deliveries, newest first
func (s *Store) FindRecent(ctx context.Context, limit int) ([]*entity.NotificationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}
	var records []*entity.NotificationRecord
	for i := len(s.notifications) - 1; i >= 0 && len(records) < limit; i-- {
		c := *s.notifications[i]
		records = append(records, &c)
	}
	return records, nil
}
