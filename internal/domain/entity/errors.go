package entity

import "errors"

var (
	// ErrInvalidInterval is returned when a part's recommended interval is not positive
	ErrInvalidInterval = errors.New("invalid interval configuration: recommended interval days must be positive")

	// ErrNoReplacementHistory is returned when ordering a part that was never replaced
	ErrNoReplacementHistory = errors.New("no replacement history for part")

	// ErrUnknownPart is returned when a part id is not in the catalog
	ErrUnknownPart = errors.New("unknown part")
)

// ErrUnknownEquipment is returned when an equipment id is not in the catalog
var ErrUnknownEquipment = errors.New("unknown equipment")
