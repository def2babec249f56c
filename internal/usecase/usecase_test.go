package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"cpaptracker-service/internal/domain/entity"
	"cpaptracker-service/internal/interface/repository/memory"
	"cpaptracker-service/pkg/logger"
)

var day0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func day(n int) time.Time {
	return day0.AddDate(0, 0, n)
}

func newTestTracker() (*PartTracker, *memory.Store) {
	store := memory.NewStore()
	return NewPartTracker(store, store, store, store, logger.NewNopLogger()), store
}

type notifyCall struct {
	partName       string
	days           int
	notificationID int
}

// fakeNotifier records every call and fails for the configured part names
type fakeNotifier struct {
	mu     sync.Mutex
	calls  []notifyCall
	failOn map[string]bool
}

func (n *fakeNotifier) Notify(ctx context.Context, partName string, days int, notificationID int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, notifyCall{partName, days, notificationID})
	if n.failOn[partName] {
		return errors.New("delivery failed")
	}
	return nil
}

type failingSnapshots struct{}

func (failingSnapshots) LoadSnapshot(ctx context.Context) (*entity.Snapshot, error) {
	return nil, errors.New("connection refused")
}
