package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cpaptracker-service/internal/domain/entity"
	"cpaptracker-service/internal/domain/repository"
	"cpaptracker-service/internal/domain/schedule"
	"cpaptracker-service/pkg/logger"
	"cpaptracker-service/pkg/metrics"

	"github.com/google/uuid"
)

// NotificationIDBase is the first notification id handed out in a sweep
const NotificationIDBase = 1000

// ErrSnapshotUnavailable marks a sweep that could not read its snapshot.
// The whole sweep may be retried.
var ErrSnapshotUnavailable = errors.New("reminder sweep snapshot unavailable")

// SweepResult summarizes one reminder sweep
type SweepResult struct {
	RunID             string    `json:"runId"`
	Today             time.Time `json:"today"`
	Selected          int       `json:"selected"`
	NotificationsSent int       `json:"notificationsSent"`
	Failures          int       `json:"failures"`
}

// ReminderSweep selects parts that need attention and notifies about each of them
type ReminderSweep struct {
	snapshots  repository.SnapshotRepository
	notifier   repository.Notifier
	history    repository.NotificationRepository
	metrics    *metrics.Metrics
	windowDays int
	logger     logger.Logger
	newRunID   func() string
}

// NewReminderSweep creates a new reminder sweep.
// history and m are optional and may be nil.
func NewReminderSweep(
	snapshots repository.SnapshotRepository,
	notifier repository.Notifier,
	history repository.NotificationRepository,
	m *metrics.Metrics,
	windowDays int,
	logger logger.Logger,
) *ReminderSweep {
	return &ReminderSweep{
		snapshots:  snapshots,
		notifier:   notifier,
		history:    history,
		metrics:    m,
		windowDays: windowDays,
		logger:     logger,
		newRunID:   uuid.NewString,
	}
}

// RunReminderSweep notifies once per selected part using a single snapshot read.
// A failed delivery is logged and counted and does not stop the sweep.
func (s *ReminderSweep) RunReminderSweep(ctx context.Context, today time.Time) (*SweepResult, error) {
	start := time.Now()
	runID := s.newRunID()
	log := s.logger.With("runID", runID)

	snapshot, err := s.snapshots.LoadSnapshot(ctx)
	if err != nil {
		log.Error("Failed to load snapshot for reminder sweep", "error", err)
		s.observeSweep("retry", start)
		return nil, fmt.Errorf("%w: %v", ErrSnapshotUnavailable, err)
	}

	s.recordStatusCounts(snapshot, today)

	reminders := schedule.SelectForNotification(snapshot.Parts, snapshot.Events, today, s.windowDays)
	result := &SweepResult{
		RunID:    runID,
		Today:    today,
		Selected: len(reminders),
	}

	log.Info("Reminder sweep started",
		"today", today.Format("2006-01-02"),
		"selected", len(reminders))

	for i, reminder := range reminders {
		if err := ctx.Err(); err != nil {
			log.Warn("Reminder sweep interrupted", "remaining", len(reminders)-i, "error", err)
			s.observeSweep("interrupted", start)
			return result, err
		}

		notificationID := NotificationIDBase + i
		record := &entity.NotificationRecord{
			RunID:                runID,
			NotificationID:       notificationID,
			PartID:               reminder.Part.ID,
			PartName:             reminder.Part.Name,
			DaysUntilReplacement: reminder.DaysUntilReplacement,
			Today:                today,
			Status:               entity.DeliverySent,
		}

		if err := s.notifier.Notify(ctx, reminder.Part.Name, reminder.DaysUntilReplacement, notificationID); err != nil {
			result.Failures++
			record.Status = entity.DeliveryFailed
			record.ErrorDetail = err.Error()
			if s.metrics != nil {
				s.metrics.NotificationFailures.Inc()
			}
			log.Error("Failed to deliver reminder",
				"partID", reminder.Part.ID,
				"notificationID", notificationID,
				"error", err)
		} else {
			result.NotificationsSent++
			if s.metrics != nil {
				s.metrics.NotificationsSent.Inc()
			}
			log.Debug("Reminder delivered",
				"partID", reminder.Part.ID,
				"notificationID", notificationID,
				"daysUntilReplacement", reminder.DaysUntilReplacement)
		}

		s.saveRecord(ctx, log, record)
	}

	s.observeSweep("success", start)
	log.Info("Reminder sweep finished",
		"sent", result.NotificationsSent,
		"failures", result.Failures,
		"duration", time.Since(start))

	return result, nil
}

func (s *ReminderSweep) saveRecord(ctx context.Context, log logger.Logger, record *entity.NotificationRecord) {
	if s.history == nil {
		return
	}
	if err := s.history.Save(ctx, record); err != nil {
		if s.metrics != nil {
			s.metrics.ErrorsCount.WithLabelValues("save_notification").Inc()
		}
		log.Warn("Failed to save notification record",
			"notificationID", record.NotificationID,
			"error", err)
	}
}

func (s *ReminderSweep) recordStatusCounts(snapshot *entity.Snapshot, today time.Time) {
	if s.metrics == nil {
		return
	}
	counts := map[entity.Status]int{
		entity.StatusNotTracked: 0,
		entity.StatusOverdue:    0,
		entity.StatusDueSoon:    0,
		entity.StatusOrdered:    0,
		entity.StatusOK:         0,
	}
	for _, view := range schedule.AllWithStatus(snapshot.Parts, snapshot.Events, today) {
		counts[view.Status]++
	}
	for status, n := range counts {
		s.metrics.PartsByStatus.WithLabelValues(string(status)).Set(float64(n))
	}
}

func (s *ReminderSweep) observeSweep(result string, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.SweepsTotal.WithLabelValues(result).Inc()
	s.metrics.SweepDuration.Observe(time.Since(start).Seconds())
}
