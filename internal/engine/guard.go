package engine

import (
	"context"
	"time"

	"register-schedule-backend/internal/model"
)

// recentLogFetchLimit caps how many success entries the recency check
// inspects; anything older than the newest ten cannot fall inside the
// short lookback windows used here.
const recentLogFetchLimit = 10

// ExecutionHistory is the read-only view of the execution log the guard
// needs.
type ExecutionHistory interface {
	RecentSuccessLogs(ctx context.Context, clientID int64, operationType string, limit int) ([]model.ExecutionLog, error)
	LogsInRange(ctx context.Context, clientID int64, operationType, status string, start, end time.Time) ([]model.ExecutionLog, error)
}

// Guard answers whether an operation is already satisfied by execution
// history. Both checks are keyed by (client, operation type) only: a
// success for any period suppresses all periods of the same type. Scoping
// dedup to the triggering period is a known pending question.
type Guard struct {
	history ExecutionHistory
}

// NewGuard creates a guard over the given history reader.
func NewGuard(history ExecutionHistory) *Guard {
	return &Guard{history: history}
}

// RecentlyExecuted reports whether a success entry for the operation falls
// within the trailing lookback window ending at now.
func (g *Guard) RecentlyExecuted(ctx context.Context, clientID int64, op Operation, lookback time.Duration, now time.Time) (bool, error) {
	entries, err := g.history.RecentSuccessLogs(ctx, clientID, op.PersistedLabel(), recentLogFetchLimit)
	if err != nil {
		return false, err
	}
	cutoff := now.Add(-lookback)
	for _, e := range entries {
		if !e.ExecutedTime.Before(cutoff) {
			return true, nil
		}
	}
	return false, nil
}

// ExecutedToday reports whether a success entry falls within the given day
// range. Used for schedule status display only, never for the trigger
// decision.
func (g *Guard) ExecutedToday(ctx context.Context, clientID int64, op Operation, dayStart, dayEnd time.Time) (bool, error) {
	entries, err := g.history.LogsInRange(ctx, clientID, op.PersistedLabel(), model.StatusSuccess, dayStart, dayEnd)
	if err != nil {
		return false, err
	}
	return len(entries) > 0, nil
}
