package engine

import (
	"context"
	"sort"
	"time"
)

// Status labels on projected schedule entries.
const (
	StatusScheduled = "scheduled"
	StatusExecuted  = "executed"
)

// ScheduledOperation is one expected open or close event of the client's
// local today.
type ScheduledOperation struct {
	Operation     Operation `json:"-"`
	OperationName string    `json:"operation"`
	ScheduledTime time.Time `json:"scheduled_time"`
	PeriodID      int64     `json:"period_id"`
	PeriodName    string    `json:"period_name"`
	Enabled       bool      `json:"enabled"`
	ExecutedToday bool      `json:"executed_today"`
	Status        string    `json:"status"`
}

// Project enumerates today's expected open/close events for the client,
// with execution status. Purely informational: it never gates the trigger
// decision. Unlike Decide, store failures propagate so the reporting
// surface can distinguish "nothing scheduled" from "store failed".
func (s *Service) Project(ctx context.Context, clientID int64, now time.Time) ([]ScheduledOperation, error) {
	cfg, err := s.configs.GetOrCreateClientConfig(ctx, clientID)
	if err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, &ConfigError{ClientID: clientID, Timezone: cfg.Timezone, Err: err}
	}

	local := now.In(loc)
	day := int(local.Weekday())
	if day == 0 {
		day = 7
	}
	// Day bounds are anchored to the client's timezone, consistent with
	// window matching.
	dayStart, dayEnd := dayBounds(now, loc)

	periods, err := s.periods.PeriodsForDay(ctx, clientID, day)
	if err != nil {
		return nil, err
	}

	executed := map[Operation]bool{}
	for _, op := range []Operation{OpOpen, OpClose} {
		done, err := s.guard.ExecutedToday(ctx, clientID, op, dayStart, dayEnd)
		if err != nil {
			return nil, err
		}
		executed[op] = done
	}

	var out []ScheduledOperation
	for _, p := range periods {
		if p.AutoOpenEnabled {
			out = append(out, s.scheduledOperation(OpOpen, p.ID, p.PeriodName,
				time.Date(local.Year(), local.Month(), local.Day(), p.OpenHour, p.OpenMinute, 0, 0, loc),
				executed[OpOpen]))
		}
		if p.AutoCloseEnabled {
			out = append(out, s.scheduledOperation(OpClose, p.ID, p.PeriodName,
				time.Date(local.Year(), local.Month(), local.Day(), p.CloseHour, p.CloseMinute, 0, 0, loc),
				executed[OpClose]))
		}
	}

	// Stable keeps insertion order for entries at the same minute.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ScheduledTime.Before(out[j].ScheduledTime)
	})
	return out, nil
}

func (s *Service) scheduledOperation(op Operation, periodID int64, periodName string, at time.Time, executed bool) ScheduledOperation {
	status := StatusScheduled
	if executed {
		status = StatusExecuted
	}
	return ScheduledOperation{
		Operation:     op,
		OperationName: op.String(),
		ScheduledTime: at,
		PeriodID:      periodID,
		PeriodName:    periodName,
		Enabled:       true,
		ExecutedToday: executed,
		Status:        status,
	}
}
