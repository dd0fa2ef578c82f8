package engine

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"register-schedule-backend/internal/model"
)

// dedupLookback is the trailing window RecentlyExecuted checks before a
// trigger is allowed to fire again.
const dedupLookback = 5 * time.Minute

// Reason strings attached to declined decisions.
const (
	ReasonAutoScheduleDisabled = "auto schedule disabled"
	ReasonNoPeriods            = "no periods configured for day"
	ReasonNoMatchingWindow     = "no matching window"
	ReasonAlreadyExecuted      = "already executed"
	ReasonStoreUnavailable     = "store unavailable"
)

// ConfigSource resolves a client's settings, creating defaults on first
// read.
type ConfigSource interface {
	GetOrCreateClientConfig(ctx context.Context, clientID int64) (model.ClientConfig, error)
}

// PeriodCatalog lists the active periods of one client weekday, ordered by
// priority then open time.
type PeriodCatalog interface {
	PeriodsForDay(ctx context.Context, clientID int64, dayOfWeek int) ([]model.SchedulePeriod, error)
}

// Decision is the engine's answer to "should this operation fire now".
type Decision struct {
	ShouldExecute bool                  `json:"should_execute"`
	Period        *model.SchedulePeriod `json:"period,omitempty"`
	Reason        string                `json:"reason,omitempty"`
}

// Service is the schedule decision engine. It is stateless between calls;
// all state lives in the injected stores, so repeated calls without an
// intervening log write return identical results.
//
// The service does not serialize callers: at-most-once execution across
// overlapping decide/execute/log sequences for the same (client,
// operation) is the caller's responsibility.
type Service struct {
	configs ConfigSource
	periods PeriodCatalog
	guard   *Guard
	log     zerolog.Logger
}

// New creates a decision engine over the given collaborators.
func New(configs ConfigSource, periods PeriodCatalog, history ExecutionHistory, log zerolog.Logger) *Service {
	return &Service{
		configs: configs,
		periods: periods,
		guard:   NewGuard(history),
		log:     log,
	}
}

// Guard exposes the execution guard for callers that only need the
// history checks.
func (s *Service) Guard() *Guard {
	return s.guard
}

// Decide determines whether the operation should fire at now for the
// client. Store read failures fail closed: the decision declines with a
// diagnostic reason instead of propagating. The only hard error is a
// ConfigError for an unresolvable timezone.
func (s *Service) Decide(ctx context.Context, clientID int64, op Operation, now time.Time) (Decision, error) {
	cfg, err := s.configs.GetOrCreateClientConfig(ctx, clientID)
	if err != nil {
		s.log.Error().Err(err).Int64("client_id", clientID).Str("operation", op.String()).
			Msg("decision degraded: config read failed")
		return Decision{Reason: ReasonStoreUnavailable}, nil
	}

	if !cfg.AutoScheduleEnabled {
		return Decision{Reason: ReasonAutoScheduleDisabled}, nil
	}

	day, nowMinutes, err := Localize(now, cfg.Timezone)
	if err != nil {
		return Decision{}, &ConfigError{ClientID: clientID, Timezone: cfg.Timezone, Err: err}
	}

	periods, err := s.periods.PeriodsForDay(ctx, clientID, day)
	if err != nil {
		s.log.Error().Err(err).Int64("client_id", clientID).Str("operation", op.String()).
			Msg("decision degraded: period read failed")
		return Decision{Reason: ReasonStoreUnavailable}, nil
	}
	if len(periods) == 0 {
		return Decision{Reason: ReasonNoPeriods}, nil
	}

	// The catalog returns periods already ordered by priority then open
	// time; the first acceptable match wins.
	suppressed := false
	for _, p := range periods {
		if p.ID == 0 {
			// Without an identifier the guard cannot be consulted later;
			// skip the row and keep scanning.
			s.log.Warn().Int64("client_id", clientID).Str("period_name", p.PeriodName).
				Msg("skipping period with missing id")
			continue
		}
		if !op.periodEnabled(p) {
			continue
		}

		target := op.targetMinutes(p)
		if nowMinutes < target || nowMinutes > target+op.graceWindowMinutes() {
			continue
		}

		recent, err := s.guard.RecentlyExecuted(ctx, clientID, op, dedupLookback, now)
		if err != nil {
			s.log.Error().Err(err).Int64("client_id", clientID).Str("operation", op.String()).
				Msg("decision degraded: history read failed")
			return Decision{Reason: ReasonStoreUnavailable}, nil
		}
		if recent {
			// A later period of the same day may still be eligible, so
			// the scan continues instead of short-circuiting.
			suppressed = true
			continue
		}

		period := p
		return Decision{ShouldExecute: true, Period: &period}, nil
	}

	if suppressed {
		return Decision{Reason: ReasonAlreadyExecuted}, nil
	}
	return Decision{Reason: ReasonNoMatchingWindow}, nil
}
