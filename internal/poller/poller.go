package poller

import (
	"context"
	"fmt"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"register-schedule-backend/config"
	"register-schedule-backend/internal/engine"
	"register-schedule-backend/internal/executor"
	"register-schedule-backend/internal/model"
	"register-schedule-backend/internal/notification"
)

// Store is the slice of the data store the poller needs.
type Store interface {
	notification.SubscriptionStore
	ClientIDs(ctx context.Context) ([]int64, error)
	GetOrCreateClientConfig(ctx context.Context, clientID int64) (model.ClientConfig, error)
	AppendExecutionLog(ctx context.Context, entry *model.ExecutionLog) error
}

// decisionEngine is the engine surface the poller consumes.
type decisionEngine interface {
	Decide(ctx context.Context, clientID int64, op engine.Operation, now time.Time) (engine.Decision, error)
	Project(ctx context.Context, clientID int64, now time.Time) ([]engine.ScheduledOperation, error)
}

// Service drives the fixed-cadence decision loop: one pass per interval
// over every known client and both operation types. Ticks are strictly
// sequential (the timer is re-armed only after a pass completes), which
// serializes the check-then-act-then-log sequence per client and keeps
// execution at-most-once.
type Service struct {
	cfg        *config.Config
	store      Store
	engine     decisionEngine
	exec       executor.Executor
	workerPool *notification.WorkerPool

	// sentReminders dedups push reminders; keys include the event date so
	// each (client, operation, period, day) reminds at most once.
	sentReminders *cache.Cache
	log           zerolog.Logger
}

// NewService creates and initializes a new poller service.
func NewService(cfg *config.Config, store Store, eng decisionEngine, exec executor.Executor, log zerolog.Logger) *Service {
	webpushOptions := webpush.Options{
		VAPIDPublicKey:  cfg.Push.PublicKey,
		VAPIDPrivateKey: cfg.Push.PrivateKey,
		Subscriber:      cfg.Push.Subject,
		TTL:             cfg.Push.TTL,
	}

	return &Service{
		cfg:           cfg,
		store:         store,
		engine:        eng,
		exec:          exec,
		workerPool:    notification.NewWorkerPool(cfg.WorkerPool.Size, store, &webpushOptions, log),
		sentReminders: cache.New(24*time.Hour, time.Hour),
		log:           log,
	}
}

// Run starts the polling loop and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) {
	if !s.cfg.Poller.Enabled {
		s.log.Info().Msg("poller is disabled, not starting")
		return
	}
	s.log.Info().Dur("interval", s.cfg.Poller.Interval).Msg("starting poller service")

	s.workerPool.Start(ctx)

	s.Poll(ctx, time.Now().UTC())

	timer := time.NewTimer(s.cfg.Poller.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("poller service shutting down")
			return
		case <-timer.C:
			s.Poll(ctx, time.Now().UTC())
			timer.Reset(s.cfg.Poller.Interval)
		}
	}
}

// Poll performs a single decision pass over every client at the given
// instant.
func (s *Service) Poll(ctx context.Context, now time.Time) {
	clientIDs, err := s.store.ClientIDs(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("poll pass aborted: failed to list clients")
		return
	}

	for _, clientID := range clientIDs {
		clientCfg, err := s.store.GetOrCreateClientConfig(ctx, clientID)
		if err != nil {
			s.log.Error().Err(err).Int64("client_id", clientID).Msg("skipping client: config read failed")
			continue
		}

		for _, op := range []engine.Operation{engine.OpOpen, engine.OpClose} {
			s.evaluate(ctx, clientCfg, op, now)
		}
		s.dispatchReminders(ctx, clientCfg, now)
	}
}

// evaluate runs one decision and, on a positive result, executes the
// action and appends the outcome to the execution log.
func (s *Service) evaluate(ctx context.Context, clientCfg model.ClientConfig, op engine.Operation, now time.Time) {
	clientID := clientCfg.ClientID

	dec, err := s.engine.Decide(ctx, clientID, op, now)
	if err != nil {
		s.log.Error().Err(err).Int64("client_id", clientID).Str("operation", op.String()).
			Msg("decision failed")
		return
	}
	if !dec.ShouldExecute {
		s.log.Debug().Int64("client_id", clientID).Str("operation", op.String()).
			Str("reason", dec.Reason).Msg("no trigger")
		return
	}

	entry := &model.ExecutionLog{
		ClientID:      clientID,
		OperationType: op.PersistedLabel(),
		ExecutedTime:  now,
	}
	if dec.Period != nil {
		periodID := dec.Period.ID
		entry.SchedulePeriodID = &periodID
		if at, ok := scheduledAt(clientCfg.Timezone, *dec.Period, op, now); ok {
			entry.ScheduledTime = &at
		}
	}

	result, execErr := s.exec.Execute(ctx, clientID, op, dec.Period)
	if execErr != nil {
		entry.Status = model.StatusFailure
		entry.ErrorMessage = execErr.Error()
		s.log.Error().Err(execErr).Int64("client_id", clientID).Str("operation", op.String()).
			Msg("register action failed")
	} else {
		entry.Status = model.StatusSuccess
		if result.ReportID != "" {
			reportID := result.ReportID
			entry.ReportID = &reportID
		}
		if result.CashRegisterID != "" {
			registerID := result.CashRegisterID
			entry.CashRegisterID = &registerID
		}
		s.log.Info().Int64("client_id", clientID).Str("operation", op.String()).
			Int64("period_id", dec.Period.ID).Msg("register action executed")
	}

	// A lost entry means the guard cannot see this execution, so the next
	// tick may re-trigger. Surface it loudly.
	if err := s.store.AppendExecutionLog(ctx, entry); err != nil {
		s.log.Error().Err(err).Int64("client_id", clientID).Str("operation", op.String()).
			Msg("execution log append failed, next tick may re-trigger")
	}
}

// dispatchReminders queues push reminders for operations coming up within
// the client's configured lead time.
func (s *Service) dispatchReminders(ctx context.Context, clientCfg model.ClientConfig, now time.Time) {
	if !clientCfg.NotificationEnabled || clientCfg.NotificationMinutesBefore <= 0 {
		return
	}

	ops, err := s.engine.Project(ctx, clientCfg.ClientID, now)
	if err != nil {
		s.log.Error().Err(err).Int64("client_id", clientCfg.ClientID).
			Msg("reminder projection failed")
		return
	}

	lead := time.Duration(clientCfg.NotificationMinutesBefore) * time.Minute
	for _, so := range ops {
		if so.ExecutedToday {
			continue
		}
		until := so.ScheduledTime.Sub(now)
		if until <= 0 || until > lead {
			continue
		}

		key := fmt.Sprintf("%d:%s:%d:%s",
			clientCfg.ClientID, so.OperationName, so.PeriodID, so.ScheduledTime.Format("2006-01-02"))
		if _, seen := s.sentReminders.Get(key); seen {
			continue
		}
		s.sentReminders.Set(key, struct{}{}, cache.DefaultExpiration)

		s.workerPool.Dispatch(notification.Reminder{
			ClientID:      clientCfg.ClientID,
			Operation:     so.OperationName,
			PeriodName:    so.PeriodName,
			ScheduledTime: so.ScheduledTime,
		})
	}
}

// scheduledAt resolves the period boundary being acted on to a concrete
// instant on the client-local day containing now.
func scheduledAt(timezone string, period model.SchedulePeriod, op engine.Operation, now time.Time) (time.Time, bool) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return time.Time{}, false
	}
	local := now.In(loc)
	hour, minute := period.OpenHour, period.OpenMinute
	if op == engine.OpClose {
		hour, minute = period.CloseHour, period.CloseMinute
	}
	return time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, loc), true
}
