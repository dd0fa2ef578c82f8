package internal

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"register-schedule-backend/config"
	"register-schedule-backend/internal/db"
	"register-schedule-backend/internal/engine"
	"register-schedule-backend/internal/executor"
	"register-schedule-backend/internal/model"
	"register-schedule-backend/internal/poller"
	"register-schedule-backend/internal/store"
)

// recordingExecutor stands in for the register terminal.
type recordingExecutor struct {
	calls []engine.Operation
}

func (r *recordingExecutor) Execute(_ context.Context, _ int64, op engine.Operation, _ *model.SchedulePeriod) (*executor.Result, error) {
	r.calls = append(r.calls, op)
	return &executor.Result{ReportID: "rep-1", CashRegisterID: "reg-1"}, nil
}

// TestAutoOpenLifecycle walks a client through a full poll-tick
// lifecycle: eligible window, triggered execution, logged outcome, and
// suppression of the immediate re-trigger.
func TestAutoOpenLifecycle(t *testing.T) {
	gormDB, err := gorm.Open(sqlite.Open("file:lifecycle?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	defer sqlDB.Close()

	require.NoError(t, db.Migrate(gormDB))

	appStore := store.NewGormStore(gormDB, "UTC")
	ctx := context.Background()

	// Lazily creates the client config with defaults.
	clientCfg, err := appStore.GetOrCreateClientConfig(ctx, 42)
	require.NoError(t, err)
	require.True(t, clientCfg.AutoScheduleEnabled)

	period := model.SchedulePeriod{
		ClientID:        42,
		DayOfWeek:       3, // Wednesday
		PeriodName:      "morning",
		OpenHour:        9,
		CloseHour:       13,
		AutoOpenEnabled: true,
		IsActive:        true,
		PriorityOrder:   1,
	}
	require.NoError(t, appStore.UpsertPeriod(ctx, &period))

	decisionEngine := engine.New(appStore, appStore, appStore, zerolog.Nop())
	exec := &recordingExecutor{}
	cfg := &config.Config{
		Poller:     config.PollerConfig{Enabled: true, Interval: time.Minute, DefaultTimezone: "UTC"},
		WorkerPool: config.WorkerPoolConfig{Size: 1},
	}
	svc := poller.NewService(cfg, appStore, decisionEngine, exec, zerolog.Nop())

	// 2024-01-03 is a Wednesday; 09:45 falls inside the open grace window.
	tick := time.Date(2024, time.January, 3, 9, 45, 0, 0, time.UTC)
	svc.Poll(ctx, tick)

	require.Equal(t, []engine.Operation{engine.OpOpen}, exec.calls)

	entries, err := appStore.RecentSuccessLogs(ctx, 42, model.OperationAutoOpen, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, model.StatusSuccess, entries[0].Status)
	require.NotNil(t, entries[0].ReportID)
	assert.Equal(t, "rep-1", *entries[0].ReportID)
	require.NotNil(t, entries[0].SchedulePeriodID)
	assert.Equal(t, period.ID, *entries[0].SchedulePeriodID)

	// The next tick lands inside the dedup lookback; nothing fires.
	svc.Poll(ctx, tick.Add(time.Minute))
	require.Len(t, exec.calls, 1)

	entries, err = appStore.RecentSuccessLogs(ctx, 42, model.OperationAutoOpen, 10)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	// The projection reflects the executed open and the pending close.
	ops, err := decisionEngine.Project(ctx, 42, tick.Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, ops, 1) // close flag is off, only the open event exists
	assert.Equal(t, "open", ops[0].OperationName)
	assert.Equal(t, engine.StatusExecuted, ops[0].Status)
}

// TestDisabledClientNeverTriggers covers the auto-schedule kill switch
// end to end.
func TestDisabledClientNeverTriggers(t *testing.T) {
	gormDB, err := gorm.Open(sqlite.Open("file:disabled?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	defer sqlDB.Close()

	require.NoError(t, db.Migrate(gormDB))

	appStore := store.NewGormStore(gormDB, "UTC")
	ctx := context.Background()

	clientCfg, err := appStore.GetOrCreateClientConfig(ctx, 7)
	require.NoError(t, err)
	clientCfg.AutoScheduleEnabled = false
	require.NoError(t, appStore.SaveClientConfig(ctx, &clientCfg))

	period := model.SchedulePeriod{
		ClientID: 7, DayOfWeek: 3, PeriodName: "morning",
		OpenHour: 9, AutoOpenEnabled: true, IsActive: true, PriorityOrder: 1,
	}
	require.NoError(t, appStore.UpsertPeriod(ctx, &period))

	decisionEngine := engine.New(appStore, appStore, appStore, zerolog.Nop())
	exec := &recordingExecutor{}
	cfg := &config.Config{
		Poller:     config.PollerConfig{Enabled: true, Interval: time.Minute, DefaultTimezone: "UTC"},
		WorkerPool: config.WorkerPoolConfig{Size: 1},
	}
	svc := poller.NewService(cfg, appStore, decisionEngine, exec, zerolog.Nop())

	svc.Poll(ctx, time.Date(2024, time.January, 3, 9, 45, 0, 0, time.UTC))
	assert.Empty(t, exec.calls)
}
