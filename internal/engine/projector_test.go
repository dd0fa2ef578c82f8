package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"register-schedule-backend/internal/model"
)

func fullDayPeriods() []model.SchedulePeriod {
	return []model.SchedulePeriod{
		{
			ID: 1, ClientID: testClient, DayOfWeek: 3, PeriodName: "morning",
			OpenHour: 9, CloseHour: 13,
			AutoOpenEnabled: true, AutoCloseEnabled: true,
			IsActive: true, PriorityOrder: 1,
		},
		{
			ID: 2, ClientID: testClient, DayOfWeek: 3, PeriodName: "afternoon",
			OpenHour: 14, CloseHour: 18,
			AutoOpenEnabled: true, AutoCloseEnabled: true,
			IsActive: true, PriorityOrder: 2,
		},
	}
}

func TestProjectOrdering(t *testing.T) {
	f := &fakeStore{
		config:  model.ClientConfig{Timezone: "UTC", AutoScheduleEnabled: true},
		periods: fullDayPeriods(),
	}
	svc := newTestService(f)

	ops, err := svc.Project(context.Background(), testClient, wednesday(8, 0))
	require.NoError(t, err)
	require.Len(t, ops, 4)

	wantTimes := []time.Time{
		wednesday(9, 0), wednesday(13, 0), wednesday(14, 0), wednesday(18, 0),
	}
	wantOps := []string{"open", "close", "open", "close"}
	for i, so := range ops {
		assert.True(t, so.ScheduledTime.Equal(wantTimes[i]), "entry %d time", i)
		assert.Equal(t, wantOps[i], so.OperationName, "entry %d operation", i)
		assert.Equal(t, StatusScheduled, so.Status)
		assert.True(t, so.Enabled)
	}
	for i := 1; i < len(ops); i++ {
		assert.True(t, ops[i-1].ScheduledTime.Before(ops[i].ScheduledTime))
	}
}

func TestProjectSkipsDisabledFlags(t *testing.T) {
	periods := fullDayPeriods()
	periods[0].AutoCloseEnabled = false
	periods[1].AutoOpenEnabled = false
	f := &fakeStore{
		config:  model.ClientConfig{Timezone: "UTC", AutoScheduleEnabled: true},
		periods: periods,
	}
	svc := newTestService(f)

	ops, err := svc.Project(context.Background(), testClient, wednesday(8, 0))
	require.NoError(t, err)
	require.Len(t, ops, 2)
	assert.Equal(t, "open", ops[0].OperationName)
	assert.Equal(t, int64(1), ops[0].PeriodID)
	assert.Equal(t, "close", ops[1].OperationName)
	assert.Equal(t, int64(2), ops[1].PeriodID)
}

func TestProjectMarksExecutedOperations(t *testing.T) {
	f := &fakeStore{
		config:  model.ClientConfig{Timezone: "UTC", AutoScheduleEnabled: true},
		periods: fullDayPeriods(),
		logs: []model.ExecutionLog{{
			ClientID:      testClient,
			OperationType: model.OperationAutoOpen,
			Status:        model.StatusSuccess,
			ExecutedTime:  wednesday(9, 2),
		}},
	}
	svc := newTestService(f)

	ops, err := svc.Project(context.Background(), testClient, wednesday(10, 0))
	require.NoError(t, err)
	require.Len(t, ops, 4)
	for _, so := range ops {
		if so.OperationName == "open" {
			assert.True(t, so.ExecutedToday)
			assert.Equal(t, StatusExecuted, so.Status)
		} else {
			assert.False(t, so.ExecutedToday)
			assert.Equal(t, StatusScheduled, so.Status)
		}
	}
}

func TestProjectDayBoundsFollowClientTimezone(t *testing.T) {
	f := &fakeStore{
		config:  model.ClientConfig{Timezone: "UTC", AutoScheduleEnabled: true},
		periods: fullDayPeriods(),
		logs: []model.ExecutionLog{{
			ClientID:      testClient,
			OperationType: model.OperationAutoOpen,
			Status:        model.StatusSuccess,
			// 23:59 the previous day must not leak into today's status.
			ExecutedTime: time.Date(2024, time.January, 2, 23, 59, 0, 0, time.UTC),
		}},
	}
	svc := newTestService(f)

	ops, err := svc.Project(context.Background(), testClient, wednesday(10, 0))
	require.NoError(t, err)
	for _, so := range ops {
		assert.False(t, so.ExecutedToday)
	}
}

func TestProjectAnchorsToLocalToday(t *testing.T) {
	tokyo := model.SchedulePeriod{
		ID: 1, ClientID: testClient, DayOfWeek: 4, PeriodName: "morning",
		OpenHour: 9, CloseHour: 13,
		AutoOpenEnabled: true, IsActive: true, PriorityOrder: 1,
	}
	f := &fakeStore{
		config:  model.ClientConfig{Timezone: "Asia/Tokyo", AutoScheduleEnabled: true},
		periods: []model.SchedulePeriod{tokyo},
	}
	svc := newTestService(f)

	// 2024-01-03 22:00 UTC is already Thursday 07:00 in Tokyo.
	ops, err := svc.Project(context.Background(), testClient, wednesday(22, 0))
	require.NoError(t, err)
	require.Len(t, ops, 1)

	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	want := time.Date(2024, time.January, 4, 9, 0, 0, 0, loc)
	assert.True(t, ops[0].ScheduledTime.Equal(want))
}

func TestProjectIsIdempotent(t *testing.T) {
	f := &fakeStore{
		config:  model.ClientConfig{Timezone: "UTC", AutoScheduleEnabled: true},
		periods: fullDayPeriods(),
	}
	svc := newTestService(f)

	first, err := svc.Project(context.Background(), testClient, wednesday(8, 0))
	require.NoError(t, err)
	second, err := svc.Project(context.Background(), testClient, wednesday(8, 0))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestProjectInvalidTimezone(t *testing.T) {
	f := &fakeStore{
		config: model.ClientConfig{Timezone: "Nowhere/Void", AutoScheduleEnabled: true},
	}
	svc := newTestService(f)

	_, err := svc.Project(context.Background(), testClient, wednesday(8, 0))
	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}
