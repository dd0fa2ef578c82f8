package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"register-schedule-backend/internal/model"
)

// Store defines the interface for all database operations the engine,
// poller and API depend on.
type Store interface {
	DB() *gorm.DB

	// GetOrCreateClientConfig lazily creates a default config row on first
	// read: server default timezone, auto schedule on, notifications off.
	GetOrCreateClientConfig(ctx context.Context, clientID int64) (model.ClientConfig, error)
	SaveClientConfig(ctx context.Context, cfg *model.ClientConfig) error
	ClientIDs(ctx context.Context) ([]int64, error)

	// PeriodsForDay returns the active periods of one weekday, ordered by
	// priority then open time.
	PeriodsForDay(ctx context.Context, clientID int64, dayOfWeek int) ([]model.SchedulePeriod, error)
	PeriodsForClient(ctx context.Context, clientID int64) ([]model.SchedulePeriod, error)
	UpsertPeriod(ctx context.Context, period *model.SchedulePeriod) error
	DeactivatePeriod(ctx context.Context, periodID int64) error

	// RecentSuccessLogs returns the newest success entries for one
	// operation type, executed_time descending.
	RecentSuccessLogs(ctx context.Context, clientID int64, operationType string, limit int) ([]model.ExecutionLog, error)
	LogsInRange(ctx context.Context, clientID int64, operationType, status string, start, end time.Time) ([]model.ExecutionLog, error)

	// AppendExecutionLog writes one append-only history row. Unlike the
	// read paths, its errors must reach the caller: a lost entry risks a
	// duplicate trigger on the next poll tick.
	AppendExecutionLog(ctx context.Context, entry *model.ExecutionLog) error

	SubscriptionsForClient(ctx context.Context, clientID int64) ([]model.PushSubscription, error)
	DeleteSubscription(ctx context.Context, endpoint string) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db              *gorm.DB
	defaultTimezone string
}

// NewGormStore creates a new GORM-backed store. defaultTimezone seeds
// lazily created client configs.
func NewGormStore(db *gorm.DB, defaultTimezone string) Store {
	return &gormStore{db: db, defaultTimezone: defaultTimezone}
}

// DB exposes the underlying connection for handlers that query directly.
func (s *gormStore) DB() *gorm.DB {
	return s.db
}

func (s *gormStore) GetOrCreateClientConfig(ctx context.Context, clientID int64) (model.ClientConfig, error) {
	var cfg model.ClientConfig
	err := s.db.WithContext(ctx).
		Where(&model.ClientConfig{ClientID: clientID}).
		Attrs(model.ClientConfig{
			ClientID:            clientID,
			Timezone:            s.defaultTimezone,
			AutoScheduleEnabled: true,
		}).
		FirstOrCreate(&cfg).Error
	if err != nil {
		return model.ClientConfig{}, fmt.Errorf("get or create config for client %d: %w", clientID, err)
	}
	return cfg, nil
}

func (s *gormStore) SaveClientConfig(ctx context.Context, cfg *model.ClientConfig) error {
	if err := s.db.WithContext(ctx).Save(cfg).Error; err != nil {
		return fmt.Errorf("save config for client %d: %w", cfg.ClientID, err)
	}
	return nil
}

func (s *gormStore) ClientIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := s.db.WithContext(ctx).
		Model(&model.ClientConfig{}).
		Order("client_id").
		Pluck("client_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list client ids: %w", err)
	}
	return ids, nil
}

func (s *gormStore) PeriodsForDay(ctx context.Context, clientID int64, dayOfWeek int) ([]model.SchedulePeriod, error) {
	var periods []model.SchedulePeriod
	err := s.db.WithContext(ctx).
		Where("client_id = ? AND day_of_week = ? AND is_active = ?", clientID, dayOfWeek, true).
		Order("priority_order, open_hour, open_minute").
		Find(&periods).Error
	if err != nil {
		return nil, fmt.Errorf("load periods for client %d day %d: %w", clientID, dayOfWeek, err)
	}
	return periods, nil
}

func (s *gormStore) PeriodsForClient(ctx context.Context, clientID int64) ([]model.SchedulePeriod, error) {
	var periods []model.SchedulePeriod
	err := s.db.WithContext(ctx).
		Where("client_id = ? AND is_active = ?", clientID, true).
		Order("day_of_week, priority_order, open_hour, open_minute").
		Find(&periods).Error
	if err != nil {
		return nil, fmt.Errorf("load periods for client %d: %w", clientID, err)
	}
	return periods, nil
}

func (s *gormStore) UpsertPeriod(ctx context.Context, period *model.SchedulePeriod) error {
	tx := s.db.WithContext(ctx)
	var err error
	if period.ID == 0 {
		err = tx.Create(period).Error
	} else {
		err = tx.Save(period).Error
	}
	if err != nil {
		return fmt.Errorf("upsert period for client %d: %w", period.ClientID, err)
	}
	return nil
}

// DeactivatePeriod soft-deletes a period. Rows are never hard-deleted so
// execution history keeps a valid reference.
func (s *gormStore) DeactivatePeriod(ctx context.Context, periodID int64) error {
	res := s.db.WithContext(ctx).
		Model(&model.SchedulePeriod{}).
		Where("id = ?", periodID).
		Update("is_active", false)
	if res.Error != nil {
		return fmt.Errorf("deactivate period %d: %w", periodID, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *gormStore) RecentSuccessLogs(ctx context.Context, clientID int64, operationType string, limit int) ([]model.ExecutionLog, error) {
	var entries []model.ExecutionLog
	err := s.db.WithContext(ctx).
		Where("client_id = ? AND operation_type = ? AND status = ?", clientID, operationType, model.StatusSuccess).
		Order("executed_time DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("load recent logs for client %d: %w", clientID, err)
	}
	return entries, nil
}

func (s *gormStore) LogsInRange(ctx context.Context, clientID int64, operationType, status string, start, end time.Time) ([]model.ExecutionLog, error) {
	var entries []model.ExecutionLog
	q := s.db.WithContext(ctx).
		Where("client_id = ? AND executed_time >= ? AND executed_time <= ?", clientID, start, end)
	if operationType != "" {
		q = q.Where("operation_type = ?", operationType)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("executed_time").Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("load logs in range for client %d: %w", clientID, err)
	}
	return entries, nil
}

func (s *gormStore) AppendExecutionLog(ctx context.Context, entry *model.ExecutionLog) error {
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("append execution log for client %d: %w", entry.ClientID, err)
	}
	return nil
}

func (s *gormStore) SubscriptionsForClient(ctx context.Context, clientID int64) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	err := s.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("load subscriptions for client %d: %w", clientID, err)
	}
	return subs, nil
}

func (s *gormStore) DeleteSubscription(ctx context.Context, endpoint string) error {
	if err := s.db.WithContext(ctx).Delete(&model.PushSubscription{Endpoint: endpoint}).Error; err != nil {
		return fmt.Errorf("delete subscription %s: %w", endpoint, err)
	}
	return nil
}
