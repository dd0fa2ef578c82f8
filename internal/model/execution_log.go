package model

import "time"

// Persisted labels for ExecutionLog.OperationType.
const (
	OperationAutoOpen  = "auto_open"
	OperationAutoClose = "auto_close"
)

// Persisted labels for ExecutionLog.Status.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// ExecutionLog is one append-only record of an attempted register action.
// The engine only reads this table; the executor path appends after acting.
type ExecutionLog struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ClientID      int64     `gorm:"index:idx_exec_client_op_time;not null" json:"client_id"`
	OperationType string    `gorm:"size:32;index:idx_exec_client_op_time;not null" json:"operation_type"`
	Status        string    `gorm:"size:16;not null" json:"status"`
	ExecutedTime  time.Time `gorm:"index:idx_exec_client_op_time;not null" json:"executed_time"`

	CashRegisterID *string    `gorm:"size:64" json:"cash_register_id,omitempty"`
	ScheduledTime  *time.Time `json:"scheduled_time,omitempty"`
	ErrorMessage   string     `gorm:"size:512" json:"error_message,omitempty"`
	ReportID       *string    `gorm:"size:64" json:"report_id,omitempty"`
	Notes          string     `gorm:"size:512" json:"notes,omitempty"`

	// SchedulePeriodID records which period justified the trigger. It is
	// persisted but not yet used for dedup filtering.
	SchedulePeriodID *int64 `json:"schedule_period_id,omitempty"`
}
