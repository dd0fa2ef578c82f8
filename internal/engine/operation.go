package engine

import "register-schedule-backend/internal/model"

// Operation is the kind of register action being decided. It is the only
// vocabulary used in code; the persisted log labels are derived from it
// through PersistedLabel.
type Operation int

const (
	OpOpen Operation = iota
	OpClose
)

// String returns the short human-readable name.
func (op Operation) String() string {
	if op == OpClose {
		return "close"
	}
	return "open"
}

// PersistedLabel maps the operation onto the label stored in execution
// log rows.
func (op Operation) PersistedLabel() string {
	if op == OpClose {
		return model.OperationAutoClose
	}
	return model.OperationAutoOpen
}

// graceWindowMinutes returns the catch-up allowance after the configured
// boundary. Opening late is operationally more tolerable than closing
// late, so the open window is wider.
func (op Operation) graceWindowMinutes() int {
	if op == OpClose {
		return 60
	}
	return 120
}

// periodEnabled reports whether the period allows this operation.
func (op Operation) periodEnabled(p model.SchedulePeriod) bool {
	if op == OpClose {
		return p.AutoCloseEnabled
	}
	return p.AutoOpenEnabled
}

// targetMinutes returns the period boundary the operation anchors to, as
// minute-of-day.
func (op Operation) targetMinutes(p model.SchedulePeriod) int {
	if op == OpClose {
		return p.CloseMinutes()
	}
	return p.OpenMinutes()
}
