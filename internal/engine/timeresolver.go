package engine

import (
	"fmt"
	"time"
)

// ConfigError marks a client configuration problem the decision cannot
// proceed past, such as an unknown timezone name.
type ConfigError struct {
	ClientID int64
	Timezone string
	Err      error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("client %d: invalid timezone %q: %v", e.ClientID, e.Timezone, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Localize converts an instant into the named timezone's local weekday and
// minute-of-day. The weekday uses the Monday=1 .. Sunday=7 convention.
func Localize(t time.Time, timezone string) (dayOfWeek int, minuteOfDay int, err error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return 0, 0, err
	}
	local := t.In(loc)

	dayOfWeek = int(local.Weekday())
	if dayOfWeek == 0 {
		dayOfWeek = 7 // native Sunday=0 is remapped
	}
	minuteOfDay = local.Hour()*60 + local.Minute()
	return dayOfWeek, minuteOfDay, nil
}

// dayBounds returns the client-local [00:00:00, 23:59:59] range containing t.
func dayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	end := start.Add(24*time.Hour - time.Second)
	return start, end
}
