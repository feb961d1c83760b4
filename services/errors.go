package services

import "fmt"

// Blocking sources, in the precedence order availability reporting uses.
const (
	SourceLocalBooking        = "local_booking"
	SourceExternalReservation = "external_reservation"
	SourceBlackout            = "blackout"
	SourceHold                = "hold"
)

// ConflictError means the requested range is blocked. Callers get a
// uniform "dates unavailable" failure; Source keeps the precise cause for
// logs and diagnostics. Conflicts are never retried automatically.
type ConflictError struct {
	Source string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("dates unavailable: blocked by %s", e.Source)
}

// ValidationError rejects malformed input before any transaction opens.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErrorf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError marks a reference to a nonexistent property, calendar,
// booking, hold or coupon.
type NotFoundError struct {
	Resource string
	ID       interface{}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Resource, e.ID)
}

// SyncError wraps a reconciliation failure. The run is rolled back as a
// whole and the scheduler retries on its own cadence.
type SyncError struct {
	CalendarID uint
	Err        error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("calendar %d sync failed: %v", e.CalendarID, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}
