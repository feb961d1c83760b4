package events

import "time"

// Event is anything the engine announces to downstream consumers
// (notification senders, analytics, channel managers).
type Event interface {
	EventName() string
	AggregateID() string
	OccurredAt() time.Time
}

type BookingConfirmed struct {
	BookingID  uint      `json:"booking_id"`
	PropertyID uint      `json:"property_id"`
	Reference  string    `json:"reference"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	Total      float64   `json:"total"`
	Currency   string    `json:"currency"`
	At         time.Time `json:"at"`
}

func (e BookingConfirmed) EventName() string     { return "booking.confirmed" }
func (e BookingConfirmed) AggregateID() string   { return e.Reference }
func (e BookingConfirmed) OccurredAt() time.Time { return e.At }

type BookingCanceled struct {
	BookingID  uint      `json:"booking_id"`
	PropertyID uint      `json:"property_id"`
	Reference  string    `json:"reference"`
	At         time.Time `json:"at"`
}

func (e BookingCanceled) EventName() string     { return "booking.canceled" }
func (e BookingCanceled) AggregateID() string   { return e.Reference }
func (e BookingCanceled) OccurredAt() time.Time { return e.At }

type CalendarSynced struct {
	CalendarID uint      `json:"calendar_id"`
	Platform   string    `json:"platform"`
	Imported   int       `json:"imported"`
	Updated    int       `json:"updated"`
	Deleted    int       `json:"deleted"`
	At         time.Time `json:"at"`
}

func (e CalendarSynced) EventName() string     { return "calendar.synced" }
func (e CalendarSynced) AggregateID() string   { return "" }
func (e CalendarSynced) OccurredAt() time.Time { return e.At }
