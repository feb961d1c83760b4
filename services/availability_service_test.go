package services

import (
	"testing"
	"time"

	"rental-backend/models"
)

func statusFor(t *testing.T, statuses []DateStatus, day string) DateStatus {
	t.Helper()
	want := date(t, day)
	for _, st := range statuses {
		if st.Date.Equal(want) {
			return st
		}
	}
	t.Fatalf("date %s not in result", day)
	return DateStatus{}
}

func TestClassifyDatesSources(t *testing.T) {
	now := time.Now().UTC()
	rows := blockingRows{
		bookings: []models.Booking{{
			StartDate: date(t, "2025-06-02"), EndDate: date(t, "2025-06-04"),
			Status: models.BookingStatusConfirmed,
		}},
		external: []models.ExternalReservation{{
			StartDate: date(t, "2025-06-05"), EndDate: date(t, "2025-06-06"), Blocking: true,
		}},
		blackouts: []models.BlackoutDate{{
			StartDate: date(t, "2025-06-07"), EndDate: date(t, "2025-06-08"),
		}},
		holds: []models.Hold{{
			StartDate: date(t, "2025-06-09"), EndDate: date(t, "2025-06-10"),
			ReferenceID: "other-session", ExpiresAt: now.Add(time.Hour),
		}},
	}

	statuses := classifyDates(date(t, "2025-06-01"), date(t, "2025-06-11"), rows, "", now)
	if len(statuses) != 10 {
		t.Fatalf("expected 10 dates, got %d", len(statuses))
	}

	cases := map[string]string{
		"2025-06-01": "",
		"2025-06-02": SourceLocalBooking,
		"2025-06-03": SourceLocalBooking,
		"2025-06-04": "", // checkout day of the booking is free
		"2025-06-05": SourceExternalReservation,
		"2025-06-07": SourceBlackout,
		"2025-06-09": SourceHold,
		"2025-06-10": "",
	}
	for day, wantSource := range cases {
		st := statusFor(t, statuses, day)
		if wantSource == "" && !st.Available {
			t.Errorf("%s: expected available, blocked by %s", day, st.Source)
		}
		if wantSource != "" && (st.Available || st.Source != wantSource) {
			t.Errorf("%s: got available=%v source=%q, want blocked by %s",
				day, st.Available, st.Source, wantSource)
		}
	}
}

// Precedence only affects the reported reason: a date covered by both a
// booking and a hold reports the booking.
func TestClassifyDatesPrecedence(t *testing.T) {
	now := time.Now().UTC()
	rows := blockingRows{
		bookings: []models.Booking{{
			StartDate: date(t, "2025-06-02"), EndDate: date(t, "2025-06-03"),
		}},
		holds: []models.Hold{{
			StartDate: date(t, "2025-06-01"), EndDate: date(t, "2025-06-05"),
			ReferenceID: "abc", ExpiresAt: now.Add(time.Hour),
		}},
	}

	statuses := classifyDates(date(t, "2025-06-01"), date(t, "2025-06-05"), rows, "", now)
	if st := statusFor(t, statuses, "2025-06-02"); st.Source != SourceLocalBooking {
		t.Errorf("overlapping date reported %q, want %s", st.Source, SourceLocalBooking)
	}
	if st := statusFor(t, statuses, "2025-06-01"); st.Source != SourceHold {
		t.Errorf("hold-only date reported %q, want %s", st.Source, SourceHold)
	}
}

func TestClassifyDatesHoldExclusion(t *testing.T) {
	now := time.Now().UTC()
	rows := blockingRows{
		holds: []models.Hold{{
			StartDate: date(t, "2025-06-01"), EndDate: date(t, "2025-06-05"),
			ReferenceID: "abc", ExpiresAt: now.Add(time.Hour),
		}},
	}

	// A foreign session sees the hold.
	statuses := classifyDates(date(t, "2025-06-01"), date(t, "2025-06-05"), rows, "", now)
	if st := statusFor(t, statuses, "2025-06-03"); st.Available {
		t.Error("foreign session should see the hold as blocking")
	}

	// The session that owns the hold does not block itself.
	statuses = classifyDates(date(t, "2025-06-01"), date(t, "2025-06-05"), rows, "abc", now)
	for _, st := range statuses {
		if !st.Available {
			t.Errorf("own hold blocked %s", st.Date.Format("2006-01-02"))
		}
	}
}

func TestClassifyDatesExpiredHoldInert(t *testing.T) {
	now := time.Now().UTC()
	rows := blockingRows{
		holds: []models.Hold{{
			StartDate: date(t, "2025-06-01"), EndDate: date(t, "2025-06-05"),
			ReferenceID: "abc", ExpiresAt: now.Add(-time.Minute),
		}},
	}
	statuses := classifyDates(date(t, "2025-06-01"), date(t, "2025-06-05"), rows, "", now)
	for _, st := range statuses {
		if !st.Available {
			t.Errorf("expired hold blocked %s", st.Date.Format("2006-01-02"))
		}
	}
}
