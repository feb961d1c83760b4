package services

import (
	"testing"

	"rental-backend/models"
)

func incoming(t *testing.T, uid, start, end, status, guest, title string) IncomingReservation {
	t.Helper()
	return IncomingReservation{
		UID:       uid,
		StartDate: date(t, start),
		EndDate:   date(t, end),
		Status:    status,
		GuestName: guest,
		Title:     title,
	}
}

func mirrored(t *testing.T, id uint, uid, start, end, status, guest, title string) models.ExternalReservation {
	t.Helper()
	return models.ExternalReservation{
		ID: id, CalendarID: 1, ExternalUID: uid,
		StartDate: date(t, start), EndDate: date(t, end),
		Status: status, Blocking: status != "canceled", GuestName: guest, Title: title,
	}
}

func TestPlanReconciliationInsertUpdateDelete(t *testing.T) {
	existing := []models.ExternalReservation{
		mirrored(t, 10, "uid-keep", "2025-07-01", "2025-07-05", "reserved", "A", "Stay"),
		mirrored(t, 11, "uid-move", "2025-08-01", "2025-08-03", "reserved", "B", "Stay"),
		mirrored(t, 12, "uid-gone", "2025-09-01", "2025-09-04", "reserved", "C", "Stay"),
	}
	feed := []IncomingReservation{
		incoming(t, "uid-keep", "2025-07-01", "2025-07-05", "reserved", "A", "Stay"),
		incoming(t, "uid-move", "2025-08-02", "2025-08-04", "reserved", "B", "Stay"),
		incoming(t, "uid-new", "2025-10-01", "2025-10-03", "reserved", "D", "Stay"),
	}

	plan := planReconciliation(1, existing, feed)

	if len(plan.inserts) != 1 || plan.inserts[0].ExternalUID != "uid-new" {
		t.Errorf("inserts = %+v, want uid-new only", plan.inserts)
	}
	if len(plan.updates) != 1 || plan.updates[0].ExternalUID != "uid-move" {
		t.Errorf("updates = %+v, want uid-move only", plan.updates)
	}
	if len(plan.updates) == 1 {
		if !plan.updates[0].StartDate.Equal(date(t, "2025-08-02")) {
			t.Errorf("update kept old start date %v", plan.updates[0].StartDate)
		}
		if plan.updates[0].ID != 11 {
			t.Errorf("update lost row identity: id %d", plan.updates[0].ID)
		}
	}
	if len(plan.deleteIDs) != 1 || plan.deleteIDs[0] != 12 {
		t.Errorf("deleteIDs = %v, want [12]", plan.deleteIDs)
	}
}

// Reconciliation must converge: once the mirror matches the feed, the
// same feed produces zero writes.
func TestPlanReconciliationIdempotent(t *testing.T) {
	feed := []IncomingReservation{
		incoming(t, "uid-1", "2025-07-01", "2025-07-05", "reserved", "A", "Stay"),
		incoming(t, "uid-2", "2025-08-01", "2025-08-03", "reserved", "B", "Stay"),
	}

	first := planReconciliation(1, nil, feed)
	if len(first.inserts) != 2 || len(first.updates) != 0 || len(first.deleteIDs) != 0 {
		t.Fatalf("first run: %d/%d/%d, want 2/0/0",
			len(first.inserts), len(first.updates), len(first.deleteIDs))
	}

	// Simulate the committed mirror and run again.
	mirror := first.inserts
	for i := range mirror {
		mirror[i].ID = uint(100 + i)
	}
	second := planReconciliation(1, mirror, feed)
	if len(second.inserts) != 0 || len(second.updates) != 0 || len(second.deleteIDs) != 0 {
		t.Errorf("second run not empty: %d/%d/%d",
			len(second.inserts), len(second.updates), len(second.deleteIDs))
	}
}

func TestPlanReconciliationStatusChange(t *testing.T) {
	existing := []models.ExternalReservation{
		mirrored(t, 20, "uid-x", "2025-07-01", "2025-07-05", "reserved", "A", "Stay"),
	}
	feed := []IncomingReservation{
		incoming(t, "uid-x", "2025-07-01", "2025-07-05", "canceled", "A", "Stay"),
	}

	plan := planReconciliation(1, existing, feed)
	if len(plan.updates) != 1 {
		t.Fatalf("expected 1 update, got %d", len(plan.updates))
	}
	if plan.updates[0].Blocking {
		t.Error("canceled reservation should no longer block")
	}
}

func TestPlanReconciliationEmptyFeedDeletesAll(t *testing.T) {
	existing := []models.ExternalReservation{
		mirrored(t, 30, "uid-a", "2025-07-01", "2025-07-05", "reserved", "A", "Stay"),
		mirrored(t, 31, "uid-b", "2025-08-01", "2025-08-05", "reserved", "B", "Stay"),
	}
	plan := planReconciliation(1, existing, nil)
	if len(plan.deleteIDs) != 2 {
		t.Errorf("deleteIDs = %v, want both rows", plan.deleteIDs)
	}
}

func TestPlanReconciliationSkipsBlankAndDuplicateUIDs(t *testing.T) {
	feed := []IncomingReservation{
		incoming(t, "", "2025-07-01", "2025-07-05", "reserved", "A", "Stay"),
		incoming(t, "uid-dup", "2025-07-01", "2025-07-05", "reserved", "A", "Stay"),
		incoming(t, "uid-dup", "2025-07-02", "2025-07-06", "reserved", "A", "Stay"),
	}
	plan := planReconciliation(1, nil, feed)
	if len(plan.inserts) != 1 {
		t.Errorf("inserts = %+v, want single uid-dup row", plan.inserts)
	}
}
