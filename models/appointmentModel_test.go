package models

import (
	"testing"
	"time"
)

func TestCanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusPending, StatusNoShow, false},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusNoShow, true},
		{StatusConfirmed, StatusPending, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
		{StatusNoShow, StatusConfirmed, false},
	}
	for _, tc := range cases {
		a := Appointment{Status: tc.from}
		if got := a.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("transition %s -> %s: got %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestTerminalStatusesHaveNoEdges(t *testing.T) {
	terminals := []string{StatusCompleted, StatusCancelled, StatusNoShow}
	targets := []string{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow}
	for _, from := range terminals {
		a := Appointment{Status: from}
		for _, to := range targets {
			if a.CanTransitionTo(to) {
				t.Errorf("terminal status %s must not allow transition to %s", from, to)
			}
		}
	}
}

func TestIsValidStatus(t *testing.T) {
	for _, s := range []string{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow} {
		if !IsValidStatus(s) {
			t.Errorf("expected %q to be a valid status", s)
		}
	}
	if IsValidStatus("expired") {
		t.Error("expected 'expired' to be rejected")
	}
	if IsValidStatus("") {
		t.Error("expected empty status to be rejected")
	}
}

func TestIsPast(t *testing.T) {
	now := time.Date(2025, 3, 10, 10, 0, 0, 0, time.Local)

	a := Appointment{
		AppointmentDate: "2025-03-10",
		TimeSlot:        TimeSlot{Time: "09:30"},
	}
	if !a.IsPast(now) {
		t.Error("expected 09:30 today to be past at 10:00")
	}

	a.TimeSlot.Time = "10:30"
	if a.IsPast(now) {
		t.Error("expected 10:30 today to be upcoming at 10:00")
	}

	a.AppointmentDate = "2025-03-11"
	a.TimeSlot.Time = "09:00"
	if a.IsPast(now) {
		t.Error("expected tomorrow to be upcoming")
	}

	a.AppointmentDate = "not-a-date"
	if !a.IsPast(now) {
		t.Error("expected unparsable date to count as past")
	}
}

func TestCanCancel(t *testing.T) {
	now := time.Date(2025, 3, 10, 10, 0, 0, 0, time.Local)

	upcoming := Appointment{
		Status:          StatusConfirmed,
		AppointmentDate: "2025-03-12",
		TimeSlot:        TimeSlot{Time: "09:00"},
	}
	if !upcoming.CanCancel(now) {
		t.Error("expected upcoming confirmed appointment to be cancellable")
	}

	upcoming.Status = StatusPending
	if !upcoming.CanCancel(now) {
		t.Error("expected upcoming pending appointment to be cancellable")
	}

	past := Appointment{
		Status:          StatusConfirmed,
		AppointmentDate: "2025-03-09",
		TimeSlot:        TimeSlot{Time: "09:00"},
	}
	if past.CanCancel(now) {
		t.Error("expected past appointment to be uncancellable")
	}

	done := Appointment{
		Status:          StatusCompleted,
		AppointmentDate: "2025-03-12",
		TimeSlot:        TimeSlot{Time: "09:00"},
	}
	if done.CanCancel(now) {
		t.Error("expected completed appointment to be uncancellable")
	}
}

func TestAvailabilityCovers(t *testing.T) {
	window := DoctorAvailability{StartTime: "09:00", EndTime: "12:00"}

	cases := []struct {
		slot string
		want bool
	}{
		{"09:00", true},  // start inclusive
		{"11:30", true},
		{"12:00", false}, // end exclusive
		{"08:30", false},
		{"14:00", false},
		{"bogus", false},
	}
	for _, tc := range cases {
		if got := window.Covers(tc.slot); got != tc.want {
			t.Errorf("Covers(%q): got %v, want %v", tc.slot, got, tc.want)
		}
	}
}

func TestWeekdayConvention(t *testing.T) {
	// 2025-03-10 is a Monday.
	monday := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)
	if got := Weekday(monday); got != 0 {
		t.Errorf("Monday: got %d, want 0", got)
	}
	sunday := time.Date(2025, 3, 16, 0, 0, 0, 0, time.Local)
	if got := Weekday(sunday); got != 6 {
		t.Errorf("Sunday: got %d, want 6", got)
	}
}

func TestTimeSlotCatalogUnique(t *testing.T) {
	seen := make(map[string]bool, len(TimeSlotCatalog))
	for _, slot := range TimeSlotCatalog {
		if seen[slot] {
			t.Errorf("duplicate slot %q in catalog", slot)
		}
		seen[slot] = true
	}
	if len(TimeSlotCatalog) != 16 {
		t.Errorf("expected 16 catalog slots, got %d", len(TimeSlotCatalog))
	}
}
