package services

import (
	"MediBook/models"
	"MediBook/repositories"
	"context"
	"errors"
	"testing"
)

func TestTransitionConfirmByDoctor(t *testing.T) {
	env := newTestEnv()
	appt := env.seedAppointment(env.patientID, env.doctorID, futureDate(3), 1, models.StatusPending)

	updated, err := env.lifecycle.Transition(context.Background(), appt.ID, env.doctorUser, models.StatusConfirmed, "see you then")
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if updated.Status != models.StatusConfirmed {
		t.Errorf("status = %q, want %q", updated.Status, models.StatusConfirmed)
	}

	history, err := env.lifecycle.History(context.Background(), appt.ID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("history rows = %d, want 1", len(history))
	}
	row := history[0]
	if row.OldStatus != models.StatusPending || row.NewStatus != models.StatusConfirmed {
		t.Errorf("history records %q -> %q, want pending -> confirmed", row.OldStatus, row.NewStatus)
	}
	if row.ChangedByID != env.doctorUser {
		t.Errorf("history changed_by = %d, want %d", row.ChangedByID, env.doctorUser)
	}
	if row.ChangeReason != "see you then" {
		t.Errorf("history reason = %q", row.ChangeReason)
	}
}

func TestTransitionDoctorOnlyStatuses(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	tests := []struct {
		name      string
		from      string
		to        string
		actor     int64
	}{
		{"patient cannot confirm", models.StatusPending, models.StatusConfirmed, env.patientUser},
		{"patient cannot complete", models.StatusConfirmed, models.StatusCompleted, env.patientUser},
		{"patient cannot mark no-show", models.StatusConfirmed, models.StatusNoShow, env.patientUser},
		{"other doctor cannot confirm", models.StatusPending, models.StatusConfirmed, env.otherDocUser},
		{"other doctor cannot complete", models.StatusConfirmed, models.StatusCompleted, env.otherDocUser},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			appt := env.seedAppointment(env.patientID, env.doctorID, futureDate(3), 1, tc.from)
			if _, err := env.lifecycle.Transition(ctx, appt.ID, tc.actor, tc.to, ""); !errors.Is(err, ErrNotAllowed) {
				t.Errorf("got %v, want ErrNotAllowed", err)
			}
		})
	}
}

func TestTransitionInvalidEdges(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	tests := []struct {
		from string
		to   string
	}{
		{models.StatusPending, models.StatusCompleted},
		{models.StatusPending, models.StatusNoShow},
		{models.StatusConfirmed, models.StatusConfirmed},
		{models.StatusCompleted, models.StatusCancelled},
		{models.StatusCancelled, models.StatusConfirmed},
		{models.StatusNoShow, models.StatusCompleted},
	}
	for _, tc := range tests {
		appt := env.seedAppointment(env.patientID, env.doctorID, futureDate(3), 1, tc.from)
		if _, err := env.lifecycle.Transition(ctx, appt.ID, env.doctorUser, tc.to, ""); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("%s -> %s: got %v, want ErrInvalidTransition", tc.from, tc.to, err)
		}
	}
}

func TestTransitionInvalidStatusToken(t *testing.T) {
	env := newTestEnv()
	appt := env.seedAppointment(env.patientID, env.doctorID, futureDate(3), 1, models.StatusPending)

	if _, err := env.lifecycle.Transition(context.Background(), appt.ID, env.doctorUser, "archived", ""); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("got %v, want ErrInvalidStatus", err)
	}
}

func TestTransitionUnknownAppointment(t *testing.T) {
	env := newTestEnv()
	if _, err := env.lifecycle.Transition(context.Background(), 9999, env.doctorUser, models.StatusConfirmed, ""); !errors.Is(err, repositories.ErrAppointmentNotFound) {
		t.Fatalf("got %v, want ErrAppointmentNotFound", err)
	}
}

func TestCancelByEitherOwner(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	byPatient := env.seedAppointment(env.patientID, env.doctorID, futureDate(3), 1, models.StatusPending)
	if _, err := env.lifecycle.Transition(ctx, byPatient.ID, env.patientUser, models.StatusCancelled, "conflict"); err != nil {
		t.Fatalf("patient cancel: %v", err)
	}

	byDoctor := env.seedAppointment(env.patientID, env.doctorID, futureDate(3), 2, models.StatusConfirmed)
	if _, err := env.lifecycle.Transition(ctx, byDoctor.ID, env.doctorUser, models.StatusCancelled, "emergency"); err != nil {
		t.Fatalf("doctor cancel: %v", err)
	}

	stranger := env.seedAppointment(env.patientID, env.doctorID, futureDate(3), 3, models.StatusPending)
	if _, err := env.lifecycle.Transition(ctx, stranger.ID, env.otherPatUser, models.StatusCancelled, ""); !errors.Is(err, ErrNotAllowed) {
		t.Fatalf("stranger cancel: got %v, want ErrNotAllowed", err)
	}
}

func TestCancelPastAppointment(t *testing.T) {
	env := newTestEnv()
	past := env.seedAppointment(env.patientID, env.doctorID, futureDate(-2), 1, models.StatusConfirmed)

	if _, err := env.lifecycle.Transition(context.Background(), past.ID, env.patientUser, models.StatusCancelled, ""); !errors.Is(err, ErrAppointmentPassed) {
		t.Fatalf("got %v, want ErrAppointmentPassed", err)
	}

	// The past rule binds cancellation only; the doctor can still close it out.
	if _, err := env.lifecycle.Transition(context.Background(), past.ID, env.doctorUser, models.StatusCompleted, ""); err != nil {
		t.Fatalf("completing a past appointment: %v", err)
	}
}

func TestHistoryAccumulatesNewestFirst(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	appt := env.seedAppointment(env.patientID, env.doctorID, futureDate(3), 1, models.StatusPending)

	if _, err := env.lifecycle.Transition(ctx, appt.ID, env.doctorUser, models.StatusConfirmed, ""); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if _, err := env.lifecycle.Transition(ctx, appt.ID, env.doctorUser, models.StatusCompleted, "visit done"); err != nil {
		t.Fatalf("complete: %v", err)
	}

	history, err := env.lifecycle.History(ctx, appt.ID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history rows = %d, want 2", len(history))
	}
	if history[0].NewStatus != models.StatusCompleted {
		t.Errorf("newest row new_status = %q, want %q", history[0].NewStatus, models.StatusCompleted)
	}
	if history[1].OldStatus != models.StatusPending || history[1].NewStatus != models.StatusConfirmed {
		t.Errorf("oldest row records %q -> %q, want pending -> confirmed", history[1].OldStatus, history[1].NewStatus)
	}
}

func TestHistoryUnknownAppointment(t *testing.T) {
	env := newTestEnv()
	if _, err := env.lifecycle.History(context.Background(), 4242); !errors.Is(err, repositories.ErrAppointmentNotFound) {
		t.Fatalf("got %v, want ErrAppointmentNotFound", err)
	}
}

func TestFailedTransitionLeavesNoHistory(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	appt := env.seedAppointment(env.patientID, env.doctorID, futureDate(3), 1, models.StatusPending)

	env.lifecycle.Transition(ctx, appt.ID, env.patientUser, models.StatusConfirmed, "")
	env.lifecycle.Transition(ctx, appt.ID, env.doctorUser, models.StatusCompleted, "")

	history, err := env.lifecycle.History(ctx, appt.ID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("rejected transitions left %d history rows, want 0", len(history))
	}

	got, err := env.lifecycle.Get(ctx, appt.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != models.StatusPending {
		t.Errorf("status = %q after rejected transitions, want pending", got.Status)
	}
}

func TestPatientDashboard(t *testing.T) {
	env := newTestEnv()

	env.seedAppointment(env.patientID, env.doctorID, futureDate(1), 1, models.StatusPending)
	env.seedAppointment(env.patientID, env.doctorID, futureDate(2), 2, models.StatusConfirmed)
	env.seedAppointment(env.patientID, env.doctorID, futureDate(-1), 3, models.StatusCompleted)
	env.seedAppointment(env.patientID, env.doctorID, futureDate(-2), 4, models.StatusNoShow)
	// Cancelled bookings never count toward the totals.
	env.seedAppointment(env.patientID, env.doctorID, futureDate(3), 5, models.StatusCancelled)
	// Another patient's appointment is invisible here.
	env.seedAppointment(env.otherPatient, env.doctorID, futureDate(1), 6, models.StatusPending)

	dashboard, err := env.lifecycle.GetPatientDashboard(context.Background(), env.patientID)
	if err != nil {
		t.Fatalf("GetPatientDashboard: %v", err)
	}
	if dashboard.UpcomingCount != 2 {
		t.Errorf("upcoming = %d, want 2", dashboard.UpcomingCount)
	}
	if dashboard.PastCount != 2 {
		t.Errorf("past = %d, want 2", dashboard.PastCount)
	}
	if dashboard.TotalAppointments != 3 {
		t.Errorf("total = %d, want 3 (pending, confirmed, completed)", dashboard.TotalAppointments)
	}
	if len(dashboard.UpcomingAppointments) != 2 {
		t.Errorf("upcoming list has %d entries, want 2", len(dashboard.UpcomingAppointments))
	}
}

func TestPatientDashboardUnknownPatient(t *testing.T) {
	env := newTestEnv()
	if _, err := env.lifecycle.GetPatientDashboard(context.Background(), 555); !errors.Is(err, repositories.ErrPatientNotFound) {
		t.Fatalf("got %v, want ErrPatientNotFound", err)
	}
}

func TestDoctorDashboard(t *testing.T) {
	env := newTestEnv()
	today := futureDate(0)

	env.seedAppointment(env.patientID, env.doctorID, today, 2, models.StatusConfirmed)
	env.seedAppointment(env.otherPatient, env.doctorID, today, 1, models.StatusPending)
	env.seedAppointment(env.patientID, env.doctorID, futureDate(1), 1, models.StatusPending)
	env.seedAppointment(env.patientID, env.doctorID, futureDate(2), 1, models.StatusCancelled)
	env.seedAppointment(env.patientID, env.otherDoctor, today, 3, models.StatusPending)

	dashboard, err := env.lifecycle.GetDoctorDashboard(context.Background(), env.doctorID)
	if err != nil {
		t.Fatalf("GetDoctorDashboard: %v", err)
	}
	if dashboard.TodayCount != 2 {
		t.Errorf("today = %d, want 2", dashboard.TodayCount)
	}
	// Today's list comes back in slot order.
	if len(dashboard.TodayAppointments) == 2 && dashboard.TodayAppointments[0].TimeSlotID != 1 {
		t.Errorf("today's first slot = %d, want 1", dashboard.TodayAppointments[0].TimeSlotID)
	}
	if dashboard.UpcomingCount != 1 {
		t.Errorf("upcoming = %d, want 1", dashboard.UpcomingCount)
	}
	if dashboard.TotalPatients != 2 {
		t.Errorf("distinct patients = %d, want 2", dashboard.TotalPatients)
	}
}
