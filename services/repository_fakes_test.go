package services

import (
	"MediBook/models"
	"MediBook/repositories"
	"context"
	"sort"
	"sync"
	"time"
)

// memStore is a shared in-memory backing store for the repository fakes used
// in the service tests. The appointment fake enforces the same active-booking
// uniqueness rule as the partial index in postgres.
type memStore struct {
	mu           sync.Mutex
	users        map[int64]*models.User
	patients     map[int64]*models.Patient
	doctors      map[int64]*models.Doctor
	availability map[int64]map[int]*models.DoctorAvailability
	slots        []models.TimeSlot
	appointments map[int64]*models.Appointment
	history      []models.AppointmentHistory
	nextID       int64
}

func newMemStore() *memStore {
	s := &memStore{
		users:        make(map[int64]*models.User),
		patients:     make(map[int64]*models.Patient),
		doctors:      make(map[int64]*models.Doctor),
		availability: make(map[int64]map[int]*models.DoctorAvailability),
		appointments: make(map[int64]*models.Appointment),
		nextID:       1000,
	}
	for i, t := range models.TimeSlotCatalog {
		s.slots = append(s.slots, models.TimeSlot{ID: int64(i + 1), Time: t})
	}
	return s
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) addUser(u models.User) *models.User {
	s.users[u.ID] = &u
	return &u
}

func (s *memStore) addPatient(p models.Patient) *models.Patient {
	s.patients[p.ID] = &p
	return &p
}

func (s *memStore) addDoctor(d models.Doctor) *models.Doctor {
	s.doctors[d.ID] = &d
	return &d
}

func (s *memStore) slotByTime(t string) models.TimeSlot {
	for _, slot := range s.slots {
		if slot.Time == t {
			return slot
		}
	}
	return models.TimeSlot{}
}

type fakeUserRepo struct{ s *memStore }

func (r *fakeUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) CreatePatient(ctx context.Context, user *models.User, patient *models.Patient) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user.ID = r.s.id()
	user.UserType = models.UserTypePatient
	r.s.users[user.ID] = user
	patient.ID = r.s.id()
	patient.UserID = user.ID
	r.s.patients[patient.ID] = patient
	return nil
}

func (r *fakeUserRepo) CreateDoctor(ctx context.Context, user *models.User, doctor *models.Doctor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, d := range r.s.doctors {
		if d.LicenseNumber == doctor.LicenseNumber {
			return repositories.ErrLicenseTaken
		}
	}
	user.ID = r.s.id()
	user.UserType = models.UserTypeDoctor
	r.s.users[user.ID] = user
	doctor.ID = r.s.id()
	doctor.UserID = user.ID
	r.s.doctors[doctor.ID] = doctor
	return nil
}

func (r *fakeUserRepo) GetUserByID(ctx context.Context, userID int64) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) GetPatientByID(ctx context.Context, patientID int64) (*models.Patient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.patients[patientID]
	if !ok {
		return nil, repositories.ErrPatientNotFound
	}
	copied := *p
	if u, ok := r.s.users[p.UserID]; ok {
		copied.User = *u
	}
	return &copied, nil
}

func (r *fakeUserRepo) GetPatientByUserID(ctx context.Context, userID int64) (*models.Patient, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.patients {
		if p.UserID == userID {
			copied := *p
			return &copied, nil
		}
	}
	return nil, repositories.ErrPatientNotFound
}

func (r *fakeUserRepo) UpdateUserProfile(ctx context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.users[user.ID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	existing.FirstName = user.FirstName
	existing.LastName = user.LastName
	existing.Email = user.Email
	existing.Phone = user.Phone
	existing.DateOfBirth = user.DateOfBirth
	existing.Address = user.Address
	return nil
}

func (r *fakeUserRepo) UpdateUserPassword(ctx context.Context, userID int64, hashedPassword string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	existing.Password = hashedPassword
	return nil
}

type fakeDoctorRepo struct{ s *memStore }

func (r *fakeDoctorRepo) GetByID(ctx context.Context, doctorID int64) (*models.Doctor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.doctors[doctorID]
	if !ok {
		return nil, repositories.ErrDoctorNotFound
	}
	copied := *d
	if u, ok := r.s.users[d.UserID]; ok {
		copied.User = *u
	}
	return &copied, nil
}

func (r *fakeDoctorRepo) GetByUserID(ctx context.Context, userID int64) (*models.Doctor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, d := range r.s.doctors {
		if d.UserID == userID {
			copied := *d
			return &copied, nil
		}
	}
	return nil, repositories.ErrDoctorNotFound
}

func (r *fakeDoctorRepo) ListAvailable(ctx context.Context, specialization string) ([]models.Doctor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var doctors []models.Doctor
	for _, d := range r.s.doctors {
		if !d.IsAvailable {
			continue
		}
		if specialization != "" && d.Specialization != specialization {
			continue
		}
		doctors = append(doctors, *d)
	}
	sort.Slice(doctors, func(i, j int) bool { return doctors[i].ID < doctors[j].ID })
	return doctors, nil
}

func (r *fakeDoctorRepo) SetAvailable(ctx context.Context, doctorID int64, available bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.doctors[doctorID]
	if !ok {
		return repositories.ErrDoctorNotFound
	}
	d.IsAvailable = available
	return nil
}

func (r *fakeDoctorRepo) GetAvailability(ctx context.Context, doctorID int64, weekday int) (*models.DoctorAvailability, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	byDay, ok := r.s.availability[doctorID]
	if !ok {
		return nil, repositories.ErrAvailabilityNotFound
	}
	a, ok := byDay[weekday]
	if !ok {
		return nil, repositories.ErrAvailabilityNotFound
	}
	copied := *a
	return &copied, nil
}

func (r *fakeDoctorRepo) ListAvailability(ctx context.Context, doctorID int64) ([]models.DoctorAvailability, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.DoctorAvailability
	for _, a := range r.s.availability[doctorID] {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Weekday < out[j].Weekday })
	return out, nil
}

func (r *fakeDoctorRepo) SetAvailability(ctx context.Context, availability *models.DoctorAvailability) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.availability[availability.DoctorID] == nil {
		r.s.availability[availability.DoctorID] = make(map[int]*models.DoctorAvailability)
	}
	copied := *availability
	r.s.availability[availability.DoctorID][availability.Weekday] = &copied
	return nil
}

type fakeAppointmentRepo struct{ s *memStore }

func isActive(status string) bool {
	return status == models.StatusPending || status == models.StatusConfirmed
}

func (r *fakeAppointmentRepo) Create(ctx context.Context, appointment *models.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.appointments {
		if a.DoctorID == appointment.DoctorID &&
			a.AppointmentDate == appointment.AppointmentDate &&
			a.TimeSlotID == appointment.TimeSlotID &&
			isActive(a.Status) {
			return repositories.ErrSlotTaken
		}
	}
	appointment.ID = r.s.id()
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = appointment.CreatedAt
	copied := *appointment
	r.s.appointments[appointment.ID] = &copied
	return nil
}

func (r *fakeAppointmentRepo) GetByID(ctx context.Context, appointmentID int64) (*models.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.appointments[appointmentID]
	if !ok {
		return nil, repositories.ErrAppointmentNotFound
	}
	copied := *a
	for _, slot := range r.s.slots {
		if slot.ID == a.TimeSlotID {
			copied.TimeSlot = slot
		}
	}
	if p, ok := r.s.patients[a.PatientID]; ok {
		copied.Patient = *p
	}
	if d, ok := r.s.doctors[a.DoctorID]; ok {
		copied.Doctor = *d
	}
	return &copied, nil
}

func (r *fakeAppointmentRepo) HasActiveBooking(ctx context.Context, doctorID int64, date string, timeSlotID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.appointments {
		if a.DoctorID == doctorID && a.AppointmentDate == date && a.TimeSlotID == timeSlotID && isActive(a.Status) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAppointmentRepo) BookedSlotIDs(ctx context.Context, doctorID int64, date string) (map[int64]bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	booked := make(map[int64]bool)
	for _, a := range r.s.appointments {
		if a.DoctorID == doctorID && a.AppointmentDate == date && isActive(a.Status) {
			booked[a.TimeSlotID] = true
		}
	}
	return booked, nil
}

func (r *fakeAppointmentRepo) UpdateStatusWithHistory(ctx context.Context, appointment *models.Appointment, newStatus string, changedByID int64, reason string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.appointments[appointment.ID]
	if !ok {
		return repositories.ErrAppointmentNotFound
	}
	r.s.history = append(r.s.history, models.AppointmentHistory{
		ID:            r.s.id(),
		AppointmentID: appointment.ID,
		ChangedByID:   changedByID,
		OldStatus:     stored.Status,
		NewStatus:     newStatus,
		ChangeReason:  reason,
		ChangedAt:     time.Now(),
	})
	stored.Status = newStatus
	stored.UpdatedAt = time.Now()
	appointment.Status = newStatus
	return nil
}

func (r *fakeAppointmentRepo) ListHistory(ctx context.Context, appointmentID int64) ([]models.AppointmentHistory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.AppointmentHistory
	for _, h := range r.s.history {
		if h.AppointmentID == appointmentID {
			out = append(out, h)
		}
	}
	// newest first
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *fakeAppointmentRepo) GetTimeSlotByID(ctx context.Context, timeSlotID int64) (*models.TimeSlot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, slot := range r.s.slots {
		if slot.ID == timeSlotID {
			copied := slot
			return &copied, nil
		}
	}
	return nil, repositories.ErrTimeSlotNotFound
}

func (r *fakeAppointmentRepo) ListTimeSlots(ctx context.Context) ([]models.TimeSlot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]models.TimeSlot, len(r.s.slots))
	copy(out, r.s.slots)
	return out, nil
}

func (r *fakeAppointmentRepo) ListUpcomingForPatient(ctx context.Context, patientID int64, fromDate string) ([]models.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Appointment
	for _, a := range r.s.appointments {
		if a.PatientID == patientID && a.AppointmentDate >= fromDate && isActive(a.Status) {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AppointmentDate != out[j].AppointmentDate {
			return out[i].AppointmentDate < out[j].AppointmentDate
		}
		return out[i].TimeSlotID < out[j].TimeSlotID
	})
	return out, nil
}

func (r *fakeAppointmentRepo) ListPastForPatient(ctx context.Context, patientID int64, beforeDate string, limit int) ([]models.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Appointment
	for _, a := range r.s.appointments {
		if a.PatientID == patientID && a.AppointmentDate < beforeDate {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AppointmentDate > out[j].AppointmentDate })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeAppointmentRepo) CountPastForPatient(ctx context.Context, patientID int64, beforeDate string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var count int64
	for _, a := range r.s.appointments {
		if a.PatientID == patientID && a.AppointmentDate < beforeDate {
			count++
		}
	}
	return count, nil
}

func (r *fakeAppointmentRepo) CountTotalForPatient(ctx context.Context, patientID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var count int64
	for _, a := range r.s.appointments {
		if a.PatientID == patientID && a.Status != models.StatusCancelled && a.Status != models.StatusNoShow {
			count++
		}
	}
	return count, nil
}

func (r *fakeAppointmentRepo) ListForDoctorOnDate(ctx context.Context, doctorID int64, date string) ([]models.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Appointment
	for _, a := range r.s.appointments {
		if a.DoctorID == doctorID && a.AppointmentDate == date && isActive(a.Status) {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TimeSlotID < out[j].TimeSlotID })
	return out, nil
}

func (r *fakeAppointmentRepo) ListUpcomingForDoctor(ctx context.Context, doctorID int64, afterDate string, limit int) ([]models.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Appointment
	for _, a := range r.s.appointments {
		if a.DoctorID == doctorID && a.AppointmentDate > afterDate && isActive(a.Status) {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AppointmentDate < out[j].AppointmentDate })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeAppointmentRepo) CountUpcomingForDoctor(ctx context.Context, doctorID int64, afterDate string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var count int64
	for _, a := range r.s.appointments {
		if a.DoctorID == doctorID && a.AppointmentDate > afterDate && isActive(a.Status) {
			count++
		}
	}
	return count, nil
}

func (r *fakeAppointmentRepo) CountDistinctPatientsForDoctor(ctx context.Context, doctorID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	seen := make(map[int64]bool)
	for _, a := range r.s.appointments {
		if a.DoctorID == doctorID && a.Status != models.StatusCancelled && a.Status != models.StatusNoShow {
			seen[a.PatientID] = true
		}
	}
	return int64(len(seen)), nil
}
