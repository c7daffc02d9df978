package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"patient-portal-server/internal/apperrors"
	"patient-portal-server/internal/models"
	"patient-portal-server/internal/repository"
	"patient-portal-server/internal/slots"
)

const msgSlotBooked = "This time slot is already booked"

// AvailableSlots is the free part of a doctor's slot lists on one day.
type AvailableSlots struct {
	Morning   []string `json:"morning"`
	Afternoon []string `json:"afternoon"`
	// WorkingDay is false when the doctor does not take bookings that weekday.
	WorkingDay bool `json:"-"`
}

// CreateAppointmentInput carries a booking request.
type CreateAppointmentInput struct {
	DoctorID string
	Date     string
	TimeSlot string
	Notes    string
}

// UpdateAppointmentInput carries a reschedule or notes edit. Nil fields are
// left untouched; the schedule only changes when Date and TimeSlot are both
// non-blank.
type UpdateAppointmentInput struct {
	Date     *string
	TimeSlot *string
	Notes    *string
}

// AppointmentService implements availability and the appointment lifecycle.
//
// Every write re-checks the slot before persisting, and the store rejects a
// second live booking of the same slot on its own, so a pre-check that loses
// a race still ends in a Conflict rather than a double booking.
type AppointmentService struct {
	doctors      DoctorRepository
	appointments AppointmentRepository
	users        UserRepository
	notifier     Notifier
	log          zerolog.Logger
	now          func() time.Time
}

func NewAppointmentService(doctors DoctorRepository, appointments AppointmentRepository, users UserRepository, notifier Notifier, log zerolog.Logger) *AppointmentService {
	return &AppointmentService{
		doctors:      doctors,
		appointments: appointments,
		users:        users,
		notifier:     notifier,
		log:          log,
		now:          time.Now,
	}
}

// WithClock replaces the time source. Used by tests and the completion job.
func (s *AppointmentService) WithClock(now func() time.Time) *AppointmentService {
	s.now = now
	return s
}

func (s *AppointmentService) resolveDoctor(ctx context.Context, id string) (*models.Doctor, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.NewNotFound("Doctor not found")
	}
	doctor, err := s.doctors.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewNotFound("Doctor not found")
	}
	if err != nil {
		s.log.Error().Err(err).Str("doctor_id", id).Msg("resolve doctor")
		return nil, apperrors.Wrap(err, "Error fetching doctor")
	}
	return doctor, nil
}

// AvailableSlots derives the doctor's free slots on the calendar day of date.
// It reserves nothing: a slot reported free may be taken before it is booked.
func (s *AppointmentService) AvailableSlots(ctx context.Context, doctorID, date string) (*AvailableSlots, error) {
	if strings.TrimSpace(doctorID) == "" || strings.TrimSpace(date) == "" {
		return nil, apperrors.NewValidation("Doctor ID and date are required")
	}
	day, err := parseDate(date)
	if err != nil {
		return nil, err
	}
	doctor, err := s.resolveDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	if !doctor.WorksOn(day.Weekday()) {
		return &AvailableSlots{Morning: []string{}, Afternoon: []string{}}, nil
	}

	start, end := dayBounds(day)
	booked, err := s.appointments.BookedSlots(ctx, doctor.ID, start, end)
	if err != nil {
		s.log.Error().Err(err).Str("doctor_id", doctor.ID).Time("day", start).Msg("load booked slots")
		return nil, apperrors.Wrap(err, "Error fetching available slots")
	}
	taken := make(map[string]struct{}, len(booked))
	for _, label := range booked {
		taken[label] = struct{}{}
	}

	return &AvailableSlots{
		Morning:    freeSlots(doctor.MorningSlots, taken),
		Afternoon:  freeSlots(doctor.AfternoonSlots, taken),
		WorkingDay: true,
	}, nil
}

func freeSlots(configured []string, taken map[string]struct{}) []string {
	free := make([]string, 0, len(configured))
	for _, label := range configured {
		if _, ok := taken[label]; !ok {
			free = append(free, label)
		}
	}
	return free
}

// ensureSlotFree is the fast-path conflict check. The unique index behind
// AppointmentRepository is what actually decides a race.
func (s *AppointmentService) ensureSlotFree(ctx context.Context, doctorID string, day time.Time, slot, excludeID string) error {
	start, end := dayBounds(day)
	existing, err := s.appointments.FindLive(ctx, doctorID, start, end, slot, excludeID)
	if err != nil {
		s.log.Error().Err(err).Str("doctor_id", doctorID).Str("slot", slot).Msg("check slot")
		return apperrors.Wrap(err, "Error checking slot availability")
	}
	if existing != nil {
		return apperrors.NewConflict(msgSlotBooked)
	}
	return nil
}

// resolveSlot validates that the requested label is one of the doctor's
// slots and returns the configured spelling of it.
func resolveSlot(doctor *models.Doctor, requested string) (string, error) {
	label, ok := doctor.ResolveSlot(strings.TrimSpace(requested))
	if !ok {
		return "", apperrors.NewValidation(fmt.Sprintf("%s is not one of the doctor's time slots", requested))
	}
	return label, nil
}

// Create books a slot for userID.
func (s *AppointmentService) Create(ctx context.Context, userID string, in CreateAppointmentInput) (*models.AppointmentView, error) {
	if strings.TrimSpace(in.DoctorID) == "" || strings.TrimSpace(in.Date) == "" || strings.TrimSpace(in.TimeSlot) == "" {
		return nil, apperrors.NewValidation("Doctor, date, and time slot are required")
	}
	date, err := parseDate(in.Date)
	if err != nil {
		return nil, err
	}
	doctor, err := s.resolveDoctor(ctx, in.DoctorID)
	if err != nil {
		return nil, err
	}
	slot, err := resolveSlot(doctor, in.TimeSlot)
	if err != nil {
		return nil, err
	}
	if err := s.ensureSlotFree(ctx, doctor.ID, date, slot, ""); err != nil {
		return nil, err
	}

	appt := &models.Appointment{
		UserID:   userID,
		DoctorID: doctor.ID,
		Date:     date,
		TimeSlot: slot,
		Status:   models.StatusScheduled,
		Notes:    in.Notes,
	}
	if err := s.appointments.Create(ctx, appt); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			return nil, apperrors.NewConflict(msgSlotBooked)
		}
		s.log.Error().Err(err).Str("doctor_id", doctor.ID).Str("user_id", userID).Msg("create appointment")
		return nil, apperrors.Wrap(err, "Error creating appointment")
	}

	s.log.Info().Str("appointment_id", appt.ID).Str("doctor_id", doctor.ID).Str("slot", slot).Msg("appointment scheduled")
	s.notify(ctx, userID, "Appointment scheduled", describe(appt, doctor))

	view := models.NewAppointmentView(*appt, doctor)
	return &view, nil
}

// loadOwned resolves an appointment and checks that userID owns it.
func (s *AppointmentService) loadOwned(ctx context.Context, id, userID string) (*models.Appointment, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.NewNotFound("Appointment not found")
	}
	appt, err := s.appointments.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewNotFound("Appointment not found")
	}
	if err != nil {
		s.log.Error().Err(err).Str("appointment_id", id).Msg("get appointment")
		return nil, apperrors.Wrap(err, "Error fetching appointment")
	}
	if !appt.OwnedBy(userID) {
		return nil, apperrors.NewForbidden("Access denied")
	}
	return appt, nil
}

func (s *AppointmentService) view(ctx context.Context, appt *models.Appointment) (*models.AppointmentView, error) {
	doctor, err := s.doctors.GetByID(ctx, appt.DoctorID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.log.Error().Err(err).Str("doctor_id", appt.DoctorID).Msg("join doctor")
		return nil, apperrors.Wrap(err, "Error fetching doctor")
	}
	view := models.NewAppointmentView(*appt, doctor)
	return &view, nil
}

// Get returns one of userID's appointments.
func (s *AppointmentService) Get(ctx context.Context, id, userID string) (*models.AppointmentView, error) {
	appt, err := s.loadOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, appt)
}

// List returns userID's appointments ordered by date, then slot start time.
func (s *AppointmentService) List(ctx context.Context, userID string, status string) ([]models.AppointmentView, error) {
	filter := models.AppointmentStatus(status)
	if status != "" && !filter.Valid() {
		return nil, apperrors.NewValidation("Invalid status: " + status)
	}
	appts, err := s.appointments.ListByUser(ctx, userID, filter)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("list appointments")
		return nil, apperrors.Wrap(err, "Error fetching appointments")
	}
	sortAppointments(appts)
	return s.joinDoctors(ctx, appts)
}

// Upcoming returns userID's earliest scheduled appointment dated from now
// on, or nil when there is none.
func (s *AppointmentService) Upcoming(ctx context.Context, userID string) (*models.AppointmentView, error) {
	appts, err := s.appointments.ListScheduledFrom(ctx, userID, s.now())
	if err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("upcoming appointment")
		return nil, apperrors.Wrap(err, "Error fetching upcoming appointment")
	}
	if len(appts) == 0 {
		return nil, nil
	}
	sortAppointments(appts)
	return s.view(ctx, &appts[0])
}

// Update reschedules an appointment and/or edits its notes.
func (s *AppointmentService) Update(ctx context.Context, id, userID string, in UpdateAppointmentInput) (*models.AppointmentView, error) {
	appt, err := s.loadOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	rescheduled := false
	if nonBlank(in.Date) && nonBlank(in.TimeSlot) {
		if appt.Status == models.StatusCancelled {
			return nil, apperrors.NewValidation("Cancelled appointments cannot be rescheduled")
		}
		date, err := parseDate(*in.Date)
		if err != nil {
			return nil, err
		}
		doctor, err := s.resolveDoctor(ctx, appt.DoctorID)
		if err != nil {
			return nil, err
		}
		slot, err := resolveSlot(doctor, *in.TimeSlot)
		if err != nil {
			return nil, err
		}
		if err := s.ensureSlotFree(ctx, appt.DoctorID, date, slot, appt.ID); err != nil {
			return nil, err
		}
		appt.Date = date
		appt.TimeSlot = slot
		appt.Status = models.StatusRescheduled
		rescheduled = true
	}
	if in.Notes != nil {
		appt.Notes = *in.Notes
	}

	if err := s.appointments.Save(ctx, appt); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			return nil, apperrors.NewConflict(msgSlotBooked)
		}
		s.log.Error().Err(err).Str("appointment_id", appt.ID).Msg("update appointment")
		return nil, apperrors.Wrap(err, "Error updating appointment")
	}

	view, err := s.view(ctx, appt)
	if err != nil {
		return nil, err
	}
	if rescheduled {
		s.log.Info().Str("appointment_id", appt.ID).Str("slot", appt.TimeSlot).Msg("appointment rescheduled")
		s.notify(ctx, userID, "Appointment rescheduled", describeView(view))
	}
	return view, nil
}

func nonBlank(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

// Cancel frees the appointment's slot. Cancelling twice is not an error.
func (s *AppointmentService) Cancel(ctx context.Context, id, userID string) (*models.AppointmentView, error) {
	appt, err := s.loadOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	appt.Status = models.StatusCancelled
	if err := s.appointments.Save(ctx, appt); err != nil {
		s.log.Error().Err(err).Str("appointment_id", appt.ID).Msg("cancel appointment")
		return nil, apperrors.Wrap(err, "Error cancelling appointment")
	}

	view, err := s.view(ctx, appt)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("appointment_id", appt.ID).Msg("appointment cancelled")
	s.notify(ctx, userID, "Appointment cancelled", describeView(view))
	return view, nil
}

// CompletePast marks scheduled and rescheduled appointments whose day ended
// before today as completed.
func (s *AppointmentService) CompletePast(ctx context.Context) (int64, error) {
	today, _ := dayBounds(s.now())
	n, err := s.appointments.CompleteBefore(ctx, today)
	if err != nil {
		return 0, apperrors.Wrap(err, "Error completing past appointments")
	}
	return n, nil
}

func (s *AppointmentService) joinDoctors(ctx context.Context, appts []models.Appointment) ([]models.AppointmentView, error) {
	ids := make([]string, 0, len(appts))
	seen := make(map[string]struct{})
	for _, a := range appts {
		if _, ok := seen[a.DoctorID]; !ok {
			seen[a.DoctorID] = struct{}{}
			ids = append(ids, a.DoctorID)
		}
	}
	doctors, err := s.doctors.GetByIDs(ctx, ids)
	if err != nil {
		s.log.Error().Err(err).Msg("join doctors")
		return nil, apperrors.Wrap(err, "Error fetching doctors")
	}
	byID := make(map[string]*models.Doctor, len(doctors))
	for i := range doctors {
		byID[doctors[i].ID] = &doctors[i]
	}

	views := make([]models.AppointmentView, 0, len(appts))
	for _, a := range appts {
		views = append(views, models.NewAppointmentView(a, byID[a.DoctorID]))
	}
	return views, nil
}

func sortAppointments(appts []models.Appointment) {
	sort.SliceStable(appts, func(i, j int) bool {
		di, _ := dayBounds(appts[i].Date)
		dj, _ := dayBounds(appts[j].Date)
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return slots.Less(appts[i].TimeSlot, appts[j].TimeSlot)
	})
}

// notify emails the appointment owner when they opted in. Delivery
// problems are logged and never fail the request.
func (s *AppointmentService) notify(ctx context.Context, userID, subject, body string) {
	if s.notifier == nil || s.users == nil {
		return
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("notification skipped: owner lookup failed")
		return
	}
	if !user.NotificationsEnabled || user.Email == "" {
		return
	}
	if err := s.notifier.Send(ctx, user.Email, subject, body); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Str("subject", subject).Msg("notification not delivered")
	}
}

func describe(appt *models.Appointment, doctor *models.Doctor) string {
	view := models.NewAppointmentView(*appt, doctor)
	return describeView(&view)
}

func describeView(view *models.AppointmentView) string {
	return fmt.Sprintf("%s (%s) on %s at %s. Status: %s.",
		view.Doctor.Name, view.Doctor.Specialty, view.Date.Format("Monday, 2 January 2006"), view.TimeSlot, view.Status)
}
