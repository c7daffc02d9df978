package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"patient-portal-server/internal/models"
)

type AppointmentRepository struct {
	DB *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{DB: db}
}

// Create inserts a new appointment. The live-slot unique index makes the
// insert fail with ErrSlotTaken when another writer won the slot first.
func (r *AppointmentRepository) Create(ctx context.Context, appt *models.Appointment) error {
	if err := r.DB.WithContext(ctx).Create(appt).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrSlotTaken
		}
		return err
	}
	return nil
}

// Save persists every column of appt, with the same slot guarantee as Create.
func (r *AppointmentRepository) Save(ctx context.Context, appt *models.Appointment) error {
	if err := r.DB.WithContext(ctx).Save(appt).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrSlotTaken
		}
		return err
	}
	return nil
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	var appt models.Appointment
	if err := r.DB.WithContext(ctx).First(&appt, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &appt, nil
}

// ListByUser returns the user's appointments, optionally restricted to one status.
func (r *AppointmentRepository) ListByUser(ctx context.Context, userID string, status models.AppointmentStatus) ([]models.Appointment, error) {
	query := r.DB.WithContext(ctx).Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var appts []models.Appointment
	if err := query.Order("date asc").Order("time_slot asc").Find(&appts).Error; err != nil {
		return nil, err
	}
	return appts, nil
}

// ListScheduledFrom returns the user's scheduled appointments dated at or after from.
func (r *AppointmentRepository) ListScheduledFrom(ctx context.Context, userID string, from time.Time) ([]models.Appointment, error) {
	var appts []models.Appointment
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND status = ? AND date >= ?", userID, models.StatusScheduled, from).
		Order("date asc").
		Find(&appts).Error
	if err != nil {
		return nil, err
	}
	return appts, nil
}

// BookedSlots returns the slot labels held by non-cancelled appointments of
// the doctor dated within [from, to].
func (r *AppointmentRepository) BookedSlots(ctx context.Context, doctorID string, from, to time.Time) ([]string, error) {
	var labels []string
	err := r.DB.WithContext(ctx).Model(&models.Appointment{}).
		Where("doctor_id = ? AND date BETWEEN ? AND ? AND status <> ?", doctorID, from, to, models.StatusCancelled).
		Pluck("time_slot", &labels).Error
	if err != nil {
		return nil, err
	}
	return labels, nil
}

// FindLive returns a non-cancelled appointment other than excludeID holding
// the doctor's slot within [from, to], or nil when the slot is free.
func (r *AppointmentRepository) FindLive(ctx context.Context, doctorID string, from, to time.Time, slot, excludeID string) (*models.Appointment, error) {
	query := r.DB.WithContext(ctx).
		Where("doctor_id = ? AND date BETWEEN ? AND ? AND time_slot = ? AND status <> ?",
			doctorID, from, to, slot, models.StatusCancelled)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var appt models.Appointment
	if err := query.First(&appt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appt, nil
}

// CompleteBefore marks scheduled and rescheduled appointments dated before
// cutoff as completed and returns how many changed.
func (r *AppointmentRepository) CompleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.DB.WithContext(ctx).Session(&gorm.Session{SkipHooks: true}).
		Model(&models.Appointment{}).
		Where("status IN ? AND date < ?", []models.AppointmentStatus{models.StatusScheduled, models.StatusRescheduled}, cutoff).
		Updates(map[string]interface{}{"status": models.StatusCompleted, "updated_at": time.Now()})
	return result.RowsAffected, result.Error
}
