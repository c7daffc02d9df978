package services

import (
	"context"
	"time"

	"patient-portal-server/internal/models"
)

// Storage contracts. The gorm implementations live in internal/repository;
// lookups that match nothing return repository.ErrNotFound.

type DoctorRepository interface {
	List(ctx context.Context) ([]models.Doctor, error)
	GetByID(ctx context.Context, id string) (*models.Doctor, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.Doctor, error)
	ReplaceAll(ctx context.Context, doctors []models.Doctor) error
}

// AppointmentRepository writes must reject a second live appointment for
// the same (doctor, day, slot) with repository.ErrSlotTaken.
type AppointmentRepository interface {
	Create(ctx context.Context, appt *models.Appointment) error
	Save(ctx context.Context, appt *models.Appointment) error
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	ListByUser(ctx context.Context, userID string, status models.AppointmentStatus) ([]models.Appointment, error)
	ListScheduledFrom(ctx context.Context, userID string, from time.Time) ([]models.Appointment, error)
	BookedSlots(ctx context.Context, doctorID string, from, to time.Time) ([]string, error)
	FindLive(ctx context.Context, doctorID string, from, to time.Time, slot, excludeID string) (*models.Appointment, error)
	CompleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	Save(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	FindActive(ctx context.Context, token string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, token *models.RefreshToken) error
}

type MedicalRecordRepository interface {
	Create(ctx context.Context, record *models.MedicalRecord) error
	ListByUser(ctx context.Context, userID string) ([]models.MedicalRecord, error)
	GetForUser(ctx context.Context, id, userID string) (*models.MedicalRecord, error)
	Delete(ctx context.Context, id string) error
}

type HealthInfoRepository interface {
	GetByUser(ctx context.Context, userID string) (*models.HealthInfo, error)
	Upsert(ctx context.Context, info *models.HealthInfo) error
}

// Notifier delivers a message to a user's email address. Send is called on
// the request path, so production implementations queue rather than deliver.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}
