package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"patient-portal-server/internal/models"
)

const (
	repoDoctorID = "0b7f6a9e-4c1d-4c59-9a52-3b0c8f1d2e01"
	repoUserA    = "user-a"
	repoUserB    = "user-b"
)

// openTestDB opens a throwaway SQLite database with the appointment schema.
// SQLite, like MySQL, never treats NULL key parts as duplicates, so the
// live-slot index behaves the same.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "portal.db")), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Appointment{}))
	return db
}

func at(day int, hour int) time.Time {
	return time.Date(2030, 1, day, hour, 0, 0, 0, time.Local)
}

func newAppointment(user string, date time.Time, slot string) *models.Appointment {
	return &models.Appointment{
		UserID:   user,
		DoctorID: repoDoctorID,
		Date:     date,
		TimeSlot: slot,
		Status:   models.StatusScheduled,
	}
}

func TestAppointmentRepository_LiveSlotGuard(t *testing.T) {
	repo := NewAppointmentRepository(openTestDB(t))
	ctx := context.Background()

	first := newAppointment(repoUserA, at(7, 0), "09:00 AM")
	require.NoError(t, repo.Create(ctx, first))
	require.NotNil(t, first.Live)

	// Same calendar day at a different time of day still collides.
	assert.ErrorIs(t, repo.Create(ctx, newAppointment(repoUserB, at(7, 15), "09:00 AM")), ErrSlotTaken)

	require.NoError(t, repo.Create(ctx, newAppointment(repoUserB, at(7, 0), "09:30 AM")))
	require.NoError(t, repo.Create(ctx, newAppointment(repoUserB, at(8, 0), "09:00 AM")))

	booked, err := repo.BookedSlots(ctx, repoDoctorID, at(7, 0), at(7, 23))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"09:00 AM", "09:30 AM"}, booked)

	first.Status = models.StatusCancelled
	require.NoError(t, repo.Save(ctx, first))
	stored, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.Live)
	assert.Equal(t, models.StatusCancelled, stored.Status)

	live, err := repo.FindLive(ctx, repoDoctorID, at(7, 0), at(7, 23), "09:00 AM", "")
	require.NoError(t, err)
	assert.Nil(t, live)

	second := newAppointment(repoUserB, at(7, 0), "09:00 AM")
	require.NoError(t, repo.Create(ctx, second), "a cancelled booking frees its slot")

	// A second cancellation on the same slot does not collide either.
	second.Status = models.StatusCancelled
	require.NoError(t, repo.Save(ctx, second))
}

func TestAppointmentRepository_RescheduleOntoTakenSlot(t *testing.T) {
	repo := NewAppointmentRepository(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newAppointment(repoUserA, at(7, 0), "09:00 AM")))
	mine := newAppointment(repoUserB, at(7, 0), "02:00 PM")
	require.NoError(t, repo.Create(ctx, mine))

	mine.TimeSlot = "09:00 AM"
	mine.Status = models.StatusRescheduled
	assert.ErrorIs(t, repo.Save(ctx, mine), ErrSlotTaken)

	// Saving without moving keeps the row's own slot.
	stored, err := repo.GetByID(ctx, mine.ID)
	require.NoError(t, err)
	stored.Notes = "bring results"
	require.NoError(t, repo.Save(ctx, stored))

	found, err := repo.FindLive(ctx, repoDoctorID, at(7, 0), at(7, 23), "02:00 PM", stored.ID)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestAppointmentRepository_CompleteBefore(t *testing.T) {
	repo := NewAppointmentRepository(openTestDB(t))
	ctx := context.Background()

	past := newAppointment(repoUserA, at(7, 0), "09:00 AM")
	require.NoError(t, repo.Create(ctx, past))
	cancelled := newAppointment(repoUserA, at(7, 0), "09:30 AM")
	cancelled.Status = models.StatusCancelled
	require.NoError(t, repo.Create(ctx, cancelled))
	future := newAppointment(repoUserA, at(9, 0), "09:00 AM")
	require.NoError(t, repo.Create(ctx, future))

	n, err := repo.CompleteBefore(ctx, at(8, 0))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	stored, err := repo.GetByID(ctx, past.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, stored.Status)
	require.NotNil(t, stored.Live)

	assert.ErrorIs(t, repo.Create(ctx, newAppointment(repoUserB, at(7, 0), "09:00 AM")), ErrSlotTaken,
		"a completed booking keeps its slot")

	stored, err = repo.GetByID(ctx, cancelled.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, stored.Status)

	appts, err := repo.ListByUser(ctx, repoUserA, models.StatusScheduled)
	require.NoError(t, err)
	require.Len(t, appts, 1)
	assert.Equal(t, future.ID, appts[0].ID)
}

func TestAppointmentRepository_GetByIDNotFound(t *testing.T) {
	repo := NewAppointmentRepository(openTestDB(t))
	_, err := repo.GetByID(context.Background(), "3f0e3b7c-0000-4000-8000-000000000000")
	assert.ErrorIs(t, err, ErrNotFound)
}
