package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"patient-portal-server/internal/apperrors"
	"patient-portal-server/internal/models"
	"patient-portal-server/internal/repository"
)

// DoctorService is the read-only doctor directory.
type DoctorService struct {
	doctors DoctorRepository
	log     zerolog.Logger
}

func NewDoctorService(doctors DoctorRepository, log zerolog.Logger) *DoctorService {
	return &DoctorService{doctors: doctors, log: log}
}

func (s *DoctorService) ListDoctors(ctx context.Context) ([]models.Doctor, error) {
	doctors, err := s.doctors.List(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("list doctors")
		return nil, apperrors.Wrap(err, "Error fetching doctors")
	}
	if doctors == nil {
		doctors = []models.Doctor{}
	}
	return doctors, nil
}

func (s *DoctorService) GetDoctor(ctx context.Context, id string) (*models.Doctor, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.NewNotFound("Doctor not found")
	}
	doctor, err := s.doctors.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewNotFound("Doctor not found")
	}
	if err != nil {
		s.log.Error().Err(err).Str("doctor_id", id).Msg("get doctor")
		return nil, apperrors.Wrap(err, "Error fetching doctor")
	}
	return doctor, nil
}

// Seed replaces the directory with doctors. It is an administrative
// action and is not exposed over HTTP.
func (s *DoctorService) Seed(ctx context.Context, doctors []models.Doctor) error {
	if err := s.doctors.ReplaceAll(ctx, doctors); err != nil {
		return apperrors.Wrap(err, "Error seeding doctors")
	}
	s.log.Info().Int("count", len(doctors)).Msg("doctor directory seeded")
	return nil
}

// DefaultDoctors is the directory the seed command installs.
func DefaultDoctors() []models.Doctor {
	return []models.Doctor{
		{
			Name:           "Dr. Evelyn Reed",
			Specialty:      "Cardiologist",
			Email:          "evelyn.reed@hospital.com",
			Phone:          "+1234567890",
			Rating:         4.9,
			ReviewCount:    128,
			Avatar:         "👩‍⚕️",
			MorningSlots:   append([]string(nil), models.DefaultMorningSlots...),
			AfternoonSlots: append([]string(nil), models.DefaultAfternoonSlots...),
			WorkingDays:    append([]int(nil), models.DefaultWorkingDays...),
		},
		{
			Name:           "Dr. Marcus Chen",
			Specialty:      "Dermatologist",
			Email:          "marcus.chen@hospital.com",
			Phone:          "+1234567891",
			Rating:         4.8,
			ReviewCount:    97,
			Avatar:         "👨‍⚕️",
			MorningSlots:   append([]string(nil), models.DefaultMorningSlots...),
			AfternoonSlots: append([]string(nil), models.DefaultAfternoonSlots...),
			WorkingDays:    append([]int(nil), models.DefaultWorkingDays...),
		},
	}
}
