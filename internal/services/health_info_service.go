package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"patient-portal-server/internal/apperrors"
	"patient-portal-server/internal/models"
	"patient-portal-server/internal/repository"
)

// HealthInfoPatch replaces whole lists; nil lists are kept as stored.
type HealthInfoPatch struct {
	Conditions  *[]models.Condition
	Medications *[]models.Medication
	Allergies   *[]models.Allergy
}

// HealthInfoService reads and upserts the per-user health profile.
type HealthInfoService struct {
	infos HealthInfoRepository
	log   zerolog.Logger
}

func NewHealthInfoService(infos HealthInfoRepository, log zerolog.Logger) *HealthInfoService {
	return &HealthInfoService{infos: infos, log: log}
}

// Get returns the stored profile, or an empty one that is not persisted.
func (s *HealthInfoService) Get(ctx context.Context, userID string) (*models.HealthInfo, error) {
	info, err := s.infos.GetByUser(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return models.NewHealthInfo(userID), nil
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "Error fetching health information")
	}
	return info, nil
}

// Upsert applies patch to the user's profile, creating it on first write.
// Applying the same patch twice leaves the same profile.
func (s *HealthInfoService) Upsert(ctx context.Context, userID string, patch HealthInfoPatch) (*models.HealthInfo, error) {
	info, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if patch.Conditions != nil {
		conditions := make([]models.Condition, len(*patch.Conditions))
		for i, c := range *patch.Conditions {
			if c.Status == "" {
				c.Status = "active"
			}
			if !oneOf(c.Status, "active", "resolved", "managed") {
				return nil, apperrors.NewValidation("Invalid condition status: " + c.Status)
			}
			conditions[i] = c
		}
		info.Conditions = conditions
	}
	if patch.Medications != nil {
		info.Medications = append([]models.Medication{}, *patch.Medications...)
	}
	if patch.Allergies != nil {
		allergies := make([]models.Allergy, len(*patch.Allergies))
		for i, a := range *patch.Allergies {
			if a.Severity == "" {
				a.Severity = "moderate"
			}
			if !oneOf(a.Severity, "mild", "moderate", "severe") {
				return nil, apperrors.NewValidation("Invalid allergy severity: " + a.Severity)
			}
			allergies[i] = a
		}
		info.Allergies = allergies
	}

	if err := s.infos.Upsert(ctx, info); err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("upsert health info")
		return nil, apperrors.Wrap(err, "Error updating health information")
	}
	return info, nil
}

func oneOf(value string, allowed ...string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}
