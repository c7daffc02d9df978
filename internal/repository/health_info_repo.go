package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"patient-portal-server/internal/models"
)

type HealthInfoRepository struct {
	DB *gorm.DB
}

func NewHealthInfoRepository(db *gorm.DB) *HealthInfoRepository {
	return &HealthInfoRepository{DB: db}
}

func (r *HealthInfoRepository) GetByUser(ctx context.Context, userID string) (*models.HealthInfo, error) {
	var info models.HealthInfo
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&info).Error; err != nil {
		return nil, notFound(err)
	}
	return &info, nil
}

// Upsert writes info keyed by its user; a concurrent first write for the
// same user turns into an update instead of a duplicate row.
func (r *HealthInfoRepository) Upsert(ctx context.Context, info *models.HealthInfo) error {
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"conditions", "medications", "allergies", "updated_at"}),
	}).Create(info).Error
}
