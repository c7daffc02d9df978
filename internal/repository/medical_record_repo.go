package repository

import (
	"context"

	"gorm.io/gorm"

	"patient-portal-server/internal/models"
)

type MedicalRecordRepository struct {
	DB *gorm.DB
}

func NewMedicalRecordRepository(db *gorm.DB) *MedicalRecordRepository {
	return &MedicalRecordRepository{DB: db}
}

func (r *MedicalRecordRepository) Create(ctx context.Context, record *models.MedicalRecord) error {
	return r.DB.WithContext(ctx).Create(record).Error
}

// ListByUser returns the user's records newest first, without file contents.
func (r *MedicalRecordRepository) ListByUser(ctx context.Context, userID string) ([]models.MedicalRecord, error) {
	var records []models.MedicalRecord
	err := r.DB.WithContext(ctx).
		Omit("file_data").
		Where("user_id = ?", userID).
		Order("upload_date desc").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// GetForUser loads a record only if userID owns it.
func (r *MedicalRecordRepository) GetForUser(ctx context.Context, id, userID string) (*models.MedicalRecord, error) {
	var record models.MedicalRecord
	if err := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&record).Error; err != nil {
		return nil, notFound(err)
	}
	return &record, nil
}

func (r *MedicalRecordRepository) Delete(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Delete(&models.MedicalRecord{}, "id = ?", id).Error
}
