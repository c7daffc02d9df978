package repository

import (
	"context"

	"gorm.io/gorm"

	"patient-portal-server/internal/models"
)

type DoctorRepository struct {
	DB *gorm.DB
}

func NewDoctorRepository(db *gorm.DB) *DoctorRepository {
	return &DoctorRepository{DB: db}
}

func (r *DoctorRepository) List(ctx context.Context) ([]models.Doctor, error) {
	var doctors []models.Doctor
	if err := r.DB.WithContext(ctx).Order("name asc").Find(&doctors).Error; err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *DoctorRepository) GetByID(ctx context.Context, id string) (*models.Doctor, error) {
	var doctor models.Doctor
	if err := r.DB.WithContext(ctx).First(&doctor, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &doctor, nil
}

func (r *DoctorRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Doctor, error) {
	var doctors []models.Doctor
	if len(ids) == 0 {
		return doctors, nil
	}
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&doctors).Error; err != nil {
		return nil, err
	}
	return doctors, nil
}

// ReplaceAll swaps the whole directory for doctors in one transaction.
func (r *DoctorRepository) ReplaceAll(ctx context.Context, doctors []models.Doctor) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Doctor{}).Error; err != nil {
			return err
		}
		if len(doctors) == 0 {
			return nil
		}
		return tx.Create(&doctors).Error
	})
}
