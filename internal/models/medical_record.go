package models

import (
	"time"
)

// MedicalRecordCategory represents the kind of document uploaded
type MedicalRecordCategory string

const (
	CategoryBloodTest    MedicalRecordCategory = "blood_test"
	CategoryXRay         MedicalRecordCategory = "xray"
	CategoryMRI          MedicalRecordCategory = "mri"
	CategoryCTScan       MedicalRecordCategory = "ct_scan"
	CategoryPrescription MedicalRecordCategory = "prescription"
	CategoryReport       MedicalRecordCategory = "report"
	CategoryOther        MedicalRecordCategory = "other"
)

// Valid reports whether c is one of the known categories.
func (c MedicalRecordCategory) Valid() bool {
	switch c {
	case CategoryBloodTest, CategoryXRay, CategoryMRI, CategoryCTScan,
		CategoryPrescription, CategoryReport, CategoryOther:
		return true
	}
	return false
}

// MedicalRecord is a file a user uploaded to their record
type MedicalRecord struct {
	BaseModel
	UserID      string                `gorm:"size:36;index;not null" json:"userId"`
	Title       string                `gorm:"size:255;not null" json:"title"`
	Description string                `gorm:"type:text" json:"description"`
	Category    MedicalRecordCategory `gorm:"size:32;default:'other'" json:"category"`
	FileName    string                `gorm:"size:255;not null" json:"fileName"`
	FileType    string                `gorm:"size:255;not null" json:"fileType"`
	FileSize    int64                 `gorm:"not null" json:"fileSize"`
	FileData    []byte                `gorm:"type:longblob;not null" json:"-"` // File content as binary data (longblob for MySQL)
	UploadDate  time.Time             `gorm:"index" json:"uploadDate"`
}
