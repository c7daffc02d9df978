package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"patient-portal-server/internal/apperrors"
	"patient-portal-server/internal/models"
	"patient-portal-server/internal/repository"
)

// UploadInput carries an uploaded file and its metadata.
type UploadInput struct {
	Title       string
	Description string
	Category    string
	FileName    string
	FileType    string
	Data        []byte
}

// MedicalRecordService stores users' medical documents. Every lookup is
// scoped to the owner; other users' records simply do not exist.
type MedicalRecordService struct {
	records MedicalRecordRepository
	log     zerolog.Logger
}

func NewMedicalRecordService(records MedicalRecordRepository, log zerolog.Logger) *MedicalRecordService {
	return &MedicalRecordService{records: records, log: log}
}

func (s *MedicalRecordService) Upload(ctx context.Context, userID string, in UploadInput) (*models.MedicalRecord, error) {
	if len(in.Data) == 0 {
		return nil, apperrors.NewValidation("Please upload a file")
	}
	category := models.MedicalRecordCategory(in.Category)
	if in.Category == "" {
		category = models.CategoryOther
	}
	if !category.Valid() {
		return nil, apperrors.NewValidation("Invalid category: " + in.Category)
	}

	fileType := in.FileType
	if fileType == "" || strings.HasPrefix(fileType, "application/octet-stream") {
		fileType = mimetype.Detect(in.Data).String()
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = in.FileName
	}

	record := &models.MedicalRecord{
		UserID:      userID,
		Title:       title,
		Description: in.Description,
		Category:    category,
		FileName:    in.FileName,
		FileType:    fileType,
		FileSize:    int64(len(in.Data)),
		FileData:    in.Data,
		UploadDate:  time.Now(),
	}
	if err := s.records.Create(ctx, record); err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("store medical record")
		return nil, apperrors.Wrap(err, "Error uploading medical record")
	}
	return record, nil
}

func (s *MedicalRecordService) List(ctx context.Context, userID string) ([]models.MedicalRecord, error) {
	records, err := s.records.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(err, "Error fetching medical records")
	}
	if records == nil {
		records = []models.MedicalRecord{}
	}
	return records, nil
}

// Get returns the record including its file contents.
func (s *MedicalRecordService) Get(ctx context.Context, id, userID string) (*models.MedicalRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.NewNotFound("Record not found")
	}
	record, err := s.records.GetForUser(ctx, id, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewNotFound("Record not found")
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "Error fetching record")
	}
	return record, nil
}

func (s *MedicalRecordService) Delete(ctx context.Context, id, userID string) error {
	record, err := s.Get(ctx, id, userID)
	if err != nil {
		return err
	}
	if err := s.records.Delete(ctx, record.ID); err != nil {
		return apperrors.Wrap(err, "Error deleting record")
	}
	return nil
}
