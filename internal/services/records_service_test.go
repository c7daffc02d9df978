package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patient-portal-server/internal/apperrors"
	"patient-portal-server/internal/models"
	"patient-portal-server/internal/services/servicetest"
)

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF\n")

func TestMedicalRecordLifecycle(t *testing.T) {
	svc := NewMedicalRecordService(servicetest.NewMedicalRecordRepo(), zerolog.Nop())
	ctx := context.Background()

	_, err := svc.Upload(ctx, userA, UploadInput{FileName: "empty.pdf"})
	requireKind(t, err, apperrors.Validation)

	_, err = svc.Upload(ctx, userA, UploadInput{FileName: "a.pdf", Category: "tarot", Data: pdfBytes})
	requireKind(t, err, apperrors.Validation)

	record, err := svc.Upload(ctx, userA, UploadInput{
		FileName: "labs.pdf",
		FileType: "application/octet-stream",
		Data:     pdfBytes,
	})
	require.NoError(t, err)
	assert.Equal(t, "labs.pdf", record.Title)
	assert.Equal(t, models.CategoryOther, record.Category)
	assert.Equal(t, "application/pdf", record.FileType)
	assert.Equal(t, int64(len(pdfBytes)), record.FileSize)

	list, err := svc.List(ctx, userA)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].FileData)

	got, err := svc.Get(ctx, record.ID, userA)
	require.NoError(t, err)
	assert.Equal(t, pdfBytes, got.FileData)

	_, err = svc.Get(ctx, record.ID, userB)
	requireKind(t, err, apperrors.NotFound)
	requireKind(t, svc.Delete(ctx, record.ID, userB), apperrors.NotFound)
	_, err = svc.Get(ctx, "not-a-uuid", userA)
	requireKind(t, err, apperrors.NotFound)

	require.NoError(t, svc.Delete(ctx, record.ID, userA))
	list, err = svc.List(ctx, userA)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestHealthInfo(t *testing.T) {
	repo := servicetest.NewHealthInfoRepo()
	svc := NewHealthInfoService(repo, zerolog.Nop())
	ctx := context.Background()

	info, err := svc.Get(ctx, userA)
	require.NoError(t, err)
	assert.Empty(t, info.Conditions)
	assert.Equal(t, 0, repo.Writes, "reading never creates a profile")

	conditions := []models.Condition{{Name: "Asthma"}}
	allergies := []models.Allergy{{Name: "Peanuts", Severity: "severe"}, {Name: "Dust"}}
	patch := HealthInfoPatch{Conditions: &conditions, Allergies: &allergies}

	first, err := svc.Upsert(ctx, userA, patch)
	require.NoError(t, err)
	assert.Equal(t, "active", first.Conditions[0].Status)
	assert.Equal(t, "moderate", first.Allergies[1].Severity)

	second, err := svc.Upsert(ctx, userA, patch)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Conditions, second.Conditions)

	meds := []models.Medication{{Name: "Ventolin", Dosage: "100mcg"}}
	third, err := svc.Upsert(ctx, userA, HealthInfoPatch{Medications: &meds})
	require.NoError(t, err)
	assert.Len(t, third.Conditions, 1, "lists not in the patch are kept")
	assert.Len(t, third.Medications, 1)

	bad := []models.Allergy{{Name: "Cats", Severity: "lethal"}}
	_, err = svc.Upsert(ctx, userA, HealthInfoPatch{Allergies: &bad})
	requireKind(t, err, apperrors.Validation)

	badStatus := []models.Condition{{Name: "Flu", Status: "gone"}}
	_, err = svc.Upsert(ctx, userA, HealthInfoPatch{Conditions: &badStatus})
	requireKind(t, err, apperrors.Validation)
}

func TestDoctorService(t *testing.T) {
	svc := NewDoctorService(servicetest.NewDoctorRepo(doctorX()), zerolog.Nop())
	ctx := context.Background()

	doctors, err := svc.ListDoctors(ctx)
	require.NoError(t, err)
	require.Len(t, doctors, 1)

	doctor, err := svc.GetDoctor(ctx, doctorXID)
	require.NoError(t, err)
	assert.Equal(t, "Dr. X", doctor.Name)

	_, err = svc.GetDoctor(ctx, "bad-id")
	requireKind(t, err, apperrors.NotFound)
	_, err = svc.GetDoctor(ctx, doctorYID)
	requireKind(t, err, apperrors.NotFound)

	require.NoError(t, svc.Seed(ctx, DefaultDoctors()))
	doctors, err = svc.ListDoctors(ctx)
	require.NoError(t, err)
	require.Len(t, doctors, 2)
	assert.NotEmpty(t, doctors[0].ID)
	assert.True(t, doctors[0].WorksOn(1))
	assert.False(t, doctors[0].WorksOn(0))
}
