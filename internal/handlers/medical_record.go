package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"patient-portal-server/internal/models"
	"patient-portal-server/internal/services"
	"patient-portal-server/internal/utils"
)

// MedicalRecordHandler handles medical record and health information requests.
type MedicalRecordHandler struct {
	Records     *services.MedicalRecordService
	HealthInfo  *services.HealthInfoService
	MaxUploadMB int
}

// NewMedicalRecordHandler creates a new MedicalRecordHandler.
func NewMedicalRecordHandler(records *services.MedicalRecordService, healthInfo *services.HealthInfoService, maxUploadMB int) *MedicalRecordHandler {
	return &MedicalRecordHandler{Records: records, HealthInfo: healthInfo, MaxUploadMB: maxUploadMB}
}

// UploadMedicalRecord stores the multipart "file" field as a new record.
// The file is kept as binary data in the database.
func (h *MedicalRecordHandler) UploadMedicalRecord(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if h.MaxUploadMB > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, int64(h.MaxUploadMB)<<20)
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.BadRequest(c, fmt.Sprintf("File exceeds the %d MB upload limit", h.MaxUploadMB))
			return
		}
		utils.BadRequest(c, "Please upload a file")
		return
	}
	defer file.Close()

	fileData, err := io.ReadAll(file)
	if err != nil {
		utils.InternalServerError(c, "Error reading file content", err)
		return
	}

	record, err := h.Records.Upload(c.Request.Context(), userID, services.UploadInput{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Category:    c.PostForm("category"),
		FileName:    header.Filename,
		FileType:    header.Header.Get("Content-Type"),
		Data:        fileData,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Created(c, "Medical record uploaded successfully", gin.H{"record": record})
}

// GetMedicalRecords lists the caller's records, newest first, without file contents.
func (h *MedicalRecordHandler) GetMedicalRecords(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	records, err := h.Records.List(c.Request.Context(), userID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "", gin.H{"records": records})
}

// GetMedicalRecordByID returns one of the caller's records.
func (h *MedicalRecordHandler) GetMedicalRecordByID(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	record, err := h.Records.Get(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "", gin.H{"record": record})
}

// DownloadMedicalRecord serves the stored file as an attachment.
func (h *MedicalRecordHandler) DownloadMedicalRecord(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	record, err := h.Records.Get(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", record.FileName))
	c.Data(http.StatusOK, record.FileType, record.FileData)
}

// DeleteMedicalRecord deletes one of the caller's records.
func (h *MedicalRecordHandler) DeleteMedicalRecord(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.Records.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Medical record deleted successfully", nil)
}

// GetHealthInfo returns the caller's health profile. Nothing is stored on read.
func (h *MedicalRecordHandler) GetHealthInfo(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	info, err := h.HealthInfo.Get(c.Request.Context(), userID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "", gin.H{"healthInfo": info})
}

// UpdateHealthInfoRequest replaces the lists it carries.
type UpdateHealthInfoRequest struct {
	Conditions  *[]models.Condition  `json:"conditions"`
	Medications *[]models.Medication `json:"medications"`
	Allergies   *[]models.Allergy    `json:"allergies"`
}

// UpdateHealthInfo creates or updates the caller's health profile.
func (h *MedicalRecordHandler) UpdateHealthInfo(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req UpdateHealthInfoRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	info, err := h.HealthInfo.Upsert(c.Request.Context(), userID, services.HealthInfoPatch{
		Conditions:  req.Conditions,
		Medications: req.Medications,
		Allergies:   req.Allergies,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Health information updated successfully", gin.H{"healthInfo": info})
}
