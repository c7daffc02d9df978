package models

import (
	"time"

	"gorm.io/datatypes"
)

// Condition is a diagnosed condition in a user's health profile
type Condition struct {
	Name          string     `json:"name"`
	DiagnosedDate *time.Time `json:"diagnosedDate,omitempty"`
	Status        string     `json:"status"` // active, resolved or managed
}

// Medication is a medication a user is taking
type Medication struct {
	Name           string     `json:"name"`
	Dosage         string     `json:"dosage"`
	PrescribedDate *time.Time `json:"prescribedDate,omitempty"`
	Frequency      string     `json:"frequency"`
}

// Allergy is a known allergy
type Allergy struct {
	Name     string `json:"name"`
	Severity string `json:"severity"` // mild, moderate or severe
}

// HealthInfo is the per-user health profile. At most one exists per user.
type HealthInfo struct {
	BaseModel
	UserID      string                          `gorm:"size:36;uniqueIndex;not null" json:"userId"`
	Conditions  datatypes.JSONSlice[Condition]  `json:"conditions"`
	Medications datatypes.JSONSlice[Medication] `json:"medications"`
	Allergies   datatypes.JSONSlice[Allergy]    `json:"allergies"`
}

// NewHealthInfo returns the empty profile reported for users who never saved one.
func NewHealthInfo(userID string) *HealthInfo {
	return &HealthInfo{
		UserID:      userID,
		Conditions:  datatypes.JSONSlice[Condition]{},
		Medications: datatypes.JSONSlice[Medication]{},
		Allergies:   datatypes.JSONSlice[Allergy]{},
	}
}
