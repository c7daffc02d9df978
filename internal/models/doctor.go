package models

import (
	"time"

	"gorm.io/datatypes"

	"patient-portal-server/internal/slots"
)

// Doctor is an entry of the doctor directory. Doctors are seeded
// administratively and read-only at runtime.
type Doctor struct {
	BaseModel
	Name           string                      `gorm:"size:100;not null" json:"name"`
	Specialty      string                      `gorm:"size:100;not null" json:"specialty"`
	Email          string                      `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Phone          string                      `gorm:"size:50;not null" json:"phone"`
	Rating         float64                     `gorm:"default:0" json:"rating"`
	ReviewCount    int                         `gorm:"default:0" json:"reviewCount"`
	Avatar         string                      `gorm:"size:16" json:"avatar"`
	MorningSlots   datatypes.JSONSlice[string] `json:"morningSlots"`
	AfternoonSlots datatypes.JSONSlice[string] `json:"afternoonSlots"`
	WorkingDays    datatypes.JSONSlice[int]    `json:"workingDays"` // 0 = Sunday ... 6 = Saturday
}

// DoctorSummary is the part of a doctor embedded in appointment responses.
type DoctorSummary struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Specialty   string  `json:"specialty"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"reviewCount"`
	Avatar      string  `json:"avatar"`
}

// WorksOn reports whether the doctor accepts bookings on the given weekday.
func (d *Doctor) WorksOn(day time.Weekday) bool {
	for _, wd := range d.WorkingDays {
		if wd == int(day) {
			return true
		}
	}
	return false
}

// ResolveSlot maps a requested label onto one of the doctor's configured slots.
func (d *Doctor) ResolveSlot(label string) (string, bool) {
	return slots.Resolve(label, d.MorningSlots, d.AfternoonSlots)
}

// Summary projects the doctor onto the fields shown alongside appointments.
func (d *Doctor) Summary() DoctorSummary {
	return DoctorSummary{
		ID:          d.ID,
		Name:        d.Name,
		Specialty:   d.Specialty,
		Rating:      d.Rating,
		ReviewCount: d.ReviewCount,
		Avatar:      d.Avatar,
	}
}

// DefaultMorningSlots and DefaultAfternoonSlots are the slot lists seeded doctors start with.
var (
	DefaultMorningSlots   = []string{"09:00 AM", "09:30 AM", "10:00 AM", "10:30 AM", "11:00 AM"}
	DefaultAfternoonSlots = []string{"02:00 PM", "02:30 PM", "03:00 PM", "03:30 PM", "04:00 PM"}
	DefaultWorkingDays    = []int{1, 2, 3, 4, 5}
)
