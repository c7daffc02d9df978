package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusScheduled   AppointmentStatus = "scheduled"
	StatusCompleted   AppointmentStatus = "completed"
	StatusCancelled   AppointmentStatus = "cancelled"
	StatusRescheduled AppointmentStatus = "rescheduled"
)

// Valid reports whether s is one of the known statuses.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled, StatusRescheduled:
		return true
	}
	return false
}

// Appointment is a booking of one doctor slot on one calendar day by one user.
//
// Day and Live are derived in BeforeSave and back the unique index that
// allows at most one non-cancelled appointment per (doctor, day, slot):
// Live is NULL for cancelled rows, and MySQL never treats rows with a NULL
// key part as duplicates.
type Appointment struct {
	BaseModel
	UserID   string            `gorm:"size:36;index;not null" json:"userId"`
	DoctorID string            `gorm:"size:36;not null;uniqueIndex:idx_appointment_live_slot,priority:1" json:"doctorId"`
	Date     time.Time         `gorm:"not null;index" json:"date"`
	Day      datatypes.Date    `gorm:"not null;uniqueIndex:idx_appointment_live_slot,priority:2" json:"-"`
	TimeSlot string            `gorm:"size:32;not null;uniqueIndex:idx_appointment_live_slot,priority:3" json:"timeSlot"`
	Live     *bool             `gorm:"uniqueIndex:idx_appointment_live_slot,priority:4" json:"-"`
	Status   AppointmentStatus `gorm:"size:20;default:'scheduled';index" json:"status"`
	Notes    string            `gorm:"type:text" json:"notes"`
}

// BeforeSave keeps the derived uniqueness columns in step with Date and Status.
func (a *Appointment) BeforeSave(tx *gorm.DB) error {
	a.SyncSlotKey()
	return nil
}

// SyncSlotKey recomputes Day and Live.
func (a *Appointment) SyncSlotKey() {
	local := a.Date.In(time.Local)
	a.Day = datatypes.Date(time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.Local))
	if a.Status == StatusCancelled {
		a.Live = nil
		return
	}
	live := true
	a.Live = &live
}

// OwnedBy reports whether userID booked the appointment.
func (a *Appointment) OwnedBy(userID string) bool {
	return a.UserID == userID
}

// AppointmentView is the read model returned to clients: the persisted
// appointment joined with its doctor's summary.
type AppointmentView struct {
	Appointment
	Doctor DoctorSummary `json:"doctor"`
}

// NewAppointmentView joins an appointment with its doctor. A missing
// doctor leaves only the id in the summary.
func NewAppointmentView(a Appointment, d *Doctor) AppointmentView {
	view := AppointmentView{Appointment: a}
	if d != nil {
		view.Doctor = d.Summary()
	} else {
		view.Doctor = DoctorSummary{ID: a.DoctorID}
	}
	return view
}
