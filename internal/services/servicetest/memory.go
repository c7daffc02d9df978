// Package servicetest provides in-memory implementations of the service
// storage contracts for tests. They follow the same rules as the gorm
// repositories, including the live-slot uniqueness of appointments.
package servicetest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"patient-portal-server/internal/models"
	"patient-portal-server/internal/repository"
)

func stamp(base *models.BaseModel, created bool) {
	now := time.Now()
	if base.ID == "" {
		base.ID = uuid.NewString()
	}
	if created || base.CreatedAt.IsZero() {
		base.CreatedAt = now
	}
	base.UpdatedAt = now
}

// DoctorRepo is an in-memory doctor directory.
type DoctorRepo struct {
	mu      sync.RWMutex
	doctors []models.Doctor
}

func NewDoctorRepo(doctors ...models.Doctor) *DoctorRepo {
	r := &DoctorRepo{}
	_ = r.ReplaceAll(context.Background(), doctors)
	return r
}

func (r *DoctorRepo) List(_ context.Context) ([]models.Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.Doctor(nil), r.doctors...), nil
}

func (r *DoctorRepo) GetByID(_ context.Context, id string) (*models.Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, d := range r.doctors {
		if d.ID == id {
			doctor := d
			return &doctor, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *DoctorRepo) GetByIDs(_ context.Context, ids []string) ([]models.Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.Doctor
	for _, d := range r.doctors {
		for _, id := range ids {
			if d.ID == id {
				out = append(out, d)
				break
			}
		}
	}
	return out, nil
}

func (r *DoctorRepo) ReplaceAll(_ context.Context, doctors []models.Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.doctors = nil
	for i := range doctors {
		stamp(&doctors[i].BaseModel, true)
		r.doctors = append(r.doctors, doctors[i])
	}
	return nil
}

// AppointmentRepo is an in-memory appointment store.
type AppointmentRepo struct {
	mu    sync.Mutex
	appts map[string]models.Appointment

	// SkipPrecheck makes FindLive report every slot free, as if the
	// caller's check lost a race with a concurrent writer.
	SkipPrecheck bool
	// Err, when set, is returned by every method.
	Err error
}

func NewAppointmentRepo() *AppointmentRepo {
	return &AppointmentRepo{appts: make(map[string]models.Appointment)}
}

func (r *AppointmentRepo) slotTaken(appt *models.Appointment) bool {
	if appt.Live == nil {
		return false
	}
	for id, other := range r.appts {
		if id == appt.ID || other.Live == nil {
			continue
		}
		if other.DoctorID == appt.DoctorID && other.TimeSlot == appt.TimeSlot &&
			time.Time(other.Day).Equal(time.Time(appt.Day)) {
			return true
		}
	}
	return false
}

func (r *AppointmentRepo) Create(_ context.Context, appt *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if appt.ID == "" {
		appt.ID = uuid.NewString()
	}
	appt.SyncSlotKey()
	if r.slotTaken(appt) {
		return repository.ErrSlotTaken
	}
	stamp(&appt.BaseModel, true)
	r.appts[appt.ID] = *appt
	return nil
}

func (r *AppointmentRepo) Save(_ context.Context, appt *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	appt.SyncSlotKey()
	if r.slotTaken(appt) {
		return repository.ErrSlotTaken
	}
	stamp(&appt.BaseModel, false)
	r.appts[appt.ID] = *appt
	return nil
}

func (r *AppointmentRepo) GetByID(_ context.Context, id string) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	appt, ok := r.appts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &appt, nil
}

func (r *AppointmentRepo) filter(keep func(models.Appointment) bool) []models.Appointment {
	var out []models.Appointment
	for _, a := range r.appts {
		if keep(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].TimeSlot < out[j].TimeSlot
	})
	return out
}

func (r *AppointmentRepo) ListByUser(_ context.Context, userID string, status models.AppointmentStatus) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	return r.filter(func(a models.Appointment) bool {
		return a.UserID == userID && (status == "" || a.Status == status)
	}), nil
}

func (r *AppointmentRepo) ListScheduledFrom(_ context.Context, userID string, from time.Time) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	return r.filter(func(a models.Appointment) bool {
		return a.UserID == userID && a.Status == models.StatusScheduled && !a.Date.Before(from)
	}), nil
}

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}

func (r *AppointmentRepo) BookedSlots(_ context.Context, doctorID string, from, to time.Time) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	var labels []string
	for _, a := range r.appts {
		if a.DoctorID == doctorID && a.Status != models.StatusCancelled && inRange(a.Date, from, to) {
			labels = append(labels, a.TimeSlot)
		}
	}
	return labels, nil
}

func (r *AppointmentRepo) FindLive(_ context.Context, doctorID string, from, to time.Time, slot, excludeID string) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	if r.SkipPrecheck {
		return nil, nil
	}
	for _, a := range r.appts {
		if a.ID != excludeID && a.DoctorID == doctorID && a.TimeSlot == slot &&
			a.Status != models.StatusCancelled && inRange(a.Date, from, to) {
			found := a
			return &found, nil
		}
	}
	return nil, nil
}

func (r *AppointmentRepo) CompleteBefore(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}
	var n int64
	for id, a := range r.appts {
		if (a.Status == models.StatusScheduled || a.Status == models.StatusRescheduled) && a.Date.Before(cutoff) {
			a.Status = models.StatusCompleted
			r.appts[id] = a
			n++
		}
	}
	return n, nil
}

// Live counts non-cancelled appointments for the doctor's slot on day.
func (r *AppointmentRepo) Live(doctorID string, day time.Time, slot string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	y, m, d := day.Date()
	n := 0
	for _, a := range r.appts {
		ay, am, ad := a.Date.Date()
		if a.DoctorID == doctorID && a.TimeSlot == slot && a.Status != models.StatusCancelled &&
			ay == y && am == m && ad == d {
			n++
		}
	}
	return n
}

// UserRepo is an in-memory user store.
type UserRepo struct {
	mu    sync.Mutex
	users map[string]models.User
}

func NewUserRepo() *UserRepo {
	return &UserRepo{users: make(map[string]models.User)}
}

func (r *UserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	stamp(&user.BaseModel, true)
	r.users[user.ID] = *user
	return nil
}

func (r *UserRepo) Save(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stamp(&user.BaseModel, false)
	r.users[user.ID] = *user
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

// RefreshTokenRepo is an in-memory refresh token store.
type RefreshTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]models.RefreshToken
}

func NewRefreshTokenRepo() *RefreshTokenRepo {
	return &RefreshTokenRepo{tokens: make(map[string]models.RefreshToken)}
}

func (r *RefreshTokenRepo) Create(_ context.Context, token *models.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stamp(&token.BaseModel, true)
	r.tokens[token.ID] = *token
	return nil
}

func (r *RefreshTokenRepo) FindActive(_ context.Context, token string) (*models.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.Token == token && !t.IsRevoked {
			found := t
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *RefreshTokenRepo) Revoke(_ context.Context, token *models.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	token.IsRevoked = true
	token.ExpiresAt = time.Now()
	r.tokens[token.ID] = *token
	return nil
}

// MedicalRecordRepo is an in-memory medical record store.
type MedicalRecordRepo struct {
	mu      sync.Mutex
	records map[string]models.MedicalRecord
}

func NewMedicalRecordRepo() *MedicalRecordRepo {
	return &MedicalRecordRepo{records: make(map[string]models.MedicalRecord)}
}

func (r *MedicalRecordRepo) Create(_ context.Context, record *models.MedicalRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stamp(&record.BaseModel, true)
	r.records[record.ID] = *record
	return nil
}

func (r *MedicalRecordRepo) ListByUser(_ context.Context, userID string) ([]models.MedicalRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.MedicalRecord
	for _, rec := range r.records {
		if rec.UserID == userID {
			rec.FileData = nil
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadDate.After(out[j].UploadDate) })
	return out, nil
}

func (r *MedicalRecordRepo) GetForUser(_ context.Context, id, userID string) (*models.MedicalRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok || rec.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return &rec, nil
}

func (r *MedicalRecordRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, id)
	return nil
}

// HealthInfoRepo is an in-memory health profile store keyed by user.
type HealthInfoRepo struct {
	mu    sync.Mutex
	infos map[string]models.HealthInfo
	// Writes counts Upsert calls.
	Writes int
}

func NewHealthInfoRepo() *HealthInfoRepo {
	return &HealthInfoRepo{infos: make(map[string]models.HealthInfo)}
}

func (r *HealthInfoRepo) GetByUser(_ context.Context, userID string) (*models.HealthInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	info, ok := r.infos[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &info, nil
}

func (r *HealthInfoRepo) Upsert(_ context.Context, info *models.HealthInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Writes++
	if existing, ok := r.infos[info.UserID]; ok {
		info.ID = existing.ID
		info.CreatedAt = existing.CreatedAt
	}
	stamp(&info.BaseModel, info.CreatedAt.IsZero())
	r.infos[info.UserID] = *info
	return nil
}

// Message is a notification captured by Notifier.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Notifier records messages instead of sending them.
type Notifier struct {
	mu   sync.Mutex
	sent []Message
	// Err, when set, is returned by Send.
	Err error
}

func (n *Notifier) Send(_ context.Context, to, subject, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.Err != nil {
		return n.Err
	}
	n.sent = append(n.sent, Message{To: to, Subject: subject, Body: body})
	return nil
}

// Sent returns the messages recorded so far.
func (n *Notifier) Sent() []Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Message(nil), n.sent...)
}
