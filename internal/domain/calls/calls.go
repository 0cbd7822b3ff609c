// Package calls keeps mock video call sessions in memory.
package calls

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ayushkatiyar1508/brain-guard/pkg/metrics"
)

// Sentinel kinds for call errors.
var (
	ErrUnknownContact = errors.New("unknown contact")
	ErrOffline        = errors.New("contact is offline")
	ErrBusy           = errors.New("user already in a call")
	ErrNoSession      = errors.New("call session not found")
)

// Status is a contact's availability.
type Status string

// Contact availabilities.
const (
	Online  Status = "online"
	Busy    Status = "busy"
	Offline Status = "offline"
)

// Contact is an entry of the call directory.
type Contact struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Status Status `json:"status"`
}

// Scheduled is an upcoming call.
type Scheduled struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Contact string `json:"contact"`
	Time    string `json:"time"`
}

// Session is one call.
type Session struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	Contact      Contact    `json:"contact"`
	Muted        bool       `json:"muted"`
	VideoEnabled bool       `json:"video_enabled"`
	Active       bool       `json:"active"`
	StartedAt    time.Time  `json:"started_at"`
	EndedAt      *time.Time `json:"ended_at,omitempty"`
}

var directory = []Contact{
	{ID: "1", Name: "Dr. Sarah Johnson", Role: "Healthcare Professional", Status: Online},
	{ID: "2", Name: "Emily Chen", Role: "Family Caregiver", Status: Online},
	{ID: "3", Name: "Michael Brown", Role: "Professional Caregiver", Status: Offline},
	{ID: "4", Name: "Dr. Robert Lee", Role: "Healthcare Professional", Status: Busy},
}

var schedule = []Scheduled{
	{ID: "1", Title: "Weekly Check-in", Contact: "Dr. Sarah Johnson", Time: "Today, 2:00 PM"},
	{ID: "2", Title: "Family Call", Contact: "Emily Chen", Time: "Tomorrow, 10:00 AM"},
}

// Manager tracks call sessions.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	active   map[string]string // user id -> session id
	now      func() time.Time
}

// Option configures the Manager.
type Option func(*Manager)

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewManager creates an empty session manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		sessions: make(map[string]*Session),
		active:   make(map[string]string),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Contacts returns the call directory.
func (m *Manager) Contacts() []Contact {
	return append([]Contact(nil), directory...)
}

// Upcoming returns the scheduled calls.
func (m *Manager) Upcoming() []Scheduled {
	return append([]Scheduled(nil), schedule...)
}

// Start opens a call from userID to contactID with video on and audio unmuted.
func (m *Manager) Start(userID, contactID string) (Session, error) {
	var contact *Contact
	for i := range directory {
		if directory[i].ID == contactID {
			contact = &directory[i]
			break
		}
	}
	if contact == nil {
		return Session{}, fmt.Errorf("%w: %s", ErrUnknownContact, contactID)
	}
	if contact.Status == Offline {
		return Session{}, fmt.Errorf("%w: %s", ErrOffline, contact.Name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.active[userID]; ok {
		return Session{}, fmt.Errorf("%w: session %s", ErrBusy, id)
	}
	s := &Session{
		ID:           uuid.NewString(),
		UserID:       userID,
		Contact:      *contact,
		VideoEnabled: true,
		Active:       true,
		StartedAt:    m.now().UTC(),
	}
	m.sessions[s.ID] = s
	m.active[userID] = s.ID
	metrics.UpdateVideoCallsActive(len(m.active))
	return *s, nil
}

// Get returns a session.
func (m *Manager) Get(id string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return Session{}, ErrNoSession
	}
	return *s, nil
}

// ToggleMute flips the microphone of an active call.
func (m *Manager) ToggleMute(id string) (Session, error) {
	return m.modify(id, func(s *Session) { s.Muted = !s.Muted })
}

// ToggleVideo flips the camera of an active call.
func (m *Manager) ToggleVideo(id string) (Session, error) {
	return m.modify(id, func(s *Session) { s.VideoEnabled = !s.VideoEnabled })
}

// End hangs up, resetting the mute and video flags.
func (m *Manager) End(id string) (Session, error) {
	return m.modify(id, func(s *Session) {
		ended := m.now().UTC()
		s.Active = false
		s.Muted = false
		s.VideoEnabled = true
		s.EndedAt = &ended
		delete(m.active, s.UserID)
		metrics.UpdateVideoCallsActive(len(m.active))
	})
}

// ActiveCount returns the number of calls in progress.
func (m *Manager) ActiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.active)
}

func (m *Manager) modify(id string, fn func(*Session)) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok || !s.Active {
		return Session{}, ErrNoSession
	}
	fn(s)
	return *s, nil
}
