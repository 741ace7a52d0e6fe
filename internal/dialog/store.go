package dialog

import (
	"sync"
	"time"

	"ledgerbot/internal/models"
	"ledgerbot/internal/money"
)

// FlowID names a guided-input flow.
type FlowID string

const (
	FlowTransaction FlowID = "transaction"
	FlowBudget      FlowID = "budget"
)

// StepID names a step of a flow.
type StepID string

const (
	StepAmount      StepID = "awaiting_amount"
	StepCategory    StepID = "awaiting_category"
	StepDescription StepID = "awaiting_description"
	StepName        StepID = "awaiting_name"
	StepPeriod      StepID = "awaiting_period"
)

// Draft holds the fields validated so far. A zero field is not yet collected.
type Draft struct {
	Kind         models.CategoryType
	Amount       money.Amount
	CategoryName string
	Description  *string
	Name         string
	StartDate    time.Time
	EndDate      *time.Time
}

// Session is the state of one running flow.
type Session struct {
	Flow   FlowID
	Step   StepID
	UserID string
	Draft  Draft
	// NewCategory is set after "other" was selected: the next text names a new category.
	NewCategory bool
	// Offered are the options shown with the last prompt.
	Offered []Option
}

type sessionKey struct {
	externalID     string
	conversationID string
}

// Store keeps sessions in memory, keyed by (external user id, conversation id).
type Store struct {
	mu       sync.Mutex
	sessions map[sessionKey]*Session
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{sessions: make(map[sessionKey]*Session)}
}

// Get returns a copy of the session, if any.
func (s *Store) Get(externalID, conversationID string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionKey{externalID, conversationID}]
	if !ok {
		return Session{}, false
	}
	return *sess, true
}

// Put stores sess, replacing any previous session for the key.
func (s *Store) Put(externalID, conversationID string, sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionKey{externalID, conversationID}] = &sess
}

// Delete discards the session for the key.
func (s *Store) Delete(externalID, conversationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionKey{externalID, conversationID})
}

// Len returns the number of running sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
