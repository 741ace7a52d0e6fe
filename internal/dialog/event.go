// Package dialog implements the guided-input flows that collect a
// transaction or a budget over several chat turns before committing it.
package dialog

import "ledgerbot/internal/models"

// EventType discriminates the payload of an inbound Event.
type EventType string

const (
	EventText   EventType = "text"
	EventOption EventType = "option"
	EventCancel EventType = "cancel"
)

// Valid reports whether t is a known event type.
func (t EventType) Valid() bool {
	switch t {
	case EventText, EventOption, EventCancel:
		return true
	}
	return false
}

// Event is one input from a chat user.
type Event struct {
	ExternalID     string         `json:"external_id"`
	ConversationID string         `json:"conversation_id"`
	Profile        models.Profile `json:"profile"`
	Type           EventType      `json:"type"`
	Text           string         `json:"text,omitempty"`
	Option         string         `json:"option,omitempty"`
}

// Target tells the transport where a reply goes.
type Target string

const (
	// TargetReplace edits the message whose option was selected.
	TargetReplace Target = "replace"
	// TargetNew sends a new message.
	TargetNew Target = "new"
)

// TargetFor returns the natural reply target for ev.
func TargetFor(ev Event) Target {
	if ev.Type == EventOption {
		return TargetReplace
	}
	return TargetNew
}

// Option is a labeled selectable choice. Token is what comes back in an
// EventOption when the user selects it.
type Option struct {
	Label string `json:"label"`
	Token string `json:"token"`
}

// Reply is one outbound message.
type Reply struct {
	Target  Target   `json:"target"`
	Text    string   `json:"text"`
	Options []Option `json:"options,omitempty"`
}

// Outcome describes what a handled event did to the flow.
type Outcome string

const (
	OutcomeContinue  Outcome = "continue"
	OutcomeCommitted Outcome = "committed"
	OutcomeCancelled Outcome = "cancelled"
	OutcomeFailed    Outcome = "failed"
)

// Terminal reports whether the flow ended.
func (o Outcome) Terminal() bool {
	return o != OutcomeContinue
}

// Result is the machine's answer to one event.
type Result struct {
	Outcome Outcome
	Reply   Reply
}

// Option tokens understood by the flows.
const (
	TokenCancel          = "cancel"
	TokenCategoryPrefix  = "cat:"
	TokenCategoryOther   = "cat:other"
	TokenSkipDescription = "desc:skip"
	TokenPeriodCurrent   = "period:current_month"
	TokenPeriodNext      = "period:next_month"
	TokenPeriodCustom    = "period:custom"
)

// CancelOption is appended to every prompt of a running flow.
var CancelOption = Option{Label: "❌ Cancel", Token: TokenCancel}
