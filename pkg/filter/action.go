package filter

import (
	"time"

	"github.com/dmitrymomot/notifykit/pkg/notification"
)

// ActionType identifies what an action does to the payload.
type ActionType string

const (
	ActionAllow          ActionType = "allow"
	ActionBlock          ActionType = "block"
	ActionDelay          ActionType = "delay"
	ActionRedirect       ActionType = "redirect"
	ActionModifyPriority ActionType = "modify_priority"
	ActionModifyContent  ActionType = "modify_content"
	ActionGroup          ActionType = "group"
	ActionArchive        ActionType = "archive"
	ActionMarkAsRead     ActionType = "mark_as_read"
)

// Valid reports whether the action type is one of the known kinds.
func (t ActionType) Valid() bool {
	switch t {
	case ActionAllow, ActionBlock, ActionDelay, ActionRedirect, ActionModifyPriority,
		ActionModifyContent, ActionGroup, ActionArchive, ActionMarkAsRead:
		return true
	}
	return false
}

// DataKeyDelay is the custom-data key a delay action writes its hint to,
// in milliseconds. Callers scheduling the payload read it back.
const DataKeyDelay = "delay_ms"

// Action is a tagged variant: Type selects the behavior and the matching
// value field supplies its parameter. Unused fields are ignored.
type Action struct {
	Type ActionType `json:"type"`

	Delay    time.Duration         `json:"delay,omitempty"`    // delay
	URL      string                `json:"url,omitempty"`      // redirect
	Priority notification.Priority `json:"priority,omitempty"` // modify_priority
	Title    string                `json:"title,omitempty"`    // modify_content, empty keeps current
	Body     string                `json:"body,omitempty"`     // modify_content, empty keeps current
	Suffix   string                `json:"suffix,omitempty"`   // group
}

// apply mutates the payload according to the action type. The switch is
// exhaustive over all non-block kinds; block never reaches apply because the
// engine halts the pipeline on it.
func (a Action) apply(p *notification.Payload) {
	switch a.Type {
	case ActionAllow:
		// Explicit allow carries no mutation.
	case ActionDelay:
		p.SetData(DataKeyDelay, a.Delay.Milliseconds())
	case ActionRedirect:
		p.TargetURL = a.URL
	case ActionModifyPriority:
		p.Priority = a.Priority
	case ActionModifyContent:
		if a.Title != "" {
			p.Title = a.Title
		}
		if a.Body != "" {
			p.Body = a.Body
		}
	case ActionGroup:
		p.Tag += a.Suffix
	case ActionArchive:
		p.SetData("archived", true)
	case ActionMarkAsRead:
		p.SetData("read", true)
	case ActionBlock:
		// Handled by the engine before apply is reached.
	}
}
