package notification

import "maps"

// Channel is a logical routing group for notifications. It is independent of
// the transport used to deliver them.
type Channel string

const (
	ChannelSignals Channel = "signals"
	ChannelIdeas   Channel = "ideas"
	ChannelEvents  Channel = "events"
	ChannelSystem  Channel = "system"
)

// Priority represents the notification priority level.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Action represents a call-to-action button attached to a notification.
type Action struct {
	Label string `json:"label"`
	URL   string `json:"url"`
	Style string `json:"style,omitempty"` // primary, secondary, danger
}

// Payload is the notification content and routing metadata that flows through
// the classifier, the filter engine and the scheduler.
type Payload struct {
	Title     string         `json:"title"`
	Body      string         `json:"body"`
	Channel   Channel        `json:"channel,omitempty"`
	Priority  Priority       `json:"priority,omitempty"`
	Type      string         `json:"type,omitempty"`
	Category  string         `json:"category,omitempty"`
	Tag       string         `json:"tag,omitempty"`
	TargetURL string         `json:"target_url,omitempty"`
	Actions   []Action       `json:"actions,omitempty"`
	Data      map[string]any `json:"data,omitempty"` // Custom payload
}

// Clone returns a deep copy of the payload. The filter engine mutates a
// working copy per rule, so shared slices and maps must not alias.
func (p Payload) Clone() Payload {
	c := p
	if p.Actions != nil {
		c.Actions = make([]Action, len(p.Actions))
		copy(c.Actions, p.Actions)
	}
	if p.Data != nil {
		c.Data = maps.Clone(p.Data)
	}
	return c
}

// SetData assigns a custom data field, allocating the map when needed.
func (p *Payload) SetData(key string, value any) {
	if p.Data == nil {
		p.Data = make(map[string]any)
	}
	p.Data[key] = value
}
