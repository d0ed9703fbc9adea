package activity

import (
	"strings"
	"time"
)

// DefaultChannel is used when an event does not name one.
const DefaultChannel = "storefront"

// Event is a single domain action worth recording: a login, an order, an
// admin edit. Events flow through Hooks to whatever sinks are configured.
type Event struct {
	Verb           string
	ActorID        string
	UserID         string
	TenantID       string
	ObjectType     string
	ObjectID       string
	Channel        string
	DefinitionCode string
	Recipients     []string
	Metadata       map[string]any
	OccurredAt     time.Time
}

// NormalizeEvent trims identifier fields, fills the channel and timestamp
// defaults, and clones the mutable members so hooks cannot alias each other.
func NormalizeEvent(evt Event) Event {
	evt.Verb = strings.TrimSpace(evt.Verb)
	evt.ActorID = strings.TrimSpace(evt.ActorID)
	evt.UserID = strings.TrimSpace(evt.UserID)
	evt.TenantID = strings.TrimSpace(evt.TenantID)
	evt.ObjectType = strings.TrimSpace(evt.ObjectType)
	evt.ObjectID = strings.TrimSpace(evt.ObjectID)
	evt.Channel = strings.TrimSpace(evt.Channel)
	evt.DefinitionCode = strings.TrimSpace(evt.DefinitionCode)
	if evt.Channel == "" {
		evt.Channel = DefaultChannel
	}
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now()
	}
	if evt.Metadata != nil {
		meta := make(map[string]any, len(evt.Metadata))
		for k, v := range evt.Metadata {
			meta[k] = v
		}
		evt.Metadata = meta
	}
	if evt.Recipients != nil {
		recipients := make([]string, len(evt.Recipients))
		copy(recipients, evt.Recipients)
		evt.Recipients = recipients
	}
	return evt
}
