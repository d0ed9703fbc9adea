// Package usersink bridges storefront activity events into a go-users
// activity sink.
package usersink

import (
	"context"

	"github.com/goliatone/go-storefront/pkg/activity"
	"github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

// Sink is the subset of the go-users activity logger the hook needs.
type Sink interface {
	Log(ctx context.Context, record types.ActivityRecord) error
}

// Hook forwards events into a Sink as ActivityRecords.
type Hook struct {
	Sink Sink
}

// Notify maps the event and logs it. Events without a verb or a nil sink
// are dropped.
func (h Hook) Notify(ctx context.Context, evt activity.Event) error {
	if h.Sink == nil {
		return nil
	}
	normalized := activity.NormalizeEvent(evt)
	if normalized.Verb == "" {
		return nil
	}

	data := make(map[string]any, len(normalized.Metadata)+2)
	for k, v := range normalized.Metadata {
		data[k] = v
	}
	if normalized.DefinitionCode != "" {
		data["definition_code"] = normalized.DefinitionCode
	}
	if len(normalized.Recipients) > 0 {
		data["recipients"] = normalized.Recipients
	}

	record := types.ActivityRecord{
		ActorID:    parseUUID(normalized.ActorID),
		UserID:     parseUUID(normalized.UserID),
		TenantID:   parseUUID(normalized.TenantID),
		Verb:       normalized.Verb,
		ObjectType: normalized.ObjectType,
		ObjectID:   normalized.ObjectID,
		Channel:    normalized.Channel,
		OccurredAt: normalized.OccurredAt,
		Data:       data,
	}
	return h.Sink.Log(ctx, record)
}

func parseUUID(value string) uuid.UUID {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil
	}
	return id
}
