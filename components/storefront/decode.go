package storefront

import (
	"context"
	"encoding/json"
)

// DecodeCollection extracts a list of T from a response document that may be
// a bare array, `{"<name>": [...]}`, or `{"data": [...]}`. Any other shape
// decodes as an empty collection with a recorded warning; the boundary never
// fails a page load over a surprising payload.
func DecodeCollection[T any](ctx context.Context, raw json.RawMessage, name string, telemetry Telemetry) []T {
	telemetry = normalizeTelemetry(telemetry)
	if len(raw) == 0 {
		return nil
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err == nil {
		return items
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		telemetry.Record(ctx, "storefront.decode.unrecognized", map[string]any{
			"collection": name,
		})
		return nil
	}
	for _, key := range []string{name, "data"} {
		inner, ok := envelope[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(inner, &items); err == nil {
			return items
		}
	}
	telemetry.Record(ctx, "storefront.decode.unrecognized", map[string]any{
		"collection": name,
	})
	return nil
}
