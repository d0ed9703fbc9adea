package activity

import "context"

// Hook receives normalized events.
type Hook interface {
	Notify(ctx context.Context, evt Event) error
}

// HookFunc adapts a plain function into a Hook.
type HookFunc func(ctx context.Context, evt Event) error

// Notify implements Hook.
func (f HookFunc) Notify(ctx context.Context, evt Event) error {
	return f(ctx, evt)
}

// Hooks is an ordered hook list. Notify fans out to every hook; the first
// error stops the chain.
type Hooks []Hook

// Notify normalizes the event and delivers it. Events without a verb are
// skipped silently.
func (h Hooks) Notify(ctx context.Context, evt Event) error {
	normalized := NormalizeEvent(evt)
	if normalized.Verb == "" {
		return nil
	}
	for _, hook := range h {
		if hook == nil {
			continue
		}
		if err := hook.Notify(ctx, normalized); err != nil {
			return err
		}
	}
	return nil
}
