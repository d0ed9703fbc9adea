package activity

import "context"

// Config toggles activity emission.
type Config struct {
	Enabled bool
}

// Emitter delivers events to its hooks when enabled.
type Emitter struct {
	hooks  Hooks
	config Config
}

// NewEmitter builds an emitter. An emitter without hooks is never enabled.
func NewEmitter(hooks Hooks, config Config) *Emitter {
	return &Emitter{hooks: hooks, config: config}
}

// Enabled reports whether events will be delivered.
func (e *Emitter) Enabled() bool {
	return e != nil && e.config.Enabled && len(e.hooks) > 0
}

// Emit delivers the event through the hook chain. Disabled emitters drop
// events without error.
func (e *Emitter) Emit(ctx context.Context, evt Event) error {
	if !e.Enabled() {
		return nil
	}
	return e.hooks.Notify(ctx, evt)
}
