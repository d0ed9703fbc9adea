package storefront

import (
	"context"
	"time"

	"github.com/goliatone/go-storefront/pkg/activity"
)

// Options configures the storefront App. Every collaborator is provided via
// interface so applications can swap implementations without importing
// internal go-storefront packages.
type Options struct {
	Client    *Client
	View      View
	Tokens    TokenStore
	Renderer  Renderer
	Charts    *ChartSlots
	Cache     RenderCache
	Telemetry Telemetry
	Validator FormValidator
	Activity  *activity.Emitter
	Clock     func() time.Time
	BaseURL   string
}

// App holds the storefront session and drives every page flow. It owns the
// signed-in user, the cart, and the staged booking/gift selections.
type App struct {
	opts Options

	session sessionState
	cart    *Cart
	staged  stagedState
}

// NewApp builds an App with safe defaults: in-memory token store, bound
// default panels, a short-lived chart cache, and a client pointed at the
// resolved API base URL.
func NewApp(opts Options) *App {
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	if opts.View == nil {
		opts.View = DefaultPanelSet(opts.Telemetry)
	}
	if opts.Tokens == nil {
		opts.Tokens = NewMemoryTokenStore()
	}
	if opts.Charts == nil {
		opts.Charts = NewChartSlots(nil)
	}
	if opts.Cache == nil {
		opts.Cache = NewChartCache(30 * time.Second)
	}
	if opts.Validator == nil {
		opts.Validator = NewJSONSchemaValidator()
	}
	if opts.Renderer == nil {
		if renderer, err := NewTemplateRenderer(); err == nil {
			opts.Renderer = renderer
		} else {
			opts.Telemetry.Record(context.Background(), "storefront.renderer.init_error", map[string]any{
				"error": err.Error(),
			})
		}
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.BaseURL == "" {
		opts.BaseURL = ResolveBaseURL()
	}
	app := &App{
		opts: opts,
		cart: NewCart(),
	}
	if app.opts.Client == nil {
		app.opts.Client = NewClient(ClientConfig{
			BaseURL:   app.opts.BaseURL,
			Tokens:    app,
			Telemetry: app.opts.Telemetry,
		})
	}
	return app
}

// View exposes the bound view for transports that serialize panels.
func (a *App) View() View {
	return a.opts.View
}

// Client exposes the API client, mainly for commands and tooling built on
// top of the App.
func (a *App) Client() *Client {
	return a.opts.Client
}

// Charts exposes the live chart slots.
func (a *App) Charts() *ChartSlots {
	return a.opts.Charts
}

func (a *App) now() time.Time {
	return a.opts.Clock()
}

func (a *App) record(ctx context.Context, event string, payload map[string]any) {
	a.opts.Telemetry.Record(ctx, event, payload)
}

// emitActivity forwards a domain event to the configured emitter, if any.
func (a *App) emitActivity(ctx context.Context, event activity.Event) {
	if a.opts.Activity == nil {
		return
	}
	a.opts.Activity.Emit(ctx, event)
}

// render runs a named template through the configured renderer.
func (a *App) render(name string, data any) (string, error) {
	if a.opts.Renderer == nil {
		return "", ErrMissingRenderer
	}
	return a.opts.Renderer.Render(name, data)
}

// refreshChrome toggles the navigation affordances for the current session:
// guests see login links, signed-in users see their menu, and the management
// link and admin controls track the role.
func (a *App) refreshChrome() {
	user, ok := a.CurrentUser()
	view := a.opts.View
	if !ok {
		view.ShowPanel(PanelNavGuest)
		view.HidePanel(PanelNavUser)
		view.HidePanel(PanelNavManage)
		view.HidePanel(PanelAdminControls)
		return
	}
	view.HidePanel(PanelNavGuest)
	view.ShowPanel(PanelNavUser)
	switch user.Role {
	case RoleStaff:
		view.ShowPanel(PanelNavManage)
		view.HidePanel(PanelAdminControls)
	case RoleAdmin:
		view.ShowPanel(PanelNavManage)
		view.ShowPanel(PanelAdminControls)
	default:
		view.HidePanel(PanelNavManage)
		view.HidePanel(PanelAdminControls)
	}
}
