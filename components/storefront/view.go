package storefront

import (
	"context"
	"io"
	"sync"
)

// Panel and view codes. Chart targets are derived from chart slot names, see
// chartTarget in charts.go.
const (
	PanelProducts    = "products-grid"
	PanelServices    = "services-grid"
	PanelGifts       = "gift-packages-grid"
	PanelCart        = "cart-panel"
	PanelBookingForm = "booking-form"
	PanelGiftForm    = "gift-form"
	PanelDashboard   = "dashboard-panel"

	PanelServiceModal = "service-modal"
	PanelProductModal = "product-modal"
	PanelVoucherModal = "voucher-modal"

	PanelNavGuest      = "nav-guest"
	PanelNavUser       = "nav-user"
	PanelNavManage     = "nav-manage"
	PanelAdminControls = "admin-controls"

	ViewHome  = "home"
	ViewLogin = "login"

	FormLogin    = "login-form"
	FormRegister = "register-form"
	FormPassword = "password-form"
	FormBooking  = "booking-form"
	FormGift     = "gift-form"
)

// Renderer is the template renderer contract, satisfied by go-template.
type Renderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
}

// View is the binding layer between component logic and whatever displays
// the panels. All panel mutation goes through it so the core logic stays
// free of presentation lookups.
type View interface {
	// ReplacePanel swaps a panel's content wholesale. Unknown codes are a
	// logged no-op; loaders must never crash because markup is absent.
	ReplacePanel(code, html string)
	ShowPanel(code string)
	HidePanel(code string)
	Has(code string) bool
	Navigate(view string)
	ScrollTo(code string)
	Alert(message string)
	ResetForm(code string)
}

// Panel is the rendered state of a single named region.
type Panel struct {
	HTML    string
	Visible bool
}

// PanelSet is the default concurrency-safe View. Panels must be bound before
// they can be written; this mirrors markup that may or may not include a
// given container.
type PanelSet struct {
	mu        sync.RWMutex
	panels    map[string]*Panel
	current   string
	lastAlert string
	telemetry Telemetry
}

// NewPanelSet binds the given panel codes. Codes never bound stay silent
// no-op targets.
func NewPanelSet(telemetry Telemetry, codes ...string) *PanelSet {
	set := &PanelSet{
		panels:    make(map[string]*Panel, len(codes)),
		current:   ViewHome,
		telemetry: normalizeTelemetry(telemetry),
	}
	for _, code := range codes {
		set.panels[code] = &Panel{Visible: true}
	}
	return set
}

// DefaultPanelSet binds every panel the storefront pages use.
func DefaultPanelSet(telemetry Telemetry) *PanelSet {
	return NewPanelSet(telemetry,
		PanelProducts, PanelServices, PanelGifts,
		PanelCart, PanelBookingForm, PanelGiftForm,
		PanelDashboard,
		PanelServiceModal, PanelProductModal, PanelVoucherModal,
		PanelNavGuest, PanelNavUser, PanelNavManage, PanelAdminControls,
		chartTarget(SlotRevenue), chartTarget(SlotStaffPerformance), chartTarget(SlotServices),
	)
}

func (s *PanelSet) panel(code, op string) *Panel {
	p, ok := s.panels[code]
	if !ok {
		s.telemetry.Record(context.Background(), "storefront.view.missing_panel", map[string]any{
			"panel": code,
			"op":    op,
		})
		return nil
	}
	return p
}

func (s *PanelSet) ReplacePanel(code, html string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p := s.panel(code, "replace"); p != nil {
		p.HTML = html
	}
}

func (s *PanelSet) ShowPanel(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p := s.panel(code, "show"); p != nil {
		p.Visible = true
	}
}

func (s *PanelSet) HidePanel(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p := s.panel(code, "hide"); p != nil {
		p.Visible = false
	}
}

// Has reports whether the panel code is bound.
func (s *PanelSet) Has(code string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.panels[code]
	return ok
}

func (s *PanelSet) Navigate(view string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = view
}

// ScrollTo is a presentation hint; the in-memory set records nothing beyond
// the telemetry trail.
func (s *PanelSet) ScrollTo(code string) {
	s.telemetry.Record(context.Background(), "storefront.view.scroll", map[string]any{"panel": code})
}

func (s *PanelSet) Alert(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAlert = message
}

func (s *PanelSet) ResetForm(code string) {
	s.telemetry.Record(context.Background(), "storefront.view.reset_form", map[string]any{"form": code})
}

// CurrentView returns the active view code.
func (s *PanelSet) CurrentView() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// LastAlert returns the most recent alert message and clears it.
func (s *PanelSet) LastAlert() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	alert := s.lastAlert
	s.lastAlert = ""
	return alert
}

// Snapshot copies the panel map for transports that serialize the page.
func (s *PanelSet) Snapshot() map[string]Panel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]Panel, len(s.panels))
	for code, p := range s.panels {
		out[code] = *p
	}
	return out
}

// HTML returns a panel's content, with ok=false for unbound codes.
func (s *PanelSet) HTML(code string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.panels[code]
	if !ok {
		return "", false
	}
	return p.HTML, true
}

// Visible reports panel visibility; unbound codes are not visible.
func (s *PanelSet) Visible(code string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.panels[code]
	return ok && p.Visible
}
