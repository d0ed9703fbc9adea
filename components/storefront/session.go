package storefront

import (
	"context"
	"strings"
	"sync"

	"github.com/goliatone/go-storefront/pkg/activity"
)

// sessionState holds the signed-in identity. The token is mirrored into the
// TokenStore so it survives restarts.
type sessionState struct {
	mu    sync.RWMutex
	user  *User
	token string
}

// stagedState holds the single-slot booking and gift selections. Staging a
// new selection replaces the previous one.
type stagedState struct {
	mu      sync.Mutex
	booking *PendingBooking
	gift    *PendingGift
}

// Token implements TokenSource for the API client.
func (a *App) Token() string {
	a.session.mu.RLock()
	defer a.session.mu.RUnlock()
	return a.session.token
}

// CurrentUser returns the adopted identity, if any.
func (a *App) CurrentUser() (User, bool) {
	a.session.mu.RLock()
	defer a.session.mu.RUnlock()
	if a.session.user == nil {
		return User{}, false
	}
	return *a.session.user, true
}

// Authenticated reports whether a user is signed in.
func (a *App) Authenticated() bool {
	_, ok := a.CurrentUser()
	return ok
}

func (a *App) adoptSession(user User, token string) {
	a.session.mu.Lock()
	a.session.user = &user
	if token != "" {
		a.session.token = token
	}
	a.session.mu.Unlock()
}

func (a *App) dropSession() {
	a.session.mu.Lock()
	a.session.user = nil
	a.session.token = ""
	a.session.mu.Unlock()
}

// Restore revives a previous session from the persisted token. It degrades
// silently: any failure, from a missing token to a rejected identity lookup,
// leaves the app signed out and discards the stale token.
func (a *App) Restore(ctx context.Context) {
	token, err := a.opts.Tokens.Load()
	if err != nil || token == "" {
		if err != nil {
			a.record(ctx, "storefront.session.restore_error", map[string]any{"error": err.Error()})
		}
		a.refreshChrome()
		return
	}
	a.session.mu.Lock()
	a.session.token = token
	a.session.mu.Unlock()

	user, err := a.opts.Client.Me(ctx)
	if err != nil {
		a.record(ctx, "storefront.session.restore_rejected", map[string]any{"error": err.Error()})
		a.dropSession()
		if clearErr := a.opts.Tokens.Clear(); clearErr != nil {
			a.record(ctx, "storefront.session.clear_error", map[string]any{"error": clearErr.Error()})
		}
		a.refreshChrome()
		return
	}
	a.adoptSession(user, token)
	a.refreshChrome()
}

// Login authenticates against the API, persists the token, adopts the user,
// and returns the view to the home page.
func (a *App) Login(ctx context.Context, email, password string) error {
	resp, err := a.opts.Client.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if err := a.opts.Tokens.Save(resp.Token); err != nil {
		a.record(ctx, "storefront.session.persist_error", map[string]any{"error": err.Error()})
	}
	a.adoptSession(resp.User, resp.Token)
	a.refreshChrome()
	a.opts.View.ResetForm(FormLogin)
	a.opts.View.Navigate(ViewHome)
	a.emitActivity(ctx, activity.Event{
		Verb:       "login",
		ActorID:    resp.User.ID,
		ObjectType: "session",
	})
	return nil
}

// Register creates an account and signs the new user straight in.
func (a *App) Register(ctx context.Context, input RegisterInput) error {
	resp, err := a.opts.Client.Register(ctx, input)
	if err != nil {
		return err
	}
	if err := a.opts.Tokens.Save(resp.Token); err != nil {
		a.record(ctx, "storefront.session.persist_error", map[string]any{"error": err.Error()})
	}
	a.adoptSession(resp.User, resp.Token)
	a.refreshChrome()
	a.opts.View.ResetForm(FormRegister)
	a.opts.View.Navigate(ViewHome)
	a.emitActivity(ctx, activity.Event{
		Verb:       "register",
		ActorID:    resp.User.ID,
		ObjectType: "user",
		ObjectID:   resp.User.ID,
	})
	return nil
}

// Logout drops the session, clears the persisted token, and resets every
// session-scoped surface: cart, staged selections, charts, and chrome.
func (a *App) Logout(ctx context.Context) {
	a.dropSession()
	if err := a.opts.Tokens.Clear(); err != nil {
		a.record(ctx, "storefront.session.clear_error", map[string]any{"error": err.Error()})
	}
	a.cart.Clear()
	a.staged.mu.Lock()
	a.staged.booking = nil
	a.staged.gift = nil
	a.staged.mu.Unlock()
	a.opts.Charts.DestroyAll()
	a.refreshChrome()
	a.opts.View.Navigate(ViewHome)
}

// UpdateProfile submits the editable fields and merges them into the local
// identity on success.
func (a *App) UpdateProfile(ctx context.Context, fields ProfileUpdate) error {
	if !a.Authenticated() {
		return ErrAuthRequired
	}
	if err := a.opts.Client.UpdateProfile(ctx, fields); err != nil {
		return err
	}
	a.session.mu.Lock()
	if a.session.user != nil {
		a.session.user.Name = fields.Name
		a.session.user.Phone = fields.Phone
		a.session.user.Address = fields.Address
	}
	a.session.mu.Unlock()
	a.refreshChrome()
	return nil
}

// ChangePassword verifies the confirmation locally before contacting the
// server; a mismatch never leaves the client.
func (a *App) ChangePassword(ctx context.Context, current, next, confirm string) error {
	if !a.Authenticated() {
		return ErrAuthRequired
	}
	if strings.TrimSpace(next) == "" || next != confirm {
		return ErrPasswordMismatch
	}
	if err := a.opts.Client.ChangePassword(ctx, current, next); err != nil {
		return err
	}
	a.opts.View.ResetForm(FormPassword)
	return nil
}
