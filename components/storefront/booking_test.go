package storefront

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var haircutService = Service{ID: "s-1", Name: "Haircut", Price: 45, Duration: 30}

func TestBookServiceRequiresAuth(t *testing.T) {
	env := newTestEnv(t, nil)

	err := env.app.BookService(context.Background(), haircutService)
	require.ErrorIs(t, err, ErrAuthRequired)
	_, staged := env.app.StagedBooking()
	assert.False(t, staged)
	assert.Equal(t, ViewLogin, env.panels.CurrentView())
}

func TestBookServiceStagesAndRevealsForm(t *testing.T) {
	env := newTestEnv(t, nil)
	env.signIn(RoleCustomer)
	env.panels.HidePanel(PanelBookingForm)

	require.NoError(t, env.app.BookService(context.Background(), haircutService))

	staged, ok := env.app.StagedBooking()
	require.True(t, ok)
	assert.Equal(t, "s-1", staged.ServiceID)
	assert.True(t, env.panels.Visible(PanelBookingForm))
	html, _ := env.panels.HTML(PanelBookingForm)
	assert.Equal(t, "<rendered:booking_form>", html)
}

func TestBookServiceReplacesPriorSelection(t *testing.T) {
	env := newTestEnv(t, nil)
	env.signIn(RoleCustomer)

	require.NoError(t, env.app.BookService(context.Background(), haircutService))
	require.NoError(t, env.app.BookService(context.Background(), Service{ID: "s-2", Name: "Color", Price: 120}))

	staged, _ := env.app.StagedBooking()
	assert.Equal(t, "s-2", staged.ServiceID)
}

func TestConfirmBookingWithoutStagedSelection(t *testing.T) {
	env := newTestEnv(t, nil)
	env.signIn(RoleCustomer)

	err := env.app.ConfirmBooking(context.Background(), "2026-09-01", "10:00", "")
	require.ErrorIs(t, err, ErrNothingStaged)
	assert.Equal(t, 0, env.requests.count())
}

func TestConfirmBookingRejectsPastDate(t *testing.T) {
	env := newTestEnv(t, nil)
	env.signIn(RoleCustomer)
	require.NoError(t, env.app.BookService(context.Background(), haircutService))

	// Clock is pinned to 2026-08-30 in newTestEnv.
	err := env.app.ConfirmBooking(context.Background(), "2026-08-29", "10:00", "")
	require.ErrorIs(t, err, ErrPastDate)
	assert.Equal(t, 0, env.requests.count())

	_, staged := env.app.StagedBooking()
	assert.True(t, staged, "failed submission keeps the staged service")
}

func TestConfirmBookingRejectsMalformedDate(t *testing.T) {
	env := newTestEnv(t, nil)
	env.signIn(RoleCustomer)
	require.NoError(t, env.app.BookService(context.Background(), haircutService))

	err := env.app.ConfirmBooking(context.Background(), "not-a-date", "10:00", "")
	require.ErrorIs(t, err, ErrInvalidDate)
	assert.Equal(t, 0, env.requests.count())
}

func TestConfirmBookingAcceptsToday(t *testing.T) {
	var got BookingRequest
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/bookings", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	})
	env := newTestEnv(t, handler)
	env.signIn(RoleCustomer)
	require.NoError(t, env.app.BookService(context.Background(), haircutService))

	require.NoError(t, env.app.ConfirmBooking(context.Background(), "2026-08-30", "14:30", "window seat"))

	assert.Equal(t, "s-1", got.Service)
	assert.Equal(t, "2026-08-30", got.Date)
	assert.Equal(t, "14:30", got.Time)
	assert.Equal(t, "window seat", got.SpecialRequests)

	_, staged := env.app.StagedBooking()
	assert.False(t, staged)
	assert.False(t, env.panels.Visible(PanelBookingForm))
}

func TestConfirmBookingAcceptsLocalTodayBehindUTC(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	env := newTestEnv(t, handler)
	// An evening clock seven hours behind UTC: 2026-08-30 20:00 local is
	// already 2026-08-31 03:00 UTC, but the local date must stay bookable.
	zone := time.FixedZone("behind-utc", -7*3600)
	env.app.opts.Clock = func() time.Time { return time.Date(2026, 8, 30, 20, 0, 0, 0, zone) }
	env.signIn(RoleCustomer)
	require.NoError(t, env.app.BookService(context.Background(), haircutService))

	require.NoError(t, env.app.ConfirmBooking(context.Background(), "2026-08-30", "21:00", ""))
	assert.Equal(t, 1, env.requests.count())
}

func TestGiftFlowNeverCallsServer(t *testing.T) {
	env := newTestEnv(t, nil)
	env.signIn(RoleCustomer)

	gift := GiftPackage{ID: "g-1", Name: "Spa Day", Price: 200}
	require.NoError(t, env.app.CustomizeGift(context.Background(), gift))
	require.NoError(t, env.app.CreateGift(context.Background(), "Ana", "enjoy", "2026-08-30"))

	if env.requests.count() != 0 {
		t.Fatalf("gift flow must not reach the server, saw %d requests", env.requests.count())
	}
	_, staged := env.app.StagedGift()
	assert.False(t, staged)
	html, _ := env.panels.HTML(PanelGiftForm)
	assert.Equal(t, "<rendered:gift_confirmation>", html)
	assert.Contains(t, env.panels.LastAlert(), "Ana")
}

func TestCreateGiftWithoutStagedSelection(t *testing.T) {
	env := newTestEnv(t, nil)
	env.signIn(RoleCustomer)

	err := env.app.CreateGift(context.Background(), "Ana", "", "2026-08-30")
	require.ErrorIs(t, err, ErrNothingStaged)
}

func TestCreateGiftRejectsPastDeliveryDate(t *testing.T) {
	env := newTestEnv(t, nil)
	env.signIn(RoleCustomer)
	require.NoError(t, env.app.CustomizeGift(context.Background(), GiftPackage{ID: "g-1", Name: "Spa Day"}))

	// Clock is pinned to 2026-08-30 in newTestEnv.
	err := env.app.CreateGift(context.Background(), "Ana", "", "2026-08-29")
	require.ErrorIs(t, err, ErrPastDate)

	_, staged := env.app.StagedGift()
	assert.True(t, staged, "failed submission keeps the staged gift")
}
