package storefront

import (
	"context"
	"time"

	"github.com/goliatone/go-storefront/pkg/activity"
)

// BookService stages a service for booking and reveals the booking form.
// Guests are redirected to the login view with nothing staged.
func (a *App) BookService(ctx context.Context, service Service) error {
	if !a.Authenticated() {
		a.opts.View.Alert("Please log in to book a service.")
		a.opts.View.Navigate(ViewLogin)
		return ErrAuthRequired
	}
	a.staged.mu.Lock()
	a.staged.booking = &PendingBooking{
		ServiceID: service.ID,
		Name:      service.Name,
		Price:     service.Price,
		Duration:  service.Duration,
	}
	a.staged.mu.Unlock()

	markup, err := a.render("booking_form", map[string]any{"service": service})
	if err != nil {
		a.record(ctx, "storefront.booking.render_error", map[string]any{"error": err.Error()})
	} else {
		a.opts.View.ReplacePanel(PanelBookingForm, markup)
	}
	a.opts.View.ShowPanel(PanelBookingForm)
	a.opts.View.ScrollTo(PanelBookingForm)
	return nil
}

// StagedBooking returns the staged service selection, if any.
func (a *App) StagedBooking() (PendingBooking, bool) {
	a.staged.mu.Lock()
	defer a.staged.mu.Unlock()
	if a.staged.booking == nil {
		return PendingBooking{}, false
	}
	return *a.staged.booking, true
}

// ConfirmBooking submits the staged service with the chosen slot. The date
// must be today or later by the app clock; past dates never reach the server.
func (a *App) ConfirmBooking(ctx context.Context, date, slot, specialRequests string) error {
	staged, ok := a.StagedBooking()
	if !ok {
		a.opts.View.Alert("Please choose a service first.")
		return ErrNothingStaged
	}
	if err := a.checkSelectableDate(date); err != nil {
		return err
	}
	if err := a.opts.Client.CreateBooking(ctx, BookingRequest{
		Service:         staged.ServiceID,
		Date:            date,
		Time:            slot,
		SpecialRequests: specialRequests,
	}); err != nil {
		return err
	}
	a.staged.mu.Lock()
	a.staged.booking = nil
	a.staged.mu.Unlock()
	a.opts.View.ResetForm(FormBooking)
	a.opts.View.HidePanel(PanelBookingForm)
	a.opts.View.Alert("Booking confirmed!")
	user, _ := a.CurrentUser()
	a.emitActivity(ctx, activity.Event{
		Verb:       "book",
		ActorID:    user.ID,
		ObjectType: "service",
		ObjectID:   staged.ServiceID,
		Metadata:   map[string]any{"date": date, "time": slot},
	})
	return nil
}

// checkSelectableDate enforces the date floor shared by booking and gift
// delivery: the form value must parse as YYYY-MM-DD and fall on or after the
// clock's calendar day in its own location, not the UTC day.
func (a *App) checkSelectableDate(date string) error {
	when, err := time.Parse(time.DateOnly, date)
	if err != nil {
		a.opts.View.Alert("Please pick a valid date.")
		return ErrInvalidDate
	}
	year, month, day := a.now().Date()
	today := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if when.Before(today) {
		a.opts.View.Alert("Please choose a date from today onwards.")
		return ErrPastDate
	}
	return nil
}

// CustomizeGift stages a gift package and reveals the customization form.
func (a *App) CustomizeGift(ctx context.Context, gift GiftPackage) error {
	if !a.Authenticated() {
		a.opts.View.Alert("Please log in to customize a gift.")
		a.opts.View.Navigate(ViewLogin)
		return ErrAuthRequired
	}
	a.staged.mu.Lock()
	a.staged.gift = &PendingGift{GiftID: gift.ID, Name: gift.Name}
	a.staged.mu.Unlock()

	markup, err := a.render("gift_form", map[string]any{"gift": gift})
	if err != nil {
		a.record(ctx, "storefront.gift.render_error", map[string]any{"error": err.Error()})
	} else {
		a.opts.View.ReplacePanel(PanelGiftForm, markup)
	}
	a.opts.View.ShowPanel(PanelGiftForm)
	a.opts.View.ScrollTo(PanelGiftForm)
	return nil
}

// StagedGift returns the staged gift selection, if any.
func (a *App) StagedGift() (PendingGift, bool) {
	a.staged.mu.Lock()
	defer a.staged.mu.Unlock()
	if a.staged.gift == nil {
		return PendingGift{}, false
	}
	return *a.staged.gift, true
}

// CreateGift completes the gift customization. The flow is display-only:
// it shows a confirmation and clears the staged selection without calling
// the server, which has no gift order endpoint yet. The delivery date is
// validated against the same floor as bookings.
func (a *App) CreateGift(ctx context.Context, recipient, message, deliveryDate string) error {
	staged, ok := a.StagedGift()
	if !ok {
		a.opts.View.Alert("Please choose a gift package first.")
		return ErrNothingStaged
	}
	if err := a.checkSelectableDate(deliveryDate); err != nil {
		return err
	}
	markup, err := a.render("gift_confirmation", map[string]any{
		"gift":      staged,
		"recipient": recipient,
		"message":   message,
		"delivery":  deliveryDate,
	})
	if err != nil {
		a.record(ctx, "storefront.gift.render_error", map[string]any{"error": err.Error()})
	} else {
		a.opts.View.ReplacePanel(PanelGiftForm, markup)
	}
	a.staged.mu.Lock()
	a.staged.gift = nil
	a.staged.mu.Unlock()
	a.opts.View.ResetForm(FormGift)
	a.opts.View.Alert("Gift created for " + recipient + "!")
	return nil
}
