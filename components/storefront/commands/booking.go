package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
)

// ConfirmBookingRequest carries the booking form fields. The staged service
// lives in the app.
type ConfirmBookingRequest struct {
	Date            string
	Time            string
	SpecialRequests string
}

type bookingService interface {
	ConfirmBooking(ctx context.Context, date, slot, specialRequests string) error
}

// ConfirmBookingCommand submits the staged service booking.
type ConfirmBookingCommand struct {
	service   bookingService
	telemetry Telemetry
	guard     inflightGuard
}

// NewConfirmBookingCommand creates a command instance.
func NewConfirmBookingCommand(service bookingService, telemetry Telemetry) *ConfirmBookingCommand {
	return &ConfirmBookingCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ConfirmBookingRequest] = (*ConfirmBookingCommand)(nil)

// Execute delegates to the storefront app. Concurrent submissions are
// rejected with ErrSubmissionInFlight.
func (c *ConfirmBookingCommand) Execute(ctx context.Context, msg ConfirmBookingRequest) error {
	if c.service == nil {
		return errors.New("booking command requires service")
	}
	if err := c.guard.acquire(); err != nil {
		return err
	}
	defer c.guard.release()
	if err := c.service.ConfirmBooking(ctx, msg.Date, msg.Time, msg.SpecialRequests); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "storefront.command.booking", map[string]any{
		"date": msg.Date,
		"time": msg.Time,
	})
	return nil
}
