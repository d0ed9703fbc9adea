package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
)

// CheckoutRequest triggers a cart submission. The cart contents live in the
// app; the request carries no payload.
type CheckoutRequest struct{}

type checkoutService interface {
	Checkout(ctx context.Context) error
}

// CheckoutCommand submits the session cart as one order.
type CheckoutCommand struct {
	service   checkoutService
	telemetry Telemetry
	guard     inflightGuard
}

// NewCheckoutCommand creates a command instance.
func NewCheckoutCommand(service checkoutService, telemetry Telemetry) *CheckoutCommand {
	return &CheckoutCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[CheckoutRequest] = (*CheckoutCommand)(nil)

// Execute delegates to the storefront app. Concurrent submissions are
// rejected with ErrSubmissionInFlight so a double click cannot place two
// orders.
func (c *CheckoutCommand) Execute(ctx context.Context, _ CheckoutRequest) error {
	if c.service == nil {
		return errors.New("checkout command requires service")
	}
	if err := c.guard.acquire(); err != nil {
		return err
	}
	defer c.guard.release()
	if err := c.service.Checkout(ctx); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "storefront.command.checkout", nil)
	return nil
}
