package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
)

// LoginRequest carries the login form fields.
type LoginRequest struct {
	Email    string
	Password string
}

type loginService interface {
	Login(ctx context.Context, email, password string) error
}

// LoginCommand wraps App.Login so transports can invoke it without linking
// directly against the app.
type LoginCommand struct {
	service   loginService
	telemetry Telemetry
	guard     inflightGuard
}

// NewLoginCommand creates a command instance.
func NewLoginCommand(service loginService, telemetry Telemetry) *LoginCommand {
	return &LoginCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[LoginRequest] = (*LoginCommand)(nil)

// Execute delegates to the storefront app. Concurrent submissions are
// rejected with ErrSubmissionInFlight.
func (c *LoginCommand) Execute(ctx context.Context, msg LoginRequest) error {
	if c.service == nil {
		return errors.New("login command requires service")
	}
	if err := c.guard.acquire(); err != nil {
		return err
	}
	defer c.guard.release()
	if err := c.service.Login(ctx, msg.Email, msg.Password); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "storefront.command.login", map[string]any{
		"email": msg.Email,
	})
	return nil
}
