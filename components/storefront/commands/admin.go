package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	storefront "github.com/goliatone/go-storefront/components/storefront"
)

type adminService interface {
	CreateService(ctx context.Context, input storefront.CreateServiceInput) error
	CreateProduct(ctx context.Context, input storefront.CreateProductInput) error
	CreateVoucher(ctx context.Context, input storefront.CreateVoucherInput) error
}

// CreateServiceCommand submits the admin add-service form.
type CreateServiceCommand struct {
	service   adminService
	telemetry Telemetry
	guard     inflightGuard
}

// NewCreateServiceCommand creates a command instance.
func NewCreateServiceCommand(service adminService, telemetry Telemetry) *CreateServiceCommand {
	return &CreateServiceCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[storefront.CreateServiceInput] = (*CreateServiceCommand)(nil)

// Execute delegates to the storefront app.
func (c *CreateServiceCommand) Execute(ctx context.Context, msg storefront.CreateServiceInput) error {
	if c.service == nil {
		return errors.New("create service command requires service")
	}
	if err := c.guard.acquire(); err != nil {
		return err
	}
	defer c.guard.release()
	if err := c.service.CreateService(ctx, msg); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "storefront.command.create_service", map[string]any{
		"name": msg.Name,
	})
	return nil
}

// CreateProductCommand submits the admin add-product form.
type CreateProductCommand struct {
	service   adminService
	telemetry Telemetry
	guard     inflightGuard
}

// NewCreateProductCommand creates a command instance.
func NewCreateProductCommand(service adminService, telemetry Telemetry) *CreateProductCommand {
	return &CreateProductCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[storefront.CreateProductInput] = (*CreateProductCommand)(nil)

// Execute delegates to the storefront app.
func (c *CreateProductCommand) Execute(ctx context.Context, msg storefront.CreateProductInput) error {
	if c.service == nil {
		return errors.New("create product command requires service")
	}
	if err := c.guard.acquire(); err != nil {
		return err
	}
	defer c.guard.release()
	if err := c.service.CreateProduct(ctx, msg); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "storefront.command.create_product", map[string]any{
		"name": msg.Name,
	})
	return nil
}

// CreateVoucherCommand submits the admin add-voucher form.
type CreateVoucherCommand struct {
	service   adminService
	telemetry Telemetry
	guard     inflightGuard
}

// NewCreateVoucherCommand creates a command instance.
func NewCreateVoucherCommand(service adminService, telemetry Telemetry) *CreateVoucherCommand {
	return &CreateVoucherCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[storefront.CreateVoucherInput] = (*CreateVoucherCommand)(nil)

// Execute delegates to the storefront app.
func (c *CreateVoucherCommand) Execute(ctx context.Context, msg storefront.CreateVoucherInput) error {
	if c.service == nil {
		return errors.New("create voucher command requires service")
	}
	if err := c.guard.acquire(); err != nil {
		return err
	}
	defer c.guard.release()
	if err := c.service.CreateVoucher(ctx, msg); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "storefront.command.create_voucher", map[string]any{
		"code": msg.Code,
	})
	return nil
}
