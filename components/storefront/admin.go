package storefront

import (
	"context"
	"strconv"
	"strings"

	"github.com/goliatone/go-storefront/pkg/activity"
)

// IntFromForm parses a numeric form field the way the admin forms always
// have: integers pass through, decimals truncate, anything else is zero.
func IntFromForm(value string) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if n, err := strconv.Atoi(value); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return int(f)
	}
	return 0
}

func (a *App) requireAdmin() (User, error) {
	user, ok := a.CurrentUser()
	if !ok || user.Role != RoleAdmin {
		return User{}, ErrAuthRequired
	}
	return user, nil
}

// CreateService validates and submits the add-service form, then closes the
// modal and refreshes the services grid so the new entry shows immediately.
func (a *App) CreateService(ctx context.Context, input CreateServiceInput) error {
	admin, err := a.requireAdmin()
	if err != nil {
		return err
	}
	if err := a.opts.Validator.Validate("service", map[string]any{
		"name":        input.Name,
		"description": input.Description,
		"price":       input.Price,
		"duration":    input.Duration,
	}); err != nil {
		a.opts.View.Alert(err.Error())
		return err
	}
	if err := a.opts.Client.CreateService(ctx, input); err != nil {
		return err
	}
	a.opts.View.HidePanel(PanelServiceModal)
	a.LoadServices(ctx)
	a.emitActivity(ctx, activity.Event{
		Verb:       "create",
		ActorID:    admin.ID,
		ObjectType: "service",
		Metadata:   map[string]any{"name": input.Name},
	})
	return nil
}

// CreateProduct validates and submits the add-product form, then closes the
// modal and refreshes the product grid.
func (a *App) CreateProduct(ctx context.Context, input CreateProductInput) error {
	admin, err := a.requireAdmin()
	if err != nil {
		return err
	}
	if err := a.opts.Validator.Validate("product", map[string]any{
		"name":        input.Name,
		"description": input.Description,
		"price":       input.Price,
		"stock":       input.Stock,
	}); err != nil {
		a.opts.View.Alert(err.Error())
		return err
	}
	if err := a.opts.Client.CreateProduct(ctx, input); err != nil {
		return err
	}
	a.opts.View.HidePanel(PanelProductModal)
	a.LoadProducts(ctx)
	a.emitActivity(ctx, activity.Event{
		Verb:       "create",
		ActorID:    admin.ID,
		ObjectType: "product",
		Metadata:   map[string]any{"name": input.Name},
	})
	return nil
}

// StaffForVoucher returns the users eligible for voucher assignment. The
// user list is admin-only server side; non-staff roles are filtered here.
func (a *App) StaffForVoucher(ctx context.Context) ([]User, error) {
	users, err := a.opts.Client.Users(ctx)
	if err != nil {
		return nil, err
	}
	var staff []User
	for _, user := range users {
		if user.Role == RoleStaff {
			staff = append(staff, user)
		}
	}
	return staff, nil
}

// CreateVoucher validates and submits the add-voucher form. Vouchers do not
// appear in any catalog grid, so only the modal closes.
func (a *App) CreateVoucher(ctx context.Context, input CreateVoucherInput) error {
	admin, err := a.requireAdmin()
	if err != nil {
		return err
	}
	if err := a.opts.Validator.Validate("voucher", map[string]any{
		"code":       input.Code,
		"discount":   input.Discount,
		"assignedTo": input.AssignedTo,
		"expiresAt":  input.ExpiresAt,
	}); err != nil {
		a.opts.View.Alert(err.Error())
		return err
	}
	if err := a.opts.Client.CreateVoucher(ctx, input); err != nil {
		return err
	}
	a.opts.View.HidePanel(PanelVoucherModal)
	a.emitActivity(ctx, activity.Event{
		Verb:       "create",
		ActorID:    admin.ID,
		ObjectType: "voucher",
		Metadata:   map[string]any{"code": input.Code},
	})
	return nil
}
