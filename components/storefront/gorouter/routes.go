package gorouter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	router "github.com/goliatone/go-router"

	storefront "github.com/goliatone/go-storefront/components/storefront"
	"github.com/goliatone/go-storefront/components/storefront/commands"
	"github.com/goliatone/go-storefront/components/storefront/queries"
)

// Commands bundles the write-side handlers the routes dispatch to.
type Commands struct {
	Login         *commands.LoginCommand
	Checkout      *commands.CheckoutCommand
	Booking       *commands.ConfirmBookingCommand
	CreateService *commands.CreateServiceCommand
	CreateProduct *commands.CreateProductCommand
	CreateVoucher *commands.CreateVoucherCommand
}

// NewCommands wires every command against the app.
func NewCommands(app *storefront.App, telemetry commands.Telemetry) Commands {
	return Commands{
		Login:         commands.NewLoginCommand(app, telemetry),
		Checkout:      commands.NewCheckoutCommand(app, telemetry),
		Booking:       commands.NewConfirmBookingCommand(app, telemetry),
		CreateService: commands.NewCreateServiceCommand(app, telemetry),
		CreateProduct: commands.NewCreateProductCommand(app, telemetry),
		CreateVoucher: commands.NewCreateVoucherCommand(app, telemetry),
	}
}

// Config wires go-router with the storefront app, commands, and broadcast
// hook.
type Config[T any] struct {
	Router    router.Router[T]
	App       *storefront.App
	Commands  Commands
	Broadcast *storefront.BroadcastHook
	BasePath  string
	Routes    RouteConfig
}

// RouteConfig customizes the relative paths used for storefront endpoints.
type RouteConfig struct {
	Panels    string
	Catalog   string
	Login     string
	Register  string
	Logout    string
	Profile   string
	Password  string
	CartItems string
	CartItem  string
	Checkout  string
	Book      string
	Booking   string
	Gift      string
	GiftForm  string
	Dashboard string
	Services  string
	Products  string
	Vouchers  string
	WebSocket string
}

type panelSnapshotter interface {
	Snapshot() map[string]storefront.Panel
}

// Register mounts the storefront routes (page state, forms, WebSocket) on a
// go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.App == nil {
		return errors.New("gorouter: app is required")
	}
	routes := defaultRouteConfig(cfg.Routes)
	base := cfg.BasePath
	if base == "" {
		base = "/storefront"
	}
	app := cfg.App
	catalog := queries.NewCatalogQuery(app)
	dashboard := queries.NewDashboardQuery(app)

	group := cfg.Router.Group(base)

	group.Get(routes.Panels, router.WrapHandler(func(ctx router.Context) error {
		snapshotter, ok := app.View().(panelSnapshotter)
		if !ok {
			return respondError(ctx, http.StatusInternalServerError, errors.New("view does not expose panels"))
		}
		return ctx.JSON(http.StatusOK, snapshotter.Snapshot())
	}))

	group.Post(routes.Catalog, router.WrapHandler(func(ctx router.Context) error {
		result, err := catalog.Query(ctx.Context(), queries.CatalogRequest{Section: ctx.Param("section")})
		if err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, result)
	}))

	group.Post(routes.Login, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.LoginRequest
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := cfg.Commands.Login.Execute(ctx.Context(), payload); err != nil {
			return respondError(ctx, statusFor(err), err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "signed-in"})
	}))

	group.Post(routes.Register, router.WrapHandler(func(ctx router.Context) error {
		var payload storefront.RegisterInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := app.Register(ctx.Context(), payload); err != nil {
			return respondError(ctx, statusFor(err), err)
		}
		return ctx.JSON(http.StatusCreated, map[string]string{"status": "registered"})
	}))

	group.Post(routes.Logout, router.WrapHandler(func(ctx router.Context) error {
		app.Logout(ctx.Context())
		return ctx.JSON(http.StatusOK, map[string]string{"status": "signed-out"})
	}))

	group.Post(routes.Profile, router.WrapHandler(func(ctx router.Context) error {
		var payload storefront.ProfileUpdate
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := app.UpdateProfile(ctx.Context(), payload); err != nil {
			return respondError(ctx, statusFor(err), err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "updated"})
	}))

	group.Post(routes.Password, router.WrapHandler(func(ctx router.Context) error {
		var payload struct {
			Current string `json:"currentPassword"`
			Next    string `json:"newPassword"`
			Confirm string `json:"confirmPassword"`
		}
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := app.ChangePassword(ctx.Context(), payload.Current, payload.Next, payload.Confirm); err != nil {
			return respondError(ctx, statusFor(err), err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "changed"})
	}))

	group.Post(routes.CartItems, router.WrapHandler(func(ctx router.Context) error {
		var payload storefront.Product
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := app.AddToCart(ctx.Context(), payload); err != nil {
			return respondError(ctx, statusFor(err), err)
		}
		return ctx.JSON(http.StatusCreated, map[string]int{"lines": app.Cart().Len()})
	}))

	group.Delete(routes.CartItem, router.WrapHandler(func(ctx router.Context) error {
		position, err := strconv.Atoi(ctx.Param("position"))
		if err != nil {
			return respondError(ctx, http.StatusBadRequest, errors.New("position must be an integer"))
		}
		app.RemoveFromCart(ctx.Context(), position)
		return ctx.JSON(http.StatusOK, map[string]int{"lines": app.Cart().Len()})
	}))

	group.Post(routes.Checkout, router.WrapHandler(func(ctx router.Context) error {
		if err := cfg.Commands.Checkout.Execute(ctx.Context(), commands.CheckoutRequest{}); err != nil {
			return respondError(ctx, statusFor(err), err)
		}
		return ctx.JSON(http.StatusCreated, map[string]string{"status": "ordered"})
	}))

	group.Post(routes.Book, router.WrapHandler(func(ctx router.Context) error {
		var payload storefront.Service
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := app.BookService(ctx.Context(), payload); err != nil {
			return respondError(ctx, statusFor(err), err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "staged"})
	}))

	group.Post(routes.Booking, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.ConfirmBookingRequest
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := cfg.Commands.Booking.Execute(ctx.Context(), payload); err != nil {
			return respondError(ctx, statusFor(err), err)
		}
		return ctx.JSON(http.StatusCreated, map[string]string{"status": "booked"})
	}))

	group.Post(routes.GiftForm, router.WrapHandler(func(ctx router.Context) error {
		var payload storefront.GiftPackage
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := app.CustomizeGift(ctx.Context(), payload); err != nil {
			return respondError(ctx, statusFor(err), err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "staged"})
	}))

	group.Post(routes.Gift, router.WrapHandler(func(ctx router.Context) error {
		var payload struct {
			Recipient    string `json:"recipient"`
			Message      string `json:"message"`
			DeliveryDate string `json:"deliveryDate"`
		}
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := app.CreateGift(ctx.Context(), payload.Recipient, payload.Message, payload.DeliveryDate); err != nil {
			return respondError(ctx, statusFor(err), err)
		}
		return ctx.JSON(http.StatusCreated, map[string]string{"status": "created"})
	}))

	group.Post(routes.Dashboard, router.WrapHandler(func(ctx router.Context) error {
		result, err := dashboard.Query(ctx.Context(), queries.DashboardRequest{})
		if err != nil {
			return respondError(ctx, statusFor(err), err)
		}
		return ctx.JSON(http.StatusOK, result)
	}))

	group.Post(routes.Services, router.WrapHandler(func(ctx router.Context) error {
		var payload storefront.CreateServiceInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := cfg.Commands.CreateService.Execute(ctx.Context(), payload); err != nil {
			return respondError(ctx, statusFor(err), err)
		}
		return ctx.JSON(http.StatusCreated, map[string]string{"status": "created"})
	}))

	group.Post(routes.Products, router.WrapHandler(func(ctx router.Context) error {
		var payload storefront.CreateProductInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := cfg.Commands.CreateProduct.Execute(ctx.Context(), payload); err != nil {
			return respondError(ctx, statusFor(err), err)
		}
		return ctx.JSON(http.StatusCreated, map[string]string{"status": "created"})
	}))

	group.Post(routes.Vouchers, router.WrapHandler(func(ctx router.Context) error {
		var payload storefront.CreateVoucherInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := cfg.Commands.CreateVoucher.Execute(ctx.Context(), payload); err != nil {
			return respondError(ctx, statusFor(err), err)
		}
		return ctx.JSON(http.StatusCreated, map[string]string{"status": "created"})
	}))

	if cfg.Broadcast != nil {
		registerWebSocket(group, cfg.Broadcast, routes.WebSocket)
	}

	return nil
}

func registerWebSocket[T any](r router.Router[T], hook *storefront.BroadcastHook, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		events, cancel := hook.Subscribe()
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

// statusFor maps domain failures onto HTTP statuses. Remote StatusErrors
// pass through unchanged.
func statusFor(err error) int {
	var statusErr *storefront.StatusError
	switch {
	case errors.As(err, &statusErr):
		return statusErr.Status
	case errors.Is(err, storefront.ErrAuthRequired):
		return http.StatusUnauthorized
	case errors.Is(err, storefront.ErrEmptyCart),
		errors.Is(err, storefront.ErrNothingStaged),
		errors.Is(err, storefront.ErrInvalidDate),
		errors.Is(err, storefront.ErrPastDate),
		errors.Is(err, storefront.ErrPasswordMismatch):
		return http.StatusUnprocessableEntity
	case errors.Is(err, commands.ErrSubmissionInFlight):
		return http.StatusConflict
	case errors.Is(err, storefront.ErrNetworkUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondError(ctx router.Context, status int, err error) error {
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.Panels == "" {
		routes.Panels = "/panels"
	}
	if routes.Catalog == "" {
		routes.Catalog = "/catalog/:section"
	}
	if routes.Login == "" {
		routes.Login = "/session/login"
	}
	if routes.Register == "" {
		routes.Register = "/session/register"
	}
	if routes.Logout == "" {
		routes.Logout = "/session/logout"
	}
	if routes.Profile == "" {
		routes.Profile = "/session/profile"
	}
	if routes.Password == "" {
		routes.Password = "/session/password"
	}
	if routes.CartItems == "" {
		routes.CartItems = "/cart/items"
	}
	if routes.CartItem == "" {
		routes.CartItem = "/cart/items/:position"
	}
	if routes.Checkout == "" {
		routes.Checkout = "/cart/checkout"
	}
	if routes.Book == "" {
		routes.Book = "/booking/stage"
	}
	if routes.Booking == "" {
		routes.Booking = "/booking/confirm"
	}
	if routes.GiftForm == "" {
		routes.GiftForm = "/gifts/stage"
	}
	if routes.Gift == "" {
		routes.Gift = "/gifts/create"
	}
	if routes.Dashboard == "" {
		routes.Dashboard = "/dashboard/load"
	}
	if routes.Services == "" {
		routes.Services = "/admin/services"
	}
	if routes.Products == "" {
		routes.Products = "/admin/products"
	}
	if routes.Vouchers == "" {
		routes.Vouchers = "/admin/vouchers"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/ws"
	}
	return routes
}
