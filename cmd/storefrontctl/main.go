package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	storefront "github.com/goliatone/go-storefront/components/storefront"
)

type cli struct {
	Profile string `type:"path" help:"Path to the profile file (defaults to ~/.storefrontctl.yaml)."`

	Login      loginCmd      `cmd:"" help:"Sign in and persist the access token."`
	Logout     logoutCmd     `cmd:"" help:"Discard the persisted access token."`
	Whoami     whoamiCmd     `cmd:"" help:"Show the identity behind the current token."`
	Catalog    catalogCmd    `cmd:"" help:"List a catalog section (products, services, gifts)."`
	Dashboard  dashboardCmd  `cmd:"" help:"Print the dashboard snapshot for the signed-in role."`
	AddService addServiceCmd `cmd:"" name:"add-service" help:"Create a salon service (admin)."`
	AddProduct addProductCmd `cmd:"" name:"add-product" help:"Create a retail product (admin)."`
	AddVoucher addVoucherCmd `cmd:"" name:"add-voucher" help:"Create a discount voucher (admin)."`
}

// profile is the on-disk CLI configuration.
type profile struct {
	BaseURL   string `yaml:"base_url"`
	TokenPath string `yaml:"token_path"`
}

type env struct {
	client *storefront.Client
	tokens *storefront.FileTokenStore
	log    *logrus.Logger
}

func main() {
	_ = godotenv.Load()
	root := &cli{}
	ctx := kong.Parse(root,
		kong.Description("Command-line companion for the storefront API."),
		kong.UsageOnError(),
	)
	e, err := newEnv(root.Profile)
	ctx.FatalIfErrorf(err)
	err = ctx.Run(context.Background(), e)
	ctx.FatalIfErrorf(err)
}

func newEnv(profilePath string) (*env, error) {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "severity",
			logrus.FieldKeyMsg:   "message",
		},
	})

	prof, err := loadProfile(profilePath)
	if err != nil {
		return nil, err
	}
	tokens := storefront.NewFileTokenStore(prof.TokenPath)
	client := storefront.NewClient(storefront.ClientConfig{
		BaseURL: prof.BaseURL,
		Tokens:  storeTokenSource{store: tokens},
	})
	return &env{client: client, tokens: tokens, log: log}, nil
}

func loadProfile(path string) (profile, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return profile{}, fmt.Errorf("storefrontctl: resolve home dir: %w", err)
	}
	prof := profile{
		BaseURL:   storefront.ResolveBaseURL(),
		TokenPath: filepath.Join(home, ".storefront", "token.json"),
	}
	if path == "" {
		path = filepath.Join(home, ".storefrontctl.yaml")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return prof, nil
		}
		return profile{}, fmt.Errorf("storefrontctl: read profile: %w", err)
	}
	if err := yaml.Unmarshal(data, &prof); err != nil {
		return profile{}, fmt.Errorf("storefrontctl: parse profile: %w", err)
	}
	if prof.BaseURL == "" {
		prof.BaseURL = storefront.ResolveBaseURL()
	}
	if prof.TokenPath == "" {
		prof.TokenPath = filepath.Join(home, ".storefront", "token.json")
	}
	return prof, nil
}

// storeTokenSource reads the token from disk on every request so a login in
// another terminal takes effect immediately.
type storeTokenSource struct {
	store *storefront.FileTokenStore
}

func (s storeTokenSource) Token() string {
	token, err := s.store.Load()
	if err != nil {
		return ""
	}
	return token
}

type loginCmd struct {
	Email    string `required:"" help:"Account email."`
	Password string `required:"" help:"Account password."`
}

func (cmd *loginCmd) Run(ctx context.Context, e *env) error {
	app := storefront.NewApp(storefront.Options{
		Client: e.client,
		Tokens: e.tokens,
	})
	if err := app.Login(ctx, cmd.Email, cmd.Password); err != nil {
		return err
	}
	user, _ := app.CurrentUser()
	e.log.WithFields(logrus.Fields{"email": user.Email, "role": user.Role}).Info("signed in")
	return nil
}

type logoutCmd struct{}

func (cmd *logoutCmd) Run(_ context.Context, e *env) error {
	if err := e.tokens.Clear(); err != nil {
		return err
	}
	e.log.Info("signed out")
	return nil
}

type whoamiCmd struct{}

func (cmd *whoamiCmd) Run(ctx context.Context, e *env) error {
	user, err := e.client.Me(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "%s <%s> (%s)\n", user.Name, user.Email, user.Role)
	return nil
}

type catalogCmd struct {
	Section string `arg:"" enum:"products,services,gifts" help:"Catalog section to list."`
}

func (cmd *catalogCmd) Run(ctx context.Context, e *env) error {
	switch cmd.Section {
	case "products":
		raw, err := e.client.Products(ctx)
		if err != nil {
			return err
		}
		for _, p := range storefront.DecodeCollection[storefront.Product](ctx, raw, "products", nil) {
			fmt.Fprintf(os.Stdout, "%-30s $%.2f (stock %d)\n", p.Name, p.Price, p.Stock)
		}
	case "services":
		raw, err := e.client.Services(ctx)
		if err != nil {
			return err
		}
		for _, s := range storefront.DecodeCollection[storefront.Service](ctx, raw, "services", nil) {
			fmt.Fprintf(os.Stdout, "%-30s $%.2f (%d min)\n", s.Name, s.Price, s.Duration)
		}
	case "gifts":
		raw, err := e.client.GiftPackages(ctx)
		if err != nil {
			return err
		}
		for _, g := range storefront.DecodeCollection[storefront.GiftPackage](ctx, raw, "giftPackages", nil) {
			fmt.Fprintf(os.Stdout, "%-30s $%.2f\n", g.Name, g.Price)
		}
	}
	return nil
}

type dashboardCmd struct {
	Out string `type:"path" help:"Write the rendered chart HTML snapshot to this file."`
}

func (cmd *dashboardCmd) Run(ctx context.Context, e *env) error {
	user, err := e.client.Me(ctx)
	if err != nil {
		return err
	}
	if cmd.Out != "" {
		return writeChartSnapshot(ctx, e, cmd.Out)
	}
	switch user.Role {
	case storefront.RoleStaff:
		data, err := e.client.StaffDashboard(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "appointments=%d revenue=%.2f bookings=%d\n",
			data.Stats.Appointments, data.Stats.Revenue, data.Stats.Bookings)
		for _, appt := range data.Appointments {
			fmt.Fprintf(os.Stdout, "  %s with %s at %s\n", appt.Service, appt.Customer, appt.Time)
		}
	case storefront.RoleAdmin:
		data, err := e.client.AdminDashboard(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "revenue=%.2f orders=%d bookings=%d customers=%d\n",
			data.Stats.Revenue, data.Stats.Orders, data.Stats.Bookings, data.Stats.Customers)
		for _, entry := range storefront.MergeRecentActivity(data.Orders, data.Bookings) {
			fmt.Fprintf(os.Stdout, "  %s\n", entry.Description)
		}
	default:
		return fmt.Errorf("storefrontctl: no dashboard for role %q", user.Role)
	}
	return nil
}

// writeChartSnapshot runs a full dashboard load through the app so the
// go-echarts builders produce the same markup the page shows, then dumps the
// live chart slots to a standalone HTML file.
func writeChartSnapshot(ctx context.Context, e *env, path string) error {
	app := storefront.NewApp(storefront.Options{
		Client: e.client,
		Tokens: e.tokens,
	})
	app.Restore(ctx)
	if err := app.LoadDashboard(ctx); err != nil {
		return err
	}
	var buf bytes.Buffer
	for _, slot := range []string{storefront.SlotRevenue, storefront.SlotStaffPerformance, storefront.SlotServices} {
		if markup, ok := app.Charts().HTML(slot); ok {
			buf.WriteString(markup)
			buf.WriteString("\n")
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("storefrontctl: write snapshot: %w", err)
	}
	e.log.WithField("path", path).Info("chart snapshot written")
	return nil
}

type addServiceCmd struct {
	Name        string `required:"" help:"Service name."`
	Description string `help:"Service description."`
	Price       string `required:"" help:"Service price (decimals are truncated)."`
	Duration    string `required:"" help:"Duration in minutes."`
}

func (cmd *addServiceCmd) Run(ctx context.Context, e *env) error {
	err := e.client.CreateService(ctx, storefront.CreateServiceInput{
		Name:        cmd.Name,
		Description: cmd.Description,
		Price:       storefront.IntFromForm(cmd.Price),
		Duration:    storefront.IntFromForm(cmd.Duration),
	})
	if err != nil {
		return err
	}
	e.log.WithField("name", cmd.Name).Info("service created")
	return nil
}

type addProductCmd struct {
	Name        string `required:"" help:"Product name."`
	Description string `help:"Product description."`
	Price       string `required:"" help:"Product price (decimals are truncated)."`
	Stock       string `required:"" help:"Initial stock count."`
}

func (cmd *addProductCmd) Run(ctx context.Context, e *env) error {
	err := e.client.CreateProduct(ctx, storefront.CreateProductInput{
		Name:        cmd.Name,
		Description: cmd.Description,
		Price:       storefront.IntFromForm(cmd.Price),
		Stock:       storefront.IntFromForm(cmd.Stock),
	})
	if err != nil {
		return err
	}
	e.log.WithField("name", cmd.Name).Info("product created")
	return nil
}

type addVoucherCmd struct {
	Code       string `required:"" help:"Voucher code."`
	Discount   string `required:"" help:"Discount percentage."`
	AssignedTo string `help:"Staff user id the voucher is assigned to."`
	ExpiresAt  string `help:"Expiry date (YYYY-MM-DD)."`
}

func (cmd *addVoucherCmd) Run(ctx context.Context, e *env) error {
	err := e.client.CreateVoucher(ctx, storefront.CreateVoucherInput{
		Code:       cmd.Code,
		Discount:   storefront.IntFromForm(cmd.Discount),
		AssignedTo: cmd.AssignedTo,
		ExpiresAt:  cmd.ExpiresAt,
	})
	if err != nil {
		return err
	}
	e.log.WithField("code", cmd.Code).Info("voucher created")
	return nil
}
