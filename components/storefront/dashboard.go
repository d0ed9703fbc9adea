package storefront

import (
	"context"
	"fmt"
	"html"
	"sort"

	"github.com/goliatone/go-storefront/pkg/activity"
)

const recentActivityLimit = 5

// MergeRecentActivity folds recent orders and bookings into one feed sorted
// newest first, truncated to the display limit.
func MergeRecentActivity(orders []OrderSummary, bookings []BookingSummary) []ActivityEntry {
	entries := make([]ActivityEntry, 0, len(orders)+len(bookings))
	for _, order := range orders {
		amount := order.Total
		entries = append(entries, ActivityEntry{
			Description: fmt.Sprintf("Order by %s", order.Customer),
			Date:        order.CreatedAt,
			Amount:      &amount,
		})
	}
	for _, booking := range bookings {
		entries = append(entries, ActivityEntry{
			Description: fmt.Sprintf("%s booked by %s", booking.Service, booking.Customer),
			Date:        booking.CreatedAt,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.After(entries[j].Date)
	})
	if len(entries) > recentActivityLimit {
		entries = entries[:recentActivityLimit]
	}
	return entries
}

func allZeroRevenue(points []RevenuePoint) bool {
	for _, p := range points {
		if p.Value != 0 {
			return false
		}
	}
	return true
}

func allZeroPerformance(slices []PerformanceSlice) bool {
	for _, s := range slices {
		if s.Value != 0 {
			return false
		}
	}
	return true
}

func allZeroCounts(items []ServiceCount) bool {
	for _, item := range items {
		if item.Count != 0 {
			return false
		}
	}
	return true
}

// LoadDashboard dispatches on the signed-in role. Customers and guests have
// no dashboard; the panel is left untouched for them.
func (a *App) LoadDashboard(ctx context.Context) error {
	user, ok := a.CurrentUser()
	if !ok {
		return nil
	}
	switch user.Role {
	case RoleStaff:
		return a.loadStaffDashboard(ctx)
	case RoleAdmin:
		return a.loadAdminDashboard(ctx, user)
	default:
		return nil
	}
}

// dashboardUnavailable replaces the whole dashboard with a retry affordance
// and releases every chart, since their containers just left the page.
func (a *App) dashboardUnavailable(ctx context.Context, err error) {
	a.record(ctx, "storefront.dashboard.load_error", map[string]any{"error": err.Error()})
	a.opts.Charts.DestroyAll()
	a.opts.View.ReplacePanel(PanelDashboard, fmt.Sprintf(
		`<div class="dashboard-error"><p>%s</p><button data-action="reload-dashboard">Retry</button></div>`,
		html.EscapeString(loadErrorMessage(err)),
	))
}

func (a *App) loadStaffDashboard(ctx context.Context) error {
	data, err := a.opts.Client.StaffDashboard(ctx)
	if err != nil {
		a.dashboardUnavailable(ctx, err)
		return err
	}
	markup, err := a.render("dashboard_staff", map[string]any{
		"stats":        data.Stats,
		"appointments": data.Appointments,
		"sales":        data.Sales,
		"vouchers":     data.Vouchers,
	})
	if err != nil {
		a.dashboardUnavailable(ctx, err)
		return err
	}
	a.opts.View.ReplacePanel(PanelDashboard, markup)
	a.drawDashboardCharts(ctx, data.Revenue, data.Performance, data.TopServices)
	return nil
}

func (a *App) loadAdminDashboard(ctx context.Context, user User) error {
	data, err := a.opts.Client.AdminDashboard(ctx)
	if err != nil {
		a.dashboardUnavailable(ctx, err)
		return err
	}
	markup, err := a.render("dashboard_admin", map[string]any{
		"stats":    data.Stats,
		"orders":   data.Orders,
		"bookings": data.Bookings,
		"activity": MergeRecentActivity(data.Orders, data.Bookings),
	})
	if err != nil {
		a.dashboardUnavailable(ctx, err)
		return err
	}
	a.opts.View.ReplacePanel(PanelDashboard, markup)
	a.drawDashboardCharts(ctx, data.Revenue, data.Performance, data.TopServices)
	a.emitActivity(ctx, activity.Event{
		Verb:       "view",
		ActorID:    user.ID,
		ObjectType: "dashboard",
		ObjectID:   "admin",
	})
	return nil
}

// drawDashboardCharts runs the three guarded chart renders. A series with no
// points, or with every value at zero, degrades to a placeholder instead of
// an empty canvas.
func (a *App) drawDashboardCharts(ctx context.Context, revenue []RevenuePoint, performance []PerformanceSlice, services []ServiceCount) {
	a.drawChart(ctx, SlotRevenue, "Revenue", revenue,
		len(revenue) == 0 || allZeroRevenue(revenue),
		func() (string, error) { return renderRevenueChart(revenue) })
	a.drawChart(ctx, SlotStaffPerformance, "Staff Performance", performance,
		len(performance) == 0 || allZeroPerformance(performance),
		func() (string, error) { return renderStaffPerformanceChart(performance) })
	a.drawChart(ctx, SlotServices, "Popular Services", services,
		len(services) == 0 || allZeroCounts(services),
		func() (string, error) { return renderPopularServicesChart(services) })
}
