package storefront

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adminDashboardHandler(payload map[string]any) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/dashboard/admin" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(payload)
	})
}

func TestMergeRecentActivitySortsAndTruncates(t *testing.T) {
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	orders := []OrderSummary{
		{ID: "o-1", Customer: "Ana", Total: 100, CreatedAt: base.Add(5 * time.Hour)},
		{ID: "o-2", Customer: "Ben", Total: 50, CreatedAt: base.Add(1 * time.Hour)},
		{ID: "o-3", Customer: "Cam", Total: 75, CreatedAt: base.Add(3 * time.Hour)},
	}
	bookings := []BookingSummary{
		{ID: "b-1", Service: "Haircut", Customer: "Dee", CreatedAt: base.Add(6 * time.Hour)},
		{ID: "b-2", Service: "Color", Customer: "Eli", CreatedAt: base.Add(2 * time.Hour)},
		{ID: "b-3", Service: "Spa", Customer: "Fay", CreatedAt: base.Add(4 * time.Hour)},
	}

	entries := MergeRecentActivity(orders, bookings)

	require.Len(t, entries, 5, "feed truncates to five entries")
	assert.Equal(t, "Haircut booked by Dee", entries[0].Description)
	assert.Nil(t, entries[0].Amount)
	assert.Equal(t, "Order by Ana", entries[1].Description)
	require.NotNil(t, entries[1].Amount)
	assert.Equal(t, 100.0, *entries[1].Amount)
	for i := 1; i < len(entries); i++ {
		assert.False(t, entries[i].Date.After(entries[i-1].Date), "entries must be newest first")
	}
}

func TestMergeRecentActivityShorterThanLimit(t *testing.T) {
	entries := MergeRecentActivity(
		[]OrderSummary{{Customer: "Ana", CreatedAt: time.Now()}},
		[]BookingSummary{{Service: "Spa", Customer: "Bo", CreatedAt: time.Now()}},
	)
	assert.Len(t, entries, 2)
}

func TestLoadDashboardIgnoresCustomers(t *testing.T) {
	env := newTestEnv(t, nil)
	env.signIn(RoleCustomer)

	require.NoError(t, env.app.LoadDashboard(context.Background()))
	assert.Equal(t, 0, env.requests.count())
	html, _ := env.panels.HTML(PanelDashboard)
	assert.Empty(t, html)
}

func TestLoadDashboardAdminRendersPanelAndCharts(t *testing.T) {
	payload := map[string]any{
		"stats":            map[string]any{"revenue": 1000.0, "orders": 4},
		"recentOrders":     []map[string]any{{"id": "o-1", "customer": "Ana", "total": 100.0, "createdAt": "2026-08-01T10:00:00Z"}},
		"recentBookings":   []map[string]any{},
		"revenueSeries":    []map[string]any{{"label": "Mon", "value": 100.0}},
		"staffPerformance": []map[string]any{{"staff": "Maya", "value": 5.0}},
		"popularServices":  []map[string]any{{"service": "Haircut", "count": 3}},
	}
	env := newTestEnv(t, adminDashboardHandler(payload))
	env.signIn(RoleAdmin)

	require.NoError(t, env.app.LoadDashboard(context.Background()))

	html, _ := env.panels.HTML(PanelDashboard)
	assert.Equal(t, "<rendered:dashboard_admin>", html)
	assert.Equal(t, 1, env.app.Charts().Count(SlotRevenue))
	assert.Equal(t, 1, env.app.Charts().Count(SlotStaffPerformance))
	assert.Equal(t, 1, env.app.Charts().Count(SlotServices))

	revenueHTML, ok := env.panels.HTML(chartTarget(SlotRevenue))
	require.True(t, ok)
	assert.NotEmpty(t, revenueHTML)
}

func TestLoadDashboardErrorShowsRetryAndDestroysCharts(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	env := newTestEnv(t, handler)
	env.signIn(RoleAdmin)
	env.app.Charts().Draw(SlotRevenue, "<old chart>")

	err := env.app.LoadDashboard(context.Background())
	require.Error(t, err)

	html, _ := env.panels.HTML(PanelDashboard)
	assert.True(t, strings.Contains(html, "reload-dashboard"), "panel should carry a retry affordance: %s", html)
	assert.Equal(t, 0, env.app.Charts().Count(SlotRevenue))
}

func TestLoadDashboardErrorMessageIsEscaped(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "<script>alert(1)</script>"})
	})
	env := newTestEnv(t, handler)
	env.signIn(RoleAdmin)

	require.Error(t, env.app.LoadDashboard(context.Background()))

	html, _ := env.panels.HTML(PanelDashboard)
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestLoadDashboardEmptySeriesRendersPlaceholders(t *testing.T) {
	payload := map[string]any{
		"stats":            map[string]any{},
		"recentOrders":     []map[string]any{},
		"recentBookings":   []map[string]any{},
		"revenueSeries":    []map[string]any{},
		"staffPerformance": []map[string]any{{"staff": "Maya", "value": 0.0}},
		"popularServices":  []map[string]any{{"service": "Haircut", "count": 0}},
	}
	env := newTestEnv(t, adminDashboardHandler(payload))
	env.signIn(RoleAdmin)

	require.NoError(t, env.app.LoadDashboard(context.Background()))

	assert.Equal(t, 0, env.app.Charts().Count(SlotRevenue))
	assert.Equal(t, 0, env.app.Charts().Count(SlotStaffPerformance))
	assert.Equal(t, 0, env.app.Charts().Count(SlotServices))
	html, _ := env.panels.HTML(chartTarget(SlotRevenue))
	assert.Contains(t, html, "chart-placeholder")
}

func TestLoadDashboardStaffRendersStaffTemplate(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/dashboard/staff" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"stats":                map[string]any{"appointments": 2},
			"upcomingAppointments": []map[string]any{{"id": "a-1", "service": "Haircut", "customer": "Ana", "time": "10:00"}},
			"revenueSeries":        []map[string]any{{"label": "Mon", "value": 50.0}},
		})
	})
	env := newTestEnv(t, handler)
	env.signIn(RoleStaff)

	require.NoError(t, env.app.LoadDashboard(context.Background()))

	html, _ := env.panels.HTML(PanelDashboard)
	assert.Equal(t, "<rendered:dashboard_staff>", html)
	assert.Equal(t, 1, env.app.Charts().Count(SlotRevenue))
	assert.Equal(t, 0, env.app.Charts().Count(SlotStaffPerformance))
}

func TestDrawChartSkipsUnboundTarget(t *testing.T) {
	telemetry := &recordingTelemetry{}
	panels := NewPanelSet(nil, PanelDashboard)
	app := NewApp(Options{
		View:      panels,
		Telemetry: telemetry,
		Renderer:  &stubRenderer{},
	})
	app.drawChart(context.Background(), SlotRevenue, "Revenue", nil, false, func() (string, error) {
		t.Fatal("build must not run for unbound targets")
		return "", nil
	})
	assert.True(t, telemetry.has("storefront.chart.skip"))
}

func TestChartRedrawReplacesInstance(t *testing.T) {
	var released []string
	slots := NewChartSlots(func(slot string) { released = append(released, slot) })

	slots.Draw(SlotRevenue, "<v1>")
	slots.Draw(SlotRevenue, "<v2>")

	assert.Equal(t, 1, slots.Count(SlotRevenue))
	assert.Equal(t, []string{SlotRevenue}, released)
	html, _ := slots.HTML(SlotRevenue)
	assert.Equal(t, "<v2>", html)
}
