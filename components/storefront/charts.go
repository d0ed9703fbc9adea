package storefront

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"sync"

	"github.com/ettle/strcase"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const chartHeight = "320px"

// Chart slot names. Each slot holds at most one live chart instance.
const (
	SlotRevenue          = "revenueChart"
	SlotStaffPerformance = "staffPerformanceChart"
	SlotServices         = "servicesChart"
)

// chartTarget derives the panel code a slot renders into.
func chartTarget(slot string) string {
	return strcase.ToKebab(slot)
}

// ChartSlots tracks the live chart per named slot. Drawing into an occupied
// slot releases the previous instance first; skipping that step leaks the
// rendered resources and duplicates canvases.
type ChartSlots struct {
	mu        sync.Mutex
	live      map[string]string
	onRelease func(slot string)
}

// NewChartSlots builds an empty slot set. onRelease may be nil; tests use it
// to observe the destroy-before-draw invariant.
func NewChartSlots(onRelease func(slot string)) *ChartSlots {
	return &ChartSlots{
		live:      make(map[string]string),
		onRelease: onRelease,
	}
}

// Draw installs freshly rendered chart HTML into the slot, destroying any
// prior instance.
func (s *ChartSlots) Draw(slot, html string) {
	s.mu.Lock()
	_, occupied := s.live[slot]
	s.live[slot] = html
	release := s.onRelease
	s.mu.Unlock()
	if occupied && release != nil {
		release(slot)
	}
}

// Destroy clears the slot.
func (s *ChartSlots) Destroy(slot string) {
	s.mu.Lock()
	_, occupied := s.live[slot]
	delete(s.live, slot)
	release := s.onRelease
	s.mu.Unlock()
	if occupied && release != nil {
		release(slot)
	}
}

// DestroyAll clears every slot, e.g. when the dashboard panel is replaced
// wholesale.
func (s *ChartSlots) DestroyAll() {
	for _, slot := range []string{SlotRevenue, SlotStaffPerformance, SlotServices} {
		s.Destroy(slot)
	}
}

// HTML returns the live chart markup for a slot.
func (s *ChartSlots) HTML(slot string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	html, ok := s.live[slot]
	return html, ok
}

// Count reports how many instances a slot holds: zero or one.
func (s *ChartSlots) Count(slot string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.live[slot]; ok {
		return 1
	}
	return 0
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func globalChartOptions(title string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme:  types.ThemeWesteros,
			Width:  "100%",
			Height: chartHeight,
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
}

func renderRevenueChart(points []RevenuePoint) (string, error) {
	line := charts.NewLine()
	line.SetGlobalOptions(globalChartOptions("Revenue")...)
	labels := make([]string, len(points))
	data := make([]opts.LineData, len(points))
	for i, point := range points {
		labels[i] = point.Label
		data[i] = opts.LineData{Value: point.Value}
	}
	line.SetXAxis(labels)
	line.AddSeries("Revenue", data)
	line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	return renderChart(line)
}

func renderStaffPerformanceChart(slices []PerformanceSlice) (string, error) {
	pie := charts.NewPie()
	pie.SetGlobalOptions(globalChartOptions("Staff Performance")...)
	data := make([]opts.PieData, len(slices))
	for i, slice := range slices {
		data[i] = opts.PieData{Name: slice.Staff, Value: slice.Value}
	}
	pie.AddSeries("Staff", data)
	pie.SetSeriesOptions(charts.WithPieChartOpts(opts.PieChart{
		Radius: []string{"45%", "72%"},
	}))
	return renderChart(pie)
}

func renderPopularServicesChart(items []ServiceCount) (string, error) {
	bar := charts.NewBar()
	bar.SetGlobalOptions(globalChartOptions("Popular Services")...)
	labels := make([]string, len(items))
	data := make([]opts.BarData, len(items))
	for i, item := range items {
		labels[i] = item.Service
		data[i] = opts.BarData{Value: item.Count}
	}
	bar.SetXAxis(labels)
	bar.AddSeries("Bookings", data)
	return renderChart(bar)
}

func chartPlaceholder(title string) string {
	return fmt.Sprintf(`<p class="chart-placeholder">%s data is not available yet.</p>`, html.EscapeString(title))
}

// drawChart runs one guarded chart render: missing targets are skipped,
// empty datasets and construction failures degrade to a textual placeholder.
// Chart errors never propagate to the dashboard load.
func (a *App) drawChart(ctx context.Context, slot, title string, data any, empty bool, build func() (string, error)) {
	target := chartTarget(slot)
	if !a.opts.View.Has(target) {
		a.opts.Telemetry.Record(ctx, "storefront.chart.skip", map[string]any{"slot": slot})
		return
	}
	if empty {
		a.opts.Charts.Destroy(slot)
		a.opts.View.ReplacePanel(target, chartPlaceholder(title))
		return
	}
	key := slot + ":" + configHash(map[string]any{"title": title, "data": data})
	markup, err := a.opts.Cache.GetOrRender(key, build)
	if err != nil {
		a.opts.Telemetry.Record(ctx, "storefront.chart.error", map[string]any{
			"slot":  slot,
			"error": err.Error(),
		})
		a.opts.Charts.Destroy(slot)
		a.opts.View.ReplacePanel(target, chartPlaceholder(title))
		return
	}
	a.opts.Charts.Draw(slot, markup)
	a.opts.View.ReplacePanel(target, markup)
}
