package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
)

func warningPanel(message string) string {
	return fmt.Sprintf(`<p class="panel-warning">%s</p>`, html.EscapeString(message))
}

func infoPanel(message string) string {
	return fmt.Sprintf(`<p class="panel-info">%s</p>`, html.EscapeString(message))
}

// loadCollection runs one catalog load: fetch, tolerant decode, and a full
// panel re-render. Failures surface as an inline warning in the panel, never
// as a page error.
func loadCollection[T any](ctx context.Context, a *App, panel, name, templateName, emptyMessage string, fetch func(context.Context) (json.RawMessage, error)) []T {
	raw, err := fetch(ctx)
	if err != nil {
		a.record(ctx, "storefront.catalog.load_error", map[string]any{
			"collection": name,
			"error":      err.Error(),
		})
		a.opts.View.ReplacePanel(panel, warningPanel(loadErrorMessage(err)))
		return nil
	}
	items := DecodeCollection[T](ctx, raw, name, a.opts.Telemetry)
	if len(items) == 0 {
		a.opts.View.ReplacePanel(panel, infoPanel(emptyMessage))
		return items
	}
	markup, err := a.render(templateName, map[string]any{"items": items})
	if err != nil {
		a.record(ctx, "storefront.catalog.render_error", map[string]any{
			"collection": name,
			"error":      err.Error(),
		})
		a.opts.View.ReplacePanel(panel, warningPanel("Unable to display "+name+" right now."))
		return items
	}
	a.opts.View.ReplacePanel(panel, markup)
	return items
}

func loadErrorMessage(err error) string {
	if errors.Is(err, ErrNetworkUnavailable) {
		return "Unable to reach the server. Please check your connection."
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.Message != "" {
		return statusErr.Message
	}
	return "Unable to load this section. Please try again later."
}

// LoadProducts refreshes the product grid from the API.
func (a *App) LoadProducts(ctx context.Context) []Product {
	return loadCollection[Product](ctx, a, PanelProducts, "products", "products", "No products available yet.", a.opts.Client.Products)
}

// LoadServices refreshes the services grid from the API.
func (a *App) LoadServices(ctx context.Context) []Service {
	return loadCollection[Service](ctx, a, PanelServices, "services", "services", "No services available yet.", a.opts.Client.Services)
}

// LoadGiftPackages refreshes the gift package grid from the API.
func (a *App) LoadGiftPackages(ctx context.Context) []GiftPackage {
	return loadCollection[GiftPackage](ctx, a, PanelGifts, "giftPackages", "gifts", "No gift packages available yet.", a.opts.Client.GiftPackages)
}
