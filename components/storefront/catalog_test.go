package storefront

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadProductsRendersGrid(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/products", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{"products": []map[string]any{
			{"id": "p-1", "name": "Oil", "price": 150.0},
		}})
	})
	env := newTestEnv(t, handler)

	items := env.app.LoadProducts(context.Background())

	require.Len(t, items, 1)
	html, _ := env.panels.HTML(PanelProducts)
	assert.Equal(t, "<rendered:products>", html)
}

func TestLoadServicesEmptyShowsInfoPlaceholder(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]any{})
	})
	env := newTestEnv(t, handler)

	items := env.app.LoadServices(context.Background())

	assert.Empty(t, items)
	html, _ := env.panels.HTML(PanelServices)
	assert.Contains(t, html, "panel-info")
	assert.Contains(t, html, "No services available yet.")
}

func TestLoadGiftPackagesErrorShowsWarning(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "catalog offline"})
	})
	env := newTestEnv(t, handler)

	items := env.app.LoadGiftPackages(context.Background())

	assert.Empty(t, items)
	html, _ := env.panels.HTML(PanelGifts)
	assert.Contains(t, html, "panel-warning")
	assert.Contains(t, html, "catalog offline")
}

func TestLoadProductsNetworkFailureShowsConnectionMessage(t *testing.T) {
	env := newTestEnv(t, nil)
	env.server.Close()

	items := env.app.LoadProducts(context.Background())

	assert.Empty(t, items)
	html, _ := env.panels.HTML(PanelProducts)
	assert.Contains(t, html, "check your connection")
	assert.NotContains(t, html, "Unable to load this section")
}

func TestLoadProductsServerErrorShowsGenericMessage(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	env := newTestEnv(t, handler)

	env.app.LoadProducts(context.Background())

	html, _ := env.panels.HTML(PanelProducts)
	assert.Contains(t, html, "Unable to load this section")
	assert.NotContains(t, html, "check your connection")
}

func TestLoadProductsUnrecognizedPayloadShowsPlaceholder(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"total": 3})
	})
	env := newTestEnv(t, handler)

	items := env.app.LoadProducts(context.Background())

	assert.Empty(t, items)
	html, _ := env.panels.HTML(PanelProducts)
	assert.Contains(t, html, "panel-info")
}
