package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	storefront "github.com/goliatone/go-storefront/components/storefront"
)

// CatalogRequest selects which catalog section to load.
type CatalogRequest struct {
	Section string
}

// Catalog sections.
const (
	SectionProducts = "products"
	SectionServices = "services"
	SectionGifts    = "gifts"
)

type catalogService interface {
	LoadProducts(ctx context.Context) []storefront.Product
	LoadServices(ctx context.Context) []storefront.Service
	LoadGiftPackages(ctx context.Context) []storefront.GiftPackage
}

// CatalogResult carries whichever section was requested.
type CatalogResult struct {
	Products []storefront.Product
	Services []storefront.Service
	Gifts    []storefront.GiftPackage
}

// CatalogQuery loads a catalog section through the app, refreshing its panel
// as a side effect of the load.
type CatalogQuery struct {
	service catalogService
}

// NewCatalogQuery builds the query.
func NewCatalogQuery(service catalogService) *CatalogQuery {
	return &CatalogQuery{service: service}
}

var _ gocommand.Querier[CatalogRequest, CatalogResult] = (*CatalogQuery)(nil)

// Query loads the requested section. Unknown sections return an empty
// result.
func (q *CatalogQuery) Query(ctx context.Context, req CatalogRequest) (CatalogResult, error) {
	var result CatalogResult
	switch req.Section {
	case SectionProducts:
		result.Products = q.service.LoadProducts(ctx)
	case SectionServices:
		result.Services = q.service.LoadServices(ctx)
	case SectionGifts:
		result.Gifts = q.service.LoadGiftPackages(ctx)
	}
	return result, nil
}
