package queries

import (
	"context"
	"errors"
	"testing"

	storefront "github.com/goliatone/go-storefront/components/storefront"
)

type stubCatalog struct {
	products []storefront.Product
	services []storefront.Service
	gifts    []storefront.GiftPackage
}

func (s *stubCatalog) LoadProducts(context.Context) []storefront.Product { return s.products }
func (s *stubCatalog) LoadServices(context.Context) []storefront.Service { return s.services }
func (s *stubCatalog) LoadGiftPackages(context.Context) []storefront.GiftPackage {
	return s.gifts
}

func TestCatalogQueryDispatchesOnSection(t *testing.T) {
	service := &stubCatalog{
		products: []storefront.Product{{ID: "p-1"}},
		services: []storefront.Service{{ID: "s-1"}},
	}
	q := NewCatalogQuery(service)

	result, err := q.Query(context.Background(), CatalogRequest{Section: SectionProducts})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(result.Products) != 1 || len(result.Services) != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}

	result, err = q.Query(context.Background(), CatalogRequest{Section: "unknown"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(result.Products) != 0 && len(result.Services) != 0 && len(result.Gifts) != 0 {
		t.Fatalf("unknown section should be empty: %+v", result)
	}
}

type stubDashboard struct {
	err  error
	user storefront.User
	ok   bool
}

func (s *stubDashboard) LoadDashboard(context.Context) error  { return s.err }
func (s *stubDashboard) CurrentUser() (storefront.User, bool) { return s.user, s.ok }

func TestDashboardQueryReportsRole(t *testing.T) {
	q := NewDashboardQuery(&stubDashboard{
		user: storefront.User{Role: storefront.RoleAdmin},
		ok:   true,
	})
	result, err := q.Query(context.Background(), DashboardRequest{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if result.Role != storefront.RoleAdmin {
		t.Fatalf("expected admin role, got %q", result.Role)
	}
}

func TestDashboardQueryEmptyRoleForCustomers(t *testing.T) {
	q := NewDashboardQuery(&stubDashboard{
		user: storefront.User{Role: storefront.RoleCustomer},
		ok:   true,
	})
	result, err := q.Query(context.Background(), DashboardRequest{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if result.Role != "" {
		t.Fatalf("expected empty role, got %q", result.Role)
	}
}

func TestDashboardQueryPropagatesError(t *testing.T) {
	wantErr := errors.New("load failed")
	q := NewDashboardQuery(&stubDashboard{err: wantErr})
	if _, err := q.Query(context.Background(), DashboardRequest{}); !errors.Is(err, wantErr) {
		t.Fatalf("expected %v, got %v", wantErr, err)
	}
}
