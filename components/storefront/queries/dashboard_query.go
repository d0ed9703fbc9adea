package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	storefront "github.com/goliatone/go-storefront/components/storefront"
)

type dashboardService interface {
	LoadDashboard(ctx context.Context) error
	CurrentUser() (storefront.User, bool)
}

// DashboardRequest triggers a role-gated dashboard refresh.
type DashboardRequest struct{}

// DashboardResult reports which role's dashboard was loaded. Role is empty
// when no dashboard applies to the session.
type DashboardResult struct {
	Role storefront.Role
}

// DashboardQuery refreshes the dashboard panel for the signed-in role.
type DashboardQuery struct {
	service dashboardService
}

// NewDashboardQuery builds the query.
func NewDashboardQuery(service dashboardService) *DashboardQuery {
	return &DashboardQuery{service: service}
}

var _ gocommand.Querier[DashboardRequest, DashboardResult] = (*DashboardQuery)(nil)

// Query loads the dashboard for the current session.
func (q *DashboardQuery) Query(ctx context.Context, _ DashboardRequest) (DashboardResult, error) {
	if err := q.service.LoadDashboard(ctx); err != nil {
		return DashboardResult{}, err
	}
	user, ok := q.service.CurrentUser()
	if !ok || (user.Role != storefront.RoleStaff && user.Role != storefront.RoleAdmin) {
		return DashboardResult{}, nil
	}
	return DashboardResult{Role: user.Role}, nil
}
