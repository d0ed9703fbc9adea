package storefront

import "time"

// Role gates which dashboard (if any) a signed-in user can see.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
	RoleAdmin    Role = "admin"
)

// User is the identity adopted from the remote API. The client never decides
// authorization; it only toggles UI affordances based on Role.
type User struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    Role   `json:"role"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Product is a retail catalog item.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	ImageURL    string  `json:"imageUrl"`
}

// Service is a bookable salon service.
type Service struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Duration    int     `json:"duration"`
}

// GiftPackage is a customizable gift bundle.
type GiftPackage struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// Voucher is a discount voucher, optionally assigned to a staff member.
type Voucher struct {
	ID         string    `json:"id"`
	Code       string    `json:"code"`
	Discount   int       `json:"discount"`
	AssignedTo string    `json:"assignedTo"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

// CartLine is a single cart row. The cart is an ordered sequence of lines:
// adding the same product twice yields two lines, removal is by position.
type CartLine struct {
	ProductID string
	Name      string
	UnitPrice float64
	Quantity  int
}

// PendingBooking stages exactly one service selection between the "book"
// action and the form submission.
type PendingBooking struct {
	ServiceID string
	Name      string
	Price     float64
	Duration  int
}

// PendingGift stages a gift package selection for the customization form.
type PendingGift struct {
	GiftID string
	Name   string
}

// Appointment is an upcoming booking shown on the staff dashboard.
type Appointment struct {
	ID       string    `json:"id"`
	Service  string    `json:"service"`
	Customer string    `json:"customer"`
	Date     time.Time `json:"date"`
	Time     string    `json:"time"`
}

// Sale is a recent sale row on the staff dashboard.
type Sale struct {
	ID     string    `json:"id"`
	Item   string    `json:"item"`
	Amount float64   `json:"amount"`
	Date   time.Time `json:"date"`
}

// OrderSummary is a recent order as returned by the admin dashboard endpoint.
type OrderSummary struct {
	ID        string    `json:"id"`
	Customer  string    `json:"customer"`
	Total     float64   `json:"total"`
	CreatedAt time.Time `json:"createdAt"`
}

// BookingSummary is a recent booking as returned by the admin dashboard
// endpoint.
type BookingSummary struct {
	ID        string    `json:"id"`
	Service   string    `json:"service"`
	Customer  string    `json:"customer"`
	CreatedAt time.Time `json:"createdAt"`
}

// DashboardStats are the aggregate tiles rendered above the dashboard lists.
type DashboardStats struct {
	Revenue      float64 `json:"revenue"`
	Orders       int     `json:"orders"`
	Bookings     int     `json:"bookings"`
	Customers    int     `json:"customers"`
	Appointments int     `json:"appointments"`
}

// RevenuePoint is a single value in the revenue time series.
type RevenuePoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// PerformanceSlice is one staff member's share of the performance donut.
type PerformanceSlice struct {
	Staff string  `json:"staff"`
	Value float64 `json:"value"`
}

// ServiceCount is one bar of the popular-services chart.
type ServiceCount struct {
	Service string `json:"service"`
	Count   int    `json:"count"`
}

// StaffDashboard is the payload of GET /dashboard/staff.
type StaffDashboard struct {
	Stats        DashboardStats     `json:"stats"`
	Appointments []Appointment      `json:"upcomingAppointments"`
	Sales        []Sale             `json:"recentSales"`
	Vouchers     []Voucher          `json:"assignedVouchers"`
	Revenue      []RevenuePoint     `json:"revenueSeries"`
	Performance  []PerformanceSlice `json:"staffPerformance"`
	TopServices  []ServiceCount     `json:"popularServices"`
}

// AdminDashboard is the payload of GET /dashboard/admin.
type AdminDashboard struct {
	Stats       DashboardStats     `json:"stats"`
	Orders      []OrderSummary     `json:"recentOrders"`
	Bookings    []BookingSummary   `json:"recentBookings"`
	Revenue     []RevenuePoint     `json:"revenueSeries"`
	Performance []PerformanceSlice `json:"staffPerformance"`
	TopServices []ServiceCount     `json:"popularServices"`
}

// ActivityEntry is one row of the admin recent-activity feed, a merged view
// over recent orders and bookings. Amount is nil for bookings.
type ActivityEntry struct {
	Description string
	Date        time.Time
	Amount      *float64
}

// OrderItem maps one cart line into the order creation payload.
type OrderItem struct {
	Product  string  `json:"product"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// OrderRequest is the single atomic order submission built from the cart.
type OrderRequest struct {
	Items           []OrderItem `json:"items"`
	ShippingAddress string      `json:"shippingAddress"`
	PaymentMethod   string      `json:"paymentMethod"`
}

// BookingRequest is the payload of POST /bookings.
type BookingRequest struct {
	Service         string `json:"service"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	SpecialRequests string `json:"specialRequests"`
}

// RegisterInput collects the registration form fields.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// ProfileUpdate carries the editable profile fields. Empty strings are sent
// as-is; the server decides what a blank value means.
type ProfileUpdate struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// CreateServiceInput is the admin add-service form payload. Prices arrive as
// integers: fractional input is truncated upstream, matching the form parser.
type CreateServiceInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int    `json:"price"`
	Duration    int    `json:"duration"`
}

// CreateProductInput is the admin add-product form payload.
type CreateProductInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int    `json:"price"`
	Stock       int    `json:"stock"`
}

// CreateVoucherInput is the admin add-voucher form payload.
type CreateVoucherInput struct {
	Code       string `json:"code"`
	Discount   int    `json:"discount"`
	AssignedTo string `json:"assignedTo"`
	ExpiresAt  string `json:"expiresAt,omitempty"`
}

type authResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
