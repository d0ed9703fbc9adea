package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	defaultLocalAPIURL = "http://localhost:5000/api"
	envAPIBaseURL      = "STOREFRONT_API_URL"
)

// TokenSource yields the bearer token attached to authenticated requests.
// An empty string means the request goes out anonymous.
type TokenSource interface {
	Token() string
}

// ClientConfig configures the remote API client.
type ClientConfig struct {
	BaseURL    string
	HTTPClient *http.Client
	Tokens     TokenSource
	Telemetry  Telemetry
}

// Client talks to the storefront REST API. It attaches JSON headers, the
// bearer token when one is available, and normalizes failures into
// StatusError / ErrNetworkUnavailable. It never retries.
type Client struct {
	baseURL   string
	client    *http.Client
	tokens    TokenSource
	telemetry Telemetry
}

// NewClient builds a client with safe defaults. The base URL falls back to
// STOREFRONT_API_URL and then to the local development host.
func NewClient(cfg ClientConfig) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = ResolveBaseURL()
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:   baseURL,
		client:    httpClient,
		tokens:    cfg.Tokens,
		telemetry: normalizeTelemetry(cfg.Telemetry),
	}
}

// ResolveBaseURL picks the API host from the environment, defaulting to the
// local development server.
func ResolveBaseURL() string {
	if v := strings.TrimSpace(os.Getenv(envAPIBaseURL)); v != "" {
		return strings.TrimRight(v, "/")
	}
	return defaultLocalAPIURL
}

// Call performs one JSON request against the remote API. payload and target
// may be nil. Non-2xx responses become *StatusError; transport failures wrap
// ErrNetworkUnavailable.
func (c *Client) Call(ctx context.Context, method, endpoint string, payload, target any) error {
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("storefront: encode payload for %s: %w", endpoint, err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return fmt.Errorf("storefront: build request for %s: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w (%s %s)", ErrNetworkUnavailable, method, endpoint)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Status: resp.StatusCode, Message: serverMessage(resp)}
	}
	if target == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("storefront: decode response from %s: %w", endpoint, err)
	}
	return nil
}

// serverMessage extracts a {"message": ...} body when the API sends one.
func serverMessage(resp *http.Response) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return ""
	}
	return strings.TrimSpace(payload.Message)
}

// --- Typed endpoint helpers. ---

// Me fetches the identity behind the current token.
func (c *Client) Me(ctx context.Context) (User, error) {
	var user User
	if err := c.Call(ctx, http.MethodGet, "/auth/me", nil, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (authResponse, error) {
	var resp authResponse
	err := c.Call(ctx, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	return resp, err
}

func (c *Client) Register(ctx context.Context, input RegisterInput) (authResponse, error) {
	var resp authResponse
	err := c.Call(ctx, http.MethodPost, "/auth/register", input, &resp)
	return resp, err
}

func (c *Client) UpdateProfile(ctx context.Context, fields ProfileUpdate) error {
	return c.Call(ctx, http.MethodPut, "/users/profile", fields, nil)
}

func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	return c.Call(ctx, http.MethodPut, "/users/change-password", map[string]string{
		"currentPassword": current,
		"newPassword":     next,
	}, nil)
}

// Users fetches the full user list (admin only on the server side).
func (c *Client) Users(ctx context.Context) ([]User, error) {
	var raw json.RawMessage
	if err := c.Call(ctx, http.MethodGet, "/users", nil, &raw); err != nil {
		return nil, err
	}
	return DecodeCollection[User](ctx, raw, "users", c.telemetry), nil
}

// Products fetches the product catalog as a raw document so the loader can
// apply shape-tolerant decoding.
func (c *Client) Products(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	err := c.Call(ctx, http.MethodGet, "/products", nil, &raw)
	return raw, err
}

func (c *Client) Services(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	err := c.Call(ctx, http.MethodGet, "/services", nil, &raw)
	return raw, err
}

func (c *Client) GiftPackages(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	err := c.Call(ctx, http.MethodGet, "/gift-packages", nil, &raw)
	return raw, err
}

func (c *Client) CreateOrder(ctx context.Context, order OrderRequest) error {
	return c.Call(ctx, http.MethodPost, "/orders", order, nil)
}

func (c *Client) CreateBooking(ctx context.Context, booking BookingRequest) error {
	return c.Call(ctx, http.MethodPost, "/bookings", booking, nil)
}

func (c *Client) CreateService(ctx context.Context, input CreateServiceInput) error {
	return c.Call(ctx, http.MethodPost, "/services", input, nil)
}

func (c *Client) CreateProduct(ctx context.Context, input CreateProductInput) error {
	return c.Call(ctx, http.MethodPost, "/products", input, nil)
}

func (c *Client) CreateVoucher(ctx context.Context, input CreateVoucherInput) error {
	return c.Call(ctx, http.MethodPost, "/vouchers", input, nil)
}

func (c *Client) StaffDashboard(ctx context.Context) (StaffDashboard, error) {
	var out StaffDashboard
	err := c.Call(ctx, http.MethodGet, "/dashboard/staff", nil, &out)
	return out, err
}

func (c *Client) AdminDashboard(ctx context.Context) (AdminDashboard, error) {
	var out AdminDashboard
	err := c.Call(ctx, http.MethodGet, "/dashboard/admin", nil, &out)
	return out, err
}
