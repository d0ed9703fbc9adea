package storefront

import (
	"context"
	"sync"

	"github.com/goliatone/go-storefront/pkg/activity"
)

// Cart is an ordered sequence of lines. Adding the same product twice yields
// two separate lines, and removal is by position; the server reconciles
// duplicates when the order is placed.
type Cart struct {
	mu    sync.Mutex
	lines []CartLine
}

// NewCart builds an empty cart.
func NewCart() *Cart {
	return &Cart{}
}

// Add appends a quantity-one line for the product.
func (c *Cart) Add(product Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = append(c.lines, CartLine{
		ProductID: product.ID,
		Name:      product.Name,
		UnitPrice: product.Price,
		Quantity:  1,
	})
}

// Remove drops the line at the given position. Out-of-range positions are a
// no-op.
func (c *Cart) Remove(position int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if position < 0 || position >= len(c.lines) {
		return
	}
	c.lines = append(c.lines[:position], c.lines[position+1:]...)
}

// Lines returns a copy of the cart contents in insertion order.
func (c *Cart) Lines() []CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Total sums unit price times quantity across every line.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total float64
	for _, line := range c.lines {
		total += line.UnitPrice * float64(line.Quantity)
	}
	return total
}

// Len reports the number of lines.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

// Cart exposes the session cart.
func (a *App) Cart() *Cart {
	return a.cart
}

// AddToCart puts one unit of the product in the cart. Guests are redirected
// to the login view without touching the cart.
func (a *App) AddToCart(ctx context.Context, product Product) error {
	if !a.Authenticated() {
		a.opts.View.Alert("Please log in to add items to your cart.")
		a.opts.View.Navigate(ViewLogin)
		return ErrAuthRequired
	}
	a.cart.Add(product)
	a.renderCart(ctx)
	a.opts.View.ShowPanel(PanelCart)
	return nil
}

// RemoveFromCart drops the line at the given position and re-renders. The
// cart panel hides once the last line goes.
func (a *App) RemoveFromCart(ctx context.Context, position int) {
	a.cart.Remove(position)
	if a.cart.Len() == 0 {
		a.opts.View.HidePanel(PanelCart)
	}
	a.renderCart(ctx)
}

func (a *App) renderCart(ctx context.Context) {
	markup, err := a.render("cart", map[string]any{
		"lines": a.cart.Lines(),
		"total": a.cart.Total(),
	})
	if err != nil {
		a.record(ctx, "storefront.cart.render_error", map[string]any{"error": err.Error()})
		return
	}
	a.opts.View.ReplacePanel(PanelCart, markup)
}

// Checkout submits the whole cart as one order. An empty cart is stopped
// with an alert before any request goes out.
func (a *App) Checkout(ctx context.Context) error {
	if !a.Authenticated() {
		a.opts.View.Alert("Please log in to check out.")
		a.opts.View.Navigate(ViewLogin)
		return ErrAuthRequired
	}
	lines := a.cart.Lines()
	if len(lines) == 0 {
		a.opts.View.Alert("Your cart is empty.")
		return ErrEmptyCart
	}
	user, _ := a.CurrentUser()
	order := OrderRequest{
		Items:           make([]OrderItem, len(lines)),
		ShippingAddress: user.Address,
		PaymentMethod:   "cash",
	}
	for i, line := range lines {
		order.Items[i] = OrderItem{
			Product:  line.ProductID,
			Quantity: line.Quantity,
			Price:    line.UnitPrice,
		}
	}
	if err := a.opts.Client.CreateOrder(ctx, order); err != nil {
		return err
	}
	a.cart.Clear()
	a.renderCart(ctx)
	a.opts.View.HidePanel(PanelCart)
	a.opts.View.Alert("Order placed successfully!")
	a.emitActivity(ctx, activity.Event{
		Verb:       "checkout",
		ActorID:    user.ID,
		ObjectType: "order",
		Metadata:   map[string]any{"items": len(lines)},
	})
	a.record(ctx, "storefront.cart.checkout", map[string]any{"items": len(lines)})
	return nil
}
