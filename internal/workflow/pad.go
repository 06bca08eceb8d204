// Package workflow implements the order-taking session: an explicit state
// machine over the fetched collections and the local draft order. It has no
// rendering concerns; a front end projects the state however it likes.
package workflow

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"restaurant-pos/internal/logging"
	"restaurant-pos/internal/models"
	"restaurant-pos/internal/money"
	"restaurant-pos/internal/transport"
)

// API is the slice of the gateway client the workflow needs.
type API interface {
	Categories(ctx context.Context, activeOnly bool) ([]models.Category, error)
	Products(ctx context.Context, filters *transport.ProductFilters) ([]models.Product, *transport.Pagination, error)
	ProductsByCategory(ctx context.Context, categoryID uuid.UUID, availableOnly bool) ([]models.Product, error)
	Tables(ctx context.Context, filters *transport.TableFilters) ([]models.DiningTable, error)
	Orders(ctx context.Context, filters *transport.OrderFilters) ([]models.Order, *transport.Pagination, error)
	CreateServerOrder(ctx context.Context, req transport.CreateOrderRequest) (models.Order, error)
}

// TableStatus is the derived four-way classification of a table.
type TableStatus string

const (
	TableAvailable    TableStatus = "available"
	TableSeated       TableStatus = "seated"
	TableOrderPending TableStatus = "pending"
	TableOccupied     TableStatus = "occupied"
)

// Classify derives a table's status from its occupancy flag and whether any
// active order references it. Pure function; recompute, never cache.
func Classify(isOccupied, hasActiveOrder bool) TableStatus {
	switch {
	case isOccupied && hasActiveOrder:
		return TableOccupied
	case hasActiveOrder:
		return TableOrderPending
	case isOccupied:
		return TableSeated
	default:
		return TableAvailable
	}
}

// Line is one entry of the draft order: a product, how many, and any special
// instructions for the kitchen.
type Line struct {
	Product      models.Product
	Quantity     int
	Instructions string
}

type TableView struct {
	Table       models.DiningTable
	Status      TableStatus
	ActiveOrder *models.Order
}

var (
	ErrNoTableSelected = errors.New("workflow: no table selected")
	ErrEmptyCart       = errors.New("workflow: cart is empty")
	ErrSubmitting      = errors.New("workflow: submission already in flight")
)

// Pad is one order-taking session. Server-owned collections live alongside
// the client-local draft; only a successful Submit clears the draft.
type Pad struct {
	api API

	Categories   []models.Category
	Products     []models.Product
	Tables       []models.DiningTable
	ActiveOrders []models.Order

	// SelectedCategory filters the product fetch; nil means all categories.
	SelectedCategory *uuid.UUID

	Selected  *models.DiningTable
	Cart      []Line
	GuestName string
	Notes     string

	submitting bool
}

func New(api API) *Pad {
	return &Pad{api: api}
}

// Load fetches all four collections. Called once when the session opens.
func (p *Pad) Load(ctx context.Context) error {
	cats, err := p.api.Categories(ctx, true)
	if err != nil {
		return err
	}
	p.Categories = cats
	return p.Reload(ctx)
}

// Reload refreshes everything a new order can change: products, tables and
// active orders. Categories are deliberately left alone.
func (p *Pad) Reload(ctx context.Context) error {
	if err := p.loadProducts(ctx); err != nil {
		return err
	}

	tables, err := p.api.Tables(ctx, nil)
	if err != nil {
		return err
	}
	p.Tables = tables

	orders, _, err := p.api.Orders(ctx, &transport.OrderFilters{Statuses: models.ActiveStatuses})
	if err != nil {
		return err
	}
	p.ActiveOrders = orders
	return nil
}

func (p *Pad) loadProducts(ctx context.Context) error {
	if p.SelectedCategory == nil {
		products, _, err := p.api.Products(ctx, nil)
		if err != nil {
			return err
		}
		p.Products = products
		return nil
	}
	products, err := p.api.ProductsByCategory(ctx, *p.SelectedCategory, true)
	if err != nil {
		return err
	}
	p.Products = products
	return nil
}

// SelectCategory switches the product filter and re-fetches products.
func (p *Pad) SelectCategory(ctx context.Context, categoryID *uuid.UUID) error {
	p.SelectedCategory = categoryID
	return p.loadProducts(ctx)
}

func (p *Pad) ActiveOrderFor(tableID uuid.UUID) *models.Order {
	for i := range p.ActiveOrders {
		o := &p.ActiveOrders[i]
		if o.TableID != nil && *o.TableID == tableID {
			return o
		}
	}
	return nil
}

func (p *Pad) StatusOf(t models.DiningTable) TableStatus {
	return Classify(t.IsOccupied, p.ActiveOrderFor(t.ID) != nil)
}

// TableViews joins every table with its derived status and active order.
func (p *Pad) TableViews() []TableView {
	views := make([]TableView, 0, len(p.Tables))
	for _, t := range p.Tables {
		views = append(views, TableView{
			Table:       t,
			Status:      p.StatusOf(t),
			ActiveOrder: p.ActiveOrderFor(t.ID),
		})
	}
	return views
}

// SelectTable picks a table for the draft order. Tables with a pending or
// occupied status cannot take a new order; selecting one is a no-op and the
// previous selection stands.
func (p *Pad) SelectTable(t models.DiningTable) bool {
	switch p.StatusOf(t) {
	case TableAvailable, TableSeated:
		tt := t
		p.Selected = &tt
		return true
	}
	return false
}

func (p *Pad) ClearTable() {
	p.Selected = nil
}

// AddToCart adds one unit of the product. A product already in the cart gets
// its quantity bumped; the cart never holds two lines for the same product.
func (p *Pad) AddToCart(product models.Product) {
	for i := range p.Cart {
		if p.Cart[i].Product.ID == product.ID {
			p.Cart[i].Quantity++
			return
		}
	}
	p.Cart = append(p.Cart, Line{Product: product, Quantity: 1})
}

// RemoveFromCart removes one unit; the line disappears when its quantity
// would drop below one. Unknown products are a no-op.
func (p *Pad) RemoveFromCart(productID uuid.UUID) {
	for i := range p.Cart {
		if p.Cart[i].Product.ID != productID {
			continue
		}
		if p.Cart[i].Quantity > 1 {
			p.Cart[i].Quantity--
		} else {
			p.Cart = append(p.Cart[:i], p.Cart[i+1:]...)
		}
		return
	}
}

func (p *Pad) Quantity(productID uuid.UUID) int {
	for _, line := range p.Cart {
		if line.Product.ID == productID {
			return line.Quantity
		}
	}
	return 0
}

func (p *Pad) ItemCount() int { return len(p.Cart) }

// Total is the exact sum over cart lines of unit price times quantity.
func (p *Pad) Total() money.Cents {
	var total money.Cents
	for _, line := range p.Cart {
		total = total.Add(line.Product.Price.Mul(line.Quantity))
	}
	return total
}

// FilterProducts is a case-insensitive substring match on name or
// description. An empty term matches everything.
func (p *Pad) FilterProducts(term string) []models.Product {
	if term == "" {
		return p.Products
	}
	term = strings.ToLower(term)
	var out []models.Product
	for _, prod := range p.Products {
		if strings.Contains(strings.ToLower(prod.Name), term) ||
			strings.Contains(strings.ToLower(prod.Description), term) {
			out = append(out, prod)
		}
	}
	return out
}

func (p *Pad) Submitting() bool { return p.submitting }

// Submit sends the draft as a dine-in order. Guard failures never touch the
// network. On success the draft is cleared and the read collections are
// refreshed; on failure every piece of local state stays exactly as it was.
func (p *Pad) Submit(ctx context.Context) (models.Order, error) {
	if p.submitting {
		return models.Order{}, ErrSubmitting
	}
	if p.Selected == nil {
		return models.Order{}, ErrNoTableSelected
	}
	if len(p.Cart) == 0 {
		return models.Order{}, ErrEmptyCart
	}

	p.submitting = true
	defer func() { p.submitting = false }()

	items := make([]transport.OrderItemRequest, 0, len(p.Cart))
	for _, line := range p.Cart {
		items = append(items, transport.OrderItemRequest{
			ProductID:           line.Product.ID,
			Quantity:            line.Quantity,
			SpecialInstructions: line.Instructions,
		})
	}
	req := transport.CreateOrderRequest{
		OrderType:    models.OrderDineIn,
		TableID:      &p.Selected.ID,
		CustomerName: p.GuestName,
		Items:        items,
		Notes:        p.Notes,
	}

	order, err := p.api.CreateServerOrder(ctx, req)
	if err != nil {
		return models.Order{}, err
	}

	p.Cart = nil
	p.Selected = nil
	p.GuestName = ""
	p.Notes = ""

	if err := p.Reload(ctx); err != nil {
		// The order is in; stale collections fix themselves on the next
		// refresh, so report and move on.
		logging.FromContext(ctx).Warn("reload after submit failed", "error", err)
	}
	return order, nil
}
