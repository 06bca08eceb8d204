package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-pos/internal/models"
	"restaurant-pos/internal/money"
	"restaurant-pos/internal/transport"
)

// fakeAPI records calls and serves canned collections.
type fakeAPI struct {
	categories []models.Category
	products   []models.Product
	tables     []models.DiningTable
	orders     []models.Order

	createErr    error
	created      *transport.CreateOrderRequest
	onCreate     func()
	createCalls  int
	categoryGets int
	productGets  int
	tableGets    int
	orderGets    int
}

func (f *fakeAPI) Categories(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	f.categoryGets++
	return f.categories, nil
}

func (f *fakeAPI) Products(ctx context.Context, filters *transport.ProductFilters) ([]models.Product, *transport.Pagination, error) {
	f.productGets++
	return f.products, nil, nil
}

func (f *fakeAPI) ProductsByCategory(ctx context.Context, categoryID uuid.UUID, availableOnly bool) ([]models.Product, error) {
	f.productGets++
	var out []models.Product
	for _, p := range f.products {
		if p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeAPI) Tables(ctx context.Context, filters *transport.TableFilters) ([]models.DiningTable, error) {
	f.tableGets++
	return f.tables, nil
}

func (f *fakeAPI) Orders(ctx context.Context, filters *transport.OrderFilters) ([]models.Order, *transport.Pagination, error) {
	f.orderGets++
	return f.orders, nil, nil
}

func (f *fakeAPI) CreateServerOrder(ctx context.Context, req transport.CreateOrderRequest) (models.Order, error) {
	f.createCalls++
	if f.onCreate != nil {
		f.onCreate()
	}
	if f.createErr != nil {
		return models.Order{}, f.createErr
	}
	f.created = &req
	return models.Order{ID: uuid.New(), OrderNumber: "ORD-042", Status: models.StatusPending}, nil
}

func product(name string, price money.Cents) models.Product {
	return models.Product{ID: uuid.New(), Name: name, Price: price, IsAvailable: true}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		occupied, active bool
		want             TableStatus
	}{
		{false, false, TableAvailable},
		{true, false, TableSeated},
		{false, true, TableOrderPending},
		{true, true, TableOccupied},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.occupied, tt.active))
	}
}

func TestAddRemoveCartInvariants(t *testing.T) {
	t.Parallel()

	pad := New(&fakeAPI{})
	burger := product("Burger", 850)
	soda := product("Soda", 200)

	pad.AddToCart(burger)
	pad.AddToCart(burger)
	pad.AddToCart(soda)

	// One line per product, quantities bumped in place.
	require.Equal(t, 2, pad.ItemCount())
	assert.Equal(t, 2, pad.Quantity(burger.ID))
	assert.Equal(t, 1, pad.Quantity(soda.ID))

	pad.RemoveFromCart(burger.ID)
	assert.Equal(t, 1, pad.Quantity(burger.ID))
	require.Equal(t, 2, pad.ItemCount())

	// Dropping to zero removes the line entirely.
	pad.RemoveFromCart(soda.ID)
	assert.Equal(t, 0, pad.Quantity(soda.ID))
	require.Equal(t, 1, pad.ItemCount())

	// Removing something not in the cart is a no-op.
	pad.RemoveFromCart(uuid.New())
	require.Equal(t, 1, pad.ItemCount())
}

func TestAddThenRemoveIsInverse(t *testing.T) {
	t.Parallel()

	pad := New(&fakeAPI{})
	burger := product("Burger", 850)
	soda := product("Soda", 200)

	pad.AddToCart(burger)
	pad.AddToCart(burger)
	before := append([]Line(nil), pad.Cart...)

	pad.AddToCart(soda)
	pad.RemoveFromCart(soda.ID)
	assert.Equal(t, before, pad.Cart)

	pad.AddToCart(burger)
	pad.RemoveFromCart(burger.ID)
	assert.Equal(t, before, pad.Cart)
}

func TestTotal(t *testing.T) {
	t.Parallel()

	pad := New(&fakeAPI{})
	burger := product("Burger", money.FromParts(8, 50))
	soda := product("Soda", money.FromParts(2, 0))

	pad.AddToCart(burger)
	pad.AddToCart(burger)
	pad.AddToCart(soda)

	assert.Equal(t, money.FromParts(19, 0), pad.Total())
	assert.Equal(t, "19.00", pad.Total().String())
}

func TestSelectTableGuard(t *testing.T) {
	t.Parallel()

	free := models.DiningTable{ID: uuid.New(), TableNumber: "1"}
	seated := models.DiningTable{ID: uuid.New(), TableNumber: "2", IsOccupied: true}
	pending := models.DiningTable{ID: uuid.New(), TableNumber: "3"}
	occupied := models.DiningTable{ID: uuid.New(), TableNumber: "4", IsOccupied: true}

	api := &fakeAPI{
		tables: []models.DiningTable{free, seated, pending, occupied},
		orders: []models.Order{
			{ID: uuid.New(), TableID: &pending.ID, Status: models.StatusPending},
			{ID: uuid.New(), TableID: &occupied.ID, Status: models.StatusPreparing},
		},
	}
	pad := New(api)
	require.NoError(t, pad.Load(context.Background()))

	assert.True(t, pad.SelectTable(free))
	assert.True(t, pad.SelectTable(seated))
	require.NotNil(t, pad.Selected)
	assert.Equal(t, seated.ID, pad.Selected.ID)

	// Pending and occupied tables cannot be selected; the previous
	// selection stays.
	assert.False(t, pad.SelectTable(pending))
	assert.False(t, pad.SelectTable(occupied))
	require.NotNil(t, pad.Selected)
	assert.Equal(t, seated.ID, pad.Selected.ID)
}

func TestTableViews(t *testing.T) {
	t.Parallel()

	tbl := models.DiningTable{ID: uuid.New(), TableNumber: "7"}
	order := models.Order{ID: uuid.New(), OrderNumber: "ORD-007", TableID: &tbl.ID, Status: models.StatusConfirmed}
	api := &fakeAPI{
		tables: []models.DiningTable{tbl},
		orders: []models.Order{order},
	}
	pad := New(api)
	require.NoError(t, pad.Load(context.Background()))

	views := pad.TableViews()
	require.Len(t, views, 1)
	assert.Equal(t, TableOrderPending, views[0].Status)
	require.NotNil(t, views[0].ActiveOrder)
	assert.Equal(t, "ORD-007", views[0].ActiveOrder.OrderNumber)
}

func TestFilterProducts(t *testing.T) {
	t.Parallel()

	pad := New(&fakeAPI{})
	pad.Products = []models.Product{
		{Name: "Burger", Description: "House classic"},
		{Name: "Margherita", Description: "Pizza with basil"},
		{Name: "Soda"},
	}

	assert.Len(t, pad.FilterProducts(""), 3)
	assert.Len(t, pad.FilterProducts("BURG"), 1)
	assert.Len(t, pad.FilterProducts("basil"), 1)
	assert.Empty(t, pad.FilterProducts("sushi"))
}

func TestSubmitGuards(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{tables: []models.DiningTable{{ID: uuid.New(), TableNumber: "1"}}}
	pad := New(api)
	require.NoError(t, pad.Load(context.Background()))

	_, err := pad.Submit(context.Background())
	assert.ErrorIs(t, err, ErrNoTableSelected)

	require.True(t, pad.SelectTable(pad.Tables[0]))
	_, err = pad.Submit(context.Background())
	assert.ErrorIs(t, err, ErrEmptyCart)

	// Neither guard failure reached the network.
	assert.Zero(t, api.createCalls)
}

func TestSubmitWhileInFlightRejected(t *testing.T) {
	t.Parallel()

	burger := product("Burger", money.FromParts(8, 50))
	tbl := models.DiningTable{ID: uuid.New(), TableNumber: "1"}
	api := &fakeAPI{
		products: []models.Product{burger},
		tables:   []models.DiningTable{tbl},
	}
	pad := New(api)
	require.NoError(t, pad.Load(context.Background()))

	require.True(t, pad.SelectTable(tbl))
	pad.AddToCart(burger)

	// Re-enter Submit while the create call is still in flight.
	var reentryErr error
	api.onCreate = func() {
		_, reentryErr = pad.Submit(context.Background())
	}

	_, err := pad.Submit(context.Background())
	require.NoError(t, err)
	assert.ErrorIs(t, reentryErr, ErrSubmitting)
	assert.Equal(t, 1, api.createCalls)
	assert.False(t, pad.Submitting())
}

func TestSubmitSuccessClearsDraftAndReloads(t *testing.T) {
	t.Parallel()

	burger := product("Burger", money.FromParts(8, 50))
	tbl := models.DiningTable{ID: uuid.New(), TableNumber: "1"}
	api := &fakeAPI{
		categories: []models.Category{{ID: uuid.New(), Name: "Mains", IsActive: true}},
		products:   []models.Product{burger},
		tables:     []models.DiningTable{tbl},
	}
	pad := New(api)
	require.NoError(t, pad.Load(context.Background()))

	catGets, prodGets, tblGets, ordGets := api.categoryGets, api.productGets, api.tableGets, api.orderGets

	require.True(t, pad.SelectTable(tbl))
	pad.AddToCart(burger)
	pad.AddToCart(burger)
	pad.GuestName = "Ada"
	pad.Notes = "no onions"

	order, err := pad.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ORD-042", order.OrderNumber)

	// Draft fully cleared.
	assert.Empty(t, pad.Cart)
	assert.Nil(t, pad.Selected)
	assert.Empty(t, pad.GuestName)
	assert.Empty(t, pad.Notes)

	// Request carried the draft.
	require.NotNil(t, api.created)
	assert.Equal(t, models.OrderDineIn, api.created.OrderType)
	require.NotNil(t, api.created.TableID)
	assert.Equal(t, tbl.ID, *api.created.TableID)
	assert.Equal(t, "Ada", api.created.CustomerName)
	require.Len(t, api.created.Items, 1)
	assert.Equal(t, 2, api.created.Items[0].Quantity)

	// Products, tables and active orders were re-fetched; categories not.
	assert.Equal(t, prodGets+1, api.productGets)
	assert.Equal(t, tblGets+1, api.tableGets)
	assert.Equal(t, ordGets+1, api.orderGets)
	assert.Equal(t, catGets, api.categoryGets)
}

func TestSubmitFailurePreservesState(t *testing.T) {
	t.Parallel()

	burger := product("Burger", money.FromParts(8, 50))
	tbl := models.DiningTable{ID: uuid.New(), TableNumber: "1"}
	api := &fakeAPI{
		products:  []models.Product{burger},
		tables:    []models.DiningTable{tbl},
		createErr: errors.New("backend exploded"),
	}
	pad := New(api)
	require.NoError(t, pad.Load(context.Background()))

	require.True(t, pad.SelectTable(tbl))
	pad.AddToCart(burger)
	pad.GuestName = "Ada"
	pad.Notes = "rush"
	cart := append([]Line(nil), pad.Cart...)

	_, err := pad.Submit(context.Background())
	require.Error(t, err)

	assert.Equal(t, cart, pad.Cart)
	require.NotNil(t, pad.Selected)
	assert.Equal(t, tbl.ID, pad.Selected.ID)
	assert.Equal(t, "Ada", pad.GuestName)
	assert.Equal(t, "rush", pad.Notes)
	assert.False(t, pad.Submitting())
}
