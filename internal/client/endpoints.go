package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"restaurant-pos/internal/models"
	"restaurant-pos/internal/transport"
)

// Authentication

// Login exchanges credentials for a token and persists both token and user
// into the session store.
func (c *Client) Login(ctx context.Context, req transport.LoginRequest) (transport.LoginResponse, error) {
	res, err := doJSON[transport.LoginResponse](c, ctx, http.MethodPost, "/auth/login", nil, req)
	if err != nil {
		return transport.LoginResponse{}, err
	}
	if err := c.session.Set(res.Token, res.User); err != nil {
		return transport.LoginResponse{}, fmt.Errorf("client: persist session: %w", err)
	}
	return res, nil
}

// Logout invalidates the server session. Local credentials are cleared even
// when the call fails.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.raw(ctx, http.MethodPost, "/auth/logout", nil, nil)
	if clearErr := c.session.Clear(); clearErr != nil && err == nil {
		err = clearErr
	}
	return err
}

func (c *Client) Me(ctx context.Context) (models.User, error) {
	return doJSON[models.User](c, ctx, http.MethodGet, "/auth/me", nil, nil)
}

// Products

func (c *Client) Products(ctx context.Context, filters *transport.ProductFilters) ([]models.Product, *transport.Pagination, error) {
	var q url.Values
	if filters != nil {
		q = filters.Values()
	}
	return doPaged[models.Product](c, ctx, http.MethodGet, "/products", q, nil)
}

func (c *Client) Product(ctx context.Context, id uuid.UUID) (models.Product, error) {
	return doJSON[models.Product](c, ctx, http.MethodGet, "/products/"+id.String(), nil, nil)
}

func (c *Client) Categories(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	q := url.Values{"active_only": {strconv.FormatBool(activeOnly)}}
	return doJSON[[]models.Category](c, ctx, http.MethodGet, "/categories", q, nil)
}

func (c *Client) ProductsByCategory(ctx context.Context, categoryID uuid.UUID, availableOnly bool) ([]models.Product, error) {
	q := url.Values{"available_only": {strconv.FormatBool(availableOnly)}}
	path := fmt.Sprintf("/categories/%s/products", categoryID)
	return doJSON[[]models.Product](c, ctx, http.MethodGet, path, q, nil)
}

// Tables

func (c *Client) Tables(ctx context.Context, filters *transport.TableFilters) ([]models.DiningTable, error) {
	var q url.Values
	if filters != nil {
		q = filters.Values()
	}
	return doJSON[[]models.DiningTable](c, ctx, http.MethodGet, "/tables", q, nil)
}

func (c *Client) Table(ctx context.Context, id uuid.UUID) (models.DiningTable, error) {
	return doJSON[models.DiningTable](c, ctx, http.MethodGet, "/tables/"+id.String(), nil, nil)
}

func (c *Client) TablesByLocation(ctx context.Context) ([]transport.LocationGroup, error) {
	return doJSON[[]transport.LocationGroup](c, ctx, http.MethodGet, "/tables/by-location", nil, nil)
}

func (c *Client) TableStatus(ctx context.Context) (transport.TableStatusSummary, error) {
	return doJSON[transport.TableStatusSummary](c, ctx, http.MethodGet, "/tables/status", nil, nil)
}

// Orders

func (c *Client) Orders(ctx context.Context, filters *transport.OrderFilters) ([]models.Order, *transport.Pagination, error) {
	var q url.Values
	if filters != nil {
		q = filters.Values()
	}
	return doPaged[models.Order](c, ctx, http.MethodGet, "/orders", q, nil)
}

func (c *Client) CreateOrder(ctx context.Context, req transport.CreateOrderRequest) (models.Order, error) {
	return doJSON[models.Order](c, ctx, http.MethodPost, "/orders", nil, req)
}

func (c *Client) Order(ctx context.Context, id uuid.UUID) (models.Order, error) {
	return doJSON[models.Order](c, ctx, http.MethodGet, "/orders/"+id.String(), nil, nil)
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus, notes string) (models.Order, error) {
	req := transport.UpdateOrderStatusRequest{Status: status, Notes: notes}
	path := fmt.Sprintf("/orders/%s/status", id)
	return doJSON[models.Order](c, ctx, http.MethodPatch, path, nil, req)
}

// Payments

func (c *Client) ProcessPayment(ctx context.Context, orderID uuid.UUID, req transport.ProcessPaymentRequest) (models.Payment, error) {
	path := fmt.Sprintf("/orders/%s/payments", orderID)
	return doJSON[models.Payment](c, ctx, http.MethodPost, path, nil, req)
}

func (c *Client) Payments(ctx context.Context, orderID uuid.UUID) ([]models.Payment, error) {
	path := fmt.Sprintf("/orders/%s/payments", orderID)
	return doJSON[[]models.Payment](c, ctx, http.MethodGet, path, nil, nil)
}

func (c *Client) PaymentSummary(ctx context.Context, orderID uuid.UUID) (transport.PaymentSummary, error) {
	path := fmt.Sprintf("/orders/%s/payment-summary", orderID)
	return doJSON[transport.PaymentSummary](c, ctx, http.MethodGet, path, nil, nil)
}

// Dashboard and reports

func (c *Client) DashboardStats(ctx context.Context) (transport.DashboardStats, error) {
	return doJSON[transport.DashboardStats](c, ctx, http.MethodGet, "/admin/dashboard/stats", nil, nil)
}

func (c *Client) SalesReport(ctx context.Context, period string) ([]transport.SalesReportRow, error) {
	if period == "" {
		period = "today"
	}
	q := url.Values{"period": {period}}
	return doJSON[[]transport.SalesReportRow](c, ctx, http.MethodGet, "/admin/reports/sales", q, nil)
}

func (c *Client) OrdersReport(ctx context.Context) ([]transport.OrdersReportRow, error) {
	return doJSON[[]transport.OrdersReportRow](c, ctx, http.MethodGet, "/admin/reports/orders", nil, nil)
}

// Kitchen

func (c *Client) KitchenOrders(ctx context.Context, status string) ([]models.Order, error) {
	var q url.Values
	if status != "" && status != "all" {
		q = url.Values{"status": {status}}
	}
	return doJSON[[]models.Order](c, ctx, http.MethodGet, "/kitchen/orders", q, nil)
}

func (c *Client) UpdateOrderItemStatus(ctx context.Context, orderID, itemID uuid.UUID, status models.ItemStatus) error {
	req := transport.UpdateItemStatusRequest{Status: status}
	path := fmt.Sprintf("/kitchen/orders/%s/items/%s/status", orderID, itemID)
	_, err := c.raw(ctx, http.MethodPatch, path, nil, req)
	return err
}

// Role-specific order creation

func (c *Client) CreateServerOrder(ctx context.Context, req transport.CreateOrderRequest) (models.Order, error) {
	return doJSON[models.Order](c, ctx, http.MethodPost, "/server/orders", nil, req)
}

func (c *Client) CreateCounterOrder(ctx context.Context, req transport.CreateOrderRequest) (models.Order, error) {
	return doJSON[models.Order](c, ctx, http.MethodPost, "/counter/orders", nil, req)
}

func (c *Client) ProcessCounterPayment(ctx context.Context, orderID uuid.UUID, req transport.ProcessPaymentRequest) (models.Payment, error) {
	path := fmt.Sprintf("/counter/orders/%s/payments", orderID)
	return doJSON[models.Payment](c, ctx, http.MethodPost, path, nil, req)
}

// User administration

func (c *Client) Users(ctx context.Context) ([]models.User, error) {
	return doJSON[[]models.User](c, ctx, http.MethodGet, "/admin/users", nil, nil)
}

func (c *Client) CreateUser(ctx context.Context, req transport.CreateUserRequest) (models.User, error) {
	return doJSON[models.User](c, ctx, http.MethodPost, "/admin/users", nil, req)
}

func (c *Client) UpdateUser(ctx context.Context, id uuid.UUID, req transport.UpdateUserRequest) (models.User, error) {
	return doJSON[models.User](c, ctx, http.MethodPatch, "/admin/users/"+id.String(), nil, req)
}

func (c *Client) DeleteUser(ctx context.Context, id uuid.UUID) error {
	_, err := c.raw(ctx, http.MethodDelete, "/admin/users/"+id.String(), nil, nil)
	return err
}
