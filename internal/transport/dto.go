package transport

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"restaurant-pos/internal/models"
	"restaurant-pos/internal/money"
)

// Response is the envelope every backend reply uses. The message field is
// what gets shown to the user when a call fails.
type Response[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data,omitempty"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

type Paginated[T any] struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       T           `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

type OrderItemRequest struct {
	ProductID           uuid.UUID `json:"product_id"`
	Quantity            int       `json:"quantity"`
	SpecialInstructions string    `json:"special_instructions,omitempty"`
}

type CreateOrderRequest struct {
	OrderType    models.OrderType   `json:"order_type"`
	TableID      *uuid.UUID         `json:"table_id,omitempty"`
	CustomerName string             `json:"customer_name,omitempty"`
	Items        []OrderItemRequest `json:"items"`
	Notes        string             `json:"notes,omitempty"`
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status"`
	Notes  string             `json:"notes,omitempty"`
}

type ProcessPaymentRequest struct {
	Amount money.Cents `json:"amount"`
	Method string      `json:"method"`
}

type UpdateItemStatusRequest struct {
	Status models.ItemStatus `json:"status"`
}

type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name,omitempty"`
	Role     string `json:"role"`
}

// UpdateUserRequest uses pointer fields so PATCH only touches what the
// caller sent.
type UpdateUserRequest struct {
	FullName *string `json:"full_name,omitempty"`
	Role     *string `json:"role,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
	Password *string `json:"password,omitempty"`
}

type PaymentSummary struct {
	OrderTotal money.Cents `json:"order_total"`
	Paid       money.Cents `json:"paid"`
	Balance    money.Cents `json:"balance"`
	Payments   int         `json:"payments"`
}

type DashboardStats struct {
	OrdersToday    int64       `json:"orders_today"`
	SalesToday     money.Cents `json:"sales_today"`
	OpenOrders     int64       `json:"open_orders"`
	OccupiedTables int64       `json:"occupied_tables"`
}

type SalesReportRow struct {
	Date   string      `json:"date"`
	Orders int64       `json:"orders"`
	Total  money.Cents `json:"total"`
}

type OrdersReportRow struct {
	Status models.OrderStatus `json:"status"`
	Count  int64              `json:"count"`
	Total  money.Cents        `json:"total"`
}

type TableStatusSummary struct {
	Total     int64 `json:"total"`
	Occupied  int64 `json:"occupied"`
	Available int64 `json:"available"`
}

type LocationGroup struct {
	Location string               `json:"location"`
	Tables   []models.DiningTable `json:"tables"`
}

type ProductFilters struct {
	CategoryID    *uuid.UUID
	AvailableOnly *bool
	Page          int
	Size          int
}

func (f ProductFilters) Values() url.Values {
	v := url.Values{}
	if f.CategoryID != nil {
		v.Set("category_id", f.CategoryID.String())
	}
	if f.AvailableOnly != nil {
		v.Set("available_only", strconv.FormatBool(*f.AvailableOnly))
	}
	addPaging(v, f.Page, f.Size)
	return v
}

type OrderFilters struct {
	// Statuses becomes a comma-separated status query parameter.
	Statuses []models.OrderStatus
	TableID  *uuid.UUID
	Page     int
	Size     int
}

func (f OrderFilters) Values() url.Values {
	v := url.Values{}
	if len(f.Statuses) > 0 {
		parts := make([]string, 0, len(f.Statuses))
		for _, s := range f.Statuses {
			parts = append(parts, string(s))
		}
		v.Set("status", strings.Join(parts, ","))
	}
	if f.TableID != nil {
		v.Set("table_id", f.TableID.String())
	}
	addPaging(v, f.Page, f.Size)
	return v
}

type TableFilters struct {
	Location   string
	IsOccupied *bool
}

func (f TableFilters) Values() url.Values {
	v := url.Values{}
	if f.Location != "" {
		v.Set("location", f.Location)
	}
	if f.IsOccupied != nil {
		v.Set("is_occupied", strconv.FormatBool(*f.IsOccupied))
	}
	return v
}

func addPaging(v url.Values, page, size int) {
	if page > 0 {
		v.Set("page", strconv.Itoa(page))
	}
	if size > 0 {
		v.Set("size", strconv.Itoa(size))
	}
}
