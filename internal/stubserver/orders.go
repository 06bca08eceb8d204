package stubserver

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"restaurant-pos/internal/logging"
	"restaurant-pos/internal/models"
	"restaurant-pos/internal/money"
	"restaurant-pos/internal/transport"
)

func (s *Server) listOrders(c echo.Context) error {
	q := s.db.Model(&models.Order{}).Preload("Items")
	if raw := c.QueryParam("status"); raw != "" {
		var statuses []models.OrderStatus
		for _, part := range strings.Split(raw, ",") {
			st := models.OrderStatus(strings.TrimSpace(part))
			if !st.Valid() {
				return fail(c, http.StatusBadRequest, fmt.Sprintf("unknown status %q", part))
			}
			statuses = append(statuses, st)
		}
		q = q.Where("status IN ?", statuses)
	}
	if tid := c.QueryParam("table_id"); tid != "" {
		id, err := uuid.Parse(tid)
		if err != nil {
			return fail(c, http.StatusBadRequest, "table_id is not a uuid")
		}
		q = q.Where("table_id = ?", id)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "cannot count orders")
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), 50)

	var orders []models.Order
	if err := q.Order("created_at DESC").Offset((page - 1) * size).Limit(size).Find(&orders).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "cannot list orders")
	}
	return paged(c, orders, &transport.Pagination{
		Page:       page,
		Size:       size,
		Total:      total,
		TotalPages: (total + int64(size) - 1) / int64(size),
	})
}

func (s *Server) createOrder(c echo.Context) error {
	return s.create(c, "")
}

// createServerOrder is the server-role route: dine-in only.
func (s *Server) createServerOrder(c echo.Context) error {
	return s.create(c, models.OrderDineIn)
}

func (s *Server) createCounterOrder(c echo.Context) error {
	return s.create(c, models.OrderTakeout)
}

func (s *Server) create(c echo.Context, forcedType models.OrderType) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.create")

	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if forcedType != "" {
		req.OrderType = forcedType
	}
	if len(req.Items) == 0 {
		return fail(c, http.StatusBadRequest, "order needs at least one item")
	}

	var table *models.DiningTable
	if req.OrderType == models.OrderDineIn {
		if req.TableID == nil {
			return fail(c, http.StatusBadRequest, "dine-in order needs a table")
		}
		table = &models.DiningTable{}
		if err := s.db.Where("id = ?", *req.TableID).First(table).Error; err != nil {
			return fail(c, http.StatusNotFound, "table not found")
		}

		// One active order per table.
		var active int64
		if err := s.db.Model(&models.Order{}).
			Where("table_id = ? AND status IN ?", table.ID, models.ActiveStatuses).
			Count(&active).Error; err != nil {
			return fail(c, http.StatusInternalServerError, "cannot check table")
		}
		if active > 0 {
			return fail(c, http.StatusConflict, fmt.Sprintf("table %s already has an active order", table.TableNumber))
		}
	}

	var (
		items []models.OrderItem
		total money.Cents
	)
	for _, ir := range req.Items {
		if ir.Quantity < 1 {
			return fail(c, http.StatusBadRequest, "item quantity must be at least 1")
		}
		var product models.Product
		if err := s.db.Where("id = ?", ir.ProductID).First(&product).Error; err != nil {
			return fail(c, http.StatusNotFound, fmt.Sprintf("product %s not found", ir.ProductID))
		}
		if !product.IsAvailable {
			return fail(c, http.StatusUnprocessableEntity, fmt.Sprintf("%s is not available", product.Name))
		}
		items = append(items, models.OrderItem{
			ProductID:           product.ID,
			ProductName:         product.Name,
			Quantity:            ir.Quantity,
			UnitPrice:           product.Price,
			SpecialInstructions: ir.SpecialInstructions,
			Status:              models.ItemPending,
		})
		total = total.Add(product.Price.Mul(ir.Quantity))
	}

	var count int64
	if err := s.db.Model(&models.Order{}).Count(&count).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "cannot number order")
	}

	order := models.Order{
		OrderNumber:  fmt.Sprintf("ORD-%03d", count+1),
		OrderType:    req.OrderType,
		TableID:      req.TableID,
		CustomerName: req.CustomerName,
		Status:       models.StatusPending,
		TotalAmount:  total,
		Notes:        req.Notes,
		Items:        items,
	}
	if err := s.db.Create(&order).Error; err != nil {
		l.Error("create order failed", "error", err)
		return fail(c, http.StatusInternalServerError, "cannot create order")
	}

	l.Info("order created", "order_number", order.OrderNumber, "total", order.TotalAmount.String())
	return ok(c, http.StatusCreated, order)
}

func (s *Server) getOrder(c echo.Context) error {
	var order models.Order
	if err := s.db.Preload("Items").Where("id = ?", c.Param("id")).First(&order).Error; err != nil {
		return fail(c, http.StatusNotFound, "order not found")
	}
	return ok(c, http.StatusOK, order)
}

func (s *Server) updateOrderStatus(c echo.Context) error {
	var req transport.UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if !req.Status.Valid() {
		return fail(c, http.StatusBadRequest, fmt.Sprintf("unknown status %q", req.Status))
	}

	var order models.Order
	if err := s.db.Preload("Items").Where("id = ?", c.Param("id")).First(&order).Error; err != nil {
		return fail(c, http.StatusNotFound, "order not found")
	}

	order.Status = req.Status
	if req.Notes != "" {
		order.Notes = req.Notes
	}
	if err := s.db.Save(&order).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "cannot update order")
	}

	// Occupancy follows the order lifecycle: confirming seats the party,
	// completing or cancelling frees the table.
	if order.TableID != nil {
		switch req.Status {
		case models.StatusConfirmed, models.StatusPreparing, models.StatusReady:
			s.setOccupied(c, *order.TableID, true)
		case models.StatusCompleted, models.StatusCancelled:
			s.setOccupied(c, *order.TableID, false)
		}
	}
	return ok(c, http.StatusOK, order)
}

func (s *Server) setOccupied(c echo.Context, tableID uuid.UUID, occupied bool) {
	if err := s.db.Model(&models.DiningTable{}).Where("id = ?", tableID).
		Update("is_occupied", occupied).Error; err != nil {
		logging.FromContext(c.Request().Context()).Error("update occupancy failed", "table_id", tableID, "error", err)
	}
}

func (s *Server) processPayment(c echo.Context) error {
	var req transport.ProcessPaymentRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if req.Amount <= 0 {
		return fail(c, http.StatusBadRequest, "payment amount must be positive")
	}
	if req.Method == "" {
		return fail(c, http.StatusBadRequest, "payment method required")
	}

	var order models.Order
	if err := s.db.Where("id = ?", c.Param("id")).First(&order).Error; err != nil {
		return fail(c, http.StatusNotFound, "order not found")
	}

	payment := models.Payment{
		OrderID: order.ID,
		Amount:  req.Amount,
		Method:  req.Method,
	}
	if err := s.db.Create(&payment).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "cannot record payment")
	}
	return ok(c, http.StatusCreated, payment)
}

func (s *Server) listPayments(c echo.Context) error {
	var payments []models.Payment
	if err := s.db.Where("order_id = ?", c.Param("id")).Order("created_at ASC").Find(&payments).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "cannot list payments")
	}
	return ok(c, http.StatusOK, payments)
}

func (s *Server) paymentSummary(c echo.Context) error {
	var order models.Order
	if err := s.db.Where("id = ?", c.Param("id")).First(&order).Error; err != nil {
		return fail(c, http.StatusNotFound, "order not found")
	}

	var payments []models.Payment
	if err := s.db.Where("order_id = ?", order.ID).Find(&payments).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "cannot list payments")
	}

	var paid money.Cents
	for _, p := range payments {
		paid = paid.Add(p.Amount)
	}
	return ok(c, http.StatusOK, transport.PaymentSummary{
		OrderTotal: order.TotalAmount,
		Paid:       paid,
		Balance:    order.TotalAmount - paid,
		Payments:   len(payments),
	})
}

func (s *Server) kitchenOrders(c echo.Context) error {
	q := s.db.Model(&models.Order{}).Preload("Items")
	if raw := c.QueryParam("status"); raw != "" {
		st := models.OrderStatus(raw)
		if !st.Valid() {
			return fail(c, http.StatusBadRequest, fmt.Sprintf("unknown status %q", raw))
		}
		q = q.Where("status = ?", st)
	} else {
		q = q.Where("status IN ?", models.ActiveStatuses)
	}

	var orders []models.Order
	if err := q.Order("created_at ASC").Find(&orders).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "cannot list kitchen orders")
	}
	return ok(c, http.StatusOK, orders)
}

func (s *Server) updateItemStatus(c echo.Context) error {
	var req transport.UpdateItemStatusRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if !req.Status.Valid() {
		return fail(c, http.StatusBadRequest, fmt.Sprintf("unknown item status %q", req.Status))
	}

	var item models.OrderItem
	if err := s.db.Where("id = ? AND order_id = ?", c.Param("iid"), c.Param("oid")).First(&item).Error; err != nil {
		return fail(c, http.StatusNotFound, "order item not found")
	}
	item.Status = req.Status
	if err := s.db.Save(&item).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "cannot update item")
	}
	return ok(c, http.StatusOK, item)
}
