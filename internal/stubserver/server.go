// Package stubserver is an in-process implementation of the POS backend
// contract, just enough behavior for integration tests and local
// development. The production backend is a separate system; nothing here is
// meant to leave a developer's machine.
package stubserver

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"restaurant-pos/internal/logging"
	"restaurant-pos/internal/transport"
)

type Server struct {
	db        *gorm.DB
	jwtSecret []byte
}

func New(db *gorm.DB, jwtSecret []byte) *Server {
	return &Server{db: db, jwtSecret: jwtSecret}
}

// Echo builds the echo app with every contract route mounted under /api/v1.
func (s *Server) Echo(base *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(requestLogger(base))

	api := e.Group("/api/v1")

	api.POST("/auth/login", s.login)
	api.POST("/auth/logout", s.logout, s.requireAuth)
	api.GET("/auth/me", s.me, s.requireAuth)

	auth := api.Group("", s.requireAuth)

	auth.GET("/products", s.listProducts)
	auth.GET("/products/:id", s.getProduct)
	auth.GET("/categories", s.listCategories)
	auth.GET("/categories/:id/products", s.productsByCategory)

	auth.GET("/tables", s.listTables)
	auth.GET("/tables/by-location", s.tablesByLocation)
	auth.GET("/tables/status", s.tableStatus)
	auth.GET("/tables/:id", s.getTable)

	auth.GET("/orders", s.listOrders)
	auth.POST("/orders", s.createOrder)
	auth.GET("/orders/:id", s.getOrder)
	auth.PATCH("/orders/:id/status", s.updateOrderStatus)
	auth.POST("/orders/:id/payments", s.processPayment)
	auth.GET("/orders/:id/payments", s.listPayments)
	auth.GET("/orders/:id/payment-summary", s.paymentSummary)

	auth.GET("/admin/dashboard/stats", s.dashboardStats)
	auth.GET("/admin/reports/sales", s.salesReport)
	auth.GET("/admin/reports/orders", s.ordersReport)
	auth.GET("/admin/users", s.listUsers)
	auth.POST("/admin/users", s.createUser)
	auth.PATCH("/admin/users/:id", s.updateUser)
	auth.DELETE("/admin/users/:id", s.deleteUser)

	auth.GET("/kitchen/orders", s.kitchenOrders)
	auth.PATCH("/kitchen/orders/:oid/items/:iid/status", s.updateItemStatus)

	auth.POST("/server/orders", s.createServerOrder)
	auth.POST("/counter/orders", s.createCounterOrder)
	auth.POST("/counter/orders/:id/payments", s.processPayment)

	return e
}

func ok(c echo.Context, status int, data any) error {
	return c.JSON(status, transport.Response[any]{Success: true, Data: data})
}

func paged(c echo.Context, data any, p *transport.Pagination) error {
	return c.JSON(http.StatusOK, transport.Paginated[any]{Success: true, Data: data, Pagination: p})
}

func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, transport.Response[any]{Success: false, Message: msg})
}

func requestLogger(base *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			l := base.With(
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
			)
			req := c.Request().WithContext(logging.IntoContext(c.Request().Context(), l))
			c.SetRequest(req)

			start := time.Now()
			err := next(c)
			status := c.Response().Status

			switch {
			case err != nil || status >= 500:
				l.Error("request completed", "status", status, "duration_ms", time.Since(start).Milliseconds(), "error", err)
			case status >= 400:
				l.Warn("request completed", "status", status, "duration_ms", time.Since(start).Milliseconds())
			default:
				l.Info("request completed", "status", status, "duration_ms", time.Since(start).Milliseconds())
			}
			return err
		}
	}
}
