package stubserver

import (
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"restaurant-pos/internal/models"
	"restaurant-pos/internal/money"
	"restaurant-pos/internal/transport"
)

// startOfDay is local midnight; Truncate would cut at UTC day boundaries.
func startOfDay(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

func (s *Server) dashboardStats(c echo.Context) error {
	var stats transport.DashboardStats
	dayStart := startOfDay(time.Now())

	if err := s.db.Model(&models.Order{}).Where("created_at >= ?", dayStart).Count(&stats.OrdersToday).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "cannot compute stats")
	}
	if err := s.db.Model(&models.Order{}).Where("status IN ?", models.ActiveStatuses).Count(&stats.OpenOrders).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "cannot compute stats")
	}
	if err := s.db.Model(&models.DiningTable{}).Where("is_occupied = ?", true).Count(&stats.OccupiedTables).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "cannot compute stats")
	}

	var completed []models.Order
	if err := s.db.Where("status = ? AND created_at >= ?", models.StatusCompleted, dayStart).Find(&completed).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "cannot compute stats")
	}
	for _, o := range completed {
		stats.SalesToday = stats.SalesToday.Add(o.TotalAmount)
	}
	return ok(c, http.StatusOK, stats)
}

// salesReport aggregates completed orders per calendar day. Grouping happens
// in Go so sqlite and postgres behave identically.
func (s *Server) salesReport(c echo.Context) error {
	var since time.Time
	switch c.QueryParam("period") {
	case "", "today":
		since = startOfDay(time.Now())
	case "week":
		since = time.Now().AddDate(0, 0, -7)
	case "month":
		since = time.Now().AddDate(0, -1, 0)
	default:
		return fail(c, http.StatusBadRequest, "period must be today, week or month")
	}

	var orders []models.Order
	if err := s.db.Where("status = ? AND created_at >= ?", models.StatusCompleted, since).Find(&orders).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "cannot build sales report")
	}

	type agg struct {
		orders int64
		total  money.Cents
	}
	byDay := map[string]agg{}
	for _, o := range orders {
		day := o.CreatedAt.Format("2006-01-02")
		a := byDay[day]
		a.orders++
		a.total = a.total.Add(o.TotalAmount)
		byDay[day] = a
	}

	rows := make([]transport.SalesReportRow, 0, len(byDay))
	for day, a := range byDay {
		rows = append(rows, transport.SalesReportRow{Date: day, Orders: a.orders, Total: a.total})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date < rows[j].Date })
	return ok(c, http.StatusOK, rows)
}

func (s *Server) ordersReport(c echo.Context) error {
	var orders []models.Order
	if err := s.db.Find(&orders).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "cannot build orders report")
	}

	type agg struct {
		count int64
		total money.Cents
	}
	byStatus := map[models.OrderStatus]agg{}
	for _, o := range orders {
		a := byStatus[o.Status]
		a.count++
		a.total = a.total.Add(o.TotalAmount)
		byStatus[o.Status] = a
	}

	var rows []transport.OrdersReportRow
	for _, st := range []models.OrderStatus{
		models.StatusPending, models.StatusConfirmed, models.StatusPreparing,
		models.StatusReady, models.StatusCompleted, models.StatusCancelled,
	} {
		if a, found := byStatus[st]; found {
			rows = append(rows, transport.OrdersReportRow{Status: st, Count: a.count, Total: a.total})
		}
	}
	return ok(c, http.StatusOK, rows)
}

func (s *Server) listUsers(c echo.Context) error {
	var users []models.User
	if err := s.db.Order("username ASC").Find(&users).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "cannot list users")
	}
	return ok(c, http.StatusOK, users)
}

func (s *Server) createUser(c echo.Context) error {
	var req transport.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if req.Username == "" || req.Password == "" || req.Role == "" {
		return fail(c, http.StatusBadRequest, "username, password and role required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "cannot hash password")
	}
	user := models.User{
		Username:     req.Username,
		FullName:     req.FullName,
		Role:         req.Role,
		IsActive:     true,
		PasswordHash: string(hash),
	}
	if err := s.db.Create(&user).Error; err != nil {
		return fail(c, http.StatusConflict, "username already taken")
	}
	return ok(c, http.StatusCreated, user)
}

func (s *Server) updateUser(c echo.Context) error {
	var req transport.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	var user models.User
	if err := s.db.Where("id = ?", c.Param("id")).First(&user).Error; err != nil {
		return fail(c, http.StatusNotFound, "user not found")
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return fail(c, http.StatusInternalServerError, "cannot hash password")
		}
		user.PasswordHash = string(hash)
	}

	if err := s.db.Save(&user).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "cannot update user")
	}
	return ok(c, http.StatusOK, user)
}

func (s *Server) deleteUser(c echo.Context) error {
	if err := s.db.Where("id = ?", c.Param("id")).Delete(&models.User{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "cannot delete user")
	}
	return ok(c, http.StatusOK, map[string]string{"status": "deleted"})
}
