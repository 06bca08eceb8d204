package stubserver

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"restaurant-pos/internal/models"
	"restaurant-pos/internal/transport"
)

func parseBoolDefault(s string, def bool) bool {
	if s == "" {
		return def
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return def
	}
	return v
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func (s *Server) listProducts(c echo.Context) error {
	q := s.db.Model(&models.Product{})
	if cid := c.QueryParam("category_id"); cid != "" {
		id, err := uuid.Parse(cid)
		if err != nil {
			return fail(c, http.StatusBadRequest, "category_id is not a uuid")
		}
		q = q.Where("category_id = ?", id)
	}
	if parseBoolDefault(c.QueryParam("available_only"), false) {
		q = q.Where("is_available = ?", true)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "cannot count products")
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), 50)

	var products []models.Product
	if err := q.Order("name ASC").Offset((page - 1) * size).Limit(size).Find(&products).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "cannot list products")
	}
	return paged(c, products, &transport.Pagination{
		Page:       page,
		Size:       size,
		Total:      total,
		TotalPages: (total + int64(size) - 1) / int64(size),
	})
}

func (s *Server) getProduct(c echo.Context) error {
	var product models.Product
	if err := s.db.Where("id = ?", c.Param("id")).First(&product).Error; err != nil {
		return fail(c, http.StatusNotFound, "product not found")
	}
	return ok(c, http.StatusOK, product)
}

func (s *Server) listCategories(c echo.Context) error {
	q := s.db.Model(&models.Category{})
	if parseBoolDefault(c.QueryParam("active_only"), true) {
		q = q.Where("is_active = ?", true)
	}
	var categories []models.Category
	if err := q.Order("name ASC").Find(&categories).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "cannot list categories")
	}
	return ok(c, http.StatusOK, categories)
}

func (s *Server) productsByCategory(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "category id is not a uuid")
	}
	q := s.db.Where("category_id = ?", id)
	if parseBoolDefault(c.QueryParam("available_only"), true) {
		q = q.Where("is_available = ?", true)
	}
	var products []models.Product
	if err := q.Order("name ASC").Find(&products).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "cannot list products")
	}
	return ok(c, http.StatusOK, products)
}

func (s *Server) listTables(c echo.Context) error {
	q := s.db.Model(&models.DiningTable{})
	if loc := c.QueryParam("location"); loc != "" {
		q = q.Where("location = ?", loc)
	}
	if occ := c.QueryParam("is_occupied"); occ != "" {
		q = q.Where("is_occupied = ?", parseBoolDefault(occ, false))
	}
	var tables []models.DiningTable
	if err := q.Order("table_number ASC").Find(&tables).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "cannot list tables")
	}
	return ok(c, http.StatusOK, tables)
}

func (s *Server) getTable(c echo.Context) error {
	var table models.DiningTable
	if err := s.db.Where("id = ?", c.Param("id")).First(&table).Error; err != nil {
		return fail(c, http.StatusNotFound, "table not found")
	}
	return ok(c, http.StatusOK, table)
}

func (s *Server) tablesByLocation(c echo.Context) error {
	var tables []models.DiningTable
	if err := s.db.Order("location ASC, table_number ASC").Find(&tables).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "cannot list tables")
	}

	var groups []transport.LocationGroup
	for _, t := range tables {
		if len(groups) == 0 || groups[len(groups)-1].Location != t.Location {
			groups = append(groups, transport.LocationGroup{Location: t.Location})
		}
		g := &groups[len(groups)-1]
		g.Tables = append(g.Tables, t)
	}
	return ok(c, http.StatusOK, groups)
}

func (s *Server) tableStatus(c echo.Context) error {
	var summary transport.TableStatusSummary
	if err := s.db.Model(&models.DiningTable{}).Count(&summary.Total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "cannot count tables")
	}
	if err := s.db.Model(&models.DiningTable{}).Where("is_occupied = ?", true).Count(&summary.Occupied).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "cannot count tables")
	}
	summary.Available = summary.Total - summary.Occupied
	return ok(c, http.StatusOK, summary)
}
