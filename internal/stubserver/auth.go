package stubserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"restaurant-pos/internal/models"
	"restaurant-pos/internal/transport"
)

const (
	ctxUserID = "user_id"
	ctxRole   = "role"

	tokenTTL = 24 * time.Hour
)

type accessClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func (s *Server) issueToken(user *models.User) (string, error) {
	claims := accessClaims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.jwtSecret)
}

func (s *Server) parseToken(raw string) (*accessClaims, error) {
	claims := &accessClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// requireAuth rejects requests without a valid bearer token. The envelope
// message keeps the 401 consumable by the gateway client.
func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get("Authorization")
		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found || raw == "" {
			return fail(c, http.StatusUnauthorized, "missing bearer token")
		}
		claims, err := s.parseToken(raw)
		if err != nil {
			return fail(c, http.StatusUnauthorized, "invalid or expired token")
		}
		c.Set(ctxUserID, claims.Subject)
		c.Set(ctxRole, claims.Role)
		return next(c)
	}
}

func (s *Server) login(c echo.Context) error {
	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if req.Username == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, "username and password required")
	}

	var user models.User
	if err := s.db.Where("username = ? AND is_active = ?", req.Username, true).First(&user).Error; err != nil {
		return fail(c, http.StatusUnauthorized, "invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return fail(c, http.StatusUnauthorized, "invalid credentials")
	}

	token, err := s.issueToken(&user)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "cannot issue token")
	}
	return ok(c, http.StatusOK, transport.LoginResponse{Token: token, User: user})
}

// logout is a formality here: the fixture issues stateless tokens, so there
// is no server session to tear down.
func (s *Server) logout(c echo.Context) error {
	return ok(c, http.StatusOK, map[string]string{"status": "logged out"})
}

func (s *Server) me(c echo.Context) error {
	id, _ := c.Get(ctxUserID).(string)
	var user models.User
	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		return fail(c, http.StatusUnauthorized, "unknown user")
	}
	return ok(c, http.StatusOK, user)
}
