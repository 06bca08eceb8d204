package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-pos/internal/config"
	"restaurant-pos/internal/models"
	"restaurant-pos/internal/session"
	"restaurant-pos/internal/transport"
)

func envelope(data any) []byte {
	out, _ := json.Marshal(map[string]any{"success": true, "data": data})
	return out
}

func TestNewAppliesConfiguredTimeout(t *testing.T) {
	t.Parallel()

	c := New("", 5*time.Second, &session.MemStore{})
	assert.Equal(t, 5*time.Second, c.http.Timeout)
	assert.Equal(t, config.DefaultAPIURL, c.baseURL)

	// Zero falls back to the default rather than an unbounded client.
	c = New("", 0, &session.MemStore{})
	assert.Equal(t, config.DefaultRequestTimeout, c.http.Timeout)
}

func TestBearerHeaderInjection(t *testing.T) {
	t.Parallel()

	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write(envelope([]models.Category{}))
	}))
	defer srv.Close()

	sess := &session.MemStore{}
	c := New(srv.URL, 0, sess)

	// No token yet: request goes out unauthenticated.
	_, err := c.Categories(context.Background(), true)
	require.NoError(t, err)
	assert.Empty(t, gotAuth)

	require.NoError(t, sess.Set("tok-abc", models.User{}))
	_, err = c.Categories(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-abc", gotAuth)
}

func TestUnauthorizedClearsSessionAndFiresHook(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"message":"token expired"}`))
	}))
	defer srv.Close()

	sess := &session.MemStore{}
	require.NoError(t, sess.Set("stale", models.User{Username: "u"}))

	c := New(srv.URL, 0, sess)
	hookFired := false
	c.OnUnauthorized = func() { hookFired = true }

	// Any endpoint triggers the same global side effects.
	_, _, err := c.Orders(context.Background(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "token expired", apiErr.Message)

	assert.True(t, hookFired)
	assert.False(t, session.IsAuthenticated(sess))
	_, found := sess.User()
	assert.False(t, found)
}

func TestServerErrorMessagePreferred(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"success":false,"message":"table 3 already has an active order"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, 0, &session.MemStore{})
	_, err := c.CreateOrder(context.Background(), transport.CreateOrderRequest{})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "table 3 already has an active order", apiErr.Message)
	assert.NotErrorIs(t, err, ErrUnauthorized)
}

func TestServerErrorWithoutMessageFallsBack(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream gone"))
	}))
	defer srv.Close()

	c := New(srv.URL, 0, &session.MemStore{})
	_, err := c.Me(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, http.StatusText(http.StatusBadGateway), apiErr.Message)
}

func TestTransportErrorNormalized(t *testing.T) {
	t.Parallel()

	c := New("http://127.0.0.1:1", 0, &session.MemStore{})
	_, err := c.Me(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Zero(t, apiErr.Status)
	assert.NotEmpty(t, apiErr.Message)
}

func TestLoginPersistsSession(t *testing.T) {
	t.Parallel()

	user := models.User{ID: uuid.New(), Username: "server", Role: models.RoleServer}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)
		w.Write(envelope(transport.LoginResponse{Token: "fresh-token", User: user}))
	}))
	defer srv.Close()

	sess := &session.MemStore{}
	c := New(srv.URL, 0, sess)

	res, err := c.Login(context.Background(), transport.LoginRequest{Username: "server", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", res.Token)

	assert.Equal(t, "fresh-token", sess.Token())
	cached, found := sess.User()
	require.True(t, found)
	assert.Equal(t, "server", cached.Username)
}

func TestLogoutClearsSessionEvenOnServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success":false,"message":"boom"}`))
	}))
	defer srv.Close()

	sess := &session.MemStore{}
	require.NoError(t, sess.Set("tok", models.User{Username: "u"}))

	c := New(srv.URL, 0, sess)
	err := c.Logout(context.Background())
	require.Error(t, err)
	assert.False(t, session.IsAuthenticated(sess))
}

func TestQueryAndPathConstruction(t *testing.T) {
	t.Parallel()

	orderID := uuid.New()
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write(envelope([]models.Payment{}))
	}))
	defer srv.Close()

	c := New(srv.URL, 0, &session.MemStore{})

	_, err := c.Payments(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, "/orders/"+orderID.String()+"/payments", gotPath)

	_, _, err = c.Orders(context.Background(), &transport.OrderFilters{
		Statuses: []models.OrderStatus{models.StatusPending, models.StatusReady},
	})
	require.NoError(t, err)
	assert.Equal(t, "/orders", gotPath)
	assert.Equal(t, "status=pending%2Cready", gotQuery)

	_, err = c.KitchenOrders(context.Background(), "all")
	require.NoError(t, err)
	assert.Empty(t, gotQuery)
}
