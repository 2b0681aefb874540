package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashendes/wigshop/internal/client"
	"github.com/ashendes/wigshop/internal/models"
	"github.com/ashendes/wigshop/internal/options"
	"github.com/ashendes/wigshop/internal/orders"
	"github.com/ashendes/wigshop/internal/patterns"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeStorefront struct {
	orders  []orders.Order
	cart    models.CartResponse
	err     error
	circuit string
}

func (f *fakeStorefront) Orders(ctx context.Context) (models.OrdersResponse, error) {
	if f.err != nil {
		return models.OrdersResponse{}, f.err
	}
	return models.OrdersResponse{Orders: f.orders, Count: len(f.orders)}, nil
}

func (f *fakeStorefront) Cart(ctx context.Context, code string) (models.CartResponse, error) {
	if f.err != nil {
		return models.CartResponse{}, f.err
	}
	return f.cart, nil
}

func (f *fakeStorefront) CircuitState() string {
	if f.circuit == "" {
		return "closed"
	}
	return f.circuit
}

func (f *fakeStorefront) CircuitStateValue() int {
	if f.circuit == "open" {
		return 1
	}
	return 0
}

func order(id, color string, total, qty int) orders.Order {
	state := options.Default()
	state.Color = color
	return orders.Order{
		ID:        id,
		Lines:     []orders.Line{{ItemID: id + "-1", State: state, Price: total / qty, Quantity: qty}},
		ItemCount: qty,
		TotalUSD:  total,
	}
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestDashboard(t *testing.T) {
	sf := &fakeStorefront{
		orders: []orders.Order{
			order("o1", "JET BLACK", 1030, 1),
			order("o2", "AUBURN", 1800, 2),
			order("o3", "JET BLACK", 900, 1),
		},
		cart: models.CartResponse{Count: 2, Total: 1480},
	}
	s := NewServer(sf)
	s.now = func() time.Time { return time.Date(2026, 5, 2, 12, 0, 0, 0, time.UTC) }

	w := get(t, s, "/admin/dashboard?top=2")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.DashboardResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Stats.Orders)
	assert.Equal(t, 3730, resp.Stats.RevenueUSD)
	assert.Equal(t, 4, resp.Stats.Units)
	assert.Equal(t, models.CartSummary{Count: 2, Total: 1480}, resp.Cart)
	require.Len(t, resp.RecentOrders, 2)
	assert.Equal(t, "o3", resp.RecentOrders[0].ID)
	assert.Equal(t, "o2", resp.RecentOrders[1].ID)
	assert.True(t, resp.GeneratedAt.Equal(s.now()))
}

func TestDashboard_UpstreamFailures(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"breaker open", fmt.Errorf("circuit breaker Storefront is open: %w", patterns.ErrUnavailable), http.StatusServiceUnavailable},
		{"storefront down", fmt.Errorf("HTTP error: connection refused"), http.StatusServiceUnavailable},
		{"storefront status", &client.StatusError{Code: http.StatusInternalServerError, Message: "boom"}, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewServer(&fakeStorefront{err: tt.err, circuit: "open"})
			w := get(t, s, "/admin/dashboard")
			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), `"circuit":"open"`)
		})
	}
}

func TestCircuitStatus(t *testing.T) {
	s := NewServer(&fakeStorefront{circuit: "open"})

	w := get(t, s, "/admin/circuit-status")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, client.CircuitName, body["storefront_circuit"]["name"])
	assert.Equal(t, "open", body["storefront_circuit"]["state"])
	assert.Equal(t, float64(1), body["storefront_circuit"]["value"])
}

func TestAdminOrders(t *testing.T) {
	s := NewServer(&fakeStorefront{orders: []orders.Order{order("o1", "AUBURN", 900, 1)}})

	w := get(t, s, "/admin/orders")
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.OrdersResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
}

func TestHealth(t *testing.T) {
	w := get(t, NewServer(&fakeStorefront{}), "/health")
	assert.Equal(t, http.StatusOK, w.Code)
}
