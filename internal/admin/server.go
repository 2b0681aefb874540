// Package admin serves the back-office dashboard. It holds no data of its own
// and reads everything from the storefront through the resilient client.
package admin

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/ashendes/wigshop/internal/client"
	"github.com/ashendes/wigshop/internal/metrics"
	"github.com/ashendes/wigshop/internal/models"
	"github.com/ashendes/wigshop/internal/orders"
	"github.com/ashendes/wigshop/internal/patterns"
)

const ServiceName = "admin-service"

// defaultTop is how many colors and lengths the dashboard ranks
const defaultTop = 5

// Storefront is what the dashboard needs from the storefront API
type Storefront interface {
	Orders(ctx context.Context) (models.OrdersResponse, error)
	Cart(ctx context.Context, code string) (models.CartResponse, error)
	CircuitState() string
	CircuitStateValue() int
}

var _ Storefront = (*client.Storefront)(nil)

type Server struct {
	router     *gin.Engine
	storefront Storefront
	now        func() time.Time
}

// NewServer creates a new server instance
func NewServer(sf Storefront) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(metrics.PrometheusMiddleware(ServiceName))

	server := &Server{
		router:     router,
		storefront: sf,
		now:        time.Now,
	}
	server.setupRoutes()
	return server
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	adm := s.router.Group("/admin")
	{
		adm.GET("/dashboard", s.getDashboard)
		adm.GET("/orders", s.listOrders)
		adm.GET("/circuit-status", s.getCircuitStatus)
	}
}

// Handler exposes the router, mostly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	return s.router.Run(addr)
}

// getDashboard summarizes the order log and the open cart
func (s *Server) getDashboard(c *gin.Context) {
	ctx := c.Request.Context()

	list, err := s.storefront.Orders(ctx)
	if err != nil {
		s.respondUpstreamError(c, err)
		return
	}
	cartResp, err := s.storefront.Cart(ctx, "")
	if err != nil {
		s.respondUpstreamError(c, err)
		return
	}

	top := defaultTop
	if n, ok := c.GetQuery("top"); ok {
		if v, perr := strconv.Atoi(n); perr == nil && v > 0 {
			top = v
		}
	}

	c.JSON(http.StatusOK, models.DashboardResponse{
		Stats: orders.Summarize(list.Orders, top),
		Cart: models.CartSummary{
			Count: cartResp.Count,
			Total: cartResp.Total,
		},
		RecentOrders: recent(list.Orders, top),
		GeneratedAt:  s.now(),
	})
}

func (s *Server) listOrders(c *gin.Context) {
	list, err := s.storefront.Orders(c.Request.Context())
	if err != nil {
		s.respondUpstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// getCircuitStatus returns the status of the storefront circuit breaker
func (s *Server) getCircuitStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"storefront_circuit": gin.H{
			"name":  client.CircuitName,
			"state": s.storefront.CircuitState(),
			"value": s.storefront.CircuitStateValue(),
		},
	})
}

// respondUpstreamError maps storefront failures: a refusing breaker or a dead
// storefront is 503, a storefront status passes through as 502.
func (s *Server) respondUpstreamError(c *gin.Context, err error) {
	log.WithFields(log.Fields{
		"path":  c.FullPath(),
		"error": err.Error(),
	}).Error("Storefront request failed")

	status := http.StatusServiceUnavailable
	var serr *client.StatusError
	if errors.As(err, &serr) && !errors.Is(err, patterns.ErrUnavailable) {
		status = http.StatusBadGateway
	}
	c.JSON(status, gin.H{
		"error":   err.Error(),
		"circuit": s.storefront.CircuitState(),
	})
}

// recent returns the newest n orders, newest first
func recent(list []orders.Order, n int) []orders.Order {
	out := make([]orders.Order, 0, n)
	for i := len(list) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, list[i])
	}
	return out
}
