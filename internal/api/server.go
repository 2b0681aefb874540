// Package api serves the storefront: configurator sessions, quotes, the cart and checkout.
package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/ashendes/wigshop/internal/cart"
	"github.com/ashendes/wigshop/internal/catalog"
	"github.com/ashendes/wigshop/internal/config"
	"github.com/ashendes/wigshop/internal/events"
	"github.com/ashendes/wigshop/internal/metrics"
	"github.com/ashendes/wigshop/internal/options"
	"github.com/ashendes/wigshop/internal/orders"
	"github.com/ashendes/wigshop/internal/pricing"
	"github.com/ashendes/wigshop/internal/routing"
	"github.com/ashendes/wigshop/internal/selection"
	"github.com/ashendes/wigshop/internal/store"
)

const ServiceName = "storefront-service"

// Dependencies are the components the storefront handlers work on
type Dependencies struct {
	Sessions        *selection.Repository
	Cart            *cart.Cart
	Orders          *orders.Log
	Bus             *events.Bus
	Calculator      *pricing.Calculator
	StepCalculator  *pricing.Calculator
	DefaultCurrency string
	ProcessingDelay time.Duration
}

type Server struct {
	router *gin.Engine
	Dependencies
}

// New wires the storefront on top of st from configuration
func New(st store.Store, cfg *config.Config) (*Server, error) {
	schedule, ok := pricing.ScheduleByName(cfg.Pricing.Schedule)
	if !ok {
		return nil, fmt.Errorf("unknown pricing schedule %q", cfg.Pricing.Schedule)
	}
	stepSchedule, ok := pricing.ScheduleByName(cfg.Pricing.StepSchedule)
	if !ok {
		return nil, fmt.Errorf("unknown step pricing schedule %q", cfg.Pricing.StepSchedule)
	}

	bus := events.NewBus()
	calc := pricing.NewCalculator(schedule)
	orderLog := orders.NewLog(st)

	return NewServer(Dependencies{
		Sessions:        selection.NewRepository(st, calc, bus),
		Cart:            cart.New(st, bus, orderLog),
		Orders:          orderLog,
		Bus:             bus,
		Calculator:      calc,
		StepCalculator:  pricing.NewCalculator(stepSchedule),
		DefaultCurrency: cfg.Cart.DefaultCurrency,
		ProcessingDelay: cfg.Cart.ProcessingDelay,
	}), nil
}

// NewServer creates a new server instance
func NewServer(deps Dependencies) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(metrics.PrometheusMiddleware(ServiceName))

	if deps.Calculator == nil {
		deps.Calculator = pricing.NewCalculator(nil)
	}
	if deps.StepCalculator == nil {
		deps.StepCalculator = deps.Calculator
	}
	if deps.DefaultCurrency == "" {
		deps.DefaultCurrency = "USD"
	}

	server := &Server{
		router:       router,
		Dependencies: deps,
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.router.Group("/api")
	{
		api.GET("/options", s.getOptions)
		api.POST("/quote", s.quote)
		api.GET("/presets", s.listPresets)
		api.GET("/currencies", s.listCurrencies)

		sessions := api.Group("/sessions/:mode")
		sessions.GET("", s.loadSession)
		sessions.DELETE("", s.resetSession)
		sessions.PUT("/selections/:dimension", s.selectOption)
		sessions.POST("/steps/:dimension", s.enterStep)
		sessions.POST("/return", s.returnFromStep)
		sessions.POST("/begin/:ref", s.beginSession)
		sessions.POST("/commit", s.commitSession)

		api.GET("/cart", s.getCart)
		api.GET("/cart/events", s.streamEvents)
		api.POST("/cart/items", s.addItem)
		api.PATCH("/cart/items/:id", s.updateItem)
		api.DELETE("/cart/items/:id", s.removeItem)

		api.POST("/checkout", s.checkout)
		api.GET("/orders", s.listOrders)
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

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	var verr *options.ValidationError
	switch {
	case errors.As(err, &verr),
		errors.Is(err, routing.ErrUnknownMode),
		errors.Is(err, cart.ErrInvalidPrice),
		errors.Is(err, cart.ErrEmptyCart):
		return http.StatusBadRequest
	case errors.Is(err, cart.ErrItemNotFound),
		errors.Is(err, catalog.ErrPresetNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.WithFields(log.Fields{
			"path":  c.FullPath(),
			"error": err.Error(),
		}).Error("Request failed")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
