package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"bazar-api/internal/service"
	"bazar-api/internal/store"
	"bazar-api/internal/util"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Pinger reports whether the backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services bundles the domain services the handlers call
type Services struct {
	Clients   *service.ClientService
	Addresses *service.AddressService
	Suppliers *service.SupplierService
	Products  *service.ProductService
	Sales     *service.SaleService
}

// Handler contains HTTP handlers
type Handler struct {
	clients   *service.ClientService
	addresses *service.AddressService
	suppliers *service.SupplierService
	products  *service.ProductService
	sales     *service.SaleService
	db        Pinger
	logger    *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(services Services, db Pinger) *Handler {
	return &Handler{
		clients:   services.Clients,
		addresses: services.Addresses,
		suppliers: services.Suppliers,
		products:  services.Products,
		sales:     services.Sales,
		db:        db,
		logger:    util.GetLogger(),
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine, allowedOrigins []string) {
	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())
	router.Use(h.loggingMiddleware())
	router.Use(prometheusMiddleware())
	router.Use(corsMiddleware(allowedOrigins))

	router.GET("/", h.welcome)
	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/clientes", h.listClients)
		api.POST("/clientes", h.createClient)
		api.GET("/clientes/:cliente_id", h.getClient)
		api.PUT("/clientes/:cliente_id", h.updateClient)
		api.DELETE("/clientes/:cliente_id", h.deleteClient)

		api.GET("/clientes/:cliente_id/direcciones", h.listAddresses)
		api.POST("/clientes/:cliente_id/direcciones", h.createAddress)
		api.GET("/clientes/:cliente_id/direcciones/:direccion_id", h.getAddress)
		api.PUT("/clientes/:cliente_id/direcciones/:direccion_id", h.updateAddress)
		api.DELETE("/clientes/:cliente_id/direcciones/:direccion_id", h.deleteAddress)

		api.GET("/proveedores", h.listSuppliers)
		api.POST("/proveedores", h.createSupplier)
		api.GET("/proveedores/:proveedor_id", h.getSupplier)
		api.PUT("/proveedores/:proveedor_id", h.updateSupplier)
		api.DELETE("/proveedores/:proveedor_id", h.deleteSupplier)

		api.GET("/productos", h.listProducts)
		api.POST("/productos", h.createProduct)
		api.GET("/productos/:producto_id", h.getProduct)
		api.PUT("/productos/:producto_id", h.updateProduct)
		api.DELETE("/productos/:producto_id", h.deleteProduct)

		api.POST("/ventas", h.createSale)
		api.GET("/ventas/:venta_id", h.getSale)
	}
}

func (h *Handler) welcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"mensaje": "Bienvenido a la API del Bazar de Ropa",
	})
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck reports ready only while the database answers
func (h *Handler) readinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.logger.Warn("Readiness check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"time":   time.Now().Unix(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// bindJSON decodes the request body, answering 400 on failure
func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return false
	}
	return true
}

// pathID parses a numeric path parameter, answering 400 on failure
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid " + name,
		})
		return 0, false
	}
	return id, true
}

// respondError maps a service error to a status code. Store details never
// reach the response body
func respondError(c *gin.Context, err error, entity, action string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": entity + " not found"})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
	case errors.Is(err, service.ErrDuplicateRequest):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrIdempotencyKeyReused):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action + " " + entity})
	}
}

// respondDelete maps a delete outcome to 204, 404, 409 or 500
func respondDelete(c *gin.Context, outcome store.DeleteOutcome, entity, conflict string) {
	switch outcome {
	case store.DeleteSucceeded:
		c.Status(http.StatusNoContent)
	case store.DeleteNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": entity + " not found"})
	case store.DeleteConflict:
		c.JSON(http.StatusConflict, gin.H{"error": conflict})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete " + entity})
	}
}

const requestIDHeader = "X-Request-ID"

// requestIDMiddleware propagates or assigns a request id
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("request_id", id)
		c.Request = c.Request.WithContext(util.WithRequestID(c.Request.Context(), id))
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// loggingMiddleware logs each request once it completes
func (h *Handler) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		h.logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetString("request_id")))
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	if len(allowedOrigins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowedOrigins
	}
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Idempotency-Key", requestIDHeader)
	cfg.ExposeHeaders = []string{requestIDHeader}
	return cors.New(cfg)
}
