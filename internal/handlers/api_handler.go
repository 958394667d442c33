package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"eventmaster/internal/models"
	"eventmaster/internal/repository"
	"eventmaster/internal/services"
)

type APIHandler struct {
	orderService services.OrderService
	book         *services.OrderBook
	store        repository.OrderStore
	backend      string
	clock        services.Clock
	logger       *slog.Logger
}

func NewAPIHandler(
	orderService services.OrderService,
	book *services.OrderBook,
	store repository.OrderStore,
	backend string,
	clock services.Clock,
	logger *slog.Logger,
) *APIHandler {
	if clock == nil {
		clock = services.SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &APIHandler{
		orderService: orderService,
		book:         book,
		store:        store,
		backend:      backend,
		clock:        clock,
		logger:       logger,
	}
}

// RegisterRoutes mounts every endpoint on router.
func (h *APIHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/health", h.Health)

	api := router.Group("/api")
	{
		api.GET("/orders", h.ListOrders)
		api.GET("/orders/stream", h.StreamOrders)
		api.GET("/orders/:id", h.GetOrder)
		api.POST("/orders", h.CreateOrder)
		api.PUT("/orders/:id/production", h.RecordProduction)
		api.PUT("/orders/:id/quality-control", h.RecordQualityControl)
		api.POST("/orders/:id/delivery", h.ConfirmDelivery)

		api.GET("/reports/orders", h.OrderReport)
		api.GET("/reports/production", h.ProductionReport)
		api.GET("/reports/quality-control/:id", h.QualityControlReport)
		api.GET("/reports/logistics", h.LogisticsReport)
	}
}

func (h *APIHandler) Health(c *gin.Context) {
	body := gin.H{
		"status":  "ok",
		"backend": h.backend,
		"live":    h.book.Live(),
		"orders":  len(h.book.Orders()),
	}
	if err := h.book.Err(); err != nil {
		body["lastError"] = err.Error()
	}
	if err := repository.InitError(h.store); err != nil {
		body["status"] = "misconfigured"
		body["error"] = err.Error()
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}
	c.JSON(http.StatusOK, body)
}

// ListOrders serves the current snapshot, optionally narrowed to one board
// and filtered by a search term.
func (h *APIHandler) ListOrders(c *gin.Context) {
	orders := h.book.Orders()

	switch view := c.DefaultQuery("view", "all"); view {
	case "all":
	case "production":
		orders = services.ProductionBoard(orders)
	case "dispatch":
		orders = services.DispatchQueue(orders)
	case "delivered":
		limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
			return
		}
		orders = services.DeliveredHistory(orders, limit)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown view " + strconv.Quote(view)})
		return
	}

	c.JSON(http.StatusOK, services.Search(orders, c.Query("q")))
}

func (h *APIHandler) GetOrder(c *gin.Context) {
	order, ok := h.book.Find(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *APIHandler) CreateOrder(c *gin.Context) {
	var draft models.OrderDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), draft)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.book.Acknowledge(order)
	c.JSON(http.StatusCreated, order)
}

type itemsRequest struct {
	Items []models.ProductionItem `json:"items"`
}

func (h *APIHandler) RecordProduction(c *gin.Context) {
	var req itemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	order, err := h.orderService.RecordProduction(c.Request.Context(), c.Param("id"), req.Items)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.book.Acknowledge(order)
	c.JSON(http.StatusOK, order)
}

func (h *APIHandler) RecordQualityControl(c *gin.Context) {
	var req itemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	order, err := h.orderService.RecordQualityControl(c.Request.Context(), c.Param("id"), req.Items)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.book.Acknowledge(order)
	c.JSON(http.StatusOK, order)
}

func (h *APIHandler) ConfirmDelivery(c *gin.Context) {
	var confirmation services.DeliveryConfirmation
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&confirmation); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
			return
		}
	}

	order, err := h.orderService.ConfirmDelivery(c.Request.Context(), c.Param("id"), confirmation)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.book.Acknowledge(order)
	c.JSON(http.StatusOK, order)
}
