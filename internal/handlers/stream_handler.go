package handlers

import (
	"io"

	"github.com/gin-gonic/gin"

	"eventmaster/internal/models"
)

// StreamOrders pushes a "snapshot" server-sent event with the full order
// list on connect and after every change seen by the order book. A slow
// client skips intermediate snapshots and only receives the latest one.
func (h *APIHandler) StreamOrders(c *gin.Context) {
	updates := make(chan []models.Order, 1)
	stop := h.book.Listen(func(orders []models.Order) {
		for {
			select {
			case updates <- orders:
				return
			default:
			}
			select {
			case <-updates:
			default:
			}
		}
	})
	defer stop()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	first := true
	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		if first {
			first = false
			c.SSEvent("snapshot", h.book.Orders())
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case orders := <-updates:
			c.SSEvent("snapshot", orders)
			return true
		}
	})
	h.logger.Debug("order stream closed", "remote", c.ClientIP())
}
