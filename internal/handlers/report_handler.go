package handlers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"eventmaster/internal/report"
)

// Report endpoints answer JSON unless ?format=text asks for the printable
// rendering.

func (h *APIHandler) OrderReport(c *gin.Context) {
	rows := report.OrderList(h.book.Orders())
	if wantsText(c) {
		h.writeText(c, func(buf *bytes.Buffer) error {
			return report.RenderOrderList(buf, rows, h.clock.Now())
		})
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *APIHandler) ProductionReport(c *gin.Context) {
	entries := report.Production(h.book.Orders())
	if wantsText(c) {
		h.writeText(c, func(buf *bytes.Buffer) error {
			return report.RenderProduction(buf, entries, h.clock.Now())
		})
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *APIHandler) QualityControlReport(c *gin.Context) {
	order, ok := h.book.Find(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	sheet, err := report.QualityControl(order)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if wantsText(c) {
		h.writeText(c, func(buf *bytes.Buffer) error {
			return report.RenderQualityControl(buf, sheet, h.clock.Now())
		})
		return
	}
	c.JSON(http.StatusOK, sheet)
}

func (h *APIHandler) LogisticsReport(c *gin.Context) {
	rows := report.Logistics(h.book.Orders())
	if wantsText(c) {
		h.writeText(c, func(buf *bytes.Buffer) error {
			return report.RenderLogistics(buf, rows, h.clock.Now())
		})
		return
	}
	c.JSON(http.StatusOK, rows)
}

func wantsText(c *gin.Context) bool {
	return c.Query("format") == "text"
}

func (h *APIHandler) writeText(c *gin.Context, render func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		h.writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", buf.Bytes())
}
