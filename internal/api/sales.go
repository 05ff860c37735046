package api

import (
	"net/http"

	"bazar-api/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	idempotencyKeyHeader = "Idempotency-Key"
	replayedHeader       = "Idempotent-Replayed"
)

// createSale records a sale. A repeated Idempotency-Key answers with the
// sale recorded by the first request
func (h *Handler) createSale(c *gin.Context) {
	var in models.NewSale
	if !bindJSON(c, &in) {
		return
	}

	result, err := h.sales.Create(c.Request.Context(), in, c.GetHeader(idempotencyKeyHeader))
	if err != nil {
		respondError(c, err, "sale", "create")
		return
	}

	if result.Replayed {
		c.Header(replayedHeader, "true")
	}
	c.JSON(http.StatusCreated, result.Sale)
}

func (h *Handler) getSale(c *gin.Context) {
	id, ok := pathID(c, "venta_id")
	if !ok {
		return
	}

	sale, err := h.sales.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "sale", "read")
		return
	}
	c.JSON(http.StatusOK, sale)
}
