package api

import (
	"net/http"

	"bazar-api/internal/models"

	"github.com/gin-gonic/gin"
)

func (h *Handler) listProducts(c *gin.Context) {
	c.JSON(http.StatusOK, h.products.List(c.Request.Context()))
}

func (h *Handler) createProduct(c *gin.Context) {
	var in models.ProductInput
	if !bindJSON(c, &in) {
		return
	}

	product, err := h.products.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err, "product", "create")
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *Handler) getProduct(c *gin.Context) {
	id, ok := pathID(c, "producto_id")
	if !ok {
		return
	}

	product, err := h.products.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "product", "read")
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) updateProduct(c *gin.Context) {
	id, ok := pathID(c, "producto_id")
	if !ok {
		return
	}
	var patch models.ProductPatch
	if !bindJSON(c, &patch) {
		return
	}

	product, err := h.products.Update(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err, "product", "update")
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) deleteProduct(c *gin.Context) {
	id, ok := pathID(c, "producto_id")
	if !ok {
		return
	}

	outcome := h.products.Delete(c.Request.Context(), id)
	respondDelete(c, outcome, "product", "Product is referenced by one or more sales and cannot be deleted")
}
