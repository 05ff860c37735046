package api

import (
	"net/http"

	"bazar-api/internal/models"

	"github.com/gin-gonic/gin"
)

func (h *Handler) listSuppliers(c *gin.Context) {
	c.JSON(http.StatusOK, h.suppliers.List(c.Request.Context()))
}

func (h *Handler) createSupplier(c *gin.Context) {
	var in models.SupplierInput
	if !bindJSON(c, &in) {
		return
	}

	supplier, err := h.suppliers.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err, "supplier", "create")
		return
	}
	c.JSON(http.StatusCreated, supplier)
}

func (h *Handler) getSupplier(c *gin.Context) {
	id, ok := pathID(c, "proveedor_id")
	if !ok {
		return
	}

	supplier, err := h.suppliers.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "supplier", "read")
		return
	}
	c.JSON(http.StatusOK, supplier)
}

func (h *Handler) updateSupplier(c *gin.Context) {
	id, ok := pathID(c, "proveedor_id")
	if !ok {
		return
	}
	var patch models.SupplierPatch
	if !bindJSON(c, &patch) {
		return
	}

	supplier, err := h.suppliers.Update(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err, "supplier", "update")
		return
	}
	c.JSON(http.StatusOK, supplier)
}

func (h *Handler) deleteSupplier(c *gin.Context) {
	id, ok := pathID(c, "proveedor_id")
	if !ok {
		return
	}

	outcome := h.suppliers.Delete(c.Request.Context(), id)
	respondDelete(c, outcome, "supplier", "Supplier is referenced by products and cannot be deleted")
}
