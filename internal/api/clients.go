package api

import (
	"net/http"

	"bazar-api/internal/models"

	"github.com/gin-gonic/gin"
)

func (h *Handler) listClients(c *gin.Context) {
	c.JSON(http.StatusOK, h.clients.List(c.Request.Context()))
}

func (h *Handler) createClient(c *gin.Context) {
	var in models.ClientInput
	if !bindJSON(c, &in) {
		return
	}

	client, err := h.clients.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err, "client", "create")
		return
	}
	c.JSON(http.StatusCreated, client)
}

func (h *Handler) getClient(c *gin.Context) {
	id, ok := pathID(c, "cliente_id")
	if !ok {
		return
	}

	client, err := h.clients.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "client", "read")
		return
	}
	c.JSON(http.StatusOK, client)
}

func (h *Handler) updateClient(c *gin.Context) {
	id, ok := pathID(c, "cliente_id")
	if !ok {
		return
	}
	var patch models.ClientPatch
	if !bindJSON(c, &patch) {
		return
	}

	client, err := h.clients.Update(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err, "client", "update")
		return
	}
	c.JSON(http.StatusOK, client)
}

func (h *Handler) deleteClient(c *gin.Context) {
	id, ok := pathID(c, "cliente_id")
	if !ok {
		return
	}

	outcome := h.clients.Delete(c.Request.Context(), id)
	respondDelete(c, outcome, "client", "Client has associated sales and cannot be deleted")
}
