package api

import (
	"net/http"

	"bazar-api/internal/models"

	"github.com/gin-gonic/gin"
)

// addressIDs parses the owning client id and, when withAddress is set, the
// address id
func addressIDs(c *gin.Context, withAddress bool) (clientID, addressID int64, ok bool) {
	if clientID, ok = pathID(c, "cliente_id"); !ok {
		return
	}
	if withAddress {
		addressID, ok = pathID(c, "direccion_id")
	}
	return
}

func (h *Handler) listAddresses(c *gin.Context) {
	clientID, _, ok := addressIDs(c, false)
	if !ok {
		return
	}

	addresses, err := h.addresses.List(c.Request.Context(), clientID)
	if err != nil {
		respondError(c, err, "client", "read")
		return
	}
	c.JSON(http.StatusOK, addresses)
}

func (h *Handler) createAddress(c *gin.Context) {
	clientID, _, ok := addressIDs(c, false)
	if !ok {
		return
	}
	var in models.AddressInput
	if !bindJSON(c, &in) {
		return
	}

	address, err := h.addresses.Create(c.Request.Context(), clientID, in)
	if err != nil {
		respondError(c, err, "client", "create address for")
		return
	}
	c.JSON(http.StatusCreated, address)
}

func (h *Handler) getAddress(c *gin.Context) {
	clientID, addressID, ok := addressIDs(c, true)
	if !ok {
		return
	}

	address, err := h.addresses.Get(c.Request.Context(), clientID, addressID)
	if err != nil {
		respondError(c, err, "address", "read")
		return
	}
	c.JSON(http.StatusOK, address)
}

func (h *Handler) updateAddress(c *gin.Context) {
	clientID, addressID, ok := addressIDs(c, true)
	if !ok {
		return
	}
	var patch models.AddressPatch
	if !bindJSON(c, &patch) {
		return
	}

	address, err := h.addresses.Update(c.Request.Context(), clientID, addressID, patch)
	if err != nil {
		respondError(c, err, "address", "update")
		return
	}
	c.JSON(http.StatusOK, address)
}

func (h *Handler) deleteAddress(c *gin.Context) {
	clientID, addressID, ok := addressIDs(c, true)
	if !ok {
		return
	}

	outcome := h.addresses.Delete(c.Request.Context(), clientID, addressID)
	respondDelete(c, outcome, "address", "Address cannot be deleted")
}
