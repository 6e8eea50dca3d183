package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// HandleGetDeal returns a persisted deal record
// @Summary Get deal record
// @Description Returns an ingested deal record by id, including extracted fields when extraction produced any.
// @Tags deals
// @Produce json
// @Param id path string true "Record id"
// @Success 200 {object} storage.DealRecord
// @Failure 404 {string} string "Not found"
// @Router /api/deals/{id} [get]
func (h *Handlers) HandleGetDeal(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	record, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to load deal record", err)
		h.writeError(w, http.StatusInternalServerError, "failed to load record")
		return
	}
	if record == nil {
		h.writeError(w, http.StatusNotFound, "record not found")
		return
	}

	h.writeJSON(w, http.StatusOK, record)
}
