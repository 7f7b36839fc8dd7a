package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"hookrelay/internal/platform/repositories"
	"hookrelay/internal/pkg/errors"
)

type DeliveriesHandler struct {
	repo *repositories.DeliveryRepository // nil when the delivery log is disabled
}

func NewDeliveriesHandler(repo *repositories.DeliveryRepository) *DeliveriesHandler {
	return &DeliveriesHandler{repo: repo}
}

// List returns the most recent deliveries from the delivery log.
func (h *DeliveriesHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		errors.WriteError(w, http.StatusServiceUnavailable, errors.ErrCodeNotConfigured, "Delivery log is disabled", nil)
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	deliveries, err := h.repo.List(limit)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to load deliveries", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(struct {
		Deliveries interface{} `json:"deliveries"`
	}{Deliveries: deliveries})
}
