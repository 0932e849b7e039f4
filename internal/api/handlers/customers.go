package handlers

import (
	"log"
	"net/http"
	"time"

	"dispatch-route-solver/internal/api/dto"
	"dispatch-route-solver/internal/ports"
)

// CustomerHandler exposes read-only instance retrieval endpoints.
type CustomerHandler struct {
	Repo ports.InstanceRepository
}

func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	instance, err := h.Repo.LoadInstance(r.Context())
	if err != nil {
		log.Printf("load instance failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListCustomersResponse{
		Customers: make([]dto.CustomerResponse, 0, len(instance.Customers)),
	}
	for _, c := range instance.Customers {
		res.Customers = append(res.Customers, dto.CustomerResponse{
			CustomerID:     c.ID,
			Name:           c.Name,
			Lat:            c.Location.Lat,
			Lon:            c.Location.Lon,
			ReadyTime:      optionalTime(c.ReadyTime),
			DueTime:        optionalTime(c.DueTime),
			ServiceSeconds: int64(c.ServiceDuration / time.Second),
			OrderSize:      c.OrderSize,
			FixedVehicleID: c.FixedVehicleID,
			AllowHighways:  c.AllowHighways,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
