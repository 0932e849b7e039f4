package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"dispatch-route-solver/internal/api/dto"
	"dispatch-route-solver/internal/ports"
	"dispatch-route-solver/internal/search"
	"dispatch-route-solver/internal/solver"
	"dispatch-route-solver/internal/traveltime"
)

// SolveHandler orchestrates a full planning run: load the instance, build
// the travel-time matrix through the provider (cache-backed), run the
// search driver over the solver core, and report routes plus diagnostics.
type SolveHandler struct {
	Repo     ports.InstanceRepository
	Provider ports.TravelTimeProvider
	Weights  solver.RuleWeights
}

func (h *SolveHandler) Solve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.SolveRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil && err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	opts := search.DefaultOptions()
	if req.MaxPasses < 0 || req.MaxPasses > 1000 {
		writeError(w, r, http.StatusBadRequest, "max_passes must be between 0 and 1000")
		return
	}
	if req.MaxPasses > 0 {
		opts.MaxPasses = req.MaxPasses
	}

	instance, err := h.Repo.LoadInstance(r.Context())
	if err != nil {
		log.Printf("load instance failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	if len(instance.Vehicles) == 0 {
		writeError(w, r, http.StatusUnprocessableEntity, "instance has no vehicles")
		return
	}

	matrix, err := traveltime.Build(r.Context(), instance.Locations(), h.Provider)
	if err != nil {
		log.Printf("matrix build failed: %v", err)
		writeError(w, r, http.StatusBadGateway, "travel-time matrix build failed")
		return
	}

	sol, err := solver.NewSolution(instance.Vehicles, instance.Customers, matrix, h.Weights)
	if err != nil {
		log.Printf("build solution failed: %v", err)
		writeError(w, r, http.StatusUnprocessableEntity, "instance rejected by solver")
		return
	}

	result, err := search.Solve(r.Context(), sol, opts)
	if err != nil {
		log.Printf("solve failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res, err := buildSolveResponse(sol, result)
	if err != nil {
		log.Printf("render solution failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, res)
}

func buildSolveResponse(sol *solver.Solution, result search.Result) (dto.SolveResponse, error) {
	res := dto.SolveResponse{
		Routes:        make([]dto.RoutePlanResponse, 0, len(sol.Vehicles())),
		Unassigned:    []string{},
		AcceptedEdits: result.AcceptedEdits,
		Passes:        result.Passes,
		Score: dto.ScoreResponse{
			Hard:     result.Score.Hard,
			Medium:   result.Score.Medium,
			Soft:     result.Score.Soft,
			Feasible: result.Score.IsFeasible(),
		},
	}

	for _, v := range sol.Vehicles() {
		route, err := sol.Route(v.ID)
		if err != nil {
			return dto.SolveResponse{}, err
		}
		driving, err := sol.VehicleDrivingSeconds(v.ID)
		if err != nil {
			return dto.SolveResponse{}, err
		}

		plan := dto.RoutePlanResponse{
			VehicleID:           v.ID,
			DepartAt:            v.DepartureTime,
			TotalDrivingSeconds: driving,
			Stops:               make([]dto.RouteStopResponse, 0, len(route)),
		}
		for _, c := range route {
			stop := dto.RouteStopResponse{CustomerID: c.ID, Name: c.Name}
			if t, ok := sol.ArrivalTime(c.ID); ok {
				stop.ArriveAt = &t
			}
			if t, ok := sol.ServiceStartTime(c.ID); ok {
				stop.ServiceStartAt = &t
			}
			if t, ok := sol.DepartureTime(c.ID); ok {
				stop.DepartAt = &t
			}
			plan.Stops = append(plan.Stops, stop)
		}
		res.Routes = append(res.Routes, plan)
	}

	for _, c := range sol.Unassigned() {
		res.Unassigned = append(res.Unassigned, c.ID)
	}

	for _, v := range sol.Explain() {
		res.Violations = append(res.Violations, dto.ViolationResponse{
			Rule:        v.Rule,
			Tier:        v.Tier.String(),
			Penalty:     v.Penalty,
			VehicleID:   v.VehicleID,
			CustomerIDs: v.CustomerIDs,
		})
	}

	return res, nil
}
