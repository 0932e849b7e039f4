package api

import (
	"net/http"

	"dispatch-route-solver/internal/api/handlers"
	"dispatch-route-solver/internal/ports"
	"dispatch-route-solver/internal/solver"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(repo ports.InstanceRepository, provider ports.TravelTimeProvider) http.Handler {
	mux := http.NewServeMux()

	custHandler := &handlers.CustomerHandler{Repo: repo}
	solveHandler := &handlers.SolveHandler{
		Repo:     repo,
		Provider: provider,
		Weights:  solver.DefaultRuleWeights(),
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/customers", custHandler.List)
	mux.HandleFunc("/solve", solveHandler.Solve)

	return requestIDMiddleware(loggingMiddleware(mux))
}
