package dto

import "time"

type SolveRequest struct {
	// MaxPasses caps local-search sweeps; zero uses the server default.
	MaxPasses int `json:"max_passes"`
}

type ScoreResponse struct {
	Hard     int64 `json:"hard"`
	Medium   int64 `json:"medium"`
	Soft     int64 `json:"soft"`
	Feasible bool  `json:"feasible"`
}

type RouteStopResponse struct {
	CustomerID     string     `json:"customer_id"`
	Name           string     `json:"name"`
	ArriveAt       *time.Time `json:"arrive_at"`
	ServiceStartAt *time.Time `json:"service_start_at"`
	DepartAt       *time.Time `json:"depart_at"`
}

type RoutePlanResponse struct {
	VehicleID           string              `json:"vehicle_id"`
	DepartAt            time.Time           `json:"depart_at"`
	TotalDrivingSeconds int64               `json:"total_driving_seconds"`
	Stops               []RouteStopResponse `json:"stops"`
}

type ViolationResponse struct {
	Rule        string   `json:"rule"`
	Tier        string   `json:"tier"`
	Penalty     int64    `json:"penalty"`
	VehicleID   string   `json:"vehicle_id"`
	CustomerIDs []string `json:"customer_ids"`
}

type SolveResponse struct {
	Routes        []RoutePlanResponse `json:"routes"`
	Unassigned    []string            `json:"unassigned"`
	Score         ScoreResponse       `json:"score"`
	Violations    []ViolationResponse `json:"violations"`
	AcceptedEdits int                 `json:"accepted_edits"`
	Passes        int                 `json:"passes"`
}
