package dto

import "time"

type CustomerResponse struct {
	CustomerID     string     `json:"customer_id"`
	Name           string     `json:"name"`
	Lat            float64    `json:"lat"`
	Lon            float64    `json:"lon"`
	ReadyTime      *time.Time `json:"ready_time"`
	DueTime        *time.Time `json:"due_time"`
	ServiceSeconds int64      `json:"service_seconds"`
	OrderSize      int        `json:"order_size"`
	FixedVehicleID string     `json:"fixed_vehicle_id,omitempty"`
	AllowHighways  bool       `json:"allow_highways"`
}

type ListCustomersResponse struct {
	Customers []CustomerResponse `json:"customers"`
}
