package booking

import "time"

type CreateBookingRequest struct {
	ServiceID int64     `json:"service_id" binding:"required"`
	StartTime time.Time `json:"start_time" binding:"required"`
	Notes     string    `json:"notes"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=confirmed completed"`
}
