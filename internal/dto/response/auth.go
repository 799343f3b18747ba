package response

import "time"

type LoginResponse struct {
	Token       string    `json:"token"`
	StaffID     string    `json:"staff_id"`
	DisplayName string    `json:"display_name"`
	ExpiresAt   time.Time `json:"expires_at"`
}
