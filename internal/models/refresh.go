package models

import "time"

// RefreshRequest is the payload of a refresh trigger message. Every field is
// optional; an empty message still triggers a cycle.
type RefreshRequest struct {
	Reason      string    `json:"reason,omitempty"`
	RequestedBy string    `json:"requested_by,omitempty"`
	RequestedAt time.Time `json:"requested_at,omitempty"`
}
