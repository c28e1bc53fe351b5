package types

import "time"

type SessionResponse struct {
	SessionID   string    `json:"sessionId"`
	CreatedAt   time.Time `json:"createdAt"`
	ReferenceID string    `json:"referenceId,omitempty"`
	Sequence    uint64    `json:"sequence"`
}
