package invite

import (
	"time"

	"github.com/hfarran/studiohub/internal/studio"
)

// Status is the invite lifecycle state
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusAccepted Status = "ACCEPTED"
	StatusRejected Status = "REJECTED"
)

// statusTransitions is the legal-transition table. ACCEPTED is
// terminal; a REJECTED invite may be re-sent.
var statusTransitions = map[Status][]Status{
	StatusPending:  {StatusAccepted, StatusRejected},
	StatusRejected: {StatusPending},
}

// CanTransitionTo reports whether moving from s to next is legal
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Invite represents a staff-initiated admission offer. At most one
// invite exists per (studio, user) pair.
type Invite struct {
	ID        int64       `json:"id"`
	StudioID  int64       `json:"studio_id"`
	UserID    int64       `json:"user_id"`
	InvitedBy int64       `json:"invited_by"`
	Role      studio.Role `json:"role"`
	Status    Status      `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
