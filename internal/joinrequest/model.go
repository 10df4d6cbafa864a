package joinrequest

import "time"

// Status is the join-request lifecycle state
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// statusTransitions is the legal-transition table. APPROVED is
// terminal; a REJECTED request may be re-submitted.
var statusTransitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusRejected},
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

// JoinRequest represents a user-initiated admission request for a
// waitlist studio. At most one request exists per (studio, user) pair.
type JoinRequest struct {
	ID        int64     `json:"id"`
	StudioID  int64     `json:"studio_id"`
	UserID    int64     `json:"user_id"`
	Message   *string   `json:"message,omitempty"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
