package waitlist

import "time"

// Status is the application lifecycle state
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// statusTransitions is the legal-transition table. APPROVED is
// terminal; a REJECTED application may be re-submitted.
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

// Question is a studio-defined waitlist question. Questions are
// replaced wholesale when staff edit them, never patched in place.
type Question struct {
	ID        int64     `json:"id"`
	StudioID  int64     `json:"studio_id"`
	Question  string    `json:"question"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"created_at"`
}

// Answer pairs a question with the applicant's answer. The content is
// opaque to this subsystem.
type Answer struct {
	QuestionID int64  `json:"question_id"`
	Answer     string `json:"answer"`
}

// Application is a user's waitlist submission for a studio. At most
// one application exists per (studio, user) pair; re-submitting after
// rejection overwrites the answers.
type Application struct {
	ID        int64     `json:"id"`
	StudioID  int64     `json:"studio_id"`
	UserID    int64     `json:"user_id"`
	Answers   []Answer  `json:"answers"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
