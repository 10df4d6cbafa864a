package joinrequest

import "github.com/hfarran/studiohub/internal/studio"

// JoinStudioRequest represents the request to join a studio
type JoinStudioRequest struct {
	Message *string `json:"message,omitempty"`
}

// JoinRequestResponse represents the response for a join request
type JoinRequestResponse struct {
	ID        int64   `json:"id"`
	StudioID  int64   `json:"studio_id"`
	UserID    int64   `json:"user_id"`
	Message   *string `json:"message,omitempty"`
	Status    Status  `json:"status"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

// JoinResult is the outcome of a join attempt: either immediate
// membership (open studios) or a pending request (waitlist studios)
type JoinResult struct {
	Joined     bool                   `json:"joined"`
	Membership *studio.MemberResponse `json:"membership,omitempty"`
	Request    *JoinRequestResponse   `json:"request,omitempty"`
}

// ToResponse converts a JoinRequest model to a JoinRequestResponse DTO
func (j *JoinRequest) ToResponse() *JoinRequestResponse {
	return &JoinRequestResponse{
		ID:        j.ID,
		StudioID:  j.StudioID,
		UserID:    j.UserID,
		Message:   j.Message,
		Status:    j.Status,
		CreatedAt: j.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt: j.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
