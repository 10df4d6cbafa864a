package invite

import "github.com/hfarran/studiohub/internal/studio"

// CreateInviteRequest represents the request to invite a user
type CreateInviteRequest struct {
	UserID int64       `json:"user_id" validate:"required"`
	Role   studio.Role `json:"role"`
}

// RespondRequest represents the invitee's accept/decline decision
type RespondRequest struct {
	Accept bool `json:"accept"`
}

// InviteResponse represents the response for an invite
type InviteResponse struct {
	ID        int64       `json:"id"`
	StudioID  int64       `json:"studio_id"`
	UserID    int64       `json:"user_id"`
	InvitedBy int64       `json:"invited_by"`
	Role      studio.Role `json:"role"`
	Status    Status      `json:"status"`
	CreatedAt string      `json:"created_at"`
	UpdatedAt string      `json:"updated_at"`
}

// ToResponse converts an Invite model to an InviteResponse DTO
func (i *Invite) ToResponse() *InviteResponse {
	return &InviteResponse{
		ID:        i.ID,
		StudioID:  i.StudioID,
		UserID:    i.UserID,
		InvitedBy: i.InvitedBy,
		Role:      i.Role,
		Status:    i.Status,
		CreatedAt: i.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt: i.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
