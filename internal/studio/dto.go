package studio

// CreateStudioRequest represents the request to create a new studio
type CreateStudioRequest struct {
	Name        string   `json:"name" validate:"required,min=1,max=100"`
	Slug        string   `json:"slug" validate:"required,min=1,max=60"`
	Description *string  `json:"description,omitempty"`
	JoinType    JoinType `json:"join_type"`
}

// UpdateStudioRequest represents the request to update a studio
type UpdateStudioRequest struct {
	Name        *string   `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string   `json:"description,omitempty"`
	JoinType    *JoinType `json:"join_type,omitempty"`
}

// ChangeRoleRequest represents the request to change a member's role
type ChangeRoleRequest struct {
	Role Role `json:"role" validate:"required"`
}

// StudioResponse represents the response for a studio
type StudioResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Slug        string            `json:"slug"`
	Description *string           `json:"description,omitempty"`
	JoinType    JoinType          `json:"join_type"`
	CreatedAt   string            `json:"created_at"`
	Members     []*MemberResponse `json:"members,omitempty"`
}

// MemberResponse represents a member in a studio response
type MemberResponse struct {
	ID       int64  `json:"id"`
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	JoinedAt string `json:"joined_at"`
}

// ToResponse converts a Studio model to a StudioResponse DTO
func (s *Studio) ToResponse() *StudioResponse {
	return &StudioResponse{
		ID:          s.ID,
		Name:        s.Name,
		Slug:        s.Slug,
		Description: s.Description,
		JoinType:    s.JoinType,
		CreatedAt:   s.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// ToResponse converts a Member model to a MemberResponse DTO
func (m *Member) ToResponse() *MemberResponse {
	return &MemberResponse{
		ID:       m.ID,
		UserID:   m.UserID,
		Username: m.Username,
		Email:    m.Email,
		Role:     m.Role,
		JoinedAt: m.JoinedAt.Format("2006-01-02T15:04:05Z"),
	}
}
