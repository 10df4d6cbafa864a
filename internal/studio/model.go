package studio

import "time"

// JoinType selects which admission pathway is legal for a studio
type JoinType string

const (
	JoinTypeOpen       JoinType = "OPEN"
	JoinTypeInviteOnly JoinType = "INVITE_ONLY"
	JoinTypeWaitlist   JoinType = "WAITLIST"
)

// ValidJoinType reports whether t is a known join type
func ValidJoinType(t JoinType) bool {
	switch t {
	case JoinTypeOpen, JoinTypeInviteOnly, JoinTypeWaitlist:
		return true
	}
	return false
}

// Role represents a member's authority within a studio
type Role string

const (
	RoleOwner     Role = "OWNER"
	RoleModerator Role = "MODERATOR"
	RoleMember    Role = "MEMBER"
)

// CanManage reports whether the role carries management authority:
// inviting, reviewing admissions, and editing studio content.
func (r Role) CanManage() bool {
	return r == RoleOwner || r == RoleModerator
}

// ValidRole reports whether r is a known role
func ValidRole(r Role) bool {
	switch r {
	case RoleOwner, RoleModerator, RoleMember:
		return true
	}
	return false
}

// Studio represents a community studio
type Studio struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	JoinType    JoinType  `json:"join_type"`
	CreatedAt   time.Time `json:"created_at"`
}

// Member represents a user's membership in a studio
type Member struct {
	ID       int64     `json:"id"`
	StudioID int64     `json:"studio_id"`
	UserID   int64     `json:"user_id"`
	Role     Role      `json:"role"`
	JoinedAt time.Time `json:"joined_at"`

	// Populated from JOIN
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}
