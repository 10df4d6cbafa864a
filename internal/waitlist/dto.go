package waitlist

// QuestionInput is one question in a full-replace update. Order is
// taken from the explicit value, or from the item's position when
// unspecified.
type QuestionInput struct {
	Question string `json:"question" validate:"required"`
	Order    *int   `json:"order,omitempty"`
}

// SetQuestionsRequest replaces a studio's waitlist questions
type SetQuestionsRequest struct {
	Questions []QuestionInput `json:"questions"`
}

// SubmitRequest represents a waitlist application submission
type SubmitRequest struct {
	Answers []Answer `json:"answers"`
}

// ReviewRequest represents a staff review decision
type ReviewRequest struct {
	Status Status `json:"status" validate:"required"`
}

// QuestionResponse represents the response for a waitlist question
type QuestionResponse struct {
	ID       int64  `json:"id"`
	StudioID int64  `json:"studio_id"`
	Question string `json:"question"`
	Order    int    `json:"order"`
}

// ApplicationResponse represents the response for an application
type ApplicationResponse struct {
	ID        int64    `json:"id"`
	StudioID  int64    `json:"studio_id"`
	UserID    int64    `json:"user_id"`
	Answers   []Answer `json:"answers"`
	Status    Status   `json:"status"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}

// ToResponse converts a Question model to a QuestionResponse DTO
func (q *Question) ToResponse() *QuestionResponse {
	return &QuestionResponse{
		ID:       q.ID,
		StudioID: q.StudioID,
		Question: q.Question,
		Order:    q.Order,
	}
}

// ToResponse converts an Application model to an ApplicationResponse DTO
func (a *Application) ToResponse() *ApplicationResponse {
	return &ApplicationResponse{
		ID:        a.ID,
		StudioID:  a.StudioID,
		UserID:    a.UserID,
		Answers:   a.Answers,
		Status:    a.Status,
		CreatedAt: a.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt: a.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
