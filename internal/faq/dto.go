package faq

// CreateFAQRequest represents the request to create a FAQ entry
type CreateFAQRequest struct {
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer" validate:"required"`
	Order    *int   `json:"order,omitempty"`
}

// UpdateFAQRequest represents the request to update a FAQ entry
type UpdateFAQRequest struct {
	Question *string `json:"question,omitempty"`
	Answer   *string `json:"answer,omitempty"`
	Order    *int    `json:"order,omitempty"`
}

// FAQResponse represents the response for a FAQ entry
type FAQResponse struct {
	ID       int64  `json:"id"`
	StudioID int64  `json:"studio_id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Order    int    `json:"order"`
}

// ToResponse converts a FAQ model to a FAQResponse DTO
func (f *FAQ) ToResponse() *FAQResponse {
	return &FAQResponse{
		ID:       f.ID,
		StudioID: f.StudioID,
		Question: f.Question,
		Answer:   f.Answer,
		Order:    f.Order,
	}
}
