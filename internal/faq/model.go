package faq

import "time"

// FAQ is a studio FAQ entry
type FAQ struct {
	ID        int64     `json:"id"`
	StudioID  int64     `json:"studio_id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"created_at"`
}
