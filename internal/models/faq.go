package models

import "github.com/google/uuid"

// FAQ is a read-mostly Q&A document shown on the exercise guide view,
// filtered by body part.
type FAQ struct {
	ID       uuid.UUID `json:"id"`
	Part     Part      `json:"part"`
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	VideoURL string    `json:"videoUrl,omitempty"`
}
