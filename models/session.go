package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Improvements holds per-field suggestion lists from the AI feedback
type Improvements struct {
	Observation []string `json:"observation,omitempty"`
	Feeling     []string `json:"feeling,omitempty"`
	Need        []string `json:"need,omitempty"`
	Request     []string `json:"request,omitempty"`
}

// Feedback is the ai_feedback payload stored alongside a session
type Feedback struct {
	Improvements     Improvements `json:"improvements"`
	OverallFeedback  string       `json:"overall_feedback"`
	Score            int          `json:"score"` // 1-10
	StandardResponse string       `json:"standard_response,omitempty"`
}

// ConversionSession represents one submission and its four-part reformulation
type ConversionSession struct {
	ID           uuid.UUID                    `gorm:"type:uuid;primaryKey" json:"id"`
	OriginalText string                       `gorm:"not null" json:"original_text"`
	Observation  string                       `gorm:"not null" json:"observation"`
	Feeling      string                       `gorm:"not null" json:"feeling"`
	Need         string                       `gorm:"not null" json:"need"`
	Request      string                       `gorm:"not null" json:"request"`
	AIFeedback   datatypes.JSONType[Feedback] `gorm:"type:jsonb" json:"ai_feedback"`
	CreatedAt    time.Time                    `json:"created_at"`
	UpdatedAt    time.Time                    `json:"updated_at"`
}
