package models

import (
	"time"

	"github.com/google/uuid"
)

// MaxExchangesPerSession caps follow-up exchanges per session
const MaxExchangesPerSession = 3

// FollowUpExchange represents one question/answer pair tied to a session.
// The unique index over (session_id, question_count) makes the cap hold
// even when two submissions race on the same session.
type FollowUpExchange struct {
	ID            uint64            `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID     uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:uniq_exchange_ordinal,priority:1" json:"session_id"`
	Session       ConversionSession `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"-"`
	Question      string            `gorm:"size:200;not null" json:"question"`
	Answer        string            `gorm:"not null" json:"answer"`
	QuestionCount int               `gorm:"not null;uniqueIndex:uniq_exchange_ordinal,priority:2" json:"question_count"`
	CreatedAt     time.Time         `json:"created_at"`
}
