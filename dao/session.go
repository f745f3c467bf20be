package dao

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"nvcoach-backend/models"
)

// ErrSessionNotFound is returned when a session id resolves to no record
var ErrSessionNotFound = errors.New("session not found")

// SessionDAO handles conversion-session database operations
type SessionDAO struct {
	db *gorm.DB
}

func NewSessionDAO(db *gorm.DB) *SessionDAO {
	return &SessionDAO{db: db}
}

// CreateSession stores a fully-formed session and returns it with id and timestamps
func (d *SessionDAO) CreateSession(originalText, observation, feeling, need, request string, feedback models.Feedback) (*models.ConversionSession, error) {
	session := &models.ConversionSession{
		ID:           uuid.New(),
		OriginalText: originalText,
		Observation:  observation,
		Feeling:      feeling,
		Need:         need,
		Request:      request,
		AIFeedback:   datatypes.NewJSONType(feedback),
	}
	if err := d.db.Create(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

// GetSessionByID retrieves a session by id
func (d *SessionDAO) GetSessionByID(id uuid.UUID) (*models.ConversionSession, error) {
	var session models.ConversionSession
	if err := d.db.Where("id = ?", id).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

// ListSessions retrieves all sessions, newest first
func (d *SessionDAO) ListSessions() ([]models.ConversionSession, error) {
	sessions := make([]models.ConversionSession, 0)
	if err := d.db.Order("created_at DESC").Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}
