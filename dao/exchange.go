package dao

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"nvcoach-backend/models"
)

// ErrQuotaExceeded is returned when a session already holds the maximum
// number of follow-up exchanges
var ErrQuotaExceeded = errors.New("follow-up quota exceeded")

// ExchangeDAO handles follow-up-exchange database operations
type ExchangeDAO struct {
	db *gorm.DB
}

func NewExchangeDAO(db *gorm.DB) *ExchangeDAO {
	return &ExchangeDAO{db: db}
}

// CreateExchange adds a question/answer pair to a session. The count and the
// insert run in one transaction and the ordinal carries a unique index, so a
// concurrent submission that loses the race hits the constraint instead of
// producing a fourth row.
func (d *ExchangeDAO) CreateExchange(sessionID uuid.UUID, question, answer string) (*models.FollowUpExchange, error) {
	// A lost race shows up as a duplicate ordinal; re-reading the count picks
	// the next free one until the cap is genuinely reached.
	for attempt := 0; attempt < models.MaxExchangesPerSession; attempt++ {
		var exchange *models.FollowUpExchange
		err := d.db.Transaction(func(tx *gorm.DB) error {
			var count int64
			if err := tx.Model(&models.FollowUpExchange{}).
				Where("session_id = ?", sessionID).
				Count(&count).Error; err != nil {
				return err
			}
			if count >= models.MaxExchangesPerSession {
				return ErrQuotaExceeded
			}
			exchange = &models.FollowUpExchange{
				SessionID:     sessionID,
				Question:      question,
				Answer:        answer,
				QuestionCount: int(count) + 1,
			}
			return tx.Create(exchange).Error
		})
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return exchange, nil
	}
	return nil, ErrQuotaExceeded
}

// ListExchanges retrieves all exchanges for a session in conversation order
func (d *ExchangeDAO) ListExchanges(sessionID uuid.UUID) ([]models.FollowUpExchange, error) {
	exchanges := make([]models.FollowUpExchange, 0)
	if err := d.db.Where("session_id = ?", sessionID).Order("created_at ASC").Find(&exchanges).Error; err != nil {
		return nil, err
	}
	return exchanges, nil
}

// CountExchanges returns the number of exchanges recorded for a session
func (d *ExchangeDAO) CountExchanges(sessionID uuid.UUID) (int64, error) {
	var count int64
	if err := d.db.Model(&models.FollowUpExchange{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
