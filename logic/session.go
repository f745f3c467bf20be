package logic

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"nvcoach-backend/dao"
	"nvcoach-backend/logger"
	"nvcoach-backend/models"
	"nvcoach-backend/pkg"
)

// MaxQuestionRunes bounds a follow-up question's length
const MaxQuestionRunes = 200

// SessionStore is the persistence surface for conversion sessions
type SessionStore interface {
	CreateSession(originalText, observation, feeling, need, request string, feedback models.Feedback) (*models.ConversionSession, error)
	GetSessionByID(id uuid.UUID) (*models.ConversionSession, error)
	ListSessions() ([]models.ConversionSession, error)
}

// ExchangeStore is the persistence surface for follow-up exchanges
type ExchangeStore interface {
	CreateExchange(sessionID uuid.UUID, question, answer string) (*models.FollowUpExchange, error)
	ListExchanges(sessionID uuid.UUID) ([]models.FollowUpExchange, error)
	CountExchanges(sessionID uuid.UUID) (int64, error)
}

// Gateway produces decompositions and follow-up answers from the chat API
type Gateway interface {
	Decompose(ctx context.Context, originalText string) (*pkg.Decomposition, error)
	AnswerFollowUp(ctx context.Context, session *models.ConversionSession, question string, prior []models.FollowUpExchange) (string, error)
}

// SessionLogic orchestrates validation, AI invocation and persistence for the
// conversion-session lifecycle
type SessionLogic struct {
	sessions  SessionStore
	exchanges ExchangeStore
	gateway   Gateway
	log       *logger.Logger
}

func NewSessionLogic(sessions SessionStore, exchanges ExchangeStore, gateway Gateway, log *logger.Logger) *SessionLogic {
	return &SessionLogic{
		sessions:  sessions,
		exchanges: exchanges,
		gateway:   gateway,
		log:       log.With("logic", "session"),
	}
}

// InitiateConversion validates the original text, asks the gateway for a
// decomposition and persists the session. Nothing is persisted when the
// gateway fails: a session either exists complete or not at all.
func (l *SessionLogic) InitiateConversion(ctx context.Context, originalText string) (*models.ConversionSession, error) {
	text := strings.TrimSpace(originalText)
	if text == "" {
		return nil, newError(ErrorInvalidInput, "original text must not be empty", nil)
	}

	decomposition, err := l.gateway.Decompose(ctx, text)
	if err != nil {
		l.log.Warn("decomposition failed", "error", err)
		return nil, newError(ErrorDecomposition, "analysis temporarily unavailable", err)
	}

	session, err := l.sessions.CreateSession(
		text,
		decomposition.Observation,
		decomposition.Feeling,
		decomposition.Need,
		decomposition.Request,
		models.Feedback{
			Improvements:     decomposition.Improvements,
			OverallFeedback:  decomposition.OverallFeedback,
			Score:            decomposition.Score,
			StandardResponse: decomposition.StandardResponse,
		},
	)
	if err != nil {
		return nil, newError(ErrorStorage, "failed to store session", err)
	}

	l.log.Info("conversion session created", "session_id", session.ID)
	return session, nil
}

// GetSession resolves a session by its id string. Malformed ids are rejected
// before the store is touched.
func (l *SessionLogic) GetSession(id string) (*models.ConversionSession, error) {
	sessionID, err := parseSessionID(id)
	if err != nil {
		return nil, err
	}

	session, err := l.sessions.GetSessionByID(sessionID)
	if err != nil {
		if errors.Is(err, dao.ErrSessionNotFound) {
			return nil, newError(ErrorNotFound, "session not found", err)
		}
		return nil, newError(ErrorStorage, "failed to load session", err)
	}

	backfillStandardResponse(session)
	return session, nil
}

// ListSessions returns all sessions, newest first
func (l *SessionLogic) ListSessions() ([]models.ConversionSession, error) {
	sessions, err := l.sessions.ListSessions()
	if err != nil {
		return nil, newError(ErrorStorage, "failed to list sessions", err)
	}
	for i := range sessions {
		backfillStandardResponse(&sessions[i])
	}
	return sessions, nil
}

// SubmitFollowUp answers one follow-up question against a session's stored
// context and records the exchange. The quota is checked before the gateway
// is called so a capped session triggers no chat API call.
func (l *SessionLogic) SubmitFollowUp(ctx context.Context, id, question string) (*models.FollowUpExchange, error) {
	sessionID, err := parseSessionID(id)
	if err != nil {
		return nil, err
	}

	session, err := l.sessions.GetSessionByID(sessionID)
	if err != nil {
		if errors.Is(err, dao.ErrSessionNotFound) {
			return nil, newError(ErrorNotFound, "session not found", err)
		}
		return nil, newError(ErrorStorage, "failed to load session", err)
	}

	question = strings.TrimSpace(question)
	if question == "" {
		return nil, newError(ErrorInvalidInput, "question must not be empty", nil)
	}
	if utf8.RuneCountInString(question) > MaxQuestionRunes {
		return nil, newError(ErrorInvalidInput, "question exceeds 200 characters", nil)
	}

	count, err := l.exchanges.CountExchanges(sessionID)
	if err != nil {
		return nil, newError(ErrorStorage, "failed to count exchanges", err)
	}
	if count >= models.MaxExchangesPerSession {
		return nil, newError(ErrorQuotaExceeded, "follow-up limit reached", nil)
	}

	prior, err := l.exchanges.ListExchanges(sessionID)
	if err != nil {
		return nil, newError(ErrorStorage, "failed to load exchanges", err)
	}

	answer, err := l.gateway.AnswerFollowUp(ctx, session, question, prior)
	if err != nil {
		l.log.Warn("follow-up answer failed", "session_id", sessionID, "error", err)
		return nil, newError(ErrorAnswer, "unable to answer the question right now", err)
	}

	exchange, err := l.exchanges.CreateExchange(sessionID, question, answer)
	if err != nil {
		if errors.Is(err, dao.ErrQuotaExceeded) {
			return nil, newError(ErrorQuotaExceeded, "follow-up limit reached", err)
		}
		return nil, newError(ErrorStorage, "failed to store exchange", err)
	}

	l.log.Info("follow-up exchange recorded", "session_id", sessionID, "ordinal", exchange.QuestionCount)
	return exchange, nil
}

// ListExchanges returns a session's exchanges in conversation order
func (l *SessionLogic) ListExchanges(id string) ([]models.FollowUpExchange, error) {
	sessionID, err := parseSessionID(id)
	if err != nil {
		return nil, err
	}

	if _, err := l.sessions.GetSessionByID(sessionID); err != nil {
		if errors.Is(err, dao.ErrSessionNotFound) {
			return nil, newError(ErrorNotFound, "session not found", err)
		}
		return nil, newError(ErrorStorage, "failed to load session", err)
	}

	exchanges, err := l.exchanges.ListExchanges(sessionID)
	if err != nil {
		return nil, newError(ErrorStorage, "failed to load exchanges", err)
	}
	return exchanges, nil
}

// parseSessionID accepts only canonical hyphenated UUIDs
func parseSessionID(id string) (uuid.UUID, error) {
	if len(id) != 36 {
		return uuid.Nil, newError(ErrorInvalidInput, "invalid session id format", nil)
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, newError(ErrorInvalidInput, "invalid session id format", err)
	}
	return parsed, nil
}

// backfillStandardResponse fills a missing standard response from the four
// stored fields. Read-time only; the stored record is not rewritten.
func backfillStandardResponse(session *models.ConversionSession) {
	feedback := session.AIFeedback.Data()
	if feedback.StandardResponse != "" {
		return
	}
	feedback.StandardResponse = SynthesizeStandardResponse(
		session.Observation,
		session.Feeling,
		session.Need,
		session.Request,
	)
	session.AIFeedback = datatypes.NewJSONType(feedback)
}
