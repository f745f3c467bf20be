package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nvcoach-backend/logic"
)

// SessionController handles conversion-session HTTP requests
type SessionController struct {
	sessionLogic *logic.SessionLogic
}

func NewSessionController(sessionLogic *logic.SessionLogic) *SessionController {
	return &SessionController{sessionLogic: sessionLogic}
}

// CreateSession handles POST /sessions
func (c *SessionController) CreateSession(ctx *gin.Context) {
	type Request struct {
		OriginalText string `json:"original_text" binding:"required"`
	}
	var req Request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := c.sessionLogic.InitiateConversion(ctx.Request.Context(), req.OriginalText)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, session)
}

// GetSession handles GET /sessions/:id
func (c *SessionController) GetSession(ctx *gin.Context) {
	session, err := c.sessionLogic.GetSession(ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, session)
}

// ListSessions handles GET /sessions
func (c *SessionController) ListSessions(ctx *gin.Context) {
	sessions, err := c.sessionLogic.ListSessions()
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, sessions)
}

// respondError maps logic error codes to HTTP statuses
func respondError(ctx *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch logic.CodeOf(err) {
	case logic.ErrorInvalidInput:
		status = http.StatusBadRequest
	case logic.ErrorNotFound:
		status = http.StatusNotFound
	case logic.ErrorQuotaExceeded:
		status = http.StatusTooManyRequests
	case logic.ErrorDecomposition, logic.ErrorAnswer:
		status = http.StatusBadGateway
	}
	ctx.JSON(status, gin.H{"error": err.Error(), "code": string(logic.CodeOf(err))})
}
