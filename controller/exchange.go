package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nvcoach-backend/logic"
)

// ExchangeController handles follow-up exchange HTTP requests
type ExchangeController struct {
	sessionLogic *logic.SessionLogic
}

func NewExchangeController(sessionLogic *logic.SessionLogic) *ExchangeController {
	return &ExchangeController{sessionLogic: sessionLogic}
}

// SubmitQuestion handles POST /sessions/:id/questions
func (c *ExchangeController) SubmitQuestion(ctx *gin.Context) {
	type Request struct {
		Question string `json:"question" binding:"required"`
	}
	var req Request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	exchange, err := c.sessionLogic.SubmitFollowUp(ctx.Request.Context(), ctx.Param("id"), req.Question)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, exchange)
}

// ListQuestions handles GET /sessions/:id/questions
func (c *ExchangeController) ListQuestions(ctx *gin.Context) {
	exchanges, err := c.sessionLogic.ListExchanges(ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, exchanges)
}
