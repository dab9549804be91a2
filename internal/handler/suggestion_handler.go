package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/kidfocus/kidfocus-api/internal/dto"
	appErrors "github.com/kidfocus/kidfocus-api/pkg/errors"
	"github.com/kidfocus/kidfocus-api/pkg/response"
)

type suggestionProvider interface {
	Get(ctx context.Context, userID, childID string) (*dto.SuggestionsResponse, error)
	GenerateAdvice(ctx context.Context, userID, childID string) (*dto.AdviceResponse, error)
}

// SuggestionHandler exposes the smart suggestions page and advice
// generation.
type SuggestionHandler struct {
	service suggestionProvider
}

// NewSuggestionHandler constructs handler.
func NewSuggestionHandler(svc suggestionProvider) *SuggestionHandler {
	return &SuggestionHandler{service: svc}
}

// Get godoc
// @Summary Smart suggestions page
// @Tags Suggestions
// @Produce json
// @Security BearerAuth
// @Param childId path string true "Child ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /children/{childId}/suggestions [get]
func (h *SuggestionHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	res, err := h.service.Get(c.Request.Context(), claims.UserID, c.Param("childId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, res)
}

// GenerateAdvice godoc
// @Summary Generate fresh AI advice
// @Tags Suggestions
// @Produce json
// @Security BearerAuth
// @Param childId path string true "Child ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /children/{childId}/suggestions/advice [post]
func (h *SuggestionHandler) GenerateAdvice(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	res, err := h.service.GenerateAdvice(c.Request.Context(), claims.UserID, c.Param("childId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, res)
}
