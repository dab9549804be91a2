package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kidfocus/kidfocus-api/internal/dto"
	"github.com/kidfocus/kidfocus-api/internal/service"
	appErrors "github.com/kidfocus/kidfocus-api/pkg/errors"
	"github.com/kidfocus/kidfocus-api/pkg/response"
)

// SessionHandler exposes the study session lifecycle endpoints.
type SessionHandler struct {
	service *service.SessionService
}

// NewSessionHandler constructs handler.
func NewSessionHandler(svc *service.SessionService) *SessionHandler {
	return &SessionHandler{service: svc}
}

// Start godoc
// @Summary Start a study session
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.StartSessionRequest true "Session payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /sessions [post]
func (h *SessionHandler) Start(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid session payload"))
		return
	}

	session, err := h.service.Start(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, session)
}

// RecordEmotion godoc
// @Summary Record a detector sample
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Param payload body dto.EmotionSampleRequest true "Sample payload"
// @Success 204 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /sessions/{id}/emotions [post]
func (h *SessionHandler) RecordEmotion(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.EmotionSampleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid sample payload"))
		return
	}

	if err := h.service.RecordEmotion(c.Request.Context(), claims.UserID, c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// End godoc
// @Summary Finish a study session
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /sessions/{id}/end [post]
func (h *SessionHandler) End(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	session, err := h.service.End(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, session)
}

// Active godoc
// @Summary Fetch the in-progress session of a child
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param childId query string true "Child ID"
// @Success 200 {object} response.Envelope
// @Router /sessions/active [get]
func (h *SessionHandler) Active(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	childID := c.Query("childId")
	if childID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "childId required"))
		return
	}

	session, err := h.service.Active(c.Request.Context(), claims.UserID, childID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, session)
}

// List godoc
// @Summary List session history
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param child_id query string true "Child ID"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /sessions [get]
func (h *SessionHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.SessionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid list query"))
		return
	}

	res, err := h.service.List(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res.Sessions, res.Pagination)
}

// Delete godoc
// @Summary Remove one session
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /sessions/{id} [delete]
func (h *SessionHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.Delete(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// ResetHistory godoc
// @Summary Remove the whole history of a child
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param childId path string true "Child ID"
// @Success 200 {object} response.Envelope
// @Router /children/{childId}/sessions [delete]
func (h *SessionHandler) ResetHistory(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	res, err := h.service.ResetHistory(c.Request.Context(), claims.UserID, c.Param("childId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, res)
}

// ExportCSV godoc
// @Summary Download session history as CSV
// @Tags Sessions
// @Produce text/csv
// @Security BearerAuth
// @Param childId path string true "Child ID"
// @Success 200 {file} file
// @Router /children/{childId}/sessions/export [get]
func (h *SessionHandler) ExportCSV(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	childID := c.Param("childId")
	data, err := h.service.ExportCSV(c.Request.Context(), claims.UserID, childID)
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("sessions_%s_%s.csv", childID, time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv", data)
}
