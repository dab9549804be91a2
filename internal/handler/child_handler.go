package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kidfocus/kidfocus-api/internal/models"
	"github.com/kidfocus/kidfocus-api/internal/service"
	appErrors "github.com/kidfocus/kidfocus-api/pkg/errors"
	"github.com/kidfocus/kidfocus-api/pkg/response"
)

// ChildHandler exposes child profile endpoints.
type ChildHandler struct {
	service *service.ChildService
}

// NewChildHandler constructs handler.
func NewChildHandler(svc *service.ChildService) *ChildHandler {
	return &ChildHandler{service: svc}
}

// Create godoc
// @Summary Add a child profile
// @Tags Children
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.ChildRequest true "Child payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /children [post]
func (h *ChildHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.ChildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid child payload"))
		return
	}

	child, err := h.service.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, child)
}

// List godoc
// @Summary List child profiles
// @Tags Children
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /children [get]
func (h *ChildHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	children, err := h.service.List(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, children)
}

// Get godoc
// @Summary Fetch one child profile
// @Tags Children
// @Produce json
// @Security BearerAuth
// @Param childId path string true "Child ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /children/{childId} [get]
func (h *ChildHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	child, err := h.service.Get(c.Request.Context(), claims.UserID, c.Param("childId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, child)
}

// Update godoc
// @Summary Edit a child profile
// @Tags Children
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param childId path string true "Child ID"
// @Param payload body models.ChildRequest true "Child payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /children/{childId} [put]
func (h *ChildHandler) Update(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.ChildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid child payload"))
		return
	}

	child, err := h.service.Update(c.Request.Context(), claims.UserID, c.Param("childId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, child)
}

// Delete godoc
// @Summary Remove a child profile
// @Tags Children
// @Produce json
// @Security BearerAuth
// @Param childId path string true "Child ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /children/{childId} [delete]
func (h *ChildHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.Delete(c.Request.Context(), claims.UserID, c.Param("childId")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
