package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kidfocus/kidfocus-api/internal/dto"
	"github.com/kidfocus/kidfocus-api/internal/service"
	appErrors "github.com/kidfocus/kidfocus-api/pkg/errors"
	"github.com/kidfocus/kidfocus-api/pkg/response"
)

// VideoHandler exposes the learning video catalog and watch tracking.
type VideoHandler struct {
	service *service.VideoService
}

// NewVideoHandler constructs handler.
func NewVideoHandler(svc *service.VideoService) *VideoHandler {
	return &VideoHandler{service: svc}
}

// Catalog godoc
// @Summary List videos for a subject
// @Tags Videos
// @Produce json
// @Security BearerAuth
// @Param subject path string true "Subject key"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /videos/{subject} [get]
func (h *VideoHandler) Catalog(c *gin.Context) {
	res, err := h.service.Catalog(c.Request.Context(), c.Param("subject"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, res)
}

// Stream godoc
// @Summary Stream one video file
// @Tags Videos
// @Produce video/mp4
// @Security BearerAuth
// @Param subject path string true "Subject key"
// @Param filename path string true "Video filename"
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /videos/{subject}/{filename} [get]
func (h *VideoHandler) Stream(c *gin.Context) {
	path, err := h.service.FilePath(c.Param("subject"), c.Param("filename"))
	if err != nil {
		response.Error(c, err)
		return
	}

	// http.ServeFile behind c.File handles range requests for seeking.
	c.File(path)
}

// StartWatch godoc
// @Summary Record the start of a playback
// @Tags Videos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.StartWatchRequest true "Watch payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /watches [post]
func (h *VideoHandler) StartWatch(c *gin.Context) {
	var req dto.StartWatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid watch payload"))
		return
	}

	watch, err := h.service.StartWatch(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, watch)
}

// EndWatch godoc
// @Summary Close a playback record
// @Tags Videos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.EndWatchRequest true "Watch payload"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /watches/end [post]
func (h *VideoHandler) EndWatch(c *gin.Context) {
	var req dto.EndWatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid watch payload"))
		return
	}

	if err := h.service.EndWatch(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// SessionWatches godoc
// @Summary List playbacks recorded during a session
// @Tags Videos
// @Produce json
// @Security BearerAuth
// @Param sessionId query string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /watches [get]
func (h *VideoHandler) SessionWatches(c *gin.Context) {
	sessionID := c.Query("sessionId")
	if sessionID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "sessionId required"))
		return
	}

	watches, err := h.service.SessionWatches(c.Request.Context(), sessionID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, watches)
}
