package handler

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	appErrors "github.com/kidfocus/kidfocus-api/pkg/errors"
	"github.com/kidfocus/kidfocus-api/pkg/response"
)

type reportProvider interface {
	Get(ctx context.Context, userID, childID string) (string, error)
}

// ReportHandler serves the per-child PDF learning report.
type ReportHandler struct {
	service reportProvider
}

// NewReportHandler constructs handler.
func NewReportHandler(svc reportProvider) *ReportHandler {
	return &ReportHandler{service: svc}
}

// Download godoc
// @Summary Download the learning report
// @Description Serves the stored PDF, regenerating it first when stale.
// @Tags Reports
// @Produce application/pdf
// @Security BearerAuth
// @Param childId path string true "Child ID"
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /children/{childId}/report [get]
func (h *ReportHandler) Download(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	childID := c.Param("childId")
	path, err := h.service.Get(c.Request.Context(), claims.UserID, childID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("learning_report_%s.pdf", childID)))
	c.File(path)
}
