package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kidfocus/kidfocus-api/internal/dto"
	appErrors "github.com/kidfocus/kidfocus-api/pkg/errors"
	"github.com/kidfocus/kidfocus-api/pkg/response"
)

type dashboardProvider interface {
	Overview(ctx context.Context, userID, childID string) (*dto.DashboardResponse, error)
}

type analysisProvider interface {
	Detail(ctx context.Context, userID, childID string) (*dto.AnalysisResponse, error)
}

type calendarProvider interface {
	Month(ctx context.Context, userID, childID string, year, month int) (*dto.CalendarResponse, error)
}

// DashboardHandler exposes the per-child statistics pages.
type DashboardHandler struct {
	dashboard dashboardProvider
	analysis  analysisProvider
	calendar  calendarProvider
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(dashboard dashboardProvider, analysis analysisProvider, calendar calendarProvider) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, analysis: analysis, calendar: calendar}
}

// Overview godoc
// @Summary Child dashboard
// @Tags Statistics
// @Produce json
// @Security BearerAuth
// @Param childId path string true "Child ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /children/{childId}/dashboard [get]
func (h *DashboardHandler) Overview(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	res, err := h.dashboard.Overview(c.Request.Context(), claims.UserID, c.Param("childId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, res)
}

// Analysis godoc
// @Summary Detailed analysis page
// @Tags Statistics
// @Produce json
// @Security BearerAuth
// @Param childId path string true "Child ID"
// @Success 200 {object} response.Envelope
// @Router /children/{childId}/analysis [get]
func (h *DashboardHandler) Analysis(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	res, err := h.analysis.Detail(c.Request.Context(), claims.UserID, c.Param("childId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, res)
}

// Calendar godoc
// @Summary Study calendar month view
// @Tags Statistics
// @Produce json
// @Security BearerAuth
// @Param childId path string true "Child ID"
// @Param year query int false "Year, defaults to current"
// @Param month query int false "Month 1-12, defaults to current"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /children/{childId}/calendar [get]
func (h *DashboardHandler) Calendar(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	now := time.Now().UTC()
	year, err := intQuery(c, "year", now.Year())
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid year"))
		return
	}
	month, err := intQuery(c, "month", int(now.Month()))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid month"))
		return
	}

	res, err := h.calendar.Month(c.Request.Context(), claims.UserID, c.Param("childId"), year, month)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res, nil)
}

func intQuery(c *gin.Context, key string, fallback int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
