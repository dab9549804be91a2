package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kidfocus/kidfocus-api/internal/dto"
)

type fakeStatsSrv struct {
	overview *dto.DashboardResponse
	analysis *dto.AnalysisResponse
	calendar *dto.CalendarResponse
	err      error
	lastYear int
	lastMon  int
}

func (f *fakeStatsSrv) Overview(_ context.Context, userID, childID string) (*dto.DashboardResponse, error) {
	return f.overview, f.err
}

func (f *fakeStatsSrv) Detail(_ context.Context, userID, childID string) (*dto.AnalysisResponse, error) {
	return f.analysis, f.err
}

func (f *fakeStatsSrv) Month(_ context.Context, userID, childID string, year, month int) (*dto.CalendarResponse, error) {
	f.lastYear, f.lastMon = year, month
	return f.calendar, f.err
}

func TestDashboardHandlerOverview(t *testing.T) {
	srv := &fakeStatsSrv{overview: &dto.DashboardResponse{TotalSessions: 7, MostStudiedSubject: "Mathematics"}}
	h := NewDashboardHandler(srv, srv, srv)

	rec := httptest.NewRecorder()
	c := authedContext(t, rec, http.MethodGet, "/children/c1/dashboard")
	c.Params = gin.Params{{Key: "childId", Value: "c1"}}

	h.Overview(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, float64(7), envelope.Data["total_sessions"])
	assert.Equal(t, "Mathematics", envelope.Data["most_studied_subject"])
}

func TestDashboardHandlerCalendarDefaultsToCurrentMonth(t *testing.T) {
	srv := &fakeStatsSrv{calendar: &dto.CalendarResponse{Year: 2026, Month: 9}}
	h := NewDashboardHandler(srv, srv, srv)

	rec := httptest.NewRecorder()
	c := authedContext(t, rec, http.MethodGet, "/children/c1/calendar")
	c.Params = gin.Params{{Key: "childId", Value: "c1"}}

	h.Calendar(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotZero(t, srv.lastYear)
	assert.NotZero(t, srv.lastMon)
}

func TestDashboardHandlerCalendarRejectsBadMonth(t *testing.T) {
	h := NewDashboardHandler(&fakeStatsSrv{}, &fakeStatsSrv{}, &fakeStatsSrv{})

	rec := httptest.NewRecorder()
	c := authedContext(t, rec, http.MethodGet, "/children/c1/calendar?month=abc")
	c.Params = gin.Params{{Key: "childId", Value: "c1"}}

	h.Calendar(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDashboardHandlerCalendarPassesQuery(t *testing.T) {
	srv := &fakeStatsSrv{calendar: &dto.CalendarResponse{Year: 2026, Month: 2}}
	h := NewDashboardHandler(srv, srv, srv)

	rec := httptest.NewRecorder()
	c := authedContext(t, rec, http.MethodGet, "/children/c1/calendar?year=2026&month=2")
	c.Params = gin.Params{{Key: "childId", Value: "c1"}}

	h.Calendar(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2026, srv.lastYear)
	assert.Equal(t, 2, srv.lastMon)
}
