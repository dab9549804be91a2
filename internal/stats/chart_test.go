package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kidfocus/kidfocus-api/internal/models"
)

func TestBuildChartDataSeriesAlignment(t *testing.T) {
	sessions := []models.StudySession{
		session(models.SubjectMath, 120, baseTime, ptr(2)),
		session(models.SubjectArt, 30, baseTime.Add(time.Hour), ptr(3)),
		openSession(models.SubjectCS, baseTime),
	}

	data := BuildChartData(sessions)
	require.Len(t, data.Subjects, 2)
	require.Len(t, data.StudyTimes, 2)
	require.Len(t, data.AttentionScores, 2)
	require.Len(t, data.SubjectColors, 2)

	// Subjects are emitted in sorted key order: art before math.
	assert.Equal(t, models.SubjectName(models.SubjectArt), data.Subjects[0])
	assert.Equal(t, 30, data.StudyTimes[0])
	assert.Equal(t, 100, data.AttentionScores[0])
	assert.Equal(t, models.ChartSubjectColors[models.SubjectArt], data.SubjectColors[0])

	require.Len(t, data.AttentionTrend, 2)
	assert.Equal(t, []int{67, 100}, data.AttentionTrend)
}

func TestBuildChartDataTrendWindow(t *testing.T) {
	sessions := make([]models.StudySession, 0, 14)
	for i := 0; i < 14; i++ {
		sessions = append(sessions, session(models.SubjectMath, 10, baseTime.Add(time.Duration(i)*24*time.Hour), ptr(2)))
	}
	data := BuildChartData(sessions)
	assert.Len(t, data.Dates, trendWindow)
	assert.Len(t, data.AttentionTrend, trendWindow)
}

func TestBuildPerformanceData(t *testing.T) {
	sessions := []models.StudySession{
		session(models.SubjectMath, 120, baseTime, ptr(3)),
		session(models.SubjectArt, 30, baseTime.Add(time.Hour), nil),
	}
	summary := Aggregate(sessions)
	data := BuildPerformanceData(summary)

	assert.Equal(t, 2, data.TotalSessions)
	assert.InDelta(t, 2.5, data.TotalHours, 1e-9)
	assert.Equal(t, 100, data.AvgAttention)
	assert.Equal(t, models.SubjectName(models.SubjectMath), data.BestSubject)
	assert.Equal(t, 0, data.ImprovementRate)
}

func TestBuildPerformanceDataEmpty(t *testing.T) {
	data := BuildPerformanceData(Aggregate(nil))
	assert.Zero(t, data.TotalSessions)
	assert.Zero(t, data.TotalHours)
	assert.Equal(t, "", data.BestSubject)
}
