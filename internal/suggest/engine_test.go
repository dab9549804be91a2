package suggest

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kidfocus/kidfocus-api/internal/models"
	"github.com/kidfocus/kidfocus-api/internal/stats"
)

func ptr(v float64) *float64 { return &v }

func makeSession(subject string, minutes int, start time.Time, attention *float64) models.StudySession {
	end := start.Add(time.Duration(minutes) * time.Minute)
	return models.StudySession{
		Subject:         subject,
		DurationMinutes: minutes,
		StartTime:       start,
		EndTime:         &end,
		AvgAttention:    attention,
	}
}

func child(age int, gender, stage string) models.Child {
	return models.Child{Nickname: "Mia", Age: age, Gender: gender, EducationStage: stage}
}

func TestBuildWithoutSessionsOnlyProfileCategories(t *testing.T) {
	engine := NewEngine()
	s := engine.Build(child(9, models.GenderFemale, models.StageElementary), stats.Aggregate(nil))

	require.NotEmpty(t, s.AgeAppropriate)
	assert.Equal(t, baselineTip, s.AgeAppropriate[0])
	assert.Equal(t, []string{learningStyleTips[models.GenderFemale]}, s.LearningStyle)
	assert.Empty(t, s.Schedule)
	assert.Empty(t, s.AttentionImprovement)
	assert.Empty(t, s.SubjectSpecific)
}

func TestBuildAgeBranches(t *testing.T) {
	engine := NewEngine()

	young := engine.Build(child(7, models.GenderMale, models.StageElementary), stats.Summary{})
	assert.Contains(t, young.AgeAppropriate, elementaryYoungTip)

	older := engine.Build(child(11, models.GenderMale, models.StageElementary), stats.Summary{})
	assert.Contains(t, older.AgeAppropriate, elementaryOlderTip)

	middle := engine.Build(child(13, models.GenderMale, models.StageMiddle), stats.Summary{})
	assert.Len(t, middle.AgeAppropriate, 3)

	high := engine.Build(child(17, models.GenderMale, models.StageHigh), stats.Summary{})
	assert.Len(t, high.AgeAppropriate, 3)
}

func TestBuildAttentionTiers(t *testing.T) {
	engine := NewEngine()
	start := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)

	low := stats.Aggregate([]models.StudySession{makeSession(models.SubjectMath, 30, start, ptr(1))})
	s := engine.Build(child(10, models.GenderMale, models.StageElementary), low)
	assert.Equal(t, attentionTips[tierLow], s.AttentionImprovement)
	assert.Contains(t, s.Schedule, scheduleTips[tierLow][0])

	medium := stats.Aggregate([]models.StudySession{makeSession(models.SubjectMath, 30, start, ptr(2))})
	s = engine.Build(child(10, models.GenderMale, models.StageElementary), medium)
	assert.Equal(t, attentionTips[tierMedium], s.AttentionImprovement)

	high := stats.Aggregate([]models.StudySession{makeSession(models.SubjectMath, 30, start, ptr(2.5))})
	s = engine.Build(child(10, models.GenderMale, models.StageElementary), high)
	assert.Equal(t, attentionTips[tierHigh], s.AttentionImprovement)
}

func TestBuildScheduleTimingTips(t *testing.T) {
	engine := NewEngine()
	morning := time.Date(2025, 4, 1, 7, 0, 0, 0, time.UTC)
	summary := stats.Aggregate([]models.StudySession{makeSession(models.SubjectMath, 30, morning, ptr(2))})

	s := engine.Build(child(9, models.GenderFemale, models.StageElementary), summary)
	assert.Contains(t, s.Schedule, slotTips[stats.SlotMorning])
	assert.Contains(t, s.Schedule, lateNightTipYoung)

	s = engine.Build(child(14, models.GenderFemale, models.StageMiddle), summary)
	assert.Contains(t, s.Schedule, lateNightTipMid)

	s = engine.Build(child(17, models.GenderFemale, models.StageHigh), summary)
	assert.Contains(t, s.Schedule, lateNightTipOlder)
}

func TestBuildSubjectSpecific(t *testing.T) {
	engine := NewEngine()
	start := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)
	summary := stats.Aggregate([]models.StudySession{
		makeSession(models.SubjectMath, 30, start, ptr(1)),           // below threshold
		makeSession(models.SubjectArt, 30, start.Add(time.Hour), ptr(3)), // above
		makeSession(models.SubjectCS, 30, start.Add(2*time.Hour), nil),   // no telemetry, skipped
	})

	s := engine.Build(child(12, models.GenderMale, models.StageMiddle), summary)
	require.Len(t, s.SubjectSpecific, 2)

	assert.True(t, strings.HasPrefix(s.SubjectSpecific[0], models.SubjectName(models.SubjectArt)+" is going well"))
	assert.True(t, strings.HasPrefix(s.SubjectSpecific[1], models.SubjectName(models.SubjectMath)+" needs work"))
	assert.Contains(t, s.SubjectSpecific[1], subjectImprovementTips[models.SubjectMath][models.StageMiddle])
}

func TestBuildSubjectSpecificFallbackMessages(t *testing.T) {
	engine := NewEngine()
	start := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)
	summary := stats.Aggregate([]models.StudySession{makeSession("chess", 30, start, ptr(1))})

	s := engine.Build(child(12, models.GenderMale, models.StageMiddle), summary)
	require.Len(t, s.SubjectSpecific, 1)
	assert.Contains(t, s.SubjectSpecific[0], genericImprovementTip)
}

func TestBuildDeterministic(t *testing.T) {
	engine := NewEngine()
	start := time.Date(2025, 4, 1, 7, 0, 0, 0, time.UTC)
	sessions := []models.StudySession{
		makeSession(models.SubjectMath, 30, start, ptr(1)),
		makeSession(models.SubjectScience, 30, start.Add(time.Hour), ptr(3)),
	}
	summary := stats.Aggregate(sessions)
	c := child(10, models.GenderFemale, models.StageElementary)

	first := engine.Build(c, summary)
	second := engine.Build(c, summary)
	assert.Equal(t, first, second)
}
