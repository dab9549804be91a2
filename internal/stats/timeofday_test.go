package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kidfocus/kidfocus-api/internal/models"
)

func at(hour int) time.Time {
	return time.Date(2025, 3, 10, hour, 15, 0, 0, time.UTC)
}

func TestClassifyHour(t *testing.T) {
	cases := []struct {
		hour int
		want Slot
	}{
		{5, SlotNone},
		{6, SlotMorning},
		{8, SlotMorning},
		{9, SlotForenoon},
		{11, SlotForenoon},
		{12, SlotNone},
		{13, SlotNone},
		{14, SlotAfternoon},
		{16, SlotAfternoon},
		{17, SlotNone},
		{18, SlotNone},
		{19, SlotEvening},
		{21, SlotEvening},
		{22, SlotNone},
		{23, SlotNone},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, classifyHour(tc.hour), "hour %d", tc.hour)
	}
}

func TestBestSlotPicksHighestMeanAttention(t *testing.T) {
	sessions := []models.StudySession{
		session(models.SubjectMath, 30, at(7), ptr(1)),
		session(models.SubjectMath, 30, at(20), ptr(3)),
		session(models.SubjectMath, 30, at(20), ptr(2)),
	}
	assert.Equal(t, SlotEvening, Aggregate(sessions).BestSlot)
}

func TestBestSlotIgnoresHoursWithoutTelemetry(t *testing.T) {
	sessions := []models.StudySession{
		session(models.SubjectMath, 30, at(20), nil),
		session(models.SubjectMath, 30, at(7), ptr(1)),
	}
	assert.Equal(t, SlotMorning, Aggregate(sessions).BestSlot)
}

func TestBestSlotUnclassifiedHourYieldsNone(t *testing.T) {
	sessions := []models.StudySession{
		session(models.SubjectMath, 30, at(13), ptr(3)),
		session(models.SubjectMath, 30, at(7), ptr(1)),
	}
	assert.Equal(t, SlotNone, Aggregate(sessions).BestSlot)
}
