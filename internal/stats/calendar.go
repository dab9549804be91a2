package stats

import (
	"time"

	"github.com/kidfocus/kidfocus-api/internal/models"
)

// CalendarSession is one session entry on a calendar day.
type CalendarSession struct {
	ID              string   `json:"id"`
	Subject         string   `json:"subject"`
	DurationMinutes int      `json:"duration_minutes"`
	AvgAttention    *float64 `json:"avg_attention,omitempty"`
	StartTime       string   `json:"start_time"`
}

// CalendarDay summarises one calendar date for the month view.
type CalendarDay struct {
	BestSubject string            `json:"best_subject"`
	Color       string            `json:"color"`
	Sessions    []CalendarSession `json:"sessions"`
}

// BuildCalendar groups the given sessions by calendar date, keyed
// YYYY-MM-DD. Per date, the "best subject of the day" is the session with
// the highest attention average (missing attention counts as the floor, so
// such sessions only win when no session of the day has telemetry), and
// its subject color is taken from the calendar color table.
//
// The caller supplies the month's sessions; no eligibility filtering is
// applied here, matching the calendar's any-activity semantics.
func BuildCalendar(sessions []models.StudySession) map[string]CalendarDay {
	byDate := make(map[string][]models.StudySession)
	for _, s := range sessions {
		key := s.StartTime.Format("2006-01-02")
		byDate[key] = append(byDate[key], s)
	}

	calendar := make(map[string]CalendarDay, len(byDate))
	for date, daySessions := range byDate {
		best := daySessions[0]
		bestValue := attentionOrZero(best)
		entries := make([]CalendarSession, 0, len(daySessions))
		for i, s := range daySessions {
			if i > 0 {
				if v := attentionOrZero(s); v > bestValue {
					bestValue = v
					best = s
				}
			}
			entries = append(entries, CalendarSession{
				ID:              s.ID,
				Subject:         models.SubjectName(s.Subject),
				DurationMinutes: s.DurationMinutes,
				AvgAttention:    s.AvgAttention,
				StartTime:       s.StartTime.Format("15:04"),
			})
		}
		color, ok := models.CalendarSubjectColors[best.Subject]
		if !ok {
			color = models.DefaultSubjectColor
		}
		calendar[date] = CalendarDay{
			BestSubject: best.Subject,
			Color:       color,
			Sessions:    entries,
		}
	}
	return calendar
}

// MonthBounds returns the [start, end) range covering the given month.
func MonthBounds(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	return start, start.AddDate(0, 1, 0)
}

func attentionOrZero(s models.StudySession) float64 {
	if s.AvgAttention == nil {
		return 0
	}
	return *s.AvgAttention
}
