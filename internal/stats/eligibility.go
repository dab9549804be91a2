// Package stats is the single source of truth for every learning statistic
// shown by the dashboard, the analysis page, the suggestion engine, the PDF
// report and the AI prompt summary. All of those surfaces must consume this
// package rather than re-deriving numbers, so they cannot drift apart.
package stats

import "github.com/kidfocus/kidfocus-api/internal/models"

// MinSessionMinutes is the minimum finalised duration for a session to
// count toward any statistic.
const MinSessionMinutes = 1

// Eligible reports whether a session counts toward aggregate statistics:
// it must be finalised (end time set) and at least MinSessionMinutes long.
func Eligible(s models.StudySession) bool {
	return s.EndTime != nil && s.DurationMinutes >= MinSessionMinutes
}

// FilterEligible returns the eligible sub-sequence of sessions in their
// original order. Empty input yields an empty (non-nil) slice.
func FilterEligible(sessions []models.StudySession) []models.StudySession {
	eligible := make([]models.StudySession, 0, len(sessions))
	for _, s := range sessions {
		if Eligible(s) {
			eligible = append(eligible, s)
		}
	}
	return eligible
}

// attentionValue returns the session's raw attention average and whether it
// qualifies for attention-based aggregates. A nil or zero value means "no
// telemetry captured", never a valid low score.
func attentionValue(s models.StudySession) (float64, bool) {
	if s.AvgAttention == nil || *s.AvgAttention == 0 {
		return 0, false
	}
	return *s.AvgAttention, true
}
