package stats

import (
	"math"
	"sort"

	"github.com/kidfocus/kidfocus-api/internal/models"
)

// improvementMinSessions is the minimum number of attention-qualifying
// sessions before an improvement rate is reported.
const improvementMinSessions = 5

// improvementWindow is the number of sessions averaged at each end of the
// chronological sequence. With five qualifying sessions the two windows
// overlap by one; that overlap is intentional.
const improvementWindow = 3

// SubjectStats aggregates one subject's sessions.
type SubjectStats struct {
	Count               int     `json:"count"`
	TotalMinutes        int     `json:"total_minutes"`
	AttentionCount      int     `json:"attention_count"`
	AvgAttentionRaw     float64 `json:"avg_attention_raw"`
	AvgAttentionPercent int     `json:"avg_attention_percent"`
}

// Summary is the one aggregate structure every consumer reads its numbers
// from. All fields reduce to zero values on empty input; no computation
// here can fail.
type Summary struct {
	TotalSessions           int                     `json:"total_sessions"`
	TotalMinutes            int                     `json:"total_minutes"`
	TotalHours              float64                 `json:"total_hours"`
	OverallAttentionPercent int                     `json:"overall_attention_percent"`
	OverallAttentionRaw     float64                 `json:"overall_attention_raw"`
	AttentionSessions       int                     `json:"attention_sessions"`
	PerSubject              map[string]SubjectStats `json:"per_subject"`
	MostStudiedSubject      string                  `json:"most_studied_subject"`
	BestSubject             string                  `json:"best_subject"`
	WorstSubject            string                  `json:"worst_subject"`
	BestSlot                Slot                    `json:"best_slot"`
	ImprovementRate         int                     `json:"improvement_rate"`
}

// Aggregate computes the Summary for a child's sessions. Ineligible
// sessions are dropped first, so callers may pass raw lists; the input
// slice is never mutated.
func Aggregate(sessions []models.StudySession) Summary {
	eligible := FilterEligible(sessions)

	summary := Summary{PerSubject: make(map[string]SubjectStats, len(models.SubjectNames))}
	summary.TotalSessions = len(eligible)
	for _, s := range eligible {
		summary.TotalMinutes += s.DurationMinutes

		st := summary.PerSubject[s.Subject]
		st.Count++
		st.TotalMinutes += s.DurationMinutes
		if v, ok := attentionValue(s); ok {
			// AvgAttentionRaw holds the running sum until the final pass.
			st.AvgAttentionRaw += v
			st.AttentionCount++
			summary.AttentionSessions++
		}
		summary.PerSubject[s.Subject] = st
	}
	summary.TotalHours = float64(summary.TotalMinutes) / 60

	if raw, ok := overallAverageAttentionRaw(eligible); ok {
		summary.OverallAttentionRaw = raw
		summary.OverallAttentionPercent = NormalizeAttentionPercent(raw)
	}

	bestAvg := -1.0
	worstAvg := math.Inf(1)
	mostMinutes := -1
	for subject, st := range summary.PerSubject {
		if st.AttentionCount > 0 {
			st.AvgAttentionRaw /= float64(st.AttentionCount)
			st.AvgAttentionPercent = NormalizeAttentionPercent(st.AvgAttentionRaw)
			summary.PerSubject[subject] = st
		}
		// Strict comparisons: the first subject found at the extremum wins,
		// later ties do not overwrite. Map order makes the exact tie-break
		// arbitrary and callers must not rely on it.
		if st.TotalMinutes > mostMinutes {
			mostMinutes = st.TotalMinutes
			summary.MostStudiedSubject = subject
		}
		if st.AttentionCount > 0 {
			if st.AvgAttentionRaw > bestAvg {
				bestAvg = st.AvgAttentionRaw
				summary.BestSubject = subject
			}
			if st.AvgAttentionRaw < worstAvg {
				worstAvg = st.AvgAttentionRaw
				summary.WorstSubject = subject
			}
		}
	}

	summary.BestSlot = bestTimeOfDaySlot(eligible)
	summary.ImprovementRate = improvementRate(eligible)
	return summary
}

// improvementRate compares the mean attention of the earliest three
// qualifying sessions against the latest three, as a rounded percentage
// change. Fewer than five qualifying sessions, or a zero early mean, yield
// zero.
func improvementRate(eligible []models.StudySession) int {
	values := make([]attentionPoint, 0, len(eligible))
	for _, s := range eligible {
		if v, ok := attentionValue(s); ok {
			values = append(values, attentionPoint{at: s.StartTime.UnixNano(), value: v})
		}
	}
	if len(values) < improvementMinSessions {
		return 0
	}
	sort.SliceStable(values, func(i, j int) bool { return values[i].at < values[j].at })

	var early, recent float64
	for i := 0; i < improvementWindow; i++ {
		early += values[i].value
		recent += values[len(values)-improvementWindow+i].value
	}
	early /= improvementWindow
	recent /= improvementWindow
	if early == 0 {
		return 0
	}
	return int(math.Round((recent - early) / early * 100))
}

type attentionPoint struct {
	at    int64
	value float64
}
