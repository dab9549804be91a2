package stats

import (
	"sort"

	"github.com/kidfocus/kidfocus-api/internal/models"
)

// trendWindow is how many recent sessions feed the attention trend line.
const trendWindow = 10

// ChartData feeds the analysis page charts. The per-subject slices are
// index-aligned.
type ChartData struct {
	Subjects        []string `json:"subjects"`
	StudyTimes      []int    `json:"study_times"`
	AttentionScores []int    `json:"attention_scores"`
	SubjectColors   []string `json:"subject_colors"`
	Dates           []string `json:"dates"`
	AttentionTrend  []int    `json:"attention_trend"`
}

// PerformanceData is the compact stat block on the suggestions page.
type PerformanceData struct {
	TotalSessions   int     `json:"total_sessions"`
	TotalHours      float64 `json:"total_hours"`
	AvgAttention    int     `json:"avg_attention"`
	BestSubject     string  `json:"best_subject"`
	ImprovementRate int     `json:"improvement_rate"`
}

// BuildChartData projects the summary of the given sessions into chart
// series, plus an attention trend over the most recent sessions.
func BuildChartData(sessions []models.StudySession) ChartData {
	summary := Aggregate(sessions)

	data := ChartData{
		Subjects:        []string{},
		StudyTimes:      []int{},
		AttentionScores: []int{},
		SubjectColors:   []string{},
		Dates:           []string{},
		AttentionTrend:  []int{},
	}

	subjects := make([]string, 0, len(summary.PerSubject))
	for subject := range summary.PerSubject {
		subjects = append(subjects, subject)
	}
	sort.Strings(subjects)
	for _, subject := range subjects {
		st := summary.PerSubject[subject]
		data.Subjects = append(data.Subjects, models.SubjectName(subject))
		data.StudyTimes = append(data.StudyTimes, st.TotalMinutes)
		data.AttentionScores = append(data.AttentionScores, st.AvgAttentionPercent)
		color, ok := models.ChartSubjectColors[subject]
		if !ok {
			color = models.DefaultSubjectColor
		}
		data.SubjectColors = append(data.SubjectColors, color)
	}

	eligible := FilterEligible(sessions)
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].StartTime.Before(eligible[j].StartTime)
	})
	if len(eligible) > trendWindow {
		eligible = eligible[len(eligible)-trendWindow:]
	}
	for _, s := range eligible {
		data.Dates = append(data.Dates, s.StartTime.Format("01/02"))
		if v, ok := attentionValue(s); ok {
			data.AttentionTrend = append(data.AttentionTrend, NormalizeAttentionPercent(v))
		} else {
			data.AttentionTrend = append(data.AttentionTrend, 0)
		}
	}
	return data
}

// BuildPerformanceData projects an already computed Summary into the
// suggestions-page stat block. BestSubject here is the most studied
// subject by total time, shown by display name.
func BuildPerformanceData(summary Summary) PerformanceData {
	data := PerformanceData{
		TotalSessions:   summary.TotalSessions,
		TotalHours:      summary.TotalHours,
		AvgAttention:    summary.OverallAttentionPercent,
		ImprovementRate: summary.ImprovementRate,
	}
	if summary.MostStudiedSubject != "" {
		data.BestSubject = models.SubjectName(summary.MostStudiedSubject)
	}
	return data
}
