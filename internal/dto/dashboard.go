package dto

import (
	"github.com/kidfocus/kidfocus-api/internal/models"
	"github.com/kidfocus/kidfocus-api/internal/stats"
	"github.com/kidfocus/kidfocus-api/internal/suggest"
)

// SubjectBreakdown is one subject row on the dashboard.
type SubjectBreakdown struct {
	Key              string `json:"key"`
	Name             string `json:"name"`
	Sessions         int    `json:"sessions"`
	TotalMinutes     int    `json:"total_minutes"`
	AttentionPercent int    `json:"attention_percent"`
	HasAttention     bool   `json:"has_attention"`
	Color            string `json:"color"`
}

// DashboardResponse is the child's home page payload.
type DashboardResponse struct {
	Child               ChildCard          `json:"child"`
	TotalSessions       int                `json:"total_sessions"`
	TotalMinutes        int                `json:"total_minutes"`
	TotalHours          float64            `json:"total_hours"`
	AvgAttentionPercent int                `json:"avg_attention_percent"`
	HasAttention        bool               `json:"has_attention"`
	MostStudiedSubject  string             `json:"most_studied_subject"`
	BestTimeOfDay       string             `json:"best_time_of_day"`
	ImprovementRate     int                `json:"improvement_rate"`
	Subjects            []SubjectBreakdown `json:"subjects"`
}

// AnalysisResponse is the detailed analysis page payload.
type AnalysisResponse struct {
	Child               ChildCard             `json:"child"`
	Chart               stats.ChartData       `json:"chart"`
	Performance         stats.PerformanceData `json:"performance"`
	AvgAttentionPercent int                   `json:"avg_attention_percent"`
	Sessions            []models.StudySession `json:"sessions"`
}

// CalendarResponse is the month view payload.
type CalendarResponse struct {
	Year  int                          `json:"year"`
	Month int                          `json:"month"`
	Days  map[string]stats.CalendarDay `json:"days"`
}

// SuggestionsResponse is the smart suggestions page payload.
type SuggestionsResponse struct {
	Child       ChildCard             `json:"child"`
	Suggestions suggest.Suggestions   `json:"suggestions"`
	Performance stats.PerformanceData `json:"performance"`
	AIAdvice    *string               `json:"ai_advice"`
	CanGenerate bool                  `json:"can_generate"`
}

// AdviceResponse carries generated advice text.
type AdviceResponse struct {
	Advice string `json:"advice"`
}
