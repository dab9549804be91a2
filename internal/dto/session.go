package dto

import "github.com/kidfocus/kidfocus-api/internal/models"

// StartSessionRequest begins a study session for a child.
type StartSessionRequest struct {
	ChildID string `json:"child_id" validate:"required"`
	Subject string `json:"subject" validate:"required"`
}

// EmotionSampleRequest records one detector reading on the active session.
type EmotionSampleRequest struct {
	Emotion        string  `json:"emotion" validate:"required"`
	AttentionLevel int     `json:"attention_level" validate:"min=0,max=3"`
	Confidence     float64 `json:"confidence" validate:"min=0,max=1"`
}

// SessionListRequest scopes the session history listing.
type SessionListRequest struct {
	ChildID  string `form:"child_id" validate:"required"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// SessionListResponse is one page of session history.
type SessionListResponse struct {
	Sessions   []models.StudySession `json:"sessions"`
	Pagination *models.Pagination    `json:"-"`
}

// ResetHistoryResponse reports how many sessions a reset removed.
type ResetHistoryResponse struct {
	Deleted int64 `json:"deleted"`
}
