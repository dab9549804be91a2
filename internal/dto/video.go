package dto

// VideoItem is one playable file in the subject catalog.
type VideoItem struct {
	Filename    string `json:"filename"`
	DisplayName string `json:"display_name"`
}

// VideoCatalogResponse lists the videos available for one subject.
type VideoCatalogResponse struct {
	Subject     string      `json:"subject"`
	SubjectName string      `json:"subject_name"`
	Videos      []VideoItem `json:"videos"`
}

// StartWatchRequest records the start of a video playback.
type StartWatchRequest struct {
	SessionID   string `json:"session_id" validate:"required"`
	Subject     string `json:"subject" validate:"required"`
	Filename    string `json:"filename" validate:"required"`
	DisplayName string `json:"display_name"`
}

// EndWatchRequest closes a playback record.
type EndWatchRequest struct {
	WatchID string `json:"watch_id" validate:"required"`
}
