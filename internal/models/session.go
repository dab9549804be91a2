package models

import "time"

// StudySession is one sitting of a child with a subject. A session is
// created at start with zero duration and no end time, and is finalised
// exactly once at end: EndTime, DurationMinutes and the averages are set
// from the accumulated emotion samples.
//
// AvgAttention is nil when no telemetry was captured; a stored value of 0
// also means "no data" and must never be read as a valid low score.
type StudySession struct {
	ID              string     `db:"id" json:"id"`
	ChildID         string     `db:"child_id" json:"child_id"`
	Subject         string     `db:"subject" json:"subject"`
	DurationMinutes int        `db:"duration_minutes" json:"duration_minutes"`
	StartTime       time.Time  `db:"start_time" json:"start_time"`
	EndTime         *time.Time `db:"end_time" json:"end_time,omitempty"`
	AvgAttention    *float64   `db:"avg_attention" json:"avg_attention,omitempty"`
	AvgEmotionScore *float64   `db:"avg_emotion_score" json:"avg_emotion_score,omitempty"`
}

// EmotionSample is one reading from the external attention/emotion
// detector. AttentionLevel uses the raw 0-3 scale.
type EmotionSample struct {
	ID             string    `db:"id" json:"id"`
	SessionID      string    `db:"session_id" json:"session_id"`
	Timestamp      time.Time `db:"timestamp" json:"timestamp"`
	Emotion        string    `db:"emotion" json:"emotion"`
	AttentionLevel int       `db:"attention_level" json:"attention_level"`
	Confidence     float64   `db:"confidence" json:"confidence"`
}

// VideoWatch records one learning-video playback inside a session.
type VideoWatch struct {
	ID              string     `db:"id" json:"id"`
	SessionID       string     `db:"session_id" json:"session_id"`
	Subject         string     `db:"subject" json:"subject"`
	VideoFilename   string     `db:"video_filename" json:"video_filename"`
	VideoDisplay    string     `db:"video_display_name" json:"video_display_name"`
	StartedAt       time.Time  `db:"started_at" json:"started_at"`
	EndedAt         *time.Time `db:"ended_at" json:"ended_at,omitempty"`
	DurationSeconds int        `db:"duration_seconds" json:"duration_seconds"`
}

// SessionFilter scopes session listing queries.
type SessionFilter struct {
	ChildID   string
	From      *time.Time
	To        *time.Time
	Ascending bool
}
