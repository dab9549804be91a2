package models

import "time"

// Gender values accepted for a child profile.
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// Education stages accepted for a child profile.
const (
	StageElementary = "elementary"
	StageMiddle     = "middle"
	StageHigh       = "high"
)

// Age bounds enforced when a child profile is created or updated.
const (
	MinChildAge = 6
	MaxChildAge = 18
)

// MaxChildrenPerUser caps the number of profiles a single account may hold.
const MaxChildrenPerUser = 4

// Child is a learner profile. AISuggestion and the report columns are
// derived artifacts: session mutations clear them so they are recomputed
// from current data.
type Child struct {
	ID             string     `db:"id" json:"id"`
	UserID         string     `db:"user_id" json:"user_id"`
	Nickname       string     `db:"nickname" json:"nickname"`
	Gender         string     `db:"gender" json:"gender"`
	Age            int        `db:"age" json:"age"`
	EducationStage string     `db:"education_stage" json:"education_stage"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	AISuggestion   *string    `db:"ai_suggestion" json:"ai_suggestion,omitempty"`
	ReportPath     *string    `db:"pdf_report_path" json:"-"`
	ReportAt       *time.Time `db:"pdf_generated_at" json:"-"`
}

// ChildRequest creates or updates a child profile.
type ChildRequest struct {
	Nickname       string `json:"nickname" validate:"required,max=80"`
	Gender         string `json:"gender" validate:"required,oneof=male female"`
	Age            int    `json:"age" validate:"required,min=6,max=18"`
	EducationStage string `json:"education_stage" validate:"required,oneof=elementary middle high"`
}

// StageName maps an education stage key to its display name.
func StageName(stage string) string {
	switch stage {
	case StageElementary:
		return "elementary school"
	case StageMiddle:
		return "middle school"
	case StageHigh:
		return "high school"
	default:
		return stage
	}
}

// GenderName maps a gender key to its display name.
func GenderName(gender string) string {
	switch gender {
	case GenderMale:
		return "boy"
	case GenderFemale:
		return "girl"
	default:
		return gender
	}
}
