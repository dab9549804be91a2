package dto

import "github.com/kidfocus/kidfocus-api/internal/models"

// ChildCard is the compact child representation embedded in page payloads.
type ChildCard struct {
	ID             string `json:"id"`
	Nickname       string `json:"nickname"`
	Age            int    `json:"age"`
	Gender         string `json:"gender"`
	EducationStage string `json:"education_stage"`
}

// NewChildCard projects a child model into its card form.
func NewChildCard(child models.Child) ChildCard {
	return ChildCard{
		ID:             child.ID,
		Nickname:       child.Nickname,
		Age:            child.Age,
		Gender:         child.Gender,
		EducationStage: child.EducationStage,
	}
}
