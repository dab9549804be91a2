// Package suggest derives rule-based learning advice from a child profile
// and their aggregated statistics. The engine is a deterministic table
// evaluation, not a model: same inputs, same advice.
package suggest

import (
	"fmt"
	"sort"

	"github.com/kidfocus/kidfocus-api/internal/models"
	"github.com/kidfocus/kidfocus-api/internal/stats"
)

// Suggestions groups advice strings into the five display categories.
type Suggestions struct {
	AgeAppropriate       []string `json:"age_appropriate"`
	LearningStyle        []string `json:"learning_style"`
	Schedule             []string `json:"schedule"`
	AttentionImprovement []string `json:"attention_improvement"`
	SubjectSpecific      []string `json:"subject_specific"`
}

// Engine evaluates the rule tables. A zero-value Engine is not usable;
// construct with NewEngine.
type Engine struct {
	thresholds Thresholds
}

// NewEngine builds an engine with the production thresholds.
func NewEngine() *Engine {
	return &Engine{thresholds: DefaultThresholds}
}

// Build evaluates every rule category for the child against the aggregate
// summary. It never fails; with no session data only the profile-driven
// categories carry entries.
func (e *Engine) Build(child models.Child, summary stats.Summary) Suggestions {
	s := Suggestions{
		AgeAppropriate:       []string{},
		LearningStyle:        []string{},
		Schedule:             []string{},
		AttentionImprovement: []string{},
		SubjectSpecific:      []string{},
	}

	e.ageAppropriate(&s, child)
	e.learningStyle(&s, child)
	if summary.TotalSessions > 0 {
		e.attentionTiers(&s, summary)
		e.scheduleTiming(&s, child, summary)
		e.subjectSpecific(&s, child, summary)
	}
	return s
}

func (e *Engine) ageAppropriate(s *Suggestions, child models.Child) {
	s.AgeAppropriate = append(s.AgeAppropriate, baselineTip)
	switch child.EducationStage {
	case models.StageElementary:
		if child.Age <= e.thresholds.YoungChildMax {
			s.AgeAppropriate = append(s.AgeAppropriate, elementaryYoungTip)
		} else {
			s.AgeAppropriate = append(s.AgeAppropriate, elementaryOlderTip)
		}
	case models.StageMiddle:
		s.AgeAppropriate = append(s.AgeAppropriate, stageTips[models.StageMiddle]...)
	default:
		s.AgeAppropriate = append(s.AgeAppropriate, stageTips[models.StageHigh]...)
	}
}

func (e *Engine) learningStyle(s *Suggestions, child models.Child) {
	if tip, ok := learningStyleTips[child.Gender]; ok {
		s.LearningStyle = append(s.LearningStyle, tip)
	} else {
		s.LearningStyle = append(s.LearningStyle, learningStyleTips[models.GenderMale])
	}
}

// attentionTiers feeds both the schedule and attention categories from the
// overall mean raw attention of attention-qualifying sessions.
func (e *Engine) attentionTiers(s *Suggestions, summary stats.Summary) {
	if summary.AttentionSessions == 0 {
		return
	}
	tier := e.tierOf(summary.OverallAttentionRaw)
	s.AttentionImprovement = append(s.AttentionImprovement, attentionTips[tier]...)
	s.Schedule = append(s.Schedule, scheduleTips[tier]...)
}

func (e *Engine) scheduleTiming(s *Suggestions, child models.Child, summary stats.Summary) {
	if tip, ok := slotTips[summary.BestSlot]; ok {
		s.Schedule = append(s.Schedule, tip)
	}
	switch {
	case child.Age <= e.thresholds.LateNightAgeLow:
		s.Schedule = append(s.Schedule, lateNightTipYoung)
	case child.Age <= e.thresholds.LateNightAgeMid:
		s.Schedule = append(s.Schedule, lateNightTipMid)
	default:
		s.Schedule = append(s.Schedule, lateNightTipOlder)
	}
}

func (e *Engine) subjectSpecific(s *Suggestions, child models.Child, summary stats.Summary) {
	subjects := make([]string, 0, len(summary.PerSubject))
	for subject, st := range summary.PerSubject {
		if st.AttentionCount > 0 {
			subjects = append(subjects, subject)
		}
	}
	sort.Strings(subjects)

	for _, subject := range subjects {
		st := summary.PerSubject[subject]
		name := models.SubjectName(subject)
		if st.AvgAttentionRaw < e.thresholds.SubjectNeedsWorkMax {
			tip := lookupTip(subjectImprovementTips, subject, child.EducationStage, genericImprovementTip)
			s.SubjectSpecific = append(s.SubjectSpecific, fmt.Sprintf("%s needs work: %s.", name, tip))
		} else {
			tip := lookupTip(subjectExcellenceTips, subject, child.EducationStage, genericExcellenceTip)
			s.SubjectSpecific = append(s.SubjectSpecific, fmt.Sprintf("%s is going well: %s.", name, tip))
		}
	}
}

func (e *Engine) tierOf(rawAttention float64) attentionTier {
	switch {
	case rawAttention < e.thresholds.LowAttentionMax:
		return tierLow
	case rawAttention < e.thresholds.HighAttentionMin:
		return tierMedium
	default:
		return tierHigh
	}
}

func lookupTip(table map[string]map[string]string, subject, stage, fallback string) string {
	if byStage, ok := table[subject]; ok {
		if tip, ok := byStage[stage]; ok {
			return tip
		}
	}
	return fallback
}
