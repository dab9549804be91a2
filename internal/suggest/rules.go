package suggest

import (
	"github.com/kidfocus/kidfocus-api/internal/models"
	"github.com/kidfocus/kidfocus-api/internal/stats"
)

// Thresholds groups every tunable constant used by the rule engine. The
// values are fixed product decisions; keeping them in one table makes the
// tiering auditable and keeps magic numbers out of the branch logic.
type Thresholds struct {
	// Raw-attention tier bounds on the 0-3 scale.
	LowAttentionMax  float64
	HighAttentionMin float64
	// Per-subject raw mean below which a subject "needs improvement".
	SubjectNeedsWorkMax float64
	// Age bands.
	YoungChildMax   int
	LateNightAgeMid int
	LateNightAgeLow int
}

// DefaultThresholds are the production rule constants.
var DefaultThresholds = Thresholds{
	LowAttentionMax:     1.5,
	HighAttentionMin:    2.5,
	SubjectNeedsWorkMax: 2,
	YoungChildMax:       8,
	LateNightAgeLow:     10,
	LateNightAgeMid:     15,
}

// baselineTip is always the first age-appropriate suggestion.
const baselineTip = "Try the Pomodoro technique: study for 25 minutes, then rest for 5. It helps sustain focus."

// stageTips maps education stage to its fixed advice strings. Elementary
// is split further by age inside the engine.
var stageTips = map[string][]string{
	models.StageMiddle: {
		"Middle schoolers benefit from more autonomy; agree on clear, written study goals.",
		"This is a good age to start building time-management and study-planning habits.",
	},
	models.StageHigh: {
		"High school study rewards self-discipline; help set up a long-term study plan.",
		"Tools like mind maps and Cornell notes can raise efficiency considerably.",
	},
}

const (
	elementaryYoungTip = "At this age, interactive activities and a small reward system keep motivation up."
	elementaryOlderTip = "Letting the child pick their own study topics builds interest and responsibility."
)

// learningStyleTips maps gender to its single learning-style string. This
// is a deliberately simplistic heuristic kept as data so it can be
// localised or removed without touching the engine.
var learningStyleTips = map[string]string{
	models.GenderFemale: "Studying together with friends can help; collaborative settings tend to work well.",
	models.GenderMale:   "Setting challenge goals can help; a little friendly competition tends to motivate.",
}

// attentionTier names the three raw-attention bands.
type attentionTier int

const (
	tierLow attentionTier = iota
	tierMedium
	tierHigh
)

// scheduleTips and attentionTips are parallel tables keyed by tier;
// schedule talks pacing, attention talks focus technique.
var scheduleTips = map[attentionTier][]string{
	tierLow:    {"Shorten each study block to 15-20 minutes and take breaks more often."},
	tierMedium: {"Keep the 25-minutes-on, 5-minutes-off rhythm going."},
	tierHigh:   {"Single sessions can stretch to 30-35 minutes, but keep the breaks."},
}

var attentionTips = map[attentionTier][]string{
	tierLow: {
		"Focus is on the low side; check the study space for distractions.",
		"White noise or soft instrumental music can help concentration.",
	},
	tierMedium: {"Focus is moderate; five minutes of stretching and deep breaths before studying helps."},
	tierHigh:   {"Focus is strong; it may be time for more challenging material."},
}

// slotTips keys the best-time-of-day advice by resolved slot.
var slotTips = map[stats.Slot]string{
	stats.SlotMorning:   "Mornings (6-9) show the best focus; schedule the important subjects then.",
	stats.SlotForenoon:  "Late morning (9-12) shows the best focus; schedule the important subjects then.",
	stats.SlotAfternoon: "Afternoons (14-17) show the best focus; schedule the important subjects then.",
	stats.SlotEvening:   "Evenings (19-22) show the best focus; schedule the important subjects then.",
}

const (
	lateNightTipYoung = "Avoid demanding study after 8 pm at this age."
	lateNightTipMid   = "Try to finish the main study tasks before 9 pm."
	lateNightTipOlder = "Evening study can run a bit longer, but protect sleep."
)

// subjectImprovementTips maps subject -> stage -> message for subjects
// below the needs-work threshold. Missing combinations fall back to
// genericImprovementTip.
var subjectImprovementTips = map[string]map[string]string{
	models.SubjectMath: {
		models.StageElementary: "use manipulatives and games to build understanding",
		models.StageMiddle:     "solidify the basics before drilling exercises",
		models.StageHigh:       "break big problems into small steps",
	},
	models.SubjectScience: {
		models.StageElementary: "small hands-on experiments build interest",
		models.StageMiddle:     "organise topics with concept maps",
		models.StageHigh:       "connect concepts to everyday applications",
	},
	models.SubjectLanguage: {
		models.StageElementary: "short daily reading and storytelling sessions",
		models.StageMiddle:     "build confidence from a reading list they enjoy",
		models.StageHigh:       "set small reading goals and write short reflections",
	},
	models.SubjectSocial: {
		models.StageElementary: "bring history and geography in through stories and games",
		models.StageMiddle:     "timelines and maps make the material concrete",
		models.StageHigh:       "start from a topic they care about and expand",
	},
	models.SubjectArt: {
		models.StageElementary: "keep creative sessions short to avoid fatigue",
		models.StageMiddle:     "experiment with different media",
		models.StageHigh:       "aim for one finished piece per week",
	},
	models.SubjectCS: {
		models.StageElementary: "start with visual tools like Scratch",
		models.StageMiddle:     "small hands-on projects keep motivation up",
		models.StageHigh:       "pick one language and practise it in depth",
	},
}

const genericImprovementTip = "add practice time and find where they get stuck"

// subjectExcellenceTips is the parallel table for subjects at or above the
// threshold.
var subjectExcellenceTips = map[string]map[string]string{
	models.SubjectMath: {
		models.StageElementary: "puzzle problems stretch their thinking",
		models.StageMiddle:     "competition-style problems are worth a try",
		models.StageHigh:       "early calculus or statistics could be next",
	},
	models.SubjectScience: {
		models.StageElementary: "try a small observation project",
		models.StageMiddle:     "a science fair or project group fits well",
		models.StageHigh:       "plan advanced coursework or lab work",
	},
	models.SubjectLanguage: {
		models.StageElementary: "speech or drama builds on this strength",
		models.StageMiddle:     "writing clubs or the school paper fit well",
		models.StageHigh:       "classic literature sharpens analysis",
	},
	models.SubjectSocial: {
		models.StageElementary: "following current events builds perspective",
		models.StageMiddle:     "debate or model UN fits well",
		models.StageHigh:       "a small social-science research project fits well",
	},
	models.SubjectArt: {
		models.StageElementary: "exhibitions and showcases build a portfolio",
		models.StageMiddle:     "studying favourite artists deepens style",
		models.StageHigh:       "start assembling a portfolio",
	},
	models.SubjectCS: {
		models.StageElementary: "small games or animations are a fun next step",
		models.StageMiddle:     "a second language or a contest is a good stretch",
		models.StageHigh:       "contributing to open source builds real skill",
	},
}

const genericExcellenceTip = "go deeper and broader, and help peers along the way"
