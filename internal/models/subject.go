package models

// Subject keys supported by the platform.
const (
	SubjectMath     = "math"
	SubjectScience  = "science"
	SubjectLanguage = "language"
	SubjectSocial   = "social"
	SubjectArt      = "art"
	SubjectCS       = "cs"
)

// SubjectNames maps subject keys to display names.
var SubjectNames = map[string]string{
	SubjectMath:     "Mathematics",
	SubjectScience:  "Science",
	SubjectLanguage: "Language Arts",
	SubjectSocial:   "Social Studies",
	SubjectArt:      "Art",
	SubjectCS:       "Computer Science",
}

// CalendarSubjectColors assigns each subject the color used on the calendar
// view. DefaultSubjectColor covers unknown keys.
var CalendarSubjectColors = map[string]string{
	SubjectMath:     "#3498DB",
	SubjectScience:  "#2ECC71",
	SubjectLanguage: "#E74C3C",
	SubjectSocial:   "#F39C12",
	SubjectArt:      "#9B59B6",
	SubjectCS:       "#1ABC9C",
}

// ChartSubjectColors assigns each subject the color used on analysis charts.
var ChartSubjectColors = map[string]string{
	SubjectMath:     "#42a5f5",
	SubjectScience:  "#66bb6a",
	SubjectLanguage: "#ef5350",
	SubjectSocial:   "#ffb74d",
	SubjectArt:      "#ab47bc",
	SubjectCS:       "#26c6da",
}

// DefaultSubjectColor is used when a subject has no assigned color.
const DefaultSubjectColor = "#95A5A6"

// ValidSubject reports whether key is a known subject.
func ValidSubject(key string) bool {
	_, ok := SubjectNames[key]
	return ok
}

// SubjectName resolves a subject key to its display name, falling back to
// the raw key for unknown subjects.
func SubjectName(key string) string {
	if name, ok := SubjectNames[key]; ok {
		return name
	}
	return key
}
