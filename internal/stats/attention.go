package stats

import (
	"math"

	"github.com/kidfocus/kidfocus-api/internal/models"
)

// rawAttentionMax is the top of the detector's raw attention scale.
const rawAttentionMax = 3

// NormalizeAttentionPercent maps a raw attention average on the 0-3 scale
// to a 0-100 percentage. Rounding is half away from zero; every percentage
// shown anywhere in the system goes through this function.
func NormalizeAttentionPercent(raw float64) int {
	return int(math.Round(raw * 100 / rawAttentionMax))
}

// OverallAverageAttentionPercent computes the session-average attention of
// the given eligible sessions as a percentage. Sessions without attention
// data (nil or zero) are excluded; with no qualifying session the result
// is 0.
func OverallAverageAttentionPercent(sessions []models.StudySession) int {
	raw, ok := overallAverageAttentionRaw(sessions)
	if !ok {
		return 0
	}
	return NormalizeAttentionPercent(raw)
}

func overallAverageAttentionRaw(sessions []models.StudySession) (float64, bool) {
	var sum float64
	var count int
	for _, s := range sessions {
		if v, ok := attentionValue(s); ok {
			sum += v
			count++
		}
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}
