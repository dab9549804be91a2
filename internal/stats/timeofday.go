package stats

import "github.com/kidfocus/kidfocus-api/internal/models"

// Slot names a time-of-day band. SlotNone means the best study hour falls
// outside every named band.
type Slot string

// Named time-of-day bands by start hour. The gaps between bands (12-14,
// 17-19, 22-6) are deliberate: hours there stay unclassified.
const (
	SlotNone      Slot = ""
	SlotMorning   Slot = "morning"   // 6-9
	SlotForenoon  Slot = "forenoon"  // 9-12
	SlotAfternoon Slot = "afternoon" // 14-17
	SlotEvening   Slot = "evening"   // 19-22
)

// classifyHour maps an hour of day to its named band.
func classifyHour(hour int) Slot {
	switch {
	case hour >= 6 && hour < 9:
		return SlotMorning
	case hour >= 9 && hour < 12:
		return SlotForenoon
	case hour >= 14 && hour < 17:
		return SlotAfternoon
	case hour >= 19 && hour < 22:
		return SlotEvening
	default:
		return SlotNone
	}
}

// bestTimeOfDaySlot finds the start hour with the highest mean attention
// among hours that saw at least one attention-qualifying session, and
// reports which band it falls in. SlotNone when no hour qualifies or the
// winning hour is unclassified.
func bestTimeOfDaySlot(eligible []models.StudySession) Slot {
	type hourAgg struct {
		sum   float64
		count int
	}
	hours := make(map[int]hourAgg)
	for _, s := range eligible {
		v, ok := attentionValue(s)
		if !ok {
			continue
		}
		agg := hours[s.StartTime.Hour()]
		agg.sum += v
		agg.count++
		hours[s.StartTime.Hour()] = agg
	}
	if len(hours) == 0 {
		return SlotNone
	}
	bestHour := -1
	bestMean := -1.0
	for hour, agg := range hours {
		mean := agg.sum / float64(agg.count)
		if mean > bestMean {
			bestMean = mean
			bestHour = hour
		}
	}
	return classifyHour(bestHour)
}
