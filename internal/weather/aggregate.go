package weather

import "strings"

// SummarizeForecast combines forecast days into a single overview.
// Numeric fields are averaged, the extremes are kept, and the condition is
// selected by majority (earliest day wins a tie).
func SummarizeForecast(days []ForecastDay) ForecastSummary {
	if len(days) == 0 {
		return ForecastSummary{}
	}

	var (
		sumHumidity float64
		sumWind     float64
		sumPrecip   float64
	)

	high := days[0].High
	low := days[0].Low
	conditionCounts := make(map[string]int)
	firstSeen := make(map[string]int)
	labels := make(map[string]string)

	for i, d := range days {
		sumHumidity += d.Humidity
		sumWind += d.WindSpeed
		sumPrecip += float64(d.Precipitation)

		if d.High > high {
			high = d.High
		}
		if d.Low < low {
			low = d.Low
		}

		key := strings.ToLower(d.Condition)
		conditionCounts[key]++
		if _, ok := firstSeen[key]; !ok {
			firstSeen[key] = i
			labels[key] = d.Condition
		}
	}

	n := float64(len(days))

	// Pick majority condition.
	bestCond := ""
	bestCount := 0
	for cond, count := range conditionCounts {
		if count > bestCount || (count == bestCount && firstSeen[cond] < firstSeen[bestCond]) {
			bestCount = count
			bestCond = cond
		}
	}

	return ForecastSummary{
		Days:             len(days),
		High:             high,
		Low:              low,
		AvgHumidity:      sumHumidity / n,
		AvgWindSpeed:     sumWind / n,
		AvgPrecipitation: sumPrecip / n,
		Condition:        labels[bestCond],
	}
}

// PrecipitationClass buckets a precipitation chance for display.
func PrecipitationClass(chance int) string {
	switch {
	case chance >= 70:
		return "heavy"
	case chance >= 40:
		return "moderate"
	case chance >= 20:
		return "light"
	default:
		return "none"
	}
}
