// internal/service/mining/temporal.go

package mining

import (
	"math"
	"sort"

	"trendminer/internal/domain/trend"
)

// Fixed peak annotations per growth pattern
var peakAnnotations = map[trend.GrowthPattern]string{
	trend.PatternEmerging:  "building toward peak",
	trend.PatternDeclining: "past peak",
	trend.PatternSustained: "steady plateau",
	trend.PatternCyclical:  "recurring peaks",
}

// ClassifyTrends derives a temporal pattern for every trend with at least two
// engagement buckets, ranked by total engagement
func ClassifyTrends(trends []trend.Trend, limit int) []trend.TemporalPattern {
	patterns := make([]trend.TemporalPattern, 0, len(trends))

	for _, t := range trends {
		rates := growthRates(periodSeries(t.Periods))
		if rates == nil {
			continue
		}

		classification := classifyRates(rates)
		velocity := math.Round(clamp(meanTail(rates, 3), -100, 100))

		rounded := make([]float64, len(rates))
		for i, rate := range rates {
			rounded[i] = round2(rate)
		}

		patterns = append(patterns, trend.TemporalPattern{
			Key:             t.Key,
			Pattern:         classification,
			GrowthRates:     rounded,
			Velocity:        velocity,
			Peak:            peakAnnotations[classification],
			TotalEngagement: t.Engagement,
		})
	}

	sort.Slice(patterns, func(i, j int) bool {
		if patterns[i].TotalEngagement == patterns[j].TotalEngagement {
			return patterns[i].Key < patterns[j].Key
		}
		return patterns[i].TotalEngagement > patterns[j].TotalEngagement
	})

	if limit > 0 && len(patterns) > limit {
		patterns = patterns[:limit]
	}

	return patterns
}

// periodSeries returns bucket engagement values in period order
func periodSeries(periods map[int64]int64) []int64 {
	keys := make([]int64, 0, len(periods))
	for period := range periods {
		keys = append(keys, period)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	values := make([]int64, len(keys))
	for i, period := range keys {
		values[i] = periods[period]
	}

	return values
}

// growthRates converts consecutive bucket values into percentage growth rates
// clamped to [-200, 200]. Trends with fewer than two buckets yield nil.
func growthRates(values []int64) []float64 {
	if len(values) < 2 {
		return nil
	}

	rates := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		prev := float64(values[i-1])
		cur := float64(values[i])

		var rate float64
		switch {
		case prev > 0:
			rate = (cur - prev) / prev * 100
		case cur > 0:
			rate = 100
		}

		rates = append(rates, clamp(rate, -200, 200))
	}

	return rates
}

// classifyRates assigns a growth pattern, first match wins
func classifyRates(rates []float64) trend.GrowthPattern {
	avg := mean(rates)
	recent := meanTail(rates, 3)

	switch {
	case recent > 30 && avg > 15:
		return trend.PatternEmerging
	case recent < -20 && avg < -10:
		return trend.PatternDeclining
	case math.Abs(avg) < 15:
		return trend.PatternSustained
	}

	// Remaining trends are cyclical when direction flips often enough, where
	// only flips landing on a rate of meaningful magnitude count
	changes := 0
	for i := 1; i < len(rates); i++ {
		flipped := (rates[i-1] > 0 && rates[i] < 0) || (rates[i-1] < 0 && rates[i] > 0)
		if flipped && math.Abs(rates[i]) > 10 {
			changes++
		}
	}

	if changes >= maxInt(2, len(rates)/3) {
		return trend.PatternCyclical
	}

	return trend.PatternSustained
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}

// meanTail averages the last n values, or all of them if fewer exist
func meanTail(values []float64, n int) float64 {
	if len(values) > n {
		values = values[len(values)-n:]
	}
	return mean(values)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
