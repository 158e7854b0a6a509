package session

import "math"

// Conversation scoring constants. The exponent and the 70/30 split are
// undocumented product choices carried over from the observed system; they
// are kept as named constants rather than re-derived.
const (
	recencyBase   = 1.2
	recentWindow  = 3
	recentWeight  = 0.7
	earlierWeight = 0.3
)

// Score computes the conversation-level rating from the rated subset of
// messages, in conversation order:
//
//   - no rated messages: 0
//   - one rated message: that rating
//   - two or three: exponentially recency-weighted average (weight 1.2^i)
//   - four or more: 70% weight on the average of the last three rated
//     messages, 30% on the average of everything before them
//
// The result is rounded half away from zero and, when any rated messages
// exist, always lands in [1,5].
func Score(messages []Message) int {
	rated := ratedValues(messages)
	switch len(rated) {
	case 0:
		return 0
	case 1:
		return rated[0]
	}
	if len(rated) <= recentWindow {
		var total, weight float64
		for i, r := range rated {
			w := math.Pow(recencyBase, float64(i))
			total += float64(r) * w
			weight += w
		}
		return int(math.Round(total / weight))
	}
	recent := rated[len(rated)-recentWindow:]
	earlier := rated[:len(rated)-recentWindow]
	recentAvg := average(recent)
	earlierAvg := recentAvg
	if len(earlier) > 0 {
		earlierAvg = average(earlier)
	}
	return int(math.Round(recentWeight*recentAvg + earlierWeight*earlierAvg))
}

func ratedValues(messages []Message) []int {
	var rated []int
	for _, m := range messages {
		if m.MessageRating != nil && *m.MessageRating >= 1 {
			rated = append(rated, *m.MessageRating)
		}
	}
	return rated
}

func average(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}
