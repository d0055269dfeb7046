package emotion

// Polarity thresholds for the degraded-mode heuristic, matching the coarse
// cutoffs the product has always used for polarity-only scoring.
const (
	negativeLean = -0.4
	positiveLean = 0.4
)

// FallbackDistribution derives a fixed categorical distribution from polarity
// alone. It is the distinct operating mode used when the categorical model is
// unavailable: deterministic, documented, and flagged as degraded by callers.
func FallbackDistribution(polarity float64) Distribution {
	switch {
	case polarity < negativeLean:
		return Distribution{
			Sadness: 0.60, Neutral: 0.15, Fear: 0.10,
			Anger: 0.05, Disgust: 0.05, Joy: 0.025, Surprise: 0.025,
		}
	case polarity > positiveLean:
		return Distribution{
			Joy: 0.65, Neutral: 0.20, Surprise: 0.05,
			Sadness: 0.025, Anger: 0.025, Fear: 0.025, Disgust: 0.025,
		}
	default:
		return Distribution{
			Neutral: 0.55, Sadness: 0.15, Joy: 0.15,
			Fear: 0.05, Anger: 0.05, Surprise: 0.025, Disgust: 0.025,
		}
	}
}
