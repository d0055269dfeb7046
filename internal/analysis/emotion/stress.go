package emotion

import "math"

// Weights parameterizes stress aggregation. All weights must be
// non-negative to preserve the monotonicity guarantees of Aggregate.
type Weights struct {
	Anger   float64
	Fear    float64
	Disgust float64
	// PolarityDamping is subtracted per unit of polarity: positive sentiment
	// lowers the stress estimate, negative sentiment raises it.
	PolarityDamping float64
	// DisplayThreshold is the stress level above which the display category
	// absorbs anger/fear/disgust into "stress".
	DisplayThreshold int
}

// DefaultWeights returns the production aggregation parameters.
func DefaultWeights() Weights {
	return Weights{
		Anger:            1.0,
		Fear:             1.0,
		Disgust:          0.8,
		PolarityDamping:  25,
		DisplayThreshold: 50,
	}
}

// Aggregate fuses a categorical distribution and a polarity score into a
// bounded Score. Pure function: no hidden state, reproducible for identical
// inputs. Holding polarity fixed, raising any stress-inducing probability
// never lowers StressLevel; holding the distribution fixed, lowering polarity
// never lowers it either.
func Aggregate(dist Distribution, polarity float64, w Weights) Score {
	mass := w.Anger*dist[Anger] + w.Fear*dist[Fear] + w.Disgust*dist[Disgust]
	raw := 100*mass - polarity*w.PolarityDamping

	level := int(math.Round(raw))
	if level < 0 {
		level = 0
	}
	if level > 100 {
		level = 100
	}

	primary := dist.Primary()
	return Score{
		Primary:     primary,
		Polarity:    polarity,
		StressLevel: level,
		Display:     displayCategory(primary, level, w.DisplayThreshold),
	}
}

// displayCategory maps the 7-way taxonomy onto the coarse user-facing
// buckets. Stress absorbs the stress-inducing emotions above the threshold;
// below it the arg-max maps directly.
func displayCategory(primary Emotion, level, threshold int) DisplayCategory {
	stressInducing := primary == Anger || primary == Fear || primary == Disgust
	if stressInducing && level >= threshold {
		return DisplayStress
	}

	switch primary {
	case Anger, Disgust:
		return DisplayAnger
	case Fear:
		return DisplayStress
	case Joy, Surprise:
		return DisplayJoy
	case Sadness:
		return DisplaySadness
	default:
		return DisplayNeutral
	}
}
