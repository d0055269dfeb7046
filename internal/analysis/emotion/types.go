package emotion

// Emotion is the closed 7-way taxonomy of the categorical classifier.
type Emotion string

const (
	Anger    Emotion = "anger"
	Disgust  Emotion = "disgust"
	Fear     Emotion = "fear"
	Joy      Emotion = "joy"
	Neutral  Emotion = "neutral"
	Sadness  Emotion = "sadness"
	Surprise Emotion = "surprise"
)

// All returns the taxonomy in canonical order. The order doubles as the
// deterministic tie-break for arg-max.
func All() []Emotion {
	return []Emotion{Anger, Disgust, Fear, Joy, Neutral, Sadness, Surprise}
}

// Parse maps a raw label onto the taxonomy.
func Parse(raw string) (Emotion, bool) {
	switch Emotion(raw) {
	case Anger, Disgust, Fear, Joy, Neutral, Sadness, Surprise:
		return Emotion(raw), true
	default:
		return "", false
	}
}

// Distribution is a probability distribution over the taxonomy. Missing
// entries are treated as zero.
type Distribution map[Emotion]float64

// Primary returns the arg-max emotion, breaking ties by canonical order so
// identical inputs always yield identical answers.
func (d Distribution) Primary() Emotion {
	best := Neutral
	bestProb := -1.0
	for _, e := range All() {
		if p := d[e]; p > bestProb {
			best = e
			bestProb = p
		}
	}
	return best
}

// DisplayCategory is the coarse user-facing emotion bucket.
type DisplayCategory string

const (
	DisplayStress  DisplayCategory = "stress"
	DisplayJoy     DisplayCategory = "joy"
	DisplaySadness DisplayCategory = "sadness"
	DisplayAnger   DisplayCategory = "anger"
	DisplayNeutral DisplayCategory = "neutral"
)

// Score is the fused emotion assessment for one message. Recomputed per
// message, never cached.
type Score struct {
	Primary     Emotion         `json:"primaryEmotion"`
	Polarity    float64         `json:"polarity"`
	StressLevel int             `json:"stressLevel"`
	Display     DisplayCategory `json:"displayCategory"`
	Degraded    bool            `json:"degraded,omitempty"`
}
