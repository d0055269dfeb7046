package emotion

import "testing"

func TestAggregateBounds(t *testing.T) {
	w := DefaultWeights()
	extremes := []struct {
		dist     Distribution
		polarity float64
	}{
		{Distribution{Anger: 1}, -1},
		{Distribution{Joy: 1}, 1},
		{Distribution{Neutral: 1}, 0},
	}
	for _, c := range extremes {
		score := Aggregate(c.dist, c.polarity, w)
		if score.StressLevel < 0 || score.StressLevel > 100 {
			t.Fatalf("stress level out of bounds: %d", score.StressLevel)
		}
	}
}

func TestStressMonotoneInStressMass(t *testing.T) {
	w := DefaultWeights()
	d1 := Distribution{Anger: 0.1, Fear: 0.1, Disgust: 0.1, Neutral: 0.7}
	d2 := Distribution{Anger: 0.3, Fear: 0.3, Disgust: 0.2, Neutral: 0.2}

	for _, polarity := range []float64{-0.8, -0.2, 0, 0.5} {
		s1 := Aggregate(d1, polarity, w)
		s2 := Aggregate(d2, polarity, w)
		if s2.StressLevel < s1.StressLevel {
			t.Fatalf("stress not monotone at polarity %f: %d < %d", polarity, s2.StressLevel, s1.StressLevel)
		}
	}
}

func TestStressAntitoneInPolarity(t *testing.T) {
	w := DefaultWeights()
	dist := Distribution{Fear: 0.5, Neutral: 0.5}

	prev := -1
	for _, polarity := range []float64{0.9, 0.4, 0, -0.4, -0.9} {
		score := Aggregate(dist, polarity, w)
		if score.StressLevel < prev {
			t.Fatalf("stress dropped as polarity fell: %d < %d at polarity %f", score.StressLevel, prev, polarity)
		}
		prev = score.StressLevel
	}
}

func TestDisplayStressAbsorbsFear(t *testing.T) {
	w := DefaultWeights()
	score := Aggregate(Distribution{Fear: 0.7, Neutral: 0.3}, -0.3, w)
	if score.Primary != Fear {
		t.Fatalf("expected fear primary, got %s", score.Primary)
	}
	if score.Display != DisplayStress {
		t.Fatalf("expected stress display, got %s", score.Display)
	}
	if score.StressLevel < w.DisplayThreshold {
		t.Fatalf("expected stress above threshold, got %d", score.StressLevel)
	}
}

func TestDisplayDirectMapping(t *testing.T) {
	w := DefaultWeights()
	cases := map[Emotion]DisplayCategory{
		Joy:      DisplayJoy,
		Surprise: DisplayJoy,
		Sadness:  DisplaySadness,
		Neutral:  DisplayNeutral,
	}
	for primary, want := range cases {
		score := Aggregate(Distribution{primary: 0.9, Neutral: 0.1}, 0, w)
		if score.Display != want {
			t.Fatalf("emotion %s: expected display %s, got %s", primary, want, score.Display)
		}
	}

	// Low-intensity anger stays anger instead of being absorbed into stress.
	angry := Aggregate(Distribution{Anger: 0.2, Neutral: 0.8}, 0.2, w)
	if angry.Display != DisplayAnger {
		t.Fatalf("expected anger display, got %s", angry.Display)
	}
}

func TestFallbackDistributionDeterministic(t *testing.T) {
	for _, polarity := range []float64{-0.9, -0.1, 0.9} {
		d1 := FallbackDistribution(polarity)
		d2 := FallbackDistribution(polarity)
		for _, e := range All() {
			if d1[e] != d2[e] {
				t.Fatalf("fallback distribution not deterministic for %s", e)
			}
		}
	}
}

func TestFallbackLeanings(t *testing.T) {
	if FallbackDistribution(-0.8).Primary() != Sadness {
		t.Fatal("expected sadness-leaning fallback for negative polarity")
	}
	if FallbackDistribution(0.8).Primary() != Joy {
		t.Fatal("expected joy-leaning fallback for positive polarity")
	}
	if FallbackDistribution(0).Primary() != Neutral {
		t.Fatal("expected neutral fallback near zero polarity")
	}
}
