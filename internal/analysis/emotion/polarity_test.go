package emotion

import "testing"

func TestPolaritySigns(t *testing.T) {
	if p := Polarity("today was a great day, I feel happy and grateful"); p <= 0 {
		t.Fatalf("expected positive polarity, got %f", p)
	}
	if p := Polarity("I'm exhausted, stressed and miserable"); p >= 0 {
		t.Fatalf("expected negative polarity, got %f", p)
	}
	if p := Polarity("I went to the store and bought bread"); p != 0 {
		t.Fatalf("expected zero polarity for neutral text, got %f", p)
	}
}

func TestPolarityBounds(t *testing.T) {
	long := ""
	for i := 0; i < 50; i++ {
		long += "miserable awful terrible "
	}
	p := Polarity(long)
	if p < -1 || p > 1 {
		t.Fatalf("polarity out of bounds: %f", p)
	}
}

func TestPolarityNegationFlips(t *testing.T) {
	plain := Polarity("I am happy")
	negated := Polarity("I am not happy")
	if plain <= 0 {
		t.Fatalf("expected positive baseline, got %f", plain)
	}
	if negated >= 0 {
		t.Fatalf("expected negation to flip sign, got %f", negated)
	}
}

func TestPolarityIntensifierAmplifies(t *testing.T) {
	plain := Polarity("I feel anxious")
	boosted := Polarity("I feel really anxious")
	if boosted >= plain {
		t.Fatalf("expected intensifier to push polarity lower: plain=%f boosted=%f", plain, boosted)
	}
}

func TestPolarityDeterministic(t *testing.T) {
	text := "I'm worried about tomorrow but grateful for today"
	if Polarity(text) != Polarity(text) {
		t.Fatal("polarity must be deterministic")
	}
}
