package scoring

import "testing"

func TestScoreExactMatch(t *testing.T) {
	res := Score("console.log('Hi');", "console.log('Hi');", 5000)
	if !res.IsComplete {
		t.Fatalf("expected complete result")
	}
	if res.Accuracy != 100 {
		t.Fatalf("expected accuracy 100, got %.2f", res.Accuracy)
	}
	if res.CorrectChars != res.TotalChars {
		t.Fatalf("expected correct == total, got %d != %d", res.CorrectChars, res.TotalChars)
	}
}

func TestScorePrefix(t *testing.T) {
	res := Score("console.log('Hello World');", "console.log('Hello", 5000)
	if res.IsComplete {
		t.Fatalf("expected incomplete result")
	}
	if res.CorrectChars != 18 {
		t.Fatalf("expected 18 correct chars, got %d", res.CorrectChars)
	}
	if res.Accuracy >= 100 {
		t.Fatalf("expected accuracy below 100, got %.2f", res.Accuracy)
	}
}

func TestScoreZeroDuration(t *testing.T) {
	res := Score("abc", "abc", 0)
	if res.WPM != 0 || res.CPM != 0 {
		t.Fatalf("expected zero speed for zero duration, got wpm=%.2f cpm=%.2f", res.WPM, res.CPM)
	}
}

func TestScoreEmptyTarget(t *testing.T) {
	res := Score("", "anything", 1000)
	if res.Accuracy != 0 {
		t.Fatalf("expected accuracy 0 for empty target, got %.2f", res.Accuracy)
	}
}

func TestScoreNormalizesLineEndings(t *testing.T) {
	res := Score("a\r\nb", "a\nb", 1000)
	if !res.IsComplete {
		t.Fatalf("expected CRLF target to match LF input")
	}
	if res.TotalChars != 3 {
		t.Fatalf("expected 3 chars after normalization, got %d", res.TotalChars)
	}
}

func TestScoreOverTyped(t *testing.T) {
	res := Score("ab", "abcd", 1000)
	if res.IsComplete {
		t.Fatalf("expected incomplete result when input is longer than target")
	}
	if res.CorrectChars != 2 {
		t.Fatalf("expected 2 correct chars, got %d", res.CorrectChars)
	}
	if res.TypedChars != 4 {
		t.Fatalf("expected 4 typed chars, got %d", res.TypedChars)
	}
	// The typed prefix covers the whole target, so accuracy is full even
	// though the input does not equal the target.
	if res.Accuracy != 100 {
		t.Fatalf("expected accuracy 100, got %.2f", res.Accuracy)
	}
}

func TestScoreEmptyTargetAndInput(t *testing.T) {
	res := Score("", "", 1000)
	if !res.IsComplete {
		t.Fatalf("expected empty input to complete an empty target")
	}
	if res.Accuracy != 0 {
		t.Fatalf("expected defined-zero accuracy for empty target, got %.2f", res.Accuracy)
	}
}

func TestScoreAccuracyBounds(t *testing.T) {
	cases := []struct {
		target string
		typed  string
	}{
		{"abc", ""},
		{"abc", "xyz"},
		{"abc", "abc"},
		{"func main() {}", "func main( {}"},
		{"ab", "abcd"},
		{"", ""},
	}
	for _, tc := range cases {
		res := Score(tc.target, tc.typed, 1234)
		if res.Accuracy < 0 || res.Accuracy > 100 {
			t.Fatalf("accuracy out of range for %q/%q: %.2f", tc.target, tc.typed, res.Accuracy)
		}
		// Completion implies full accuracy, not the other way round: an
		// over-typed input can be 100% accurate yet incomplete, and the
		// empty target is complete with a defined-zero accuracy.
		if res.IsComplete && len(tc.target) > 0 && res.Accuracy != 100 {
			t.Fatalf("complete result below 100%% accuracy for %q/%q: %.2f", tc.target, tc.typed, res.Accuracy)
		}
		min := res.TotalChars
		if res.TypedChars < min {
			min = res.TypedChars
		}
		if res.CorrectChars > min {
			t.Fatalf("correct chars exceed min(total, typed) for %q/%q", tc.target, tc.typed)
		}
	}
}

func TestScoreWPM(t *testing.T) {
	// 50 chars in 60s is 10 WPM and 50 CPM.
	target := "12345678901234567890123456789012345678901234567890"
	res := Score(target, target, 60000)
	if res.WPM != 10 {
		t.Fatalf("expected 10 WPM, got %.2f", res.WPM)
	}
	if res.CPM != 50 {
		t.Fatalf("expected 50 CPM, got %.2f", res.CPM)
	}
}

func TestCompositeScore(t *testing.T) {
	if got := CompositeScore(60, 90); got != 54 {
		t.Fatalf("expected composite score 54, got %.2f", got)
	}
	if got := CompositeScore(0, 100); got != 0 {
		t.Fatalf("expected composite score 0, got %.2f", got)
	}
}
