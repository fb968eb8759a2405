package proxyclient

import "testing"

func TestProgressTracker_UnknownLengthStaysBelowCeiling(t *testing.T) {
	var seen []float64
	tr := newProgressTracker(-1, func(p float64) { seen = append(seen, p) })
	for i := 0; i < 200; i++ {
		tr.add(10)
	}
	last := seen[len(seen)-1]
	if last >= 100 || last > streamingCeiling {
		t.Fatalf("estimate must stay under 100, got %v", last)
	}
	if seen[89] != 90 {
		t.Fatalf("expected linear estimate up to 90, got %v", seen[89])
	}
	tr.finish()
	if seen[len(seen)-1] != 100 {
		t.Fatalf("finish must report 100")
	}
}

func TestProgressTracker_KnownLength(t *testing.T) {
	var seen []float64
	tr := newProgressTracker(200, func(p float64) { seen = append(seen, p) })
	tr.add(50)
	tr.add(150)
	if seen[0] != 25 {
		t.Fatalf("expected 25, got %v", seen[0])
	}
	if seen[1] != streamingCeiling {
		t.Fatalf("full body before EOF must be clamped, got %v", seen[1])
	}
}
