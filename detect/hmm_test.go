package detect

import (
	"math"
	"testing"

	"github.com/RyanBlaney/harmonia/theory"
)

const probTolerance = 1e-6

func TestHMMTransitionMatrixRowsSumToOne(t *testing.T) {
	d := NewHMMDetector()
	m := d.TransitionMatrix()

	rows, cols := m.Dims()
	if rows != 24 || cols != 24 {
		t.Fatalf("transition matrix is %dx%d, want 24x24", rows, cols)
	}

	for r := 0; r < rows; r++ {
		sum := 0.0
		for c := 0; c < cols; c++ {
			if m.At(r, c) <= 0 {
				t.Errorf("transition[%d][%d] = %v, want > 0", r, c, m.At(r, c))
			}
			sum += m.At(r, c)
		}
		if math.Abs(sum-1.0) > probTolerance {
			t.Errorf("transition row %d sums to %v", r, sum)
		}
	}
}

func TestHMMEmissionMatrixRowsSumToOne(t *testing.T) {
	d := NewHMMDetector()
	m := d.EmissionMatrix()

	rows, cols := m.Dims()
	if rows != 24 || cols != 12 {
		t.Fatalf("emission matrix is %dx%d, want 24x12", rows, cols)
	}

	for r := 0; r < rows; r++ {
		sum := 0.0
		for c := 0; c < cols; c++ {
			if m.At(r, c) <= 0 {
				t.Errorf("emission[%d][%d] = %v, want > 0 (chromatic floor)", r, c, m.At(r, c))
			}
			sum += m.At(r, c)
		}
		if math.Abs(sum-1.0) > probTolerance {
			t.Errorf("emission row %d sums to %v", r, sum)
		}
	}
}

func TestHMMTransitionPrefersSelfAndNearKeys(t *testing.T) {
	d := NewHMMDetector()
	m := d.TransitionMatrix()

	cMajor := theory.Key{Tonic: 0, Mode: theory.ModeMajor}.Index()
	gMajor := theory.Key{Tonic: 7, Mode: theory.ModeMajor}.Index()
	dMajor := theory.Key{Tonic: 2, Mode: theory.ModeMajor}.Index()
	fsMajor := theory.Key{Tonic: 6, Mode: theory.ModeMajor}.Index()

	if m.At(cMajor, cMajor) <= m.At(cMajor, gMajor) {
		t.Error("self-transition should dominate a one-fifth move")
	}
	if m.At(cMajor, gMajor) <= m.At(cMajor, dMajor) {
		t.Error("one fifth away should outrank two fifths away")
	}
	if m.At(cMajor, dMajor) <= m.At(cMajor, fsMajor) {
		t.Error("two fifths away should outrank the antipode")
	}

	// Mode changes against the same tonic must outrank unrelated keys at
	// the same fifths distance as the relative key.
	cMinor := theory.Key{Tonic: 0, Mode: theory.ModeMinor}.Index()
	aMinor := theory.Key{Tonic: 9, Mode: theory.ModeMinor}.Index()
	ebMinor := theory.Key{Tonic: 3, Mode: theory.ModeMinor}.Index()
	if m.At(cMajor, cMinor) <= m.At(cMajor, ebMinor) {
		t.Error("parallel minor should outrank an unrelated minor key")
	}
	if m.At(cMajor, aMinor) <= m.At(cMajor, ebMinor) {
		t.Error("relative minor should outrank an equally distant minor key")
	}
}

func TestHMMDecodesTonicArpeggio(t *testing.T) {
	d := NewHMMDetector()
	melody := mustMelody(t, "C4", "E4", "G4", "C5")

	estimates := d.Detect(melody)
	if len(estimates) != len(melody) {
		t.Fatalf("got %d estimates for %d notes", len(estimates), len(melody))
	}
	for i, est := range estimates {
		if est.Key.Name() != "C major" {
			t.Errorf("position %d: key = %s, want C major", i, est.Key.Name())
		}
	}
}

func TestHMMDecodesSharpKeyArpeggio(t *testing.T) {
	d := NewHMMDetector()
	melody := mustMelody(t, "F#4", "G#4", "A#4", "F#5")

	for i, est := range d.Detect(melody) {
		if est.Key.Name() != "F# major" {
			t.Errorf("position %d: key = %s, want F# major", i, est.Key.Name())
		}
	}
}

func TestHMMSingleNoteReducesToInitialTimesEmission(t *testing.T) {
	d := NewHMMDetector()
	melody := mustMelody(t, "C4")

	estimates := d.Detect(melody)
	if len(estimates) != 1 {
		t.Fatalf("got %d estimates, want 1", len(estimates))
	}

	// explicit argmax of pi[s] * E[s][C]
	pi := d.InitialDistribution()
	em := d.EmissionMatrix()
	best := 0
	bestScore := pi[0] * em.At(0, 0)
	for s := 1; s < 24; s++ {
		if score := pi[s] * em.At(s, 0); score > bestScore {
			bestScore = score
			best = s
		}
	}

	if estimates[0].Key != theory.AllKeys()[best] {
		t.Errorf("key = %s, want argmax pi*E = %s",
			estimates[0].Key.Name(), theory.AllKeys()[best].Name())
	}
}

func TestHMMTracksModulation(t *testing.T) {
	d := NewHMMDetector()

	// C major arpeggio, then a G major arpeggio whose F# is the
	// characteristic note of the new key.
	melody := mustMelody(t, "C4", "E4", "G4", "C5", "D4", "F#4", "A4", "D5")
	estimates := d.Detect(melody)

	if estimates[0].Key.Name() != "C major" {
		t.Errorf("opening key = %s, want C major", estimates[0].Key.Name())
	}
	last := estimates[len(estimates)-1]
	if last.Key.Mode != theory.ModeMajor || (last.Key.Tonic != 7 && last.Key.Tonic != 2) {
		t.Errorf("closing key = %s, want G major or D major after modulation", last.Key.Name())
	}

	changed := false
	for i := 1; i < len(estimates); i++ {
		if estimates[i].Key != estimates[i-1].Key {
			changed = true
			break
		}
	}
	if !changed {
		t.Error("expected at least one key change across the modulation")
	}
}

func TestHMMCandidatesAreInformationalAndRanked(t *testing.T) {
	d := NewHMMDetector()
	estimates := d.Detect(mustMelody(t, "C4", "E4", "G4"))

	for i, est := range estimates {
		if len(est.Candidates) == 0 || len(est.Candidates) > DefaultHMMParams().MaxCandidates {
			t.Fatalf("position %d: %d candidates", i, len(est.Candidates))
		}
		for c := 1; c < len(est.Candidates); c++ {
			if est.Candidates[c].Score > est.Candidates[c-1].Score {
				t.Errorf("position %d: candidates not sorted descending", i)
			}
		}
	}
}

func TestHMMDetectIsDeterministic(t *testing.T) {
	d := NewHMMDetector()
	melody := mustMelody(t, "C4", "D4", "E4", "F4", "G4", "A4", "B4", "C5")

	first := d.Detect(melody)
	second := d.Detect(melody)

	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Key != second[i].Key || first[i].Score != second[i].Score {
			t.Errorf("position %d differs between runs", i)
		}
	}
}

func TestNewSelectsDetector(t *testing.T) {
	if _, err := New(AlgorithmHMM); err != nil {
		t.Errorf("New(hmm): %v", err)
	}
	if _, err := New(AlgorithmScoring); err != nil {
		t.Errorf("New(scoring): %v", err)
	}

	_, err := New("bogus")
	if err == nil {
		t.Fatal("New(bogus): expected error")
	}
	if _, ok := err.(*UnknownAlgorithmError); !ok {
		t.Errorf("New(bogus): error %T is not UnknownAlgorithmError", err)
	}
}
