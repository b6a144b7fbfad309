package detect

import (
	"sort"

	"github.com/RyanBlaney/harmonia/theory"
)

// ScoringParams contains parameters for the sliding-window detector. The
// degree weights follow the usual tonal hierarchy: tonic and dominant
// anchor a key far more strongly than the remaining diatonic degrees,
// and a chromatic note costs a small penalty instead of zero so one
// passing tone cannot sink an otherwise strong window.
type ScoringParams struct {
	WindowSize       int     `json:"window_size"`
	TonicWeight      float64 `json:"tonic_weight"`
	DominantWeight   float64 `json:"dominant_weight"`
	LeadingWeight    float64 `json:"leading_weight"`
	DiatonicWeight   float64 `json:"diatonic_weight"`
	ChromaticPenalty float64 `json:"chromatic_penalty"`
	MaxCandidates    int     `json:"max_candidates"`
}

// DefaultScoringParams returns sensible defaults for melodic input.
func DefaultScoringParams() ScoringParams {
	return ScoringParams{
		WindowSize:       6,
		TonicWeight:      3.0,
		DominantWeight:   2.0,
		LeadingWeight:    2.0,
		DiatonicWeight:   1.0,
		ChromaticPenalty: -0.5,
		MaxCandidates:    3,
	}
}

// ScoringDetector assigns a local key to each note from a fixed-size
// trailing window, with no look-ahead. It is the cheap, real-time-friendly
// alternative to the HMM detector: O(melody × window × 24).
type ScoringDetector struct {
	params ScoringParams
}

// NewScoringDetector creates a sliding-window detector with default
// parameters.
func NewScoringDetector() *ScoringDetector {
	return NewScoringDetectorWithParams(DefaultScoringParams())
}

// NewScoringDetectorWithParams creates a sliding-window detector with
// custom parameters.
func NewScoringDetectorWithParams(params ScoringParams) *ScoringDetector {
	if params.WindowSize <= 0 {
		params.WindowSize = DefaultScoringParams().WindowSize
	}
	return &ScoringDetector{params: params}
}

// Detect returns one estimate per melody note. Positions before the window
// is full use the prefix available so far. Ties are broken by preferring
// the previous position's winner (stability bias), then the canonical key
// order (lower tonic, major before minor).
func (d *ScoringDetector) Detect(melody []theory.Note) []Estimate {
	estimates := make([]Estimate, len(melody))
	keys := theory.AllKeys()

	prevWinner := -1
	for i := range melody {
		start := i - d.params.WindowSize + 1
		if start < 0 {
			start = 0
		}
		window := melody[start : i+1]

		scores := make([]float64, len(keys))
		for k, key := range keys {
			scores[k] = d.scoreWindow(window, key)
		}

		winner := d.pickWinner(scores, prevWinner)
		estimates[i] = Estimate{
			Key:        keys[winner],
			Score:      scores[winner],
			Candidates: d.rankCandidates(keys, scores),
		}
		prevWinner = winner
	}

	return estimates
}

// scoreWindow accumulates the degree-weighted contribution of every note
// in the window for one key. Repeated notes contribute repeatedly, so
// repetition strengthens the evidence.
func (d *ScoringDetector) scoreWindow(window []theory.Note, key theory.Key) float64 {
	score := 0.0
	for _, note := range window {
		score += d.degreeWeight(key, note.Class)
	}
	return score
}

func (d *ScoringDetector) degreeWeight(key theory.Key, pc theory.PitchClass) float64 {
	degree, ok := key.ScaleDegree(pc)
	if !ok {
		return d.params.ChromaticPenalty
	}

	switch degree {
	case 1:
		return d.params.TonicWeight
	case 5:
		return d.params.DominantWeight
	case 7:
		return d.params.LeadingWeight
	default:
		return d.params.DiatonicWeight
	}
}

// pickWinner selects the maximal score. When several keys tie, the
// previous winner is preferred if it is among them; otherwise the first
// key in canonical order wins.
func (d *ScoringDetector) pickWinner(scores []float64, prevWinner int) int {
	best := 0
	for k := 1; k < len(scores); k++ {
		if scores[k] > scores[best] {
			best = k
		}
	}

	if prevWinner >= 0 && scores[prevWinner] == scores[best] {
		return prevWinner
	}
	return best
}

func (d *ScoringDetector) rankCandidates(keys []theory.Key, scores []float64) []KeyCandidate {
	candidates := make([]KeyCandidate, len(keys))
	for k, key := range keys {
		candidates[k] = KeyCandidate{Key: key, Score: scores[k]}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > d.params.MaxCandidates {
		candidates = candidates[:d.params.MaxCandidates]
	}
	return candidates
}
