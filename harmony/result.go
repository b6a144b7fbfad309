package harmony

import (
	"github.com/RyanBlaney/harmonia/detect"
	"github.com/RyanBlaney/harmonia/theory"
)

// KeyScore is one entry of the global detected-key summary or of a
// per-position candidate list.
type KeyScore struct {
	Tonality string  `json:"tonality"`
	Score    float64 `json:"score"`
}

// ChordOption is one realized chord suggestion for a melody note.
type ChordOption struct {
	Name    string         `json:"name"`
	Notes   []string       `json:"notes"`
	Quality theory.Quality `json:"quality"`
	Reason  string         `json:"reason,omitempty"`

	// Score and Degree are kept for ordering and context threading; they
	// are not part of the wire contract.
	Score  float64       `json:"-"`
	Degree theory.Degree `json:"-"`
}

func newChordOption(chord theory.Chord, score float64, reason string) ChordOption {
	notes := make([]string, len(chord.Pitches))
	for i, pc := range chord.Pitches {
		notes[i] = pc.Name()
	}
	return ChordOption{
		Name:    chord.Name(),
		Notes:   notes,
		Quality: chord.Quality,
		Reason:  reason,
		Score:   score,
		Degree:  chord.Degree,
	}
}

// Suggestion carries the analysis of a single melody note: its local key,
// the near-miss keys considered there, and up to two chord options sorted
// by descending score.
type Suggestion struct {
	Note          string        `json:"note"`
	DetectedKey   string        `json:"detected_key"`
	KeyCandidates []KeyScore    `json:"key_candidates"`
	ChordOptions  []ChordOption `json:"chord_options"`
}

// AnalysisResult is the full outcome of analyzing one melody.
type AnalysisResult struct {
	DetectedKeys []KeyScore   `json:"detected_keys"`
	ChosenKey    string       `json:"chosen_key"`
	Suggestions  []Suggestion `json:"suggestions"`
	// Modulations lists the positions at which the per-note key sequence
	// changes key, informational for display.
	Modulations []int `json:"modulations,omitempty"`
}

func keyScores(candidates []detect.KeyCandidate) []KeyScore {
	scores := make([]KeyScore, len(candidates))
	for i, c := range candidates {
		scores[i] = KeyScore{Tonality: c.Key.Name(), Score: c.Score}
	}
	return scores
}
