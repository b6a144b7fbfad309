package harmony

import (
	"fmt"
	"sort"

	"github.com/RyanBlaney/harmonia/theory"
)

// ScorerParams contains the additive weights used to rank candidate
// chords under a melody note. The numbers are tunable heuristics; the
// defaults encode the usual prioritization (chord tones first, tonic and
// dominant function next, then conventionally strong progressions).
type ScorerParams struct {
	// Membership weights by the role the melody note plays in the triad.
	RootWeight  float64 `json:"root_weight"`
	ThirdWeight float64 `json:"third_weight"`
	FifthWeight float64 `json:"fifth_weight"`
	// NonChordTone keeps chords that do not contain the melody note in
	// the running as non-harmonic-tone candidates.
	NonChordTone float64 `json:"non_chord_tone"`

	// Function bonuses by scale degree of the candidate chord.
	TonicDominantBonus float64 `json:"tonic_dominant_bonus"`
	SubdominantBonus   float64 `json:"subdominant_bonus"`
	OtherDegreeBonus   float64 `json:"other_degree_bonus"`

	// ProgressionBonus rewards a candidate that forms a conventionally
	// strong step from the previously chosen chord.
	ProgressionBonus float64 `json:"progression_bonus"`

	// MaxOptions bounds the returned options; the contract is 2.
	MaxOptions int `json:"max_options"`
}

// DefaultScorerParams returns the default scoring weights.
func DefaultScorerParams() ScorerParams {
	return ScorerParams{
		RootWeight:         3.0,
		ThirdWeight:        2.0,
		FifthWeight:        1.5,
		NonChordTone:       0.25,
		TonicDominantBonus: 1.5,
		SubdominantBonus:   1.0,
		OtherDegreeBonus:   0.5,
		ProgressionBonus:   1.0,
		MaxOptions:         2,
	}
}

// strongProgressions maps a previous chord degree to the degrees it
// conventionally resolves or moves to: V->I, IV->I, ii->V, vi->ii, vii->I
// and the tonic opening toward IV and V. A small fixed table, not a law.
var strongProgressions = map[theory.Degree][]theory.Degree{
	1: {4, 5},
	2: {5},
	4: {1},
	5: {1},
	6: {2},
	7: {1},
}

// ChordScorer ranks the seven diatonic triads of a key under one melody
// note, given the previously chosen chord as context. It holds only its
// parameters, so one scorer serves concurrent analyses.
type ChordScorer struct {
	params ScorerParams
}

// NewChordScorer creates a scorer with default weights.
func NewChordScorer() *ChordScorer {
	return NewChordScorerWithParams(DefaultScorerParams())
}

// NewChordScorerWithParams creates a scorer with custom weights.
func NewChordScorerWithParams(params ScorerParams) *ChordScorer {
	if params.MaxOptions <= 0 {
		params.MaxOptions = DefaultScorerParams().MaxOptions
	}
	return &ChordScorer{params: params}
}

// scoredChord pairs a candidate triad with its accumulated score and the
// factor that dominated it.
type scoredChord struct {
	chord  theory.Chord
	score  float64
	reason string
}

// Rank scores every diatonic triad of the key under the melody pitch
// class and returns the top options, descending. prev is the previously
// chosen chord, or nil at the start of the melody; there is no look-ahead.
func (s *ChordScorer) Rank(pc theory.PitchClass, key theory.Key, prev *theory.Chord) []ChordOption {
	scored := make([]scoredChord, 0, 7)
	for _, chord := range theory.DiatonicTriads(key) {
		scored = append(scored, s.scoreChord(pc, key, chord, prev))
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		// tie: lower degree first, then major > minor > diminished
		if scored[i].chord.Degree != scored[j].chord.Degree {
			return scored[i].chord.Degree < scored[j].chord.Degree
		}
		return qualityRank(scored[i].chord.Quality) < qualityRank(scored[j].chord.Quality)
	})

	n := s.params.MaxOptions
	if n > len(scored) {
		n = len(scored)
	}

	options := make([]ChordOption, n)
	for i := 0; i < n; i++ {
		options[i] = newChordOption(scored[i].chord, scored[i].score, scored[i].reason)
	}
	return options
}

func (s *ChordScorer) scoreChord(pc theory.PitchClass, key theory.Key, chord theory.Chord, prev *theory.Chord) scoredChord {
	function := theory.HarmonicFunction(chord.Degree, key.Mode)

	membership, role := s.membershipWeight(pc, chord)
	functional := s.functionBonus(chord.Degree)

	progression := 0.0
	if prev != nil && isStrongProgression(prev.Degree, chord.Degree) {
		progression = s.params.ProgressionBonus
	}

	return scoredChord{
		chord:  chord,
		score:  membership + functional + progression,
		reason: s.dominantFactor(membership, functional, progression, role, function),
	}
}

func (s *ChordScorer) membershipWeight(pc theory.PitchClass, chord theory.Chord) (float64, string) {
	switch pc {
	case chord.Pitches[0]:
		return s.params.RootWeight, "root"
	case chord.Pitches[1]:
		return s.params.ThirdWeight, "third"
	case chord.Pitches[2]:
		return s.params.FifthWeight, "fifth"
	default:
		return s.params.NonChordTone, ""
	}
}

func (s *ChordScorer) functionBonus(degree theory.Degree) float64 {
	switch degree {
	case 1, 5:
		return s.params.TonicDominantBonus
	case 4:
		return s.params.SubdominantBonus
	default:
		return s.params.OtherDegreeBonus
	}
}

// dominantFactor names the factor that contributed the most, for the
// advisory reason string.
func (s *ChordScorer) dominantFactor(membership, functional, progression float64, role string, function theory.Function) string {
	if role != "" && membership >= functional && membership >= progression {
		return fmt.Sprintf("%s of %s chord", role, function)
	}
	if progression > 0 && progression >= functional {
		return "strong progression from previous chord"
	}
	if role == "" {
		return fmt.Sprintf("passing tone over %s chord", function)
	}
	return fmt.Sprintf("%s function", function)
}

func isStrongProgression(from, to theory.Degree) bool {
	for _, next := range strongProgressions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func qualityRank(q theory.Quality) int {
	switch q {
	case theory.QualityMajor:
		return 0
	case theory.QualityMinor:
		return 1
	default:
		return 2
	}
}
