// Package harmony analyzes a monophonic melody: it infers the underlying
// key (globally or per note) and proposes ranked harmonizing chords for
// every note. Engine is the single entry point external collaborators use.
package harmony

import (
	"errors"
	"sort"

	"github.com/RyanBlaney/harmonia/detect"
	"github.com/RyanBlaney/harmonia/logging"
	"github.com/RyanBlaney/harmonia/theory"
)

// ErrEmptyMelody is returned when a zero-length melody is analyzed.
var ErrEmptyMelody = errors.New("empty melody")

// Engine orchestrates key detection and chord scoring. Both detectors and
// all lookup tables are built once in the constructor and read-only
// afterwards, so Analyze may be called from any number of goroutines.
type Engine struct {
	hmm     detect.Detector
	scoring detect.Detector
	scorer  *ChordScorer
	logger  logging.Logger
}

// EngineParams bundles the tunable parameters of every stage.
type EngineParams struct {
	HMM     detect.HMMParams     `json:"hmm"`
	Scoring detect.ScoringParams `json:"scoring"`
	Scorer  ScorerParams         `json:"scorer"`
}

// DefaultEngineParams returns the defaults of every stage.
func DefaultEngineParams() EngineParams {
	return EngineParams{
		HMM:     detect.DefaultHMMParams(),
		Scoring: detect.DefaultScoringParams(),
		Scorer:  DefaultScorerParams(),
	}
}

// NewEngine creates an engine with default parameters.
func NewEngine() *Engine {
	return NewEngineWithParams(DefaultEngineParams())
}

// NewEngineWithParams creates an engine with custom parameters.
func NewEngineWithParams(params EngineParams) *Engine {
	return &Engine{
		hmm:     detect.NewHMMDetectorWithParams(params.HMM),
		scoring: detect.NewScoringDetectorWithParams(params.Scoring),
		scorer:  NewChordScorerWithParams(params.Scorer),
		logger:  logging.WithFields(logging.Fields{"component": "harmony"}),
	}
}

// Analyze runs the selected key detector over the melody and scores chord
// options for every note. The melody is a list of note names ("C4",
// "F#5", "Bb4"); algorithm is "hmm" or "scoring", defaulting to "hmm"
// when empty. Any caller-input problem aborts the whole call: no partial
// results are returned.
func (e *Engine) Analyze(notes []string, algorithm detect.Algorithm) (*AnalysisResult, error) {
	if len(notes) == 0 {
		return nil, ErrEmptyMelody
	}

	melody, err := theory.ParseMelody(notes)
	if err != nil {
		return nil, err
	}

	detector, err := e.detectorFor(algorithm)
	if err != nil {
		return nil, err
	}

	estimates := detector.Detect(melody)

	chosen, summary := summarizeKeys(estimates)
	suggestions := e.suggestChords(notes, melody, estimates)

	result := &AnalysisResult{
		DetectedKeys: summary,
		ChosenKey:    chosen.Name(),
		Suggestions:  suggestions,
		Modulations:  modulationPoints(estimates),
	}

	e.logger.Debug("melody analyzed", logging.Fields{
		"notes":       len(notes),
		"algorithm":   string(algorithm),
		"chosen_key":  result.ChosenKey,
		"modulations": len(result.Modulations),
	})

	return result, nil
}

func (e *Engine) detectorFor(algorithm detect.Algorithm) (detect.Detector, error) {
	switch algorithm {
	case detect.AlgorithmHMM, "":
		return e.hmm, nil
	case detect.AlgorithmScoring:
		return e.scoring, nil
	default:
		return nil, &detect.UnknownAlgorithmError{Name: string(algorithm)}
	}
}

// suggestChords walks the melody in order, ranking the local key's triads
// for each note with the previous note's top chord as context. Only
// history conditions the score, never the future, so the loop streams.
func (e *Engine) suggestChords(notes []string, melody []theory.Note, estimates []detect.Estimate) []Suggestion {
	suggestions := make([]Suggestion, len(melody))

	var prevChord *theory.Chord
	for i, note := range melody {
		est := estimates[i]
		options := e.scorer.Rank(note.Class, est.Key, prevChord)

		suggestions[i] = Suggestion{
			Note:          notes[i],
			DetectedKey:   est.Key.Name(),
			KeyCandidates: keyScores(est.Candidates),
			ChordOptions:  options,
		}

		if len(options) > 0 {
			chord := theory.DiatonicTriads(est.Key)[options[0].Degree-1]
			prevChord = &chord
		}
	}

	return suggestions
}

// summarizeKeys reduces the per-note key sequence to one representative
// key plus a ranked global summary. The chosen key is the most frequent;
// ties fall to the higher accumulated score, then to first occurrence.
func summarizeKeys(estimates []detect.Estimate) (theory.Key, []KeyScore) {
	counts := make(map[theory.Key]int)
	scores := make(map[theory.Key]float64)
	firstSeen := make(map[theory.Key]int)

	for i, est := range estimates {
		if _, seen := counts[est.Key]; !seen {
			firstSeen[est.Key] = i
		}
		counts[est.Key]++
		scores[est.Key] += est.Score
	}

	keys := make([]theory.Key, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.SliceStable(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if counts[a] != counts[b] {
			return counts[a] > counts[b]
		}
		if scores[a] != scores[b] {
			return scores[a] > scores[b]
		}
		return firstSeen[a] < firstSeen[b]
	})

	// the global summary mirrors the chosen-key ranking, capped at 3
	limit := 3
	if limit > len(keys) {
		limit = len(keys)
	}
	summary := make([]KeyScore, limit)
	for i := 0; i < limit; i++ {
		summary[i] = KeyScore{Tonality: keys[i].Name(), Score: scores[keys[i]]}
	}

	return keys[0], summary
}

// modulationPoints lists the positions where the detected key changes.
func modulationPoints(estimates []detect.Estimate) []int {
	var points []int
	for i := 1; i < len(estimates); i++ {
		if estimates[i].Key != estimates[i-1].Key {
			points = append(points, i)
		}
	}
	return points
}
