// Package detect infers the local key of each note in a monophonic melody.
// Two interchangeable strategies are provided: a cheap sliding-window
// scorer and a Viterbi-decoded hidden Markov model.
package detect

import (
	"fmt"

	"github.com/RyanBlaney/harmonia/theory"
)

// Algorithm selects one of the key-detection strategies.
type Algorithm string

const (
	// AlgorithmHMM decodes a globally optimal key sequence with Viterbi.
	AlgorithmHMM Algorithm = "hmm"
	// AlgorithmScoring assigns local keys from a trailing window.
	AlgorithmScoring Algorithm = "scoring"
)

// UnknownAlgorithmError reports a selector outside the supported set.
type UnknownAlgorithmError struct {
	Name string
}

func (e *UnknownAlgorithmError) Error() string {
	return fmt.Sprintf("unknown key detection algorithm: %q (supported: %q, %q)",
		e.Name, AlgorithmHMM, AlgorithmScoring)
}

// KeyCandidate is a key paired with a numeric confidence score.
type KeyCandidate struct {
	Key   theory.Key `json:"key"`
	Score float64    `json:"score"`
}

// Estimate is the detection result for one melody position: the winning
// key plus the ranked alternatives considered at that position. The
// alternatives are informational and never feed back into detection.
type Estimate struct {
	Key        theory.Key     `json:"key"`
	Score      float64        `json:"score"`
	Candidates []KeyCandidate `json:"candidates"`
}

// Detector assigns one key estimate per melody note. Implementations are
// pure functions of the melody: the input is never mutated and no state
// survives between calls, so a single detector is safe for concurrent use.
type Detector interface {
	Detect(melody []theory.Note) []Estimate
}

// New returns the detector for the given algorithm selector with default
// parameters.
func New(algorithm Algorithm) (Detector, error) {
	switch algorithm {
	case AlgorithmHMM:
		return NewHMMDetector(), nil
	case AlgorithmScoring:
		return NewScoringDetector(), nil
	default:
		return nil, &UnknownAlgorithmError{Name: string(algorithm)}
	}
}
