package detect

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/RyanBlaney/harmonia/theory"
)

const (
	numStates       = 24 // one hidden state per key
	numObservations = 12 // one observation per pitch class
)

// emissionDegreeWeights is the unnormalized importance of each scale
// degree when a key emits one of its diatonic pitch classes, indexed by
// degree-1: tonic > dominant > mediant/subdominant > supertonic/submediant
// > leading tone.
var emissionDegreeWeights = [7]float64{5.0, 2.5, 3.5, 3.5, 4.0, 2.5, 2.0}

// HMMParams contains parameters for the hidden Markov model detector.
// The values are tunable heuristics, not music-theoretic law; the defaults
// are validated against tonic-triad arpeggios and modulation melodies.
type HMMParams struct {
	// SelfBias is the unnormalized transition weight for remaining in the
	// same key between consecutive notes.
	SelfBias float64 `json:"self_bias"`
	// FifthsDecay in (0, 1) shrinks the transition weight by one factor
	// per circle-of-fifths step between the two tonics.
	FifthsDecay float64 `json:"fifths_decay"`
	// ModeChangeBoost multiplies transitions to the relative or parallel
	// key, so mode changes outrank equally distant unrelated keys.
	ModeChangeBoost float64 `json:"mode_change_boost"`
	// EmissionFloor is the unnormalized weight of a chromatic observation,
	// kept above zero so no observation is impossible.
	EmissionFloor float64 `json:"emission_floor"`
	// MaxCandidates bounds the ranked alternatives reported per position.
	MaxCandidates int `json:"max_candidates"`
}

// DefaultHMMParams returns the default model parameters.
func DefaultHMMParams() HMMParams {
	return HMMParams{
		SelfBias:        4.0,
		FifthsDecay:     0.5,
		ModeChangeBoost: 2.0,
		EmissionFloor:   0.2,
		MaxCandidates:   3,
	}
}

// HMMDetector decodes the single most probable key sequence for a melody
// with the Viterbi algorithm over 24 hidden states. The transition,
// emission and initial tables are built once in the constructor and never
// mutated, so one detector serves unlimited concurrent callers.
type HMMDetector struct {
	params HMMParams

	transition *mat.Dense // 24x24, rows sum to 1
	emission   *mat.Dense // 24x12, rows sum to 1
	initial    []float64  // length 24, uniform

	// log-space copies used during decoding
	logTransition *mat.Dense
	logEmission   *mat.Dense
	logInitial    []float64
}

// NewHMMDetector creates an HMM detector with default parameters.
func NewHMMDetector() *HMMDetector {
	return NewHMMDetectorWithParams(DefaultHMMParams())
}

// NewHMMDetectorWithParams creates an HMM detector with custom parameters.
func NewHMMDetectorWithParams(params HMMParams) *HMMDetector {
	if params.MaxCandidates <= 0 {
		params.MaxCandidates = DefaultHMMParams().MaxCandidates
	}
	d := &HMMDetector{params: params}
	d.buildTransitionMatrix()
	d.buildEmissionMatrix()
	d.buildInitialDistribution()
	return d
}

// buildTransitionMatrix fills the 24x24 transition matrix: a strong
// self-transition bias, weight decaying with circle-of-fifths distance
// between the tonics, and a boost for relative/parallel mode changes.
func (d *HMMDetector) buildTransitionMatrix() {
	keys := theory.AllKeys()
	d.transition = mat.NewDense(numStates, numStates, nil)

	for i, from := range keys {
		row := d.transition.RawRowView(i)
		for j, to := range keys {
			if i == j {
				row[j] = d.params.SelfBias
				continue
			}

			distance := theory.CircleOfFifthsDistance(from, to)
			weight := math.Pow(d.params.FifthsDecay, float64(distance))
			if to == from.Relative() || to == from.Parallel() {
				weight *= d.params.ModeChangeBoost
			}
			row[j] = weight
		}
		floats.Scale(1/floats.Sum(row), row)
	}

	d.logTransition = logMatrix(d.transition)
}

// buildEmissionMatrix fills the 24x12 emission matrix from the scale-degree
// weights, with a small floor for chromatic pitch classes.
func (d *HMMDetector) buildEmissionMatrix() {
	keys := theory.AllKeys()
	d.emission = mat.NewDense(numStates, numObservations, nil)

	for i, key := range keys {
		row := d.emission.RawRowView(i)
		for pc := 0; pc < numObservations; pc++ {
			degree, ok := key.ScaleDegree(theory.PitchClass(pc))
			if ok {
				row[pc] = emissionDegreeWeights[degree-1]
			} else {
				row[pc] = d.params.EmissionFloor
			}
		}
		floats.Scale(1/floats.Sum(row), row)
	}

	d.logEmission = logMatrix(d.emission)
}

func (d *HMMDetector) buildInitialDistribution() {
	d.initial = make([]float64, numStates)
	d.logInitial = make([]float64, numStates)
	for s := range d.initial {
		d.initial[s] = 1.0 / numStates
		d.logInitial[s] = math.Log(d.initial[s])
	}
}

func logMatrix(m *mat.Dense) *mat.Dense {
	rows, cols := m.Dims()
	out := mat.NewDense(rows, cols, nil)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			out.Set(r, c, math.Log(m.At(r, c)))
		}
	}
	return out
}

// TransitionMatrix returns the transition probabilities. The returned
// matrix is read-only.
func (d *HMMDetector) TransitionMatrix() mat.Matrix {
	return d.transition
}

// EmissionMatrix returns the emission probabilities. The returned matrix
// is read-only.
func (d *HMMDetector) EmissionMatrix() mat.Matrix {
	return d.emission
}

// InitialDistribution returns the initial state probabilities.
func (d *HMMDetector) InitialDistribution() []float64 {
	out := make([]float64, len(d.initial))
	copy(out, d.initial)
	return out
}

// Detect runs log-space Viterbi over the whole melody and returns the
// maximum-a-posteriori key for every position. A length-1 melody reduces
// to the argmax of initial x emission. Per-position alternatives are
// ranked by instantaneous emission score and never influence the
// backtrace.
func (d *HMMDetector) Detect(melody []theory.Note) []Estimate {
	n := len(melody)
	if n == 0 {
		return []Estimate{}
	}

	prev := make([]float64, numStates)
	cur := make([]float64, numStates)
	backpointers := make([][]int, n)

	obs := int(melody[0].Class)
	for s := 0; s < numStates; s++ {
		prev[s] = d.logInitial[s] + d.logEmission.At(s, obs)
	}

	for t := 1; t < n; t++ {
		obs = int(melody[t].Class)
		backpointers[t] = make([]int, numStates)

		for j := 0; j < numStates; j++ {
			bestState := 0
			bestScore := math.Inf(-1)
			for i := 0; i < numStates; i++ {
				score := prev[i] + d.logTransition.At(i, j)
				if score > bestScore {
					bestScore = score
					bestState = i
				}
			}
			cur[j] = bestScore + d.logEmission.At(j, obs)
			backpointers[t][j] = bestState
		}
		prev, cur = cur, prev
	}

	// terminal state with maximum cumulative probability, then trace back
	path := make([]int, n)
	path[n-1] = floats.MaxIdx(prev)
	for t := n - 1; t > 0; t-- {
		path[t-1] = backpointers[t][path[t]]
	}

	keys := theory.AllKeys()
	estimates := make([]Estimate, n)
	for t, state := range path {
		pc := int(melody[t].Class)
		estimates[t] = Estimate{
			Key:        keys[state],
			Score:      d.emission.At(state, pc),
			Candidates: d.rankByEmission(keys, pc),
		}
	}
	return estimates
}

// rankByEmission ranks all keys by how strongly they emit the observed
// pitch class. This is the "near miss" list for display only.
func (d *HMMDetector) rankByEmission(keys []theory.Key, pc int) []KeyCandidate {
	candidates := make([]KeyCandidate, numStates)
	for s := 0; s < numStates; s++ {
		candidates[s] = KeyCandidate{Key: keys[s], Score: d.emission.At(s, pc)}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > d.params.MaxCandidates {
		candidates = candidates[:d.params.MaxCandidates]
	}
	return candidates
}
