package theory

// Mode represents major or natural-minor mode.
type Mode int

const (
	ModeMajor Mode = iota
	ModeMinor
)

func (m Mode) String() string {
	if m == ModeMinor {
		return "minor"
	}
	return "major"
}

// Scale interval patterns in semitones from the tonic.
var (
	majorScaleIntervals = [7]int{0, 2, 4, 5, 7, 9, 11}
	minorScaleIntervals = [7]int{0, 2, 3, 5, 7, 8, 10}
)

// Degree is an ordinal scale position, 1 through 7.
type Degree int

// Key is a tonality: a tonic pitch class plus a mode. Exactly 24 values
// exist; use AllKeys for the canonical enumeration.
type Key struct {
	Tonic PitchClass `json:"tonic"`
	Mode  Mode       `json:"mode"`
}

// allKeys is the process-wide immutable key table: 12 majors followed by
// 12 minors. Detectors iterate it in this order, which makes tie-breaking
// deterministic (lower tonic first, major before minor).
var allKeys = buildAllKeys()

func buildAllKeys() []Key {
	keys := make([]Key, 0, 24)
	for pc := 0; pc < 12; pc++ {
		keys = append(keys, Key{Tonic: PitchClass(pc), Mode: ModeMajor})
	}
	for pc := 0; pc < 12; pc++ {
		keys = append(keys, Key{Tonic: PitchClass(pc), Mode: ModeMinor})
	}
	return keys
}

// AllKeys returns the 24 major and natural-minor keys in canonical order.
// The returned slice is shared and must not be modified.
func AllKeys() []Key {
	return allKeys
}

// Index returns the position of the key in the AllKeys ordering.
func (k Key) Index() int {
	if k.Mode == ModeMinor {
		return int(k.Tonic) + 12
	}
	return int(k.Tonic)
}

// Name returns the tonality string, e.g. "C major" or "A minor".
func (k Key) Name() string {
	return k.Tonic.Name() + " " + k.Mode.String()
}

// Scale returns the seven diatonic pitch classes of the key in degree order.
func (k Key) Scale() [7]PitchClass {
	intervals := majorScaleIntervals
	if k.Mode == ModeMinor {
		intervals = minorScaleIntervals
	}

	var scale [7]PitchClass
	for i, interval := range intervals {
		scale[i] = PitchClass((int(k.Tonic) + interval) % 12)
	}
	return scale
}

// ScaleDegree maps a pitch class to its degree (1-7) within the key. The
// second return value is false for chromatic notes outside the scale.
func (k Key) ScaleDegree(pc PitchClass) (Degree, bool) {
	scale := k.Scale()
	for i, member := range scale {
		if member == pc {
			return Degree(i + 1), true
		}
	}
	return 0, false
}

// Relative returns the relative key: A minor for C major, C major for
// A minor.
func (k Key) Relative() Key {
	if k.Mode == ModeMajor {
		return Key{Tonic: PitchClass((int(k.Tonic) + 9) % 12), Mode: ModeMinor}
	}
	return Key{Tonic: PitchClass((int(k.Tonic) + 3) % 12), Mode: ModeMajor}
}

// Parallel returns the parallel key sharing the same tonic.
func (k Key) Parallel() Key {
	if k.Mode == ModeMajor {
		return Key{Tonic: k.Tonic, Mode: ModeMinor}
	}
	return Key{Tonic: k.Tonic, Mode: ModeMajor}
}

// CircleOfFifthsDistance returns the minimal number of perfect-fifth steps
// between the tonics of two keys, independent of mode. The result is
// symmetric, zero for equal tonics and at most 6.
func CircleOfFifthsDistance(a, b Key) int {
	// walk fifths upward until the tonics meet
	steps := 0
	pc := a.Tonic
	for pc != b.Tonic {
		pc = PitchClass((int(pc) + 7) % 12)
		steps++
	}

	if steps > 6 {
		return 12 - steps
	}
	return steps
}
