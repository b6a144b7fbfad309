package theory

// Quality represents the quality of a triad.
type Quality string

const (
	QualityMajor      Quality = "major"
	QualityMinor      Quality = "minor"
	QualityDiminished Quality = "diminished"
)

// Function is the harmonic role a scale degree plays within its key.
type Function string

const (
	FunctionTonic       Function = "tonic"
	FunctionSubdominant Function = "subdominant"
	FunctionDominant    Function = "dominant"
)

// Degree-to-function tables. The two modes disagree on the submediant:
// vi carries tonic function in major but subdominant function in minor.
var (
	majorFunctions = [7]Function{
		FunctionTonic, FunctionSubdominant, FunctionTonic, FunctionSubdominant,
		FunctionDominant, FunctionTonic, FunctionDominant,
	}
	minorFunctions = [7]Function{
		FunctionTonic, FunctionSubdominant, FunctionTonic, FunctionSubdominant,
		FunctionDominant, FunctionSubdominant, FunctionDominant,
	}
)

// HarmonicFunction returns the harmonic role of a scale degree in the
// given mode.
func HarmonicFunction(degree Degree, mode Mode) Function {
	idx := (int(degree) - 1) % 7
	if mode == ModeMinor {
		return minorFunctions[idx]
	}
	return majorFunctions[idx]
}

// Chord is a diatonic triad rooted on a scale degree of some key.
type Chord struct {
	Degree  Degree        `json:"degree"`
	Root    PitchClass    `json:"root"`
	Quality Quality       `json:"quality"`
	Pitches [3]PitchClass `json:"pitches"` // root, third, fifth
}

// Name returns the chord symbol: the root name plus "" for major, "m" for
// minor and "°" for diminished.
func (c Chord) Name() string {
	switch c.Quality {
	case QualityMinor:
		return c.Root.Name() + "m"
	case QualityDiminished:
		return c.Root.Name() + "°"
	default:
		return c.Root.Name()
	}
}

// Contains reports whether the pitch class is one of the chord tones.
func (c Chord) Contains(pc PitchClass) bool {
	return c.Pitches[0] == pc || c.Pitches[1] == pc || c.Pitches[2] == pc
}

// diatonicTriads holds the 7 triads of each of the 24 keys, built once at
// init. DiatonicTriads is a pure function of the key, so the table never
// changes after construction.
var diatonicTriads = buildDiatonicTriads()

func buildDiatonicTriads() map[Key][7]Chord {
	table := make(map[Key][7]Chord, 24)
	for _, key := range AllKeys() {
		scale := key.Scale()

		var triads [7]Chord
		for degree := 0; degree < 7; degree++ {
			root := scale[degree]
			third := scale[(degree+2)%7]
			fifth := scale[(degree+4)%7]

			triads[degree] = Chord{
				Degree:  Degree(degree + 1),
				Root:    root,
				Quality: triadQuality(root, third, fifth),
				Pitches: [3]PitchClass{root, third, fifth},
			}
		}
		table[key] = triads
	}
	return table
}

// triadQuality derives the quality from the stacked interval pattern
// rather than asserting it per degree.
func triadQuality(root, third, fifth PitchClass) Quality {
	thirdSpan := ((int(third) - int(root)) + 12) % 12
	fifthSpan := ((int(fifth) - int(root)) + 12) % 12

	switch {
	case thirdSpan == 4 && fifthSpan == 7:
		return QualityMajor
	case thirdSpan == 3 && fifthSpan == 7:
		return QualityMinor
	default:
		return QualityDiminished
	}
}

// DiatonicTriads returns the seven diatonic triads of a key in degree
// order: I,ii,iii,IV,V,vi,vii° for major and i,ii°,III,iv,v,VI,VII for
// natural minor.
func DiatonicTriads(key Key) [7]Chord {
	return diatonicTriads[key]
}
