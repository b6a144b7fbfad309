package theory

import (
	"fmt"
	"strconv"
)

// PitchClass represents a note identity modulo octave (0=C, 1=C#, ..., 11=B).
// Enharmonic spellings collapse onto the same class: Db and C# are both 1.
type PitchClass int

var pitchClassNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// semitone offset of each natural letter from C
var letterSemitones = map[byte]int{
	'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11,
}

// InvalidNoteError reports a note spelling that cannot be parsed.
type InvalidNoteError struct {
	Name string
}

func (e *InvalidNoteError) Error() string {
	return fmt.Sprintf("invalid note spelling: %q", e.Name)
}

// Note is a pitch class anchored to an octave. Ordering follows the
// absolute semitone value, so C4 < G4 < C5.
type Note struct {
	Class  PitchClass `json:"class"`
	Octave int        `json:"octave"`
}

// Semitone returns the absolute semitone value of the note.
func (n Note) Semitone() int {
	return int(n.Class) + 12*n.Octave
}

func (n Note) String() string {
	return fmt.Sprintf("%s%d", n.Class.Name(), n.Octave)
}

// Name returns the sharp spelling of the pitch class ("C", "C#", ..., "B").
func (pc PitchClass) Name() string {
	return pitchClassNames[((int(pc)%12)+12)%12]
}

// ParseNote parses a note name of the form <Letter>[accidental]<octave>,
// e.g. "C4", "F#5" or "Bb4". A single sharp or flat is accepted; anything
// else (unknown letters, double accidentals, missing octave) yields an
// InvalidNoteError.
func ParseNote(name string) (Note, error) {
	if len(name) < 2 {
		return Note{}, &InvalidNoteError{Name: name}
	}

	semitone, ok := letterSemitones[name[0]]
	if !ok {
		return Note{}, &InvalidNoteError{Name: name}
	}

	rest := name[1:]
	switch rest[0] {
	case '#':
		semitone++
		rest = rest[1:]
	case 'b':
		semitone--
		rest = rest[1:]
	}

	octave, err := strconv.Atoi(rest)
	if err != nil {
		return Note{}, &InvalidNoteError{Name: name}
	}

	return Note{
		Class:  PitchClass(((semitone % 12) + 12) % 12),
		Octave: octave,
	}, nil
}

// ParseMelody parses an ordered sequence of note names. The first
// unparseable spelling aborts the whole parse.
func ParseMelody(names []string) ([]Note, error) {
	melody := make([]Note, len(names))
	for i, name := range names {
		note, err := ParseNote(name)
		if err != nil {
			return nil, err
		}
		melody[i] = note
	}
	return melody, nil
}

// Interval returns the signed semitone distance from a to b along the
// shorter circular path, in [-6, 6]. A result of +6 is preferred over -6
// for the tritone so the function stays deterministic.
func Interval(a, b PitchClass) int {
	diff := ((int(b)-int(a))%12 + 12) % 12
	if diff > 6 {
		return diff - 12
	}
	return diff
}
