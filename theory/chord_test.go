package theory

import "testing"

func TestDiatonicTriadQualityPattern(t *testing.T) {
	majorPattern := [7]Quality{
		QualityMajor, QualityMinor, QualityMinor, QualityMajor,
		QualityMajor, QualityMinor, QualityDiminished,
	}
	minorPattern := [7]Quality{
		QualityMinor, QualityDiminished, QualityMajor, QualityMinor,
		QualityMinor, QualityMajor, QualityMajor,
	}

	for _, key := range AllKeys() {
		want := majorPattern
		if key.Mode == ModeMinor {
			want = minorPattern
		}

		triads := DiatonicTriads(key)
		for i, chord := range triads {
			if chord.Quality != want[i] {
				t.Errorf("%s degree %d quality = %s, want %s",
					key.Name(), i+1, chord.Quality, want[i])
			}
			if chord.Degree != Degree(i+1) {
				t.Errorf("%s triad %d has degree %d", key.Name(), i, chord.Degree)
			}
		}
	}
}

func TestDiatonicTriadsAreProperTriads(t *testing.T) {
	for _, key := range AllKeys() {
		scale := key.Scale()
		for _, chord := range DiatonicTriads(key) {
			if chord.Pitches[0] == chord.Pitches[1] ||
				chord.Pitches[1] == chord.Pitches[2] ||
				chord.Pitches[0] == chord.Pitches[2] {
				t.Errorf("%s chord %s has duplicate pitches %v",
					key.Name(), chord.Name(), chord.Pitches)
			}
			if chord.Root != chord.Pitches[0] {
				t.Errorf("%s chord %s root mismatch", key.Name(), chord.Name())
			}
			if chord.Root != scale[int(chord.Degree)-1] {
				t.Errorf("%s chord %s is not rooted on its degree", key.Name(), chord.Name())
			}
		}
	}
}

func TestChordNames(t *testing.T) {
	cMajor := Key{Tonic: 0, Mode: ModeMajor}
	wantCMajor := [7]string{"C", "Dm", "Em", "F", "G", "Am", "B°"}
	for i, chord := range DiatonicTriads(cMajor) {
		if chord.Name() != wantCMajor[i] {
			t.Errorf("C major degree %d name = %q, want %q", i+1, chord.Name(), wantCMajor[i])
		}
	}

	aMinor := Key{Tonic: 9, Mode: ModeMinor}
	wantAMinor := [7]string{"Am", "B°", "C", "Dm", "Em", "F", "G"}
	for i, chord := range DiatonicTriads(aMinor) {
		if chord.Name() != wantAMinor[i] {
			t.Errorf("A minor degree %d name = %q, want %q", i+1, chord.Name(), wantAMinor[i])
		}
	}
}

func TestChordContains(t *testing.T) {
	cMajor := Key{Tonic: 0, Mode: ModeMajor}
	tonic := DiatonicTriads(cMajor)[0] // C E G

	for _, pc := range []PitchClass{0, 4, 7} {
		if !tonic.Contains(pc) {
			t.Errorf("C chord should contain %s", pc.Name())
		}
	}
	for _, pc := range []PitchClass{2, 5, 9, 11} {
		if tonic.Contains(pc) {
			t.Errorf("C chord should not contain %s", pc.Name())
		}
	}
}
