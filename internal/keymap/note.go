package keymap

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/leandrodaf/keymidi/sdk/contracts"
)

var pitchClasses = map[byte]int{'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11}

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// ParseNote accepts a note number ("36") or a name with octave ("C2", "c#3",
// "Bb1"). Octaves follow the C4 = 60 convention, so C-1 is note 0.
func ParseNote(s string) (contracts.Note, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty note", contracts.ErrConfig)
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > contracts.MaxNote {
			return 0, fmt.Errorf("%w: note %d outside 0..%d", contracts.ErrConfig, n, contracts.MaxNote)
		}
		return contracts.Note(n), nil
	}

	pc, ok := pitchClasses[strings.ToUpper(s[:1])[0]]
	if !ok {
		return 0, fmt.Errorf("%w: bad note name %q", contracts.ErrConfig, s)
	}
	rest := s[1:]
	switch {
	case strings.HasPrefix(rest, "#"):
		pc++
		rest = rest[1:]
	case strings.HasPrefix(rest, "b"):
		pc--
		rest = rest[1:]
	}
	octave, err := strconv.Atoi(rest)
	if err != nil {
		return 0, fmt.Errorf("%w: bad octave in note %q", contracts.ErrConfig, s)
	}
	n := (octave+1)*12 + pc
	if n < 0 || n > contracts.MaxNote {
		return 0, fmt.Errorf("%w: note %q outside 0..%d", contracts.ErrConfig, s, contracts.MaxNote)
	}
	return contracts.Note(n), nil
}

// NoteName renders a note as pitch class plus octave, e.g. 60 -> "C4".
func NoteName(n contracts.Note) string {
	return fmt.Sprintf("%s%d", noteNames[int(n)%12], int(n)/12-1)
}
