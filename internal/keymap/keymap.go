// Package keymap builds the immutable key to note table used by the
// dispatcher.
package keymap

import (
	"fmt"
	"sort"

	"github.com/leandrodaf/keymidi/sdk/contracts"
)

// Mapping assigns consecutive notes to an ordered list of keys:
// note = start + index. It is never modified after Build returns.
type Mapping struct {
	start contracts.Note
	notes map[contracts.Key]contracts.Note
	keys  []contracts.Key // keys[i] plays start+i
}

// Build creates a Mapping. It fails with contracts.ErrConfig when keys is
// empty, contains duplicates, or would push a note above 127.
func Build(start contracts.Note, keys []contracts.Key) (*Mapping, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: no keys to map", contracts.ErrConfig)
	}
	if last := int(start) + len(keys) - 1; last > contracts.MaxNote {
		return nil, fmt.Errorf("%w: %d keys starting at note %d end at %d, above %d",
			contracts.ErrConfig, len(keys), start, last, contracts.MaxNote)
	}

	m := &Mapping{
		start: start,
		notes: make(map[contracts.Key]contracts.Note, len(keys)),
		keys:  make([]contracts.Key, len(keys)),
	}
	for i, key := range keys {
		if prev, dup := m.notes[key]; dup {
			return nil, fmt.Errorf("%w: key %d listed twice (positions %d and %d)",
				contracts.ErrConfig, key, int(prev-start), i)
		}
		m.notes[key] = start + contracts.Note(i)
	}
	copy(m.keys, keys)
	return m, nil
}

// Lookup returns the note bound to key.
func (m *Mapping) Lookup(key contracts.Key) (contracts.Note, bool) {
	note, ok := m.notes[key]
	return note, ok
}

// Key is the reverse of Lookup.
func (m *Mapping) Key(note contracts.Note) (contracts.Key, bool) {
	if note < m.start || int(note-m.start) >= len(m.keys) {
		return 0, false
	}
	return m.keys[note-m.start], true
}

// Notes returns every mapped note in ascending order.
func (m *Mapping) Notes() []contracts.Note {
	notes := make([]contracts.Note, 0, len(m.notes))
	for _, n := range m.notes {
		notes = append(notes, n)
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i] < notes[j] })
	return notes
}

// Start is the note played by the first key.
func (m *Mapping) Start() contracts.Note {
	return m.start
}

// Len is the number of mapped keys.
func (m *Mapping) Len() int {
	return len(m.keys)
}
