package dispatcher

import (
	"github.com/leandrodaf/keymidi/sdk/contracts"
	"gitlab.com/gomidi/midi/v2"
)

// DefaultVelocity is used for both Note On and Note Off.
const DefaultVelocity uint8 = 100

// Everything goes out on channel 0 (status 0x90 / 0x80).
const channel uint8 = 0

func noteOn(note contracts.Note, velocity uint8) []byte {
	return []byte(midi.NoteOn(channel, uint8(note), velocity))
}

func noteOff(note contracts.Note, velocity uint8) []byte {
	return []byte(midi.NoteOffVelocity(channel, uint8(note), velocity))
}
