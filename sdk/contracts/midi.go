package contracts

// MIDI represents a MIDI event with a timestamp, command, note, and velocity.
type MIDI struct {
	Timestamp uint64 // Timestamp indicates the time the event occurred.
	Command   byte   // Command specifies the type of MIDI event (e.g., Note On, Note Off).
	Channel   byte   // Channel is the low nibble of the status byte (0-15).
	Note      byte   // Note represents the MIDI note number (0-127).
	Velocity  byte   // Velocity indicates the strength of the note being played (0-127).
}

// ClientMIDI defines an interface for MIDI input operations. keymidi only
// uses it to log what arrives on the selected input port.
type ClientMIDI interface {
	PortLister
	Stop() error                         // Stops the MIDI client and releases resources.
	SelectPort(portID int) error         // Selects a MIDI input port by its ID.
	StartCapture(eventChannel chan MIDI) // Starts capturing MIDI events and sends them to the specified channel.
}

// Sender writes one complete MIDI message on an output connection.
type Sender interface {
	Send(msg []byte) error
}

// OutputMIDI defines an interface for MIDI output operations.
type OutputMIDI interface {
	PortLister
	Sender
	Stop() error                 // Closes the connection and releases resources.
	SelectPort(portID int) error // Connects to the output port with the given ID.
}
