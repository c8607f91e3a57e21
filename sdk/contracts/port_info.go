package contracts

// PortInfo describes one MIDI port exposed by a transport.
type PortInfo struct {
	ID           int    // Index used to select the port.
	Name         string // Port name.
	Manufacturer string // Device manufacturer, when the platform reports one.
	EntityName   string // Name of the entity to which the port belongs.
}

// PortLister enumerates the ports of a MIDI transport in a stable order.
type PortLister interface {
	ListPorts() ([]PortInfo, error)
}
