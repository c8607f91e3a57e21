// Package selector lets the operator pick a MIDI port by index on a text console.
package selector

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/leandrodaf/keymidi/sdk/contracts"
)

// DefaultAttempts is how many invalid answers Prompt accepts before giving up.
const DefaultAttempts = 3

// Selector reads port choices from in and writes the menu to out.
type Selector struct {
	in       *bufio.Reader
	out      io.Writer
	logger   contracts.Logger
	attempts int

	title lipgloss.Style
	index lipgloss.Style
	faint lipgloss.Style
}

// New creates a Selector. Styling is dropped automatically when out is not a terminal.
func New(in io.Reader, out io.Writer, logger contracts.Logger) *Selector {
	r := lipgloss.NewRenderer(out)
	return &Selector{
		in:       bufio.NewReader(in),
		out:      out,
		logger:   logger,
		attempts: DefaultAttempts,
		title:    r.NewStyle().Bold(true),
		index:    r.NewStyle().Foreground(lipgloss.Color("12")).Width(4).Align(lipgloss.Right),
		faint:    r.NewStyle().Faint(true),
	}
}

// Enumerate lists the ports of a transport, wrapping failures as
// contracts.ErrPortEnumeration.
func Enumerate(lister contracts.PortLister) ([]contracts.PortInfo, error) {
	ports, err := lister.ListPorts()
	if err != nil {
		if errors.Is(err, contracts.ErrPortEnumeration) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", contracts.ErrPortEnumeration, err)
	}
	return ports, nil
}

// Print writes the numbered port list.
func (s *Selector) Print(kind string, ports []contracts.PortInfo) {
	fmt.Fprintln(s.out, s.title.Render(fmt.Sprintf("Available MIDI %s ports:", kind)))
	if len(ports) == 0 {
		fmt.Fprintln(s.out, s.faint.Render("  (none)"))
		return
	}
	for _, p := range ports {
		line := fmt.Sprintf("%s  %s", s.index.Render(strconv.Itoa(p.ID)+":"), p.Name)
		if p.Manufacturer != "" {
			line += " " + s.faint.Render("("+p.Manufacturer+")")
		}
		fmt.Fprintln(s.out, line)
	}
}

// Validate checks that id names one of ports.
func Validate(id int, ports []contracts.PortInfo) (int, error) {
	for _, p := range ports {
		if p.ID == id {
			return id, nil
		}
	}
	return 0, fmt.Errorf("%w: %d is not a listed port", contracts.ErrInvalidSelection, id)
}

// Parse converts an operator answer into a port ID.
func Parse(answer string, ports []contracts.PortInfo) (int, error) {
	answer = strings.TrimSpace(answer)
	id, err := strconv.Atoi(answer)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", contracts.ErrInvalidSelection, answer)
	}
	return Validate(id, ports)
}

// Prompt shows the port list and asks for an index, asking again after an
// invalid answer. It fails with contracts.ErrPortUnavailable when there is
// nothing to choose, and with contracts.ErrInvalidSelection once the
// attempts run out or input ends.
func (s *Selector) Prompt(kind string, ports []contracts.PortInfo) (int, error) {
	if len(ports) == 0 {
		return 0, fmt.Errorf("%w: no MIDI %s ports found", contracts.ErrPortUnavailable, kind)
	}
	s.Print(kind, ports)

	var lastErr error
	for attempt := 0; attempt < s.attempts; attempt++ {
		fmt.Fprintf(s.out, "Select %s port (%d-%d): ", kind, ports[0].ID, ports[len(ports)-1].ID)
		line, readErr := s.in.ReadString('\n')
		if readErr != nil && strings.TrimSpace(line) == "" {
			fmt.Fprintln(s.out)
			if readErr == io.EOF {
				return 0, fmt.Errorf("%w: input closed before a %s port was chosen", contracts.ErrInvalidSelection, kind)
			}
			return 0, fmt.Errorf("%w: read answer: %v", contracts.ErrInvalidSelection, readErr)
		}

		id, err := Parse(line, ports)
		if err == nil {
			return id, nil
		}
		lastErr = err
		s.logger.Warn("Invalid port selection", s.logger.Field().Error("error", err))
		fmt.Fprintln(s.out, s.faint.Render("  "+err.Error()))
	}
	return 0, lastErr
}
