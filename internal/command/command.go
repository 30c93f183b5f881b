// Package command parses protocol lines into commands.
package command

import (
	"fmt"
	"net/netip"
	"strings"

	"github.com/TomasB/geoloc/internal/apperr"
)

// Op identifies the kind of a Command.
type Op int

const (
	OpLoad Op = iota + 1
	OpLookup
	OpExit
)

func (o Op) String() string {
	switch o {
	case OpLoad:
		return "LOAD"
	case OpLookup:
		return "LOOKUP"
	case OpExit:
		return "EXIT"
	default:
		return "UNKNOWN"
	}
}

// Command is a parsed protocol command. Address is only meaningful for OpLookup.
type Command struct {
	Op      Op
	Address uint32
}

// Load returns a LOAD command.
func Load() Command { return Command{Op: OpLoad} }

// Exit returns an EXIT command.
func Exit() Command { return Command{Op: OpExit} }

// Lookup returns a LOOKUP command for the given address.
func Lookup(addr uint32) Command { return Command{Op: OpLookup, Address: addr} }

func (c Command) String() string {
	if c.Op == OpLookup {
		return fmt.Sprintf("LOOKUP %s", FormatAddress(c.Address))
	}
	return c.Op.String()
}

// Parse turns a single protocol line into a Command.
// Matching is exact and case-sensitive; anything else is apperr.ErrUnsupportedCommand.
func Parse(line string) (Command, error) {
	switch line {
	case "LOAD":
		return Load(), nil
	case "EXIT":
		return Exit(), nil
	}

	rest, ok := strings.CutPrefix(line, "LOOKUP")
	if !ok {
		return Command{}, apperr.ErrUnsupportedCommand
	}

	addr, err := ParseAddress(strings.TrimSpace(rest))
	if err != nil {
		return Command{}, apperr.Wrap(apperr.KindUnsupportedCommand, err)
	}
	return Lookup(addr), nil
}

// ParseAddress converts a dotted-quad IPv4 address to its big-endian numeric form.
func ParseAddress(s string) (uint32, error) {
	ip, err := netip.ParseAddr(s)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q: %w", s, err)
	}
	if !ip.Is4() {
		return 0, fmt.Errorf("invalid address %q: not IPv4", s)
	}
	b := ip.As4()
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}

// FormatAddress renders a numeric IPv4 address as a dotted quad.
func FormatAddress(addr uint32) string {
	return netip.AddrFrom4([4]byte{
		byte(addr >> 24),
		byte(addr >> 16),
		byte(addr >> 8),
		byte(addr),
	}).String()
}
