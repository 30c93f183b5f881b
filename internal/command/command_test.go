package command

import (
	"errors"
	"testing"

	"github.com/TomasB/geoloc/internal/apperr"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    Command
		wantErr bool
	}{
		{name: "load", line: "LOAD", want: Load()},
		{name: "exit", line: "EXIT", want: Exit()},
		{name: "lookup", line: "LOOKUP 1.2.3.4", want: Lookup(0x01020304)},
		{name: "lookup padded", line: "LOOKUP   1.0.4.0  ", want: Lookup(16778240)},
		{name: "lookup no space", line: "LOOKUP8.8.8.8", want: Lookup(0x08080808)},
		{name: "lookup max", line: "LOOKUP 255.255.255.255", want: Lookup(0xffffffff)},
		{name: "lowercase load", line: "load", wantErr: true},
		{name: "load trailing space", line: "LOAD ", wantErr: true},
		{name: "exit prefix", line: "EXITNOW", wantErr: true},
		{name: "empty", line: "", wantErr: true},
		{name: "lookup missing address", line: "LOOKUP", wantErr: true},
		{name: "lookup octet overflow", line: "LOOKUP 1.2.3.256", wantErr: true},
		{name: "lookup three octets", line: "LOOKUP 1.2.3", wantErr: true},
		{name: "lookup ipv6", line: "LOOKUP ::1", wantErr: true},
		{name: "lookup mapped ipv6", line: "LOOKUP ::ffff:1.2.3.4", wantErr: true},
		{name: "lookup hostname", line: "LOOKUP example.com", wantErr: true},
		{name: "lookup suffix", line: "LOOKUPS 1.2.3.4", wantErr: true},
		{name: "leading space", line: " LOOKUP 1.2.3.4", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.line)
			if tt.wantErr {
				if !errors.Is(err, apperr.ErrUnsupportedCommand) {
					t.Fatalf("expected unsupported command error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestParseAddressRoundTrip(t *testing.T) {
	for _, addr := range []uint32{0, 1, 16777216, 16777472, 0x7f000001, 0xc0a80101, 0xffffffff} {
		s := FormatAddress(addr)
		cmd, err := Parse("LOOKUP " + s)
		if err != nil {
			t.Fatalf("failed to parse %s: %v", s, err)
		}
		if cmd.Address != addr {
			t.Errorf("%s: expected %d, got %d", s, addr, cmd.Address)
		}
	}
}

func TestCommandString(t *testing.T) {
	if got := Lookup(16777472).String(); got != "LOOKUP 1.0.1.0" {
		t.Errorf("unexpected string %q", got)
	}
	if got := Load().String(); got != "LOAD" {
		t.Errorf("unexpected string %q", got)
	}
}
