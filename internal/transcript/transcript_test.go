package transcript

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/TomasB/geoloc/internal/data"
	"github.com/TomasB/geoloc/internal/session"
)

type scriptedResponder struct {
	seen []string
}

func (r *scriptedResponder) Respond(_ context.Context, line string) (string, bool) {
	r.seen = append(r.seen, line)
	return "OK", line == "EXIT"
}

func TestRunStopsAfterExit(t *testing.T) {
	r := &scriptedResponder{}
	var out bytes.Buffer

	err := Run(context.Background(), strings.NewReader("LOAD\r\nEXIT\nLOOKUP 1.2.3.4\n"), &out, r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := out.String(); got != "READY\nOK\nOK\n" {
		t.Errorf("unexpected transcript %q", got)
	}
	if len(r.seen) != 2 || r.seen[0] != "LOAD" {
		t.Errorf("expected two commands with CR stripped, got %q", r.seen)
	}
}

func TestRunEndOfInput(t *testing.T) {
	r := &scriptedResponder{}
	var out bytes.Buffer

	if err := Run(context.Background(), strings.NewReader(""), &out, r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := out.String(); got != "READY\n" {
		t.Errorf("unexpected transcript %q", got)
	}
}

func TestRunSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ranges.csv")
	content := `"16777216","16777471","US","United States of America","California","Los Angeles","34.052230","-118.243680"
"16777472","16778239","CN","China","Fujian","Fuzhou","26.061390","119.306110"
"16778240","16779263","AU","Australia","Victoria","Melbourne","-37.814000","144.963320"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write dataset: %v", err)
	}

	backend, err := data.New(data.KindStream, path, data.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to create backend: %v", err)
	}
	s := session.New(backend, slog.New(slog.NewTextHandler(io.Discard, nil)))
	defer s.Close()

	in := strings.Join([]string{
		"LOOKUP 1.0.1.0",
		"LOAD",
		"LOOKUP 1.0.1.0",
		"LOOKUP 1.0.8.0",
		"LOOKUP 1.0.1",
		"FOO",
		"EXIT",
		"LOAD",
	}, "\n")
	var out bytes.Buffer
	if err := Run(context.Background(), strings.NewReader(in), &out, s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "READY\nERR\nOK\nCN,Fuzhou\nERR\nERR\nERR\nOK\n"
	if got := out.String(); got != want {
		t.Errorf("expected transcript %q, got %q", want, got)
	}
}

func TestRunOversizedLine(t *testing.T) {
	r := &scriptedResponder{}
	var out bytes.Buffer

	in := strings.Repeat("A", 70000) + "\nLOAD\nEXIT\n"
	if err := Run(context.Background(), strings.NewReader(in), &out, r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := out.String(); got != "READY\nERR\nOK\nOK\n" {
		t.Errorf("unexpected transcript %q", got)
	}
	if len(r.seen) != 2 || r.seen[0] != "LOAD" || r.seen[1] != "EXIT" {
		t.Errorf("expected only the short lines to reach the responder, got %d lines", len(r.seen))
	}
}

func TestRunLineAtLimit(t *testing.T) {
	r := &scriptedResponder{}
	var out bytes.Buffer

	long := strings.Repeat("B", MaxLine)
	if err := Run(context.Background(), strings.NewReader(long+"\r\nEXIT"), &out, r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := out.String(); got != "READY\nOK\nOK\n" {
		t.Errorf("unexpected transcript %q", got)
	}
	if len(r.seen) != 2 || r.seen[0] != long || r.seen[1] != "EXIT" {
		t.Errorf("expected the full line and a final EXIT without newline, got %d lines", len(r.seen))
	}
}
