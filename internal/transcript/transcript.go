// Package transcript runs the line-oriented command loop.
package transcript

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/TomasB/geoloc/internal/session"
)

// Ready is written once before the first command is read.
const Ready = "READY"

// MaxLine is the longest command line kept in memory. Longer lines are
// discarded and answered with ERR.
const MaxLine = 64 * 1024

// Responder answers a single protocol line.
type Responder interface {
	Respond(ctx context.Context, line string) (resp string, exit bool)
}

// Run writes Ready, then one response line per input line, until EXIT has
// been answered or the input ends.
func Run(ctx context.Context, r io.Reader, w io.Writer, s Responder) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, Ready); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}

	br := bufio.NewReader(r)
	for {
		line, tooLong, err := readLine(br)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		resp, exit := session.RespErr, false
		if !tooLong {
			resp, exit = s.Respond(ctx, line)
		}
		if _, err := fmt.Fprintln(bw, resp); err != nil {
			return err
		}
		if err := bw.Flush(); err != nil {
			return err
		}
		if exit {
			return nil
		}
	}
}

// readLine returns the next line without its terminator. A final line with
// no newline is still returned; io.EOF is only reported once nothing is left.
func readLine(br *bufio.Reader) (line string, tooLong bool, err error) {
	var buf []byte
	read := false
	for {
		chunk, err := br.ReadSlice('\n')
		if len(chunk) > 0 {
			read = true
		}
		if !tooLong {
			if len(buf)+len(chunk) > MaxLine+2 {
				tooLong, buf = true, nil
			} else {
				buf = append(buf, chunk...)
			}
		}
		switch {
		case err == bufio.ErrBufferFull:
			continue
		case err == io.EOF && read:
		case err != nil:
			return "", false, err
		}
		break
	}
	if tooLong {
		return "", true, nil
	}
	s := strings.TrimSuffix(string(buf), "\n")
	return strings.TrimSuffix(s, "\r"), false, nil
}
