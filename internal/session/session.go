// Package session drives the LOAD / LOOKUP / EXIT protocol over one Backend.
package session

import (
	"context"
	"log/slog"

	"github.com/TomasB/geoloc/internal/apperr"
	"github.com/TomasB/geoloc/internal/command"
	"github.com/TomasB/geoloc/internal/data"
	"github.com/google/uuid"
)

// Protocol responses.
const (
	RespOK  = "OK"
	RespErr = "ERR"
)

// State is the protocol state of a Session.
type State int

const (
	Unloaded State = iota
	Loaded
)

func (s State) String() string {
	if s == Loaded {
		return "loaded"
	}
	return "unloaded"
}

// Session owns one Backend and the protocol state guarding it.
// It is not safe for concurrent use; see Serialized.
type Session struct {
	id      string
	backend data.Backend
	state   State
	logger  *slog.Logger
}

// New returns an Unloaded Session over backend.
func New(backend data.Backend, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	id := uuid.NewString()
	return &Session{
		id:      id,
		backend: backend,
		logger:  logger.With("session_id", id),
	}
}

// ID returns the session identifier used in logs.
func (s *Session) ID() string { return s.id }

// State returns the current protocol state.
func (s *Session) State() State { return s.state }

// Handle executes cmd. exit is true when the caller must stop issuing commands.
func (s *Session) Handle(ctx context.Context, cmd command.Command) (resp string, exit bool, err error) {
	switch cmd.Op {
	case command.OpLoad:
		if err := s.backend.Load(ctx); err != nil {
			return "", false, err
		}
		s.state = Loaded
		s.logger.Info("dataset loaded")
		return RespOK, false, nil

	case command.OpLookup:
		if s.state != Loaded {
			return "", false, apperr.ErrUnloadedDatabase
		}
		payload, err := s.backend.Lookup(ctx, cmd.Address)
		if err != nil {
			return "", false, err
		}
		return payload, false, nil

	case command.OpExit:
		return RespOK, true, nil

	default:
		return "", false, apperr.ErrUnsupportedCommand
	}
}

// Respond parses and executes one protocol line and renders the response.
// Every failure is rendered as ERR.
func (s *Session) Respond(ctx context.Context, line string) (resp string, exit bool) {
	cmd, err := command.Parse(line)
	if err != nil {
		s.logger.Warn("command rejected", "line", line, "kind", apperr.KindOf(err).String(), "error", err)
		return RespErr, false
	}

	s.logger.Debug("command received", "command", cmd.String(), "state", s.state.String())

	resp, exit, err = s.Handle(ctx, cmd)
	if err != nil {
		s.logger.Warn("command failed", "command", cmd.String(), "kind", apperr.KindOf(err).String(), "error", err)
		return RespErr, false
	}
	return resp, exit
}

// Close releases the backend.
func (s *Session) Close() error {
	return s.backend.Close()
}
