// Package session defers building the application state until cobra has
// parsed the global flags.
package session

import (
	"github.com/Paintersrp/notehub/internal/state"
)

type Session struct {
	Options state.Options

	build func(state.Options) (*state.State, error)
	st    *state.State
}

func New() *Session {
	return &Session{build: state.NewState}
}

// State builds the state on first use and returns the same value after.
func (s *Session) State() (*state.State, error) {
	if s.st != nil {
		return s.st, nil
	}

	st, err := s.build(s.Options)
	if err != nil {
		return nil, err
	}
	s.st = st
	return st, nil
}

// Home is the home directory commands should use for config files.
func (s *Session) Home() (string, error) {
	if s.Options.Home != "" {
		return s.Options.Home, nil
	}
	return state.GetHomeDir()
}

func (s *Session) Close() error {
	if s.st == nil {
		return nil
	}
	err := s.st.Close()
	s.st = nil
	return err
}
