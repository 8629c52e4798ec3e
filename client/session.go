package client

import (
	"context"
	"errors"
	"fmt"
)

// State is the interaction-flow state of one submission session.
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateNeedsMoreInfo
	StateSubmittingFollowUp
	StateTerminal
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateNeedsMoreInfo:
		return "needs-more-info"
	case StateSubmittingFollowUp:
		return "submitting-followup"
	case StateTerminal:
		return "terminal"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// followUpMarker separates the original narrative from caller-supplied detail in
// the follow-up round.
const followUpMarker = "\n\n--- 追加情報 ---\n"

// ErrNotAwaitingFollowUp is returned when a follow-up action is attempted
// outside the needs-more-info state.
var ErrNotAwaitingFollowUp = errors.New("session is not awaiting follow-up input")

// ErrSessionFinished is returned when Submit is called on a finished session.
var ErrSessionFinished = errors.New("session already finished")

// Session drives at most two analysis rounds for one user submission. The server
// is stateless across rounds; all continuity (the accumulated text, the
// provisional record's id and share token) lives here.
//
// A session never asks for more information twice: if the follow-up round comes
// back flagged needs-more-info again, the tentative result is presented as
// terminal.
type Session struct {
	c *Client

	state       State
	original    string
	provisional *Result
	result      *Result
}

// NewSession creates an idle session on c.
func NewSession(c *Client) *Session {
	return &Session{c: c, state: StateIdle}
}

// State reports the current flow state.
func (s *Session) State() State { return s.state }

// Result returns the terminal result, or nil before the session finishes.
func (s *Session) Result() *Result {
	if s.state != StateTerminal {
		return nil
	}
	return s.result
}

// Questions returns the pending follow-up questions while awaiting input.
func (s *Session) Questions() []Question {
	if s.state != StateNeedsMoreInfo || s.provisional == nil {
		return nil
	}
	return s.provisional.MissingInfoQuestions
}

// Provisional returns the provisional result while awaiting follow-up input, so
// a UI can offer its share link before the session finishes.
func (s *Session) Provisional() *Result {
	if s.state != StateNeedsMoreInfo {
		return nil
	}
	return s.provisional
}

// Submit runs the first analysis round. On a needs-more-info reply the session
// parks in StateNeedsMoreInfo holding the provisional record; otherwise it
// finishes. Errors return the session to idle so the user may resubmit.
func (s *Session) Submit(ctx context.Context, dream string) (*Result, error) {
	if s.state != StateIdle {
		return nil, ErrSessionFinished
	}
	s.state = StateSubmitting

	res, err := s.c.Analyze(ctx, dream)
	if err != nil {
		s.state = StateIdle
		return nil, err
	}

	s.original = dream
	if res.NeedsMoreInfo {
		s.provisional = res
		s.state = StateNeedsMoreInfo
		return res, nil
	}
	s.result = res
	s.state = StateTerminal
	return res, nil
}

// SubmitFollowUp runs the second round with the original text plus the
// caller-supplied detail. The reply is always terminal for this session,
// whatever the server says. Errors keep the session in StateNeedsMoreInfo so
// the user can retry or skip.
func (s *Session) SubmitFollowUp(ctx context.Context, additional string) (*Result, error) {
	if s.state != StateNeedsMoreInfo {
		return nil, ErrNotAwaitingFollowUp
	}
	s.state = StateSubmittingFollowUp

	res, err := s.c.Analyze(ctx, s.original+followUpMarker+additional)
	if err != nil {
		s.state = StateNeedsMoreInfo
		return nil, err
	}

	// Defensive cap: never re-enter the follow-up state.
	res.NeedsMoreInfo = false
	res.MissingInfoQuestions = nil
	s.result = res
	s.state = StateTerminal
	return res, nil
}

// SkipFollowUp finishes the session with the provisional result, letting the
// user view the already-stored record without answering the questions.
func (s *Session) SkipFollowUp() (*Result, error) {
	if s.state != StateNeedsMoreInfo {
		return nil, ErrNotAwaitingFollowUp
	}
	s.result = s.provisional
	s.state = StateTerminal
	return s.result, nil
}
