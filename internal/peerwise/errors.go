package peerwise

import (
	"errors"
	"fmt"
)

var (
	ErrUnexpectedStatus     = errors.New("unexpected status")
	ErrLoginRejected        = errors.New("login rejected")
	ErrPostLoginCheckFailed = errors.New("post-login check failed")
	ErrRedirected           = errors.New("redirected")
)

// AuthError is returned when the login handshake deviates from what the
// platform is known to do. Reason is one of ErrUnexpectedStatus,
// ErrLoginRejected or ErrPostLoginCheckFailed.
type AuthError struct {
	Reason   error
	Url      string
	Status   int
	Location string
}

func (e *AuthError) Error() string {
	msg := fmt.Sprintf("peerwise: login: %s: %s returned %d", e.Reason, e.Url, e.Status)
	if e.Location != "" {
		msg += fmt.Sprintf(" (location %q)", e.Location)
	}
	return msg
}

func (e *AuthError) Unwrap() error {
	return e.Reason
}

type Stage string

const (
	StageView   Stage = "view question"
	StageSubmit Stage = "submit answer"
)

// AnswerError is returned when viewing a question or submitting an answer
// comes back with anything other than 200. It unwraps to ErrRedirected for a
// 302 and ErrUnexpectedStatus otherwise.
type AnswerError struct {
	Stage      Stage
	QuestionId int64
	Status     int
	Location   string
}

func (e *AnswerError) Error() string {
	if e.Redirected() {
		return fmt.Sprintf(
			"peerwise: %s %d: redirected to %q",
			e.Stage, e.QuestionId, e.Location,
		)
	}
	return fmt.Sprintf("peerwise: %s %d: unexpected status %d", e.Stage, e.QuestionId, e.Status)
}

func (e *AnswerError) Redirected() bool {
	return e.Status == 302
}

func (e *AnswerError) Unwrap() error {
	if e.Redirected() {
		return ErrRedirected
	}
	return ErrUnexpectedStatus
}
