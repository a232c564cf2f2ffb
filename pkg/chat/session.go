// Package chat manages the state of one caption-generation conversation: the
// ordered message transcript, the active image, and the lifecycle of the
// single in-flight captioning request.
//
// # Design Overview
//
// A Session is a plain state machine, not a network client. Each user action
// either mutates the transcript and hands back a *Turn (the captioning work
// to perform), or is rejected by a guard before anything changes:
//
//	turn, err := session.SelectImage(dataURL) // appends the image message
//	outcome := turn.Run(ctx)                  // may run on another goroutine
//	session.Finish(outcome)                   // appends exactly one assistant message
//
// Turn.Run never touches the session, so callers are free to execute it off
// the main loop (a bubbletea command, a goroutine) and feed the Outcome back
// as a single completion event. Finish applies an outcome at most once.
//
// Per request the session moves Idle -> Loading -> Idle, appending exactly
// one assistant message on the way back: the caption text on success, an
// error summary on failure. Failures are mirrored into the transcript as well
// as LastError so they stay visible in context, not just in a transient
// banner.
//
// # Thread Safety
//
// Session is NOT safe for concurrent use. All mutating calls must come from
// one logical execution context; the loading flag is an advisory guard
// against a second concurrent request, not a mutual-exclusion primitive.
package chat

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNoActiveImage rejects a text message sent before any image upload.
	// This is a local validation guard: no message is appended and no
	// network call is made.
	ErrNoActiveImage = errors.New("Please upload an image first!")

	// ErrRequestInFlight rejects a new request while one is still running.
	ErrRequestInFlight = errors.New("a caption request is already in flight")
)

// imageMessageContent labels image uploads in the transcript.
const imageMessageContent = "Generate captions for this image"

// Captioner produces captions for an image. Implementations must be safe to
// call from outside the session's execution context.
type Captioner interface {
	Caption(ctx context.Context, image string, prompt string) (string, error)
}

// Session holds the state of one chat view instance from mount to unmount.
// It is created empty and never persisted.
type Session struct {
	captioner Captioner
	prompt    string

	messages    []Message
	activeImage string
	loading     bool
	lastError   string
}

// NewSession creates an empty session that will request captions from the
// given captioner using the provided prompt (the fixed caption-generation
// instruction).
func NewSession(captioner Captioner, prompt string) *Session {
	return &Session{
		captioner: captioner,
		prompt:    prompt,
		messages:  make([]Message, 0),
	}
}

// Messages returns the transcript in insertion order. The returned slice is
// a copy; the transcript itself is append-only.
func (s *Session) Messages() []Message {
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// ActiveImage returns the most recently selected image data URL, or "" if no
// image has been uploaded yet.
func (s *Session) ActiveImage() string { return s.activeImage }

// IsLoading reports whether a captioning request is in flight.
func (s *Session) IsLoading() bool { return s.loading }

// LastError returns the most recent error text, or "" when the last action
// succeeded. Cleared at the start of each new request.
func (s *Session) LastError() string { return s.lastError }

// SelectImage stores data as the active image, appends an image-kind user
// message, and begins a captioning turn for it.
func (s *Session) SelectImage(data string) (*Turn, error) {
	if s.loading {
		return nil, ErrRequestInFlight
	}

	s.lastError = ""
	s.activeImage = data
	s.messages = append(s.messages, newMessage(RoleUser, KindImage, imageMessageContent, data))

	return s.begin(data), nil
}

// Send appends a user text message and begins a captioning turn for the
// active image. Without an active image it appends nothing, sets LastError,
// and returns ErrNoActiveImage.
func (s *Session) Send(text string) (*Turn, error) {
	if s.loading {
		return nil, ErrRequestInFlight
	}

	if s.activeImage == "" {
		s.lastError = ErrNoActiveImage.Error()
		return nil, ErrNoActiveImage
	}

	s.lastError = ""
	s.messages = append(s.messages, newMessage(RoleUser, KindText, text, ""))

	return s.begin(s.activeImage), nil
}

func (s *Session) begin(image string) *Turn {
	s.loading = true
	return &Turn{
		captioner: s.captioner,
		image:     image,
		prompt:    s.prompt,
	}
}

// Finish applies a turn's outcome: exactly one assistant message is appended
// and the loading flag clears. A second Finish for the same turn is a no-op.
func (s *Session) Finish(o Outcome) {
	if o.turn == nil || o.turn.finished {
		return
	}
	o.turn.finished = true

	if o.Err != nil {
		s.lastError = o.Err.Error()
		content := fmt.Sprintf("Sorry, I encountered an error. Please try again. (Error: %s)", o.Err)
		s.messages = append(s.messages, newMessage(RoleAssistant, KindText, content, ""))
	} else {
		s.messages = append(s.messages, newMessage(RoleAssistant, KindText, o.Text, ""))
	}

	s.loading = false
}

// Caption runs a turn to completion synchronously and applies its outcome.
// For callers without their own event loop.
func (s *Session) Caption(ctx context.Context, t *Turn) error {
	o := t.Run(ctx)
	s.Finish(o)
	return o.Err
}

// Turn is one captioning request, captured at the moment it was initiated.
// Running it performs the upstream call without mutating the session.
type Turn struct {
	captioner Captioner
	image     string
	prompt    string
	finished  bool
}

// Outcome is the single completion event of a turn. Exactly one of Text or
// Err is meaningful.
type Outcome struct {
	Text string
	Err  error

	turn *Turn
}

// Run invokes the captioner and packages the result. Safe to call from any
// goroutine; the session is only touched when the outcome is passed to
// Finish.
func (t *Turn) Run(ctx context.Context) Outcome {
	text, err := t.captioner.Caption(ctx, t.image, t.prompt)
	if err != nil {
		return Outcome{Err: err, turn: t}
	}
	return Outcome{Text: text, turn: t}
}
