package scanner

import (
	"context"
	"time"
)

// Handler runs one transition for a decoded token. There is no timeout on
// an in-flight handler and no retry: it succeeds or fails exactly once.
type Handler func(ctx context.Context, token string) error

// Session drives one scan: it reads a single decoded token from the
// decoder, runs the handler, and releases the frame source on every exit
// path — cancellation, handler error, or success (after ShowDelay, so the
// user can see the decoded value). Decoding is paused while the handler
// runs simply because the session stops draining the decoder.
type Session struct {
	Decoder FrameDecoder
	Source  FrameSource
	Handle  Handler

	// ShowDelay holds the source open briefly after a successful scan.
	ShowDelay time.Duration
}

// Run blocks until one token is processed or ctx is cancelled. The frame
// source is always released before Run returns.
func (s *Session) Run(ctx context.Context) error {
	defer s.Source.Release()

	tokens := s.Decoder.Decode(ctx, s.Source)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case token, ok := <-tokens:
		if !ok {
			// Source ended without a decode; nothing to do.
			return nil
		}
		if err := s.Handle(ctx, token); err != nil {
			return err
		}
		if s.ShowDelay > 0 {
			select {
			case <-time.After(s.ShowDelay):
			case <-ctx.Done():
			}
		}
		return nil
	}
}
