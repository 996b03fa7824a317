// Package scanner models barcode capture. Decoding itself is an external
// capability: any concrete library that can turn a frame stream into
// decoded strings satisfies FrameDecoder. The session logic around it —
// one token at a time, exclusive source ownership, release on every exit
// path — is what this package implements.
package scanner

import (
	"context"
	"sync"
	"time"
)

// FrameSource is a live stream of camera frames. The active scan session
// owns it exclusively; Release stops the underlying capture and is safe to
// call more than once.
type FrameSource interface {
	Frames() <-chan []byte
	Release()
}

// FrameDecoder produces a lazy, unbounded sequence of decoded strings from
// a frame source. The returned channel closes when ctx is done or the
// source's frame stream ends. A decoder sends nothing while no code is
// visible.
type FrameDecoder interface {
	Decode(ctx context.Context, src FrameSource) <-chan string
}

// SimulatedSource is a FrameSource for the demo variant: it produces no
// real frames and just tracks release.
type SimulatedSource struct {
	frames   chan []byte
	released chan struct{}
	once     sync.Once
}

// NewSimulatedSource creates a source with no frames.
func NewSimulatedSource() *SimulatedSource {
	return &SimulatedSource{
		frames:   make(chan []byte),
		released: make(chan struct{}),
	}
}

func (s *SimulatedSource) Frames() <-chan []byte { return s.frames }

func (s *SimulatedSource) Release() {
	s.once.Do(func() { close(s.released) })
}

// Released reports whether the source has been stopped.
func (s *SimulatedSource) Released() bool {
	select {
	case <-s.released:
		return true
	default:
		return false
	}
}

// SimulatedDecoder emits a scripted sequence of tokens, one per interval,
// ignoring the frame source. It stands in for a real decoding library in
// the demo variant and in tests.
type SimulatedDecoder struct {
	Tokens   []string
	Interval time.Duration
}

func (d *SimulatedDecoder) Decode(ctx context.Context, _ FrameSource) <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)
		for _, token := range d.Tokens {
			if d.Interval > 0 {
				select {
				case <-time.After(d.Interval):
				case <-ctx.Done():
					return
				}
			}
			select {
			case out <- token:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
