package scanner

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestSessionProcessesOneToken(t *testing.T) {
	src := NewSimulatedSource()
	var got []string

	session := &Session{
		Decoder: &SimulatedDecoder{Tokens: []string{"BOX-1", "BOX-2", "BOX-3"}},
		Source:  src,
		Handle: func(_ context.Context, token string) error {
			got = append(got, token)
			return nil
		},
	}

	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// One scan, one transition: later tokens are never handled.
	if len(got) != 1 || got[0] != "BOX-1" {
		t.Errorf("expected exactly the first token, got %v", got)
	}
	if !src.Released() {
		t.Error("source must be released after a successful scan")
	}
}

func TestSessionReleasesOnHandlerError(t *testing.T) {
	src := NewSimulatedSource()
	handlerErr := errors.New("line 99 not found")

	session := &Session{
		Decoder: &SimulatedDecoder{Tokens: []string{"BOX-1"}},
		Source:  src,
		Handle:  func(context.Context, string) error { return handlerErr },
	}

	if err := session.Run(context.Background()); !errors.Is(err, handlerErr) {
		t.Fatalf("expected handler error, got %v", err)
	}
	if !src.Released() {
		t.Error("source must be released when the handler fails")
	}
}

func TestSessionReleasesOnCancel(t *testing.T) {
	src := NewSimulatedSource()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	session := &Session{
		// A long interval so no token arrives before cancellation wins.
		Decoder: &SimulatedDecoder{Tokens: []string{"BOX-1"}, Interval: time.Minute},
		Source:  src,
		Handle: func(context.Context, string) error {
			t.Error("handler must not run after cancellation")
			return nil
		},
	}

	if err := session.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if !src.Released() {
		t.Error("source must be released on cancellation")
	}
}

func TestSessionNoTokens(t *testing.T) {
	src := NewSimulatedSource()

	session := &Session{
		Decoder: &SimulatedDecoder{},
		Source:  src,
		Handle: func(context.Context, string) error {
			t.Error("handler must not run without a token")
			return nil
		},
	}

	if err := session.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !src.Released() {
		t.Error("source must be released when the stream ends")
	}
}

func TestSimulatedSourceReleaseIsIdempotent(t *testing.T) {
	src := NewSimulatedSource()
	src.Release()
	src.Release()
	if !src.Released() {
		t.Error("expected released state")
	}
}

func TestSimulatedSourceReleaseConcurrent(t *testing.T) {
	src := NewSimulatedSource()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			src.Release()
		}()
	}
	wg.Wait()

	if !src.Released() {
		t.Error("expected released state")
	}
}
