package cli

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestSpinnerSilentOnNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(context.Background(), &buf, "Rendering graph...")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	if buf.Len() != 0 {
		t.Errorf("spinner wrote %q to a non-terminal writer", buf.String())
	}
	if s.Cancelled() {
		t.Error("Stop should not report cancellation")
	}
}

func TestSpinnerWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := newSpinner(ctx, &bytes.Buffer{}, "Testing with context...")
	s.Start()
	cancel()
	s.Stop()

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context cancellation")
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner(context.Background(), &bytes.Buffer{}, "Testing idempotent stop...")
	s.Start()

	// Stop multiple times should not panic or block
	s.Stop()
	s.Stop()
	s.Stop()
}
