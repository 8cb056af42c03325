package server

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestCleanupExpiredTokens_StopsOnCancel(t *testing.T) {
	s := &Server{logger: zerolog.Nop()}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		s.cleanupExpiredTokens(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup loop did not stop after context cancellation")
	}
}
