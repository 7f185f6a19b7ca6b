package kafka

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPublishAfterCloseDoesNotPanic(t *testing.T) {
	p := NewProducer([]string{"localhost:9092"}, "order.created", 4)

	p.Close()
	require.NotPanics(t, func() { p.Publish([]byte("k"), []byte("v")) })
	require.NotPanics(t, p.Close, "Close harus idempoten")
}

func TestCloseStopsLoop(t *testing.T) {
	p := NewProducer([]string{"localhost:9092"}, "order.created", 4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)

	p.Close()

	done := make(chan struct{})
	go func() {
		p.WaitClosed()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("producer loop tidak berhenti setelah Close")
	}
}
