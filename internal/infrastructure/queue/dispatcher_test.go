package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shortlink/shortener-service/internal/core/ports"
)

type recordingService struct {
	mu     sync.Mutex
	seen   []ports.VisitInput
	block  chan struct{}
	failOn string
}

func (s *recordingService) Process(_ context.Context, v ports.VisitInput) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen = append(s.seen, v)
	if v.Code == s.failOn {
		return errors.New("boom")
	}
	return nil
}

func (s *recordingService) codes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.seen))
	for i, v := range s.seen {
		out[i] = v.Code
	}
	return out
}

func TestDispatcher_ProcessesAndDrainsOnStop(t *testing.T) {
	svc := &recordingService{failOn: "bad"}
	d := NewDispatcher(3, svc, zerolog.Nop())
	d.Start(context.Background())

	for _, code := range []string{"a1", "b2", "bad", "c3"} {
		require.True(t, d.Enqueue(ports.VisitInput{Code: code, At: time.Now()}))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, d.Stop(ctx))

	assert.ElementsMatch(t, []string{"a1", "b2", "bad", "c3"}, svc.codes())
	assert.False(t, d.Enqueue(ports.VisitInput{Code: "late"}), "stopped dispatcher must reject visits")
}

func TestDispatcher_PreservesOrderPerCode(t *testing.T) {
	svc := &recordingService{}
	d := NewDispatcher(4, svc, zerolog.Nop())
	d.Start(context.Background())

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 50; i++ {
		d.Enqueue(ports.VisitInput{Code: "same", At: base.Add(time.Duration(i) * time.Second)})
	}
	require.NoError(t, d.Stop(context.Background()))

	svc.mu.Lock()
	defer svc.mu.Unlock()
	require.Len(t, svc.seen, 50)
	for i := 1; i < len(svc.seen); i++ {
		assert.True(t, svc.seen[i].At.After(svc.seen[i-1].At))
	}
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	svc := &recordingService{block: make(chan struct{})}
	d := NewDispatcher(1, svc, zerolog.Nop())
	d.Start(context.Background())

	accepted := 0
	for i := 0; i < channelBuffer+10; i++ {
		if d.Enqueue(ports.VisitInput{Code: "x"}) {
			accepted++
		}
	}
	// One visit may already be held by the blocked worker.
	assert.LessOrEqual(t, accepted, channelBuffer+1)
	assert.Less(t, accepted, channelBuffer+10)

	close(svc.block)
	require.NoError(t, d.Stop(context.Background()))
	assert.Len(t, svc.codes(), accepted)
}

func TestDispatcher_StopHonoursDeadline(t *testing.T) {
	svc := &recordingService{block: make(chan struct{})}
	defer close(svc.block)
	d := NewDispatcher(1, svc, zerolog.Nop())
	d.Start(context.Background())
	d.Enqueue(ports.VisitInput{Code: "slow"})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, d.Stop(ctx), context.DeadlineExceeded)
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(8, &recordingService{}, zerolog.Nop())
	first := d.shardIndex("abc123")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, d.shardIndex("abc123"))
	}
	assert.GreaterOrEqual(t, first, 0)
	assert.Less(t, first, 8)
}
