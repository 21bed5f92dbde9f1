package elevator

import (
	"sync"
	"sync/atomic"
)

// EventSink receives step events as phases are announced.
// EventSink는 단계가 시작될 때마다 StepEvent를 받습니다.
type EventSink interface {
	Publish(StepEvent)
}

// SinkFunc adapts a plain function to EventSink.
type SinkFunc func(StepEvent)

// Publish calls f(ev).
func (f SinkFunc) Publish(ev StepEvent) {
	f(ev)
}

// ChannelSink forwards events to a bounded channel.
// Publish never blocks the engine: when the buffer is full the event is
// dropped and counted. The engine history keeps every event regardless.
// ChannelSink는 버퍼 채널로 이벤트를 전달하며, 가득 차면 이벤트를 버리고 카운트합니다.
type ChannelSink struct {
	mu      sync.RWMutex
	ch      chan StepEvent
	closed  bool
	dropped atomic.Uint64
}

// NewChannelSink creates a sink with the given buffer size.
func NewChannelSink(size int) *ChannelSink {
	if size < 1 {
		size = 1
	}
	return &ChannelSink{ch: make(chan StepEvent, size)}
}

// Events returns the read-only event channel. It is closed by Close.
func (s *ChannelSink) Events() <-chan StepEvent {
	return s.ch
}

// Publish implements EventSink.
func (s *ChannelSink) Publish(ev StepEvent) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		s.dropped.Add(1)
		return
	}
	select {
	case s.ch <- ev:
	default:
		s.dropped.Add(1)
	}
}

// Dropped returns how many events did not fit into the buffer.
func (s *ChannelSink) Dropped() uint64 {
	return s.dropped.Load()
}

// Close closes the event channel. Later publishes are dropped.
func (s *ChannelSink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}
