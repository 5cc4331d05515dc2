package notify

import "log/slog"

// NopSink discards everything.
type NopSink struct{}

func (NopSink) Publish(Message) {}

// LogSink writes messages to a structured logger, mapping severity to level.
type LogSink struct {
	log *slog.Logger
}

// NewLogSink creates a LogSink. A nil logger discards.
func NewLogSink(log *slog.Logger) *LogSink {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &LogSink{log: log}
}

func (s *LogSink) Publish(m Message) {
	switch m.Severity {
	case SeverityError:
		s.log.Error(m.Text)
	case SeverityWarning:
		s.log.Warn(m.Text)
	default:
		s.log.Info(m.Text)
	}
}

// ChannelSink buffers messages for an out-of-process consumer (the IPC
// bridge to a UI). When the buffer is full the oldest unread message is
// dropped: progress is advisory, and a stalled consumer must not stall
// the engine.
type ChannelSink struct {
	ch chan Message
}

// NewChannelSink creates a ChannelSink with the given buffer capacity.
// Non-positive capacities get a small default.
func NewChannelSink(capacity int) *ChannelSink {
	if capacity <= 0 {
		capacity = 16
	}
	return &ChannelSink{ch: make(chan Message, capacity)}
}

func (s *ChannelSink) Publish(m Message) {
	for {
		select {
		case s.ch <- m:
			return
		default:
		}
		select {
		case <-s.ch:
		default:
		}
	}
}

// Messages returns the receive side of the buffer.
func (s *ChannelSink) Messages() <-chan Message {
	return s.ch
}

// MultiSink fans one message out to several sinks in order.
type MultiSink []Sink

func (s MultiSink) Publish(m Message) {
	for _, sink := range s {
		sink.Publish(m)
	}
}
