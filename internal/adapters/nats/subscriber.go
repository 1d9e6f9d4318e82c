package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/maubinnav/maubinnav/internal/core/domain"
	"github.com/maubinnav/maubinnav/internal/pkg/metrics"
)

// handlerTimeout bounds one handler call; a slow handler is redelivered.
const handlerTimeout = 10 * time.Second

// Subscriber implements ports.EventSubscriber using NATS JetStream.
type Subscriber struct {
	conn *nats.Conn
	js   nats.JetStreamContext
	subs []*nats.Subscription
}

// NewSubscriber connects to NATS for consuming change events.
func NewSubscriber(url string) (*Subscriber, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	return &Subscriber{conn: conn, js: js}, nil
}

// SubscribeChanges delivers every change event published from now on
// until ctx is done. Each process gets its own ephemeral consumer, so every
// API instance sees every event. Malformed events are terminated; handler
// errors are retried up to three deliveries.
func (s *Subscriber) SubscribeChanges(ctx context.Context, handler func(ctx context.Context, event domain.ChangeEvent) error) error {
	sub, err := s.js.Subscribe(subjectChanges, func(msg *nats.Msg) {
		var event domain.ChangeEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil || !knownKind(event.Kind) {
			slog.Warn("dropping malformed change event", "subject", msg.Subject, "error", err)
			metrics.ChangeEventsConsumed.WithLabelValues("unknown", "malformed").Inc()
			_ = msg.Term()
			return
		}

		hctx, cancel := context.WithTimeout(ctx, handlerTimeout)
		defer cancel()
		if err := handler(hctx, event); err != nil {
			slog.Warn("change event handler failed", "kind", event.Kind, "id", event.ID, "error", err)
			metrics.ChangeEventsConsumed.WithLabelValues(string(event.Kind), "retry").Inc()
			_ = msg.Nak()
			return
		}
		metrics.ChangeEventsConsumed.WithLabelValues(string(event.Kind), "ok").Inc()
		_ = msg.Ack()
	},
		nats.DeliverNew(),
		nats.ManualAck(),
		nats.MaxDeliver(3),
		nats.AckWait(2*handlerTimeout),
	)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", subjectChanges, err)
	}
	s.subs = append(s.subs, sub)

	go func() {
		<-ctx.Done()
		_ = sub.Unsubscribe()
	}()
	return nil
}

func knownKind(k domain.RecordKind) bool {
	switch k {
	case domain.KindCity, domain.KindLocation, domain.KindRoad, domain.KindCityDetail:
		return true
	}
	return false
}

// Close unsubscribes and drains the connection.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	_ = s.conn.Drain()
}
