package http

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/nats-io/nats.go"

	natsadapter "github.com/maubinnav/maubinnav/internal/adapters/nats"
	"github.com/maubinnav/maubinnav/internal/core/domain"
)

// wsMessage is sent from client to subscribe/unsubscribe to change feeds.
type wsMessage struct {
	Action string            `json:"action"` // "subscribe" | "unsubscribe"
	Kind   domain.RecordKind `json:"kind"`   // "" = every kind
}

var wsKinds = map[domain.RecordKind]bool{
	domain.KindCity:       true,
	domain.KindLocation:   true,
	domain.KindRoad:       true,
	domain.KindCityDetail: true,
}

func wsSubject(kind domain.RecordKind) string {
	if kind == "" {
		return natsadapter.Subject(">")
	}
	return natsadapter.Subject(kind)
}

// WebSocketHandler relays directory change events from NATS so map clients
// can refetch stale layers. Every client starts subscribed to all kinds
// and may narrow with {"action":"unsubscribe"} then
// {"action":"subscribe","kind":"roads"}.
func WebSocketHandler(nc *nats.Conn) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		remoteAddr := c.RemoteAddr().String()
		slog.Info("ws client connected", "remote", remoteAddr)

		var mu sync.Mutex
		subs := make(map[string]*nats.Subscription)

		writeJSON := func(v any) error {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		}
		relay := func(msg *nats.Msg) {
			_ = writeJSON(json.RawMessage(msg.Data))
		}

		all := wsSubject("")
		sub, err := nc.Subscribe(all, relay)
		if err != nil {
			slog.Error("ws default subscribe failed", "error", err)
			return
		}
		subs[all] = sub

		done := make(chan struct{})
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					mu.Lock()
					err := c.WriteMessage(websocket.PingMessage, nil)
					mu.Unlock()
					if err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}

			var m wsMessage
			if err := json.Unmarshal(msg, &m); err != nil {
				_ = writeJSON(map[string]string{"error": "invalid JSON"})
				continue
			}
			if m.Kind != "" && !wsKinds[m.Kind] {
				_ = writeJSON(map[string]string{"error": "unknown kind: " + string(m.Kind)})
				continue
			}
			subject := wsSubject(m.Kind)

			switch m.Action {
			case "subscribe":
				if _, exists := subs[subject]; exists {
					_ = writeJSON(map[string]string{"status": "already subscribed", "subject": subject})
					continue
				}
				s, err := nc.Subscribe(subject, relay)
				if err != nil {
					_ = writeJSON(map[string]string{"error": "subscribe failed: " + err.Error()})
					continue
				}
				subs[subject] = s
				_ = writeJSON(map[string]string{"status": "subscribed", "subject": subject})

			case "unsubscribe":
				s, exists := subs[subject]
				if !exists {
					_ = writeJSON(map[string]string{"error": "not subscribed to " + subject})
					continue
				}
				_ = s.Unsubscribe()
				delete(subs, subject)
				_ = writeJSON(map[string]string{"status": "unsubscribed", "subject": subject})

			default:
				_ = writeJSON(map[string]string{"error": "unknown action: " + m.Action})
			}
		}

		close(done)
		for _, s := range subs {
			_ = s.Unsubscribe()
		}
		slog.Info("ws client disconnected", "remote", remoteAddr)
	}
}
