// Package ws is the seam between the game core and whatever UI the player
// runs. A client speaks HELLO, gets WELCOME, then submits ACT messages and
// receives RESULT (and, if requested, EVENT) messages. All actions funnel
// into the single run-loop goroutine; the transport never touches game state
// directly.
package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"farmstead.gg/internal/protocol"
	"farmstead.gg/internal/sim/farm"
)

type Server struct {
	game *farm.Game
	log  *log.Logger

	upgrader websocket.Upgrader

	sessionSeq atomic.Uint64

	mu   sync.Mutex
	subs map[chan []byte]struct{}
}

func NewServer(g *farm.Game, logger *log.Logger) *Server {
	return &Server{
		game: g,
		log:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // local UI only
		},
		subs: make(map[chan []byte]struct{}),
	}
}

// Broadcast pushes a game event to every subscribed client. Called from the
// run-loop goroutine; sends are non-blocking so a stalled client cannot stall
// the game.
func (s *Server) Broadcast(ev farm.Event) {
	msg := protocol.EventMsg{
		Type:  protocol.TypeEvent,
		Kind:  ev.Kind,
		At:    ev.At,
		Crop:  ev.Crop,
		X:     ev.X,
		Y:     ev.Y,
		Coins: ev.Coins,
		XP:    ev.XP,
		Level: ev.Level,
	}
	b, err := json.Marshal(msg)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for out := range s.subs {
		select {
		case out <- b:
		default:
		}
	}
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		out, wantEvents := s.handshake(conn)
		if out == nil {
			return
		}
		if wantEvents {
			s.mu.Lock()
			s.subs[out] = struct{}{}
			s.mu.Unlock()
			defer func() {
				s.mu.Lock()
				delete(s.subs, out)
				s.mu.Unlock()
			}()
		}

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		// Writer goroutine.
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case b, ok := <-out:
					if !ok {
						return
					}
					_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						cancel()
						return
					}
				}
			}
		}()

		// Reader loop.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(120 * time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				cancel()
				return
			}
			base, err := protocol.DecodeBase(msg)
			if err != nil || base.Type != protocol.TypeAct {
				s.refuse(out, "", protocol.ErrProtoBadRequest, "expected ACT")
				continue
			}
			var act protocol.ActMsg
			if err := json.Unmarshal(msg, &act); err != nil {
				s.refuse(out, "", protocol.ErrProtoBadRequest, "malformed ACT")
				continue
			}
			if act.ProtocolVersion != protocol.Version {
				s.refuse(out, act.ID, protocol.ErrProtoBadRequest, "bad protocol_version")
				continue
			}

			respCh := make(chan farm.Response, 1)
			s.game.Inbox() <- farm.Request{Act: act, Resp: respCh}
			resp := <-respCh

			result := protocol.ResultMsg{
				Type:    protocol.TypeResult,
				ID:      act.ID,
				OK:      resp.OK,
				Code:    resp.Code,
				Message: resp.Message,
				State:   &resp.State,
			}
			if b, err := json.Marshal(result); err == nil {
				select {
				case out <- b:
				default:
				}
			}
		}
	}
}

func (s *Server) handshake(conn *websocket.Conn) (out chan []byte, wantEvents bool) {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return nil, false
	}

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected HELLO"),
			time.Now().Add(time.Second))
		return nil, false
	}

	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		return nil, false
	}
	if hello.ProtocolVersion != protocol.Version {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "bad protocol_version"),
			time.Now().Add(time.Second))
		return nil, false
	}

	maxQ := hello.Capabilities.MaxQueue
	if maxQ <= 0 {
		maxQ = 16
	}
	if maxQ > 128 {
		maxQ = 128
	}
	out = make(chan []byte, maxQ)

	tune := s.game.Tuning()
	welcome := protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		SessionID:       fmt.Sprintf("S%d", s.sessionSeq.Add(1)),
		FarmParams: protocol.FarmParams{
			Width:                s.game.Farm().Width(),
			Height:               s.game.Farm().Height(),
			AutosaveSeconds:      tune.AutosaveSeconds,
			GrowthRefreshSeconds: tune.GrowthRefreshSeconds,
		},
		Catalog: protocol.CatalogDigest{
			Digest: s.game.Catalog().Digest,
			Count:  len(s.game.Catalog().Palette),
		},
	}
	if err := writeJSON(conn, welcome); err != nil {
		return nil, false
	}
	return out, hello.Capabilities.Events
}

func (s *Server) refuse(out chan []byte, id, code, msg string) {
	b, err := json.Marshal(protocol.ResultMsg{
		Type:    protocol.TypeResult,
		ID:      id,
		OK:      false,
		Code:    code,
		Message: msg,
	})
	if err != nil {
		return
	}
	select {
	case out <- b:
	default:
	}
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, b)
}
