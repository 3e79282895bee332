package ws

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"farmstead.gg/internal/protocol"
	"farmstead.gg/internal/sim/crops"
	"farmstead.gg/internal/sim/farm"
	"farmstead.gg/internal/sim/tuning"
)

func testServer(t *testing.T) (*Server, *farm.Game) {
	t.Helper()

	catalog := &crops.Catalog{
		Defs: map[string]crops.Def{
			"RADISH": {ID: "RADISH", Name: "Radish", GrowthSeconds: 30, SeedCost: 10, SellPrice: 15, XPReward: 10, UnlockLevel: 1},
		},
		Palette: []string{"RADISH"},
		Digest:  "test",
	}
	g := farm.New(catalog, tuning.Defaults())
	srv := NewServer(g, log.New(io.Discard, "", 0))
	g.SetEvents(srv.Broadcast)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		g.Run(ctx, farm.LoopConfig{AutosaveEvery: time.Hour})
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return srv, g
}

func dialTest(t *testing.T, srv *Server) *websocket.Conn {
	t.Helper()
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func recv(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if err := json.Unmarshal(msg, v); err != nil {
		t.Fatalf("unmarshal %s: %v", msg, err)
	}
}

func hello(t *testing.T, conn *websocket.Conn, events bool) protocol.WelcomeMsg {
	t.Helper()
	send(t, conn, protocol.HelloMsg{
		Type:            protocol.TypeHello,
		ProtocolVersion: protocol.Version,
		ClientName:      "test",
		Capabilities:    protocol.HelloCapabilities{Events: events},
	})
	var welcome protocol.WelcomeMsg
	recv(t, conn, &welcome)
	return welcome
}

func TestServer_HandshakeAndAct(t *testing.T) {
	srv, _ := testServer(t)
	conn := dialTest(t, srv)

	welcome := hello(t, conn, false)
	if welcome.Type != protocol.TypeWelcome || welcome.ProtocolVersion != protocol.Version {
		t.Fatalf("welcome: %+v", welcome)
	}
	if welcome.FarmParams.Width != 4 || welcome.FarmParams.Height != 4 {
		t.Fatalf("farm params: %+v", welcome.FarmParams)
	}
	if welcome.Catalog.Digest != "test" || welcome.Catalog.Count != 1 {
		t.Fatalf("catalog digest: %+v", welcome.Catalog)
	}

	send(t, conn, protocol.ActMsg{
		Type:            protocol.TypeAct,
		ProtocolVersion: protocol.Version,
		ID:              "a1",
		Action:          protocol.ActPlant,
		Crop:            "RADISH",
	})
	var result protocol.ResultMsg
	recv(t, conn, &result)
	if result.ID != "a1" || !result.OK {
		t.Fatalf("result: %+v", result)
	}
	if result.State == nil || result.State.Player.Coins != 90 {
		t.Fatalf("result state: %+v", result.State)
	}
	if len(result.State.Farm.Plots) != 1 {
		t.Fatalf("plots: %+v", result.State.Farm.Plots)
	}
}

func TestServer_RefusalCarriesCode(t *testing.T) {
	srv, _ := testServer(t)
	conn := dialTest(t, srv)
	hello(t, conn, false)

	send(t, conn, protocol.ActMsg{
		Type:            protocol.TypeAct,
		ProtocolVersion: protocol.Version,
		ID:              "a1",
		Action:          protocol.ActHarvest,
	})
	var result protocol.ResultMsg
	recv(t, conn, &result)
	if result.OK || result.Code != protocol.ErrEmptySlot {
		t.Fatalf("result: %+v", result)
	}
	if !protocol.IsKnownCode(result.Code) {
		t.Fatalf("unknown code %q", result.Code)
	}
}

func TestServer_RejectsNonActMessages(t *testing.T) {
	srv, _ := testServer(t)
	conn := dialTest(t, srv)
	hello(t, conn, false)

	send(t, conn, protocol.HelloMsg{Type: protocol.TypeHello, ProtocolVersion: protocol.Version, ClientName: "again"})
	var result protocol.ResultMsg
	recv(t, conn, &result)
	if result.OK || result.Code != protocol.ErrProtoBadRequest {
		t.Fatalf("result: %+v", result)
	}
}

func TestServer_RejectsBadVersionHandshake(t *testing.T) {
	srv, _ := testServer(t)
	conn := dialTest(t, srv)

	send(t, conn, protocol.HelloMsg{Type: protocol.TypeHello, ProtocolVersion: "0.9", ClientName: "old"})
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatalf("connection survived bad version")
	}
}

func TestServer_BroadcastsEvents(t *testing.T) {
	srv, _ := testServer(t)
	conn := dialTest(t, srv)
	hello(t, conn, true)

	send(t, conn, protocol.ActMsg{
		Type:            protocol.TypeAct,
		ProtocolVersion: protocol.Version,
		ID:              "a1",
		Action:          protocol.ActPlant,
		Crop:            "RADISH",
	})

	// Expect a PLANT event and the RESULT, in either order.
	var sawEvent, sawResult bool
	for i := 0; i < 2; i++ {
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		base, err := protocol.DecodeBase(msg)
		if err != nil {
			t.Fatalf("decode %s: %v", msg, err)
		}
		switch base.Type {
		case protocol.TypeEvent:
			var ev protocol.EventMsg
			if err := json.Unmarshal(msg, &ev); err != nil {
				t.Fatalf("event: %v", err)
			}
			if ev.Kind != farm.EventPlant || ev.Crop != "RADISH" {
				t.Fatalf("event: %+v", ev)
			}
			sawEvent = true
		case protocol.TypeResult:
			sawResult = true
		default:
			t.Fatalf("unexpected message %s", msg)
		}
	}
	if !sawEvent || !sawResult {
		t.Fatalf("event=%v result=%v", sawEvent, sawResult)
	}
}
