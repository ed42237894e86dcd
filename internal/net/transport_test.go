package net

import (
	"errors"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"PerfectCircle/internal/config"
	"PerfectCircle/internal/state"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendMsg(t *testing.T, conn *websocket.Conn, typ string, payload any) {
	t.Helper()
	b, err := Encode(typ, payload)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func readEnv(t *testing.T, conn *websocket.Conn) Envelope {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, b, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	env, err := DecodeEnvelope(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return env
}

func readState(t *testing.T, conn *websocket.Conn) state.Snapshot {
	t.Helper()
	env := readEnv(t, conn)
	if env.T != MsgState {
		t.Fatalf("expected state message, got %q", env.T)
	}
	snap, err := DecodePayload[state.Snapshot](env)
	if err != nil {
		t.Fatalf("decode state: %v", err)
	}
	return snap
}

func newTestServer(t *testing.T) *httptest.Server {
	srv := httptest.NewServer(NewServer(config.Default()).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func TestServesPage(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), `id="circle-canvas"`) {
		t.Fatalf("page does not contain the canvas")
	}
}

func TestWebSocketGame(t *testing.T) {
	srv := newTestServer(t)
	conn := dial(t, srv)

	env := readEnv(t, conn)
	if env.T != MsgConfig {
		t.Fatalf("first message: got %q, want config", env.T)
	}
	cc, err := DecodePayload[CanvasConfig](env)
	if err != nil || cc.Width != 500 || cc.CenterRadius != 6 {
		t.Fatalf("config: %+v err=%v", cc, err)
	}
	initial := readState(t, conn)
	if initial.Feedback != state.MsgPrompt || initial.Center != (state.Point{X: 250, Y: 250}) {
		t.Fatalf("initial state: %+v", initial)
	}

	// a move before any press is ignored and produces no reply
	sendMsg(t, conn, MsgMove, state.Point{X: 1, Y: 1})

	const n = 24
	at := func(i int) state.Point {
		a := 2 * math.Pi * float64(i) / n
		return state.Point{X: 250 + 100*math.Cos(a), Y: 250 + 100*math.Sin(a)}
	}
	sendMsg(t, conn, MsgDown, at(0))
	if s := readState(t, conn); !s.Active || len(s.Points) != 1 || s.Feedback != state.MsgDrawing {
		t.Fatalf("after down: %+v", s)
	}
	for i := 1; i <= n; i++ {
		sendMsg(t, conn, MsgMove, at(i))
		if s := readState(t, conn); len(s.Points) != i+1 {
			t.Fatalf("after move %d: %d points", i, len(s.Points))
		}
	}
	sendMsg(t, conn, MsgUp, nil)
	done := readState(t, conn)
	if done.Active || done.Score != 100 || done.Best != 100 {
		t.Fatalf("after up: active=%v score=%d best=%d", done.Active, done.Score, done.Best)
	}

	sendMsg(t, conn, MsgReset, nil)
	reset := readState(t, conn)
	if reset.Score != 0 || reset.Best != 100 || len(reset.Points) != 0 {
		t.Fatalf("after reset: %+v", reset)
	}
}

func TestConnectionsHaveSeparateTrackers(t *testing.T) {
	srv := newTestServer(t)
	a := dial(t, srv)
	b := dial(t, srv)
	readEnv(t, a)
	readState(t, a)
	readEnv(t, b)
	readState(t, b)

	sendMsg(t, a, MsgDown, state.Point{X: 5, Y: 5})
	readState(t, a)

	sendMsg(t, b, MsgReset, nil)
	if s := readState(t, b); len(s.Points) != 0 || s.Active {
		t.Fatalf("connection b saw a's drawing: %+v", s)
	}
}

func TestBadMessagesAreSkipped(t *testing.T) {
	srv := newTestServer(t)
	conn := dial(t, srv)
	readEnv(t, conn)
	readState(t, conn)

	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatalf("write: %v", err)
	}
	sendMsg(t, conn, "wave", nil)
	sendMsg(t, conn, MsgDown, nil)

	// connection must still be usable
	sendMsg(t, conn, MsgReset, nil)
	if s := readState(t, conn); s.Feedback != state.MsgPrompt {
		t.Fatalf("after reset: %+v", s)
	}
}

func TestDispatchUnknownType(t *testing.T) {
	tr := config.Default().NewTracker()
	err := Dispatch(tr, Envelope{T: "wave"})
	if !errors.Is(err, ErrUnknownMessage) {
		t.Fatalf("expected ErrUnknownMessage, got %v", err)
	}
}

func TestEncodeWithoutPayload(t *testing.T) {
	b, err := Encode(MsgUp, nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(b) != `{"t":"up"}` {
		t.Fatalf("got %s", b)
	}
	if _, err := Encode("", nil); err == nil {
		t.Fatalf("expected error for empty type")
	}
}

func TestShareURL(t *testing.T) {
	resolve := func() (string, error) { return "192.168.1.20", nil }
	url, port, err := ShareURL(":8888", resolve)
	if err != nil || url != "http://192.168.1.20:8888/" || port != 8888 {
		t.Fatalf("got %q %d %v", url, port, err)
	}
	url, _, err = ShareURL("127.0.0.1:9000", resolve)
	if err != nil || url != "http://127.0.0.1:9000/" {
		t.Fatalf("got %q %v", url, err)
	}
	if _, _, err := ShareURL("nonsense", resolve); err == nil {
		t.Fatalf("expected error for bad address")
	}
}
