package spectate

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/brensch/termsnake/session"
	"github.com/gorilla/websocket"
)

var dialer = websocket.Dialer{
	HandshakeTimeout: 5 * time.Second,
}

func wsURL(ts *httptest.Server) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + "/spectate"
}

func readFrame(t *testing.T, conn *websocket.Conn) session.Frame {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var f session.Frame
	if err := conn.ReadJSON(&f); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	return f
}

func TestSpectate_StreamsFrames(t *testing.T) {
	srv := New(nil)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()
	defer srv.Close()

	first := session.Frame{RoundID: "r1", Turn: 0, Status: session.StatusLine(100), Rows: []string{"###", "#@#", "###"}, Score: 100}
	if err := srv.Render(first); err != nil {
		t.Fatalf("render: %v", err)
	}

	conn, _, err := dialer.Dial(wsURL(ts), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// A new watcher gets the latest frame straight away.
	got := readFrame(t, conn)
	if got.RoundID != "r1" || got.Score != 100 || len(got.Rows) != 3 {
		t.Fatalf("first frame=%+v", got)
	}
	if srv.Watchers() != 1 {
		t.Fatalf("watchers=%d want=1", srv.Watchers())
	}

	second := first
	second.Turn = 1
	second.Over = true
	second.Cause = "wall"
	if err := srv.Render(second); err != nil {
		t.Fatalf("render: %v", err)
	}
	got = readFrame(t, conn)
	if got.Turn != 1 || !got.Over || got.Cause != "wall" {
		t.Fatalf("second frame=%+v", got)
	}
}

func TestSpectate_CloseDisconnectsWatchers(t *testing.T) {
	srv := New(nil)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	_ = srv.Render(session.Frame{Status: session.StatusLine(100)})
	conn, _, err := dialer.Dial(wsURL(ts), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	readFrame(t, conn)

	srv.Close()

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, _, err = conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Fatalf("err=%v want normal close", err)
	}

	// Late watchers are turned away.
	late, _, err := dialer.Dial(wsURL(ts), nil)
	if err != nil {
		t.Fatalf("dial late: %v", err)
	}
	defer late.Close()
	_ = late.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, _, err = late.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseGoingAway) {
		t.Fatalf("late err=%v want going away", err)
	}
}

func TestSpectate_FrameEndpoint(t *testing.T) {
	srv := New(nil)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/frame")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status=%d want=204", resp.StatusCode)
	}

	_ = srv.Render(session.Frame{Status: session.StatusLine(300), Rows: []string{"#o#"}})
	resp, err = http.Get(ts.URL + "/frame")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "Snake Game, Score: 300\n#o#\n" {
		t.Fatalf("body=%q", body)
	}
}

func TestSpectate_ServeStopsWithContext(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srv := New(nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("serve did not stop")
	}
}
