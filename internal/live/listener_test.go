package live

import (
	"context"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/coder/websocket"
)

// eventServer accepts websocket connections on /ws/events/ and pushes
// whatever frames the test feeds it.
type eventServer struct {
	srv      *httptest.Server
	accepts  atomic.Int32
	dropConn bool // close each connection right after accepting

	mu    sync.Mutex
	conns []*websocket.Conn
}

func newEventServer(t *testing.T) *eventServer {
	t.Helper()

	es := &eventServer{}
	es.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("token") == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: []string{"*"},
		})
		if err != nil {
			return
		}
		es.accepts.Add(1)

		if es.dropConn {
			_ = conn.Close(websocket.StatusGoingAway, "test drop")
			return
		}

		es.mu.Lock()
		es.conns = append(es.conns, conn)
		es.mu.Unlock()

		// Hold the connection open; the test pushes frames via push().
		ctx := r.Context()
		for {
			if _, _, err := conn.Read(ctx); err != nil {
				return
			}
		}
	}))
	t.Cleanup(es.srv.Close)
	return es
}

// push sends a raw text frame to every open connection.
func (es *eventServer) push(t *testing.T, frame string) {
	t.Helper()

	es.mu.Lock()
	conns := make([]*websocket.Conn, len(es.conns))
	copy(conns, es.conns)
	es.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	for _, conn := range conns {
		if err := conn.Write(ctx, websocket.MessageText, []byte(frame)); err != nil {
			t.Logf("push failed: %v", err)
		}
	}
}

func (es *eventServer) wsURL() string {
	return "ws" + strings.TrimPrefix(es.srv.URL, "http")
}

func testListener(t *testing.T, es *eventServer, onEvent func()) *Listener {
	t.Helper()

	l, err := New(&Config{
		URL:               es.wsURL(),
		Token:             "test-token",
		ClientID:          "42",
		DebounceInterval:  50 * time.Millisecond,
		ReconnectInterval: 30 * time.Millisecond,
		Logger:            log.New(os.Stderr, "[live-test] ", log.LstdFlags),
	})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if err := l.Start(onEvent); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	t.Cleanup(func() { _ = l.Close() })
	return l
}

// waitFor polls until the condition holds or the deadline passes.
func waitFor(t *testing.T, d time.Duration, cond func() bool, msg string) {
	t.Helper()

	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", msg)
}

func TestListenerDebounceCoalescing(t *testing.T) {
	es := newEventServer(t)

	var triggers atomic.Int32
	l := testListener(t, es, func() { triggers.Add(1) })

	waitFor(t, 2*time.Second, func() bool { return l.Status() == StatusOpen }, "open channel")

	// A burst of relevant events within the debounce window...
	for i := 0; i < 5; i++ {
		es.push(t, `{"event":"content_item_status_changed"}`)
	}

	// ...collapses into exactly one trigger.
	waitFor(t, 2*time.Second, func() bool { return triggers.Load() == 1 }, "first trigger")
	time.Sleep(150 * time.Millisecond)
	if got := triggers.Load(); got != 1 {
		t.Fatalf("expected 1 coalesced trigger, got %d", got)
	}

	// A later event starts a fresh window.
	es.push(t, `{"event":"comment_added"}`)
	waitFor(t, 2*time.Second, func() bool { return triggers.Load() == 2 }, "second trigger")
}

func TestListenerIgnoresIrrelevantAndMalformed(t *testing.T) {
	es := newEventServer(t)

	var triggers atomic.Int32
	l := testListener(t, es, func() { triggers.Add(1) })

	waitFor(t, 2*time.Second, func() bool { return l.Status() == StatusOpen }, "open channel")

	es.push(t, `not json at all`)
	es.push(t, `{"data": {"x": 1}}`)
	es.push(t, `{"event":"user_typing"}`)

	time.Sleep(200 * time.Millisecond)
	if got := triggers.Load(); got != 0 {
		t.Fatalf("expected no triggers, got %d", got)
	}
}

// TestListenerCloseIsTerminal verifies that no callback fires after
// Close, even when an event had already armed the debounce timer.
func TestListenerCloseIsTerminal(t *testing.T) {
	es := newEventServer(t)

	var triggers atomic.Int32
	l := testListener(t, es, func() { triggers.Add(1) })

	waitFor(t, 2*time.Second, func() bool { return l.Status() == StatusOpen }, "open channel")

	es.push(t, `{"event":"content_item_updated"}`)
	if err := l.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	time.Sleep(200 * time.Millisecond)
	if got := triggers.Load(); got != 0 {
		t.Fatalf("expected no triggers after Close, got %d", got)
	}
	if l.Status() != StatusClosed {
		t.Errorf("expected closed status, got %s", l.Status())
	}

	// Close is idempotent.
	if err := l.Close(); err != nil {
		t.Errorf("second Close() failed: %v", err)
	}
}

// TestListenerCloseWaitsForDebounce races Close against a debounce timer
// that is about to fire. Whatever happens inside that window, the
// callback must never run after Close has returned.
func TestListenerCloseWaitsForDebounce(t *testing.T) {
	for i := 0; i < 20; i++ {
		es := newEventServer(t)

		var triggers atomic.Int32
		l, err := New(&Config{
			URL:               es.wsURL(),
			Token:             "test-token",
			ClientID:          "42",
			DebounceInterval:  time.Nanosecond,
			ReconnectInterval: 30 * time.Millisecond,
			Logger:            log.New(os.Stderr, "[live-test] ", log.LstdFlags),
		})
		if err != nil {
			t.Fatalf("New() failed: %v", err)
		}
		if err := l.Start(func() { triggers.Add(1) }); err != nil {
			t.Fatalf("Start() failed: %v", err)
		}

		waitFor(t, 2*time.Second, func() bool { return l.Status() == StatusOpen }, "open channel")
		es.push(t, `{"event":"comment_added"}`)

		if err := l.Close(); err != nil {
			t.Fatalf("Close() failed: %v", err)
		}
		settled := triggers.Load()
		time.Sleep(20 * time.Millisecond)
		if got := triggers.Load(); got != settled {
			t.Fatalf("callback ran after Close returned (%d -> %d)", settled, got)
		}
	}
}

func TestListenerReconnects(t *testing.T) {
	es := newEventServer(t)
	es.dropConn = true

	l := testListener(t, es, func() {})

	// Each accepted connection is dropped immediately; the listener must
	// keep coming back on its fixed backoff.
	waitFor(t, 3*time.Second, func() bool { return es.accepts.Load() >= 3 }, "reconnect attempts")

	_ = l.Close()
	time.Sleep(100 * time.Millisecond) // let any in-flight dial settle
	settled := es.accepts.Load()
	time.Sleep(200 * time.Millisecond)
	if got := es.accepts.Load(); got != settled {
		t.Fatalf("listener kept reconnecting after Close (%d -> %d)", settled, got)
	}
}

func TestListenerNoopWithoutPartition(t *testing.T) {
	l, err := New(&Config{
		URL:   "ws://localhost:1", // would fail if dialed
		Token: "tok",
		// no ClientID
	})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if err := l.Start(func() {}); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	time.Sleep(50 * time.Millisecond)
	if l.Status() != StatusDisconnected {
		t.Errorf("no-op listener must stay disconnected, got %s", l.Status())
	}
	if err := l.Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}
}

func TestListenerNoopOffline(t *testing.T) {
	l, err := New(&Config{Offline: true, ClientID: "42"})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if err := l.Start(func() {}); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}
}

func TestListenerValidation(t *testing.T) {
	if _, err := New(&Config{ClientID: "42"}); err == nil {
		t.Error("expected error for missing URL")
	}
	if _, err := New(&Config{URL: "ws://x", ClientID: "42"}); err == nil {
		t.Error("expected error for missing token")
	}

	l, err := New(&Config{URL: "ws://x", Token: "t", ClientID: "42", Offline: true})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if err := l.Start(nil); err == nil {
		t.Error("expected error for nil callback")
	}
}
