// Package live subscribes to the backend's push channel and turns bursts
// of board-relevant events into debounced convergence triggers.
//
// The listener never interprets event payloads. Its only output is "the
// board probably changed, refetch it", delivered at most once per
// debounce window no matter how many events arrive. Reconnection after
// an unsolicited close is automatic with a fixed backoff; Close tears
// everything down terminally.
package live

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/coder/websocket"
)

// Event is a push-channel frame. Frames that do not decode to this shape,
// or carry an empty event name, are silently discarded.
type Event struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// relevantEvents is the allow-list of event kinds that indicate the board
// (or its invoice sidebar data) changed on the server.
var relevantEvents = map[string]bool{
	"comment_added":               true,
	"content_item_status_changed": true,
	"content_item_updated":        true,
	"invoice_item_recorded":       true,
	"invoice_status_changed":      true,
}

// Config holds listener configuration.
type Config struct {
	// URL is the websocket base, e.g. "ws://localhost:8000".
	URL string

	// Token authenticates the channel. Required in online mode.
	Token string

	// ClientID scopes the channel to one board partition. With no
	// partition selected the listener is a no-op.
	ClientID string

	// DebounceInterval is how long to wait after the last relevant
	// event before firing the convergence callback (default: 250ms).
	DebounceInterval time.Duration

	// ReconnectInterval is the fixed backoff between reconnect
	// attempts (default: 1s).
	ReconnectInterval time.Duration

	// DialTimeout bounds each connection attempt (default: 10s).
	DialTimeout time.Duration

	// Offline disables the listener entirely.
	Offline bool

	// OnStatus, if set, observes connection state changes.
	OnStatus func(Status)

	// Logger for listener activity (default: stderr logger).
	Logger *log.Logger
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		DebounceInterval:  250 * time.Millisecond,
		ReconnectInterval: time.Second,
		DialTimeout:       10 * time.Second,
		Logger:            log.New(os.Stderr, "[live] ", log.LstdFlags),
	}
}

// Listener maintains the push channel and debounces convergence triggers.
type Listener struct {
	config  *Config
	logger  *log.Logger
	noop    bool
	trigger func()

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	status   Status
	conn     *websocket.Conn
	debounce *time.Timer
	started  bool
	closed   bool
}

// New creates a Listener. Start must be called before events flow.
func New(config *Config) (*Listener, error) {
	if config == nil {
		config = DefaultConfig()
	}

	noop := config.Offline || config.ClientID == ""
	if !noop {
		if config.URL == "" {
			return nil, fmt.Errorf("URL cannot be empty")
		}
		if config.Token == "" {
			return nil, fmt.Errorf("token cannot be empty")
		}
	}

	cfg := *config
	if cfg.DebounceInterval <= 0 {
		cfg.DebounceInterval = 250 * time.Millisecond
	}
	if cfg.ReconnectInterval <= 0 {
		cfg.ReconnectInterval = time.Second
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 10 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "[live] ", log.LstdFlags)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Listener{
		config: &cfg,
		logger: logger,
		noop:   noop,
		ctx:    ctx,
		cancel: cancel,
		status: StatusDisconnected,
	}, nil
}

// Start connects the channel and begins delivering debounced convergence
// triggers to the callback. In offline mode, or with no partition
// selected, Start succeeds and does nothing.
func (l *Listener) Start(onConvergenceNeeded func()) error {
	if onConvergenceNeeded == nil {
		return fmt.Errorf("callback cannot be nil")
	}

	l.mu.Lock()
	if l.started {
		l.mu.Unlock()
		return fmt.Errorf("listener already started")
	}
	if l.closed {
		l.mu.Unlock()
		return fmt.Errorf("listener already closed")
	}
	l.started = true
	l.trigger = onConvergenceNeeded
	l.mu.Unlock()

	if l.noop {
		return nil
	}

	l.wg.Add(1)
	go l.run()
	return nil
}

// Close tears the listener down. It is terminal: pending reconnects and
// debounce timers are cancelled, and once Close returns the convergence
// callback will not run again, even for events that were in flight.
func (l *Listener) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	if l.debounce != nil {
		if l.debounce.Stop() {
			l.wg.Done()
		}
		l.debounce = nil
	}
	conn := l.conn
	l.conn = nil
	l.mu.Unlock()

	l.cancel()
	if conn != nil {
		_ = conn.Close(websocket.StatusNormalClosure, "client teardown")
	}
	l.wg.Wait()

	l.setStatus(StatusClosed)
	return nil
}

// Status returns the current connection status.
func (l *Listener) Status() Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.status
}

// run is the connect/read/reconnect loop.
func (l *Listener) run() {
	defer l.wg.Done()

	for {
		if l.ctx.Err() != nil {
			return
		}

		l.setStatus(StatusConnecting)

		dialCtx, cancel := context.WithTimeout(l.ctx, l.config.DialTimeout)
		conn, _, err := websocket.Dial(dialCtx, l.channelURL(), nil)
		cancel()

		if err != nil {
			if l.ctx.Err() != nil {
				return
			}
			l.setStatus(StatusError)
			l.logger.Printf("connect failed: %v (retrying in %s)", err, l.config.ReconnectInterval)
			if !l.sleep(l.config.ReconnectInterval) {
				return
			}
			continue
		}

		l.mu.Lock()
		if l.closed {
			l.mu.Unlock()
			_ = conn.Close(websocket.StatusNormalClosure, "client teardown")
			return
		}
		l.conn = conn
		l.mu.Unlock()

		l.setStatus(StatusOpen)
		l.readLoop(conn)

		l.mu.Lock()
		l.conn = nil
		l.mu.Unlock()

		if l.ctx.Err() != nil {
			return
		}

		l.setStatus(StatusClosed)
		l.logger.Printf("channel closed, reconnecting in %s", l.config.ReconnectInterval)
		if !l.sleep(l.config.ReconnectInterval) {
			return
		}
	}
}

// readLoop consumes frames until the connection drops.
func (l *Listener) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.Read(l.ctx)
		if err != nil {
			_ = conn.Close(websocket.StatusNormalClosure, "")
			return
		}

		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil || ev.Event == "" {
			// Malformed frames are dropped without comment.
			continue
		}
		if !relevantEvents[ev.Event] {
			continue
		}

		l.scheduleConvergence()
	}
}

// scheduleConvergence (re)arms the debounce timer. A burst of relevant
// events within one window collapses into a single callback.
func (l *Listener) scheduleConvergence() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}
	// The armed timer joins the WaitGroup so Close cannot return while
	// its callback is still deciding whether to fire.
	if l.debounce != nil && l.debounce.Stop() {
		l.wg.Done()
	}
	l.wg.Add(1)
	l.debounce = time.AfterFunc(l.config.DebounceInterval, func() {
		defer l.wg.Done()
		l.mu.Lock()
		closed := l.closed
		l.mu.Unlock()
		if closed {
			return
		}
		l.trigger()
	})
}

// sleep waits for d, returning false if the listener was torn down first.
func (l *Listener) sleep(d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-l.ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (l *Listener) setStatus(s Status) {
	l.mu.Lock()
	if l.status == s {
		l.mu.Unlock()
		return
	}
	l.status = s
	l.mu.Unlock()

	if l.config.OnStatus != nil {
		l.config.OnStatus(s)
	}
}

// channelURL builds the events endpoint with token and partition scope.
func (l *Listener) channelURL() string {
	params := url.Values{}
	params.Set("token", l.config.Token)
	if l.config.ClientID != "" {
		params.Set("client_id", l.config.ClientID)
	}
	return l.config.URL + "/ws/events/?" + params.Encode()
}
