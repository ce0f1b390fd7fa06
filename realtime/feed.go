// Package realtime consumes the platform's push feed and turns server-side
// changes into refresh broadcasts. It is strictly a producer into the
// broadcast registry; consumers subscribe to buses, never to the feed.
package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/coachkit/coachkit/broadcast"
)

const (
	initialBackoff = time.Second
	maxBackoff     = 30 * time.Second
)

// event is the wire shape of a push notification. Only the resource name
// matters: receivers re-read the shared cache, they do not apply payloads.
type event struct {
	Resource string `json:"resource"`
}

// Feed maintains a WebSocket connection to the events endpoint and
// publishes on the named bus for every resource the server reports changed.
type Feed struct {
	url    string
	buses  *broadcast.Registry
	dialer *websocket.Dialer
	log    zerolog.Logger
}

// Option configures a Feed.
type Option func(*Feed)

// WithDialer overrides the WebSocket dialer.
func WithDialer(d *websocket.Dialer) Option {
	return func(f *Feed) { f.dialer = d }
}

// WithLogger sets the feed logger.
func WithLogger(log zerolog.Logger) Option {
	return func(f *Feed) { f.log = log }
}

// New creates a feed for the given events URL.
func New(url string, buses *broadcast.Registry, opts ...Option) *Feed {
	f := &Feed{
		url:    url,
		buses:  buses,
		dialer: websocket.DefaultDialer,
		log:    zerolog.Nop(),
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Run connects and reads events until ctx is cancelled, reconnecting with
// capped backoff after connection loss. It blocks; run it on its own
// goroutine.
func (f *Feed) Run(ctx context.Context) error {
	backoff := initialBackoff
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		conn, resp, err := f.dialer.DialContext(ctx, f.url, nil)
		if err != nil {
			f.log.Error().Err(err).Str("url", f.url).Msg("events dial failed")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			if backoff *= 2; backoff > maxBackoff {
				backoff = maxBackoff
			}
			continue
		}
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}

		backoff = initialBackoff
		f.readLoop(ctx, conn)
	}
}

// readLoop reads events from one connection until it fails or ctx ends.
func (f *Feed) readLoop(ctx context.Context, conn *websocket.Conn) {
	defer conn.Close()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close() // unblocks ReadMessage
		case <-stop:
		}
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				f.log.Error().Err(err).Msg("events read error")
			}
			return
		}

		var ev event
		if err := json.Unmarshal(msg, &ev); err != nil || ev.Resource == "" {
			f.log.Debug().Msg("skipping malformed event")
			continue
		}

		f.buses.Bus(ev.Resource).Publish()
		f.log.Debug().Str("resource", ev.Resource).Msg("refresh published")
	}
}
