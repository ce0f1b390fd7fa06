package realtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/coachkit/coachkit/broadcast"
)

func eventsServer(t *testing.T, messages ...string) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		for _, msg := range messages {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				break
			}
		}
		// hold the connection open until the client goes away
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
		conn.Close()
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestFeedPublishesOnEvent(t *testing.T) {
	buses := broadcast.NewRegistry()
	url := eventsServer(t,
		`{"resource":"tasks"}`,
		`{"resource":"sessions"}`,
		`{"resource":"tasks"}`,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = New(url, buses).Run(ctx)
	}()

	require.Eventually(t, func() bool {
		return buses.Bus(broadcast.Tasks).Trigger() == 2 &&
			buses.Bus(broadcast.Sessions).Trigger() == 1
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop on context cancellation")
	}
}

func TestFeedSkipsMalformedEvents(t *testing.T) {
	buses := broadcast.NewRegistry()
	url := eventsServer(t,
		`not json`,
		`{"resource":""}`,
		`{"resource":"clients"}`,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = New(url, buses).Run(ctx) }()

	require.Eventually(t, func() bool {
		return buses.Bus(broadcast.Clients).Trigger() == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.Len(t, buses.List(), 1, "malformed events must not create buses")
}

func TestFeedRunReturnsWhenAlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New("ws://127.0.0.1:1/feed", broadcast.NewRegistry()).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
