// Package ws carries session envelopes over a websocket connection.
package ws

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pixil98/go-coop/internal/engine"
	"github.com/pixil98/go-coop/internal/session"
)

const (
	DefaultRetryWait    = 2 * time.Second
	DefaultWriteTimeout = 5 * time.Second
)

var ErrNotConnected = errors.New("websocket transport not connected")

type Transport struct {
	poster session.Poster

	url          string
	header       http.Header
	dialer       *websocket.Dialer
	retryWait    time.Duration
	writeTimeout time.Duration

	writeMu sync.Mutex
	mu      sync.RWMutex
	conn    *websocket.Conn
}

type TransportOpt func(*Transport)

func WithHeader(h http.Header) TransportOpt {
	return func(t *Transport) {
		t.header = h
	}
}

func WithRetryWait(d time.Duration) TransportOpt {
	return func(t *Transport) {
		t.retryWait = d
	}
}

func WithWriteTimeout(d time.Duration) TransportOpt {
	return func(t *Transport) {
		t.writeTimeout = d
	}
}

func NewTransport(poster session.Poster, url string, opts ...TransportOpt) *Transport {
	t := &Transport{
		poster:       poster,
		url:          url,
		dialer:       websocket.DefaultDialer,
		retryWait:    DefaultRetryWait,
		writeTimeout: DefaultWriteTimeout,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Start dials the server and keeps the session up until ctx is done, redialing after
// every drop.
func (t *Transport) Start(ctx context.Context) error {
	for {
		conn, _, err := t.dialer.DialContext(ctx, t.url, t.header)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			slog.WarnContext(ctx, "dialing websocket", "url", t.url, "error", err)
		} else {
			t.serve(ctx, conn)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(t.retryWait):
		}
	}
}

func (t *Transport) serve(ctx context.Context, conn *websocket.Conn) {
	t.mu.Lock()
	t.conn = conn
	t.mu.Unlock()

	slog.InfoContext(ctx, "websocket connected", "url", t.url)
	t.post(ctx, engine.ConnectedEvent{})

	stop := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-stop:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				slog.WarnContext(ctx, "websocket connection lost", "error", err)
			}
			break
		}
		t.post(ctx, session.FrameEvent{Data: data})
	}
	close(stop)

	t.mu.Lock()
	t.conn = nil
	t.mu.Unlock()
	_ = conn.Close()

	t.post(ctx, engine.DisconnectedEvent{})
}

func (t *Transport) Send(data []byte) error {
	t.mu.RLock()
	conn := t.conn
	t.mu.RUnlock()
	if conn == nil {
		return ErrNotConnected
	}

	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	if err := conn.SetWriteDeadline(time.Now().Add(t.writeTimeout)); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}

func (t *Transport) post(ctx context.Context, ev any) {
	if err := t.poster.Post(ev); err != nil {
		slog.DebugContext(ctx, "dropping transport event", "event", session.EventName(ev), "error", err)
	}
}
