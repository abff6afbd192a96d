package natsbus

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/pixil98/go-coop/internal/engine"
	"github.com/pixil98/go-coop/internal/session"
	"github.com/pixil98/go-testutil"
)

type chanPoster struct {
	events chan any
}

func (p *chanPoster) Post(ev any) error {
	p.events <- ev
	return nil
}

func (p *chanPoster) next(t *testing.T) any {
	t.Helper()
	select {
	case ev := <-p.events:
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for transport event")
		return nil
	}
}

func startLoopback(t *testing.T) (*Transport, *Server, *chanPoster) {
	t.Helper()
	srv, err := NewServer(WithPort(-1))
	if err != nil {
		t.Fatalf("creating server: %v", err)
	}

	poster := &chanPoster{events: make(chan any, 16)}
	tr := NewTransport(poster, WithServer(srv), WithSubjects("test.up", "test.down"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- tr.Start(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Error("transport did not stop")
		}
	})

	testutil.AssertEqual(t, "connected", poster.next(t), any(engine.ConnectedEvent{}))
	return tr, srv, poster
}

func TestTransport_Send(t *testing.T) {
	tr, srv, _ := startLoopback(t)

	peer, err := nats.Connect(srv.ClientURL())
	if err != nil {
		t.Fatalf("connecting peer: %v", err)
	}
	defer peer.Close()

	sub, err := peer.SubscribeSync("test.up")
	if err != nil {
		t.Fatalf("subscribing: %v", err)
	}
	if err := peer.Flush(); err != nil {
		t.Fatalf("flushing: %v", err)
	}

	if err := tr.Send([]byte(`{"type":"player_respawn_request"}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msg, err := sub.NextMsg(5 * time.Second)
	if err != nil {
		t.Fatalf("receiving: %v", err)
	}
	testutil.AssertEqual(t, "data", string(msg.Data), `{"type":"player_respawn_request"}`)
}

func TestTransport_Receive(t *testing.T) {
	_, srv, poster := startLoopback(t)

	peer, err := nats.Connect(srv.ClientURL())
	if err != nil {
		t.Fatalf("connecting peer: %v", err)
	}
	defer peer.Close()

	if err := peer.Publish("test.down", []byte(`{"type":"notify_del_waypoint"}`)); err != nil {
		t.Fatalf("publishing: %v", err)
	}

	ev := poster.next(t)
	frame, ok := ev.(session.FrameEvent)
	testutil.AssertEqual(t, "frame", ok, true)
	testutil.AssertEqual(t, "data", string(frame.Data), `{"type":"notify_del_waypoint"}`)
}

func TestTransport_SendBeforeStart(t *testing.T) {
	tr := NewTransport(&chanPoster{events: make(chan any, 1)})

	err := tr.Send([]byte("{}"))
	testutil.AssertEqual(t, "not connected", errors.Is(err, ErrNotConnected), true)
}

func TestTransport_ConnectFailure(t *testing.T) {
	tr := NewTransport(&chanPoster{events: make(chan any, 1)}, WithURL("nats://127.0.0.1:1"))

	err := tr.Start(context.Background())
	testutil.AssertErrorContains(t, err, "connecting to nats")
}
