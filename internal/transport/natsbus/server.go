package natsbus

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats-server/v2/server"
)

// Server is an embedded NATS server for loopback sessions.
type Server struct {
	ns *server.Server

	startupTimeout time.Duration
	host           string
	port           int
}

func NewServer(opts ...ServerOpt) (*Server, error) {
	s := &Server{
		startupTimeout: 10 * time.Second,
		host:           "127.0.0.1",
	}

	for _, opt := range opts {
		opt(s)
	}

	ns, err := server.NewServer(&server.Options{
		Host:   s.host,
		Port:   s.port,
		NoSigs: true,
	})
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}
	s.ns = ns

	return s, nil
}

// Listen starts the server and waits until it accepts clients.
func (s *Server) Listen(ctx context.Context) error {
	s.ns.Start()

	if !s.ns.ReadyForConnections(s.startupTimeout) {
		return fmt.Errorf("nats server not ready for connections")
	}

	slog.InfoContext(ctx, "nats server listening", "addr", s.ns.Addr())
	return nil
}

func (s *Server) ClientURL() string {
	return s.ns.ClientURL()
}

func (s *Server) Shutdown() {
	s.ns.Shutdown()
	s.ns.WaitForShutdown()
}
