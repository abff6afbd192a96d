package natsbus

import "time"

type ServerOpt func(*Server)

// WithStartTimeout sets how long Listen waits for the server to accept clients.
func WithStartTimeout(d time.Duration) ServerOpt {
	return func(s *Server) {
		s.startupTimeout = d
	}
}

func WithHost(host string) ServerOpt {
	return func(s *Server) {
		s.host = host
	}
}

// WithPort sets the listen port. -1 picks a free port.
func WithPort(port int) ServerOpt {
	return func(s *Server) {
		s.port = port
	}
}

type TransportOpt func(*Transport)

func WithURL(url string) TransportOpt {
	return func(t *Transport) {
		t.url = url
	}
}

// WithServer runs an embedded server for the life of the transport and connects to it.
func WithServer(s *Server) TransportOpt {
	return func(t *Transport) {
		t.server = s
	}
}

// WithSubjects sets the subject envelopes are published on and the one they are
// received from.
func WithSubjects(outbound, inbound string) TransportOpt {
	return func(t *Transport) {
		t.outbound = outbound
		t.inbound = inbound
	}
}

func WithClientName(name string) TransportOpt {
	return func(t *Transport) {
		t.name = name
	}
}

func WithReconnectWait(d time.Duration) TransportOpt {
	return func(t *Transport) {
		t.reconnectWait = d
	}
}
