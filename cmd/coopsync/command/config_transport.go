package command

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/pixil98/go-coop/internal/session"
	"github.com/pixil98/go-coop/internal/transport/natsbus"
	"github.com/pixil98/go-coop/internal/transport/ws"
	"github.com/pixil98/go-errors"
)

type transportWorker interface {
	session.Transport
	Start(context.Context) error
}

type TransportConfig struct {
	Nats      *NatsConfig      `json:"nats"`
	Websocket *WebsocketConfig `json:"websocket"`
}

func (c *TransportConfig) validate() error {
	el := errors.NewErrorList()

	switch {
	case c.Nats == nil && c.Websocket == nil:
		el.Add(fmt.Errorf("transport: one of nats or websocket is required"))
	case c.Nats != nil && c.Websocket != nil:
		el.Add(fmt.Errorf("transport: only one of nats or websocket may be set"))
	case c.Nats != nil:
		el.Add(c.Nats.validate())
	default:
		el.Add(c.Websocket.validate())
	}

	return el.Err()
}

func (c *TransportConfig) build(p session.Poster) (transportWorker, error) {
	if c.Nats != nil {
		return c.Nats.buildTransport(p)
	}
	return c.Websocket.buildTransport(p)
}

type NatsConfig struct {
	URL          string `json:"url"`
	Outbound     string `json:"outbound_subject"`
	Inbound      string `json:"inbound_subject"`
	ClientName   string `json:"client_name"`
	Reconnect    string `json:"reconnect_wait"`
	Embedded     bool   `json:"embedded"`
	Host         string `json:"host"`
	Port         int    `json:"port"`
	StartTimeout string `json:"start_timeout"`
}

func (c *NatsConfig) validate() error {
	el := errors.NewErrorList()

	if c.Embedded && c.URL != "" {
		el.Add(fmt.Errorf("nats: url and embedded are exclusive"))
	}
	if (c.Outbound == "") != (c.Inbound == "") {
		el.Add(fmt.Errorf("nats: outbound_subject and inbound_subject must be set together"))
	}
	for name, v := range map[string]string{"reconnect_wait": c.Reconnect, "start_timeout": c.StartTimeout} {
		if v == "" {
			continue
		}
		if _, err := time.ParseDuration(v); err != nil {
			el.Add(fmt.Errorf("nats: parsing %s: %w", name, err))
		}
	}

	return el.Err()
}

func (c *NatsConfig) buildTransport(p session.Poster) (*natsbus.Transport, error) {
	var opts []natsbus.TransportOpt
	if c.URL != "" {
		opts = append(opts, natsbus.WithURL(c.URL))
	}
	if c.Outbound != "" {
		opts = append(opts, natsbus.WithSubjects(c.Outbound, c.Inbound))
	}
	if c.ClientName != "" {
		opts = append(opts, natsbus.WithClientName(c.ClientName))
	}
	if c.Reconnect != "" {
		d, err := time.ParseDuration(c.Reconnect)
		if err != nil {
			return nil, fmt.Errorf("parsing reconnect_wait: %w", err)
		}
		opts = append(opts, natsbus.WithReconnectWait(d))
	}

	if c.Embedded {
		srv, err := c.buildServer()
		if err != nil {
			return nil, err
		}
		opts = append(opts, natsbus.WithServer(srv))
	}

	return natsbus.NewTransport(p, opts...), nil
}

func (c *NatsConfig) buildServer() (*natsbus.Server, error) {
	var opts []natsbus.ServerOpt
	if c.StartTimeout != "" {
		d, err := time.ParseDuration(c.StartTimeout)
		if err != nil {
			return nil, fmt.Errorf("parsing start_timeout: %w", err)
		}
		opts = append(opts, natsbus.WithStartTimeout(d))
	}
	if c.Host != "" {
		opts = append(opts, natsbus.WithHost(c.Host))
	}
	if c.Port != 0 {
		opts = append(opts, natsbus.WithPort(c.Port))
	}

	return natsbus.NewServer(opts...)
}

type WebsocketConfig struct {
	URL       string `json:"url"`
	RetryWait string `json:"retry_wait"`
}

func (c *WebsocketConfig) validate() error {
	el := errors.NewErrorList()

	u, err := url.Parse(c.URL)
	switch {
	case c.URL == "":
		el.Add(fmt.Errorf("websocket: url is required"))
	case err != nil:
		el.Add(fmt.Errorf("websocket: parsing url: %w", err))
	case u.Scheme != "ws" && u.Scheme != "wss":
		el.Add(fmt.Errorf("websocket: url scheme must be ws or wss"))
	}
	if c.RetryWait != "" {
		if _, err := time.ParseDuration(c.RetryWait); err != nil {
			el.Add(fmt.Errorf("websocket: parsing retry_wait: %w", err))
		}
	}

	return el.Err()
}

func (c *WebsocketConfig) buildTransport(p session.Poster) (*ws.Transport, error) {
	var opts []ws.TransportOpt
	if c.RetryWait != "" {
		d, err := time.ParseDuration(c.RetryWait)
		if err != nil {
			return nil, fmt.Errorf("parsing retry_wait: %w", err)
		}
		opts = append(opts, ws.WithRetryWait(d))
	}
	return ws.NewTransport(p, c.URL, opts...), nil
}
