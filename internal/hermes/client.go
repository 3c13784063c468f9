// Package hermes publishes usher's lead lifecycle events onto the swarm bus.
// Downstream agents (CRM sync, notification bots) subscribe to these; usher
// itself never blocks a visitor response on the bus.
package hermes

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// Subjects for lead lifecycle events.
const (
	SubjectLeadCreated = "swarm.usher.lead.created"
	SubjectLeadUpdated = "swarm.usher.lead.updated"
)

// LeadEvent is the payload published when a lead record is created or
// updated. Delivered is false when the sheets webhook call failed this turn.
type LeadEvent struct {
	SessionID string `json:"session_id"`
	LeadID    string `json:"lead_id"`
	Action    string `json:"action"`
	Intent    string `json:"intent"`
	LeadScore int    `json:"lead_score"`
	Delivered bool   `json:"delivered"`
	Timestamp string `json:"timestamp"`
}

type Client struct {
	conn   *nats.Conn
	logger *slog.Logger
}

func NewClient(ctx context.Context, url, token string, logger *slog.Logger) (*Client, error) {
	opts := []nats.Option{
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	return &Client{conn: nc, logger: logger}, nil
}

func (c *Client) Publish(subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return c.conn.Publish(subject, payload)
}

func (c *Client) Close() {
	c.conn.Close()
}
