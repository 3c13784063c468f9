// Package sheets delivers lead records to the agency's Google Apps Script
// webhook. Delivery is best-effort: one attempt per turn, bounded by a short
// timeout, and the pipeline discards failures — the next turn's update
// carries fresher data anyway.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/MikeSquared-Agency/usher/internal/chat"
	"github.com/MikeSquared-Agency/usher/internal/extractor"
	"github.com/MikeSquared-Agency/usher/internal/lifecycle"
)

// Source tags every record written by this service.
const Source = "website-chatbot"

const deliverTimeout = 10 * time.Second

// Payload is the record shape the webhook expects: lead fields at the top
// level next to the envelope fields, conversation log inline.
type Payload struct {
	CreatedAt string `json:"created_at"`
	LeadID    string `json:"lead_id"`
	Source    string `json:"source"`
	extractor.Lead
	ConversationLog []chat.Message `json:"conversation_log"`
}

type Gateway struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
	now      func() time.Time
}

func NewGateway(endpoint string, logger *slog.Logger) *Gateway {
	return &Gateway{
		endpoint: endpoint,
		client:   &http.Client{Timeout: deliverTimeout},
		logger:   logger,
		now:      time.Now,
	}
}

// Deliver writes one lead record using the decision's action tag. The
// returned error is for logging only; callers must not fail the request or
// retry on it.
func (g *Gateway) Deliver(ctx context.Context, decision lifecycle.Decision, lead extractor.Lead, conversation []chat.Message) error {
	if !decision.Persist() {
		return fmt.Errorf("no action to deliver")
	}

	payload := Payload{
		CreatedAt:       g.now().UTC().Format(time.RFC3339),
		LeadID:          decision.LeadID,
		Source:          Source,
		Lead:            lead,
		ConversationLog: conversation,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	target := g.endpoint + "?action=" + url.QueryEscape(string(decision.Action))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("deliver lead: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("webhook status %d", resp.StatusCode)
	}

	g.logger.Info("lead delivered",
		"action", decision.Action,
		"lead_id", decision.LeadID,
		"status", resp.StatusCode,
	)
	return nil
}
