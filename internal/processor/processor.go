// Package processor runs the per-turn intake pipeline: generate the next
// assistant reply, extract the lead, decide the lifecycle action, and push
// the record out. All state a decision needs arrives in the request, so the
// processor holds nothing between turns and needs no locking.
package processor

import (
	"context"
	"log/slog"
	"time"

	"github.com/MikeSquared-Agency/usher/internal/chat"
	"github.com/MikeSquared-Agency/usher/internal/contact"
	"github.com/MikeSquared-Agency/usher/internal/extractor"
	"github.com/MikeSquared-Agency/usher/internal/hermes"
	"github.com/MikeSquared-Agency/usher/internal/lifecycle"
	"github.com/MikeSquared-Agency/usher/internal/reply"
	"github.com/MikeSquared-Agency/usher/internal/sheets"
	"github.com/MikeSquared-Agency/usher/internal/store"
)

type Processor struct {
	reply     *reply.Generator
	extractor *extractor.Extractor
	gateway   *sheets.Gateway
	hermes    *hermes.Client // optional
	store     *store.Store   // optional
	logger    *slog.Logger
}

func New(gen *reply.Generator, ext *extractor.Extractor, gw *sheets.Gateway, h *hermes.Client, s *store.Store, logger *slog.Logger) *Processor {
	return &Processor{
		reply:     gen,
		extractor: ext,
		gateway:   gw,
		hermes:    h,
		store:     s,
		logger:    logger,
	}
}

// Result is what a completed turn hands back to the transport layer. LeadID
// is "" when no identity exists yet.
type Result struct {
	Reply  string
	LeadID string
}

// HandleTurn processes one conversation turn. A reply-generation failure is
// the only error that surfaces; extraction and delivery problems are logged
// and absorbed so the visitor always gets their reply.
func (p *Processor) HandleTurn(ctx context.Context, sessionID string, messages []chat.Message, priorLeadID string) (Result, error) {
	replyText, err := p.reply.Generate(ctx, messages)
	if err != nil {
		return Result{}, err
	}

	updated := make([]chat.Message, 0, len(messages)+1)
	updated = append(updated, messages...)
	updated = append(updated, chat.Message{Role: chat.RoleAssistant, Content: replyText})

	lead, err := p.extractor.Extract(ctx, updated)
	if err != nil {
		// Fallback record in hand; keep going.
		p.logger.Warn("extraction fell back", "session_id", sessionID, "error", err)
	}

	// Contact detection runs over the visitor's latest turn, never the
	// model's output.
	signals := contact.Detect(chat.LatestUserContent(messages))
	decision := lifecycle.Decide(priorLeadID, signals.Any())

	p.logger.Info("turn processed",
		"session_id", sessionID,
		"turns", len(updated),
		"is_phone", signals.IsPhone,
		"is_email", signals.IsEmail,
		"action", string(decision.Action),
		"lead_id", decision.LeadID,
	)

	if decision.Persist() {
		p.persist(ctx, sessionID, decision, lead, updated)
	}

	return Result{Reply: replyText, LeadID: decision.LeadID}, nil
}

// persist delivers the record and fans out side channels. Nothing in here may
// fail the turn.
func (p *Processor) persist(ctx context.Context, sessionID string, decision lifecycle.Decision, lead extractor.Lead, conversation []chat.Message) {
	delivered := true
	if err := p.gateway.Deliver(ctx, decision, lead, conversation); err != nil {
		delivered = false
		p.logger.Warn("lead delivery failed, discarding",
			"session_id", sessionID,
			"lead_id", decision.LeadID,
			"action", string(decision.Action),
			"error", err,
		)
	}

	if p.hermes != nil {
		subject := hermes.SubjectLeadUpdated
		if decision.Action == lifecycle.ActionCreate {
			subject = hermes.SubjectLeadCreated
		}
		evt := hermes.LeadEvent{
			SessionID: sessionID,
			LeadID:    decision.LeadID,
			Action:    string(decision.Action),
			Intent:    lead.Intent,
			LeadScore: lead.LeadScore,
			Delivered: delivered,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}
		if err := p.hermes.Publish(subject, evt); err != nil {
			p.logger.Warn("failed to publish lead event", "subject", subject, "error", err)
		}
	}

	if p.store != nil {
		if _, err := p.store.WriteLeadActivity(ctx, sessionID, decision, lead, delivered); err != nil {
			p.logger.Warn("failed to journal lead activity", "lead_id", decision.LeadID, "error", err)
		}
	}
}
