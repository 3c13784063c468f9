package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/usher/internal/extractor"
	"github.com/MikeSquared-Agency/usher/internal/lifecycle"
)

// WriteLeadActivity records one lifecycle action and its delivery outcome.
// Table: lead_activity.
func (s *Store) WriteLeadActivity(ctx context.Context, sessionID string, decision lifecycle.Decision, lead extractor.Lead, delivered bool) (uuid.UUID, error) {
	id := uuid.New()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO lead_activity (
			id, session_id, lead_id, action, delivered,
			intent, service_interest, budget_range, timeline,
			urgency_level, lead_score, lead_temperature, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, now())`,
		id, sessionID, decision.LeadID, string(decision.Action), delivered,
		lead.Intent, lead.ServiceInterest, lead.BudgetRange, lead.Timeline,
		lead.UrgencyLevel, lead.LeadScore, lead.LeadTemperature,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert lead activity: %w", err)
	}
	return id, nil
}

// CountLeadActivity returns the number of journal rows for one lead.
func (s *Store) CountLeadActivity(ctx context.Context, leadID string) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM lead_activity WHERE lead_id = $1`, leadID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count lead activity: %w", err)
	}
	return n, nil
}
