// Package lifecycle decides what happens to a lead record on each turn. The
// whole state machine is derived from the lead id the caller already holds,
// so no lookup against the record store is ever needed: no id and no contact
// info means do nothing, no id plus contact info mints one and creates the
// record (once per session), and an existing id always updates.
package lifecycle

import "github.com/google/uuid"

// Action is the persistence action for one turn.
type Action string

const (
	ActionNone   Action = ""
	ActionCreate Action = "saveLead"
	ActionUpdate Action = "updateLead"
)

// Decision is the per-turn outcome. LeadID is "" only when Action is
// ActionNone; once assigned it never changes for the session.
type Decision struct {
	Action Action
	LeadID string
}

// Persist reports whether this turn writes to the record store.
func (d Decision) Persist() bool {
	return d.Action != ActionNone
}

// Decide runs the two-state machine. priorLeadID is the identity the caller
// holds from earlier turns ("" if none); contactDetected is the contact
// detector's verdict on the latest user message. Extraction content never
// gates persistence; it only fills the payload.
func Decide(priorLeadID string, contactDetected bool) Decision {
	if priorLeadID != "" {
		return Decision{Action: ActionUpdate, LeadID: priorLeadID}
	}
	if contactDetected {
		return Decision{Action: ActionCreate, LeadID: uuid.NewString()}
	}
	return Decision{}
}
