package extractor

// Enum values the extraction backend is prompted to use. Free-text fields
// fall back to ValueUnknown when the conversation hasn't surfaced them yet.
const (
	ValueUnknown = "unknown"

	IntentSales   = "sales"
	IntentSupport = "support"
	IntentOther   = "other"

	TimelineUrgent   = "urgent"
	TimelineSoon     = "soon"
	TimelineFlexible = "flexible"

	TemperatureHot  = "hot"
	TemperatureWarm = "warm"
	TemperatureCold = "cold"
)

// Lead is the structured profile derived from a conversation. It is always a
// total record: every field carries a value, defaulted when the backend
// couldn't resolve it. Produced fresh each turn, never mutated in place.
type Lead struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Intent          string `json:"intent"`           // sales | support | other
	ServiceInterest string `json:"service_interest"`
	BudgetRange     string `json:"budget_range"`     // low | medium | high | unknown
	Timeline        string `json:"timeline"`         // urgent | soon | flexible | unknown
	UrgencyLevel    string `json:"urgency_level"`    // low | medium | high
	LeadScore       int    `json:"lead_score"`       // 0..100
	LeadTemperature string `json:"lead_temperature"` // hot | warm | cold
	AISummary       string `json:"ai_summary"`
	SuggestedAction string `json:"suggested_action"`
}

// FallbackLead is the fixed record used whenever extraction fails end to end.
// Keeping it non-empty means a lead is still worth a human look even when the
// backend gave us nothing usable.
func FallbackLead() Lead {
	return Lead{
		Name:            ValueUnknown,
		Email:           ValueUnknown,
		Phone:           ValueUnknown,
		Intent:          IntentSales,
		ServiceInterest: "Website redesign",
		BudgetRange:     ValueUnknown,
		Timeline:        ValueUnknown,
		UrgencyLevel:    "medium",
		LeadScore:       50,
		LeadTemperature: TemperatureWarm,
		AISummary:       "Lead captured but details incomplete.",
		SuggestedAction: "Review manually",
	}
}
