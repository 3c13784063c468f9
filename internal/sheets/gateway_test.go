package sheets

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MikeSquared-Agency/usher/internal/chat"
	"github.com/MikeSquared-Agency/usher/internal/extractor"
	"github.com/MikeSquared-Agency/usher/internal/lifecycle"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDeliver_Create(t *testing.T) {
	var gotAction string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAction = r.URL.Query().Get("action")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("failed to decode payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	g := NewGateway(server.URL, discardLogger())
	g.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	decision := lifecycle.Decision{Action: lifecycle.ActionCreate, LeadID: "11111111-2222-3333-4444-555555555555"}
	lead := extractor.FallbackLead()
	conversation := []chat.Message{
		{Role: chat.RoleUser, Content: "5551234567"},
		{Role: chat.RoleAssistant, Content: "Thanks! What service are you after?"},
	}

	if err := g.Deliver(context.Background(), decision, lead, conversation); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotAction != "saveLead" {
		t.Errorf("expected action saveLead, got %q", gotAction)
	}
	if gotBody["lead_id"] != decision.LeadID {
		t.Errorf("expected lead_id %q, got %v", decision.LeadID, gotBody["lead_id"])
	}
	if gotBody["source"] != Source {
		t.Errorf("expected source %q, got %v", Source, gotBody["source"])
	}
	if gotBody["created_at"] != "2026-03-01T12:00:00Z" {
		t.Errorf("unexpected created_at %v", gotBody["created_at"])
	}
	// Lead fields sit at the top level of the payload.
	if gotBody["ai_summary"] != lead.AISummary {
		t.Errorf("expected inline lead fields, got %v", gotBody["ai_summary"])
	}
	log, ok := gotBody["conversation_log"].([]any)
	if !ok || len(log) != 2 {
		t.Fatalf("expected 2 conversation_log entries, got %v", gotBody["conversation_log"])
	}
}

func TestDeliver_UpdateActionTag(t *testing.T) {
	var gotAction string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAction = r.URL.Query().Get("action")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	g := NewGateway(server.URL, discardLogger())
	decision := lifecycle.Decision{Action: lifecycle.ActionUpdate, LeadID: "abc"}

	if err := g.Deliver(context.Background(), decision, extractor.FallbackLead(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAction != "updateLead" {
		t.Errorf("expected action updateLead, got %q", gotAction)
	}
}

func TestDeliver_ErrorStatusReported(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	g := NewGateway(server.URL, discardLogger())
	decision := lifecycle.Decision{Action: lifecycle.ActionUpdate, LeadID: "abc"}

	if err := g.Deliver(context.Background(), decision, extractor.FallbackLead(), nil); err == nil {
		t.Fatal("expected error for 5xx webhook response")
	}
}

func TestDeliver_RefusesNoneDecision(t *testing.T) {
	g := NewGateway("http://unreachable.invalid", discardLogger())
	if err := g.Deliver(context.Background(), lifecycle.Decision{}, extractor.FallbackLead(), nil); err == nil {
		t.Fatal("expected error for none decision")
	}
}
