package processor

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/usher/internal/chat"
	"github.com/MikeSquared-Agency/usher/internal/extractor"
	"github.com/MikeSquared-Agency/usher/internal/openai"
	"github.com/MikeSquared-Agency/usher/internal/reply"
	"github.com/MikeSquared-Agency/usher/internal/sheets"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// llmStub answers reply calls with replyText and extraction calls with
// extractionText, telling them apart by the system prompt.
func llmStub(t *testing.T, replyText, extractionText string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []chat.Message `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode llm request: %v", err)
		}

		content := replyText
		if len(req.Messages) > 0 && strings.Contains(req.Messages[0].Content, "strict JSON") {
			content = extractionText
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}},
			},
		})
	}))
}

type gatewayRecorder struct {
	mu      sync.Mutex
	actions []string
	leadIDs []string
	logLens []int
}

func (g *gatewayRecorder) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			LeadID          string         `json:"lead_id"`
			ConversationLog []chat.Message `json:"conversation_log"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode gateway payload: %v", err)
		}

		g.mu.Lock()
		g.actions = append(g.actions, r.URL.Query().Get("action"))
		g.leadIDs = append(g.leadIDs, body.LeadID)
		g.logLens = append(g.logLens, len(body.ConversationLog))
		g.mu.Unlock()

		w.WriteHeader(http.StatusOK)
	}
}

func newTestProcessor(t *testing.T, llmURL, gatewayURL string) *Processor {
	t.Helper()
	llm := openai.NewClient("test-key", "test-model")
	llm.SetTestTransport(llmURL)

	logger := discardLogger()
	return New(
		reply.NewGenerator(llm, logger),
		extractor.New(llm, logger),
		sheets.NewGateway(gatewayURL, logger),
		nil, nil,
		logger,
	)
}

const extractionOK = `{"intent": "sales", "service_interest": "Website redesign", "budget_range": "unknown",
	"timeline": "unknown", "urgency_level": "medium", "lead_score": 60, "lead_temperature": "warm",
	"ai_summary": "Visitor wants a website.", "suggested_action": "Collect contact info"}`

func TestHandleTurn_NoContactNoPersistence(t *testing.T) {
	llm := llmStub(t, "Happy to help! What's your name?", extractionOK)
	defer llm.Close()

	rec := &gatewayRecorder{}
	gw := httptest.NewServer(rec.handler(t))
	defer gw.Close()

	p := newTestProcessor(t, llm.URL, gw.URL)
	res, err := p.HandleTurn(context.Background(), "sess-1", []chat.Message{
		{Role: chat.RoleUser, Content: "Hi, I need a website"},
	}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Reply != "Happy to help! What's your name?" {
		t.Errorf("unexpected reply %q", res.Reply)
	}
	if res.LeadID != "" {
		t.Errorf("expected no lead id, got %q", res.LeadID)
	}
	if len(rec.actions) != 0 {
		t.Errorf("expected no gateway calls, got %v", rec.actions)
	}
}

func TestHandleTurn_DashedPhoneDoesNotCreate(t *testing.T) {
	llm := llmStub(t, "Thanks!", extractionOK)
	defer llm.Close()

	rec := &gatewayRecorder{}
	gw := httptest.NewServer(rec.handler(t))
	defer gw.Close()

	p := newTestProcessor(t, llm.URL, gw.URL)
	res, err := p.HandleTurn(context.Background(), "sess-2", []chat.Message{
		{Role: chat.RoleUser, Content: "Hi, I need a website"},
		{Role: chat.RoleAssistant, Content: "What's your phone number?"},
		{Role: chat.RoleUser, Content: "555-123-4567"},
	}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Dashes fail the strict digit rule, so no identity is minted.
	if res.LeadID != "" {
		t.Errorf("expected no lead id for dashed number, got %q", res.LeadID)
	}
	if len(rec.actions) != 0 {
		t.Errorf("expected no gateway calls, got %v", rec.actions)
	}
}

func TestHandleTurn_PhoneCreatesLead(t *testing.T) {
	llm := llmStub(t, "Thanks! What service are you after?", extractionOK)
	defer llm.Close()

	rec := &gatewayRecorder{}
	gw := httptest.NewServer(rec.handler(t))
	defer gw.Close()

	p := newTestProcessor(t, llm.URL, gw.URL)
	res, err := p.HandleTurn(context.Background(), "sess-3", []chat.Message{
		{Role: chat.RoleUser, Content: "Hi, I need a website"},
		{Role: chat.RoleAssistant, Content: "What's your phone number?"},
		{Role: chat.RoleUser, Content: "5551234567"},
	}, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := uuid.Parse(res.LeadID); err != nil {
		t.Fatalf("expected fresh uuid lead id, got %q: %v", res.LeadID, err)
	}
	if len(rec.actions) != 1 || rec.actions[0] != "saveLead" {
		t.Fatalf("expected one saveLead call, got %v", rec.actions)
	}
	if rec.leadIDs[0] != res.LeadID {
		t.Errorf("gateway got lead id %q, response had %q", rec.leadIDs[0], res.LeadID)
	}
	// The persisted log includes the just-generated assistant reply.
	if rec.logLens[0] != 4 {
		t.Errorf("expected 4 conversation_log entries, got %d", rec.logLens[0])
	}
}

func TestHandleTurn_EstablishedLeadUpdates(t *testing.T) {
	llm := llmStub(t, "Noted, thanks!", extractionOK)
	defer llm.Close()

	rec := &gatewayRecorder{}
	gw := httptest.NewServer(rec.handler(t))
	defer gw.Close()

	priorID := uuid.NewString()
	p := newTestProcessor(t, llm.URL, gw.URL)
	res, err := p.HandleTurn(context.Background(), "sess-4", []chat.Message{
		{Role: chat.RoleUser, Content: "My budget is around mid-range"},
	}, priorID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.LeadID != priorID {
		t.Errorf("expected lead id %q echoed back, got %q", priorID, res.LeadID)
	}
	if len(rec.actions) != 1 || rec.actions[0] != "updateLead" {
		t.Fatalf("expected one updateLead call, got %v", rec.actions)
	}
	if rec.leadIDs[0] != priorID {
		t.Errorf("gateway got lead id %q, want %q", rec.leadIDs[0], priorID)
	}
}

func TestHandleTurn_GatewayFailureSwallowed(t *testing.T) {
	llm := llmStub(t, "Thanks!", extractionOK)
	defer llm.Close()

	gw := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer gw.Close()

	p := newTestProcessor(t, llm.URL, gw.URL)
	res, err := p.HandleTurn(context.Background(), "sess-5", []chat.Message{
		{Role: chat.RoleUser, Content: "a@b.com"},
	}, "")
	if err != nil {
		t.Fatalf("gateway failure must not fail the turn: %v", err)
	}
	if res.Reply != "Thanks!" {
		t.Errorf("expected reply despite gateway failure, got %q", res.Reply)
	}
	if res.LeadID == "" {
		t.Error("expected lead id despite gateway failure")
	}
}

func TestHandleTurn_ExtractionFailureStillPersistsFallback(t *testing.T) {
	llm := llmStub(t, "Thanks!", "sorry, no JSON today")
	defer llm.Close()

	rec := &gatewayRecorder{}
	gw := httptest.NewServer(rec.handler(t))
	defer gw.Close()

	p := newTestProcessor(t, llm.URL, gw.URL)
	res, err := p.HandleTurn(context.Background(), "sess-6", []chat.Message{
		{Role: chat.RoleUser, Content: "a@b.com"},
	}, "")
	if err != nil {
		t.Fatalf("extraction failure must not fail the turn: %v", err)
	}
	if res.LeadID == "" {
		t.Error("expected lead creation with fallback record")
	}
	if len(rec.actions) != 1 || rec.actions[0] != "saveLead" {
		t.Fatalf("expected one saveLead call, got %v", rec.actions)
	}
}

func TestHandleTurn_ReplyFailurePropagates(t *testing.T) {
	llm := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer llm.Close()

	rec := &gatewayRecorder{}
	gw := httptest.NewServer(rec.handler(t))
	defer gw.Close()

	p := newTestProcessor(t, llm.URL, gw.URL)
	_, err := p.HandleTurn(context.Background(), "sess-7", []chat.Message{
		{Role: chat.RoleUser, Content: "5551234567"},
	}, "")
	if err == nil {
		t.Fatal("expected error when reply backend is down")
	}
	if len(rec.actions) != 0 {
		t.Errorf("expected no persistence without a reply, got %v", rec.actions)
	}
}
