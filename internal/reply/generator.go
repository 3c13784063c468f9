// Package reply produces the next assistant utterance for a visitor
// conversation. Unlike extraction, a backend failure here is fatal for the
// request: there is no fallback reply.
package reply

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MikeSquared-Agency/usher/internal/chat"
	"github.com/MikeSquared-Agency/usher/internal/openai"
)

const replyTemperature = 0.4

type Generator struct {
	llm    *openai.Client
	logger *slog.Logger
}

func NewGenerator(llm *openai.Client, logger *slog.Logger) *Generator {
	return &Generator{llm: llm, logger: logger}
}

// Generate returns the assistant's next turn for the given transcript.
func (g *Generator) Generate(ctx context.Context, messages []chat.Message) (string, error) {
	prompted := make([]chat.Message, 0, len(messages)+1)
	prompted = append(prompted, chat.Message{Role: chat.RoleSystem, Content: systemPrompt})
	prompted = append(prompted, messages...)

	text, err := g.llm.Complete(ctx, prompted, replyTemperature)
	if err != nil {
		return "", fmt.Errorf("generate reply: %w", err)
	}

	g.logger.Debug("reply generated", "transcript_len", len(messages), "reply_len", len(text))
	return text, nil
}
