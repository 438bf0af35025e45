// Package llm implements the semantic fallback stage of action
// resolution against the OpenAI chat completions API.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"gamemaster/internal/observability"
	"gamemaster/internal/resolve"
)

// resolutionSystemPrompt pins the service to its contract: one bare
// choice key, or NONE, and nothing else.
const resolutionSystemPrompt = `You are the logic engine for a voice-driven adventure game.
Resolve the player's spoken action to the single best matching choice key from the provided list.
Do not output any explanation, quotation marks, or extra text.
If the action is ambiguous, irrelevant, or does not clearly map to any choice, output the word 'NONE'.
Output ONLY the choice key or 'NONE'.`

type Service struct {
	client *openai.Client
	model  string
	log    zerolog.Logger
	tracer trace.Tracer
}

func NewService(apiKey, model string, log zerolog.Logger) *Service {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Service{
		client: &client,
		model:  model,
		log:    log,
		tracer: otel.Tracer("llm-resolver"),
	}
}

// ResolveChoice asks the model to pick one choice key. Decoding runs at
// temperature zero so identical requests resolve identically. The raw
// token comes back untouched; the caller validates it against the
// choice set.
func (s *Service) ResolveChoice(ctx context.Context, req resolve.Request) (string, error) {
	choiceJSON, err := json.MarshalIndent(req.Choices, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode choice map: %w", err)
	}

	userPrompt := fmt.Sprintf("The player is currently in the scene: '%s'.\nThe available choice keys and their descriptions are:\n%s\nThe player's spoken action was: '%s'.",
		req.SceneTitle, choiceJSON, req.Utterance)

	ctx, span := s.tracer.Start(ctx, "llm.resolve_choice",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			observability.CreateGenAIAttributes("openai", s.model, 0, 0, 0.0)...,
		),
	)
	defer span.End()

	startTime := time.Now()

	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(s.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(resolutionSystemPrompt),
			openai.UserMessage(userPrompt),
		},
		MaxCompletionTokens: openai.Int(16),
		Temperature:         openai.Float(0),
	}

	resp, err := s.client.Chat.Completions.New(ctx, params)
	if err != nil {
		span.SetAttributes(attribute.String("error.type", "llm_completion_error"))
		span.RecordError(err)
		return "", fmt.Errorf("choice resolution failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		err := fmt.Errorf("no completion choices returned")
		span.RecordError(err)
		return "", err
	}

	content := resp.Choices[0].Message.Content
	duration := time.Since(startTime)

	span.SetAttributes(
		attribute.Int64("gen_ai.usage.input_tokens", resp.Usage.PromptTokens),
		attribute.Int64("gen_ai.usage.output_tokens", resp.Usage.CompletionTokens),
		attribute.Int64("response_time_ms", duration.Milliseconds()),
		attribute.String("langfuse.observation.output", content),
	)

	s.log.Debug().
		Str("scene", req.SceneTitle).
		Str("token", content).
		Dur("duration", duration).
		Msg("choice resolution completed")

	return content, nil
}
