package resolve

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"gamemaster/internal/logging"
	"gamemaster/internal/world"
)

// resolveSemantic runs the single fallback attempt. Transport errors,
// timeouts, the NoMatch sentinel, and tokens outside the offered choice
// set all collapse into "unresolved"; the turn then degrades to a
// clarification prompt instead of failing.
func (p *Pipeline) resolveSemantic(ctx context.Context, scene *world.Scene, utterance string) (string, bool) {
	if p.fallback == nil {
		return "", false
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	ctx, span := p.tracer.Start(ctx, "resolve.semantic_fallback",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("game.scene_id", scene.ID),
			attribute.Int("game.choice_count", len(scene.Choices)),
		),
	)
	defer span.End()

	req := Request{
		SceneTitle: scene.Title,
		Choices:    scene.ChoiceMap(),
		Utterance:  utterance,
	}

	start := time.Now()
	token, err := p.fallback.ResolveChoice(ctx, req)
	latency := time.Since(start)

	if err != nil {
		span.RecordError(err)
		p.log.Warn().Err(err).Str("scene", scene.ID).Msg("semantic resolution failed")
		p.record(scene.ID, utterance, "", "error", err.Error(), latency)
		return "", false
	}

	token = normalizeToken(token)
	span.SetAttributes(attribute.String("game.resolved_token", token))

	if token == "" || strings.EqualFold(token, NoMatch) {
		p.log.Info().Str("scene", scene.ID).Str("utterance", utterance).Msg("semantic resolution returned no match")
		p.record(scene.ID, utterance, "", "none", "", latency)
		return "", false
	}

	for _, choice := range scene.Choices {
		if strings.EqualFold(choice.ID, token) {
			p.log.Info().Str("scene", scene.ID).Str("choice", choice.ID).Str("utterance", utterance).Msg("semantic resolution matched")
			p.record(scene.ID, utterance, choice.ID, "resolved", "", latency)
			return choice.ID, true
		}
	}

	p.log.Warn().Str("scene", scene.ID).Str("token", token).Msg("semantic resolution returned a token outside the choice set")
	p.record(scene.ID, utterance, "", "invalid", "token "+token, latency)
	return "", false
}

// normalizeToken strips the wrapping a model sometimes adds around the
// bare choice key.
func normalizeToken(token string) string {
	token = strings.TrimSpace(token)
	token = strings.Trim(token, "\"'`")
	return strings.ToLower(strings.TrimSpace(token))
}

func (p *Pipeline) record(sceneID, utterance, resolved, outcome, errText string, latency time.Duration) {
	if p.audit == nil {
		return
	}
	rec := logging.ResolutionRecord{
		SceneID:     sceneID,
		Utterance:   utterance,
		ResolvedKey: resolved,
		Outcome:     outcome,
		Error:       errText,
		Latency:     latency,
	}
	// Best effort; a failed audit write must not affect the turn.
	if err := p.audit.Record(rec); err != nil {
		p.log.Warn().Err(err).Msg("failed to record resolution")
	}
}
