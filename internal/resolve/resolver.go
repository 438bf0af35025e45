// Package resolve maps a freeform player utterance onto one of the
// current scene's choices. Matching runs as an ordered pipeline: three
// deterministic stages, then a single semantic fallback call. The
// first stage to match wins; failure at every stage is a normal
// "unresolved" result, never an error.
package resolve

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"gamemaster/internal/logging"
	"gamemaster/internal/world"
)

// NoMatch is the sentinel the semantic service returns when the
// utterance maps to none of the offered choices.
const NoMatch = "NONE"

// actionVerbs is the fixed vocabulary for the secondary keyword stage.
var actionVerbs = []string{
	"take", "pick", "open", "go", "return", "leave",
	"fight", "flee", "search", "descend", "close",
}

// Request is the payload handed to the semantic resolution service.
type Request struct {
	SceneTitle string
	Choices    map[string]string
	Utterance  string
}

// ChoiceResolver is the external semantic fallback. Implementations
// must answer with exactly one token: a choice id from the supplied
// mapping, or NoMatch.
type ChoiceResolver interface {
	ResolveChoice(ctx context.Context, req Request) (string, error)
}

type Pipeline struct {
	fallback ChoiceResolver // nil disables the semantic stage
	timeout  time.Duration
	audit    *logging.ResolutionLog // nil disables audit records
	log      zerolog.Logger
	tracer   trace.Tracer
}

func NewPipeline(fallback ChoiceResolver, timeout time.Duration, audit *logging.ResolutionLog, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		fallback: fallback,
		timeout:  timeout,
		audit:    audit,
		log:      log,
		tracer:   otel.Tracer("action-resolver"),
	}
}

// Resolve runs the pipeline for one utterance against one scene.
// It performs no state mutation and is safe to abandon mid-call.
func (p *Pipeline) Resolve(ctx context.Context, scene *world.Scene, utterance string) (string, bool) {
	folded := strings.ToLower(strings.TrimSpace(utterance))
	if folded == "" {
		return "", false
	}

	if id, ok := matchExact(scene, folded); ok {
		p.log.Debug().Str("scene", scene.ID).Str("choice", id).Msg("resolved by exact key")
		return id, true
	}
	if id, ok := matchHeuristic(scene, folded); ok {
		p.log.Debug().Str("scene", scene.ID).Str("choice", id).Msg("resolved by description heuristic")
		return id, true
	}
	if id, ok := matchKeyword(scene, folded); ok {
		p.log.Debug().Str("scene", scene.ID).Str("choice", id).Msg("resolved by action verb")
		return id, true
	}

	return p.resolveSemantic(ctx, scene, utterance)
}

// matchExact matches the folded utterance verbatim against a choice id.
func matchExact(scene *world.Scene, folded string) (string, bool) {
	for _, choice := range scene.Choices {
		if strings.ToLower(choice.ID) == folded {
			return choice.ID, true
		}
	}
	return "", false
}

// matchHeuristic matches when the choice id appears inside the
// utterance, or when one of the leading description words does.
// Choices are checked in scene order, so the first declared choice
// wins a tie.
func matchHeuristic(scene *world.Scene, folded string) (string, bool) {
	for _, choice := range scene.Choices {
		if strings.Contains(folded, strings.ToLower(choice.ID)) {
			return choice.ID, true
		}
		for _, word := range descriptionKeywords(choice.Desc) {
			if strings.Contains(folded, word) {
				return choice.ID, true
			}
		}
	}
	return "", false
}

// descriptionKeywords returns the first four whitespace-delimited words
// of a choice description, case-folded, keeping only words longer than
// two characters.
func descriptionKeywords(desc string) []string {
	words := strings.Fields(strings.ToLower(desc))
	if len(words) > 4 {
		words = words[:4]
	}
	keep := words[:0]
	for _, w := range words {
		if len(w) > 2 {
			keep = append(keep, w)
		}
	}
	return keep
}

// matchKeyword matches when a verb from the fixed vocabulary appears in
// both the utterance and a choice's description.
func matchKeyword(scene *world.Scene, folded string) (string, bool) {
	for _, choice := range scene.Choices {
		desc := strings.ToLower(choice.Desc)
		for _, verb := range actionVerbs {
			if strings.Contains(folded, verb) && strings.Contains(desc, verb) {
				return choice.ID, true
			}
		}
	}
	return "", false
}
