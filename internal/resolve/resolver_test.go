package resolve

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamemaster/internal/world"
)

func deterministicPipeline() *Pipeline {
	return NewPipeline(nil, time.Second, nil, zerolog.Nop())
}

func loadGraph(t *testing.T) *world.Graph {
	t.Helper()
	graph, err := world.LoadDefault()
	require.NoError(t, err)
	return graph
}

func TestExactKeyMatchesEveryChoice(t *testing.T) {
	graph := loadGraph(t)
	p := deterministicPipeline()

	for _, scene := range graph.Scenes() {
		for _, choice := range scene.Choices {
			got, ok := p.Resolve(context.Background(), scene, choice.ID)
			require.True(t, ok, "scene %s choice %s", scene.ID, choice.ID)
			assert.Equal(t, choice.ID, got)
		}
	}
}

func TestExactKeyFoldsCaseAndWhitespace(t *testing.T) {
	graph := loadGraph(t)
	intro, _ := graph.Scene("intro")
	p := deterministicPipeline()

	got, ok := p.Resolve(context.Background(), intro, "  INSPECT_BOX \n")
	require.True(t, ok)
	assert.Equal(t, "inspect_box", got)
}

func TestHeuristicMatchesChoiceIDSubstring(t *testing.T) {
	graph := loadGraph(t)
	intro, _ := graph.Scene("intro")
	p := deterministicPipeline()

	got, ok := p.Resolve(context.Background(), intro, "I think I'll approach_tower first")
	require.True(t, ok)
	assert.Equal(t, "approach_tower", got)
}

func TestHeuristicMatchesDescriptionWord(t *testing.T) {
	graph := loadGraph(t)
	intro, _ := graph.Scene("intro")
	p := deterministicPipeline()

	got, ok := p.Resolve(context.Background(), intro, "inspect the box")
	require.True(t, ok)
	assert.Equal(t, "inspect_box", got)
}

func TestHeuristicFirstChoiceWinsTie(t *testing.T) {
	graph := loadGraph(t)
	intro, _ := graph.Scene("intro")
	p := deterministicPipeline()

	// "the" sits in the leading words of every intro choice; the first
	// declared choice must win.
	got, ok := p.Resolve(context.Background(), intro, "the")
	require.True(t, ok)
	assert.Equal(t, "inspect_box", got)
}

func TestKeywordVerbMatch(t *testing.T) {
	graph := loadGraph(t)
	cellar, _ := graph.Scene("cellar")
	p := deterministicPipeline()

	// "close" appears past the leading words of the leave_quietly
	// description, so only the verb stage can find it.
	got, ok := p.Resolve(context.Background(), cellar, "close it behind me")
	require.True(t, ok)
	assert.Equal(t, "leave_quietly", got)
}

func TestChoiceFromAnotherSceneDoesNotResolve(t *testing.T) {
	graph := loadGraph(t)
	intro, _ := graph.Scene("intro")
	p := deterministicPipeline()

	// take_map belongs to the box scene; issuing it from intro must not
	// resolve.
	_, ok := p.Resolve(context.Background(), intro, "take_map")
	assert.False(t, ok)
}

func TestEmptyUtteranceDoesNotResolve(t *testing.T) {
	graph := loadGraph(t)
	intro, _ := graph.Scene("intro")
	p := deterministicPipeline()

	_, ok := p.Resolve(context.Background(), intro, "   ")
	assert.False(t, ok)
}

func TestDescriptionKeywords(t *testing.T) {
	assert.Equal(t, []string{"inspect", "the", "carved"},
		descriptionKeywords("Inspect the carved wooden box at the water's edge.")[:3])
	assert.Equal(t, []string{"pick", "the", "brass"},
		descriptionKeywords("Pick up the brass key."), "two-character words are dropped")
	assert.Empty(t, descriptionKeywords("a an to of"))
}

type fakeResolver struct {
	token string
	err   error
	delay time.Duration
	calls int
}

func (f *fakeResolver) ResolveChoice(ctx context.Context, req Request) (string, error) {
	f.calls++
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.err != nil {
		return "", f.err
	}
	return f.token, nil
}

func TestSemanticFallbackResolvesValidToken(t *testing.T) {
	graph := loadGraph(t)
	intro, _ := graph.Scene("intro")
	fake := &fakeResolver{token: "walk_to_cottages"}
	p := NewPipeline(fake, time.Second, nil, zerolog.Nop())

	got, ok := p.Resolve(context.Background(), intro, "wander east, I suppose")
	require.True(t, ok)
	assert.Equal(t, "walk_to_cottages", got)
	assert.Equal(t, 1, fake.calls)
}

func TestSemanticFallbackNormalizesToken(t *testing.T) {
	graph := loadGraph(t)
	intro, _ := graph.Scene("intro")
	fake := &fakeResolver{token: " \"Walk_To_Cottages\" "}
	p := NewPipeline(fake, time.Second, nil, zerolog.Nop())

	got, ok := p.Resolve(context.Background(), intro, "wander east, I suppose")
	require.True(t, ok)
	assert.Equal(t, "walk_to_cottages", got)
}

func TestSemanticFallbackSentinelIsUnresolved(t *testing.T) {
	graph := loadGraph(t)
	intro, _ := graph.Scene("intro")
	fake := &fakeResolver{token: "NONE"}
	p := NewPipeline(fake, time.Second, nil, zerolog.Nop())

	_, ok := p.Resolve(context.Background(), intro, "sing a sea shanty")
	assert.False(t, ok)
}

func TestSemanticFallbackInvalidTokenIsUnresolved(t *testing.T) {
	graph := loadGraph(t)
	intro, _ := graph.Scene("intro")
	fake := &fakeResolver{token: "take_map"}
	p := NewPipeline(fake, time.Second, nil, zerolog.Nop())

	// Even a token that is a real choice id elsewhere in the graph is
	// invalid unless the current scene offers it.
	_, ok := p.Resolve(context.Background(), intro, "sing a sea shanty")
	assert.False(t, ok)
}

func TestSemanticFallbackErrorIsUnresolved(t *testing.T) {
	graph := loadGraph(t)
	intro, _ := graph.Scene("intro")
	fake := &fakeResolver{err: errors.New("connection refused")}
	p := NewPipeline(fake, time.Second, nil, zerolog.Nop())

	_, ok := p.Resolve(context.Background(), intro, "sing a sea shanty")
	assert.False(t, ok)
}

func TestSemanticFallbackTimeoutIsUnresolved(t *testing.T) {
	graph := loadGraph(t)
	intro, _ := graph.Scene("intro")
	fake := &fakeResolver{token: "walk_to_cottages", delay: 200 * time.Millisecond}
	p := NewPipeline(fake, 10*time.Millisecond, nil, zerolog.Nop())

	_, ok := p.Resolve(context.Background(), intro, "sing a sea shanty")
	assert.False(t, ok)
}

func TestDeterministicStagesSkipFallback(t *testing.T) {
	graph := loadGraph(t)
	intro, _ := graph.Scene("intro")
	fake := &fakeResolver{token: "walk_to_cottages"}
	p := NewPipeline(fake, time.Second, nil, zerolog.Nop())

	got, ok := p.Resolve(context.Background(), intro, "inspect_box")
	require.True(t, ok)
	assert.Equal(t, "inspect_box", got)
	assert.Zero(t, fake.calls, "an exact match must not reach the fallback")
}
