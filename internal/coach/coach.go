// Package coach orchestrates the insight pipeline: load events, detect
// patterns, promote durable ones to knowledge, generate ranked cards, and
// optionally produce a conversational reply.
package coach

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/coachkit/coachkit/internal/cards"
	"github.com/coachkit/coachkit/internal/detect"
	"github.com/coachkit/coachkit/internal/loader"
	"github.com/coachkit/coachkit/internal/model"
	"github.com/coachkit/coachkit/internal/promote"
	"github.com/coachkit/coachkit/internal/reply"
	"github.com/coachkit/coachkit/internal/store"
)

// knowledgeLimit is how many knowledge items are read back after promotion.
const knowledgeLimit = 5

// CalendarEvent is an optional upcoming event supplied by the caller; only
// its sanitized title and start time ever reach the reply generator.
type CalendarEvent struct {
	Title string    `json:"title"`
	Start time.Time `json:"start"`
}

// RunParams are the inputs to one orchestration call.
type RunParams struct {
	UserID     string
	Message    string // empty means no reply is generated
	Now        time.Time
	WindowDays int
	Calendar   []CalendarEvent
}

// RunResult is the output of one orchestration call.
type RunResult struct {
	Reply string               `json:"reply"`
	Cards []model.CoachingCard `json:"cards"`
}

// Coach wires the pipeline stages together. All collaborators are injected;
// the generator may be nil, which disables reply generation entirely.
type Coach struct {
	loader    *loader.Loader
	promoter  *promote.Promoter
	knowledge store.KnowledgeStore
	generator reply.Generator
	log       *zap.Logger
}

// New creates a Coach. A nil logger falls back to a no-op one.
func New(l *loader.Loader, p *promote.Promoter, knowledge store.KnowledgeStore, generator reply.Generator, log *zap.Logger) *Coach {
	if log == nil {
		log = zap.NewNop()
	}
	return &Coach{
		loader:    l,
		promoter:  p,
		knowledge: knowledge,
		generator: generator,
		log:       log,
	}
}

// Run executes the pipeline for one user. Promotion runs before the
// knowledge read-back so freshly promoted items are visible to the prompt;
// a promotion failure is reported but never suppresses the cards, and a
// generator failure still returns the cards with an empty reply.
func (c *Coach) Run(ctx context.Context, p RunParams) (*RunResult, error) {
	now := p.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	events, err := c.loader.Load(ctx, p.UserID, p.WindowDays, now)
	if err != nil {
		return nil, err
	}

	patterns := detect.Detect(events, now)

	if err := c.promoter.Promote(ctx, p.UserID, patterns); err != nil {
		c.log.Error("knowledge promotion failed, continuing",
			zap.String("user_id", p.UserID), zap.Error(err))
	}

	knowledge, err := c.knowledge.ListKnowledge(ctx, p.UserID, knowledgeLimit)
	if err != nil {
		c.log.Warn("knowledge read-back failed, continuing without it",
			zap.String("user_id", p.UserID), zap.Error(err))
		knowledge = nil
	}

	result := &RunResult{Cards: cards.Generate(patterns)}

	if p.Message == "" || c.generator == nil {
		return result, nil
	}

	userPrompt := buildUserPrompt(promptContext{
		Message:   p.Message,
		Patterns:  patterns,
		Knowledge: knowledge,
		Calendar:  p.Calendar,
	})

	text, err := c.generator.Generate(ctx, systemPrompt, userPrompt)
	if err != nil {
		c.log.Warn("reply generation failed, returning cards only",
			zap.String("user_id", p.UserID), zap.Error(err))
		return result, nil
	}
	result.Reply = text
	return result, nil
}
