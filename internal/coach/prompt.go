package coach

import (
	"fmt"
	"strings"

	"github.com/coachkit/coachkit/internal/model"
	"github.com/coachkit/coachkit/internal/sanitize"
)

// systemPrompt frames the reply generator. It never varies per user; all
// user-specific context travels in the user prompt, already sanitized.
const systemPrompt = `You are a warm, direct personal life coach.
You will receive a short context block: recent behavioral patterns, durable knowledge about the person, and their latest message.

RULES:
- Respond to the message in 2-4 sentences, conversationally.
- Ground your reply in the supplied patterns and knowledge; do not invent facts.
- Never ask for names, dates, locations, or other identifying details.
- No bullet lists, no headers, no markdown. Plain sentences only.`

// promptContext is the material assembled into the user prompt. Everything
// here must already be safe to disclose; BuildUserPrompt sanitizes it again
// as a last line of defense.
type promptContext struct {
	Message   string
	Patterns  []model.Pattern
	Knowledge []model.KnowledgeItem
	Calendar  []CalendarEvent
}

const (
	maxPromptPatterns  = 3
	maxPromptKnowledge = 5
)

// BuildUserPrompt assembles the sanitized user prompt: the latest message,
// the top patterns, the top knowledge summaries, and any calendar events.
func buildUserPrompt(pc promptContext) string {
	var b strings.Builder

	b.WriteString("LATEST MESSAGE:\n")
	b.WriteString(sanitize.Sanitize(pc.Message))
	b.WriteString("\n")

	if n := min(len(pc.Patterns), maxPromptPatterns); n > 0 {
		b.WriteString("\nRECENT PATTERNS:\n")
		for _, p := range pc.Patterns[:n] {
			fmt.Fprintf(&b, "- %s\n", sanitize.Sanitize(p.Description))
		}
	}

	if n := min(len(pc.Knowledge), maxPromptKnowledge); n > 0 {
		b.WriteString("\nWHAT WE KNOW SO FAR:\n")
		for _, k := range pc.Knowledge[:n] {
			fmt.Fprintf(&b, "- (%s) %s\n", k.Category, sanitize.Sanitize(k.Summary))
		}
	}

	if len(pc.Calendar) > 0 {
		b.WriteString("\nUPCOMING CALENDAR:\n")
		for _, ev := range pc.Calendar {
			fmt.Fprintf(&b, "- %s at %s\n",
				sanitize.Sanitize(ev.Title), ev.Start.Format("15:04"))
		}
	}

	return b.String()
}
