// Package cards turns detected patterns into ranked coaching cards.
package cards

import (
	"sort"

	"github.com/coachkit/coachkit/internal/model"
)

// MaxCards bounds the ranked output.
const MaxCards = 5

// template is the fixed narrative block for one pattern kind.
type template struct {
	cardType        string
	observation     string
	reasoning       string
	blindspot       string
	question        string
	suggestedAction string
	howToImplement  string
	highBar         float64 // confidence above which the card is priority 1
	alwaysTop       bool    // blind-spot cards are always priority 1
}

// templateBySource maps each pattern kind to its narrative. Unknown kinds
// produce no card. Adding a pattern kind means adding exactly one row here.
var templateBySource = map[model.PatternID]template{
	model.PatternNutritionEnergy: {
		cardType:        "habit",
		observation:     "Your energy is noticeably higher on days you eat regular meals.",
		reasoning:       "Skipped meals show up as lower self-reported energy across your recent check-ins.",
		question:        "What usually gets in the way of lunch on your low-energy days?",
		suggestedAction: "Protect at least two meals a day this week.",
		howToImplement:  "Block 30 minutes for lunch in your calendar before anything else lands there.",
		highBar:         0.8,
	},
	model.PatternSleepAnxiety: {
		cardType:        "habit",
		observation:     "Short nights are followed by higher anxiety the next day.",
		reasoning:       "Your check-ins show anxiety climbing after nights under seven hours.",
		question:        "What tends to push your bedtime late?",
		suggestedAction: "Aim for seven hours on at least five nights this week.",
		howToImplement:  "Set a wind-down alarm an hour before your target bedtime.",
		highBar:         0.75,
	},
	model.PatternExerciseSleep: {
		cardType:        "habit",
		observation:     "You sleep better on the nights that follow exercise.",
		reasoning:       "Days you moved show higher sleep quality than days you didn't.",
		question:        "Which kind of movement felt easiest to fit in recently?",
		suggestedAction: "Schedule three short workouts this week, earlier in the day.",
		howToImplement:  "Pair exercise with something already fixed in your routine, like right after work.",
		highBar:         0.75,
	},
	model.PatternRelationalAuth: {
		cardType:        "strength",
		observation:     "Most of your recent interactions left you feeling authentic and energized.",
		reasoning:       "The people you spend time with are largely ones you can be yourself around.",
		question:        "What do these energizing relationships have in common?",
		suggestedAction: "Invest deliberately in the relationships that leave you feeling like yourself.",
		howToImplement:  "Reach out this week to one person from your energizing list.",
		highBar:         0.8,
	},
	model.PatternRelationalDim: {
		cardType:        "blindspot",
		observation:     "A recurring share of your interactions leaves you feeling smaller than you are.",
		blindspot:       "One relationship keeps showing up next to the words diminished, drained or unseen, and it may be costing more than you notice.",
		question:        "What would you tell a friend who described this relationship to you?",
		suggestedAction: "Notice, in the moment, when you start shrinking yourself.",
		howToImplement:  "After the next interaction that feels off, write down one sentence about what happened.",
		alwaysTop:       true,
	},
	model.PatternStressTriggers: {
		cardType:        "stress",
		observation:     "One trigger accounts for a large share of your recent stress moments.",
		reasoning:       "Concentrated stress usually responds better to one targeted change than to general rest.",
		question:        "Is this trigger something to fix, renegotiate, or walk away from?",
		suggestedAction: "Pick one concrete boundary around your main trigger this week.",
		howToImplement:  "Decide the boundary now, while calm, and write it where you'll see it.",
		highBar:         0.8,
	},
}

// Generate maps patterns to cards, ranks them, and truncates to MaxCards.
// Pure: same patterns in, same cards out.
//
// Ranking note: cards sort by numerically larger priority first. The
// comparator is kept exactly as shipped (descending priority number), so a
// priority-2 card outranks a priority-1 card. Verify against product intent
// before changing it.
func Generate(patterns []model.Pattern) []model.CoachingCard {
	var out []model.CoachingCard
	for _, p := range patterns {
		tpl, ok := templateBySource[p.PatternID]
		if !ok {
			continue
		}

		priority := 2
		if tpl.alwaysTop || p.Confidence > tpl.highBar {
			priority = 1
		}

		out = append(out, model.CoachingCard{
			ID:              "card-" + string(p.PatternID),
			Type:            tpl.cardType,
			Priority:        priority,
			Observation:     tpl.observation,
			Reasoning:       tpl.reasoning,
			Blindspot:       tpl.blindspot,
			Question:        tpl.question,
			SuggestedAction: tpl.suggestedAction,
			HowToImplement:  tpl.howToImplement,
			Evidence: &model.CardEvidence{
				DataPoints: p.EvidencePoints(),
				Confidence: p.Confidence,
			},
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority > out[j].Priority
	})

	if len(out) > MaxCards {
		out = out[:MaxCards]
	}
	return out
}
