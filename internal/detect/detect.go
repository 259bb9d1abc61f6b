// Package detect implements the behavioral pattern detectors. Each detector
// is stateless, looks only at the supplied event window, and emits at most
// one pattern. Too little data means no result, not a low-confidence one.
package detect

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/coachkit/coachkit/internal/model"
)

const (
	// minPartitionDays is the smallest partition size a comparison detector
	// accepts on either side.
	minPartitionDays = 3

	// minRelationalMoments gates the relational authenticity detector.
	minRelationalMoments = 3

	// minStressMoments gates the stress trigger detector.
	minStressMoments = 5

	// meanMargin is the minimum mean difference (on the 1-5 scales) a
	// comparison detector treats as signal.
	meanMargin = 1.0

	// dominantShare is the fraction of stress moments a single trigger must
	// account for.
	dominantShare = 0.4

	// authenticShare and dimmingShare are the fractions of relational moments
	// that trip the positive and blind-spot outputs respectively.
	authenticShare = 0.6
	dimmingShare   = 0.5
)

// Detect runs every sub-detector over the event window and returns the
// patterns that crossed their thresholds, zero to five of them. Events must
// be ascending by timestamp.
func Detect(events []model.CoachEvent, now time.Time) []model.Pattern {
	var checkins []model.HealthCheckin
	var moments []model.Moment
	for _, ev := range events {
		switch e := ev.(type) {
		case model.HealthCheckin:
			checkins = append(checkins, e)
		case model.Moment:
			moments = append(moments, e)
		}
	}

	var patterns []model.Pattern
	for _, p := range []*model.Pattern{
		nutritionEnergy(checkins, now),
		sleepAnxiety(checkins, now),
		exerciseSleep(checkins, now),
		relationalAuthenticity(moments, now),
		stressTriggers(moments, now),
	} {
		if p != nil {
			patterns = append(patterns, *p)
		}
	}
	return patterns
}

// confidence scores a mean-difference finding. It grows with both the size
// of the gap beyond the margin and the number of supporting observations,
// and is clamped so an emitted pattern is never scored 0 or above 1.
func confidence(diff float64, samples int) float64 {
	c := 0.5 + 0.1*(diff-meanMargin) + 0.02*float64(samples)
	return clamp(c)
}

// shareConfidence scores a dominant-fraction finding.
func shareConfidence(share float64, samples int) float64 {
	c := 0.4 + 0.4*share + 0.02*float64(samples)
	return clamp(c)
}

func clamp(c float64) float64 {
	if c < 0.05 {
		return 0.05
	}
	if c > 1.0 {
		return 1.0
	}
	return c
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func newPattern(id model.PatternID, domain, desc string, conf float64, evidence map[string]any, now time.Time) *model.Pattern {
	return &model.Pattern{
		ID:           ulid.Make().String(),
		PatternID:    id,
		Domain:       domain,
		Description:  desc,
		Confidence:   conf,
		Evidence:     evidence,
		DiscoveredAt: now,
	}
}

// nutritionEnergy compares mean energy between days with at least two meals
// taken and days with fewer.
func nutritionEnergy(checkins []model.HealthCheckin, now time.Time) *model.Pattern {
	var withMeals, withoutMeals []float64
	for _, c := range checkins {
		if c.EnergyLevel == nil {
			continue
		}
		if c.MealsTaken() >= 2 {
			withMeals = append(withMeals, float64(*c.EnergyLevel))
		} else {
			withoutMeals = append(withoutMeals, float64(*c.EnergyLevel))
		}
	}
	if len(withMeals) < minPartitionDays || len(withoutMeals) < minPartitionDays {
		return nil
	}

	diff := mean(withMeals) - mean(withoutMeals)
	if diff < meanMargin {
		return nil
	}

	samples := len(withMeals) + len(withoutMeals)
	desc := fmt.Sprintf(
		"On days with regular meals your energy averages %.1f, against %.1f on days you skip them.",
		mean(withMeals), mean(withoutMeals))
	return newPattern(model.PatternNutritionEnergy, "nutrition", desc,
		confidence(diff, samples), map[string]any{
			"daysWithMeals":    len(withMeals),
			"daysWithoutMeals": len(withoutMeals),
		}, now)
}

// sleepAnxiety compares mean anxiety between well-slept (>= 7h) and
// poorly-slept nights.
func sleepAnxiety(checkins []model.HealthCheckin, now time.Time) *model.Pattern {
	var wellSlept, poorlySlept []float64
	for _, c := range checkins {
		if c.SleepHours == nil || c.AnxietyLevel == nil {
			continue
		}
		if *c.SleepHours >= 7 {
			wellSlept = append(wellSlept, float64(*c.AnxietyLevel))
		} else {
			poorlySlept = append(poorlySlept, float64(*c.AnxietyLevel))
		}
	}
	if len(wellSlept) < minPartitionDays || len(poorlySlept) < minPartitionDays {
		return nil
	}

	diff := mean(poorlySlept) - mean(wellSlept)
	if diff < meanMargin {
		return nil
	}

	samples := len(wellSlept) + len(poorlySlept)
	desc := fmt.Sprintf(
		"Your anxiety runs %.1f points higher after nights under seven hours of sleep.", diff)
	return newPattern(model.PatternSleepAnxiety, "sleep", desc,
		confidence(diff, samples), map[string]any{
			"wellSleptDays":   len(wellSlept),
			"poorlySleptDays": len(poorlySlept),
		}, now)
}

// exerciseSleep compares sleep quality following exercise days against the
// rest. The next day's reported quality is used when present, falling back
// to the same night's.
func exerciseSleep(checkins []model.HealthCheckin, now time.Time) *model.Pattern {
	byDay := make(map[string]model.HealthCheckin, len(checkins))
	for _, c := range checkins {
		byDay[c.EntryDate.Format("2006-01-02")] = c
	}

	var afterExercise, withoutExercise []float64
	for _, c := range checkins {
		if c.Exercised == nil {
			continue
		}
		quality := c.SleepQuality
		nextDay := c.EntryDate.AddDate(0, 0, 1).Format("2006-01-02")
		if next, ok := byDay[nextDay]; ok && next.SleepQuality != nil {
			quality = next.SleepQuality
		}
		if quality == nil {
			continue
		}
		if *c.Exercised {
			afterExercise = append(afterExercise, float64(*quality))
		} else {
			withoutExercise = append(withoutExercise, float64(*quality))
		}
	}
	if len(afterExercise) < minPartitionDays || len(withoutExercise) < minPartitionDays {
		return nil
	}

	diff := mean(afterExercise) - mean(withoutExercise)
	if diff < meanMargin {
		return nil
	}

	samples := len(afterExercise) + len(withoutExercise)
	desc := fmt.Sprintf(
		"You sleep noticeably better after days you exercise (%.1f vs %.1f quality).",
		mean(afterExercise), mean(withoutExercise))
	return newPattern(model.PatternExerciseSleep, "exercise", desc,
		confidence(diff, samples), map[string]any{
			"daysWithExercise":    len(afterExercise),
			"daysWithoutExercise": len(withoutExercise),
		}, now)
}

// Word lists for classifying how a relational moment felt. Matched against
// the lowercased label and context.
var (
	authenticWords  = []string{"authentic", "energized", "connected", "supported", "seen", "alive", "myself"}
	diminishedWords = []string{"diminished", "drained", "dismissed", "small", "unseen", "tense", "guarded"}
)

func matchesAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// relationalAuthenticity aggregates relational moments into an authentic
// fraction and a diminished fraction. At most one pattern comes out per run:
// the positive one when feeling authentic dominates, or the blind-spot one
// when feeling diminished dominates around a nameable counterpart.
func relationalAuthenticity(moments []model.Moment, now time.Time) *model.Pattern {
	var relational []model.Moment
	for _, m := range moments {
		switch strings.ToLower(m.Category) {
		case "relational", "connection", "relationship":
			relational = append(relational, m)
		}
	}
	total := len(relational)
	if total < minRelationalMoments {
		return nil
	}

	authentic, diminished := 0, 0
	counterparts := map[string]int{}
	for _, m := range relational {
		// Diminished words go first: "unseen" must not match "seen".
		text := strings.ToLower(m.Label + " " + m.Context)
		switch {
		case matchesAny(text, diminishedWords):
			diminished++
			if m.Context != "" {
				counterparts[m.Context]++
			}
		case matchesAny(text, authenticWords):
			authentic++
		}
	}

	evidence := map[string]any{"totalInteractions": total}
	authFrac := float64(authentic) / float64(total)
	dimFrac := float64(diminished) / float64(total)

	if authFrac >= authenticShare {
		desc := fmt.Sprintf(
			"You reported feeling authentic or energized in %d of %d recent interactions.",
			authentic, total)
		return newPattern(model.PatternRelationalAuth, "relational", desc,
			shareConfidence(authFrac, total), evidence, now)
	}

	if dimFrac >= dimmingShare {
		counterpart, best := "", 0
		for c, n := range counterparts {
			if n > best {
				counterpart, best = c, n
			}
		}
		if counterpart == "" {
			return nil
		}
		desc := fmt.Sprintf(
			"You reported feeling diminished in %d of %d recent interactions, most often around %s.",
			diminished, total, counterpart)
		return newPattern(model.PatternRelationalDim, "relational", desc,
			shareConfidence(dimFrac, total), evidence, now)
	}

	return nil
}

// stressTriggers clusters stress moments by their context (label as
// fallback) and reports a trigger that accounts for a dominant share.
func stressTriggers(moments []model.Moment, now time.Time) *model.Pattern {
	triggers := map[string]int{}
	total := 0
	for _, m := range moments {
		if !strings.EqualFold(m.Category, "stress") {
			continue
		}
		total++
		key := m.Context
		if key == "" {
			key = m.Label
		}
		if key != "" {
			triggers[key]++
		}
	}
	if total < minStressMoments {
		return nil
	}

	// Deterministic winner on ties.
	keys := make([]string, 0, len(triggers))
	for k := range triggers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	top, best := "", 0
	for _, k := range keys {
		if triggers[k] > best {
			top, best = k, triggers[k]
		}
	}

	share := float64(best) / float64(total)
	if top == "" || share < dominantShare {
		return nil
	}

	desc := fmt.Sprintf(
		"A single trigger, %s, accounts for %d of your %d recent stress moments.",
		top, best, total)
	return newPattern(model.PatternStressTriggers, "stress", desc,
		shareConfidence(share, total), map[string]any{
			"totalStressMoments": total,
			"topTrigger":         top,
		}, now)
}
