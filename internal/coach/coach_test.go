package coach

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/coachkit/coachkit/internal/loader"
	"github.com/coachkit/coachkit/internal/model"
	"github.com/coachkit/coachkit/internal/promote"
	"github.com/coachkit/coachkit/internal/store"
)

var testNow = time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

func day(n int) time.Time {
	return time.Date(2026, 8, n, 0, 0, 0, 0, time.UTC)
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

// seedNutritionWindow stores 14 days of check-ins: 5 with meals and high
// energy, 9 without meals and low energy. Enough for a confident
// nutrition-meals-energy pattern.
func seedNutritionWindow(t *testing.T, s *store.SQLiteStore, userID string) {
	t.Helper()
	ctx := context.Background()
	withEnergy := []int{4, 5, 4, 5, 4}
	for i, e := range withEnergy {
		_, err := s.PutEvent(ctx, userID, model.HealthCheckin{
			EntryDate:      day(i + 1),
			EnergyLevel:    intPtr(e),
			BreakfastTaken: boolPtr(true),
			LunchTaken:     boolPtr(true),
		})
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	for i := 0; i < 9; i++ {
		_, err := s.PutEvent(ctx, userID, model.HealthCheckin{
			EntryDate:   day(i + 6),
			EnergyLevel: intPtr(2),
		})
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

func newTestCoach(t *testing.T, gen *fakeGenerator) (*Coach, *store.SQLiteStore) {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	var c *Coach
	if gen == nil {
		c = New(loader.New(s, nil), promote.New(s, nil), s, nil, nil)
	} else {
		c = New(loader.New(s, nil), promote.New(s, nil), s, gen, nil)
	}
	return c, s
}

type fakeGenerator struct {
	reply      string
	err        error
	calls      int
	lastSystem string
	lastUser   string
}

func (f *fakeGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.calls++
	f.lastSystem = systemPrompt
	f.lastUser = userPrompt
	return f.reply, f.err
}

func TestRunWithoutMessage(t *testing.T) {
	c, s := newTestCoach(t, nil)
	seedNutritionWindow(t, s, "u1")

	result, err := c.Run(context.Background(), RunParams{UserID: "u1", Now: testNow})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Reply != "" {
		t.Errorf("expected empty reply without message, got %q", result.Reply)
	}
	if len(result.Cards) == 0 {
		t.Fatal("expected cards from the seeded pattern")
	}

	// The confident pattern must have been promoted
	items, _ := s.ListKnowledge(context.Background(), "u1", 10)
	if len(items) != 1 {
		t.Fatalf("expected 1 knowledge item after run, got %d", len(items))
	}
	if items[0].Source != model.PatternNutritionEnergy {
		t.Errorf("unexpected knowledge source: %s", items[0].Source)
	}
}

func TestRunIsIdempotentOnKnowledge(t *testing.T) {
	c, s := newTestCoach(t, nil)
	seedNutritionWindow(t, s, "u1")

	for i := 0; i < 2; i++ {
		if _, err := c.Run(context.Background(), RunParams{UserID: "u1", Now: testNow}); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}

	items, _ := s.ListKnowledge(context.Background(), "u1", 10)
	if len(items) != 1 {
		t.Errorf("expected 1 knowledge item after two runs, got %d", len(items))
	}
}

func TestRunWithMessage(t *testing.T) {
	gen := &fakeGenerator{reply: "That sounds like a rough week."}
	c, s := newTestCoach(t, gen)
	seedNutritionWindow(t, s, "u1")

	result, err := c.Run(context.Background(), RunParams{
		UserID:  "u1",
		Message: "I keep skipping lunch when work with Marcus gets busy",
		Now:     testNow,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Reply != gen.reply {
		t.Errorf("expected generator reply verbatim, got %q", result.Reply)
	}
	if gen.calls != 1 {
		t.Errorf("expected 1 generator call, got %d", gen.calls)
	}
	if strings.Contains(gen.lastUser, "Marcus") {
		t.Errorf("prompt leaked a name: %q", gen.lastUser)
	}
	if !strings.Contains(gen.lastUser, "RECENT PATTERNS") {
		t.Errorf("expected pattern context in prompt, got %q", gen.lastUser)
	}
	if !strings.Contains(gen.lastUser, "WHAT WE KNOW SO FAR") {
		t.Errorf("expected knowledge context in prompt, got %q", gen.lastUser)
	}
}

func TestRunGeneratorFailureStillReturnsCards(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("model overloaded")}
	c, s := newTestCoach(t, gen)
	seedNutritionWindow(t, s, "u1")

	withMessage, err := c.Run(context.Background(), RunParams{
		UserID:  "u1",
		Message: "any advice?",
		Now:     testNow,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if withMessage.Reply != "" {
		t.Errorf("expected empty reply on generator failure, got %q", withMessage.Reply)
	}

	withoutMessage, err := c.Run(context.Background(), RunParams{UserID: "u1", Now: testNow})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !reflect.DeepEqual(withMessage.Cards, withoutMessage.Cards) {
		t.Error("generator failure must not change the cards")
	}
}

func TestRunNoMessageMakesNoExternalCall(t *testing.T) {
	gen := &fakeGenerator{reply: "should not be used"}
	c, s := newTestCoach(t, gen)
	seedNutritionWindow(t, s, "u1")

	result, err := c.Run(context.Background(), RunParams{UserID: "u1", Now: testNow})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if gen.calls != 0 {
		t.Errorf("expected no generator call without message, got %d", gen.calls)
	}
	if result.Reply != "" {
		t.Errorf("expected empty reply, got %q", result.Reply)
	}
}

func TestRunEmptyWindow(t *testing.T) {
	c, _ := newTestCoach(t, nil)

	result, err := c.Run(context.Background(), RunParams{UserID: "nobody", Now: testNow})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(result.Cards) != 0 {
		t.Errorf("expected no cards from empty window, got %d", len(result.Cards))
	}
}

func TestBuildUserPromptCalendar(t *testing.T) {
	prompt := buildUserPrompt(promptContext{
		Message: "how should I plan tomorrow?",
		Calendar: []CalendarEvent{
			{Title: "Dinner with Priya", Start: time.Date(2026, 8, 16, 19, 0, 0, 0, time.UTC)},
		},
	})
	if strings.Contains(prompt, "Priya") {
		t.Errorf("calendar title leaked a name: %q", prompt)
	}
	if !strings.Contains(prompt, "19:00") {
		t.Errorf("expected event time in prompt, got %q", prompt)
	}
}
