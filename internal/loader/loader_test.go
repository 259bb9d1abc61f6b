package loader

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/coachkit/coachkit/internal/model"
)

var testNow = time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

func day(n int) time.Time {
	return time.Date(2026, 8, n, 0, 0, 0, 0, time.UTC)
}

// fakeEventStore serves canned events per kind and can fail selected kinds.
type fakeEventStore struct {
	byKind map[model.EventKind][]model.CoachEvent
	fail   map[model.EventKind]error
}

func (f *fakeEventStore) PutEvent(ctx context.Context, userID string, ev model.CoachEvent) (string, error) {
	return "", errors.New("read-only fake")
}

func (f *fakeEventStore) ListEvents(ctx context.Context, userID string, kinds []model.EventKind, from, to time.Time) ([]model.CoachEvent, error) {
	var out []model.CoachEvent
	for _, k := range kinds {
		if err := f.fail[k]; err != nil {
			return nil, err
		}
		for _, ev := range f.byKind[k] {
			if !ev.When().Before(from) && ev.When().Before(to) {
				out = append(out, ev)
			}
		}
	}
	return out, nil
}

func TestLoadMergesAndSorts(t *testing.T) {
	fake := &fakeEventStore{byKind: map[model.EventKind][]model.CoachEvent{
		model.KindHealthCheckin: {
			model.HealthCheckin{EntryDate: day(13)},
			model.HealthCheckin{EntryDate: day(11)},
		},
		model.KindMoment: {
			model.Moment{EntryDate: day(12), Label: "x"},
		},
		model.KindConversationUser: {
			model.ConversationUser{EntryDate: day(14), Text: "hi"},
		},
	}}

	events, err := New(fake, nil).Load(context.Background(), "u1", 14, testNow)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(events) != 4 {
		t.Fatalf("expected 4 events, got %d", len(events))
	}
	for i := 1; i < len(events); i++ {
		if events[i].When().Before(events[i-1].When()) {
			t.Errorf("events out of order at %d", i)
		}
	}
}

func TestLoadWindowCutoff(t *testing.T) {
	fake := &fakeEventStore{byKind: map[model.EventKind][]model.CoachEvent{
		model.KindMoment: {
			model.Moment{EntryDate: testNow.AddDate(0, 0, -20), Label: "too old"},
			model.Moment{EntryDate: testNow.AddDate(0, 0, -2), Label: "recent"},
		},
	}}

	events, err := New(fake, nil).Load(context.Background(), "u1", 14, testNow)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event inside window, got %d", len(events))
	}
	if events[0].(model.Moment).Label != "recent" {
		t.Errorf("wrong event survived the cutoff: %+v", events[0])
	}
}

func TestLoadPartialFailure(t *testing.T) {
	fake := &fakeEventStore{
		byKind: map[model.EventKind][]model.CoachEvent{
			model.KindHealthCheckin: {model.HealthCheckin{EntryDate: day(11)}},
			model.KindMoment:        {model.Moment{EntryDate: day(12), Label: "x"}},
		},
		fail: map[model.EventKind]error{
			model.KindReflection: errors.New("source down"),
		},
	}

	events, err := New(fake, nil).Load(context.Background(), "u1", 14, testNow)
	if err != nil {
		t.Fatalf("one failing source must not fail the load: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("expected 2 events from surviving sources, got %d", len(events))
	}
}

func TestLoadAllSourcesFailed(t *testing.T) {
	boom := errors.New("db gone")
	fake := &fakeEventStore{fail: map[model.EventKind]error{
		model.KindHealthCheckin:    boom,
		model.KindMoment:           boom,
		model.KindReflection:       boom,
		model.KindConversationUser: boom,
	}}

	_, err := New(fake, nil).Load(context.Background(), "u1", 14, testNow)
	if err == nil {
		t.Fatal("expected error when every source fails")
	}
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped source error, got %v", err)
	}
}

func TestLoadDefaultWindow(t *testing.T) {
	fake := &fakeEventStore{byKind: map[model.EventKind][]model.CoachEvent{
		model.KindMoment: {
			model.Moment{EntryDate: testNow.AddDate(0, 0, -10), Label: "in"},
			model.Moment{EntryDate: testNow.AddDate(0, 0, -15), Label: "out"},
		},
	}}

	events, err := New(fake, nil).Load(context.Background(), "u1", 0, testNow)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(events) != 1 || events[0].(model.Moment).Label != "in" {
		t.Errorf("default window not applied: %+v", events)
	}
}
