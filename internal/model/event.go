// Package model defines the core coaching data types.
package model

import "time"

// EventKind discriminates the CoachEvent union.
type EventKind string

const (
	KindHealthCheckin     EventKind = "health_checkin"
	KindMoment            EventKind = "moment"
	KindReflection        EventKind = "evening_reflection"
	KindConversationUser  EventKind = "conversation_user"
	KindConversationCoach EventKind = "conversation_coach"
)

// SourceKinds are the event kinds the loader fetches, one fetch per entry.
// Conversation turns share a fetch since they live in the same journal.
var SourceKinds = [][]EventKind{
	{KindHealthCheckin},
	{KindMoment},
	{KindReflection},
	{KindConversationUser, KindConversationCoach},
}

// CoachEvent is the closed union of daily-life events consumed by the
// detection pipeline. Events are immutable once loaded and totally ordered
// by timestamp after load.
type CoachEvent interface {
	Kind() EventKind
	When() time.Time
}

// HealthCheckin is a daily self-report of sleep, energy, meals and exercise.
// Optional fields are pointers; nil means "not reported".
type HealthCheckin struct {
	ID             string     `json:"id,omitempty"`
	EntryDate      time.Time  `json:"entry_date"`
	SleepHours     *float64   `json:"sleep_hours,omitempty"`
	SleepQuality   *int       `json:"sleep_quality,omitempty"` // 1-5
	EnergyLevel    *int       `json:"energy_level,omitempty"`  // 1-5
	AnxietyLevel   *int       `json:"anxiety_level,omitempty"`
	Exercised      *bool      `json:"exercised,omitempty"`
	ExerciseType   string     `json:"exercise_type,omitempty"`
	BreakfastTaken *bool      `json:"breakfast_taken,omitempty"`
	LunchTaken     *bool      `json:"lunch_taken,omitempty"`
	DinnerTaken    *bool      `json:"dinner_taken,omitempty"`
	Notes          string     `json:"notes,omitempty"`
}

func (e HealthCheckin) Kind() EventKind { return KindHealthCheckin }
func (e HealthCheckin) When() time.Time { return e.EntryDate }

// MealsTaken counts the meals reported taken on this check-in.
func (e HealthCheckin) MealsTaken() int {
	n := 0
	for _, m := range []*bool{e.BreakfastTaken, e.LunchTaken, e.DinnerTaken} {
		if m != nil && *m {
			n++
		}
	}
	return n
}

// Moment is a discrete emotional or relational moment, possibly transcribed
// from voice.
type Moment struct {
	ID              string    `json:"id,omitempty"`
	EntryDate       time.Time `json:"entry_date"`
	Label           string    `json:"label"`
	Intensity       *int      `json:"intensity,omitempty"`
	Category        string    `json:"category,omitempty"`
	Context         string    `json:"context,omitempty"`
	VoiceTranscript string    `json:"voice_transcript,omitempty"`
}

func (e Moment) Kind() EventKind { return KindMoment }
func (e Moment) When() time.Time { return e.EntryDate }

// EveningReflection is an end-of-day journal entry.
type EveningReflection struct {
	ID                string    `json:"id,omitempty"`
	EntryDate         time.Time `json:"entry_date"`
	Highlights        string    `json:"highlights,omitempty"`
	Challenges        string    `json:"challenges,omitempty"`
	Relational        string    `json:"relational,omitempty"`
	AuthenticityScore *int      `json:"authenticity_score,omitempty"`
	TomorrowFocus     string    `json:"tomorrow_focus,omitempty"`
}

func (e EveningReflection) Kind() EventKind { return KindReflection }
func (e EveningReflection) When() time.Time { return e.EntryDate }

// ConversationUser is a free-text message from the user to the coach.
type ConversationUser struct {
	ID        string    `json:"id,omitempty"`
	EntryDate time.Time `json:"entry_date"`
	Text      string    `json:"text"`
}

func (e ConversationUser) Kind() EventKind { return KindConversationUser }
func (e ConversationUser) When() time.Time { return e.EntryDate }

// ConversationCoach is a free-text reply previously sent by the coach.
type ConversationCoach struct {
	ID        string    `json:"id,omitempty"`
	EntryDate time.Time `json:"entry_date"`
	Text      string    `json:"text"`
}

func (e ConversationCoach) Kind() EventKind { return KindConversationCoach }
func (e ConversationCoach) When() time.Time { return e.EntryDate }
