package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/coachkit/coachkit/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "checkin",
		Short: "Record a daily health check-in",
		Run:   runCheckin,
	}

	cmd.Flags().String("date", "", "Entry date YYYY-MM-DD (default: today)")
	cmd.Flags().Float64("sleep-hours", -1, "Hours slept")
	cmd.Flags().Int("sleep-quality", 0, "Sleep quality 1-5")
	cmd.Flags().Int("energy", 0, "Energy level 1-5")
	cmd.Flags().Int("anxiety", 0, "Anxiety level")
	cmd.Flags().Bool("exercised", false, "Exercised today")
	cmd.Flags().String("exercise-type", "", "Kind of exercise")
	cmd.Flags().Bool("breakfast", false, "Breakfast taken")
	cmd.Flags().Bool("lunch", false, "Lunch taken")
	cmd.Flags().Bool("dinner", false, "Dinner taken")
	cmd.Flags().String("notes", "", "Free-form notes")

	RootCmd.AddCommand(cmd)
}

func runCheckin(cmd *cobra.Command, args []string) {
	entry := parseDateFlag(cmd)

	ev := model.HealthCheckin{EntryDate: entry}
	if v, _ := cmd.Flags().GetFloat64("sleep-hours"); v >= 0 {
		ev.SleepHours = &v
	}
	if v, _ := cmd.Flags().GetInt("sleep-quality"); v > 0 {
		ev.SleepQuality = &v
	}
	if v, _ := cmd.Flags().GetInt("energy"); v > 0 {
		ev.EnergyLevel = &v
	}
	if v, _ := cmd.Flags().GetInt("anxiety"); v > 0 {
		ev.AnxietyLevel = &v
	}
	if cmd.Flags().Changed("exercised") {
		v, _ := cmd.Flags().GetBool("exercised")
		ev.Exercised = &v
	}
	ev.ExerciseType, _ = cmd.Flags().GetString("exercise-type")
	for flag, dst := range map[string]**bool{
		"breakfast": &ev.BreakfastTaken,
		"lunch":     &ev.LunchTaken,
		"dinner":    &ev.DinnerTaken,
	} {
		if cmd.Flags().Changed(flag) {
			v, _ := cmd.Flags().GetBool(flag)
			*dst = &v
		}
	}
	ev.Notes, _ = cmd.Flags().GetString("notes")

	putEvent(cmd, ev)
}

// parseDateFlag reads --date, defaulting to the start of today UTC.
func parseDateFlag(cmd *cobra.Command) time.Time {
	dateStr, _ := cmd.Flags().GetString("date")
	if dateStr == "" {
		return time.Now().UTC().Truncate(24 * time.Hour)
	}
	t, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		exitErr("parse date", err)
	}
	return t
}

// putEvent stores one event for the current user and prints it back.
func putEvent(cmd *cobra.Command, ev model.CoachEvent) {
	cfg := loadConfig()
	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	id, err := s.PutEvent(cmd.Context(), getUser(), ev)
	if err != nil {
		exitErr("put event", err)
	}

	out := map[string]any{"id": id, "kind": ev.Kind(), "event": ev}
	b, _ := json.Marshal(out)
	fmt.Println(string(b))
}
