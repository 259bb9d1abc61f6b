package cli

import (
	"github.com/spf13/cobra"

	"github.com/coachkit/coachkit/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "reflect",
		Short: "Record an evening reflection",
		Run:   runReflect,
	}

	cmd.Flags().String("date", "", "Entry date YYYY-MM-DD (default: today)")
	cmd.Flags().String("highlights", "", "What went well")
	cmd.Flags().String("challenges", "", "What was hard")
	cmd.Flags().String("relational", "", "Notable interactions")
	cmd.Flags().Int("authenticity", 0, "How much you felt like yourself, 1-5")
	cmd.Flags().String("tomorrow", "", "Focus for tomorrow")

	RootCmd.AddCommand(cmd)
}

func runReflect(cmd *cobra.Command, args []string) {
	ev := model.EveningReflection{EntryDate: parseDateFlag(cmd)}
	ev.Highlights, _ = cmd.Flags().GetString("highlights")
	ev.Challenges, _ = cmd.Flags().GetString("challenges")
	ev.Relational, _ = cmd.Flags().GetString("relational")
	ev.TomorrowFocus, _ = cmd.Flags().GetString("tomorrow")
	if v, _ := cmd.Flags().GetInt("authenticity"); v > 0 {
		ev.AuthenticityScore = &v
	}

	putEvent(cmd, ev)
}
