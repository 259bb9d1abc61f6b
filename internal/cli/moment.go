package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/coachkit/coachkit/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "moment [label]",
		Short: "Record an emotional or relational moment",
		Args:  cobra.MinimumNArgs(1),
		Run:   runMoment,
	}

	cmd.Flags().String("date", "", "Entry date YYYY-MM-DD (default: today)")
	cmd.Flags().String("category", "", "Category: stress, relational, ...")
	cmd.Flags().Int("intensity", 0, "Intensity 1-5")
	cmd.Flags().String("context", "", "Where or with whom it happened")
	cmd.Flags().String("transcript", "", "Voice transcript, if any")

	RootCmd.AddCommand(cmd)
}

func runMoment(cmd *cobra.Command, args []string) {
	ev := model.Moment{
		EntryDate: parseDateFlag(cmd),
		Label:     strings.Join(args, " "),
	}
	ev.Category, _ = cmd.Flags().GetString("category")
	ev.Context, _ = cmd.Flags().GetString("context")
	ev.VoiceTranscript, _ = cmd.Flags().GetString("transcript")
	if v, _ := cmd.Flags().GetInt("intensity"); v > 0 {
		ev.Intensity = &v
	}

	putEvent(cmd, ev)
}
