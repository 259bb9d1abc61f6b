package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show database statistics",
		Run:   runStats,
	}

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	st, err := s.Stats(cmd.Context(), cfg.DBPath)
	if err != nil {
		exitErr("stats", err)
	}

	b, _ := json.MarshalIndent(st, "", "  ")
	fmt.Println(string(b))
}
