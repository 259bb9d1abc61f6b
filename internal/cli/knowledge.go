package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "knowledge",
		Short: "List promoted knowledge for a user",
		Run:   runKnowledge,
	}

	cmd.Flags().IntP("limit", "l", 20, "Max results")

	RootCmd.AddCommand(cmd)
}

func runKnowledge(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")

	cfg := loadConfig()
	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	items, err := s.ListKnowledge(cmd.Context(), getUser(), limit)
	if err != nil {
		exitErr("list knowledge", err)
	}

	b, _ := json.MarshalIndent(items, "", "  ")
	fmt.Println(string(b))
}
