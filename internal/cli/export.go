package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all events for a user as JSONL",
		Run:   runExport,
	}

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	records, err := s.ExportEvents(cmd.Context(), getUser())
	if err != nil {
		exitErr("export", err)
	}

	for _, r := range records {
		b, _ := json.Marshal(r)
		fmt.Println(string(b))
	}
}
