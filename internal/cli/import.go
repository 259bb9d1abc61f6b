package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/coachkit/coachkit/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import events from JSONL on stdin",
		Long:  "Read one event record per line: {\"user_id\": ..., \"kind\": ..., \"payload\": {...}}. Records without a user_id default to the current user.",
		Run:   runImport,
	}

	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	var records []store.EventRecord
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Bytes()
		if len(text) == 0 {
			continue
		}
		var r store.EventRecord
		if err := json.Unmarshal(text, &r); err != nil {
			exitErr(fmt.Sprintf("parse line %d", line), err)
		}
		if r.UserID == "" {
			r.UserID = getUser()
		}
		records = append(records, r)
	}
	if err := scanner.Err(); err != nil {
		exitErr("read stdin", err)
	}

	cfg := loadConfig()
	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	n, err := s.ImportEvents(cmd.Context(), records)
	if err != nil {
		exitErr("import", err)
	}

	fmt.Printf("{\"imported\": %d}\n", n)
}
