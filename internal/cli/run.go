package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/coachkit/coachkit/internal/coach"
	"github.com/coachkit/coachkit/internal/loader"
	"github.com/coachkit/coachkit/internal/model"
	"github.com/coachkit/coachkit/internal/promote"
	"github.com/coachkit/coachkit/internal/reply"
)

func init() {
	cmd := &cobra.Command{
		Use:   "run [message]",
		Short: "Run the insight pipeline",
		Long:  "Load the recent event window, detect patterns, promote durable ones to knowledge, and print ranked coaching cards. With a message, also generate a coach reply.",
		Run:   runRun,
	}

	cmd.Flags().Int("window", 0, "Trailing window in days (default from config)")

	RootCmd.AddCommand(cmd)
}

func runRun(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	log := newLogger(cfg.LogLevel)
	defer log.Sync()

	s, err := openStore(cfg)
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	message := strings.Join(args, " ")

	// The generator is only built when there is a message to answer; the
	// pipeline is fully usable offline without an API key.
	var gen reply.Generator
	if message != "" {
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			exitErr("run", fmt.Errorf("GEMINI_API_KEY is required when a message is given"))
		}
		gen, err = reply.NewGeminiGenerator(cmd.Context(), apiKey, cfg.GeminiModel)
		if err != nil {
			exitErr("create generator", err)
		}
	}

	windowDays, _ := cmd.Flags().GetInt("window")
	if windowDays <= 0 {
		windowDays = cfg.WindowDays
	}

	c := coach.New(
		loader.New(s, log),
		promote.New(s, log),
		s,
		gen,
		log,
	)

	result, err := c.Run(cmd.Context(), coach.RunParams{
		UserID:     getUser(),
		Message:    message,
		Now:        time.Now().UTC(),
		WindowDays: windowDays,
	})
	if err != nil {
		exitErr("run", err)
	}

	if result.Cards == nil {
		result.Cards = []model.CoachingCard{}
	}
	b, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(b))
}
