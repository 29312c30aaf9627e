package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rtlsmith/rtlsmith/internal/analyze"
	"github.com/rtlsmith/rtlsmith/internal/llm"
)

var slotsSpecFile string

var slotsCmd = &cobra.Command{
	Use:   "slots",
	Short: "Ask the backend which spec fields still need answers",
	Long: `Reads a normalized spec JSON file and asks the backend for the
minimal set of missing or ambiguous fields the user must fill in.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if slotsSpecFile == "" {
			return fmt.Errorf("no spec file given: use --spec-file")
		}
		content, err := os.ReadFile(slotsSpecFile)
		if err != nil {
			return fmt.Errorf("failed to read spec file: %w", err)
		}

		var spec map[string]any
		if err := json.Unmarshal(content, &spec); err != nil {
			return fmt.Errorf("spec file is not a JSON object: %w", err)
		}

		client := llm.NewClient(cfg.Backend, log)
		detector := analyze.NewDetector(client, log)
		slots, err := detector.DetectMissingSlots(cmd.Context(), spec)
		if err != nil {
			return err
		}

		if len(slots) == 0 {
			fmt.Println("No missing fields detected.")
			return nil
		}
		for _, slot := range slots {
			fmt.Printf("%s (%s): %s\n", slot.Path, slot.Type, slot.Ask)
			if len(slot.Options) > 0 {
				fmt.Printf("  options: %s\n", strings.Join(slot.Options, ", "))
			}
		}
		return nil
	},
}

func init() {
	slotsCmd.Flags().StringVar(&slotsSpecFile, "spec-file", "", "normalized spec JSON file to analyze")
	rootCmd.AddCommand(slotsCmd)
}
