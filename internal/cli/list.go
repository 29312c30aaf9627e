package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rtlsmith/rtlsmith/internal/scanner"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List past workflow runs",
	Long: `Scans the workflow root directory and prints, for every recorded
run, the spec, the emitted artifacts, and the final status from the
run report.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		runs, err := scanner.NewScanner(log).Scan(cfg.Workflow.RootDir, []string{cfg.Check.OutputFile})
		if err != nil {
			return err
		}

		if len(runs) == 0 {
			fmt.Println("No workflow runs found.")
			return nil
		}
		for _, run := range runs {
			fmt.Printf("%s\n", run.ID)
			if run.Status != "" {
				fmt.Printf("  status:   %s\n", run.Status)
			}
			if run.Spec != "" {
				fmt.Printf("  spec:     %s\n", run.Spec)
			}
			for _, artifact := range run.Artifacts {
				fmt.Printf("  artifact: %s\n", artifact)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
