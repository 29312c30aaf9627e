package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rtlsmith/rtlsmith/internal/brief"
	"github.com/rtlsmith/rtlsmith/internal/checker"
	"github.com/rtlsmith/rtlsmith/internal/config"
	"github.com/rtlsmith/rtlsmith/internal/llm"
	"github.com/rtlsmith/rtlsmith/internal/pipeline"
	"github.com/rtlsmith/rtlsmith/internal/registry"
	"github.com/rtlsmith/rtlsmith/internal/workflow"
)

var (
	runPrompt     string
	runPromptFile string
	runWorkflowID string
)

var runCmd = &cobra.Command{
	Use:   "run [design request]",
	Short: "Run the generation pipeline once",
	Long: `Sends the design request to the backend, extracts the returned
metadata and code blocks, writes the artifacts into a workflow
directory, and syntax-checks flat designs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		request, err := resolveRequest(args)
		if err != nil {
			return err
		}

		workflowID := runWorkflowID
		if workflowID == "" {
			workflowID = workflow.NewID()
		}

		log.Infof("Starting workflow %s", workflowID)
		return executeRun(cmd.Context(), cfg, workflowID, request)
	},
}

func init() {
	runCmd.Flags().StringVarP(&runPrompt, "prompt", "p", "", "design request text")
	runCmd.Flags().StringVar(&runPromptFile, "prompt-file", "", "brief file with the design request (.md, .adoc, or plain text)")
	runCmd.Flags().StringVar(&runWorkflowID, "workflow-id", "", "workflow identifier (generated when empty)")
	rootCmd.AddCommand(runCmd)
}

// resolveRequest picks the design request from --prompt, --prompt-file,
// or the positional arguments, in that order. Brief files are flattened
// to plain request text before they reach the prompt.
func resolveRequest(args []string) (string, error) {
	if runPrompt != "" {
		return runPrompt, nil
	}
	if runPromptFile != "" {
		return brief.Load(runPromptFile)
	}
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	return "", fmt.Errorf("no design request given: use --prompt, --prompt-file, or positional text")
}

// executeRun wires all collaborators and runs the pipeline.
func executeRun(ctx context.Context, cfg *config.Config, workflowID, request string) error {
	builder, err := llm.NewBuilder(cfg.Backend)
	if err != nil {
		return err
	}

	reg, err := registry.New(cfg.Registry, log)
	if err != nil {
		return err
	}
	defer reg.Close()

	client := llm.NewClient(cfg.Backend, log)
	check := checker.NewChecker(cfg.Check, log)

	runner := pipeline.NewRunner(cfg, client, builder, check, reg, log)
	result, err := runner.Run(ctx, workflowID, request)
	if err != nil {
		return err
	}

	fmt.Printf("Workflow:  %s\n", result.WorkflowID)
	fmt.Printf("Directory: %s\n", result.WorkflowDir)
	fmt.Printf("Spec:      %s\n", result.SpecPath)
	for _, path := range result.ArtifactPaths {
		fmt.Printf("Artifact:  %s\n", path)
	}
	fmt.Printf("Status:    %s\n", result.Status)
	if len(result.InfraErrors) > 0 {
		fmt.Printf("Problems:  %d infrastructure error(s), see the log for details\n", len(result.InfraErrors))
	}
	return nil
}
