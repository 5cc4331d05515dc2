package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glintlabs/glint/internal/pipeline"
)

var extractJSON bool

var extractCmd = &cobra.Command{
	Use:   "extract <screenshot>...",
	Short: "Extract a problem statement from screenshots",
	Long: `Extract the problem statement, constraints, and examples from one or
more screenshot files using the configured backend.`,
	Example: `  # Extract from a single screenshot
  glint extract problem.png

  # Multi-page problems
  glint extract page1.png page2.png

  # Machine-readable output
  glint extract problem.png --json`,
	Args:    cobra.MinimumNArgs(1),
	GroupID: GroupOperations,
	RunE:    runExtract,
}

func init() {
	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "Emit the result as JSON")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	a, err := buildApp(cmd)
	if err != nil {
		return err
	}

	images, err := readScreenshots(args)
	if err != nil {
		return err
	}

	problem, err := a.pipeline.ExtractProblem(cmd.Context(), images)
	if err != nil {
		return err
	}

	if extractJSON {
		return printJSON(cmd, problem)
	}
	printProblem(cmd, problem)
	return nil
}

func printProblem(cmd *cobra.Command, p *pipeline.ProblemStatement) {
	if p.Recovered {
		cmd.Println("(recovered from unstructured output)")
		cmd.Println()
	}
	cmd.Println(p.Render())
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
