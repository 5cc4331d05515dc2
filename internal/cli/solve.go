package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/glintlabs/glint/internal/pipeline"
	"github.com/glintlabs/glint/internal/progress"
)

var (
	solveJSON    bool
	solveRaw     bool
	solveProblem string
)

var solveCmd = &cobra.Command{
	Use:   "solve [<screenshot>...]",
	Short: "Extract a problem and generate a solution",
	Long: `Run the full flow: extract the problem from screenshots, then generate
a solution in the configured language. With --problem the extraction step is
skipped and the given text is solved directly.`,
	Example: `  # Extract and solve
  glint solve problem.png

  # Solve a problem given as text
  glint solve --problem "Given an array of ints, find the maximum"

  # Plain output for piping
  glint solve problem.png --raw`,
	GroupID: GroupOperations,
	RunE:    runSolve,
}

func init() {
	solveCmd.Flags().BoolVar(&solveJSON, "json", false, "Emit the result as JSON")
	solveCmd.Flags().BoolVar(&solveRaw, "raw", false, "Print plain text instead of rendered markdown")
	solveCmd.Flags().StringVar(&solveProblem, "problem", "", "Solve this problem text instead of extracting from screenshots")
	rootCmd.AddCommand(solveCmd)
}

func runSolve(cmd *cobra.Command, args []string) error {
	if solveProblem == "" && len(args) == 0 {
		return fmt.Errorf("provide screenshot files or --problem text")
	}

	a, err := buildApp(cmd)
	if err != nil {
		return err
	}

	problem := &pipeline.ProblemStatement{Statement: solveProblem}
	if solveProblem == "" {
		images, err := readScreenshots(args)
		if err != nil {
			return err
		}
		problem, err = a.pipeline.ExtractProblem(cmd.Context(), images)
		if err != nil {
			return err
		}
	}

	solution, err := a.pipeline.GenerateSolution(cmd.Context(), problem)
	if err != nil {
		return err
	}

	if solveJSON {
		return printJSON(cmd, solution)
	}
	printSolution(cmd, a, solution)
	return nil
}

// printSolution renders the solution as markdown on a capable terminal and
// as plain text everywhere else.
func printSolution(cmd *cobra.Command, a *app, sol *pipeline.Solution) {
	md := solutionMarkdown(a.cfg.Language, sol)

	if !solveRaw {
		if rendered, err := renderMarkdown(md); err == nil {
			cmd.Print(rendered)
			return
		}
	}
	cmd.Print(md)
}

func solutionMarkdown(language string, sol *pipeline.Solution) string {
	var b strings.Builder
	if sol.Recovered {
		b.WriteString("_(recovered from unstructured output)_\n\n")
		b.WriteString(sol.Code)
		b.WriteString("\n")
		return b.String()
	}

	fmt.Fprintf(&b, "```%s\n%s\n```\n", language, strings.TrimRight(sol.Code, "\n"))
	if len(sol.Thoughts) > 0 {
		b.WriteString("\n## Approach\n\n")
		for _, th := range sol.Thoughts {
			b.WriteString("- " + th + "\n")
		}
	}
	if sol.TimeComplexity != "" || sol.SpaceComplexity != "" {
		b.WriteString("\n## Complexity\n\n")
		if sol.TimeComplexity != "" {
			b.WriteString("- Time: " + sol.TimeComplexity + "\n")
		}
		if sol.SpaceComplexity != "" {
			b.WriteString("- Space: " + sol.SpaceComplexity + "\n")
		}
	}
	return b.String()
}

// renderMarkdown pretty-prints markdown for the terminal. Falls back to the
// raw text when no TTY is attached.
func renderMarkdown(md string) (string, error) {
	caps := progress.DetectTerminalCapabilities()
	if !caps.IsTTY {
		return "", fmt.Errorf("no terminal attached")
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		return "", err
	}
	return r.Render(md)
}
