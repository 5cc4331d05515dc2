package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/glintlabs/glint/internal/pipeline"
)

var (
	debugJSON     bool
	debugRaw      bool
	debugCodeFile string
	debugProblem  string
)

var debugCmd = &cobra.Command{
	Use:   "debug [<screenshot>...]",
	Short: "Debug an existing solution",
	Long: `Generate a corrected solution from the current code and optional error
screenshots. The code is read from --code-file, or from stdin when the flag
is omitted.`,
	Example: `  # Debug against error screenshots
  glint debug error.png --code-file solution.py

  # Pipe the current code over stdin
  cat solution.py | glint debug error.png

  # Provide the problem context explicitly
  glint debug --code-file solution.py --problem "Find the maximum"`,
	GroupID: GroupOperations,
	RunE:    runDebug,
}

func init() {
	debugCmd.Flags().BoolVar(&debugJSON, "json", false, "Emit the result as JSON")
	debugCmd.Flags().BoolVar(&debugRaw, "raw", false, "Print plain text instead of rendered markdown")
	debugCmd.Flags().StringVar(&debugCodeFile, "code-file", "", "File holding the current solution code")
	debugCmd.Flags().StringVar(&debugProblem, "problem", "", "Problem text the solution is for")
	rootCmd.AddCommand(debugCmd)
}

func runDebug(cmd *cobra.Command, args []string) error {
	code, err := readCode(cmd)
	if err != nil {
		return err
	}

	a, err := buildApp(cmd)
	if err != nil {
		return err
	}

	images, err := readScreenshots(args)
	if err != nil {
		return err
	}

	var problem *pipeline.ProblemStatement
	if debugProblem != "" {
		problem = &pipeline.ProblemStatement{Statement: debugProblem}
	}

	result, err := a.pipeline.DebugSolution(cmd.Context(), problem, code, images)
	if err != nil {
		return err
	}

	if debugJSON {
		return printJSON(cmd, result)
	}
	solveRaw = debugRaw
	printSolution(cmd, a, &result.Solution)
	return nil
}

// readCode loads the current solution from --code-file or stdin.
func readCode(cmd *cobra.Command) (string, error) {
	if debugCodeFile != "" {
		data, err := os.ReadFile(debugCodeFile)
		if err != nil {
			return "", fmt.Errorf("reading code file: %w", err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("reading code from stdin: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("no code provided: use --code-file or pipe the code over stdin")
	}
	return string(data), nil
}
