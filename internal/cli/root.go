// Package cli provides the cobra command tree for glint. It defines the
// operation commands (extract, solve, debug), diagnostics (doctor, models),
// and configuration management (config get/set/path, version).
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	apperrors "github.com/glintlabs/glint/internal/errors"
)

// Command group IDs for organizing help output.
const (
	GroupOperations    = "operations"
	GroupDiagnostics   = "diagnostics"
	GroupConfiguration = "configuration"
)

var rootCmd = &cobra.Command{
	Use:   "glint",
	Short: "Resilient inference engine for coding-problem workflows",
	Long: `glint drives an external AI CLI (or a hosted API) through the
extract / solve / debug operations of a coding-problem workflow, with
argument sanitization, retry with backoff, a circuit breaker, and
structured response extraction.`,
	Example: `  # Extract a problem statement from screenshots
  glint extract shot1.png shot2.png

  # Extract and solve in one run
  glint solve shot1.png

  # Debug an existing solution against error screenshots
  glint debug error.png --code-file solution.py

  # Check backend health
  glint doctor`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command with signal-aware cancellation and returns
// the error for exit-code mapping in main.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		if ce := apperrors.AsClassified(err); ce != nil {
			apperrors.PrintError(ce)
		} else {
			rootCmd.PrintErrln("Error:", err)
		}
	}
	return err
}

func init() {
	rootCmd.AddGroup(&cobra.Group{ID: GroupOperations, Title: "Operations:"})
	rootCmd.AddGroup(&cobra.Group{ID: GroupDiagnostics, Title: "Diagnostics:"})
	rootCmd.AddGroup(&cobra.Group{ID: GroupConfiguration, Title: "Configuration:"})

	rootCmd.SetHelpCommandGroupID(GroupConfiguration)
	rootCmd.SetCompletionCommandGroupID(GroupConfiguration)

	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a local config file (default .glint.json)")
	rootCmd.PersistentFlags().String("backend", "", "Override the configured backend")
	rootCmd.PersistentFlags().String("model", "", "Override the configured model")
	rootCmd.PersistentFlags().String("language", "", "Override the configured solution language")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
}
