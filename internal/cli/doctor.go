package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	apperrors "github.com/glintlabs/glint/internal/errors"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check backend installation, authentication, and configuration",
	Long: `Run the readiness probes against the configured backend and report
each registered backend's usability.

Exits 0 when the selected backend is ready and 4 when it is not.`,
	GroupID: GroupDiagnostics,
	RunE:    runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	a, err := buildApp(cmd)
	if err != nil {
		return err
	}

	pass := color.New(color.FgGreen).SprintFunc()
	fail := color.New(color.FgRed).SprintFunc()

	snap := a.checker.Refresh(cmd.Context())

	cmd.Printf("Backend CLI (%s)\n", a.cfg.CLICmd)
	if snap.Installed {
		cmd.Printf("  %s installed (version %s)\n", pass("✓"), snap.Version)
	} else {
		cmd.Printf("  %s not installed\n", fail("✗"))
	}
	if snap.Authenticated {
		cmd.Printf("  %s authenticated (%s)\n", pass("✓"), snap.AuthType)
	} else {
		cmd.Printf("  %s not authenticated\n", fail("✗"))
	}
	if len(snap.Models) > 0 {
		cmd.Printf("  %s models: %v\n", pass("✓"), snap.Models)
	}
	if snap.Err != nil {
		cmd.Println()
		cmd.Print(apperrors.FormatErrorPlain(snap.Err))
	}

	cmd.Println()
	cmd.Println("Backends")
	selectedReady := false
	for _, name := range a.registry.List() {
		b := a.registry.Get(name)
		marker := " "
		if name == a.backend.Name() {
			marker = "*"
		}
		if err := b.Validate(cmd.Context()); err != nil {
			cmd.Printf("  %s %s %s: %v\n", marker, fail("✗"), name, err)
			continue
		}
		cmd.Printf("  %s %s %s\n", marker, pass("✓"), name)
		if name == a.backend.Name() {
			selectedReady = true
		}
	}

	if !selectedReady {
		return NewExitError(ExitNotReady)
	}
	return nil
}
