package cli

import (
	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:     "models",
	Short:   "List the models the selected backend can serve",
	GroupID: GroupDiagnostics,
	RunE:    runModels,
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}

func runModels(cmd *cobra.Command, args []string) error {
	a, err := buildApp(cmd)
	if err != nil {
		return err
	}

	models, err := a.backend.Models(cmd.Context())
	if err != nil {
		return err
	}
	if len(models) == 0 {
		cmd.Printf("no models reported by the %s backend\n", a.backend.Name())
		return nil
	}

	for _, m := range models {
		marker := " "
		if m == a.cfg.Model {
			marker = "*"
		}
		cmd.Printf("%s %s\n", marker, m)
	}
	return nil
}
