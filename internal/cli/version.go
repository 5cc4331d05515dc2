package cli

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/glintlabs/glint/internal/build"
)

var versionPlain bool

var versionCmd = &cobra.Command{
	Use:     "version",
	Aliases: []string{"v"},
	Short:   "Display version information (v)",
	GroupID: GroupConfiguration,
	Run: func(cmd *cobra.Command, args []string) {
		if versionPlain {
			cmd.Printf("glint %s\n", build.Version)
			return
		}
		cmd.Printf("glint %s\n", build.Version)
		cmd.Printf("  commit:   %s\n", build.Commit)
		cmd.Printf("  built:    %s\n", build.BuildDate)
		cmd.Printf("  go:       %s\n", runtime.Version())
		cmd.Printf("  platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionPlain, "plain", false, "Print only the version number")
	rootCmd.AddCommand(versionCmd)
}
