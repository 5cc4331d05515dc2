package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/glintlabs/glint/internal/config"
)

var configLocal bool

var configCmd = &cobra.Command{
	Use:     "config",
	Short:   "Inspect and modify the configuration",
	GroupID: GroupConfiguration,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the user config (~/.glint/config.json),
or in the local config with --local. The value is validated against the key's
expected type before writing.`,
	Example: `  # Switch to the hosted anthropic backend
  glint config set backend anthropic

  # Raise the attempt bound for this project only
  glint config set max_attempts 5 --local`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configGetCmd = &cobra.Command{
	Use:   "get [<key>]",
	Short: "Show a configuration value, or all known keys",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigGet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file locations",
	RunE:  runConfigPath,
}

func init() {
	configSetCmd.Flags().BoolVar(&configLocal, "local", false, "Write to the local config instead of the user config")
	configCmd.AddCommand(configSetCmd, configGetCmd, configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func configWritePath(cmd *cobra.Command) (string, error) {
	if configLocal {
		if p, _ := cmd.Flags().GetString("config"); p != "" {
			return p, nil
		}
		return config.LocalConfigPath(), nil
	}
	return config.UserConfigPath()
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	path, err := configWritePath(cmd)
	if err != nil {
		return err
	}
	if err := config.SetConfigValue(path, args[0], args[1]); err != nil {
		return err
	}
	cmd.Printf("%s = %s (%s)\n", args[0], args[1], path)
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	localCfg, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(localCfg)
	if err != nil {
		return err
	}

	effective := effectiveValues(cfg)

	if len(args) == 0 {
		keys := make([]string, 0, len(effective))
		for k := range effective {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			cmd.Printf("%s = %v\n", k, effective[k])
		}
		return nil
	}

	v, ok := effective[args[0]]
	if !ok {
		return fmt.Errorf("unknown configuration key %q", args[0])
	}
	cmd.Printf("%v\n", v)
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	userPath, err := config.UserConfigPath()
	if err != nil {
		return err
	}
	cmd.Printf("user:  %s\n", userPath)
	cmd.Printf("local: %s\n", config.LocalConfigPath())
	return nil
}

// effectiveValues flattens the loaded configuration for display, matching
// the key names accepted by `config set`.
func effectiveValues(cfg *config.Configuration) map[string]any {
	return map[string]any{
		"backend":             cfg.Backend,
		"model":               cfg.Model,
		"language":            cfg.Language,
		"cli_cmd":             cfg.CLICmd,
		"cli_args":            cfg.CLIArgs,
		"min_cli_version":     cfg.MinCLIVersion,
		"api_key_env":         cfg.APIKeyEnv,
		"timeout":             cfg.TimeoutSeconds,
		"max_attempts":        cfg.MaxAttempts,
		"retry_budget_ms":     cfg.RetryBudgetMS,
		"breaker_threshold":   cfg.BreakerThreshold,
		"breaker_cooldown":    cfg.BreakerCooldownSeconds,
		"custom_backend_path": cfg.CustomBackendPath,
		"show_progress":       cfg.ShowProgress,
		"notifications":       cfg.Notifications,
	}
}
