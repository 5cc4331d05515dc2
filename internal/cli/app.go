package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/glintlabs/glint/internal/backend"
	"github.com/glintlabs/glint/internal/breaker"
	"github.com/glintlabs/glint/internal/cliexec"
	"github.com/glintlabs/glint/internal/config"
	"github.com/glintlabs/glint/internal/engine"
	"github.com/glintlabs/glint/internal/logging"
	"github.com/glintlabs/glint/internal/notify"
	"github.com/glintlabs/glint/internal/pipeline"
	"github.com/glintlabs/glint/internal/progress"
	"github.com/glintlabs/glint/internal/readiness"
)

// app is the fully wired application: configuration, logging, the retry
// engine, the backend registry, and the operation pipeline. Built once per
// command invocation.
type app struct {
	cfg      *config.Configuration
	log      *slog.Logger
	sink     notify.Sink
	display  *progress.Display
	checker  *readiness.Checker
	registry *backend.Registry
	backend  backend.Backend
	pipeline *pipeline.Pipeline
}

// buildApp loads configuration, applies flag overrides, and wires every
// component the commands need.
func buildApp(cmd *cobra.Command) (*app, error) {
	localCfg, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")

	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	log := logging.New(level)

	cfg, err := config.Load(localCfg)
	if err != nil {
		return nil, err
	}
	applyFlagOverrides(cmd, cfg)

	runner := cliexec.NewRunner(log)
	checker := readiness.NewChecker(readiness.Config{
		Command:        cfg.CLICmd,
		MinVersion:     cfg.MinCLIVersion,
		APIKeyEnv:      cfg.APIKeyEnv,
		FallbackModels: []string{"claude-sonnet-4-5", "claude-opus-4-1", "claude-haiku-4-5"},
	}, runner, log)

	a := &app{
		cfg:     cfg,
		log:     log,
		checker: checker,
	}

	var sinks notify.MultiSink
	if cfg.ShowProgress {
		a.display = progress.NewDisplay(progress.DetectTerminalCapabilities())
		sinks = append(sinks, a.display)
	}
	if cfg.Notifications {
		sinks = append(sinks, notify.NewDesktopSink("glint"))
	}
	if len(sinks) == 0 {
		a.sink = notify.NopSink{}
	} else {
		a.sink = sinks
	}

	eng := engine.New(engine.Config{
		Runner:      runner,
		Breaker:     breaker.New(cfg.BreakerThreshold, cfg.BreakerCooldown()),
		Readiness:   checker,
		Sink:        a.sink,
		Log:         log,
		MaxAttempts: cfg.MaxAttempts,
		Budget:      cfg.RetryBudget(),
	})

	a.registry = buildRegistry(cfg, eng, checker, log)
	a.backend, err = selectBackend(a.registry, cfg)
	if err != nil {
		return nil, err
	}

	a.pipeline = pipeline.New(a.backend, pipeline.Options{
		Language: cfg.Language,
		Model:    cfg.Model,
		Sink:     a.sink,
		Log:      log,
	})
	return a, nil
}

// applyFlagOverrides lets --backend/--model/--language trump the loaded
// configuration for one invocation.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Configuration) {
	if v, _ := cmd.Flags().GetString("backend"); v != "" {
		cfg.Backend = v
	}
	if v, _ := cmd.Flags().GetString("model"); v != "" {
		cfg.Model = v
	}
	if v, _ := cmd.Flags().GetString("language"); v != "" {
		cfg.Language = v
	}
}

// buildRegistry registers every backend that can be constructed from the
// configuration. Construction never fails for hosted backends; missing
// credentials surface through Validate.
func buildRegistry(cfg *config.Configuration, eng *engine.Engine, checker *readiness.Checker, log *slog.Logger) *backend.Registry {
	r := backend.NewRegistry()

	r.Register(backend.NewClaudeCLI(backend.CLIOptions{
		Command:  cfg.CLICmd,
		BaseArgs: cfg.CLIArgs,
		Model:    cfg.Model,
		Timeout:  cfg.Timeout(),
	}, eng, checker, log))

	r.Register(backend.NewAnthropic(os.Getenv(cfg.APIKeyEnv), cfg.Model))
	r.Register(backend.NewOpenAI(os.Getenv("OPENAI_API_KEY"), cfg.Model))

	if cfg.CustomBackendPath != "" {
		if custom, err := backend.LoadCustom(cfg.CustomBackendPath); err != nil {
			log.Warn("skipping custom backend", "path", cfg.CustomBackendPath, "err", err)
		} else {
			r.Register(custom)
		}
	}
	return r
}

// selectBackend resolves the configured backend name. "custom" selects the
// backend loaded from custom_backend_path, whatever its own name is.
func selectBackend(r *backend.Registry, cfg *config.Configuration) (backend.Backend, error) {
	name := cfg.Backend
	if name == "custom" {
		if cfg.CustomBackendPath == "" {
			return nil, fmt.Errorf("backend is %q but custom_backend_path is not set", name)
		}
		for _, registered := range r.List() {
			switch registered {
			case "claude-cli", "anthropic", "openai":
			default:
				return r.Get(registered), nil
			}
		}
		return nil, fmt.Errorf("the custom backend definition at %s could not be loaded", cfg.CustomBackendPath)
	}

	b := r.Get(name)
	if b == nil {
		return nil, fmt.Errorf("unknown backend %q (known: %v)", name, r.List())
	}
	return b, nil
}

// readScreenshots loads the screenshot files named on the command line.
func readScreenshots(paths []string) ([][]byte, error) {
	images := make([][]byte, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("reading screenshot %s: %w", p, err)
		}
		images = append(images, data)
	}
	return images, nil
}
