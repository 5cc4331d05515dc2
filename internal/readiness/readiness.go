// Package readiness caches the external backend CLI's installation,
// authentication, and model-availability status so callers can fail fast
// without spawning a process. Detection is read-only: it looks at PATH, a
// version probe, the CLI's credential file, and environment variables, and
// never performs a network round-trip.
package readiness

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/glintlabs/glint/internal/cliexec"
	apperrors "github.com/glintlabs/glint/internal/errors"
)

// probeTimeout bounds each individual probe subprocess.
const probeTimeout = 5 * time.Second

// AuthType is the detected authentication method.
type AuthType string

const (
	// AuthOAuth means a credential file with an access token was found.
	AuthOAuth AuthType = "oauth"
	// AuthAPIKey means the provider API key environment variable is set.
	AuthAPIKey AuthType = "api-key"
	// AuthNone means no usable credentials were detected.
	AuthNone AuthType = "none"
)

// Snapshot is the cached readiness state. An invocation is only attempted
// when Installed && Authenticated.
type Snapshot struct {
	Installed     bool
	Version       string
	Authenticated bool
	AuthType      AuthType
	Models        []string
	LastChecked   time.Time
	Err           *apperrors.ClassifiedError
}

// Ready reports whether the backend can be invoked.
func (s Snapshot) Ready() bool {
	return s.Installed && s.Authenticated && s.Err == nil
}

// Config holds the probe knobs for one backend CLI.
type Config struct {
	// Command is the CLI binary name (e.g. "claude").
	Command string

	// VersionFlag is the version-probe flag (default "--version").
	VersionFlag string

	// MinVersion gates compatibility; empty accepts every version.
	MinVersion string

	// APIKeyEnv is the environment variable consulted by the
	// authentication probe (e.g. "ANTHROPIC_API_KEY").
	APIKeyEnv string

	// CredentialsPath overrides the default credential file location
	// (~/.<command>/.credentials.json). Used by tests.
	CredentialsPath string

	// ModelArgs, when set, runs the CLI with these arguments and parses
	// one model name per output line. When empty the probe is skipped
	// and FallbackModels is used directly.
	ModelArgs []string

	// FallbackModels is the hardcoded compatible-model list used when
	// the model probe fails or is not configured.
	FallbackModels []string
}

// Checker performs the staged readiness probes and caches the result.
type Checker struct {
	cfg    Config
	runner *cliexec.Runner
	log    *slog.Logger

	mu       sync.Mutex
	snapshot *Snapshot

	// Swappable for tests.
	lookPath func(string) (string, error)
	now      func() time.Time
}

// NewChecker creates a Checker. A nil runner gets a default one.
func NewChecker(cfg Config, runner *cliexec.Runner, log *slog.Logger) *Checker {
	if cfg.VersionFlag == "" {
		cfg.VersionFlag = "--version"
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if runner == nil {
		runner = cliexec.NewRunner(log)
	}
	return &Checker{
		cfg:      cfg,
		runner:   runner,
		log:      log,
		lookPath: exec.LookPath,
		now:      time.Now,
	}
}

// Current returns the cached snapshot, refreshing lazily on first use.
func (c *Checker) Current(ctx context.Context) Snapshot {
	c.mu.Lock()
	cached := c.snapshot
	c.mu.Unlock()

	if cached != nil {
		return *cached
	}
	return c.Refresh(ctx)
}

// Refresh re-runs the probes in order -- installation, authentication,
// model list -- with each stage short-circuiting the next on failure, and
// replaces the cached snapshot. Call it after a configuration change or an
// explicit user retry.
func (c *Checker) Refresh(ctx context.Context) Snapshot {
	snap := c.probe(ctx)
	snap.LastChecked = c.now()

	c.mu.Lock()
	c.snapshot = &snap
	c.mu.Unlock()

	c.log.Debug("readiness refreshed",
		"installed", snap.Installed,
		"authenticated", snap.Authenticated,
		"version", snap.Version,
		"models", len(snap.Models),
	)
	return snap
}

func (c *Checker) probe(ctx context.Context) Snapshot {
	var snap Snapshot

	// Stage 1: installation.
	if _, err := c.lookPath(c.cfg.Command); err != nil {
		snap.AuthType = AuthNone
		snap.Err = apperrors.CLINotFound(c.cfg.Command)
		return snap
	}
	snap.Installed = true
	snap.Version = c.probeVersion(ctx)

	if !Compatible(snap.Version, c.cfg.MinVersion) {
		snap.AuthType = AuthNone
		snap.Err = apperrors.VersionIncompatible(snap.Version, c.cfg.MinVersion)
		return snap
	}

	// Stage 2: authentication.
	snap.AuthType = c.probeAuth()
	if snap.AuthType == AuthNone {
		snap.Err = apperrors.NotAuthenticated(c.cfg.Command)
		return snap
	}
	snap.Authenticated = true

	// Stage 3: model list, never fatal.
	snap.Models = c.probeModels(ctx)
	return snap
}

// probeVersion runs the version query with its own timeout. A failing probe
// degrades to "unknown" rather than flipping Installed back off.
func (c *Checker) probeVersion(ctx context.Context) string {
	result := c.runner.Run(ctx, cliexec.Invocation{
		Program: c.cfg.Command,
		Args:    []string{c.cfg.VersionFlag},
		Timeout: probeTimeout,
	})
	if !result.Success || strings.TrimSpace(result.Stdout) == "" {
		return "unknown"
	}
	return strings.TrimSpace(result.Stdout)
}

// probeAuth checks the credential file first, then the API key variable.
// Presence of a credential file with an access token is sufficient: the CLI
// refreshes its own tokens, so expiry is not checked.
func (c *Checker) probeAuth() AuthType {
	if c.readAccessToken() != "" {
		return AuthOAuth
	}
	if c.cfg.APIKeyEnv != "" && os.Getenv(c.cfg.APIKeyEnv) != "" {
		return AuthAPIKey
	}
	return AuthNone
}

// credentialFile mirrors the CLI's internal credential layout. Only the
// fields needed here are declared; the format is undocumented and may
// change, so every read degrades gracefully.
type credentialFile struct {
	OAuth *struct {
		AccessToken string `json:"accessToken,omitempty"`
	} `json:"claudeAiOauth,omitempty"`
}

func (c *Checker) readAccessToken() string {
	path := c.cfg.CredentialsPath
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		path = filepath.Join(home, "."+c.cfg.Command, ".credentials.json")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	var creds credentialFile
	if err := json.Unmarshal(data, &creds); err != nil {
		return ""
	}
	if creds.OAuth == nil {
		return ""
	}
	return creds.OAuth.AccessToken
}

// probeModels asks the CLI for its model list when configured, falling back
// to the hardcoded compatible list on any failure.
func (c *Checker) probeModels(ctx context.Context) []string {
	if len(c.cfg.ModelArgs) == 0 {
		return append([]string(nil), c.cfg.FallbackModels...)
	}

	result := c.runner.Run(ctx, cliexec.Invocation{
		Program: c.cfg.Command,
		Args:    c.cfg.ModelArgs,
		Timeout: probeTimeout,
	})
	if !result.Success {
		c.log.Warn("model probe failed, using fallback list", "error", result.Err)
		return append([]string(nil), c.cfg.FallbackModels...)
	}

	var models []string
	for _, line := range strings.Split(result.Stdout, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			models = append(models, line)
		}
	}
	if len(models) == 0 {
		return append([]string(nil), c.cfg.FallbackModels...)
	}
	return models
}
