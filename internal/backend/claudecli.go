package backend

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glintlabs/glint/internal/cliexec"
	"github.com/glintlabs/glint/internal/engine"
	apperrors "github.com/glintlabs/glint/internal/errors"
	"github.com/glintlabs/glint/internal/readiness"
)

// CLIOptions configures the claude CLI backend.
type CLIOptions struct {
	// Command is the binary name or path. Default "claude".
	Command string

	// BaseArgs are prepended to every invocation. Default runs a
	// non-interactive print with plain text output.
	BaseArgs []string

	// Model is the default model when the request does not name one.
	Model string

	// Timeout bounds each individual attempt.
	Timeout time.Duration
}

// ClaudeCLI completes requests by spawning the local claude binary through
// the retry engine. The prompt travels over stdin so shell quoting never
// touches it; screenshots are written to temp files the CLI reads itself.
type ClaudeCLI struct {
	opts    CLIOptions
	engine  *engine.Engine
	checker *readiness.Checker
	log     *slog.Logger
}

// NewClaudeCLI wires the CLI backend. eng is required; a nil checker
// disables Validate and makes Models return nothing.
func NewClaudeCLI(opts CLIOptions, eng *engine.Engine, checker *readiness.Checker, log *slog.Logger) *ClaudeCLI {
	if opts.Command == "" {
		opts.Command = "claude"
	}
	if len(opts.BaseArgs) == 0 {
		opts.BaseArgs = []string{"-p", "--output-format", "text"}
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &ClaudeCLI{opts: opts, engine: eng, checker: checker, log: log}
}

func (c *ClaudeCLI) Name() string { return "claude-cli" }

func (c *ClaudeCLI) Caps() Caps { return Caps{Images: true, Local: true} }

// Validate reports the cached readiness verdict without spawning the CLI
// beyond the checker's own probes.
func (c *ClaudeCLI) Validate(ctx context.Context) error {
	if c.checker == nil {
		return apperrors.NewExecutionError("no readiness checker configured")
	}
	snap := c.checker.Current(ctx)
	if snap.Ready() {
		return nil
	}
	if snap.Err != nil {
		return snap.Err
	}
	return apperrors.NewExecutionError(fmt.Sprintf("%s is not ready", c.opts.Command))
}

// Complete runs one completion through the retry engine.
func (c *ClaudeCLI) Complete(ctx context.Context, req Request) (*Response, error) {
	model := req.Model
	if model == "" {
		model = c.opts.Model
	}

	prompt := req.Prompt
	if len(req.Images) > 0 {
		paths, cleanup, err := writeImageFiles(req.Images)
		if err != nil {
			return nil, apperrors.WrapWithMessage(err, apperrors.Execution, "writing screenshot files")
		}
		defer cleanup()
		prompt = prependImagePaths(prompt, paths)
	}

	args := make([]string, 0, len(c.opts.BaseArgs)+2)
	args = append(args, c.opts.BaseArgs...)
	if model != "" {
		args = append(args, "--model", model)
	}

	build := func(attempt int) cliexec.Invocation {
		return cliexec.Invocation{
			Program: c.opts.Command,
			Args:    args,
			Stdin:   prompt,
			Timeout: c.opts.Timeout,
		}
	}

	res := c.engine.ExecuteWithRetry(ctx, build)
	if !res.Success {
		return nil, res.Err
	}
	if strings.TrimSpace(res.Stdout) == "" {
		return nil, apperrors.EmptyResponse()
	}

	c.log.Debug("cli completion finished",
		"model", model,
		"attempts", res.Attempts,
		"duration", res.Duration,
	)
	return &Response{Text: res.Stdout, Model: model}, nil
}

// Models returns the checker's model list, falling back to an empty slice
// when no checker is wired.
func (c *ClaudeCLI) Models(ctx context.Context) ([]string, error) {
	if c.checker == nil {
		return nil, nil
	}
	snap := c.checker.Current(ctx)
	return snap.Models, nil
}

// writeImageFiles dumps PNG buffers into a fresh temp directory and returns
// the file paths plus a cleanup func that removes the directory.
func writeImageFiles(images [][]byte) ([]string, func(), error) {
	dir, err := os.MkdirTemp("", "glint-shot-")
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { _ = os.RemoveAll(dir) }

	paths := make([]string, 0, len(images))
	for i, img := range images {
		path := filepath.Join(dir, fmt.Sprintf("screenshot-%02d.png", i+1))
		if err := os.WriteFile(path, img, 0o600); err != nil {
			cleanup()
			return nil, nil, err
		}
		paths = append(paths, path)
	}
	return paths, cleanup, nil
}

// prependImagePaths tells the CLI where the screenshots live. The claude
// binary reads files named in the prompt, so a path list is enough.
func prependImagePaths(prompt string, paths []string) string {
	var b strings.Builder
	b.WriteString("Read the following screenshot file(s) before answering:\n")
	for _, p := range paths {
		b.WriteString(p)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	b.WriteString(prompt)
	return b.String()
}
